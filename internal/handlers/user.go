package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taskdeck/apiserver/internal/services"
	"github.com/taskdeck/apiserver/internal/store"
)

// 2 MiB is plenty for an inline avatar stored as a data URI.
const maxAvatarBytes = 2 << 20

// UserHandler provides profile endpoints for the authenticated user.
type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserRouter registers /users routes on the given router. All routes
// require authentication.
func UserRouter(r chi.Router, userService *services.UserService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewUserHandler(userService)

	r.Use(authMiddleware)
	r.Get("/me", handler.Me)
	r.Patch("/me", handler.UpdateMe)
	r.Post("/me/avatar", handler.UploadAvatar)
}

type UserUpdateRequest struct {
	FullName *string `json:"full_name"`
	JobTitle *string `json:"job_title"`
	Bio      *string `json:"bio"`
	Website  *string `json:"website"`
}

// Me returns the current authenticated user.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r.Context())
	if err != nil {
		unauthorized(w)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateMe applies a partial profile update to the current user.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r.Context())
	if err != nil {
		unauthorized(w)
		return
	}

	var req UserUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user.ID, services.ProfileUpdate{
		FullName: req.FullName,
		JobTitle: req.JobTitle,
		Bio:      req.Bio,
		Website:  req.Website,
	})
	if err != nil {
		// The account vanished after token resolution; fail like any
		// other unauthenticated request.
		if errors.Is(err, store.ErrNotFound) {
			unauthorized(w)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// UploadAvatar accepts a multipart image upload and stores it inline on the
// user record as a data URI.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r.Context())
	if err != nil {
		unauthorized(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	updated, err := h.userService.UpdateAvatar(r.Context(), user.ID, header.Header.Get("Content-Type"), data)
	if err != nil {
		var ve *services.ValidationError
		switch {
		case errors.As(err, &ve):
			writeError(w, http.StatusBadRequest, ve.Message)
		case errors.Is(err, store.ErrNotFound):
			unauthorized(w)
		default:
			writeError(w, http.StatusInternalServerError, "failed to store avatar")
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}
