package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taskdeck/apiserver/internal/auth"
	"github.com/taskdeck/apiserver/internal/services"
	"github.com/taskdeck/apiserver/internal/store"
)

// AuthHandler provides registration and token endpoints.
type AuthHandler struct {
	userService *services.UserService
	issuer      *auth.TokenIssuer
}

func NewAuthHandler(userService *services.UserService, issuer *auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{userService: userService, issuer: issuer}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, userService *services.UserService, issuer *auth.TokenIssuer) {
	handler := NewAuthHandler(userService, issuer)

	r.Post("/register", handler.Register)
	r.Post("/token", handler.Token)
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a new user account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.userService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		var ve *services.ValidationError
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			writeError(w, http.StatusBadRequest, "username taken")
		case errors.Is(err, services.ErrEmailTaken):
			writeError(w, http.StatusBadRequest, "email taken")
		case errors.As(err, &ve):
			writeError(w, http.StatusUnprocessableEntity, ve.Message)
		case errors.Is(err, store.ErrConflict):
			// Lost a race with a concurrent registration.
			writeError(w, http.StatusBadRequest, "username or email taken")
		default:
			writeError(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	writeJSON(w, http.StatusOK, RegisterResponse{
		Message:  "User registered successfully",
		Username: user.Username,
	})
}

// Token verifies form-encoded credentials and returns a bearer token whose
// subject is the stored username.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.userService.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, "incorrect username or password")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to authenticate")
		return
	}

	token, err := h.issuer.Issue(user.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}
