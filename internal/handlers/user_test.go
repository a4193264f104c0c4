package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/apiserver/config"
	"github.com/taskdeck/apiserver/internal/db"
	"github.com/taskdeck/apiserver/internal/services"
	"github.com/taskdeck/apiserver/internal/store"
	"github.com/taskdeck/apiserver/types"
)

// A user whose account vanished after token resolution must get the same
// 401 as any other unauthenticated request, not a server error.
func TestUpdateMeVanishedUserIsUnauthorized(t *testing.T) {
	conn, err := db.Open(context.Background(), config.Config{DatabaseURL: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	handler := NewUserHandler(services.NewUserService(store.NewUserRepository(conn)))

	ghost := types.User{ID: 999, Username: "ghost"}
	req := httptest.NewRequest(http.MethodPatch, "/users/me", strings.NewReader(`{"full_name":"Ghost"}`))
	req = req.WithContext(context.WithValue(req.Context(), contextUserKey, ghost))

	rec := httptest.NewRecorder()
	handler.UpdateMe(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.Contains(t, rec.Body.String(), "could not validate credentials")
}
