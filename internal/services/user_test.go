package services

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/apiserver/config"
	"github.com/taskdeck/apiserver/internal/db"
	"github.com/taskdeck/apiserver/internal/store"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(context.Background(), config.Config{DatabaseURL: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func newUserService(t *testing.T) *UserService {
	t.Helper()
	return NewUserService(store.NewUserRepository(newTestDB(t)))
}

func TestRegisterNormalizesUsername(t *testing.T) {
	svc := newUserService(t)

	user, err := svc.Register(context.Background(), "Alice", "a@x.com", "abcd1234")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "abcd1234", user.PasswordHash)
	assert.Nil(t, user.FullName)
}

func TestRegisterDuplicateUsernameCaseInsensitive(t *testing.T) {
	svc := newUserService(t)

	_, err := svc.Register(context.Background(), "Alice", "a@x.com", "abcd1234")
	require.NoError(t, err)

	// Different email, same username modulo case.
	_, err = svc.Register(context.Background(), "ALICE", "b@x.com", "abcd1234")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newUserService(t)

	_, err := svc.Register(context.Background(), "alice", "a@x.com", "abcd1234")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "bob", "a@x.com", "abcd1234")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterPasswordRules(t *testing.T) {
	svc := newUserService(t)

	cases := []struct {
		name     string
		password string
		message  string
	}{
		{"too short", "ab1", "password must be at least 8 characters"},
		{"too long", strings.Repeat("a1", 40), "password must be at most 72 characters"},
		{"no letter", "12345678", "password must contain at least one letter"},
		{"no digit", "abcdefgh", "password must contain at least one digit"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), "alice", "a@x.com", tc.password)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "password", ve.Field)
			assert.Equal(t, tc.message, ve.Message)
		})
	}
}

func TestRegisterRejectsBadEmail(t *testing.T) {
	svc := newUserService(t)

	for _, email := range []string{"", "not-an-email", "a@", "Alice <a@x.com>"} {
		_, err := svc.Register(context.Background(), "alice", email, "abcd1234")
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, "email %q", email)
		assert.Equal(t, "email", ve.Field)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newUserService(t)

	_, err := svc.Register(context.Background(), "Alice", "a@x.com", "abcd1234")
	require.NoError(t, err)

	// Case-insensitive login.
	user, err := svc.Authenticate(context.Background(), "ALICE", "abcd1234")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestAuthenticateOpaqueFailure(t *testing.T) {
	svc := newUserService(t)

	_, err := svc.Register(context.Background(), "alice", "a@x.com", "abcd1234")
	require.NoError(t, err)

	// Wrong password and unknown user yield the identical error.
	_, wrongPass := svc.Authenticate(context.Background(), "alice", "wrongpass1")
	_, unknown := svc.Authenticate(context.Background(), "nobody", "abcd1234")
	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestUpdateProfilePartial(t *testing.T) {
	svc := newUserService(t)

	user, err := svc.Register(context.Background(), "alice", "a@x.com", "abcd1234")
	require.NoError(t, err)

	fullName := "Alice Example"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, ProfileUpdate{FullName: &fullName})
	require.NoError(t, err)
	require.NotNil(t, updated.FullName)
	assert.Equal(t, fullName, *updated.FullName)
	assert.Nil(t, updated.Bio)

	bio := "I make lists."
	updated, err = svc.UpdateProfile(context.Background(), user.ID, ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	require.NotNil(t, updated.FullName, "earlier fields survive later patches")
	require.NotNil(t, updated.Bio)
}

func TestUpdateAvatar(t *testing.T) {
	svc := newUserService(t)

	user, err := svc.Register(context.Background(), "alice", "a@x.com", "abcd1234")
	require.NoError(t, err)

	updated, err := svc.UpdateAvatar(context.Background(), user.ID, "image/png", []byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	require.NotNil(t, updated.ProfileImage)
	assert.True(t, strings.HasPrefix(*updated.ProfileImage, "data:image/png;base64,"))

	_, err = svc.UpdateAvatar(context.Background(), user.ID, "image/gif", []byte("gif"))
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}
