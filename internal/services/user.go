package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"github.com/taskdeck/apiserver/internal/auth"
	"github.com/taskdeck/apiserver/internal/store"
	"github.com/taskdeck/apiserver/types"
)

const minPasswordLength = 8

// bcrypt only hashes the first 72 bytes and rejects longer input.
const maxPasswordLength = 72

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, user types.User) (types.User, error)
}

// UserService encapsulates registration, authentication, and profile
// use-cases.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// NormalizeUsername lowercases a username for storage and comparison.
// Usernames are case-insensitive identities.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Register creates a new account. Username and email must be unique; the
// two checks are reported with distinct messages. The password must be at
// least 8 characters with at least one letter and one digit.
func (s *UserService) Register(ctx context.Context, username, email, password string) (types.User, error) {
	username = NormalizeUsername(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return types.User{}, newValidationError("username", "username cannot be empty")
	}
	if err := validateEmail(email); err != nil {
		return types.User{}, err
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return types.User{}, ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, fmt.Errorf("check username: %w", err)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return types.User{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, fmt.Errorf("check email: %w", err)
	}

	if err := validatePassword(password); err != nil {
		return types.User{}, err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return types.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, types.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
	})
	if err != nil {
		return types.User{}, err
	}
	return user, nil
}

// Authenticate verifies a username/password pair. Unknown user and wrong
// password produce the identical ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (types.User, error) {
	user, err := s.repo.GetByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return types.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (types.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// ProfileUpdate carries optional profile fields. Nil fields are left
// unchanged.
type ProfileUpdate struct {
	FullName *string
	JobTitle *string
	Bio      *string
	Website  *string
}

// UpdateProfile applies the supplied profile fields to the user.
func (s *UserService) UpdateProfile(ctx context.Context, userID int, patch ProfileUpdate) (types.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return types.User{}, err
	}

	if patch.FullName != nil {
		user.FullName = patch.FullName
	}
	if patch.JobTitle != nil {
		user.JobTitle = patch.JobTitle
	}
	if patch.Bio != nil {
		user.Bio = patch.Bio
	}
	if patch.Website != nil {
		user.Website = patch.Website
	}

	return s.repo.Update(ctx, user)
}

var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// UpdateAvatar stores the uploaded image inline as a data URI on the user
// row. Only JPEG and PNG are accepted.
func (s *UserService) UpdateAvatar(ctx context.Context, userID int, contentType string, data []byte) (types.User, error) {
	if !allowedAvatarTypes[contentType] {
		return types.User{}, newValidationError("file", "only JPEG and PNG images are allowed")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return types.User{}, err
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))
	user.ProfileImage = &dataURI

	return s.repo.Update(ctx, user)
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return newValidationError("email", "invalid email address")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return newValidationError("password", "password must be at least 8 characters")
	}
	if len(password) > maxPasswordLength {
		return newValidationError("password", "password must be at most 72 characters")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter {
		return newValidationError("password", "password must contain at least one letter")
	}
	if !hasDigit {
		return newValidationError("password", "password must contain at least one digit")
	}
	return nil
}
