package services

import "errors"

// ErrUsernameTaken is returned when the normalized username is already
// registered.
var ErrUsernameTaken = errors.New("username taken")

// ErrEmailTaken is returned when the email is already registered.
var ErrEmailTaken = errors.New("email taken")

// ErrInvalidCredentials is the uniform authentication failure. It never
// reveals whether the username or the password was wrong.
var ErrInvalidCredentials = errors.New("incorrect username or password")

// ValidationError reports a specific input rule violation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
