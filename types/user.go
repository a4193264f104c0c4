package types

import "time"

// User represents an account in the system.
// Each user owns zero or more tasks.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Username is the unique login name chosen by the user. It is
	// lowercased at registration and compared case-insensitively.
	Username string `json:"username" db:"username"`

	// Email is the user's email address, unique across all users.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// FullName is the user's optional display name.
	FullName *string `json:"full_name" db:"full_name"`

	// JobTitle is the user's optional job title.
	JobTitle *string `json:"job_title" db:"job_title"`

	// Bio is an optional free-form description.
	Bio *string `json:"bio" db:"bio"`

	// Website is an optional personal URL.
	Website *string `json:"website" db:"website"`

	// ProfileImage holds the avatar as a self-contained data URI
	// (data:<mime>;base64,...), or nil when no avatar is set.
	ProfileImage *string `json:"profile_image" db:"profile_image"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
