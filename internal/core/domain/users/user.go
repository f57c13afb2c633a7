package users

import (
	"errors"
	"strings"
	"time"

	"go-courses-api/internal/core/domain/validation"
)

var (
	// ErrInvalidCredentials is the only authentication failure callers see.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingCredentials, ErrUnknownEmail and ErrPasswordMismatch wrap
	// ErrInvalidCredentials so logs can name the cause.
	ErrMissingCredentials = errors.Join(ErrInvalidCredentials, errors.New("auth header not found"))
	ErrUnknownEmail       = errors.Join(ErrInvalidCredentials, errors.New("user not found"))
	ErrPasswordMismatch   = errors.Join(ErrInvalidCredentials, errors.New("password mismatch"))

	// ErrNotFound is returned by repositories when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrEmailInUse is returned by repositories on a unique violation.
	ErrEmailInUse = errors.New("email address already in use")
)

const (
	// MsgEmailInUse is the client-facing message for a duplicate email.
	MsgEmailInUse = "Email address already in use!"
	// MsgPasswordTooLong mirrors bcrypt's 72 byte input limit.
	MsgPasswordTooLong = "Password must be at most 72 characters"
)

// User is a registered account. PasswordHash never leaves the process.
type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	EmailAddress string    `json:"emailAddress"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// SignUp is the payload for creating a user.
type SignUp struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	EmailAddress string `json:"emailAddress" validate:"required,email"`
	Password     string `json:"password" validate:"required,max=72"`
}

var signUpMessages = validation.Messages{
	"firstName.required":    "First Name is required",
	"lastName.required":     "Last Name is required",
	"emailAddress.required": "Email address is required",
	"emailAddress.email":    "A valid email address is required",
	"password.required":     "Password is required",
	"password.max":          MsgPasswordTooLong,
}

// Normalize trims the text fields. The password is taken as given.
func (s SignUp) Normalize() SignUp {
	s.FirstName = strings.TrimSpace(s.FirstName)
	s.LastName = strings.TrimSpace(s.LastName)
	s.EmailAddress = strings.TrimSpace(s.EmailAddress)
	return s
}

// Validate checks the rule table and reports every failure.
func (s SignUp) Validate() error {
	return validation.Struct(s, signUpMessages)
}
