package courses

import (
	"errors"
	"strings"
	"time"

	"go-courses-api/internal/core/domain/validation"
)

var (
	// ErrNotFound is returned when no course has the requested id.
	ErrNotFound = errors.New("course not found")
	// ErrForbidden is returned when the caller does not own the course.
	ErrForbidden = errors.New("forbidden: you do not own this course")
)

// Owner is the public projection of the user owning a course.
type Owner struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
}

// Course is a course record with its owner joined in.
type Course struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	EstimatedTime   *string   `json:"estimatedTime"`
	MaterialsNeeded *string   `json:"materialsNeeded"`
	UserID          int64     `json:"userId"`
	Owner           Owner     `json:"owner"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Input is the client payload for create and update.
// Ownership is never read from it.
type Input struct {
	Title           string  `json:"title" validate:"required"`
	Description     string  `json:"description" validate:"required"`
	EstimatedTime   *string `json:"estimatedTime"`
	MaterialsNeeded *string `json:"materialsNeeded"`
}

var inputMessages = validation.Messages{
	"title.required":       "Title is required",
	"description.required": "Description is required",
}

// Normalize trims the required text fields.
func (in Input) Normalize() Input {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

// Validate checks the rule table and reports every failure.
func (in Input) Validate() error {
	return validation.Struct(in, inputMessages)
}

// Apply copies the editable fields of in onto c.
func (c Course) Apply(in Input) Course {
	c.Title = in.Title
	c.Description = in.Description
	c.EstimatedTime = in.EstimatedTime
	c.MaterialsNeeded = in.MaterialsNeeded
	return c
}

// OwnedBy reports whether userID owns the course.
func (c Course) OwnedBy(userID int64) bool {
	return c.UserID == userID
}
