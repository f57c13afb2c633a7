package courses

import (
	"errors"
	"testing"

	"go-courses-api/internal/core/domain/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestInput_Validate(t *testing.T) {
	tests := []struct {
		name     string
		input    Input
		messages []string
	}{
		{
			name:  "valid",
			input: Input{Title: "Go", Description: "Learn Go", EstimatedTime: strPtr("2h")},
		},
		{
			name:     "missing both",
			input:    Input{},
			messages: []string{"Title is required", "Description is required"},
		},
		{
			name:     "blank title",
			input:    Input{Title: "  ", Description: "ok"}.Normalize(),
			messages: []string{"Title is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.messages == nil {
				assert.NoError(t, err)
				return
			}
			var vErr *validation.Error
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.messages, vErr.Messages)
		})
	}
}

func TestCourse_Apply(t *testing.T) {
	c := Course{ID: 7, UserID: 3, Title: "Old", Description: "Old desc", MaterialsNeeded: strPtr("pen")}
	updated := c.Apply(Input{Title: "New", Description: "New desc", EstimatedTime: strPtr("1h")})

	assert.Equal(t, int64(7), updated.ID)
	assert.Equal(t, int64(3), updated.UserID)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "New desc", updated.Description)
	assert.Equal(t, "1h", *updated.EstimatedTime)
	assert.Nil(t, updated.MaterialsNeeded)
}

func TestCourse_OwnedBy(t *testing.T) {
	c := Course{UserID: 3}
	assert.True(t, c.OwnedBy(3))
	assert.False(t, c.OwnedBy(4))
}
