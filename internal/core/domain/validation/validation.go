// Package validation checks request structs against their `validate` tags and
// turns failures into the ordered, human-readable messages returned to clients.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrValidation is the sentinel error for validation failures.
var ErrValidation = errors.New("validation failed")

// Error carries one message per failed rule, in struct field order.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Messages, "; "))
}

// Is makes errors.Is(err, ErrValidation) match any *Error.
func (e *Error) Is(target error) bool {
	return target == ErrValidation
}

// New builds an *Error from explicit messages.
func New(messages ...string) *Error {
	return &Error{Messages: messages}
}

// Messages is the rule table: "<jsonField>.<tag>" -> client-facing message.
// Rules without an entry fall back to a generic message.
type Messages map[string]string

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Var reports whether a single value satisfies tag.
func Var(v any, tag string) bool {
	return instance().Var(v, tag) == nil
}

// Struct validates v and maps every failed rule through messages.
// It returns nil, an *Error, or a non-validation error for invalid input types.
func Struct(v any, messages Messages) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		key := fe.Field() + "." + fe.Tag()
		if msg, ok := messages[key]; ok {
			out = append(out, msg)
			continue
		}
		out = append(out, fmt.Sprintf("%s is invalid", fe.Field()))
	}
	return &Error{Messages: out}
}
