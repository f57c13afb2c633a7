package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"go-courses-api/internal/core/domain/users"
	"go-courses-api/internal/core/domain/validation"
	"go-courses-api/internal/core/ports"
)

type AuthService struct {
	repo      ports.UserRepository
	cost      int
	dummyHash []byte
}

// NewAuthService builds the service. cost is the bcrypt work factor; out of
// range values fall back to bcrypt.DefaultCost.
func NewAuthService(repo ports.UserRepository, cost int) *AuthService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	// Compared against when the email is unknown, so both paths pay one bcrypt.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	return &AuthService{
		repo:      repo,
		cost:      cost,
		dummyHash: dummy,
	}
}

func (s *AuthService) SignUp(ctx context.Context, req users.SignUp) (users.User, error) {
	req = req.Normalize()

	var messages []string
	var vErr *validation.Error
	if err := req.Validate(); err != nil {
		if !errors.As(err, &vErr) {
			return users.User{}, err
		}
		messages = append(messages, vErr.Messages...)
	}

	if validation.Var(req.EmailAddress, "required,email") {
		_, err := s.repo.FindByEmail(ctx, req.EmailAddress)
		switch {
		case err == nil:
			messages = append(messages, users.MsgEmailInUse)
		case !errors.Is(err, users.ErrNotFound):
			return users.User{}, fmt.Errorf("failed to check email: %w", err)
		}
	}

	if len(messages) > 0 {
		return users.User{}, validation.New(messages...)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return users.User{}, validation.New(users.MsgPasswordTooLong)
		}
		return users.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.Save(ctx, users.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		EmailAddress: req.EmailAddress,
		PasswordHash: string(hashed),
	})
	if err != nil {
		if errors.Is(err, users.ErrEmailInUse) {
			return users.User{}, validation.New(users.MsgEmailInUse)
		}
		return users.User{}, err
	}
	return user, nil
}

// Authenticate resolves the user owning email and checks password.
// Every credential failure matches users.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (users.User, error) {
	if email == "" {
		return users.User{}, users.ErrMissingCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return users.User{}, users.ErrUnknownEmail
		}
		return users.User{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return users.User{}, users.ErrPasswordMismatch
	}

	return user, nil
}
