package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/logger"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles signup, login and profile updates.
type AuthService struct {
	userRepo repositories.UserRepository
	validate *validator.Validate
	log      *logger.Logger
	hashCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, log *logger.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		validate: newValidator(),
		log:      log,
		hashCost: bcrypt.DefaultCost,
	}
}

// Register hashes the password and stores the submitted profile. Duplicate
// emails are rejected by the store's unique index, not by a lookup.
func (s *AuthService) Register(ctx context.Context, req models.SignupRequest) (*models.UserView, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Profile:  req.Profile,
		Password: hashedPassword,
		IsAdmin:  false,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.log.Info(s.log.WithField(ctx, "user_id", user.ID), "user registered")
	return user.View(), nil
}

// Login checks the password against the stored hash. An unknown email and a
// wrong password are reported as different errors.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.UserView, error) {
	if email == "" || password == "" {
		var fields []string
		if email == "" {
			fields = append(fields, "email")
		}
		if password == "" {
			fields = append(fields, "password")
		}
		return nil, &ValidationError{Fields: fields}
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user.View(), nil
}

// UpdateProfile merges the set fields of patch into the user. A new password
// is hashed before it reaches the store.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, patch models.UserPatch) (*models.UserView, error) {
	if patch.Password != nil {
		hashedPassword, err := s.hashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		patch.Password = &hashedPassword
	}

	user, err := s.userRepo.Update(ctx, userID, patch)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repositories.ErrDuplicate):
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user %s: %w", userID, err)
	}
	return user.View(), nil
}

func (s *AuthService) hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
