package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avolkovs/hwledger/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// AuthRepository defines the persistence operations required by the
// authentication service.
type AuthRepository interface {
	// CreateUser inserts a new user record, returning
	// models.ErrDuplicateUser when the username is taken.
	CreateUser(ctx context.Context, username string, passwordHash []byte) (*models.User, error)
	// GetUserByUsername fetches a user, returning sql.ErrNoRows when no
	// such user exists.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService implements registration and login on top of an
// AuthRepository, hashing passwords with bcrypt.
type AuthService struct {
	repo AuthRepository
}

// NewAuthService constructs an AuthService using the provided repository.
func NewAuthService(repo AuthRepository) *AuthService {
	return &AuthService{repo: repo}
}

// Register creates a new user with a bcrypt-hashed password.
// Returns models.ErrDuplicateUser when the username is already taken.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.repo.CreateUser(ctx, username, hash)
}

// Login verifies the username/password pair. An unknown username and a
// wrong password both yield models.ErrInvalidCredentials so callers
// cannot probe for registered usernames.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}
	return user, nil
}
