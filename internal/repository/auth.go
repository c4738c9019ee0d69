package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avolkovs/hwledger/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

// PostgresAuthRepository implements user persistence using a PostgreSQL
// database.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a new PostgresAuthRepository with the
// given database connection.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

// CreateUser inserts a new user with the given username and password hash.
// Returns models.ErrDuplicateUser when the username is already taken.
func (r *PostgresAuthRepository) CreateUser(ctx context.Context, username string, passwordHash []byte) (*models.User, error) {
	user := &models.User{ID: uuid.NewString(), Username: username, PasswordHash: passwordHash}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO users (id, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, user.ID, user.Username, user.PasswordHash).Scan(&user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, models.ErrDuplicateUser
		}
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	return user, nil
}

// GetUserByUsername fetches a user by username. Returns sql.ErrNoRows
// when no such user exists; the service layer decides how to surface that.
func (r *PostgresAuthRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at FROM users WHERE username = $1
	`, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
