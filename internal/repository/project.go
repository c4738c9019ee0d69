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

// PostgresProjectRepository implements project persistence using a
// PostgreSQL database. Member usernames are held in a TEXT[] column.
type PostgresProjectRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresProjectRepository creates a new PostgresProjectRepository
// with the given database connection.
func NewPostgresProjectRepository(db *sql.DB) *PostgresProjectRepository {
	return &PostgresProjectRepository{DB: db}
}

// Create inserts a new project with the owner as its first member.
func (r *PostgresProjectRepository) Create(ctx context.Context, name, description, owner string) (*models.Project, error) {
	project := &models.Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Members:     []string{owner},
	}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO projects (id, name, description, members)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, project.ID, project.Name, project.Description, pq.Array(project.Members)).Scan(&project.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}
	return project, nil
}

// GetByID fetches a single project. Returns models.ErrProjectNotFound if
// no such project exists.
func (r *PostgresProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, description, members, created_at FROM projects WHERE id = $1
	`, id).Scan(&project.ID, &project.Name, &project.Description, pq.Array(&project.Members), &project.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return &project, nil
}

// List returns all projects ordered by creation time.
func (r *PostgresProjectRepository) List(ctx context.Context) ([]models.Project, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, description, members, created_at FROM projects ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var project models.Project
		if err := rows.Scan(&project.ID, &project.Name, &project.Description, pq.Array(&project.Members), &project.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return projects, nil
}

// AddMember appends username to the project's member list. Adding an
// existing member is a no-op. Returns models.ErrProjectNotFound if the
// project does not exist.
func (r *PostgresProjectRepository) AddMember(ctx context.Context, id, username string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE projects
		   SET members = array_append(members, $2)
		 WHERE id = $1 AND NOT (members @> ARRAY[$2])
	`, id, username)
	if err != nil {
		return fmt.Errorf("AddMember: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		// Already a member, or no such project.
		return r.exists(ctx, id)
	}
	return nil
}

// RemoveMember drops username from the project's member list. Removing a
// non-member is a no-op. Returns models.ErrProjectNotFound if the project
// does not exist.
func (r *PostgresProjectRepository) RemoveMember(ctx context.Context, id, username string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE projects SET members = array_remove(members, $2) WHERE id = $1
	`, id, username)
	if err != nil {
		return fmt.Errorf("RemoveMember: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.ErrProjectNotFound
	}
	return nil
}

func (r *PostgresProjectRepository) exists(ctx context.Context, id string) error {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("exists: %w", err)
	}
	if !exists {
		return models.ErrProjectNotFound
	}
	return nil
}
