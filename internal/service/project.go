package service

import (
	"context"
	"errors"
	"strings"

	"github.com/avolkovs/hwledger/internal/models"
)

// ErrEmptyProjectName indicates a project create request without a name.
var ErrEmptyProjectName = errors.New("project name is required")

// ProjectRepository defines the persistence operations needed by the
// ProjectService.
type ProjectRepository interface {
	Create(ctx context.Context, name, description, owner string) (*models.Project, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	AddMember(ctx context.Context, id, username string) error
	RemoveMember(ctx context.Context, id, username string) error
}

// ProjectService implements project membership rules by delegating to a
// ProjectRepository.
type ProjectService struct {
	repo ProjectRepository
}

// NewProjectService constructs a ProjectService using the provided
// repository.
func NewProjectService(repo ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo}
}

// Create makes a new project owned by the given user, who becomes its
// first member.
func (s *ProjectService) Create(ctx context.Context, name, description, owner string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyProjectName
	}
	return s.repo.Create(ctx, name, strings.TrimSpace(description), owner)
}

// GetByID fetches a single project by id.
func (s *ProjectService) GetByID(ctx context.Context, id string) (*models.Project, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all projects.
func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	return s.repo.List(ctx)
}

// Join adds the user to the project's member list. Joining twice is a
// no-op.
func (s *ProjectService) Join(ctx context.Context, id, username string) error {
	return s.repo.AddMember(ctx, id, username)
}

// Leave removes the user from the project's member list. Leaving a
// project the user is not in is a no-op.
func (s *ProjectService) Leave(ctx context.Context, id, username string) error {
	return s.repo.RemoveMember(ctx, id, username)
}
