package service

import (
	"context"
	"errors"
	"testing"

	"github.com/avolkovs/hwledger/internal/models"
)

type mockProjectRepo struct {
	CreateFunc       func(ctx context.Context, name, description, owner string) (*models.Project, error)
	GetByIDFunc      func(ctx context.Context, id string) (*models.Project, error)
	ListFunc         func(ctx context.Context) ([]models.Project, error)
	AddMemberFunc    func(ctx context.Context, id, username string) error
	RemoveMemberFunc func(ctx context.Context, id, username string) error
}

func (m *mockProjectRepo) Create(ctx context.Context, name, description, owner string) (*models.Project, error) {
	return m.CreateFunc(ctx, name, description, owner)
}
func (m *mockProjectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *mockProjectRepo) List(ctx context.Context) ([]models.Project, error) {
	return m.ListFunc(ctx)
}
func (m *mockProjectRepo) AddMember(ctx context.Context, id, username string) error {
	return m.AddMemberFunc(ctx, id, username)
}
func (m *mockProjectRepo) RemoveMember(ctx context.Context, id, username string) error {
	return m.RemoveMemberFunc(ctx, id, username)
}

func TestProjectCreate_EmptyName(t *testing.T) {
	repo := &mockProjectRepo{
		CreateFunc: func(ctx context.Context, name, description, owner string) (*models.Project, error) {
			t.Fatal("repository must not be called for an empty name")
			return nil, nil
		},
	}
	svc := NewProjectService(repo)

	for _, name := range []string{"", "   "} {
		_, err := svc.Create(context.Background(), name, "desc", "alice")
		if !errors.Is(err, ErrEmptyProjectName) {
			t.Errorf("Create(%q) error = %v; want ErrEmptyProjectName", name, err)
		}
	}
}

func TestProjectCreate_TrimsFields(t *testing.T) {
	repo := &mockProjectRepo{
		CreateFunc: func(ctx context.Context, name, description, owner string) (*models.Project, error) {
			if name != "robotics" || description != "arm controller" {
				t.Errorf("Create received (%q, %q); want trimmed fields", name, description)
			}
			return &models.Project{ID: "p1", Name: name, Description: description, Members: []string{owner}}, nil
		},
	}
	svc := NewProjectService(repo)

	project, err := svc.Create(context.Background(), "  robotics ", " arm controller ", "alice")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if project.Members[0] != "alice" {
		t.Errorf("expected alice as first member, got %v", project.Members)
	}
}

func TestProjectJoin_Passthrough(t *testing.T) {
	wantErr := models.ErrProjectNotFound
	repo := &mockProjectRepo{
		AddMemberFunc: func(ctx context.Context, id, username string) error {
			return wantErr
		},
	}
	svc := NewProjectService(repo)

	if err := svc.Join(context.Background(), "missing", "bob"); !errors.Is(err, wantErr) {
		t.Errorf("Join error = %v; want %v", err, wantErr)
	}
}
