package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avolkovs/hwledger/internal/models"
	"github.com/go-chi/chi/v5"
)

// fakeProjectService implements ProjectService for testing.
type fakeProjectService struct {
	project  *models.Project
	projects []models.Project
	err      error
}

func (f *fakeProjectService) Create(ctx context.Context, name, description, owner string) (*models.Project, error) {
	return f.project, f.err
}
func (f *fakeProjectService) GetByID(ctx context.Context, id string) (*models.Project, error) {
	return f.project, f.err
}
func (f *fakeProjectService) List(ctx context.Context) ([]models.Project, error) {
	return f.projects, f.err
}
func (f *fakeProjectService) Join(ctx context.Context, id, username string) error {
	return f.err
}
func (f *fakeProjectService) Leave(ctx context.Context, id, username string) error {
	return f.err
}

func projectRouter(h *ProjectHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/projects", h.Create)
	r.Get("/api/projects", h.List)
	r.Get("/api/projects/{id}", h.Get)
	r.Post("/api/projects/{id}/join", h.Join)
	r.Post("/api/projects/{id}/leave", h.Leave)
	return r
}

func TestProjectHandler_Get_NotFound(t *testing.T) {
	h := &ProjectHandler{ProjectService: &fakeProjectService{err: models.ErrProjectNotFound}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/projects/missing", nil)
	projectRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestProjectHandler_Create(t *testing.T) {
	h := &ProjectHandler{ProjectService: &fakeProjectService{project: &models.Project{
		ID: "p1", Name: "robotics", Members: []string{"alice"},
	}}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/projects", bytes.NewBufferString(`{"name":"robotics"}`))
	projectRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (body %q)", rec.Code, rec.Body.String())
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"name":"robotics"`)) {
		t.Errorf("expected project in body, got %q", rec.Body.String())
	}
}

func TestProjectHandler_List_Empty(t *testing.T) {
	h := &ProjectHandler{ProjectService: &fakeProjectService{}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/projects", nil)
	projectRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"projects":[]`)) {
		t.Errorf("expected empty projects array, got %q", rec.Body.String())
	}
}

func TestProjectHandler_Join_NotFound(t *testing.T) {
	h := &ProjectHandler{ProjectService: &fakeProjectService{err: models.ErrProjectNotFound}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/projects/missing/join", nil)
	projectRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}
