package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avolkovs/hwledger/internal/middleware"
	"github.com/avolkovs/hwledger/internal/models"
	"github.com/avolkovs/hwledger/internal/service"
	"github.com/go-chi/chi/v5"
)

// ProjectService defines the project operations required by the
// ProjectHandler.
type ProjectService interface {
	Create(ctx context.Context, name, description, owner string) (*models.Project, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	Join(ctx context.Context, id, username string) error
	Leave(ctx context.Context, id, username string) error
}

// ProjectHandler handles HTTP requests for project membership.
type ProjectHandler struct {
	ProjectService ProjectService
}

// createProjectRequest represents the JSON payload for project creation.
type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create handles POST /api/projects. The authenticated user becomes the
// project's first member.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	owner := middleware.GetUserFromContext(r.Context())
	project, err := h.ProjectService.Create(r.Context(), req.Name, req.Description, owner)
	if err != nil {
		if errors.Is(err, service.ErrEmptyProjectName) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"project": project})
}

// List handles GET /api/projects.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.ProjectService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

// Get handles GET /api/projects/{id}.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.ProjectService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrProjectNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"project": project})
}

// Join handles POST /api/projects/{id}/join for the authenticated user.
func (h *ProjectHandler) Join(w http.ResponseWriter, r *http.Request) {
	h.member(w, r, h.ProjectService.Join)
}

// Leave handles POST /api/projects/{id}/leave for the authenticated user.
func (h *ProjectHandler) Leave(w http.ResponseWriter, r *http.Request) {
	h.member(w, r, h.ProjectService.Leave)
}

func (h *ProjectHandler) member(w http.ResponseWriter, r *http.Request, op func(context.Context, string, string) error) {
	id := chi.URLParam(r, "id")
	username := middleware.GetUserFromContext(r.Context())
	if err := op(r.Context(), id, username); err != nil {
		if errors.Is(err, models.ErrProjectNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
