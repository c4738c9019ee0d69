package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avolkovs/hwledger/internal/middleware"
	"github.com/avolkovs/hwledger/internal/models"
	"github.com/go-chi/chi/v5"
)

// HardwareService defines the ledger operations required by the
// HardwareHandler.
type HardwareService interface {
	// GetStatus returns all hardware sets ordered by name.
	GetStatus(ctx context.Context) ([]models.HardwareSet, error)
	// Checkout loans quantity units of the named set to the actor.
	Checkout(ctx context.Context, name string, quantity int64, actor string) (*models.HardwareSet, error)
	// Checkin returns quantity units of the named set from the actor.
	Checkin(ctx context.Context, name string, quantity int64, actor string) (*models.HardwareSet, error)
}

// HardwareHandler handles HTTP requests for the hardware ledger.
type HardwareHandler struct {
	// HardwareService performs the underlying ledger operations.
	HardwareService HardwareService
}

// setStatus is the per-set payload of the status response.
type setStatus struct {
	Capacity   int64 `json:"capacity"`
	CheckedOut int64 `json:"checkedOut"`
}

// quantityRequest represents the JSON payload for checkout and checkin.
// Quantity is a pointer so a missing field is distinguishable from zero.
type quantityRequest struct {
	Quantity *int64 `json:"quantity"`
}

// Status handles GET /api/hardware.
// It responds with every hardware set keyed by name; JSON object keys
// serialize in sorted order, which gives the name ordering callers rely on.
func (h *HardwareHandler) Status(w http.ResponseWriter, r *http.Request) {
	sets, err := h.HardwareService.GetStatus(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	hardware := make(map[string]setStatus, len(sets))
	for _, set := range sets {
		hardware[set.Name] = setStatus{Capacity: set.Capacity, CheckedOut: set.CheckedOut}
	}
	writeJSON(w, http.StatusOK, map[string]any{"hardware": hardware})
}

// Checkout handles POST /api/hardware/{name}/checkout.
// It expects a JSON body with a positive integer "quantity" and responds
// with the updated set, or 400 carrying the current availability when the
// request exceeds it.
func (h *HardwareHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	quantity, ok := decodeQuantity(w, r)
	if !ok {
		return
	}

	set, err := h.HardwareService.Checkout(r.Context(), name, quantity, middleware.GetUserFromContext(r.Context()))
	if err != nil {
		var capErr *models.CapacityExceededError
		switch {
		case errors.As(err, &capErr):
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":     capErr.Error(),
				"available": capErr.Available,
			})
		case errors.Is(err, models.ErrSetNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, models.ErrInvalidQuantity):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"hardware": set})
}

// Checkin handles POST /api/hardware/{name}/checkin.
// It mirrors Checkout; a request above the checked-out count responds 400
// carrying the current count.
func (h *HardwareHandler) Checkin(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	quantity, ok := decodeQuantity(w, r)
	if !ok {
		return
	}

	set, err := h.HardwareService.Checkin(r.Context(), name, quantity, middleware.GetUserFromContext(r.Context()))
	if err != nil {
		var chkErr *models.CheckinExceededError
		switch {
		case errors.As(err, &chkErr):
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":      chkErr.Error(),
				"checkedOut": chkErr.CheckedOut,
			})
		case errors.Is(err, models.ErrSetNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, models.ErrInvalidQuantity):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"hardware": set})
}

// decodeQuantity parses the request body and rejects missing or
// non-numeric quantities before they reach the ledger.
func decodeQuantity(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity == nil {
		writeError(w, http.StatusBadRequest, models.ErrInvalidQuantity.Error())
		return 0, false
	}
	return *req.Quantity, true
}
