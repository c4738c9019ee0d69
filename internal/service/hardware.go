// Package service provides business-logic services for the hardware
// ledger, authentication, and projects, delegating persistence to
// repository interfaces.
package service

import (
	"context"

	"github.com/avolkovs/hwledger/internal/models"
	"go.uber.org/zap"
)

// HardwareRepository defines the persistence operations needed by the
// HardwareService.
type HardwareRepository interface {
	// GetAll returns every hardware set ordered by name.
	GetAll(ctx context.Context) ([]models.HardwareSet, error)
	// Checkout atomically adds quantity to the set's checked-out count,
	// rejecting the update when it would exceed capacity.
	Checkout(ctx context.Context, name string, quantity int64) (*models.HardwareSet, error)
	// Checkin atomically subtracts quantity from the set's checked-out
	// count, rejecting the update when it would drop below zero.
	Checkin(ctx context.Context, name string, quantity int64) (*models.HardwareSet, error)
	// InsertEvent appends a checkout/checkin audit event.
	InsertEvent(ctx context.Context, event models.CheckoutEvent) error
}

// HardwareService implements the ledger rules on top of a
// HardwareRepository: quantity validation, status reads, and audit
// recording for successful mutations.
type HardwareService struct {
	repo HardwareRepository
	log  *zap.Logger
}

// NewHardwareService constructs a HardwareService with the provided
// repository and logger.
func NewHardwareService(repo HardwareRepository, log *zap.Logger) *HardwareService {
	return &HardwareService{repo: repo, log: log}
}

// GetStatus returns all hardware sets ordered by name. No side effects.
func (s *HardwareService) GetStatus(ctx context.Context) ([]models.HardwareSet, error) {
	return s.repo.GetAll(ctx)
}

// Checkout loans quantity units from the named set to the actor.
// Quantity must be positive; a request above the set's availability is
// rejected without mutation. On success an audit event is recorded
// best-effort: the counter update stands even if the event insert fails.
func (s *HardwareService) Checkout(ctx context.Context, name string, quantity int64, actor string) (*models.HardwareSet, error) {
	if quantity <= 0 {
		return nil, models.ErrInvalidQuantity
	}
	set, err := s.repo.Checkout(ctx, name, quantity)
	if err != nil {
		return nil, err
	}
	s.recordEvent(ctx, set.Name, models.ActionCheckout, quantity, actor)
	return set, nil
}

// Checkin returns quantity units to the named set. Quantity must be
// positive; a request above the set's checked-out count is rejected
// without mutation.
func (s *HardwareService) Checkin(ctx context.Context, name string, quantity int64, actor string) (*models.HardwareSet, error) {
	if quantity <= 0 {
		return nil, models.ErrInvalidQuantity
	}
	set, err := s.repo.Checkin(ctx, name, quantity)
	if err != nil {
		return nil, err
	}
	s.recordEvent(ctx, set.Name, models.ActionCheckin, quantity, actor)
	return set, nil
}

func (s *HardwareService) recordEvent(ctx context.Context, setName, action string, quantity int64, actor string) {
	event := models.CheckoutEvent{
		SetName:  setName,
		Action:   action,
		Quantity: quantity,
		Username: actor,
	}
	if err := s.repo.InsertEvent(ctx, event); err != nil {
		s.log.Error("failed to record hardware event",
			zap.String("set", setName),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}
