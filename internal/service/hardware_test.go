package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/avolkovs/hwledger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockHardwareRepo struct {
	GetAllFunc      func(ctx context.Context) ([]models.HardwareSet, error)
	CheckoutFunc    func(ctx context.Context, name string, quantity int64) (*models.HardwareSet, error)
	CheckinFunc     func(ctx context.Context, name string, quantity int64) (*models.HardwareSet, error)
	InsertEventFunc func(ctx context.Context, event models.CheckoutEvent) error
}

func (m *mockHardwareRepo) GetAll(ctx context.Context) ([]models.HardwareSet, error) {
	return m.GetAllFunc(ctx)
}
func (m *mockHardwareRepo) Checkout(ctx context.Context, name string, quantity int64) (*models.HardwareSet, error) {
	return m.CheckoutFunc(ctx, name, quantity)
}
func (m *mockHardwareRepo) Checkin(ctx context.Context, name string, quantity int64) (*models.HardwareSet, error) {
	return m.CheckinFunc(ctx, name, quantity)
}
func (m *mockHardwareRepo) InsertEvent(ctx context.Context, event models.CheckoutEvent) error {
	if m.InsertEventFunc != nil {
		return m.InsertEventFunc(ctx, event)
	}
	return nil
}

func TestCheckout_InvalidQuantity(t *testing.T) {
	repo := &mockHardwareRepo{
		CheckoutFunc: func(ctx context.Context, name string, quantity int64) (*models.HardwareSet, error) {
			t.Fatal("repository must not be called for invalid quantity")
			return nil, nil
		},
	}
	svc := NewHardwareService(repo, zap.NewNop())

	for _, quantity := range []int64{0, -5} {
		_, err := svc.Checkout(context.Background(), "HWSET1", quantity, "alice")
		if !errors.Is(err, models.ErrInvalidQuantity) {
			t.Errorf("Checkout(%d) error = %v; want ErrInvalidQuantity", quantity, err)
		}
	}
}

func TestCheckin_InvalidQuantity(t *testing.T) {
	repo := &mockHardwareRepo{
		CheckinFunc: func(ctx context.Context, name string, quantity int64) (*models.HardwareSet, error) {
			t.Fatal("repository must not be called for invalid quantity")
			return nil, nil
		},
	}
	svc := NewHardwareService(repo, zap.NewNop())

	_, err := svc.Checkin(context.Background(), "HWSET1", 0, "alice")
	if !errors.Is(err, models.ErrInvalidQuantity) {
		t.Errorf("Checkin(0) error = %v; want ErrInvalidQuantity", err)
	}
}

func TestCheckout_RecordsEvent(t *testing.T) {
	var recorded models.CheckoutEvent
	repo := &mockHardwareRepo{
		CheckoutFunc: func(ctx context.Context, name string, quantity int64) (*models.HardwareSet, error) {
			return &models.HardwareSet{Name: "HWSET1", Capacity: 250, CheckedOut: 25}, nil
		},
		InsertEventFunc: func(ctx context.Context, event models.CheckoutEvent) error {
			recorded = event
			return nil
		},
	}
	svc := NewHardwareService(repo, zap.NewNop())

	set, err := svc.Checkout(context.Background(), "HWSET1", 5, "alice")
	if err != nil {
		t.Fatalf("Checkout returned error: %v", err)
	}
	if set.CheckedOut != 25 {
		t.Errorf("CheckedOut = %d; want 25", set.CheckedOut)
	}
	if recorded.Action != models.ActionCheckout || recorded.Quantity != 5 || recorded.Username != "alice" {
		t.Errorf("unexpected recorded event: %+v", recorded)
	}
}

func TestCheckout_EventFailureDoesNotFail(t *testing.T) {
	repo := &mockHardwareRepo{
		CheckoutFunc: func(ctx context.Context, name string, quantity int64) (*models.HardwareSet, error) {
			return &models.HardwareSet{Name: "HWSET1", Capacity: 250, CheckedOut: 25}, nil
		},
		InsertEventFunc: func(ctx context.Context, event models.CheckoutEvent) error {
			return errors.New("events table unavailable")
		},
	}
	svc := NewHardwareService(repo, zap.NewNop())

	if _, err := svc.Checkout(context.Background(), "HWSET1", 5, "alice"); err != nil {
		t.Fatalf("Checkout must not fail on audit error, got: %v", err)
	}
}

func TestCheckout_RepoErrorPassthrough(t *testing.T) {
	wantErr := models.ErrSetNotFound
	repo := &mockHardwareRepo{
		CheckoutFunc: func(ctx context.Context, name string, quantity int64) (*models.HardwareSet, error) {
			return nil, wantErr
		},
	}
	svc := NewHardwareService(repo, zap.NewNop())

	_, err := svc.Checkout(context.Background(), "HWSET9", 1, "alice")
	if !errors.Is(err, wantErr) {
		t.Errorf("Checkout error = %v; want %v", err, wantErr)
	}
}

// memHardwareRepo is an in-memory ledger with the same guarded-update
// semantics as the Postgres repository, for scenario and concurrency tests.
type memHardwareRepo struct {
	mu   sync.Mutex
	sets map[string]*models.HardwareSet
}

func newMemHardwareRepo(sets ...models.HardwareSet) *memHardwareRepo {
	repo := &memHardwareRepo{sets: make(map[string]*models.HardwareSet)}
	for _, set := range sets {
		s := set
		repo.sets[strings.ToLower(s.Name)] = &s
	}
	return repo
}

func (m *memHardwareRepo) GetAll(ctx context.Context) ([]models.HardwareSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.HardwareSet
	for _, set := range m.sets {
		out = append(out, *set)
	}
	return out, nil
}

func (m *memHardwareRepo) Checkout(ctx context.Context, name string, quantity int64) (*models.HardwareSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[strings.ToLower(name)]
	if !ok {
		return nil, models.ErrSetNotFound
	}
	if set.CheckedOut+quantity > set.Capacity {
		return nil, &models.CapacityExceededError{Set: set.Name, Requested: quantity, Available: set.Available()}
	}
	set.CheckedOut += quantity
	copied := *set
	return &copied, nil
}

func (m *memHardwareRepo) Checkin(ctx context.Context, name string, quantity int64) (*models.HardwareSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[strings.ToLower(name)]
	if !ok {
		return nil, models.ErrSetNotFound
	}
	if set.CheckedOut-quantity < 0 {
		return nil, &models.CheckinExceededError{Set: set.Name, Requested: quantity, CheckedOut: set.CheckedOut}
	}
	set.CheckedOut -= quantity
	copied := *set
	return &copied, nil
}

func (m *memHardwareRepo) InsertEvent(ctx context.Context, event models.CheckoutEvent) error {
	return nil
}

func (m *memHardwareRepo) checkedOut(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets[strings.ToLower(name)].CheckedOut
}

// TestLedgerScenario walks the canonical HWSET1 sequence: a checkout
// within availability, an over-checkin rejection that leaves state
// untouched, and a full checkin back to zero.
func TestLedgerScenario(t *testing.T) {
	repo := newMemHardwareRepo(models.HardwareSet{Name: "HWSET1", Capacity: 250, CheckedOut: 20})
	svc := NewHardwareService(repo, zap.NewNop())
	ctx := context.Background()

	set, err := svc.Checkout(ctx, "HWSET1", 50, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(70), set.CheckedOut)
	assert.Equal(t, int64(180), set.Available())

	_, err = svc.Checkin(ctx, "HWSET1", 100, "alice")
	var chkErr *models.CheckinExceededError
	require.ErrorAs(t, err, &chkErr)
	assert.Equal(t, int64(70), chkErr.CheckedOut)
	assert.Equal(t, int64(70), repo.checkedOut("HWSET1"), "rejected checkin must not mutate")

	set, err = svc.Checkin(ctx, "HWSET1", 70, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(0), set.CheckedOut)
}

// TestCheckoutCheckinRoundTrip verifies checkout followed by an equal
// checkin restores the prior count.
func TestCheckoutCheckinRoundTrip(t *testing.T) {
	repo := newMemHardwareRepo(models.HardwareSet{Name: "HWSET2", Capacity: 100, CheckedOut: 30})
	svc := NewHardwareService(repo, zap.NewNop())
	ctx := context.Background()

	before := repo.checkedOut("HWSET2")
	_, err := svc.Checkout(ctx, "HWSET2", 25, "bob")
	require.NoError(t, err)
	_, err = svc.Checkin(ctx, "HWSET2", 25, "bob")
	require.NoError(t, err)
	assert.Equal(t, before, repo.checkedOut("HWSET2"))
}

// TestConcurrentCheckouts runs checkouts that individually fit but
// jointly exceed availability: exactly the fitting subset must succeed
// and the count must never exceed capacity.
func TestConcurrentCheckouts(t *testing.T) {
	// Availability is 230, so exactly 4 of the 10 checkouts of 50 fit.
	repo := newMemHardwareRepo(models.HardwareSet{Name: "HWSET1", Capacity: 250, CheckedOut: 20})
	svc := NewHardwareService(repo, zap.NewNop())

	const workers = 10
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Checkout(context.Background(), "HWSET1", 50, "alice")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var capErr *models.CapacityExceededError
		require.ErrorAs(t, err, &capErr, "only capacity rejections expected")
		rejected++
	}

	assert.Equal(t, 4, succeeded)
	assert.Equal(t, 6, rejected)
	assert.Equal(t, int64(220), repo.checkedOut("HWSET1"))
}

func TestGetStatus_Passthrough(t *testing.T) {
	repo := &mockHardwareRepo{
		GetAllFunc: func(ctx context.Context) ([]models.HardwareSet, error) {
			return []models.HardwareSet{{Name: "HWSET1", Capacity: 250, CheckedOut: 20}}, nil
		},
	}
	svc := NewHardwareService(repo, zap.NewNop())

	sets, err := svc.GetStatus(context.Background())
	if err != nil {
		t.Fatalf("GetStatus returned error: %v", err)
	}
	if len(sets) != 1 || sets[0].Name != "HWSET1" {
		t.Errorf("unexpected status: %+v", sets)
	}
}
