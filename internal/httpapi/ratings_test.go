package httpapi

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lawbridge-platform/internal/calls"
)

type fakeRater struct {
	mu      sync.Mutex
	applied []int
}

func (r *fakeRater) ApplyRating(ctx context.Context, advocateID string, rating int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied = append(r.applied, rating)
	return nil
}

func seedCompletedCall(t *testing.T, store *calls.MemoryStore, id, clientID string) {
	t.Helper()
	now := time.Now().UTC()
	if err := store.Create(context.Background(), calls.Call{
		ID:         id,
		ClientID:   clientID,
		AdvocateID: "a1",
		Status:     calls.StatusConnecting,
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, won, err := store.FinishTerminal(context.Background(), id, calls.TerminalUpdate{
		Status: calls.StatusCompleted, DurationSeconds: 60, BilledMinutes: 1, TotalCostPaise: 2500, EndedAt: now,
	}); err != nil || !won {
		t.Fatalf("finish: won=%v err=%v", won, err)
	}
}

func TestRateCall(t *testing.T) {
	ctx := context.Background()
	store := calls.NewMemoryStore()
	rater := &fakeRater{}
	seedCompletedCall(t, store, "call-1", "c1")

	if err := rateCall(ctx, store, rater, "c1", "call-1", 5); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if len(rater.applied) != 1 || rater.applied[0] != 5 {
		t.Fatalf("aggregate not applied once: %v", rater.applied)
	}

	// Second submit is rejected and the aggregate is untouched.
	if err := rateCall(ctx, store, rater, "c1", "call-1", 4); !errors.Is(err, errAlreadyRated) {
		t.Fatalf("expected errAlreadyRated, got %v", err)
	}
	if len(rater.applied) != 1 {
		t.Fatalf("aggregate applied twice: %v", rater.applied)
	}
}

func TestRateCall_Rejections(t *testing.T) {
	ctx := context.Background()
	store := calls.NewMemoryStore()
	rater := &fakeRater{}
	seedCompletedCall(t, store, "call-1", "c1")

	if err := rateCall(ctx, store, rater, "c1", "call-1", 0); !errors.Is(err, errInvalidRating) {
		t.Fatalf("expected errInvalidRating, got %v", err)
	}
	if err := rateCall(ctx, store, rater, "other-client", "call-1", 5); !errors.Is(err, calls.ErrCallNotFound) {
		t.Fatalf("foreign call must look missing, got %v", err)
	}
	if err := rateCall(ctx, store, rater, "c1", "no-such-call", 5); !errors.Is(err, calls.ErrCallNotFound) {
		t.Fatalf("expected ErrCallNotFound, got %v", err)
	}

	// Non-terminal call cannot be rated.
	now := time.Now().UTC()
	store.Create(ctx, calls.Call{ID: "call-2", ClientID: "c1", AdvocateID: "a1", Status: calls.StatusRinging, CreatedAt: now})
	if err := rateCall(ctx, store, rater, "c1", "call-2", 5); !errors.Is(err, errNotRateable) {
		t.Fatalf("expected errNotRateable, got %v", err)
	}
	if len(rater.applied) != 0 {
		t.Fatalf("no rating should have been applied: %v", rater.applied)
	}
}

func TestRateCall_ConcurrentSubmitsCountOnce(t *testing.T) {
	ctx := context.Background()
	store := calls.NewMemoryStore()
	rater := &fakeRater{}
	seedCompletedCall(t, store, "call-1", "c1")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = rateCall(ctx, store, rater, "c1", "call-1", 5)
		}()
	}
	wg.Wait()

	if len(rater.applied) != 1 {
		t.Fatalf("expected exactly one aggregate application, got %d", len(rater.applied))
	}
}
