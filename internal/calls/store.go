package calls

import (
	"context"
	"errors"
	"time"
)

var ErrCallNotFound = errors.New("call not found")

// TerminalUpdate carries the fields written when a call crosses into a
// terminal state. Billing fields are zero for non-completed outcomes.
type TerminalUpdate struct {
	Status          Status
	DurationSeconds int
	BilledMinutes   int
	TotalCostPaise  int64
	FailureDetail   string
	EndedAt         time.Time
}

// Store is the call record persistence contract.
//
// FinishTerminal is the linchpin: it must be a compare-and-set that succeeds
// for exactly one caller per call, no matter how many concurrent or repeated
// attempts arrive. won=false with a nil error means another attempt already
// finalized the call; the returned Call is the current (terminal) record.
type Store interface {
	Create(ctx context.Context, c Call) error
	Get(ctx context.Context, id string) (Call, error)
	GetByProviderCallID(ctx context.Context, providerCallID string) (Call, error)

	// MarkRinging records the gateway's call id after a successful dial.
	// Only valid from initiating.
	MarkRinging(ctx context.Context, id, providerCallID string, at time.Time) error

	// MarkConnecting records the advocate-leg id when passthru fires.
	// won=false means the call was no longer routable.
	MarkConnecting(ctx context.Context, id, legCallID string, at time.Time) (bool, error)

	// FindRoutableByClientPhone returns the most recent routable call whose
	// client phone normalizes to the given digits.
	FindRoutableByClientPhone(ctx context.Context, normalizedPhone string) (Call, error)

	FinishTerminal(ctx context.Context, id string, upd TerminalUpdate) (Call, bool, error)

	// SetRating records a 1..5 rating once per completed call.
	// won=false means the call was already rated or not completed.
	SetRating(ctx context.Context, id string, rating int) (bool, error)

	ListByClient(ctx context.Context, clientID string) ([]Call, error)
	ListByAdvocate(ctx context.Context, advocateID string) ([]Call, error)
	ListAll(ctx context.Context, limit int) ([]Call, error)

	// Stats feed the admin and advocate dashboards.
	CountAll(ctx context.Context) (int64, error)
	CompletedStats(ctx context.Context) (count int64, revenuePaise int64, err error)
	AdvocateStats(ctx context.Context, advocateID string) (completed int64, revenuePaise int64, err error)
}
