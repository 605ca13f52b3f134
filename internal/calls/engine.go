package calls

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lawbridge-platform/internal/advocates"
	"lawbridge-platform/internal/config"
	"lawbridge-platform/internal/wallet"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrAdvocateNotFound    = errors.New("advocate not found")
	ErrNotApproved         = errors.New("advocate is not approved")
	ErrOffDuty             = errors.New("advocate is not on duty")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrGatewayUnavailable  = errors.New("telephony gateway unavailable")
)

// Directory is the slice of the advocate roster the engine needs.
type Directory interface {
	Get(ctx context.Context, id string) (advocates.Advocate, error)
	RecordCompletedCase(ctx context.Context, id string) error
}

// Engine owns the call lifecycle: initiation preconditions, passthru
// resolution, and exactly-once settlement of provider status events.
type Engine struct {
	store     Store
	ledger    wallet.Ledger
	directory Directory
	gateway   Gateway
	billing   config.BillingConfig
	log       *slog.Logger
	clock     func() time.Time
}

func NewEngine(store Store, ledger wallet.Ledger, directory Directory, gateway Gateway, billing config.BillingConfig, log *slog.Logger) *Engine {
	if billing.MinTalkMinutes <= 0 {
		billing.MinTalkMinutes = 5
	}
	if billing.AdvocateSharePercent <= 0 {
		billing.AdvocateSharePercent = 80
	}
	return &Engine{
		store:     store,
		ledger:    ledger,
		directory: directory,
		gateway:   gateway,
		billing:   billing,
		log:       log,
		clock:     time.Now,
	}
}

type InitiateRequest struct {
	ClientID    string
	AdvocateID  string
	ClientPhone string
}

// Initiate places a masked call after checking every precondition in order:
// the advocate exists, is approved, is on duty, and the client wallet covers
// the minimum talk window at the advocate's rate. The rate is snapshotted
// onto the call record; settlement prices with the snapshot.
//
// The balance check is advisory only. A call that outruns the floor still
// settles in full and may push the wallet negative.
func (e *Engine) Initiate(ctx context.Context, req InitiateRequest) (Call, error) {
	if req.ClientID == "" || req.AdvocateID == "" {
		return Call{}, fmt.Errorf("%w: client and advocate ids are required", ErrInvalidInput)
	}
	if NormalizePhone(req.ClientPhone) == "" {
		return Call{}, fmt.Errorf("%w: client phone is required", ErrInvalidInput)
	}

	adv, err := e.directory.Get(ctx, req.AdvocateID)
	if err != nil {
		if errors.Is(err, advocates.ErrNotFound) {
			return Call{}, ErrAdvocateNotFound
		}
		return Call{}, err
	}
	if adv.VerificationStatus != advocates.VerificationApproved {
		return Call{}, ErrNotApproved
	}
	if !adv.DutyStatus {
		return Call{}, ErrOffDuty
	}

	required := int64(e.billing.MinTalkMinutes) * adv.PerMinuteChargePaise
	balance, err := e.ledger.Balance(ctx, req.ClientID)
	if err != nil {
		return Call{}, err
	}
	if balance < required {
		return Call{}, fmt.Errorf("%w: need %d paise for %d minutes, have %d",
			ErrInsufficientBalance, required, e.billing.MinTalkMinutes, balance)
	}

	now := e.clock().UTC()
	c := Call{
		ID:                 uuid.NewString(),
		ClientID:           req.ClientID,
		AdvocateID:         adv.ID,
		ClientPhone:        req.ClientPhone,
		AdvocatePhone:      adv.PhoneNumber,
		CostPerMinutePaise: adv.PerMinuteChargePaise,
		Status:             StatusInitiating,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := e.store.Create(ctx, c); err != nil {
		return Call{}, err
	}

	resp, err := e.gateway.Dial(ctx, DialRequest{
		CallID: c.ID,
		From:   req.ClientPhone,
		To:     adv.PhoneNumber,
	})
	if err != nil {
		// The dial never left the platform; close the record so it can
		// neither route passthru nor settle later.
		if _, _, ferr := e.store.FinishTerminal(ctx, c.ID, TerminalUpdate{
			Status:        StatusFailed,
			FailureDetail: err.Error(),
			EndedAt:       e.clock().UTC(),
		}); ferr != nil {
			e.log.Error("failed to finalize undialed call", "call_id", c.ID, "error", ferr)
		}
		return Call{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	if err := e.store.MarkRinging(ctx, c.ID, resp.ProviderCallID, e.clock().UTC()); err != nil {
		return Call{}, err
	}
	c.Status = StatusRinging
	c.ProviderCallID = resp.ProviderCallID

	e.log.Info("call initiated",
		"call_id", c.ID,
		"advocate_id", adv.ID,
		"provider_call_id", resp.ProviderCallID,
		"cost_per_minute_paise", c.CostPerMinutePaise,
	)
	return c, nil
}

func (e *Engine) Get(ctx context.Context, id string) (Call, error) {
	return e.store.Get(ctx, id)
}

// Store exposes the underlying call store for read paths and rating.
func (e *Engine) Store() Store {
	return e.store
}

// Billing exposes the effective billing policy.
func (e *Engine) Billing() config.BillingConfig {
	return e.billing
}
