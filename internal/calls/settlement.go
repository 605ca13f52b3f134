package calls

import (
	"context"
	"errors"
	"fmt"

	"lawbridge-platform/internal/wallet"
)

// StatusEvent is a provider status callback, already parsed out of the
// provider's wire format. Delivery is at-least-once and unordered; the
// engine must tolerate duplicates, replays and events for unknown calls.
type StatusEvent struct {
	// CorrelationID is our call id echoed back by the provider. Preferred
	// correlation key; may be absent on some callback shapes.
	CorrelationID string

	// ProviderCallID is the provider's id for the call leg. Fallback key.
	ProviderCallID string

	// Status is in the provider's vocabulary.
	Status string

	// DurationSeconds is the connected time. Unparseable or missing
	// durations are passed as 0 and bill nothing.
	DurationSeconds int
}

// Outcome classifies how a status event was absorbed. None of these are
// errors: the webhook endpoint acks every delivery regardless, and the
// outcome drives logging and metrics only.
type Outcome string

const (
	// OutcomeSettled: the event completed the call and billing was applied.
	OutcomeSettled Outcome = "settled"
	// OutcomeRecorded: the event terminated the call without billing.
	OutcomeRecorded Outcome = "recorded"
	// OutcomeDuplicate: the call was already terminal; nothing changed.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeUnresolved: no call record matches the event.
	OutcomeUnresolved Outcome = "unresolved"
	// OutcomeInProgress: a non-terminal progress event; ignored.
	OutcomeInProgress Outcome = "in_progress"
)

type SettlementResult struct {
	Outcome Outcome
	Call    Call
}

// HandleStatusEvent settles a provider status callback exactly once.
//
// The terminal transition is a store-level compare-and-set: of any number of
// duplicate or racing deliveries, exactly one wins and applies the wallet
// movements. Losers observe OutcomeDuplicate. Wallet application happens
// strictly after the CAS, so billing can never run twice for one call.
func (e *Engine) HandleStatusEvent(ctx context.Context, ev StatusEvent) (SettlementResult, error) {
	c, err := e.resolve(ctx, ev)
	if err != nil {
		if errors.Is(err, ErrCallNotFound) {
			e.log.Warn("status event for unknown call",
				"correlation_id", ev.CorrelationID,
				"provider_call_id", ev.ProviderCallID,
				"status", ev.Status,
			)
			return SettlementResult{Outcome: OutcomeUnresolved}, nil
		}
		return SettlementResult{}, err
	}

	status, terminal := statusFromProvider(ev.Status)
	if !terminal {
		return SettlementResult{Outcome: OutcomeInProgress, Call: c}, nil
	}

	upd := TerminalUpdate{
		Status:  status,
		EndedAt: e.clock().UTC(),
	}
	if status == StatusCompleted {
		dur := ev.DurationSeconds
		if dur < 0 {
			dur = 0
		}
		upd.DurationSeconds = dur
		upd.BilledMinutes = BilledMinutes(dur)
		upd.TotalCostPaise = TotalCostPaise(upd.BilledMinutes, c.CostPerMinutePaise)
	} else if status == StatusFailed {
		upd.FailureDetail = ev.Status
	}

	updated, won, err := e.store.FinishTerminal(ctx, c.ID, upd)
	if err != nil {
		return SettlementResult{}, err
	}
	if !won {
		e.log.Info("duplicate status event ignored",
			"call_id", c.ID,
			"settled_status", updated.Status,
			"event_status", ev.Status,
		)
		return SettlementResult{Outcome: OutcomeDuplicate, Call: updated}, nil
	}

	if status != StatusCompleted {
		e.log.Info("call closed without billing", "call_id", c.ID, "status", status)
		return SettlementResult{Outcome: OutcomeRecorded, Call: updated}, nil
	}

	if err := e.applyBilling(ctx, updated); err != nil {
		// The call record is already terminal with billing amounts set, so
		// a replayed webhook cannot retry this; it needs ops attention.
		return SettlementResult{Outcome: OutcomeSettled, Call: updated},
			fmt.Errorf("call %s settled but wallet application failed: %w", updated.ID, err)
	}

	if err := e.directory.RecordCompletedCase(ctx, updated.AdvocateID); err != nil {
		e.log.Warn("failed to bump advocate case counter", "advocate_id", updated.AdvocateID, "error", err)
	}

	e.log.Info("call settled",
		"call_id", updated.ID,
		"duration_seconds", updated.DurationSeconds,
		"billed_minutes", updated.BilledMinutes,
		"total_cost_paise", updated.TotalCostPaise,
	)
	return SettlementResult{Outcome: OutcomeSettled, Call: updated}, nil
}

func (e *Engine) resolve(ctx context.Context, ev StatusEvent) (Call, error) {
	if ev.CorrelationID != "" {
		c, err := e.store.Get(ctx, ev.CorrelationID)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, ErrCallNotFound) {
			return Call{}, err
		}
	}
	return e.store.GetByProviderCallID(ctx, ev.ProviderCallID)
}

// applyBilling moves the two money legs for a completed call: the client is
// charged the full total, the advocate is credited their share. Both entries
// reference the call so the ledger is auditable per consultation.
func (e *Engine) applyBilling(ctx context.Context, c Call) error {
	if c.TotalCostPaise == 0 {
		// Zero-duration completions bill nothing.
		return nil
	}
	ref := wallet.CallReference(c.ID)

	if _, _, err := e.ledger.Increment(ctx, c.ClientID, -c.TotalCostPaise, wallet.EntryKindCallCharge, ref); err != nil {
		return fmt.Errorf("charge client: %w", err)
	}

	share := SharePaise(c.TotalCostPaise, e.billing.AdvocateSharePercent)
	if share > 0 {
		if _, _, err := e.ledger.Increment(ctx, c.AdvocateID, share, wallet.EntryKindCallEarning, ref); err != nil {
			return fmt.Errorf("credit advocate: %w", err)
		}
	}
	return nil
}

// ResolvePassthru answers the provider's mid-call routing question: given the
// caller's number, which advocate should this leg be bridged to?
//
// Matching is by normalized client phone against routable calls only, newest
// first. A client with two calls in flight gets the most recent one; the
// older call will close as no-answer when the provider gives up on it.
func (e *Engine) ResolvePassthru(ctx context.Context, callerNumber, legCallID string) (string, bool, error) {
	normalized := NormalizePhone(callerNumber)
	if normalized == "" {
		return "", false, nil
	}

	c, err := e.store.FindRoutableByClientPhone(ctx, normalized)
	if err != nil {
		if errors.Is(err, ErrCallNotFound) {
			return "", false, nil
		}
		return "", false, err
	}

	won, err := e.store.MarkConnecting(ctx, c.ID, legCallID, e.clock().UTC())
	if err != nil {
		return "", false, err
	}
	if !won {
		// Lost a race with settlement; the call is no longer routable.
		return "", false, nil
	}

	e.log.Info("passthru resolved", "call_id", c.ID, "advocate_id", c.AdvocateID)
	return NormalizePhone(c.AdvocatePhone), true, nil
}
