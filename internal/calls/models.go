package calls

import "time"

// Status is the lifecycle state of a consultation call.
//
// Transitions:
//
//	initiating -> ringing -> connecting -> {completed, busy, no-answer, failed, canceled}
//
// Terminal states are absorbing. The compare-and-set in the store enforces
// that a call crosses into a terminal state at most once, which is what makes
// settlement exactly-once under duplicate and out-of-order webhooks.
type Status string

const (
	StatusInitiating Status = "initiating"
	StatusRinging    Status = "ringing"
	StatusConnecting Status = "connecting"
	StatusCompleted  Status = "completed"
	StatusBusy       Status = "busy"
	StatusNoAnswer   Status = "no-answer"
	StatusFailed     Status = "failed"
	StatusCanceled   Status = "canceled"
)

func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusBusy, StatusNoAnswer, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

// Routable reports whether a passthru request may still be matched to this
// call. Once the advocate leg is connecting (or the call is terminal) a new
// inbound caller must not be routed through it.
func (s Status) Routable() bool {
	return s == StatusInitiating || s == StatusRinging
}

// statusFromProvider maps the provider's status vocabulary onto our terminal
// states. Non-terminal progress values ("queued", "ringing", "in-progress")
// and anything unknown return ok=false and are ignored by settlement.
func statusFromProvider(v string) (Status, bool) {
	switch v {
	case "completed":
		return StatusCompleted, true
	case "busy":
		return StatusBusy, true
	case "no-answer", "no_answer":
		return StatusNoAnswer, true
	case "failed":
		return StatusFailed, true
	case "canceled", "cancelled":
		return StatusCanceled, true
	}
	return "", false
}

// Call is one masked consultation between a client and an advocate.
//
// CostPerMinutePaise is snapshotted from the advocate profile at initiation;
// billing always uses the snapshot, never the live rate.
type Call struct {
	ID         string `json:"id"`
	ClientID   string `json:"client_id"`
	AdvocateID string `json:"advocate_id"`

	ClientPhone   string `json:"-"`
	AdvocatePhone string `json:"-"`

	CostPerMinutePaise int64 `json:"cost_per_minute_paise"`

	// ProviderCallID is the gateway's id for the outbound (client) leg.
	ProviderCallID string `json:"provider_call_id"`

	// LegCallID is the gateway's id for the advocate leg, learned at passthru.
	LegCallID string `json:"-"`

	Status Status `json:"status"`

	DurationSeconds int    `json:"duration_seconds"`
	BilledMinutes   int    `json:"billed_minutes"`
	TotalCostPaise  int64  `json:"total_cost_paise"`
	FailureDetail   string `json:"failure_detail,omitempty"`

	// Rating is 1..5 once the client rates a completed call, 0 before.
	Rating int `json:"rating,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}
