package wallet

import "time"

// CurrencyINR is the only supported currency.
const CurrencyINR = "INR"

// Wallet represents a per-account prepaid balance.
// Invariant: the balance must equal the sum of all transaction amounts in the
// log. The log is the source of truth; balance is a cached projection, and no
// code may move the balance without appending a corresponding transaction.
type Wallet struct {
	AccountID    string `json:"account_id" db:"account_id"`
	BalancePaise int64  `json:"balance_paise" db:"balance_paise"`
	Currency     string `json:"currency" db:"currency"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Transaction is an immutable append-only ledger entry.
//
// AmountPaise is signed: credits positive, charges negative.
// Reference for call-derived entries embeds the call id ("call:<id>") so a
// duplicate settlement attempt is detectable in the log even if the
// status-transition guard were ever bypassed.
type Transaction struct {
	ID        string `json:"id" db:"id"`
	AccountID string `json:"account_id" db:"account_id"`

	Kind        EntryKind `json:"kind" db:"kind"`
	AmountPaise int64     `json:"amount_paise" db:"amount_paise"`
	Reference   string    `json:"reference,omitempty" db:"reference"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EntryKind string

const (
	EntryKindCredit      EntryKind = "credit"       // top-up
	EntryKindCallCharge  EntryKind = "call_charge"  // client side of a settled call
	EntryKindCallEarning EntryKind = "call_earning" // advocate side of a settled call
)

// CallReference builds the transaction reference for call-derived entries.
func CallReference(callID string) string { return "call:" + callID }
