package wallet

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryLedger is an in-memory Ledger useful for tests.
// It is not intended for production use.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[string]int64
	log      map[string][]Transaction
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances: make(map[string]int64),
		log:      make(map[string][]Transaction),
	}
}

func (m *MemoryLedger) Increment(ctx context.Context, accountID string, amountPaise int64, kind EntryKind, reference string) (Transaction, int64, error) {
	if accountID == "" || amountPaise == 0 || kind == "" {
		return Transaction{}, 0, ErrInvalidArgument
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry := Transaction{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Kind:        kind,
		AmountPaise: amountPaise,
		Reference:   reference,
		CreatedAt:   time.Now().UTC(),
	}
	m.balances[accountID] += amountPaise
	m.log[accountID] = append(m.log[accountID], entry)
	return entry, m.balances[accountID], nil
}

func (m *MemoryLedger) Balance(ctx context.Context, accountID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[accountID], nil
}

// SetBalance seeds a balance without a log entry. Test setup only.
func (m *MemoryLedger) SetBalance(accountID string, paise int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[accountID] = paise
}

func (m *MemoryLedger) Transactions(accountID string) []Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Transaction, len(m.log[accountID]))
	copy(out, m.log[accountID])
	return out
}
