package wallet

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"lawbridge-platform/pkg/utils"

	"github.com/google/uuid"
)

// Ledger is the wallet contract consumed by the call-settlement engine and the
// top-up flow. Both sides must go through Increment: it is the only primitive
// that keeps the balance projection and the transaction log in step.
type Ledger interface {
	Increment(ctx context.Context, accountID string, amountPaise int64, kind EntryKind, reference string) (Transaction, int64, error)
	Balance(ctx context.Context, accountID string) (int64, error)
}

// Service provides wallet operations on Postgres.
//
// Money invariants:
// - No balance updates without a transaction entry
// - The transaction log is append-only (immutable)
// - Every money operation runs inside a DB transaction
//
// Atomicity is per-account only. The two legs of a call settlement (client
// charge, advocate earning) are independent increments; exactly-once delivery
// of the pair is guaranteed upstream by the call record's terminal-status
// compare-and-set, not here.
type Service struct {
	db *sql.DB
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, clock: time.Now}
}

var (
	ErrNotFound        = errors.New("wallet not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// CreateWallet provisions a zero-balance INR wallet for a new account.
// Creating an already-existing wallet is a no-op.
func (s *Service) CreateWallet(ctx context.Context, accountID string) error {
	if accountID == "" {
		return ErrInvalidArgument
	}
	now := s.clock().UTC()
	return insertWallet(ctx, s.db, Wallet{
		AccountID:    accountID,
		BalancePaise: 0,
		Currency:     CurrencyINR,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (s *Service) Get(ctx context.Context, accountID string) (Wallet, error) {
	if accountID == "" {
		return Wallet{}, ErrInvalidArgument
	}
	return getWallet(ctx, s.db, accountID)
}

func (s *Service) Balance(ctx context.Context, accountID string) (int64, error) {
	w, err := s.Get(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return w.BalancePaise, nil
}

// Credit tops up a wallet. Amount must be positive; reference typically holds
// the payment-gateway id.
func (s *Service) Credit(ctx context.Context, accountID string, amountPaise int64, reference string) (Transaction, int64, error) {
	if amountPaise <= 0 {
		return Transaction{}, 0, ErrInvalidArgument
	}
	return s.Increment(ctx, accountID, amountPaise, EntryKindCredit, reference)
}

// Increment atomically moves the balance by a signed amount and appends the
// matching transaction. Negative balances are representable: a call that runs
// past the initiation floor still settles in full.
func (s *Service) Increment(ctx context.Context, accountID string, amountPaise int64, kind EntryKind, reference string) (Transaction, int64, error) {
	if accountID == "" || amountPaise == 0 || kind == "" {
		return Transaction{}, 0, ErrInvalidArgument
	}

	now := s.clock().UTC()
	entry := Transaction{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Kind:        kind,
		AmountPaise: amountPaise,
		Reference:   reference,
		CreatedAt:   now,
	}

	var newBalance int64
	err := utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		b, err := applyIncrement(ctx, tx, accountID, amountPaise, now)
		if err != nil {
			return err
		}
		if err := insertTransaction(ctx, tx, entry); err != nil {
			return err
		}
		newBalance = b
		return nil
	})
	if err != nil {
		return Transaction{}, 0, err
	}
	return entry, newBalance, nil
}

func (s *Service) Transactions(ctx context.Context, accountID string) ([]Transaction, error) {
	if accountID == "" {
		return nil, ErrInvalidArgument
	}
	return listTransactions(ctx, s.db, accountID)
}
