package wallet

import (
	"context"
	"database/sql"
	"testing"
)

// The money paths are implemented with Postgres-specific SQL; end-to-end
// behavior (projection updates, concurrent increments) belongs to integration
// tests against Postgres. What we unit-test here is input validation and the
// ledger contract via MemoryLedger.

func TestService_RejectsInvalidArgs(t *testing.T) {
	svc := NewService((*sql.DB)(nil))
	ctx := context.Background()

	if _, _, err := svc.Credit(ctx, "a", 0, "ref"); err != ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument for zero credit, got %v", err)
	}
	if _, _, err := svc.Credit(ctx, "a", -100, "ref"); err != ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument for negative credit, got %v", err)
	}
	if _, _, err := svc.Increment(ctx, "", 100, EntryKindCredit, "ref"); err != ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument for empty account, got %v", err)
	}
	if _, _, err := svc.Increment(ctx, "a", 100, "", "ref"); err != ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument for empty kind, got %v", err)
	}
	if err := svc.CreateWallet(ctx, ""); err != ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument for empty account, got %v", err)
	}
}

func TestMemoryLedger_BalanceEqualsSumOfLog(t *testing.T) {
	m := NewMemoryLedger()
	ctx := context.Background()

	steps := []struct {
		amount int64
		kind   EntryKind
	}{
		{50000, EntryKindCredit},
		{-7500, EntryKindCallCharge},
		{20000, EntryKindCredit},
		{-30000, EntryKindCallCharge},
		{6000, EntryKindCallEarning},
	}
	for _, s := range steps {
		if _, _, err := m.Increment(ctx, "acct", s.amount, s.kind, "r"); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}

	var sum int64
	for _, e := range m.Transactions("acct") {
		sum += e.AmountPaise
	}
	bal, err := m.Balance(ctx, "acct")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal != sum {
		t.Fatalf("balance %d != log sum %d", bal, sum)
	}
	if bal != 38500 {
		t.Fatalf("expected 38500, got %d", bal)
	}
}

func TestMemoryLedger_AllowsNegativeBalance(t *testing.T) {
	m := NewMemoryLedger()
	ctx := context.Background()

	if _, got, err := m.Increment(ctx, "acct", -2500, EntryKindCallCharge, "call:c1"); err != nil || got != -2500 {
		t.Fatalf("expected -2500 balance, got %d err %v", got, err)
	}
}

func TestCallReference(t *testing.T) {
	if got := CallReference("c1"); got != "call:c1" {
		t.Fatalf("got %q", got)
	}
}
