package wallet

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// NOTE: This repository assumes the following tables exist:
//
//   wallets             (account_id PK, balance_paise, currency, created_at, updated_at)
//   wallet_transactions (id PK, account_id, kind, amount_paise, reference, created_at)
//
// wallet_transactions is append-only; rows are never updated or deleted.

func insertWallet(ctx context.Context, db *sql.DB, w Wallet) error {
	const q = `
INSERT INTO wallets (account_id, balance_paise, currency, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (account_id) DO NOTHING
`
	_, err := db.ExecContext(ctx, q, w.AccountID, w.BalancePaise, w.Currency, w.CreatedAt, w.UpdatedAt)
	return err
}

func getWallet(ctx context.Context, db *sql.DB, accountID string) (Wallet, error) {
	const q = `
SELECT account_id, balance_paise, currency, created_at, updated_at
FROM wallets
WHERE account_id = $1
`
	var w Wallet
	if err := db.QueryRowContext(ctx, q, accountID).Scan(
		&w.AccountID,
		&w.BalancePaise,
		&w.Currency,
		&w.CreatedAt,
		&w.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Wallet{}, ErrNotFound
		}
		return Wallet{}, err
	}
	return w, nil
}

// applyIncrement moves the balance and returns the new value.
// The increment is a single conditional-free UPDATE so concurrent writers
// (top-up flow, settlement engine) serialize at the row without a
// read-modify-write race.
func applyIncrement(ctx context.Context, tx *sql.Tx, accountID string, deltaPaise int64, now time.Time) (int64, error) {
	const q = `
UPDATE wallets
SET balance_paise = balance_paise + $2, updated_at = $3
WHERE account_id = $1
RETURNING balance_paise
`
	var balance int64
	if err := tx.QueryRowContext(ctx, q, accountID, deltaPaise, now).Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return balance, nil
}

func insertTransaction(ctx context.Context, tx *sql.Tx, e Transaction) error {
	const q = `
INSERT INTO wallet_transactions (id, account_id, kind, amount_paise, reference, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`
	_, err := tx.ExecContext(ctx, q, e.ID, e.AccountID, e.Kind, e.AmountPaise, e.Reference, e.CreatedAt)
	return err
}

func listTransactions(ctx context.Context, db *sql.DB, accountID string) ([]Transaction, error) {
	const q = `
SELECT id, account_id, kind, amount_paise, reference, created_at
FROM wallet_transactions
WHERE account_id = $1
ORDER BY created_at DESC
`
	rows, err := db.QueryContext(ctx, q, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var e Transaction
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Kind, &e.AmountPaise, &e.Reference, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
