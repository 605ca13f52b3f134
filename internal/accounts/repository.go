package accounts

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// NOTE: This repository assumes the following table exists:
//
//   accounts (id PK, email, role, name, city, created_at, last_login_at,
//             UNIQUE (email, role))
//
// The uniqueness is per (email, role): the same mailbox may hold both a
// client account and an admin account.

func insertAccount(ctx context.Context, db *sql.DB, a Account) error {
	const q = `
INSERT INTO accounts (id, email, role, name, city, created_at, last_login_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`
	var lastLogin any
	if a.LastLoginAt != nil {
		lastLogin = *a.LastLoginAt
	}
	_, err := db.ExecContext(ctx, q, a.ID, a.Email, a.Role, a.Name, a.City, a.CreatedAt, lastLogin)
	return err
}

func scanAccount(row *sql.Row) (Account, error) {
	var (
		a         Account
		lastLogin sql.NullTime
	)
	err := row.Scan(&a.ID, &a.Email, &a.Role, &a.Name, &a.City, &a.CreatedAt, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		a.LastLoginAt = &t
	}
	return a, nil
}

func getAccount(ctx context.Context, db *sql.DB, id string) (Account, error) {
	const q = `
SELECT id, email, role, name, city, created_at, last_login_at
FROM accounts
WHERE id = $1
`
	return scanAccount(db.QueryRowContext(ctx, q, id))
}

func getAccountByEmailRole(ctx context.Context, db *sql.DB, email, role string) (Account, error) {
	const q = `
SELECT id, email, role, name, city, created_at, last_login_at
FROM accounts
WHERE email = $1 AND role = $2
`
	return scanAccount(db.QueryRowContext(ctx, q, email, role))
}

func updateAccountProfile(ctx context.Context, db *sql.DB, id, name, city string) error {
	res, err := db.ExecContext(ctx, `UPDATE accounts SET name = $2, city = $3 WHERE id = $1`, id, name, city)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func touchAccountLogin(ctx context.Context, db *sql.DB, id string, now time.Time) error {
	_, err := db.ExecContext(ctx, `UPDATE accounts SET last_login_at = $2 WHERE id = $1`, id, now)
	return err
}

func listAccountsByRole(ctx context.Context, db *sql.DB, role string) ([]Account, error) {
	const q = `
SELECT id, email, role, name, city, created_at, last_login_at
FROM accounts
WHERE role = $1
ORDER BY created_at DESC
`
	rows, err := db.QueryContext(ctx, q, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		var (
			a         Account
			lastLogin sql.NullTime
		)
		if err := rows.Scan(&a.ID, &a.Email, &a.Role, &a.Name, &a.City, &a.CreatedAt, &lastLogin); err != nil {
			return nil, err
		}
		if lastLogin.Valid {
			t := lastLogin.Time
			a.LastLoginAt = &t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
