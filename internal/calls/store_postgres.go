package calls

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// NOTE: This store assumes the following table exists:
//
//   calls (id PK, client_id, advocate_id, client_phone,
//          client_phone_normalized, advocate_phone, cost_per_minute_paise,
//          provider_call_id, leg_call_id, status, duration_seconds,
//          billed_minutes, total_cost_paise, failure_detail, rating,
//          created_at, updated_at, ended_at,
//          INDEX on provider_call_id,
//          INDEX on (client_phone_normalized, status))
//
// client_phone_normalized is written at insert so passthru lookup is a plain
// index scan instead of normalizing every row at query time.

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const callColumns = `
id, client_id, advocate_id, client_phone, advocate_phone,
cost_per_minute_paise, provider_call_id, leg_call_id, status,
duration_seconds, billed_minutes, total_cost_paise, failure_detail,
rating, created_at, updated_at, ended_at
`

func scanCall(row interface{ Scan(...any) error }) (Call, error) {
	var (
		c       Call
		rating  sql.NullInt64
		endedAt sql.NullTime
	)
	err := row.Scan(
		&c.ID, &c.ClientID, &c.AdvocateID, &c.ClientPhone, &c.AdvocatePhone,
		&c.CostPerMinutePaise, &c.ProviderCallID, &c.LegCallID, &c.Status,
		&c.DurationSeconds, &c.BilledMinutes, &c.TotalCostPaise, &c.FailureDetail,
		&rating, &c.CreatedAt, &c.UpdatedAt, &endedAt,
	)
	if err != nil {
		return Call{}, err
	}
	if rating.Valid {
		c.Rating = int(rating.Int64)
	}
	if endedAt.Valid {
		t := endedAt.Time
		c.EndedAt = &t
	}
	return c, nil
}

func (s *PostgresStore) Create(ctx context.Context, c Call) error {
	const q = `
INSERT INTO calls (
	id, client_id, advocate_id, client_phone, client_phone_normalized,
	advocate_phone, cost_per_minute_paise, provider_call_id, leg_call_id,
	status, duration_seconds, billed_minutes, total_cost_paise,
	failure_detail, rating, created_at, updated_at, ended_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,NULL,$15,$16,NULL)
`
	_, err := s.db.ExecContext(ctx, q,
		c.ID, c.ClientID, c.AdvocateID, c.ClientPhone, NormalizePhone(c.ClientPhone),
		c.AdvocatePhone, c.CostPerMinutePaise, c.ProviderCallID, c.LegCallID,
		c.Status, c.DurationSeconds, c.BilledMinutes, c.TotalCostPaise,
		c.FailureDetail, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Call, error) {
	const q = `SELECT ` + callColumns + ` FROM calls WHERE id = $1`
	c, err := scanCall(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Call{}, ErrCallNotFound
	}
	return c, err
}

func (s *PostgresStore) GetByProviderCallID(ctx context.Context, providerCallID string) (Call, error) {
	if providerCallID == "" {
		return Call{}, ErrCallNotFound
	}
	const q = `SELECT ` + callColumns + ` FROM calls WHERE provider_call_id = $1`
	c, err := scanCall(s.db.QueryRowContext(ctx, q, providerCallID))
	if errors.Is(err, sql.ErrNoRows) {
		return Call{}, ErrCallNotFound
	}
	return c, err
}

func (s *PostgresStore) MarkRinging(ctx context.Context, id, providerCallID string, at time.Time) error {
	const q = `
UPDATE calls
SET status = 'ringing', provider_call_id = $2, updated_at = $3
WHERE id = $1 AND status = 'initiating'
`
	res, err := s.db.ExecContext(ctx, q, id, providerCallID, at)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCallNotFound
	}
	return nil
}

func (s *PostgresStore) MarkConnecting(ctx context.Context, id, legCallID string, at time.Time) (bool, error) {
	const q = `
UPDATE calls
SET status = 'connecting', leg_call_id = $2, updated_at = $3
WHERE id = $1 AND status IN ('initiating', 'ringing')
`
	res, err := s.db.ExecContext(ctx, q, id, legCallID, at)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *PostgresStore) FindRoutableByClientPhone(ctx context.Context, normalizedPhone string) (Call, error) {
	if normalizedPhone == "" {
		return Call{}, ErrCallNotFound
	}
	const q = `
SELECT ` + callColumns + `
FROM calls
WHERE client_phone_normalized = $1 AND status IN ('initiating', 'ringing')
ORDER BY created_at DESC
LIMIT 1
`
	c, err := scanCall(s.db.QueryRowContext(ctx, q, normalizedPhone))
	if errors.Is(err, sql.ErrNoRows) {
		return Call{}, ErrCallNotFound
	}
	return c, err
}

// FinishTerminal is a single conditional UPDATE: only a call still in a
// non-terminal state matches the WHERE clause, so of any number of racing
// finalizers exactly one gets a row back. The loser re-reads the record to
// report the already-settled state to its caller.
func (s *PostgresStore) FinishTerminal(ctx context.Context, id string, upd TerminalUpdate) (Call, bool, error) {
	const q = `
UPDATE calls
SET status = $2,
    duration_seconds = $3,
    billed_minutes = $4,
    total_cost_paise = $5,
    failure_detail = $6,
    ended_at = $7,
    updated_at = $7
WHERE id = $1 AND status IN ('initiating', 'ringing', 'connecting')
RETURNING ` + callColumns
	c, err := scanCall(s.db.QueryRowContext(ctx, q,
		id, upd.Status, upd.DurationSeconds, upd.BilledMinutes,
		upd.TotalCostPaise, upd.FailureDetail, upd.EndedAt,
	))
	if err == nil {
		return c, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Call{}, false, err
	}

	// No row matched: either already terminal or the call does not exist.
	current, err := s.Get(ctx, id)
	if err != nil {
		return Call{}, false, err
	}
	return current, false, nil
}

func (s *PostgresStore) SetRating(ctx context.Context, id string, rating int) (bool, error) {
	const q = `
UPDATE calls
SET rating = $2
WHERE id = $1 AND status = 'completed' AND rating IS NULL
`
	res, err := s.db.ExecContext(ctx, q, id, rating)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *PostgresStore) ListByClient(ctx context.Context, clientID string) ([]Call, error) {
	const q = `
SELECT ` + callColumns + `
FROM calls
WHERE client_id = $1
ORDER BY created_at DESC
`
	return s.query(ctx, q, clientID)
}

func (s *PostgresStore) ListByAdvocate(ctx context.Context, advocateID string) ([]Call, error) {
	const q = `
SELECT ` + callColumns + `
FROM calls
WHERE advocate_id = $1
ORDER BY created_at DESC
`
	return s.query(ctx, q, advocateID)
}

func (s *PostgresStore) ListAll(ctx context.Context, limit int) ([]Call, error) {
	if limit <= 0 {
		limit = 200
	}
	const q = `
SELECT ` + callColumns + `
FROM calls
ORDER BY created_at DESC
LIMIT $1
`
	return s.query(ctx, q, limit)
}

func (s *PostgresStore) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM calls`).Scan(&n)
	return n, err
}

func (s *PostgresStore) CompletedStats(ctx context.Context) (int64, int64, error) {
	const q = `
SELECT COUNT(*), COALESCE(SUM(total_cost_paise), 0)
FROM calls
WHERE status = 'completed'
`
	var count, revenue int64
	err := s.db.QueryRowContext(ctx, q).Scan(&count, &revenue)
	return count, revenue, err
}

func (s *PostgresStore) AdvocateStats(ctx context.Context, advocateID string) (int64, int64, error) {
	const q = `
SELECT COUNT(*), COALESCE(SUM(total_cost_paise), 0)
FROM calls
WHERE advocate_id = $1 AND status = 'completed'
`
	var count, revenue int64
	err := s.db.QueryRowContext(ctx, q, advocateID).Scan(&count, &revenue)
	return count, revenue, err
}

func (s *PostgresStore) query(ctx context.Context, q string, args ...any) ([]Call, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Call
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
