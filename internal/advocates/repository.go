package advocates

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// NOTE: This repository assumes the following objects exist:
//
//   advocates        (id PK, fid UNIQUE, fid_number, email UNIQUE, first_name,
//                     last_name, phone_number, bar_council_id,
//                     bar_council_issue_years, bar_council_issue_months,
//                     languages JSONB, law_types JSONB, working_hours,
//                     area, city, state, per_minute_charge_paise,
//                     verification_status, duty_status, rating_count,
//                     rating_sum, total_cases, created_at, last_login_at)
//   advocate_fid_seq (sequence backing the FID allocation)

const advocateColumns = `
id, fid, fid_number, email, first_name, last_name, phone_number,
bar_council_id, bar_council_issue_years, bar_council_issue_months,
languages, law_types, working_hours, area, city, state,
per_minute_charge_paise, verification_status, duty_status,
rating_count, rating_sum, total_cases, created_at, last_login_at
`

func scanAdvocate(row interface{ Scan(...any) error }) (Advocate, error) {
	var (
		a         Advocate
		languages []byte
		lawTypes  []byte
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&a.ID, &a.FID, &a.FIDNumber, &a.Email, &a.FirstName, &a.LastName, &a.PhoneNumber,
		&a.BarCouncilID, &a.BarCouncilIssueYears, &a.BarCouncilIssueMonths,
		&languages, &lawTypes, &a.WorkingHours, &a.Area, &a.City, &a.State,
		&a.PerMinuteChargePaise, &a.VerificationStatus, &a.DutyStatus,
		&a.RatingCount, &a.RatingSum, &a.TotalCases, &a.CreatedAt, &lastLogin,
	)
	if err != nil {
		return Advocate{}, err
	}
	if err := json.Unmarshal(languages, &a.Languages); err != nil {
		return Advocate{}, fmt.Errorf("decode languages: %w", err)
	}
	if err := json.Unmarshal(lawTypes, &a.LawTypes); err != nil {
		return Advocate{}, fmt.Errorf("decode law_types: %w", err)
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		a.LastLoginAt = &t
	}
	return a, nil
}

func nextFIDNumber(ctx context.Context, db *sql.DB) (int64, error) {
	var n int64
	err := db.QueryRowContext(ctx, `SELECT nextval('advocate_fid_seq')`).Scan(&n)
	return n, err
}

func insertAdvocate(ctx context.Context, db *sql.DB, a Advocate) error {
	const q = `
INSERT INTO advocates (` + advocateColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)
`
	languages, err := json.Marshal(a.Languages)
	if err != nil {
		return err
	}
	lawTypes, err := json.Marshal(a.LawTypes)
	if err != nil {
		return err
	}
	var lastLogin any
	if a.LastLoginAt != nil {
		lastLogin = *a.LastLoginAt
	}
	_, err = db.ExecContext(ctx, q,
		a.ID, a.FID, a.FIDNumber, a.Email, a.FirstName, a.LastName, a.PhoneNumber,
		a.BarCouncilID, a.BarCouncilIssueYears, a.BarCouncilIssueMonths,
		languages, lawTypes, a.WorkingHours, a.Area, a.City, a.State,
		a.PerMinuteChargePaise, a.VerificationStatus, a.DutyStatus,
		a.RatingCount, a.RatingSum, a.TotalCases, a.CreatedAt, lastLogin,
	)
	return err
}

func getAdvocate(ctx context.Context, db *sql.DB, id string) (Advocate, error) {
	const q = `SELECT ` + advocateColumns + ` FROM advocates WHERE id = $1`
	a, err := scanAdvocate(db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Advocate{}, ErrNotFound
	}
	return a, err
}

func getAdvocateByEmail(ctx context.Context, db *sql.DB, email string) (Advocate, error) {
	const q = `SELECT ` + advocateColumns + ` FROM advocates WHERE email = $1`
	a, err := scanAdvocate(db.QueryRowContext(ctx, q, email))
	if errors.Is(err, sql.ErrNoRows) {
		return Advocate{}, ErrNotFound
	}
	return a, err
}

func updateProfile(ctx context.Context, db *sql.DB, a Advocate) error {
	const q = `
UPDATE advocates
SET first_name = $2, last_name = $3, phone_number = $4,
    languages = $5, law_types = $6, working_hours = $7,
    area = $8, city = $9, state = $10, per_minute_charge_paise = $11
WHERE id = $1
`
	languages, err := json.Marshal(a.Languages)
	if err != nil {
		return err
	}
	lawTypes, err := json.Marshal(a.LawTypes)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, q,
		a.ID, a.FirstName, a.LastName, a.PhoneNumber,
		languages, lawTypes, a.WorkingHours,
		a.Area, a.City, a.State, a.PerMinuteChargePaise,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func setDutyStatus(ctx context.Context, db *sql.DB, id string, onDuty bool) error {
	res, err := db.ExecContext(ctx, `UPDATE advocates SET duty_status = $2 WHERE id = $1`, id, onDuty)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func setVerificationStatus(ctx context.Context, db *sql.DB, id string, status VerificationStatus) error {
	res, err := db.ExecContext(ctx, `UPDATE advocates SET verification_status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func applyRating(ctx context.Context, db *sql.DB, id string, rating int) error {
	const q = `
UPDATE advocates
SET rating_count = rating_count + 1, rating_sum = rating_sum + $2
WHERE id = $1
`
	res, err := db.ExecContext(ctx, q, id, rating)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func recordCompletedCase(ctx context.Context, db *sql.DB, id string) error {
	res, err := db.ExecContext(ctx, `UPDATE advocates SET total_cases = total_cases + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func touchLastLogin(ctx context.Context, db *sql.DB, id string, now time.Time) error {
	_, err := db.ExecContext(ctx, `UPDATE advocates SET last_login_at = $2 WHERE id = $1`, id, now)
	return err
}

// directorySorts whitelists ORDER BY clauses so the sort key from the request
// never reaches the SQL as raw text.
var directorySorts = map[string]string{
	SortNewest:    "created_at DESC",
	SortRating:    "(CASE WHEN rating_count = 0 THEN 0 ELSE rating_sum::float / rating_count END) DESC, rating_count DESC",
	SortPriceLow:  "per_minute_charge_paise ASC",
	SortPriceHigh: "per_minute_charge_paise DESC",
}

func listDirectory(ctx context.Context, db *sql.DB, f DirectoryFilter) ([]Advocate, error) {
	orderBy, ok := directorySorts[f.SortBy]
	if !ok {
		orderBy = directorySorts[SortNewest]
	}
	q := `
SELECT ` + advocateColumns + `
FROM advocates
WHERE verification_status = 'approved'
  AND duty_status
  AND ($1 = '' OR law_types @> to_jsonb(ARRAY[$1]::text[]))
  AND ($2 = '' OR city = $2)
  AND ($3 = '' OR languages @> to_jsonb(ARRAY[$3]::text[]))
ORDER BY ` + orderBy
	return queryAdvocates(ctx, db, q, f.LawType, f.City, f.Language)
}

func listByVerification(ctx context.Context, db *sql.DB, status VerificationStatus) ([]Advocate, error) {
	const q = `
SELECT ` + advocateColumns + `
FROM advocates
WHERE verification_status = $1
ORDER BY created_at ASC
`
	return queryAdvocates(ctx, db, q, status)
}

func listAll(ctx context.Context, db *sql.DB) ([]Advocate, error) {
	const q = `SELECT ` + advocateColumns + ` FROM advocates ORDER BY created_at DESC`
	return queryAdvocates(ctx, db, q)
}

func queryAdvocates(ctx context.Context, db *sql.DB, q string, args ...any) ([]Advocate, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Advocate
	for rows.Next() {
		a, err := scanAdvocate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
