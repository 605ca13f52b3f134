package advocates

import (
	"fmt"
	"math"
	"time"
)

// Advocate is a registered legal practitioner.
//
// PerMinuteChargePaise is the advocate's listed consultation rate. Calls
// snapshot it at initiation time; later profile edits never reprice a call
// that is already in flight.
type Advocate struct {
	ID string `json:"id" db:"id"`

	// FID is the human-facing platform id ("FID-IND-000042"), allocated
	// sequentially at registration.
	FID       string `json:"fid" db:"fid"`
	FIDNumber int64  `json:"-" db:"fid_number"`

	Email       string `json:"email" db:"email"`
	FirstName   string `json:"first_name" db:"first_name"`
	LastName    string `json:"last_name" db:"last_name"`
	PhoneNumber string `json:"phone_number" db:"phone_number"`

	BarCouncilID          string `json:"bar_council_id" db:"bar_council_id"`
	BarCouncilIssueYears  int    `json:"bar_council_issue_years" db:"bar_council_issue_years"`
	BarCouncilIssueMonths int    `json:"bar_council_issue_months" db:"bar_council_issue_months"`

	Languages    []string `json:"languages" db:"languages"`
	LawTypes     []string `json:"law_types" db:"law_types"`
	WorkingHours string   `json:"working_hours" db:"working_hours"`

	Area  string `json:"area" db:"area"`
	City  string `json:"city" db:"city"`
	State string `json:"state" db:"state"`

	PerMinuteChargePaise int64 `json:"per_minute_charge_paise" db:"per_minute_charge_paise"`

	VerificationStatus VerificationStatus `json:"verification_status" db:"verification_status"`
	DutyStatus         bool               `json:"duty_status" db:"duty_status"`

	// Rating aggregate is incremental (count + sum) so a rating submission
	// never rescans call history.
	RatingCount int64 `json:"-" db:"rating_count"`
	RatingSum   int64 `json:"-" db:"rating_sum"`

	TotalCases int64 `json:"total_cases" db:"total_cases"`

	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	LastLoginAt *time.Time `json:"-" db:"last_login_at"`
}

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// WorkingHours values accepted at registration.
const (
	WorkingHoursAnytime  = "anytime"
	WorkingHours9to10    = "9am_10pm"
	WorkingHoursAllNight = "24_7"
)

// AverageRating projects the incremental aggregate, rounded to 2 decimals.
func (a Advocate) AverageRating() float64 {
	if a.RatingCount == 0 {
		return 0
	}
	avg := float64(a.RatingSum) / float64(a.RatingCount)
	return math.Round(avg*100) / 100
}

func (a Advocate) FullName() string {
	return a.FirstName + " " + a.LastName
}

// FormatFID renders the platform id for a sequence number.
func FormatFID(n int64) string {
	return fmt.Sprintf("FID-IND-%06d", n)
}
