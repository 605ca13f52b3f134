package advocates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("advocate not found")
	ErrDuplicateEmail = errors.New("advocate email already registered")
	ErrNotApproved    = errors.New("advocate not approved")
	ErrInvalidInput   = errors.New("invalid input")
)

// Directory sort keys.
const (
	SortNewest    = "newest"
	SortRating    = "rating"
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
)

type DirectoryFilter struct {
	LawType  string
	City     string
	Language string
	SortBy   string
}

type RegisterRequest struct {
	Email                 string   `json:"email"`
	FirstName             string   `json:"first_name"`
	LastName              string   `json:"last_name"`
	PhoneNumber           string   `json:"phone_number"`
	BarCouncilID          string   `json:"bar_council_id"`
	BarCouncilIssueYears  int      `json:"bar_council_issue_years"`
	BarCouncilIssueMonths int      `json:"bar_council_issue_months"`
	Languages             []string `json:"languages"`
	LawTypes              []string `json:"law_types"`
	WorkingHours          string   `json:"working_hours"`
	Area                  string   `json:"area"`
	City                  string   `json:"city"`
	State                 string   `json:"state"`
	PerMinuteChargePaise  int64    `json:"per_minute_charge_paise"`
}

// UpdateRequest is a sparse profile update. Nil fields are left untouched.
type UpdateRequest struct {
	FirstName            *string   `json:"first_name"`
	LastName             *string   `json:"last_name"`
	PhoneNumber          *string   `json:"phone_number"`
	Languages            *[]string `json:"languages"`
	LawTypes             *[]string `json:"law_types"`
	WorkingHours         *string   `json:"working_hours"`
	Area                 *string   `json:"area"`
	City                 *string   `json:"city"`
	State                *string   `json:"state"`
	PerMinuteChargePaise *int64    `json:"per_minute_charge_paise"`
}

// Service manages the advocate roster: registration, admin verification,
// duty toggling and the client-facing directory.
type Service struct {
	db    *sql.DB
	clock func() time.Time
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, clock: time.Now}
}

// Register creates a pending advocate and allocates its FID. New advocates
// start unverified and off duty; they stay out of the directory until an
// admin approves them and they toggle themselves on duty.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (Advocate, error) {
	if err := validateRegister(req); err != nil {
		return Advocate{}, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := getAdvocateByEmail(ctx, s.db, email); err == nil {
		return Advocate{}, ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return Advocate{}, err
	}

	n, err := nextFIDNumber(ctx, s.db)
	if err != nil {
		return Advocate{}, fmt.Errorf("allocate fid: %w", err)
	}

	a := Advocate{
		ID:                    uuid.NewString(),
		FID:                   FormatFID(n),
		FIDNumber:             n,
		Email:                 email,
		FirstName:             strings.TrimSpace(req.FirstName),
		LastName:              strings.TrimSpace(req.LastName),
		PhoneNumber:           strings.TrimSpace(req.PhoneNumber),
		BarCouncilID:          strings.TrimSpace(req.BarCouncilID),
		BarCouncilIssueYears:  req.BarCouncilIssueYears,
		BarCouncilIssueMonths: req.BarCouncilIssueMonths,
		Languages:             req.Languages,
		LawTypes:              req.LawTypes,
		WorkingHours:          req.WorkingHours,
		Area:                  strings.TrimSpace(req.Area),
		City:                  strings.TrimSpace(req.City),
		State:                 strings.TrimSpace(req.State),
		PerMinuteChargePaise:  req.PerMinuteChargePaise,
		VerificationStatus:    VerificationPending,
		DutyStatus:            false,
		CreatedAt:             s.clock().UTC(),
	}
	if err := insertAdvocate(ctx, s.db, a); err != nil {
		return Advocate{}, err
	}
	return a, nil
}

func validateRegister(req RegisterRequest) error {
	switch {
	case strings.TrimSpace(req.Email) == "":
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	case strings.TrimSpace(req.FirstName) == "":
		return fmt.Errorf("%w: first_name is required", ErrInvalidInput)
	case strings.TrimSpace(req.PhoneNumber) == "":
		return fmt.Errorf("%w: phone_number is required", ErrInvalidInput)
	case strings.TrimSpace(req.BarCouncilID) == "":
		return fmt.Errorf("%w: bar_council_id is required", ErrInvalidInput)
	case req.PerMinuteChargePaise <= 0:
		return fmt.Errorf("%w: per_minute_charge_paise must be positive", ErrInvalidInput)
	case len(req.LawTypes) == 0:
		return fmt.Errorf("%w: at least one law type is required", ErrInvalidInput)
	case len(req.Languages) == 0:
		return fmt.Errorf("%w: at least one language is required", ErrInvalidInput)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (Advocate, error) {
	if id == "" {
		return Advocate{}, ErrNotFound
	}
	return getAdvocate(ctx, s.db, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (Advocate, error) {
	return getAdvocateByEmail(ctx, s.db, strings.ToLower(strings.TrimSpace(email)))
}

// Update applies a sparse profile edit and returns the fresh record.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Advocate, error) {
	a, err := getAdvocate(ctx, s.db, id)
	if err != nil {
		return Advocate{}, err
	}
	if req.FirstName != nil {
		a.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		a.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.PhoneNumber != nil {
		a.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.Languages != nil {
		a.Languages = *req.Languages
	}
	if req.LawTypes != nil {
		a.LawTypes = *req.LawTypes
	}
	if req.WorkingHours != nil {
		a.WorkingHours = *req.WorkingHours
	}
	if req.Area != nil {
		a.Area = strings.TrimSpace(*req.Area)
	}
	if req.City != nil {
		a.City = strings.TrimSpace(*req.City)
	}
	if req.State != nil {
		a.State = strings.TrimSpace(*req.State)
	}
	if req.PerMinuteChargePaise != nil {
		if *req.PerMinuteChargePaise <= 0 {
			return Advocate{}, fmt.Errorf("%w: per_minute_charge_paise must be positive", ErrInvalidInput)
		}
		a.PerMinuteChargePaise = *req.PerMinuteChargePaise
	}
	if err := updateProfile(ctx, s.db, a); err != nil {
		return Advocate{}, err
	}
	return a, nil
}

// SetDutyStatus toggles availability. Only approved advocates may go on duty.
func (s *Service) SetDutyStatus(ctx context.Context, id string, onDuty bool) (Advocate, error) {
	a, err := getAdvocate(ctx, s.db, id)
	if err != nil {
		return Advocate{}, err
	}
	if onDuty && a.VerificationStatus != VerificationApproved {
		return Advocate{}, ErrNotApproved
	}
	if err := setDutyStatus(ctx, s.db, id, onDuty); err != nil {
		return Advocate{}, err
	}
	a.DutyStatus = onDuty
	return a, nil
}

// SetVerification records an admin approve/reject decision.
func (s *Service) SetVerification(ctx context.Context, id string, status VerificationStatus) (Advocate, error) {
	if status != VerificationApproved && status != VerificationRejected {
		return Advocate{}, fmt.Errorf("%w: verification status must be approved or rejected", ErrInvalidInput)
	}
	a, err := getAdvocate(ctx, s.db, id)
	if err != nil {
		return Advocate{}, err
	}
	if err := setVerificationStatus(ctx, s.db, id, status); err != nil {
		return Advocate{}, err
	}
	a.VerificationStatus = status
	return a, nil
}

// ListDirectory returns approved, on-duty advocates matching the filter.
func (s *Service) ListDirectory(ctx context.Context, f DirectoryFilter) ([]Advocate, error) {
	return listDirectory(ctx, s.db, f)
}

func (s *Service) ListPending(ctx context.Context) ([]Advocate, error) {
	return listByVerification(ctx, s.db, VerificationPending)
}

func (s *Service) ListAll(ctx context.Context) ([]Advocate, error) {
	return listAll(ctx, s.db)
}

// ApplyRating folds a 1..5 star rating into the incremental aggregate.
func (s *Service) ApplyRating(ctx context.Context, id string, rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	return applyRating(ctx, s.db, id, rating)
}

// RecordCompletedCase bumps the advocate's completed-consultation counter.
func (s *Service) RecordCompletedCase(ctx context.Context, id string) error {
	return recordCompletedCase(ctx, s.db, id)
}

// TouchLogin stamps last_login_at after a successful OTP verification.
func (s *Service) TouchLogin(ctx context.Context, id string) error {
	return touchLastLogin(ctx, s.db, id, s.clock().UTC())
}
