package httpapi

import (
	"time"

	"lawbridge-platform/internal/advocates"
	"lawbridge-platform/internal/calls"
	"lawbridge-platform/internal/wallet"
)

// advocatePublicView is what clients see in the directory. Contact details
// stay hidden; the whole point of masked calling is that numbers never leak.
type advocatePublicView struct {
	ID                   string   `json:"id"`
	FID                  string   `json:"fid"`
	Name                 string   `json:"name"`
	Languages            []string `json:"languages"`
	LawTypes             []string `json:"law_types"`
	WorkingHours         string   `json:"working_hours"`
	Area                 string   `json:"area"`
	City                 string   `json:"city"`
	State                string   `json:"state"`
	PerMinuteChargePaise int64    `json:"per_minute_charge_paise"`
	AverageRating        float64  `json:"average_rating"`
	RatingCount          int64    `json:"rating_count"`
	TotalCases           int64    `json:"total_cases"`
	OnDuty               bool     `json:"on_duty"`
}

func toAdvocatePublicView(a advocates.Advocate) advocatePublicView {
	return advocatePublicView{
		ID:                   a.ID,
		FID:                  a.FID,
		Name:                 a.FullName(),
		Languages:            a.Languages,
		LawTypes:             a.LawTypes,
		WorkingHours:         a.WorkingHours,
		Area:                 a.Area,
		City:                 a.City,
		State:                a.State,
		PerMinuteChargePaise: a.PerMinuteChargePaise,
		AverageRating:        a.AverageRating(),
		RatingCount:          a.RatingCount,
		TotalCases:           a.TotalCases,
		OnDuty:               a.DutyStatus,
	}
}

func toAdvocatePublicViews(list []advocates.Advocate) []advocatePublicView {
	out := make([]advocatePublicView, 0, len(list))
	for _, a := range list {
		out = append(out, toAdvocatePublicView(a))
	}
	return out
}

// advocateOwnView is the advocate's (and admin's) full profile view.
type advocateOwnView struct {
	advocatePublicView
	Email                 string     `json:"email"`
	PhoneNumber           string     `json:"phone_number"`
	BarCouncilID          string     `json:"bar_council_id"`
	BarCouncilIssueYears  int        `json:"bar_council_issue_years"`
	BarCouncilIssueMonths int        `json:"bar_council_issue_months"`
	VerificationStatus    string     `json:"verification_status"`
	CreatedAt             time.Time  `json:"created_at"`
	LastLoginAt           *time.Time `json:"last_login_at,omitempty"`
}

func toAdvocateOwnView(a advocates.Advocate) advocateOwnView {
	return advocateOwnView{
		advocatePublicView:    toAdvocatePublicView(a),
		Email:                 a.Email,
		PhoneNumber:           a.PhoneNumber,
		BarCouncilID:          a.BarCouncilID,
		BarCouncilIssueYears:  a.BarCouncilIssueYears,
		BarCouncilIssueMonths: a.BarCouncilIssueMonths,
		VerificationStatus:    string(a.VerificationStatus),
		CreatedAt:             a.CreatedAt,
		LastLoginAt:           a.LastLoginAt,
	}
}

func toAdvocateOwnViews(list []advocates.Advocate) []advocateOwnView {
	out := make([]advocateOwnView, 0, len(list))
	for _, a := range list {
		out = append(out, toAdvocateOwnView(a))
	}
	return out
}

// callView is the call-history row. Phone numbers are never exposed.
type callView struct {
	ID                 string     `json:"id"`
	ClientID           string     `json:"client_id"`
	AdvocateID         string     `json:"advocate_id"`
	Status             string     `json:"status"`
	CostPerMinutePaise int64      `json:"cost_per_minute_paise"`
	DurationSeconds    int        `json:"duration_seconds"`
	BilledMinutes      int        `json:"billed_minutes"`
	TotalCostPaise     int64      `json:"total_cost_paise"`
	Rating             int        `json:"rating,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	EndedAt            *time.Time `json:"ended_at,omitempty"`
}

func toCallView(c calls.Call) callView {
	return callView{
		ID:                 c.ID,
		ClientID:           c.ClientID,
		AdvocateID:         c.AdvocateID,
		Status:             string(c.Status),
		CostPerMinutePaise: c.CostPerMinutePaise,
		DurationSeconds:    c.DurationSeconds,
		BilledMinutes:      c.BilledMinutes,
		TotalCostPaise:     c.TotalCostPaise,
		Rating:             c.Rating,
		CreatedAt:          c.CreatedAt,
		EndedAt:            c.EndedAt,
	}
}

func toCallViews(list []calls.Call) []callView {
	out := make([]callView, 0, len(list))
	for _, c := range list {
		out = append(out, toCallView(c))
	}
	return out
}

type walletView struct {
	AccountID    string `json:"account_id"`
	BalancePaise int64  `json:"balance_paise"`
	Currency     string `json:"currency"`
}

func toWalletView(w wallet.Wallet) walletView {
	return walletView{
		AccountID:    w.AccountID,
		BalancePaise: w.BalancePaise,
		Currency:     w.Currency,
	}
}
