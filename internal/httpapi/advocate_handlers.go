package httpapi

import (
	"net/http"

	"lawbridge-platform/internal/advocates"

	"github.com/gin-gonic/gin"
)

// RegisterAdvocate is the public onboarding endpoint. The new advocate lands
// in the admin verification queue and gets a wallet for future earnings.
func (a *API) RegisterAdvocate(c *gin.Context) {
	var req advocates.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid registration payload")
		return
	}

	adv, err := a.Advocates.Register(c.Request.Context(), req)
	if err != nil {
		a.writeError(c, err)
		return
	}
	if err := a.Wallet.CreateWallet(c.Request.Context(), adv.ID); err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"advocate": toAdvocateOwnView(adv),
		"message":  "registration received, pending verification",
	})
}

// AdvocateProfile returns the caller's own profile.
func (a *API) AdvocateProfile(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	adv, err := a.Advocates.Get(c.Request.Context(), id)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"advocate": toAdvocateOwnView(adv)})
}

// UpdateAdvocateProfile applies a sparse edit to the caller's profile.
func (a *API) UpdateAdvocateProfile(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	var req advocates.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid profile payload")
		return
	}
	adv, err := a.Advocates.Update(c.Request.Context(), id, req)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"advocate": toAdvocateOwnView(adv)})
}

type dutyStatusRequest struct {
	OnDuty *bool `json:"on_duty" binding:"required"`
}

// SetDutyStatus toggles the caller's availability in the directory.
func (a *API) SetDutyStatus(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	var req dutyStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OnDuty == nil {
		badRequest(c, "on_duty is required")
		return
	}
	adv, err := a.Advocates.SetDutyStatus(c.Request.Context(), id, *req.OnDuty)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"on_duty": adv.DutyStatus})
}

// AdvocateDashboard summarizes the caller's practice: completed
// consultations, gross consultation value, current wallet balance and rating.
func (a *API) AdvocateDashboard(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	adv, err := a.Advocates.Get(ctx, id)
	if err != nil {
		a.writeError(c, err)
		return
	}
	completed, grossPaise, err := a.Engine.Store().AdvocateStats(ctx, id)
	if err != nil {
		a.writeError(c, err)
		return
	}
	balance, err := a.Wallet.Balance(ctx, id)
	if err != nil {
		a.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"completed_calls":         completed,
		"gross_billed_paise":      grossPaise,
		"earnings_balance_paise":  balance,
		"average_rating":          adv.AverageRating(),
		"rating_count":            adv.RatingCount,
		"total_cases":             adv.TotalCases,
		"on_duty":                 adv.DutyStatus,
		"verification_status":     string(adv.VerificationStatus),
		"per_minute_charge_paise": adv.PerMinuteChargePaise,
	})
}

// AdvocateCallHistory lists the caller's consultations, newest first.
func (a *API) AdvocateCallHistory(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	list, err := a.Engine.Store().ListByAdvocate(c.Request.Context(), id)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"calls": toCallViews(list)})
}
