package httpapi

import (
	"net/http"
	"strconv"

	"lawbridge-platform/internal/advocates"
	"lawbridge-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// PendingAdvocates lists the verification queue, oldest first.
func (a *API) PendingAdvocates(c *gin.Context) {
	list, err := a.Advocates.ListPending(c.Request.Context())
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"advocates": toAdvocateOwnViews(list)})
}

type verifyAdvocateRequest struct {
	Status string `json:"status" binding:"required"`
}

// VerifyAdvocate records an approve/reject decision. Approval triggers the
// welcome email; delivery failure is logged, not surfaced, since the decision
// itself already stuck.
func (a *API) VerifyAdvocate(c *gin.Context) {
	var req verifyAdvocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}

	ctx := c.Request.Context()
	adv, err := a.Advocates.SetVerification(ctx, c.Param("id"), advocates.VerificationStatus(req.Status))
	if err != nil {
		a.writeError(c, err)
		return
	}

	if adv.VerificationStatus == advocates.VerificationApproved {
		if err := a.Mailer.SendAdvocateApproved(ctx, adv.Email, adv.FullName(), adv.FID); err != nil {
			logger.FromGin(c).Warn("approval email delivery failed", "advocate_id", adv.ID, "error", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"advocate": toAdvocateOwnView(adv)})
}

// AdminListAdvocates lists every advocate regardless of status.
func (a *API) AdminListAdvocates(c *gin.Context) {
	list, err := a.Advocates.ListAll(c.Request.Context())
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"advocates": toAdvocateOwnViews(list)})
}

// AdminListClients lists all client accounts.
func (a *API) AdminListClients(c *gin.Context) {
	list, err := a.Accounts.ListClients(c.Request.Context())
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": list})
}

// AdminListCalls lists recent calls platform-wide.
func (a *API) AdminListCalls(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "200"))
	list, err := a.Engine.Store().ListAll(c.Request.Context(), limit)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"calls": toCallViews(list)})
}

// AdminAnalytics summarizes platform activity: call volume, completed
// consultations, gross billed value and the platform's fee share.
func (a *API) AdminAnalytics(c *gin.Context) {
	ctx := c.Request.Context()

	totalCalls, err := a.Engine.Store().CountAll(ctx)
	if err != nil {
		a.writeError(c, err)
		return
	}
	completed, grossPaise, err := a.Engine.Store().CompletedStats(ctx)
	if err != nil {
		a.writeError(c, err)
		return
	}

	share := a.Engine.Billing().AdvocateSharePercent
	advocatePaise := grossPaise * int64(share) / 100
	platformPaise := grossPaise - advocatePaise

	c.JSON(http.StatusOK, gin.H{
		"total_calls":            totalCalls,
		"completed_calls":        completed,
		"gross_billed_paise":     grossPaise,
		"advocate_payouts_paise": advocatePaise,
		"platform_revenue_paise": platformPaise,
		"advocate_share_percent": share,
	})
}
