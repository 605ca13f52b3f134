// Package httpapi is the REST surface: request binding, identity plumbing,
// response shaping and error mapping. Business rules live in the domain
// packages; handlers here orchestrate them.
package httpapi

import (
	"errors"
	"net/http"
	"time"

	"lawbridge-platform/internal/accounts"
	"lawbridge-platform/internal/advocates"
	"lawbridge-platform/internal/auth"
	"lawbridge-platform/internal/calls"
	"lawbridge-platform/internal/mail"
	"lawbridge-platform/internal/otp"
	"lawbridge-platform/internal/wallet"
	"lawbridge-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

type API struct {
	Auth      *auth.Manager
	OTP       *otp.Service
	Accounts  *accounts.Service
	Advocates *advocates.Service
	Wallet    *wallet.Service
	Engine    *calls.Engine
	Mailer    mail.Sender

	clock func() time.Time
}

func New(authMgr *auth.Manager, otpSvc *otp.Service, accountsSvc *accounts.Service, advocatesSvc *advocates.Service, walletSvc *wallet.Service, engine *calls.Engine, mailer mail.Sender) *API {
	return &API{
		Auth:      authMgr,
		OTP:       otpSvc,
		Accounts:  accountsSvc,
		Advocates: advocatesSvc,
		Wallet:    walletSvc,
		Engine:    engine,
		Mailer:    mailer,
		clock:     time.Now,
	}
}

// writeError maps domain errors onto HTTP statuses. Validation problems are
// 400, auth problems 401, missing records 404, violated preconditions 409,
// and upstream telephony trouble 502. Anything unmapped is a logged 500 with
// no internals leaked.
func (a *API) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, calls.ErrInvalidInput),
		errors.Is(err, advocates.ErrInvalidInput),
		errors.Is(err, accounts.ErrInvalidInput),
		errors.Is(err, wallet.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, otp.ErrInvalidCode):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	case errors.Is(err, calls.ErrCallNotFound),
		errors.Is(err, calls.ErrAdvocateNotFound),
		errors.Is(err, advocates.ErrNotFound),
		errors.Is(err, accounts.ErrNotFound),
		errors.Is(err, wallet.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, calls.ErrNotApproved),
		errors.Is(err, calls.ErrOffDuty),
		errors.Is(err, calls.ErrInsufficientBalance),
		errors.Is(err, advocates.ErrNotApproved),
		errors.Is(err, advocates.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, calls.ErrGatewayUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "call could not be placed, please try again"})

	default:
		logger.FromGin(c).Error("unhandled error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// callerID returns the authenticated account id or aborts with 401.
func callerID(c *gin.Context) (string, bool) {
	id, err := auth.AccountID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return "", false
	}
	return id, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
