package httpapi

import (
	"io"
	"net/http"

	"lawbridge-platform/internal/refdata"
	"lawbridge-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RefData serves the registration and directory pick-lists.
func (a *API) RefData(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"cities":    refdata.Cities(),
		"law_types": refdata.LawTypes(),
		"languages": refdata.Languages(),
	})
}

// RazorpayWebhook acknowledges payment-gateway events. Wallet top-ups are
// credited through the authenticated top-up endpoint; this endpoint only logs
// the delivery so the gateway stops retrying.
func (a *API) RazorpayWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 64<<10))
	if err != nil {
		body = nil
	}
	logger.FromGin(c).Info("razorpay webhook received",
		"event", c.GetHeader("X-Razorpay-Event-Id"),
		"bytes", len(body),
	)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
