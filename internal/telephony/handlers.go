package telephony

import (
	"log/slog"
	"net/http"

	"lawbridge-platform/internal/calls"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	webhookOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lawbridge",
		Subsystem: "telephony",
		Name:      "status_callback_outcomes_total",
		Help:      "Status callback deliveries by settlement outcome.",
	}, []string{"outcome"})

	passthruResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lawbridge",
		Subsystem: "telephony",
		Name:      "passthru_results_total",
		Help:      "Passthru routing requests by result.",
	}, []string{"result"})
)

// WebhookHandler terminates the provider-facing callback endpoints.
type WebhookHandler struct {
	engine *calls.Engine
	log    *slog.Logger
}

func NewWebhookHandler(engine *calls.Engine, log *slog.Logger) *WebhookHandler {
	return &WebhookHandler{engine: engine, log: log}
}

// HandleStatusCallback absorbs a call status event. The endpoint always acks
// 200, even on internal failure: a non-2xx answer triggers provider-side
// redelivery storms, the engine is idempotent so redelivery of a classified
// event changes nothing, and a genuinely missed settlement is reconciled
// out-of-band from logs.
func (h *WebhookHandler) HandleStatusCallback(c *gin.Context) {
	ev := parseStatusEvent(c)

	res, err := h.engine.HandleStatusEvent(c.Request.Context(), ev)
	if err != nil {
		h.log.Error("status callback processing failed",
			"correlation_id", ev.CorrelationID,
			"provider_call_id", ev.ProviderCallID,
			"status", ev.Status,
			"error", err,
		)
		webhookOutcomes.WithLabelValues("error").Inc()
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	webhookOutcomes.WithLabelValues(string(res.Outcome)).Inc()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "outcome": string(res.Outcome)})
}

// HandlePassthru answers the provider's mid-call routing question with the
// advocate's number as plain text. A 404 tells the flow to play its fallback.
func (h *WebhookHandler) HandlePassthru(c *gin.Context) {
	caller := formOrQuery(c, "CallFrom", "From")
	legCallID := formOrQuery(c, "CallSid", "Sid")

	number, ok, err := h.engine.ResolvePassthru(c.Request.Context(), caller, legCallID)
	if err != nil {
		h.log.Error("passthru resolution failed", "caller", caller, "error", err)
		passthruResults.WithLabelValues("error").Inc()
		c.String(http.StatusNotFound, "")
		return
	}
	if !ok {
		passthruResults.WithLabelValues("unmatched").Inc()
		c.String(http.StatusNotFound, "")
		return
	}

	passthruResults.WithLabelValues("routed").Inc()
	c.String(http.StatusOK, number)
}
