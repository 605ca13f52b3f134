package telephony

import (
	"strconv"
	"strings"

	"lawbridge-platform/internal/calls"

	"github.com/gin-gonic/gin"
)

// Exotel delivers status callbacks as either GET query params or a POST form
// depending on flow configuration, so every field is read from both.

func formOrQuery(c *gin.Context, keys ...string) string {
	for _, k := range keys {
		if v := c.PostForm(k); v != "" {
			return v
		}
		if v := c.Query(k); v != "" {
			return v
		}
	}
	return ""
}

// parseStatusEvent maps a raw callback onto a StatusEvent. Durations that are
// missing or unparseable become 0 and therefore bill nothing.
func parseStatusEvent(c *gin.Context) calls.StatusEvent {
	status := strings.ToLower(strings.TrimSpace(formOrQuery(c, "Status", "CallStatus")))

	duration := 0
	if raw := formOrQuery(c, "DialCallDuration", "ConversationDuration", "Duration"); raw != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			duration = n
		}
	}

	return calls.StatusEvent{
		CorrelationID:   strings.TrimSpace(formOrQuery(c, "CustomField")),
		ProviderCallID:  strings.TrimSpace(formOrQuery(c, "CallSid", "Sid")),
		Status:          status,
		DurationSeconds: duration,
	}
}
