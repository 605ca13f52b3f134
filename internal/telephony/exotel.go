package telephony

import (
	"context"
	"fmt"

	"lawbridge-platform/internal/calls"
	"lawbridge-platform/internal/config"

	"github.com/go-resty/resty/v2"
)

// ExotelClient places masked calls through Exotel's connect API. It
// implements calls.Gateway.
//
// The request is not retried: a timed-out dial may still have gone through on
// Exotel's side, and a blind retry would ring the client twice. The engine
// marks the call failed and the user redials.
type ExotelClient struct {
	http       *resty.Client
	accountSID string
	exophone   string
}

func NewExotelClient(cfg config.ExotelConfig) *ExotelClient {
	return &ExotelClient{
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetBasicAuth(cfg.APIKey, cfg.APIToken).
			SetTimeout(cfg.Timeout),
		accountSID: cfg.AccountSID,
		exophone:   cfg.Exophone,
	}
}

type exotelCallResponse struct {
	Call struct {
		Sid    string `json:"Sid"`
		Status string `json:"Status"`
	} `json:"Call"`
}

func (c *ExotelClient) Dial(ctx context.Context, req calls.DialRequest) (calls.DialResponse, error) {
	var out exotelCallResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"From":     req.From,
			"To":       req.To,
			"CallerId": c.exophone,
			// Echoed back verbatim in status callbacks; primary
			// correlation key for settlement.
			"CustomField": req.CallID,
		}).
		SetResult(&out).
		Post(fmt.Sprintf("/v1/Accounts/%s/Calls/connect.json", c.accountSID))
	if err != nil {
		return calls.DialResponse{}, fmt.Errorf("exotel connect: %w", err)
	}
	if resp.IsError() {
		return calls.DialResponse{}, fmt.Errorf("exotel connect: status %d: %s", resp.StatusCode(), resp.String())
	}
	if out.Call.Sid == "" {
		return calls.DialResponse{}, fmt.Errorf("exotel connect: response missing call sid")
	}
	return calls.DialResponse{
		ProviderCallID: out.Call.Sid,
		Status:         out.Call.Status,
	}, nil
}
