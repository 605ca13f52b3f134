package mail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lawbridge-platform/internal/config"

	"github.com/go-resty/resty/v2"
)

// Sender is the outbound email surface used by the OTP flow and the admin
// approval flow.
type Sender interface {
	SendOTP(ctx context.Context, email, code string) error
	SendAdvocateApproved(ctx context.Context, email, name, fid string) error
}

// ResendClient sends transactional mail through the Resend HTTP API.
type ResendClient struct {
	http   *resty.Client
	sender string
}

func NewResendClient(cfg config.ResendConfig) *ResendClient {
	return &ResendClient{
		http: resty.New().
			SetBaseURL("https://api.resend.com").
			SetAuthToken(cfg.APIKey).
			SetTimeout(10 * time.Second),
		sender: cfg.SenderEmail,
	}
}

type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (c *ResendClient) send(ctx context.Context, to, subject, html string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(sendEmailRequest{
			From:    c.sender,
			To:      []string{to},
			Subject: subject,
			HTML:    html,
		}).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("resend: status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

func (c *ResendClient) SendOTP(ctx context.Context, email, code string) error {
	html := fmt.Sprintf(`
<div style="font-family: sans-serif; max-width: 480px;">
  <h2>Your login code</h2>
  <p>Use this code to sign in. It expires in 60 seconds.</p>
  <p style="font-size: 32px; letter-spacing: 8px; font-weight: bold;">%s</p>
  <p>If you did not request this code, you can ignore this email.</p>
</div>`, code)
	return c.send(ctx, email, "Your verification code", html)
}

func (c *ResendClient) SendAdvocateApproved(ctx context.Context, email, name, fid string) error {
	html := fmt.Sprintf(`
<div style="font-family: sans-serif; max-width: 480px;">
  <h2>Welcome aboard, %s</h2>
  <p>Your advocate profile has been verified and approved.</p>
  <p>Your platform ID is <strong>%s</strong>.</p>
  <p>Go on duty from your dashboard to start receiving consultations.</p>
</div>`, name, fid)
	return c.send(ctx, email, "Your advocate profile is approved", html)
}

// Disabled is a Sender for environments without a mail provider. Messages are
// logged instead of delivered so the OTP code is still reachable in local dev.
type Disabled struct {
	log *slog.Logger
}

func NewDisabled(log *slog.Logger) *Disabled {
	return &Disabled{log: log}
}

func (d *Disabled) SendOTP(ctx context.Context, email, code string) error {
	d.log.Info("mail disabled, otp not delivered", "email", email, "code", code)
	return nil
}

func (d *Disabled) SendAdvocateApproved(ctx context.Context, email, name, fid string) error {
	d.log.Info("mail disabled, approval notice not delivered", "email", email, "fid", fid)
	return nil
}
