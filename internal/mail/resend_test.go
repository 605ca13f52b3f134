package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lawbridge-platform/internal/config"
)

func TestResendClient_SendOTP(t *testing.T) {
	var got sendEmailRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/emails" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer srv.Close()

	c := NewResendClient(config.ResendConfig{APIKey: "re_test", SenderEmail: "noreply@example.com"})
	c.http.SetBaseURL(srv.URL)

	if err := c.SendOTP(context.Background(), "user@example.com", "482913"); err != nil {
		t.Fatalf("SendOTP: %v", err)
	}
	if auth != "Bearer re_test" {
		t.Fatalf("expected bearer auth, got %q", auth)
	}
	if got.From != "noreply@example.com" || len(got.To) != 1 || got.To[0] != "user@example.com" {
		t.Fatalf("unexpected envelope: %+v", got)
	}
	if !strings.Contains(got.HTML, "482913") {
		t.Fatalf("code missing from body: %s", got.HTML)
	}
}

func TestResendClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid sender"}`))
	}))
	defer srv.Close()

	c := NewResendClient(config.ResendConfig{APIKey: "re_test", SenderEmail: "bad"})
	c.http.SetBaseURL(srv.URL)

	if err := c.SendAdvocateApproved(context.Background(), "a@example.com", "Asha", "FID-IND-000001"); err == nil {
		t.Fatal("expected error on 422")
	}
}
