package telephony

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lawbridge-platform/internal/calls"
	"lawbridge-platform/internal/config"
)

func TestExotelClient_Dial(t *testing.T) {
	var gotForm map[string]string
	var user, pass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/v1/Accounts/acme/Calls/connect.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		user, pass, _ = r.BasicAuth()
		r.ParseForm()
		gotForm = map[string]string{}
		for k := range r.PostForm {
			gotForm[k] = r.PostForm.Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Call":{"Sid":"abc123","Status":"in-progress"}}`))
	}))
	defer srv.Close()

	client := NewExotelClient(config.ExotelConfig{
		APIKey:     "key",
		APIToken:   "token",
		AccountSID: "acme",
		Exophone:   "08030752222",
		BaseURL:    srv.URL,
		Timeout:    5 * time.Second,
	})

	resp, err := client.Dial(context.Background(), calls.DialRequest{
		CallID: "call-1",
		From:   "9876543210",
		To:     "9812345678",
	})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp.ProviderCallID != "abc123" {
		t.Fatalf("provider call id %q", resp.ProviderCallID)
	}
	if user != "key" || pass != "token" {
		t.Fatalf("basic auth %q/%q", user, pass)
	}
	want := map[string]string{
		"From":        "9876543210",
		"To":          "9812345678",
		"CallerId":    "08030752222",
		"CustomField": "call-1",
	}
	for k, v := range want {
		if gotForm[k] != v {
			t.Errorf("form %s = %q, want %q", k, gotForm[k], v)
		}
	}
}

func TestExotelClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"RestException":{"Message":"not allowed"}}`))
	}))
	defer srv.Close()

	client := NewExotelClient(config.ExotelConfig{
		AccountSID: "acme", Exophone: "080", BaseURL: srv.URL, Timeout: time.Second,
	})
	if _, err := client.Dial(context.Background(), calls.DialRequest{CallID: "c", From: "1", To: "2"}); err == nil {
		t.Fatal("expected error on 403")
	}
}

func TestExotelClient_MissingSid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Call":{}}`))
	}))
	defer srv.Close()

	client := NewExotelClient(config.ExotelConfig{
		AccountSID: "acme", Exophone: "080", BaseURL: srv.URL, Timeout: time.Second,
	})
	if _, err := client.Dial(context.Background(), calls.DialRequest{CallID: "c", From: "1", To: "2"}); err == nil {
		t.Fatal("expected error when sid is missing")
	}
}
