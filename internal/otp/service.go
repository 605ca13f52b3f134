package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"
)

// DefaultTTL matches the window shown to the user in the email copy.
const DefaultTTL = 60 * time.Second

var ErrInvalidCode = errors.New("invalid or expired code")

// Mailer delivers a code to the user. Delivery failure is not fatal to the
// flow: the code is already stored, and in non-production environments there
// may be no mail provider at all.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string) error
}

// Service issues and verifies short-lived login codes.
type Service struct {
	store  Store
	mailer Mailer
	log    *slog.Logger
	ttl    time.Duration

	// randCode is injectable for deterministic tests.
	randCode func() (string, error)
}

func NewService(store Store, mailer Mailer, log *slog.Logger) *Service {
	return &Service{
		store:    store,
		mailer:   mailer,
		log:      log,
		ttl:      DefaultTTL,
		randCode: randomCode,
	}
}

func key(role, email string) string {
	return role + ":" + email
}

// Issue generates a 6-digit code, stores it under the (role, email) scope and
// emails it. Returns the TTL in seconds for the client-side countdown.
func (s *Service) Issue(ctx context.Context, role, email string) (int, error) {
	code, err := s.randCode()
	if err != nil {
		return 0, err
	}
	if err := s.store.Save(ctx, key(role, email), code, s.ttl); err != nil {
		return 0, err
	}
	if err := s.mailer.SendOTP(ctx, email, code); err != nil {
		s.log.Warn("otp email delivery failed", "email", email, "error", err)
	}
	return int(s.ttl.Seconds()), nil
}

// Verify checks a submitted code and consumes it on success. A missing or
// expired key and a mismatched code both map to ErrInvalidCode; a wrong guess
// does not burn the stored code.
func (s *Service) Verify(ctx context.Context, role, email, code string) error {
	k := key(role, email)
	stored, ok, err := s.store.Get(ctx, k)
	if err != nil {
		return err
	}
	if !ok || stored != code {
		return ErrInvalidCode
	}
	if err := s.store.Delete(ctx, k); err != nil {
		return err
	}
	return nil
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
