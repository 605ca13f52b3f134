package accounts

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"lawbridge-platform/internal/rbac"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("account not found")
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	db    *sql.DB
	clock func() time.Time
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, clock: time.Now}
}

// FindOrCreateClient resolves a client account by email, creating it on first
// login. The created flag tells the caller to provision a wallet.
func (s *Service) FindOrCreateClient(ctx context.Context, email string) (Account, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Account{}, false, ErrInvalidInput
	}

	a, err := getAccountByEmailRole(ctx, s.db, email, rbac.RoleClient)
	if err == nil {
		return a, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Account{}, false, err
	}

	a = Account{
		ID:        uuid.NewString(),
		Email:     email,
		Role:      rbac.RoleClient,
		CreatedAt: s.clock().UTC(),
	}
	if err := insertAccount(ctx, s.db, a); err != nil {
		return Account{}, false, err
	}
	return a, true, nil
}

// GetByEmailRole resolves an existing account. Unlike clients, admin accounts
// are never auto-created at login.
func (s *Service) GetByEmailRole(ctx context.Context, email, role string) (Account, error) {
	return getAccountByEmailRole(ctx, s.db, strings.ToLower(strings.TrimSpace(email)), role)
}

func (s *Service) Get(ctx context.Context, id string) (Account, error) {
	if id == "" {
		return Account{}, ErrNotFound
	}
	return getAccount(ctx, s.db, id)
}

// UpdateProfile sets the client-editable fields.
func (s *Service) UpdateProfile(ctx context.Context, id, name, city string) (Account, error) {
	if err := updateAccountProfile(ctx, s.db, id, strings.TrimSpace(name), strings.TrimSpace(city)); err != nil {
		return Account{}, err
	}
	return getAccount(ctx, s.db, id)
}

func (s *Service) TouchLogin(ctx context.Context, id string) error {
	return touchAccountLogin(ctx, s.db, id, s.clock().UTC())
}

func (s *Service) ListClients(ctx context.Context) ([]Account, error) {
	return listAccountsByRole(ctx, s.db, rbac.RoleClient)
}

// EnsureAdmin provisions the bootstrap admin account if it does not exist.
// Called once at startup when ADMIN_EMAIL is configured.
func (s *Service) EnsureAdmin(ctx context.Context, email string) (Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Account{}, ErrInvalidInput
	}
	a, err := getAccountByEmailRole(ctx, s.db, email, rbac.RoleAdmin)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Account{}, err
	}
	a = Account{
		ID:        uuid.NewString(),
		Email:     email,
		Role:      rbac.RoleAdmin,
		Name:      "Administrator",
		CreatedAt: s.clock().UTC(),
	}
	if err := insertAccount(ctx, s.db, a); err != nil {
		return Account{}, err
	}
	return a, nil
}
