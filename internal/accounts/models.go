package accounts

import "time"

// Account is a client or admin identity. Advocates carry their own richer
// record in the advocates package; all three share the accounts id space for
// wallets and JWT subjects.
type Account struct {
	ID          string     `json:"id" db:"id"`
	Email       string     `json:"email" db:"email"`
	Role        string     `json:"role" db:"role"`
	Name        string     `json:"name" db:"name"`
	City        string     `json:"city" db:"city"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at" db:"last_login_at"`
}
