package rbac

// Role names. Keep these stable; they are part of auth contracts.
const (
	RoleClient   = "client"
	RoleAdvocate = "advocate"
	RoleAdmin    = "admin"
)

func IsAdmin(role string) bool { return role == RoleAdmin }

func IsValidRole(role string) bool {
	switch role {
	case RoleClient, RoleAdvocate, RoleAdmin:
		return true
	default:
		return false
	}
}
