package model

import "time"

// Role is the capability set a staff account was granted.  It is
// resolved once at login and carried in the access token.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleReception Role = "RECEPTION"
	RoleGuest     Role = "GUEST"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleReception || r == RoleGuest
}

// CanManageReservations reports whether the role may create, edit and
// cancel reservations and view the calendar.
func (r Role) CanManageReservations() bool {
	return r == RoleAdmin || r == RoleReception
}

// CanViewStatistics reports whether the role may open hotel statistics.
func (r Role) CanViewStatistics() bool {
	return r == RoleAdmin
}

// User represents a staff account as stored in the `users` table.
//
// Fields:
//
//	ID           – primary key identifier.
//	Username     – unique login name.
//	PasswordHash – bcrypt hashed password.
//	Role         – ADMIN, RECEPTION or GUEST.
//	IsActive     – whether the account may log in.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only
// the SHA-256 hash of the token value is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	SessionID string     // refresh_tokens.session_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
