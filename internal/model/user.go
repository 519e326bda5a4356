package model

import "time"

// User represents a backend staff account as stored in the `users` table.
// Staff users hold one or more roles through the user_roles join table and
// their effective permission set is the union of permissions across their
// active backend-scoped roles.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – display name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Role scope values.  Backend roles gate staff routes; company roles exist
// for portal-side grouping and never grant staff permissions.
const (
	RoleScopeBackend = "backend"
	RoleScopeCompany = "company"
)

// Role is a named permission bundle in the `roles` table.  A role owns many
// Permission rows, one per allowed route name.
type Role struct {
	ID        uint64    // roles.id
	Name      string    // roles.name (unique)
	Scope     string    // roles.scope (backend|company)
	IsActive  bool      // roles.is_active
	CreatedAt time.Time // roles.created_at
	UpdatedAt time.Time // roles.updated_at
}

// Permission is one allowed route name owned by a role.
type Permission struct {
	ID        uint64 // permissions.id
	RoleID    uint64 // permissions.role_id
	RouteName string // permissions.route_name
}

// RefreshToken models an entry in the `refresh_tokens` table.  The plain
// token is never stored; only its SHA-256 hash.  ActorType records whether
// the token belongs to a staff user or a company user, since both kinds of
// account authenticate against the same table.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	ActorType string     // refresh_tokens.actor_type (staff|company)
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
