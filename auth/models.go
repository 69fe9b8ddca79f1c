package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the user directory model. PasswordHash is empty for accounts that
// have been provisioned but not yet activated; LoginSession holds the current
// session marker, empty when no session is live.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	CompanyID     *uuid.UUID `bun:"company_id,nullzero,type:uuid" json:"company_id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	Role          RoleType   `bun:"user_role,notnull" json:"user_role,omitempty"`
	LoginSession  string     `bun:"login_session" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// CanAuthenticate reports whether the account has been activated with a
// password. Provisioned-but-unactivated accounts exist in the directory but
// cannot hold a live session.
func (u *User) CanAuthenticate() bool {
	return u != nil && u.PasswordHash != ""
}

// CompanyScope returns the owning company reference in wire form, empty for
// unscoped accounts (superadmin, ordinary users).
func (u *User) CompanyScope() string {
	if u == nil || u.CompanyID == nil {
		return ""
	}
	return u.CompanyID.String()
}

// LoginHistory is an append-only record of successful authentication events.
// Rows are created on each login and never mutated or deleted here; retention
// is out of scope.
type LoginHistory struct {
	bun.BaseModel  `bun:"table:login_history,alias:lh"`
	ID             uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID         uuid.UUID `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	LoginTimestamp time.Time `bun:"login_timestamp,notnull" json:"login_timestamp,omitempty"`
}

// NewUser describes an account to be provisioned
type NewUser struct {
	Username  string
	Email     string
	Password  string
	Role      RoleType
	CompanyID *uuid.UUID
}

// LoginResult is what a successful pass through the login flow yields. When
// the resolved account has no password hash the flow returns a degraded
// success: Token and SessionMarker are empty, and the result is unusable for
// protected resources. Callers must check Degraded before treating this as a
// live session.
type LoginResult struct {
	Username      string
	Role          RoleType
	CompanyScope  string
	SessionMarker string
	Token         string
}

// Degraded reports whether this result is the exists-but-cannot-authenticate
// outcome rather than a live session.
func (r *LoginResult) Degraded() bool {
	return r != nil && r.SessionMarker == ""
}

// verifiedIdentity is the identity handed to the authorization gate and
// business handlers after a token passes the full liveness check.
type verifiedIdentity struct {
	id        string
	username  string
	role      RoleType
	companyID string
}

func (v verifiedIdentity) ID() string        { return v.id }
func (v verifiedIdentity) Username() string  { return v.username }
func (v verifiedIdentity) Role() RoleType    { return v.role }
func (v verifiedIdentity) CompanyID() string { return v.companyID }

var _ Identity = verifiedIdentity{}
