package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the signed claim set carried by the token: identity,
// role, company scope, and the session marker captured at issuance time.
// Immutable once signed; reflecting any change requires minting a new token.
type SessionClaims struct {
	jwt.RegisteredClaims
	Username     string `json:"user,omitempty"`
	UserRole     string `json:"role,omitempty"`
	Company      string `json:"company,omitempty"`
	LoginSession string `json:"login_session,omitempty"`
}

// Role returns the parsed role, rejecting unrecognized wire values
func (c *SessionClaims) Role() (RoleType, error) {
	return ParseRole(c.UserRole)
}

// Expires returns the expiration time
func (c *SessionClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *SessionClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
