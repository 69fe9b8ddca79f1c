package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of a verified identity
type Identity interface {
	ID() string
	Username() string
	Role() RoleType
	CompanyID() string
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	Logout(ctx context.Context, username string) error
}

// TokenVerifier runs the full liveness check for a raw token: signature,
// expiry, and the session marker against the user directory.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetContextKey() string
	GetIssuer() string
	GetAudience() []string
}

// SessionStore reads and writes the per-user session marker. The stored
// value is the single source of truth for credential liveness.
type SessionStore interface {
	// CurrentMarker returns the live marker for a username. A user with no
	// active session yields an empty marker and no error; an unknown user
	// yields ErrIdentityNotFound.
	CurrentMarker(ctx context.Context, username string) (string, error)
	// SetMarker replaces the marker in a single atomic row update. An empty
	// marker invalidates every outstanding credential for the user.
	SetMarker(ctx context.Context, username, marker string) error
}

// UserDirectory is the read side of the user store the flow controller needs
type UserDirectory interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByUsernameOrEmail(ctx context.Context, identifier string) (*User, error)
}

// HistorySink records successful authentication events. Login aborts when the
// sink fails; we never authenticate a user we cannot audit.
type HistorySink interface {
	Record(ctx context.Context, userID string, at time.Time) error
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// DefaultLogger returns the stdout fallback logger used when callers do not
// provide their own.
func DefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
