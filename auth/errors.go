package auth

import (
	"github.com/goliatone/go-errors"
)

// Rejection surface presented to callers. Stale sessions are deliberately
// indistinguishable from invalid credentials at the transport boundary; the
// distinct values below exist for logging and tests, the HTTP layer collapses
// them (see http.go).
var (
	// ErrIdentityNotFound is returned when no identity resolves for an identifier
	ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
				WithCode(errors.CodeNotFound).
				WithTextCode("IDENTITY_NOT_FOUND")

	// ErrMismatchedHashAndPassword is returned on a password mismatch
	ErrMismatchedHashAndPassword = errors.New("invalid credentials", errors.CategoryAuth).
					WithCode(errors.CodeUnauthorized).
					WithTextCode("BAD_CREDENTIALS")

	// ErrTokenMissing is returned when a protected request carries no credential
	ErrTokenMissing = errors.New("missing authentication token", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized).
			WithTextCode("TOKEN_MISSING")

	// ErrTokenMalformed covers tampered signatures and unparseable tokens
	ErrTokenMalformed = errors.New("invalid authentication token", errors.CategoryAuth).
				WithCode(errors.CodeUnauthorized).
				WithTextCode("TOKEN_MALFORMED")

	// ErrTokenExpired is returned for tokens past their embedded expiry
	ErrTokenExpired = errors.New("expired authentication token", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized).
			WithTextCode("TOKEN_EXPIRED")

	// ErrSessionStale rejects tokens whose embedded marker no longer matches
	// the stored one. Rotating or clearing the marker is the revocation
	// mechanism; every credential minted before the rotation trips this.
	ErrSessionStale = errors.New("session is no longer valid", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized).
			WithTextCode("SESSION_STALE")

	// ErrInsufficientRole is an authorization failure, distinct from the
	// authentication failures above
	ErrInsufficientRole = errors.New("insufficient role for operation", errors.CategoryAuthz).
				WithCode(errors.CodeForbidden).
				WithTextCode("INSUFFICIENT_ROLE")

	// ErrUsernameTaken rejects provisioning a username that already exists
	ErrUsernameTaken = errors.New("username is already registered", errors.CategoryConflict).
				WithCode(errors.CodeConflict).
				WithTextCode("USERNAME_TAKEN")

	// ErrHistoryWriteFailed aborts a login whose audit record could not be
	// persisted; we do not authenticate a user we cannot audit
	ErrHistoryWriteFailed = errors.New("unable to record login history", errors.CategoryInternal).
				WithCode(errors.CodeInternal).
				WithTextCode("HISTORY_WRITE_FAILED")

	// ErrSessionPersistFailed aborts a login whose fresh marker could not be stored
	ErrSessionPersistFailed = errors.New("unable to persist session", errors.CategoryInternal).
				WithCode(errors.CodeInternal).
				WithTextCode("SESSION_PERSIST_FAILED")

	// ErrNoEmptyString rejects empty passwords before hashing
	ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryValidation).
				WithCode(errors.CodeBadRequest).
				WithTextCode("EMPTY_VALUE")
)

func unknownRoleError(role any) *errors.Error {
	return errors.New("unknown or invalid role", errors.CategoryValidation).
		WithCode(errors.CodeBadRequest).
		WithTextCode("UNKNOWN_ROLE").
		WithMetadata(map[string]any{"role": role})
}

// HasTextCode reports whether err carries the given text code
func HasTextCode(err error, textCode string) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.TextCode == textCode
	}
	return false
}

// IsAuthenticationError reports whether err belongs to the authentication
// rejection surface (missing, malformed, expired or stale credentials,
// bad password)
func IsAuthenticationError(err error) bool {
	var rich *errors.Error
	if !errors.As(err, &rich) {
		return false
	}
	return rich.Category == errors.CategoryAuth
}

// IsAuthorizationError reports whether err is a role/permission rejection
func IsAuthorizationError(err error) bool {
	var rich *errors.Error
	if !errors.As(err, &rich) {
		return false
	}
	return rich.Category == errors.CategoryAuthz
}
