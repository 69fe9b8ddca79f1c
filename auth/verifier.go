package auth

import (
	"context"
)

// Verifier runs the full liveness check for an inbound token: decode the
// claim set (signature + expiry), then cross-check the embedded session
// marker against the directory's current value. This runs on every protected
// request and performs exactly one storage read; we accept the latency for
// immediate revocation, so there is no caching here.
type Verifier struct {
	tokens TokenService
	store  SessionStore
	logger Logger
}

var _ TokenVerifier = (*Verifier)(nil)

// NewVerifier returns a new Verifier
func NewVerifier(tokens TokenService, store SessionStore) *Verifier {
	return &Verifier{
		tokens: tokens,
		store:  store,
		logger: defLogger{},
	}
}

func (v *Verifier) WithLogger(logger Logger) *Verifier {
	if logger != nil {
		v.logger = logger
	}
	return v
}

// Verify decodes the token and checks its embedded marker for liveness.
// Rejections: ErrTokenMalformed/ErrTokenExpired from the codec,
// ErrSessionStale when the marker no longer matches (or the user carries no
// live session at all). The returned identity is built from the verified
// claims; the storage round trip is the marker read and nothing else.
func (v *Verifier) Verify(ctx context.Context, token string) (Identity, error) {
	claims, err := v.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	current, err := v.store.CurrentMarker(ctx, claims.Username)
	if err != nil {
		return nil, err
	}

	// An empty stored marker means logged out; an empty embedded marker is a
	// degraded credential that must never reach protected resources. Both
	// collapse into the same rejection.
	if current == "" || claims.LoginSession == "" || current != claims.LoginSession {
		v.logger.Debug("token rejected, stale session marker", "user", claims.Username)
		return nil, ErrSessionStale
	}

	role, err := claims.Role()
	if err != nil {
		return nil, err
	}

	return verifiedIdentity{
		id:        claims.RegisteredClaims.Subject,
		username:  claims.Username,
		role:      role,
		companyID: claims.Company,
	}, nil
}
