package auth

import (
	"net/http"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// IdentityContextKey is the locals key the protected-route middleware stores
// the verified identity under.
const IdentityContextKey = "auth_identity"

// RouteAuthenticator glues the flow controller and the verifier to the HTTP
// transport: token cookie in, token cookie out, and the per-request
// verification middleware.
type RouteAuthenticator struct {
	auth         Authenticator
	verifier     TokenVerifier
	cfg          Config
	Logger       Logger
	ErrorHandler func(c router.Context, err error) error
}

func NewHTTPAuthenticator(auther Authenticator, verifier TokenVerifier, cfg Config) *RouteAuthenticator {
	a := &RouteAuthenticator{
		auth:     auther,
		verifier: verifier,
		cfg:      cfg,
		Logger:   defLogger{},
	}

	a.ErrorHandler = a.defaultErrHandler

	return a
}

// Login runs the authentication flow and, on a non-degraded success, sets
// the token cookie. The cookie itself is a session cookie; the token carries
// its own expiry, checked independently by the verifier.
func (a *RouteAuthenticator) Login(ctx router.Context, identifier, password string) (*LoginResult, error) {
	result, err := a.auth.Login(ctx.Context(), identifier, password)
	if err != nil {
		a.Logger.Error("login error", "error", err)
		return nil, err
	}

	if result.Degraded() {
		// Account exists but cannot authenticate; no cookie, no session.
		return result, nil
	}

	a.setCookieToken(ctx, result.Token)
	return result, nil
}

// Logout clears the session marker and replaces the cookie with an
// immediately expiring one.
func (a *RouteAuthenticator) Logout(ctx router.Context, username string) error {
	if err := a.auth.Logout(ctx.Context(), username); err != nil {
		return err
	}

	a.cookieDel(ctx, a.cfg.GetContextKey())
	return nil
}

// ProtectedRoute verifies the cookie-carried token on every request: decode,
// then live-marker check, one storage read. The verified identity lands in
// locals under IdentityContextKey for handlers and role guards downstream.
func (a *RouteAuthenticator) ProtectedRoute() router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			raw := ctx.Cookies(a.cfg.GetContextKey())
			if raw == "" {
				return a.ErrorHandler(ctx, ErrTokenMissing)
			}

			identity, err := a.verifier.Verify(ctx.Context(), raw)
			if err != nil {
				return a.ErrorHandler(ctx, err)
			}

			ctx.Locals(IdentityContextKey, identity)
			return hf(ctx)
		}
	}
}

// RequireRole gates a route on the authorization check. It assumes
// ProtectedRoute ran first; a missing identity is an authentication error,
// an insufficient role a distinct permission error.
func (a *RouteAuthenticator) RequireRole(required RoleType) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			identity, ok := IdentityFromContext(ctx)
			if !ok {
				return a.ErrorHandler(ctx, ErrTokenMissing)
			}

			if err := Authorize(identity, required); err != nil {
				return a.ErrorHandler(ctx, err)
			}

			return hf(ctx)
		}
	}
}

// IdentityFromContext retrieves the verified identity stored by ProtectedRoute
func IdentityFromContext(ctx router.Context) (Identity, bool) {
	val := ctx.Locals(IdentityContextKey)
	if val == nil {
		return nil, false
	}

	identity, ok := val.(Identity)
	return identity, ok
}

func (a *RouteAuthenticator) setCookieToken(c router.Context, val string) {
	c.Cookie(&router.Cookie{
		Name:     a.cfg.GetContextKey(),
		Value:    val,
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// defaultErrHandler collapses every authentication rejection into one
// uniform unauthorized response. A stale marker, a tampered signature and a
// missing cookie all look identical from the outside; nothing here aids
// replay diagnostics. Authorization failures are reported separately as
// permission errors.
func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"request rejected",
		"category", richErr.Category,
		"text_code", richErr.TextCode,
		"path", c.OriginalURL(),
	)

	switch {
	case IsAuthorizationError(err):
		return c.Status(http.StatusForbidden).SendString("Forbidden")
	case IsAuthenticationError(err), errors.IsNotFound(err):
		return c.Status(http.StatusUnauthorized).SendString("Invalid token, please login again")
	default:
		return c.Status(http.StatusInternalServerError).SendString("Internal server error")
	}
}
