package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Auther drives the login/logout state machine. It is the only writer of the
// session marker: login rotates it, logout clears it, nothing else touches
// it. Concurrent logins for the same identity race on the marker and the
// last writer wins, implicitly revoking every earlier credential.
type Auther struct {
	users   UserDirectory
	store   SessionStore
	history HistorySink
	tokens  TokenService
	logger  Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(users UserDirectory, store SessionStore, history HistorySink, tokens TokenService) *Auther {
	return &Auther{
		users:   users,
		store:   store,
		history: history,
		tokens:  tokens,
		logger:  defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Login resolves an identity by username or email, verifies the password,
// records the audit entry, rotates the session marker and mints a credential
// embedding it. Failure modes, in order:
//
//   - ErrIdentityNotFound: nothing resolved; no history write, no marker write
//   - degraded success: the account has no password hash (provisioned, not
//     yet activated): returns a result with an empty marker and no token,
//     distinguishing "exists but cannot authenticate" from "wrong password"
//   - ErrMismatchedHashAndPassword: password mismatch; marker untouched
//   - ErrHistoryWriteFailed: audit write failed; flow aborts before touching
//     the marker, no credential is issued
//   - ErrSessionPersistFailed: marker write failed; no credential is issued
func (s *Auther) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	user, err := s.users.FindByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.Info("login rejected, identity not found", "identifier", identifier)
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to resolve identity during login")
	}

	if !user.CanAuthenticate() {
		s.logger.Warn("login degraded, account has no password set", "user", user.Username)
		return &LoginResult{
			Username:     user.Username,
			Role:         user.Role,
			CompanyScope: user.CompanyScope(),
		}, nil
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		s.logger.Info("login rejected, bad credentials", "user", user.Username)
		return nil, ErrMismatchedHashAndPassword
	}

	// Audit before session: a login we cannot record does not happen.
	if err := s.history.Record(ctx, user.ID.String(), time.Now()); err != nil {
		s.logger.Error("login aborted, history write failed", "user", user.Username, "error", err)
		return nil, errors.Wrap(err, ErrHistoryWriteFailed.Category, ErrHistoryWriteFailed.Message).
			WithTextCode(ErrHistoryWriteFailed.TextCode)
	}

	marker := GenerateSessionMarker()
	if err := s.store.SetMarker(ctx, user.Username, marker); err != nil {
		s.logger.Error("login aborted, session persist failed", "user", user.Username, "error", err)
		return nil, errors.Wrap(err, ErrSessionPersistFailed.Category, ErrSessionPersistFailed.Message).
			WithTextCode(ErrSessionPersistFailed.TextCode)
	}

	token, err := s.tokens.Generate(user, marker)
	if err != nil {
		return nil, err
	}

	s.logger.Info("login succeeded", "user", user.Username, "role", user.Role)

	return &LoginResult{
		Username:      user.Username,
		Role:          user.Role,
		CompanyScope:  user.CompanyScope(),
		SessionMarker: marker,
		Token:         token,
	}, nil
}

// Logout clears the session marker, instantly invalidating every outstanding
// credential for the identity regardless of which client holds it. No
// deny-list needed.
func (s *Auther) Logout(ctx context.Context, username string) error {
	if err := s.store.SetMarker(ctx, username, ""); err != nil {
		s.logger.Error("logout failed", "user", username, "error", err)
		return err
	}

	s.logger.Info("logout succeeded", "user", username)
	return nil
}

// GenerateSessionMarker returns a fresh unpredictable marker, a v4 UUID
// (128 bits of randomness).
func GenerateSessionMarker() string {
	return uuid.NewString()
}
