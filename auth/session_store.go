package auth

import (
	"context"
)

// RepoSessionStore adapts the user directory repository to the SessionStore
// contract. The marker lives on the user row itself, so both operations are
// single-row storage calls keyed by username.
type RepoSessionStore struct {
	users Users
}

var _ SessionStore = (*RepoSessionStore)(nil)

// NewSessionStore returns a SessionStore backed by the users repository
func NewSessionStore(users Users) *RepoSessionStore {
	return &RepoSessionStore{users: users}
}

// CurrentMarker reads the live marker. Identity-not-found is distinguishable
// from "found, no active session": the former returns ErrIdentityNotFound,
// the latter an empty marker and nil error.
func (s *RepoSessionStore) CurrentMarker(ctx context.Context, username string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	return user.LoginSession, nil
}

// SetMarker writes the marker in one atomic row update; it both establishes
// a session (non-empty marker) and invalidates one (empty marker).
func (s *RepoSessionStore) SetMarker(ctx context.Context, username, marker string) error {
	return s.users.SetLoginSession(ctx, username, marker)
}
