package auth_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/hirestack/backoffice/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func identityWithRole(role auth.RoleType) *MockIdentity {
	identity := &MockIdentity{}
	identity.On("Role").Return(role)
	identity.On("Username").Return("tuser")
	return identity
}

func TestAuthorize(t *testing.T) {
	t.Run("superadmin satisfies every requirement", func(t *testing.T) {
		identity := identityWithRole(auth.RoleSuperAdmin)

		assert.NoError(t, auth.Authorize(identity, auth.RoleUser))
		assert.NoError(t, auth.Authorize(identity, auth.RoleAdmin))
		assert.NoError(t, auth.Authorize(identity, auth.RoleSuperAdmin))
	})

	t.Run("admin does not satisfy superadmin", func(t *testing.T) {
		identity := identityWithRole(auth.RoleAdmin)

		err := auth.Authorize(identity, auth.RoleSuperAdmin)
		assert.Error(t, err)
		assert.True(t, auth.IsAuthorizationError(err))
		assert.True(t, auth.HasTextCode(err, "INSUFFICIENT_ROLE"))
	})

	t.Run("roles other than superadmin only satisfy themselves", func(t *testing.T) {
		identity := identityWithRole(auth.RoleUser)

		assert.NoError(t, auth.Authorize(identity, auth.RoleUser))
		assert.Error(t, auth.Authorize(identity, auth.RoleAdmin))
	})

	t.Run("nil identity is rejected", func(t *testing.T) {
		err := auth.Authorize(nil, auth.RoleUser)
		assert.ErrorIs(t, err, auth.ErrInsufficientRole)
	})

	t.Run("authorization failures are distinct from authentication failures", func(t *testing.T) {
		err := auth.Authorize(identityWithRole(auth.RoleUser), auth.RoleAdmin)
		assert.True(t, auth.IsAuthorizationError(err))
		assert.False(t, auth.IsAuthenticationError(err))
	})
}

// stubUsers implements the pieces of auth.Users the provisioner touches; the
// embedded interface panics on anything else.
type stubUsers struct {
	auth.Users
	mock.Mock
}

func (s *stubUsers) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	args := s.Called(ctx, username)
	if user := args.Get(0); user != nil {
		return user.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (s *stubUsers) Create(ctx context.Context, record *auth.User, criteria ...repository.InsertCriteria) (*auth.User, error) {
	args := s.Called(ctx, record)
	if user := args.Get(0); user != nil {
		return user.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestProvisioner_Provision(t *testing.T) {
	ctx := context.Background()

	t.Run("provisions an activated account", func(t *testing.T) {
		users := &stubUsers{}
		users.On("FindByUsername", ctx, "newuser").Return(nil, auth.ErrIdentityNotFound)
		users.On("Create", ctx, mock.AnythingOfType("*auth.User")).
			Return(&auth.User{Username: "newuser", Role: auth.RoleAdmin}, nil)

		provisioner := auth.NewProvisioner(users).WithLogger(noopLogger{})

		created, err := provisioner.Provision(ctx, auth.NewUser{
			Username: "newuser",
			Email:    "newuser@example.com",
			Password: "secret",
			Role:     auth.RoleAdmin,
		})

		assert.NoError(t, err)
		assert.Equal(t, "newuser", created.Username)

		// The record handed to the store carries a bcrypt hash, never the
		// plaintext password.
		record := users.Calls[len(users.Calls)-1].Arguments.Get(1).(*auth.User)
		assert.NotEmpty(t, record.PasswordHash)
		assert.NotEqual(t, "secret", record.PasswordHash)
		assert.NoError(t, auth.ComparePasswordAndHash("secret", record.PasswordHash))
	})

	t.Run("provisions an unactivated account when no password is given", func(t *testing.T) {
		users := &stubUsers{}
		users.On("FindByUsername", ctx, "pending").Return(nil, auth.ErrIdentityNotFound)
		users.On("Create", ctx, mock.AnythingOfType("*auth.User")).
			Return(&auth.User{Username: "pending", Role: auth.RoleUser}, nil)

		provisioner := auth.NewProvisioner(users).WithLogger(noopLogger{})

		_, err := provisioner.Provision(ctx, auth.NewUser{
			Username: "pending",
			Email:    "pending@example.com",
			Role:     auth.RoleUser,
		})

		assert.NoError(t, err)

		record := users.Calls[len(users.Calls)-1].Arguments.Get(1).(*auth.User)
		assert.Empty(t, record.PasswordHash)
		assert.False(t, record.CanAuthenticate())
	})

	t.Run("rejects a taken username before inserting", func(t *testing.T) {
		users := &stubUsers{}
		users.On("FindByUsername", ctx, "taken").Return(&auth.User{Username: "taken"}, nil)

		provisioner := auth.NewProvisioner(users).WithLogger(noopLogger{})

		_, err := provisioner.Provision(ctx, auth.NewUser{
			Username: "taken",
			Email:    "taken@example.com",
			Role:     auth.RoleUser,
		})

		assert.ErrorIs(t, err, auth.ErrUsernameTaken)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("maps a lost insert race to the same conflict", func(t *testing.T) {
		users := &stubUsers{}
		users.On("FindByUsername", ctx, "racer").Return(nil, auth.ErrIdentityNotFound)
		users.On("Create", ctx, mock.AnythingOfType("*auth.User")).
			Return(nil, errors.New("UNIQUE constraint failed: users.username", errors.CategoryInternal))

		provisioner := auth.NewProvisioner(users).WithLogger(noopLogger{})

		_, err := provisioner.Provision(ctx, auth.NewUser{
			Username: "racer",
			Email:    "racer@example.com",
			Role:     auth.RoleUser,
		})

		assert.ErrorIs(t, err, auth.ErrUsernameTaken)
	})

	t.Run("keeps storage outages out of the conflict category", func(t *testing.T) {
		users := &stubUsers{}
		users.On("FindByUsername", ctx, "unlucky").Return(nil, auth.ErrIdentityNotFound)
		users.On("Create", ctx, mock.AnythingOfType("*auth.User")).
			Return(nil, errors.New("disk I/O error", errors.CategoryInternal))

		provisioner := auth.NewProvisioner(users).WithLogger(noopLogger{})

		_, err := provisioner.Provision(ctx, auth.NewUser{
			Username: "unlucky",
			Email:    "unlucky@example.com",
			Role:     auth.RoleUser,
		})

		assert.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrUsernameTaken)

		var rich *errors.Error
		assert.True(t, errors.As(err, &rich))
		assert.Equal(t, errors.CategoryInternal, rich.Category)
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		users := &stubUsers{}

		provisioner := auth.NewProvisioner(users).WithLogger(noopLogger{})

		_, err := provisioner.Provision(ctx, auth.NewUser{
			Username: "newuser",
			Email:    "newuser@example.com",
			Role:     auth.RoleType("root"),
		})

		assert.Error(t, err)
		assert.True(t, auth.HasTextCode(err, "UNKNOWN_ROLE"))
		users.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
	})

	t.Run("derives a stable id from the email", func(t *testing.T) {
		ids := make([]string, 0, 2)

		for i := 0; i < 2; i++ {
			users := &stubUsers{}
			users.On("FindByUsername", ctx, "stable").Return(nil, auth.ErrIdentityNotFound)
			users.On("Create", ctx, mock.AnythingOfType("*auth.User")).
				Return(&auth.User{Username: "stable"}, nil)

			provisioner := auth.NewProvisioner(users).WithLogger(noopLogger{})

			_, err := provisioner.Provision(ctx, auth.NewUser{
				Username: "stable",
				Email:    "stable@example.com",
				Role:     auth.RoleUser,
			})
			assert.NoError(t, err)

			record := users.Calls[len(users.Calls)-1].Arguments.Get(1).(*auth.User)
			ids = append(ids, record.ID.String())
		}

		assert.Equal(t, ids[0], ids[1])
	})
}
