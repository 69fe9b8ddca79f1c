package auth

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// Authorize is the role gate applied after identity verification. It is a
// flat check: superadmin satisfies any requirement, every other role only
// its own. Authorization failures are reported distinctly from
// authentication failures.
func Authorize(identity Identity, required RoleType) error {
	if identity == nil {
		return ErrInsufficientRole
	}

	if !identity.Role().Satisfies(required) {
		return errors.New(ErrInsufficientRole.Message, ErrInsufficientRole.Category).
			WithCode(ErrInsufficientRole.Code).
			WithTextCode(ErrInsufficientRole.TextCode).
			WithMetadata(map[string]any{
				"user":     identity.Username(),
				"role":     identity.Role().String(),
				"required": required.String(),
			})
	}

	return nil
}

// Provisioner creates new accounts. Only a superadmin passes the gate in
// front of it (see http_controller.go); the uniqueness precondition on the
// username lives here.
type Provisioner struct {
	users  Users
	logger Logger
}

func NewProvisioner(users Users) *Provisioner {
	return &Provisioner{
		users:  users,
		logger: defLogger{},
	}
}

func (p *Provisioner) WithLogger(logger Logger) *Provisioner {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// Provision validates the role, checks username uniqueness and inserts the
// account. The pre-check gives a friendly conflict error; the unique
// constraint on the column closes the check-then-insert race, and a
// constraint violation maps to the same conflict.
func (p *Provisioner) Provision(ctx context.Context, req NewUser) (*User, error) {
	if !req.Role.IsValid() {
		return nil, unknownRoleError(string(req.Role))
	}

	if _, err := p.users.FindByUsername(ctx, req.Username); err == nil {
		p.logger.Info("provisioning rejected, username taken", "username", req.Username)
		return nil, ErrUsernameTaken
	} else if !errors.IsNotFound(err) {
		return nil, errors.Wrap(err, errors.CategoryInternal, "uniqueness check failed")
	}

	user := &User{
		Username:  req.Username,
		Email:     req.Email,
		Role:      req.Role,
		CompanyID: req.CompanyID,
	}

	// Accounts provisioned without a password stay unactivated: they exist in
	// the directory but cannot hold a live session until one is set.
	if req.Password != "" {
		hash, err := HashPassword(req.Password)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
		}
		user.PasswordHash = hash
	}

	if req.Email != "" {
		if id, err := hashid.NewUUID(req.Email); err == nil {
			user.ID = id
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	created, err := p.users.Create(ctx, user)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not create user")
	}

	p.logger.Info("account provisioned", "username", created.Username, "role", created.Role)

	return created, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if errors.As(err, &rich) && rich.Category == errors.CategoryConflict {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
