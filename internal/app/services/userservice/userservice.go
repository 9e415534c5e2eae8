// Package userservice implements registration, credential checks, and the
// superadmin user-management operations.
package userservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/spothub/internal/app/store/storeerr"
	userstore "github.com/dalemusser/spothub/internal/app/store/users"
	"github.com/dalemusser/spothub/internal/app/system/apperr"
	"github.com/dalemusser/spothub/internal/app/system/authutil"
	"github.com/dalemusser/spothub/internal/app/system/authz"
	"github.com/dalemusser/spothub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/spothub/internal/app/system/inputval"
	"github.com/dalemusser/spothub/internal/app/system/normalize"
	"github.com/dalemusser/spothub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the user persistence. *userstore.Store implements it.
type Store interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, f userstore.ListFilter) ([]models.User, error)
	UpdateRole(ctx context.Context, id primitive.ObjectID, role models.Role) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

const (
	MsgBadCredentials = "invalid email or password"
	MsgEmailTaken     = "email already registered"
	MsgUserNotFound   = "user not found"
	MsgBadRole        = `role must be one of: user, admin, superadmin`
	MsgPasswordShort  = "Password must be at least 6 characters."
	MsgPasswordLong   = "Password must be at most 128 characters."
)

// Credential failures. Both surface to clients as MsgBadCredentials; the
// cause stays available through errors.Is for audit logging.
var (
	ErrUnknownEmail  = errors.New("unknown email")
	ErrWrongPassword = errors.New("wrong password")
)

type Service struct {
	store Store
	cost  int
	log   *zap.Logger
}

// New builds the account service. cost is the bcrypt cost for new hashes;
// 0 uses authutil.DefaultBcryptCost.
func New(store Store, cost int, log *zap.Logger) *Service {
	if cost == 0 {
		cost = authutil.DefaultBcryptCost
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, cost: cost, log: log}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100" label:"Name"`
	Email    string `json:"email" validate:"required,email,max=254" label:"Email"`
	Password string `json:"password"`
}

// Register creates a user-role account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	in.Name = normalize.Name(htmlsanitize.StripTags(in.Name))
	in.Email = normalize.Email(in.Email)
	if res := inputval.Validate(in); res.HasErrors() {
		return models.User{}, apperr.New(apperr.InvalidInput, res.First())
	}
	switch authutil.ValidatePassword(in.Password) {
	case authutil.ErrPasswordTooShort:
		return models.User{}, apperr.New(apperr.InvalidInput, MsgPasswordShort)
	case authutil.ErrPasswordTooLong:
		return models.User{}, apperr.New(apperr.InvalidInput, MsgPasswordLong)
	}

	hash, err := authutil.HashPasswordCost(in.Password, s.cost)
	if err != nil {
		return models.User{}, apperr.Internal(err)
	}
	u, err := s.store.Create(ctx, models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, storeerr.ErrDuplicate) {
			return models.User{}, apperr.New(apperr.Conflict, MsgEmailTaken)
		}
		return models.User{}, apperr.Internal(err)
	}
	return u, nil
}

// Authenticate verifies credentials. Unknown email and wrong password both
// yield Unauthenticated with MsgBadCredentials. On a wrong password the
// matched user is returned alongside the error so the attempt can be
// recorded against the account.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = normalize.Email(email)
	if email == "" || password == "" {
		return nil, apperr.Wrap(apperr.Unauthenticated, MsgBadCredentials, ErrUnknownEmail)
	}
	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return nil, apperr.Wrap(apperr.Unauthenticated, MsgBadCredentials, ErrUnknownEmail)
		}
		return nil, apperr.Internal(err)
	}
	if !authutil.CheckPassword(password, u.PasswordHash) {
		return u, apperr.Wrap(apperr.Unauthenticated, MsgBadCredentials, ErrWrongPassword)
	}
	return u, nil
}

// ListFilter narrows List.
type ListFilter struct {
	Role   string
	Search string
	Limit  int64
	Offset int64
}

// List returns users without password hashes.
func (s *Service) List(ctx context.Context, c authz.Caller, f ListFilter) ([]models.User, error) {
	if err := authz.CheckRole(c, authz.UserList).Err(); err != nil {
		return nil, err
	}
	sf := userstore.ListFilter{Search: f.Search, Limit: f.Limit, Offset: f.Offset}
	if strings.TrimSpace(f.Role) != "" {
		role, ok := models.ParseRole(f.Role)
		if !ok {
			return nil, apperr.New(apperr.InvalidInput, MsgBadRole)
		}
		sf.Role = role
	}
	users, err := s.store.List(ctx, sf)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

// Get returns one user.
func (s *Service) Get(ctx context.Context, c authz.Caller, id primitive.ObjectID) (*models.User, error) {
	if err := authz.Authorize(c, authz.UserView, authz.UserTarget(id)).Err(); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *Service) load(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, MsgUserNotFound)
		}
		return nil, apperr.Internal(err)
	}
	return u, nil
}

// RoleChange is the result of UpdateRole.
type RoleChange struct {
	User *models.User
	From models.Role
}

// UpdateRole sets a user's role. role must parse to a known role.
func (s *Service) UpdateRole(ctx context.Context, c authz.Caller, id primitive.ObjectID, role string) (RoleChange, error) {
	if err := authz.Authorize(c, authz.UserUpdateRole, authz.UserTarget(id)).Err(); err != nil {
		return RoleChange{}, err
	}
	next, ok := models.ParseRole(role)
	if !ok {
		return RoleChange{}, apperr.New(apperr.InvalidInput, MsgBadRole)
	}
	prev, err := s.load(ctx, id)
	if err != nil {
		return RoleChange{}, err
	}
	u, err := s.store.UpdateRole(ctx, id, next)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return RoleChange{}, apperr.New(apperr.NotFound, MsgUserNotFound)
		}
		return RoleChange{}, apperr.Internal(err)
	}
	return RoleChange{User: u, From: prev.Role}, nil
}

// Delete removes a user. A superadmin cannot delete their own account.
// The deleted record is returned for audit.
func (s *Service) Delete(ctx context.Context, c authz.Caller, id primitive.ObjectID) (*models.User, error) {
	if err := authz.Authorize(c, authz.UserDelete, authz.UserTarget(id)).Err(); err != nil {
		return nil, err
	}
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, MsgUserNotFound)
		}
		return nil, apperr.Internal(err)
	}
	return u, nil
}

// Bootstrap outcomes.
type BootstrapResult int

const (
	BootstrapSkipped BootstrapResult = iota
	BootstrapExisting
	BootstrapPromoted
	BootstrapCreated
)

// ErrBootstrapNoPassword means the superadmin email matches no account and
// no password was configured to create one.
var ErrBootstrapNoPassword = errors.New("superadmin account not found and no password configured")

// EnsureSuperAdmin makes the account with email a superadmin, creating it
// when password is set. An empty email does nothing. An existing account's
// password is never changed.
func (s *Service) EnsureSuperAdmin(ctx context.Context, email, password, name string) (BootstrapResult, error) {
	email = normalize.Email(email)
	if email == "" {
		return BootstrapSkipped, nil
	}

	u, err := s.store.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if u.Role == models.RoleSuperAdmin {
			return BootstrapExisting, nil
		}
		if _, err := s.store.UpdateRole(ctx, u.ID, models.RoleSuperAdmin); err != nil {
			return BootstrapSkipped, fmt.Errorf("promote superadmin: %w", err)
		}
		s.log.Info("promoted user to superadmin", zap.String("email", email), zap.String("from", u.Role.String()))
		return BootstrapPromoted, nil
	case !errors.Is(err, storeerr.ErrNotFound):
		return BootstrapSkipped, fmt.Errorf("lookup superadmin: %w", err)
	}

	if password == "" {
		return BootstrapSkipped, ErrBootstrapNoPassword
	}
	if name = normalize.Name(name); name == "" {
		name = "Super Admin"
	}
	hash, err := authutil.HashPasswordCost(password, s.cost)
	if err != nil {
		return BootstrapSkipped, err
	}
	if _, err := s.store.Create(ctx, models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleSuperAdmin,
	}); err != nil {
		return BootstrapSkipped, fmt.Errorf("create superadmin: %w", err)
	}
	s.log.Info("created superadmin account", zap.String("email", email))
	return BootstrapCreated, nil
}
