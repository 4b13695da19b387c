package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// UserStore is the persistence collaborator the provider reads identities
// from. Transactions and indexing are the store's concern.
type UserStore interface {
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
	Exists(ctx context.Context, column, value string) (bool, error)
}

// RoleSnapshotter resolves the role names a user holds at this moment. The
// result gets frozen into any token issued from it.
type RoleSnapshotter interface {
	FindUserRoles(ctx context.Context, userID uuid.UUID) ([]UserRole, error)
}

// AccountRegistrerer is the interface we need to handle new user registrations
type AccountRegistrerer interface {
	RegisterUser(ctx context.Context, email, username, password string) (*User, error)
}

// UserProvider verifies credentials against the store and assembles
// identities with their role snapshot.
type UserProvider struct {
	store     UserStore
	roles     RoleSnapshotter
	Validator func(*User) error
	logger    Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore, roles RoleSnapshotter) *UserProvider {
	return &UserProvider{
		store:     store,
		roles:     roles,
		logger:    defLogger{},
		Validator: defaultValidator,
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

func (u *UserProvider) validate(user *User) error {
	if u.Validator != nil {
		return u.Validator(user)
	}
	return defaultValidator(user)
}

// VerifyIdentity will find the user, compare the password, and return the
// identity with its role snapshot. A missing user and a wrong password both
// come back as ErrMismatchedHashAndPassword; the distinction is logged but
// never surfaced, so callers cannot enumerate usernames.
func (u UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if isRecordNotFound(err) {
			u.logger.Debug("verify identity: no user for identifier %s", identifier)
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		u.logger.Debug("verify identity: password mismatch for user %s", user.ID)
		return nil, ErrMismatchedHashAndPassword
	}

	if err := u.validate(user); err != nil {
		return nil, err
	}

	roles, err := u.roles.FindUserRoles(ctx, user.ID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to resolve user roles")
	}

	return NewIdentityFromUser(user, roles), nil
}

// CheckPassword reports whether the given credentials are valid without
// issuing anything. Same enumeration policy as VerifyIdentity.
func (u UserProvider) CheckPassword(ctx context.Context, identifier, password string) (bool, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if isRecordNotFound(err) {
			return false, nil
		}
		return false, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during password check")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// FindIdentityByIdentifier loads an identity without a credential check, for
// flows that already proved identity some other way (a decoded verification
// code, an admin console).
func (u UserProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user")
	}

	roles, err := u.roles.FindUserRoles(ctx, user.ID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to resolve user roles")
	}

	return NewIdentityFromUser(user, roles), nil
}

// UserStoreFromRepository adapts the Users repository to the provider's
// narrower UserStore view.
func UserStoreFromRepository(users Users) UserStore {
	return repositoryUserStore{users: users}
}

type repositoryUserStore struct {
	users Users
}

func (s repositoryUserStore) GetByIdentifier(ctx context.Context, identifier string) (*User, error) {
	return s.users.GetByIdentifier(ctx, identifier)
}

func (s repositoryUserStore) Exists(ctx context.Context, column, value string) (bool, error) {
	return s.users.Exists(ctx, column, value)
}

func defaultValidator(user *User) error {
	if user == nil || user.ID == uuid.Nil {
		return ErrIdentityNotFound
	}
	return nil
}
