package auth_test

import (
	"context"
	"testing"

	repository "github.com/goliatone/go-repository-bun"
	auth "github.com/goliatone/go-userauth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStoredUser(t *testing.T, username, password string) *auth.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	return &auth.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
	}
}

func TestUserProvider_VerifyIdentity(t *testing.T) {
	ctx := context.Background()
	user := newStoredUser(t, "alice", "pa55word")

	store := new(MockUserStore)
	store.On("GetByIdentifier", ctx, "alice").Return(user, nil)

	roles := new(MockRoleSnapshotter)
	roles.On("FindUserRoles", ctx, user.ID).Return([]auth.UserRole{auth.RoleUser}, nil)

	provider := auth.NewUserProvider(store, roles)

	identity, err := provider.VerifyIdentity(ctx, "alice", "pa55word")
	require.NoError(t, err)

	assert.Equal(t, user.ID.String(), identity.ID())
	assert.Equal(t, "alice", identity.Username())
	assert.Equal(t, "alice@example.com", identity.Email())
	assert.Equal(t, []auth.UserRole{auth.RoleUser}, identity.Roles())

	store.AssertExpectations(t)
	roles.AssertExpectations(t)
}

func TestUserProvider_VerifyIdentity_WrongPassword(t *testing.T) {
	ctx := context.Background()
	user := newStoredUser(t, "alice", "pa55word")

	store := new(MockUserStore)
	store.On("GetByIdentifier", ctx, "alice").Return(user, nil)

	provider := auth.NewUserProvider(store, new(MockRoleSnapshotter))

	_, err := provider.VerifyIdentity(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
}

func TestUserProvider_VerifyIdentity_UnknownUser(t *testing.T) {
	ctx := context.Background()

	store := new(MockUserStore)
	store.On("GetByIdentifier", ctx, "nobody").Return(nil, repository.NewRecordNotFound())

	provider := auth.NewUserProvider(store, new(MockRoleSnapshotter))

	// an unknown identifier must be indistinguishable from a wrong password
	_, err := provider.VerifyIdentity(ctx, "nobody", "pa55word")
	assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
}

func TestUserProvider_VerifyIdentity_MissFlavors(t *testing.T) {
	ctx := context.Background()

	// stores report a miss either with the repository error or with a plain
	// not-found from our own taxonomy, both must stay indistinguishable from
	// a wrong password
	tests := []struct {
		name string
		err  error
	}{
		{"repository record not found", repository.NewRecordNotFound()},
		{"category not found", auth.ErrIdentityNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockUserStore)
			store.On("GetByIdentifier", ctx, "nobody").Return(nil, tt.err)

			provider := auth.NewUserProvider(store, new(MockRoleSnapshotter))

			_, err := provider.VerifyIdentity(ctx, "nobody", "pa55word")
			assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
		})
	}
}

func TestUserProvider_VerifyIdentity_CustomValidator(t *testing.T) {
	ctx := context.Background()
	user := newStoredUser(t, "alice", "pa55word")

	store := new(MockUserStore)
	store.On("GetByIdentifier", ctx, "alice").Return(user, nil)

	provider := auth.NewUserProvider(store, new(MockRoleSnapshotter))
	provider.Validator = func(u *auth.User) error {
		if !u.EmailVerified {
			return auth.ErrIdentityNotFound
		}
		return nil
	}

	_, err := provider.VerifyIdentity(ctx, "alice", "pa55word")
	assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
}

func TestUserProvider_CheckPassword(t *testing.T) {
	ctx := context.Background()
	user := newStoredUser(t, "alice", "pa55word")

	store := new(MockUserStore)
	store.On("GetByIdentifier", ctx, "alice").Return(user, nil)
	store.On("GetByIdentifier", ctx, "nobody").Return(nil, repository.NewRecordNotFound())

	provider := auth.NewUserProvider(store, new(MockRoleSnapshotter))

	ok, err := provider.CheckPassword(ctx, "alice", "pa55word")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = provider.CheckPassword(ctx, "alice", "wrong-password")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = provider.CheckPassword(ctx, "nobody", "pa55word")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserProvider_FindIdentityByIdentifier(t *testing.T) {
	ctx := context.Background()
	user := newStoredUser(t, "alice", "pa55word")

	store := new(MockUserStore)
	store.On("GetByIdentifier", ctx, mock.Anything).Return(user, nil)

	roles := new(MockRoleSnapshotter)
	roles.On("FindUserRoles", ctx, user.ID).Return([]auth.UserRole{auth.RoleUser, auth.RoleAdmin}, nil)

	provider := auth.NewUserProvider(store, roles)

	identity, err := provider.FindIdentityByIdentifier(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, []auth.UserRole{auth.RoleUser, auth.RoleAdmin}, identity.Roles())
}

func TestUserProvider_FindIdentityByIdentifier_NotFound(t *testing.T) {
	ctx := context.Background()

	store := new(MockUserStore)
	store.On("GetByIdentifier", ctx, "nobody").Return(nil, repository.NewRecordNotFound())

	provider := auth.NewUserProvider(store, new(MockRoleSnapshotter))

	_, err := provider.FindIdentityByIdentifier(ctx, "nobody")
	assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
}
