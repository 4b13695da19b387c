package auth_test

import (
	"context"

	auth "github.com/goliatone/go-userauth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// TestIdentity is a plain Identity for wiring through token generation.
type TestIdentity struct {
	id       string
	username string
	email    string
	roles    []auth.UserRole
}

func (t TestIdentity) ID() string             { return t.id }
func (t TestIdentity) Username() string       { return t.username }
func (t TestIdentity) Email() string          { return t.email }
func (t TestIdentity) Roles() []auth.UserRole { return t.roles }

// MockIdentityProvider implements auth.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (auth.Identity, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(auth.Identity), args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (auth.Identity, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(auth.Identity), args.Error(1)
}

// MockUserStore implements auth.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByIdentifier(ctx context.Context, identifier string) (*auth.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockUserStore) Exists(ctx context.Context, column, value string) (bool, error) {
	args := m.Called(ctx, column, value)
	return args.Bool(0), args.Error(1)
}

// MockRoleSnapshotter implements auth.RoleSnapshotter
type MockRoleSnapshotter struct {
	mock.Mock
}

func (m *MockRoleSnapshotter) FindUserRoles(ctx context.Context, userID uuid.UUID) ([]auth.UserRole, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]auth.UserRole), args.Error(1)
}

// MockLogger implements auth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

func newMockConfig() auth.SimpleConfig {
	return auth.SimpleConfig{
		SigningKey:      "test-signing-key",
		EncryptionKey:   "0123456789abcdef0123456789abcdef",
		TokenExpiration: 24,
		Issuer:          "test-issuer",
		Audience:        []string{"test-audience"},
	}
}
