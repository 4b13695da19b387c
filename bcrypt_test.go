package auth_test

import (
	"strings"
	"testing"

	auth "github.com/goliatone/go-userauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := auth.HashPassword("secret-pa55word")
	require.NoError(t, err)

	assert.NotEqual(t, "secret-pa55word", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"), "expected a bcrypt hash, got %q", hash)

	assert.NoError(t, auth.ComparePasswordAndHash("secret-pa55word", hash))
}

func TestHashPassword_EmptyInput(t *testing.T) {
	_, err := auth.HashPassword("")
	assert.ErrorIs(t, err, auth.ErrNoEmptyString)
}

func TestComparePasswordAndHash_Mismatch(t *testing.T) {
	hash, err := auth.HashPassword("right-password")
	require.NoError(t, err)

	err = auth.ComparePasswordAndHash("wrong-password", hash)
	assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
}

func TestComparePasswordAndHash_NotAHash(t *testing.T) {
	err := auth.ComparePasswordAndHash("password", "definitely-not-a-bcrypt-hash")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
}

func TestRandomPasswordHash(t *testing.T) {
	hash := auth.RandomPasswordHash()
	assert.True(t, strings.HasPrefix(hash, "$2a$"), "expected a bcrypt hash, got %q", hash)
}
