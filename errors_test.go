package auth_test

import (
	stderrors "errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	auth "github.com/goliatone/go-userauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		err      *goerrors.Error
		category any
		textCode string
	}{
		{"identity not found", auth.ErrIdentityNotFound, goerrors.CategoryNotFound, auth.TextCodeIdentityNotFound},
		{"invalid credentials", auth.ErrMismatchedHashAndPassword, goerrors.CategoryAuth, auth.TextCodeInvalidCreds},
		{"token expired", auth.ErrTokenExpired, goerrors.CategoryAuth, auth.TextCodeTokenExpired},
		{"token malformed", auth.ErrTokenMalformed, goerrors.CategoryAuth, auth.TextCodeTokenMalformed},
		{"token bad signature", auth.ErrTokenSignatureInvalid, goerrors.CategoryAuth, auth.TextCodeTokenBadSignature},
		{"access denied", auth.ErrAccessDenied, goerrors.CategoryAuthz, auth.TextCodeAccessDenied},
		{"code malformed", auth.ErrCodeMalformed, goerrors.CategoryBadInput, auth.TextCodeCodeMalformed},
		{"code invalid", auth.ErrCodeInvalid, goerrors.CategoryBadInput, auth.TextCodeCodeInvalid},
		{"empty password", auth.ErrNoEmptyString, goerrors.CategoryValidation, auth.TextCodeEmptyPassword},
		{"already verified", auth.ErrAlreadyVerified, goerrors.CategoryConflict, auth.TextCodeAlreadyVerified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.err)
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, tt.textCode, tt.err.TextCode)
		})
	}
}

func TestCredentialErrorsShareStatus(t *testing.T) {
	// a missing user and a wrong password must be indistinguishable downstream
	assert.Equal(t, goerrors.CodeUnauthorized, auth.ErrMismatchedHashAndPassword.Code)
	assert.Equal(t, goerrors.CodeUnauthorized, auth.ErrTokenExpired.Code)
	assert.Equal(t, goerrors.CodeUnauthorized, auth.ErrTokenSignatureInvalid.Code)
	assert.Equal(t, goerrors.CodeForbidden, auth.ErrAccessDenied.Code)
}

func TestIsTokenExpiredError(t *testing.T) {
	assert.True(t, auth.IsTokenExpiredError(auth.ErrTokenExpired))
	assert.True(t, auth.IsTokenExpiredError(stderrors.New("token is expired by 1h")))
	assert.False(t, auth.IsTokenExpiredError(auth.ErrTokenMalformed))
	assert.False(t, auth.IsTokenExpiredError(nil))
}

func TestIsMalformedError(t *testing.T) {
	assert.True(t, auth.IsMalformedError(auth.ErrTokenMalformed))
	assert.True(t, auth.IsMalformedError(stderrors.New("missing or malformed JWT")))
	assert.False(t, auth.IsMalformedError(auth.ErrTokenExpired))
	assert.False(t, auth.IsMalformedError(nil))
}

func TestIsAccessDeniedError(t *testing.T) {
	assert.True(t, auth.IsAccessDeniedError(auth.ErrAccessDenied))
	assert.False(t, auth.IsAccessDeniedError(auth.ErrTokenExpired))
	assert.False(t, auth.IsAccessDeniedError(nil))
}

func TestNotFoundCategory(t *testing.T) {
	assert.True(t, goerrors.IsNotFound(auth.ErrIdentityNotFound))
	assert.False(t, goerrors.IsNotFound(auth.ErrAccessDenied))
}
