package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// Text codes give HTTP layers a stable identifier for each failure mode,
// independent of the human readable message.
const (
	TextCodeInvalidCreds       = "AUTH_INVALID_CREDENTIALS"
	TextCodeIdentityNotFound   = "AUTH_IDENTITY_NOT_FOUND"
	TextCodeTokenExpired       = "AUTH_TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "AUTH_TOKEN_MALFORMED"
	TextCodeTokenBadSignature  = "AUTH_TOKEN_BAD_SIGNATURE"
	TextCodeAccessDenied       = "AUTH_ACCESS_DENIED"
	TextCodeCodeMalformed      = "AUTH_CODE_MALFORMED"
	TextCodeCodeInvalid        = "AUTH_CODE_INVALID"
	TextCodeSessionNotFound    = "AUTH_SESSION_NOT_FOUND"
	TextCodeSessionDecodeError = "AUTH_SESSION_DECODE_ERROR"
	TextCodeClaimsMappingError = "AUTH_CLAIMS_MAPPING_ERROR"
	TextCodeDataParseError     = "AUTH_DATA_PARSE_ERROR"
	TextCodeEmptyPassword      = "AUTH_EMPTY_PASSWORD"
	TextCodeAlreadyVerified    = "AUTH_ALREADY_VERIFIED"
)

// ErrIdentityNotFound is returned when a lookup expected an identity record.
// Login never surfaces it to callers, see ErrMismatchedHashAndPassword.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode(TextCodeIdentityNotFound)

// ErrMismatchedHashAndPassword covers both a wrong password and a missing
// user so callers cannot probe which usernames exist.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCreds)

// ErrTokenExpired is returned when a token fails its expiry check.
var ErrTokenExpired = errors.New("authentication token is expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed is returned when a token cannot be parsed into claims.
var ErrTokenMalformed = errors.New("authentication token is malformed", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenMalformed)

// ErrTokenSignatureInvalid is returned when a token signature does not verify
// against the configured signing key.
var ErrTokenSignatureInvalid = errors.New("authentication token signature is invalid", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenBadSignature)

// ErrAccessDenied is the authorization decision outcome, not an internal
// failure. Handlers map it to 403.
var ErrAccessDenied = errors.New("access denied", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden).
	WithTextCode(TextCodeAccessDenied)

// ErrCodeMalformed is returned when a verification code does not have the
// nonce:ciphertext shape or is not valid hex.
var ErrCodeMalformed = errors.New("verification code is malformed", errors.CategoryBadInput).
	WithTextCode(TextCodeCodeMalformed)

// ErrCodeInvalid is returned when a verification code fails to decrypt, either
// because it was tampered with or produced under a different key.
var ErrCodeInvalid = errors.New("verification code is invalid", errors.CategoryBadInput).
	WithTextCode(TextCodeCodeInvalid)

// ErrUnableToFindSession is the error when our request has no token cookie.
var ErrUnableToFindSession = errors.New("unable to find session", errors.CategoryAuth).
	WithTextCode(TextCodeSessionNotFound)

// ErrUnableToDecodeSession unable to decode JWT from session cookie.
var ErrUnableToDecodeSession = errors.New("unable to decode session", errors.CategoryAuth).
	WithTextCode(TextCodeSessionDecodeError)

// ErrUnableToMapClaims unable to get claims from token.
var ErrUnableToMapClaims = errors.New("unable to map claims", errors.CategoryAuth).
	WithTextCode(TextCodeClaimsMappingError)

// ErrUnableToParseData parse error.
var ErrUnableToParseData = errors.New("unable to parse data", errors.CategoryBadInput).
	WithTextCode(TextCodeDataParseError)

// ErrNoEmptyString rejects empty passwords before they reach the hasher.
var ErrNoEmptyString = errors.New("password cannot be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// ErrAlreadyVerified is returned when a verification code is presented for an
// account whose email was verified earlier. Codes carry no timestamp, this is
// how they go stale.
var ErrAlreadyVerified = errors.New("account email is already verified", errors.CategoryConflict).
	WithTextCode(TextCodeAlreadyVerified)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if errors.As(err, &rich) && rich.TextCode == TextCodeTokenExpired {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if errors.As(err, &rich) && rich.TextCode == TextCodeTokenMalformed {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// isRecordNotFound matches a store miss whether it surfaced as this package's
// CategoryNotFound or as the repository layer's record-not-found error, which
// carries its own category.
func isRecordNotFound(err error) bool {
	return errors.IsNotFound(err) || repository.IsRecordNotFound(err)
}

// IsAccessDeniedError reports whether err is an authorization denial.
func IsAccessDeniedError(err error) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	return errors.As(err, &rich) && rich.TextCode == TextCodeAccessDenied
}
