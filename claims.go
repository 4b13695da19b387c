package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the validated identity claim a bearer token carries: who the
// caller is plus the role snapshot taken at issuance. A later role change
// does not alter tokens already issued; revocation happens through expiry.
type AuthClaims interface {
	Subject() string
	UserID() string
	Username() string
	Roles() []UserRole
	HasRole(role UserRole) bool
	HasAnyRole(roles ...UserRole) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UID       string     `json:"uid,omitempty"`
	Uname     string     `json:"username,omitempty"`
	UserRoles []UserRole `json:"roles,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Username returns the username claim
func (c *JWTClaims) Username() string {
	return c.Uname
}

// Roles returns the role snapshot embedded at issuance
func (c *JWTClaims) Roles() []UserRole {
	return c.UserRoles
}

// HasRole checks if the claim carries a specific role
func (c *JWTClaims) HasRole(role UserRole) bool {
	for _, r := range c.UserRoles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole checks if the claim carries at least one of the given roles
func (c *JWTClaims) HasAnyRole(roles ...UserRole) bool {
	for _, r := range roles {
		if c.HasRole(r) {
			return true
		}
	}
	return false
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
