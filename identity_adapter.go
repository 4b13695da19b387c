package auth

// UserIdentity adapts a User plus its resolved role names into the Identity
// interface for token generation. The roles are a snapshot taken when the
// adapter was built, not a live view of the assignments table.
type UserIdentity struct {
	user  *User
	roles []UserRole
}

// NewIdentityFromUser returns an Identity adapter for the provided user.
func NewIdentityFromUser(user *User, roles []UserRole) Identity {
	if user == nil {
		return nil
	}
	return UserIdentity{user: user, roles: roles}
}

// ID returns the user's ID as a string.
func (u UserIdentity) ID() string {
	if u.user == nil {
		return ""
	}
	return u.user.ID.String()
}

// Username returns the user's username.
func (u UserIdentity) Username() string {
	if u.user == nil {
		return ""
	}
	return u.user.Username
}

// Email returns the user's email address.
func (u UserIdentity) Email() string {
	if u.user == nil {
		return ""
	}
	return u.user.Email
}

// Roles returns the role snapshot.
func (u UserIdentity) Roles() []UserRole {
	return u.roles
}
