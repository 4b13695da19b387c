package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the name of a role. The set is closed: roles live in the
// database so assignments can reference them by id, but the decision engine
// only ever reasons about these named values.
type UserRole = string

const (
	// RoleUser is the default role every account receives at registration
	RoleUser UserRole = "user"
	// RoleAdmin can manage other accounts
	RoleAdmin UserRole = "admin"
)

// DefaultRole is assigned when a registration does not name one.
const DefaultRole = RoleUser

// ValidRole checks the name against the closed role enumeration.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// User is the user model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone         string     `bun:"phone_number" json:"phone_number,omitempty"`
	FullName      string     `bun:"full_name" json:"full_name,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	EmailVerified bool       `bun:"is_email_verified" json:"is_email_verified,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`

	Assignments []*RoleAssignment `bun:"rel:has-many,join:id=user_id" json:"assignments,omitempty"`
}

// Role is a persisted row for a member of the closed role enumeration.
// Referenced by id, never embedded.
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:rol"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Name          UserRole   `bun:"name,notnull,unique" json:"name,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// RoleAssignment links a user to a role it holds, unique per pair.
type RoleAssignment struct {
	bun.BaseModel `bun:"table:role_assignments,alias:ras"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	RoleID        int64      `bun:"role_id,notnull" json:"role_id,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`

	User *User `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Role *Role `bun:"rel:belongs-to,join:role_id=id" json:"role,omitempty"`
}
