package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role controls what a user may do outside their own account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the account document. Credential fields (password hash, refresh
// token, reset token) are never serialized to JSON and are excluded from
// default repository reads; callers that need them must use the explicit
// WithPassword / WithRefreshToken / ByResetTokenHash reads.
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
	Age   int                `bson:"age,omitempty" json:"age,omitempty"`
	Role  Role               `bson:"role" json:"role"`

	PasswordHash      string     `bson:"password_hash,omitempty" json:"-"`
	RefreshToken      string     `bson:"refresh_token,omitempty" json:"-"`
	ResetTokenHash    string     `bson:"reset_token_hash,omitempty" json:"-"`
	ResetTokenExpires *time.Time `bson:"reset_token_expires,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Public returns a copy with all credential fields stripped, safe to hand to
// transport layers regardless of how the record was read.
func (u User) Public() User {
	u.PasswordHash = ""
	u.RefreshToken = ""
	u.ResetTokenHash = ""
	u.ResetTokenExpires = nil
	return u
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
