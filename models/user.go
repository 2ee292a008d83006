package models

import "time"

// Roles a user can hold. Guides appear on tours; lead guides and admins
// manage them.
const (
	RoleUser      = "user"
	RoleGuide     = "guide"
	RoleLeadGuide = "lead-guide"
	RoleAdmin     = "admin"
)

type User struct {
	UserID               string    `json:"id" bson:"userid"`
	Name                 string    `json:"name" bson:"name" validate:"required"`
	Email                string    `json:"email" bson:"email" validate:"required,email"`
	Photo                string    `json:"photo,omitempty" bson:"photo,omitempty"`
	Role                 string    `json:"role" bson:"role" validate:"required,oneof=user guide lead-guide admin"`
	Password             string    `json:"-" bson:"password"`
	PasswordChangedAt    time.Time `json:"-" bson:"passwordChangedAt,omitempty"`
	PasswordResetToken   string    `json:"-" bson:"passwordResetToken,omitempty"`
	PasswordResetExpires time.Time `json:"-" bson:"passwordResetExpires,omitempty"`
	Active               bool      `json:"-" bson:"active"`
	CreatedAt            time.Time `json:"createdAt" bson:"createdAt"`
}

// ChangedPasswordAfter reports whether the password was changed after the
// given token issue time. Tokens issued before a password change are stale.
func (u User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt.IsZero() {
		return false
	}
	return u.PasswordChangedAt.After(issuedAt)
}
