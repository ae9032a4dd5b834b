package models

import "time"

const (
	// RoleUser is the default portal role.
	RoleUser = "user"
	// RoleDevMaster is the role allowed to manage users.
	RoleDevMaster = "dev-master"
)

// User represents a portal user. The email is the primary key and is always
// stored trimmed and lowercased.
type User struct {
	Email      string    `json:"email" db:"email"`
	Nome       string    `json:"nome" db:"nome"`
	SenhaHash  string    `json:"-" db:"senha_hash"`
	Role       string    `json:"role" db:"role"`
	TOTPSecret string    `json:"-" db:"totp_secret"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// IsDevMaster reports whether the user may manage other users.
func (u *User) IsDevMaster() bool {
	return u.Role == RoleDevMaster
}

// UserUpdate carries the optional fields of a user update. Nil fields are
// left unchanged.
type UserUpdate struct {
	Nome       *string
	SenhaHash  *string
	Role       *string
	TOTPSecret *string
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.Nome == nil && u.SenhaHash == nil && u.Role == nil && u.TOTPSecret == nil
}
