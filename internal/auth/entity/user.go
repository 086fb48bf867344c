package entity

import (
	"fmt"
	"net/mail"
)

// User is the public account record. The hashed password lives on Credential
// and is never serialized.
type User struct {
	Username string  `db:"username" json:"username"`
	Email    string  `db:"email" json:"email"`
	FullName *string `db:"full_name" json:"full_name,omitempty"`
	Disabled *bool   `db:"disabled" json:"disabled,omitempty"`
}

// Credential is the stored form of a user account. Accounts are provisioned
// out-of-band; this service only reads them.
type Credential struct {
	User
	HashedPassword string `db:"hashed_password" json:"-"`
}

// Validate checks the structural invariants of a stored account record.
func (u *User) Validate() error {
	if u.Username == "" {
		return fmt.Errorf("username is required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("invalid email %q: %w", u.Email, err)
	}
	return nil
}
