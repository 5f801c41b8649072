package types

import "time"

// User roles.
const (
	UserTypeAdmin   = "ADMIN"
	UserTypeEditor  = "EDITOR"
	UserTypeDefault = "DEFAULT"
)

// Account statuses. An invited user is PENDING until a password is set.
const (
	AccountStatusCreated = "CREATED"
	AccountStatusPending = "PENDING"
)

// User is an operator account. Password holds a bcrypt hash, never the
// plaintext. Token carries the active invitation token for PENDING users.
type User struct {
	UserID        string    `json:"userId"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email"`
	Password      string    `json:"-"`
	UserType      string    `json:"userType"`
	AccountStatus string    `json:"accountStatus"`
	Token         string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
}

// HasPassword reports whether a password hash has been set.
func (u *User) HasPassword() bool {
	return u.Password != ""
}
