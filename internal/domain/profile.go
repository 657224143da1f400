package domain

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Profile is a registered user.
type Profile struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	FullName        string    `json:"fullName"`
	Country         string    `json:"country,omitempty"`
	Role            Role      `json:"role"`
	IsSuspended     bool      `json:"isSuspended"`
	SuspendedReason *string   `json:"suspendedReason,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (p Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// ProfileUpdate carries editable profile fields; nil fields are left unchanged.
type ProfileUpdate struct {
	FullName *string
	Country  *string
	Role     *Role
}

// UserFilter values.
const (
	UserFilterAll       = "all"
	UserFilterActive    = "active"
	UserFilterSuspended = "suspended"
)

// UserFilter narrows administrator user listings.
type UserFilter struct {
	Search string
	State  string
}
