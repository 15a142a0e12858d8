package domain

import "time"

// Known role values. Role is informational; no endpoint checks it.
const (
	RoleAdmin    = "admin"
	RoleVendedor = "vendedor"

	DefaultRole = RoleVendedor
)

// User mirrors an identity-provider account alongside the token store.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Identity is what the identity provider knows about an account.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
}
