package domain

import "time"

// Role labels a coarse permission group carried inside tokens.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// UserStatus represents lifecycle states for an identity.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusDisabled UserStatus = "DISABLED"
)

// User is the identity record. PasswordHash is empty for OAuth-only
// identities and is projected out of store reads unless explicitly selected.
type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	OAuthIDs     map[string]string
	Roles        []Role
	Avatar       string
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports membership in the identity's role set.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RoleStrings returns roles as plain strings for token claims.
func RoleStrings(roles []Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

// RolesFromStrings parses role claims back into domain roles.
func RolesFromStrings(values []string) []Role {
	out := make([]Role, 0, len(values))
	for _, v := range values {
		out = append(out, Role(v))
	}
	return out
}
