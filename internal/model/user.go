// Package model defines domain entities for the application.
package model

// User is a registered account. PasswordHash holds an Argon2id PHC string.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Never serialize
}

// UserSummary is the public view of a user.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ToSummary converts a User to its public view.
func (u *User) ToSummary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

// AuthContext holds the identity resolved from a bearer token.
// This is injected into the request context by auth middleware.
type AuthContext struct {
	UserID  int64
	TokenID string
}
