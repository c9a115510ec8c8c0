// Package model defines the data structures used throughout the application.
package model

// User represents a registered account.
//
// ID is an xid — a globally unique, creation-time-ordered token assigned at
// registration. Email is the uniqueness key for login (compared
// case-sensitively, exactly as entered). PasswordHash holds the bcrypt hash
// of the user's password; the plaintext is never stored.
//
// Users are immutable after creation — there is no profile editing or
// account deletion in this app.
//
// WHY IS PasswordHash SERIALIZED?
// The whole application state (including users) is persisted as one JSON
// blob, so the hash must survive the round trip. It must never leave the
// server, though — API responses use Info(), not the User itself.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password"`
}

// UserInfo is the client-safe view of a User. This is what API responses
// carry; the password hash stays behind.
type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Info returns the client-safe view of the user.
func (u User) Info() UserInfo {
	return UserInfo{ID: u.ID, Name: u.Name, Email: u.Email}
}
