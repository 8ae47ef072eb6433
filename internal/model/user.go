// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Identity is credential-based: users sign up with a username, email, and
// password. Only a bcrypt hash of the password is ever stored.
//
// WHY json:"-" ON PasswordHash?
// The hash must never leave the server. Handlers serialize model.User
// directly in profile responses, so the exclusion lives on the struct tag
// rather than relying on every handler to remember to strip it.
//
// Username and email are globally unique (UNIQUE columns, re-checked in the
// service layer for friendlier errors). Username uniqueness is
// case-sensitive; emails are lowercased at signup so they compare
// case-insensitively in practice.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
