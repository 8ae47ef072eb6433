package model

import "time"

// Category groups a user's flashcards under a name.
//
// Every category belongs to exactly one user (UserID is required). The name
// is unique per owner, not globally — two users can both have a "Biology"
// category.
type Category struct {
	ID          string    `json:"id"          db:"id"`
	Name        string    `json:"name"        db:"name"`
	Description string    `json:"description" db:"description"`
	UserID      string    `json:"userId"      db:"user_id"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}
