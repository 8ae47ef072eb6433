package model

import "time"

// Flashcard is a single question/answer card owned by a user.
//
// CategoryID is a pointer because a card may be uncategorized — either
// created without a category or detached when its category was deleted.
// LastReviewed is likewise nil until the card is reviewed for the first
// time; "never reviewed" and "reviewed at the zero time" are different
// states, so a nullable pointer is the honest representation.
//
// Review lifecycle:
//   - created with ReviewCount=0, LastReviewed=nil
//   - marking reviewed sets LastReviewed=now and increments ReviewCount
//   - resetting restores ReviewCount=0, LastReviewed=nil
type Flashcard struct {
	ID           string     `json:"id"           db:"id"`
	Question     string     `json:"question"     db:"question"`
	Answer       string     `json:"answer"       db:"answer"`
	CategoryID   *string    `json:"categoryId"   db:"category_id"`
	UserID       string     `json:"userId"       db:"user_id"`
	LastReviewed *time.Time `json:"lastReviewed" db:"last_reviewed"`
	ReviewCount  int        `json:"reviewCount"  db:"review_count"`
	CreatedAt    time.Time  `json:"createdAt"    db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt"    db:"updated_at"`
}

// Reviewed reports whether the card has been reviewed at least once.
func (f *Flashcard) Reviewed() bool {
	return f.LastReviewed != nil
}
