// Package repository declares the persistence interfaces the service layer
// programs against. The SQLite implementation lives in repository/sqlite;
// tests substitute it freely because services only see these interfaces.
//
// OWNER-SCOPED LOOKUPS:
// Every method taking both an id and a userID must resolve them in a single
// query (WHERE id = ? AND user_id = ?). Loading by id and checking the
// owner afterwards is not equivalent — the different error timing leaks
// whether the row exists to users who don't own it.
package repository

import (
	"context"

	"github.com/saorim/flashcard-api/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// Delete removes the user and everything it owns — flashcards first,
	// then categories, then the user row — in one transaction.
	Delete(ctx context.Context, id string) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByIDAndUser(ctx context.Context, id, userID string) (*model.Category, error)
	ListByUser(ctx context.Context, userID string) ([]model.Category, error)
	ExistsByNameAndUser(ctx context.Context, name, userID string) (bool, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id, userID string) error
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type FlashcardRepository interface {
	Create(ctx context.Context, card *model.Flashcard) error
	GetByIDAndUser(ctx context.Context, id, userID string) (*model.Flashcard, error)
	ListByUser(ctx context.Context, userID string) ([]model.Flashcard, error)
	ListByCategoryAndUser(ctx context.Context, categoryID, userID string) ([]model.Flashcard, error)

	// ListDueForReview orders the user's cards by last_reviewed ascending
	// with never-reviewed (NULL) cards first.
	ListDueForReview(ctx context.Context, userID string) ([]model.Flashcard, error)
	ListDueForReviewByCategory(ctx context.Context, categoryID, userID string) ([]model.Flashcard, error)

	// Search matches term as a case-insensitive substring of question or
	// answer, scanning only the user's cards.
	Search(ctx context.Context, userID, term string) ([]model.Flashcard, error)

	Update(ctx context.Context, card *model.Flashcard) error
	Delete(ctx context.Context, id, userID string) error
	CountByUser(ctx context.Context, userID string) (int64, error)
	CountByCategoryAndUser(ctx context.Context, categoryID, userID string) (int64, error)
	CountReviewedByUser(ctx context.Context, userID string) (int64, error)
}
