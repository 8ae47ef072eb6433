package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/saorim/flashcard-api/internal/auth"
	"github.com/saorim/flashcard-api/internal/model"
	"github.com/saorim/flashcard-api/internal/repository/sqlite"
)

// testEnv bundles an in-memory database with every service, wired the same
// way the server wires them. Exercising services against the real SQLite
// layer keeps these tests honest about ownership scoping and ordering.
type testEnv struct {
	db         *sqlite.DB
	auth       *AuthService
	users      *UserService
	categories *CategoryService
	flashcards *FlashcardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := auth.NewTokenService("test-secret-that-is-long-enough", time.Hour)
	if err != nil {
		t.Fatalf("failed to create token service: %v", err)
	}
	passwords := auth.NewPasswordService(bcrypt.MinCost)

	return &testEnv{
		db:         db,
		auth:       NewAuthService(db.Users, tokens, passwords, logger),
		users:      NewUserService(db.Users, db.Categories, db.Flashcards, passwords, logger),
		categories: NewCategoryService(db.Categories, db.Users, logger),
		flashcards: NewFlashcardService(db.Flashcards, db.Categories, db.Users, logger),
	}
}

// register creates an account through the real signup path.
func (e *testEnv) register(t *testing.T, username, email string) {
	t.Helper()
	if _, err := e.auth.Register(context.Background(), username, email, "password123"); err != nil {
		t.Fatalf("failed to register %s: %v", username, err)
	}
}

func (e *testEnv) createCategory(t *testing.T, username, name string) *model.Category {
	t.Helper()
	category, err := e.categories.Create(context.Background(), username, name, "")
	if err != nil {
		t.Fatalf("failed to create category %s: %v", name, err)
	}
	return category
}

func (e *testEnv) createFlashcard(t *testing.T, username, question, answer string, categoryID *string) *model.Flashcard {
	t.Helper()
	card, err := e.flashcards.Create(context.Background(), username, question, answer, categoryID)
	if err != nil {
		t.Fatalf("failed to create flashcard %q: %v", question, err)
	}
	return card
}
