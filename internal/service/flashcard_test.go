package service

import (
	"context"
	"errors"
	"testing"

	"github.com/saorim/flashcard-api/internal/apperror"
)

func TestFlashcardCreate(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")
	category := env.createCategory(t, "alice", "Go")

	card, err := env.flashcards.Create(context.Background(), "alice", "  What is a goroutine?  ", "A lightweight thread", &category.ID)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if card.Question != "What is a goroutine?" {
		t.Errorf("Question = %q, want trimmed", card.Question)
	}
	if card.CategoryID == nil || *card.CategoryID != category.ID {
		t.Errorf("CategoryID = %v, want %q", card.CategoryID, category.ID)
	}
	if card.LastReviewed != nil || card.ReviewCount != 0 {
		t.Error("new card should start unreviewed")
	}
}

func TestFlashcardCreate_Validation(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	if _, err := env.flashcards.Create(context.Background(), "alice", "  ", "a", nil); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("empty question error = %v, want ErrValidation", err)
	}
	if _, err := env.flashcards.Create(context.Background(), "alice", "q", "  ", nil); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("empty answer error = %v, want ErrValidation", err)
	}
}

// Attaching a card to someone else's category reads as category-not-found.
func TestFlashcardCreate_ForeignCategory(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")
	env.register(t, "bob", "bob@example.com")
	category := env.createCategory(t, "bob", "Go")

	_, err := env.flashcards.Create(context.Background(), "alice", "q", "a", &category.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Create() with foreign category error = %v, want ErrNotFound", err)
	}
}

// An empty category id means uncategorized, same as nil.
func TestFlashcardCreate_EmptyCategoryID(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	empty := ""
	card, err := env.flashcards.Create(context.Background(), "alice", "q", "a", &empty)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if card.CategoryID != nil {
		t.Errorf("CategoryID = %v, want nil", *card.CategoryID)
	}
}

func TestFlashcardUpdate_ChangesCategory(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")
	category := env.createCategory(t, "alice", "Go")
	card := env.createFlashcard(t, "alice", "q", "a", &category.ID)

	// Detach by passing nil.
	updated, err := env.flashcards.Update(context.Background(), card.ID, "alice", "q2", "a2", nil)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Question != "q2" || updated.Answer != "a2" {
		t.Errorf("Update() = %s/%s", updated.Question, updated.Answer)
	}
	if updated.CategoryID != nil {
		t.Errorf("CategoryID = %v, want nil", *updated.CategoryID)
	}
}

func TestFlashcardGet_CrossUser(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")
	env.register(t, "bob", "bob@example.com")
	card := env.createFlashcard(t, "alice", "q", "a", nil)

	if _, err := env.flashcards.Get(context.Background(), card.ID, "bob"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() cross-user error = %v, want ErrNotFound", err)
	}
}

func TestFlashcardRandom_Deterministic(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	env.createFlashcard(t, "alice", "first", "a", nil)
	second := env.createFlashcard(t, "alice", "second", "a", nil)
	env.createFlashcard(t, "alice", "third", "a", nil)

	// Pin the picker to index 1; cards list in creation order.
	env.flashcards.WithPicker(func(n int) int {
		if n != 3 {
			t.Errorf("pick(n) called with n = %d, want 3", n)
		}
		return 1
	})

	card, err := env.flashcards.Random(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Random() error = %v", err)
	}
	if card.ID != second.ID {
		t.Errorf("Random() = %q, want the second card", card.Question)
	}
}

func TestFlashcardRandom_Empty(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	_, err := env.flashcards.Random(context.Background(), "alice")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Random() with no cards error = %v, want ErrNotFound", err)
	}
}

func TestFlashcardRandomByCategory(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")
	category := env.createCategory(t, "alice", "Go")

	inCat := env.createFlashcard(t, "alice", "categorized", "a", &category.ID)
	env.createFlashcard(t, "alice", "loose", "a", nil)

	env.flashcards.WithPicker(func(n int) int { return 0 })

	card, err := env.flashcards.RandomByCategory(context.Background(), category.ID, "alice")
	if err != nil {
		t.Fatalf("RandomByCategory() error = %v", err)
	}
	if card.ID != inCat.ID {
		t.Errorf("RandomByCategory() = %q, want the categorized card", card.Question)
	}

	// Empty category yields not-found.
	other := env.createCategory(t, "alice", "Empty")
	if _, err := env.flashcards.RandomByCategory(context.Background(), other.ID, "alice"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("RandomByCategory() on empty category error = %v, want ErrNotFound", err)
	}
}

func TestFlashcardReviewLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")
	card := env.createFlashcard(t, "alice", "q", "a", nil)

	reviewed, err := env.flashcards.MarkReviewed(context.Background(), card.ID, "alice")
	if err != nil {
		t.Fatalf("MarkReviewed() error = %v", err)
	}
	if !reviewed.Reviewed() {
		t.Fatal("MarkReviewed() should set LastReviewed")
	}
	if reviewed.ReviewCount != 1 {
		t.Errorf("ReviewCount = %d, want 1", reviewed.ReviewCount)
	}

	again, err := env.flashcards.MarkReviewed(context.Background(), card.ID, "alice")
	if err != nil {
		t.Fatalf("MarkReviewed() again error = %v", err)
	}
	if again.ReviewCount != 2 {
		t.Errorf("ReviewCount after second review = %d, want 2", again.ReviewCount)
	}

	reset, err := env.flashcards.ResetReview(context.Background(), card.ID, "alice")
	if err != nil {
		t.Fatalf("ResetReview() error = %v", err)
	}
	if reset.LastReviewed != nil || reset.ReviewCount != 0 {
		t.Errorf("after reset: LastReviewed=%v ReviewCount=%d, want nil and 0", reset.LastReviewed, reset.ReviewCount)
	}
}

func TestFlashcardDueForReview(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	reviewed := env.createFlashcard(t, "alice", "reviewed", "a", nil)
	never := env.createFlashcard(t, "alice", "never", "a", nil)

	if _, err := env.flashcards.MarkReviewed(context.Background(), reviewed.ID, "alice"); err != nil {
		t.Fatalf("MarkReviewed() error = %v", err)
	}

	cards, err := env.flashcards.DueForReview(context.Background(), "alice")
	if err != nil {
		t.Fatalf("DueForReview() error = %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("DueForReview() returned %d cards, want 2", len(cards))
	}
	if cards[0].ID != never.ID {
		t.Errorf("first due card = %q, want the never-reviewed one", cards[0].Question)
	}
}

// The per-category queue refuses categories the caller doesn't own.
func TestFlashcardDueForReviewByCategory_ForeignCategory(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")
	env.register(t, "bob", "bob@example.com")
	category := env.createCategory(t, "bob", "Go")

	_, err := env.flashcards.DueForReviewByCategory(context.Background(), category.ID, "alice")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("DueForReviewByCategory() error = %v, want ErrNotFound", err)
	}
}

func TestFlashcardSearch(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	env.createFlashcard(t, "alice", "What is a goroutine?", "A lightweight thread", nil)
	env.createFlashcard(t, "alice", "Capital of France", "Paris", nil)

	cards, err := env.flashcards.Search(context.Background(), "GOROUTINE", "alice")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(cards) != 1 {
		t.Errorf("Search() returned %d cards, want 1 (case-insensitive)", len(cards))
	}
}

func TestFlashcardStats(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	reviewed := env.createFlashcard(t, "alice", "q1", "a1", nil)
	env.createFlashcard(t, "alice", "q2", "a2", nil)
	env.createFlashcard(t, "alice", "q3", "a3", nil)

	if _, err := env.flashcards.MarkReviewed(context.Background(), reviewed.ID, "alice"); err != nil {
		t.Fatalf("MarkReviewed() error = %v", err)
	}

	stats, err := env.flashcards.Stats(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Total != 3 || stats.Reviewed != 1 || stats.Unreviewed != 2 {
		t.Errorf("Stats() = %+v, want 3 total, 1 reviewed, 2 unreviewed", stats)
	}
}

func TestFlashcardDuplicate(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")
	category := env.createCategory(t, "alice", "Go")
	original := env.createFlashcard(t, "alice", "What is a goroutine?", "A lightweight thread", &category.ID)

	if _, err := env.flashcards.MarkReviewed(context.Background(), original.ID, "alice"); err != nil {
		t.Fatalf("MarkReviewed() error = %v", err)
	}

	dup, err := env.flashcards.Duplicate(context.Background(), original.ID, "alice")
	if err != nil {
		t.Fatalf("Duplicate() error = %v", err)
	}

	if dup.ID == original.ID {
		t.Error("Duplicate() should create a new card")
	}
	if dup.Question != "What is a goroutine? (Copy)" {
		t.Errorf("Question = %q, want the copy marker appended", dup.Question)
	}
	if dup.Answer != original.Answer {
		t.Errorf("Answer = %q, want %q", dup.Answer, original.Answer)
	}
	if dup.CategoryID == nil || *dup.CategoryID != category.ID {
		t.Error("Duplicate() should keep the category link")
	}
	// Review state starts fresh on the copy.
	if dup.Reviewed() || dup.ReviewCount != 0 {
		t.Error("Duplicate() should not carry over review state")
	}
}

func TestFlashcardCounts(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")
	category := env.createCategory(t, "alice", "Go")

	env.createFlashcard(t, "alice", "q1", "a1", &category.ID)
	env.createFlashcard(t, "alice", "q2", "a2", nil)

	if n, err := env.flashcards.CountByUser(context.Background(), "alice"); err != nil || n != 2 {
		t.Errorf("CountByUser() = (%d, %v), want (2, nil)", n, err)
	}
	if n, err := env.flashcards.CountByCategory(context.Background(), category.ID, "alice"); err != nil || n != 1 {
		t.Errorf("CountByCategory() = (%d, %v), want (1, nil)", n, err)
	}
}
