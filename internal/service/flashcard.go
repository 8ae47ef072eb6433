package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/saorim/flashcard-api/internal/apperror"
	"github.com/saorim/flashcard-api/internal/model"
	"github.com/saorim/flashcard-api/internal/repository"
)

// copySuffix marks duplicated cards' questions.
const copySuffix = " (Copy)"

// FlashcardService handles the owner-scoped flashcard CRUD plus the study
// operations: random pick, review lifecycle, due-for-review queue, search,
// stats, and duplication.
//
// Ownership works as in CategoryService: resolve the user by username, then
// every lookup carries (id, ownerID) in one query. The extra rule here is
// the category link — a card may only ever point at a category belonging to
// the same owner.
type FlashcardService struct {
	flashcards repository.FlashcardRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
	logger     *slog.Logger

	// pick selects an index in [0, n) for the random endpoints. Production
	// uses math/rand/v2; tests inject a deterministic function.
	pick func(n int) int
}

func NewFlashcardService(
	flashcards repository.FlashcardRepository,
	categories repository.CategoryRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *FlashcardService {
	return &FlashcardService{
		flashcards: flashcards,
		categories: categories,
		users:      users,
		logger:     logger,
		pick:       rand.IntN,
	}
}

// WithPicker replaces the random index function. For tests.
func (s *FlashcardService) WithPicker(pick func(n int) int) *FlashcardService {
	s.pick = pick
	return s
}

// Create adds a flashcard for the authenticated user. A supplied category
// id must resolve under the same owner; attaching a card to another user's
// category fails as category-not-found.
func (s *FlashcardService) Create(ctx context.Context, username, question, answer string, categoryID *string) (*model.Flashcard, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" {
		return nil, apperror.ValidationFailed("question", "question is required")
	}
	if answer == "" {
		return nil, apperror.ValidationFailed("answer", "answer is required")
	}

	if categoryID, err = s.resolveCategory(ctx, categoryID, user.ID); err != nil {
		return nil, err
	}

	card := &model.Flashcard{
		Question:   question,
		Answer:     answer,
		CategoryID: categoryID,
		UserID:     user.ID,
	}
	if err := s.flashcards.Create(ctx, card); err != nil {
		return nil, fmt.Errorf("service/flashcard: creating flashcard: %w", err)
	}

	s.logger.Info("flashcard created",
		slog.String("id", card.ID),
		slog.String("userID", user.ID),
	)

	return card, nil
}

func (s *FlashcardService) List(ctx context.Context, username string) ([]model.Flashcard, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.flashcards.ListByUser(ctx, user.ID)
}

func (s *FlashcardService) Get(ctx context.Context, id, username string) (*model.Flashcard, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.flashcards.GetByIDAndUser(ctx, id, user.ID)
}

// Update rewrites question, answer, and category link. The same
// same-owner rule applies to the new category as on create.
func (s *FlashcardService) Update(ctx context.Context, id, username, question, answer string, categoryID *string) (*model.Flashcard, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	card, err := s.flashcards.GetByIDAndUser(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}

	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" {
		return nil, apperror.ValidationFailed("question", "question is required")
	}
	if answer == "" {
		return nil, apperror.ValidationFailed("answer", "answer is required")
	}

	if categoryID, err = s.resolveCategory(ctx, categoryID, user.ID); err != nil {
		return nil, err
	}

	card.Question = question
	card.Answer = answer
	card.CategoryID = categoryID

	if err := s.flashcards.Update(ctx, card); err != nil {
		return nil, fmt.Errorf("service/flashcard: updating flashcard %s: %w", id, err)
	}

	return card, nil
}

func (s *FlashcardService) Delete(ctx context.Context, id, username string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := s.flashcards.Delete(ctx, id, user.ID); err != nil {
		return err
	}

	s.logger.Info("flashcard deleted",
		slog.String("id", id),
		slog.String("userID", user.ID),
	)

	return nil
}

func (s *FlashcardService) ListByCategory(ctx context.Context, categoryID, username string) ([]model.Flashcard, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.flashcards.ListByCategoryAndUser(ctx, categoryID, user.ID)
}

// Random returns one of the user's cards picked uniformly.
func (s *FlashcardService) Random(ctx context.Context, username string) (*model.Flashcard, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	cards, err := s.flashcards.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, apperror.NotFoundMessage("no flashcards found")
	}

	card := cards[s.pick(len(cards))]
	return &card, nil
}

// RandomByCategory returns one of the user's cards in the category, picked
// uniformly.
func (s *FlashcardService) RandomByCategory(ctx context.Context, categoryID, username string) (*model.Flashcard, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	cards, err := s.flashcards.ListByCategoryAndUser(ctx, categoryID, user.ID)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, apperror.NotFoundMessage("no flashcards found in this category")
	}

	card := cards[s.pick(len(cards))]
	return &card, nil
}

// MarkReviewed records a review: last reviewed now, count incremented.
func (s *FlashcardService) MarkReviewed(ctx context.Context, id, username string) (*model.Flashcard, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	card, err := s.flashcards.GetByIDAndUser(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	card.LastReviewed = &now
	card.ReviewCount++

	if err := s.flashcards.Update(ctx, card); err != nil {
		return nil, fmt.Errorf("service/flashcard: marking flashcard %s reviewed: %w", id, err)
	}

	return card, nil
}

// ResetReview returns the card to its never-reviewed state.
func (s *FlashcardService) ResetReview(ctx context.Context, id, username string) (*model.Flashcard, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	card, err := s.flashcards.GetByIDAndUser(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}

	card.LastReviewed = nil
	card.ReviewCount = 0

	if err := s.flashcards.Update(ctx, card); err != nil {
		return nil, fmt.Errorf("service/flashcard: resetting flashcard %s: %w", id, err)
	}

	return card, nil
}

// DueForReview returns the user's cards in review-queue order:
// never-reviewed first, then least recently reviewed.
func (s *FlashcardService) DueForReview(ctx context.Context, username string) ([]model.Flashcard, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.flashcards.ListDueForReview(ctx, user.ID)
}

// DueForReviewByCategory is the per-category queue. The category must
// belong to the caller; otherwise the whole request is not-found.
func (s *FlashcardService) DueForReviewByCategory(ctx context.Context, categoryID, username string) ([]model.Flashcard, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if _, err := s.categories.GetByIDAndUser(ctx, categoryID, user.ID); err != nil {
		return nil, err
	}

	return s.flashcards.ListDueForReviewByCategory(ctx, categoryID, user.ID)
}

// Search returns the user's cards whose question or answer contains term,
// case-insensitively.
func (s *FlashcardService) Search(ctx context.Context, term, username string) ([]model.Flashcard, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.flashcards.Search(ctx, user.ID, term)
}

// FlashcardStats summarizes review progress for GET /api/flashcards/stats.
type FlashcardStats struct {
	Total      int64 `json:"totalFlashcards"`
	Reviewed   int64 `json:"reviewedFlashcards"`
	Unreviewed int64 `json:"unreviewedFlashcards"`
}

func (s *FlashcardService) Stats(ctx context.Context, username string) (*FlashcardStats, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	total, err := s.flashcards.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/flashcard: counting flashcards: %w", err)
	}
	reviewed, err := s.flashcards.CountReviewedByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/flashcard: counting reviewed flashcards: %w", err)
	}

	return &FlashcardStats{
		Total:      total,
		Reviewed:   reviewed,
		Unreviewed: total - reviewed,
	}, nil
}

// Duplicate copies a card: the question gains the copy marker, the answer,
// category, and owner carry over, and the review state starts fresh.
func (s *FlashcardService) Duplicate(ctx context.Context, id, username string) (*model.Flashcard, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	original, err := s.flashcards.GetByIDAndUser(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}

	dup := &model.Flashcard{
		Question:   original.Question + copySuffix,
		Answer:     original.Answer,
		CategoryID: original.CategoryID,
		UserID:     original.UserID,
	}
	if err := s.flashcards.Create(ctx, dup); err != nil {
		return nil, fmt.Errorf("service/flashcard: duplicating flashcard %s: %w", id, err)
	}

	s.logger.Info("flashcard duplicated",
		slog.String("originalID", id),
		slog.String("copyID", dup.ID),
	)

	return dup, nil
}

// CountByUser returns the user's total number of cards.
func (s *FlashcardService) CountByUser(ctx context.Context, username string) (int64, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	return s.flashcards.CountByUser(ctx, user.ID)
}

// CountByCategory returns the user's number of cards in one category.
func (s *FlashcardService) CountByCategory(ctx context.Context, categoryID, username string) (int64, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	return s.flashcards.CountByCategoryAndUser(ctx, categoryID, user.ID)
}

// resolveCategory verifies a non-nil category id against the owner and
// normalizes empty ids to nil (uncategorized).
func (s *FlashcardService) resolveCategory(ctx context.Context, categoryID *string, userID string) (*string, error) {
	if categoryID == nil || strings.TrimSpace(*categoryID) == "" {
		return nil, nil
	}

	id := strings.TrimSpace(*categoryID)
	if _, err := s.categories.GetByIDAndUser(ctx, id, userID); err != nil {
		return nil, err
	}
	return &id, nil
}
