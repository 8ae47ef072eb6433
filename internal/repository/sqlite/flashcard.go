package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/saorim/flashcard-api/internal/apperror"
	"github.com/saorim/flashcard-api/internal/model"
	"github.com/saorim/flashcard-api/internal/repository"
)

// compile-time check that *FlashcardRepo implements repository.FlashcardRepository
var _ repository.FlashcardRepository = (*FlashcardRepo)(nil)

// FlashcardRepo persists flashcards.
type FlashcardRepo struct {
	conn *sql.DB
}

const flashcardColumns = `id, question, answer, category_id, user_id, last_reviewed, review_count, created_at, updated_at`

func (r *FlashcardRepo) Create(ctx context.Context, card *model.Flashcard) error {
	now := time.Now()
	card.ID = xid.New().String()
	card.CreatedAt = now
	card.UpdatedAt = now

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO flashcards (id, question, answer, category_id, user_id, last_reviewed, review_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		card.ID,
		card.Question,
		card.Answer,
		card.CategoryID, // nil pointer inserts NULL
		card.UserID,
		card.LastReviewed,
		card.ReviewCount,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating flashcard: %w", err)
	}

	return nil
}

// GetByIDAndUser resolves the card by id and owner in one query — the
// owner check is part of the lookup, never a separate step.
func (r *FlashcardRepo) GetByIDAndUser(ctx context.Context, id, userID string) (*model.Flashcard, error) {
	row := r.conn.QueryRowContext(ctx,
		`SELECT `+flashcardColumns+` FROM flashcards WHERE id = ? AND user_id = ?`,
		id, userID,
	)

	card, err := scanFlashcard(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("flashcard", id)
		}
		return nil, fmt.Errorf("sqlite: getting flashcard %s: %w", id, err)
	}

	return card, nil
}

func (r *FlashcardRepo) ListByUser(ctx context.Context, userID string) ([]model.Flashcard, error) {
	return r.list(ctx,
		`SELECT `+flashcardColumns+` FROM flashcards WHERE user_id = ? ORDER BY created_at ASC`,
		userID)
}

func (r *FlashcardRepo) ListByCategoryAndUser(ctx context.Context, categoryID, userID string) ([]model.Flashcard, error) {
	return r.list(ctx,
		`SELECT `+flashcardColumns+` FROM flashcards WHERE category_id = ? AND user_id = ? ORDER BY created_at ASC`,
		categoryID, userID)
}

// ListDueForReview orders by last_reviewed ascending. SQLite sorts NULL
// before any value in ASC order, so never-reviewed cards surface first and
// reviewed cards follow least-recent-first — exactly the review queue
// ordering. created_at breaks ties deterministically.
func (r *FlashcardRepo) ListDueForReview(ctx context.Context, userID string) ([]model.Flashcard, error) {
	return r.list(ctx,
		`SELECT `+flashcardColumns+` FROM flashcards
		 WHERE user_id = ?
		 ORDER BY last_reviewed ASC, created_at ASC`,
		userID)
}

func (r *FlashcardRepo) ListDueForReviewByCategory(ctx context.Context, categoryID, userID string) ([]model.Flashcard, error) {
	return r.list(ctx,
		`SELECT `+flashcardColumns+` FROM flashcards
		 WHERE user_id = ? AND category_id = ?
		 ORDER BY last_reviewed ASC, created_at ASC`,
		userID, categoryID)
}

// Search matches term as a case-insensitive substring of question or
// answer. SQLite's LIKE is case-insensitive for ASCII; the term is escaped
// so user input containing %, _ or \ matches literally.
func (r *FlashcardRepo) Search(ctx context.Context, userID, term string) ([]model.Flashcard, error) {
	pattern := "%" + escapeLike(term) + "%"
	return r.list(ctx,
		`SELECT `+flashcardColumns+` FROM flashcards
		 WHERE user_id = ? AND (question LIKE ? ESCAPE '\' OR answer LIKE ? ESCAPE '\')
		 ORDER BY created_at ASC`,
		userID, pattern, pattern)
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// Update writes every mutable field, scoped by id and owner. The review
// fields go through here too (mark reviewed, reset) — the service mutates
// the struct and saves.
func (r *FlashcardRepo) Update(ctx context.Context, card *model.Flashcard) error {
	card.UpdatedAt = time.Now()

	result, err := r.conn.ExecContext(ctx,
		`UPDATE flashcards
		 SET question = ?, answer = ?, category_id = ?, last_reviewed = ?, review_count = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		card.Question,
		card.Answer,
		card.CategoryID,
		card.LastReviewed,
		card.ReviewCount,
		card.UpdatedAt,
		card.ID,
		card.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating flashcard %s: %w", card.ID, err)
	}

	return checkAffected(result, "flashcard", card.ID)
}

func (r *FlashcardRepo) Delete(ctx context.Context, id, userID string) error {
	result, err := r.conn.ExecContext(ctx,
		`DELETE FROM flashcards WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting flashcard %s: %w", id, err)
	}

	return checkAffected(result, "flashcard", id)
}

func (r *FlashcardRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	return queryCount(ctx, r.conn,
		`SELECT COUNT(*) FROM flashcards WHERE user_id = ?`, userID)
}

func (r *FlashcardRepo) CountByCategoryAndUser(ctx context.Context, categoryID, userID string) (int64, error) {
	return queryCount(ctx, r.conn,
		`SELECT COUNT(*) FROM flashcards WHERE category_id = ? AND user_id = ?`, categoryID, userID)
}

func (r *FlashcardRepo) CountReviewedByUser(ctx context.Context, userID string) (int64, error) {
	return queryCount(ctx, r.conn,
		`SELECT COUNT(*) FROM flashcards WHERE user_id = ? AND last_reviewed IS NOT NULL`, userID)
}

func (r *FlashcardRepo) list(ctx context.Context, query string, args ...any) ([]model.Flashcard, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing flashcards: %w", err)
	}
	defer rows.Close()

	cards := []model.Flashcard{}
	for rows.Next() {
		card, err := scanFlashcard(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning flashcard row: %w", err)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating flashcards: %w", err)
	}

	return cards, nil
}

// scanFlashcard reads one row through the given Scan function, converting
// the nullable columns (category_id, last_reviewed) to pointers.
func scanFlashcard(scan func(...any) error) (*model.Flashcard, error) {
	var (
		card         model.Flashcard
		categoryID   sql.NullString
		lastReviewed sql.NullTime
	)

	err := scan(
		&card.ID,
		&card.Question,
		&card.Answer,
		&categoryID,
		&card.UserID,
		&lastReviewed,
		&card.ReviewCount,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		card.CategoryID = &categoryID.String
	}
	if lastReviewed.Valid {
		t := lastReviewed.Time
		card.LastReviewed = &t
	}

	return &card, nil
}
