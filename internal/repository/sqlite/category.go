package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/saorim/flashcard-api/internal/apperror"
	"github.com/saorim/flashcard-api/internal/model"
	"github.com/saorim/flashcard-api/internal/repository"
)

// compile-time check that *CategoryRepo implements repository.CategoryRepository
var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo persists categories.
type CategoryRepo struct {
	conn *sql.DB
}

const categoryColumns = `id, name, description, user_id, created_at, updated_at`

func (r *CategoryRepo) Create(ctx context.Context, category *model.Category) error {
	now := time.Now()
	category.ID = xid.New().String()
	category.CreatedAt = now
	category.UpdatedAt = now

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO categories (id, name, description, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		category.ID,
		category.Name,
		category.Description,
		category.UserID,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating category: %w", err)
	}

	return nil
}

// GetByIDAndUser resolves the category by id and owner in one query. A
// category that exists but belongs to someone else looks exactly like one
// that doesn't exist.
func (r *CategoryRepo) GetByIDAndUser(ctx context.Context, id, userID string) (*model.Category, error) {
	var c model.Category

	err := r.conn.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.UserID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("category", id)
		}
		return nil, fmt.Errorf("sqlite: getting category %s: %w", id, err)
	}

	return &c, nil
}

func (r *CategoryRepo) ListByUser(ctx context.Context, userID string) ([]model.Category, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = ? ORDER BY name ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating categories: %w", err)
	}

	return categories, nil
}

func (r *CategoryRepo) ExistsByNameAndUser(ctx context.Context, name, userID string) (bool, error) {
	count, err := queryCount(ctx, r.conn,
		`SELECT COUNT(*) FROM categories WHERE name = ? AND user_id = ?`, name, userID)
	return count > 0, err
}

// Update writes name and description, scoped by id and owner so a
// stranger's update attempt reads as not-found.
func (r *CategoryRepo) Update(ctx context.Context, category *model.Category) error {
	category.UpdatedAt = time.Now()

	result, err := r.conn.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		category.Name,
		category.Description,
		category.UpdatedAt,
		category.ID,
		category.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating category %s: %w", category.ID, err)
	}

	return checkAffected(result, "category", category.ID)
}

// Delete removes the category. Referencing flashcards keep their rows; the
// ON DELETE SET NULL clause on flashcards.category_id detaches them.
func (r *CategoryRepo) Delete(ctx context.Context, id, userID string) error {
	result, err := r.conn.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting category %s: %w", id, err)
	}

	return checkAffected(result, "category", id)
}

func (r *CategoryRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	return queryCount(ctx, r.conn,
		`SELECT COUNT(*) FROM categories WHERE user_id = ?`, userID)
}
