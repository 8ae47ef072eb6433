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

// compile-time check that *UserRepo implements repository.UserRepository
var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo persists users.
type UserRepo struct {
	conn *sql.DB
}

const userColumns = `id, username, email, password_hash, created_at, updated_at`

// Create inserts a new user. The ID and timestamps are generated here; the
// caller's struct is updated in place.
//
// The UNIQUE constraints on username and email are the last line of
// defence — the service layer checks for duplicates first so it can return
// a per-field conflict message.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating user %s: %w", user.Username, err)
	}

	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getUser(ctx, `id = ?`, id, apperror.NotFound("user", id))
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getUser(ctx, `username = ?`, username,
		apperror.NotFoundMessage(fmt.Sprintf("user not found: %s", username)))
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getUser(ctx, `email = ?`, email,
		apperror.NotFoundMessage(fmt.Sprintf("user not found with email: %s", email)))
}

// getUser runs a single-row lookup; notFound is returned as-is when no row
// matches, so each caller keeps its own message.
func (r *UserRepo) getUser(ctx context.Context, where, arg string, notFound error) (*model.User, error) {
	var u model.User

	err := r.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+where, arg,
	).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	return &u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}

func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	count, err := queryCount(ctx, r.conn, `SELECT COUNT(*) FROM users WHERE username = ?`, username)
	return count > 0, err
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	count, err := queryCount(ctx, r.conn, `SELECT COUNT(*) FROM users WHERE email = ?`, email)
	return count > 0, err
}

// Update persists username and email changes. Not-found is detected via
// RowsAffected, the same pattern every write in this package uses.
func (r *UserRepo) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()

	result, err := r.conn.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ?, updated_at = ? WHERE id = ?`,
		user.Username,
		user.Email,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}

	return checkAffected(result, "user", user.ID)
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result, err := r.conn.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash,
		time.Now(),
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating password for user %s: %w", id, err)
	}

	return checkAffected(result, "user", id)
}

// Delete removes the user and everything it owns in one transaction.
// Flashcards go first so no card is ever left pointing at a deleted
// category, then categories, then the user row itself.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM flashcards WHERE user_id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: deleting flashcards for user %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE user_id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: deleting categories for user %s: %w", id, err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}
	if err := checkAffected(result, "user", id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing user delete: %w", err)
	}

	return nil
}
