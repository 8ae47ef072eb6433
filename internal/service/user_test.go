package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/saorim/flashcard-api/internal/apperror"
)

func TestUserUpdate(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	updated, err := env.users.UpdateByUsername(context.Background(), "alice", "alice2", "alice2@example.com")
	if err != nil {
		t.Fatalf("UpdateByUsername() error = %v", err)
	}
	if updated.Username != "alice2" || updated.Email != "alice2@example.com" {
		t.Errorf("UpdateByUsername() = %s/%s", updated.Username, updated.Email)
	}
}

// Re-submitting your own unchanged profile must not conflict with yourself.
func TestUserUpdate_Unchanged(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	if _, err := env.users.UpdateByUsername(context.Background(), "alice", "alice", "alice@example.com"); err != nil {
		t.Errorf("UpdateByUsername() with unchanged values error = %v", err)
	}
}

func TestUserUpdate_UsernameTaken(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")
	env.register(t, "bob", "bob@example.com")

	_, err := env.users.UpdateByUsername(context.Background(), "alice", "bob", "alice@example.com")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("UpdateByUsername() to taken username error = %v, want ErrConflict", err)
	}
}

func TestUserUpdate_EmailTaken(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")
	env.register(t, "bob", "bob@example.com")

	_, err := env.users.UpdateByUsername(context.Background(), "alice", "alice", "bob@example.com")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("UpdateByUsername() to taken email error = %v, want ErrConflict", err)
	}
}

func TestUserUpdatePassword(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	err := env.users.UpdatePasswordByUsername(context.Background(), "alice", "password123", "newpassword")
	if err != nil {
		t.Fatalf("UpdatePasswordByUsername() error = %v", err)
	}

	// Old password no longer works, the new one does.
	if _, err := env.auth.Login(context.Background(), "alice", "password123"); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("Login() with old password error = %v, want ErrUnauthorized", err)
	}
	if _, err := env.auth.Login(context.Background(), "alice", "newpassword"); err != nil {
		t.Errorf("Login() with new password error = %v", err)
	}
}

func TestUserUpdatePassword_WrongCurrent(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	err := env.users.UpdatePasswordByUsername(context.Background(), "alice", "wrongcurrent", "newpassword")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("UpdatePasswordByUsername() error = %v, want ErrUnauthorized", err)
	}
}

func TestUserUpdatePassword_TooShort(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	err := env.users.UpdatePasswordByUsername(context.Background(), "alice", "password123", "12345")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("UpdatePasswordByUsername() error = %v, want ErrValidation", err)
	}
}

func TestUserUpdatePassword_TooLong(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	long := strings.Repeat("a", 73)
	err := env.users.UpdatePasswordByUsername(context.Background(), "alice", "password123", long)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("UpdatePasswordByUsername() error = %v, want ErrValidation", err)
	}
}

func TestUserDelete(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")
	category := env.createCategory(t, "alice", "Go")
	env.createFlashcard(t, "alice", "q", "a", &category.ID)

	if err := env.users.DeleteByUsername(context.Background(), "alice"); err != nil {
		t.Fatalf("DeleteByUsername() error = %v", err)
	}

	if _, err := env.users.GetByUsername(context.Background(), "alice"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByUsername() after delete error = %v, want ErrNotFound", err)
	}

	// Login stops working immediately.
	if _, err := env.auth.Login(context.Background(), "alice", "password123"); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("Login() after delete error = %v, want ErrUnauthorized", err)
	}
}

func TestUserStats(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")
	env.register(t, "bob", "bob@example.com")

	category := env.createCategory(t, "alice", "Go")
	env.createCategory(t, "alice", "SQL")
	env.createFlashcard(t, "alice", "q1", "a1", &category.ID)
	env.createFlashcard(t, "alice", "q2", "a2", nil)
	env.createFlashcard(t, "alice", "q3", "a3", nil)
	env.createFlashcard(t, "bob", "other", "a", nil)

	stats, err := env.users.Stats(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if stats.Username != "alice" || stats.Email != "alice@example.com" {
		t.Errorf("Stats() identity = %s/%s", stats.Username, stats.Email)
	}
	if stats.CategoryCount != 2 {
		t.Errorf("CategoryCount = %d, want 2", stats.CategoryCount)
	}
	if stats.FlashcardCount != 3 {
		t.Errorf("FlashcardCount = %d, want 3", stats.FlashcardCount)
	}
}

func TestUserList(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")
	env.register(t, "bob", "bob@example.com")

	users, err := env.users.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 2 {
		t.Errorf("List() returned %d users, want 2", len(users))
	}
}
