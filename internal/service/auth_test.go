package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/saorim/flashcard-api/internal/apperror"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	msg, err := env.auth.Register(context.Background(), "alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if msg != "user registered successfully" {
		t.Errorf("Register() message = %q", msg)
	}

	user, err := env.users.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByUsername() after register error = %v", err)
	}
	if user.PasswordHash == "password123" {
		t.Error("password must be stored hashed, not in plaintext")
	}
}

func TestRegister_NormalizesInput(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.auth.Register(context.Background(), "  alice  ", "  ALICE@Example.COM  ", "password123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, err := env.users.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Email = %q, want lowercased and trimmed", user.Email)
	}
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"short username", "al", "alice@example.com", "password123"},
		{"whitespace-only username", "   ", "alice@example.com", "password123"},
		{"email without at sign", "alice", "alice.example.com", "password123"},
		{"empty email", "alice", "", "password123"},
		{"short password", "alice", "alice@example.com", "12345"},
		{"empty password", "alice", "alice@example.com", ""},
		{"password over bcrypt's 72-byte limit", "alice", "alice@example.com", strings.Repeat("a", 73)},
		{"multibyte password over 72 bytes", "alice", "alice@example.com", strings.Repeat("é", 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(context.Background(), tt.username, tt.email, tt.password)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Register() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	_, err := env.auth.Register(context.Background(), "alice", "other@example.com", "password123")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Register() error = %v, want ErrConflict", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	_, err := env.auth.Register(context.Background(), "bob", "alice@example.com", "password123")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Register() error = %v, want ErrConflict", err)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	result, err := env.auth.Login(context.Background(), "alice", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if result.Token == "" {
		t.Error("Login() returned an empty token")
	}
	if result.Username != "alice" || result.Email != "alice@example.com" {
		t.Errorf("Login() identity = %s/%s", result.Username, result.Email)
	}
	if result.UserID == "" {
		t.Error("Login() returned an empty user id")
	}

	// The token round-trips back to the username.
	username, err := env.auth.UsernameFromToken(result.Token)
	if err != nil {
		t.Fatalf("UsernameFromToken() error = %v", err)
	}
	if username != "alice" {
		t.Errorf("UsernameFromToken() = %q, want %q", username, "alice")
	}
}

// Unknown user and wrong password must be indistinguishable.
func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	_, errUnknown := env.auth.Login(context.Background(), "nobody", "password123")
	_, errWrongPw := env.auth.Login(context.Background(), "alice", "wrongpassword")

	for _, err := range []error{errUnknown, errWrongPw} {
		if !errors.Is(err, apperror.ErrUnauthorized) {
			t.Errorf("Login() error = %v, want ErrUnauthorized", err)
		}
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Errorf("unknown user (%q) and wrong password (%q) must produce the same message",
			errUnknown.Error(), errWrongPw.Error())
	}
}

func TestValidateToken(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	result, err := env.auth.Login(context.Background(), "alice", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if !env.auth.ValidateToken(result.Token) {
		t.Error("ValidateToken() = false for a freshly issued token")
	}
	if env.auth.ValidateToken("garbage") {
		t.Error("ValidateToken() = true for garbage")
	}
}
