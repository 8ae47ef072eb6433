// Package service contains the business logic layer: it validates input,
// enforces ownership and uniqueness rules, and translates persistence
// outcomes into domain errors. Services know nothing about HTTP; handlers
// know nothing about SQL.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/saorim/flashcard-api/internal/apperror"
	"github.com/saorim/flashcard-api/internal/auth"
	"github.com/saorim/flashcard-api/internal/model"
	"github.com/saorim/flashcard-api/internal/repository"
)

// AuthService handles signup, login, and token inspection.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	validate  *validator.Validate
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		validate:  validator.New(),
		logger:    logger,
	}
}

// LoginResult is what a successful login returns: the token plus the
// identity fields the client needs without a second round trip.
type LoginResult struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Login verifies the credentials and issues a signed token with the
// username as subject.
//
// Unknown username and wrong password both come back as the same
// "invalid credentials" error — a different message for each would tell an
// attacker which usernames exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	invalid := apperror.Unauthorized("invalid credentials")

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, invalid
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, invalid
	}

	token, err := s.tokens.Generate(user.Username)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for %s: %w", user.Username, err)
	}

	s.logger.Info("user logged in", slog.String("username", user.Username))

	return &LoginResult{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

// signupInput carries the registration rules as validator tags: username at
// least 3 characters, email must contain an "@", password at least 6.
type signupInput struct {
	Username string `validate:"required,min=3"`
	Email    string `validate:"required,contains=@"`
	Password string `validate:"required,min=6"`
}

// Register creates a new account and returns a confirmation message.
// Username is stored trimmed, email lowercased and trimmed, the password
// only as a bcrypt hash.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (string, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	in := signupInput{Username: username, Email: email, Password: password}
	if err := s.validate.Struct(in); err != nil {
		return "", signupValidationError(err)
	}
	// bcrypt rejects inputs over 72 bytes; a rune-counting max tag would
	// miss multibyte passwords, so the bound is checked in bytes here.
	if len(password) > 72 {
		return "", apperror.ValidationFailed("password", "password must be at most 72 bytes")
	}

	if taken, err := s.users.ExistsByUsername(ctx, username); err != nil {
		return "", fmt.Errorf("service/auth: checking username: %w", err)
	} else if taken {
		return "", apperror.Conflict("username", "username is already in use")
	}

	if taken, err := s.users.ExistsByEmail(ctx, email); err != nil {
		return "", fmt.Errorf("service/auth: checking email: %w", err)
	} else if taken {
		return "", apperror.Conflict("email", "email is already in use")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return "", fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", fmt.Errorf("service/auth: creating user %s: %w", username, err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return "user registered successfully", nil
}

// ValidateToken reports whether the token is currently valid. Used where
// only a yes/no is needed; the middleware uses UsernameFromToken instead.
func (s *AuthService) ValidateToken(token string) bool {
	_, err := s.tokens.Validate(token)
	return err == nil
}

// UsernameFromToken extracts the subject username from a valid token.
func (s *AuthService) UsernameFromToken(token string) (string, error) {
	username, err := s.tokens.Validate(token)
	if err != nil {
		return "", fmt.Errorf("service/auth: %w", err)
	}
	return username, nil
}

// signupValidationError maps the first validator failure onto the field's
// user-facing message.
func signupValidationError(err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return apperror.ValidationFailed("", "invalid signup request")
	}

	switch errs[0].Field() {
	case "Username":
		return apperror.ValidationFailed("username", "username must be at least 3 characters")
	case "Email":
		return apperror.ValidationFailed("email", "email must be valid")
	case "Password":
		return apperror.ValidationFailed("password", "password must be at least 6 characters")
	}
	return apperror.ValidationFailed("", "invalid signup request")
}
