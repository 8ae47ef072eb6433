package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/saorim/flashcard-api/internal/apperror"
	"github.com/saorim/flashcard-api/internal/auth"
	"github.com/saorim/flashcard-api/internal/model"
	"github.com/saorim/flashcard-api/internal/repository"
)

// UserService handles account management: lookups, profile updates,
// password changes, account deletion, and per-user statistics.
type UserService struct {
	users      repository.UserRepository
	categories repository.CategoryRepository
	flashcards repository.FlashcardRepository
	passwords  *auth.PasswordService
	logger     *slog.Logger
}

func NewUserService(
	users repository.UserRepository,
	categories repository.CategoryRepository,
	flashcards repository.FlashcardRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:      users,
		categories: categories,
		flashcards: flashcards,
		passwords:  passwords,
		logger:     logger,
	}
}

// UserStats summarizes an account for GET /api/users/stats.
type UserStats struct {
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	CategoryCount  int64  `json:"totalCategories"`
	FlashcardCount int64  `json:"totalFlashcards"`
}

func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.users.GetByUsername(ctx, username)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.users.GetByEmail(ctx, email)
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// Create registers a user directly (signup goes through AuthService;
// this is the administrative path). The password is hashed before persist.
func (s *UserService) Create(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if taken, err := s.users.ExistsByUsername(ctx, username); err != nil {
		return nil, fmt.Errorf("service/user: checking username: %w", err)
	} else if taken {
		return nil, apperror.Conflict("username", "username is already in use")
	}
	if taken, err := s.users.ExistsByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("service/user: checking email: %w", err)
	} else if taken {
		return nil, apperror.Conflict("email", "email is already in use")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/user: hashing password: %w", err)
	}

	user := &model.User{Username: username, Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/user: creating user: %w", err)
	}

	return user, nil
}

// Update changes username and/or email. The duplicate check only fires
// when the value actually changed — re-submitting your own profile
// unchanged must not conflict with yourself.
func (s *UserService) Update(ctx context.Context, id, username, email string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username != user.Username {
		if taken, err := s.users.ExistsByUsername(ctx, username); err != nil {
			return nil, fmt.Errorf("service/user: checking username: %w", err)
		} else if taken {
			return nil, apperror.Conflict("username", "username is already in use")
		}
	}
	if email != user.Email {
		if taken, err := s.users.ExistsByEmail(ctx, email); err != nil {
			return nil, fmt.Errorf("service/user: checking email: %w", err)
		} else if taken {
			return nil, apperror.Conflict("email", "email is already in use")
		}
	}

	user.Username = username
	user.Email = email

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("service/user: updating user %s: %w", id, err)
	}

	s.logger.Info("user updated", slog.String("userID", user.ID))

	return user, nil
}

// UpdateByUsername resolves the authenticated principal to an id and
// delegates to Update.
func (s *UserService) UpdateByUsername(ctx context.Context, currentUsername, username, email string) (*model.User, error) {
	user, err := s.users.GetByUsername(ctx, currentUsername)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, user.ID, username, email)
}

// UpdatePassword verifies the current password before accepting the new
// one. New passwords follow the signup rules: at least 6 characters and
// at most 72 bytes.
func (s *UserService) UpdatePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.passwords.Verify(user.PasswordHash, currentPassword); err != nil {
		return apperror.Unauthorized("current password is incorrect")
	}

	if len(newPassword) < 6 {
		return apperror.ValidationFailed("newPassword", "new password must be at least 6 characters")
	}
	if len(newPassword) > 72 {
		return apperror.ValidationFailed("newPassword", "new password must be at most 72 bytes")
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("service/user: hashing new password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("service/user: updating password: %w", err)
	}

	s.logger.Info("password updated", slog.String("userID", id))

	return nil
}

// UpdatePasswordByUsername is the API-facing variant: the authenticated
// principal is a username, not an id.
func (s *UserService) UpdatePasswordByUsername(ctx context.Context, username, currentPassword, newPassword string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.UpdatePassword(ctx, user.ID, currentPassword, newPassword)
}

// Delete removes the account and all its data. The repository runs the
// cascade (flashcards, categories, user) in a single transaction.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted", slog.String("userID", id))

	return nil
}

func (s *UserService) DeleteByUsername(ctx context.Context, username string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.Delete(ctx, user.ID)
}

// Stats returns per-account counts for the stats endpoint.
func (s *UserService) Stats(ctx context.Context, username string) (*UserStats, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	categoryCount, err := s.categories.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/user: counting categories: %w", err)
	}

	flashcardCount, err := s.flashcards.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/user: counting flashcards: %w", err)
	}

	return &UserStats{
		UserID:         user.ID,
		Username:       user.Username,
		Email:          user.Email,
		CategoryCount:  categoryCount,
		FlashcardCount: flashcardCount,
	}, nil
}
