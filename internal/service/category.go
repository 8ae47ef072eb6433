package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/saorim/flashcard-api/internal/apperror"
	"github.com/saorim/flashcard-api/internal/model"
	"github.com/saorim/flashcard-api/internal/repository"
)

// CategoryService handles the owner-scoped category CRUD.
//
// Every operation starts by resolving the acting user from the
// authenticated username, then scopes all reads and writes by
// (id, ownerID). A category that belongs to a different user produces the
// same NotFound as one that doesn't exist.
type CategoryService struct {
	categories repository.CategoryRepository
	users      repository.UserRepository
	logger     *slog.Logger
}

func NewCategoryService(
	categories repository.CategoryRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *CategoryService {
	return &CategoryService{
		categories: categories,
		users:      users,
		logger:     logger,
	}
}

// Create adds a category for the authenticated user. The owner is always
// the resolved user — anything the caller supplies as ownership is ignored.
// Names are unique per owner.
func (s *CategoryService) Create(ctx context.Context, username, name, description string) (*model.Category, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "category name is required")
	}

	if taken, err := s.categories.ExistsByNameAndUser(ctx, name, user.ID); err != nil {
		return nil, fmt.Errorf("service/category: checking name: %w", err)
	} else if taken {
		return nil, apperror.Conflict("name", "a category with this name already exists")
	}

	category := &model.Category{
		Name:        name,
		Description: strings.TrimSpace(description),
		UserID:      user.ID,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("service/category: creating category: %w", err)
	}

	s.logger.Info("category created",
		slog.String("id", category.ID),
		slog.String("userID", user.ID),
	)

	return category, nil
}

func (s *CategoryService) List(ctx context.Context, username string) ([]model.Category, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.categories.ListByUser(ctx, user.ID)
}

func (s *CategoryService) Get(ctx context.Context, id, username string) (*model.Category, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.categories.GetByIDAndUser(ctx, id, user.ID)
}

// Update changes name and description. When the name changes it must not
// collide with another of the owner's categories.
func (s *CategoryService) Update(ctx context.Context, id, username, name, description string) (*model.Category, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	category, err := s.categories.GetByIDAndUser(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "category name is required")
	}

	if name != category.Name {
		if taken, err := s.categories.ExistsByNameAndUser(ctx, name, user.ID); err != nil {
			return nil, fmt.Errorf("service/category: checking name: %w", err)
		} else if taken {
			return nil, apperror.Conflict("name", "a category with this name already exists")
		}
	}

	category.Name = name
	category.Description = strings.TrimSpace(description)

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("service/category: updating category %s: %w", id, err)
	}

	return category, nil
}

// Delete removes the category; its flashcards become uncategorized (the
// schema nulls their category reference).
func (s *CategoryService) Delete(ctx context.Context, id, username string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := s.categories.Delete(ctx, id, user.ID); err != nil {
		return err
	}

	s.logger.Info("category deleted",
		slog.String("id", id),
		slog.String("userID", user.ID),
	)

	return nil
}
