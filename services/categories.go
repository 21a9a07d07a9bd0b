package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agora-forum/api-go/models"
	"gorm.io/gorm"
)

type CategoryService struct {
	db    *gorm.DB
	posts *PostService
	log   *slog.Logger
}

func NewCategoryService(db *gorm.DB, posts *PostService, log *slog.Logger) *CategoryService {
	return &CategoryService{db: db, posts: posts, log: log}
}

type CategoryInput struct {
	Title       string
	Description string
}

type UpdateCategoryInput struct {
	Title       *string
	Description *string
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := s.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	if err := validateID("categoryId", id); err != nil {
		return nil, err
	}
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, lookupErr(err, "category", id)
	}
	return &category, nil
}

func (s *CategoryService) titleTaken(tx *gorm.DB, title string, exceptID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.Category{}).Where("title = ? AND id <> ?", title, exceptID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check category title: %w", err)
	}
	return count > 0, nil
}

func uniqueErr(err error, what string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", what, ErrMustBeUnique)
	}
	return err
}

func (s *CategoryService) Create(ctx context.Context, caller Caller, in CategoryInput) (*models.Category, error) {
	if !caller.IsAdmin() {
		return nil, ErrNotEnoughRights
	}
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}

	category := models.Category{Title: in.Title, Description: in.Description}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := s.titleTaken(tx, in.Title, 0)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("category title %q: %w", in.Title, ErrMustBeUnique)
		}
		if err := tx.Create(&category).Error; err != nil {
			return uniqueErr(fmt.Errorf("failed to create category: %w", err), "category title")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("category created", "category_id", category.ID, "by", caller.ID)
	return &category, nil
}

func (s *CategoryService) Update(ctx context.Context, caller Caller, id uint, in UpdateCategoryInput) (*models.Category, error) {
	if !caller.IsAdmin() {
		return nil, ErrNotEnoughRights
	}
	if in.Title != nil {
		if err := validateTitle(*in.Title); err != nil {
			return nil, err
		}
	}

	var category models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := validateID("categoryId", id); err != nil {
			return err
		}
		if err := tx.First(&category, id).Error; err != nil {
			return lookupErr(err, "category", id)
		}

		updates := map[string]interface{}{}
		if in.Title != nil {
			taken, err := s.titleTaken(tx, *in.Title, id)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("category title %q: %w", *in.Title, ErrMustBeUnique)
			}
			updates["title"] = *in.Title
		}
		if in.Description != nil {
			updates["description"] = *in.Description
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&category).Updates(updates).Error; err != nil {
			return uniqueErr(fmt.Errorf("failed to update category: %w", err), "category title")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) Delete(ctx context.Context, caller Caller, id uint) error {
	if !caller.IsAdmin() {
		return ErrNotEnoughRights
	}
	if err := validateID("categoryId", id); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete category: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound("category", id)
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.PostCategory{}).Error; err != nil {
			return fmt.Errorf("failed to unlink posts: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("category deleted", "category_id", id, "by", caller.ID)
	return nil
}

// Posts lists the posts of one category with the regular listing rules.
func (s *CategoryService) Posts(ctx context.Context, caller Caller, id uint, q ListPostsQuery) (*PostPage, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	q.CategoryIDs = []uint{id}
	return s.posts.ListPosts(ctx, caller, q)
}

// EnsureDefaults creates the given categories when no category with the same title exists.
func (s *CategoryService) EnsureDefaults(ctx context.Context, defaults []CategoryInput) error {
	db := s.db.WithContext(ctx)
	for _, in := range defaults {
		category := models.Category{Title: in.Title, Description: in.Description}
		if err := db.Where(models.Category{Title: in.Title}).FirstOrCreate(&category).Error; err != nil {
			return fmt.Errorf("failed to seed category %q: %w", in.Title, err)
		}
	}
	return nil
}
