package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agora-forum/api-go/models"
	"gorm.io/gorm"
)

type PostService struct {
	db    *gorm.DB
	likes *LikeRegistry
	log   *slog.Logger
	now   func() time.Time
}

func NewPostService(db *gorm.DB, likes *LikeRegistry, log *slog.Logger) *PostService {
	return &PostService{db: db, likes: likes, log: log, now: utcNow}
}

func utcNow() time.Time {
	return time.Now().UTC()
}

type CreatePostInput struct {
	Title       string
	Content     string
	CategoryIDs []uint
}

// UpdatePostInput leaves nil fields untouched.
type UpdatePostInput struct {
	Title       *string
	Content     *string
	CategoryIDs *[]uint
}

func (s *PostService) load(tx *gorm.DB, id uint) (*models.Post, error) {
	var post models.Post
	if err := tx.First(&post, id).Error; err != nil {
		return nil, lookupErr(err, "post", id)
	}
	return &post, nil
}

// loadVisible reports posts the caller may not see as missing.
func (s *PostService) loadVisible(tx *gorm.DB, caller Caller, id uint) (*models.Post, error) {
	if err := validateID("postId", id); err != nil {
		return nil, err
	}
	post, err := s.load(tx, id)
	if err != nil {
		return nil, err
	}
	if !CanSeePost(caller, post) {
		return nil, notFound("post", id)
	}
	return post, nil
}

func (s *PostService) loadCategories(tx *gorm.DB, ids []uint) ([]models.Category, error) {
	ids = uniqueIDs(ids)
	for _, id := range ids {
		if err := validateID("categoryIds", id); err != nil {
			return nil, err
		}
	}
	if len(ids) == 0 {
		return []models.Category{}, nil
	}

	var categories []models.Category
	if err := tx.Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	if len(categories) != len(ids) {
		found := make(map[uint]bool, len(categories))
		for _, c := range categories {
			found[c.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				return nil, notFound("category", id)
			}
		}
	}
	return categories, nil
}

func (s *PostService) GetPost(ctx context.Context, caller Caller, id uint) (*models.Post, error) {
	if err := validateID("postId", id); err != nil {
		return nil, err
	}

	var post models.Post
	if err := s.db.WithContext(ctx).Preload("Author").Preload("Categories").First(&post, id).Error; err != nil {
		return nil, lookupErr(err, "post", id)
	}
	if !CanSeePost(caller, &post) {
		return nil, notFound("post", id)
	}
	return &post, nil
}

func (s *PostService) CreatePost(ctx context.Context, caller Caller, in CreatePostInput) (*models.Post, error) {
	if caller.IsAnonymous() {
		return nil, ErrUnauthorized
	}
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validateContent(in.Content); err != nil {
		return nil, err
	}

	var post models.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories, err := s.loadCategories(tx, in.CategoryIDs)
		if err != nil {
			return err
		}

		post = models.Post{
			Title:       in.Title,
			Content:     in.Content,
			AuthorID:    caller.ID,
			Publication: models.Publication{Status: models.StatusActive, PublishDate: s.now()},
			Categories:  categories,
		}
		if err := tx.Omit("Author", "Categories.*").Create(&post).Error; err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("post created", "post_id", post.ID, "author_id", caller.ID)
	return s.GetPost(ctx, caller, post.ID)
}

// UpdatePost is restricted to the author.
func (s *PostService) UpdatePost(ctx context.Context, caller Caller, id uint, in UpdatePostInput) (*models.Post, error) {
	if in.Title != nil {
		if err := validateTitle(*in.Title); err != nil {
			return nil, err
		}
	}
	if in.Content != nil {
		if err := validateContent(*in.Content); err != nil {
			return nil, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := s.loadVisible(tx, caller, id)
		if err != nil {
			return err
		}
		if !caller.Owns(post.AuthorID) {
			return ErrNotEnoughRights
		}

		updates := map[string]interface{}{}
		if in.Title != nil {
			updates["title"] = *in.Title
		}
		if in.Content != nil {
			updates["content"] = *in.Content
		}
		if len(updates) > 0 {
			if err := tx.Model(post).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update post: %w", err)
			}
		}

		if in.CategoryIDs != nil {
			categories, err := s.loadCategories(tx, *in.CategoryIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(post).Association("Categories").Replace(categories); err != nil {
				return fmt.Errorf("failed to update post categories: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetPost(ctx, caller, id)
}

// DeletePost removes a post with its comments and reactions; owner or admin only.
func (s *PostService) DeletePost(ctx context.Context, caller Caller, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := s.loadVisible(tx, caller, id)
		if err != nil {
			return err
		}
		if !caller.CanModerate(post.AuthorID) {
			return ErrNotEnoughRights
		}

		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).Where("post_id = ?", id).Pluck("id", &commentIDs).Error; err != nil {
			return fmt.Errorf("failed to load post comments: %w", err)
		}
		if err := s.likes.PurgeTargets(tx, TargetComment, commentIDs); err != nil {
			return err
		}
		if err := s.likes.PurgeTargets(tx, TargetPost, []uint{id}); err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("id IN ?", commentIDs).Delete(&models.Comment{}).Error; err != nil {
				return fmt.Errorf("failed to delete comments: %w", err)
			}
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostCategory{}).Error; err != nil {
			return fmt.Errorf("failed to unlink categories: %w", err)
		}
		if err := tx.Delete(post).Error; err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("post deleted", "post_id", id, "by", caller.ID)
	return nil
}

// ToggleVisibility flips a post between active and inactive; owner or admin only.
func (s *PostService) ToggleVisibility(ctx context.Context, caller Caller, id uint) (models.Status, error) {
	var status models.Status
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := s.loadVisible(tx, caller, id)
		if err != nil {
			return err
		}
		if !caller.CanModerate(post.AuthorID) {
			return ErrNotEnoughRights
		}
		status, err = ToggleStatus(tx, post, s.now())
		return err
	})
	if err != nil {
		return "", err
	}

	s.log.Info("post visibility toggled", "post_id", id, "status", status, "by", caller.ID)
	return status, nil
}

func (s *PostService) PostCategories(ctx context.Context, caller Caller, id uint) ([]models.Category, error) {
	db := s.db.WithContext(ctx)
	post, err := s.loadVisible(db, caller, id)
	if err != nil {
		return nil, err
	}

	var categories []models.Category
	if err := db.Model(post).Order("categories.id").Association("Categories").Find(&categories); err != nil {
		return nil, fmt.Errorf("failed to load post categories: %w", err)
	}
	return categories, nil
}

func (s *PostService) Likes(ctx context.Context, caller Caller, id uint) ([]models.Like, error) {
	if _, err := s.loadVisible(s.db.WithContext(ctx), caller, id); err != nil {
		return nil, err
	}
	return s.likes.ListFor(ctx, PostTarget(id))
}

func (s *PostService) React(ctx context.Context, caller Caller, id uint, likeType models.LikeType) (uint, error) {
	if caller.IsAnonymous() {
		return 0, ErrUnauthorized
	}
	if err := validateLikeType(likeType); err != nil {
		return 0, err
	}
	if _, err := s.loadVisible(s.db.WithContext(ctx), caller, id); err != nil {
		return 0, err
	}
	return s.likes.React(ctx, PostTarget(id), caller.ID, likeType)
}

func (s *PostService) Unreact(ctx context.Context, caller Caller, id uint) error {
	if caller.IsAnonymous() {
		return ErrUnauthorized
	}
	// A reaction can be withdrawn after the post was hidden, so only existence is checked.
	if err := validateID("postId", id); err != nil {
		return err
	}
	if _, err := s.load(s.db.WithContext(ctx), id); err != nil {
		return err
	}
	return s.likes.Unreact(ctx, PostTarget(id), caller.ID)
}

