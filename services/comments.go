package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agora-forum/api-go/models"
	"gorm.io/gorm"
)

// MaxReplyDepth bounds how many ancestors a reply may have.
const MaxReplyDepth = 32

type CommentService struct {
	db    *gorm.DB
	likes *LikeRegistry
	log   *slog.Logger
	now   func() time.Time
}

func NewCommentService(db *gorm.DB, likes *LikeRegistry, log *slog.Logger) *CommentService {
	return &CommentService{db: db, likes: likes, log: log, now: utcNow}
}

func (s *CommentService) postAuthor(tx *gorm.DB, postID uint) (uint, error) {
	var authors []uint
	if err := tx.Model(&models.Post{}).Where("id = ?", postID).Limit(1).Pluck("author_id", &authors).Error; err != nil {
		return 0, fmt.Errorf("failed to load post author: %w", err)
	}
	if len(authors) == 0 {
		return 0, nil
	}
	return authors[0], nil
}

func (s *CommentService) loadVisible(tx *gorm.DB, caller Caller, id uint) (*models.Comment, error) {
	if err := validateID("commentId", id); err != nil {
		return nil, err
	}

	var comment models.Comment
	if err := tx.Preload("Author").First(&comment, id).Error; err != nil {
		return nil, lookupErr(err, "comment", id)
	}
	postAuthorID, err := s.postAuthor(tx, comment.PostID)
	if err != nil {
		return nil, err
	}
	if !CanSeeComment(caller, &comment, postAuthorID) {
		return nil, notFound("comment", id)
	}
	return &comment, nil
}

func (s *CommentService) loadVisiblePost(tx *gorm.DB, caller Caller, postID uint) (*models.Post, error) {
	if err := validateID("postId", postID); err != nil {
		return nil, err
	}
	var post models.Post
	if err := tx.First(&post, postID).Error; err != nil {
		return nil, lookupErr(err, "post", postID)
	}
	if !CanSeePost(caller, &post) {
		return nil, notFound("post", postID)
	}
	return &post, nil
}

func (s *CommentService) GetComment(ctx context.Context, caller Caller, id uint) (*models.Comment, error) {
	return s.loadVisible(s.db.WithContext(ctx), caller, id)
}

func (s *CommentService) list(tx *gorm.DB, caller Caller) *gorm.DB {
	return VisibleComments(caller)(tx.Model(&models.Comment{})).
		Preload("Author").
		Order("comments.created_at ASC").
		Order("comments.id ASC")
}

// ListForPost returns the top-level comments of a post.
func (s *CommentService) ListForPost(ctx context.Context, caller Caller, postID uint) ([]models.Comment, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.loadVisiblePost(db, caller, postID); err != nil {
		return nil, err
	}

	comments := []models.Comment{}
	err := s.list(db, caller).
		Where("comments.post_id = ? AND comments.parent_id IS NULL", postID).
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (s *CommentService) Replies(ctx context.Context, caller Caller, id uint) ([]models.Comment, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.loadVisible(db, caller, id); err != nil {
		return nil, err
	}

	replies := []models.Comment{}
	if err := s.list(db, caller).Where("comments.parent_id = ?", id).Find(&replies).Error; err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	return replies, nil
}

func (s *CommentService) CreateComment(ctx context.Context, caller Caller, postID uint, content string) (*models.Comment, error) {
	if caller.IsAnonymous() {
		return nil, ErrUnauthorized
	}
	if err := validateContent(content); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if _, err := s.loadVisiblePost(db, caller, postID); err != nil {
		return nil, err
	}

	comment := models.Comment{
		Content:     content,
		AuthorID:    caller.ID,
		PostID:      postID,
		Publication: models.Publication{Status: models.StatusActive, PublishDate: s.now()},
	}
	if err := db.Omit("Author").Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.log.Info("comment created", "comment_id", comment.ID, "post_id", postID, "author_id", caller.ID)
	return s.loadVisible(db, caller, comment.ID)
}

// Reply attaches a new comment under parentID in the parent's post.
func (s *CommentService) Reply(ctx context.Context, caller Caller, parentID uint, content string) (*models.Comment, error) {
	if caller.IsAnonymous() {
		return nil, ErrUnauthorized
	}
	if err := validateContent(content); err != nil {
		return nil, err
	}

	var reply models.Comment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		parent, err := s.loadVisible(tx, caller, parentID)
		if err != nil {
			return err
		}
		if err := ensureAcyclic(tx, parent.ID); err != nil {
			return err
		}

		reply = models.Comment{
			Content:     content,
			AuthorID:    caller.ID,
			PostID:      parent.PostID,
			ParentID:    &parent.ID,
			Publication: models.Publication{Status: models.StatusActive, PublishDate: s.now()},
		}
		if err := tx.Omit("Author").Create(&reply).Error; err != nil {
			return fmt.Errorf("failed to create reply: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("reply created", "comment_id", reply.ID, "parent_id", parentID, "author_id", caller.ID)
	return s.loadVisible(s.db.WithContext(ctx), caller, reply.ID)
}

// ensureAcyclic walks the ancestors of parentID and rejects chains that loop
// or that a new reply would push past MaxReplyDepth.
func ensureAcyclic(tx *gorm.DB, parentID uint) error {
	seen := make(map[uint]bool)
	next := &parentID
	for depth := 0; next != nil; depth++ {
		if depth >= MaxReplyDepth {
			return invalid("parentId", "reply chain is too deep")
		}
		if seen[*next] {
			return invalid("parentId", "reply chain contains a cycle")
		}
		seen[*next] = true

		var row struct{ ParentID *uint }
		if err := tx.Model(&models.Comment{}).Select("parent_id").Where("id = ?", *next).Take(&row).Error; err != nil {
			return lookupErr(err, "comment", *next)
		}
		next = row.ParentID
	}
	return nil
}

// UpdateComment changes the content; author only. The parent link never changes.
func (s *CommentService) UpdateComment(ctx context.Context, caller Caller, id uint, content string) (*models.Comment, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	comment, err := s.loadVisible(db, caller, id)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(comment.AuthorID) {
		return nil, ErrNotEnoughRights
	}
	if err := db.Model(comment).Update("content", content).Error; err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	comment.Content = content
	return comment, nil
}

// DeleteComment removes the comment, its replies and every reaction on them.
func (s *CommentService) DeleteComment(ctx context.Context, caller Caller, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comment, err := s.loadVisible(tx, caller, id)
		if err != nil {
			return err
		}
		if !caller.CanModerate(comment.AuthorID) {
			return ErrNotEnoughRights
		}

		ids, err := subtree(tx, comment.ID)
		if err != nil {
			return err
		}
		if err := s.likes.PurgeTargets(tx, TargetComment, ids); err != nil {
			return err
		}
		if err := tx.Where("id IN ?", ids).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("comment deleted", "comment_id", id, "by", caller.ID)
	return nil
}

// subtree returns rootID and the ids of all its descendants.
func subtree(tx *gorm.DB, rootID uint) ([]uint, error) {
	ids := []uint{rootID}
	frontier := []uint{rootID}
	for len(frontier) > 0 {
		var children []uint
		if err := tx.Model(&models.Comment{}).Where("parent_id IN ?", frontier).Pluck("id", &children).Error; err != nil {
			return nil, fmt.Errorf("failed to load replies: %w", err)
		}
		ids = append(ids, children...)
		frontier = children
	}
	return ids, nil
}

func (s *CommentService) ToggleVisibility(ctx context.Context, caller Caller, id uint) (models.Status, error) {
	var status models.Status
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comment, err := s.loadVisible(tx, caller, id)
		if err != nil {
			return err
		}
		if !caller.CanModerate(comment.AuthorID) {
			return ErrNotEnoughRights
		}
		status, err = ToggleStatus(tx, comment, s.now())
		return err
	})
	if err != nil {
		return "", err
	}

	s.log.Info("comment visibility toggled", "comment_id", id, "status", status, "by", caller.ID)
	return status, nil
}

func (s *CommentService) Likes(ctx context.Context, caller Caller, id uint) ([]models.Like, error) {
	if _, err := s.loadVisible(s.db.WithContext(ctx), caller, id); err != nil {
		return nil, err
	}
	return s.likes.ListFor(ctx, CommentTarget(id))
}

func (s *CommentService) React(ctx context.Context, caller Caller, id uint, likeType models.LikeType) (uint, error) {
	if caller.IsAnonymous() {
		return 0, ErrUnauthorized
	}
	if err := validateLikeType(likeType); err != nil {
		return 0, err
	}
	if _, err := s.loadVisible(s.db.WithContext(ctx), caller, id); err != nil {
		return 0, err
	}
	return s.likes.React(ctx, CommentTarget(id), caller.ID, likeType)
}

func (s *CommentService) Unreact(ctx context.Context, caller Caller, id uint) error {
	if caller.IsAnonymous() {
		return ErrUnauthorized
	}
	if err := validateID("commentId", id); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Select("id").First(&models.Comment{}, id).Error; err != nil {
		return lookupErr(err, "comment", id)
	}
	return s.likes.Unreact(ctx, CommentTarget(id), caller.ID)
}
