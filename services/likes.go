package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agora-forum/api-go/models"
	"gorm.io/gorm"
)

// LikeRegistry enforces one reaction per author and target and is the only
// place that creates, flips or removes reactions.
type LikeRegistry struct {
	db     *gorm.DB
	ledger *RatingLedger
	log    *slog.Logger
}

func NewLikeRegistry(db *gorm.DB, ledger *RatingLedger, log *slog.Logger) *LikeRegistry {
	return &LikeRegistry{db: db, ledger: ledger, log: log}
}

func findLike(tx *gorm.DB, target Target, authorID uint) (*models.Like, error) {
	var like models.Like
	err := tx.Where(map[string]interface{}{
		target.Kind.column(): target.ID,
		"author_id":          authorID,
	}).First(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

// React records a like or dislike by authorID on target and returns the reaction id.
// Repeating the same reaction is a no-op; a different type flips the existing row.
func (r *LikeRegistry) React(ctx context.Context, target Target, authorID uint, likeType models.LikeType) (uint, error) {
	if err := target.validate(); err != nil {
		return 0, err
	}
	if err := validateID("authorId", authorID); err != nil {
		return 0, err
	}
	if err := validateLikeType(likeType); err != nil {
		return 0, err
	}

	var likeID uint
	react := func(tx *gorm.DB) error {
		ownerID, ok, err := r.ledger.OwnerOf(tx, target)
		if err != nil {
			return err
		}
		if !ok {
			return notFound(string(target.Kind), target.ID)
		}

		existing, err := findLike(tx, target, authorID)
		switch {
		case err == nil:
			likeID = existing.ID
			if existing.Type == likeType {
				return nil
			}
			if err := r.ledger.ApplyDelta(tx, ownerID, -existing.Type.RatingDelta()); err != nil {
				return err
			}
			if err := tx.Model(existing).Update("type", likeType).Error; err != nil {
				return fmt.Errorf("failed to update like: %w", err)
			}
			return r.ledger.ApplyDelta(tx, ownerID, likeType.RatingDelta())
		case errors.Is(err, gorm.ErrRecordNotFound):
			like := models.Like{Type: likeType, AuthorID: authorID}
			target.bind(&like)
			if err := tx.Create(&like).Error; err != nil {
				return fmt.Errorf("failed to create like: %w", err)
			}
			likeID = like.ID
			return r.ledger.ApplyDelta(tx, ownerID, likeType.RatingDelta())
		default:
			return fmt.Errorf("failed to look up like: %w", err)
		}
	}

	db := r.db.WithContext(ctx)
	err := db.Transaction(react)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent insert by the same author won; the retry sees its row.
		r.log.Debug("like insert raced, retrying", "kind", target.Kind, "id", target.ID, "author_id", authorID)
		err = db.Transaction(react)
	}
	if err != nil {
		return 0, err
	}
	return likeID, nil
}

// Unreact removes the author's reaction on target and reverses its rating contribution once.
func (r *LikeRegistry) Unreact(ctx context.Context, target Target, authorID uint) error {
	if err := target.validate(); err != nil {
		return err
	}
	if err := validateID("authorId", authorID); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like, err := findLike(tx, target, authorID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("like on %s %d: %w", target.Kind, target.ID, ErrRecordNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to look up like: %w", err)
		}

		res := tx.Delete(like)
		if res.Error != nil {
			return fmt.Errorf("failed to delete like: %w", res.Error)
		}
		if res.RowsAffected != 1 {
			return nil
		}
		return r.ledger.Apply(tx, target, -like.Type.RatingDelta())
	})
}

// PurgeTargets deletes every reaction on the given posts or comments and
// reverses their net contribution per owner. It runs inside the caller's transaction.
func (r *LikeRegistry) PurgeTargets(tx *gorm.DB, kind TargetKind, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	var contributions []struct {
		OwnerID uint
		Delta   int
	}
	err := tx.Table("likes").
		Select("t.author_id AS owner_id, SUM(CASE WHEN likes.type = ? THEN 1 ELSE -1 END) AS delta", models.LikeTypeLike).
		Joins(fmt.Sprintf("JOIN %s t ON t.id = likes.%s", kind.table(), kind.column())).
		Where(fmt.Sprintf("likes.%s IN ?", kind.column()), ids).
		Group("t.author_id").
		Scan(&contributions).Error
	if err != nil {
		return fmt.Errorf("failed to sum reactions: %w", err)
	}

	for _, c := range contributions {
		if err := r.ledger.ApplyDelta(tx, c.OwnerID, -c.Delta); err != nil {
			return err
		}
	}

	if err := tx.Where(fmt.Sprintf("%s IN ?", kind.column()), ids).Delete(&models.Like{}).Error; err != nil {
		return fmt.Errorf("failed to delete reactions: %w", err)
	}
	return nil
}

// ListFor returns the reactions on target, newest first, with their authors.
func (r *LikeRegistry) ListFor(ctx context.Context, target Target) ([]models.Like, error) {
	var likes []models.Like
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where(map[string]interface{}{target.Kind.column(): target.ID}).
		Order("created_at DESC").
		Order("id DESC").
		Find(&likes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list likes: %w", err)
	}
	return likes, nil
}
