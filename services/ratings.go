package services

import (
	"fmt"
	"log/slog"

	"github.com/agora-forum/api-go/models"
	"gorm.io/gorm"
)

type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

func (k TargetKind) table() string {
	if k == TargetComment {
		return "comments"
	}
	return "posts"
}

// column is the likes column referencing this kind of target.
func (k TargetKind) column() string {
	if k == TargetComment {
		return "comment_id"
	}
	return "post_id"
}

// Target identifies the single post or comment a reaction points at.
type Target struct {
	Kind TargetKind
	ID   uint
}

func PostTarget(id uint) Target {
	return Target{Kind: TargetPost, ID: id}
}

func CommentTarget(id uint) Target {
	return Target{Kind: TargetComment, ID: id}
}

func (t Target) validate() error {
	if t.Kind != TargetPost && t.Kind != TargetComment {
		return invalid("target", "must be a post or a comment")
	}
	return validateID(string(t.Kind)+"Id", t.ID)
}

// bind sets exactly one target reference on like.
func (t Target) bind(like *models.Like) {
	id := t.ID
	if t.Kind == TargetComment {
		like.PostID, like.CommentID = nil, &id
	} else {
		like.PostID, like.CommentID = &id, nil
	}
}

// RatingLedger keeps users.rating equal to likes minus dislikes on their content.
type RatingLedger struct {
	log *slog.Logger
}

func NewRatingLedger(log *slog.Logger) *RatingLedger {
	return &RatingLedger{log: log}
}

// ApplyDelta adds delta to the owner's rating in place. A missing owner is a no-op.
func (l *RatingLedger) ApplyDelta(tx *gorm.DB, ownerID uint, delta int) error {
	if ownerID == 0 || delta == 0 {
		return nil
	}

	res := tx.Model(&models.User{}).
		Where("id = ?", ownerID).
		UpdateColumn("rating", gorm.Expr("rating + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("failed to apply rating delta: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		l.log.Debug("rating owner not found, delta skipped", "owner_id", ownerID, "delta", delta)
	}
	return nil
}

// OwnerOf resolves the author of target. ok is false when the target is gone.
func (l *RatingLedger) OwnerOf(tx *gorm.DB, target Target) (ownerID uint, ok bool, err error) {
	var owners []uint
	err = tx.Table(target.Kind.table()).
		Where("id = ?", target.ID).
		Limit(1).
		Pluck("author_id", &owners).Error
	if err != nil {
		return 0, false, fmt.Errorf("failed to resolve %s owner: %w", target.Kind, err)
	}
	if len(owners) == 0 {
		return 0, false, nil
	}
	return owners[0], true, nil
}

// Apply resolves the owner of target and applies delta, skipping unresolvable targets.
func (l *RatingLedger) Apply(tx *gorm.DB, target Target, delta int) error {
	ownerID, ok, err := l.OwnerOf(tx, target)
	if err != nil {
		return err
	}
	if !ok {
		l.log.Debug("rating target not found, delta skipped", "kind", target.Kind, "id", target.ID, "delta", delta)
		return nil
	}
	return l.ApplyDelta(tx, ownerID, delta)
}
