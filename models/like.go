package models

import (
	"time"
)

type LikeType string

const (
	LikeTypeLike    LikeType = "like"
	LikeTypeDislike LikeType = "dislike"
)

func (t LikeType) Valid() bool {
	return t == LikeTypeLike || t == LikeTypeDislike
}

// RatingDelta is the contribution of one reaction of this type to the target owner's rating.
func (t LikeType) RatingDelta() int {
	if t == LikeTypeLike {
		return 1
	}
	return -1
}

// Like is a reaction of one author to exactly one post or one comment.
type Like struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Type      LikeType  `gorm:"not null;size:16" json:"type"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_likes_author_post;uniqueIndex:idx_likes_author_comment" json:"authorId"`
	Author    Author    `gorm:"foreignKey:AuthorID" json:"author"`
	PostID    *uint     `gorm:"uniqueIndex:idx_likes_author_post;index" json:"postId,omitempty"`
	CommentID *uint     `gorm:"uniqueIndex:idx_likes_author_comment;index;check:likes_single_target,(post_id IS NULL) <> (comment_id IS NULL)" json:"commentId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
