package services

import (
	"github.com/agora-forum/api-go/models"
	"gorm.io/gorm"
)

// VisiblePosts restricts a posts query to what caller may read: admins see
// everything, everyone else sees active posts plus their own.
func VisiblePosts(caller Caller) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case caller.IsAdmin():
			return db
		case caller.IsAnonymous():
			return db.Where("posts.status = ?", models.StatusActive)
		default:
			return db.Where("(posts.status = ? OR posts.author_id = ?)", models.StatusActive, caller.ID)
		}
	}
}

// VisibleComments additionally lets the author of the parent post see inactive comments under it.
func VisibleComments(caller Caller) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case caller.IsAdmin():
			return db
		case caller.IsAnonymous():
			return db.Where("comments.status = ?", models.StatusActive)
		default:
			return db.Where(
				"(comments.status = ? OR comments.author_id = ? OR EXISTS (SELECT 1 FROM posts WHERE posts.id = comments.post_id AND posts.author_id = ?))",
				models.StatusActive, caller.ID, caller.ID,
			)
		}
	}
}

func CanSeePost(caller Caller, post *models.Post) bool {
	return post.IsActive() || caller.CanModerate(post.AuthorID)
}

// CanSeeComment needs the author of the post the comment belongs to.
func CanSeeComment(caller Caller, comment *models.Comment, postAuthorID uint) bool {
	return comment.IsActive() || caller.CanModerate(comment.AuthorID) || caller.Owns(postAuthorID)
}
