package types

// ListPostsParams are the raw listing query parameters. They stay strings so
// malformed values surface as field-level validation errors.
type ListPostsParams struct {
	Page       string   `form:"page"`
	Sort       string   `form:"sort"`
	Categories []string `form:"categories"`
	Status     string   `form:"status"`
	From       string   `form:"from"`
	To         string   `form:"to"`
}

type CreatePostRequest struct {
	Title       string `json:"title" binding:"required,max=128"`
	Content     string `json:"content" binding:"required"`
	CategoryIDs []uint `json:"categoryIds"`
}

type UpdatePostRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=128"`
	Content     *string `json:"content"`
	CategoryIDs *[]uint `json:"categoryIds"`
}

type ReactRequest struct {
	LikeType string `json:"likeType" binding:"required,oneof=like dislike"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}
