package controllers

import (
	"net/http"

	"github.com/agora-forum/api-go/services"
	"github.com/agora-forum/api-go/types"
	"github.com/gin-gonic/gin"
)

type PostController struct {
	*ErrorReporter
	Posts    *services.PostService
	Comments *services.CommentService
}

func NewPostController(posts *services.PostService, comments *services.CommentService, reporter *ErrorReporter) *PostController {
	return &PostController{ErrorReporter: reporter, Posts: posts, Comments: comments}
}

// CreatePost godoc
// @Summary Create a new post
// @Tags posts
// @Accept json
// @Produce json
// @Param post body types.CreatePostRequest true "Post creation request"
// @Success 201 {object} models.Post
// @Router /posts [post]
func (pc *PostController) CreatePost(c *gin.Context) {
	var req types.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	post, err := pc.Posts.CreatePost(c.Request.Context(), callerOf(c), services.CreatePostInput{
		Title:       req.Title,
		Content:     req.Content,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		pc.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// GetPost godoc
// @Summary Get a post with its author and categories
// @Tags posts
// @Produce json
// @Param id path integer true "Post ID"
// @Success 200 {object} models.Post
// @Router /posts/{id} [get]
func (pc *PostController) GetPost(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		pc.respondError(c, err)
		return
	}

	post, err := pc.Posts.GetPost(c.Request.Context(), callerOf(c), id)
	if err != nil {
		pc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (pc *PostController) UpdatePost(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		pc.respondError(c, err)
		return
	}
	var req types.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	post, err := pc.Posts.UpdatePost(c.Request.Context(), callerOf(c), id, services.UpdatePostInput{
		Title:       req.Title,
		Content:     req.Content,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		pc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (pc *PostController) DeletePost(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		pc.respondError(c, err)
		return
	}

	if err := pc.Posts.DeletePost(c.Request.Context(), callerOf(c), id); err != nil {
		pc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Post deleted successfully"})
}

// ToggleVisibility godoc
// @Summary Toggle a post between active and inactive
// @Description Only the author or an admin may toggle. Reactivation sets a new publish date.
// @Tags posts
// @Produce json
// @Param id path integer true "Post ID"
// @Success 200 {object} map[string]interface{}
// @Router /posts/{id}/toggle-visibility [patch]
func (pc *PostController) ToggleVisibility(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		pc.respondError(c, err)
		return
	}

	status, err := pc.Posts.ToggleVisibility(c.Request.Context(), callerOf(c), id)
	if err != nil {
		pc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "status": status})
}

func (pc *PostController) GetCategories(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		pc.respondError(c, err)
		return
	}

	categories, err := pc.Posts.PostCategories(c.Request.Context(), callerOf(c), id)
	if err != nil {
		pc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (pc *PostController) GetComments(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		pc.respondError(c, err)
		return
	}

	comments, err := pc.Comments.ListForPost(c.Request.Context(), callerOf(c), id)
	if err != nil {
		pc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (pc *PostController) CreateComment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		pc.respondError(c, err)
		return
	}
	var req types.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	comment, err := pc.Comments.CreateComment(c.Request.Context(), callerOf(c), id, req.Content)
	if err != nil {
		pc.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}
