package controllers

import (
	"context"
	"net/http"

	"github.com/agora-forum/api-go/models"
	"github.com/agora-forum/api-go/services"
	"github.com/agora-forum/api-go/types"
	"github.com/gin-gonic/gin"
)

type reactor interface {
	React(ctx context.Context, caller services.Caller, id uint, likeType models.LikeType) (uint, error)
	Unreact(ctx context.Context, caller services.Caller, id uint) error
	Likes(ctx context.Context, caller services.Caller, id uint) ([]models.Like, error)
}

// InteractionController handles likes and dislikes on posts and comments.
type InteractionController struct {
	*ErrorReporter
	Posts    *services.PostService
	Comments *services.CommentService
}

func NewInteractionController(posts *services.PostService, comments *services.CommentService, reporter *ErrorReporter) *InteractionController {
	return &InteractionController{ErrorReporter: reporter, Posts: posts, Comments: comments}
}

func (ic *InteractionController) react(c *gin.Context, target reactor) {
	id, err := pathID(c, "id")
	if err != nil {
		ic.respondError(c, err)
		return
	}
	var req types.ReactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	likeID, err := target.React(c.Request.Context(), callerOf(c), id, models.LikeType(req.LikeType))
	if err != nil {
		ic.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "likeId": likeID, "likeType": req.LikeType})
}

func (ic *InteractionController) unreact(c *gin.Context, target reactor) {
	id, err := pathID(c, "id")
	if err != nil {
		ic.respondError(c, err)
		return
	}

	if err := target.Unreact(c.Request.Context(), callerOf(c), id); err != nil {
		ic.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Like removed"})
}

func (ic *InteractionController) likes(c *gin.Context, target reactor) {
	id, err := pathID(c, "id")
	if err != nil {
		ic.respondError(c, err)
		return
	}

	likes, err := target.Likes(c.Request.Context(), callerOf(c), id)
	if err != nil {
		ic.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, likes)
}

// LikePost godoc
// @Summary Like or dislike a post
// @Description Repeating the same reaction is a no-op; a different one replaces it
// @Tags interactions
// @Accept json
// @Produce json
// @Param id path integer true "Post ID"
// @Param like body types.ReactRequest true "Reaction"
// @Success 200 {object} map[string]interface{}
// @Router /posts/{id}/like [post]
func (ic *InteractionController) LikePost(c *gin.Context) {
	ic.react(c, ic.Posts)
}

// UnlikePost godoc
// @Summary Remove the caller's reaction on a post
// @Tags interactions
// @Param id path integer true "Post ID"
// @Success 200 {object} map[string]interface{}
// @Router /posts/{id}/like [delete]
func (ic *InteractionController) UnlikePost(c *gin.Context) {
	ic.unreact(c, ic.Posts)
}

func (ic *InteractionController) GetPostLikes(c *gin.Context) {
	ic.likes(c, ic.Posts)
}

func (ic *InteractionController) LikeComment(c *gin.Context) {
	ic.react(c, ic.Comments)
}

func (ic *InteractionController) UnlikeComment(c *gin.Context) {
	ic.unreact(c, ic.Comments)
}

func (ic *InteractionController) GetCommentLikes(c *gin.Context) {
	ic.likes(c, ic.Comments)
}
