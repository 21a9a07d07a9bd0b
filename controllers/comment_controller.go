package controllers

import (
	"net/http"

	"github.com/agora-forum/api-go/services"
	"github.com/agora-forum/api-go/types"
	"github.com/gin-gonic/gin"
)

type CommentController struct {
	*ErrorReporter
	Comments *services.CommentService
}

func NewCommentController(comments *services.CommentService, reporter *ErrorReporter) *CommentController {
	return &CommentController{ErrorReporter: reporter, Comments: comments}
}

func (cc *CommentController) GetComment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		cc.respondError(c, err)
		return
	}

	comment, err := cc.Comments.GetComment(c.Request.Context(), callerOf(c), id)
	if err != nil {
		cc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (cc *CommentController) GetReplies(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		cc.respondError(c, err)
		return
	}

	replies, err := cc.Comments.Replies(c.Request.Context(), callerOf(c), id)
	if err != nil {
		cc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, replies)
}

func (cc *CommentController) Reply(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		cc.respondError(c, err)
		return
	}
	var req types.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	reply, err := cc.Comments.Reply(c.Request.Context(), callerOf(c), id, req.Content)
	if err != nil {
		cc.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reply)
}

func (cc *CommentController) UpdateComment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		cc.respondError(c, err)
		return
	}
	var req types.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	comment, err := cc.Comments.UpdateComment(c.Request.Context(), callerOf(c), id, req.Content)
	if err != nil {
		cc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (cc *CommentController) DeleteComment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		cc.respondError(c, err)
		return
	}

	if err := cc.Comments.DeleteComment(c.Request.Context(), callerOf(c), id); err != nil {
		cc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Comment deleted successfully"})
}

func (cc *CommentController) ToggleVisibility(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		cc.respondError(c, err)
		return
	}

	status, err := cc.Comments.ToggleVisibility(c.Request.Context(), callerOf(c), id)
	if err != nil {
		cc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "status": status})
}
