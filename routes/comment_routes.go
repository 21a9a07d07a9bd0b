package routes

import (
	"github.com/agora-forum/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupCommentRoutes(public, protected *gin.RouterGroup, commentController *controllers.CommentController) {
	comments := public.Group("/comments")
	{
		comments.GET("/:id", commentController.GetComment)
		comments.GET("/:id/comments", commentController.GetReplies)
	}

	owned := protected.Group("/comments")
	{
		owned.POST("/:id/comments", commentController.Reply)
		owned.PATCH("/:id", commentController.UpdateComment)
		owned.DELETE("/:id", commentController.DeleteComment)
		owned.PATCH("/:id/toggle-visibility", commentController.ToggleVisibility)
	}
}
