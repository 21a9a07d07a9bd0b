package routes

import (
	"github.com/agora-forum/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupInteractionRoutes(public, protected *gin.RouterGroup, interactionController *controllers.InteractionController) {
	public.GET("/posts/:id/like", interactionController.GetPostLikes)
	public.GET("/comments/:id/like", interactionController.GetCommentLikes)

	posts := protected.Group("/posts")
	{
		posts.POST("/:id/like", interactionController.LikePost)
		posts.DELETE("/:id/like", interactionController.UnlikePost)
	}

	comments := protected.Group("/comments")
	{
		comments.POST("/:id/like", interactionController.LikeComment)
		comments.DELETE("/:id/like", interactionController.UnlikeComment)
	}
}
