package routes

import (
	"github.com/agora-forum/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupPostRoutes(public, protected *gin.RouterGroup, postController *controllers.PostController) {
	posts := public.Group("/posts")
	{
		posts.GET("/:id", postController.GetPost)
		posts.GET("/:id/comments", postController.GetComments)
		posts.GET("/:id/categories", postController.GetCategories)
	}

	owned := protected.Group("/posts")
	{
		owned.POST("", postController.CreatePost)
		owned.PATCH("/:id", postController.UpdatePost)
		owned.DELETE("/:id", postController.DeletePost)
		owned.PATCH("/:id/toggle-visibility", postController.ToggleVisibility)
		owned.POST("/:id/comments", postController.CreateComment)
	}
}
