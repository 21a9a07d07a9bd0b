package routes

import (
	"github.com/agora-forum/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupFeedRoutes(public, protected *gin.RouterGroup, feedController *controllers.FeedController) {
	public.GET("/posts", feedController.ListPosts)
	public.GET("/users/:id/posts", feedController.UserPosts)
	public.GET("/categories/:id/posts", feedController.CategoryPosts)
	protected.GET("/posts/my", feedController.MyPosts)
}
