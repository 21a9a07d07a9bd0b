package routes

import (
	"github.com/agora-forum/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupUserRoutes(public, admin *gin.RouterGroup, userController *controllers.UserController, leaderboardController *controllers.LeaderboardController) {
	users := public.Group("/users")
	{
		users.GET("", userController.ListUsers)
		users.GET("/leaderboard", leaderboardController.GetLeaderboard)
		users.GET("/:id", userController.GetUser)
	}

	admin.POST("/users", userController.CreateUser)
}
