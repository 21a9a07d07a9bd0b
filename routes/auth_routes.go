package routes

import (
	"github.com/agora-forum/api-go/controllers"
	"github.com/agora-forum/api-go/middleware"
	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(public, protected *gin.RouterGroup, limiter *middleware.RateLimiter, authController *controllers.AuthController) {
	auth := public.Group("/auth")
	auth.Use(limiter.Middleware())
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/password-reset", authController.RequestPasswordReset)
		auth.POST("/password-reset/:token", authController.ResetPassword)
		auth.POST("/google", authController.GoogleLogin)
	}

	public.GET("/verify-email/:userId/:token", authController.VerifyEmail)
	protected.POST("/auth/logout", authController.Logout)
}
