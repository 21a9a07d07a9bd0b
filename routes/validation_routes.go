package routes

import (
	"github.com/agora-forum/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupValidationRoutes(public *gin.RouterGroup, validationController *controllers.ValidationController) {
	validation := public.Group("/validation")
	{
		validation.GET("/login/:login", validationController.ValidateLogin)
		validation.GET("/email/:email", validationController.ValidateEmail)
	}
}
