package routes

import (
	"github.com/agora-forum/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupCategoryRoutes(public, admin *gin.RouterGroup, categoryController *controllers.CategoryController) {
	categories := public.Group("/categories")
	{
		categories.GET("", categoryController.ListCategories)
		categories.GET("/:id", categoryController.GetCategory)
	}

	managed := admin.Group("/categories")
	{
		managed.POST("", categoryController.CreateCategory)
		managed.PATCH("/:id", categoryController.UpdateCategory)
		managed.DELETE("/:id", categoryController.DeleteCategory)
	}
}
