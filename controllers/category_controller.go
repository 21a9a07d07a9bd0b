package controllers

import (
	"net/http"

	"github.com/agora-forum/api-go/services"
	"github.com/agora-forum/api-go/types"
	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	*ErrorReporter
	Categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService, reporter *ErrorReporter) *CategoryController {
	return &CategoryController{ErrorReporter: reporter, Categories: categories}
}

func (cc *CategoryController) ListCategories(c *gin.Context) {
	categories, err := cc.Categories.List(c.Request.Context())
	if err != nil {
		cc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (cc *CategoryController) GetCategory(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		cc.respondError(c, err)
		return
	}

	category, err := cc.Categories.Get(c.Request.Context(), id)
	if err != nil {
		cc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var req types.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	category, err := cc.Categories.Create(c.Request.Context(), callerOf(c), services.CategoryInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		cc.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		cc.respondError(c, err)
		return
	}
	var req types.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	category, err := cc.Categories.Update(c.Request.Context(), callerOf(c), id, services.UpdateCategoryInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		cc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		cc.respondError(c, err)
		return
	}

	if err := cc.Categories.Delete(c.Request.Context(), callerOf(c), id); err != nil {
		cc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category deleted successfully"})
}
