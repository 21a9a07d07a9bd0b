package controllers

import (
	"net/http"

	"github.com/agora-forum/api-go/services"
	"github.com/agora-forum/api-go/types"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	*ErrorReporter
	Accounts *services.AccountService
}

func NewUserController(accounts *services.AccountService, reporter *ErrorReporter) *UserController {
	return &UserController{ErrorReporter: reporter, Accounts: accounts}
}

func (uc *UserController) ListUsers(c *gin.Context) {
	page, err := parsePage(c.Query("page"))
	if err != nil {
		uc.respondError(c, err)
		return
	}

	users, total, err := uc.Accounts.ListUsers(c.Request.Context(), page)
	if err != nil {
		uc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       users,
		Pagination: newPagination(page, total),
	})
}

func (uc *UserController) GetUser(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		uc.respondError(c, err)
		return
	}

	user, err := uc.Accounts.GetUser(c.Request.Context(), id)
	if err != nil {
		uc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateUser lets an admin add a confirmed account with a role.
func (uc *UserController) CreateUser(c *gin.Context) {
	var req types.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := uc.Accounts.CreateUser(c.Request.Context(), callerOf(c), services.CreateUserInput{
		RegisterInput: services.RegisterInput{
			Login:                req.Login,
			Email:                req.Email,
			Password:             req.Password,
			PasswordConfirmation: req.PasswordConfirmation,
			FullName:             req.FullName,
		},
		Role: req.Role,
	})
	if err != nil {
		uc.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}
