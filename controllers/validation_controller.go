package controllers

import (
	"net/http"

	"github.com/agora-forum/api-go/services"
	"github.com/gin-gonic/gin"
)

type ValidationController struct {
	*ErrorReporter
	Accounts *services.AccountService
}

func NewValidationController(accounts *services.AccountService, reporter *ErrorReporter) *ValidationController {
	return &ValidationController{ErrorReporter: reporter, Accounts: accounts}
}

func (vc *ValidationController) ValidateLogin(c *gin.Context) {
	exists, err := vc.Accounts.IsLoginTaken(c.Request.Context(), c.Param("login"))
	if err != nil {
		vc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

func (vc *ValidationController) ValidateEmail(c *gin.Context) {
	exists, err := vc.Accounts.IsEmailTaken(c.Request.Context(), c.Param("email"))
	if err != nil {
		vc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}
