package controllers

import (
	"context"
	"net/http"

	"github.com/agora-forum/api-go/config"
	"github.com/agora-forum/api-go/services"
	"github.com/agora-forum/api-go/types"
	"github.com/agora-forum/api-go/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

type GoogleAuth interface {
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*config.GoogleUserInfo, error)
}

type AuthController struct {
	*ErrorReporter
	Accounts *services.AccountService
	// Google is nil when Google sign-in is not configured.
	Google GoogleAuth
}

func NewAuthController(accounts *services.AccountService, google GoogleAuth, reporter *ErrorReporter) *AuthController {
	return &AuthController{ErrorReporter: reporter, Accounts: accounts, Google: google}
}

func sessionResponse(session *services.Session) gin.H {
	return gin.H{
		"success":   true,
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
		"user":      session.User,
	}
}

// Register godoc
// @Summary Register a new account
// @Description Creates an unconfirmed account and emails a confirmation link
// @Tags auth
// @Accept json
// @Produce json
// @Param user body types.RegisterRequest true "Account data"
// @Success 201 {object} map[string]interface{}
// @Router /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := ac.Accounts.Register(c.Request.Context(), services.RegisterInput{
		Login:                req.Login,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
		FullName:             req.FullName,
	})
	if err != nil {
		ac.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully, check your email to confirm it",
		"user":    user,
	})
}

// Login godoc
// @Summary Log in with login or email
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body types.LoginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Router /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	session, err := ac.Accounts.Login(c.Request.Context(), services.LoginInput{
		Login:    req.Login,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		ac.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}

func (ac *AuthController) Logout(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		ac.respondError(c, services.ErrUnauthorized)
		return
	}

	if err := ac.Accounts.Logout(c.Request.Context(), user.Token); err != nil {
		ac.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

func (ac *AuthController) VerifyEmail(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil {
		ac.respondError(c, err)
		return
	}

	if err := ac.Accounts.ConfirmEmail(c.Request.Context(), userID, c.Param("token")); err != nil {
		ac.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email verified successfully"})
}

func (ac *AuthController) RequestPasswordReset(c *gin.Context) {
	var req types.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := ac.Accounts.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		ac.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset link sent"})
}

func (ac *AuthController) ResetPassword(c *gin.Context) {
	var req types.NewPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := ac.Accounts.ResetPassword(c.Request.Context(), c.Param("token"), req.NewPassword, req.PasswordConfirmation)
	if err != nil {
		ac.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated successfully"})
}

// GoogleLogin godoc
// @Summary Sign in with a Google account
// @Description Accepts an OAuth authorization code or an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param google body types.GoogleLoginRequest true "Google credentials"
// @Success 200 {object} map[string]interface{}
// @Router /auth/google [post]
func (ac *AuthController) GoogleLogin(c *gin.Context) {
	if ac.Google == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Google sign-in is not configured"})
		return
	}

	var req types.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	token := &oauth2.Token{AccessToken: req.AccessToken}
	switch {
	case req.Code != "":
		exchanged, err := ac.Google.ExchangeCode(ctx, req.Code)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid authorization code"})
			return
		}
		token = exchanged
	case req.AccessToken == "":
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "code or accessToken is required"})
		return
	}

	info, err := ac.Google.GetUserInfo(ctx, token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid Google token"})
		return
	}

	session, err := ac.Accounts.GoogleSignIn(ctx, services.GoogleProfile{
		Email:         info.Email,
		Name:          info.Name,
		Picture:       info.Picture,
		VerifiedEmail: info.VerifiedEmail,
	})
	if err != nil {
		ac.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}
