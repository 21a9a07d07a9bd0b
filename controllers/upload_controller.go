package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/agora-forum/api-go/services"
	"github.com/agora-forum/api-go/storage"
	"github.com/gin-gonic/gin"
)

type UploadController struct {
	*ErrorReporter
	Accounts *services.AccountService
	Store    storage.Store
}

func NewUploadController(accounts *services.AccountService, store storage.Store, reporter *ErrorReporter) *UploadController {
	return &UploadController{ErrorReporter: reporter, Accounts: accounts, Store: store}
}

// UploadAvatar godoc
// @Summary Upload an avatar
// @Description Multipart field "avatar". Admins may pass targetUserId to set the avatar of a non-admin user.
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param targetUserId query integer false "User whose avatar to set"
// @Success 200 {object} models.User
// @Router /users/avatar [patch]
func (uc *UploadController) UploadAvatar(c *gin.Context) {
	var targetID uint
	if raw := c.Query("targetUserId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			uc.respondError(c, &services.ValidationError{Field: "targetUserId", Message: "must be a positive integer"})
			return
		}
		targetID = uint(id)
	}

	ctx := c.Request.Context()
	target, err := uc.Accounts.AvatarTarget(ctx, callerOf(c), targetID)
	if err != nil {
		uc.respondError(c, err)
		return
	}

	header, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "avatar file is required"})
		return
	}
	contentType := header.Header.Get("Content-Type")
	if err := storage.ValidateAvatar(contentType, header.Size); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid avatar file type or size"})
		return
	}

	file, err := header.Open()
	if err != nil {
		uc.respondError(c, err)
		return
	}
	defer file.Close()

	key := storage.AvatarKey(target.ID, header.Filename, contentType, time.Now())
	url, err := uc.Store.Put(ctx, key, contentType, file, header.Size)
	if err != nil {
		uc.respondError(c, err)
		return
	}

	user, err := uc.Accounts.SetAvatar(ctx, target.ID, url)
	if err != nil {
		uc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
