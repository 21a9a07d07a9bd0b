package controllers

import (
	"net/http"

	"github.com/agora-forum/api-go/services"
	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	*ErrorReporter
	Accounts *services.AccountService
}

func NewLeaderboardController(accounts *services.AccountService, reporter *ErrorReporter) *LeaderboardController {
	return &LeaderboardController{ErrorReporter: reporter, Accounts: accounts}
}

type LeaderboardEntry struct {
	Rank           int    `json:"rank"`
	ID             uint   `json:"id"`
	Login          string `json:"login"`
	FullName       string `json:"fullName"`
	ProfilePicture string `json:"profilePicture"`
	Rating         int    `json:"rating"`
}

// GetLeaderboard godoc
// @Summary Users ranked by rating
// @Tags users
// @Produce json
// @Param page query integer false "Page number (default: 1)"
// @Success 200 {object} StandardResponse
// @Router /users/leaderboard [get]
func (lc *LeaderboardController) GetLeaderboard(c *gin.Context) {
	page, err := parsePage(c.Query("page"))
	if err != nil {
		lc.respondError(c, err)
		return
	}

	users, total, err := lc.Accounts.Leaderboard(c.Request.Context(), page)
	if err != nil {
		lc.respondError(c, err)
		return
	}

	offset := services.PageWindow(page, services.PageSize).Offset
	entries := make([]LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = LeaderboardEntry{
			Rank:           offset + i + 1,
			ID:             u.ID,
			Login:          u.Login,
			FullName:       u.FullName,
			ProfilePicture: u.ProfilePicture,
			Rating:         u.Rating,
		}
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       entries,
		Pagination: newPagination(page, total),
	})
}
