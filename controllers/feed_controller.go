package controllers

import (
	"net/http"

	"github.com/agora-forum/api-go/services"
	"github.com/gin-gonic/gin"
)

// FeedController serves every paginated post listing.
type FeedController struct {
	*ErrorReporter
	Posts      *services.PostService
	Categories *services.CategoryService
}

func NewFeedController(posts *services.PostService, categories *services.CategoryService, reporter *ErrorReporter) *FeedController {
	return &FeedController{ErrorReporter: reporter, Posts: posts, Categories: categories}
}

func (fc *FeedController) respondPage(c *gin.Context, page *services.PostPage) {
	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       page.Posts,
		Pagination: newPagination(page.Page, page.Total),
	})
}

// ListPosts godoc
// @Summary List posts
// @Description Returns the posts visible to the caller, filtered and sorted
// @Tags posts
// @Produce json
// @Param page query integer false "Page number (default: 1)"
// @Param sort query string false "Sort by: likes (default), date"
// @Param categories query []integer false "Posts must belong to all of these categories"
// @Param status query string false "active or inactive"
// @Param from query string false "First creation day, YYYY-MM-DD"
// @Param to query string false "Last creation day, YYYY-MM-DD"
// @Success 200 {object} StandardResponse
// @Router /posts [get]
func (fc *FeedController) ListPosts(c *gin.Context) {
	q, err := parseListPostsQuery(c)
	if err != nil {
		fc.respondError(c, err)
		return
	}

	page, err := fc.Posts.ListPosts(c.Request.Context(), callerOf(c), q)
	if err != nil {
		fc.respondError(c, err)
		return
	}
	fc.respondPage(c, page)
}

// MyPosts lists the caller's own posts with the same filters.
func (fc *FeedController) MyPosts(c *gin.Context) {
	q, err := parseListPostsQuery(c)
	if err != nil {
		fc.respondError(c, err)
		return
	}

	caller := callerOf(c)
	q.AuthorID = caller.ID
	page, err := fc.Posts.ListPosts(c.Request.Context(), caller, q)
	if err != nil {
		fc.respondError(c, err)
		return
	}
	fc.respondPage(c, page)
}

func (fc *FeedController) UserPosts(c *gin.Context) {
	userID, err := pathID(c, "id")
	if err != nil {
		fc.respondError(c, err)
		return
	}
	q, err := parseListPostsQuery(c)
	if err != nil {
		fc.respondError(c, err)
		return
	}

	q.AuthorID = userID
	page, err := fc.Posts.ListPosts(c.Request.Context(), callerOf(c), q)
	if err != nil {
		fc.respondError(c, err)
		return
	}
	fc.respondPage(c, page)
}

func (fc *FeedController) CategoryPosts(c *gin.Context) {
	categoryID, err := pathID(c, "id")
	if err != nil {
		fc.respondError(c, err)
		return
	}
	q, err := parseListPostsQuery(c)
	if err != nil {
		fc.respondError(c, err)
		return
	}

	page, err := fc.Categories.Posts(c.Request.Context(), callerOf(c), categoryID, q)
	if err != nil {
		fc.respondError(c, err)
		return
	}
	fc.respondPage(c, page)
}
