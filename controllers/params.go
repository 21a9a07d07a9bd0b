package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/agora-forum/api-go/models"
	"github.com/agora-forum/api-go/services"
	"github.com/agora-forum/api-go/types"
	"github.com/agora-forum/api-go/utils"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

func callerOf(c *gin.Context) services.Caller {
	user := utils.GetUser(c)
	if user == nil {
		return services.Caller{}
	}
	return services.Caller{ID: user.UserID, Role: user.Role}
}

func parseID(field, raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, &services.ValidationError{Field: field, Message: "must be a positive integer"}
	}
	return uint(id), nil
}

func pathID(c *gin.Context, name string) (uint, error) {
	return parseID(name, c.Param(name))
}

// parsePage turns the 1-based page query value into a zero-based page.
func parsePage(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, &services.ValidationError{Field: "page", Message: "must be a positive integer"}
	}
	if page-1 > services.MaxPage {
		return 0, &services.ValidationError{Field: "page", Message: "is too large"}
	}
	return page - 1, nil
}

// parseIDList accepts repeated parameters as well as comma separated values.
func parseIDList(field string, raw []string) ([]uint, error) {
	var ids []uint
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := parseID(field, part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func parseDate(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, raw); err != nil {
			return nil, &services.ValidationError{Field: field, Message: "must be a date in YYYY-MM-DD format"}
		}
	}
	return &t, nil
}

func parseListPostsQuery(c *gin.Context) (services.ListPostsQuery, error) {
	var params types.ListPostsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return services.ListPostsQuery{}, err
	}

	var q services.ListPostsQuery
	var err error
	if q.Page, err = parsePage(params.Page); err != nil {
		return q, err
	}
	if q.CategoryIDs, err = parseIDList("categories", params.Categories); err != nil {
		return q, err
	}
	if q.From, err = parseDate("from", params.From); err != nil {
		return q, err
	}
	if q.To, err = parseDate("to", params.To); err != nil {
		return q, err
	}
	q.SortBy = services.SortBy(params.Sort)
	q.Status = models.Status(params.Status)
	return q, nil
}
