package services

import (
	"context"
	"fmt"
	"time"

	"github.com/agora-forum/api-go/models"
	"gorm.io/gorm"
)

type SortBy string

const (
	SortByLikes SortBy = "likes"
	SortByDate  SortBy = "date"
)

// ListPostsQuery holds the listing criteria. Page is zero-based; an empty
// CategoryIDs or Status means no restriction, and the date interval only
// applies when both From and To are set.
type ListPostsQuery struct {
	Page        int
	SortBy      SortBy
	CategoryIDs []uint
	Status      models.Status
	From        *time.Time
	To          *time.Time
	AuthorID    uint
}

type PostPage struct {
	Posts    []models.Post
	Total    int64
	Page     int
	PageSize int
}

func (q *ListPostsQuery) normalize() error {
	if err := validatePage(q.Page); err != nil {
		return err
	}

	switch q.SortBy {
	case "":
		q.SortBy = SortByLikes
	case SortByLikes, SortByDate:
	default:
		return invalid("sort", "must be one of: likes, date")
	}

	if err := validateStatus(q.Status); err != nil {
		return err
	}

	for _, id := range q.CategoryIDs {
		if err := validateID("categories", id); err != nil {
			return err
		}
	}
	q.CategoryIDs = uniqueIDs(q.CategoryIDs)

	if q.From != nil && q.To != nil && startOfDay(*q.From).After(startOfDay(*q.To)) {
		return invalid("from", "must not be after to")
	}
	return nil
}

// startOfDay keeps the calendar day written in t's own offset.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// filter applies every criterion except ordering and paging.
func (s *PostService) filter(db *gorm.DB, caller Caller, q ListPostsQuery) *gorm.DB {
	db = VisiblePosts(caller)(db)

	if q.AuthorID != 0 {
		db = db.Where("posts.author_id = ?", q.AuthorID)
	}

	if len(q.CategoryIDs) > 0 {
		// Posts in all of the listed categories.
		inAll := s.db.Model(&models.PostCategory{}).
			Select("post_id").
			Where("category_id IN ?", q.CategoryIDs).
			Group("post_id").
			Having("COUNT(DISTINCT category_id) = ?", len(q.CategoryIDs))
		db = db.Where("posts.id IN (?)", inAll)
	}

	if q.Status != "" {
		db = db.Where("posts.status = ?", q.Status)
	}

	if q.From != nil && q.To != nil {
		db = db.Where("posts.created_at >= ? AND posts.created_at < ?",
			startOfDay(*q.From), startOfDay(*q.To).AddDate(0, 0, 1))
	}

	return db
}

func order(db *gorm.DB, sortBy SortBy) *gorm.DB {
	if sortBy == SortByDate {
		return db.Order("posts.created_at DESC").Order("posts.id DESC")
	}
	return db.
		Select("posts.*, (SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id AND likes.type = ?) AS likes_count", models.LikeTypeLike).
		Order("likes_count DESC").
		Order("posts.id DESC")
}

// ListPosts returns one page of posts visible to caller that match q, plus
// the size of the whole matching set.
func (s *PostService) ListPosts(ctx context.Context, caller Caller, q ListPostsQuery) (*PostPage, error) {
	if err := q.normalize(); err != nil {
		return nil, err
	}

	base := s.filter(s.db.WithContext(ctx).Model(&models.Post{}), caller, q).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	page := &PostPage{Posts: []models.Post{}, Total: total, Page: q.Page, PageSize: PageSize}
	window := PageWindow(q.Page, PageSize)
	if total == 0 || int64(window.Offset) >= total {
		return page, nil
	}

	err := order(base, q.SortBy).
		Scopes(window.Scope).
		Preload("Author").
		Preload("Categories").
		Find(&page.Posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return page, nil
}
