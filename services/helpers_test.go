package services

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/agora-forum/api-go/config"
	"github.com/agora-forum/api-go/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), config.GormConfig(true))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type testEnv struct {
	db         *gorm.DB
	ledger     *RatingLedger
	likes      *LikeRegistry
	posts      *PostService
	comments   *CommentService
	categories *CategoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	log := discardLogger()
	ledger := NewRatingLedger(log)
	likes := NewLikeRegistry(db, ledger, log)
	posts := NewPostService(db, likes, log)
	return &testEnv{
		db:         db,
		ledger:     ledger,
		likes:      likes,
		posts:      posts,
		comments:   NewCommentService(db, likes, log),
		categories: NewCategoryService(db, posts, log),
	}
}

func (e *testEnv) user(t *testing.T, login string, role string) *models.User {
	t.Helper()
	u := models.User{
		Login:            login,
		Email:            login + "@example.com",
		Password:         "x",
		Role:             role,
		IsEmailConfirmed: true,
	}
	require.NoError(t, e.db.Create(&u).Error)
	return &u
}

func (e *testEnv) category(t *testing.T, title string) *models.Category {
	t.Helper()
	c := models.Category{Title: title}
	require.NoError(t, e.db.Create(&c).Error)
	return &c
}

type postOpt func(*models.Post)

func withStatus(s models.Status) postOpt {
	return func(p *models.Post) { p.Status = s }
}

func createdAt(ts time.Time) postOpt {
	return func(p *models.Post) { p.CreatedAt = ts }
}

func inCategories(cs ...*models.Category) postOpt {
	return func(p *models.Post) {
		for _, c := range cs {
			p.Categories = append(p.Categories, *c)
		}
	}
}

func (e *testEnv) post(t *testing.T, author *models.User, title string, opts ...postOpt) *models.Post {
	t.Helper()
	p := models.Post{
		Title:       title,
		Content:     "content of " + title,
		AuthorID:    author.ID,
		Publication: models.Publication{Status: models.StatusActive, PublishDate: time.Now().UTC()},
	}
	for _, opt := range opts {
		opt(&p)
	}
	require.NoError(t, e.db.Omit("Author", "Categories.*").Create(&p).Error)
	return &p
}

func (e *testEnv) comment(t *testing.T, author *models.User, post *models.Post, parent *models.Comment, status models.Status) *models.Comment {
	t.Helper()
	c := models.Comment{
		Content:     fmt.Sprintf("comment by %s", author.Login),
		AuthorID:    author.ID,
		PostID:      post.ID,
		Publication: models.Publication{Status: status, PublishDate: time.Now().UTC()},
	}
	if parent != nil {
		c.ParentID = &parent.ID
	}
	require.NoError(t, e.db.Omit("Author").Create(&c).Error)
	return &c
}

func (e *testEnv) rating(t *testing.T, userID uint) int {
	t.Helper()
	var u models.User
	require.NoError(t, e.db.First(&u, userID).Error)
	return u.Rating
}

func (e *testEnv) countLikes(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.Like{}).Count(&n).Error)
	return n
}

func asCaller(u *models.User) Caller {
	return Caller{ID: u.ID, Role: u.Role}
}

func postIDs(posts []models.Post) []uint {
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}
