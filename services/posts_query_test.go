package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/agora-forum/api-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func TestListPosts_CategoriesMustAllMatch(t *testing.T) {
	e := newTestEnv(t)
	author := e.user(t, "author", models.RoleUser)
	a := e.category(t, "A")
	b := e.category(t, "B")
	c := e.category(t, "C")
	p1 := e.post(t, author, "both", inCategories(a, b))
	p2 := e.post(t, author, "only a", inCategories(a))
	p3 := e.post(t, author, "all three", inCategories(a, b, c))
	e.post(t, author, "none")

	tests := []struct {
		name       string
		categories []uint
		want       []uint
	}{
		{name: "a and b", categories: []uint{a.ID, b.ID}, want: []uint{p1.ID, p3.ID}},
		{name: "duplicates collapse", categories: []uint{a.ID, a.ID, b.ID}, want: []uint{p1.ID, p3.ID}},
		{name: "only a", categories: []uint{a.ID}, want: []uint{p1.ID, p2.ID, p3.ID}},
		{name: "c", categories: []uint{c.ID}, want: []uint{p3.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := e.posts.ListPosts(context.Background(), Caller{}, ListPostsQuery{
				SortBy:      SortByDate,
				CategoryIDs: tt.categories,
			})
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, postIDs(page.Posts))
			assert.EqualValues(t, len(tt.want), page.Total)
		})
	}
}

func TestListPosts_EmptyCategoriesMeansAll(t *testing.T) {
	e := newTestEnv(t)
	author := e.user(t, "author", models.RoleUser)
	a := e.category(t, "A")
	e.post(t, author, "one", inCategories(a))
	e.post(t, author, "two")

	page, err := e.posts.ListPosts(context.Background(), Caller{}, ListPostsQuery{CategoryIDs: []uint{}})

	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
}

func TestListPosts_Visibility(t *testing.T) {
	e := newTestEnv(t)
	owner := e.user(t, "owner", models.RoleUser)
	stranger := e.user(t, "stranger", models.RoleUser)
	admin := e.user(t, "root", models.RoleAdmin)
	public := e.post(t, owner, "public")
	hidden := e.post(t, owner, "hidden", withStatus(models.StatusInactive))
	strangerHidden := e.post(t, stranger, "stranger hidden", withStatus(models.StatusInactive))

	tests := []struct {
		name   string
		caller Caller
		want   []uint
	}{
		{name: "anonymous", caller: Caller{}, want: []uint{public.ID}},
		{name: "owner", caller: asCaller(owner), want: []uint{public.ID, hidden.ID}},
		{name: "stranger", caller: asCaller(stranger), want: []uint{public.ID, strangerHidden.ID}},
		{name: "admin", caller: asCaller(admin), want: []uint{public.ID, hidden.ID, strangerHidden.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := e.posts.ListPosts(context.Background(), tt.caller, ListPostsQuery{SortBy: SortByDate})
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, postIDs(page.Posts))
		})
	}

	t.Run("inactive filter never leaks", func(t *testing.T) {
		page, err := e.posts.ListPosts(context.Background(), Caller{}, ListPostsQuery{Status: models.StatusInactive})
		require.NoError(t, err)
		assert.Empty(t, page.Posts)
		assert.Zero(t, page.Total)
	})

	t.Run("status filter for owner", func(t *testing.T) {
		page, err := e.posts.ListPosts(context.Background(), asCaller(owner), ListPostsQuery{Status: models.StatusInactive})
		require.NoError(t, err)
		assert.Equal(t, []uint{hidden.ID}, postIDs(page.Posts))
	})
}

func TestListPosts_Pagination(t *testing.T) {
	e := newTestEnv(t)
	author := e.user(t, "author", models.RoleUser)
	start := day(2024, time.March, 1, 12)

	// ids[0] is the newest post
	ids := make([]uint, 25)
	for i := 0; i < 25; i++ {
		p := e.post(t, author, fmt.Sprintf("post %d", i), createdAt(start.Add(-time.Duration(i)*time.Hour)))
		ids[i] = p.ID
	}

	tests := []struct {
		page int
		want []uint
	}{
		{page: 0, want: ids[0:10]},
		{page: 1, want: ids[10:20]},
		{page: 2, want: ids[20:25]},
		{page: 3, want: []uint{}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			page, err := e.posts.ListPosts(context.Background(), Caller{}, ListPostsQuery{Page: tt.page, SortBy: SortByDate})
			require.NoError(t, err)
			assert.Equal(t, tt.want, postIDs(page.Posts))
			assert.EqualValues(t, 25, page.Total)
			assert.Equal(t, tt.page, page.Page)
			assert.Equal(t, PageSize, page.PageSize)
		})
	}
}

func TestListPosts_SortByLikes(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	author := e.user(t, "author", models.RoleUser)
	fans := []*models.User{
		e.user(t, "f1", models.RoleUser),
		e.user(t, "f2", models.RoleUser),
		e.user(t, "f3", models.RoleUser),
	}
	quiet := e.post(t, author, "quiet")
	popular := e.post(t, author, "popular")
	disliked := e.post(t, author, "disliked")
	liked := e.post(t, author, "liked")

	for _, f := range fans {
		_, err := e.likes.React(ctx, PostTarget(popular.ID), f.ID, models.LikeTypeLike)
		require.NoError(t, err)
		_, err = e.likes.React(ctx, PostTarget(disliked.ID), f.ID, models.LikeTypeDislike)
		require.NoError(t, err)
	}
	_, err := e.likes.React(ctx, PostTarget(liked.ID), fans[0].ID, models.LikeTypeLike)
	require.NoError(t, err)

	page, err := e.posts.ListPosts(ctx, Caller{}, ListPostsQuery{})
	require.NoError(t, err)

	// dislikes do not count; ties fall back to the newer id
	assert.Equal(t, []uint{popular.ID, liked.ID, disliked.ID, quiet.ID}, postIDs(page.Posts))
	require.NotNil(t, page.Posts[0].LikesCount)
	assert.EqualValues(t, 3, *page.Posts[0].LikesCount)
	assert.EqualValues(t, 0, *page.Posts[2].LikesCount)
}

func TestListPosts_DateInterval(t *testing.T) {
	e := newTestEnv(t)
	author := e.user(t, "author", models.RoleUser)
	before := e.post(t, author, "before", createdAt(day(2024, time.January, 9, 23)))
	first := e.post(t, author, "first day", createdAt(day(2024, time.January, 10, 0)))
	last := e.post(t, author, "last day", createdAt(day(2024, time.January, 12, 23)))
	after := e.post(t, author, "after", createdAt(day(2024, time.January, 13, 0)))

	t.Run("inclusive calendar days", func(t *testing.T) {
		page, err := e.posts.ListPosts(context.Background(), Caller{}, ListPostsQuery{
			SortBy: SortByDate,
			From:   ptr(day(2024, time.January, 10, 15)),
			To:     ptr(day(2024, time.January, 12, 1)),
		})
		require.NoError(t, err)
		assert.Equal(t, []uint{last.ID, first.ID}, postIDs(page.Posts))
	})

	t.Run("single bound is ignored", func(t *testing.T) {
		page, err := e.posts.ListPosts(context.Background(), Caller{}, ListPostsQuery{
			SortBy: SortByDate,
			From:   ptr(day(2024, time.January, 10, 0)),
		})
		require.NoError(t, err)
		assert.Equal(t, []uint{after.ID, last.ID, first.ID, before.ID}, postIDs(page.Posts))
	})

	t.Run("same day", func(t *testing.T) {
		page, err := e.posts.ListPosts(context.Background(), Caller{}, ListPostsQuery{
			SortBy: SortByDate,
			From:   ptr(day(2024, time.January, 13, 0)),
			To:     ptr(day(2024, time.January, 13, 0)),
		})
		require.NoError(t, err)
		assert.Equal(t, []uint{after.ID}, postIDs(page.Posts))
	})

	t.Run("offset dates keep their own calendar day", func(t *testing.T) {
		plusTwo := time.FixedZone("UTC+2", 2*60*60)
		from := time.Date(2024, time.January, 10, 0, 30, 0, 0, plusTwo)
		page, err := e.posts.ListPosts(context.Background(), Caller{}, ListPostsQuery{
			SortBy: SortByDate,
			From:   &from,
			To:     &from,
		})
		require.NoError(t, err)
		assert.Equal(t, []uint{first.ID}, postIDs(page.Posts))
	})
}

func TestListPosts_AuthorScope(t *testing.T) {
	e := newTestEnv(t)
	alice := e.user(t, "alice", models.RoleUser)
	bob := e.user(t, "bob", models.RoleUser)
	mine := e.post(t, alice, "mine")
	hiddenMine := e.post(t, alice, "hidden mine", withStatus(models.StatusInactive))
	e.post(t, bob, "theirs")

	page, err := e.posts.ListPosts(context.Background(), asCaller(alice), ListPostsQuery{SortBy: SortByDate, AuthorID: alice.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{mine.ID, hiddenMine.ID}, postIDs(page.Posts))

	page, err = e.posts.ListPosts(context.Background(), asCaller(bob), ListPostsQuery{SortBy: SortByDate, AuthorID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{mine.ID}, postIDs(page.Posts))
}

func TestListPosts_PreloadsRelations(t *testing.T) {
	e := newTestEnv(t)
	author := e.user(t, "author", models.RoleUser)
	a := e.category(t, "A")
	e.post(t, author, "p", inCategories(a))

	page, err := e.posts.ListPosts(context.Background(), Caller{}, ListPostsQuery{})

	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "author", page.Posts[0].Author.Login)
	require.Len(t, page.Posts[0].Categories, 1)
	assert.Equal(t, "A", page.Posts[0].Categories[0].Title)
}

func TestListPosts_Validation(t *testing.T) {
	e := newTestEnv(t)

	tests := []struct {
		name  string
		query ListPostsQuery
		field string
	}{
		{name: "negative page", query: ListPostsQuery{Page: -1}, field: "page"},
		{name: "page offset overflows", query: ListPostsQuery{Page: MaxPage + 1}, field: "page"},
		{name: "unknown sort", query: ListPostsQuery{SortBy: "views"}, field: "sort"},
		{name: "unknown status", query: ListPostsQuery{Status: "draft"}, field: "status"},
		{name: "zero category", query: ListPostsQuery{CategoryIDs: []uint{0}}, field: "categories"},
		{
			name: "reversed interval",
			query: ListPostsQuery{
				From: ptr(day(2024, time.February, 2, 0)),
				To:   ptr(day(2024, time.February, 1, 23)),
			},
			field: "from",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.posts.ListPosts(context.Background(), Caller{}, tt.query)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestListPosts_UntrustedInputIsBound(t *testing.T) {
	e := newTestEnv(t)
	author := e.user(t, "author", models.RoleUser)
	e.post(t, author, "p")

	stmt := e.posts.filter(e.db.Session(&gorm.Session{DryRun: true}).Model(&models.Post{}), Caller{}, ListPostsQuery{
		CategoryIDs: []uint{1, 2},
		Status:      models.StatusActive,
		From:        ptr(day(2024, time.January, 1, 0)),
		To:          ptr(day(2024, time.January, 2, 0)),
	}).Find(&[]models.Post{}).Statement

	sql := stmt.SQL.String()
	assert.NotContains(t, sql, "'active'")
	assert.Contains(t, sql, "posts.status = ?")
	assert.Contains(t, stmt.Vars, models.StatusActive)
}
