package services

import (
	"context"
	"testing"
	"time"

	"github.com/agora-forum/api-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	author := e.user(t, "author", models.RoleUser)
	a := e.category(t, "A")
	b := e.category(t, "B")

	t.Run("anonymous", func(t *testing.T) {
		_, err := e.posts.CreatePost(ctx, Caller{}, CreatePostInput{Title: "t", Content: "c"})
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("empty title", func(t *testing.T) {
		_, err := e.posts.CreatePost(ctx, asCaller(author), CreatePostInput{Title: "  ", Content: "c"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "title", verr.Field)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := e.posts.CreatePost(ctx, asCaller(author), CreatePostInput{Title: "t", Content: "c", CategoryIDs: []uint{a.ID, 999}})
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "category", nf.Entity)
		assert.EqualValues(t, 999, nf.ID)
	})

	t.Run("success", func(t *testing.T) {
		post, err := e.posts.CreatePost(ctx, asCaller(author), CreatePostInput{
			Title:       "Hello",
			Content:     "World",
			CategoryIDs: []uint{a.ID, b.ID, a.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, author.ID, post.AuthorID)
		assert.Equal(t, "author", post.Author.Login)
		assert.Equal(t, models.StatusActive, post.Status)
		assert.False(t, post.PublishDate.IsZero())
		assert.Len(t, post.Categories, 2)
	})
}

func TestGetPost_HiddenLooksMissing(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner", models.RoleUser)
	stranger := e.user(t, "stranger", models.RoleUser)
	admin := e.user(t, "root", models.RoleAdmin)
	hidden := e.post(t, owner, "hidden", withStatus(models.StatusInactive))

	_, err := e.posts.GetPost(ctx, Caller{}, hidden.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	_, err = e.posts.GetPost(ctx, asCaller(stranger), hidden.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	got, err := e.posts.GetPost(ctx, asCaller(owner), hidden.ID)
	require.NoError(t, err)
	assert.Equal(t, hidden.ID, got.ID)

	_, err = e.posts.GetPost(ctx, asCaller(admin), hidden.ID)
	require.NoError(t, err)
}

func TestUpdatePost(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner", models.RoleUser)
	admin := e.user(t, "root", models.RoleAdmin)
	a := e.category(t, "A")
	b := e.category(t, "B")
	post := e.post(t, owner, "before", inCategories(a))

	_, err := e.posts.UpdatePost(ctx, asCaller(admin), post.ID, UpdatePostInput{Title: ptr("admin edit")})
	assert.ErrorIs(t, err, ErrNotEnoughRights)

	updated, err := e.posts.UpdatePost(ctx, asCaller(owner), post.ID, UpdatePostInput{
		Title:       ptr("after"),
		CategoryIDs: &[]uint{b.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, "content of before", updated.Content)
	require.Len(t, updated.Categories, 1)
	assert.Equal(t, b.ID, updated.Categories[0].ID)
}

func TestDeletePost_ReversesRatings(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner", models.RoleUser)
	commenter := e.user(t, "commenter", models.RoleUser)
	fan := e.user(t, "fan", models.RoleUser)
	critic := e.user(t, "critic", models.RoleUser)
	keep := e.post(t, owner, "keep")
	doomed := e.post(t, owner, "doomed", inCategories(e.category(t, "A")))
	comment := e.comment(t, commenter, doomed, nil, models.StatusActive)
	reply := e.comment(t, owner, doomed, comment, models.StatusActive)

	react := func(target Target, u *models.User, lt models.LikeType) {
		_, err := e.likes.React(ctx, target, u.ID, lt)
		require.NoError(t, err)
	}
	react(PostTarget(keep.ID), fan, models.LikeTypeLike)
	react(PostTarget(doomed.ID), fan, models.LikeTypeLike)
	react(PostTarget(doomed.ID), critic, models.LikeTypeLike)
	react(CommentTarget(comment.ID), fan, models.LikeTypeDislike)
	react(CommentTarget(reply.ID), critic, models.LikeTypeLike)
	require.Equal(t, 4, e.rating(t, owner.ID))
	require.Equal(t, -1, e.rating(t, commenter.ID))

	t.Run("stranger", func(t *testing.T) {
		err := e.posts.DeletePost(ctx, asCaller(fan), doomed.ID)
		assert.ErrorIs(t, err, ErrNotEnoughRights)
	})

	require.NoError(t, e.posts.DeletePost(ctx, asCaller(owner), doomed.ID))

	assert.Equal(t, 1, e.rating(t, owner.ID))
	assert.Equal(t, 0, e.rating(t, commenter.ID))
	assert.EqualValues(t, 1, e.countLikes(t))

	var comments, links int64
	require.NoError(t, e.db.Model(&models.Comment{}).Count(&comments).Error)
	require.NoError(t, e.db.Model(&models.PostCategory{}).Count(&links).Error)
	assert.Zero(t, comments)
	assert.Zero(t, links)

	_, err := e.posts.GetPost(ctx, asCaller(owner), doomed.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeletePost_Admin(t *testing.T) {
	e := newTestEnv(t)
	owner := e.user(t, "owner", models.RoleUser)
	admin := e.user(t, "root", models.RoleAdmin)
	post := e.post(t, owner, "hidden", withStatus(models.StatusInactive))

	require.NoError(t, e.posts.DeletePost(context.Background(), asCaller(admin), post.ID))
}

func TestTogglePostVisibility(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner", models.RoleUser)
	stranger := e.user(t, "stranger", models.RoleUser)
	admin := e.user(t, "root", models.RoleAdmin)
	published := day(2023, time.May, 1, 8)
	post := e.post(t, owner, "p")
	require.NoError(t, e.db.Model(post).Update("publish_date", published).Error)

	_, err := e.posts.ToggleVisibility(ctx, asCaller(stranger), post.ID)
	assert.ErrorIs(t, err, ErrNotEnoughRights)

	now := day(2024, time.June, 2, 10)
	e.posts.now = func() time.Time { return now }

	status, err := e.posts.ToggleVisibility(ctx, asCaller(owner), post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInactive, status)

	var stored models.Post
	require.NoError(t, e.db.First(&stored, post.ID).Error)
	assert.Equal(t, models.StatusInactive, stored.Status)
	assert.True(t, stored.PublishDate.Equal(published), "hiding keeps the publish date")

	// a hidden post is invisible to strangers, so toggling reports it missing
	_, err = e.posts.ToggleVisibility(ctx, asCaller(stranger), post.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	status, err = e.posts.ToggleVisibility(ctx, asCaller(admin), post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, status)

	require.NoError(t, e.db.First(&stored, post.ID).Error)
	assert.True(t, stored.PublishDate.Equal(now))
}

func TestPostReactions(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner", models.RoleUser)
	fan := e.user(t, "fan", models.RoleUser)
	hidden := e.post(t, owner, "hidden", withStatus(models.StatusInactive))
	post := e.post(t, owner, "p")

	_, err := e.posts.React(ctx, Caller{}, post.ID, models.LikeTypeLike)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = e.posts.React(ctx, asCaller(fan), hidden.ID, models.LikeTypeLike)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	_, err = e.posts.React(ctx, asCaller(fan), post.ID, models.LikeTypeLike)
	require.NoError(t, err)

	likes, err := e.posts.Likes(ctx, Caller{}, post.ID)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, fan.ID, likes[0].AuthorID)

	require.NoError(t, e.posts.Unreact(ctx, asCaller(fan), post.ID))
	assert.Equal(t, 0, e.rating(t, owner.ID))
}

func TestPostUnreact_AfterPostHidden(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner", models.RoleUser)
	fan := e.user(t, "fan", models.RoleUser)
	post := e.post(t, owner, "p")

	_, err := e.posts.React(ctx, asCaller(fan), post.ID, models.LikeTypeDislike)
	require.NoError(t, err)
	require.Equal(t, -1, e.rating(t, owner.ID))
	require.NoError(t, e.db.Model(post).Update("status", models.StatusInactive).Error)

	require.NoError(t, e.posts.Unreact(ctx, asCaller(fan), post.ID))
	assert.Equal(t, 0, e.rating(t, owner.ID))
	assert.EqualValues(t, 0, e.countLikes(t))

	err = e.posts.Unreact(ctx, asCaller(fan), 404)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestPostCategories(t *testing.T) {
	e := newTestEnv(t)
	owner := e.user(t, "owner", models.RoleUser)
	a := e.category(t, "A")
	b := e.category(t, "B")
	post := e.post(t, owner, "p", inCategories(b, a))

	categories, err := e.posts.PostCategories(context.Background(), Caller{}, post.ID)

	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "A", categories[0].Title)
	assert.Equal(t, "B", categories[1].Title)
}
