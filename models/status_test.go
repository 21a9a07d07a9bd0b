package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPublication_ToggleStatus(t *testing.T) {
	published := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	now := published.Add(48 * time.Hour)
	p := Publication{Status: StatusActive, PublishDate: published}

	assert.Equal(t, StatusInactive, p.ToggleStatus(now))
	assert.False(t, p.IsActive())
	assert.Equal(t, published, p.PublishDate)

	assert.Equal(t, StatusActive, p.ToggleStatus(now))
	assert.True(t, p.IsActive())
	assert.Equal(t, now, p.PublishDate)
}

func TestLikeType(t *testing.T) {
	assert.Equal(t, 1, LikeTypeLike.RatingDelta())
	assert.Equal(t, -1, LikeTypeDislike.RatingDelta())
	assert.False(t, LikeType("love").Valid())
	assert.True(t, Status("inactive").Valid())
	assert.False(t, Status("").Valid())
}
