package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPage(t *testing.T) {
	cases := []struct {
		page      int
		total     int64
		size      int
		wantNum   int
		wantPages int
	}{
		{1, 25, 12, 1, 3},
		{3, 25, 12, 3, 3},
		{4, 25, 12, 3, 3},
		{0, 25, 12, 1, 3},
		{-3, 25, 12, 1, 3},
		{2, 0, 12, 1, 1},
		{1, 12, 12, 1, 1},
		{2, 13, 12, 2, 2},
	}
	for _, c := range cases {
		num, pages := ClampPage(c.page, c.total, c.size)
		assert.Equal(t, c.wantNum, num, "page=%d total=%d", c.page, c.total)
		assert.Equal(t, c.wantPages, pages, "page=%d total=%d", c.page, c.total)
	}
}

func TestActorCanModify(t *testing.T) {
	var anon *Actor
	assert.False(t, anon.CanModify("u1"))
	assert.True(t, (&Actor{ID: "u1"}).CanModify("u1"))
	assert.False(t, (&Actor{ID: "u2"}).CanModify("u1"))
	assert.True(t, (&Actor{ID: "u2", Staff: true}).CanModify("u1"))
}

func TestValidationErrorIsInvalid(t *testing.T) {
	err := Invalid("slug", "already in use")
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Equal(t, "slug: already in use", err.Error())

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "slug", ve.Field)
}

func TestPostStatusValid(t *testing.T) {
	assert.True(t, StatusDraft.Valid())
	assert.True(t, StatusPublished.Valid())
	assert.False(t, PostStatus("archived").Valid())
}
