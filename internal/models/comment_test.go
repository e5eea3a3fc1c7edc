package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCommentToggleLike(t *testing.T) {
	comment := &Comment{
		ID:        uuid.New(),
		PostID:    uuid.New(),
		AuthorID:  uuid.New(),
		Text:      "go hokies",
		Likes:     []uuid.UUID{},
		CreatedAt: time.Now(),
	}
	userID := uuid.New()
	otherID := uuid.New()

	liked := comment.ToggleLike(userID)
	assert.True(t, liked)
	assert.True(t, comment.LikedBy(userID))
	assert.Equal(t, 1, comment.LikeCount())

	// Toggling is per user.
	comment.ToggleLike(otherID)
	assert.Equal(t, 2, comment.LikeCount())

	liked = comment.ToggleLike(userID)
	assert.False(t, liked)
	assert.False(t, comment.LikedBy(userID))
	assert.True(t, comment.LikedBy(otherID))
	assert.Equal(t, 1, comment.LikeCount())
}
