package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment belongs to exactly one post. The author reference is denormalized
// at creation time and never re-synced with later username changes. Only the
// Likes ledger is mutable after creation; CreatedAt is the sole sort key.
type Comment struct {
	ID             uuid.UUID   `json:"id"`
	PostID         uuid.UUID   `json:"postId"`
	AuthorID       uuid.UUID   `json:"authorId"`
	AuthorUsername string      `json:"authorUsername"`
	Text           string      `json:"text"`
	Likes          []uuid.UUID `json:"likes"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// LikeCount returns the derived like projection.
func (c *Comment) LikeCount() int { return len(c.Likes) }

// LikedBy reports whether userID is in the like ledger.
func (c *Comment) LikedBy(userID uuid.UUID) bool {
	return containsID(c.Likes, userID)
}

// ToggleLike flips the user's membership in the like ledger and reports
// whether the user likes the comment afterwards. Unlike post votes there is
// no exclusivity constraint; the toggle is a plain binary.
func (c *Comment) ToggleLike(userID uuid.UUID) bool {
	if containsID(c.Likes, userID) {
		c.Likes = removeID(c.Likes, userID)
		return false
	}
	c.Likes = append(c.Likes, userID)
	return true
}
