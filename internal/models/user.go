package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID   `json:"id"`
	Username       string      `json:"username"`
	Email          string      `json:"email"`
	HashedPassword string      `json:"-"`
	Bio            string      `json:"bio"`
	LikedPosts     []uuid.UUID `json:"likedPosts"` // posts the user currently upvotes
	CreatedAt      time.Time   `json:"createdAt"`
}

// HasLikedPost reports whether postID is in the user's liked-posts membership.
func (u *User) HasLikedPost(postID uuid.UUID) bool {
	return containsID(u.LikedPosts, postID)
}

// StatusResponse is a generic success/failure payload for mutations that
// return no entity.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
