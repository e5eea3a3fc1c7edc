// internal/database/store.go
package database

import (
	"context"

	"github.com/s-nagoti/VT-Memegen/internal/models"

	"github.com/google/uuid"
)

// Store defines the common interface for backend-store operations. The
// MongoDB implementation is the production backend; tests use the in-memory
// implementation in databasetest.
type Store interface {
	// Connection
	Close(ctx context.Context) error

	// User methods
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error

	// Post methods
	SavePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	GetAllPosts(ctx context.Context) ([]*models.Post, error)
	GetUserPosts(ctx context.Context, authorID uuid.UUID) ([]*models.Post, error)
	SetPostExplanation(ctx context.Context, postID uuid.UUID, explanation string) error
	DeletePost(ctx context.Context, postID uuid.UUID) error

	// Vote ledger. Both toggles read the current membership and flip it
	// inside a single server-side transaction: the post-document mutation
	// and (for upvotes) the user's liked-posts membership apply together or
	// not at all. The updated post is returned so callers can refresh their
	// cached projection without a second read.
	ToggleUpvote(ctx context.Context, postID, userID uuid.UUID) (*models.Post, error)
	ToggleDownvote(ctx context.Context, postID, userID uuid.UUID) (*models.Post, error)

	// View ledger: idempotent set insertion.
	RecordView(ctx context.Context, postID, userID uuid.UUID) (*models.Post, error)

	// Comment methods
	SaveComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	GetPostComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error)
	ToggleCommentLike(ctx context.Context, commentID, userID uuid.UUID) (*models.Comment, error)
	CountPostComments(ctx context.Context, postID uuid.UUID) (int, error)
	DeletePostComments(ctx context.Context, postID uuid.UUID) error
}
