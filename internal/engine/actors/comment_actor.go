package actors

import (
	stdctx "context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/s-nagoti/VT-Memegen/internal/cache"
	"github.com/s-nagoti/VT-Memegen/internal/database"
	"github.com/s-nagoti/VT-Memegen/internal/models"
	"github.com/s-nagoti/VT-Memegen/internal/utils"
	"github.com/s-nagoti/VT-Memegen/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for CommentActor
type (
	AddCommentMsg struct {
		PostID   uuid.UUID `json:"postId"`
		AuthorID uuid.UUID `json:"authorId"`
		Text     string    `json:"text"`
	}

	ToggleCommentLikeMsg struct {
		CommentID uuid.UUID `json:"commentId"`
		UserID    uuid.UUID `json:"userId"`
	}

	GetCommentMsg struct {
		CommentID uuid.UUID `json:"commentId"`
	}

	GetPostCommentsMsg struct {
		PostID uuid.UUID `json:"postId"`
	}

	GetCommentCountMsg struct {
		PostID uuid.UUID `json:"postId"`
	}
)

// CommentFeedSnapshot is the payload pushed to live feed subscribers: the
// full comment list for the post, oldest first.
type CommentFeedSnapshot struct {
	PostID   string            `json:"postId"`
	Comments []*models.Comment `json:"comments"`
}

// CommentActor manages comment operations and pushes a fresh feed snapshot
// to subscribers after every mutation.
type CommentActor struct {
	store      database.Store
	hub        *websocket.Hub
	countCache *cache.CommentCountCache
	userCache  map[uuid.UUID]string // Simple cache for usernames
}

func NewCommentActor(store database.Store, hub *websocket.Hub, countCache *cache.CommentCountCache) actor.Actor {
	return &CommentActor{
		store:      store,
		hub:        hub,
		countCache: countCache,
		userCache:  make(map[uuid.UUID]string),
	}
}

func (a *CommentActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("CommentActor started with PID: %v", context.Self())

	case *AddCommentMsg:
		a.handleAddComment(context, msg)

	case *ToggleCommentLikeMsg:
		a.handleToggleLike(context, msg)

	case *GetCommentMsg:
		a.handleGetComment(context, msg)

	case *GetPostCommentsMsg:
		a.handleGetPostComments(context, msg)

	case *GetCommentCountMsg:
		a.handleGetCommentCount(context, msg)

	default:
		log.Printf("CommentActor: Unknown message type %T", msg)
	}
}

// Helper function to get username, using cache first
func (a *CommentActor) getUsername(ctx stdctx.Context, userID uuid.UUID) string {
	if username, ok := a.userCache[userID]; ok {
		return username
	}

	user, err := a.store.GetUser(ctx, userID)
	if err != nil {
		log.Printf("Error fetching user %s for username: %v", userID, err)
		return "[unknown]"
	}

	a.userCache[userID] = user.Username
	return user.Username
}

func (a *CommentActor) handleAddComment(context actor.Context, msg *AddCommentMsg) {
	ctx := stdctx.Background()
	log.Printf("Creating new comment for post %s by user %s", msg.PostID, msg.AuthorID)

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		context.Respond(utils.NewValidationError("Comment text is required"))
		return
	}

	// The post must exist before we attach a comment to it.
	if _, err := a.store.GetPost(ctx, msg.PostID); err != nil {
		log.Printf("Error fetching post %s for comment: %v", msg.PostID, err)
		context.Respond(err)
		return
	}

	newComment := &models.Comment{
		ID:             uuid.New(),
		PostID:         msg.PostID,
		AuthorID:       msg.AuthorID,
		AuthorUsername: a.getUsername(ctx, msg.AuthorID),
		Text:           text,
		Likes:          []uuid.UUID{},
		CreatedAt:      time.Now(),
	}

	if err := a.store.SaveComment(ctx, newComment); err != nil {
		log.Printf("Error saving comment to database: %v", err)
		context.Respond(utils.NewAppError(utils.ErrStoreFailure, "Failed to save comment", err))
		return
	}

	a.countCache.Invalidate(ctx, msg.PostID)
	a.publishSnapshot(ctx, msg.PostID)

	log.Printf("Successfully created comment %s on post %s", newComment.ID, msg.PostID)
	context.Respond(newComment)
}

func (a *CommentActor) handleToggleLike(context actor.Context, msg *ToggleCommentLikeMsg) {
	ctx := stdctx.Background()

	comment, err := a.store.ToggleCommentLike(ctx, msg.CommentID, msg.UserID)
	if err != nil {
		log.Printf("Error toggling like on comment %s by user %s: %v", msg.CommentID, msg.UserID, err)
		context.Respond(err)
		return
	}

	a.publishSnapshot(ctx, comment.PostID)
	context.Respond(comment)
}

func (a *CommentActor) handleGetComment(context actor.Context, msg *GetCommentMsg) {
	ctx := stdctx.Background()

	comment, err := a.store.GetComment(ctx, msg.CommentID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(comment)
}

func (a *CommentActor) handleGetPostComments(context actor.Context, msg *GetPostCommentsMsg) {
	ctx := stdctx.Background()

	comments, err := a.store.GetPostComments(ctx, msg.PostID)
	if err != nil {
		log.Printf("Error fetching comments for post %s: %v", msg.PostID, err)
		context.Respond(err)
		return
	}
	context.Respond(comments)
}

// handleGetCommentCount recounts the post's comments, going through the
// short-TTL cache when one is configured.
func (a *CommentActor) handleGetCommentCount(context actor.Context, msg *GetCommentCountMsg) {
	ctx := stdctx.Background()

	if count, ok := a.countCache.Get(ctx, msg.PostID); ok {
		context.Respond(count)
		return
	}

	count, err := a.store.CountPostComments(ctx, msg.PostID)
	if err != nil {
		log.Printf("Error counting comments for post %s: %v", msg.PostID, err)
		context.Respond(err)
		return
	}

	a.countCache.Set(ctx, msg.PostID, count)
	context.Respond(count)
}

// publishSnapshot rereads the full ordered comment list and fans it out to
// live subscribers. Mutations are serialized through this actor, so each
// subscriber sees snapshots in mutation order.
func (a *CommentActor) publishSnapshot(ctx stdctx.Context, postID uuid.UUID) {
	if a.hub == nil {
		return
	}

	comments, err := a.store.GetPostComments(ctx, postID)
	if err != nil {
		log.Printf("Error building feed snapshot for post %s: %v", postID, err)
		return
	}

	payload, err := json.Marshal(&CommentFeedSnapshot{
		PostID:   postID.String(),
		Comments: comments,
	})
	if err != nil {
		log.Printf("Error marshaling feed snapshot for post %s: %v", postID, err)
		return
	}

	a.hub.Publish(postID, payload)
}
