package actors

import (
	stdctx "context"
	"log"
	"strings"
	"time"

	"github.com/s-nagoti/VT-Memegen/internal/database"
	"github.com/s-nagoti/VT-Memegen/internal/models"
	"github.com/s-nagoti/VT-Memegen/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for Post operations
type (
	CreatePostMsg struct {
		Title       string
		Description string
		ImageURL    string
		TemplateID  string
		Texts       map[string]string
		Categories  []models.Category
		AuthorID    uuid.UUID
	}

	GetPostMsg struct {
		PostID uuid.UUID
	}

	ListPostsMsg struct {
		// Categories filters the gallery: a post matches only when it carries
		// every requested category. Empty means no filter.
		Categories []models.Category
	}

	GetUserPostsMsg struct {
		AuthorID uuid.UUID
	}

	ToggleUpvoteMsg struct {
		PostID uuid.UUID
		UserID uuid.UUID
	}

	ToggleDownvoteMsg struct {
		PostID uuid.UUID
		UserID uuid.UUID
	}

	RecordViewMsg struct {
		PostID uuid.UUID
		UserID uuid.UUID
	}

	SetExplanationMsg struct {
		PostID      uuid.UUID
		Explanation string
	}

	DeletePostMsg struct {
		PostID uuid.UUID
		UserID uuid.UUID
	}

	GetCountsMsg struct{}
)

// PostActor serializes all post mutations through its mailbox, so two toggles
// for the same post never interleave.
type PostActor struct {
	postsByID map[uuid.UUID]*models.Post
	store     database.Store
	metrics   *utils.MetricsCollector
	enginePID *actor.PID
}

// NewPostActor creates a new PostActor instance
func NewPostActor(metrics *utils.MetricsCollector, enginePID *actor.PID, store database.Store) actor.Actor {
	return &PostActor{
		postsByID: make(map[uuid.UUID]*models.Post),
		store:     store,
		metrics:   metrics,
		enginePID: enginePID,
	}
}

// Receive handles incoming messages
func (a *PostActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("PostActor started")

	case *actor.Stopping:
		log.Printf("PostActor stopping")

	case *actor.Stopped:
		log.Printf("PostActor stopped")

	case *actor.Restarting:
		log.Printf("PostActor restarting")

	case *CreatePostMsg:
		a.handleCreatePost(context, msg)
	case *GetPostMsg:
		a.handleGetPost(context, msg)
	case *ListPostsMsg:
		a.handleListPosts(context, msg)
	case *GetUserPostsMsg:
		a.handleGetUserPosts(context, msg)
	case *ToggleUpvoteMsg:
		log.Printf("PostActor: Toggling upvote on post %s for user %s", msg.PostID, msg.UserID)
		a.handleToggleVote(context, msg.PostID, msg.UserID, true)
	case *ToggleDownvoteMsg:
		log.Printf("PostActor: Toggling downvote on post %s for user %s", msg.PostID, msg.UserID)
		a.handleToggleVote(context, msg.PostID, msg.UserID, false)
	case *RecordViewMsg:
		a.handleRecordView(context, msg)
	case *SetExplanationMsg:
		a.handleSetExplanation(context, msg)
	case *DeletePostMsg:
		a.handleDeletePost(context, msg)
	case *GetCountsMsg:
		context.Respond(len(a.postsByID))
	default:
		log.Printf("PostActor: Unknown message type: %T", msg)
	}
}

func (a *PostActor) handleCreatePost(context actor.Context, msg *CreatePostMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	title := strings.TrimSpace(msg.Title)
	if title == "" {
		context.Respond(utils.NewValidationError("Title is required"))
		return
	}
	if msg.ImageURL == "" {
		context.Respond(utils.NewValidationError("Image URL is required"))
		return
	}

	template, ok := models.TemplateByID(msg.TemplateID)
	if !ok {
		context.Respond(utils.NewValidationError("Unknown template: "+msg.TemplateID))
		return
	}
	if err := template.ValidateTexts(msg.Texts); err != nil {
		context.Respond(utils.NewValidationError(err.Error()))
		return
	}

	for _, category := range msg.Categories {
		if !models.IsValidCategory(category) {
			context.Respond(utils.NewValidationError("Unknown category: "+string(category)))
			return
		}
	}

	newPost := &models.Post{
		ID:          uuid.New(),
		Title:       title,
		Description: strings.TrimSpace(msg.Description),
		ImageURL:    msg.ImageURL,
		TemplateID:  template.ID,
		Texts:       msg.Texts,
		Categories:  msg.Categories,
		AuthorID:    msg.AuthorID,
		Upvotes:     []uuid.UUID{},
		Downvotes:   []uuid.UUID{},
		PageViews:   []uuid.UUID{},
		CreatedAt:   time.Now(),
	}
	log.Printf("PostActor: Creating new post %s by user %s", newPost.ID, newPost.AuthorID)

	if err := a.store.SavePost(ctx, newPost); err != nil {
		log.Printf("PostActor: Failed to save post %s: %v", newPost.ID, err)
		context.Respond(utils.NewAppError(utils.ErrStoreFailure, "Failed to save post", err))
		return
	}

	a.postsByID[newPost.ID] = newPost

	a.metrics.AddOperationLatency("create_post", time.Since(startTime))
	context.Respond(newPost)
}

func (a *PostActor) handleGetPost(context actor.Context, msg *GetPostMsg) {
	ctx := stdctx.Background()

	post, err := a.store.GetPost(ctx, msg.PostID)
	if err != nil {
		context.Respond(err)
		return
	}

	a.postsByID[post.ID] = post
	context.Respond(post)
}

func (a *PostActor) handleListPosts(context actor.Context, msg *ListPostsMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	posts, err := a.store.GetAllPosts(ctx)
	if err != nil {
		context.Respond(err)
		return
	}

	if len(msg.Categories) > 0 {
		filtered := make([]*models.Post, 0, len(posts))
		for _, post := range posts {
			if post.HasAllCategories(msg.Categories) {
				filtered = append(filtered, post)
			}
		}
		posts = filtered
	}

	a.metrics.AddOperationLatency("list_posts", time.Since(startTime))
	context.Respond(posts)
}

func (a *PostActor) handleGetUserPosts(context actor.Context, msg *GetUserPostsMsg) {
	ctx := stdctx.Background()

	posts, err := a.store.GetUserPosts(ctx, msg.AuthorID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(posts)
}

// handleToggleVote runs the vote toggle in the store, which applies the whole
// transition atomically. The actor mailbox keeps concurrent toggles for the
// same post ordered.
func (a *PostActor) handleToggleVote(context actor.Context, postID, userID uuid.UUID, isUpvote bool) {
	startTime := time.Now()
	ctx := stdctx.Background()

	var (
		post *models.Post
		err  error
	)
	if isUpvote {
		post, err = a.store.ToggleUpvote(ctx, postID, userID)
	} else {
		post, err = a.store.ToggleDownvote(ctx, postID, userID)
	}
	if err != nil {
		log.Printf("PostActor: Vote toggle failed for post %s: %v", postID, err)
		context.Respond(err)
		return
	}

	a.postsByID[post.ID] = post

	a.metrics.AddOperationLatency("toggle_vote", time.Since(startTime))
	context.Respond(post)
}

func (a *PostActor) handleRecordView(context actor.Context, msg *RecordViewMsg) {
	ctx := stdctx.Background()

	post, err := a.store.RecordView(ctx, msg.PostID, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}

	a.postsByID[post.ID] = post
	context.Respond(post)
}

func (a *PostActor) handleSetExplanation(context actor.Context, msg *SetExplanationMsg) {
	ctx := stdctx.Background()

	if err := a.store.SetPostExplanation(ctx, msg.PostID, msg.Explanation); err != nil {
		context.Respond(err)
		return
	}

	post, err := a.store.GetPost(ctx, msg.PostID)
	if err != nil {
		context.Respond(err)
		return
	}

	a.postsByID[post.ID] = post
	context.Respond(post)
}

// handleDeletePost removes a post and its comments. Only the author may
// delete it.
func (a *PostActor) handleDeletePost(context actor.Context, msg *DeletePostMsg) {
	ctx := stdctx.Background()

	post, err := a.store.GetPost(ctx, msg.PostID)
	if err != nil {
		context.Respond(err)
		return
	}

	if post.AuthorID != msg.UserID {
		log.Printf("PostActor: User %s is not the author of post %s", msg.UserID, msg.PostID)
		context.Respond(utils.NewAppError(utils.ErrForbidden, "Only the author can delete this post", nil))
		return
	}

	if err := a.store.DeletePostComments(ctx, msg.PostID); err != nil {
		log.Printf("PostActor: Failed to delete comments for post %s: %v", msg.PostID, err)
		context.Respond(err)
		return
	}
	if err := a.store.DeletePost(ctx, msg.PostID); err != nil {
		context.Respond(err)
		return
	}

	delete(a.postsByID, msg.PostID)

	log.Printf("PostActor: Deleted post %s and its comments", msg.PostID)
	context.Respond(&models.StatusResponse{Success: true, Message: "Post deleted successfully"})
}
