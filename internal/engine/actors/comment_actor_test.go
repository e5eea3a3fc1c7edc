package actors

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/s-nagoti/VT-Memegen/internal/database/databasetest"
	"github.com/s-nagoti/VT-Memegen/internal/models"
	"github.com/s-nagoti/VT-Memegen/internal/utils"
	"github.com/s-nagoti/VT-Memegen/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnCommentActor(t *testing.T, store *databasetest.Store, hub *websocket.Hub) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewCommentActor(store, hub, nil)
	})
	pid := system.Root.Spawn(props)
	return system, pid
}

func seedPostAndUser(t *testing.T, store *databasetest.Store) (*models.Post, *models.User) {
	t.Helper()
	ctx := context.Background()

	user := &models.User{ID: uuid.New(), Username: "hokie", Email: "hokie@vt.edu"}
	require.NoError(t, store.SaveUser(ctx, user))

	post := &models.Post{
		ID:        uuid.New(),
		Title:     "Lane Stadium at 8am",
		ImageURL:  "https://example.com/meme.png",
		AuthorID:  user.ID,
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.SavePost(ctx, post))
	return post, user
}

func TestAddCommentDenormalizesUsername(t *testing.T) {
	store := databasetest.NewStore()
	system, pid := spawnCommentActor(t, store, nil)
	post, user := seedPostAndUser(t, store)

	future := system.Root.RequestFuture(pid, &AddCommentMsg{
		PostID:   post.ID,
		AuthorID: user.ID,
		Text:     "  first!  ",
	}, testTimeout)
	result, err := future.Result()
	require.NoError(t, err)

	comment, ok := result.(*models.Comment)
	require.True(t, ok, "expected *models.Comment, got %T: %v", result, result)
	assert.Equal(t, "hokie", comment.AuthorUsername)
	assert.Equal(t, "first!", comment.Text)
	assert.Equal(t, post.ID, comment.PostID)
}

func TestAddCommentRejectsEmptyText(t *testing.T) {
	store := databasetest.NewStore()
	system, pid := spawnCommentActor(t, store, nil)
	post, user := seedPostAndUser(t, store)

	future := system.Root.RequestFuture(pid, &AddCommentMsg{
		PostID:   post.ID,
		AuthorID: user.ID,
		Text:     "   ",
	}, testTimeout)
	result, err := future.Result()
	require.NoError(t, err)

	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrValidation, appErr.Code)
}

func TestAddCommentToMissingPost(t *testing.T) {
	store := databasetest.NewStore()
	system, pid := spawnCommentActor(t, store, nil)

	future := system.Root.RequestFuture(pid, &AddCommentMsg{
		PostID:   uuid.New(),
		AuthorID: uuid.New(),
		Text:     "hello?",
	}, testTimeout)
	result, err := future.Result()
	require.NoError(t, err)

	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestCommentLikeRoundTrip(t *testing.T) {
	store := databasetest.NewStore()
	system, pid := spawnCommentActor(t, store, nil)
	post, user := seedPostAndUser(t, store)

	future := system.Root.RequestFuture(pid, &AddCommentMsg{
		PostID:   post.ID,
		AuthorID: user.ID,
		Text:     "like me",
	}, testTimeout)
	result, err := future.Result()
	require.NoError(t, err)
	comment := result.(*models.Comment)

	liker := uuid.New()

	future = system.Root.RequestFuture(pid, &ToggleCommentLikeMsg{CommentID: comment.ID, UserID: liker}, testTimeout)
	result, err = future.Result()
	require.NoError(t, err)
	updated, ok := result.(*models.Comment)
	require.True(t, ok)
	assert.True(t, updated.LikedBy(liker))
	assert.Equal(t, 1, updated.LikeCount())

	future = system.Root.RequestFuture(pid, &ToggleCommentLikeMsg{CommentID: comment.ID, UserID: liker}, testTimeout)
	result, err = future.Result()
	require.NoError(t, err)
	updated = result.(*models.Comment)
	assert.False(t, updated.LikedBy(liker))
	assert.Equal(t, 0, updated.LikeCount())
}

func TestGetPostCommentsOrderedOldestFirst(t *testing.T) {
	store := databasetest.NewStore()
	system, pid := spawnCommentActor(t, store, nil)
	post, user := seedPostAndUser(t, store)

	texts := []string{"one", "two", "three"}
	for _, text := range texts {
		future := system.Root.RequestFuture(pid, &AddCommentMsg{
			PostID:   post.ID,
			AuthorID: user.ID,
			Text:     text,
		}, testTimeout)
		result, err := future.Result()
		require.NoError(t, err)
		_, ok := result.(*models.Comment)
		require.True(t, ok, "unexpected add result: %v", result)
		time.Sleep(5 * time.Millisecond)
	}

	future := system.Root.RequestFuture(pid, &GetPostCommentsMsg{PostID: post.ID}, testTimeout)
	result, err := future.Result()
	require.NoError(t, err)

	comments, ok := result.([]*models.Comment)
	require.True(t, ok)
	require.Len(t, comments, 3)
	for i, text := range texts {
		assert.Equal(t, text, comments[i].Text)
	}
}

func TestCommentCountReflectsAdds(t *testing.T) {
	store := databasetest.NewStore()
	system, pid := spawnCommentActor(t, store, nil)
	post, user := seedPostAndUser(t, store)

	for i := 0; i < 4; i++ {
		future := system.Root.RequestFuture(pid, &AddCommentMsg{
			PostID:   post.ID,
			AuthorID: user.ID,
			Text:     "another",
		}, testTimeout)
		_, err := future.Result()
		require.NoError(t, err)
	}

	future := system.Root.RequestFuture(pid, &GetCommentCountMsg{PostID: post.ID}, testTimeout)
	result, err := future.Result()
	require.NoError(t, err)
	assert.Equal(t, 4, result)
}

// Every mutation publishes a full snapshot, and snapshots arrive in mutation
// order.
func TestFeedSnapshotsDeliveredInOrder(t *testing.T) {
	store := databasetest.NewStore()
	hub := websocket.NewHub()
	go hub.Run()

	system, pid := spawnCommentActor(t, store, hub)
	post, user := seedPostAndUser(t, store)

	sub := hub.Subscribe(post.ID)
	defer sub.Cancel()

	texts := []string{"alpha", "beta", "gamma"}
	for _, text := range texts {
		future := system.Root.RequestFuture(pid, &AddCommentMsg{
			PostID:   post.ID,
			AuthorID: user.ID,
			Text:     text,
		}, testTimeout)
		result, err := future.Result()
		require.NoError(t, err)
		_, ok := result.(*models.Comment)
		require.True(t, ok, "unexpected add result: %v", result)
		time.Sleep(5 * time.Millisecond)
	}

	for i := range texts {
		select {
		case payload := <-sub.Send:
			var snapshot CommentFeedSnapshot
			require.NoError(t, json.Unmarshal(payload, &snapshot))
			assert.Equal(t, post.ID.String(), snapshot.PostID)
			require.Len(t, snapshot.Comments, i+1)
			for j := 0; j <= i; j++ {
				assert.Equal(t, texts[j], snapshot.Comments[j].Text)
			}
		case <-time.After(testTimeout):
			t.Fatalf("timed out waiting for snapshot %d", i+1)
		}
	}
}

func TestCancelledSubscriberReceivesNothing(t *testing.T) {
	store := databasetest.NewStore()
	hub := websocket.NewHub()
	go hub.Run()

	system, pid := spawnCommentActor(t, store, hub)
	post, user := seedPostAndUser(t, store)

	sub := hub.Subscribe(post.ID)
	sub.Cancel()

	// Wait for the unregister to land before mutating.
	require.Eventually(t, func() bool {
		return hub.SubscriberCount(post.ID) == 0
	}, testTimeout, 10*time.Millisecond)

	future := system.Root.RequestFuture(pid, &AddCommentMsg{
		PostID:   post.ID,
		AuthorID: user.ID,
		Text:     "nobody hears this",
	}, testTimeout)
	_, err := future.Result()
	require.NoError(t, err)

	_, open := <-sub.Send
	assert.False(t, open, "cancelled subscriber channel should be closed")
}
