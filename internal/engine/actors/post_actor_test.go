package actors

import (
	"context"
	"testing"
	"time"

	"github.com/s-nagoti/VT-Memegen/internal/database/databasetest"
	"github.com/s-nagoti/VT-Memegen/internal/models"
	"github.com/s-nagoti/VT-Memegen/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTimeout = 5 * time.Second

func spawnPostActor(t *testing.T, store *databasetest.Store) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewPostActor(utils.NewMetricsCollector(), nil, store)
	})
	pid := system.Root.Spawn(props)
	return system, pid
}

func createTestPost(t *testing.T, system *actor.ActorSystem, pid *actor.PID, authorID uuid.UUID) *models.Post {
	t.Helper()
	future := system.Root.RequestFuture(pid, &CreatePostMsg{
		Title:      "Dining hall lines",
		ImageURL:   "https://example.com/meme.png",
		TemplateID: "template3",
		Texts:      map[string]string{"bottomText": "still waiting"},
		Categories: []models.Category{models.CategoryDining},
		AuthorID:   authorID,
	}, testTimeout)
	result, err := future.Result()
	require.NoError(t, err)
	post, ok := result.(*models.Post)
	require.True(t, ok, "expected *models.Post, got %T: %v", result, result)
	return post
}

func TestCreatePostValidatesTemplate(t *testing.T) {
	store := databasetest.NewStore()
	system, pid := spawnPostActor(t, store)

	future := system.Root.RequestFuture(pid, &CreatePostMsg{
		Title:      "bad template",
		ImageURL:   "https://example.com/meme.png",
		TemplateID: "template99",
		Texts:      map[string]string{},
		AuthorID:   uuid.New(),
	}, testTimeout)
	result, err := future.Result()
	require.NoError(t, err)

	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrValidation, appErr.Code)
}

func TestCreatePostRequiresAllTemplateTexts(t *testing.T) {
	store := databasetest.NewStore()
	system, pid := spawnPostActor(t, store)

	future := system.Root.RequestFuture(pid, &CreatePostMsg{
		Title:      "half filled",
		ImageURL:   "https://example.com/meme.png",
		TemplateID: "template1",
		Texts:      map[string]string{"leftButton": "only one"},
		AuthorID:   uuid.New(),
	}, testTimeout)
	result, err := future.Result()
	require.NoError(t, err)

	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrValidation, appErr.Code)
}

func TestVoteToggleScenario(t *testing.T) {
	store := databasetest.NewStore()
	system, pid := spawnPostActor(t, store)

	authorID := uuid.New()
	post := createTestPost(t, system, pid, authorID)
	userID := uuid.New()

	toggle := func(msg interface{}) *models.Post {
		future := system.Root.RequestFuture(pid, msg, testTimeout)
		result, err := future.Result()
		require.NoError(t, err)
		updated, ok := result.(*models.Post)
		require.True(t, ok, "expected *models.Post, got %T: %v", result, result)
		return updated
	}

	// Upvote, then switch to downvote, then clear the downvote.
	updated := toggle(&ToggleUpvoteMsg{PostID: post.ID, UserID: userID})
	assert.Equal(t, 1, updated.UpvoteCount())
	assert.Equal(t, 0, updated.DownvoteCount())

	updated = toggle(&ToggleDownvoteMsg{PostID: post.ID, UserID: userID})
	assert.Equal(t, 0, updated.UpvoteCount())
	assert.Equal(t, 1, updated.DownvoteCount())

	updated = toggle(&ToggleDownvoteMsg{PostID: post.ID, UserID: userID})
	assert.Equal(t, 0, updated.UpvoteCount())
	assert.Equal(t, 0, updated.DownvoteCount())
	assert.Equal(t, models.VoteNone, updated.VoteStateOf(userID))
}

func TestVoteOnMissingPost(t *testing.T) {
	store := databasetest.NewStore()
	system, pid := spawnPostActor(t, store)

	future := system.Root.RequestFuture(pid, &ToggleUpvoteMsg{
		PostID: uuid.New(),
		UserID: uuid.New(),
	}, testTimeout)
	result, err := future.Result()
	require.NoError(t, err)

	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestRecordViewIsIdempotent(t *testing.T) {
	store := databasetest.NewStore()
	system, pid := spawnPostActor(t, store)

	post := createTestPost(t, system, pid, uuid.New())
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		future := system.Root.RequestFuture(pid, &RecordViewMsg{PostID: post.ID, UserID: userID}, testTimeout)
		result, err := future.Result()
		require.NoError(t, err)
		updated, ok := result.(*models.Post)
		require.True(t, ok)
		assert.Equal(t, 1, updated.ViewCount())
	}
}

func TestListPostsFiltersByAllCategories(t *testing.T) {
	store := databasetest.NewStore()
	system, pid := spawnPostActor(t, store)

	authorID := uuid.New()
	create := func(categories []models.Category) {
		future := system.Root.RequestFuture(pid, &CreatePostMsg{
			Title:      "tagged post",
			ImageURL:   "https://example.com/meme.png",
			TemplateID: "template3",
			Texts:      map[string]string{"bottomText": "tagged"},
			Categories: categories,
			AuthorID:   authorID,
		}, testTimeout)
		result, err := future.Result()
		require.NoError(t, err)
		_, ok := result.(*models.Post)
		require.True(t, ok, "unexpected create result: %v", result)
	}

	create([]models.Category{models.CategoryHousing})
	create([]models.Category{models.CategoryHousing, models.CategorySports})
	create([]models.Category{models.CategorySports})

	future := system.Root.RequestFuture(pid, &ListPostsMsg{
		Categories: []models.Category{models.CategoryHousing, models.CategorySports},
	}, testTimeout)
	result, err := future.Result()
	require.NoError(t, err)

	posts, ok := result.([]*models.Post)
	require.True(t, ok)
	// Only the post carrying both tags matches.
	require.Len(t, posts, 1)
	assert.True(t, posts[0].HasAllCategories([]models.Category{models.CategoryHousing, models.CategorySports}))
}

func TestDeletePostIsAuthorOnlyAndCascades(t *testing.T) {
	store := databasetest.NewStore()
	system, pid := spawnPostActor(t, store)

	authorID := uuid.New()
	post := createTestPost(t, system, pid, authorID)

	// Attach a comment so we can observe the cascade.
	comment := &models.Comment{ID: uuid.New(), PostID: post.ID, AuthorID: uuid.New(), Text: "rip"}
	require.NoError(t, store.SaveComment(context.Background(), comment))

	future := system.Root.RequestFuture(pid, &DeletePostMsg{PostID: post.ID, UserID: uuid.New()}, testTimeout)
	result, err := future.Result()
	require.NoError(t, err)
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)

	future = system.Root.RequestFuture(pid, &DeletePostMsg{PostID: post.ID, UserID: authorID}, testTimeout)
	result, err = future.Result()
	require.NoError(t, err)
	status, ok := result.(*models.StatusResponse)
	require.True(t, ok, "unexpected delete result: %v", result)
	assert.True(t, status.Success)

	_, err = store.GetPost(context.Background(), post.ID)
	assert.Error(t, err)
	count, err := store.CountPostComments(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
