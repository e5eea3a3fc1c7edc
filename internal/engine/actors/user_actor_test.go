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

const testSecret = "test-secret-do-not-use"

func spawnUserSupervisor(t *testing.T, store *databasetest.Store) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewUserSupervisor(store, testSecret, time.Hour)
	})
	pid := system.Root.Spawn(props)
	return system, pid
}

func registerTestUser(t *testing.T, system *actor.ActorSystem, pid *actor.PID, email string) *models.User {
	t.Helper()
	future := system.Root.RequestFuture(pid, &RegisterUserMsg{
		Username: "hokie",
		Email:    email,
		Password: "testpass123",
	}, testTimeout)
	result, err := future.Result()
	require.NoError(t, err)
	user, ok := result.(*models.User)
	require.True(t, ok, "expected *models.User, got %T: %v", result, result)
	return user
}

func TestRegisterAndLogin(t *testing.T) {
	store := databasetest.NewStore()
	system, pid := spawnUserSupervisor(t, store)

	user := registerTestUser(t, system, pid, "hokie@vt.edu")
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEmpty(t, user.HashedPassword)

	future := system.Root.RequestFuture(pid, &LoginMsg{
		Email:    "hokie@vt.edu",
		Password: "testpass123",
	}, testTimeout)
	result, err := future.Result()
	require.NoError(t, err)

	resp, ok := result.(*LoginResponse)
	require.True(t, ok)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID.String(), resp.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	store := databasetest.NewStore()
	system, pid := spawnUserSupervisor(t, store)
	registerTestUser(t, system, pid, "hokie@vt.edu")

	future := system.Root.RequestFuture(pid, &LoginMsg{
		Email:    "hokie@vt.edu",
		Password: "wrong",
	}, testTimeout)
	result, err := future.Result()
	require.NoError(t, err)

	resp, ok := result.(*LoginResponse)
	require.True(t, ok)
	assert.False(t, resp.Success)
	assert.Empty(t, resp.Token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := databasetest.NewStore()
	system, pid := spawnUserSupervisor(t, store)
	registerTestUser(t, system, pid, "hokie@vt.edu")

	future := system.Root.RequestFuture(pid, &RegisterUserMsg{
		Username: "imposter",
		Email:    "hokie@vt.edu",
		Password: "testpass123",
	}, testTimeout)
	result, err := future.Result()
	require.NoError(t, err)

	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrUserAlreadyExists, appErr.Code)
}

func TestProfileAggregatesUpvotesEarned(t *testing.T) {
	store := databasetest.NewStore()
	system, pid := spawnUserSupervisor(t, store)
	user := registerTestUser(t, system, pid, "hokie@vt.edu")

	ctx := context.Background()
	post := &models.Post{
		ID:       uuid.New(),
		Title:    "popular",
		AuthorID: user.ID,
		Upvotes:  []uuid.UUID{uuid.New(), uuid.New(), uuid.New()},
	}
	require.NoError(t, store.SavePost(ctx, post))

	future := system.Root.RequestFuture(pid, &GetUserProfileMsg{UserID: user.ID}, testTimeout)
	result, err := future.Result()
	require.NoError(t, err)

	profile, ok := result.(*UserProfile)
	require.True(t, ok, "expected *UserProfile, got %T: %v", result, result)
	assert.Equal(t, 3, profile.UpvotesEarned)
	assert.Len(t, profile.Posts, 1)
	assert.Empty(t, profile.User.HashedPassword)
}

func TestDeleteAccountCascades(t *testing.T) {
	store := databasetest.NewStore()
	system, pid := spawnUserSupervisor(t, store)
	user := registerTestUser(t, system, pid, "hokie@vt.edu")

	ctx := context.Background()
	post := &models.Post{ID: uuid.New(), Title: "mine", AuthorID: user.ID}
	require.NoError(t, store.SavePost(ctx, post))
	comment := &models.Comment{ID: uuid.New(), PostID: post.ID, AuthorID: uuid.New(), Text: "bye"}
	require.NoError(t, store.SaveComment(ctx, comment))

	future := system.Root.RequestFuture(pid, &DeleteAccountMsg{UserID: user.ID}, testTimeout)
	result, err := future.Result()
	require.NoError(t, err)

	status, ok := result.(*models.StatusResponse)
	require.True(t, ok, "unexpected delete result: %v", result)
	assert.True(t, status.Success)

	_, err = store.GetUser(ctx, user.ID)
	assert.Error(t, err)
	_, err = store.GetPost(ctx, post.ID)
	assert.Error(t, err)
	count, err := store.CountPostComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
