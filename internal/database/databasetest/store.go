// Package databasetest provides an in-memory Store implementation for tests.
// It applies the same vote/like transitions as the MongoDB store, guarded by
// a single mutex standing in for the store-side transaction.
package databasetest

import (
	"context"
	"sort"
	"sync"

	"github.com/s-nagoti/VT-Memegen/internal/models"
	"github.com/s-nagoti/VT-Memegen/internal/utils"

	"github.com/google/uuid"
)

type Store struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*models.User
	posts    map[uuid.UUID]*models.Post
	comments map[uuid.UUID]*models.Comment

	// FailWrites makes every mutation return a store failure, for testing
	// error propagation.
	FailWrites bool
}

func NewStore() *Store {
	return &Store{
		users:    make(map[uuid.UUID]*models.User),
		posts:    make(map[uuid.UUID]*models.Post),
		comments: make(map[uuid.UUID]*models.Comment),
	}
}

func (s *Store) Close(ctx context.Context) error { return nil }

func (s *Store) failure() error {
	return utils.NewAppError(utils.ErrStoreFailure, "Simulated store failure", nil)
}

func (s *Store) SaveUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return s.failure()
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrUserNotFound, "User not found", nil)
	}
	copied := *user
	return &copied, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, utils.NewAppError(utils.ErrUserNotFound, "User not found", nil)
}

func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return s.failure()
	}
	if _, ok := s.users[id]; !ok {
		return utils.NewAppError(utils.ErrUserNotFound, "User not found", nil)
	}
	delete(s.users, id)
	return nil
}

func (s *Store) SavePost(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return s.failure()
	}
	copied := *post
	s.posts[post.ID] = &copied
	return nil
}

func (s *Store) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getPostLocked(id)
}

func (s *Store) getPostLocked(id uuid.UUID) (*models.Post, error) {
	post, ok := s.posts[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}
	copied := *post
	return &copied, nil
}

func (s *Store) GetAllPosts(ctx context.Context) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts := make([]*models.Post, 0, len(s.posts))
	for _, post := range s.posts {
		copied := *post
		posts = append(posts, &copied)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (s *Store) GetUserPosts(ctx context.Context, authorID uuid.UUID) ([]*models.Post, error) {
	all, err := s.GetAllPosts(ctx)
	if err != nil {
		return nil, err
	}
	var posts []*models.Post
	for _, post := range all {
		if post.AuthorID == authorID {
			posts = append(posts, post)
		}
	}
	return posts, nil
}

func (s *Store) SetPostExplanation(ctx context.Context, postID uuid.UUID, explanation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return s.failure()
	}
	post, ok := s.posts[postID]
	if !ok {
		return utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}
	post.AIExplanation = explanation
	return nil
}

func (s *Store) DeletePost(ctx context.Context, postID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return s.failure()
	}
	if _, ok := s.posts[postID]; !ok {
		return utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}
	delete(s.posts, postID)
	return nil
}

func (s *Store) ToggleUpvote(ctx context.Context, postID, userID uuid.UUID) (*models.Post, error) {
	return s.togglePostVote(postID, userID, models.ToggleUpvote)
}

func (s *Store) ToggleDownvote(ctx context.Context, postID, userID uuid.UUID) (*models.Post, error) {
	return s.togglePostVote(postID, userID, models.ToggleDownvote)
}

func (s *Store) togglePostVote(postID, userID uuid.UUID, toggle func(models.VoteState) models.VoteTransition) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return nil, s.failure()
	}

	post, ok := s.posts[postID]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}

	transition := toggle(post.VoteStateOf(userID))
	transition.Apply(post, userID)

	if user, ok := s.users[userID]; ok {
		transition.ApplyToUser(user, postID)
	}

	copied := *post
	return &copied, nil
}

func (s *Store) RecordView(ctx context.Context, postID, userID uuid.UUID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return nil, s.failure()
	}

	post, ok := s.posts[postID]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}
	if !post.HasViewed(userID) {
		post.PageViews = append(post.PageViews, userID)
	}
	copied := *post
	return &copied, nil
}

func (s *Store) SaveComment(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return s.failure()
	}
	copied := *comment
	s.comments[comment.ID] = &copied
	return nil
}

func (s *Store) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comment, ok := s.comments[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Comment not found", nil)
	}
	copied := *comment
	return &copied, nil
}

func (s *Store) GetPostComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var comments []*models.Comment
	for _, comment := range s.comments {
		if comment.PostID == postID {
			copied := *comment
			comments = append(comments, &copied)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func (s *Store) ToggleCommentLike(ctx context.Context, commentID, userID uuid.UUID) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return nil, s.failure()
	}

	comment, ok := s.comments[commentID]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Comment not found", nil)
	}
	comment.ToggleLike(userID)
	copied := *comment
	return &copied, nil
}

func (s *Store) CountPostComments(ctx context.Context, postID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, comment := range s.comments {
		if comment.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (s *Store) DeletePostComments(ctx context.Context, postID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return s.failure()
	}
	for id, comment := range s.comments {
		if comment.PostID == postID {
			delete(s.comments, id)
		}
	}
	return nil
}
