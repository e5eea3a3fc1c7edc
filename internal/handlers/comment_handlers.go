package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/s-nagoti/VT-Memegen/internal/engine/actors"
	"github.com/s-nagoti/VT-Memegen/internal/models"

	"github.com/google/uuid"
)

// AddCommentRequest represents a request to add a comment to a post
type AddCommentRequest struct {
	PostID string `json:"postId"`
	Text   string `json:"text"`
}

// CommentLikeRequest toggles the caller's like on a comment
type CommentLikeRequest struct {
	CommentID string `json:"commentId"`
}

// CommentResponse is the comment shape returned to clients
type CommentResponse struct {
	ID             string    `json:"id"`
	PostID         string    `json:"postId"`
	AuthorID       string    `json:"authorId"`
	AuthorUsername string    `json:"authorUsername"`
	Text           string    `json:"text"`
	Likes          int       `json:"likes"`
	LikedByUser    bool      `json:"likedByUser"`
	CreatedAt      time.Time `json:"createdAt"`
}

func commentToResponse(comment *models.Comment, viewerID uuid.UUID) *CommentResponse {
	return &CommentResponse{
		ID:             comment.ID.String(),
		PostID:         comment.PostID.String(),
		AuthorID:       comment.AuthorID.String(),
		AuthorUsername: comment.AuthorUsername,
		Text:           comment.Text,
		Likes:          comment.LikeCount(),
		LikedByUser:    comment.LikedBy(viewerID),
		CreatedAt:      comment.CreatedAt,
	}
}

// HandleComment handles comment creation
func (s *Server) HandleComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID, ok := userIDFromRequest(w, r)
		if !ok {
			return
		}

		var req AddCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		postID, err := uuid.Parse(req.PostID)
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.GetCommentActor(), &actors.AddCommentMsg{
			PostID:   postID,
			AuthorID: userID,
			Text:     req.Text,
		})
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to create comment: %v", err), http.StatusInternalServerError)
			return
		}

		if comment, ok := result.(*models.Comment); ok {
			s.respondJSON(w, commentToResponse(comment, userID), http.StatusCreated)
			return
		}
		s.respondJSON(w, result, http.StatusCreated)
	}
}

// HandleGetPostComments returns a post's comments, oldest first
func (s *Server) HandleGetPostComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID, ok := userIDFromRequest(w, r)
		if !ok {
			return
		}

		postID, err := uuid.Parse(r.URL.Query().Get("postId"))
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.GetCommentActor(), &actors.GetPostCommentsMsg{PostID: postID})
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to fetch comments: %v", err), http.StatusInternalServerError)
			return
		}

		comments, ok := result.([]*models.Comment)
		if !ok {
			s.respondJSON(w, result, http.StatusOK)
			return
		}

		responses := make([]*CommentResponse, 0, len(comments))
		for _, comment := range comments {
			responses = append(responses, commentToResponse(comment, userID))
		}
		s.respondJSON(w, responses, http.StatusOK)
	}
}

// HandleCommentLike toggles the caller's like on a comment
func (s *Server) HandleCommentLike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID, ok := userIDFromRequest(w, r)
		if !ok {
			return
		}

		var req CommentLikeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		commentID, err := uuid.Parse(req.CommentID)
		if err != nil {
			http.Error(w, "Invalid comment ID format", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.GetCommentActor(), &actors.ToggleCommentLikeMsg{
			CommentID: commentID,
			UserID:    userID,
		})
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to toggle like: %v", err), http.StatusInternalServerError)
			return
		}

		if comment, ok := result.(*models.Comment); ok {
			s.respondJSON(w, commentToResponse(comment, userID), http.StatusOK)
			return
		}
		s.respondJSON(w, result, http.StatusOK)
	}
}
