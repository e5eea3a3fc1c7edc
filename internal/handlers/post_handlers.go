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

// CreatePostRequest represents a request to create a new post
type CreatePostRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	ImageURL    string            `json:"imageUrl"`
	TemplateID  string            `json:"templateId"`
	Texts       map[string]string `json:"texts"`
	Categories  []string          `json:"categories"`
}

// VoteRequest represents a request to toggle a vote on a post
type VoteRequest struct {
	PostID   string `json:"postId"`
	IsUpvote bool   `json:"isUpvote"`
}

// ViewRequest represents a request to record a page view
type ViewRequest struct {
	PostID string `json:"postId"`
}

// ExplainRequest asks for an AI explanation of a post's image
type ExplainRequest struct {
	PostID string `json:"postId"`
}

// PostResponse is the post shape returned to clients: vote and view sets are
// projected to counts, plus the caller's own vote state.
type PostResponse struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description,omitempty"`
	ImageURL      string            `json:"imageUrl"`
	TemplateID    string            `json:"templateId,omitempty"`
	Texts         map[string]string `json:"texts,omitempty"`
	AuthorID      string            `json:"authorId"`
	Categories    []models.Category `json:"categories"`
	Upvotes       int               `json:"upvotes"`
	Downvotes     int               `json:"downvotes"`
	PageViews     int               `json:"pageViews"`
	CommentsCount int               `json:"commentsCount"`
	UserVote      string            `json:"userVote"`
	AIExplanation string            `json:"aiExplanation,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

func postToResponse(post *models.Post, viewerID uuid.UUID) *PostResponse {
	var userVote string
	switch post.VoteStateOf(viewerID) {
	case models.VoteUp:
		userVote = "up"
	case models.VoteDown:
		userVote = "down"
	default:
		userVote = "none"
	}

	return &PostResponse{
		ID:            post.ID.String(),
		Title:         post.Title,
		Description:   post.Description,
		ImageURL:      post.ImageURL,
		TemplateID:    post.TemplateID,
		Texts:         post.Texts,
		AuthorID:      post.AuthorID.String(),
		Categories:    post.Categories,
		Upvotes:       post.UpvoteCount(),
		Downvotes:     post.DownvoteCount(),
		PageViews:     post.ViewCount(),
		CommentsCount: post.CommentsCount,
		UserVote:      userVote,
		AIExplanation: post.AIExplanation,
		CreatedAt:     post.CreatedAt,
	}
}

// HandlePost handles post creation, detail lookup and deletion
func (s *Server) HandlePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		switch r.Method {
		case http.MethodPost:
			s.handleCreatePost(w, r)
		case http.MethodGet:
			s.handleGetPost(w, r)
		case http.MethodDelete:
			s.handleDeletePost(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	categories := make([]models.Category, 0, len(req.Categories))
	for _, c := range req.Categories {
		categories = append(categories, models.Category(c))
	}

	result, err := s.ask(s.Engine.GetPostActor(), &actors.CreatePostMsg{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		TemplateID:  req.TemplateID,
		Texts:       req.Texts,
		Categories:  categories,
		AuthorID:    userID,
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to create post: %v", err), http.StatusInternalServerError)
		return
	}

	if post, ok := result.(*models.Post); ok {
		s.respondJSON(w, postToResponse(post, userID), http.StatusCreated)
		return
	}
	s.respondJSON(w, result, http.StatusCreated)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	postID, err := uuid.Parse(r.URL.Query().Get("postId"))
	if err != nil {
		http.Error(w, "Invalid post ID format", http.StatusBadRequest)
		return
	}

	result, err := s.ask(s.Engine.GetPostActor(), &actors.GetPostMsg{PostID: postID})
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to get post: %v", err), http.StatusInternalServerError)
		return
	}

	post, ok := result.(*models.Post)
	if !ok {
		s.respondJSON(w, result, http.StatusOK)
		return
	}

	// The stored count is a projection that may lag. Refresh it on detail
	// reads, where the exact number matters.
	countResult, err := s.ask(s.Engine.GetCommentActor(), &actors.GetCommentCountMsg{PostID: postID})
	if err == nil {
		if count, ok := countResult.(int); ok {
			post.CommentsCount = count
		}
	}

	s.respondJSON(w, postToResponse(post, userID), http.StatusOK)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	postID, err := uuid.Parse(r.URL.Query().Get("postId"))
	if err != nil {
		http.Error(w, "Invalid post ID format", http.StatusBadRequest)
		return
	}

	result, err := s.ask(s.Engine.GetPostActor(), &actors.DeletePostMsg{
		PostID: postID,
		UserID: userID,
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to delete post: %v", err), http.StatusInternalServerError)
		return
	}

	s.respondJSON(w, result, http.StatusOK)
}

// HandleListPosts returns the gallery, optionally filtered by categories.
// A post matches only when it carries every requested category.
func (s *Server) HandleListPosts() http.HandlerFunc {
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

		var categories []models.Category
		for _, c := range r.URL.Query()["category"] {
			category := models.Category(c)
			if !models.IsValidCategory(category) {
				http.Error(w, "Unknown category: "+c, http.StatusBadRequest)
				return
			}
			categories = append(categories, category)
		}

		result, err := s.ask(s.Engine.GetPostActor(), &actors.ListPostsMsg{Categories: categories})
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to list posts: %v", err), http.StatusInternalServerError)
			return
		}

		posts, ok := result.([]*models.Post)
		if !ok {
			s.respondJSON(w, result, http.StatusOK)
			return
		}

		responses := make([]*PostResponse, 0, len(posts))
		for _, post := range posts {
			// Gallery items carry the same refreshed comment-count projection
			// as detail reads. The count cache keeps this cheap per post.
			countResult, err := s.ask(s.Engine.GetCommentActor(), &actors.GetCommentCountMsg{PostID: post.ID})
			if err == nil {
				if count, ok := countResult.(int); ok {
					post.CommentsCount = count
				}
			}
			responses = append(responses, postToResponse(post, userID))
		}
		s.respondJSON(w, responses, http.StatusOK)
	}
}

// HandleVote toggles the caller's vote on a post
func (s *Server) HandleVote() http.HandlerFunc {
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

		var req VoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		postID, err := uuid.Parse(req.PostID)
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		var msg interface{}
		if req.IsUpvote {
			msg = &actors.ToggleUpvoteMsg{PostID: postID, UserID: userID}
		} else {
			msg = &actors.ToggleDownvoteMsg{PostID: postID, UserID: userID}
		}

		result, err := s.ask(s.Engine.GetPostActor(), msg)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to process vote: %v", err), http.StatusInternalServerError)
			return
		}

		if post, ok := result.(*models.Post); ok {
			s.respondJSON(w, postToResponse(post, userID), http.StatusOK)
			return
		}
		s.respondJSON(w, result, http.StatusOK)
	}
}

// HandleView records a page view for the caller. Views are idempotent per
// user.
func (s *Server) HandleView() http.HandlerFunc {
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

		var req ViewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		postID, err := uuid.Parse(req.PostID)
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.GetPostActor(), &actors.RecordViewMsg{
			PostID: postID,
			UserID: userID,
		})
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to record view: %v", err), http.StatusInternalServerError)
			return
		}

		if post, ok := result.(*models.Post); ok {
			s.respondJSON(w, postToResponse(post, userID), http.StatusOK)
			return
		}
		s.respondJSON(w, result, http.StatusOK)
	}
}

// HandleExplain generates an AI explanation for a post's image and stores it
// on the post.
func (s *Server) HandleExplain() http.HandlerFunc {
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

		if s.Explainer == nil {
			http.Error(w, "Image explanation is not configured", http.StatusServiceUnavailable)
			return
		}

		var req ExplainRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		postID, err := uuid.Parse(req.PostID)
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.GetPostActor(), &actors.GetPostMsg{PostID: postID})
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to get post: %v", err), http.StatusInternalServerError)
			return
		}
		post, ok := result.(*models.Post)
		if !ok {
			s.respondJSON(w, result, http.StatusOK)
			return
		}

		// Reuse a previously generated explanation instead of paying for a
		// new completion.
		if post.AIExplanation != "" {
			s.respondJSON(w, postToResponse(post, userID), http.StatusOK)
			return
		}

		explanation, err := s.Explainer.Explain(r.Context(), post.ImageURL)
		if err != nil {
			s.Metrics.IncrementErrors()
			http.Error(w, "Failed to generate explanation", http.StatusBadGateway)
			return
		}

		result, err = s.ask(s.Engine.GetPostActor(), &actors.SetExplanationMsg{
			PostID:      postID,
			Explanation: explanation,
		})
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to store explanation: %v", err), http.StatusInternalServerError)
			return
		}

		if post, ok := result.(*models.Post); ok {
			s.respondJSON(w, postToResponse(post, userID), http.StatusOK)
			return
		}
		s.respondJSON(w, result, http.StatusOK)
	}
}
