package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/s-nagoti/VT-Memegen/internal/engine/actors"
	"github.com/s-nagoti/VT-Memegen/internal/models"

	"github.com/google/uuid"
)

// RegisterRequest represents a request to register a new user
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the user shape returned to clients
type UserResponse struct {
	ID         string   `json:"id"`
	Username   string   `json:"username"`
	Email      string   `json:"email"`
	Bio        string   `json:"bio,omitempty"`
	LikedPosts []string `json:"likedPosts"`
}

func userToResponse(user *models.User) *UserResponse {
	likedPosts := make([]string, 0, len(user.LikedPosts))
	for _, id := range user.LikedPosts {
		likedPosts = append(likedPosts, id.String())
	}
	return &UserResponse{
		ID:         user.ID.String(),
		Username:   user.Username,
		Email:      user.Email,
		Bio:        user.Bio,
		LikedPosts: likedPosts,
	}
}

// HandleRegister handles user registration
func (s *Server) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.GetUserSupervisor(), &actors.RegisterUserMsg{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to register user: %v", err), http.StatusInternalServerError)
			return
		}

		if user, ok := result.(*models.User); ok {
			s.respondJSON(w, userToResponse(user), http.StatusCreated)
			return
		}
		s.respondJSON(w, result, http.StatusCreated)
	}
}

// HandleLogin handles login requests and returns a JWT on success
func (s *Server) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.GetUserSupervisor(), &actors.LoginMsg{
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			http.Error(w, fmt.Sprintf("Login failed: %v", err), http.StatusInternalServerError)
			return
		}

		if resp, ok := result.(*actors.LoginResponse); ok && !resp.Success {
			s.Metrics.IncrementErrors()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(resp)
			return
		}

		s.respondJSON(w, result, http.StatusOK)
	}
}

// HandleProfile returns the caller's profile, or another user's when userId
// is given
func (s *Server) HandleProfile() http.HandlerFunc {
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

		if raw := r.URL.Query().Get("userId"); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				http.Error(w, "Invalid user ID format", http.StatusBadRequest)
				return
			}
			userID = parsed
		}

		result, err := s.ask(s.Engine.GetUserSupervisor(), &actors.GetUserProfileMsg{UserID: userID})
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to get profile: %v", err), http.StatusInternalServerError)
			return
		}

		s.respondJSON(w, result, http.StatusOK)
	}
}

// HandleDeleteAccount removes the caller's account together with their posts
// and those posts' comments
func (s *Server) HandleDeleteAccount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		if r.Method != http.MethodDelete {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID, ok := userIDFromRequest(w, r)
		if !ok {
			return
		}

		result, err := s.ask(s.Engine.GetUserSupervisor(), &actors.DeleteAccountMsg{UserID: userID})
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to delete account: %v", err), http.StatusInternalServerError)
			return
		}

		s.respondJSON(w, result, http.StatusOK)
	}
}
