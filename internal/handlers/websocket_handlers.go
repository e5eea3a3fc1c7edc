package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/s-nagoti/VT-Memegen/internal/engine/actors"
	"github.com/s-nagoti/VT-Memegen/internal/models"
	"github.com/s-nagoti/VT-Memegen/internal/websocket"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Implement proper origin checking based on config
		return true
	},
}

// HandleCommentFeed upgrades the connection and streams full comment
// snapshots for a post. Browsers cannot set headers on WebSocket requests,
// so the JWT travels in the query string.
func (s *Server) HandleCommentFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.URL.Query().Get("token")
		if tokenString == "" {
			log.Println("WebSocket connection failed: Missing token")
			http.Error(w, "Missing authentication token", http.StatusUnauthorized)
			return
		}

		claims, err := s.Auth.ValidateToken(tokenString)
		if err != nil {
			log.Printf("WebSocket connection failed: Invalid token: %v", err)
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}
		userID := claims.UserID
		if userID == uuid.Nil {
			log.Println("WebSocket connection failed: Nil userID in token claims")
			http.Error(w, "Invalid user ID in token", http.StatusInternalServerError)
			return
		}

		postID, err := uuid.Parse(r.URL.Query().Get("postId"))
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		// Build the initial snapshot before upgrading, so a missing post is
		// still a plain HTTP error.
		result, err := s.ask(s.Engine.GetCommentActor(), &actors.GetPostCommentsMsg{PostID: postID})
		if err != nil {
			http.Error(w, "Failed to fetch comments", http.StatusInternalServerError)
			return
		}
		comments, ok := result.([]*models.Comment)
		if !ok {
			s.respondJSON(w, result, http.StatusOK)
			return
		}
		initial, err := json.Marshal(&actors.CommentFeedSnapshot{
			PostID:   postID.String(),
			Comments: comments,
		})
		if err != nil {
			http.Error(w, "Failed to encode snapshot", http.StatusInternalServerError)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for user %s: %v", userID, err)
			return
		}
		log.Printf("WebSocket feed opened for post %s by user %s", postID, userID)

		// The current feed state is queued before the subscriber joins the
		// hub, so no later publish can be delivered ahead of it.
		sub := s.Hub.SubscribeWithSnapshot(postID, initial)
		client := &websocket.Client{
			Conn: conn,
			Sub:  sub,
		}

		go client.WritePump()
		go client.ReadPump()
	}
}
