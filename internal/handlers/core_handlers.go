package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/s-nagoti/VT-Memegen/internal/engine/actors"
)

// HandleHealth handles health check requests
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// Confirm the actor system is responsive.
		future := s.Context.RequestFuture(s.Engine.GetPostActor(), &actors.GetCountsMsg{}, s.RequestTimeout)
		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to reach post actor", http.StatusInternalServerError)
			return
		}
		cachedPosts, _ := result.(int)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":       "healthy",
			"cached_posts": cachedPosts,
			"metrics":      s.Metrics.Snapshot(),
			"server_time":  time.Now(),
		})
	}
}
