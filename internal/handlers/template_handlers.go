package handlers

import (
	"net/http"

	"github.com/s-nagoti/VT-Memegen/internal/models"
)

// HandleTemplates returns the static meme template catalog
func (s *Server) HandleTemplates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		s.respondJSON(w, models.ImageTemplates, http.StatusOK)
	}
}
