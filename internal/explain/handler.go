package explain

import (
	"encoding/json"
	"log"
	"net/http"
)

// ExplainImageRequest is the standalone explainer service's request body
type ExplainImageRequest struct {
	ImageURL string `json:"imageUrl"`
}

// ExplainImageResponse carries the generated explanation
type ExplainImageResponse struct {
	Explanation string `json:"explanation"`
}

// Handler exposes the explainer as a plain HTTP endpoint, for deployments
// that run image explanation as its own service.
func Handler(explainer *Explainer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if explainer == nil {
			http.Error(w, "Image explanation is not configured", http.StatusServiceUnavailable)
			return
		}

		var req ExplainImageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		if req.ImageURL == "" {
			http.Error(w, "Image URL is required", http.StatusBadRequest)
			return
		}

		explanation, err := explainer.Explain(r.Context(), req.ImageURL)
		if err != nil {
			log.Printf("Explain request failed: %v", err)
			http.Error(w, "Failed to generate explanation", http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(&ExplainImageResponse{Explanation: explanation})
	}
}
