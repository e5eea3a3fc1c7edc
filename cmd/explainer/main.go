package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/s-nagoti/VT-Memegen/internal/config"
	"github.com/s-nagoti/VT-Memegen/internal/explain"
	"github.com/s-nagoti/VT-Memegen/internal/middleware"
)

// Standalone image explanation service. Deployments that want to keep the
// OpenAI key off the main API server run this next to it.
func main() {
	cfg, err := config.LoadExplainerConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	explainer := explain.New(cfg.OpenAIAPIKey, cfg.Model)
	if explainer == nil {
		log.Fatalf("OPENAI_API_KEY is required")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/explain-image", middleware.ApplyCORS(explain.Handler(explainer), nil))

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting explainer on %s", serverAddr)
	if err := http.ListenAndServe(serverAddr, mux); err != nil {
		log.Fatalf("Explainer failed to start: %v", err)
	}
}
