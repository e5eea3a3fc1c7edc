package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/s-nagoti/VT-Memegen/internal/cache"
	"github.com/s-nagoti/VT-Memegen/internal/config"
	"github.com/s-nagoti/VT-Memegen/internal/database"
	"github.com/s-nagoti/VT-Memegen/internal/engine"
	"github.com/s-nagoti/VT-Memegen/internal/explain"
	"github.com/s-nagoti/VT-Memegen/internal/handlers"
	"github.com/s-nagoti/VT-Memegen/internal/middleware"
	"github.com/s-nagoti/VT-Memegen/internal/utils"
	"github.com/s-nagoti/VT-Memegen/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	metrics := utils.NewMetricsCollector()

	// Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.NewMongoDB(cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close(context.Background())

	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// Optional comment count cache
	countCache, err := cache.NewCommentCountCache(ctx, *cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer countCache.Close()

	// Comment feed hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize actor system and engine
	system := actor.NewActorSystem()
	memeEngine := engine.NewEngine(system, engine.Options{
		Store:      db,
		Metrics:    metrics,
		Hub:        hub,
		CountCache: countCache,
		JWTSecret:  cfg.Auth.JWTSecret,
		TokenTTL:   cfg.Auth.TokenTTL,
	})

	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	explainer := explain.New(cfg.Explainer.OpenAIAPIKey, cfg.Explainer.Model)
	if explainer == nil {
		log.Printf("OPENAI_API_KEY not set, image explanation disabled")
	}

	server := handlers.NewServer(system, memeEngine, metrics, db, hub, auth, explainer)

	corsConfig := middleware.DefaultCORSConfig(cfg.AllowedOrigins)
	mux := http.NewServeMux()

	route := func(path string, handler http.HandlerFunc) {
		mux.HandleFunc(path, middleware.ApplyCORS(auth.ApplyJWTMiddleware(handler, path), corsConfig))
	}

	route("/health", server.HandleHealth())
	route("/templates", server.HandleTemplates())
	route("/user/register", server.HandleRegister())
	route("/user/login", server.HandleLogin())
	route("/user/profile", server.HandleProfile())
	route("/user/delete", server.HandleDeleteAccount())
	route("/post", server.HandlePost())
	route("/posts", server.HandleListPosts())
	route("/post/vote", server.HandleVote())
	route("/post/view", server.HandleView())
	route("/post/explain", server.HandleExplain())
	route("/comment", server.HandleComment())
	route("/comment/post", server.HandleGetPostComments())
	route("/comment/like", server.HandleCommentLike())

	// WebSocket auth happens in the handler itself, via the token query
	// parameter.
	mux.HandleFunc("/ws/comments", middleware.ApplyCORS(server.HandleCommentFeed(), corsConfig))

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s", serverAddr)
	if err := http.ListenAndServe(serverAddr, mux); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
