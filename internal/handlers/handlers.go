package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/s-nagoti/VT-Memegen/internal/database"
	"github.com/s-nagoti/VT-Memegen/internal/engine"
	"github.com/s-nagoti/VT-Memegen/internal/explain"
	"github.com/s-nagoti/VT-Memegen/internal/middleware"
	"github.com/s-nagoti/VT-Memegen/internal/utils"
	"github.com/s-nagoti/VT-Memegen/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Metrics        *utils.MetricsCollector
	Store          database.Store
	Hub            *websocket.Hub
	Auth           *middleware.Authenticator
	Explainer      *explain.Explainer
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components
func NewServer(
	system *actor.ActorSystem,
	eng *engine.Engine,
	metrics *utils.MetricsCollector,
	store database.Store,
	hub *websocket.Hub,
	auth *middleware.Authenticator,
	explainer *explain.Explainer,
) *Server {
	return &Server{
		System:         system,
		Context:        system.Root,
		Engine:         eng,
		Metrics:        metrics,
		Store:          store,
		Hub:            hub,
		Auth:           auth,
		Explainer:      explainer,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
	}
}

// ask sends a message to an actor and waits for the reply.
func (s *Server) ask(pid *actor.PID, msg interface{}) (interface{}, error) {
	future := s.Context.RequestFuture(pid, msg, s.RequestTimeout)
	return future.Result()
}

// respondJSON writes the result as JSON, translating AppError replies into
// their HTTP status codes.
func (s *Server) respondJSON(w http.ResponseWriter, result interface{}, status int) {
	if appErr, ok := result.(*utils.AppError); ok {
		s.Metrics.IncrementErrors()
		http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(result)
}

// userIDFromRequest pulls the authenticated user out of the request context.
func userIDFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, found := middleware.GetUserIDFromContext(r.Context())
	if !found {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return uuid.Nil, false
	}
	return id, true
}
