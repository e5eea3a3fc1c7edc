package engine

import (
	"time"

	"github.com/s-nagoti/VT-Memegen/internal/cache"
	"github.com/s-nagoti/VT-Memegen/internal/database"
	"github.com/s-nagoti/VT-Memegen/internal/engine/actors"
	"github.com/s-nagoti/VT-Memegen/internal/utils"
	"github.com/s-nagoti/VT-Memegen/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine coordinates communication between actors
type Engine struct {
	postActor      *actor.PID
	commentActor   *actor.PID
	userSupervisor *actor.PID
}

// Options carries the collaborators the actors need.
type Options struct {
	Store      database.Store
	Metrics    *utils.MetricsCollector
	Hub        *websocket.Hub
	CountCache *cache.CommentCountCache
	JWTSecret  string
	TokenTTL   time.Duration
}

func NewEngine(system *actor.ActorSystem, opts Options) *Engine {
	context := system.Root

	// Spawn post actor
	postProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewPostActor(opts.Metrics, nil, opts.Store)
	})
	postPID := context.Spawn(postProps)

	// Spawn comment actor
	commentProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewCommentActor(opts.Store, opts.Hub, opts.CountCache)
	})
	commentPID := context.Spawn(commentProps)

	// Spawn user supervisor
	userProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewUserSupervisor(opts.Store, opts.JWTSecret, opts.TokenTTL)
	})
	userPID := context.Spawn(userProps)

	return &Engine{
		postActor:      postPID,
		commentActor:   commentPID,
		userSupervisor: userPID,
	}
}

// GetPostActor returns the PID of the post actor
func (e *Engine) GetPostActor() *actor.PID {
	return e.postActor
}

// GetCommentActor returns the PID of the comment actor
func (e *Engine) GetCommentActor() *actor.PID {
	return e.commentActor
}

// GetUserSupervisor returns the PID of the user supervisor
func (e *Engine) GetUserSupervisor() *actor.PID {
	return e.userSupervisor
}
