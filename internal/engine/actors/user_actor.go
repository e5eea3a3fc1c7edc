package actors

import (
	stdctx "context"
	"log"
	"strings"
	"time"

	"github.com/s-nagoti/VT-Memegen/internal/database"
	"github.com/s-nagoti/VT-Memegen/internal/middleware"
	"github.com/s-nagoti/VT-Memegen/internal/models"
	"github.com/s-nagoti/VT-Memegen/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Message types for user operations
type (
	RegisterUserMsg struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	LoginMsg struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	GetUserProfileMsg struct {
		UserID uuid.UUID `json:"userId"`
	}

	DeleteAccountMsg struct {
		UserID uuid.UUID `json:"userId"`
	}
)

// LoginResponse carries the outcome of a login attempt back to the handler.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	UserID  string `json:"userId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// UserProfile is the aggregate returned for profile requests.
type UserProfile struct {
	User           *models.User   `json:"user"`
	Posts          []*models.Post `json:"posts"`
	UpvotesEarned  int            `json:"upvotesEarned"`
	CommentedPosts int            `json:"commentedPosts"`
}

// UserSupervisor manages registration, login, profiles and account removal.
type UserSupervisor struct {
	store     database.Store
	jwtSecret string
	tokenTTL  time.Duration
}

func NewUserSupervisor(store database.Store, jwtSecret string, tokenTTL time.Duration) actor.Actor {
	return &UserSupervisor{
		store:     store,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

func (s *UserSupervisor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("UserSupervisor started")

	case *RegisterUserMsg:
		s.handleRegister(context, msg)

	case *LoginMsg:
		log.Printf("UserSupervisor: Processing login request for email: %s", msg.Email)
		s.handleLogin(context, msg)

	case *GetUserProfileMsg:
		log.Printf("UserSupervisor: Getting profile for user ID: %s", msg.UserID)
		s.handleGetProfile(context, msg)

	case *DeleteAccountMsg:
		s.handleDeleteAccount(context, msg)

	default:
		log.Printf("UserSupervisor: Unknown message type %T", msg)
	}
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func (s *UserSupervisor) handleRegister(context actor.Context, msg *RegisterUserMsg) {
	ctx := stdctx.Background()

	username := strings.TrimSpace(msg.Username)
	email := strings.ToLower(strings.TrimSpace(msg.Email))
	if username == "" || email == "" || msg.Password == "" {
		context.Respond(utils.NewValidationError("Username, email and password are required"))
		return
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		context.Respond(utils.NewAppError(utils.ErrUserAlreadyExists, "Email already registered", nil))
		return
	}

	hashed, err := hashPassword(msg.Password)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrStoreFailure, "Failed to hash password", err))
		return
	}

	newUser := &models.User{
		ID:             uuid.New(),
		Username:       username,
		Email:          email,
		HashedPassword: hashed,
		LikedPosts:     []uuid.UUID{},
		CreatedAt:      time.Now(),
	}

	if err := s.store.SaveUser(ctx, newUser); err != nil {
		log.Printf("UserSupervisor: Failed to save user: %v", err)
		context.Respond(utils.NewAppError(utils.ErrStoreFailure, "Failed to save user", err))
		return
	}

	log.Printf("UserSupervisor: Registered user %s (%s)", newUser.ID, newUser.Email)
	context.Respond(newUser)
}

func (s *UserSupervisor) handleLogin(context actor.Context, msg *LoginMsg) {
	ctx := stdctx.Background()

	email := strings.ToLower(strings.TrimSpace(msg.Email))
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		log.Printf("UserSupervisor: User not found for email %s: %v", email, err)
		context.Respond(&LoginResponse{
			Success: false,
			Error:   "Invalid credentials",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(msg.Password)); err != nil {
		context.Respond(&LoginResponse{
			Success: false,
			Error:   "Invalid credentials",
		})
		return
	}

	token, err := middleware.GenerateToken(user.ID.String(), s.jwtSecret, s.tokenTTL)
	if err != nil {
		log.Printf("UserSupervisor: Failed to generate token: %v", err)
		context.Respond(&LoginResponse{
			Success: false,
			Error:   "Failed to generate token",
		})
		return
	}

	context.Respond(&LoginResponse{
		Success: true,
		Token:   token,
		UserID:  user.ID.String(),
	})
}

func (s *UserSupervisor) handleGetProfile(context actor.Context, msg *GetUserProfileMsg) {
	ctx := stdctx.Background()

	user, err := s.store.GetUser(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}
	user.HashedPassword = ""

	posts, err := s.store.GetUserPosts(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}

	upvotes := 0
	for _, post := range posts {
		upvotes += post.UpvoteCount()
	}

	context.Respond(&UserProfile{
		User:          user,
		Posts:         posts,
		UpvotesEarned: upvotes,
	})
}

// handleDeleteAccount removes the user together with their posts and the
// comments attached to those posts.
func (s *UserSupervisor) handleDeleteAccount(context actor.Context, msg *DeleteAccountMsg) {
	ctx := stdctx.Background()

	posts, err := s.store.GetUserPosts(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}

	for _, post := range posts {
		if err := s.store.DeletePostComments(ctx, post.ID); err != nil {
			log.Printf("UserSupervisor: Failed to delete comments for post %s: %v", post.ID, err)
			context.Respond(err)
			return
		}
		if err := s.store.DeletePost(ctx, post.ID); err != nil {
			log.Printf("UserSupervisor: Failed to delete post %s: %v", post.ID, err)
			context.Respond(err)
			return
		}
	}

	if err := s.store.DeleteUser(ctx, msg.UserID); err != nil {
		context.Respond(err)
		return
	}

	log.Printf("UserSupervisor: Deleted account %s with %d posts", msg.UserID, len(posts))
	context.Respond(&models.StatusResponse{Success: true, Message: "Account deleted successfully"})
}
