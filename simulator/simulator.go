// Package simulator drives a running API server with synthetic traffic:
// registered users create meme posts, toggle votes, record views and comment,
// with post popularity following a Zipf distribution.
package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

type SimConfig struct {
	NumUsers         int
	SimulationTime   time.Duration
	PostFrequency    float64 // posts per user per minute
	CommentFrequency float64 // comments per user per minute
	VoteFrequency    float64 // vote toggles per user per minute
	ViewFrequency    float64 // page views per user per minute
	DisconnectRate   float64
	ReconnectRate    float64
	ZipfS            float64
	BaseURL          string
}

type SimulationStats struct {
	mu               sync.RWMutex
	StartTime        time.Time
	TotalRequests    int64
	SuccessRequests  int64
	FailedRequests   int64
	TotalPosts       int
	TotalComments    int
	TotalVotes       int
	TotalViews       int
	ActiveUsers      int
	RequestLatencies []time.Duration
}

func (st *SimulationStats) record(latency time.Duration, ok bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.TotalRequests++
	if ok {
		st.SuccessRequests++
	} else {
		st.FailedRequests++
	}
	st.RequestLatencies = append(st.RequestLatencies, latency)
}

// SimulatedUser tracks one synthetic account, including the JWT it holds
// after login.
type SimulatedUser struct {
	ID          uuid.UUID
	Username    string
	Email       string
	Token       string
	IsConnected bool
	LastActive  time.Time
	Posts       []uuid.UUID
	Comments    []uuid.UUID
}

type Simulator struct {
	config SimConfig
	stats  *SimulationStats
	users  []*SimulatedUser
	posts  []uuid.UUID
	client *http.Client
	mu     sync.RWMutex
}

func NewSimulator(config SimConfig) *Simulator {
	return &Simulator{
		config: config,
		stats: &SimulationStats{
			StartTime:        time.Now(),
			RequestLatencies: make([]time.Duration, 0),
		},
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *Simulator) Run(ctx context.Context) error {
	log.Printf("Starting simulation...")

	if err := s.initialize(ctx); err != nil {
		return fmt.Errorf("initialization failed: %v", err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.SimulateActivities(ctx); err != nil {
			log.Printf("Activities simulation error: %v", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.simulateConnectivity(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.collectMetrics(ctx)
	}()

	wg.Wait()
	s.printSummary()
	return nil
}

func (s *Simulator) initialize(ctx context.Context) error {
	log.Printf("Phase 1: Creating %d users...", s.config.NumUsers)
	if err := s.createInitialUsers(ctx); err != nil {
		return fmt.Errorf("failed to create initial users: %v", err)
	}

	log.Printf("Phase 2: Seeding initial posts...")
	if err := s.seedInitialPosts(ctx); err != nil {
		return fmt.Errorf("failed to seed posts: %v", err)
	}

	log.Printf("Initialization completed successfully")
	return nil
}

func (s *Simulator) createInitialUsers(ctx context.Context) error {
	numWorkers := 5
	userJobs := make(chan int, numWorkers)
	results := make(chan *SimulatedUser, numWorkers)

	var wg sync.WaitGroup

	// Shared rate limiter so workers don't overwhelm the actor system
	rateLimiter := time.NewTicker(100 * time.Millisecond)
	defer rateLimiter.Stop()

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for userNum := range userJobs {
				<-rateLimiter.C

				user := &SimulatedUser{
					Username:    fmt.Sprintf("user_%d", userNum),
					Email:       fmt.Sprintf("user_%d@vt.edu", userNum),
					IsConnected: true,
					Posts:       make([]uuid.UUID, 0),
					Comments:    make([]uuid.UUID, 0),
				}

				if err := s.registerAndLogin(ctx, user); err != nil {
					log.Printf("Worker %d: Failed to set up user %s: %v", workerID, user.Username, err)
					continue
				}
				results <- user
			}
		}(i)
	}

	go func() {
		for i := 0; i < s.config.NumUsers; i++ {
			userJobs <- i
		}
		close(userJobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make([]*SimulatedUser, 0, s.config.NumUsers)
	for user := range results {
		s.users = append(s.users, user)
	}

	log.Printf("Successfully created %d users", len(s.users))
	return nil
}

func (s *Simulator) registerAndLogin(ctx context.Context, user *SimulatedUser) error {
	resp, err := s.makeRequest(ctx, http.MethodPost, "/user/register", "", map[string]interface{}{
		"username": user.Username,
		"email":    user.Email,
		"password": "testpass123",
	})
	if err != nil {
		return fmt.Errorf("failed to register user: %v", err)
	}

	var registered struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp, &registered); err != nil {
		return fmt.Errorf("failed to parse registration response: %v", err)
	}
	userID, err := uuid.Parse(registered.ID)
	if err != nil {
		return fmt.Errorf("invalid user ID returned: %v", err)
	}
	user.ID = userID

	resp, err = s.makeRequest(ctx, http.MethodPost, "/user/login", "", map[string]interface{}{
		"email":    user.Email,
		"password": "testpass123",
	})
	if err != nil {
		return fmt.Errorf("failed to log in user: %v", err)
	}

	var login struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	if err := json.Unmarshal(resp, &login); err != nil {
		return fmt.Errorf("failed to parse login response: %v", err)
	}
	if !login.Success || login.Token == "" {
		return fmt.Errorf("login rejected for %s", user.Email)
	}
	user.Token = login.Token
	return nil
}

// seedInitialPosts gives the vote and comment activities something to work
// with before the post loop ramps up.
func (s *Simulator) seedInitialPosts(ctx context.Context) error {
	s.mu.RLock()
	users := s.users
	s.mu.RUnlock()

	seedCount := len(users) / 4
	if seedCount < 1 {
		seedCount = 1
	}

	for i := 0; i < seedCount && i < len(users); i++ {
		if _, err := s.createPost(ctx, users[i]); err != nil {
			log.Printf("Failed to seed post for %s: %v", users[i].Username, err)
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	log.Printf("Seeded %d posts", len(s.posts))
	return nil
}

// simulateConnectivity randomly flips users between connected and
// disconnected states.
func (s *Simulator) simulateConnectivity(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	deadline := time.After(s.config.SimulationTime)
	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline:
			return
		case <-ticker.C:
			s.mu.Lock()
			active := 0
			for _, user := range s.users {
				if user.IsConnected {
					if rand.Float64() < s.config.DisconnectRate {
						user.IsConnected = false
					}
				} else if rand.Float64() < s.config.ReconnectRate {
					user.IsConnected = true
				}
				if user.IsConnected {
					active++
				}
			}
			s.mu.Unlock()

			s.stats.mu.Lock()
			s.stats.ActiveUsers = active
			s.stats.mu.Unlock()
		}
	}
}

func (s *Simulator) collectMetrics(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	deadline := time.After(s.config.SimulationTime)
	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline:
			return
		case <-ticker.C:
			s.stats.mu.RLock()
			log.Printf("Stats: %d requests (%d ok, %d failed), %d posts, %d comments, %d votes, %d views, %d active users",
				s.stats.TotalRequests, s.stats.SuccessRequests, s.stats.FailedRequests,
				s.stats.TotalPosts, s.stats.TotalComments, s.stats.TotalVotes, s.stats.TotalViews,
				s.stats.ActiveUsers)
			s.stats.mu.RUnlock()
		}
	}
}

func (s *Simulator) printSummary() {
	s.stats.mu.RLock()
	defer s.stats.mu.RUnlock()

	var total time.Duration
	for _, l := range s.stats.RequestLatencies {
		total += l
	}
	var avg time.Duration
	if len(s.stats.RequestLatencies) > 0 {
		avg = total / time.Duration(len(s.stats.RequestLatencies))
	}

	log.Printf("Simulation finished after %v", time.Since(s.stats.StartTime).Round(time.Second))
	log.Printf("  requests: %d (%d ok, %d failed)", s.stats.TotalRequests, s.stats.SuccessRequests, s.stats.FailedRequests)
	log.Printf("  posts: %d, comments: %d, votes: %d, views: %d", s.stats.TotalPosts, s.stats.TotalComments, s.stats.TotalVotes, s.stats.TotalViews)
	log.Printf("  average latency: %v", avg)
}

// makeRequest sends a JSON request, attaching the bearer token when one is
// given, and returns the response body.
func (s *Simulator) makeRequest(ctx context.Context, method, path, token string, body interface{}) ([]byte, error) {
	start := time.Now()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.config.BaseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.stats.record(time.Since(start), false)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		s.stats.record(time.Since(start), false)
		return nil, err
	}

	if resp.StatusCode >= 400 {
		s.stats.record(time.Since(start), false)
		return nil, fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, string(data))
	}

	s.stats.record(time.Since(start), true)
	return data, nil
}
