package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

var simCategories = []string{"Housing", "Classes", "Dining", "NightLife", "Sports", "Dorms"}

var simTemplates = []struct {
	ID   string
	Keys []string
}{
	{"template1", []string{"leftButton", "bottomText"}},
	{"template2", []string{"leftText", "middleText", "rightText"}},
	{"template3", []string{"bottomText"}},
	{"template4", []string{"topLeftText", "topRightText", "bottomLeftText", "bottomMiddleText", "bottomRightText"}},
	{"template5", []string{"leftText", "rightText"}},
}

// SimulateActivities runs the post/comment/vote/view loops until the
// simulation time elapses.
func (s *Simulator) SimulateActivities(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.SimulationTime)
	defer cancel()

	var wg sync.WaitGroup

	loops := []struct {
		name      string
		frequency float64
		action    func(context.Context, *SimulatedUser) error
	}{
		{"posts", s.config.PostFrequency, s.postActivity},
		{"comments", s.config.CommentFrequency, s.commentActivity},
		{"votes", s.config.VoteFrequency, s.voteActivity},
		{"views", s.config.ViewFrequency, s.viewActivity},
	}

	for _, loop := range loops {
		if loop.frequency <= 0 {
			continue
		}
		wg.Add(1)
		go func(name string, frequency float64, action func(context.Context, *SimulatedUser) error) {
			defer wg.Done()
			s.activityLoop(ctx, name, frequency, action)
		}(loop.name, loop.frequency, loop.action)
	}

	wg.Wait()
	return nil
}

// activityLoop fires the action at the configured per-user frequency,
// picking a random connected user each tick.
func (s *Simulator) activityLoop(ctx context.Context, name string, perUserPerMinute float64, action func(context.Context, *SimulatedUser) error) {
	s.mu.RLock()
	userCount := len(s.users)
	s.mu.RUnlock()
	if userCount == 0 {
		return
	}

	interval := time.Duration(float64(time.Minute) / (perUserPerMinute * float64(userCount)))
	if interval < 10*time.Millisecond {
		interval = 10 * time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			user := s.randomConnectedUser()
			if user == nil {
				continue
			}
			if err := action(ctx, user); err != nil && ctx.Err() == nil {
				log.Printf("%s activity failed for %s: %v", name, user.Username, err)
			}
		}
	}
}

func (s *Simulator) randomConnectedUser() *SimulatedUser {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.users) == 0 {
		return nil
	}
	// Bounded retries rather than a full scan.
	for i := 0; i < 10; i++ {
		user := s.users[rand.Intn(len(s.users))]
		if user.IsConnected {
			return user
		}
	}
	return nil
}

// zipfPost picks a post biased toward the head of the list, so a few posts
// receive most of the votes and comments.
func (s *Simulator) zipfPost() (uuid.UUID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.posts) == 0 {
		return uuid.Nil, false
	}
	if len(s.posts) == 1 {
		return s.posts[0], true
	}
	zipf := rand.NewZipf(rand.New(rand.NewSource(time.Now().UnixNano())), s.config.ZipfS, 1, uint64(len(s.posts)-1))
	return s.posts[zipf.Uint64()], true
}

func (s *Simulator) postActivity(ctx context.Context, user *SimulatedUser) error {
	_, err := s.createPost(ctx, user)
	return err
}

func (s *Simulator) createPost(ctx context.Context, user *SimulatedUser) (uuid.UUID, error) {
	template := simTemplates[rand.Intn(len(simTemplates))]
	texts := make(map[string]string, len(template.Keys))
	for _, key := range template.Keys {
		texts[key] = fmt.Sprintf("%s from %s", key, user.Username)
	}

	categoryCount := 1 + rand.Intn(2)
	categories := make([]string, 0, categoryCount)
	for _, i := range rand.Perm(len(simCategories))[:categoryCount] {
		categories = append(categories, simCategories[i])
	}

	resp, err := s.makeRequest(ctx, "POST", "/post", user.Token, map[string]interface{}{
		"title":       fmt.Sprintf("%s's take on %s", user.Username, categories[0]),
		"description": "generated by the traffic simulator",
		"imageUrl":    fmt.Sprintf("https://example.com/memes/%s.png", uuid.NewString()),
		"templateId":  template.ID,
		"texts":       texts,
		"categories":  categories,
	})
	if err != nil {
		return uuid.Nil, err
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp, &created); err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse post response: %v", err)
	}
	postID, err := uuid.Parse(created.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid post ID returned: %v", err)
	}

	s.mu.Lock()
	s.posts = append(s.posts, postID)
	user.Posts = append(user.Posts, postID)
	s.mu.Unlock()

	s.stats.mu.Lock()
	s.stats.TotalPosts++
	s.stats.mu.Unlock()
	return postID, nil
}

func (s *Simulator) commentActivity(ctx context.Context, user *SimulatedUser) error {
	postID, ok := s.zipfPost()
	if !ok {
		return nil
	}

	resp, err := s.makeRequest(ctx, "POST", "/comment", user.Token, map[string]interface{}{
		"postId": postID.String(),
		"text":   fmt.Sprintf("comment from %s at %d", user.Username, time.Now().UnixNano()),
	})
	if err != nil {
		return err
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp, &created); err == nil {
		if commentID, err := uuid.Parse(created.ID); err == nil {
			s.mu.Lock()
			user.Comments = append(user.Comments, commentID)
			s.mu.Unlock()
		}
	}

	s.stats.mu.Lock()
	s.stats.TotalComments++
	s.stats.mu.Unlock()
	return nil
}

func (s *Simulator) voteActivity(ctx context.Context, user *SimulatedUser) error {
	postID, ok := s.zipfPost()
	if !ok {
		return nil
	}

	// Mostly upvotes, the occasional downvote. Toggles are legal in any
	// state, so no client-side bookkeeping is needed.
	_, err := s.makeRequest(ctx, "POST", "/post/vote", user.Token, map[string]interface{}{
		"postId":   postID.String(),
		"isUpvote": rand.Float64() < 0.8,
	})
	if err != nil {
		return err
	}

	s.stats.mu.Lock()
	s.stats.TotalVotes++
	s.stats.mu.Unlock()
	return nil
}

func (s *Simulator) viewActivity(ctx context.Context, user *SimulatedUser) error {
	postID, ok := s.zipfPost()
	if !ok {
		return nil
	}

	_, err := s.makeRequest(ctx, "POST", "/post/view", user.Token, map[string]interface{}{
		"postId": postID.String(),
	})
	if err != nil {
		return err
	}

	s.stats.mu.Lock()
	s.stats.TotalViews++
	s.stats.mu.Unlock()
	return nil
}
