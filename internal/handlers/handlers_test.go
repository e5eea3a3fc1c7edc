package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/s-nagoti/VT-Memegen/internal/database/databasetest"
	"github.com/s-nagoti/VT-Memegen/internal/engine"
	"github.com/s-nagoti/VT-Memegen/internal/middleware"
	"github.com/s-nagoti/VT-Memegen/internal/utils"
	"github.com/s-nagoti/VT-Memegen/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "handlers-test-secret"

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	store := databasetest.NewStore()
	hub := websocket.NewHub()
	go hub.Run()

	system := actor.NewActorSystem()
	eng := engine.NewEngine(system, engine.Options{
		Store:     store,
		Metrics:   utils.NewMetricsCollector(),
		Hub:       hub,
		JWTSecret: testSecret,
		TokenTTL:  time.Hour,
	})

	auth := middleware.NewAuthenticator(testSecret, time.Hour)
	server := NewServer(system, eng, utils.NewMetricsCollector(), store, hub, auth, nil)

	mux := http.NewServeMux()
	route := func(path string, handler http.HandlerFunc) {
		mux.HandleFunc(path, auth.ApplyJWTMiddleware(handler, path))
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
	route("/comment", server.HandleComment())
	route("/comment/post", server.HandleGetPostComments())
	route("/comment/like", server.HandleCommentLike())

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return server, ts
}

func doJSON(t *testing.T, method, url, token string, body interface{}, out interface{}) *http.Response {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 400 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func registerAndLogin(t *testing.T, ts *httptest.Server, email string) (userID, token string) {
	t.Helper()

	var registered struct {
		ID string `json:"id"`
	}
	resp := doJSON(t, http.MethodPost, ts.URL+"/user/register", "", map[string]string{
		"username": "hokie",
		"email":    email,
		"password": "testpass123",
	}, &registered)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var login struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		UserID  string `json:"userId"`
	}
	resp = doJSON(t, http.MethodPost, ts.URL+"/user/login", "", map[string]string{
		"email":    email,
		"password": "testpass123",
	}, &login)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, login.Success)
	return login.UserID, login.Token
}

func createPost(t *testing.T, ts *httptest.Server, token string, categories []string) *PostResponse {
	t.Helper()

	var post PostResponse
	resp := doJSON(t, http.MethodPost, ts.URL+"/post", token, map[string]interface{}{
		"title":      "Surviving Torgersen bridge wind",
		"imageUrl":   "https://example.com/meme.png",
		"templateId": "template3",
		"texts":      map[string]string{"bottomText": "just walk faster"},
		"categories": categories,
	}, &post)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, post.ID)
	return &post
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	_, ts := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/posts", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, ts.URL+"/templates", "", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTemplateCatalog(t *testing.T) {
	_, ts := newTestServer(t)

	var templates []struct {
		ID        string `json:"id"`
		TextAreas []struct {
			Key string `json:"key"`
		} `json:"textAreas"`
	}
	resp := doJSON(t, http.MethodGet, ts.URL+"/templates", "", nil, &templates)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, templates, 5)
	assert.Equal(t, "template1", templates[0].ID)
	assert.NotEmpty(t, templates[0].TextAreas)
}

func TestPostLifecycle(t *testing.T) {
	_, ts := newTestServer(t)
	_, token := registerAndLogin(t, ts, "author@vt.edu")

	post := createPost(t, ts, token, []string{"Dining"})

	// Vote toggle round trip.
	var voted PostResponse
	resp := doJSON(t, http.MethodPost, ts.URL+"/post/vote", token, map[string]interface{}{
		"postId":   post.ID,
		"isUpvote": true,
	}, &voted)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, voted.Upvotes)
	assert.Equal(t, "up", voted.UserVote)

	resp = doJSON(t, http.MethodPost, ts.URL+"/post/vote", token, map[string]interface{}{
		"postId":   post.ID,
		"isUpvote": false,
	}, &voted)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, voted.Upvotes)
	assert.Equal(t, 1, voted.Downvotes)
	assert.Equal(t, "down", voted.UserVote)

	// Views are idempotent per user.
	for i := 0; i < 2; i++ {
		var viewed PostResponse
		resp = doJSON(t, http.MethodPost, ts.URL+"/post/view", token, map[string]string{
			"postId": post.ID,
		}, &viewed)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 1, viewed.PageViews)
	}

	// Comment, then confirm the detail read refreshes the count.
	var comment CommentResponse
	resp = doJSON(t, http.MethodPost, ts.URL+"/comment", token, map[string]string{
		"postId": post.ID,
		"text":   "so true",
	}, &comment)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "hokie", comment.AuthorUsername)

	var detail PostResponse
	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/post?postId=%s", ts.URL, post.ID), token, nil, &detail)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, detail.CommentsCount)

	// Like toggle on the comment.
	var liked CommentResponse
	resp = doJSON(t, http.MethodPost, ts.URL+"/comment/like", token, map[string]string{
		"commentId": comment.ID,
	}, &liked)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, liked.Likes)
	assert.True(t, liked.LikedByUser)

	resp = doJSON(t, http.MethodPost, ts.URL+"/comment/like", token, map[string]string{
		"commentId": comment.ID,
	}, &liked)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, liked.Likes)
	assert.False(t, liked.LikedByUser)

	// Author deletes the post; the detail read then 404s.
	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/post?postId=%s", ts.URL, post.ID), token, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/post?postId=%s", ts.URL, post.ID), token, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGalleryCategoryFilterRequiresAllTags(t *testing.T) {
	_, ts := newTestServer(t)
	_, token := registerAndLogin(t, ts, "curator@vt.edu")

	createPost(t, ts, token, []string{"Housing"})
	both := createPost(t, ts, token, []string{"Housing", "Sports"})
	createPost(t, ts, token, []string{"Sports"})

	var posts []PostResponse
	resp := doJSON(t, http.MethodGet, ts.URL+"/posts?category=Housing&category=Sports", token, nil, &posts)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, posts, 1)
	assert.Equal(t, both.ID, posts[0].ID)

	// Unfiltered gallery returns everything, newest first.
	resp = doJSON(t, http.MethodGet, ts.URL+"/posts", token, nil, &posts)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, posts, 3)

	resp = doJSON(t, http.MethodGet, ts.URL+"/posts?category=Bogus", token, nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// Gallery items carry the same refreshed comment count as detail reads.
func TestGalleryRefreshesCommentCounts(t *testing.T) {
	_, ts := newTestServer(t)
	_, token := registerAndLogin(t, ts, "commenter@vt.edu")

	quiet := createPost(t, ts, token, []string{"Classes"})
	busy := createPost(t, ts, token, []string{"Classes"})

	resp := doJSON(t, http.MethodPost, ts.URL+"/comment", token, map[string]string{
		"postId": busy.ID,
		"text":   "first",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var posts []PostResponse
	resp = doJSON(t, http.MethodGet, ts.URL+"/posts", token, nil, &posts)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, posts, 2)

	counts := make(map[string]int, len(posts))
	for _, p := range posts {
		counts[p.ID] = p.CommentsCount
	}
	assert.Equal(t, 1, counts[busy.ID])
	assert.Equal(t, 0, counts[quiet.ID])
}

func TestDeleteOthersPostForbidden(t *testing.T) {
	_, ts := newTestServer(t)
	_, authorToken := registerAndLogin(t, ts, "author@vt.edu")
	_, otherToken := registerAndLogin(t, ts, "other@vt.edu")

	post := createPost(t, ts, authorToken, []string{"Classes"})

	resp := doJSON(t, http.MethodDelete, fmt.Sprintf("%s/post?postId=%s", ts.URL, post.ID), otherToken, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAccountDeletionCascades(t *testing.T) {
	_, ts := newTestServer(t)
	_, token := registerAndLogin(t, ts, "leaver@vt.edu")
	_, otherToken := registerAndLogin(t, ts, "stayer@vt.edu")

	post := createPost(t, ts, token, []string{"Dorms"})

	resp := doJSON(t, http.MethodDelete, ts.URL+"/user/delete", token, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/post?postId=%s", ts.URL, post.ID), otherToken, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var posts []PostResponse
	resp = doJSON(t, http.MethodGet, ts.URL+"/posts", otherToken, nil, &posts)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, posts)
}
