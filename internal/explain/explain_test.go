package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubOpenAI returns an httptest server that answers chat completion
// requests with a canned explanation.
func stubOpenAI(t *testing.T, explanation string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Messages)

		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: explanation}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func stubExplainer(t *testing.T, explanation string) *Explainer {
	t.Helper()
	ts := stubOpenAI(t, explanation)
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = ts.URL
	return NewWithConfig(cfg, "gpt-4o-mini")
}

func TestExplainReturnsTrimmedContent(t *testing.T) {
	explainer := stubExplainer(t, "  This meme shows a tired student.  ")

	explanation, err := explainer.Explain(context.Background(), "https://example.com/meme.png")
	require.NoError(t, err)
	assert.Equal(t, "This meme shows a tired student.", explanation)
}

func TestExplainRequiresImageURL(t *testing.T) {
	explainer := stubExplainer(t, "unused")

	_, err := explainer.Explain(context.Background(), "")
	assert.Error(t, err)
}

func TestNewWithoutKeyDisablesFeature(t *testing.T) {
	assert.Nil(t, New("", "gpt-4o-mini"))
	assert.NotNil(t, New("sk-test", "gpt-4o-mini"))
}

func TestHandler(t *testing.T) {
	explainer := stubExplainer(t, "A meme about dining hall food.")
	handler := Handler(explainer)

	body, _ := json.Marshal(ExplainImageRequest{ImageURL: "https://example.com/meme.png"})
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/explain-image", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ExplainImageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "A meme about dining hall food.", resp.Explanation)
}

func TestHandlerRejectsMissingURL(t *testing.T) {
	handler := Handler(stubExplainer(t, "unused"))

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/explain-image", bytes.NewReader([]byte(`{}`))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/explain-image", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
