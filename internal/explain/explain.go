// Package explain generates short natural-language explanations of meme
// images using the OpenAI chat completions API.
package explain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = "You explain memes. Describe what the image shows and why it is funny, in two or three sentences. Assume the reader is a college student."

// Explainer wraps an OpenAI client configured for image explanation.
type Explainer struct {
	client *openai.Client
	model  string
}

// New creates an Explainer. It returns nil when no API key is configured,
// which callers treat as the feature being disabled.
func New(apiKey, model string) *Explainer {
	if apiKey == "" {
		return nil
	}
	return &Explainer{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// NewWithConfig creates an Explainer from a full client config. Tests use it
// to point the client at a stub server.
func NewWithConfig(cfg openai.ClientConfig, model string) *Explainer {
	return &Explainer{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Explain asks the model to describe the image at the given URL.
func (e *Explainer) Explain(ctx context.Context, imageURL string) (string, error) {
	if imageURL == "" {
		return "", errors.New("image URL is required")
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: "Explain this meme.",
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    imageURL,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
		MaxTokens: 300,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}

	explanation := strings.TrimSpace(resp.Choices[0].Message.Content)
	if explanation == "" {
		return "", errors.New("empty explanation returned")
	}
	return explanation, nil
}
