package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	domai "github.com/promptmenu/promptmenu-api/internal/domain/ai"
	"github.com/promptmenu/promptmenu-api/internal/infra/ai/prompt"
)

const maxTokens = 800

type Client struct {
	*openai.Client
	Model string
}

// NewClient builds the advisor; baseURL is optional for gateway deployments.
func NewClient(apiKey, model, baseURL string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{Client: openai.NewClientWithConfig(cfg), Model: model}
}

// Advise asks for the dietary analysis in JSON mode and decodes it leniently:
// a non-JSON reply is wrapped rather than rejected, the schema is advisory.
func (c *Client) Advise(ctx context.Context, req domai.AdviceRequest) (map[string]any, error) {
	model := c.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	resp, err := c.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: 0.7,
		MaxTokens:   maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(req)},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return nil, domai.ErrQuotaExceeded
		}
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	content := resp.Choices[0].Message.Content
	advice := map[string]any{}
	if err := json.Unmarshal([]byte(content), &advice); err != nil {
		advice = map[string]any{"raw": content}
	}
	advice["dish_analyzed"] = req.DishName
	advice["analysis_timestamp"] = time.Now().UTC().Format(time.RFC3339)
	return advice, nil
}
