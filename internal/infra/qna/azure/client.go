package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/promptmenu/promptmenu-api/internal/domain/qna"
)

const (
	apiVersion = "2021-10-01"
	keyHeader  = "Ocp-Apim-Subscription-Key"
)

// Client queries the managed knowledge base (query-knowledgebases API).
type Client struct {
	endpoint   string
	key        string
	project    string
	deployment string
	httpc      *http.Client
}

func NewClient(endpoint, key, project, deployment string) *Client {
	if deployment == "" {
		deployment = "production"
	}
	return &Client{
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		key:        key,
		project:    project,
		deployment: deployment,
		httpc:      &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Ask(ctx context.Context, question string) (*qna.Response, error) {
	params := url.Values{}
	params.Set("projectName", c.project)
	params.Set("api-version", apiVersion)
	params.Set("deploymentName", c.deployment)
	u := fmt.Sprintf("%s/language/:query-knowledgebases?%s", c.endpoint, params.Encode())

	payload, err := json.Marshal(map[string]any{
		"top":                        3,
		"question":                   question,
		"includeUnstructuredSources": true,
		"confidenceScoreThreshold":   0.3,
		"answerSpanRequest": map[string]any{
			"enable":                   true,
			"topAnswersWithSpan":       1,
			"confidenceScoreThreshold": 0.5,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(keyHeader, c.key)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query knowledge base: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("query knowledge base: status %d: %s", resp.StatusCode, body)
	}

	var out qna.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode knowledge base response: %w", err)
	}
	return &out, nil
}
