package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/promptmenu/promptmenu-api/internal/domain/docintel"
)

const (
	apiVersion   = "2023-07-31"
	keyHeader    = "Ocp-Apim-Subscription-Key"
	pollInterval = 2 * time.Second
	pollTimeout  = 2 * time.Minute
)

// Client calls the document-intelligence analyze REST API: submit the
// document URL, then poll the returned operation until it settles.
type Client struct {
	endpoint string
	key      string
	httpc    *http.Client
}

func NewClient(endpoint, key string) *Client {
	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		key:      key,
		httpc:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) AnalyzeURL(ctx context.Context, modelID, documentURL string) (*docintel.AnalyzeResult, error) {
	opURL, err := c.beginAnalyze(ctx, modelID, documentURL)
	if err != nil {
		return nil, err
	}
	return c.pollResult(ctx, opURL)
}

func (c *Client) beginAnalyze(ctx context.Context, modelID, documentURL string) (string, error) {
	u := fmt.Sprintf("%s/formrecognizer/documentModels/%s:analyze?api-version=%s", c.endpoint, modelID, apiVersion)
	payload, err := json.Marshal(map[string]string{"urlSource": documentURL})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(keyHeader, c.key)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("begin analyze: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("begin analyze: status %d: %s", resp.StatusCode, body)
	}

	opURL := resp.Header.Get("Operation-Location")
	if opURL == "" {
		return "", fmt.Errorf("begin analyze: missing Operation-Location header")
	}
	return opURL, nil
}

// operation is the polled analyze operation envelope.
type operation struct {
	Status        string                  `json:"status"`
	AnalyzeResult *docintel.AnalyzeResult `json:"analyzeResult,omitempty"`
	Error         *operationError         `json:"error,omitempty"`
}

type operationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) pollResult(ctx context.Context, opURL string) (*docintel.AnalyzeResult, error) {
	deadline := time.Now().Add(pollTimeout)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		op, err := c.fetchOperation(ctx, opURL)
		if err != nil {
			return nil, err
		}
		switch op.Status {
		case "succeeded":
			if op.AnalyzeResult == nil {
				return nil, fmt.Errorf("analyze succeeded but returned no result")
			}
			return op.AnalyzeResult, nil
		case "failed":
			if op.Error != nil {
				return nil, fmt.Errorf("analyze failed: %s: %s", op.Error.Code, op.Error.Message)
			}
			return nil, fmt.Errorf("analyze failed")
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("analyze did not finish within %s", pollTimeout)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) fetchOperation(ctx context.Context, opURL string) (*operation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(keyHeader, c.key)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poll analyze: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("poll analyze: status %d: %s", resp.StatusCode, body)
	}

	var op operation
	if err := json.NewDecoder(resp.Body).Decode(&op); err != nil {
		return nil, fmt.Errorf("decode analyze operation: %w", err)
	}
	return &op, nil
}
