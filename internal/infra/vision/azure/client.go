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

	"github.com/promptmenu/promptmenu-api/internal/domain/vision"
)

const (
	apiVersion = "2023-10-01"
	keyHeader  = "Ocp-Apim-Subscription-Key"
	features   = "tags,caption,objects,read"
)

// Client calls the image-analysis REST API with the raw image bytes.
type Client struct {
	endpoint string
	key      string
	httpc    *http.Client
}

func NewClient(endpoint, key string) *Client {
	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		key:      key,
		httpc:    &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) AnalyzeImage(ctx context.Context, image []byte) (*vision.AnalyzeResult, error) {
	u := fmt.Sprintf("%s/computervision/imageanalysis:analyze?api-version=%s&features=%s&language=en", c.endpoint, apiVersion, features)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(image))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set(keyHeader, c.key)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image analysis: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("image analysis: status %d: %s", resp.StatusCode, body)
	}

	var res vision.AnalyzeResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode image analysis: %w", err)
	}
	return &res, nil
}
