package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"yoga_recommendation/config"
	"yoga_recommendation/logger"
)

type embeddingResp struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Client calls an OpenAI-compatible /embeddings endpoint.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	dimension  int
	httpClient *http.Client
}

// NewClient builds an embedding client from configuration.
func NewClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.Embedding.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:     cfg.Embedding.APIKey,
		model:      cfg.Embedding.Model,
		baseURL:    strings.TrimRight(cfg.Embedding.BaseURL, "/"),
		dimension:  cfg.Embedding.Dimension,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Dimension returns the configured vector length.
func (c *Client) Dimension() int {
	return c.dimension
}

// Ping verifies the embedding service is reachable and returns vectors of
// the expected dimension. Called once at startup; a failure here is fatal.
func (c *Client) Ping(ctx context.Context) error {
	vec, err := c.Embed(ctx, "yoga")
	if err != nil {
		return fmt.Errorf("embedding service unavailable: %w", err)
	}
	if len(vec) != c.dimension {
		return fmt.Errorf("embedding service returned dimension %d, configured %d", len(vec), c.dimension)
	}
	return nil
}

// Embed converts text into a unit-normalized vector.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}

	payload := map[string]any{
		"model":           c.model,
		"input":           text,
		"encoding_format": "float",
	}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/embeddings", bytes.NewReader(b))
	if err != nil {
		logger.Error("failed to build embedding request", "error", err)
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("embedding request failed", "error", err)
		return nil, fmt.Errorf("embedding service connection failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		logger.Error("embedding service returned error status", "status_code", resp.StatusCode, "response", string(bodyBytes))
		return nil, fmt.Errorf("embedding service error (HTTP %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var er embeddingResp
	if err := json.Unmarshal(bodyBytes, &er); err != nil {
		logger.Error("failed to parse embedding response", "error", err)
		return nil, fmt.Errorf("failed to parse embedding response: %w", err)
	}
	if er.Error != nil {
		logger.Error("embedding service business error", "type", er.Error.Type, "message", er.Error.Message)
		return nil, fmt.Errorf("embedding service error: %s", er.Error.Message)
	}
	if len(er.Data) == 0 || len(er.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("embedding response contains no vector")
	}

	vec := er.Data[0].Embedding

	// The API is asked for normalized vectors but does not guarantee it.
	normalize(vec)

	logger.Debug("embedded text", "model", er.Model, "dimension", len(vec))
	return vec, nil
}

func normalize(v []float64) {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	mag := math.Sqrt(sum)
	for i := range v {
		v[i] /= mag
	}
}
