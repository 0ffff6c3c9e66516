package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/af-corp/bridge-gateway/internal/config"
)

// Client talks to the sentence-embedding sidecar over HTTP. The sidecar
// hosts the actual embedding model; the gateway only ships text and gets a
// fixed-length vector back.
type Client struct {
	cfg    func() config.EmbeddingConfig
	client *http.Client
}

func NewClient(cfg func() config.EmbeddingConfig) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{},
	}
}

type embedRequest struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}

type embedResponse struct {
	Vector     []float32 `json:"vector"`
	Dimensions int       `json:"dimensions"`
}

// Embed returns the embedding vector for the given text. Callers treat any
// error as "semantic lookup unavailable" and degrade to a cache miss.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	cfg := c.cfg()

	reqCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(embedRequest{Text: text, Model: cfg.Model})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, cfg.BaseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embed request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("embed service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("embed service returned status %d: %s", resp.StatusCode, string(data))
	}

	var embedResp embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}

	if cfg.Dimensions > 0 && len(embedResp.Vector) != cfg.Dimensions {
		return nil, fmt.Errorf("embed service returned %d dimensions, expected %d", len(embedResp.Vector), cfg.Dimensions)
	}

	return embedResp.Vector, nil
}
