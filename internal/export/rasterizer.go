package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Rasterizer turns rendered HTML into a PDF. The production
// implementation talks to a headless browser service over HTTP.
type Rasterizer interface {
	Render(ctx context.Context, html []byte) ([]byte, error)
}

// HTTPRasterizer posts HTML to a rendering service and reads back the
// PDF bytes.
type HTTPRasterizer struct {
	baseURL string
	client  *http.Client
}

type RasterizerOption func(*HTTPRasterizer)

func WithHTTPClient(client *http.Client) RasterizerOption {
	return func(r *HTTPRasterizer) { r.client = client }
}

func NewHTTPRasterizer(baseURL string, opts ...RasterizerOption) *HTTPRasterizer {
	r := &HTTPRasterizer{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *HTTPRasterizer) Render(ctx context.Context, html []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/render", bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("build rasterizer request: %w", err)
	}
	req.Header.Set("Content-Type", "text/html; charset=utf-8")
	req.Header.Set("Accept", "application/pdf")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call rasterizer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("rasterizer returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read rasterizer response: %w", err)
	}
	return pdf, nil
}
