package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Space talks to the custom generation Space, which wraps the model
// behind a small JSON API and returns base64 payloads. Spaces go to
// sleep under low traffic and can need a couple of pokes to wake up,
// so each call retries with a fixed delay before giving up.
type Space struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
	retries    int
	retryDelay time.Duration
}

type SpaceOptions struct {
	URL        string
	HTTPClient *http.Client
	Logger     *slog.Logger
	Retries    int
	RetryDelay time.Duration
}

func NewSpace(opts SpaceOptions) *Space {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	retries := opts.Retries
	if retries < 1 {
		retries = 3
	}
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 5 * time.Second
	}

	return &Space{
		url:        strings.TrimRight(opts.URL, "/"),
		httpClient: opts.HTTPClient,
		logger:     logger,
		retries:    retries,
		retryDelay: retryDelay,
	}
}

func (p *Space) Name() string { return "hf-space" }

type spaceRequest struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	NumImages      int    `json:"num_images"`
}

type spaceResponse struct {
	Status string   `json:"status"`
	Images []string `json:"images"`
}

func (p *Space) Generate(ctx context.Context, req Request) (image.Image, error) {
	if p.httpClient == nil {
		return nil, errors.New("http client is nil")
	}

	var lastErr error
	for attempt := 1; attempt <= p.retries; attempt++ {
		img, err := p.generateOnce(ctx, req)
		if err == nil {
			return img, nil
		}
		lastErr = err
		p.logger.Warn("space attempt failed", "attempt", attempt, "retries", p.retries, "err", err)

		if attempt == p.retries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.retryDelay):
		}
	}
	return nil, lastErr
}

func (p *Space) generateOnce(ctx context.Context, req Request) (image.Image, error) {
	body, err := json.Marshal(spaceRequest{
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		NumImages:      1,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	httpReq.Header.Set("content-type", "application/json")

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "request")
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("space %s: %s", httpResp.Status, truncate(string(raw), 200))
	}

	var decoded spaceResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	if decoded.Status != "success" {
		return nil, errors.Errorf("space status %q", decoded.Status)
	}
	if len(decoded.Images) == 0 {
		return nil, errors.New("space returned no images")
	}

	imgBytes, err := base64.StdEncoding.DecodeString(decoded.Images[0])
	if err != nil {
		return nil, errors.Wrap(err, "decode base64")
	}
	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}
	return img, nil
}
