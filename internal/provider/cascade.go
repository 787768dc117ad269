package provider

import (
	"context"
	"image"
	"io"
	"log/slog"
	"time"
)

// Cascade tries ranked providers in order with a bounded timeout per
// call and falls back to the local placeholder renderer when all of
// them fail. Generate therefore never returns an error: backend
// outages degrade the output, they do not break the response contract.
type Cascade struct {
	providers   []Provider
	timeout     time.Duration
	placeholder *Placeholder
	logger      *slog.Logger
}

type CascadeOptions struct {
	Providers   []Provider
	Timeout     time.Duration
	Placeholder *Placeholder
	Logger      *slog.Logger
}

func NewCascade(opts CascadeOptions) *Cascade {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	placeholder := opts.Placeholder
	if placeholder == nil {
		placeholder = NewPlaceholder(PlaceholderOptions{})
	}

	return &Cascade{
		providers:   opts.Providers,
		timeout:     timeout,
		placeholder: placeholder,
		logger:      logger,
	}
}

// Generate produces one image for the request. index distinguishes
// sibling images of the same generation so placeholders stay visually
// distinct.
func (c *Cascade) Generate(ctx context.Context, req Request, index int) image.Image {
	for _, p := range c.providers {
		img, err := c.tryProvider(ctx, p, req)
		if err == nil {
			return img
		}
		c.logger.Warn("provider failed", "provider", p.Name(), "err", err)
	}

	c.logger.Warn("all providers failed, using placeholder", "prompt_len", len(req.Prompt))
	return c.placeholder.Render(req.Prompt, index)
}

func (c *Cascade) tryProvider(ctx context.Context, p Provider, req Request) (image.Image, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return p.Generate(callCtx, req)
}
