// Package provider abstracts the text-to-image backends behind one
// interface with a ranked fallback cascade. The cascade never fails:
// when every backend is down it degrades to locally rendered
// placeholders so callers always receive a valid image.
package provider

import (
	"context"
	"image"
)

type Request struct {
	Prompt string
	// NegativePrompt lists artifacts the backend should avoid. It is
	// kept out of Prompt so response payloads echo only what the user
	// asked for.
	NegativePrompt string
}

type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (image.Image, error)
}
