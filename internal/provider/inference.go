package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// InferenceAPI calls the Hugging Face inference router. The response
// body is the raw image.
type InferenceAPI struct {
	url        string
	token      string
	httpClient *http.Client
}

type InferenceAPIOptions struct {
	URL        string
	Token      string
	HTTPClient *http.Client
}

func NewInferenceAPI(opts InferenceAPIOptions) *InferenceAPI {
	return &InferenceAPI{
		url:        strings.TrimRight(opts.URL, "/"),
		token:      opts.Token,
		httpClient: opts.HTTPClient,
	}
}

func (p *InferenceAPI) Name() string { return "hf-inference" }

type inferenceParameters struct {
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	NumInferenceSteps int     `json:"num_inference_steps"`
	GuidanceScale     float64 `json:"guidance_scale"`
	NegativePrompt    string  `json:"negative_prompt,omitempty"`
}

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

func (p *InferenceAPI) Generate(ctx context.Context, req Request) (image.Image, error) {
	if p.httpClient == nil {
		return nil, errors.New("http client is nil")
	}

	body, err := json.Marshal(inferenceRequest{
		Inputs: req.Prompt,
		Parameters: inferenceParameters{
			Width:             768,
			Height:            768,
			NumInferenceSteps: 30,
			GuidanceScale:     7.5,
			NegativePrompt:    req.NegativePrompt,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("authorization", "Bearer "+p.token)

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
		return nil, errors.Errorf("inference API %s: %s", httpResp.Status, truncate(string(raw), 200))
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}
	return img, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}
