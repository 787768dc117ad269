package generate

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"vizzy-chat/internal/intent"
	"vizzy-chat/internal/memory"
	"vizzy-chat/internal/mood"
	"vizzy-chat/internal/provider"
	"vizzy-chat/internal/story"
)

const defaultMood = "vibrant"

// maxEncodedDim bounds the longest side of returned images to keep
// base64 payloads reasonable.
const maxEncodedDim = 1024

type Options struct {
	Images  *provider.Cascade
	Moods   *mood.Tracker
	Memory  *memory.Store
	Stories *story.Generator
	Logger  *slog.Logger
	Rand    *rand.Rand
}

// Generator turns a finalized request into images plus reasoning. It
// never fails on backend errors: every image slot degrades through the
// provider cascade down to a placeholder.
type Generator struct {
	images  *provider.Cascade
	moods   *mood.Tracker
	memory  *memory.Store
	stories *story.Generator
	logger  *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func New(opts Options) *Generator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Generator{
		images:  opts.Images,
		moods:   opts.Moods,
		memory:  opts.Memory,
		stories: opts.Stories,
		logger:  logger,
		rng:     rng,
	}
}

func (g *Generator) Generate(ctx context.Context, req Request) Result {
	start := time.Now()

	userMood, ok := g.moods.Mood(req.UserID)
	if !ok {
		userMood = defaultMood
	}

	style := baseStyle
	if prefs := g.memory.Preferences(req.UserID); prefs.FavoriteStyle != "" {
		style = style + ", " + prefs.FavoriteStyle
	}

	g.logger.Info("generating", "user", req.UserID, "mode", req.Mode, "mood", userMood)

	switch req.Mode {
	case ModeArt:
		return g.generateArt(ctx, req, userMood, style, start)
	case ModePoster:
		return g.generatePoster(ctx, req, userMood, start)
	case ModeStory:
		return g.generateStory(ctx, req, userMood, start)
	case ModeTransform:
		return g.generateTransform(ctx, req, userMood, start)
	case ModeBusiness:
		return g.generateBusiness(ctx, req, userMood, start)
	default:
		return g.generatePersonal(ctx, req, userMood, style, start)
	}
}

func (g *Generator) generateArt(ctx context.Context, req Request, userMood, style string, start time.Time) Result {
	lower := strings.ToLower(req.Message)
	isAboutDay := strings.Contains(lower, "my day") || strings.Contains(lower, "today")

	artStyle := g.pickStyle(artStyles, req.Message)

	var prompt string
	if isAboutDay {
		prompt = fmt.Sprintf("Artistic interpretation of a day, %s mood, %s style", userMood, artStyle)
	} else {
		prompt = fmt.Sprintf("%s, %s style, %s", req.Message, artStyle, style)
	}

	images := g.generateImages(ctx, prompt, 2)

	return Result{
		Type: TypeImage,
		Content: Content{
			Images:     images,
			Reasoning:  g.reasoning(req.Message, userMood, ModeArt),
			PromptUsed: prompt,
			Mode:       ModeArt,
			Style:      artStyle,
			Metadata:   g.metadata(start, ModeArt, userMood),
		},
	}
}

func (g *Generator) generatePoster(ctx context.Context, req Request, userMood string, start time.Time) Result {
	slogan := ExtractSlogan(req.Message)
	posterStyle := g.pickStyle(posterStyles, req.Message)

	prompt := fmt.Sprintf("%s poster background, %s, %s atmosphere", posterStyle, req.Message, userMood)
	if slogan != "" {
		// The slogan gets overlaid later; generated text would clash.
		prompt += ", no text"
	}

	images := g.generateImages(ctx, prompt, 2)

	return Result{
		Type: TypePoster,
		Content: Content{
			Images:     images,
			Slogan:     slogan,
			Reasoning:  g.reasoning(req.Message, userMood, ModePoster),
			PromptUsed: prompt,
			Mode:       ModePoster,
			Style:      posterStyle,
			Metadata:   g.metadata(start, ModePoster, userMood),
		},
	}
}

func (g *Generator) generateStory(ctx context.Context, req Request, userMood string, start time.Time) Result {
	st := g.stories.Generate(req.Message, userMood)
	storyStyle := g.pickStyle(storyStyles, req.Message)

	prompts := make([]string, len(st.ImagePrompts))
	for i, p := range st.ImagePrompts {
		prompts[i] = fmt.Sprintf("%s, %s, %s atmosphere", p, storyStyle, userMood)
	}

	images := g.generateFromPrompts(ctx, prompts)

	return Result{
		Type: TypeStory,
		Content: Content{
			Title:     st.Title,
			Scenes:    st.Scenes,
			Images:    images,
			Reasoning: g.reasoning(req.Message, userMood, ModeStory),
			Mode:      ModeStory,
			Style:     storyStyle,
			Metadata:  g.metadata(start, ModeStory, userMood),
		},
	}
}

func (g *Generator) generateTransform(ctx context.Context, req Request, userMood string, start time.Time) Result {
	target := g.pickStyle(transformStyles, req.Message)
	prompt := fmt.Sprintf("%s, transformed into %s style, %s atmosphere", req.Message, target, userMood)

	images := g.generateImages(ctx, prompt, 2)

	return Result{
		Type: TypeImage,
		Content: Content{
			Images:     images,
			Reasoning:  g.reasoning(req.Message, userMood, ModeTransform),
			PromptUsed: prompt,
			Mode:       ModeTransform,
			Style:      target,
			Metadata:   g.metadata(start, ModeTransform, userMood),
		},
	}
}

func (g *Generator) generateBusiness(ctx context.Context, req Request, userMood string, start time.Time) Result {
	businessStyle := g.pickStyle(businessStyles, req.Message)
	prompt := fmt.Sprintf("%s, %s business visual, professional, %s atmosphere", req.Message, businessStyle, userMood)

	images := g.generateImages(ctx, prompt, 2)

	return Result{
		Type: TypeImage,
		Content: Content{
			Images:     images,
			Reasoning:  g.reasoning(req.Message, userMood, ModeBusiness),
			PromptUsed: prompt,
			Mode:       ModeBusiness,
			Style:      businessStyle,
			Metadata:   g.metadata(start, ModeBusiness, userMood),
		},
	}
}

func (g *Generator) generatePersonal(ctx context.Context, req Request, userMood, style string, start time.Time) Result {
	prompt := joinPrompt(req.Message, g.moods.ContextPrompt(req.UserID), style)

	images := g.generateImages(ctx, prompt, 2)

	return Result{
		Type: TypeImage,
		Content: Content{
			Images:     images,
			Reasoning:  g.reasoning(req.Message, userMood, ModePersonal),
			PromptUsed: prompt,
			Mode:       ModePersonal,
			Metadata:   g.metadata(start, ModePersonal, userMood),
		},
	}
}

func (g *Generator) generateImages(ctx context.Context, prompt string, count int) []*string {
	prompts := make([]string, count)
	for i := range prompts {
		prompts[i] = prompt
	}
	return g.generateFromPrompts(ctx, prompts)
}

// generateFromPrompts produces one image per prompt in parallel. The
// result always has len(prompts) entries; an entry is nil only when
// encoding failed, never because a backend did.
func (g *Generator) generateFromPrompts(ctx context.Context, prompts []string) []*string {
	out := make([]*string, len(prompts))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, p := range prompts {
		i, p := i, p
		eg.Go(func() error {
			img := g.images.Generate(egCtx, provider.Request{
				Prompt:         p,
				NegativePrompt: negativePrompt,
			}, i)
			out[i] = g.encode(img)
			return nil
		})
	}
	_ = eg.Wait()

	return out
}

func (g *Generator) encode(img image.Image) *string {
	bounds := img.Bounds()
	if bounds.Dx() > maxEncodedDim || bounds.Dy() > maxEncodedDim {
		img = imaging.Fit(img, maxEncodedDim, maxEncodedDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		g.logger.Error("image encoding failed", "err", err)
		return nil
	}

	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return &encoded
}

func (g *Generator) metadata(start time.Time, mode Mode, userMood string) *Metadata {
	return &Metadata{
		GenerationTime: math.Round(time.Since(start).Seconds()*100) / 100,
		Mode:           mode,
		Mood:           userMood,
	}
}

func (g *Generator) pick(options []string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return options[g.rng.Intn(len(options))]
}

// pickStyle prefers a style the user actually asked for over a random
// one. Keyword extraction is advisory: it only wins when the extracted
// style maps into the mode's own pool.
func (g *Generator) pickStyle(pool []string, message string) string {
	for _, want := range intent.ExtractKeywords(message).Styles {
		for _, s := range pool {
			if strings.Contains(s, want) {
				return s
			}
		}
	}
	return g.pick(pool)
}
