package generate

import (
	"context"
	"image"
	"math/rand"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vizzy-chat/internal/memory"
	"vizzy-chat/internal/mood"
	"vizzy-chat/internal/provider"
	"vizzy-chat/internal/story"
)

type downProvider struct{}

func (downProvider) Name() string { return "down" }
func (downProvider) Generate(context.Context, provider.Request) (image.Image, error) {
	return nil, errors.New("unreachable")
}

type fixture struct {
	gen   *Generator
	moods *mood.Tracker
}

// newFixture wires a generator whose only backend is down, so every
// image comes from the placeholder path.
func newFixture(t *testing.T) fixture {
	t.Helper()

	rng := rand.New(rand.NewSource(42))
	moods := mood.NewTracker(mood.Options{})
	gen := New(Options{
		Images: provider.NewCascade(provider.CascadeOptions{
			Providers:   []provider.Provider{downProvider{}},
			Timeout:     time.Second,
			Placeholder: provider.NewPlaceholder(provider.PlaceholderOptions{Rand: rng}),
		}),
		Moods:   moods,
		Memory:  memory.NewStore(memory.Options{}),
		Stories: story.NewGenerator(story.Options{Rand: rng}),
		Rand:    rng,
	})
	return fixture{gen: gen, moods: moods}
}

func countImages(images []*string) int {
	n := 0
	for _, img := range images {
		if img != nil {
			n++
		}
	}
	return n
}

func TestGenerateArtImageCountUnderTotalFailure(t *testing.T) {
	f := newFixture(t)

	res := f.gen.Generate(context.Background(), Request{UserID: "u1", Message: "a quiet forest", Mode: ModeArt})

	assert.Equal(t, TypeImage, res.Type)
	require.Len(t, res.Content.Images, 2, "always exactly two images for art mode")
	assert.Equal(t, 2, countImages(res.Content.Images), "placeholders fill failed slots")
	assert.Contains(t, artStyles, res.Content.Style)
	assert.Contains(t, res.Content.PromptUsed, "a quiet forest")
	require.NotNil(t, res.Content.Metadata)
	assert.Equal(t, ModeArt, res.Content.Metadata.Mode)
}

func TestGenerateArtDayQueryUsesMood(t *testing.T) {
	f := newFixture(t)
	f.moods.SetMood("u1", "peaceful")

	res := f.gen.Generate(context.Background(), Request{UserID: "u1", Message: "paint my day", Mode: ModeArt})

	assert.Contains(t, res.Content.PromptUsed, "Artistic interpretation of a day")
	assert.Contains(t, res.Content.PromptUsed, "peaceful mood")
	assert.Equal(t, "peaceful", res.Content.Metadata.Mood)
}

func TestGenerateDefaultMoodIsVibrant(t *testing.T) {
	f := newFixture(t)

	res := f.gen.Generate(context.Background(), Request{UserID: "fresh", Message: "a harbor", Mode: ModeArt})

	assert.Equal(t, "vibrant", res.Content.Metadata.Mood)
}

func TestGeneratePoster(t *testing.T) {
	f := newFixture(t)

	res := f.gen.Generate(context.Background(), Request{
		UserID:  "u1",
		Message: `spring sale poster saying "Half Price"`,
		Mode:    ModePoster,
	})

	assert.Equal(t, TypePoster, res.Type)
	assert.Equal(t, "Half Price", res.Content.Slogan)
	assert.Contains(t, res.Content.PromptUsed, "no text")
	assert.Contains(t, posterStyles, res.Content.Style)
	require.Len(t, res.Content.Images, 2)
}

func TestGeneratePosterWithoutSlogan(t *testing.T) {
	f := newFixture(t)

	res := f.gen.Generate(context.Background(), Request{
		UserID:  "u1",
		Message: "poster for jazz night",
		Mode:    ModePoster,
	})

	assert.Empty(t, res.Content.Slogan)
	assert.NotContains(t, res.Content.PromptUsed, "no text")
}

func TestGenerateStoryThreeScenes(t *testing.T) {
	f := newFixture(t)
	f.moods.SetMood("u1", "happy")

	res := f.gen.Generate(context.Background(), Request{
		UserID:  "u1",
		Message: "an adventure across mountains",
		Mode:    ModeStory,
	})

	assert.Equal(t, TypeStory, res.Type)
	require.Len(t, res.Content.Scenes, 3)
	require.Len(t, res.Content.Images, 3, "story generates one image per scene")
	assert.Equal(t, 3, countImages(res.Content.Images))
	assert.NotEmpty(t, res.Content.Title)
	assert.Contains(t, storyStyles, res.Content.Style)
}

func TestGenerateTransformAndBusiness(t *testing.T) {
	f := newFixture(t)

	res := f.gen.Generate(context.Background(), Request{UserID: "u1", Message: "my street", Mode: ModeTransform})
	assert.Equal(t, TypeImage, res.Type)
	assert.Contains(t, transformStyles, res.Content.Style)
	assert.Contains(t, res.Content.PromptUsed, "transformed into")
	require.Len(t, res.Content.Images, 2)

	res = f.gen.Generate(context.Background(), Request{UserID: "u1", Message: "team offsite", Mode: ModeBusiness})
	assert.Contains(t, businessStyles, res.Content.Style)
	assert.Contains(t, res.Content.PromptUsed, "business visual")
	require.Len(t, res.Content.Images, 2)
}

func TestGenerateHonorsRequestedStyle(t *testing.T) {
	f := newFixture(t)

	res := f.gen.Generate(context.Background(), Request{
		UserID:  "u1",
		Message: "my street as a watercolor",
		Mode:    ModeTransform,
	})
	assert.Equal(t, "watercolor", res.Content.Style, "a style the user names beats the random pick")

	res = f.gen.Generate(context.Background(), Request{
		UserID:  "u1",
		Message: "make this oil, please",
		Mode:    ModeTransform,
	})
	assert.Equal(t, "oil painting", res.Content.Style)
}

func TestGeneratePersonalUsesContext(t *testing.T) {
	f := newFixture(t)
	f.moods.Update("u1", "a calm weekend")

	res := f.gen.Generate(context.Background(), Request{UserID: "u1", Message: "something for me", Mode: ModePersonal})

	assert.Equal(t, ModePersonal, res.Content.Mode)
	assert.Contains(t, res.Content.PromptUsed, "calm atmosphere related to weekend")
	assert.NotContains(t, res.Content.PromptUsed, ", ,", "empty fragments must not leak into the prompt")
}

func TestReasoningMentionsMood(t *testing.T) {
	f := newFixture(t)
	f.moods.SetMood("u1", "peaceful")

	res := f.gen.Generate(context.Background(), Request{UserID: "u1", Message: "a lake", Mode: ModeArt})

	assert.Contains(t, res.Content.Reasoning, "peaceful")
}
