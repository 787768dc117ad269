package story

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator() *Generator {
	return NewGenerator(Options{Rand: rand.New(rand.NewSource(1))})
}

func TestDetectTheme(t *testing.T) {
	tests := []struct {
		prompt string
		want   string
	}{
		{"a grand adventure in the alps", "adventure"},
		{"two people fall in love", "romance"},
		{"a detective hunts for clues", "mystery"},
		{"a dragon guards the tower", "fantasy"},
		{"hope after a hard year", "inspirational"},
		{"a quiet afternoon", "default"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, detectTheme(tt.prompt), "prompt: %q", tt.prompt)
	}
}

func TestGenerateStructure(t *testing.T) {
	g := newTestGenerator()

	st := g.Generate("a grand journey across the sea", "peaceful")

	require.Len(t, st.Scenes, 3)
	require.Len(t, st.ImagePrompts, 3)
	assert.Equal(t, "adventure", st.Theme)
	assert.Equal(t, "peaceful", st.Mood)
	assert.Equal(t, "calm and serene with gentle transitions", st.MoodDescription)

	// Opener is one of the adventure templates with the mood filled in.
	found := false
	for _, tmpl := range openers["adventure"] {
		if strings.HasPrefix(st.Scenes[0], strings.ReplaceAll(tmpl, "%s", "peaceful")) {
			found = true
		}
	}
	assert.True(t, found, "scene 1 should start with an adventure opener: %q", st.Scenes[0])
	assert.True(t, strings.HasSuffix(st.Scenes[0], "a grand journey across the sea"))

	assert.Contains(t, st.Scenes[1], "peaceful")
	assert.Contains(t, st.Scenes[2], "peaceful")
}

func TestGenerateTitle(t *testing.T) {
	g := newTestGenerator()

	st := g.Generate("a grand journey across the sea", "calm")
	assert.Equal(t, "A grand journey...", st.Title)

	st = g.Generate("short quest", "calm")
	assert.Equal(t, "Short quest", st.Title)
}

func TestImagePromptTags(t *testing.T) {
	g := newTestGenerator()

	st := g.Generate("an adventure begins", "happy")

	assert.Contains(t, st.ImagePrompts[0], "establishing shot")
	assert.Contains(t, st.ImagePrompts[1], "action scene")
	assert.Contains(t, st.ImagePrompts[2], "resolution")
	for _, p := range st.ImagePrompts {
		assert.Contains(t, p, st.MoodDescription)
		assert.Contains(t, p, "digital art")
	}
}

func TestUnknownMoodFallsBack(t *testing.T) {
	g := newTestGenerator()

	st := g.Generate("a tale", "bewildered")
	assert.Equal(t, "atmospheric", st.MoodDescription)

	st = g.Generate("a tale", "  ")
	assert.Equal(t, "neutral", st.Mood)
}
