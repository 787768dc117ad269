// Package story builds short three-scene narratives from a prompt and
// a mood, entirely from templates. It stands in for an external text
// model and can be swapped out without touching the orchestrator.
package story

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode"
)

type Story struct {
	Title           string
	Scenes          []string
	Theme           string
	Mood            string
	MoodDescription string
	ImagePrompts    []string
}

var themeKeywords = []struct {
	theme string
	words []string
}{
	{"adventure", []string{"adventure", "journey", "quest", "explore", "discover"}},
	{"romance", []string{"love", "romance", "heart", "together", "couple"}},
	{"mystery", []string{"mystery", "secret", "detective", "puzzle", "solve"}},
	{"inspirational", []string{"inspire", "dream", "hope", "motivate", "achieve"}},
	{"fantasy", []string{"magic", "dragon", "fantasy", "wizard", "mythical"}},
}

var openers = map[string][]string{
	"adventure": {
		"Once upon a time, in a %s land far away...",
		"The hero embarked on a %s journey...",
		"An unexpected adventure began on a %s morning...",
	},
	"romance": {
		"Two hearts met under a %s sky...",
		"A %s love story unfolded...",
		"In the %s glow of twilight, they found each other...",
	},
	"mystery": {
		"A %s secret waited to be discovered...",
		"The %s night held many secrets...",
		"Something %s was about to happen...",
	},
	"inspirational": {
		"A %s journey of self-discovery began...",
		"She found strength in the %s moments...",
		"The %s path led to unexpected places...",
	},
	"fantasy": {
		"In a realm of %s magic...",
		"The %s prophecy spoke of a hero...",
		"Magic filled the %s air...",
	},
	"default": {
		"In a %s setting, our story begins...",
		"The %s atmosphere set the stage...",
		"A %s tale unfolded before our eyes...",
	},
}

var moodDescriptions = map[string]string{
	"happy":      "bright and cheerful with warm colors",
	"sad":        "soft and melancholic with muted tones",
	"peaceful":   "calm and serene with gentle transitions",
	"energetic":  "dynamic and vibrant with movement",
	"mysterious": "dark and intriguing with hidden elements",
	"romantic":   "warm and tender with soft focus",
	"dull":       "subdued and quiet with low contrast",
	"hectic":     "chaotic and busy with overlapping elements",
	"motivation": "inspiring with gradual brightness increase",
	"thoughtful": "contemplative with soft, reflective tones",
	"neutral":    "balanced and atmospheric",
}

type Options struct {
	Rand *rand.Rand
}

type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewGenerator(opts Options) *Generator {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

// Generate produces a title, three scenes and one image prompt per
// scene. The first scene is tagged as an establishing shot, the second
// as the action moment, the last as the resolution.
func (g *Generator) Generate(prompt, mood string) Story {
	if strings.TrimSpace(mood) == "" {
		mood = "neutral"
	}

	theme := detectTheme(prompt)
	opener := fmt.Sprintf(g.pick(openers[theme]), mood)

	scenes := []string{
		fmt.Sprintf("%s %s", opener, prompt),
		fmt.Sprintf("The %s journey continued as new challenges emerged.", mood),
		fmt.Sprintf("In the end, the %s experience left everyone transformed.", mood),
	}

	moodDesc, ok := moodDescriptions[mood]
	if !ok {
		moodDesc = "atmospheric"
	}

	return Story{
		Title:           buildTitle(prompt),
		Scenes:          scenes,
		Theme:           theme,
		Mood:            mood,
		MoodDescription: moodDesc,
		ImagePrompts:    imagePrompts(scenes, moodDesc),
	}
}

func (g *Generator) pick(options []string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return options[g.rng.Intn(len(options))]
}

func detectTheme(prompt string) string {
	lower := strings.ToLower(prompt)
	for _, tk := range themeKeywords {
		for _, w := range tk.words {
			if strings.Contains(lower, w) {
				return tk.theme
			}
		}
	}
	return "default"
}

func buildTitle(prompt string) string {
	words := strings.Fields(prompt)
	title := prompt
	if len(words) > 3 {
		title = strings.Join(words[:3], " ") + "..."
	}
	return capitalize(title)
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func imagePrompts(scenes []string, moodDesc string) []string {
	tags := []string{
		"establishing shot, cinematic composition",
		"action scene, dramatic lighting",
		"resolution, emotional payoff",
	}

	prompts := make([]string, 0, len(scenes))
	for i, scene := range scenes {
		first := scene
		if idx := strings.IndexByte(scene, '.'); idx >= 0 {
			first = scene[:idx]
		}
		tag := tags[len(tags)-1]
		if i < len(tags) {
			tag = tags[i]
		}
		prompts = append(prompts, fmt.Sprintf("%s, %s, %s, detailed, atmospheric, digital art", first, moodDesc, tag))
	}
	return prompts
}
