// Package intent maps free text to a coarse generation intent and
// pulls out style/mood/color keywords. It is advisory: the explicit
// mode on a request always wins, keywords only steer sub-styling.
package intent

import "strings"

const (
	IntentPoster    = "poster"
	IntentStory     = "story"
	IntentTransform = "transform"
	IntentMood      = "mood"
	IntentImage     = "image"
)

// Ordered cascade: the first group with a hit decides the intent, so a
// "poster about a story" is a poster, not a story.
var intentGroups = []struct {
	intent string
	words  []string
}{
	{IntentPoster, []string{
		"poster", "quote", "signage", "sale", "ad", "advertisement",
		"flyer", "banner", "sign", "billboard", "print",
	}},
	{IntentStory, []string{
		"story", "tale", "narrative", "scene", "chapter",
		"plot", "fairytale", "fable", "bedtime",
	}},
	{IntentTransform, []string{
		"transform", "convert", "change", "turn into", "make it",
		"style transfer", "reimagine", "redesign",
	}},
	{IntentMood, []string{
		"mood", "feel", "emotion", "vibe", "atmosphere",
		"emotional", "feeling", "sentiment",
	}},
}

func Classify(text string) string {
	p := strings.ToLower(text)
	for _, g := range intentGroups {
		for _, w := range g.words {
			if strings.Contains(p, w) {
				return g.intent
			}
		}
	}
	return IntentImage
}

type Keywords struct {
	Subjects []string
	Styles   []string
	Moods    []string
	Business []string
	Colors   []string
}

var styleKeywords = []struct {
	style string
	terms []string
}{
	{"cinematic", []string{"cinematic", "movie", "film", "dramatic"}},
	{"minimalist", []string{"minimal", "simple", "clean", "modern"}},
	{"abstract", []string{"abstract", "abstract art", "non-representational"}},
	{"realistic", []string{"realistic", "real", "photorealistic", "lifelike"}},
	{"vintage", []string{"vintage", "retro", "old school", "classic"}},
	{"watercolor", []string{"watercolor", "water colour", "aquarelle"}},
	{"oil", []string{"oil painting", "oil", "painterly"}},
	{"sketch", []string{"sketch", "drawing", "pencil", "line art"}},
}

var moodKeywords = []string{
	"happy", "sad", "peaceful", "energetic", "calm", "dramatic",
	"romantic", "dark", "bright", "warm", "cool", "mysterious",
	"dull", "boring", "exciting", "melancholic", "joyful", "motivated",
}

var businessKeywords = []string{
	"product", "brand", "sale", "business", "professional",
	"marketing", "commercial", "corporate", "premium", "campaign",
}

var colorKeywords = []string{
	"red", "blue", "green", "yellow", "purple", "orange", "pink",
	"brown", "black", "white", "gold", "silver", "pastel", "vibrant",
}

// ExtractKeywords runs independent substring scans per category.
// Subjects fall back to a long-word heuristic, de-duplicated in order
// of appearance and capped at three.
func ExtractKeywords(message string) Keywords {
	lower := strings.ToLower(message)
	var kw Keywords

	for _, sk := range styleKeywords {
		for _, term := range sk.terms {
			if strings.Contains(lower, term) {
				kw.Styles = append(kw.Styles, sk.style)
				break
			}
		}
	}

	for _, m := range moodKeywords {
		if strings.Contains(lower, m) {
			kw.Moods = append(kw.Moods, m)
		}
	}

	for _, b := range businessKeywords {
		if strings.Contains(lower, b) {
			kw.Business = append(kw.Business, b)
		}
	}

	for _, c := range colorKeywords {
		if strings.Contains(lower, c) {
			kw.Colors = append(kw.Colors, c)
		}
	}

	known := make(map[string]bool, len(moodKeywords)+len(colorKeywords))
	for _, m := range moodKeywords {
		known[m] = true
	}
	for _, c := range colorKeywords {
		known[c] = true
	}

	seen := make(map[string]bool)
	for _, w := range strings.Fields(lower) {
		if len(w) <= 3 || known[w] || seen[w] {
			continue
		}
		seen[w] = true
		kw.Subjects = append(kw.Subjects, w)
		if len(kw.Subjects) == 3 {
			break
		}
	}

	return kw
}
