package convo

import "strings"

// Vagueness policy: a message is vague when it talks about "my day" or
// "today" without any of these mood words. This is deliberately the
// day-keyword-only rule; tying vagueness to unanswered mood questions
// caused double-questioning right after a reset.
var vagueMoodWords = []string{"happy", "sad", "dull", "boring", "energetic", "calm"}

func isVague(message string) bool {
	lower := strings.ToLower(message)
	if !strings.Contains(lower, "my day") && !strings.Contains(lower, "today") {
		return false
	}
	for _, w := range vagueMoodWords {
		if strings.Contains(lower, w) {
			return false
		}
	}
	return true
}

var questionBuckets = map[string][]string{
	"day": {
		"I'd love to visualize your day! Could you tell me more about how it felt?",
		"What was the predominant feeling during your day?",
		"How would you describe the energy of your day?",
	},
	"feeling": {
		"What emotions would you like me to capture in this artwork?",
		"Tell me more about what you're feeling - that will help me create something meaningful.",
		"What emotional tone should I emphasize?",
	},
	"default": {
		"To create something personal, could you tell me more about the mood you want to express?",
		"What feeling should this artwork capture?",
		"Let's make something special! Tell me more about the feeling you want to capture.",
	},
}

func (s *Service) clarifyingQuestion(message string) string {
	lower := strings.ToLower(message)

	bucket := "default"
	switch {
	case strings.Contains(lower, "day") || strings.Contains(lower, "today"):
		bucket = "day"
	case strings.Contains(lower, "feel") || strings.Contains(lower, "feeling") ||
		strings.Contains(lower, "emotion") || strings.Contains(lower, "mood"):
		bucket = "feeling"
	}

	return s.pick(questionBuckets[bucket])
}

// moodMap translates clarification answers into a stored mood keyword
// and a fuller description folded into the regenerated prompt. Order
// matters: the first keyword found wins.
var moodMap = []struct {
	keyword     string
	description string
}{
	{"dull", "dull and unmotivated"},
	{"boring", "boring and uneventful"},
	{"tired", "tired and exhausted"},
	{"peaceful", "peaceful and calm"},
	{"energetic", "energetic and vibrant"},
	{"happy", "happy and joyful"},
	{"sad", "sad and melancholic"},
	{"busy", "busy and hectic"},
	{"calm", "calm and relaxed"},
	{"motivation", "needing motivation"},
}

func detectClarificationMood(message string) (keyword, description string) {
	lower := strings.ToLower(message)
	for _, m := range moodMap {
		if strings.Contains(lower, m.keyword) {
			return m.keyword, m.description
		}
	}
	return "thoughtful", "thoughtful and reflective"
}

var suggestionMoods = map[string][]string{
	"dull":         {"Add vibrant colors", "Increase contrast", "Make it more energetic"},
	"boring":       {"Make it more dynamic", "Add interesting elements", "Create visual tension"},
	"tired":        {"Soften the palette", "Add warm tones", "Create calming composition"},
	"happy":        {"Amplify the brightness", "Add playful elements", "Use cheerful colors"},
	"sad":          {"Deepen the blues", "Add melancholic tones", "Use soft, diffused light"},
	"energetic":    {"Add motion blur", "Use dynamic angles", "Bold contrasting colors"},
	"peaceful":     {"Soft gradients", "Calm color palette", "Balanced composition"},
	"romantic":     {"Warm golden tones", "Soft focus effect", "Dreamy atmosphere"},
	"mysterious":   {"Deep shadows", "Ethereal glow", "Hidden elements"},
	"professional": {"Clean lines", "Minimalist design", "Corporate colors"},
	"creative":     {"Abstract elements", "Artistic flair", "Unconventional composition"},
}

var suggestionMoodOrder = []string{
	"dull", "boring", "tired", "happy", "sad", "energetic",
	"peaceful", "romantic", "mysterious", "professional", "creative",
}

var styleSuggestions = []string{
	"Try watercolor effect", "Oil painting style", "Sketch-like quality",
	"Digital art style", "Cinematic lighting", "Vintage feel", "Minimalist style",
}

var colorSuggestions = []string{
	"Use warmer tones", "Try cooler palette", "Add vibrant colors",
	"Make it monochromatic", "Add pastel shades", "Deepen the shadows",
}

// Suggestions builds up to four quick-reply ideas keyed off mood words
// in the message, padded with style and color picks.
func (s *Service) Suggestions(message string) []string {
	lower := strings.ToLower(message)

	var out []string
	seen := make(map[string]bool)
	add := func(v string) {
		if !seen[v] && len(out) < 4 {
			seen[v] = true
			out = append(out, v)
		}
	}

	matched := 0
	for _, m := range suggestionMoodOrder {
		if !strings.Contains(lower, m) {
			continue
		}
		for _, sg := range suggestionMoods[m] {
			if matched == 2 {
				break
			}
			add(sg)
			matched++
		}
	}

	if len(out) < 3 {
		add(s.pick(styleSuggestions))
	}
	if len(out) < 4 {
		add(s.pick(colorSuggestions))
	}

	s.shuffle(out)
	return out
}
