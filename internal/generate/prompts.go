package generate

import (
	"fmt"
	"regexp"
	"strings"
)

// negativePrompt is sent alongside every generation request and kept
// out of prompt_used in responses.
const negativePrompt = "blurry, low quality, distorted, ugly, text, watermark"

const baseStyle = "artistic, creative, atmospheric, emotional"

var (
	artStyles       = []string{"expressionist", "impressionist", "abstract", "surreal"}
	posterStyles    = []string{"minimalist", "bold typography", "elegant", "modern"}
	storyStyles     = []string{"cinematic", "illustrated", "children's book"}
	transformStyles = []string{"oil painting", "watercolor", "sketch", "cyberpunk"}
	businessStyles  = []string{"corporate", "professional", "clean", "modern"}
)

var (
	doubleQuoted  = regexp.MustCompile(`"([^"]*)"`)
	singleQuoted  = regexp.MustCompile(`'([^']*)'`)
	trailingPunct = regexp.MustCompile(`[.!?]$`)
	sloganIntro   = regexp.MustCompile(`(?i)slogan should be`)
)

// ExtractSlogan pulls literal slogan text out of a poster request:
// first double-quoted substring, then single-quoted, then whatever
// follows "slogan should be" with one trailing punctuation mark
// stripped. Empty string means no slogan.
func ExtractSlogan(message string) string {
	if m := doubleQuoted.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	if m := singleQuoted.FindStringSubmatch(message); m != nil {
		return m[1]
	}

	// Matched against the original string: lowercasing first would
	// shift byte offsets for case mappings that change rune length.
	if loc := sloganIntro.FindStringIndex(message); loc != nil {
		slogan := strings.TrimSpace(message[loc[1]:])
		return trailingPunct.ReplaceAllString(slogan, "")
	}

	return ""
}

var reasoningTemplates = map[Mode][]string{
	ModeArt: {
		"As an artist, I've interpreted '%s' through a %s lens",
		"Your vision of '%s' inspired these %s artistic interpretations",
		"I've translated '%s' into %s visual poetry",
	},
	ModePoster: {
		"For this poster, I've designed a %[2]s background that complements your message",
		"The composition uses %[2]s tones to create visual impact",
		"This %[2]s design provides the perfect canvas for your text",
	},
	ModeStory: {
		"Your story about '%s' unfolds in three %s chapters",
		"I've crafted a %[2]s narrative arc based on your vision",
		"Each scene builds on the %[2]s atmosphere to tell your tale",
	},
	ModePersonal: {
		"I've interpreted your request through a %[2]s lens, focusing on '%[1]s'",
		"Drawing from '%s', I've emphasized %s elements",
		"The %[2]s atmosphere you described guided my creative direction",
	},
}

var reasoningInsights = []string{
	"Notice how the lighting creates depth and atmosphere.",
	"The composition guides your eye through the scene.",
	"The color harmony reinforces the emotional tone.",
	"The contrast creates visual interest and drama.",
}

func messagePreview(message string) string {
	runes := []rune(message)
	if len(runes) > 30 {
		return string(runes[:30]) + "..."
	}
	return message
}

func (g *Generator) reasoning(message, mood string, mode Mode) string {
	templates, ok := reasoningTemplates[mode]
	if !ok {
		templates = reasoningTemplates[ModePersonal]
	}
	base := fmt.Sprintf(g.pick(templates), messagePreview(message), mood)
	return fmt.Sprintf("%s. %s", base, g.pick(reasoningInsights))
}

// joinPrompt drops empty fragments so an unset context never leaves a
// dangling comma in the prompt.
func joinPrompt(parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
