package generate

import "strings"

type Mode string

const (
	ModeArt       Mode = "art"
	ModePoster    Mode = "poster"
	ModeStory     Mode = "story"
	ModeTransform Mode = "transform"
	ModeBusiness  Mode = "business"
	ModePersonal  Mode = "personal"
)

// ParseMode maps a wire value to a known mode, defaulting to personal
// for anything unrecognized.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeArt:
		return ModeArt
	case ModePoster:
		return ModePoster
	case ModeStory:
		return ModeStory
	case ModeTransform:
		return ModeTransform
	case ModeBusiness:
		return ModeBusiness
	default:
		return ModePersonal
	}
}

// Request is immutable once constructed: the clarification flow builds
// a new derived Request instead of mutating the original.
type Request struct {
	UserID         string
	Message        string
	ConversationID string
	Mode           Mode
}

type ResultType string

const (
	TypeImage    ResultType = "image"
	TypePoster   ResultType = "poster"
	TypeStory    ResultType = "story"
	TypeQuestion ResultType = "question"
	TypeError    ResultType = "error"
)

type Metadata struct {
	GenerationTime float64 `json:"generation_time"`
	Mode           Mode    `json:"mode"`
	Mood           string  `json:"mood"`
}

// Content is the mode-specific payload. Image entries are pointers so
// a single failed encode serializes as null instead of shrinking the
// list.
type Content struct {
	Text        string     `json:"text,omitempty"`
	Suggestions []string   `json:"suggestions,omitempty"`
	Title       string     `json:"title,omitempty"`
	Scenes      []string   `json:"scenes,omitempty"`
	Images      []*string  `json:"images,omitempty"`
	Slogan      string     `json:"slogan,omitempty"`
	Reasoning   string     `json:"reasoning,omitempty"`
	PromptUsed  string     `json:"prompt_used,omitempty"`
	Mode        Mode       `json:"mode,omitempty"`
	Style       string     `json:"style,omitempty"`
	Metadata    *Metadata  `json:"metadata,omitempty"`
}

type Result struct {
	Type    ResultType `json:"type"`
	Content Content    `json:"content"`
}
