// Package mood keeps per-user mood/event context detected from chat
// messages. It answers the "do we know enough to generate something
// personal yet?" question for the clarification flow.
package mood

import (
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Scan order matters: when a message carries several mood words the
// last one in this list wins, matching how moods are merged back from
// clarification answers.
var moodWords = []string{
	"happy", "sad", "tired", "peaceful", "excited", "angry", "nostalgic", "anxious",
	"dull", "boring", "energetic", "calm", "romantic", "mysterious", "professional",
	"creative", "melancholic", "subdued", "weary", "vibrant", "joyful", "somber",
	"tender", "enigmatic", "polished", "imaginative", "hectic", "serene", "inspiring",
	"uplifting", "thoughtful", "frustrated", "relaxed", "contemplative", "motivated",
}

var eventWords = []string{
	"work", "office", "family", "friends", "home", "personal", "life", "career",
	"morning", "afternoon", "evening", "night", "weekend", "vacation", "meeting",
	"day", "today", "yesterday", "tomorrow", "business", "company",
}

type Context struct {
	Mood  string
	Event string
}

type Options struct {
	// TTL bounds how long a detected mood keeps biasing generations.
	// Zero means entries never expire, which mirrors a chat where the
	// user simply never changed the subject.
	TTL time.Duration
}

type Tracker struct {
	cache *gocache.Cache
}

func NewTracker(opts Options) *Tracker {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &Tracker{
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

// NeedsContext reports whether no mood has been recorded for the user.
func (t *Tracker) NeedsContext(userID string) bool {
	ctx, ok := t.get(userID)
	return !ok || ctx.Mood == ""
}

// Update scans the message against the mood and event vocabularies and
// records the last match found in each. Earlier matches within the
// same message are overwritten.
func (t *Tracker) Update(userID, message string) {
	msg := strings.ToLower(message)
	ctx, _ := t.get(userID)

	for _, m := range moodWords {
		if strings.Contains(msg, m) {
			ctx.Mood = m
		}
	}
	for _, e := range eventWords {
		if strings.Contains(msg, e) {
			ctx.Event = e
		}
	}

	t.cache.SetDefault(userID, ctx)
}

// SetMood overwrites the stored mood directly, keeping any detected
// event. Used when a clarification answer names the mood explicitly.
func (t *Tracker) SetMood(userID, m string) {
	ctx, _ := t.get(userID)
	ctx.Mood = m
	t.cache.SetDefault(userID, ctx)
}

func (t *Tracker) Mood(userID string) (string, bool) {
	ctx, ok := t.get(userID)
	if !ok || ctx.Mood == "" {
		return "", false
	}
	return ctx.Mood, true
}

// ContextPrompt renders the stored context as a prompt fragment, most
// specific combination first.
func (t *Tracker) ContextPrompt(userID string) string {
	ctx, ok := t.get(userID)
	if !ok {
		return ""
	}

	switch {
	case ctx.Mood != "" && ctx.Event != "":
		return fmt.Sprintf("%s atmosphere related to %s", ctx.Mood, ctx.Event)
	case ctx.Mood != "":
		return fmt.Sprintf("%s atmosphere", ctx.Mood)
	case ctx.Event != "":
		return fmt.Sprintf("scene related to %s", ctx.Event)
	}
	return ""
}

func (t *Tracker) Clear(userID string) {
	t.cache.Delete(userID)
}

func (t *Tracker) get(userID string) (Context, bool) {
	v, ok := t.cache.Get(userID)
	if !ok {
		return Context{}, false
	}
	ctx, ok := v.(Context)
	return ctx, ok
}
