package memory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendSlidingWindow(t *testing.T) {
	s := NewStore(Options{MaxMessages: 3})

	for i := 0; i < 5; i++ {
		s.Append("u1", fmt.Sprintf("message %d", i))
	}

	entries := s.Recent("u1", 10)
	assert.Len(t, entries, 3)
	assert.Equal(t, "message 2", entries[0].Message, "oldest entries drop first")
	assert.Equal(t, "message 4", entries[2].Message)
}

func TestRecentLimitsCount(t *testing.T) {
	s := NewStore(Options{})

	s.Append("u1", "one")
	s.Append("u1", "two")
	s.Append("u1", "three")

	entries := s.Recent("u1", 2)
	assert.Len(t, entries, 2)
	assert.Equal(t, "two", entries[0].Message)
}

func TestPreferencesEmpty(t *testing.T) {
	s := NewStore(Options{})

	prefs := s.Preferences("unknown")
	assert.Equal(t, "", prefs.FavoriteStyle)
	assert.Zero(t, prefs.InteractionCount)
	assert.Empty(t, prefs.CommonThemes)
}

func TestFavoriteStyle(t *testing.T) {
	s := NewStore(Options{})

	s.Append("u1", "make it cinematic")
	s.Append("u1", "like a movie scene")
	s.Append("u1", "something vintage maybe")

	prefs := s.Preferences("u1")
	assert.Equal(t, "cinematic", prefs.FavoriteStyle, "most frequent style wins")
	assert.Equal(t, 3, prefs.InteractionCount)
}

func TestCommonThemes(t *testing.T) {
	s := NewStore(Options{})

	s.Append("u1", "paint a mountain landscape")
	s.Append("u1", "another mountain please")

	prefs := s.Preferences("u1")
	assert.Contains(t, prefs.CommonThemes, "mountain")
	assert.Contains(t, prefs.CommonThemes, "landscape")
	assert.LessOrEqual(t, len(prefs.CommonThemes), 3)
}

func TestClear(t *testing.T) {
	s := NewStore(Options{})

	s.Append("u1", "hello there everyone")
	s.Clear("u1")

	assert.Empty(t, s.Recent("u1", 10))
	assert.Zero(t, s.Preferences("u1").InteractionCount)
}
