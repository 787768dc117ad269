// Package memory is a rolling per-user message log used to derive soft
// preference signals. Nothing here is durable; a restart forgets all
// of it.
package memory

import (
	"strings"
	"sync"
	"time"
)

type Entry struct {
	Message   string
	Timestamp time.Time
}

type Preferences struct {
	FavoriteStyle    string
	InteractionCount int
	CommonThemes     []string
}

type Options struct {
	MaxMessages int
}

type Store struct {
	mu         sync.Mutex
	entries    map[string][]Entry
	maxEntries int
}

func NewStore(opts Options) *Store {
	maxEntries := opts.MaxMessages
	if maxEntries <= 0 {
		maxEntries = 50
	}
	return &Store{
		entries:    make(map[string][]Entry),
		maxEntries: maxEntries,
	}
}

func (s *Store) Append(userID, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := append(s.entries[userID], Entry{Message: message, Timestamp: time.Now()})
	if len(log) > s.maxEntries {
		log = log[len(log)-s.maxEntries:]
	}
	s.entries[userID] = log
}

func (s *Store) Recent(userID string, n int) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.entries[userID]
	if n < len(log) {
		log = log[len(log)-n:]
	}
	out := make([]Entry, len(log))
	copy(out, log)
	return out
}

func (s *Store) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
}

var preferenceStyles = []struct {
	style string
	terms []string
}{
	{"cinematic", []string{"cinematic", "movie", "film"}},
	{"minimalist", []string{"minimal", "simple", "clean"}},
	{"abstract", []string{"abstract", "artistic"}},
	{"realistic", []string{"realistic", "real", "photograph"}},
	{"vintage", []string{"vintage", "retro", "old"}},
	{"modern", []string{"modern", "contemporary"}},
	{"art", []string{"art", "artistic", "creative"}},
	{"poster", []string{"poster", "sign", "ad"}},
	{"story", []string{"story", "narrative", "tale"}},
}

// Preferences derives soft signals from the log: the most frequent
// style keyword across the last 10 messages and up to three longer
// words from the last 5.
func (s *Store) Preferences(userID string) Preferences {
	s.mu.Lock()
	log := append([]Entry(nil), s.entries[userID]...)
	s.mu.Unlock()

	return Preferences{
		FavoriteStyle:    favoriteStyle(log),
		InteractionCount: len(log),
		CommonThemes:     commonThemes(log),
	}
}

func favoriteStyle(log []Entry) string {
	if len(log) > 10 {
		log = log[len(log)-10:]
	}

	counts := make(map[string]int)
	for _, e := range log {
		msg := strings.ToLower(e.Message)
		for _, ps := range preferenceStyles {
			for _, term := range ps.terms {
				if strings.Contains(msg, term) {
					counts[ps.style]++
					break
				}
			}
		}
	}

	best := ""
	bestCount := 0
	for _, ps := range preferenceStyles {
		if counts[ps.style] > bestCount {
			best = ps.style
			bestCount = counts[ps.style]
		}
	}
	return best
}

func commonThemes(log []Entry) []string {
	if len(log) > 5 {
		log = log[len(log)-5:]
	}

	seen := make(map[string]bool)
	var themes []string
	for _, e := range log {
		for _, w := range strings.Fields(strings.ToLower(e.Message)) {
			if len(w) <= 4 || seen[w] {
				continue
			}
			seen[w] = true
			themes = append(themes, w)
			if len(themes) == 3 {
				return themes
			}
		}
	}
	return themes
}
