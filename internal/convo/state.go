package convo

import (
	"sync"
	"time"

	"vizzy-chat/internal/generate"
)

// LastBot is the single remembered bot action per user: either a
// pending clarifying question (with the original query that triggered
// it) or the last generated response. Every new bot reply overwrites
// it, so a user never has more than one pending question.
type LastBot struct {
	Pending       bool
	OriginalQuery string
	AskedAt       time.Time
	Result        generate.Result
}

type stateStore struct {
	mu sync.Mutex
	m  map[string]LastBot
}

func newStateStore() *stateStore {
	return &stateStore{m: make(map[string]LastBot)}
}

func (s *stateStore) get(userID string) (LastBot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lb, ok := s.m[userID]
	return lb, ok
}

func (s *stateStore) storeQuestion(userID, originalQuery string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[userID] = LastBot{
		Pending:       true,
		OriginalQuery: originalQuery,
		AskedAt:       time.Now(),
	}
}

func (s *stateStore) storeResult(userID string, result generate.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[userID] = LastBot{Result: result}
}

func (s *stateStore) clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, userID)
}

// userLocks serializes chat turns per user. Concurrent requests from
// different users proceed independently; two rapid messages from the
// same user are processed in arrival order, so they cannot both read
// the same pending question.
type userLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{m: make(map[string]*sync.Mutex)}
}

func (l *userLocks) lock(userID string) func() {
	l.mu.Lock()
	um, ok := l.m[userID]
	if !ok {
		um = &sync.Mutex{}
		l.m[userID] = um
	}
	l.mu.Unlock()

	um.Lock()
	return um.Unlock
}
