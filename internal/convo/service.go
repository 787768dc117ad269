// Package convo is the conversational core: it decides per message
// whether to answer a pending clarifying question, ask one, or hand
// the request straight to generation, and it keeps that decision
// serialized per user.
package convo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"vizzy-chat/internal/generate"
	"vizzy-chat/internal/memory"
	"vizzy-chat/internal/mood"
)

type Generator interface {
	Generate(ctx context.Context, req generate.Request) generate.Result
}

type Options struct {
	Generator Generator
	Moods     *mood.Tracker
	Memory    *memory.Store
	Logger    *slog.Logger
	Rand      *rand.Rand
}

type Service struct {
	gen    Generator
	moods  *mood.Tracker
	memory *memory.Store
	logger *slog.Logger

	state *stateStore
	locks *userLocks

	mu  sync.Mutex
	rng *rand.Rand
}

func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Service{
		gen:    opts.Generator,
		moods:  opts.Moods,
		memory: opts.Memory,
		logger: logger,
		state:  newStateStore(),
		locks:  newUserLocks(),
		rng:    rng,
	}
}

// Chat runs one conversational turn. The whole turn holds the user's
// lock so the read of "was a question pending" and the write of the
// new state are atomic per user.
func (s *Service) Chat(ctx context.Context, req generate.Request) generate.Result {
	unlock := s.locks.lock(req.UserID)
	defer unlock()

	s.memory.Append(req.UserID, req.Message)
	s.moods.Update(req.UserID, req.Message)

	if last, ok := s.state.get(req.UserID); ok && last.Pending {
		return s.processClarification(ctx, req, last)
	}

	if isVague(req.Message) {
		question := s.clarifyingQuestion(req.Message)
		s.state.storeQuestion(req.UserID, req.Message)
		s.logger.Info("asking clarifying question", "user", req.UserID)
		return generate.Result{
			Type: generate.TypeQuestion,
			Content: generate.Content{
				Text:        question,
				Suggestions: s.Suggestions(req.Message),
			},
		}
	}

	result := s.gen.Generate(ctx, req)
	s.state.storeResult(req.UserID, result)
	return result
}

// processClarification folds the user's answer into the query that
// triggered the question and regenerates. The state returns to idle no
// matter how useful the answer was; a mood fallback covers answers
// that name no mood at all.
func (s *Service) processClarification(ctx context.Context, req generate.Request, last LastBot) generate.Result {
	keyword, description := detectClarificationMood(req.Message)
	s.moods.SetMood(req.UserID, keyword)

	enhanced := generate.Request{
		UserID:         req.UserID,
		Message:        fmt.Sprintf("%s. The mood is %s.", last.OriginalQuery, description),
		ConversationID: req.ConversationID,
		Mode:           req.Mode,
	}

	s.logger.Info("processing clarification",
		"user", req.UserID, "original", last.OriginalQuery, "mood", keyword)

	result := s.gen.Generate(ctx, enhanced)
	s.state.storeResult(req.UserID, result)
	return result
}

// Reset clears everything remembered about the user: mood context,
// message history and conversation state.
func (s *Service) Reset(userID string) {
	unlock := s.locks.lock(userID)
	defer unlock()

	s.moods.Clear(userID)
	s.memory.Clear(userID)
	s.state.clear(userID)
}

// LastInteraction exposes the stored state for tests and diagnostics.
func (s *Service) LastInteraction(userID string) (LastBot, bool) {
	return s.state.get(userID)
}

func (s *Service) pick(options []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return options[s.rng.Intn(len(options))]
}

func (s *Service) shuffle(values []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})
}
