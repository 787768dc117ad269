package server

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vizzy-chat/internal/convo"
	"vizzy-chat/internal/generate"
	"vizzy-chat/internal/memory"
	"vizzy-chat/internal/mood"
	"vizzy-chat/internal/provider"
	"vizzy-chat/internal/story"
)

// newTestHandler wires the real pipeline with an empty provider
// cascade, so every image comes from the local placeholder renderer
// and no test touches the network.
func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	rng := rand.New(rand.NewSource(7))
	moods := mood.NewTracker(mood.Options{})
	mem := memory.NewStore(memory.Options{})
	gen := generate.New(generate.Options{
		Images: provider.NewCascade(provider.CascadeOptions{
			Placeholder: provider.NewPlaceholder(provider.PlaceholderOptions{Rand: rng}),
		}),
		Moods:   moods,
		Memory:  mem,
		Stories: story.NewGenerator(story.Options{Rand: rng}),
		Rand:    rng,
	})
	svc := convo.New(convo.Options{
		Generator: gen,
		Moods:     moods,
		Memory:    mem,
		Rand:      rng,
	})

	return New(Options{Service: svc}).Handler()
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeChat(t *testing.T, rec *httptest.ResponseRecorder) chatResponse {
	t.Helper()

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestChatGeneratesImage(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(t, h, "/chat", map[string]string{
		"user_id": "u1",
		"message": "a lighthouse at dusk",
		"mode":    "art",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeChat(t, rec)

	assert.Equal(t, generate.TypeImage, resp.Type)
	assert.NotEmpty(t, resp.ConversationID, "server mints an id when the client sends none")
	assert.Greater(t, resp.Timestamp, 0.0)
	require.Len(t, resp.Content.Images, 2)
	for _, img := range resp.Content.Images {
		require.NotNil(t, img)
		assert.NotEmpty(t, *img)
	}
	assert.NotEmpty(t, resp.Content.Reasoning)
}

func TestChatEchoesConversationID(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(t, h, "/chat", map[string]string{
		"user_id":         "u1",
		"message":         "a red barn",
		"conversation_id": "conv-42",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "conv-42", decodeChat(t, rec).ConversationID)
}

func TestChatVagueMessageReturnsQuestion(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(t, h, "/chat", map[string]string{
		"user_id": "u1",
		"message": "Tell me about my day",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeChat(t, rec)

	assert.Equal(t, generate.TypeQuestion, resp.Type)
	assert.NotEmpty(t, resp.Content.Text)
	assert.NotEmpty(t, resp.Content.Suggestions)
	assert.LessOrEqual(t, len(resp.Content.Suggestions), 4)
}

func TestChatValidation(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing user_id", map[string]string{"message": "hi"}},
		{"missing message", map[string]string{"user_id": "u1"}},
		{"blank fields", map[string]string{"user_id": "  ", "message": "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h, "/chat", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeChat(t, rec)
			assert.Equal(t, generate.TypeError, resp.Type)
			assert.Equal(t, "user_id and message are required", resp.Content.Text)
		})
	}
}

func TestChatMalformedBody(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, generate.TypeError, decodeChat(t, rec).Type)
}

// brokenGenerator stands in for an unexpected internal failure in the
// generation pipeline.
type brokenGenerator struct{}

func (brokenGenerator) Generate(context.Context, generate.Request) generate.Result {
	panic("backend exploded")
}

func TestChatInternalFailureReturnsErrorShape(t *testing.T) {
	svc := convo.New(convo.Options{
		Generator: brokenGenerator{},
		Moods:     mood.NewTracker(mood.Options{}),
		Memory:    memory.NewStore(memory.Options{}),
	})
	h := New(Options{Service: svc}).Handler()

	rec := postJSON(t, h, "/chat", map[string]string{
		"user_id": "u1",
		"message": "a red barn",
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeChat(t, rec)
	assert.Equal(t, generate.TypeError, resp.Type)
	assert.NotEmpty(t, resp.Content.Text)
	assert.NotContains(t, resp.Content.Text, "exploded", "raw panic values must not leak to clients")
}

func TestResetClearsConversation(t *testing.T) {
	h := newTestHandler(t)

	first := decodeChat(t, postJSON(t, h, "/chat", map[string]string{
		"user_id": "u1", "message": "Tell me about my day",
	}))
	require.Equal(t, generate.TypeQuestion, first.Type)

	rec := postJSON(t, h, "/reset", map[string]string{"user_id": "u1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "ok", status["status"])

	// After reset the pending question is gone, so the same vague
	// message asks again instead of being read as a clarification.
	again := decodeChat(t, postJSON(t, h, "/chat", map[string]string{
		"user_id": "u1", "message": "Tell me about my day",
	}))
	assert.Equal(t, generate.TypeQuestion, again.Type)
}

func TestResetRequiresUserID(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(t, h, "/reset", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, generate.TypeError, decodeChat(t, rec).Type)
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), "request id should be echoed for correlation")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Greater(t, body["timestamp"].(float64), 0.0)
}

func TestRoot(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, serviceName, body["service"])
	assert.Equal(t, "operational", body["status"])
}
