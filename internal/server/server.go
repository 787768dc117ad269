// Package server exposes the chat pipeline over JSON HTTP.
package server

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"github.com/lithammer/shortuuid/v4"

	"vizzy-chat/internal/convo"
	"vizzy-chat/internal/generate"
)

const serviceName = "Vizzy Chat API"
const serviceVersion = "1.0.0"

type chatRequest struct {
	UserID         string `json:"user_id"`
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
	Mode           string `json:"mode"`
}

type resetRequest struct {
	UserID string `json:"user_id"`
}

type chatResponse struct {
	Type           generate.ResultType `json:"type"`
	Content        generate.Content    `json:"content"`
	Timestamp      float64             `json:"timestamp"`
	ConversationID string              `json:"conversation_id,omitempty"`
}

type Options struct {
	Service *convo.Service
	Logger  *slog.Logger
}

type Server struct {
	svc    *convo.Service
	logger *slog.Logger
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		svc:    opts.Service,
		logger: logger,
	}
}

// Handler builds the routed echo instance. It satisfies http.Handler,
// so callers wrap it in their own http.Server for timeouts and
// shutdown.
func (s *Server) Handler() *echo.Echo {
	e := echo.New()
	e.Use(s.logRequests)
	e.Use(s.recoverPanics)

	e.GET("/", s.handleRoot)
	e.GET("/health", s.handleHealth)
	e.POST("/chat", s.handleChat)
	e.POST("/reset", s.handleReset)

	return e
}

func (s *Server) handleChat(c *echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	req.UserID = strings.TrimSpace(req.UserID)
	req.Message = strings.TrimSpace(req.Message)
	if req.UserID == "" || req.Message == "" {
		return errorJSON(c, http.StatusBadRequest, "user_id and message are required")
	}

	conversationID := strings.TrimSpace(req.ConversationID)
	if conversationID == "" {
		conversationID = shortuuid.New()
	}

	result := s.svc.Chat(c.Request().Context(), generate.Request{
		UserID:         req.UserID,
		Message:        req.Message,
		ConversationID: conversationID,
		Mode:           generate.ParseMode(req.Mode),
	})

	return c.JSON(http.StatusOK, chatResponse{
		Type:           result.Type,
		Content:        result.Content,
		Timestamp:      float64(time.Now().UnixMilli()) / 1000,
		ConversationID: conversationID,
	})
}

func (s *Server) handleReset(c *echo.Context) error {
	var req resetRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return errorJSON(c, http.StatusBadRequest, "user_id is required")
	}

	s.svc.Reset(userID)
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRoot(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"service": serviceName,
		"version": serviceVersion,
		"status":  "operational",
	})
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": float64(time.Now().UnixMilli()) / 1000,
	})
}

// errorJSON renders the error result shape. Provider failures never
// reach here; this covers malformed requests and internal faults, and
// it never leaks raw error bodies.
func errorJSON(c *echo.Context, status int, text string) error {
	return c.JSON(status, chatResponse{
		Type:      generate.TypeError,
		Content:   generate.Content{Text: text},
		Timestamp: float64(time.Now().UnixMilli()) / 1000,
	})
}

func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		start := time.Now()
		requestID := uuid.NewString()
		c.Response().Header().Set("X-Request-ID", requestID)
		err := next(c)
		s.logger.Info("http",
			"request_id", requestID,
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"dur_ms", time.Since(start).Milliseconds(),
		)
		return err
	}
}

func (s *Server) recoverPanics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("panic in handler", "path", c.Request().URL.Path, "panic", r)
				_ = errorJSON(c, http.StatusInternalServerError, "Generation failed: internal error")
			}
		}()
		return next(c)
	}
}
