package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"vizzy-chat/internal/convo"
	"vizzy-chat/internal/generate"
	"vizzy-chat/internal/intent"
	"vizzy-chat/internal/telegram"
)

type botHandler struct {
	tg     *telegram.Client
	svc    *convo.Service
	logger *slog.Logger
}

var modeCommands = map[string]generate.Mode{
	"art":       generate.ModeArt,
	"poster":    generate.ModePoster,
	"story":     generate.ModeStory,
	"transform": generate.ModeTransform,
	"business":  generate.ModeBusiness,
}

func (h *botHandler) handleUpdate(ctx context.Context, update telegram.Update) error {
	if update.Message == nil {
		return nil
	}

	msg := update.Message
	chatID := msg.Chat.ID
	userID := strconv.FormatInt(msg.From.ID, 10)

	if msg.IsCommand() {
		return h.handleCommand(ctx, chatID, userID, msg.Command(), strings.TrimSpace(msg.CommandArguments()))
	}

	if text := strings.TrimSpace(msg.Text); text != "" {
		return h.chat(ctx, chatID, generate.Request{
			UserID:  userID,
			Message: text,
			Mode:    classifyMode(text),
		})
	}

	return nil
}

// classifyMode infers a mode for plain messages. Telegram has no mode
// field, so intent classification stands in for the explicit choice a
// command would carry.
func classifyMode(text string) generate.Mode {
	switch intent.Classify(text) {
	case intent.IntentPoster:
		return generate.ModePoster
	case intent.IntentStory:
		return generate.ModeStory
	case intent.IntentTransform:
		return generate.ModeTransform
	case intent.IntentMood:
		return generate.ModePersonal
	default:
		return generate.ModeArt
	}
}

func (h *botHandler) handleCommand(ctx context.Context, chatID int64, userID, command, args string) error {
	switch command {
	case "start":
		return h.tg.SendText(chatID,
			"Vizzy AI Bot\n\n"+
				"Describe what you want to see and I'll generate it.\n\n"+
				"Commands:\n"+
				"/art <description> - Artistic interpretation\n"+
				"/poster <description> - Poster background\n"+
				"/story <description> - Three-scene visual story\n"+
				"/transform <description> - Style transfer\n"+
				"/business <description> - Professional visuals\n"+
				"/reset - Forget everything about this chat",
		)
	case "help":
		return h.tg.SendText(chatID,
			"Send a message describing what to create, or use a mode command "+
				"(/art, /poster, /story, /transform, /business).\n"+
				"/reset clears your mood and history.",
		)
	case "reset":
		h.svc.Reset(userID)
		return h.tg.SendText(chatID, "Done - I've forgotten our conversation.")
	default:
		mode, ok := modeCommands[command]
		if !ok {
			return h.tg.SendText(chatID, "Unknown command. Try /help.")
		}
		if args == "" {
			return h.tg.SendText(chatID, fmt.Sprintf("Please add a description, e.g. /%s sunset over the city", command))
		}
		return h.chat(ctx, chatID, generate.Request{
			UserID:  userID,
			Message: args,
			Mode:    mode,
		})
	}
}

func (h *botHandler) chat(ctx context.Context, chatID int64, req generate.Request) error {
	h.tg.SendTyping(chatID)

	result := h.svc.Chat(ctx, req)

	switch result.Type {
	case generate.TypeQuestion:
		text := result.Content.Text
		if len(result.Content.Suggestions) > 0 {
			text += "\n\nFor example:\n- " + strings.Join(result.Content.Suggestions, "\n- ")
		}
		return h.tg.SendText(chatID, text)
	case generate.TypeError:
		return h.tg.SendText(chatID, "Something went wrong. Please try again.")
	}

	if result.Type == generate.TypeStory && result.Content.Title != "" {
		text := result.Content.Title
		for i, scene := range result.Content.Scenes {
			text += fmt.Sprintf("\n\nScene %d: %s", i+1, scene)
		}
		if err := h.tg.SendText(chatID, text); err != nil {
			return err
		}
	}

	caption := result.Content.Reasoning
	for i, img := range result.Content.Images {
		if img == nil {
			continue
		}
		sendCaption := ""
		if i == 0 {
			sendCaption = caption
		}
		if err := h.tg.SendPhotoBase64(chatID, *img, sendCaption); err != nil {
			return err
		}
	}
	return nil
}
