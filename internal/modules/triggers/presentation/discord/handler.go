package discord

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/giveawaybot/internal/modules/triggers/application/usecases"
	"github.com/sglre6355/giveawaybot/internal/modules/triggers/domain"
)

// handleTimeout bounds the rule evaluation of one message, including the
// time spent waiting on the outbound rate limiter.
const handleTimeout = 30 * time.Second

// MessageHandler feeds created messages to the trigger engine.
type MessageHandler struct {
	engine *usecases.Engine
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(engine *usecases.Engine) *MessageHandler {
	return &MessageHandler{engine: engine}
}

// HandleMessage handles message create events.
func (h *MessageHandler) HandleMessage(_ *discordgo.Session, m *discordgo.MessageCreate) {
	msg, ok := toMessage(m)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	if _, err := h.engine.HandleMessage(ctx, msg); err != nil {
		slog.Error("failed to evaluate trigger rules", "message", msg.ID, "error", err)
	}
}

// toMessage converts a gateway event, rejecting messages from bots and
// webhooks.
func toMessage(m *discordgo.MessageCreate) (domain.Message, bool) {
	if m == nil || m.Message == nil || m.Author == nil {
		return domain.Message{}, false
	}
	if m.Author.Bot || m.WebhookID != "" {
		return domain.Message{}, false
	}
	return domain.Message{
		ID:        m.ID,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		AuthorID:  m.Author.ID,
		Content:   m.Content,
	}, true
}
