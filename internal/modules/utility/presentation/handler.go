package presentation

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/giveawaybot/internal/bot"
	"github.com/sglre6355/giveawaybot/internal/modules/utility/application"
)

// PingHandler handles the /ping command and the ping message command.
type PingHandler struct {
	interactor *application.PingInteractor
}

// NewPingHandler creates a new PingHandler.
func NewPingHandler(interactor *application.PingInteractor) *PingHandler {
	return &PingHandler{
		interactor: interactor,
	}
}

// Handle processes the ping command and sends the response.
func (h *PingHandler) Handle(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	var id string
	if i != nil && i.Interaction != nil {
		id = i.ID
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: h.reply(s, id),
		},
	})
}

// MessageCommand returns the ping message command.
func (h *PingHandler) MessageCommand() bot.MessageCommand {
	return bot.MessageCommand{
		Name:        "ping",
		Description: "Replies with the bot's latency",
		Run: func(s *discordgo.Session, m *discordgo.MessageCreate) error {
			_, err := s.ChannelMessageSendReply(m.ChannelID, h.reply(s, m.ID), m.Reference())
			return err
		},
	}
}

// reply measures from the creation time encoded in the snowflake id.
func (h *PingHandler) reply(s *discordgo.Session, id string) string {
	var gateway time.Duration
	if s != nil {
		gateway = s.HeartbeatLatency()
	}

	requested := time.Now()
	if sf, err := snowflake.Parse(id); err == nil {
		requested = sf.Time()
	}

	return h.interactor.Execute(gateway, requested).Message()
}
