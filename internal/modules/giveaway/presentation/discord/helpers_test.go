package discord

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"

	"github.com/sglre6355/giveawaybot/internal/bot"
	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/application/usecases"
	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/infrastructure"
	"github.com/sglre6355/giveawaybot/internal/scheduler"
)

const (
	testGuild   = "100"
	testChannel = "200"
	creatorID   = "300"
)

var testEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeClient struct {
	mu        sync.Mutex
	nextID    int
	sends     []*discordgo.MessageSend
	edits     []*discordgo.MessageEdit
	reactions []string
	deleted   []string
	sendErr   error
}

func (f *fakeClient) ChannelMessageSendComplex(
	_ string,
	data *discordgo.MessageSend,
	_ ...discordgo.RequestOption,
) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.nextID++
	f.sends = append(f.sends, data)
	return &discordgo.Message{ID: fmt.Sprint(5000 + f.nextID)}, nil
}

func (f *fakeClient) ChannelMessageEditComplex(
	m *discordgo.MessageEdit,
	_ ...discordgo.RequestOption,
) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, m)
	return &discordgo.Message{ID: m.ID}, nil
}

func (f *fakeClient) MessageReactionAdd(_, _, emojiID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactions = append(f.reactions, emojiID)
	return nil
}

func (f *fakeClient) ChannelMessageDelete(_, messageID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

type fixture struct {
	handlers *Handlers
	router   *bot.InteractionRouter
	engine   *usecases.Engine
	repo     *infrastructure.MemoryRepository
	client   *fakeClient
	clock    *scheduler.FakeClock
	sched    *scheduler.Fake
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		router: bot.NewInteractionRouter(),
		repo:   infrastructure.NewMemoryRepository(),
		client: &fakeClient{},
		clock:  scheduler.NewFakeClock(testEpoch),
	}
	f.sched = scheduler.NewFake(f.clock)

	reactions := bot.NewReactionRouter(f.clock, nil)
	f.engine = usecases.NewEngine(
		f.repo,
		infrastructure.NewMemoryTriviaAttempts(),
		NewAnnouncer(f.client),
		infrastructure.NewReactionCampaigns(reactions),
		nil,
		f.sched,
		f.clock,
	)
	wizard := usecases.NewWizard(
		usecases.NewSessionStore(f.clock),
		usecases.NewDurationParser(nil, f.clock),
		f.engine,
	)
	f.handlers = NewHandlers(f.engine, wizard, f.clock, 2)
	require.NoError(t, f.handlers.Register(f.router))
	return f
}

func member(userID string, perms int64) *discordgo.Member {
	return &discordgo.Member{User: &discordgo.User{ID: userID}, Permissions: perms}
}

func commandInteraction(userID string, perms int64, sub *discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   testGuild,
			ChannelID: testChannel,
			Member:    member(userID, perms),
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    commandGiveaway,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{sub},
			},
		},
	}
}

func buttonInteraction(customID, userID string, perms int64, values ...string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionMessageComponent,
			GuildID:   testGuild,
			ChannelID: testChannel,
			Member:    member(userID, perms),
			Data: discordgo.MessageComponentInteractionData{
				CustomID: customID,
				Values:   values,
			},
		},
	}
}

func modalSubmit(customID, userID string, fields map[string]string) *discordgo.InteractionCreate {
	rows := make([]discordgo.MessageComponent, 0, len(fields))
	for id, value := range fields {
		rows = append(rows, &discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			&discordgo.TextInput{CustomID: id, Value: value},
		}})
	}
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionModalSubmit,
			GuildID:   testGuild,
			ChannelID: testChannel,
			Member:    member(userID, 0),
			Data: discordgo.ModalSubmitInteractionData{
				CustomID:   customID,
				Components: rows,
			},
		},
	}
}

// dispatch routes i and returns the responder.
func (f *fixture) dispatch(i *discordgo.InteractionCreate) *bot.MockResponder {
	r := &bot.MockResponder{}
	f.router.Dispatch(nil, i, r)
	return r
}

// buttonIDs lists the custom ids of every button and select in components.
func buttonIDs(components []discordgo.MessageComponent) []string {
	var ids []string
	for _, c := range components {
		row, ok := c.(discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, child := range row.Components {
			switch v := child.(type) {
			case discordgo.Button:
				ids = append(ids, v.CustomID)
			case discordgo.SelectMenu:
				ids = append(ids, v.CustomID)
			}
		}
	}
	return ids
}
