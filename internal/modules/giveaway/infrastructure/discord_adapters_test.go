package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sglre6355/giveawaybot/internal/bot"
	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/application/ports"
	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/domain"
	"github.com/sglre6355/giveawaybot/internal/scheduler"
)

type fakeMembers struct {
	members map[string]*discordgo.Member
}

func (f *fakeMembers) GuildMember(_, userID string, _ ...discordgo.RequestOption) (*discordgo.Member, error) {
	if m, ok := f.members[userID]; ok {
		return m, nil
	}
	return nil, errors.New("unknown member")
}

func TestDiscordUserResolver(t *testing.T) {
	members := &fakeMembers{members: map[string]*discordgo.Member{
		"1": {Nick: "Nick", User: &discordgo.User{Username: "user1", GlobalName: "Global"}},
		"2": {User: &discordgo.User{Username: "user2", GlobalName: "Global Two"}},
		"3": {User: &discordgo.User{Username: "user3"}},
	}}
	resolver := NewDiscordUserResolver(members)
	ctx := context.Background()

	tests := []struct {
		userID snowflake.ID
		want   string
	}{
		{1, "Nick"},
		{2, "Global Two"},
		{3, "user3"},
	}
	for _, tt := range tests {
		got, err := resolver.DisplayName(ctx, 10, tt.userID)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := resolver.DisplayName(ctx, 10, 4)
	assert.Error(t, err)
}

func reactionGiveaway() *domain.Giveaway {
	g := sampleGiveaway("r", 1)
	g.MessageID = 555
	g.Entry = domain.ReactionMode(domain.ReactionEntry{Identifier: "🎉", Display: "🎉"})
	return g
}

func reactionAt(userID string) bot.ReactionEvent {
	return bot.ReactionEvent{
		MessageID: "555",
		ChannelID: "2",
		GuildID:   "1",
		UserID:    userID,
		User:      &discordgo.User{ID: userID},
		Emoji:     discordgo.Emoji{Name: "🎉"},
	}
}

func TestReactionCampaigns_Open(t *testing.T) {
	clock := scheduler.NewFakeClock(epoch)
	router := bot.NewReactionRouter(clock, nil)
	campaigns := NewReactionCampaigns(router)

	g := reactionGiveaway()
	g.Participants = []snowflake.ID{7}

	var entered []snowflake.ID
	campaigns.Open(g, func(_ context.Context, giveawayID string, userID snowflake.ID) error {
		assert.Equal(t, "r", giveawayID)
		entered = append(entered, userID)
		return nil
	})

	info, ok := router.Campaign("555")
	require.True(t, ok)
	assert.Equal(t, "🎉", info.Emoji)
	assert.Equal(t, "1", info.GuildID)
	assert.True(t, g.EndTime.Equal(info.EndTime))
	assert.Equal(t, 1, info.Collected)

	ctx := context.Background()
	assert.False(t, router.Dispatch(ctx, reactionAt("7")), "seeded participants are not re-entered")
	assert.True(t, router.Dispatch(ctx, reactionAt("8")))
	assert.True(t, router.Dispatch(ctx, reactionAt("9")))
	assert.Equal(t, []snowflake.ID{8, 9}, entered)

	clock.Add(time.Hour + time.Second)
	assert.False(t, router.Dispatch(ctx, reactionAt("10")), "campaign expires at the end time")

	campaigns.Close(g.MessageID)
	_, ok = router.Campaign("555")
	assert.False(t, ok)
}

func TestReactionCampaigns_RefusedEntryLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(prev)

	router := bot.NewReactionRouter(scheduler.NewFakeClock(epoch), nil)
	campaigns := NewReactionCampaigns(router)

	handlerErr := fmt.Errorf("%w: already entered", ports.ErrEntryRefused)
	campaigns.Open(reactionGiveaway(), func(context.Context, string, snowflake.ID) error {
		return handlerErr
	})

	ctx := context.Background()
	assert.False(t, router.Dispatch(ctx, reactionAt("8")))
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.NotContains(t, buf.String(), "level=ERROR")

	buf.Reset()
	handlerErr = errors.New("storage down")
	assert.False(t, router.Dispatch(ctx, reactionAt("9")))
	assert.Contains(t, buf.String(), "level=ERROR")
}

func TestReactionCampaigns_OpenWithoutReactionEntry(t *testing.T) {
	router := bot.NewReactionRouter(nil, nil)
	campaigns := NewReactionCampaigns(router)

	g := sampleGiveaway("b", 1)
	g.Entry = domain.ButtonMode()
	campaigns.Open(g, nil)

	_, ok := router.Campaign("3")
	assert.False(t, ok)
}
