package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func validDraft() Draft {
	d := NewDraft(1, 2, 3)
	d.Title = "Spring giveaway"
	d.Prize = "Nitro"
	d.Duration = time.Hour
	return d
}

func TestGiveaway_Status(t *testing.T) {
	g := &Giveaway{}
	assert.Equal(t, StatusActive, g.Status())

	g.Ended = true
	assert.Equal(t, StatusEnded, g.Status())

	g.Cancelled = true
	assert.Equal(t, StatusCancelled, g.Status())
	assert.Equal(t, "cancelled", g.Status().String())
}

func TestGiveaway_IsActive(t *testing.T) {
	g := &Giveaway{EndTime: now.Add(time.Minute)}
	assert.True(t, g.IsActive(now))
	assert.False(t, g.IsActive(now.Add(time.Minute)))

	g.Ended = true
	assert.False(t, g.IsActive(now))
}

func TestGiveaway_AddParticipant(t *testing.T) {
	g := &Giveaway{}

	assert.True(t, g.AddParticipant(10))
	assert.False(t, g.AddParticipant(10))
	assert.True(t, g.AddParticipant(11))
	assert.Equal(t, []snowflake.ID{10, 11}, g.Participants)
}

func TestGiveaway_CloneIsDeep(t *testing.T) {
	g := validDraft().Build("id", now)
	g.Entry = TriviaMode(TriviaEntry{Question: "q", Answer: "a", MaxAttempts: 2})
	g.Participants = []snowflake.ID{1}

	c := g.Clone()
	c.Participants[0] = 99
	c.Entry.Trivia.Answer = "changed"

	assert.Equal(t, snowflake.ID(1), g.Participants[0])
	assert.Equal(t, "a", g.Entry.Trivia.Answer)
}

func TestDraft_ValidateAcceptsValid(t *testing.T) {
	assert.NoError(t, validDraft().Validate(DefaultLimits()))
}

func TestDraft_ValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		modify func(d *Draft)
	}{
		{"missing title", func(d *Draft) { d.Title = "  " }},
		{"missing prize", func(d *Draft) { d.Prize = "" }},
		{"zero duration", func(d *Draft) { d.Duration = 0 }},
		{"too long", func(d *Draft) { d.Duration = 31 * 24 * time.Hour }},
		{"no winners", func(d *Draft) { d.WinnerCount = 0 }},
		{"too many winners", func(d *Draft) { d.WinnerCount = 51 }},
		{"long title", func(d *Draft) { d.Title = strings.Repeat("a", 101) }},
		{"reaction without emoji", func(d *Draft) { d.Entry = EntryMode{Kind: EntryReaction} }},
		{"trivia without answer", func(d *Draft) {
			d.Entry = TriviaMode(TriviaEntry{Question: "q", MaxAttempts: UnlimitedAttempts})
		}},
		{"trivia zero attempts", func(d *Draft) {
			d.Entry = TriviaMode(TriviaEntry{Question: "q", Answer: "a", MaxAttempts: 0})
		}},
		{"no mode", func(d *Draft) { d.Entry = EntryMode{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.modify(&d)

			err := d.Validate(DefaultLimits())
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Problems)
		})
	}
}

func TestDraft_Build(t *testing.T) {
	d := validDraft()
	d.Title = "  Padded  "

	g := d.Build("abc", now)

	assert.Equal(t, "abc", g.ID)
	assert.Equal(t, "Padded", g.Title)
	assert.Equal(t, now, g.StartTime)
	assert.Equal(t, now.Add(time.Hour), g.EndTime)
	assert.True(t, g.EndTime.After(g.StartTime))
	assert.Equal(t, StatusActive, g.Status())
}

func TestTriviaEntry_Matches(t *testing.T) {
	trivia := TriviaEntry{Answer: "Paris"}

	assert.True(t, trivia.Matches("paris"))
	assert.True(t, trivia.Matches("  PARIS "))
	assert.False(t, trivia.Matches("Pari"))
	assert.False(t, trivia.Matches("paris france"))
}

func TestParseEntryKind(t *testing.T) {
	k, err := ParseEntryKind("Trivia")
	require.NoError(t, err)
	assert.Equal(t, EntryTrivia, k)

	_, err = ParseEntryKind("lottery")
	assert.Error(t, err)
}
