package domain

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(n int) []snowflake.ID {
	out := make([]snowflake.ID, n)
	for i := range out {
		out[i] = snowflake.ID(1000 + i)
	}
	return out
}

func TestSelectWinners_ExactCountDistinctFromParticipants(t *testing.T) {
	participants := ids(20)

	for range 50 {
		winners, err := SelectWinners(participants, 5)
		require.NoError(t, err)
		require.Len(t, winners, 5)

		seen := map[snowflake.ID]bool{}
		for _, w := range winners {
			assert.Contains(t, participants, w)
			assert.False(t, seen[w], "duplicate winner %d", w)
			seen[w] = true
		}
	}
}

func TestSelectWinners_FewerParticipantsThanWinners(t *testing.T) {
	participants := ids(3)

	winners, err := SelectWinners(participants, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, participants, winners)
}

func TestSelectWinners_NoParticipants(t *testing.T) {
	winners, err := SelectWinners(nil, 3)
	require.NoError(t, err)
	assert.Empty(t, winners)
}

func TestSelectWinners_DoesNotMutateInput(t *testing.T) {
	participants := ids(10)
	original := append([]snowflake.ID(nil), participants...)

	_, err := SelectWinners(participants, 3)
	require.NoError(t, err)
	assert.Equal(t, original, participants)
}

func TestSelectWinners_EveryParticipantCanWin(t *testing.T) {
	participants := ids(4)
	seen := map[snowflake.ID]bool{}

	for range 400 {
		winners, err := SelectWinners(participants, 1)
		require.NoError(t, err)
		seen[winners[0]] = true
	}

	assert.Len(t, seen, len(participants))
}
