package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"slices"

	"github.com/disgoorg/snowflake/v2"
)

// SelectWinners draws up to count distinct participants uniformly at random.
// When there are fewer participants than count, all of them win.
func SelectWinners(participants []snowflake.ID, count int) ([]snowflake.ID, error) {
	if len(participants) == 0 || count <= 0 {
		return nil, nil
	}

	pool := slices.Compact(sortedCopy(participants))
	if err := shuffle(pool); err != nil {
		return nil, err
	}

	return pool[:min(count, len(pool))], nil
}

func sortedCopy(ids []snowflake.ID) []snowflake.ID {
	c := slices.Clone(ids)
	slices.Sort(c)
	return c
}

// shuffle performs a Fisher-Yates shuffle using crypto/rand.
func shuffle[T any](s []T) error {
	for i := len(s) - 1; i > 0; i-- {
		jBig, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return fmt.Errorf("failed to generate random number: %w", err)
		}
		j := int(jBig.Int64())
		s[i], s[j] = s[j], s[i]
	}
	return nil
}
