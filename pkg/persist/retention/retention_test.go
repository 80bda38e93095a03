package retention

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcojez/btrfs-persist/pkg/persist/snapshot"
)

func orderedSet(n int) snapshot.Set {
	base := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)
	s := make(snapshot.Set, 0, n)
	for i := 0; i < n; i++ {
		s = append(s, snapshot.Snapshot{
			Location: fmt.Sprintf("/snaps/s%02d", i),
			Created:  base.Add(time.Duration(i) * time.Minute),
		})
	}
	return s
}

func TestPrune(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		keep     int
		expected int
	}{
		{"empty set", 0, 3, 0},
		{"fewer than keep", 2, 3, 0},
		{"exactly keep", 3, 3, 0},
		{"one over", 4, 3, 1},
		{"many over", 10, 3, 7},
		{"keep zero removes everything", 5, 0, 5},
		{"negative keep treated as zero", 5, -1, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := orderedSet(tc.size)
			removed := Prune(s, tc.keep)
			require.Len(t, removed, tc.expected)

			// The removed entries are exactly the oldest ones, in order.
			for i, snap := range removed {
				assert.Equal(t, s[i].Location, snap.Location)
			}
		})
	}
}

func TestPruneKeepsNewestInOriginalOrder(t *testing.T) {
	s := orderedSet(6)
	removed := Prune(s, 2)
	require.Len(t, removed, 4)

	kept := s[len(removed):]
	require.Len(t, kept, 2)
	assert.Equal(t, "/snaps/s04", kept[0].Location)
	assert.Equal(t, "/snaps/s05", kept[1].Location)
}

func TestPruneIsDeterministic(t *testing.T) {
	s := orderedSet(7)
	first := Prune(s, 3)
	second := Prune(s, 3)
	assert.Equal(t, first, second)
	// Re-invocation does not mutate the input.
	assert.Len(t, s, 7)
}
