package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(min int) time.Time {
	return time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC).Add(time.Duration(min) * time.Minute)
}

func TestSetSortByCreationTime(t *testing.T) {
	s := Set{
		{Location: "/snaps/c", Created: at(3)},
		{Location: "/snaps/a", Created: at(1)},
		{Location: "/snaps/b", Created: at(2)},
	}
	s.Sort()
	assert.Equal(t, []string{"/snaps/a", "/snaps/b", "/snaps/c"},
		[]string{s[0].Location, s[1].Location, s[2].Location})
}

func TestSetSortTiesBrokenByLocation(t *testing.T) {
	// Two snapshots created within the same second: ordering must still be
	// deterministic.
	s := Set{
		{Location: "/snaps/b", Created: at(1)},
		{Location: "/snaps/a", Created: at(1)},
	}
	s.Sort()
	assert.Equal(t, "/snaps/a", s[0].Location)
	assert.Equal(t, "/snaps/b", s[1].Location)
}

func TestSetNewest(t *testing.T) {
	_, ok := Set{}.Newest()
	assert.False(t, ok)

	s := Set{
		{Location: "/snaps/a", Created: at(1)},
		{Location: "/snaps/b", Created: at(2)},
	}
	newest, ok := s.Newest()
	require.True(t, ok)
	assert.Equal(t, "/snaps/b", newest.Location)
}

func TestSetFindName(t *testing.T) {
	s := Set{
		{Job: "home", Tag: "daily", Stamp: "2024-03-07-1200", Location: "/snaps/a", Created: at(1)},
		{Job: "home", Tag: "daily", Stamp: "2024-03-07-1201", Location: "/snaps/b", Created: at(2)},
	}
	found, ok := s.FindName("home_snapshot_daily_2024-03-07-1201")
	require.True(t, ok)
	assert.Equal(t, "/snaps/b", found.Location)

	_, ok = s.FindName("home_snapshot_daily_2024-03-07-1202")
	assert.False(t, ok)
}
