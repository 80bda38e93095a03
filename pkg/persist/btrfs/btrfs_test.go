package btrfs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const subvolumeShowOutput = `home_snapshot_daily_2024-03-07-1605
	Name: 			home_snapshot_daily_2024-03-07-1605
	UUID: 			1c8b3f6e-93a4-4e6b-bd6f-52f5f3a0b1c2
	Creation time: 		2024-03-07 16:05:12 +0100
	Subvolume ID: 		257
	Flags: 			readonly
`

func TestParseCreationTime(t *testing.T) {
	ts, err := ParseCreationTime(subvolumeShowOutput)
	require.NoError(t, err)

	want := time.Date(2024, 3, 7, 16, 5, 12, 0, time.FixedZone("", 3600))
	assert.True(t, ts.Equal(want), "got %s", ts)

	_, offset := ts.Zone()
	assert.Equal(t, 3600, offset)
}

func TestParseCreationTimeWithoutZoneSpace(t *testing.T) {
	ts, err := ParseCreationTime("Creation time: 2024-03-07 16:05:12-0500\n")
	require.NoError(t, err)
	_, offset := ts.Zone()
	assert.Equal(t, -5*3600, offset)
}

func TestParseCreationTimeMissing(t *testing.T) {
	_, err := ParseCreationTime("Name: whatever\nFlags: readonly\n")
	assert.Error(t, err)
}

func TestParseCreationTimeMalformed(t *testing.T) {
	_, err := ParseCreationTime("Creation time: yesterday, probably\n")
	assert.Error(t, err)
}
