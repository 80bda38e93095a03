package snapshot

import (
	"sort"
	"time"
)

// Snapshot is one read-only point-in-time copy of a subvolume. Identity is
// the encoded name (job, tag, stamp). Ordering always uses Created, the
// authoritative creation time reported by the volume metadata; the stamp in
// the name only keeps names unique and is never compared.
type Snapshot struct {
	Job string
	Tag string
	// Stamp is the fixed-width timestamp portion of the name.
	Stamp string
	// Location is the path handle supplied by the scanner. The decision
	// logic never interprets it, the orchestrator consumes it.
	Location string
	Created  time.Time
}

// Name returns the directory entry name encoding the snapshot's identity.
func (s Snapshot) Name() string {
	return s.Job + separator + s.Tag + "_" + s.Stamp
}

// Set is an ordered sequence of snapshots, ascending by creation time with
// ties broken by location. Uniqueness is by location.
type Set []Snapshot

// Sort orders the set ascending by creation time, ties by location.
func (s Set) Sort() {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Created.Equal(s[j].Created) {
			return s[i].Location < s[j].Location
		}
		return s[i].Created.Before(s[j].Created)
	})
}

// Newest returns the last snapshot of an ordered set.
func (s Set) Newest() (Snapshot, bool) {
	if len(s) == 0 {
		return Snapshot{}, false
	}
	return s[len(s)-1], true
}

// FindName returns the snapshot whose encoded name equals name.
func (s Set) FindName(name string) (Snapshot, bool) {
	for _, snap := range s {
		if snap.Name() == name {
			return snap, true
		}
	}
	return Snapshot{}, false
}
