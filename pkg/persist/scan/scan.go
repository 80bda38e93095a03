// Package scan enumerates the snapshots of a job in a directory and returns
// them as a chronologically ordered set.
package scan

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/marcojez/btrfs-persist/pkg/persist/snapshot"
)

// MetadataProvider answers the authoritative creation time of a snapshot
// from the underlying volume's metadata.
type MetadataProvider interface {
	CreationTime(ctx context.Context, location string) (time.Time, error)
}

type Scanner struct {
	fs   afero.Fs
	meta MetadataProvider
	log  *zap.Logger
}

func New(fs afero.Fs, meta MetadataProvider, log *zap.Logger) *Scanner {
	return &Scanner{fs: fs, meta: meta, log: log}
}

// Scan lists dir and returns the snapshots belonging to job whose tag
// matches tagPattern, ordered ascending by creation time. Entries whose
// creation time cannot be determined are logged and skipped rather than
// failing the whole scan; a failing directory read is an error.
//
// The directory may be mutated by other processes while the scan runs.
// That race is accepted: the result is a point-in-time view, nothing more.
func (s *Scanner) Scan(ctx context.Context, dir, job, tagPattern string) (snapshot.Set, error) {
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read snapshot directory %q: %w", dir, err)
	}

	set := snapshot.Set{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		tag, stamp, ok, err := snapshot.Match(entry.Name(), job, tagPattern)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		location := filepath.Join(dir, entry.Name())
		created, err := s.meta.CreationTime(ctx, location)
		if err != nil {
			s.log.Warn("skipping snapshot with unreadable creation time",
				zap.String("location", location), zap.Error(err))
			continue
		}
		set = append(set, snapshot.Snapshot{
			Job:      job,
			Tag:      tag,
			Stamp:    stamp,
			Location: location,
			Created:  created,
		})
	}
	set.Sort()
	return set, nil
}
