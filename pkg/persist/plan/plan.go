// Package plan computes the ordered sequence of full and incremental
// transfers that brings a possibly stale backup destination up to date with
// a source snapshot history. The planner performs no I/O; it only decides.
package plan

import (
	"github.com/marcojez/btrfs-persist/pkg/persist/snapshot"
)

// Task is one transfer in a chain. Base is nil for a full transfer,
// otherwise the transfer ships only the delta between Base and Target. Base
// always refers to the source-side snapshot, since that is what the send
// primitive reads from.
type Task struct {
	Base   *snapshot.Snapshot
	Target snapshot.Snapshot
}

// Outcome distinguishes why a plan may be empty.
type Outcome int

const (
	// OutcomeSync means the returned tasks must be executed strictly in
	// order: each task's target only becomes a valid base on the
	// destination after the preceding task completed.
	OutcomeSync Outcome = iota
	// OutcomeUpToDate means the destination already holds everything the
	// source has.
	OutcomeUpToDate
	// OutcomeNoSource means there was nothing to synchronize because the
	// source history is empty.
	OutcomeNoSource
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSync:
		return "sync"
	case OutcomeUpToDate:
		return "up to date"
	case OutcomeNoSource:
		return "no source snapshots"
	default:
		return "unknown"
	}
}

// Chain plans the transfers from source to dest. Both sets must be ordered
// ascending by creation time; handing in unsorted sets is a caller contract
// violation. Missing snapshots are those created strictly after the newest
// destination entry. With onlyLatest set, only the newest missing snapshot
// is transferred and the older missing history is skipped for good; it
// will never reach the destination.
func Chain(source, dest snapshot.Set, onlyLatest bool) ([]Task, Outcome) {
	if len(source) == 0 {
		return nil, OutcomeNoSource
	}

	missing := source
	if newest, ok := dest.Newest(); ok {
		idx := len(source)
		for i, snap := range source {
			if snap.Created.After(newest.Created) {
				idx = i
				break
			}
		}
		missing = source[idx:]
	}
	if len(missing) == 0 {
		return nil, OutcomeUpToDate
	}
	if onlyLatest {
		missing = missing[len(missing)-1:]
	}

	// The newest destination snapshot whose name identifies a snapshot
	// still present on the source anchors the incremental chain. Without
	// one, the chain starts with a full transfer.
	var base *snapshot.Snapshot
	for i := len(dest) - 1; i >= 0 && base == nil; i-- {
		if common, ok := source.FindName(dest[i].Name()); ok {
			base = &common
		}
	}

	tasks := make([]Task, 0, len(missing))
	for _, target := range missing {
		tasks = append(tasks, Task{Base: base, Target: target})
		running := target
		base = &running
	}
	return tasks, OutcomeSync
}
