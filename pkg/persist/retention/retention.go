// Package retention decides which snapshots fall outside a keep-count
// window. It only decides; deleting the snapshots it returns is the
// orchestrator's responsibility.
package retention

import (
	"github.com/marcojez/btrfs-persist/pkg/persist/snapshot"
)

// Prune returns the max(0, len(ordered)-keep) oldest snapshots of an
// ordered set. The remaining entries are exactly the keep newest ones in
// their original relative order. Pure and deterministic: repeated calls
// with the same input return the same result.
func Prune(ordered snapshot.Set, keep int) snapshot.Set {
	if keep < 0 {
		keep = 0
	}
	drop := len(ordered) - keep
	if drop <= 0 {
		return nil
	}
	return ordered[:drop:drop]
}
