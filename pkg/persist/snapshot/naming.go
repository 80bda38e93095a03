package snapshot

import (
	"fmt"
	"strings"
	"time"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

const (
	separator   = "_snapshot_"
	stampLayout = "2006-01-02-1504"
	stampLen    = len(stampLayout)

	// MatchAllTags accepts every tag. Destination scans use it so snapshots
	// of all tags ever copied there are considered.
	MatchAllTags = "*"
)

// Name encodes a snapshot identity as a directory entry name:
// {job}_snapshot_{tag}_{YYYY-MM-DD-HHMM}. Job and tag must not contain the
// separator sequence; that precondition is enforced when jobs and tags are
// resolved, not here.
func Name(job, tag string, ts time.Time) string {
	return job + separator + tag + "_" + ts.Format(stampLayout)
}

// ContainsSeparator reports whether a job or tag value would make names
// ambiguous. Values for which it returns true must be rejected before any
// name is generated.
func ContainsSeparator(v string) bool {
	return strings.Contains(v, separator)
}

// Match decodes name against the scheme for job and returns the tag and
// stamp when the tag matches tagPattern (a glob, MatchAllTags accepts
// everything). A name that does not belong to job or does not follow the
// scheme is reported as a non-match, not an error. The stamp is fixed width,
// so tags may themselves contain underscores.
func Match(name, job, tagPattern string) (tag, stamp string, ok bool, err error) {
	rest, found := strings.CutPrefix(name, job+separator)
	if !found {
		return "", "", false, nil
	}
	if len(rest) < stampLen+2 { // at least one tag byte, '_', stamp
		return "", "", false, nil
	}
	tag, stamp = rest[:len(rest)-stampLen-1], rest[len(rest)-stampLen:]
	if rest[len(rest)-stampLen-1] != '_' {
		return "", "", false, nil
	}
	if _, perr := time.Parse(stampLayout, stamp); perr != nil {
		return "", "", false, nil
	}
	match, err := doublestar.Match(tagPattern, tag)
	if err != nil {
		return "", "", false, fmt.Errorf("invalid tag pattern %q: %w", tagPattern, err)
	}
	if !match {
		return "", "", false, nil
	}
	return tag, stamp, true, nil
}
