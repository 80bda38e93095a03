// Package cmdfmt renders structured command output.
package cmdfmt

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/marcojez/btrfs-persist/pkg/config"
	"github.com/marcojez/btrfs-persist/pkg/persist/plan"
)

// PlanTable renders an ordered transfer plan. Tasks must be shown (and
// executed) in exactly this order.
func PlanTable(tasks []plan.Task) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Transfer", "Base", "Target"})
	for i, task := range tasks {
		kind, base := "full", "-"
		if task.Base != nil {
			kind, base = "incremental", task.Base.Name()
		}
		t.AppendRow(table.Row{i + 1, kind, base, task.Target.Name()})
	}
	return t.Render()
}

// JobsTable renders the configured jobs sorted by name.
func JobsTable(jobs map[string]config.Job) string {
	names := make([]string, 0, len(jobs))
	for name := range jobs {
		names = append(names, name)
	}
	sort.Strings(names)

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Job", "Filesystem", "Snapshot Dir", "Backup Dir", "Tag Pattern", "Retention"})
	for _, name := range names {
		job := jobs[name]
		backupDir := job.BackupDir
		if backupDir == "" {
			backupDir = "-"
		}
		t.AppendRow(table.Row{
			name, job.Filesystem, job.SnapshotDir, backupDir,
			job.BackupTagPattern, retentionSummary(job),
		})
	}
	return t.Render()
}

func retentionSummary(job config.Job) string {
	if len(job.Retention) == 0 {
		return "default (" + strconv.Itoa(config.DefaultRetention) + ")"
	}
	tags := make([]string, 0, len(job.Retention))
	for tag := range job.Retention {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		parts = append(parts, tag+"="+strconv.Itoa(job.Retention[tag]))
	}
	return strings.Join(parts, ", ")
}
