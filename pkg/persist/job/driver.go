// Package job drives the per-job snapshot and backup runs. It is a thin
// layer over the retention engine and the chain planner: it scans, lets
// those decide, and executes the decisions through the Orchestrator,
// strictly in order.
package job

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/marcojez/btrfs-persist/pkg/config"
	"github.com/marcojez/btrfs-persist/pkg/persist/plan"
	"github.com/marcojez/btrfs-persist/pkg/persist/retention"
	"github.com/marcojez/btrfs-persist/pkg/persist/scan"
	"github.com/marcojez/btrfs-persist/pkg/persist/snapshot"
)

// Orchestrator executes the side effects the decision logic asks for.
// Implementations wrap the external snapshot and mount primitives.
type Orchestrator interface {
	CreateSnapshot(ctx context.Context, fsRoot, destPath string) error
	DeleteSnapshot(ctx context.Context, location string) error
	// SendReceive streams target into destDir, incrementally relative to
	// base when base is non-nil.
	SendReceive(ctx context.Context, base *string, target, destDir string) error
	Mount(ctx context.Context, path string, readOnly bool) error
	Unmount(ctx context.Context, path string) error
}

type Driver struct {
	fs      afero.Fs
	orch    Orchestrator
	scanner *scan.Scanner
	log     *zap.Logger
	dryRun  bool
}

// NewDriver wires a driver. With dryRun set, every orchestrator call is
// replaced by a log line and the filesystem is left untouched.
func NewDriver(fs afero.Fs, orch Orchestrator, meta scan.MetadataProvider, log *zap.Logger, dryRun bool) *Driver {
	if dryRun {
		orch = &dryRunOrchestrator{log: log}
	}
	return &Driver{
		fs:      fs,
		orch:    orch,
		scanner: scan.New(fs, meta, log),
		log:     log,
		dryRun:  dryRun,
	}
}

// Snapshot creates a new tagged snapshot for the job and removes the
// snapshots of that tag that fall outside its retention window.
func (d *Driver) Snapshot(ctx context.Context, job config.Job, tag string, now time.Time) error {
	if err := validateTag(tag); err != nil {
		return err
	}

	dir := job.SnapshotPath()
	if err := d.ensureDir(dir, job.CreateSnapshotDir); err != nil {
		return err
	}

	dest := filepath.Join(dir, snapshot.Name(job.Name, tag, now))
	d.log.Info("creating snapshot", zap.String("job", job.Name), zap.String("path", dest))
	if err := d.orch.CreateSnapshot(ctx, job.Filesystem, dest); err != nil {
		return fmt.Errorf("unable to create snapshot %q: %w", dest, err)
	}

	set, err := d.scanDir(ctx, dir, job.Name, tag)
	if err != nil {
		return err
	}
	keep := job.RetentionFor(tag)
	for _, old := range retention.Prune(set, keep) {
		d.log.Info("removing snapshot outside retention window",
			zap.String("job", job.Name), zap.String("location", old.Location), zap.Int("keep", keep))
		if err := d.orch.DeleteSnapshot(ctx, old.Location); err != nil {
			return fmt.Errorf("unable to delete snapshot %q: %w", old.Location, err)
		}
	}
	return nil
}

// Backup brings the job's backup directory up to date with its snapshot
// history. The returned tasks are the planned transfers, also on failure,
// so callers can render what was attempted. When the backup filesystem is
// configured to be mounted it is unmounted again on every exit path.
func (d *Driver) Backup(ctx context.Context, job config.Job) (tasks []plan.Task, err error) {
	if job.BackupDir == "" {
		return nil, fmt.Errorf("%w: job %q has no backup_dir", config.ErrConfig, job.Name)
	}
	if err := d.ensureDir(job.BackupDir, job.CreateBackupDir); err != nil {
		return nil, err
	}

	if job.MountBackupFS {
		if err := d.orch.Mount(ctx, job.BackupDir, false); err != nil {
			return nil, fmt.Errorf("unable to mount backup filesystem %q: %w", job.BackupDir, err)
		}
		defer func() {
			if uerr := d.orch.Unmount(ctx, job.BackupDir); uerr != nil {
				uerr = fmt.Errorf("unable to unmount backup filesystem %q: %w", job.BackupDir, uerr)
				if err == nil {
					err = uerr
				} else {
					d.log.Error("unmount failed after aborted backup", zap.String("job", job.Name), zap.Error(uerr))
				}
			}
		}()
	}

	source, err := d.scanDir(ctx, job.SnapshotPath(), job.Name, job.BackupTagPattern)
	if err != nil {
		return nil, err
	}
	// The destination scan is unrestricted so every tag ever copied there
	// is considered when looking for a common ancestor.
	dest, err := d.scanDir(ctx, job.BackupDir, job.Name, snapshot.MatchAllTags)
	if err != nil {
		return nil, err
	}

	tasks, outcome := plan.Chain(source, dest, job.BackupOnlyLatest)
	switch outcome {
	case plan.OutcomeNoSource:
		d.log.Info("nothing to back up", zap.String("job", job.Name))
		return nil, nil
	case plan.OutcomeUpToDate:
		d.log.Info("backup already up to date", zap.String("job", job.Name))
		return nil, nil
	}

	d.log.Info("executing transfer plan", zap.String("job", job.Name), zap.Int("tasks", len(tasks)))
	for _, t := range tasks {
		var base *string
		if t.Base != nil {
			base = &t.Base.Location
			d.log.Info("incremental transfer",
				zap.String("base", t.Base.Location), zap.String("target", t.Target.Location))
		} else {
			d.log.Info("full transfer", zap.String("target", t.Target.Location))
		}
		if err := d.orch.SendReceive(ctx, base, t.Target.Location, job.BackupDir); err != nil {
			return tasks, fmt.Errorf("unable to transfer snapshot %q: %w", t.Target.Location, err)
		}
	}
	return tasks, nil
}

// scanDir scans like the scanner does, except that in a dry run a
// directory that would only have been created by the skipped side effects
// counts as empty instead of failing the scan.
func (d *Driver) scanDir(ctx context.Context, dir, job, tagPattern string) (snapshot.Set, error) {
	if d.dryRun {
		if exists, err := afero.DirExists(d.fs, dir); err == nil && !exists {
			return snapshot.Set{}, nil
		}
	}
	return d.scanner.Scan(ctx, dir, job, tagPattern)
}

func (d *Driver) ensureDir(dir string, create bool) error {
	exists, err := afero.DirExists(d.fs, dir)
	if err != nil {
		return fmt.Errorf("unable to check directory %q: %w", dir, err)
	}
	if exists {
		return nil
	}
	if !create {
		return fmt.Errorf("%w: %q (enable automatic creation or create it manually)", ErrFilesystem, dir)
	}
	if d.dryRun {
		d.log.Info("dry run: would create directory", zap.String("path", dir))
		return nil
	}
	if err := d.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("unable to create directory %q: %w", dir, err)
	}
	return nil
}

func validateTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("%w: tag must not be empty", config.ErrConfig)
	}
	if snapshot.ContainsSeparator(tag) {
		return fmt.Errorf("%w: tag %q contains the snapshot name separator", config.ErrConfig, tag)
	}
	// Tags double as scan patterns, so pattern metacharacters are not
	// allowed in them.
	if strings.ContainsAny(tag, "*?[{") {
		return fmt.Errorf("%w: tag %q contains pattern characters", config.ErrConfig, tag)
	}
	return nil
}
