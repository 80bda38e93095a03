package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/marcojez/btrfs-persist/pkg/config"
	"github.com/marcojez/btrfs-persist/pkg/persist/btrfs"
	"github.com/marcojez/btrfs-persist/pkg/persist/job"
)

// Creates new "snapshot" command
func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot <tag> <job...>",
		Short: "Create tagged snapshots and apply per-tag retention",
		Long: `Create a read-only snapshot of each named job's subvolume, tagged with the
given tag (e.g. hourly, daily, weekly), then delete the oldest snapshots of
that tag exceeding the job's retention count (<tag>_snapshots, default 3).

All named jobs share one timestamp so snapshots created by the same run can
be correlated across jobs. Jobs run one at a time; a failing job does not
stop the remaining ones.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotCmd(cmd.Context(), args[0], args[1:])
		},
	}
	return cmd
}

func runSnapshotCmd(ctx context.Context, tag string, jobNames []string) error {
	log, err := config.GetLogger()
	if err != nil {
		return err
	}

	cfg, err := config.Load(afero.NewOsFs(), viper.GetString(config.ConfKey))
	if err != nil {
		return err
	}

	tool := btrfs.New(log.Logger)
	driver := job.NewDriver(afero.NewOsFs(), tool, tool, log.Logger, viper.GetBool(config.DryRunKey))

	now := time.Now()
	failed := 0
	for _, name := range jobNames {
		j, err := cfg.Resolve(name)
		if err != nil {
			log.Error("skipping job", zap.Error(err))
			failed++
			continue
		}
		if err := driver.Snapshot(ctx, j, tag, now); err != nil {
			log.Error("snapshot job failed", zap.String("job", name), zap.Error(err))
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d snapshot jobs failed", failed, len(jobNames))
	}
	return nil
}
