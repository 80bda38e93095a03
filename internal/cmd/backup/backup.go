package backup

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/marcojez/btrfs-persist/internal/cmdfmt"
	"github.com/marcojez/btrfs-persist/pkg/config"
	"github.com/marcojez/btrfs-persist/pkg/persist/btrfs"
	"github.com/marcojez/btrfs-persist/pkg/persist/job"
)

// Creates new "backup" command
func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup <job...>",
		Short: "Replicate snapshot history to each job's backup directory",
		Long: `Bring each named job's backup directory up to date with its snapshot
history. The transfer chain starts from the newest snapshot common to both
sides so only deltas are shipped; without a common snapshot the chain starts
with a full transfer. With backup_only_latest only the newest missing
snapshot is transferred and the skipped history is never replicated.

Jobs run one at a time; a failing job does not stop the remaining ones.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackupCmd(cmd.Context(), args)
		},
	}
	return cmd
}

func runBackupCmd(ctx context.Context, jobNames []string) error {
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
	showPlan := viper.GetBool(config.DryRunKey) || viper.GetBool(config.VerboseKey)

	failed := 0
	for _, name := range jobNames {
		j, err := cfg.Resolve(name)
		if err != nil {
			log.Error("skipping job", zap.Error(err))
			failed++
			continue
		}
		tasks, err := driver.Backup(ctx, j)
		if showPlan && len(tasks) > 0 {
			fmt.Println(cmdfmt.PlanTable(tasks))
		}
		if err != nil {
			log.Error("backup job failed", zap.String("job", name), zap.Error(err))
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d backup jobs failed", failed, len(jobNames))
	}
	return nil
}
