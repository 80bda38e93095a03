package cmd

import (
	"github.com/spf13/cobra"

	"github.com/marcojez/btrfs-persist/internal/cmd/backup"
	"github.com/marcojez/btrfs-persist/internal/cmd/jobs"
	"github.com/marcojez/btrfs-persist/internal/cmd/snapshot"
	"github.com/marcojez/btrfs-persist/internal/config"
)

func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "btrfs-persist",
		Short: "Manage btrfs snapshots and replicate them incrementally to a backup location",
		Long: `btrfs-persist creates read-only snapshots of configured btrfs subvolumes,
prunes snapshots that fall outside their per-tag retention window, and
replicates snapshot history incrementally to a backup directory using
btrfs send/receive.

Jobs are defined in the configuration file (--conf). Each run processes the
named jobs one at a time; a failing job is logged and the remaining jobs
still run, with a non-zero exit status at the end.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.InitGlobalFlags(cmd)

	cmd.AddCommand(snapshot.NewCmd())
	cmd.AddCommand(backup.NewCmd())
	cmd.AddCommand(jobs.NewCmd())

	return cmd
}
