package jobs

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/marcojez/btrfs-persist/internal/cmdfmt"
	"github.com/marcojez/btrfs-persist/pkg/config"
)

// Creates new "jobs" command
func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List the configured jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJobsCmd()
		},
	}
	return cmd
}

func runJobsCmd() error {
	cfg, err := config.Load(afero.NewOsFs(), viper.GetString(config.ConfKey))
	if err != nil {
		return err
	}
	if len(cfg.Jobs) == 0 {
		fmt.Println("No jobs configured.")
		return nil
	}
	fmt.Println(cmdfmt.JobsTable(cfg.Jobs))
	return nil
}
