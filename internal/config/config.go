package config

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/marcojez/btrfs-persist/pkg/config"
)

// This package handles the global command line config - the global flags and
// environment variable bindings.

// InitGlobalFlags defines all the global flags and binds them to viper.
func InitGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP(config.ConfKey, "c", config.DefaultConfPath(), "Path to the job configuration file.")

	cmd.PersistentFlags().BoolP(config.DryRunKey, "n", false, "Log the operations that would run without touching any subvolume.")

	cmd.PersistentFlags().BoolP(config.QuietKey, "q", false, "Only log errors.")

	cmd.PersistentFlags().BoolP(config.VerboseKey, "v", false, "Log additional detail and print the full transfer plan.")

	cmd.PersistentFlags().String(config.LogTypeKey, "stderr", "Where log messages should be sent ('stderr', 'stdout', 'logfile').")

	cmd.PersistentFlags().String(config.LogFileKey, "/var/log/btrfs-persist.log", "The path to the log file when --log-type is 'logfile'.")

	cmd.PersistentFlags().Int8(config.LogLevelKey, 3, "Adjust the logging level (0=Fatal, 1=Error, 2=Warn, 3=Info, 4+5=Debug).")

	// Environment variables should start with BTRFS_PERSIST_
	viper.SetEnvPrefix("btrfs_persist")
	// Environment variables cannot use "-", replace with "_"
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Bind all persistent pflags to viper
	cmd.PersistentFlags().VisitAll(func(flag *pflag.Flag) {
		viper.BindEnv(flag.Name)
		viper.BindPFlag(flag.Name, flag)
	})
}

func Cleanup() {
	config.Cleanup()
}
