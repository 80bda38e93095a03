// Package config holds the tool-wide configuration surface: the viper keys
// the global flags are bound to, process-wide logger construction, and the
// per-job configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"

	"github.com/marcojez/btrfs-persist/pkg/logger"
)

const (
	ConfKey     = "conf"
	DryRunKey   = "dry-run"
	QuietKey    = "quiet"
	VerboseKey  = "verbose"
	LogTypeKey  = "log-type"
	LogFileKey  = "log-file"
	LogLevelKey = "log-level"
)

var (
	logMu sync.Mutex
	log   *logger.Logger
)

// GetLogger returns the process-wide logger, building it from the bound
// global flags on first use. --verbose and --quiet override --log-level.
func GetLogger() (*logger.Logger, error) {
	logMu.Lock()
	defer logMu.Unlock()
	if log != nil {
		return log, nil
	}
	level := int8(viper.GetInt(LogLevelKey))
	if viper.GetBool(VerboseKey) {
		level = 5
	}
	if viper.GetBool(QuietKey) {
		level = 1
	}
	l, err := logger.New(logger.Config{
		Type:  viper.GetString(LogTypeKey),
		File:  viper.GetString(LogFileKey),
		Level: level,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to initialize logger: %w", err)
	}
	log = l
	return log, nil
}

// Cleanup flushes the logger if one was built.
func Cleanup() {
	logMu.Lock()
	defer logMu.Unlock()
	if log != nil {
		log.Sync()
	}
}

// DefaultConfPath returns ~/.config/btrfs-persist.conf, falling back to a
// path relative to the working directory when the home directory cannot be
// determined.
func DefaultConfPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "btrfs-persist.conf"
	}
	return filepath.Join(home, ".config", "btrfs-persist.conf")
}
