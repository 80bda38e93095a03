// Package logger builds the application logger from configuration.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	// Where log messages are sent ('stderr', 'stdout', 'logfile').
	Type string `mapstructure:"type"`
	// The log file path when Type is 'logfile'.
	File string `mapstructure:"file"`
	// 0=Fatal, 1=Error, 2=Warn, 3=Info, 4+5=Debug.
	Level int8 `mapstructure:"level"`
	// Maximum size of the log file in megabytes before rotation.
	MaxSize int `mapstructure:"max-size"`
	// Number of rotated log files to keep.
	NumRotatedFiles int `mapstructure:"num-rotated-files"`
	// Developer enables debug logging with stack traces at warn and above,
	// ignoring Level.
	Developer bool `mapstructure:"developer"`
}

type Logger struct {
	*zap.Logger
}

func New(cfg Config) (*Logger, error) {
	var ws zapcore.WriteSyncer
	switch cfg.Type {
	case "", "stderr":
		ws = zapcore.Lock(os.Stderr)
	case "stdout":
		ws = zapcore.Lock(os.Stdout)
	case "logfile":
		if cfg.File == "" {
			return nil, fmt.Errorf("log type 'logfile' requires a log file path")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("unable to create log directory: %w", err)
		}
		ws = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.NumRotatedFiles,
		})
	default:
		return nil, fmt.Errorf("unsupported log type %q", cfg.Type)
	}

	level := Level(cfg.Level)
	opts := []zap.Option{}
	if cfg.Developer {
		level = zapcore.DebugLevel
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), ws, level)
	return &Logger{Logger: zap.New(core, opts...)}, nil
}

// Level maps the numeric configuration level to a zap level.
func Level(l int8) zapcore.Level {
	switch {
	case l <= 0:
		return zapcore.FatalLevel
	case l == 1:
		return zapcore.ErrorLevel
	case l == 2:
		return zapcore.WarnLevel
	case l == 3:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() {
	// Sync on stderr/stdout fails on some platforms; nothing actionable.
	_ = l.Logger.Sync()
}
