package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLevelMapping(t *testing.T) {
	assert.Equal(t, zapcore.FatalLevel, Level(0))
	assert.Equal(t, zapcore.FatalLevel, Level(-1))
	assert.Equal(t, zapcore.ErrorLevel, Level(1))
	assert.Equal(t, zapcore.WarnLevel, Level(2))
	assert.Equal(t, zapcore.InfoLevel, Level(3))
	assert.Equal(t, zapcore.DebugLevel, Level(4))
	assert.Equal(t, zapcore.DebugLevel, Level(5))
}

func TestNewStderr(t *testing.T) {
	log, err := New(Config{Type: "stderr", Level: 3})
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestNewRejectsUnknownType(t *testing.T) {
	_, err := New(Config{Type: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestNewLogfileRequiresPath(t *testing.T) {
	_, err := New(Config{Type: "logfile"})
	assert.Error(t, err)
}
