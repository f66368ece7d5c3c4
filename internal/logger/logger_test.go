package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	l, err := NewLogger(&LoggerConfig{Debug: false})
	assert.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = NewLogger(&LoggerConfig{Debug: true})
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLoggerNilConfig(t *testing.T) {
	l, err := NewLogger(nil)
	assert.NoError(t, err)
	assert.NotNil(t, l)
}
