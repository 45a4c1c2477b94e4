package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"off", LevelSilent, false},
		{"loud", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoggerWritesStructuredFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core), LevelDebug)

	scoped := l.With(String("component", "registry"))
	scoped.Warn("duplicate actor", String("id", "player"), Int("count", 2), Error(errors.New("boom")))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "duplicate actor", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "registry", fields["component"])
	assert.Equal(t, "player", fields["id"])
	assert.EqualValues(t, 2, fields["count"])
	assert.Equal(t, "boom", fields["error"])
}

func TestLogRespectsLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core), LevelWarn)

	l.Log(LevelInfo, "dropped")
	l.Log(LevelError, "kept")
	assert.Equal(t, 1, logs.Len())

	l.SetLevel(LevelSilent)
	l.Log(LevelError, "silenced")
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, LevelSilent, l.GetLevel())
}

func TestNopLoggerDiscards(t *testing.T) {
	l := NewNop()
	l.Info("nothing")
	l.Log(LevelError, "nothing")
	assert.Equal(t, LevelSilent, l.GetLevel())
}
