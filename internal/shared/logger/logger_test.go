package logger

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techdesk-io/techdesk/internal/shared/config"
)

func TestSourceHandler(t *testing.T) {
	tests := []struct {
		name             string
		minLevel         slog.Level
		level            slog.Level
		shouldHaveSource bool
	}{
		{"info below warn threshold", slog.LevelWarn, slog.LevelInfo, false},
		{"warn at threshold", slog.LevelWarn, slog.LevelWarn, true},
		{"error above threshold", slog.LevelWarn, slog.LevelError, true},
		{"debug threshold shows info", slog.LevelDebug, slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			log := NewLoggerWithSlog(slog.New(NewSourceHandler(base, tt.minLevel)))

			switch tt.level {
			case slog.LevelInfo:
				log.Infow("test message")
			case slog.LevelWarn:
				log.Warnw("test message")
			case slog.LevelError:
				log.Errorw("test message")
			}

			output := buf.String()
			assert.Equal(t, tt.shouldHaveSource, strings.Contains(output, "source="), output)
			if tt.shouldHaveSource {
				assert.Contains(t, output, "logger_test.go", "source should point at the caller, not the wrapper")
			}
		})
	}
}

func TestSourceHandler_KeepsAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)
	handler := NewSourceHandler(base, slog.LevelError)

	slog.New(handler).With("ticket_id", 42).WithGroup("request").Info("stored", "path", "/tickets")

	output := buf.String()
	assert.NotContains(t, output, "source=")
	assert.Contains(t, output, "ticket_id=42")
	assert.Contains(t, output, "request.path=/tickets")
	assert.True(t, handler.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, handler.Enabled(context.Background(), slog.LevelDebug))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestInit_RotatingFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "techdesk.log")

	err := Init(&config.LoggerConfig{
		Level:      "info",
		Format:     "json",
		OutputPath: path,
		MaxSizeMB:  1,
	}, false)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = Sync()
		mu.Lock()
		Logger = nil
		mu.Unlock()
	})

	NewLogger().Infow("ticket stored", "ticket_id", 7)
	require.NoError(t, Sync())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"ticket stored"`)
	assert.Contains(t, string(content), `"ticket_id":7`)
}
