package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_Stdout(t *testing.T) {
	l, closer, err := New("warn", "")

	require.NoError(t, err)
	defer func() { _ = closer.Close() }()
	assert.False(t, l.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, l.Enabled(t.Context(), slog.LevelWarn))
}

func TestNew_RotatedFile(t *testing.T) {
	dir := t.TempDir()

	l, closer, err := New("info", dir)
	require.NoError(t, err)

	l.Info("fingerprint enrolled", "student_id", 7)
	require.NoError(t, closer.Close())

	matches, err := filepath.Glob(filepath.Join(dir, "safari.*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	b, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"fingerprint enrolled"`)
	assert.Contains(t, string(b), `"student_id":7`)
}
