// Package logger configures the process-wide slog logger.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
)

const (
	rotationTime = time.Hour
	maxAge       = 7 * 24 * time.Hour
)

// ParseLevel maps LOG_LEVEL values to slog levels. Unknown values are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a JSON logger writing to stdout and, when dir is set, to an
// hourly rotated file under dir. The returned closer releases the file.
func New(level, dir string) (*slog.Logger, io.Closer, error) {
	var (
		w      io.Writer = os.Stdout
		closer io.Closer = nopCloser{}
	)
	if dir != "" {
		rl, err := rotatelogs.New(
			filepath.Join(dir, "safari.%Y%m%d%H.log"),
			rotatelogs.WithLinkName(filepath.Join(dir, "safari.log")),
			rotatelogs.WithRotationTime(rotationTime),
			rotatelogs.WithMaxAge(maxAge),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file in %s: %w", dir, err)
		}
		w = io.MultiWriter(os.Stdout, rl)
		closer = rl
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(h), closer, nil
}

// Setup installs the logger from New as the slog default.
func Setup(level, dir string) (io.Closer, error) {
	l, closer, err := New(level, dir)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(l)
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
