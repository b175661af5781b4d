// Package logger builds the process slog.Logger from a mode name.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Mode uint8

const (
	ModeDev Mode = iota
	ModeProd
	ModeSilence
)

func (m Mode) String() string {
	switch m {
	case ModeDev:
		return "dev"
	case ModeProd:
		return "prod"
	case ModeSilence:
		return "silence"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode accepts dev, prod or silence.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dev", "development":
		return ModeDev, nil
	case "prod", "production":
		return ModeProd, nil
	case "silence", "silent", "off":
		return ModeSilence, nil
	}
	return ModeDev, fmt.Errorf("unknown log mode %q", s)
}

// New returns a logger for mode writing to the mode's default stream.
func New(mode Mode) *slog.Logger {
	switch mode {
	case ModeProd:
		return slog.New(buildHandler(mode, os.Stdout))
	default:
		return slog.New(buildHandler(mode, os.Stderr))
	}
}

// NewWriter is New with an explicit destination.
func NewWriter(mode Mode, w io.Writer) *slog.Logger {
	return slog.New(buildHandler(mode, w))
}

// Discard drops everything.
func Discard() *slog.Logger {
	return slog.New(buildHandler(ModeSilence, nil))
}

func buildHandler(mode Mode, w io.Writer) slog.Handler {
	switch mode {
	case ModeProd:
		// JSON lines for log shippers
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	case ModeSilence:
		return slog.NewTextHandler(io.Discard, nil)
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}
