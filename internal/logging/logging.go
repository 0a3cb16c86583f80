// Package logging builds the slog handlers used by the command line tools.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Masked replaces the value of every sensitive attribute.
const Masked = "******"

var sensitiveKeys = map[string]struct{}{
	"pin":         {},
	"old_pin":     {},
	"new_pin":     {},
	"code":        {},
	"access_code": {},
	"admin_code":  {},
	"staff_code":  {},
}

// Options selects the handler.
type Options struct {
	Level  slog.Level
	Format string // "text" (default) or "json"
}

// ParseLevel maps a level name to a slog.Level. Empty means info.
func ParseLevel(name string) (slog.Level, error) {
	if name == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// New creates a logger writing to w with sensitive attributes masked.
func New(w io.Writer, opts Options) (*slog.Logger, error) {
	handlerOpts := &slog.HandlerOptions{
		Level:       opts.Level,
		ReplaceAttr: maskSensitive,
	}

	switch strings.ToLower(opts.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
}

func maskSensitive(groups []string, a slog.Attr) slog.Attr {
	if IsSensitiveKey(a.Key) {
		return slog.String(a.Key, Masked)
	}
	return a
}

// IsSensitiveKey reports whether an attribute key carries a credential.
func IsSensitiveKey(key string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", "_"))
	_, ok := sensitiveKeys[normalized]
	return ok
}
