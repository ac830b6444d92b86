// Package logging provides logger construction and run identification for
// the execution core. All handlers scrub sensitive attributes before they
// reach any sink.
package logging

import (
	"io"
	"log/slog"

	"github.com/oklog/ulid/v2"

	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/redaction"
)

// GenerateRunID generates a lexicographically sortable identifier for one
// execution session. It appears in every audit record of that session.
func GenerateRunID() string {
	return ulid.Make().String()
}

// NewLogger creates a JSON slog.Logger writing to w. Every attribute is
// passed through the redaction configuration so no credential value can
// reach the sink, whatever the call site logs.
func NewLogger(w io.Writer, level slog.Level, redact *redaction.Config) *slog.Logger {
	if redact == nil {
		redact = redaction.DefaultConfig()
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			return redact.RedactLogAttribute(attr)
		},
	})
	return slog.New(handler)
}

// ParseLevel converts a log level name to slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
