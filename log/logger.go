package log

import (
	"io"
	"log/slog"
	"strings"

	"github.com/dpotapov/slogpfx"
)

// Logger wraps a slog.Logger and keeps track of prefixes, so that each component of the SDK
// ([sequence], [broadcast], [queue], ...) can add its own tag in a hierarchical manner.
type Logger struct {
	*slog.Logger

	rawLogLevel string
	prefixes    []string
}

// NewLoggerWithWriter creates a logger that writes text records to w.
func NewLoggerWithWriter(w io.Writer, rawLogLevel string, prefixes ...string) *Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: levelVar(rawLogLevel),
	})
	return fromHandler(handler, rawLogLevel, prefixes...)
}

// FromSlog adapts an existing slog.Logger without a prefix handler. Prefixes then show up as a plain
// attribute, which is what tests routing logs through t.Log want.
func FromSlog(slogger *slog.Logger, prefixes ...string) *Logger {
	return newLoggerWithSlogger(slogger, "", prefixes)
}

// fromHandler wraps the given handler with the prefix formatter.
func fromHandler(handler slog.Handler, rawLogLevel string, prefixes ...string) *Logger {
	prefixHandler := slogpfx.NewHandler(handler, &slogpfx.HandlerOptions{
		PrefixKeys:      []string{prefixKey},
		PrefixFormatter: formatPrefixes,
	})

	return newLoggerWithSlogger(slog.New(prefixHandler), rawLogLevel, prefixes)
}

func newLoggerWithSlogger(slogger *slog.Logger, rawLogLevel string, prefixes []string) *Logger {
	// The prefix handler keeps a single value per prefix key, so always send the full joined prefix.
	prefix := strings.Join(prefixes, "")
	prefixedSlogger := slogger
	if prefix != "" {
		prefixedSlogger = slogger.With(prefixKey, prefix)
	}

	return &Logger{
		Logger:      prefixedSlogger,
		rawLogLevel: rawLogLevel,
		prefixes:    prefixes,
	}
}

// Add an additional prefix to the logger
func (l *Logger) ApplyPrefix(prefix string) *Logger {
	// Copy so that siblings derived from the same parent never share a backing array.
	prefixes := make([]string, 0, len(l.prefixes)+1)
	prefixes = append(prefixes, l.prefixes...)
	prefixes = append(prefixes, prefix)

	return newLoggerWithSlogger(l.Logger, l.rawLogLevel, prefixes)
}

// Add a value to the logger
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:      l.Logger.With(args...),
		rawLogLevel: l.rawLogLevel,
		prefixes:    l.prefixes,
	}
}

// Prefixes returns the prefixes applied so far.
func (l *Logger) Prefixes() []string {
	return l.prefixes
}

// Prefix key is the "magic" key that makes this all work. Any value sent to this key is a prefix,
// with the intermediate handlers.
const prefixKey = "_prefixKey"

// Custom prefix formatter. The default in slogpfx uses a '>' symbol.
func formatPrefixes(prefixes []slog.Value) string {
	p := make([]string, 0, len(prefixes))
	for _, prefix := range prefixes {
		if prefix.Any() == nil || prefix.String() == "" {
			continue // skip empty prefixes
		}
		p = append(p, prefix.String())
	}
	if len(p) == 0 {
		return ""
	}
	return strings.Join(p, "") + " "
}

func levelVar(rawLogLevel string) *slog.LevelVar {
	lvl := new(slog.LevelVar)
	lvl.Set(ParseLogLevel(rawLogLevel))
	return lvl
}
