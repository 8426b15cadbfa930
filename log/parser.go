package log

import (
	"fmt"
	"log/slog"
	"strings"
)

func ParseLogLevel(input string) slog.Level {
	level, err := parseLogLevel(input)
	if err != nil {
		fmt.Printf("😬 %s. Defaulting to log at INFO level.\n", err)
	}
	return level
}

// ValidateLogLevel reports whether input names a known level. Config loading uses it so that
// typos fail fast instead of silently logging at INFO.
func ValidateLogLevel(input string) error {
	_, err := parseLogLevel(input)
	return err
}

func parseLogLevel(input string) (slog.Level, error) {
	sanitized := strings.ToLower(strings.TrimSpace(input))

	switch sanitized {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unable to parse a log level from input: %q", input)
	}
}
