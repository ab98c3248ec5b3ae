package logger

import "log/slog"

const (
	// LevelTrace and LevelCritical extend the slog range at both ends.
	LevelTrace    = slog.LevelDebug - 4
	LevelCritical = slog.LevelError + 4
)

func levelName(level slog.Leveler) string {
	switch level {
	case LevelTrace:
		return "TRACE"
	case LevelCritical:
		return "CRITICAL"
	}
	return level.Level().String()
}
