package xls2gd

import "log/slog"

// Severities of the conversion log.
const (
	LevelInfo    = slog.LevelInfo
	LevelSuccess = slog.LevelInfo + 2
	LevelError   = slog.LevelError
	LevelFailure = slog.LevelError + 2
)

// LevelName returns the name of a conversion log severity.
func LevelName(l slog.Level) string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	case LevelFailure:
		return "failed"
	}
	return l.String()
}

// ReplaceLevel is a slog.HandlerOptions.ReplaceAttr printing LevelName.
func ReplaceLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey && len(groups) == 0 {
		if l, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(LevelName(l))
		}
	}
	return a
}
