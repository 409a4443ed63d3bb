package domain

import "strings"

// LogLevel is a log severity. Values match log/slog so adapters can convert directly.
type LogLevel int

// Log levels.
const (
	LogLevelDebug LogLevel = -4
	LogLevelInfo  LogLevel = 0
	LogLevelWarn  LogLevel = 4
	LogLevelError LogLevel = 8
)

var levelNames = map[LogLevel]string{
	LogLevelDebug: "DEBUG",
	LogLevelInfo:  "INFO",
	LogLevelWarn:  "WARN",
	LogLevelError: "ERROR",
}

// String returns the upper-case level name. Unknown values read as INFO.
func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return levelNames[LogLevelInfo]
}

// ParseLogLevel reads a log_level setting. Unknown names select info.
func ParseLogLevel(s string) LogLevel {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		return LogLevelWarn
	}
	for level, n := range levelNames {
		if n == name {
			return level
		}
	}
	return LogLevelInfo
}
