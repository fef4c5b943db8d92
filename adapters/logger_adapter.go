package adapters

import "strings"

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
	LogLevelNone  LogLevel = "NONE"
)

var logLevelRank = map[LogLevel]int{
	LogLevelDebug: 0,
	LogLevelInfo:  1,
	LogLevelWarn:  2,
	LogLevelError: 3,
	LogLevelNone:  4,
}

// ParseLogLevel maps a case-insensitive level name to a LogLevel. Unknown
// names fall back to LogLevelWarn.
func ParseLogLevel(s string) LogLevel {
	level := LogLevel(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := logLevelRank[level]; ok {
		return level
	}
	return LogLevelWarn
}

// LoggerAdapter is an interface for logging.
// Messages are printf-style format strings.
type LoggerAdapter interface {
	Debug(message string, args ...any)
	Info(message string, args ...any)
	Warn(message string, args ...any)
	Error(message string, args ...any)
}

// NoOpLoggerAdapter discards every message.
type NoOpLoggerAdapter struct{}

var _ LoggerAdapter = NoOpLoggerAdapter{}

func (NoOpLoggerAdapter) Debug(string, ...any) {}
func (NoOpLoggerAdapter) Info(string, ...any)  {}
func (NoOpLoggerAdapter) Warn(string, ...any)  {}
func (NoOpLoggerAdapter) Error(string, ...any) {}
