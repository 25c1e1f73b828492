package logger

import (
	"os"
	"sync"
)

var (
	globalLogger *Logger
	mu           sync.RWMutex
)

// GetLogger returns the global logger instance
func GetLogger() *Logger {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		level := "info"
		if os.Getenv("DEBUG") == "true" {
			level = "debug"
		} else if os.Getenv("LOG_LEVEL") != "" {
			level = os.Getenv("LOG_LEVEL")
		}

		globalLogger = New(Config{
			Level:  level,
			Format: "json",
			Output: "stdout",
		})
	}
	return globalLogger
}

// SetLogger sets the global logger instance
func SetLogger(logger *Logger) {
	mu.Lock()
	globalLogger = logger
	mu.Unlock()
	SetGlobalLogger(logger)
}

// Info logs an info message
func Info(msg string) {
	GetLogger().Info(msg)
}

// Error logs an error message
func Error(msg string) {
	GetLogger().Error(msg)
}

// Fatal logs a fatal message and exits
func Fatal(msg string) {
	GetLogger().Fatal(msg)
}

// WithField adds a field to the logger
func WithField(key string, value interface{}) *Logger {
	return GetLogger().WithField(key, value)
}

// WithError adds an error to the logger
func WithError(err error) *Logger {
	return GetLogger().WithError(err)
}
