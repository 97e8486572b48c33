package logging

import (
	"github.com/go-logr/logr"
)

const (
	LEVEL_INFO  = 0
	LEVEL_DEBUG = 1
	LEVEL_TRACE = 2
)

// NewLogger wraps log. A zero value logr.Logger is replaced by a discarding logger.
func NewLogger(log logr.Logger) *Logger {
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return &Logger{log: log}
}

// DefaultLogger returns a Logger that discards everything, the library default.
func DefaultLogger() *Logger {
	return &Logger{log: logr.Discard()}
}

// Logger keeps the call sites in the rest of the module short: Debug, Trace and Info map onto logr verbosity levels.
type Logger struct {
	log logr.Logger
}

// Logr returns the underlying logr.Logger.
func (l *Logger) Logr() logr.Logger {
	if l == nil {
		return logr.Discard()
	}
	return l.log
}

// WithName returns a Logger whose messages are prefixed with name.
func (l *Logger) WithName(name string) *Logger {
	return &Logger{log: l.Logr().WithName(name)}
}

// WithValues returns a Logger that attaches keysAndValues to every message.
func (l *Logger) WithValues(keysAndValues ...interface{}) *Logger {
	return &Logger{log: l.Logr().WithValues(keysAndValues...)}
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Logr().Info(msg, keysAndValues...)
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logr().V(LEVEL_DEBUG).Info(msg, keysAndValues...)
}

func (l *Logger) Trace(msg string, keysAndValues ...interface{}) {
	l.Logr().V(LEVEL_TRACE).Info(msg, keysAndValues...)
}

func (l *Logger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.Logr().Error(err, msg, keysAndValues...)
}
