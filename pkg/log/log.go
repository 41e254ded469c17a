// Package log provides the logging interface used throughout the
// emulator. The default implementation is backed by logrus, with a
// plain text formatter so that log lines stay readable in a terminal
// next to the emulator output.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the interface the emulator components log through.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// New returns a Logger writing to stderr at info level.
func New() Logger {
	return newLogrus(os.Stderr, logrus.InfoLevel)
}

// NewWithLevel returns a Logger writing to stderr at the given
// level. Unknown levels fall back to info.
func NewWithLevel(level string) Logger {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	return newLogrus(os.Stderr, lvl)
}

// NewWithWriter returns a debug level Logger writing to w.
func NewWithWriter(w io.Writer) Logger {
	return newLogrus(w, logrus.DebugLevel)
}

func newLogrus(w io.Writer, level logrus.Level) Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
		DisableQuote:     true,
	})
	return l
}

type nullLogger struct{}

// NewNullLogger returns a Logger that discards everything.
func NewNullLogger() Logger {
	return nullLogger{}
}

func (nullLogger) Infof(string, ...interface{})  {}
func (nullLogger) Warnf(string, ...interface{})  {}
func (nullLogger) Errorf(string, ...interface{}) {}
func (nullLogger) Debugf(string, ...interface{}) {}
