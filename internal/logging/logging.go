// Package logging configures the process logger.
package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

var debugEnabled atomic.Bool

// Options controls where log output goes.
type Options struct {
	// File is the rotating log file. Empty logs to stderr only.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Debug      bool
}

// Setup points the standard logger at stderr and, if configured, a rotating
// log file. Closing the returned closer closes the file and sends the logger
// back to stderr.
func Setup(opts Options) io.Closer {
	log.SetPrefix("[cmdtray] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if opts.Debug && !DebugEnabled() {
		EnableDebug()
	}

	if opts.File == "" {
		log.SetOutput(os.Stderr)
		return nopCloser{}
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		log.SetOutput(os.Stderr)
		log.Printf("Failed to create log directory, logging to stderr only: %v", err)
		return nopCloser{}
	}

	lj := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    orDefault(opts.MaxSizeMB, 5),
		MaxBackups: orDefault(opts.MaxBackups, 3),
		MaxAge:     orDefault(opts.MaxAgeDays, 28),
	}
	log.SetOutput(io.MultiWriter(os.Stderr, lj))
	return fileCloser{lj}
}

// EnableDebug turns on verbose debug logging.
func EnableDebug() {
	debugEnabled.Store(true)
	log.Printf("[DEBUG] debug logging enabled")
}

// DebugEnabled reports whether debug logging is active.
func DebugEnabled() bool {
	return debugEnabled.Load()
}

// Debugf emits a formatted debug log message when debugging is enabled.
func Debugf(format string, args ...interface{}) {
	if !DebugEnabled() {
		return
	}
	log.Printf("[DEBUG] "+format, args...)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

type fileCloser struct {
	lj *lumberjack.Logger
}

func (c fileCloser) Close() error {
	log.SetOutput(os.Stderr)
	return c.lj.Close()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
