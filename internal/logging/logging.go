package logging

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// timestampWriter prefixes each flushed line with an RFC3339 timestamp.
type timestampWriter struct {
	w   io.Writer
	buf bytes.Buffer
	mu  sync.Mutex
	now func() time.Time
}

// Write buffers bytes until a newline is found; for each full line, write a timestamped
// line to the underlying writer. Partial lines are kept in the buffer.
func (t *timestampWriter) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, _ := t.buf.Write(p)
	for {
		line, err := t.buf.ReadString('\n')
		if err != nil {
			// keep the partial line for the next call
			t.buf.Reset()
			t.buf.WriteString(line)
			break
		}
		ts := t.now().Format(time.RFC3339)
		if _, err := t.w.Write([]byte(ts + " " + line)); err != nil {
			return n, err
		}
	}
	return n, nil
}

// terminalWriter wraps an io.Writer and exposes an Fd method so libraries that
// inspect the file descriptor (for TTY detection) can work with wrapped writers.
type terminalWriter struct {
	w  io.Writer
	fd uintptr
}

func (tw *terminalWriter) Write(p []byte) (int, error) { return tw.w.Write(p) }

// Fd exposes the underlying file descriptor (e.g., os.Stderr.Fd()).
func (tw *terminalWriter) Fd() uintptr { return tw.fd }

// Options configures New.
type Options struct {
	LogFile string
	Level   string
	Verbose bool
	Prefix  string
}

// New builds the program logger. Output goes to stderr and, when LogFile can
// be opened, is appended to that file as well. The returned closer releases
// the log file and is never nil.
func New(opts Options) (*log.Logger, func() error) {
	var out io.Writer = os.Stderr
	closer := func() error { return nil }
	var logFileErr error
	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			// write to both stderr and file so running interactively still shows logs
			out = io.MultiWriter(os.Stderr, f)
			closer = f.Close
		} else {
			logFileErr = err
		}
	}
	// If stderr is a terminal-like device, force colors for libraries that honor FORCE_COLOR.
	if fi, err := os.Stderr.Stat(); err == nil {
		if fi.Mode()&os.ModeCharDevice != 0 {
			_ = os.Setenv("FORCE_COLOR", "1")
		}
	}
	tw := &timestampWriter{w: out, now: time.Now}
	logger := log.NewWithOptions(&terminalWriter{w: tw, fd: os.Stderr.Fd()}, log.Options{Prefix: opts.Prefix})

	level, known := ParseLevel(opts.Level)
	if opts.Verbose {
		level = log.DebugLevel
	}
	logger.SetLevel(level)
	if !known {
		logger.Warn("unknown log_level, defaulting to info", "provided", opts.Level)
	}
	if logFileErr != nil {
		logger.Warn("log_file specified but could not be opened; logging to stderr only", "path", opts.LogFile, "err", logFileErr)
	}
	return logger, closer
}

// ParseLevel maps a config level name to a log level. Unknown names map to
// info and report false.
func ParseLevel(s string) (log.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return log.DebugLevel, true
	case "info", "":
		return log.InfoLevel, true
	case "warn", "warning":
		return log.WarnLevel, true
	case "error":
		return log.ErrorLevel, true
	default:
		return log.InfoLevel, false
	}
}

// Discard returns a logger that drops everything; tests use it.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
