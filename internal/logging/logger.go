// Package logging provides the leveled console logger used by the CLI:
// timestamped lines, optional ANSI colors and an optional plain-text file sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// ParseColorMode validates a --color value.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	}
	return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

const (
	red    = "\033[1;91m"
	green  = "\033[1;92m"
	yellow = "\033[1;93m"
	blue   = "\033[1;94m"
	cyan   = "\033[1;96m"
	reset  = "\033[0m"
)

// Options configures a Logger.
type Options struct {
	Color   ColorMode
	Verbose bool
	LogFile string // appended to when set

	// Stdout and Stderr default to os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// Logger writes leveled lines. All methods are goroutine-safe.
type Logger struct {
	mu      sync.Mutex
	color   bool
	verbose bool
	stdout  io.Writer
	stderr  io.Writer
	file    *os.File
}

// New builds a Logger. Call Close when done if LogFile was set.
func New(opts Options) (*Logger, error) {
	l := &Logger{
		verbose: opts.Verbose,
		stdout:  opts.Stdout,
		stderr:  opts.Stderr,
	}
	if l.stdout == nil {
		l.stdout = os.Stdout
	}
	if l.stderr == nil {
		l.stderr = os.Stderr
	}

	switch opts.Color {
	case ColorAlways:
		l.color = true
	case ColorNever:
		l.color = false
	default:
		l.color = isTerminal(l.stdout) && os.Getenv("NO_COLOR") == "" && strings.ToLower(os.Getenv("TERM")) != "dumb"
	}

	if opts.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(opts.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
	}
	return l, nil
}

// Discard returns a Logger that writes nowhere.
func Discard() *Logger {
	return &Logger{stdout: io.Discard, stderr: io.Discard}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Verbose reports whether Debug lines are emitted.
func (l *Logger) Verbose() bool { return l.verbose }

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func (l *Logger) line(level, color, text string) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	plain := ts + " [" + level + "] " + text + "\n"

	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.stdout
	if level == "ERROR" {
		out = l.stderr
	}
	if l.color {
		_, _ = io.WriteString(out, ts+" "+color+"["+level+"]"+reset+" "+text+"\n")
	} else {
		_, _ = io.WriteString(out, plain)
	}
	if l.file != nil {
		_, _ = io.WriteString(l.file, plain)
	}
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...any) {
	l.line("INFO", blue, fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...any) {
	l.line("SUCCESS", green, fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...any) {
	l.line("WARN", yellow, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red) to stderr.
func (l *Logger) Error(format string, args ...any) {
	l.line("ERROR", red, fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) only when verbose.
func (l *Logger) Debug(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.line("DEBUG", cyan, fmt.Sprintf(format, args...))
}
