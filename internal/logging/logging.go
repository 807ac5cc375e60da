// Package logging builds the charmbracelet/log loggers used by the CLI.
//
// Interactive play owns the terminal, so its logs go to a rotating file or
// nowhere. The SSH server logs to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction.
type Options struct {
	// File is the log file path. Empty means Output is used instead.
	File string
	// Output is used when File is empty. Nil discards everything.
	Output io.Writer
	// Level is one of debug, info, warn, error. Defaults to info.
	Level  string
	Prefix string

	// Rotation limits for File.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Logger is a configured logger together with the file it writes to.
type Logger struct {
	*log.Logger
	file *lumberjack.Logger
}

// New creates a logger from opts.
func New(opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var (
		out  io.Writer = io.Discard
		file *lumberjack.Logger
	)
	switch {
	case opts.File != "":
		path, err := expandHome(opts.File)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("logging: cannot create directory for %s: %w", path, err)
		}
		file = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    orDefault(opts.MaxSizeMB, 10),
			MaxBackups: orDefault(opts.MaxBackups, 3),
			MaxAge:     orDefault(opts.MaxAgeDays, 7),
		}
		out = file
	case opts.Output != nil:
		out = opts.Output
	}

	l := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          opts.Prefix,
		Level:           level,
	})
	if file != nil {
		// Files are read with tail/grep, not a terminal.
		l.SetFormatter(log.LogfmtFormatter)
	}
	return &Logger{Logger: l, file: file}, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{Logger: log.New(io.Discard)}
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// ParseLevel maps a level name to a log.Level. Empty means info.
func ParseLevel(name string) (log.Level, error) {
	if strings.TrimSpace(name) == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("logging: %w", err)
	}
	return level, nil
}

func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("logging: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
