// Package log holds the process wide logger of the mecosettings command and
// the failure sink environment runs report into.
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config configures Initialize.
type Config struct {
	// Level is one of debug, info, warn or error.
	Level string
	// Path is the log file. Empty means mecosettings.log in the temp dir.
	Path string
	// Console also writes human readable entries to stderr.
	Console bool
}

var (
	mu      sync.Mutex
	logger  = zap.NewNop()
	logFile string
	closer  *os.File
)

// DefaultPath is where the log is written when Config.Path is empty.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), "mecosettings.log")
}

// Initialize should be called once at the beginning of the program to set up
// logging. defer Close() after calling this function. When the log file cannot
// be opened, entries go to stderr.
func Initialize(cfg Config) error {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return err
	}
	path := cfg.Path
	if path == "" {
		path = DefaultPath()
	}

	var cores []zapcore.Core
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: using stderr for logging: %v\n", err)
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleEncoderConfig()), zapcore.Lock(os.Stderr), level))
		path = ""
	} else {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(fileEncoderConfig()), zapcore.AddSync(f), level))
		if cfg.Console {
			cores = append(cores, zapcore.NewCore(
				zapcore.NewConsoleEncoder(consoleEncoderConfig()), zapcore.Lock(os.Stderr), level))
		}
	}

	mu.Lock()
	defer mu.Unlock()
	logger = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	logFile = path
	closer = f
	return nil
}

// Close flushes the logger and returns the file it wrote to, or an empty
// string when it wrote to stderr.
func Close() string {
	mu.Lock()
	defer mu.Unlock()
	_ = logger.Sync()
	if closer != nil {
		_ = closer.Close()
	}
	path := logFile
	logger = zap.NewNop()
	logFile = ""
	closer = nil
	return path
}

// L returns the process logger. It is a no-op logger until Initialize is
// called.
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

func parseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}

func fileEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		LevelKey:       "L",
		MessageKey:     "M",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

// Failures collects the non fatal failures of an environment run and logs
// each one at error level.
type Failures struct {
	mu       sync.Mutex
	logger   *zap.Logger
	messages []string
}

// NewFailures returns a sink logging to logger. A nil logger uses L().
func NewFailures(logger *zap.Logger) *Failures {
	if logger == nil {
		logger = L()
	}
	return &Failures{logger: logger}
}

func (f *Failures) AddFailure(message string) {
	f.mu.Lock()
	f.messages = append(f.messages, message)
	f.mu.Unlock()
	f.logger.Error("environment failure", zap.String("failure", message))
}

// Messages returns the recorded failures in the order they were added.
func (f *Failures) Messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.messages))
	copy(out, f.messages)
	return out
}

// Len is the number of recorded failures.
func (f *Failures) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}
