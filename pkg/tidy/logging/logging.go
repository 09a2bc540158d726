// Package logging provides a unified logging system for tidy.
// All pipeline stages share this package and identify themselves
// by component name.
//
// Basic usage:
//
//	if err := logging.Init(logging.Config{Level: "info"}); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Close()
//
//	logger := logging.Get("manifest")
//	logger.Info("scan started", "root", "/home/user/Downloads")
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Level represents a logging level.
type Level int

// Log levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// toCharmLevel converts our Level to charmbracelet/log level.
func (l Level) toCharmLevel() log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelInfo:
		return log.InfoLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ErrInvalidLevel is returned when an invalid log level string is provided.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel parses a string into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %s", ErrInvalidLevel, s)
	}
}

// Config configures the logging system.
type Config struct {
	// Level is the default log level (debug, info, warn, error).
	Level string

	// Path is the log file path. Empty logs to stderr.
	Path string

	// Components maps component names to their log levels,
	// allowing per-component overrides.
	Components map[string]string
}

// Logger identifies a component and resolves the backing
// charmbracelet/log logger at call time, so loggers captured in
// package-level vars before Init still pick up the configured sink
// and levels.
type Logger struct {
	component string
	context   []interface{}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...interface{}) { l.backend().Debug(msg, args...) }

// Info logs an info message.
func (l *Logger) Info(msg string, args ...interface{}) { l.backend().Info(msg, args...) }

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...interface{}) { l.backend().Warn(msg, args...) }

// Error logs an error message.
func (l *Logger) Error(msg string, args ...interface{}) { l.backend().Error(msg, args...) }

// With returns a new logger with additional context.
func (l *Logger) With(args ...interface{}) *Logger {
	merged := make([]interface{}, 0, len(l.context)+len(args))
	merged = append(merged, l.context...)
	merged = append(merged, args...)
	return &Logger{component: l.component, context: merged}
}

// backend returns the component's current inner logger.
func (l *Logger) backend() *log.Logger {
	globalState.mu.RLock()
	inner, ok := globalState.inners[l.component]
	globalState.mu.RUnlock()

	if !ok {
		globalState.mu.Lock()
		inner, ok = globalState.inners[l.component]
		if !ok {
			inner = createInner(l.component)
			globalState.inners[l.component] = inner
		}
		globalState.mu.Unlock()
	}

	if len(l.context) > 0 {
		return inner.With(l.context...)
	}
	return inner
}

// state holds the global logging state.
type state struct {
	mu          sync.RWMutex
	initialized bool
	file        *os.File
	writer      io.Writer
	level       Level
	components  map[string]Level
	loggers     map[string]*Logger
	inners      map[string]*log.Logger
}

var globalState = &state{
	loggers:    make(map[string]*Logger),
	inners:     make(map[string]*log.Logger),
	components: make(map[string]Level),
	writer:     io.Discard,
}

// Init initializes the logging system with the given configuration.
// Before Init is called, all loggers write to io.Discard.
func Init(cfg Config) error {
	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	globalState.level = level

	globalState.components = make(map[string]Level, len(cfg.Components))
	for comp, lvl := range cfg.Components {
		parsed, err := ParseLevel(lvl)
		if err != nil {
			return fmt.Errorf("parsing level for component %s: %w", comp, err)
		}
		globalState.components[comp] = parsed
	}

	if globalState.file != nil {
		_ = globalState.file.Close()
		globalState.file = nil
	}

	if cfg.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		globalState.file = f
		globalState.writer = f
	} else {
		globalState.writer = os.Stderr
	}

	globalState.initialized = true

	// Rebuild the inner loggers so every Logger handed out so far,
	// including those captured before Init, writes to the new sink.
	for component := range globalState.inners {
		globalState.inners[component] = createInner(component)
	}

	return nil
}

// Get returns a logger for the given component.
// If the component has a level override in the config, it uses that level.
func Get(component string) *Logger {
	globalState.mu.RLock()
	if logger, ok := globalState.loggers[component]; ok {
		globalState.mu.RUnlock()
		return logger
	}
	globalState.mu.RUnlock()

	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	if logger, ok := globalState.loggers[component]; ok {
		return logger
	}
	logger := &Logger{component: component}
	globalState.loggers[component] = logger
	if _, ok := globalState.inners[component]; !ok {
		globalState.inners[component] = createInner(component)
	}
	return logger
}

// createInner builds a component's inner logger from the current global
// state. Caller must hold the state lock.
func createInner(component string) *log.Logger {
	level := globalState.level
	if override, ok := globalState.components[component]; ok {
		level = override
	}

	return log.NewWithOptions(globalState.writer, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          component,
		Level:           level.toCharmLevel(),
	})
}

// Close flushes and closes the log file if one is open.
func Close() error {
	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	if globalState.file != nil {
		err := globalState.file.Close()
		globalState.file = nil
		globalState.writer = io.Discard
		globalState.initialized = false
		for component := range globalState.inners {
			globalState.inners[component] = createInner(component)
		}
		return err
	}
	return nil
}
