package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// LevelEnv overrides the configured log level.
const LevelEnv = "PADRE_LOG_LEVEL"

// Options control where diagnostic logs go. Operator-facing output is not
// written through these loggers.
type Options struct {
	Level string
	// File, when set, receives every entry in addition to any stderr sink.
	File string
	// Verbose forces debug level and the stderr sink.
	Verbose bool
}

var (
	mu      sync.Mutex
	opts    Options
	loggers = make(map[string]*logrus.Entry)
)

// Configure sets the options used by loggers created afterwards.
func Configure(o Options) {
	mu.Lock()
	defer mu.Unlock()
	opts = o
	loggers = make(map[string]*logrus.Entry)
}

// NewLogger returns the logger for a component, creating it on first use.
func NewLogger(component string) *logrus.Entry {
	mu.Lock()
	defer mu.Unlock()

	if entry, ok := loggers[component]; ok {
		return entry
	}

	logger := logrus.New()
	logger.SetLevel(resolveLevel(opts))
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetOutput(resolveOutput(opts, logger))

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

func resolveLevel(o Options) logrus.Level {
	if o.Verbose {
		return logrus.DebugLevel
	}
	levelStr := "info"
	if env := os.Getenv(LevelEnv); env != "" {
		levelStr = env
	} else if o.Level != "" {
		levelStr = o.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// resolveOutput keeps structured logs off an interactive terminal unless
// debugging, since the operator console already shows what matters there.
func resolveOutput(o Options, logger *logrus.Logger) io.Writer {
	var writers []io.Writer

	if o.File != "" {
		if err := os.MkdirAll(filepath.Dir(o.File), 0o755); err == nil {
			f, err := os.OpenFile(o.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err == nil {
				writers = append(writers, f)
			}
		}
	}

	isDebug := logger.GetLevel() >= logrus.DebugLevel
	interactive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	if isDebug || !interactive {
		writers = append(writers, os.Stderr)
	}

	switch len(writers) {
	case 0:
		return io.Discard
	case 1:
		return writers[0]
	default:
		return io.MultiWriter(writers...)
	}
}
