// Package logger owns the process-wide zerolog logger. Init configures it once
// at startup; Get and Component hand it out afterwards.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options is read by the first Init call only.
type Options struct {
	// Level is one of trace, debug, info, warn, error. Anything else is info.
	Level string
	// Pretty writes coloured console lines instead of JSON.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service, when set, is stamped on every entry.
	Service string
}

var (
	mu    sync.RWMutex
	once  sync.Once
	root  zerolog.Logger
	ready bool
)

// Init builds the logger from opts on the first call and returns it. Later
// calls return the existing logger unchanged.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
		}

		level := parseLevel(opts.Level)
		zerolog.SetGlobalLevel(level)

		fields := zerolog.New(out).Level(level).With().Timestamp()
		if opts.Service != "" {
			fields = fields.Str("service", opts.Service)
		}
		if level <= zerolog.DebugLevel {
			fields = fields.Caller()
		}

		mu.Lock()
		root, ready = fields.Logger(), true
		mu.Unlock()
	})
	return Get()
}

// Get returns the logger. Calling it before Init is a wiring bug and panics.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if !ready {
		panic("logger: Get called before Init")
	}
	return root
}

// Component returns the logger tagged with a "component" field.
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

// Reset forgets the logger so a test can Init it again.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	once = sync.Once{}
	root = zerolog.Logger{}
	ready = false
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
