package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Root  string
	Debug bool

	// Console receives human-readable progress lines; nil disables console output.
	Console io.Writer
	NoColor bool
}

var (
	mu      sync.RWMutex
	global  = discard()
	logFile *lumberjack.Logger
	logPath string
)

// Setup installs a logger writing JSON to <root>/.vul/logs/vul.log and, when
// cfg.Console is set, colored text to the console. If the file cannot be
// opened the console handler is still installed and the error is returned.
func Setup(cfg Config) (func() error, error) {
	level := slog.LevelInfo
	addSource := false
	if cfg.Debug {
		level = slog.LevelDebug
		addSource = true
	}

	var console slog.Handler
	if cfg.Console != nil {
		console = tint.NewHandler(cfg.Console, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			NoColor:    cfg.NoColor,
		})
	}

	root := filepath.Clean(cfg.Root)
	if cfg.Root == "" {
		root = "."
	}

	dir := filepath.Join(root, ".vul", "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		install(console, nil, "")
		return nil, err
	}

	path := filepath.Join(dir, "vul.log")
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		Compress:   true,
	}

	file := slog.NewJSONHandler(lj, &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				t := a.Value.Time().UTC()
				a.Value = slog.StringValue(t.Format(time.RFC3339Nano))
			}
			return a
		},
	})

	install(console, file, path)

	mu.Lock()
	logFile = lj
	mu.Unlock()

	L().Debug("logger.initialized", "path", path, "debug", cfg.Debug)

	cleanup := func() error {
		mu.Lock()
		defer mu.Unlock()

		var cerr error
		if logFile != nil {
			cerr = logFile.Close()
		}
		logFile = nil
		logPath = ""
		global = discard()
		return cerr
	}

	return cleanup, nil
}

func install(console, file slog.Handler, path string) {
	var h slog.Handler
	switch {
	case console != nil && file != nil:
		h = &fanout{handlers: []slog.Handler{console, file}}
	case console != nil:
		h = console
	case file != nil:
		h = file
	}

	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		global = discard()
	} else {
		global = slog.New(h)
	}
	logFile = nil
	logPath = path
}

func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Path is the JSON log file of the current logger, or "" when only the console is set up.
func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return logPath
}

func discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
