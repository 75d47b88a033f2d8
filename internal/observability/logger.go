// Package observability builds the process logger. The terminal belongs to
// the browser, so log output always goes to a file.
package observability

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// CLILogger is the process-wide logger. It discards everything until Init
// replaces it.
var CLILogger = zap.NewNop()

// Disabled is the log file value that turns logging off.
const Disabled = "-"

const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

// DefaultLogFile returns ~/.objnav/objnav.log.
func DefaultLogFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".objnav", "objnav.log"), nil
}

// New returns a JSON logger appending to path through a rotating writer,
// together with a func that flushes and closes it. An empty path or "-"
// yields a no-op logger.
func New(path, level string) (*zap.Logger, func() error, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == Disabled {
		return zap.NewNop(), func() error { return nil }, nil
	}
	lvl := zapcore.InfoLevel
	if level = strings.TrimSpace(level); level != "" {
		parsed, err := zapcore.ParseLevel(strings.ToLower(level))
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), lvl)
	logger := zap.New(core).With(zap.Int("pid", os.Getpid()))

	closer := func() error {
		_ = logger.Sync()
		return w.Close()
	}
	return logger, closer, nil
}

// Init replaces CLILogger. The returned func must be called before exit.
func Init(path, level string) (func() error, error) {
	logger, closer, err := New(path, level)
	if err != nil {
		return nil, err
	}
	CLILogger = logger
	return closer, nil
}
