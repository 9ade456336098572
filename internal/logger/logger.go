// Package logger holds the process-wide zap logger used by the CLI and the
// input layer. It discards everything until Init enables it.
package logger

import (
	"io"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(zap.NewNop())
}

// L returns the global logger. It is a no-op logger unless Init enabled output.
func L() *zap.Logger {
	return current.Load()
}

// Options configures the logger initialization.
type Options struct {
	Enabled bool          // If false, all logging is discarded
	Level   zapcore.Level // Minimum level. Default: InfoLevel
	Output  io.Writer     // Destination. Default: os.Stderr
	JSON    bool          // JSON lines instead of console text
}

// Init configures logging. Call from main before any log calls.
func Init(opts Options) {
	if !opts.Enabled {
		current.Store(zap.NewNop())
		return
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""
	var enc zapcore.Encoder
	if opts.JSON {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(out), zap.NewAtomicLevelAt(opts.Level))
	current.Store(zap.New(core).Named("wordfreq"))
}

// ParseLevel converts a level name ("debug", "info", "warn", "error").
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	return zapcore.ParseLevel(s)
}

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func Sync() {
	_ = L().Sync()
}
