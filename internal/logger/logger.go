// Package logger holds the process-wide zap logger.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger. It is a no-op until Initialize runs so
	// packages can log unconditionally.
	Logger *zap.SugaredLogger
	// JSONOutput records whether Initialize selected the JSON encoder.
	JSONOutput bool
)

func init() {
	Logger = zap.NewNop().Sugar()
}

// Options selects the encoder, level, and sink.
type Options struct {
	JSON  bool
	Debug bool
	// File, when set, receives log output instead of stderr. The TUI owns
	// the terminal, so interactive sessions log here.
	File string
	// Writer overrides both stderr and File. Tests use it.
	Writer io.Writer
}

// Initialize builds the global logger from opts.
func Initialize(opts Options) error {
	sink, err := openSink(opts)
	if err != nil {
		return err
	}

	level := zap.InfoLevel
	if opts.Debug {
		level = zap.DebugLevel
	}

	var enc zapcore.Encoder
	if opts.JSON {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		cfg.EncodeCaller = nil
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	JSONOutput = opts.JSON
	Logger = zap.New(zapcore.NewCore(enc, sink, level)).Sugar()
	return nil
}

func openSink(opts Options) (zapcore.WriteSyncer, error) {
	if opts.Writer != nil {
		return zapcore.AddSync(opts.Writer), nil
	}
	if opts.File == "" {
		return zapcore.Lock(os.Stderr), nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	return zapcore.Lock(f), nil
}

// Named returns a child of the global logger.
func Named(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// Cleanup flushes any buffered log entries
func Cleanup() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}
