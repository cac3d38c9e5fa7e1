package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	OutputStdout = "stdout"
	OutputStderr = "stderr"
)

// Options controls the process logger.
type Options struct {
	JSON  bool
	Debug bool
	// Output is a zap sink: stdout, stderr or a file path. Empty means stderr so
	// command output on stdout stays machine readable.
	Output string
}

// New builds the process logger. Messages are keyed "step".
func New(opts Options) (*zap.Logger, error) {
	cfg := zap.Config{
		Encoding:         "console",
		Level:            zap.NewAtomicLevelAt(zapcore.InfoLevel),
		OutputPaths:      []string{outputPath(opts.Output)},
		ErrorOutputPaths: []string{OutputStderr},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "step",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}

	if opts.JSON {
		cfg.Encoding = "json"
	}
	if opts.Debug {
		cfg.Level.SetLevel(zapcore.DebugLevel)
	}

	return cfg.Build()
}

func outputPath(output string) string {
	output = strings.TrimSpace(output)
	if output == "" {
		return OutputStderr
	}
	return output
}

// TruncateForLog trims s and cuts it to limit runes, appending "..." when cut.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
