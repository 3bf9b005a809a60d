package logger

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Options describes logger configuration supplied at boot.
type Options struct {
	Level         string
	HumanReadable bool
	Writer        io.Writer
}

// New builds a zerolog logger from Options.
func New(opts Options) (zerolog.Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stdout
	}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
		if err != nil {
			return zerolog.Nop(), err
		}
		level = parsed
	}

	var output io.Writer = writer
	if opts.HumanReadable {
		console := zerolog.NewConsoleWriter()
		console.Out = writer
		console.TimeFormat = time.RFC3339
		output = console
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger(), nil
}

var (
	global atomic.Pointer[zerolog.Logger]
	nop    = zerolog.Nop()
)

// SetGlobal installs the process-wide logger returned by L.
func SetGlobal(l zerolog.Logger) {
	global.Store(&l)
}

// L returns the process-wide logger, or a no-op logger before SetGlobal.
func L() *zerolog.Logger {
	if l := global.Load(); l != nil {
		return l
	}
	return &nop
}
