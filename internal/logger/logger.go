// Package logger sets up logrus so every line carries a timestamp, the
// level, a padded origin tag and the live allocation count.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dennisklein/memtally/internal/alloc"
)

// Levels lists the accepted level names, quietest first.
var Levels = []string{"off", "error", "warn", "info", "debug", "trace"}

// Options configures New.
//
//nolint:govet // fieldalignment: readability preferred over optimization
type Options struct {
	Level  string
	Out    io.Writer
	Mem    Source
	Color  bool
	Binary bool
}

// ParseLevel parses one of Levels. "off" reports off=true; the returned
// level is then meaningless.
func ParseLevel(s string) (level logrus.Level, off bool, err error) {
	name := strings.ToLower(strings.TrimSpace(s))

	switch name {
	case "":
		return logrus.InfoLevel, false, nil
	case "off":
		return logrus.PanicLevel, true, nil
	}

	level, err = logrus.ParseLevel(name)
	if err != nil || level < logrus.ErrorLevel {
		return 0, false, fmt.Errorf("invalid log level %q (valid: %s)", s, strings.Join(Levels, "|"))
	}

	return level, false, nil
}

// New returns a logger configured by opts. Out defaults to stderr and Mem
// to the process-wide allocation counter.
func New(opts Options) (*logrus.Logger, error) {
	l := logrus.New()

	if err := configure(l, opts); err != nil {
		return nil, err
	}

	return l, nil
}

// Init applies opts to the standard logrus logger.
func Init(opts Options) error {
	if err := configure(logrus.StandardLogger(), opts); err != nil {
		return fmt.Errorf("could not initialize logger: %w", err)
	}

	return nil
}

func configure(l *logrus.Logger, opts Options) error {
	level, off, err := ParseLevel(opts.Level)
	if err != nil {
		return err
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	if off {
		out = io.Discard
	}

	mem := opts.Mem
	if mem == nil {
		mem = alloc.Load
	}

	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(NewFormatter(mem, opts.Color, opts.Binary))

	return nil
}

// WithTarget tags log lines with an origin.
func WithTarget(l logrus.FieldLogger, target string) *logrus.Entry {
	return l.WithField(TargetKey, target)
}
