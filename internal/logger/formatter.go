package logger

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/dennisklein/memtally/internal/bytesize"
)

// TargetKey is the entry field holding the origin tag of a log line.
const TargetKey = "target"

// DefaultTarget is used for entries without a target field.
const DefaultTarget = "memtally"

const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

// Source reports the number of live bytes to print with every line.
type Source func() uint64

var levelStyles = map[logrus.Level]lipgloss.Style{
	logrus.PanicLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	logrus.FatalLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	logrus.ErrorLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	logrus.WarnLevel:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	logrus.InfoLevel:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	logrus.DebugLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	logrus.TraceLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
}

var targetStyle = lipgloss.NewStyle().Bold(true)

// Formatter renders entries as
//
//	[2024-05-01T10:00:00.000Z][INFO][target][MEM:1.50 kB] message key=value
//
// The target and MEM columns grow to the widest value seen so far so
// consecutive lines stay aligned.
//
//nolint:govet // fieldalignment: readability preferred over optimization
type Formatter struct {
	Mem    Source
	Binary bool
	Color  bool

	targetWidth column
	memWidth    column
}

// NewFormatter returns a formatter reading live bytes from mem.
func NewFormatter(mem Source, color, binary bool) *Formatter {
	return &Formatter{Mem: mem, Color: color, Binary: binary}
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(e *logrus.Entry) ([]byte, error) {
	b := e.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	target := DefaultTarget
	if v, ok := e.Data[TargetKey]; ok {
		target = fmt.Sprint(v)
	}

	level := levelName(e.Level)
	if f.Color {
		level = levelStyles[e.Level].Render(level)
	}

	target = f.targetWidth.padString(target)
	if f.Color {
		target = targetStyle.Render(target)
	}

	fmt.Fprintf(b, "[%s][%s][%s][MEM:%s] %s",
		e.Time.UTC().Format(timestampFormat), level, target, f.mem(), e.Message)

	writeFields(b, e.Data)
	b.WriteByte('\n')

	return b.Bytes(), nil
}

func (f *Formatter) mem() string {
	var n uint64
	if f.Mem != nil {
		n = f.Mem()
	}

	if f.Binary {
		return f.memWidth.padString(bytesize.FromBytesBinary(n).String())
	}

	return f.memWidth.padString(bytesize.FromBytesDecimal(n).String())
}

func writeFields(b *bytes.Buffer, data logrus.Fields) {
	keys := make([]string, 0, len(data))

	for k := range data {
		if k != TargetKey {
			keys = append(keys, k)
		}
	}

	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, data[k])
	}
}

func levelName(l logrus.Level) string {
	if l == logrus.WarnLevel {
		return "WARN"
	}

	return strings.ToUpper(l.String())
}

// column is a field width that only ever grows.
type column struct {
	width atomic.Int64
}

// grow records n and returns the widest width seen so far.
func (c *column) grow(n int) int {
	for {
		w := c.width.Load()
		if int64(n) <= w {
			return int(w)
		}

		if c.width.CompareAndSwap(w, int64(n)) {
			return n
		}
	}
}

func (c *column) padString(s string) string {
	n := utf8.RuneCountInString(s)
	w := c.grow(n)

	return s + strings.Repeat(" ", w-n)
}
