package bytesize

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Align selects where fill characters go when a width is requested.
type Align uint8

const (
	// AlignNone renders the bare text and ignores any width.
	AlignNone Align = iota
	AlignLeft
	AlignRight
	// AlignCenter puts the padding between the number and the unit.
	AlignCenter
)

var alignNames = map[string]Align{
	"":       AlignNone,
	"none":   AlignNone,
	"left":   AlignLeft,
	"right":  AlignRight,
	"center": AlignCenter,
}

// ParseAlign parses "left", "right", "center" or "none".
func ParseAlign(s string) (Align, error) {
	a, ok := alignNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return AlignNone, fmt.Errorf("invalid alignment %q (valid: left|right|center|none)", s)
	}

	return a, nil
}

func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	default:
		return "none"
	}
}

// Layout controls the rendered field. A zero Layout renders the bare text
// with a space separator. Width only takes effect together with an Align
// other than AlignNone, so Layout{Width: 12} renders unpadded; use
// AlignRight for the padding fmt applies to %12v.
type Layout struct {
	Width int
	Align Align
	Fill  rune
}

func (l Layout) fill() rune {
	if l.Fill == 0 {
		return ' '
	}

	return l.Fill
}

// String renders q as e.g. "512 b", "1.50 kB" or "3 GiB".
func (q Bytes[U]) String() string {
	return q.Pad(Layout{})
}

// Pad renders q into a field laid out as l. Content wider than the field
// is never truncated.
func (q Bytes[U]) Pad(l Layout) string {
	var sb strings.Builder

	q.write(&sb, l)

	return sb.String()
}

// Format implements fmt.Formatter for %v and %s. A width right-aligns the
// text, the '-' flag left-aligns it.
func (q Bytes[U]) Format(f fmt.State, verb rune) {
	if verb != 'v' && verb != 's' {
		_, _ = fmt.Fprintf(f, "%%!%c(bytesize.Bytes=%s)", verb, q.String())
		return
	}

	var l Layout

	if w, ok := f.Width(); ok {
		l.Width = w
		l.Align = AlignRight

		if f.Flag('-') {
			l.Align = AlignLeft
		}
	}

	_, _ = io.WriteString(f, q.Pad(l))
}

// Len returns the unpadded length of the rendered text in characters.
func (q Bytes[U]) Len() int {
	n := digitCount(q.value) + 1 + utf8.RuneCountInString(q.Symbol()) + 1
	if hasFraction(q.value) {
		n += 3 // point and two digits
	}

	return n
}

func (q Bytes[U]) write(sb *strings.Builder, l Layout) {
	fill := l.fill()
	symbol := q.Symbol()

	pad := 0
	if l.Width > 0 {
		pad = max(0, l.Width-q.Len())
	}

	if l.Align == AlignRight {
		writeFill(sb, fill, pad)
	}

	if hasFraction(q.value) {
		sb.WriteString(strconv.FormatFloat(q.value, 'f', 2, 64))
	} else {
		sb.WriteString(strconv.FormatFloat(q.value, 'f', 0, 64))
	}

	sb.WriteRune(fill)

	if l.Align == AlignCenter {
		writeFill(sb, fill, pad)
	}

	sb.WriteString(symbol)
	sb.WriteRune(unitLetter(symbol))

	if l.Align == AlignLeft {
		writeFill(sb, fill, pad)
	}
}

func writeFill(sb *strings.Builder, fill rune, n int) {
	for range n {
		sb.WriteRune(fill)
	}
}

func hasFraction(v float64) bool {
	return v-math.Trunc(v) != 0
}

// digitCount counts the digits of the integer part of v; anything below
// ten, zero included, counts as one digit.
func digitCount(v float64) int {
	n := math.Trunc(v)
	count := 1

	for p := 10.0; n >= p && !math.IsInf(p, 1); p *= 10 {
		count++
	}

	return count
}

// Render converts a raw byte count to decimal units and lays it out.
func Render(b uint64, l Layout) string {
	return FromBytesDecimal(b).Pad(l)
}

// RenderBinary converts a raw byte count to binary units and lays it out.
func RenderBinary(b uint64, l Layout) string {
	return FromBytesBinary(b).Pad(l)
}
