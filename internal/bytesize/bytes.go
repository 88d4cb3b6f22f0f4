package bytesize

import "math"

// exactIntegers is the bound below which every integer is a float64.
const exactIntegers = 0x1p53

// Bytes is a byte count expressed as a value scaled by a prefix of unit U.
// It is a plain value type and comparable with ==.
type Bytes[U Unit] struct {
	prefix Prefix
	value  float64
}

// Decimal is a byte quantity in powers of 1000 (kB, MB, ...).
type Decimal = Bytes[Base10]

// Binary is a byte quantity in powers of 1024 (KiB, MiB, ...).
type Binary = Bytes[Base2]

// FromPrefixValue returns the quantity value×prefix without normalizing it.
func FromPrefixValue[U Unit](p Prefix, value float64) Bytes[U] {
	return Bytes[U]{prefix: MaxPrefix(p.Exponent()), value: value}
}

// FromBytes picks the largest prefix not exceeding b and scales b to it.
// Zero and negative counts stay at One with the value passed through.
func FromBytes[U Unit](b float64) Bytes[U] {
	if b <= 0 {
		return Bytes[U]{prefix: One, value: b}
	}

	var u U

	p := MaxPrefixFor[U](b)

	return Bytes[U]{prefix: p, value: b / u.Scale(p)}
}

// FromBytesDecimal converts a raw count into a decimal quantity.
func FromBytesDecimal(b uint64) Decimal {
	return FromBytes[Base10](float64(b))
}

// FromBytesBinary converts a raw count into a binary quantity.
func FromBytesBinary(b uint64) Binary {
	return FromBytes[Base2](float64(b))
}

// Prefix returns the magnitude step of q.
func (q Bytes[U]) Prefix() Prefix { return q.prefix }

// Value returns the mantissa of q.
func (q Bytes[U]) Value() float64 { return q.value }

// Name returns the long prefix name, e.g. "kilo" or "mebi".
func (q Bytes[U]) Name() string {
	var u U
	return u.Name(q.prefix)
}

// Symbol returns the prefix symbol, e.g. "k" or "Mi".
func (q Bytes[U]) Symbol() string {
	var u U
	return u.Symbol(q.prefix)
}

// Unit returns the full unit suffix: "b" for plain bytes, otherwise the
// prefix symbol followed by "B".
func (q Bytes[U]) Unit() string {
	s := q.Symbol()
	return s + string(unitLetter(s))
}

// ToBytes converts q back into a byte count, rounding up. The result is the
// largest count that FromBytes maps back onto q, so it is never below the
// count q was derived from and re-deriving it yields q again.
func (q Bytes[U]) ToBytes() float64 {
	var u U

	s := u.Scale(q.prefix)

	c := math.Ceil(q.value * s)
	if !(c > 0) || math.IsInf(c, 1) {
		return c
	}

	// The product is off by at most a few ulps; walk to the smallest count
	// whose quotient reaches the value.
	for c > 0 && prevCount(c)/s >= q.value {
		c = prevCount(c)
	}

	for c/s < q.value {
		c = nextCount(c)
	}

	// Then to the largest one that still divides onto the same value
	// without reaching the next prefix.
	limit := math.Inf(1)
	if q.prefix < Quintillion {
		limit = u.Scale(q.prefix + 1)
	}

	for {
		n := nextCount(c)
		if n >= limit || n/s != q.value {
			return c
		}

		c = n
	}
}

// ToMaxPrefix renormalizes q to the largest prefix for its byte count.
func (q Bytes[U]) ToMaxPrefix() Bytes[U] {
	return FromBytes[U](q.ToBytes())
}

// nextCount returns the smallest integral float64 above c.
func nextCount(c float64) float64 {
	if c < exactIntegers {
		return c + 1
	}

	return math.Nextafter(c, math.Inf(1))
}

// prevCount returns the largest integral float64 below c.
func prevCount(c float64) float64 {
	if c <= exactIntegers {
		return c - 1
	}

	return math.Nextafter(c, 0)
}

func unitLetter(symbol string) rune {
	if symbol == "" {
		return 'b'
	}

	return 'B'
}
