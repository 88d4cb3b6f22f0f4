package bytesize

import "math"

// Size constants in bytes. They are untyped so the ones that do not fit
// into 64 bits can still be used as float64.
const (
	B = 1

	KB = 1000 * B
	MB = 1000 * KB
	GB = 1000 * MB
	TB = 1000 * GB
	PB = 1000 * TB
	EB = 1000 * PB
	ZB = 1000 * EB
	YB = 1000 * ZB
	RB = 1000 * YB
	QB = 1000 * RB

	KiB = 1024 * B
	MiB = 1024 * KiB
	GiB = 1024 * MiB
	TiB = 1024 * GiB
	PiB = 1024 * TiB
	EiB = 1024 * PiB
	ZiB = 1024 * EiB
	YiB = 1024 * ZiB
	RiB = 1024 * YiB
	QiB = 1024 * RiB
)

// Unit is a unit base: the step multiplier between two prefixes plus the
// name and symbol of every prefix. Base10 and Base2 are the only
// implementations.
type Unit interface {
	// Multiplier is the factor between two neighbouring prefixes.
	Multiplier() uint64
	// LnMultiplier is ln(Multiplier()), used to estimate magnitudes.
	LnMultiplier() float64
	// Scale returns Multiplier()^p.Exponent() as float64.
	Scale(p Prefix) float64
	Name(p Prefix) string
	Symbol(p Prefix) string

	unit()
}

// Base10 is the decimal unit base (powers of 1000).
type Base10 struct{}

var (
	base10Names   = [NumPrefixes]string{"", "kilo", "mega", "giga", "tera", "peta", "exa", "zetta", "yotta", "ronna", "quetta"}
	base10Symbols = [NumPrefixes]string{"", "k", "M", "G", "T", "P", "E", "Z", "Y", "R", "Q"}
)

func (Base10) unit() {}

// Multiplier implements Unit.
func (Base10) Multiplier() uint64 { return 1000 }

// LnMultiplier implements Unit.
func (Base10) LnMultiplier() float64 { return math.Ln10 * 3 }

// Scale implements Unit.
func (Base10) Scale(p Prefix) float64 { return math.Pow10(3 * MaxPrefix(p.Exponent()).Exponent()) }

// Name implements Unit.
func (Base10) Name(p Prefix) string { return lookup(&base10Names, p) }

// Symbol implements Unit.
func (Base10) Symbol(p Prefix) string { return lookup(&base10Symbols, p) }

// Base2 is the binary unit base (powers of 1024).
type Base2 struct{}

var (
	base2Names   = [NumPrefixes]string{"", "kibi", "mebi", "gibi", "tebi", "pebi", "exbi", "zebi", "yobi", "robi", "quebi"}
	base2Symbols = [NumPrefixes]string{"", "Ki", "Mi", "Gi", "Ti", "Pi", "Ei", "Zi", "Yi", "Ri", "Qi"}
)

func (Base2) unit() {}

// Multiplier implements Unit.
func (Base2) Multiplier() uint64 { return 1024 }

// LnMultiplier implements Unit.
func (Base2) LnMultiplier() float64 { return math.Ln2 * 10 }

// Scale implements Unit.
func (Base2) Scale(p Prefix) float64 { return math.Ldexp(1, 10*MaxPrefix(p.Exponent()).Exponent()) }

// Name implements Unit.
func (Base2) Name(p Prefix) string { return lookup(&base2Names, p) }

// Symbol implements Unit.
func (Base2) Symbol(p Prefix) string { return lookup(&base2Symbols, p) }

func lookup(table *[NumPrefixes]string, p Prefix) string {
	if !p.Valid() {
		return ""
	}

	return table[p]
}

// MaxPrefixFor returns the largest prefix of unit U whose scale does not
// exceed v. Values at or below zero map to One.
func MaxPrefixFor[U Unit](v float64) Prefix {
	var u U

	switch {
	case v <= 0 || math.IsNaN(v):
		return One
	case math.IsInf(v, 1):
		return Quintillion
	}

	p := MaxPrefix(int(math.Floor(math.Log(v) / u.LnMultiplier())))

	// The logarithm estimate can land one step off near exact powers.
	for p < Quintillion && u.Scale(p+1) <= v {
		p++
	}

	for p > One && u.Scale(p) > v {
		p--
	}

	return p
}
