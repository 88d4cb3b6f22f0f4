package bytesize

// Prefix is one step of the magnitude ladder shared by both unit bases.
// Its integer value is the exponent of the base's step multiplier.
type Prefix uint8

const (
	One          Prefix = iota // no prefix
	Thousand                   // kilo/kibi
	Million                    // mega/mebi
	Milliard                   // giga/gibi
	Billion                    // tera/tebi
	Billiard                   // peta/pebi
	Trillion                   // exa/exbi
	Trilliard                  // zetta/zebi
	Quadrillion                // yotta/yobi
	Quadrilliard               // ronna/robi
	Quintillion                // quetta/quebi
)

// NumPrefixes is the number of steps in the ladder.
const NumPrefixes = int(Quintillion) + 1

var prefixNames = [NumPrefixes]string{
	"One",
	"Thousand",
	"Million",
	"Milliard",
	"Billion",
	"Billiard",
	"Trillion",
	"Trilliard",
	"Quadrillion",
	"Quadrilliard",
	"Quintillion",
}

// Exponent returns the power of the step multiplier this prefix represents.
func (p Prefix) Exponent() int {
	return int(p)
}

// Valid reports whether p is one of the defined steps.
func (p Prefix) Valid() bool {
	return p <= Quintillion
}

func (p Prefix) String() string {
	if !p.Valid() {
		return "Prefix(invalid)"
	}

	return prefixNames[p]
}

// MaxPrefix returns the largest prefix whose exponent is at most exp.
// Negative estimates map to One and anything past the top of the ladder
// saturates at Quintillion.
func MaxPrefix(exp int) Prefix {
	switch {
	case exp < One.Exponent():
		return One
	case exp >= Quintillion.Exponent():
		return Quintillion
	default:
		return Prefix(exp)
	}
}
