package bytesize_test

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dennisklein/memtally/internal/bytesize"
)

func TestMaxPrefix(t *testing.T) {
	//nolint:govet // fieldalignment: test readability over optimization
	tests := []struct {
		name string
		exp  int
		want bytesize.Prefix
	}{
		{name: "negative", exp: -3, want: bytesize.One},
		{name: "zero", exp: 0, want: bytesize.One},
		{name: "one", exp: 1, want: bytesize.Thousand},
		{name: "nine", exp: 9, want: bytesize.Quadrilliard},
		{name: "top", exp: 10, want: bytesize.Quintillion},
		{name: "past top", exp: 42, want: bytesize.Quintillion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bytesize.MaxPrefix(tt.exp))
		})
	}
}

func TestPrefix(t *testing.T) {
	t.Run("exponents cover the ladder in order", func(t *testing.T) {
		for e := range bytesize.NumPrefixes {
			p := bytesize.Prefix(e)

			assert.True(t, p.Valid())
			assert.Equal(t, e, p.Exponent())
		}

		assert.Equal(t, 11, bytesize.NumPrefixes)
		assert.Less(t, bytesize.Million, bytesize.Milliard)
		assert.False(t, bytesize.Prefix(11).Valid())
	})

	t.Run("string", func(t *testing.T) {
		assert.Equal(t, "Milliard", bytesize.Milliard.String())
		assert.Equal(t, "Prefix(invalid)", bytesize.Prefix(200).String())
	})
}

func TestUnitTables(t *testing.T) {
	t.Run("decimal", func(t *testing.T) {
		var u bytesize.Base10

		assert.Equal(t, uint64(1000), u.Multiplier())
		assert.InDelta(t, math.Log(1000), u.LnMultiplier(), 1e-12)
		assert.Equal(t, "giga", u.Name(bytesize.Milliard))
		assert.Equal(t, "G", u.Symbol(bytesize.Milliard))
		assert.Equal(t, "k", u.Symbol(bytesize.Thousand))
		assert.Equal(t, "quetta", u.Name(bytesize.Quintillion))
		assert.Empty(t, u.Name(bytesize.One))
		assert.Empty(t, u.Symbol(bytesize.One))
		assert.Equal(t, float64(bytesize.EB), u.Scale(bytesize.Trillion))
		assert.Equal(t, 1e30, u.Scale(bytesize.Quintillion))
	})

	t.Run("binary", func(t *testing.T) {
		var u bytesize.Base2

		assert.Equal(t, uint64(1024), u.Multiplier())
		assert.InDelta(t, math.Log(1024), u.LnMultiplier(), 1e-12)
		assert.Equal(t, "gibi", u.Name(bytesize.Milliard))
		assert.Equal(t, "Gi", u.Symbol(bytesize.Milliard))
		assert.Equal(t, "quebi", u.Name(bytesize.Quintillion))
		assert.Equal(t, "Qi", u.Symbol(bytesize.Quintillion))
		assert.Empty(t, u.Symbol(bytesize.One))
		assert.Equal(t, float64(bytesize.GiB), u.Scale(bytesize.Milliard))
		assert.Equal(t, math.Ldexp(1, 100), u.Scale(bytesize.Quintillion))
	})

	t.Run("invalid prefixes have no name", func(t *testing.T) {
		assert.Empty(t, bytesize.Base10{}.Name(bytesize.Prefix(12)))
		assert.Empty(t, bytesize.Base2{}.Symbol(bytesize.Prefix(12)))
	})
}

func TestMaxPrefixFor(t *testing.T) {
	t.Run("exact powers land on their own step", func(t *testing.T) {
		for e := range bytesize.NumPrefixes {
			p := bytesize.Prefix(e)

			assert.Equal(t, p, bytesize.MaxPrefixFor[bytesize.Base10](bytesize.Base10{}.Scale(p)), "decimal %s", p)
			assert.Equal(t, p, bytesize.MaxPrefixFor[bytesize.Base2](bytesize.Base2{}.Scale(p)), "binary %s", p)
		}
	})

	t.Run("just below a power stays one step down", func(t *testing.T) {
		assert.Equal(t, bytesize.One, bytesize.MaxPrefixFor[bytesize.Base10](999))
		assert.Equal(t, bytesize.Thousand, bytesize.MaxPrefixFor[bytesize.Base10](999_999))
		assert.Equal(t, bytesize.One, bytesize.MaxPrefixFor[bytesize.Base2](1023))
		assert.Equal(t, bytesize.Thousand, bytesize.MaxPrefixFor[bytesize.Base2](bytesize.MiB-1))
	})

	t.Run("special values", func(t *testing.T) {
		assert.Equal(t, bytesize.One, bytesize.MaxPrefixFor[bytesize.Base10](0))
		assert.Equal(t, bytesize.One, bytesize.MaxPrefixFor[bytesize.Base10](-1))
		assert.Equal(t, bytesize.One, bytesize.MaxPrefixFor[bytesize.Base10](0.5))
		assert.Equal(t, bytesize.One, bytesize.MaxPrefixFor[bytesize.Base10](math.NaN()))
		assert.Equal(t, bytesize.Quintillion, bytesize.MaxPrefixFor[bytesize.Base10](math.Inf(1)))
		assert.Equal(t, bytesize.Quintillion, bytesize.MaxPrefixFor[bytesize.Base10](1e40))
	})
}

func TestFromBytes(t *testing.T) {
	t.Run("zero", func(t *testing.T) {
		q := bytesize.FromBytesDecimal(0)

		assert.Equal(t, bytesize.One, q.Prefix())
		assert.Zero(t, q.Value())
	})

	t.Run("negative passes through", func(t *testing.T) {
		q := bytesize.FromBytes[bytesize.Base10](-1500)

		assert.Equal(t, bytesize.One, q.Prefix())
		assert.Equal(t, -1500.0, q.Value())
	})

	t.Run("decimal", func(t *testing.T) {
		q := bytesize.FromBytesDecimal(1500)

		assert.Equal(t, bytesize.Thousand, q.Prefix())
		assert.Equal(t, 1.5, q.Value())
		assert.Equal(t, "kilo", q.Name())
		assert.Equal(t, "kB", q.Unit())
	})

	t.Run("binary", func(t *testing.T) {
		q := bytesize.FromBytesBinary(3 * bytesize.GiB)

		assert.Equal(t, bytesize.Milliard, q.Prefix())
		assert.Equal(t, 3.0, q.Value())
		assert.Equal(t, "GiB", q.Unit())
	})

	t.Run("top step keeps growing the mantissa", func(t *testing.T) {
		q := bytesize.FromBytes[bytesize.Base10](5e33)

		assert.Equal(t, bytesize.Quintillion, q.Prefix())
		assert.InDelta(t, 5000.0, q.Value(), 1e-9)
	})

	t.Run("plain bytes use a lowercase unit", func(t *testing.T) {
		assert.Equal(t, "b", bytesize.FromBytesDecimal(12).Unit())
	})
}

func TestFromPrefixValue(t *testing.T) {
	q := bytesize.FromPrefixValue[bytesize.Base10](bytesize.Million, 2500)

	assert.Equal(t, bytesize.Million, q.Prefix())
	assert.Equal(t, 2500.0, q.Value())
	assert.Equal(t, 2_500_000_000.0, q.ToBytes())

	n := q.ToMaxPrefix()
	assert.Equal(t, bytesize.Milliard, n.Prefix())
	assert.Equal(t, 2.5, n.Value())
}

func TestToBytes(t *testing.T) {
	t.Run("rounds up", func(t *testing.T) {
		q := bytesize.FromPrefixValue[bytesize.Base10](bytesize.Thousand, 1.0005)
		assert.Equal(t, 1001.0, q.ToBytes())
	})

	t.Run("exact", func(t *testing.T) {
		assert.Equal(t, 1536.0, bytesize.FromBytesBinary(1536).ToBytes())
		assert.Equal(t, 1001.0, bytesize.FromBytesDecimal(1001).ToBytes())
	})
}

func samples(t *testing.T) []uint64 {
	t.Helper()

	r := rand.New(rand.NewPCG(1, 2)) //nolint:gosec // deterministic test input

	out := []uint64{
		0, 1, 9, 10, 999, 1000, 1001, 1023, 1024, 1025, 1500, 1536, 999_999, 1_000_000,
		1 << 40, 1 << 50, 1<<53 - 1, 1 << 53, 1<<53 + 1,
		8_000_035_278_196_786, 8_774_149_532_997_188, 8_990_182_363_270_020,
		999_999_999_999_999_999, 1_000_000_000_000_000_000,
		math.MaxUint64 - 1, math.MaxUint64,
	}

	for range 2000 {
		out = append(out, r.Uint64N(1<<uint(r.IntN(64))+1))
	}

	for range 2000 {
		out = append(out, 1<<50+r.Uint64N(math.MaxUint64-1<<50))
	}

	return out
}

// floatSamples are counts past the uint64 range, up to the top step.
func floatSamples() []float64 {
	return []float64{1e20, bytesize.QB - 1e14, bytesize.QB, bytesize.QiB, 5e33, 0x1p110}
}

func TestMagnitudeBounds(t *testing.T) {
	check := func(b float64, p bytesize.Prefix, u bytesize.Unit) {
		if b == 0 {
			assert.Equal(t, bytesize.One, p)
			return
		}

		assert.LessOrEqual(t, u.Scale(p), b, "b=%.0f", b)

		if p < bytesize.Quintillion {
			assert.Greater(t, u.Scale(p+1), b, "b=%.0f", b)
		}
	}

	for _, b := range samples(t) {
		check(float64(b), bytesize.FromBytesDecimal(b).Prefix(), bytesize.Base10{})
		check(float64(b), bytesize.FromBytesBinary(b).Prefix(), bytesize.Base2{})
	}

	for _, b := range floatSamples() {
		check(b, bytesize.FromBytes[bytesize.Base10](b).Prefix(), bytesize.Base10{})
		check(b, bytesize.FromBytes[bytesize.Base2](b).Prefix(), bytesize.Base2{})
	}
}

func TestRoundTripNeverShrinks(t *testing.T) {
	for _, b := range samples(t) {
		assert.GreaterOrEqual(t, bytesize.FromBytesDecimal(b).ToBytes(), float64(b), "decimal b=%d", b)
		assert.GreaterOrEqual(t, bytesize.FromBytesBinary(b).ToBytes(), float64(b), "binary b=%d", b)
	}

	for _, b := range floatSamples() {
		assert.GreaterOrEqual(t, bytesize.FromBytes[bytesize.Base10](b).ToBytes(), b, "decimal b=%.0f", b)
		assert.GreaterOrEqual(t, bytesize.FromBytes[bytesize.Base2](b).ToBytes(), b, "binary b=%.0f", b)
	}

	t.Run("large decimal counts", func(t *testing.T) {
		for _, b := range []uint64{8_990_182_363_270_020, 8_774_149_532_997_188, 8_000_035_278_196_786} {
			q := bytesize.FromBytesDecimal(b)

			assert.GreaterOrEqual(t, q.ToBytes(), float64(b), "b=%d", b)
			assert.Equal(t, q, bytesize.FromBytes[bytesize.Base10](q.ToBytes()), "b=%d", b)
		}
	})
}

func TestToMaxPrefixIdempotent(t *testing.T) {
	for _, b := range samples(t) {
		d := bytesize.FromBytesDecimal(b).ToMaxPrefix()
		require.Equal(t, d, d.ToMaxPrefix(), "decimal b=%d", b)

		bin := bytesize.FromBytesBinary(b).ToMaxPrefix()
		require.Equal(t, bin, bin.ToMaxPrefix(), "binary b=%d", b)
	}

	for _, b := range floatSamples() {
		d := bytesize.FromBytes[bytesize.Base10](b).ToMaxPrefix()
		require.Equal(t, d, d.ToMaxPrefix(), "decimal b=%.0f", b)

		bin := bytesize.FromBytes[bytesize.Base2](b).ToMaxPrefix()
		require.Equal(t, bin, bin.ToMaxPrefix(), "binary b=%.0f", b)
	}

	t.Run("unnormalized input", func(t *testing.T) {
		q := bytesize.FromPrefixValue[bytesize.Base2](bytesize.One, 5*bytesize.MiB).ToMaxPrefix()

		assert.Equal(t, bytesize.Million, q.Prefix())
		assert.Equal(t, q, q.ToMaxPrefix())
	})
}

func ExampleFromBytesDecimal() {
	fmt.Println(bytesize.FromBytesDecimal(1500))
	fmt.Println(bytesize.FromBytesBinary(1536))
	// Output:
	// 1.50 kB
	// 1.50 KiB
}
