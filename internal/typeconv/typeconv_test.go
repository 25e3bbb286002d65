package typeconv_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpokorny/njsast/internal/diag"
	"github.com/mpokorny/njsast/internal/jsast"
	"github.com/mpokorny/njsast/internal/typeconv"
)

func str(s string) jsast.Expr {
	u := make([]uint16, 0, len(s))
	for _, r := range s {
		u = append(u, uint16(r))
	}
	return jsast.ExprAt(diag.Position{}, &jsast.EString{Value: u})
}

func num(n float64) jsast.Expr {
	return jsast.ExprAt(diag.Position{}, &jsast.ENumber{Value: n})
}

func TestToBooleanLiterals(t *testing.T) {
	truthy := []jsast.Expr{
		jsast.ExprAt(diag.Position{}, &jsast.ETrue{}),
		num(1),
		str("a"),
		jsast.ExprAt(diag.Position{}, &jsast.EInfinity{}),
	}
	for _, e := range truthy {
		v, ok := typeconv.ToBoolean(e)
		require.True(t, ok)
		require.True(t, v)
	}

	falsy := []jsast.Expr{
		jsast.ExprAt(diag.Position{}, &jsast.EFalse{}),
		num(0),
		str(""),
		jsast.ExprAt(diag.Position{}, &jsast.ENull{}),
		jsast.ExprAt(diag.Position{}, &jsast.EUndefined{}),
	}
	for _, e := range falsy {
		v, ok := typeconv.ToBoolean(e)
		require.True(t, ok)
		require.False(t, v)
	}
}

func TestToBooleanUndecidable(t *testing.T) {
	_, ok := typeconv.ToBoolean(jsast.ExprAt(diag.Position{}, &jsast.ESymbol{Name: "x"}))
	require.False(t, ok)
}

func TestToNumberLiterals(t *testing.T) {
	v, ok := typeconv.ToNumber(jsast.ExprAt(diag.Position{}, &jsast.ETrue{}))
	require.True(t, ok)
	require.Equal(t, float64(1), v)

	v, ok = typeconv.ToNumber(jsast.ExprAt(diag.Position{}, &jsast.ENull{}))
	require.True(t, ok)
	require.Equal(t, float64(0), v)

	v, ok = typeconv.ToNumber(str("42"))
	require.True(t, ok)
	require.Equal(t, float64(42), v)
}

func TestStringToNumberRadixLiterals(t *testing.T) {
	cases := map[string]float64{
		"0x1F":      31,
		"0o17":      15,
		"0b101":     5,
		"  123  ":   123,
		"":          0,
		"-0":        math.Copysign(0, -1),
		"Infinity":  math.Inf(1),
		"-Infinity": math.Inf(-1),
		"3.14":      3.14,
		"1e2":       100,
	}
	for in, want := range cases {
		got, ok := typeconv.StringToNumber(utf16(in))
		require.True(t, ok, "input %q", in)
		if math.Signbit(want) && want == 0 {
			require.True(t, math.Signbit(got), "input %q should stay -0", in)
			continue
		}
		require.Equal(t, want, got, "input %q", in)
	}
}

func TestStringToNumberGarbageIsNaN(t *testing.T) {
	got, ok := typeconv.StringToNumber(utf16("not a number"))
	require.True(t, ok)
	require.True(t, math.IsNaN(got))
}

func TestNumberToString(t *testing.T) {
	require.Equal(t, "0", typeconv.NumberToString(0))
	require.Equal(t, "NaN", typeconv.NumberToString(math.NaN()))
	require.Equal(t, "Infinity", typeconv.NumberToString(math.Inf(1)))
	require.Equal(t, "-Infinity", typeconv.NumberToString(math.Inf(-1)))
	require.Equal(t, "1.5", typeconv.NumberToString(1.5))
}

func TestDecodeUTF16SurrogatePair(t *testing.T) {
	// U+1F600 (grinning face) as a surrogate pair.
	out := typeconv.DecodeUTF16([]uint16{0xD83D, 0xDE00})
	require.Equal(t, "\U0001F600", out)
}

func utf16(s string) []uint16 {
	out := make([]uint16, 0, len(s))
	for _, r := range s {
		out = append(out, uint16(r))
	}
	return out
}
