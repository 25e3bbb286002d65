// Package typeconv implements spec.md §4.5's TypeConverter: the ECMA §9
// ToBoolean/ToNumber/ToString abstract operations the constant-folding
// compressor pass drives its decisions from.
//
// Grounded on the teacher's internal/js_ast/js_ast_helpers.go
// (ToBooleanWithSideEffects, ToNumberWithoutSideEffects,
// ToStringWithoutSideEffects, StringToEquivalentNumberValue): same shape —
// a side-effect-free conversion over an already-literal AST node, returning
// an ok bool instead of the side-effect classification esbuild layers on
// top (that belongs to the compressor's own effect analysis, not type
// conversion). StringToNumber is extended beyond the teacher's
// integer-literal-only StringToEquivalentNumberValue to the full ECMA §9.3
// grammar spec.md calls for (hex/octal/binary literals, signed decimal with
// exponent, Infinity, -0), since the teacher never needed more than its
// narrow "+'123'" constant-fold case.
package typeconv

import (
	"math"
	"strconv"
	"strings"

	"github.com/mpokorny/njsast/internal/jsast"
)

// ToBoolean implements ECMA §9.2 ToBoolean for an already-literal AST node,
// per spec.md §4.5: null/undefined/NaN/false/""/0 are false, everything
// else true. ok is false when data isn't a literal this conversion can
// decide without evaluating side effects (e.g. an arbitrary call or a free
// identifier).
func ToBoolean(e jsast.Expr) (value bool, ok bool) {
	switch d := e.Data.(type) {
	case *jsast.ENull, *jsast.EUndefined, *jsast.ENaN:
		return false, true
	case *jsast.ETrue:
		return true, true
	case *jsast.EFalse:
		return false, true
	case *jsast.EInfinity:
		return true, true
	case *jsast.ENumber:
		return d.Value != 0 && !math.IsNaN(d.Value), true
	case *jsast.EString:
		return len(d.Value) > 0, true
	case *jsast.ERegExp, *jsast.EFunction, *jsast.EArrow, *jsast.EClass, *jsast.EArray, *jsast.EObject:
		// Objects (including functions, arrays, regexes) are always truthy
		// regardless of contents.
		return true, true
	}
	return false, false
}

// ToNumber implements ECMA §9.3 ToNumber for an already-literal AST node.
func ToNumber(e jsast.Expr) (value float64, ok bool) {
	switch d := e.Data.(type) {
	case *jsast.ENull:
		return 0, true
	case *jsast.EUndefined, *jsast.ENaN:
		return math.NaN(), true
	case *jsast.ETrue:
		return 1, true
	case *jsast.EFalse:
		return 0, true
	case *jsast.EInfinity:
		return math.Inf(1), true
	case *jsast.ENumber:
		return d.Value, true
	case *jsast.EString:
		return StringToNumber(d.Value)
	case *jsast.EArray:
		if len(d.Items) == 0 {
			return 0, true // ToNumber(ToPrimitive([])) == ToNumber("") == 0
		}
	case *jsast.EObject:
		if len(d.Properties) == 0 {
			return math.NaN(), true
		}
	}
	return 0, false
}

// ToStringValue implements ECMA §9.8 ToString for an already-literal AST
// node, returning the string a template literal or "+" concatenation would
// produce.
func ToStringValue(e jsast.Expr) (value string, ok bool) {
	switch d := e.Data.(type) {
	case *jsast.ENull:
		return "null", true
	case *jsast.EUndefined:
		return "undefined", true
	case *jsast.ENaN:
		return "NaN", true
	case *jsast.ETrue:
		return "true", true
	case *jsast.EFalse:
		return "false", true
	case *jsast.EInfinity:
		return "Infinity", true
	case *jsast.ENumber:
		return NumberToString(d.Value), true
	case *jsast.EString:
		return string(utf16Narrow(d.Value)), true
	}
	return "", false
}

// NumberToString implements ECMA §7.1.12.1's Number::toString for radix 10,
// relying on Go's shortest round-tripping float formatting (strconv with
// precision -1 and bitSize 64) to match JS's requirement that the printed
// digits round-trip back to the same float64: plain decimal notation for
// magnitudes in [1e-6, 1e21), otherwise exponent notation like "1e+21" or
// "1.5e-7".
func NumberToString(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		if math.Signbit(n) {
			return "0" // JS prints -0 as "0" when stringified, unlike "+(-0)" folding
		}
		return "0"
	}
	if a := math.Abs(n); a >= 1e-6 && a < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	s := strconv.FormatFloat(n, 'e', -1, 64)
	i := strings.IndexByte(s, 'e')
	return s[:i+2] + strings.TrimLeft(s[i+2:], "0")
}

// StringToNumber implements ECMA §9.3.1 StringToNumber: trim whitespace,
// then recognize the empty string, ±Infinity, a 0x/0o/0b integer literal,
// or a signed decimal literal with an optional exponent. Anything else is
// NaN (ok is still true — NaN is itself a valid, decided result; ok is only
// false for inputs ToNumber can't be asked to evaluate here).
func StringToNumber(u []uint16) (float64, bool) {
	s := strings.TrimFunc(string(utf16Narrow(u)), isJSWhitespace)
	if s == "" {
		return 0, true
	}

	if n, ok := parseRadixLiteral(s); ok {
		return n, true
	}

	neg := false
	rest := s
	switch rest[0] {
	case '+':
		rest = rest[1:]
	case '-':
		neg = true
		rest = rest[1:]
	}

	if rest == "Infinity" {
		if neg {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}

	if n, ok := parseDecimalLiteral(rest); ok {
		if neg && n == 0 {
			return math.Copysign(0, -1), true // "-0" must stay negative zero
		}
		if neg {
			return -n, true
		}
		return n, true
	}

	return math.NaN(), true
}

// parseRadixLiteral recognizes the unsigned 0x/0o/0b integer forms ECMA
// §9.3.1 step 4a delegates to the StringNumericLiteral's NonDecimalIntegerLiteral
// production (no sign, no decimal point, no exponent allowed).
func parseRadixLiteral(s string) (float64, bool) {
	if len(s) < 3 || s[0] != '0' {
		return 0, false
	}
	var base int
	switch s[1] {
	case 'x', 'X':
		base = 16
	case 'o', 'O':
		base = 8
	case 'b', 'B':
		base = 2
	default:
		return 0, false
	}
	n, err := strconv.ParseUint(s[2:], base, 64)
	if err != nil {
		return 0, false
	}
	return float64(n), true
}

// parseDecimalLiteral recognizes an unsigned StrDecimalLiteral: digits,
// optional ".digits", optional exponent — Go's ParseFloat already implements
// this grammar (plus forms JS doesn't accept like hex floats, which never
// reach here since the 0x/0o/0b prefix is tried first).
func parseDecimalLiteral(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && c != '.' && c != 'e' && c != 'E' && c != '+' && c != '-' {
			return 0, false
		}
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if err.(*strconv.NumError).Err == strconv.ErrRange {
			if n > 0 {
				return math.Inf(1), true
			}
			return math.Inf(-1), true
		}
		return 0, false
	}
	return n, true
}

func isJSWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f', 0xA0, 0xFEFF, 0x2028, 0x2029:
		return true
	}
	return false
}

// DecodeUTF16 decodes UTF-16 code units (EString.Value's representation)
// into a Go string, handling surrogate pairs. Exported so other packages
// that need to read an EString's text (internal/linker's require/export
// scanning, in particular) share this decoder instead of writing their own.
func DecodeUTF16(u []uint16) string {
	return string(utf16Narrow(u))
}

// utf16Narrow decodes UTF-16 code units to runes; used by ToString/
// StringToNumber and by the exported DecodeUTF16 wrapper above.
func utf16Narrow(u []uint16) []rune {
	out := make([]rune, 0, len(u))
	for i := 0; i < len(u); i++ {
		c := u[i]
		if c >= 0xD800 && c <= 0xDBFF && i+1 < len(u) {
			c2 := u[i+1]
			if c2 >= 0xDC00 && c2 <= 0xDFFF {
				r := (rune(c)-0xD800)<<10 + (rune(c2) - 0xDC00) + 0x10000
				out = append(out, r)
				i++
				continue
			}
		}
		out = append(out, rune(c))
	}
	return out
}
