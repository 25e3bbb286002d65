package compressor

import (
	"math"

	"github.com/mpokorny/njsast/internal/diag"
	"github.com/mpokorny/njsast/internal/jsast"
	"github.com/mpokorny/njsast/internal/typeconv"
)

// foldConstants implements spec.md §4.5's constant-folding bullet: every
// unary/binary expression whose operands are already literal is replaced by
// the literal its ECMA operator semantics produce, driven by
// internal/typeconv's ToBoolean/ToNumber/ToString. Short-circuiting
// operators (&&, ||, ??) are only folded when the left side alone already
// decides the result, since folding the right side of `x() && false` would
// change whether x() runs.
func foldConstants(top *jsast.Toplevel) bool {
	changed := false
	tr := &jsast.Transformer{
		After: func(n jsast.Node, inList bool) (jsast.Node, jsast.TransformAction) {
			e, ok := n.(jsast.Expr)
			if !ok {
				return n, jsast.ActionDescend
			}
			if folded, ok := tryFold(e); ok {
				changed = true
				return folded, jsast.ActionReplace
			}
			return n, jsast.ActionDescend
		},
	}
	top.Body = tr.TransformStmtList(top.Body)
	return changed
}

func tryFold(e jsast.Expr) (jsast.Expr, bool) {
	switch d := e.Data.(type) {
	case *jsast.EUnaryPrefix:
		return foldUnary(e.Loc, d)
	case *jsast.EBinary:
		return foldBinary(e.Loc, d)
	}
	return jsast.Expr{}, false
}

func foldUnary(loc diag.Position, d *jsast.EUnaryPrefix) (jsast.Expr, bool) {
	switch d.Op {
	case jsast.UnOpNot:
		v, ok := typeconv.ToBoolean(d.Operand)
		if !ok {
			return jsast.Expr{}, false
		}
		return boolLiteral(loc, !v), true
	case jsast.UnOpVoid:
		if !isLiteral(d.Operand) {
			return jsast.Expr{}, false
		}
		return jsast.ExprAt(loc, &jsast.EUndefined{}), true
	case jsast.UnOpNeg:
		n, ok := typeconv.ToNumber(d.Operand)
		if !ok {
			return jsast.Expr{}, false
		}
		return numberLiteral(loc, -n), true
	case jsast.UnOpPos:
		n, ok := typeconv.ToNumber(d.Operand)
		if !ok {
			return jsast.Expr{}, false
		}
		return numberLiteral(loc, n), true
	case jsast.UnOpCpl:
		n, ok := typeconv.ToNumber(d.Operand)
		if !ok {
			return jsast.Expr{}, false
		}
		return numberLiteral(loc, float64(^toInt32(n))), true
	case jsast.UnOpTypeof:
		if !isLiteral(d.Operand) {
			return jsast.Expr{}, false
		}
		return stringLiteral(loc, typeofLiteral(d.Operand)), true
	}
	return jsast.Expr{}, false
}

func foldBinary(loc diag.Position, d *jsast.EBinary) (jsast.Expr, bool) {
	switch d.Op {
	case jsast.BinOpLogicalAnd:
		v, ok := typeconv.ToBoolean(d.Left)
		if ok && !v {
			return d.Left, true // short-circuits; left is the whole result
		}
		return jsast.Expr{}, false
	case jsast.BinOpLogicalOr:
		v, ok := typeconv.ToBoolean(d.Left)
		if ok && v {
			return d.Left, true
		}
		return jsast.Expr{}, false
	case jsast.BinOpNullishCoalescing:
		if isNullish(d.Left) {
			return jsast.Expr{}, false
		}
		if isLiteral(d.Left) {
			return d.Left, true
		}
		return jsast.Expr{}, false
	}

	if d.Op == jsast.BinOpAdd {
		if ls, ok := d.Left.Data.(*jsast.EString); ok {
			rs, ok := typeconv.ToStringValue(d.Right)
			if !ok {
				return jsast.Expr{}, false
			}
			return stringLiteral(loc, utf16(ls.Value)+rs), true
		}
		if rs, ok := d.Right.Data.(*jsast.EString); ok {
			ls, ok := typeconv.ToStringValue(d.Left)
			if !ok {
				return jsast.Expr{}, false
			}
			return stringLiteral(loc, ls+utf16(rs.Value)), true
		}
	}

	switch d.Op {
	case jsast.BinOpStrictEq, jsast.BinOpStrictNe:
		eq, ok := strictEquals(d.Left, d.Right)
		if !ok {
			return jsast.Expr{}, false
		}
		if d.Op == jsast.BinOpStrictNe {
			eq = !eq
		}
		return boolLiteral(loc, eq), true

	case jsast.BinOpLooseEq, jsast.BinOpLooseNe:
		eq, ok := looseEquals(d.Left, d.Right)
		if !ok {
			return jsast.Expr{}, false
		}
		if d.Op == jsast.BinOpLooseNe {
			eq = !eq
		}
		return boolLiteral(loc, eq), true
	}

	l, lok := typeconv.ToNumber(d.Left)
	r, rok := typeconv.ToNumber(d.Right)
	if !lok || !rok {
		return jsast.Expr{}, false
	}

	switch d.Op {
	case jsast.BinOpAdd:
		return numberLiteral(loc, l+r), true
	case jsast.BinOpSub:
		return numberLiteral(loc, l-r), true
	case jsast.BinOpMul:
		return numberLiteral(loc, l*r), true
	case jsast.BinOpDiv:
		return numberLiteral(loc, l/r), true
	case jsast.BinOpMod:
		return numberLiteral(loc, math.Mod(l, r)), true
	case jsast.BinOpPow:
		return numberLiteral(loc, math.Pow(l, r)), true
	case jsast.BinOpLt:
		return boolLiteral(loc, l < r), true
	case jsast.BinOpLe:
		return boolLiteral(loc, l <= r), true
	case jsast.BinOpGt:
		return boolLiteral(loc, l > r), true
	case jsast.BinOpGe:
		return boolLiteral(loc, l >= r), true
	case jsast.BinOpShl:
		return numberLiteral(loc, float64(toInt32(l)<<(toUint32(r)&31))), true
	case jsast.BinOpShr:
		return numberLiteral(loc, float64(toInt32(l)>>(toUint32(r)&31))), true
	case jsast.BinOpUShr:
		return numberLiteral(loc, float64(toUint32(l)>>(toUint32(r)&31))), true
	case jsast.BinOpBitOr:
		return numberLiteral(loc, float64(toInt32(l)|toInt32(r))), true
	case jsast.BinOpBitAnd:
		return numberLiteral(loc, float64(toInt32(l)&toInt32(r))), true
	case jsast.BinOpBitXor:
		return numberLiteral(loc, float64(toInt32(l)^toInt32(r))), true
	}
	return jsast.Expr{}, false
}

// strictEquals decides `===` for two already-literal operands without any
// type coercion; ok is false if either side isn't a literal this function
// recognizes.
func strictEquals(l, r jsast.Expr) (bool, bool) {
	switch ld := l.Data.(type) {
	case *jsast.ENull:
		_, ok := r.Data.(*jsast.ENull)
		return ok, true
	case *jsast.EUndefined:
		_, ok := r.Data.(*jsast.EUndefined)
		return ok, true
	case *jsast.ETrue:
		_, ok := r.Data.(*jsast.ETrue)
		return ok, true
	case *jsast.EFalse:
		_, ok := r.Data.(*jsast.EFalse)
		return ok, true
	case *jsast.ENumber:
		rd, ok := r.Data.(*jsast.ENumber)
		if !ok {
			return false, true
		}
		return ld.Value == rd.Value, true
	case *jsast.EString:
		rd, ok := r.Data.(*jsast.EString)
		if !ok {
			return false, true
		}
		return utf16(ld.Value) == utf16(rd.Value), true
	}
	return false, false
}

// looseEquals decides `==` for two already-literal operands. null and
// undefined loosely equal only each other (and themselves); two strings
// compare by content (ToNumber would wrongly turn two equal non-numeric
// strings into NaN == NaN); anything else falls back to ECMA's "coerce
// both to number" rule, which is exact for the remaining literal
// combinations (number, boolean, and numeric strings).
func looseEquals(l, r jsast.Expr) (bool, bool) {
	if isNullish(l) || isNullish(r) {
		return isNullish(l) && isNullish(r), true
	}
	if ls, ok := l.Data.(*jsast.EString); ok {
		if rs, ok := r.Data.(*jsast.EString); ok {
			return utf16(ls.Value) == utf16(rs.Value), true
		}
	}
	ln, lok := typeconv.ToNumber(l)
	rn, rok := typeconv.ToNumber(r)
	if !lok || !rok {
		return false, false
	}
	return ln == rn, true
}

func isLiteral(e jsast.Expr) bool {
	switch e.Data.(type) {
	case *jsast.ENull, *jsast.EUndefined, *jsast.ENaN, *jsast.ETrue, *jsast.EFalse,
		*jsast.EInfinity, *jsast.ENumber, *jsast.EString:
		return true
	}
	return false
}

func isNullish(e jsast.Expr) bool {
	switch e.Data.(type) {
	case *jsast.ENull, *jsast.EUndefined:
		return true
	}
	return false
}

func typeofLiteral(e jsast.Expr) string {
	switch e.Data.(type) {
	case *jsast.EUndefined:
		return "undefined"
	case *jsast.ENull:
		return "object"
	case *jsast.ETrue, *jsast.EFalse:
		return "boolean"
	case *jsast.ENumber, *jsast.ENaN, *jsast.EInfinity:
		return "number"
	case *jsast.EString:
		return "string"
	}
	return ""
}

func boolLiteral(loc diag.Position, v bool) jsast.Expr {
	if v {
		return jsast.ExprAt(loc, &jsast.ETrue{})
	}
	return jsast.ExprAt(loc, &jsast.EFalse{})
}

func numberLiteral(loc diag.Position, v float64) jsast.Expr {
	if math.IsNaN(v) {
		return jsast.ExprAt(loc, &jsast.ENaN{})
	}
	if math.IsInf(v, 1) {
		return jsast.ExprAt(loc, &jsast.EInfinity{})
	}
	if math.IsInf(v, -1) {
		return jsast.ExprAt(loc, &jsast.EUnaryPrefix{Op: jsast.UnOpNeg, Operand: jsast.ExprAt(loc, &jsast.EInfinity{})})
	}
	return jsast.ExprAt(loc, &jsast.ENumber{Value: v, Raw: typeconv.NumberToString(v)})
}

func stringLiteral(loc diag.Position, s string) jsast.Expr {
	return jsast.ExprAt(loc, &jsast.EString{Value: toUTF16(s)})
}

func toInt32(f float64) int32 {
	return int32(toUint32(f))
}

func toUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return uint32(int64(math.Trunc(f)))
}

// utf16 and toUTF16 convert between Go strings and the UTF-16 code-unit
// slices EString stores, matching the representation internal/typeconv and
// internal/jsparser already use; ASCII/BMP folding results never need
// surrogate pairs, but toUTF16 still emits them for non-BMP text so a
// folded template/string literal round-trips correctly.
func utf16(u []uint16) string {
	out := make([]rune, 0, len(u))
	for i := 0; i < len(u); i++ {
		c := u[i]
		if c >= 0xD800 && c <= 0xDBFF && i+1 < len(u) {
			c2 := u[i+1]
			if c2 >= 0xDC00 && c2 <= 0xDFFF {
				out = append(out, (rune(c)-0xD800)<<10+(rune(c2)-0xDC00)+0x10000)
				i++
				continue
			}
		}
		out = append(out, rune(c))
	}
	return string(out)
}

func toUTF16(s string) []uint16 {
	out := make([]uint16, 0, len(s))
	for _, r := range s {
		if r > 0xFFFF {
			r -= 0x10000
			out = append(out, uint16(0xD800+(r>>10)), uint16(0xDC00+(r&0x3FF)))
			continue
		}
		out = append(out, uint16(r))
	}
	return out
}
