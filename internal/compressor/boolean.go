package compressor

import "github.com/mpokorny/njsast/internal/jsast"

// compressBooleans implements the `!!x` half of spec.md §4.5's
// boolean-compression bullet: it collapses to `x` wherever x is "already
// boolean-typed by context" — an if/while/do/for test, a conditional's
// test, the operand of `!`, or (transitively) a `&&`/`||` operand whose
// enclosing expression is itself in one of those positions. Folding `!!x`
// to `x` outside a boolean context would change a truthy-but-non-boolean
// value (e.g. `var y = !!0` is `false`, `var y = 0` is `0`) so those
// positions are left alone.
//
// The bullet's other half — rewriting `true`/`false` literals to the
// shorter `!0`/`!1` forms — is handled separately by finalizeBooleanLiterals
// and run exactly once, after the fixed-point driver converges: `!0` is no
// longer a literal internal/typeconv's ToBoolean/ToNumber recognize, so
// running that rewrite mid-loop would hide already-folded constants from
// every later round, and constant folding would immediately refold `!0`
// back to `true` and undo it, the two passes fighting each other forever.
//
// This needs to track "is the enclosing position boolean-only" as it
// descends, which jsast.Transformer's stateless Before/After hooks have no
// slot for, so this pass walks the tree with a dedicated recursive
// boolCompressor instead of going through Transformer.
func compressBooleans(top *jsast.Toplevel) bool {
	b := &boolCompressor{}
	for i := range top.Body {
		top.Body[i] = b.stmt(top.Body[i])
	}
	return b.changed
}

type boolCompressor struct{ changed bool }

func (b *boolCompressor) stmt(s jsast.Stmt) jsast.Stmt {
	if s.Data == nil {
		return s
	}
	switch d := s.Data.(type) {
	case *jsast.SIf:
		d.Test = b.expr(d.Test, true)
		d.Consequent = b.stmt(d.Consequent)
		if d.Alternate.Data != nil {
			d.Alternate = b.stmt(d.Alternate)
		}
	case *jsast.SWhile:
		d.Test = b.expr(d.Test, true)
		d.Body = b.stmt(d.Body)
	case *jsast.SDo:
		d.Body = b.stmt(d.Body)
		d.Test = b.expr(d.Test, true)
	case *jsast.SFor:
		if d.Condition.Data != nil {
			d.Condition = b.expr(d.Condition, true)
		}
		if d.Update.Data != nil {
			d.Update = b.expr(d.Update, false)
		}
		d.Body = b.stmt(d.Body)
	case *jsast.SForIn:
		d.Right = b.expr(d.Right, false)
		d.Body = b.stmt(d.Body)
	case *jsast.SForOf:
		d.Right = b.expr(d.Right, false)
		d.Body = b.stmt(d.Body)
	case *jsast.SSwitch:
		d.Discriminant = b.expr(d.Discriminant, false)
		for i := range d.Cases {
			if d.Cases[i].Test.Data != nil {
				d.Cases[i].Test = b.expr(d.Cases[i].Test, false)
			}
			for j := range d.Cases[i].Body {
				d.Cases[i].Body[j] = b.stmt(d.Cases[i].Body[j])
			}
		}
	case *jsast.STry:
		for i := range d.Body {
			d.Body[i] = b.stmt(d.Body[i])
		}
		if d.Catch != nil {
			for i := range d.Catch.Body {
				d.Catch.Body[i] = b.stmt(d.Catch.Body[i])
			}
		}
		if d.Finally != nil {
			for i := range d.Finally {
				d.Finally[i] = b.stmt(d.Finally[i])
			}
		}
	case *jsast.SThrow:
		d.Value = b.expr(d.Value, false)
	case *jsast.SReturn:
		if d.Value.Data != nil {
			d.Value = b.expr(d.Value, false)
		}
	case *jsast.SLabeled:
		d.Body = b.stmt(d.Body)
	case *jsast.SBlock:
		for i := range d.Body {
			d.Body[i] = b.stmt(d.Body[i])
		}
	case *jsast.SSimple:
		d.Value = b.expr(d.Value, false)
	case *jsast.SWith:
		d.Object = b.expr(d.Object, false)
		d.Body = b.stmt(d.Body)
	case *jsast.SDeclare:
		for i := range d.Defs {
			if d.Defs[i].Value.Data != nil {
				d.Defs[i].Value = b.expr(d.Defs[i].Value, false)
			}
		}
	case *jsast.SFunctionDecl:
		b.function(d.Fn)
	case *jsast.SClassDecl:
		b.class(d.Class)
	case *jsast.SExport:
		if d.Decl.Data != nil {
			d.Decl = b.stmt(d.Decl)
		}
	}
	return s
}

func (b *boolCompressor) function(fn *jsast.EFunction) {
	for i := range fn.Params {
		if fn.Params[i].DefaultValue.Data != nil {
			fn.Params[i].DefaultValue = b.expr(fn.Params[i].DefaultValue, false)
		}
	}
	for i := range fn.Body {
		fn.Body[i] = b.stmt(fn.Body[i])
	}
}

func (b *boolCompressor) class(c *jsast.EClass) {
	if c.Extends.Data != nil {
		c.Extends = b.expr(c.Extends, false)
	}
	for i := range c.Members {
		if c.Members[i].Computed {
			c.Members[i].Key = b.expr(c.Members[i].Key, false)
		}
		if c.Members[i].Value.Data != nil {
			c.Members[i].Value = b.expr(c.Members[i].Value, false)
		}
		if c.Members[i].Kind == jsast.ClassStaticBlock {
			for j := range c.Members[i].Body {
				c.Members[i].Body[j] = b.stmt(c.Members[i].Body[j])
			}
		}
	}
}

// expr rewrites e's children and, when ctx is true (e's own result is used
// only for its truthiness), folds a `!!x` shape at e itself to x.
func (b *boolCompressor) expr(e jsast.Expr, ctx bool) jsast.Expr {
	if e.Data == nil {
		return e
	}
	switch d := e.Data.(type) {
	case *jsast.EUnaryPrefix:
		operandCtx := d.Op == jsast.UnOpNot
		d.Operand = b.expr(d.Operand, operandCtx)
		if ctx {
			if folded, ok := asDoubleNot(e); ok {
				b.changed = true
				return folded
			}
		}
		return e
	case *jsast.EBinary:
		childCtx := ctx && (d.Op == jsast.BinOpLogicalAnd || d.Op == jsast.BinOpLogicalOr)
		d.Left = b.expr(d.Left, childCtx)
		d.Right = b.expr(d.Right, childCtx)
		return e
	case *jsast.EConditional:
		d.Test = b.expr(d.Test, true)
		d.Consequent = b.expr(d.Consequent, false)
		d.Alternate = b.expr(d.Alternate, false)
		return e
	case *jsast.EAssign:
		d.Right = b.expr(d.Right, false)
		return e
	case *jsast.EUnaryPostfix:
		d.Operand = b.expr(d.Operand, false)
		return e
	case *jsast.ESequence:
		for i := range d.Expressions {
			d.Expressions[i] = b.expr(d.Expressions[i], false)
		}
		return e
	case *jsast.ECall:
		d.Callee = b.expr(d.Callee, false)
		for i := range d.Args {
			d.Args[i].Value = b.expr(d.Args[i].Value, false)
		}
		return e
	case *jsast.ENew:
		d.Callee = b.expr(d.Callee, false)
		for i := range d.Args {
			d.Args[i].Value = b.expr(d.Args[i].Value, false)
		}
		return e
	case *jsast.EDot:
		d.Target = b.expr(d.Target, false)
		return e
	case *jsast.ESub:
		d.Target = b.expr(d.Target, false)
		d.Index = b.expr(d.Index, false)
		return e
	case *jsast.EArray:
		for i := range d.Items {
			if d.Items[i].Data != nil {
				d.Items[i] = b.expr(d.Items[i], false)
			}
		}
		return e
	case *jsast.EObject:
		for i := range d.Properties {
			if d.Properties[i].Computed {
				d.Properties[i].Key = b.expr(d.Properties[i].Key, false)
			}
			if d.Properties[i].Value.Data != nil {
				d.Properties[i].Value = b.expr(d.Properties[i].Value, false)
			}
		}
		return e
	case *jsast.EArrow:
		for i := range d.Params {
			if d.Params[i].DefaultValue.Data != nil {
				d.Params[i].DefaultValue = b.expr(d.Params[i].DefaultValue, false)
			}
		}
		if d.ExprBody.Data != nil {
			d.ExprBody = b.expr(d.ExprBody, false)
		} else {
			for i := range d.Body {
				d.Body[i] = b.stmt(d.Body[i])
			}
		}
		return e
	case *jsast.EFunction:
		b.function(d)
		return e
	case *jsast.EClass:
		b.class(d)
		return e
	case *jsast.ETemplateString:
		for i := range d.Parts {
			d.Parts[i].Value = b.expr(d.Parts[i].Value, false)
		}
		return e
	case *jsast.ETaggedTemplate:
		d.Tag = b.expr(d.Tag, false)
		for i := range d.Parts {
			d.Parts[i].Value = b.expr(d.Parts[i].Value, false)
		}
		return e
	case *jsast.EAwait:
		d.Value = b.expr(d.Value, false)
		return e
	case *jsast.EYield:
		if d.Value.Data != nil {
			d.Value = b.expr(d.Value, false)
		}
		return e
	case *jsast.ESpread:
		d.Value = b.expr(d.Value, false)
		return e
	case *jsast.EImportExpression:
		d.ModuleName = b.expr(d.ModuleName, false)
		return e
	}
	return e
}

// finalizeBooleanLiterals implements the other half of the boolean-
// compression bullet: rewriting every remaining `true`/`false` literal to
// the shorter `!0`/`!1` form. It runs as a single pass over the fully
// converged tree, never inside the fixed-point loop in Compress — see
// compressBooleans's comment for why interleaving the two breaks both.
func finalizeBooleanLiterals(top *jsast.Toplevel) bool {
	changed := false
	tr := &jsast.Transformer{
		After: func(n jsast.Node, inList bool) (jsast.Node, jsast.TransformAction) {
			e, ok := n.(jsast.Expr)
			if !ok {
				return n, jsast.ActionDescend
			}
			switch e.Data.(type) {
			case *jsast.ETrue:
				changed = true
				return jsast.ExprAt(e.Loc, &jsast.EUnaryPrefix{Op: jsast.UnOpNot, Operand: jsast.ExprAt(e.Loc, &jsast.ENumber{Value: 0, Raw: "0"})}), jsast.ActionReplace
			case *jsast.EFalse:
				changed = true
				return jsast.ExprAt(e.Loc, &jsast.EUnaryPrefix{Op: jsast.UnOpNot, Operand: jsast.ExprAt(e.Loc, &jsast.ENumber{Value: 1, Raw: "1"})}), jsast.ActionReplace
			}
			return n, jsast.ActionDescend
		},
	}
	top.Body = tr.TransformStmtList(top.Body)
	return changed
}

// asDoubleNot reports whether e is `!!x` and returns x.
func asDoubleNot(e jsast.Expr) (jsast.Expr, bool) {
	outer, ok := e.Data.(*jsast.EUnaryPrefix)
	if !ok || outer.Op != jsast.UnOpNot {
		return jsast.Expr{}, false
	}
	inner, ok := outer.Operand.Data.(*jsast.EUnaryPrefix)
	if !ok || inner.Op != jsast.UnOpNot {
		return jsast.Expr{}, false
	}
	return inner.Operand, true
}
