package compressor

import (
	"github.com/mpokorny/njsast/internal/diag"
	"github.com/mpokorny/njsast/internal/jsast"
	"github.com/mpokorny/njsast/internal/typeconv"
)

// eliminateUnreachable implements spec.md §4.5's unreachable-code
// elimination bullet. for-in/for-of/with are explicitly unsupported by this
// pass and raise a not-implemented diagnostic the moment one is seen,
// matching spec.md §7's "certain compressor cases... currently raise
// explicitly."
func eliminateUnreachable(top *jsast.Toplevel, log *diag.Log) bool {
	changed := false
	tr := &jsast.Transformer{
		After: func(n jsast.Node, inList bool) (jsast.Node, jsast.TransformAction) {
			s, ok := n.(jsast.Stmt)
			if !ok {
				return n, jsast.ActionDescend
			}
			switch d := s.Data.(type) {
			case *jsast.SIf:
				value, ok := typeconv.ToBoolean(d.Test)
				if !ok {
					return n, jsast.ActionDescend
				}
				changed = true
				if value {
					if d.Consequent.Data == nil {
						return nil, jsast.ActionRemove
					}
					return d.Consequent, jsast.ActionReplace
				}
				if d.Alternate.Data == nil {
					return nil, jsast.ActionRemove
				}
				return d.Alternate, jsast.ActionReplace

			case *jsast.SWhile:
				value, ok := typeconv.ToBoolean(d.Test)
				if !ok || value {
					return n, jsast.ActionDescend
				}
				changed = true
				return nil, jsast.ActionRemove

			case *jsast.SDo:
				value, ok := typeconv.ToBoolean(d.Test)
				if !ok || value {
					return n, jsast.ActionDescend
				}
				if containsBreak([]jsast.Stmt{d.Body}) {
					return n, jsast.ActionDescend
				}
				changed = true
				return d.Body, jsast.ActionReplace

			case *jsast.SFor:
				if d.Condition.Data == nil {
					return n, jsast.ActionDescend
				}
				value, ok := typeconv.ToBoolean(d.Condition)
				if !ok || value {
					return n, jsast.ActionDescend
				}
				changed = true
				switch init := d.Init.(type) {
				case nil:
					return nil, jsast.ActionRemove
				case jsast.Stmt:
					if init.Data == nil {
						return nil, jsast.ActionRemove
					}
					return init, jsast.ActionReplace
				case jsast.Expr:
					return jsast.StmtAt(init.Loc, &jsast.SSimple{Value: init}), jsast.ActionReplace
				}
				return n, jsast.ActionDescend

			case *jsast.SForIn, *jsast.SForOf, *jsast.SWith:
				log.Raise(diag.KindNotImplemented, diag.Range{},
					"unreachable-code elimination does not support for-in/for-of/with")
			}
			return n, jsast.ActionDescend
		},
	}
	top.Body = tr.TransformStmtList(top.Body)
	return changed
}

// containsBreak reports whether body contains a `break` (labeled or not)
// outside any nested loop, switch or function. Nested loops and switches are
// not searched at all, so a labeled break inside one of them is not counted;
// nested functions are skipped because a break can never reach through them.
func containsBreak(body []jsast.Stmt) bool {
	found := false
	w := &jsast.Walker{
		Visit: func(n jsast.Node) bool {
			switch v := n.(type) {
			case jsast.Stmt:
				switch v.Data.(type) {
				case *jsast.SBreak:
					found = true
					return false
				case *jsast.SWhile, *jsast.SDo, *jsast.SFor, *jsast.SForIn, *jsast.SForOf, *jsast.SSwitch:
					return false
				}
			case jsast.Expr:
				switch v.Data.(type) {
				case *jsast.EFunction, *jsast.EArrow, *jsast.EClass:
					return false
				}
			}
			return true
		},
	}
	w.WalkStmtList(body)
	return found
}
