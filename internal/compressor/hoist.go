package compressor

import "github.com/mpokorny/njsast/internal/jsast"

// compressReturnsAndHoist implements spec.md §4.5's "return compression,
// variable hoisting" bullet for every function body in top (and the
// toplevel itself, which behaves like an implicit function body for this
// purpose): trailing `return;` statements that add nothing beyond the
// function's implicit fall-through are dropped, and every `var` declared
// anywhere in the function is lifted to a single declaration at the top of
// the body, in first-appearance order, leaving its original initializer (if
// any) behind as a plain assignment where it was.
func compressReturnsAndHoist(top *jsast.Toplevel, doReturns, doHoist bool) bool {
	changed := false
	if doReturns {
		if compressTrailingReturn(&top.Body) {
			changed = true
		}
	}
	if doHoist {
		if hoisted := hoistVarsInBody(top.Body); hoisted != nil {
			top.Body = hoisted
			changed = true
		}
	}
	w := &jsast.Walker{}
	w.Visit = func(n jsast.Node) bool {
		var fn *jsast.EFunction
		switch v := n.(type) {
		case jsast.Stmt:
			if d, ok := v.Data.(*jsast.SFunctionDecl); ok {
				fn = d.Fn
			}
		case jsast.Expr:
			if d, ok := v.Data.(*jsast.EFunction); ok {
				fn = d
			}
		}
		if fn == nil {
			return true
		}
		if doReturns && compressTrailingReturn(&fn.Body) {
			changed = true
		}
		if doHoist {
			if hoisted := hoistVarsInBody(fn.Body); hoisted != nil {
				fn.Body = hoisted
				changed = true
			}
		}
		return true
	}
	w.WalkStmtList(top.Body)
	return changed
}

// compressTrailingReturn drops a bare `return;` (no value) that is the last
// statement of *body — the function falls through and returns undefined
// either way — repeating in case dropping one exposes another.
func compressTrailingReturn(body *[]jsast.Stmt) bool {
	changed := false
	for len(*body) > 0 {
		last := (*body)[len(*body)-1]
		ret, ok := last.Data.(*jsast.SReturn)
		if !ok || ret.Value.Data != nil {
			break
		}
		*body = (*body)[:len(*body)-1]
		changed = true
	}
	return changed
}

// hoistVarsInBody collects every `var` binding declared anywhere directly
// within body (not crossing into a nested function) and rewrites the body
// so all of them are declared once, at the top, in first-appearance order;
// each original `var x = v` site becomes a plain `x = v` assignment (or is
// dropped entirely if it had no initializer). Returns nil if there was
// nothing to hoist, including when every var is already declared, without
// an initializer, in the body's first statement.
func hoistVarsInBody(body []jsast.Stmt) []jsast.Stmt {
	if len(body) > 0 {
		if first, ok := body[0].Data.(*jsast.SDeclare); ok && first.Kind == jsast.DeclVar {
			settled := true
			for _, def := range first.Defs {
				settled = settled && def.Value.Data == nil
			}
			var rest []string
			collectVarNames(body[1:], &rest, map[string]bool{})
			if settled && len(rest) == 0 {
				return nil
			}
		}
	}

	var names []string
	seen := map[string]bool{}
	collectVarNames(body, &names, seen)
	if len(names) == 0 {
		return nil
	}

	rewritten := rewriteVarDeclsToAssignments(body)

	defs := make([]jsast.VarDef, len(names))
	for i, name := range names {
		defs[i] = jsast.VarDef{Binding: jsast.ExprAt(rewritten[0].Loc, &jsast.ESymbol{Name: name})}
	}
	hoistedDecl := jsast.StmtAt(rewritten[0].Loc, &jsast.SDeclare{Kind: jsast.DeclVar, Defs: defs})
	return append([]jsast.Stmt{hoistedDecl}, rewritten...)
}

func collectVarNames(body []jsast.Stmt, names *[]string, seen map[string]bool) {
	for _, s := range body {
		collectVarNamesStmt(s, names, seen)
	}
}

func collectVarNamesStmt(s jsast.Stmt, names *[]string, seen map[string]bool) {
	if s.Data == nil {
		return
	}
	switch d := s.Data.(type) {
	case *jsast.SDeclare:
		if d.Kind == jsast.DeclVar {
			for i := range d.Defs {
				collectBindingNames(d.Defs[i].Binding, names, seen)
			}
		}
	case *jsast.SIf:
		collectVarNamesStmt(d.Consequent, names, seen)
		if d.Alternate.Data != nil {
			collectVarNamesStmt(d.Alternate, names, seen)
		}
	case *jsast.SWhile:
		collectVarNamesStmt(d.Body, names, seen)
	case *jsast.SDo:
		collectVarNamesStmt(d.Body, names, seen)
	case *jsast.SLabeled:
		collectVarNamesStmt(d.Body, names, seen)
	case *jsast.SWith:
		collectVarNamesStmt(d.Body, names, seen)
	case *jsast.SFor:
		if initStmt, ok := d.Init.(jsast.Stmt); ok {
			collectVarNamesStmt(initStmt, names, seen)
		}
		collectVarNamesStmt(d.Body, names, seen)
	case *jsast.SForIn:
		if leftStmt, ok := d.Left.(jsast.Stmt); ok {
			collectVarNamesStmt(leftStmt, names, seen)
		}
		collectVarNamesStmt(d.Body, names, seen)
	case *jsast.SForOf:
		if leftStmt, ok := d.Left.(jsast.Stmt); ok {
			collectVarNamesStmt(leftStmt, names, seen)
		}
		collectVarNamesStmt(d.Body, names, seen)
	case *jsast.SBlock:
		collectVarNames(d.Body, names, seen)
	case *jsast.SSwitch:
		for _, c := range d.Cases {
			collectVarNames(c.Body, names, seen)
		}
	case *jsast.STry:
		collectVarNames(d.Body, names, seen)
		if d.Catch != nil {
			collectVarNames(d.Catch.Body, names, seen)
		}
		if d.Finally != nil {
			collectVarNames(d.Finally, names, seen)
		}
	}
}

func collectBindingNames(binding jsast.Node, names *[]string, seen map[string]bool) {
	expr, ok := binding.(jsast.Expr)
	if !ok || expr.Data == nil {
		return
	}
	switch d := expr.Data.(type) {
	case *jsast.ESymbol:
		if !seen[d.Name] {
			seen[d.Name] = true
			*names = append(*names, d.Name)
		}
	case *jsast.EArray:
		for _, item := range d.Items {
			collectBindingNames(item, names, seen)
		}
	case *jsast.EObject:
		for _, prop := range d.Properties {
			if prop.Kind == jsast.PropertySpread {
				collectBindingNames(prop.Key, names, seen)
				continue
			}
			collectBindingNames(prop.Value, names, seen)
		}
	case *jsast.EAssign:
		collectBindingNames(d.Left, names, seen)
	case *jsast.ESpread:
		collectBindingNames(d.Value, names, seen)
	}
}

// rewriteVarDeclsToAssignments replaces every top-level `var` SDeclare in
// body with either nothing (no initializers) or an SSimple assignment
// expression built from the initialized defs, leaving all other statements
// (and the structure around nested var decls, e.g. an if's consequent)
// untouched. It does not recurse into nested function bodies.
func rewriteVarDeclsToAssignments(body []jsast.Stmt) []jsast.Stmt {
	out := make([]jsast.Stmt, 0, len(body))
	for _, s := range body {
		out = append(out, rewriteVarDeclStmt(s))
	}
	return out
}

func rewriteVarDeclStmt(s jsast.Stmt) jsast.Stmt {
	if s.Data == nil {
		return s
	}
	switch d := s.Data.(type) {
	case *jsast.SDeclare:
		if d.Kind != jsast.DeclVar {
			return s
		}
		var assigns []jsast.Expr
		for i := range d.Defs {
			if d.Defs[i].Value.Data == nil {
				continue
			}
			left, ok := d.Defs[i].Binding.(jsast.Expr)
			if !ok {
				continue
			}
			assigns = append(assigns, jsast.ExprAt(s.Loc, &jsast.EAssign{
				Op: jsast.AssignOpNone, Left: left, Right: d.Defs[i].Value,
			}))
		}
		switch len(assigns) {
		case 0:
			return jsast.StmtAt(s.Loc, &jsast.SEmpty{})
		case 1:
			return jsast.StmtAt(s.Loc, &jsast.SSimple{Value: assigns[0]})
		default:
			return jsast.StmtAt(s.Loc, &jsast.SSimple{Value: jsast.ExprAt(s.Loc, &jsast.ESequence{Expressions: assigns})})
		}
	case *jsast.SIf:
		d.Consequent = rewriteVarDeclStmt(d.Consequent)
		if d.Alternate.Data != nil {
			d.Alternate = rewriteVarDeclStmt(d.Alternate)
		}
	case *jsast.SWhile:
		d.Body = rewriteVarDeclStmt(d.Body)
	case *jsast.SDo:
		d.Body = rewriteVarDeclStmt(d.Body)
	case *jsast.SLabeled:
		d.Body = rewriteVarDeclStmt(d.Body)
	case *jsast.SWith:
		d.Body = rewriteVarDeclStmt(d.Body)
	case *jsast.SFor:
		if initStmt, ok := d.Init.(jsast.Stmt); ok {
			d.Init = rewriteVarDeclStmt(initStmt)
		}
		d.Body = rewriteVarDeclStmt(d.Body)
	case *jsast.SForIn:
		if leftStmt, ok := d.Left.(jsast.Stmt); ok {
			d.Left = rewriteVarDeclStmt(leftStmt)
		}
		d.Body = rewriteVarDeclStmt(d.Body)
	case *jsast.SForOf:
		if leftStmt, ok := d.Left.(jsast.Stmt); ok {
			d.Left = rewriteVarDeclStmt(leftStmt)
		}
		d.Body = rewriteVarDeclStmt(d.Body)
	case *jsast.SBlock:
		d.Body = rewriteVarDeclsToAssignments(d.Body)
	case *jsast.SSwitch:
		for i := range d.Cases {
			d.Cases[i].Body = rewriteVarDeclsToAssignments(d.Cases[i].Body)
		}
	case *jsast.STry:
		d.Body = rewriteVarDeclsToAssignments(d.Body)
		if d.Catch != nil {
			d.Catch.Body = rewriteVarDeclsToAssignments(d.Catch.Body)
		}
		if d.Finally != nil {
			d.Finally = rewriteVarDeclsToAssignments(d.Finally)
		}
	}
	return s
}
