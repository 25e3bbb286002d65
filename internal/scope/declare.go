package scope

import "github.com/mpokorny/njsast/internal/jsast"

// declareStmtList declares every binding introduced directly within body —
// var/function declarations hoist to scope.FunctionHoistTarget(), let/const/
// class/import bindings land in scope itself, and a catch binding lands in
// its catch clause's own ScopeCatch scope — without descending
// into nested function/arrow/class bodies (those are separate scope units,
// declared when the resolve pass reaches them as expressions, per the
// package doc comment).
func (a *Analyzer) declareStmtList(scope *jsast.Scope, body []jsast.Stmt) {
	for _, s := range body {
		a.declareStmt(scope, s)
	}
}

func (a *Analyzer) declareStmt(scope *jsast.Scope, s jsast.Stmt) {
	switch d := s.Data.(type) {
	case *jsast.SDeclare:
		target := scope
		if d.Kind == jsast.DeclVar {
			target = scope.FunctionHoistTarget()
		}
		kind := jsast.SymbolVar
		switch d.Kind {
		case jsast.DeclLet:
			kind = jsast.SymbolLet
		case jsast.DeclConst:
			kind = jsast.SymbolConst
		}
		for i := range d.Defs {
			a.declareBindingPattern(target, kind, d.Defs[i].Binding)
		}

	case *jsast.SFunctionDecl:
		if d.Fn.Name != nil {
			a.declareNamedSymbol(scope.FunctionHoistTarget(), jsast.SymbolDefun, d.Fn.Name)
		}

	case *jsast.SClassDecl:
		if d.Class.Name != nil {
			// Class declarations are block-scoped like let (temporal dead
			// zone aside, which this analyzer does not model).
			a.declareNamedSymbol(scope, jsast.SymbolLet, d.Class.Name)
		}

	case *jsast.SImport:
		if d.Default != nil {
			a.declareNamedSymbol(scope, jsast.SymbolImport, d.Default)
		}
		if d.WholeAs != nil {
			a.declareNamedSymbol(scope, jsast.SymbolImport, d.WholeAs)
		}
		for i := range d.Mappings {
			m := &d.Mappings[i]
			sym := &jsast.SymbolDef{Name: m.Local}
			a.declareNamedSymbol(scope, jsast.SymbolImportForeign, sym)
			m.Symbol = sym
		}

	case *jsast.SExport:
		if d.Decl.Data != nil {
			a.declareStmt(scope, d.Decl)
		}

	case *jsast.SIf:
		a.declareStmt(scope, d.Consequent)
		if d.Alternate.Data != nil {
			a.declareStmt(scope, d.Alternate)
		}
	case *jsast.SWhile:
		a.declareStmt(scope, d.Body)
	case *jsast.SDo:
		a.declareStmt(scope, d.Body)
	case *jsast.SLabeled:
		a.declareStmt(scope, d.Body)
	case *jsast.SWith:
		a.declareStmt(scope, d.Body)

	case *jsast.SFor:
		if initStmt, ok := d.Init.(jsast.Stmt); ok {
			a.declareStmt(scope, initStmt)
		}
		a.declareStmt(scope, d.Body)
	case *jsast.SForIn:
		if leftStmt, ok := d.Left.(jsast.Stmt); ok {
			a.declareStmt(scope, leftStmt)
		}
		a.declareStmt(scope, d.Body)
	case *jsast.SForOf:
		if leftStmt, ok := d.Left.(jsast.Stmt); ok {
			a.declareStmt(scope, leftStmt)
		}
		a.declareStmt(scope, d.Body)

	case *jsast.SBlock:
		child := jsast.NewScope(jsast.ScopeBlock, scope)
		d.Scope = child
		a.declareStmtList(child, d.Body)

	case *jsast.SSwitch:
		// Simplification: switch cases share the enclosing scope rather
		// than each other's own per-case TDZ boundary — spec.md does not
		// call out switch-case lexical isolation, and ast.go's SSwitch/
		// SwitchCase carry no Scope field to hang one on.
		for _, c := range d.Cases {
			a.declareStmtList(scope, c.Body)
		}

	case *jsast.STry:
		a.declareStmtList(scope, d.Body)
		if d.Catch != nil {
			catchScope := jsast.NewScope(jsast.ScopeCatch, scope)
			d.Catch.Scope = catchScope
			if d.Catch.Binding != nil {
				a.declareBindingPattern(catchScope, jsast.SymbolCatch, d.Catch.Binding)
			}
			a.declareStmtList(catchScope, d.Catch.Body)
		}
		if d.Finally != nil {
			a.declareStmtList(scope, d.Finally)
		}
	}
}

// declareBindingPattern walks a binding target (ESymbol, or a destructuring
// EArray/EObject/EAssign/ESpread pattern built by jsparser's toAssignable)
// declaring every name it contains into scope under kind.
func (a *Analyzer) declareBindingPattern(scope *jsast.Scope, kind jsast.SymbolKind, binding jsast.Node) {
	expr, ok := binding.(jsast.Expr)
	if !ok || expr.Data == nil {
		return
	}
	switch d := expr.Data.(type) {
	case *jsast.ESymbol:
		def := &jsast.SymbolDef{Name: d.Name}
		a.declareNamedSymbol(scope, kind, def)
		// The declaring occurrence itself must be a recorded reference, not
		// just a Thedef pointer: a later rename (internal/linker's collision
		// resolution) walks SymbolDef.References to rewrite identifier text,
		// and the printer prints an ESymbol via its own Name field.
		def.AddReference(d, true)
	case *jsast.EArray:
		for _, item := range d.Items {
			a.declareBindingPattern(scope, kind, item)
		}
	case *jsast.EObject:
		for _, prop := range d.Properties {
			if prop.Kind == jsast.PropertySpread {
				a.declareBindingPattern(scope, kind, prop.Key)
				continue
			}
			a.declareBindingPattern(scope, kind, prop.Value)
		}
	case *jsast.EAssign:
		a.declareBindingPattern(scope, kind, d.Left)
	case *jsast.ESpread:
		a.declareBindingPattern(scope, kind, d.Value)
	case *jsast.EHole:
		// elision: nothing to declare
	}
}
