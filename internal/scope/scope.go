// Package scope implements spec.md §4.4: the pass that walks a parsed
// Toplevel and populates every jsast.Scope with its Variables, Functions,
// and Enclosed sets, resolving each ESymbol occurrence to the jsast.SymbolDef
// it refers to.
//
// The teacher (evanw/esbuild) fuses parsing and binding into one traversal
// keyed by a parallel "visit pass" over the same AST (js_parser.go's
// pushScopeForParsePass/pushScopeForVisitPass split). This module keeps that
// two-pass shape — declare every binding in a scope before resolving any use
// within it, so a function can reference a sibling declared later in the
// same block — but runs both passes after parsing has already finished,
// per spec.md §2's layer separation (internal/jsparser produces a bare AST;
// internal/scope binds it afterward).
package scope

import (
	"github.com/mpokorny/njsast/internal/diag"
	"github.com/mpokorny/njsast/internal/jsast"
)

// Analyzer runs the scope/symbol resolution pass over one parsed file.
type Analyzer struct {
	log *diag.Log
}

// NewAnalyzer creates an Analyzer that reports duplicate-declaration and
// other binding errors to log.
func NewAnalyzer(log *diag.Log) *Analyzer {
	return &Analyzer{log: log}
}

// AnalyzeToplevel binds every declaration and reference in top, per spec.md
// §4.4. It panics a *diag.Error on a fatal binding error, recovered here
// into the returned err (mirroring jsparser.Parse's ReportPanic boundary).
func (a *Analyzer) AnalyzeToplevel(top *jsast.Toplevel) (err error) {
	defer diag.ReportPanic(&err)

	if top.Scope == nil {
		top.Scope = jsast.NewScope(jsast.ScopeToplevel, nil)
	}
	a.declareStmtList(top.Scope, top.Body)
	a.resolveStmtList(top.Scope, top.Body)
	return nil
}

// declareNamedSymbol installs an already-allocated SymbolDef (the parser
// creates these directly for function/class names and default/namespace
// import bindings so that other passes referencing them by pointer before
// internal/scope runs still see a stable identity; declareStmt allocates
// the ones for named import mappings) into scope under kind,
// checking for an illegal redeclaration first.
func (a *Analyzer) declareNamedSymbol(scope *jsast.Scope, kind jsast.SymbolKind, def *jsast.SymbolDef) {
	a.checkRedeclaration(scope, kind, def.Name)
	def.Kind = kind
	def.Scope = scope
	scope.Variables[def.Name] = def
	if kind == jsast.SymbolDefun {
		scope.Functions[def.Name] = def
	}
}

// checkRedeclaration raises a semantic error per spec.md §4.4's "the
// analyzer also resolves duplicate declarations (let/const collisions
// raise; var hoists to the nearest function scope)": a let/const/class name
// may not collide with anything already declared directly in scope, while a
// var/function redeclaration of another var/function is allowed (the
// common "var x; var x;" and "function f(){} function f(){}" idiom).
func (a *Analyzer) checkRedeclaration(scope *jsast.Scope, kind jsast.SymbolKind, name string) {
	existing, ok := scope.Variables[name]
	if !ok {
		return
	}
	lexical := func(k jsast.SymbolKind) bool {
		return k == jsast.SymbolLet || k == jsast.SymbolConst
	}
	if lexical(kind) || lexical(existing.Kind) {
		a.log.Raise(diag.KindSemantic, diag.Range{},
			"identifier \""+name+"\" has already been declared")
	}
}
