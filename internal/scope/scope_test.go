package scope_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpokorny/njsast/internal/diag"
	"github.com/mpokorny/njsast/internal/jsast"
	"github.com/mpokorny/njsast/internal/jsparser"
	"github.com/mpokorny/njsast/internal/scope"
)

func parse(t *testing.T, src string) *jsast.Toplevel {
	t.Helper()
	log := diag.NewLog("test.js")
	res, err := jsparser.Parse(src, log, jsparser.Options{})
	require.NoError(t, err)
	require.False(t, log.HasErrors())
	return res.Toplevel
}

func analyze(t *testing.T, top *jsast.Toplevel) {
	t.Helper()
	log := diag.NewLog("test.js")
	err := scope.NewAnalyzer(log).AnalyzeToplevel(top)
	require.NoError(t, err)
}

func findSimpleExpr(t *testing.T, body []jsast.Stmt, idx int) jsast.Expr {
	t.Helper()
	simple, ok := body[idx].Data.(*jsast.SSimple)
	require.True(t, ok, "statement %d is not a SimpleStatement", idx)
	return simple.Value
}

func TestVarHoistsToFunctionScope(t *testing.T) {
	top := parse(t, `function f() { if (true) { var x = 1; } x; }`)
	analyze(t, top)

	fnDecl := top.Body[0].Data.(*jsast.SFunctionDecl)
	fnScope := fnDecl.Fn.Scope
	def, ok := fnScope.Variables["x"]
	require.True(t, ok, "x should hoist to the function scope")
	require.Equal(t, jsast.SymbolVar, def.Kind)
	require.True(t, def.Write)
	require.True(t, def.Read)
}

func TestLetStaysBlockScoped(t *testing.T) {
	top := parse(t, `{ let x = 1; } `)
	analyze(t, top)

	block := top.Body[0].Data.(*jsast.SBlock)
	_, declaredInBlock := block.Scope.Variables["x"]
	require.True(t, declaredInBlock)
	_, declaredAtTop := top.Scope.Variables["x"]
	require.False(t, declaredAtTop, "let must not leak out of its block")
}

func TestDuplicateLetRaises(t *testing.T) {
	top := parse(t, `let x = 1; let x = 2;`)
	log := diag.NewLog("test.js")
	err := scope.NewAnalyzer(log).AnalyzeToplevel(top)
	require.Error(t, err)
}

func TestClosureMarksEnclosed(t *testing.T) {
	top := parse(t, `
		function outer() {
			var captured = 1;
			function inner() { return captured; }
		}
	`)
	analyze(t, top)

	outerFn := top.Body[0].Data.(*jsast.SFunctionDecl).Fn
	def := outerFn.Scope.Variables["captured"]
	require.NotNil(t, def)
	require.True(t, def.Read)

	var innerScope *jsast.Scope
	for _, s := range outerFn.Body {
		if fd, ok := s.Data.(*jsast.SFunctionDecl); ok && fd.Fn.Name.Name == "inner" {
			innerScope = fd.Fn.Scope
		}
	}
	require.NotNil(t, innerScope)
	require.True(t, innerScope.Enclosed[def], "inner's scope should enclose the outer-scope capture")
}

func TestFreeIdentifierLeavesThedefNil(t *testing.T) {
	top := parse(t, `console.log(notDeclaredAnywhere);`)
	analyze(t, top)

	call := findSimpleExpr(t, top.Body, 0).Data.(*jsast.ECall)
	arg := call.Args[0].Value.Data.(*jsast.ESymbol)
	require.Nil(t, arg.Thedef)
}

func TestNamedFunctionExpressionSelfReference(t *testing.T) {
	top := parse(t, `var f = function self() { return self; };`)
	analyze(t, top)

	decl := top.Body[0].Data.(*jsast.SDeclare)
	fn := decl.Defs[0].Value.Data.(*jsast.EFunction)
	require.NotNil(t, fn.Name)

	inner := fn.Body[0].Data.(*jsast.SReturn).Value.Data.(*jsast.ESymbol)
	require.Same(t, fn.Name, inner.Thedef)

	// The self-reference name must not leak into the enclosing toplevel.
	_, leaked := top.Scope.Variables["self"]
	require.False(t, leaked)
}

func TestDestructuringParamBindsBothNames(t *testing.T) {
	top := parse(t, `function f({a, b: [c]}) { return a + c; }`)
	analyze(t, top)

	fn := top.Body[0].Data.(*jsast.SFunctionDecl).Fn
	_, okA := fn.Scope.Variables["a"]
	_, okC := fn.Scope.Variables["c"]
	require.True(t, okA)
	require.True(t, okC)
}

func TestWithPinsEnclosingVariables(t *testing.T) {
	top := parse(t, `var x = 1; with ({}) { x; }`)
	analyze(t, top)

	def := top.Scope.Variables["x"]
	require.True(t, def.Pinned)
}
