package jsparser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpokorny/njsast/internal/diag"
	"github.com/mpokorny/njsast/internal/jsast"
	"github.com/mpokorny/njsast/internal/jsparser"
)

func parse(t *testing.T, src string) *jsast.Toplevel {
	t.Helper()
	log := diag.NewLog("test.js")
	res, err := jsparser.Parse(src, log, jsparser.Options{})
	require.NoError(t, err)
	require.False(t, log.HasErrors(), "unexpected parse error in %q", src)
	return res.Toplevel
}

func parseExpr(t *testing.T, src string) jsast.Expr {
	t.Helper()
	top := parse(t, src+";")
	require.Len(t, top.Body, 1)
	simple, ok := top.Body[0].Data.(*jsast.SSimple)
	require.True(t, ok, "expected an expression statement")
	return simple.Value
}

func TestVarLetConstDeclarations(t *testing.T) {
	top := parse(t, "var a = 1; let b = 2; const c = 3;")
	require.Len(t, top.Body, 3)

	decl := top.Body[0].Data.(*jsast.SDeclare)
	require.Equal(t, jsast.DeclVar, decl.Kind)
	require.Len(t, decl.Defs, 1)
	sym := decl.Defs[0].Binding.(jsast.Expr).Data.(*jsast.ESymbol)
	require.Equal(t, "a", sym.Name)

	require.Equal(t, jsast.DeclLet, top.Body[1].Data.(*jsast.SDeclare).Kind)
	require.Equal(t, jsast.DeclConst, top.Body[2].Data.(*jsast.SDeclare).Kind)
}

func TestMultipleDeclaratorsInOneStatement(t *testing.T) {
	top := parse(t, "var x = 1, y = 2;")
	decl := top.Body[0].Data.(*jsast.SDeclare)
	require.Len(t, decl.Defs, 2)
}

func TestIfElse(t *testing.T) {
	top := parse(t, "if (a) b; else c;")
	s := top.Body[0].Data.(*jsast.SIf)
	require.NotNil(t, s.Test)
	require.NotNil(t, s.Consequent.Data)
	require.NotNil(t, s.Alternate.Data)
}

func TestIfWithoutElse(t *testing.T) {
	top := parse(t, "if (a) b;")
	s := top.Body[0].Data.(*jsast.SIf)
	require.Nil(t, s.Alternate.Data)
}

func TestWhileAndDoWhile(t *testing.T) {
	top := parse(t, "while (a) b; do c; while (d);")
	require.IsType(t, &jsast.SWhile{}, top.Body[0].Data)
	require.IsType(t, &jsast.SDo{}, top.Body[1].Data)
}

func TestClassicForLoop(t *testing.T) {
	top := parse(t, "for (var i = 0; i < 10; i++) {}")
	f := top.Body[0].Data.(*jsast.SFor)
	require.NotNil(t, f.Init)
	require.NotNil(t, f.Condition)
	require.NotNil(t, f.Update)
}

func TestForInAndForOf(t *testing.T) {
	top := parse(t, "for (var k in obj) {} for (var v of list) {}")
	require.IsType(t, &jsast.SForIn{}, top.Body[0].Data)
	require.IsType(t, &jsast.SForOf{}, top.Body[1].Data)
}

func TestSwitchStatement(t *testing.T) {
	top := parse(t, "switch (x) { case 1: a; break; default: b; }")
	sw := top.Body[0].Data.(*jsast.SSwitch)
	require.Len(t, sw.Cases, 2)
	require.NotNil(t, sw.Cases[0].Test.Data)
	require.Nil(t, sw.Cases[1].Test.Data)
}

func TestTryCatchFinally(t *testing.T) {
	top := parse(t, "try { a; } catch (e) { b; } finally { c; }")
	tr := top.Body[0].Data.(*jsast.STry)
	require.NotNil(t, tr.Catch)
	require.NotNil(t, tr.Finally)
}

func TestTryCatchNoBinding(t *testing.T) {
	top := parse(t, "try { a; } catch { b; }")
	tr := top.Body[0].Data.(*jsast.STry)
	require.Nil(t, tr.Catch.Binding)
}

func TestFunctionDeclaration(t *testing.T) {
	top := parse(t, "function f(a, b) { return a + b; }")
	fd := top.Body[0].Data.(*jsast.SFunctionDecl)
	require.Equal(t, "f", fd.Fn.Name.Name)
	require.Len(t, fd.Fn.Params, 2)
}

func TestAsyncGeneratorFunction(t *testing.T) {
	top := parse(t, "async function* f() { yield 1; }")
	fd := top.Body[0].Data.(*jsast.SFunctionDecl)
	require.True(t, fd.Fn.IsAsync)
	require.True(t, fd.Fn.IsGenerator)
}

func TestClassDeclaration(t *testing.T) {
	top := parse(t, "class C extends D { constructor() {} m() {} get g() {} static s() {} }")
	cd := top.Body[0].Data.(*jsast.SClassDecl)
	require.Equal(t, "C", cd.Class.Name.Name)
	require.NotNil(t, cd.Class.Extends.Data)
	require.Len(t, cd.Class.Members, 4)
	require.Equal(t, jsast.ClassGetter, cd.Class.Members[2].Kind)
	require.True(t, cd.Class.Members[3].Static)
}

func TestLabeledStatementAndBreakContinue(t *testing.T) {
	top := parse(t, "outer: for (;;) { break outer; continue outer; }")
	lbl := top.Body[0].Data.(*jsast.SLabeled)
	require.Equal(t, "outer", lbl.Label)
	require.True(t, lbl.IsLoop)
}

func TestImportDeclaration(t *testing.T) {
	top := parse(t, `import d, { a, b as c } from "mod";`)
	imp := top.Body[0].Data.(*jsast.SImport)
	require.Equal(t, "mod", imp.Source)
	require.NotNil(t, imp.Default)
	require.Len(t, imp.Mappings, 2)
	require.Equal(t, "b", imp.Mappings[1].Foreign)
	require.Equal(t, "c", imp.Mappings[1].Local)
}

func TestImportNamespace(t *testing.T) {
	top := parse(t, `import * as ns from "mod";`)
	imp := top.Body[0].Data.(*jsast.SImport)
	require.NotNil(t, imp.WholeAs)
}

func TestExportDeclarationAndList(t *testing.T) {
	top := parse(t, "export var x = 1; export { x as y };")
	exp0 := top.Body[0].Data.(*jsast.SExport)
	require.NotNil(t, exp0.Decl.Data)

	exp1 := top.Body[1].Data.(*jsast.SExport)
	require.Len(t, exp1.Mappings, 1)
	require.Equal(t, "x", exp1.Mappings[0].Local)
	require.Equal(t, "y", exp1.Mappings[0].Foreign)
}

func TestExportStarFromAndReexport(t *testing.T) {
	top := parse(t, `export * from "mod";`)
	exp := top.Body[0].Data.(*jsast.SExport)
	require.True(t, exp.IsWhole)
	require.Equal(t, "mod", exp.Source)
}

// --- Expressions ---

func TestBinaryOperatorPrecedence(t *testing.T) {
	// 1 + 2 * 3 should parse as 1 + (2 * 3)
	e := parseExpr(t, "1 + 2 * 3")
	top := e.Data.(*jsast.EBinary)
	require.Equal(t, jsast.BinOpAdd, top.Op)
	right := top.Right.Data.(*jsast.EBinary)
	require.Equal(t, jsast.BinOpMul, right.Op)
}

func TestLogicalAndOrNullish(t *testing.T) {
	e := parseExpr(t, "a ?? b")
	require.Equal(t, jsast.BinOpNullishCoalescing, e.Data.(*jsast.EBinary).Op)
}

func TestConditionalExpression(t *testing.T) {
	e := parseExpr(t, "a ? b : c")
	cond := e.Data.(*jsast.EConditional)
	require.NotNil(t, cond.Test)
	require.NotNil(t, cond.Consequent)
	require.NotNil(t, cond.Alternate)
}

func TestAssignmentOperators(t *testing.T) {
	cases := map[string]jsast.OpCode{
		"x = 1":    jsast.AssignOpNone,
		"x += 1":   jsast.AssignOpAdd,
		"x **= 2":  jsast.AssignOpPow,
		"x ??= 1":  jsast.AssignOpNullishCoalescing,
		"x ||= 1":  jsast.AssignOpLogicalOr,
		"x &&= 1":  jsast.AssignOpLogicalAnd,
	}
	for src, want := range cases {
		e := parseExpr(t, src)
		require.Equal(t, want, e.Data.(*jsast.EAssign).Op, "input %q", src)
	}
}

func TestUnaryAndUpdateExpressions(t *testing.T) {
	e := parseExpr(t, "typeof x")
	require.Equal(t, jsast.UnOpTypeof, e.Data.(*jsast.EUnaryPrefix).Op)

	e = parseExpr(t, "x++")
	require.Equal(t, jsast.UnOpPostInc, e.Data.(*jsast.EUnaryPostfix).Op)

	e = parseExpr(t, "++x")
	require.Equal(t, jsast.UnOpPreInc, e.Data.(*jsast.EUnaryPrefix).Op)
}

func TestCallNewAndMemberChains(t *testing.T) {
	e := parseExpr(t, "a.b.c()")
	call := e.Data.(*jsast.ECall)
	dot := call.Callee.Data.(*jsast.EDot)
	require.Equal(t, "c", dot.Name)

	e = parseExpr(t, "new Foo(1, 2)")
	n := e.Data.(*jsast.ENew)
	require.Len(t, n.Args, 2)

	e = parseExpr(t, "a[b]")
	sub := e.Data.(*jsast.ESub)
	require.NotNil(t, sub.Index)
}

func TestOptionalChaining(t *testing.T) {
	e := parseExpr(t, "a?.b")
	require.True(t, e.Data.(*jsast.EDot).OptionalChain)

	e = parseExpr(t, "a?.[b]")
	require.True(t, e.Data.(*jsast.ESub).OptionalChain)

	e = parseExpr(t, "a?.()")
	require.True(t, e.Data.(*jsast.ECall).OptionalChain)
}

func TestSpreadInCallAndArray(t *testing.T) {
	e := parseExpr(t, "f(...args)")
	call := e.Data.(*jsast.ECall)
	require.True(t, call.Args[0].Spread)

	e = parseExpr(t, "[1, ...rest]")
	arr := e.Data.(*jsast.EArray)
	require.Len(t, arr.Items, 2)
	_, isSpread := arr.Items[1].Data.(*jsast.ESpread)
	require.True(t, isSpread)
}

func TestArrayHoleElision(t *testing.T) {
	e := parseExpr(t, "[1, , 3]")
	arr := e.Data.(*jsast.EArray)
	require.Len(t, arr.Items, 3)
	_, isHole := arr.Items[1].Data.(*jsast.EHole)
	require.True(t, isHole)
}

func TestObjectLiteralVariants(t *testing.T) {
	e := parseExpr(t, "({ a, b: 1, [c]: 2, m() {}, get g() {}, ...rest })")
	obj := e.Data.(*jsast.EObject)
	require.Len(t, obj.Properties, 6)
	require.Equal(t, jsast.PropertyShorthand, obj.Properties[0].Kind)
	require.True(t, obj.Properties[2].Computed)
	require.Equal(t, jsast.PropertyMethod, obj.Properties[3].Kind)
	require.Equal(t, jsast.PropertyGetter, obj.Properties[4].Kind)
	require.Equal(t, jsast.PropertySpread, obj.Properties[5].Kind)
}

func TestArrowFunctionExpressionAndBlockBody(t *testing.T) {
	e := parseExpr(t, "x => x + 1")
	arrow := e.Data.(*jsast.EArrow)
	require.Len(t, arrow.Params, 1)
	require.NotNil(t, arrow.ExprBody.Data)
	require.Nil(t, arrow.Body)

	e = parseExpr(t, "(a, b) => { return a + b; }")
	arrow = e.Data.(*jsast.EArrow)
	require.Len(t, arrow.Params, 2)
	require.Len(t, arrow.Body, 1)
}

func TestAsyncArrowFunction(t *testing.T) {
	e := parseExpr(t, "async (x) => x")
	arrow := e.Data.(*jsast.EArrow)
	require.True(t, arrow.IsAsync)
}

func TestDefaultAndRestParameters(t *testing.T) {
	e := parseExpr(t, "(function (a = 1, ...rest) {})")
	fn := e.Data.(*jsast.EFunction)
	require.NotNil(t, fn.Params[0].DefaultValue.Data)
	require.True(t, fn.Params[1].Rest)
}

func TestTemplateStringWithSubstitutions(t *testing.T) {
	e := parseExpr(t, "`a${b}c${d}e`")
	tpl := e.Data.(*jsast.ETemplateString)
	require.Equal(t, "a", tpl.Head)
	require.Len(t, tpl.Parts, 2)
	require.Equal(t, "c", tpl.Parts[0].Tail)
	require.Equal(t, "e", tpl.Parts[1].Tail)
}

func TestTaggedTemplate(t *testing.T) {
	e := parseExpr(t, "tag`a${b}c`")
	tt := e.Data.(*jsast.ETaggedTemplate)
	require.NotNil(t, tt.Tag.Data)
	require.Equal(t, "a", tt.Head)
}

func TestAwaitExpression(t *testing.T) {
	top := parse(t, "async function f() { await g(); }")
	fd := top.Body[0].Data.(*jsast.SFunctionDecl)
	ret := fd.Fn.Body[0].Data.(*jsast.SSimple)
	_, ok := ret.Value.Data.(*jsast.EAwait)
	require.True(t, ok)
}

func TestYieldExpressionAndDelegate(t *testing.T) {
	top := parse(t, "function* f() { yield 1; yield* g(); }")
	fd := top.Body[0].Data.(*jsast.SFunctionDecl)
	y0 := fd.Fn.Body[0].Data.(*jsast.SSimple).Value.Data.(*jsast.EYield)
	require.False(t, y0.Delegate)
	y1 := fd.Fn.Body[1].Data.(*jsast.SSimple).Value.Data.(*jsast.EYield)
	require.True(t, y1.Delegate)
}

func TestDynamicImportExpression(t *testing.T) {
	e := parseExpr(t, `import("mod")`)
	imp := e.Data.(*jsast.EImportExpression)
	str := imp.ModuleName.Data.(*jsast.EString)
	require.Equal(t, "mod", string(utf16ToString(str.Value)))
}

func TestNewTargetMetaProperty(t *testing.T) {
	top := parse(t, "function f() { new.target; }")
	fd := top.Body[0].Data.(*jsast.SFunctionDecl)
	_, ok := fd.Fn.Body[0].Data.(*jsast.SSimple).Value.Data.(*jsast.ENewTarget)
	require.True(t, ok)
}

func TestSequenceExpression(t *testing.T) {
	e := parseExpr(t, "(a, b, c)")
	seq := e.Data.(*jsast.ESequence)
	require.Len(t, seq.Expressions, 3)
}

func TestRegExpLiteralExpression(t *testing.T) {
	e := parseExpr(t, "/ab+c/gi")
	re := e.Data.(*jsast.ERegExp)
	require.Equal(t, "ab+c", re.Pattern)
	require.Equal(t, "gi", re.Flags)
}

func TestAutomaticSemicolonInsertion(t *testing.T) {
	top := parse(t, "a = 1\nb = 2")
	require.Len(t, top.Body, 2)
}

func TestDestructuringBindingPatterns(t *testing.T) {
	top := parse(t, "var { a, b: c } = obj; var [x, , y] = arr;")
	d0 := top.Body[0].Data.(*jsast.SDeclare)
	_, isObjPattern := d0.Defs[0].Binding.(jsast.Expr).Data.(*jsast.EObject)
	require.True(t, isObjPattern)

	d1 := top.Body[1].Data.(*jsast.SDeclare)
	_, isArrPattern := d1.Defs[0].Binding.(jsast.Expr).Data.(*jsast.EArray)
	require.True(t, isArrPattern)
}

func utf16ToString(u []uint16) string {
	out := make([]rune, 0, len(u))
	for _, c := range u {
		out = append(out, rune(c))
	}
	return string(out)
}
