package compressor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpokorny/njsast/internal/compressor"
	"github.com/mpokorny/njsast/internal/config"
	"github.com/mpokorny/njsast/internal/diag"
	"github.com/mpokorny/njsast/internal/jsast"
	"github.com/mpokorny/njsast/internal/jsparser"
)

func parse(t *testing.T, src string) *jsast.Toplevel {
	t.Helper()
	log := diag.NewLog("test.js")
	res, err := jsparser.Parse(src, log, jsparser.Options{})
	require.NoError(t, err)
	require.False(t, log.HasErrors())
	return res.Toplevel
}

func compress(t *testing.T, top *jsast.Toplevel, opts config.ICompressOptions) {
	t.Helper()
	log := diag.NewLog("test.js")
	err := compressor.Compress(top, opts, log)
	require.NoError(t, err)
}

func TestIfConstantTrueReducesToConsequent(t *testing.T) {
	top := parse(t, `if (1) { x(); } else { y(); }`)
	compress(t, top, config.AllPasses(5))

	require.Len(t, top.Body, 1)
	call, ok := top.Body[0].Data.(*jsast.SSimple)
	require.True(t, ok)
	_, isCall := call.Value.Data.(*jsast.ECall)
	require.True(t, isCall)
}

func TestIfConstantFalseWithNoAlternateRemoves(t *testing.T) {
	top := parse(t, `if (0) { x(); }`)
	compress(t, top, config.AllPasses(5))
	require.Len(t, top.Body, 0)
}

func TestWhileFalseRemoved(t *testing.T) {
	top := parse(t, `while (false) { x(); }`)
	compress(t, top, config.AllPasses(5))
	require.Len(t, top.Body, 0)
}

func TestDoWhileFalseKeptWhenBodyHasBreak(t *testing.T) {
	top := parse(t, `do { if (a) break; x(); } while (false);`)
	compress(t, top, config.ICompressOptions{EnableUnreachableCodeElimination: true, MaxPasses: 1})
	require.Len(t, top.Body, 1)
	_, stillDo := top.Body[0].Data.(*jsast.SDo)
	require.True(t, stillDo, "a do-while whose body can break must not be unwrapped")
}

func TestDoWhileFalseUnwrappedWithoutBreak(t *testing.T) {
	top := parse(t, `do { x(); } while (false);`)
	compress(t, top, config.ICompressOptions{EnableUnreachableCodeElimination: true, MaxPasses: 1})
	require.Len(t, top.Body, 1)
	_, isBlock := top.Body[0].Data.(*jsast.SBlock)
	require.True(t, isBlock)
}

func TestForFalseConditionReducesToInit(t *testing.T) {
	top := parse(t, `for (var i = 0; false; i++) { x(); }`)
	compress(t, top, config.ICompressOptions{EnableUnreachableCodeElimination: true, MaxPasses: 1})
	require.Len(t, top.Body, 1)
	_, isDecl := top.Body[0].Data.(*jsast.SDeclare)
	require.True(t, isDecl)
}

func TestEmptyStatementDropped(t *testing.T) {
	top := parse(t, `x(); ; y();`)
	compress(t, top, config.AllPasses(3))
	require.Len(t, top.Body, 2)
}

func TestBlockFlattenedWhenNoLexicalDecls(t *testing.T) {
	top := parse(t, `{ x(); y(); }`)
	compress(t, top, config.ICompressOptions{EnableBlockElimination: true, MaxPasses: 1})
	require.Len(t, top.Body, 1)
	block, ok := top.Body[0].Data.(*jsast.SBlock)
	require.True(t, ok)
	require.Len(t, block.Body, 2)
}

func TestBooleanLiteralsRewrittenToNotForms(t *testing.T) {
	top := parse(t, `x(true); y(false);`)
	compress(t, top, config.ICompressOptions{EnableBooleanCompress: true, MaxPasses: 1})

	call1 := top.Body[0].Data.(*jsast.SSimple).Value.Data.(*jsast.ECall)
	not1, ok := call1.Args[0].Value.Data.(*jsast.EUnaryPrefix)
	require.True(t, ok)
	require.Equal(t, jsast.UnOpNot, not1.Op)

	call2 := top.Body[1].Data.(*jsast.SSimple).Value.Data.(*jsast.ECall)
	not2, ok := call2.Args[0].Value.Data.(*jsast.EUnaryPrefix)
	require.True(t, ok)
	require.Equal(t, jsast.UnOpNot, not2.Op)
}

func TestDoubleNotFoldedInBooleanContext(t *testing.T) {
	top := parse(t, `if (!!a) { x(); }`)
	compress(t, top, config.ICompressOptions{EnableBooleanCompress: true, MaxPasses: 1})

	ifStmt := top.Body[0].Data.(*jsast.SIf)
	_, isSymbol := ifStmt.Test.Data.(*jsast.ESymbol)
	require.True(t, isSymbol, "!!a in an if-test should fold to a")
}

func TestDoubleNotNotFoldedOutsideBooleanContext(t *testing.T) {
	top := parse(t, `var y = !!a;`)
	compress(t, top, config.ICompressOptions{EnableBooleanCompress: true, MaxPasses: 1})

	decl := top.Body[0].Data.(*jsast.SDeclare)
	_, stillNot := decl.Defs[0].Value.Data.(*jsast.EUnaryPrefix)
	require.True(t, stillNot, "!!a assigned to a variable must keep its real boolean value")
}

func TestTrailingBareReturnDropped(t *testing.T) {
	top := parse(t, `function f() { x(); return; }`)
	compress(t, top, config.ICompressOptions{EnableFunctionReturnCompress: true, MaxPasses: 1})

	fn := top.Body[0].Data.(*jsast.SFunctionDecl).Fn
	require.Len(t, fn.Body, 1)
}

func TestVarsHoistedToFunctionTop(t *testing.T) {
	top := parse(t, `function f() { if (a) { var x = 1; } var y = 2; return x + y; }`)
	compress(t, top, config.ICompressOptions{EnableVariableHoisting: true, MaxPasses: 1})

	fn := top.Body[0].Data.(*jsast.SFunctionDecl).Fn
	decl, ok := fn.Body[0].Data.(*jsast.SDeclare)
	require.True(t, ok)
	require.Len(t, decl.Defs, 2)
	names := []string{
		decl.Defs[0].Binding.(jsast.Expr).Data.(*jsast.ESymbol).Name,
		decl.Defs[1].Binding.(jsast.Expr).Data.(*jsast.ESymbol).Name,
	}
	require.Equal(t, []string{"x", "y"}, names)
}

func TestConstantArithmeticFolded(t *testing.T) {
	top := parse(t, `x(1 + 2 * 3);`)
	compress(t, top, config.ICompressOptions{MaxPasses: 2})

	call := top.Body[0].Data.(*jsast.SSimple).Value.Data.(*jsast.ECall)
	num, ok := call.Args[0].Value.Data.(*jsast.ENumber)
	require.True(t, ok)
	require.Equal(t, float64(7), num.Value)
}

func TestStringConcatenationFolded(t *testing.T) {
	top := parse(t, `x("a" + "b" + 1);`)
	compress(t, top, config.ICompressOptions{MaxPasses: 2})

	call := top.Body[0].Data.(*jsast.SSimple).Value.Data.(*jsast.ECall)
	str, ok := call.Args[0].Value.Data.(*jsast.EString)
	require.True(t, ok)
	got := make([]byte, len(str.Value))
	for i, c := range str.Value {
		got[i] = byte(c)
	}
	require.Equal(t, "ab1", string(got))
}

func TestForInRaisesNotImplemented(t *testing.T) {
	top := parse(t, `for (var k in obj) { x(k); }`)
	log := diag.NewLog("test.js")
	err := compressor.Compress(top, config.ICompressOptions{EnableUnreachableCodeElimination: true, MaxPasses: 1}, log)
	require.Error(t, err)
}
