package printer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpokorny/njsast/internal/diag"
	"github.com/mpokorny/njsast/internal/jsast"
	"github.com/mpokorny/njsast/internal/jsparser"
	"github.com/mpokorny/njsast/internal/printer"
)

func parse(t *testing.T, src string) *jsast.Toplevel {
	t.Helper()
	log := diag.NewLog("test.js")
	res, err := jsparser.Parse(src, log, jsparser.Options{})
	require.NoError(t, err)
	require.False(t, log.HasErrors())
	return res.Toplevel
}

// roundTrips asserts that printing src's parse tree in beautified form
// reproduces src exactly, the parse/print round-trip invariant spec.md §8
// names — this only holds for inputs already in the printer's own
// canonical spacing (two-space block indentation, one statement per line).
func roundTrips(t *testing.T, src string) {
	t.Helper()
	top := parse(t, src)
	require.Equal(t, src, printer.Print(top, printer.Options{Beautify: true}))
}

func TestRoundTripsSimpleStatements(t *testing.T) {
	roundTrips(t, "var x = 1;\n")
	roundTrips(t, "x = 1 + 2 * 3;\n")
	roundTrips(t, "if (a) {\n  b;\n} else {\n  c;\n}\n")
}

func TestCompoundAssignmentOperators(t *testing.T) {
	cases := map[string]string{
		"x += 1;\n":  "+=",
		"x -= 1;\n":  "-=",
		"x **= 2;\n": "**=",
		"x ??= 1;\n": "??=",
		"x ||= 1;\n": "||=",
		"x &&= 1;\n": "&&=",
	}
	for src, op := range cases {
		top := parse(t, src)
		out := printer.Print(top, printer.Options{})
		require.Contains(t, out, op, "printing %q should preserve the %s operator", src, op)
	}
}

func TestRegExpLiteral(t *testing.T) {
	top := parse(t, "var r = /ab+c/gi;\n")
	out := printer.Print(top, printer.Options{})
	require.Contains(t, out, "/ab+c/gi")
}

func TestTemplateStringWithHeadAndSubstitution(t *testing.T) {
	top := parse(t, "var s = `a${b}c`;\n")
	out := printer.Print(top, printer.Options{})
	require.Contains(t, out, "`a${b}c`")
}

func TestSpreadArgumentPrinted(t *testing.T) {
	top := parse(t, "f(...args);\n")
	out := printer.Print(top, printer.Options{})
	require.Contains(t, out, "...args")
}

func TestPrintStmtTrimsTrailingNewline(t *testing.T) {
	top := parse(t, "var x = 1;\n")
	out := printer.PrintStmt(top.Body[0], printer.Options{})
	require.Equal(t, "var x = 1;", out)
}
