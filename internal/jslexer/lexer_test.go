package jslexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpokorny/njsast/internal/diag"
	"github.com/mpokorny/njsast/internal/jslexer"
)

func newLexer(t *testing.T, src string) *jslexer.Lexer {
	t.Helper()
	log := diag.NewLog("test.js")
	l := jslexer.NewLexer(log, src)
	require.False(t, log.HasErrors(), "unexpected lexical error in %q", src)
	return l
}

func TestIdentifierVsKeyword(t *testing.T) {
	l := newLexer(t, "foo")
	require.Equal(t, jslexer.TName, l.Token.Tag)
	require.Equal(t, "foo", l.Token.Raw)

	l = newLexer(t, "function")
	require.Equal(t, jslexer.TKeyword, l.Token.Tag)
}

func TestContextualKeywordsAreNames(t *testing.T) {
	for _, kw := range []string{"let", "async", "await", "yield", "of", "get", "set", "static"} {
		l := newLexer(t, kw)
		require.Equal(t, jslexer.TName, l.Token.Tag, "contextual keyword %q should lex as TName", kw)
	}
}

func TestNumberRadixLiterals(t *testing.T) {
	cases := map[string]float64{
		"0x1F":  31,
		"0o17":  15,
		"0b101": 5,
		"1.5":   1.5,
		"1e2":   100,
		"1_000": 1000,
	}
	for src, want := range cases {
		l := newLexer(t, src)
		require.Equal(t, jslexer.TNum, l.Token.Tag, "input %q", src)
		require.Equal(t, want, l.Token.NumValue, "input %q", src)
	}
}

func TestBigIntLiteral(t *testing.T) {
	l := newLexer(t, "10n")
	require.Equal(t, jslexer.TBigInt, l.Token.Tag)
	require.Equal(t, "10n", l.Token.Raw)
}

func TestStringEscapes(t *testing.T) {
	l := newLexer(t, `"a\nb\tc"`)
	require.Equal(t, jslexer.TString, l.Token.Tag)
	require.Equal(t, []uint16{'a', '\n', 'b', '\t', 'c'}, l.Token.StringValue)
}

func TestStringUnicodeEscape(t *testing.T) {
	l := newLexer(t, `"A\u{1F600}"`)
	require.Equal(t, []uint16{'A', 0xD83D, 0xDE00}, l.Token.StringValue)
}

func TestUnterminatedStringIsFatalError(t *testing.T) {
	log := diag.NewLog("test.js")
	require.Panics(t, func() { jslexer.NewLexer(log, `"abc`) })
	require.True(t, log.HasErrors())
}

func TestTemplateHeadMiddleTail(t *testing.T) {
	l := newLexer(t, "`a${b}c`")
	require.Equal(t, jslexer.TTemplateHead, l.Token.Tag)
	require.Equal(t, "a", l.Token.RawTemplate)

	l.ExpectingExpression(true)
	l.Next() // b
	require.Equal(t, jslexer.TName, l.Token.Tag)
	require.Equal(t, "b", l.Token.Raw)

	l.Next() // the closing "}" of the substitution
	require.Equal(t, "}", l.Token.Raw)
	require.True(t, l.IsInsideTemplateBrace())
	l.ResumeTemplate()
	require.Equal(t, jslexer.TTemplateTail, l.Token.Tag)
	require.Equal(t, "c", l.Token.RawTemplate)
}

func TestNoSubstitutionTemplate(t *testing.T) {
	l := newLexer(t, "`plain`")
	require.Equal(t, jslexer.TNoSubstitutionTemplate, l.Token.Tag)
	require.Equal(t, "plain", l.Token.RawTemplate)
}

func TestRegexVsDivisionDisambiguation(t *testing.T) {
	// NewLexer starts with expectExprNext=true, so a leading "/" scans as a
	// regular expression rather than division.
	l := newLexer(t, "/abc/gi")
	require.Equal(t, jslexer.TRegexp, l.Token.Tag)
	require.Equal(t, "abc", l.Token.RegexPattern)
	require.Equal(t, "gi", l.Token.RegexFlags)
}

func TestDivisionAfterValueIsNotRegex(t *testing.T) {
	log := diag.NewLog("test.js")
	l := jslexer.NewLexer(log, "x / y")
	require.Equal(t, jslexer.TName, l.Token.Tag)
	l.ExpectingExpression(false)
	l.Next()
	require.Equal(t, jslexer.TPunct, l.Token.Tag)
	require.Equal(t, "/", l.Token.Raw)
}

func TestMultiCharPunctuatorsPreferLongestMatch(t *testing.T) {
	cases := []string{">>>=", "===", "!==", "**=", "&&=", "||=", "??=", "=>", "?."}
	for _, op := range cases {
		l := newLexer(t, op+" ")
		require.Equal(t, jslexer.TPunct, l.Token.Tag, "input %q", op)
		require.Equal(t, op, l.Token.Raw, "input %q", op)
	}
}

func TestNewlineBeforeFlagAndASI(t *testing.T) {
	log := diag.NewLog("test.js")
	l := jslexer.NewLexer(log, "a\nb")
	require.False(t, l.Token.HasNewlineBefore)
	l.Next()
	require.True(t, l.Token.HasNewlineBefore)
	require.True(t, l.CanInsertSemicolon())
}

func TestCanInsertSemicolonBeforeCloseBraceAndEOF(t *testing.T) {
	log := diag.NewLog("test.js")
	l := jslexer.NewLexer(log, "}")
	require.True(t, l.CanInsertSemicolon())

	log2 := diag.NewLog("test.js")
	l2 := jslexer.NewLexer(log2, "")
	require.True(t, l2.CanInsertSemicolon())
}

func TestSnapshotRestore(t *testing.T) {
	log := diag.NewLog("test.js")
	l := jslexer.NewLexer(log, "a b")
	snap := l.Snapshot()
	l.Next()
	require.Equal(t, "b", l.Token.Raw)
	l.Restore(snap)
	require.Equal(t, "a", l.Token.Raw)
}

func TestPeekHelpersDoNotConsume(t *testing.T) {
	log := diag.NewLog("test.js")
	l := jslexer.NewLexer(log, "async function")
	require.True(t, l.PeekIsKeyword("function"))
	require.Equal(t, "async", l.Token.Raw, "peeking must not advance the current token")

	log2 := diag.NewLog("test.js")
	l2 := jslexer.NewLexer(log2, "x + 1")
	require.True(t, l2.PeekIsPunct("+"))
}

func TestPrivateName(t *testing.T) {
	l := newLexer(t, "#field")
	require.Equal(t, jslexer.TPrivateName, l.Token.Tag)
	require.Equal(t, "#field", l.Token.Raw)
}

func TestHashbangOnlyAtByteZero(t *testing.T) {
	l := newLexer(t, "#!/usr/bin/env node\nvar x;")
	require.Equal(t, jslexer.THashbang, l.Token.Tag)
}
