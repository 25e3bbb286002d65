// Package jsparser implements spec.md §4.2: a recursive-descent parser from
// internal/jslexer's token stream to internal/jsast's typed AST.
//
// Its control-flow shape — arrow disambiguation by parsing a parenthesized
// list (or bare identifier) once and reinterpreting it as parameters when
// "=>" follows, for/for-in/for-of disambiguation by re-interpreting an
// already-parsed expression, and a directive-prologue-driven strict mode —
// follows spec.md §4.2. No separate destructuring-error record is kept: a
// construct that is only valid as a pattern is checked when toAssignable
// converts it. Line-by-line it is grounded on the
// teacher's internal/js_parser, generalized from esbuild's Ref/Scope-fused
// single-pass design back into a parser that only produces an AST, leaving
// scope resolution to the separate internal/scope pass per spec.md's layer
// table (§2).
package jsparser

import (
	"fmt"

	"github.com/mpokorny/njsast/internal/diag"
	"github.com/mpokorny/njsast/internal/jsast"
	"github.com/mpokorny/njsast/internal/jslexer"
)

// Options configures what language level the parser accepts.
type Options struct {
	// EcmaVersion is stored on the parser (zero becomes 2017), but no parse
	// decision consults it: async/await, optional chaining and nullish
	// coalescing are accepted at every setting.
	EcmaVersion int
}

// Label is a stack entry for an enclosing labeled statement (spec.md §4.2
// "Labeled statements").
type Label struct {
	Name   string
	IsLoop bool
}

// parser holds all of the mutable state threaded through a single parse,
// matching the struct-of-flags design spec.md §9 calls for ("a single
// struct threaded through the parse; a push/pop helper restores them on
// function-scope entry").
type parser struct {
	lex *jslexer.Lexer
	log *diag.Log
	opt Options

	strict     bool
	inAsync    bool
	inGenerator bool
	inFunction bool

	// potentialArrowAt is not set or read anywhere: arrow functions are
	// recognized by parseAssignExprNoIn and parseParenOrArrowMaybe checking
	// for a following "=>".
	potentialArrowAt int32

	// yieldPos/awaitPos record the position of the first "yield"/"await"
	// used as a binding name inside a generator/async function, just before
	// parseBindingIdent reports that use as an error; nothing reads them.
	yieldPos int32
	awaitPos int32

	allowBreak    bool
	allowContinue bool
	labels        []Label

	// templateDepth is not set or read anywhere: the lexer's context stack
	// (jslexer.Lexer.IsInsideTemplateBrace) tracks open `${ }` substitutions,
	// and parseTemplateLiteral calls ResumeTemplate at each closing "}".
	templateDepth int
}

// ParseResult is what Parse returns on success.
type ParseResult struct {
	Toplevel *jsast.Toplevel
}

// Parse runs the full recursive-descent parse of source, returning the
// unscoped AST (the scope analyzer, internal/scope, binds symbols
// afterward per spec.md §2's layer separation).
func Parse(source string, log *diag.Log, opt Options) (result ParseResult, err error) {
	defer diag.ReportPanic(&err)

	p := &parser{
		log:           log,
		opt:           opt,
		allowBreak:    false,
		allowContinue: false,
	}
	if p.opt.EcmaVersion == 0 {
		p.opt.EcmaVersion = 2017
	}
	p.lex = jslexer.NewLexer(log, source)

	body := p.parseStmtListUntilEOF()
	result.Toplevel = &jsast.Toplevel{Body: body}
	return result, nil
}

// ---------------------------------------------------------------------------
// Token helpers

func (p *parser) tok() jslexer.Token { return p.lex.Token }

func (p *parser) isPunct(s string) bool {
	t := p.tok()
	return t.Tag == jslexer.TPunct && t.Raw == s
}

func (p *parser) isKeyword(s string) bool {
	t := p.tok()
	return (t.Tag == jslexer.TKeyword && t.Raw == s) ||
		(t.Tag == jslexer.TName && jslexer.ContextualKeywords[s] && t.Raw == s)
}

func (p *parser) isName() bool {
	return p.tok().Tag == jslexer.TName
}

func (p *parser) pos() diag.Position { return p.tok().Start }

func (p *parser) rangeFrom(start diag.Position) diag.Range {
	return diag.Range{Start: start, End: p.lex.LastTokEnd}
}

func (p *parser) next() {
	p.lex.Next()
}

func (p *parser) nextExpectingExpr() {
	p.lex.ExpectingExpression(true)
	p.lex.Next()
}

func (p *parser) nextExpectingOperator() {
	p.lex.ExpectingExpression(false)
	p.lex.Next()
}

func (p *parser) expectPunct(s string) diag.Position {
	if !p.isPunct(s) {
		p.unexpected(fmt.Sprintf("expected %q", s))
	}
	pos := p.pos()
	p.next()
	return pos
}

func (p *parser) expectKeyword(s string) diag.Position {
	if !p.isKeyword(s) {
		p.unexpected(fmt.Sprintf("expected %q", s))
	}
	pos := p.pos()
	p.next()
	return pos
}

func (p *parser) eatPunct(s string) bool {
	if p.isPunct(s) {
		p.next()
		return true
	}
	return false
}

func (p *parser) eatKeyword(s string) bool {
	if p.isKeyword(s) {
		p.next()
		return true
	}
	return false
}

func (p *parser) unexpected(note string) {
	t := p.tok()
	r := diag.Range{Start: t.Start, End: t.End}
	text := fmt.Sprintf("Unexpected token %q", t.Raw)
	if note != "" {
		text += ": " + note
	}
	p.log.Raise(diag.KindSyntactic, r, text)
}

func (p *parser) semanticError(r diag.Range, format string, args ...interface{}) {
	p.log.Raise(diag.KindSemantic, r, fmt.Sprintf(format, args...))
}

// expectSemicolon consumes a ";" or applies ASI, per spec.md §4.1's
// canInsertSemicolon()/insertSemicolon() pair.
func (p *parser) expectSemicolon() {
	if p.eatPunct(";") {
		return
	}
	if p.lex.CanInsertSemicolon() {
		p.lex.InsertSemicolon()
		return
	}
	p.unexpected("expected \";\"")
}

// ---------------------------------------------------------------------------
// Identifier parsing, with reserved-word checks per spec.md §4.2

// parseIdentName accepts any name-shaped token (including non-strict
// keywords) for contexts where keywords are allowed as plain names, such as
// a property key after ".".
func (p *parser) parseIdentName() (string, diag.Position) {
	t := p.tok()
	if t.Tag != jslexer.TName && t.Tag != jslexer.TKeyword {
		p.unexpected("expected identifier")
	}
	pos := t.Start
	name := t.Raw
	p.next()
	return name, pos
}

// parseBindingIdent parses an identifier used as a declaration (var/let/
// const name, function/class name, parameter, catch binding), applying the
// reserved-word tables from spec.md §4.2.
func (p *parser) parseBindingIdent() *jsast.ESymbol {
	t := p.tok()
	if t.Tag != jslexer.TName {
		p.unexpected("expected a binding identifier")
	}
	name := t.Raw
	r := diag.Range{Start: t.Start, End: t.End}
	if jslexer.Keywords[name] {
		p.log.Raise(diag.KindSyntactic, r, fmt.Sprintf("%q is a reserved word", name))
	}
	if p.strict && jslexer.ReservedWordsStrict[name] {
		p.semanticError(r, "%q is a reserved word in strict mode", name)
	}
	if p.strict && (name == "eval" || name == "arguments") {
		p.semanticError(r, "cannot bind %q in strict mode", name)
	}
	if p.inGenerator && name == "yield" {
		if p.yieldPos == 0 {
			p.yieldPos = t.Start.Index
		}
		p.semanticError(r, "cannot use \"yield\" as a binding name inside a generator")
	}
	if p.inAsync && name == "await" {
		if p.awaitPos == 0 {
			p.awaitPos = t.Start.Index
		}
		p.semanticError(r, "cannot use \"await\" as a binding name inside an async function")
	}
	p.next()
	return &jsast.ESymbol{Name: name}
}

// pushFunctionFlags saves the flags that a function/arrow boundary resets,
// returning a restore closure — spec.md §9's "push/pop helper" for the
// struct-of-flags design.
func (p *parser) pushFunctionFlags(isAsync, isGenerator bool) func() {
	savedStrict := p.strict
	savedAsync := p.inAsync
	savedGenerator := p.inGenerator
	savedInFunction := p.inFunction
	savedYield := p.yieldPos
	savedAwait := p.awaitPos
	savedBreak := p.allowBreak
	savedContinue := p.allowContinue
	savedLabels := p.labels

	p.inAsync = isAsync
	p.inGenerator = isGenerator
	p.inFunction = true
	p.yieldPos = 0
	p.awaitPos = 0
	p.allowBreak = false
	p.allowContinue = false
	p.labels = nil

	return func() {
		p.strict = savedStrict
		p.inAsync = savedAsync
		p.inGenerator = savedGenerator
		p.inFunction = savedInFunction
		p.yieldPos = savedYield
		p.awaitPos = savedAwait
		p.allowBreak = savedBreak
		p.allowContinue = savedContinue
		p.labels = savedLabels
	}
}
