package jslexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/mpokorny/njsast/internal/diag"
)

// Keywords lists ECMAScript words that are reserved unconditionally. Spec.md
// §4.2 calls for two tables consulted by the parser (reservedWords and
// reservedWordsStrict); contextual keywords (let, static, yield, await,
// async, of, get, set, as, from) are deliberately left out of this table and tagged
// TName instead, since they're legal identifiers in at least some contexts
// — the parser checks Token.Raw against ContextualKeywords itself rather
// than relying on the lexer to have pre-decided their role.
var Keywords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "export": true, "extends": true, "finally": true, "for": true,
	"function": true, "if": true, "import": true, "in": true, "instanceof": true,
	"new": true, "return": true, "super": true, "switch": true, "this": true,
	"throw": true, "try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true, "null": true, "true": true, "false": true,
	"enum": true,
}

// ContextualKeywords have special meaning in some grammar positions but
// remain legal identifiers (tagged TName by the lexer) everywhere else.
var ContextualKeywords = map[string]bool{
	"let": true, "static": true, "yield": true, "await": true, "async": true,
	"of": true, "get": true, "set": true, "as": true, "from": true,
}

// ReservedWordsStrict are identifiers that are legal bindings in sloppy mode
// but forbidden once strict mode is active (spec.md §4.2 "Reserved words").
var ReservedWordsStrict = map[string]bool{
	"implements": true, "interface": true, "package": true, "private": true,
	"protected": true, "public": true, "yield": true, "let": true, "static": true,
}

// contextKind tracks what bracket construct the lexer is currently inside
// (spec.md §4.1 "Context stack"). The stack is used to tell a "}" that
// closes a template substitution from any other "}"; whether a "/" starts a
// regular expression or is division is decided by expectExprNext instead.
type contextKind uint8

const (
	ctxParen contextKind = iota
	ctxBrace
	ctxTemplateBrace // "${" inside a template; a matching "}" resumes the template
	ctxBlock
)

// Lexer produces the next token on demand, tracking enough parser-visible
// state (lastTokStart/lastTokEnd, the context stack, newline-before flags)
// to support arrow/regex/template disambiguation without re-scanning.
type Lexer struct {
	log    *diag.Log
	source string

	pos  int32 // byte offset of the next unread byte
	line int32
	col  int32

	// expectExprNext records whether a "/" at the start of the next token
	// starts a regexp (true) or is division (false). setToken derives it from
	// each token it produces: false after a name, a literal, this/super/
	// null/true/false, ")", "]", "++" or "--", true after anything else.
	// ExpectingExpression overrides it before the next call to Next().
	expectExprNext bool

	context []contextKind

	Token Token

	// LastTokStart/LastTokEnd give the parser accurate spans to attach to
	// nodes without the lexer re-exposing its private cursor state.
	LastTokStart diag.Position
	LastTokEnd   diag.Position
}

// NewLexer creates a lexer over source and scans the first token.
func NewLexer(log *diag.Log, source string) *Lexer {
	l := &Lexer{log: log, source: source, line: 1, col: 0, expectExprNext: true}
	l.Next()
	return l
}

func (l *Lexer) pos32() diag.Position {
	return diag.Position{Line: l.line, Column: l.col, Index: l.pos}
}

func (l *Lexer) errorf(r diag.Range, format string, args ...interface{}) {
	l.log.Raise(diag.KindLexical, r, fmt.Sprintf(format, args...))
}

// ExpectingExpression tells the lexer whether the parser is at a position
// where a value is expected next (so a following "/" should be scanned as a
// regular expression literal instead of the division operator).
func (l *Lexer) ExpectingExpression(yes bool) { l.expectExprNext = yes }

// CanInsertSemicolon reports whether automatic semicolon insertion applies
// before the current token: true when a line break, "}", or EOF terminates
// the previous statement (spec.md §4.1).
func (l *Lexer) CanInsertSemicolon() bool {
	return l.Token.HasNewlineBefore || l.Token.Tag == TEOF ||
		(l.Token.Tag == TPunct && l.Token.Raw == "}")
}

// InsertSemicolon accepts ASI at the current position; callers that already
// checked CanInsertSemicolon use this just to document the accepted-by-ASI
// control path instead of silently falling through.
func (l *Lexer) InsertSemicolon() {}

func (l *Lexer) peekByte() byte {
	if int(l.pos) >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peekByteAt(offset int32) byte {
	p := l.pos + offset
	if int(p) >= len(l.source) {
		return 0
	}
	return l.source[p]
}

func (l *Lexer) advanceByte() byte {
	c := l.source[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return c
}

func isIdentStart(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Next scans the next token into l.Token.
func (l *Lexer) Next() {
	l.LastTokStart = l.Token.Start
	l.LastTokEnd = l.Token.End

	hadNewline := false
	for {
		c := l.peekByte()
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			l.advanceByte()
		case c == '\n':
			hadNewline = true
			l.advanceByte()
		case c == '/' && l.peekByteAt(1) == '/':
			for l.peekByte() != 0 && l.peekByte() != '\n' {
				l.advanceByte()
			}
		case c == '/' && l.peekByteAt(1) == '*':
			l.advanceByte()
			l.advanceByte()
			for {
				if l.peekByte() == 0 {
					l.errorf(diag.Range{Start: l.pos32(), End: l.pos32()}, "unterminated comment")
					return
				}
				if l.peekByte() == '\n' {
					hadNewline = true
				}
				if l.peekByte() == '*' && l.peekByteAt(1) == '/' {
					l.advanceByte()
					l.advanceByte()
					break
				}
				l.advanceByte()
			}
		case c == 0xE2 && l.peekByteAt(1) == 0x80 && (l.peekByteAt(2) == 0xA8 || l.peekByteAt(2) == 0xA9):
			// U+2028/U+2029 line/paragraph separators also count as line terminators.
			hadNewline = true
			l.advanceByte()
			l.advanceByte()
			l.advanceByte()
		default:
			goto scan
		}
	}
scan:
	start := l.pos32()
	if l.peekByte() == 0 && int(l.pos) >= len(l.source) {
		l.setToken(Token{Tag: TEOF, Start: start, End: start, HasNewlineBefore: hadNewline})
		return
	}

	c := l.peekByte()
	switch {
	case c == '#' && l.peekByteAt(1) == '!' && l.pos == 0:
		l.scanHashbang(start, hadNewline)
	case c == '#':
		l.scanPrivateName(start, hadNewline)
	case isDigit(c) || (c == '.' && isDigit(l.peekByteAt(1))):
		l.scanNumber(start, hadNewline)
	case c == '"' || c == '\'':
		l.scanString(start, hadNewline, c)
	case c == '`':
		l.scanTemplate(start, hadNewline, true)
	case c == '/' && l.expectExprNext:
		l.scanRegExp(start, hadNewline)
	default:
		r, size := utf8.DecodeRuneInString(l.source[l.pos:])
		if isIdentStart(r) {
			l.scanIdentifier(start, hadNewline)
		} else {
			l.scanPunctuator(start, hadNewline, r, size)
		}
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (l *Lexer) setToken(t Token) {
	t.End = l.pos32()
	l.Token = t
	switch t.Tag {
	case TName, TPrivateName, TNum, TString, TBigInt, TRegexp, TNoSubstitutionTemplate, TTemplateTail:
		l.expectExprNext = false
	case TKeyword:
		l.expectExprNext = t.Raw != "this" && t.Raw != "super" && t.Raw != "null" && t.Raw != "true" && t.Raw != "false"
	case TPunct:
		l.expectExprNext = t.Raw != ")" && t.Raw != "]" && t.Raw != "++" && t.Raw != "--"
	default:
		l.expectExprNext = true
	}
}

func (l *Lexer) scanHashbang(start diag.Position, nl bool) {
	for l.peekByte() != 0 && l.peekByte() != '\n' {
		l.advanceByte()
	}
	l.setToken(Token{Tag: THashbang, Raw: l.source[start.Index:l.pos], Start: start, HasNewlineBefore: nl})
}

func (l *Lexer) scanPrivateName(start diag.Position, nl bool) {
	l.advanceByte() // '#'
	for {
		r, size := utf8.DecodeRuneInString(l.source[l.pos:])
		if !isIdentPart(r) {
			break
		}
		for i := int32(0); i < int32(size); i++ {
			l.advanceByte()
		}
	}
	l.setToken(Token{Tag: TPrivateName, Raw: l.source[start.Index:l.pos], Start: start, HasNewlineBefore: nl})
}

func (l *Lexer) scanIdentifier(start diag.Position, nl bool) {
	for {
		r, size := utf8.DecodeRuneInString(l.source[l.pos:])
		if !isIdentPart(r) {
			break
		}
		for i := int32(0); i < int32(size); i++ {
			l.advanceByte()
		}
	}
	raw := l.source[start.Index:l.pos]
	tag := TName
	if Keywords[raw] {
		tag = TKeyword
	}
	l.setToken(Token{Tag: tag, Raw: raw, Start: start, HasNewlineBefore: nl})
}

// scanNumber handles decimal, 0x/0o/0b radix prefixes, and scientific
// notation (spec.md §4.1); an invalid form raises a recoverable lexical
// error, and when the log lets the parse continue the token carries the
// value strconv returned for the malformed text.
func (l *Lexer) scanNumber(start diag.Position, nl bool) {
	isBigInt := false
	if l.peekByte() == '0' && (l.peekByteAt(1) == 'x' || l.peekByteAt(1) == 'X') {
		l.advanceByte()
		l.advanceByte()
		l.scanRadixDigits(isHexDigit)
	} else if l.peekByte() == '0' && (l.peekByteAt(1) == 'o' || l.peekByteAt(1) == 'O') {
		l.advanceByte()
		l.advanceByte()
		l.scanRadixDigits(isOctalDigit)
	} else if l.peekByte() == '0' && (l.peekByteAt(1) == 'b' || l.peekByteAt(1) == 'B') {
		l.advanceByte()
		l.advanceByte()
		l.scanRadixDigits(isBinaryDigit)
	} else {
		for isDigit(l.peekByte()) || l.peekByte() == '_' {
			l.advanceByte()
		}
		if l.peekByte() == '.' {
			l.advanceByte()
			for isDigit(l.peekByte()) || l.peekByte() == '_' {
				l.advanceByte()
			}
		}
		if l.peekByte() == 'e' || l.peekByte() == 'E' {
			l.advanceByte()
			if l.peekByte() == '+' || l.peekByte() == '-' {
				l.advanceByte()
			}
			if !isDigit(l.peekByte()) {
				l.log.RaiseRecoverable(diag.KindLexical, diag.Range{Start: start, End: l.pos32()}, "invalid number")
			}
			for isDigit(l.peekByte()) {
				l.advanceByte()
			}
		}
	}
	if l.peekByte() == 'n' {
		isBigInt = true
		l.advanceByte()
	}
	raw := l.source[start.Index:l.pos]
	tag := TNum
	if isBigInt {
		tag = TBigInt
	}
	value, err := parseNumericLiteral(strings.TrimSuffix(raw, "n"))
	if err != nil {
		l.log.RaiseRecoverable(diag.KindLexical, diag.Range{Start: start, End: l.pos32()}, fmt.Sprintf("invalid number %q", raw))
	}
	l.setToken(Token{Tag: tag, Raw: raw, NumValue: value, Start: start, HasNewlineBefore: nl})
}

func (l *Lexer) scanRadixDigits(pred func(byte) bool) {
	for pred(l.peekByte()) || l.peekByte() == '_' {
		l.advanceByte()
	}
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
func isOctalDigit(c byte) bool  { return c >= '0' && c <= '7' }
func isBinaryDigit(c byte) bool { return c == '0' || c == '1' }

// parseNumericLiteral implements ToNumber-compatible literal parsing for
// the lexer's own token value (internal/typeconv implements the full
// ECMA §9.3 ToNumber abstract operation used by the compressor for runtime
// string coercion, which is a superset of literal grammar).
func parseNumericLiteral(raw string) (float64, error) {
	clean := strings.ReplaceAll(raw, "_", "")
	switch {
	case strings.HasPrefix(clean, "0x") || strings.HasPrefix(clean, "0X"):
		n, err := strconv.ParseUint(clean[2:], 16, 64)
		return float64(n), err
	case strings.HasPrefix(clean, "0o") || strings.HasPrefix(clean, "0O"):
		n, err := strconv.ParseUint(clean[2:], 8, 64)
		return float64(n), err
	case strings.HasPrefix(clean, "0b") || strings.HasPrefix(clean, "0B"):
		n, err := strconv.ParseUint(clean[2:], 2, 64)
		return float64(n), err
	default:
		return strconv.ParseFloat(clean, 64)
	}
}

func (l *Lexer) scanString(start diag.Position, nl bool, quote byte) {
	l.advanceByte()
	var out []uint16
	for {
		c := l.peekByte()
		if c == 0 && int(l.pos) >= len(l.source) {
			l.errorf(diag.Range{Start: start, End: l.pos32()}, "unterminated string literal")
			break
		}
		if c == quote {
			l.advanceByte()
			break
		}
		if c == '\n' {
			l.errorf(diag.Range{Start: start, End: l.pos32()}, "unterminated string literal")
			break
		}
		if c == '\\' {
			l.advanceByte()
			out = append(out, l.scanEscape()...)
			continue
		}
		r, size := utf8.DecodeRuneInString(l.source[l.pos:])
		for i := int32(0); i < int32(size); i++ {
			l.advanceByte()
		}
		out = append(out, encodeRune(r)...)
	}
	l.setToken(Token{Tag: TString, Raw: l.source[start.Index:l.pos], StringValue: out, Start: start, HasNewlineBefore: nl})
}

func encodeRune(r rune) []uint16 {
	if r <= 0xFFFF {
		return []uint16{uint16(r)}
	}
	a, b := utf16.EncodeRune(r)
	return []uint16{uint16(a), uint16(b)}
}

// scanEscape handles \n \t \\ \' \" \` \0 \xHH \uHHHH \u{H...} and line
// continuations; an unrecognized escape passes the character through
// literally, matching JS's permissive string-escape grammar.
func (l *Lexer) scanEscape() []uint16 {
	c := l.peekByte()
	switch c {
	case 'n':
		l.advanceByte()
		return []uint16{'\n'}
	case 't':
		l.advanceByte()
		return []uint16{'\t'}
	case 'r':
		l.advanceByte()
		return []uint16{'\r'}
	case 'b':
		l.advanceByte()
		return []uint16{'\b'}
	case 'f':
		l.advanceByte()
		return []uint16{'\f'}
	case 'v':
		l.advanceByte()
		return []uint16{'\v'}
	case '0':
		l.advanceByte()
		return []uint16{0}
	case '\n':
		l.advanceByte()
		return nil // line continuation
	case 'x':
		l.advanceByte()
		v := l.readHex(2)
		return []uint16{uint16(v)}
	case 'u':
		l.advanceByte()
		if l.peekByte() == '{' {
			l.advanceByte()
			v := int64(0)
			for l.peekByte() != '}' && l.peekByte() != 0 {
				v = v*16 + int64(hexVal(l.peekByte()))
				l.advanceByte()
			}
			l.advanceByte()
			return encodeRune(rune(v))
		}
		v := l.readHex(4)
		return []uint16{uint16(v)}
	default:
		r, size := utf8.DecodeRuneInString(l.source[l.pos:])
		for i := int32(0); i < int32(size); i++ {
			l.advanceByte()
		}
		return encodeRune(r)
	}
}

func (l *Lexer) readHex(n int) int64 {
	v := int64(0)
	for i := 0; i < n; i++ {
		v = v*16 + int64(hexVal(l.peekByte()))
		l.advanceByte()
	}
	return v
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return 0
}

// scanTemplate scans from a backtick or a "}" that closes a "${" back into
// template text, per the context-stack design in spec.md §4.1. isHead is
// true when starting from a backtick (produces TTemplateHead or
// TNoSubstitutionTemplate); false when resuming after "}" (produces
// TTemplateMiddle or TTemplateTail).
func (l *Lexer) scanTemplate(start diag.Position, nl bool, isHead bool) {
	if isHead {
		l.advanceByte() // backtick; a resuming "}" has already been consumed by ResumeTemplate's caller
	}
	var cooked []uint16
	rawStart := l.pos
	invalid := false
	for {
		c := l.peekByte()
		if c == 0 && int(l.pos) >= len(l.source) {
			l.errorf(diag.Range{Start: start, End: l.pos32()}, "unterminated template literal")
			break
		}
		if c == '`' {
			raw := l.source[rawStart:l.pos]
			l.advanceByte()
			tag := TNoSubstitutionTemplate
			if !isHead {
				tag = TTemplateTail
			}
			if invalid {
				tag = TInvalidTemplate
			}
			l.setToken(Token{Tag: tag, RawTemplate: raw, StringValue: cooked, Start: start, HasNewlineBefore: nl})
			return
		}
		if c == '$' && l.peekByteAt(1) == '{' {
			raw := l.source[rawStart:l.pos]
			l.advanceByte()
			l.advanceByte()
			l.context = append(l.context, ctxTemplateBrace)
			tag := TTemplateHead
			if !isHead {
				tag = TTemplateMiddle
			}
			if invalid {
				tag = TInvalidTemplate
			}
			l.setToken(Token{Tag: tag, RawTemplate: raw, StringValue: cooked, Start: start, HasNewlineBefore: nl})
			return
		}
		if c == '\\' {
			l.advanceByte()
			before := l.pos
			esc := l.scanEscape()
			if esc == nil && l.pos == before {
				invalid = true
			}
			cooked = append(cooked, esc...)
			continue
		}
		r, size := utf8.DecodeRuneInString(l.source[l.pos:])
		for i := int32(0); i < int32(size); i++ {
			l.advanceByte()
		}
		cooked = append(cooked, encodeRune(r)...)
	}
}

// ResumeTemplate is called by the parser after it finishes parsing the
// `${ expr }` substitution and consumes the matching "}", to continue
// lexing template text instead of scanning "}" as an ordinary punctuator.
func (l *Lexer) ResumeTemplate() {
	if len(l.context) > 0 {
		l.context = l.context[:len(l.context)-1]
	}
	start := l.pos32()
	l.scanTemplate(start, false, false)
}

func (l *Lexer) scanRegExp(start diag.Position, nl bool) {
	l.advanceByte() // '/'
	inClass := false
	for {
		c := l.peekByte()
		if c == 0 && int(l.pos) >= len(l.source) {
			l.errorf(diag.Range{Start: start, End: l.pos32()}, "unterminated regular expression")
			break
		}
		if c == '\n' {
			l.errorf(diag.Range{Start: start, End: l.pos32()}, "unterminated regular expression")
			break
		}
		if c == '\\' {
			l.advanceByte()
			l.advanceByte()
			continue
		}
		if c == '[' {
			inClass = true
		} else if c == ']' {
			inClass = false
		} else if c == '/' && !inClass {
			l.advanceByte()
			break
		}
		l.advanceByte()
	}
	patternEnd := l.pos - 1
	flagsStart := l.pos
	for {
		r, size := utf8.DecodeRuneInString(l.source[l.pos:])
		if !isIdentPart(r) {
			break
		}
		for i := int32(0); i < int32(size); i++ {
			l.advanceByte()
		}
	}
	pattern := l.source[start.Index+1 : patternEnd]
	flags := l.source[flagsStart:l.pos]
	l.setToken(Token{Tag: TRegexp, Raw: l.source[start.Index:l.pos], RegexPattern: pattern, RegexFlags: flags, Start: start, HasNewlineBefore: nl})
}

// multiCharPunctuators is consulted longest-first so that e.g. ">>>=" is
// preferred over ">>>" over ">>" over ">".
var multiCharPunctuators = []string{
	">>>=", "===", "!==", "**=", "<<=", ">>=", ">>>", "...", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--", "**",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<", ">>",
}

func (l *Lexer) scanPunctuator(start diag.Position, nl bool, r rune, size int) {
	rest := l.source[l.pos:]
	for _, p := range multiCharPunctuators {
		if strings.HasPrefix(rest, p) {
			for range p {
				l.advanceByte()
			}
			l.pushPopContext(p)
			l.setToken(Token{Tag: TPunct, Raw: p, Start: start, HasNewlineBefore: nl})
			return
		}
	}
	for i := 0; i < size; i++ {
		l.advanceByte()
	}
	raw := string(r)
	l.pushPopContext(raw)
	l.setToken(Token{Tag: TPunct, Raw: raw, Start: start, HasNewlineBefore: nl})
}

// pushPopContext maintains the paren/brace context stack used for
// disambiguating "/" and for matching "${...}" back to template text.
func (l *Lexer) pushPopContext(raw string) {
	switch raw {
	case "(":
		l.context = append(l.context, ctxParen)
	case "{":
		l.context = append(l.context, ctxBrace)
	case ")", "}":
		if len(l.context) > 0 && raw != "}" {
			l.context = l.context[:len(l.context)-1]
		} else if raw == "}" && len(l.context) > 0 && l.context[len(l.context)-1] != ctxTemplateBrace {
			l.context = l.context[:len(l.context)-1]
		}
	}
}

// IsInsideTemplateBrace reports whether the next "}" should resume template
// scanning rather than being treated as an ordinary brace close. The parser
// consults this before calling ResumeTemplate.
func (l *Lexer) IsInsideTemplateBrace() bool {
	return len(l.context) > 0 && l.context[len(l.context)-1] == ctxTemplateBrace
}

// lexerMark captures enough of the lexer's state to restore it after a
// speculative Next(), used by the Peek* helpers below to look one token past
// the current one (e.g. distinguishing an `async function` declaration from
// `async` used as a plain identifier) without disturbing the real cursor.
type lexerMark struct {
	pos, line, col int32
	expectExprNext bool
	context        []contextKind
	token          Token
	lastTokStart   diag.Position
	lastTokEnd     diag.Position
}

func (l *Lexer) mark() lexerMark {
	ctx := make([]contextKind, len(l.context))
	copy(ctx, l.context)
	return lexerMark{
		pos: l.pos, line: l.line, col: l.col,
		expectExprNext: l.expectExprNext,
		context:        ctx,
		token:          l.Token,
		lastTokStart:   l.LastTokStart,
		lastTokEnd:     l.LastTokEnd,
	}
}

func (l *Lexer) reset(m lexerMark) {
	l.pos, l.line, l.col = m.pos, m.line, m.col
	l.expectExprNext = m.expectExprNext
	l.context = m.context
	l.Token = m.token
	l.LastTokStart = m.lastTokStart
	l.LastTokEnd = m.lastTokEnd
}

// Snapshot captures the lexer's current state so a speculative parse (arrow
// vs. parenthesized expression, labeled statement vs. expression statement)
// can be undone with Restore.
type Snapshot struct{ m lexerMark }

func (l *Lexer) Snapshot() Snapshot { return Snapshot{m: l.mark()} }

func (l *Lexer) Restore(s Snapshot) { l.reset(s.m) }

// PeekHasNewlineBefore reports whether a line terminator precedes the token
// after the current one, without consuming it.
func (l *Lexer) PeekHasNewlineBefore() bool {
	m := l.mark()
	l.Next()
	result := l.Token.HasNewlineBefore
	l.reset(m)
	return result
}

// PeekIsKeyword reports whether the token after the current one is the
// keyword kw, without consuming it.
func (l *Lexer) PeekIsKeyword(kw string) bool {
	m := l.mark()
	l.Next()
	result := l.Token.Tag == TKeyword && l.Token.Raw == kw
	l.reset(m)
	return result
}

// PeekIsPunct reports whether the token after the current one is the
// punctuator s, without consuming it.
func (l *Lexer) PeekIsPunct(s string) bool {
	m := l.mark()
	l.Next()
	result := l.Token.Tag == TPunct && l.Token.Raw == s
	l.reset(m)
	return result
}
