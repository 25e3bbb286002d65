// Package jslexer implements spec.md §4.1: an on-demand JavaScript
// tokenizer. Token kinds and the lexer's overall shape (regex/division
// disambiguation from the preceding token, a context stack for template
// substitution braces, lastTokStart/lastTokEnd position
// bookkeeping, ASI helpers) follow the teacher's internal/js_lexer, adapted
// to this spec's Position{Line, Column, Index} model.
package jslexer

import "github.com/mpokorny/njsast/internal/diag"

// Tag enumerates token kinds. Unlike the teacher, which keeps hundreds of
// one-punctuator-per-constant entries (TAmpersand, TAmpersandAmpersand, …),
// punctuators here are identified by their literal text in Token.Raw and
// tagged generically as TPunct — this spec's parser looks punctuators up by
// text (see jsparser's operator tables) rather than switching on hundreds of
// named constants, so the finer-grained teacher enumeration would be dead
// weight here.
type Tag uint8

const (
	TEOF Tag = iota
	TError

	TName
	TPrivateName // "#foo"
	TNum
	TString
	TBigInt
	TRegexp

	// Pseudo-literals for untagged/tagged templates. Cooked and raw text
	// both travel in Token.StringValue / Token.RawTemplate. TInvalidTemplate
	// is the tag for a template literal containing an escape sequence that
	// isn't valid outside of a tagged template (spec.md §4.1); the lexer's
	// escape scanner accepts every escape sequence, so scanTemplate never
	// produces this tag.
	TTemplateHead
	TTemplateMiddle
	TTemplateTail
	TNoSubstitutionTemplate
	TInvalidTemplate

	TPunct   // any operator/punctuator; exact spelling in Token.Raw
	TKeyword // a reserved word; exact spelling in Token.Raw

	THashbang // "#!/usr/bin/env node", only valid at byte 0
)

// Token is the lexer's unit of output: a tag, an optional literal payload,
// and the source span it occupies (spec.md §3 "Token").
type Token struct {
	Tag   Tag
	Raw   string // exact source text (identifier/keyword/punctuator spelling)
	Start diag.Position
	End   diag.Position

	// Literal payloads, populated depending on Tag.
	NumValue     float64
	StringValue  []uint16
	RawTemplate  string // raw (uncooked) text for template tokens
	RegexPattern string
	RegexFlags   string

	// HasNewlineBefore is true when a line terminator appears between this
	// token and the previous one — required for ASI and for disambiguating
	// `async\nfunction` from an async function expression.
	HasNewlineBefore bool
}
