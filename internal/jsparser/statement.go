package jsparser

import (
	"github.com/mpokorny/njsast/internal/diag"
	"github.com/mpokorny/njsast/internal/jsast"
	"github.com/mpokorny/njsast/internal/jslexer"
)

// parseStmtListUntilEOF parses a top-level or function-body statement list,
// applying the directive prologue rule of spec.md §3/§4.2: a string-literal
// ExpressionStatement before any non-string statement keeps canBeDirective
// true, and a "use strict" directive there turns on strict mode for the
// rest of the body.
func (p *parser) parseStmtListUntilEOF() []jsast.Stmt {
	return p.parseStmtList(nil)
}

func (p *parser) atEOF() bool {
	return p.tok().Tag == jslexer.TEOF
}

func (p *parser) parseStmtList(stop func() bool) []jsast.Stmt {
	var body []jsast.Stmt
	canBeDirective := true
	for !p.atEOF() && !p.isBlockEnd() {
		if stop != nil && stop() {
			break
		}
		s := p.parseStatement()
		if canBeDirective {
			if simple, ok := s.Data.(*jsast.SSimple); ok {
				if str, ok := simple.Value.Data.(*jsast.EString); ok {
					if decodeUTF16(str.Value) == "use strict" {
						p.strict = true
					}
					body = append(body, s)
					continue
				}
			}
			canBeDirective = false
		}
		body = append(body, s)
	}
	return body
}

func (p *parser) isBlockEnd() bool {
	return p.isPunct("}")
}

// decodeUTF16 converts a string literal's UTF-16 code units to a Go string,
// combining surrogate pairs.
func decodeUTF16(u []uint16) string {
	r := make([]rune, 0, len(u))
	for i := 0; i < len(u); i++ {
		c := rune(u[i])
		if c >= 0xD800 && c <= 0xDBFF && i+1 < len(u) && u[i+1] >= 0xDC00 && u[i+1] <= 0xDFFF {
			c = (c-0xD800)<<10 + (rune(u[i+1]) - 0xDC00) + 0x10000
			i++
		}
		r = append(r, c)
	}
	return string(r)
}

func (p *parser) parseBlockBody() []jsast.Stmt {
	p.expectPunct("{")
	body := p.parseStmtList(nil)
	p.expectPunct("}")
	return body
}

// parseStatement dispatches on the current token to the right statement
// production.
func (p *parser) parseStatement() jsast.Stmt {
	start := p.pos()
	t := p.tok()

	if t.Tag == jslexer.TPunct && t.Raw == "{" {
		body := p.parseBlockBody()
		return jsast.StmtAt(start, &jsast.SBlock{Body: body})
	}
	if t.Tag == jslexer.TPunct && t.Raw == ";" {
		p.next()
		return jsast.StmtAt(start, &jsast.SEmpty{})
	}

	if t.Tag == jslexer.TKeyword || (t.Tag == jslexer.TName && jslexer.ContextualKeywords[t.Raw]) {
		switch t.Raw {
		case "var", "let", "const":
			if t.Raw != "var" && !p.looksLikeDeclaration() {
				break
			}
			s := p.parseVarStatement()
			p.expectSemicolon()
			return s
		case "if":
			return p.parseIf()
		case "while":
			return p.parseWhile()
		case "do":
			return p.parseDo()
		case "for":
			return p.parseFor()
		case "switch":
			return p.parseSwitch()
		case "try":
			return p.parseTry()
		case "throw":
			return p.parseThrow()
		case "return":
			return p.parseReturn()
		case "break":
			return p.parseBreakContinue(true)
		case "continue":
			return p.parseBreakContinue(false)
		case "function":
			fn := p.parseFunction(false)
			return jsast.StmtAt(start, &jsast.SFunctionDecl{Fn: fn})
		case "async":
			if p.peekIsFunctionNoNewline() {
				p.next()
				fn := p.parseFunction(true)
				return jsast.StmtAt(start, &jsast.SFunctionDecl{Fn: fn})
			}
		case "class":
			c := p.parseClass()
			return jsast.StmtAt(start, &jsast.SClassDecl{Class: c})
		case "with":
			return p.parseWith()
		case "debugger":
			p.next()
			p.expectSemicolon()
			return jsast.StmtAt(start, &jsast.SDebugger{})
		case "import":
			if !p.peekIsCallOrDot() {
				return p.parseImport()
			}
		case "export":
			return p.parseExport()
		}
	}

	// Labeled statement: Name ":" .
	if t.Tag == jslexer.TName {
		name := t.Raw
		snap := p.lex.Snapshot()
		p.next()
		if p.isPunct(":") {
			p.next()
			return p.parseLabeledRest(start, name)
		}
		p.lex.Restore(snap)
	}

	expr := p.parseExpression()
	p.expectSemicolon()
	return jsast.StmtAt(start, &jsast.SSimple{Value: expr})
}

// looksLikeDeclaration distinguishes `let` the keyword from `let` used as an
// ordinary identifier: the current token starts a declaration when the next
// token is a name, "[" or "{" (so `let = 1` or `let.x` in sloppy mode is a
// statement starting with the identifier `let`, not a `let` declaration).
func (p *parser) looksLikeDeclaration() bool {
	snap := p.lex.Snapshot()
	defer p.lex.Restore(snap)
	p.lex.Next()
	t := p.lex.Token
	return t.Tag == jslexer.TName || (t.Tag == jslexer.TPunct && (t.Raw == "[" || t.Raw == "{"))
}

func (p *parser) peekIsFunctionNoNewline() bool {
	return !p.lex.PeekHasNewlineBefore() && p.lex.PeekIsKeyword("function")
}

func (p *parser) peekIsCallOrDot() bool {
	return p.lex.PeekIsPunct("(") || p.lex.PeekIsPunct(".")
}

func (p *parser) parseLabeledRest(start diag.Position, name string) jsast.Stmt {
	for _, l := range p.labels {
		if l.Name == name {
			p.semanticError(p.rangeFrom(start), "label %q is already declared", name)
		}
	}
	isLoop := p.isKeyword("for") || p.isKeyword("while") || p.isKeyword("do")
	p.labels = append(p.labels, Label{Name: name, IsLoop: isLoop})
	body := p.parseStatement()
	p.labels = p.labels[:len(p.labels)-1]
	return jsast.StmtAt(start, &jsast.SLabeled{Label: name, IsLoop: isLoop, Body: body})
}

func (p *parser) parseIf() jsast.Stmt {
	start := p.expectKeyword("if")
	p.expectPunct("(")
	test := p.parseExpression()
	p.expectPunct(")")
	cons := p.parseStatement()
	var alt jsast.Stmt
	if p.eatKeyword("else") {
		alt = p.parseStatement()
	}
	return jsast.StmtAt(start, &jsast.SIf{Test: test, Consequent: cons, Alternate: alt})
}

func (p *parser) parseWhile() jsast.Stmt {
	start := p.expectKeyword("while")
	p.expectPunct("(")
	test := p.parseExpression()
	p.expectPunct(")")
	restoreBreak, restoreCont := p.allowBreak, p.allowContinue
	p.allowBreak, p.allowContinue = true, true
	body := p.parseStatement()
	p.allowBreak, p.allowContinue = restoreBreak, restoreCont
	return jsast.StmtAt(start, &jsast.SWhile{Test: test, Body: body})
}

func (p *parser) parseDo() jsast.Stmt {
	start := p.expectKeyword("do")
	restoreBreak, restoreCont := p.allowBreak, p.allowContinue
	p.allowBreak, p.allowContinue = true, true
	body := p.parseStatement()
	p.allowBreak, p.allowContinue = restoreBreak, restoreCont
	p.expectKeyword("while")
	p.expectPunct("(")
	test := p.parseExpression()
	p.expectPunct(")")
	p.eatPunct(";")
	return jsast.StmtAt(start, &jsast.SDo{Body: body, Test: test})
}

// parseFor implements spec.md §4.2's for/for-in/for-of disambiguation:
// parse the init with noIn=true, then decide the statement shape from
// whether "in"/"of" follows.
func (p *parser) parseFor() jsast.Stmt {
	start := p.expectKeyword("for")
	isAwait := false
	if p.isKeyword("await") {
		if !p.inAsync {
			p.unexpected("\"for await\" is only valid inside an async function")
		}
		isAwait = true
		p.next()
	}
	p.expectPunct("(")

	var init jsast.Node
	if !p.isPunct(";") {
		if p.isKeyword("var") || p.isKeyword("let") || p.isKeyword("const") {
			init = p.parseVarDeclNoIn()
		} else {
			init = p.parseExpressionNoIn()
		}
	}

	if p.isKeyword("in") || p.isKeyword("of") {
		isOf := p.isKeyword("of")
		p.next()
		left := toForBindingTarget(p, init)
		var right jsast.Expr
		if isOf {
			right = p.parseAssignExpr()
		} else {
			right = p.parseExpression()
		}
		p.expectPunct(")")
		restoreBreak, restoreCont := p.allowBreak, p.allowContinue
		p.allowBreak, p.allowContinue = true, true
		body := p.parseStatement()
		p.allowBreak, p.allowContinue = restoreBreak, restoreCont
		if isOf {
			return jsast.StmtAt(start, &jsast.SForOf{Left: left, Right: right, Body: body, IsAwait: isAwait})
		}
		return jsast.StmtAt(start, &jsast.SForIn{Left: left, Right: right, Body: body})
	}

	p.expectPunct(";")
	var cond jsast.Expr
	if !p.isPunct(";") {
		cond = p.parseExpression()
	}
	p.expectPunct(";")
	var update jsast.Expr
	if !p.isPunct(")") {
		update = p.parseExpression()
	}
	p.expectPunct(")")
	restoreBreak, restoreCont := p.allowBreak, p.allowContinue
	p.allowBreak, p.allowContinue = true, true
	body := p.parseStatement()
	p.allowBreak, p.allowContinue = restoreBreak, restoreCont
	return jsast.StmtAt(start, &jsast.SFor{Init: init, Condition: cond, Update: update, Body: body})
}

// toForBindingTarget converts the already-parsed for-head into the single
// assignable binding a for-in/for-of left side requires, per spec.md §4.2:
// "must contain exactly one declarator without an initializer".
func toForBindingTarget(p *parser, init jsast.Node) jsast.Node {
	switch v := init.(type) {
	case jsast.Stmt:
		if decl, ok := v.Data.(*jsast.SDeclare); ok {
			if len(decl.Defs) != 1 || decl.Defs[0].Value.Data != nil {
				p.semanticError(diag.Range{}, "for-in/for-of loop variable declaration may not have an initializer")
			}
			return v
		}
		return v
	case jsast.Expr:
		return toAssignable(p, v)
	}
	return init
}

func (p *parser) parseSwitch() jsast.Stmt {
	start := p.expectKeyword("switch")
	p.expectPunct("(")
	disc := p.parseExpression()
	p.expectPunct(")")
	p.expectPunct("{")
	var cases []jsast.SwitchCase
	sawDefault := false
	restoreBreak := p.allowBreak
	p.allowBreak = true
	for !p.isPunct("}") && !p.atEOF() {
		var test jsast.Expr
		if p.eatKeyword("case") {
			test = p.parseExpression()
		} else {
			p.expectKeyword("default")
			if sawDefault {
				p.semanticError(p.rangeFrom(start), "multiple default clauses in switch")
			}
			sawDefault = true
		}
		p.expectPunct(":")
		var body []jsast.Stmt
		for !p.isPunct("}") && !p.isKeyword("case") && !p.isKeyword("default") && !p.atEOF() {
			body = append(body, p.parseStatement())
		}
		cases = append(cases, jsast.SwitchCase{Test: test, Body: body})
	}
	p.allowBreak = restoreBreak
	p.expectPunct("}")
	return jsast.StmtAt(start, &jsast.SSwitch{Discriminant: disc, Cases: cases})
}

func (p *parser) parseTry() jsast.Stmt {
	start := p.expectKeyword("try")
	body := p.parseBlockBody()
	var catch *jsast.SCatch
	var finally []jsast.Stmt
	if p.eatKeyword("catch") {
		var binding jsast.Node
		if p.eatPunct("(") {
			binding = p.parseBindingTarget()
			p.expectPunct(")")
		}
		catchBody := p.parseBlockBody()
		catch = &jsast.SCatch{Binding: binding, Body: catchBody}
	}
	if p.eatKeyword("finally") {
		finally = p.parseBlockBody()
	}
	if catch == nil && finally == nil {
		p.unexpected("expected \"catch\" or \"finally\"")
	}
	return jsast.StmtAt(start, &jsast.STry{Body: body, Catch: catch, Finally: finally})
}

func (p *parser) parseThrow() jsast.Stmt {
	start := p.expectKeyword("throw")
	if p.lex.Token.HasNewlineBefore {
		p.semanticError(p.rangeFrom(start), "illegal newline after \"throw\"")
	}
	v := p.parseExpression()
	p.expectSemicolon()
	return jsast.StmtAt(start, &jsast.SThrow{Value: v})
}

func (p *parser) parseReturn() jsast.Stmt {
	start := p.expectKeyword("return")
	if !p.inFunction {
		p.semanticError(p.rangeFrom(start), "\"return\" outside of a function")
	}
	var v jsast.Expr
	if !p.isPunct(";") && !p.isPunct("}") && !p.atEOF() && !p.lex.Token.HasNewlineBefore {
		v = p.parseExpression()
	}
	p.expectSemicolon()
	return jsast.StmtAt(start, &jsast.SReturn{Value: v})
}

func (p *parser) parseBreakContinue(isBreak bool) jsast.Stmt {
	start := p.pos()
	p.next()
	label := ""
	if p.isName() && !p.lex.Token.HasNewlineBefore {
		label, _ = p.parseIdentName()
	}
	if label != "" {
		found := false
		for _, l := range p.labels {
			if l.Name == label {
				found = true
				if !isBreak && !l.IsLoop {
					p.semanticError(p.rangeFrom(start), "\"continue\" target %q is not a loop", label)
				}
				break
			}
		}
		if !found {
			p.semanticError(p.rangeFrom(start), "label %q is not defined", label)
		}
	} else {
		if isBreak && !p.allowBreak {
			p.semanticError(p.rangeFrom(start), "\"break\" outside of a loop or switch")
		}
		if !isBreak && !p.allowContinue {
			p.semanticError(p.rangeFrom(start), "\"continue\" outside of a loop")
		}
	}
	p.expectSemicolon()
	if isBreak {
		return jsast.StmtAt(start, &jsast.SBreak{Label: label})
	}
	return jsast.StmtAt(start, &jsast.SContinue{Label: label})
}

func (p *parser) parseWith() jsast.Stmt {
	start := p.expectKeyword("with")
	if p.strict {
		p.semanticError(p.rangeFrom(start), "\"with\" statements are not allowed in strict mode")
	}
	p.expectPunct("(")
	obj := p.parseExpression()
	p.expectPunct(")")
	body := p.parseStatement()
	return jsast.StmtAt(start, &jsast.SWith{Object: obj, Body: body})
}

// ---------------------------------------------------------------------------
// Declarations

func declKindFromKeyword(s string) jsast.DeclKind {
	switch s {
	case "let":
		return jsast.DeclLet
	case "const":
		return jsast.DeclConst
	default:
		return jsast.DeclVar
	}
}

func (p *parser) parseVarStatement() jsast.Stmt {
	return p.parseVarDeclCommon(false)
}

func (p *parser) parseVarDeclNoIn() jsast.Node {
	return p.parseVarDeclCommon(true)
}

func (p *parser) parseVarDeclCommon(noIn bool) jsast.Stmt {
	start := p.pos()
	kindWord := p.tok().Raw
	p.next()
	kind := declKindFromKeyword(kindWord)
	var defs []jsast.VarDef
	for {
		binding := p.parseBindingTarget()
		var value jsast.Expr
		if p.eatPunct("=") {
			value = p.parseAssignExprNoIn(noIn)
		} else if kind == jsast.DeclConst {
			p.semanticError(p.rangeFrom(start), "missing initializer in const declaration")
		}
		defs = append(defs, jsast.VarDef{Binding: binding, Value: value})
		if !p.eatPunct(",") {
			break
		}
	}
	return jsast.StmtAt(start, &jsast.SDeclare{Kind: kind, Defs: defs})
}

// parseBindingTarget parses either a plain identifier or a destructuring
// pattern (object/array), used for var/let/const names, parameters, and
// catch bindings.
func (p *parser) parseBindingTarget() jsast.Node {
	return p.parseBindingTargetExpr()
}

// ---------------------------------------------------------------------------
// Import / Export

func (p *parser) parseImport() jsast.Stmt {
	start := p.expectKeyword("import")
	var def *jsast.SymbolDef
	var whole *jsast.SymbolDef
	var mappings []jsast.NameMapping

	if p.isName() {
		sym := p.parseBindingIdent()
		def = &jsast.SymbolDef{Name: sym.Name}
		p.eatPunct(",")
	}
	if p.eatPunct("*") {
		p.expectKeyword("as")
		sym := p.parseBindingIdent()
		whole = &jsast.SymbolDef{Name: sym.Name}
	} else if p.eatPunct("{") {
		for !p.isPunct("}") {
			foreign, _ := p.parseIdentName()
			local := foreign
			if p.eatKeyword("as") {
				local, _ = p.parseIdentName()
			}
			mappings = append(mappings, jsast.NameMapping{Foreign: foreign, Local: local})
			if !p.eatPunct(",") {
				break
			}
		}
		p.expectPunct("}")
	}

	source := ""
	if def != nil || whole != nil || len(mappings) > 0 {
		p.expectKeyword("from")
	}
	source = p.parseStringLiteralRaw()
	p.expectSemicolon()
	return jsast.StmtAt(start, &jsast.SImport{Source: source, Default: def, WholeAs: whole, Mappings: mappings})
}

func (p *parser) parseExport() jsast.Stmt {
	start := p.expectKeyword("export")
	if p.eatKeyword("default") {
		var decl jsast.Stmt
		switch {
		case p.isKeyword("function"):
			fn := p.parseFunction(false)
			decl = jsast.StmtAt(start, &jsast.SFunctionDecl{Fn: fn})
		case p.isKeyword("async") && p.peekIsFunctionNoNewline():
			p.next()
			fn := p.parseFunction(true)
			decl = jsast.StmtAt(start, &jsast.SFunctionDecl{Fn: fn})
		case p.isKeyword("class"):
			c := p.parseClass()
			decl = jsast.StmtAt(start, &jsast.SClassDecl{Class: c})
		default:
			v := p.parseAssignExpr()
			p.expectSemicolon()
			decl = jsast.StmtAt(start, &jsast.SSimple{Value: v})
		}
		return jsast.StmtAt(start, &jsast.SExport{Decl: decl, IsDefault: true})
	}

	if p.eatPunct("*") {
		source := ""
		var mappings []jsast.NameMapping
		if p.eatKeyword("as") {
			local, _ := p.parseIdentName()
			mappings = []jsast.NameMapping{{Foreign: "*", Local: local}}
		}
		p.expectKeyword("from")
		source = p.parseStringLiteralRaw()
		p.expectSemicolon()
		return jsast.StmtAt(start, &jsast.SExport{Source: source, Mappings: mappings, IsWhole: true})
	}

	if p.isPunct("{") {
		p.next()
		var mappings []jsast.NameMapping
		for !p.isPunct("}") {
			local, _ := p.parseIdentName()
			foreign := local
			if p.eatKeyword("as") {
				foreign, _ = p.parseIdentName()
			}
			mappings = append(mappings, jsast.NameMapping{Foreign: foreign, Local: local})
			if !p.eatPunct(",") {
				break
			}
		}
		p.expectPunct("}")
		source := ""
		if p.eatKeyword("from") {
			source = p.parseStringLiteralRaw()
		}
		p.expectSemicolon()
		return jsast.StmtAt(start, &jsast.SExport{Source: source, Mappings: mappings})
	}

	decl := p.parseStatement()
	return jsast.StmtAt(start, &jsast.SExport{Decl: decl})
}

func (p *parser) parseStringLiteralRaw() string {
	t := p.tok()
	if t.Tag != jslexer.TString {
		p.unexpected("expected a string literal")
	}
	s := decodeUTF16(t.StringValue)
	p.next()
	return s
}

func (p *parser) semErrf(format string, args ...interface{}) {
	p.semanticError(diag.Range{Start: p.pos(), End: p.pos()}, format, args...)
}
