package jsparser

import (
	"github.com/mpokorny/njsast/internal/diag"
	"github.com/mpokorny/njsast/internal/jsast"
	"github.com/mpokorny/njsast/internal/jslexer"
)

// ---------------------------------------------------------------------------
// Entry points

func (p *parser) parseExpression() jsast.Expr {
	return p.parseExpressionCommon(false)
}

func (p *parser) parseExpressionNoIn() jsast.Expr {
	return p.parseExpressionCommon(true)
}

// parseExpressionCommon is spec.md §4.2's Expression production: an
// assignment expression, optionally followed by a comma-separated tail that
// collapses into a Sequence node.
func (p *parser) parseExpressionCommon(noIn bool) jsast.Expr {
	start := p.pos()
	first := p.parseAssignExprNoIn(noIn)
	if !p.isPunct(",") {
		return first
	}
	exprs := []jsast.Expr{first}
	for p.eatPunct(",") {
		exprs = append(exprs, p.parseAssignExprNoIn(noIn))
	}
	return jsast.ExprAt(start, &jsast.ESequence{Expressions: exprs})
}

func (p *parser) parseAssignExpr() jsast.Expr {
	return p.parseAssignExprNoIn(false)
}

// parseAssignExprNoIn implements spec.md §4.2's arrow disambiguation: arrow
// shapes (bare identifier or parenthesized param list followed by "=>") are
// detected before falling into ordinary conditional/binary parsing, since an
// arrow can only appear where the grammar also allows a primary expression.
func (p *parser) parseAssignExprNoIn(noIn bool) jsast.Expr {
	start := p.pos()

	if p.inGenerator && p.isKeyword("yield") {
		return p.parseYieldExpr()
	}

	if p.isName() && !jslexer.Keywords[p.tok().Raw] && p.lex.PeekIsPunct("=>") {
		sym := p.parseBindingIdent()
		param := jsast.Param{Binding: jsast.Expr{Loc: start, Data: sym}}
		return p.parseArrowFromParams(start, []jsast.Param{param}, false)
	}

	if p.isKeyword("async") && !p.lex.PeekHasNewlineBefore() {
		if p.lex.PeekIsPunct("(") {
			snap := p.lex.Snapshot()
			p.next()
			if expr, ok := p.parseParenOrArrowMaybe(start, true); ok {
				return expr
			}
			p.lex.Restore(snap)
		} else if p.asyncIdentArrowFollows() {
			p.next() // consume "async"
			sym := p.parseBindingIdent()
			param := jsast.Param{Binding: jsast.Expr{Loc: start, Data: sym}}
			return p.parseArrowFromParams(start, []jsast.Param{param}, true)
		}
	}

	left := p.parseConditionalExpr(noIn)
	if op, ok := assignOpFor(p.tok()); ok {
		p.next()
		target := toAssignable(p, left)
		right := p.parseAssignExprNoIn(noIn)
		return jsast.ExprAt(start, &jsast.EAssign{Op: op, Left: target, Right: right})
	}
	return left
}

// asyncIdentArrowFollows looks two tokens past the current "async" token to
// check for the `async ident => ...` shape, restoring the lexer afterward.
func (p *parser) asyncIdentArrowFollows() bool {
	snap := p.lex.Snapshot()
	defer p.lex.Restore(snap)
	p.lex.Next()
	if p.lex.Token.Tag != jslexer.TName || p.lex.Token.HasNewlineBefore || jslexer.Keywords[p.lex.Token.Raw] {
		return false
	}
	p.lex.Next()
	return p.lex.Token.Tag == jslexer.TPunct && p.lex.Token.Raw == "=>" && !p.lex.Token.HasNewlineBefore
}

func (p *parser) parseYieldExpr() jsast.Expr {
	start := p.expectKeyword("yield")
	delegate := p.eatPunct("*")
	var value jsast.Expr
	t := p.tok()
	stopsValue := t.HasNewlineBefore || p.atEOF() ||
		(t.Tag == jslexer.TPunct && (t.Raw == ")" || t.Raw == "]" || t.Raw == "}" || t.Raw == "," || t.Raw == ";" || t.Raw == ":"))
	if !stopsValue {
		value = p.parseAssignExpr()
	}
	return jsast.ExprAt(start, &jsast.EYield{Value: value, Delegate: delegate})
}

// ---------------------------------------------------------------------------
// Conditional / binary precedence climbing

const nullishPrec = 3

var binOpPrec = map[string]int{
	"??": 3, "||": 4, "&&": 5, "|": 6, "^": 7, "&": 8,
	"==": 9, "!=": 9, "===": 9, "!==": 9,
	"<": 10, ">": 10, "<=": 10, ">=": 10, "instanceof": 10, "in": 10,
	"<<": 11, ">>": 11, ">>>": 11,
	"+": 12, "-": 12,
	"*": 13, "/": 13, "%": 13,
	"**": 14,
}

var binOpCode = map[string]jsast.OpCode{
	"??": jsast.BinOpNullishCoalescing, "||": jsast.BinOpLogicalOr, "&&": jsast.BinOpLogicalAnd,
	"|": jsast.BinOpBitOr, "^": jsast.BinOpBitXor, "&": jsast.BinOpBitAnd,
	"==": jsast.BinOpLooseEq, "!=": jsast.BinOpLooseNe, "===": jsast.BinOpStrictEq, "!==": jsast.BinOpStrictNe,
	"<": jsast.BinOpLt, ">": jsast.BinOpGt, "<=": jsast.BinOpLe, ">=": jsast.BinOpGe,
	"instanceof": jsast.BinOpInstanceof, "in": jsast.BinOpIn,
	"<<": jsast.BinOpShl, ">>": jsast.BinOpShr, ">>>": jsast.BinOpUShr,
	"+": jsast.BinOpAdd, "-": jsast.BinOpSub,
	"*": jsast.BinOpMul, "/": jsast.BinOpDiv, "%": jsast.BinOpMod,
	"**": jsast.BinOpPow,
}

var assignPunctOp = map[string]jsast.OpCode{
	"=": jsast.AssignOpNone, "+=": jsast.AssignOpAdd, "-=": jsast.AssignOpSub,
	"*=": jsast.AssignOpMul, "/=": jsast.AssignOpDiv, "%=": jsast.AssignOpMod,
	"**=": jsast.AssignOpPow, "<<=": jsast.AssignOpShl, ">>=": jsast.AssignOpShr, ">>>=": jsast.AssignOpUShr,
	"|=": jsast.AssignOpBitOr, "&=": jsast.AssignOpBitAnd, "^=": jsast.AssignOpBitXor,
	"??=": jsast.AssignOpNullishCoalescing, "||=": jsast.AssignOpLogicalOr, "&&=": jsast.AssignOpLogicalAnd,
}

func assignOpFor(t jslexer.Token) (jsast.OpCode, bool) {
	if t.Tag != jslexer.TPunct {
		return 0, false
	}
	op, ok := assignPunctOp[t.Raw]
	return op, ok
}

func (p *parser) parseConditionalExpr(noIn bool) jsast.Expr {
	start := p.pos()
	test := p.parseBinary(nullishPrec, noIn)
	if p.eatPunct("?") {
		cons := p.parseAssignExpr()
		p.expectPunct(":")
		alt := p.parseAssignExprNoIn(noIn)
		return jsast.ExprAt(start, &jsast.EConditional{Test: test, Consequent: cons, Alternate: alt})
	}
	return test
}

func (p *parser) parseBinary(minPrec int, noIn bool) jsast.Expr {
	left := p.parseUnaryExpr()
	return p.parseBinaryRest(left, minPrec, noIn)
}

func (p *parser) currentBinOp(noIn bool) (string, int, bool) {
	t := p.tok()
	if t.Tag == jslexer.TPunct {
		if prec, ok := binOpPrec[t.Raw]; ok {
			return t.Raw, prec, true
		}
		return "", 0, false
	}
	if t.Tag == jslexer.TKeyword && t.Raw == "instanceof" {
		return t.Raw, binOpPrec["instanceof"], true
	}
	if t.Tag == jslexer.TKeyword && t.Raw == "in" && !noIn {
		return t.Raw, binOpPrec["in"], true
	}
	return "", 0, false
}

func (p *parser) parseBinaryRest(left jsast.Expr, minPrec int, noIn bool) jsast.Expr {
	for {
		opStr, prec, ok := p.currentBinOp(noIn)
		if !ok || prec < minPrec {
			return left
		}
		start := left.Loc
		p.next()
		right := p.parseUnaryExpr()
		for {
			_, prec2, ok2 := p.currentBinOp(noIn)
			nextMin := prec + 1
			if opStr == "**" {
				nextMin = prec // right-associative: allow chaining at equal precedence
			}
			if !ok2 || prec2 < nextMin {
				break
			}
			right = p.parseBinaryRest(right, prec2, noIn)
		}
		left = jsast.ExprAt(start, &jsast.EBinary{Op: binOpCode[opStr], Left: left, Right: right})
	}
}

// ---------------------------------------------------------------------------
// Unary / postfix / call chains

func (p *parser) parseUnaryExpr() jsast.Expr {
	start := p.pos()
	t := p.tok()
	if t.Tag == jslexer.TPunct {
		switch t.Raw {
		case "+":
			p.next()
			return jsast.ExprAt(start, &jsast.EUnaryPrefix{Op: jsast.UnOpPos, Operand: p.parseUnaryExpr()})
		case "-":
			p.next()
			return jsast.ExprAt(start, &jsast.EUnaryPrefix{Op: jsast.UnOpNeg, Operand: p.parseUnaryExpr()})
		case "~":
			p.next()
			return jsast.ExprAt(start, &jsast.EUnaryPrefix{Op: jsast.UnOpCpl, Operand: p.parseUnaryExpr()})
		case "!":
			p.next()
			return jsast.ExprAt(start, &jsast.EUnaryPrefix{Op: jsast.UnOpNot, Operand: p.parseUnaryExpr()})
		case "++":
			p.next()
			return jsast.ExprAt(start, &jsast.EUnaryPrefix{Op: jsast.UnOpPreInc, Operand: p.parseUnaryExpr()})
		case "--":
			p.next()
			return jsast.ExprAt(start, &jsast.EUnaryPrefix{Op: jsast.UnOpPreDec, Operand: p.parseUnaryExpr()})
		}
	}
	if t.Tag == jslexer.TKeyword {
		switch t.Raw {
		case "typeof":
			p.next()
			return jsast.ExprAt(start, &jsast.EUnaryPrefix{Op: jsast.UnOpTypeof, Operand: p.parseUnaryExpr()})
		case "void":
			p.next()
			return jsast.ExprAt(start, &jsast.EUnaryPrefix{Op: jsast.UnOpVoid, Operand: p.parseUnaryExpr()})
		case "delete":
			p.next()
			return jsast.ExprAt(start, &jsast.EUnaryPrefix{Op: jsast.UnOpDelete, Operand: p.parseUnaryExpr()})
		}
	}
	if t.Tag == jslexer.TName && t.Raw == "await" && p.inAsync {
		p.next()
		return jsast.ExprAt(start, &jsast.EAwait{Value: p.parseUnaryExpr()})
	}
	return p.parsePostfixExpr()
}

func (p *parser) parsePostfixExpr() jsast.Expr {
	start := p.pos()
	expr := p.parseLeftHandSideExpr()
	if (p.isPunct("++") || p.isPunct("--")) && !p.tok().HasNewlineBefore {
		op := jsast.UnOpPostInc
		if p.tok().Raw == "--" {
			op = jsast.UnOpPostDec
		}
		p.next()
		expr = jsast.ExprAt(start, &jsast.EUnaryPostfix{Op: op, Operand: expr})
	}
	return expr
}

func (p *parser) parseLeftHandSideExpr() jsast.Expr {
	start := p.pos()
	var expr jsast.Expr
	if p.isKeyword("new") {
		expr = p.parseNewExpr()
	} else {
		expr = p.parsePrimaryExpr()
	}
	return p.parseCallTail(expr, start)
}

func (p *parser) parseNewExpr() jsast.Expr {
	start := p.expectKeyword("new")
	if p.isPunct(".") {
		p.next()
		name, _ := p.parseIdentName()
		if name != "target" {
			p.unexpected("expected \"target\"")
		}
		return jsast.ExprAt(start, &jsast.ENewTarget{})
	}
	calleeStart := p.pos()
	var callee jsast.Expr
	if p.isKeyword("new") {
		callee = p.parseNewExpr()
	} else {
		callee = p.parsePrimaryExpr()
	}
	callee = p.parseMemberTailNoCall(callee, calleeStart)
	var args []jsast.Arg
	if p.isPunct("(") {
		args = p.parseArgs()
	}
	return jsast.ExprAt(start, &jsast.ENew{Callee: callee, Args: args})
}

func (p *parser) parseMemberTailNoCall(expr jsast.Expr, start diag.Position) jsast.Expr {
	for {
		switch {
		case p.isPunct("."):
			p.next()
			name, _ := p.parseIdentName()
			expr = jsast.ExprAt(start, &jsast.EDot{Target: expr, Name: name})
		case p.isPunct("["):
			p.next()
			idx := p.parseExpression()
			p.expectPunct("]")
			expr = jsast.ExprAt(start, &jsast.ESub{Target: expr, Index: idx})
		default:
			return expr
		}
	}
}

func (p *parser) parseCallTail(expr jsast.Expr, start diag.Position) jsast.Expr {
	for {
		switch {
		case p.isPunct("."):
			p.next()
			name, _ := p.parseIdentName()
			expr = jsast.ExprAt(start, &jsast.EDot{Target: expr, Name: name})
		case p.isPunct("?."):
			p.next()
			switch {
			case p.isPunct("("):
				args := p.parseArgs()
				expr = jsast.ExprAt(start, &jsast.ECall{Callee: expr, Args: args, OptionalChain: true})
			case p.isPunct("["):
				p.next()
				idx := p.parseExpression()
				p.expectPunct("]")
				expr = jsast.ExprAt(start, &jsast.ESub{Target: expr, Index: idx, OptionalChain: true})
			default:
				name, _ := p.parseIdentName()
				expr = jsast.ExprAt(start, &jsast.EDot{Target: expr, Name: name, OptionalChain: true})
			}
		case p.isPunct("["):
			p.next()
			idx := p.parseExpression()
			p.expectPunct("]")
			expr = jsast.ExprAt(start, &jsast.ESub{Target: expr, Index: idx})
		case p.isPunct("("):
			args := p.parseArgs()
			expr = jsast.ExprAt(start, &jsast.ECall{Callee: expr, Args: args})
		case p.tok().Tag == jslexer.TNoSubstitutionTemplate || p.tok().Tag == jslexer.TTemplateHead:
			expr = p.parseTaggedTemplate(expr, start)
		default:
			return expr
		}
	}
}

func (p *parser) parseArgs() []jsast.Arg {
	p.expectPunct("(")
	var args []jsast.Arg
	for !p.isPunct(")") {
		if p.eatPunct("...") {
			args = append(args, jsast.Arg{Value: p.parseAssignExpr(), Spread: true})
		} else {
			args = append(args, jsast.Arg{Value: p.parseAssignExpr()})
		}
		if !p.eatPunct(",") {
			break
		}
	}
	p.expectPunct(")")
	return args
}

// ---------------------------------------------------------------------------
// Parenthesized expressions / arrow functions
//
// "(" is parsed once, as a comma-separated list of assignment expressions
// (spread allowed), regardless of whether it turns out to be an arrow
// parameter list or an ordinary parenthesized/sequence expression — the two
// shapes share the same token grammar up to the closing ")", so no
// backtracking is needed except to undo a speculative leading "async".

func (p *parser) parseParenOrArrowMaybe(start diag.Position, isAsync bool) (jsast.Expr, bool) {
	p.expectPunct("(")
	var items []jsast.Expr
	for !p.isPunct(")") {
		if p.eatPunct("...") {
			spreadStart := p.pos()
			items = append(items, jsast.ExprAt(spreadStart, &jsast.ESpread{Value: p.parseAssignExpr()}))
		} else {
			items = append(items, p.parseAssignExpr())
		}
		if !p.eatPunct(",") {
			break
		}
	}
	p.expectPunct(")")

	if p.isPunct("=>") && !p.tok().HasNewlineBefore {
		params := paramsFromExprList(p, items)
		return p.parseArrowFromParams(start, params, isAsync), true
	}
	if isAsync {
		return jsast.Expr{}, false
	}
	if len(items) == 0 {
		p.unexpected("expected an expression")
	}
	if len(items) == 1 {
		return items[0], true
	}
	return jsast.ExprAt(start, &jsast.ESequence{Expressions: items}), true
}

func (p *parser) parseArrowFromParams(start diag.Position, params []jsast.Param, isAsync bool) jsast.Expr {
	p.expectPunct("=>")
	restore := p.pushFunctionFlags(isAsync, false)
	var body []jsast.Stmt
	var exprBody jsast.Expr
	if p.isPunct("{") {
		body = p.parseBlockBody()
	} else {
		exprBody = p.parseAssignExpr()
	}
	restore()
	return jsast.ExprAt(start, &jsast.EArrow{Params: params, Body: body, ExprBody: exprBody, IsAsync: isAsync})
}

// paramsFromExprList reinterprets an already-parsed parenthesized expression
// list as an arrow parameter list, per spec.md §4.2's "Arrow disambiguation"
// design note: spread becomes a rest parameter, a top-level "=" assignment
// becomes a default value, and everything else is converted to a binding
// pattern via toAssignable.
func paramsFromExprList(p *parser, items []jsast.Expr) []jsast.Param {
	params := make([]jsast.Param, 0, len(items))
	for _, it := range items {
		if sp, ok := it.Data.(*jsast.ESpread); ok {
			params = append(params, jsast.Param{Binding: toAssignable(p, sp.Value), Rest: true})
			continue
		}
		if as, ok := it.Data.(*jsast.EAssign); ok && as.Op == jsast.AssignOpNone {
			params = append(params, jsast.Param{Binding: toAssignable(p, as.Left), DefaultValue: as.Right})
			continue
		}
		params = append(params, jsast.Param{Binding: toAssignable(p, it)})
	}
	return params
}

// toAssignable converts an expression parsed as a value into the binding
// pattern shape a destructuring assignment, variable declarator, or arrow
// parameter requires, per spec.md §4.2. Array/object literals recurse into
// their elements; anything else that isn't already a valid assignment target
// raises a semantic error.
func toAssignable(p *parser, e jsast.Expr) jsast.Expr {
	switch d := e.Data.(type) {
	case *jsast.ESymbol, *jsast.EDot, *jsast.ESub, *jsast.EHole:
		return e
	case *jsast.EAssign:
		if d.Op != jsast.AssignOpNone {
			p.semanticError(diag.Range{Start: e.Loc, End: e.Loc}, "invalid assignment target")
			return e
		}
		return jsast.ExprAt(e.Loc, &jsast.EAssign{Op: jsast.AssignOpNone, Left: toAssignable(p, d.Left), Right: d.Right})
	case *jsast.ESpread:
		return jsast.ExprAt(e.Loc, &jsast.ESpread{Value: toAssignable(p, d.Value)})
	case *jsast.EArray:
		items := make([]jsast.Expr, len(d.Items))
		for i, it := range d.Items {
			items[i] = toAssignable(p, it)
		}
		return jsast.ExprAt(e.Loc, &jsast.EArray{Items: items})
	case *jsast.EObject:
		props := make([]jsast.Property, len(d.Properties))
		for i, prop := range d.Properties {
			if prop.Kind == jsast.PropertySpread {
				props[i] = jsast.Property{Kind: jsast.PropertySpread, Key: toAssignable(p, prop.Key)}
				continue
			}
			prop.Value = toAssignable(p, prop.Value)
			props[i] = prop
		}
		return jsast.ExprAt(e.Loc, &jsast.EObject{Properties: props})
	default:
		p.semanticError(diag.Range{Start: e.Loc, End: e.Loc}, "invalid assignment target")
		return e
	}
}

// ---------------------------------------------------------------------------
// Array / object literals

func (p *parser) parseArrayLiteral() jsast.Expr {
	start := p.expectPunct("[")
	var items []jsast.Expr
	for !p.isPunct("]") {
		if p.isPunct(",") {
			items = append(items, jsast.ExprAt(p.pos(), &jsast.EHole{}))
			p.next()
			continue
		}
		if p.eatPunct("...") {
			spreadStart := p.pos()
			items = append(items, jsast.ExprAt(spreadStart, &jsast.ESpread{Value: p.parseAssignExpr()}))
		} else {
			items = append(items, p.parseAssignExpr())
		}
		if !p.isPunct("]") {
			p.expectPunct(",")
		}
	}
	p.expectPunct("]")
	return jsast.ExprAt(start, &jsast.EArray{Items: items})
}

func (p *parser) parseObjectLiteral() jsast.Expr {
	start := p.expectPunct("{")
	var props []jsast.Property
	for !p.isPunct("}") {
		props = append(props, p.parseObjectProperty())
		if !p.isPunct("}") {
			p.expectPunct(",")
		}
	}
	p.expectPunct("}")
	return jsast.ExprAt(start, &jsast.EObject{Properties: props})
}

func (p *parser) parseObjectProperty() jsast.Property {
	if p.eatPunct("...") {
		return jsast.Property{Kind: jsast.PropertySpread, Key: p.parseAssignExpr()}
	}

	isAsync, isGenerator := false, false
	if p.isKeyword("async") && !p.lex.PeekHasNewlineBefore() && !p.peekEndsPropertyName() {
		isAsync = true
		p.next()
	}
	if p.eatPunct("*") {
		isGenerator = true
	}
	accessor := ""
	if (p.isKeyword("get") || p.isKeyword("set")) && !p.peekEndsPropertyName() {
		accessor = p.tok().Raw
		p.next()
	}

	computed := false
	var key jsast.Expr
	if p.eatPunct("[") {
		computed = true
		key = p.parseAssignExpr()
		p.expectPunct("]")
	} else {
		key = p.parsePropertyKeyLiteral()
	}

	switch {
	case accessor == "get":
		fn := p.parseFunctionTail(false, false)
		return jsast.Property{Kind: jsast.PropertyGetter, Key: key, Computed: computed, Value: jsast.ExprAt(key.Loc, fn)}
	case accessor == "set":
		fn := p.parseFunctionTail(false, false)
		return jsast.Property{Kind: jsast.PropertySetter, Key: key, Computed: computed, Value: jsast.ExprAt(key.Loc, fn)}
	case p.isPunct("("):
		fn := p.parseFunctionTail(isAsync, isGenerator)
		return jsast.Property{Kind: jsast.PropertyMethod, Key: key, Computed: computed, Value: jsast.ExprAt(key.Loc, fn)}
	case p.eatPunct(":"):
		return jsast.Property{Kind: jsast.PropertyNormal, Key: key, Computed: computed, Value: p.parseAssignExpr()}
	case p.eatPunct("="):
		sym, ok := key.Data.(*jsast.ESymbol)
		if !ok {
			p.unexpected("invalid shorthand property default")
		}
		def := p.parseAssignExpr()
		return jsast.Property{Kind: jsast.PropertyShorthand, Key: key, Value: jsast.ExprAt(key.Loc, &jsast.EAssign{Op: jsast.AssignOpNone, Left: jsast.ExprAt(key.Loc, sym), Right: def})}
	default:
		name, ok := key.Data.(*jsast.ESymbol)
		if !ok {
			p.unexpected("expected \":\" after property key")
		}
		return jsast.Property{Kind: jsast.PropertyShorthand, Key: key, Value: jsast.ExprAt(key.Loc, name)}
	}
}

// peekEndsPropertyName reports whether the token after the current one
// closes off the property (":" "(" "," "}" "=") — used to tell a contextual
// prefix keyword ("async"/"get"/"set") used AS the property name apart from
// its use as a modifier before the real name.
func (p *parser) peekEndsPropertyName() bool {
	return p.lex.PeekIsPunct(":") || p.lex.PeekIsPunct("(") || p.lex.PeekIsPunct(",") ||
		p.lex.PeekIsPunct("}") || p.lex.PeekIsPunct("=")
}

func (p *parser) parsePropertyKeyLiteral() jsast.Expr {
	t := p.tok()
	start := t.Start
	switch t.Tag {
	case jslexer.TString:
		val := t.StringValue
		p.next()
		return jsast.ExprAt(start, &jsast.EString{Value: val})
	case jslexer.TNum:
		val, raw := t.NumValue, t.Raw
		p.next()
		return jsast.ExprAt(start, &jsast.ENumber{Value: val, Raw: raw})
	default:
		name, pos := p.parseIdentName()
		return jsast.Expr{Loc: pos, Data: &jsast.ESymbol{Name: name}}
	}
}

// ---------------------------------------------------------------------------
// Templates

func (p *parser) parseTemplateLiteral() jsast.Expr {
	start := p.pos()
	t := p.tok()
	if t.Tag == jslexer.TNoSubstitutionTemplate {
		head := decodeUTF16(t.StringValue)
		p.next()
		return jsast.ExprAt(start, &jsast.ETemplateString{Head: head})
	}
	head := decodeUTF16(t.StringValue)
	p.next()
	var parts []jsast.TemplatePart
	for {
		val := p.parseExpression()
		if !p.isPunct("}") {
			p.unexpected("expected \"}\" to close template substitution")
		}
		p.lex.ResumeTemplate()
		tt := p.tok()
		parts = append(parts, jsast.TemplatePart{Value: val, Tail: decodeUTF16(tt.StringValue)})
		if tt.Tag == jslexer.TTemplateTail {
			p.next()
			break
		}
		p.next()
	}
	return jsast.ExprAt(start, &jsast.ETemplateString{Head: head, Parts: parts})
}

func (p *parser) parseTaggedTemplate(tag jsast.Expr, start diag.Position) jsast.Expr {
	t := p.tok()
	if t.Tag == jslexer.TNoSubstitutionTemplate || t.Tag == jslexer.TInvalidTemplate {
		head := decodeUTF16(t.StringValue)
		raw := t.RawTemplate
		p.next()
		return jsast.ExprAt(start, &jsast.ETaggedTemplate{Tag: tag, Head: head, Raw: []string{raw}})
	}
	headCooked := decodeUTF16(t.StringValue)
	rawSegs := []string{t.RawTemplate}
	p.next()
	var parts []jsast.TemplatePart
	for {
		val := p.parseExpression()
		if !p.isPunct("}") {
			p.unexpected("expected \"}\" to close template substitution")
		}
		p.lex.ResumeTemplate()
		tt := p.tok()
		rawSegs = append(rawSegs, tt.RawTemplate)
		parts = append(parts, jsast.TemplatePart{Value: val, Tail: decodeUTF16(tt.StringValue)})
		if tt.Tag == jslexer.TTemplateTail || tt.Tag == jslexer.TInvalidTemplate {
			p.next()
			break
		}
		p.next()
	}
	return jsast.ExprAt(start, &jsast.ETaggedTemplate{Tag: tag, Head: headCooked, Raw: rawSegs, Parts: parts})
}

// ---------------------------------------------------------------------------
// Primary expressions

func (p *parser) parsePrimaryExpr() jsast.Expr {
	start := p.pos()
	t := p.tok()

	if t.Tag == jslexer.TKeyword {
		switch t.Raw {
		case "this":
			p.next()
			return jsast.ExprAt(start, &jsast.EThis{})
		case "super":
			p.next()
			return jsast.ExprAt(start, &jsast.ESuper{})
		case "null":
			p.next()
			return jsast.ExprAt(start, &jsast.ENull{})
		case "true":
			p.next()
			return jsast.ExprAt(start, &jsast.ETrue{})
		case "false":
			p.next()
			return jsast.ExprAt(start, &jsast.EFalse{})
		case "function":
			fn := p.parseFunction(false)
			return jsast.ExprAt(start, fn)
		case "class":
			c := p.parseClass()
			return jsast.ExprAt(start, c)
		case "import":
			p.next()
			if p.isPunct(".") {
				p.next()
				name, _ := p.parseIdentName()
				if name != "meta" {
					p.unexpected("expected \"meta\"")
				}
				return jsast.ExprAt(start, &jsast.EDot{Target: jsast.ExprAt(start, &jsast.ESymbol{Name: "import"}), Name: "meta"})
			}
			p.expectPunct("(")
			moduleName := p.parseAssignExpr()
			p.eatPunct(",")
			p.expectPunct(")")
			return jsast.ExprAt(start, &jsast.EImportExpression{ModuleName: moduleName})
		}
	}

	if t.Tag == jslexer.TName {
		switch t.Raw {
		case "async":
			if !p.lex.PeekHasNewlineBefore() && p.lex.PeekIsKeyword("function") {
				p.next()
				fn := p.parseFunction(true)
				return jsast.ExprAt(start, fn)
			}
		case "undefined":
			p.next()
			return jsast.ExprAt(start, &jsast.EUndefined{})
		case "NaN":
			p.next()
			return jsast.ExprAt(start, &jsast.ENaN{})
		case "Infinity":
			p.next()
			return jsast.ExprAt(start, &jsast.EInfinity{})
		}
		name := t.Raw
		p.next()
		return jsast.ExprAt(start, &jsast.ESymbol{Name: name})
	}

	switch t.Tag {
	case jslexer.TPrivateName:
		p.next()
		return jsast.ExprAt(start, &jsast.ESymbol{Name: t.Raw})
	case jslexer.TNum, jslexer.TBigInt:
		p.next()
		return jsast.ExprAt(start, &jsast.ENumber{Value: t.NumValue, Raw: t.Raw})
	case jslexer.TString:
		p.next()
		return jsast.ExprAt(start, &jsast.EString{Value: t.StringValue})
	case jslexer.TRegexp:
		p.next()
		return jsast.ExprAt(start, &jsast.ERegExp{Pattern: t.RegexPattern, Flags: t.RegexFlags})
	case jslexer.TNoSubstitutionTemplate, jslexer.TTemplateHead:
		return p.parseTemplateLiteral()
	case jslexer.TPunct:
		switch t.Raw {
		case "(":
			expr, _ := p.parseParenOrArrowMaybe(start, false)
			return expr
		case "[":
			return p.parseArrayLiteral()
		case "{":
			return p.parseObjectLiteral()
		}
	}

	p.unexpected("expected an expression")
	return jsast.Expr{}
}
