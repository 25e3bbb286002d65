package jsparser

import (
	"github.com/mpokorny/njsast/internal/jsast"
	"github.com/mpokorny/njsast/internal/jslexer"
)

// parseFunction parses a function declaration or expression whose "function"
// keyword has not yet been consumed (the "async" prefix, if any, has already
// been consumed by the caller).
func (p *parser) parseFunction(isAsync bool) *jsast.EFunction {
	p.expectKeyword("function")
	isGenerator := p.eatPunct("*")
	var name *jsast.SymbolDef
	if p.isName() {
		sym := p.parseBindingIdent()
		name = &jsast.SymbolDef{Name: sym.Name}
	}
	fn := p.parseFunctionTail(isAsync, isGenerator)
	fn.Name = name
	return fn
}

// parseFunctionTail parses "(" params ")" "{" body "}" for a function,
// method, getter, or setter whose keyword/name/generator-star (if any) has
// already been consumed.
func (p *parser) parseFunctionTail(isAsync, isGenerator bool) *jsast.EFunction {
	restore := p.pushFunctionFlags(isAsync, isGenerator)
	params := p.parseParams()
	body := p.parseBlockBody()
	restore()
	return &jsast.EFunction{Params: params, Body: body, IsAsync: isAsync, IsGenerator: isGenerator}
}

func (p *parser) parseParams() []jsast.Param {
	p.expectPunct("(")
	var params []jsast.Param
	for !p.isPunct(")") {
		if p.eatPunct("...") {
			binding := p.parseBindingTargetExpr()
			params = append(params, jsast.Param{Binding: binding, Rest: true})
			break
		}
		binding := p.parseBindingTargetExpr()
		var def jsast.Expr
		if p.eatPunct("=") {
			def = p.parseAssignExpr()
		}
		params = append(params, jsast.Param{Binding: binding, DefaultValue: def})
		if !p.eatPunct(",") {
			break
		}
	}
	p.expectPunct(")")
	return params
}

// parseBindingTargetExpr parses a single binding target (identifier or
// destructuring pattern) as an Expr, for use in parameter lists where
// Param.Binding's declared type is Expr rather than Node.
func (p *parser) parseBindingTargetExpr() jsast.Expr {
	if p.isPunct("[") || p.isPunct("{") {
		expr := p.parsePrimaryExpr()
		return toAssignable(p, expr)
	}
	return jsast.Expr{Loc: p.pos(), Data: p.parseBindingIdent()}
}

// ---------------------------------------------------------------------------
// Classes

func (p *parser) parseClass() *jsast.EClass {
	p.expectKeyword("class")
	var name *jsast.SymbolDef
	if p.isName() && !p.isKeyword("extends") {
		sym := p.parseBindingIdent()
		name = &jsast.SymbolDef{Name: sym.Name}
	}
	var extends jsast.Expr
	if p.eatKeyword("extends") {
		extends = p.parseLeftHandSideExpr()
	}

	savedStrict := p.strict
	p.strict = true // class bodies are always strict mode
	p.expectPunct("{")
	var members []jsast.ClassMember
	for !p.isPunct("}") {
		if p.eatPunct(";") {
			continue
		}
		members = append(members, p.parseClassMember())
	}
	p.expectPunct("}")
	p.strict = savedStrict

	return &jsast.EClass{Name: name, Extends: extends, Members: members}
}

func (p *parser) parseClassMember() jsast.ClassMember {
	static := false
	if p.isKeyword("static") && !p.lex.PeekIsPunct("(") && !p.lex.PeekIsPunct("=") && !p.lex.PeekIsPunct(";") {
		static = true
		p.next()
		if p.isPunct("{") {
			body := p.parseBlockBody()
			return jsast.ClassMember{Kind: jsast.ClassStaticBlock, Static: true, Body: body}
		}
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
	switch {
	case p.eatPunct("["):
		computed = true
		key = p.parseAssignExpr()
		p.expectPunct("]")
	case p.tok().Tag == jslexer.TPrivateName:
		key = jsast.Expr{Loc: p.pos(), Data: &jsast.ESymbol{Name: p.tok().Raw}}
		p.next()
	default:
		key = p.parsePropertyKeyLiteral()
	}

	switch {
	case accessor == "get":
		fn := p.parseFunctionTail(false, false)
		return jsast.ClassMember{Kind: jsast.ClassGetter, Key: key, Computed: computed, Static: static, Value: jsast.ExprAt(key.Loc, fn)}
	case accessor == "set":
		fn := p.parseFunctionTail(false, false)
		return jsast.ClassMember{Kind: jsast.ClassSetter, Key: key, Computed: computed, Static: static, Value: jsast.ExprAt(key.Loc, fn)}
	case p.isPunct("("):
		fn := p.parseFunctionTail(isAsync, isGenerator)
		return jsast.ClassMember{Kind: jsast.ClassMethod, Key: key, Computed: computed, Static: static, Value: jsast.ExprAt(key.Loc, fn)}
	default:
		var value jsast.Expr
		if p.eatPunct("=") {
			value = p.parseAssignExpr()
		}
		p.expectSemicolon()
		return jsast.ClassMember{Kind: jsast.ClassField, Key: key, Computed: computed, Static: static, Value: value}
	}
}
