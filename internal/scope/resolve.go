package scope

import "github.com/mpokorny/njsast/internal/jsast"

// resolveStmtList resolves every reference within body against scope (which
// must already have been fully declared by declareStmtList), recursing into
// nested function/arrow/class expressions as they're encountered.
func (a *Analyzer) resolveStmtList(scope *jsast.Scope, body []jsast.Stmt) {
	for _, s := range body {
		a.resolveStmt(scope, s)
	}
}

func (a *Analyzer) resolveStmt(scope *jsast.Scope, s jsast.Stmt) {
	switch d := s.Data.(type) {
	case *jsast.SDeclare:
		for i := range d.Defs {
			def := &d.Defs[i]
			if def.Value.Data != nil {
				a.resolveExpr(scope, def.Value, false)
			}
			a.resolveBindingOccurrence(scope, def.Binding)
		}

	case *jsast.SFunctionDecl:
		a.analyzeFunctionLike(scope, d.Fn)

	case *jsast.SClassDecl:
		a.analyzeClass(scope, d.Class)

	case *jsast.SImport, *jsast.SDebugger, *jsast.SEmpty, *jsast.SBreak, *jsast.SContinue:
		// no expressions to resolve

	case *jsast.SExport:
		if d.Decl.Data != nil {
			a.resolveStmt(scope, d.Decl)
		}
		if d.Source == "" {
			for i := range d.Mappings {
				m := &d.Mappings[i]
				if m.Foreign == "*" {
					continue // `export * as ns from` has no local binding
				}
				def, chain := scope.Lookup(m.Local)
				if def != nil {
					jsast.MarkEnclosed(chain, def)
					m.Symbol = def
					// A synthetic reference (there is no ESymbol node at an
					// "export { x }" clause) keeps Unreferenced() from
					// considering an exported-only binding dead.
					def.AddReference(&jsast.ESymbol{Name: m.Local}, false)
				}
			}
		}

	case *jsast.SIf:
		a.resolveExpr(scope, d.Test, false)
		a.resolveStmt(scope, d.Consequent)
		if d.Alternate.Data != nil {
			a.resolveStmt(scope, d.Alternate)
		}
	case *jsast.SWhile:
		a.resolveExpr(scope, d.Test, false)
		a.resolveStmt(scope, d.Body)
	case *jsast.SDo:
		a.resolveStmt(scope, d.Body)
		a.resolveExpr(scope, d.Test, false)
	case *jsast.SLabeled:
		a.resolveStmt(scope, d.Body)
	case *jsast.SWith:
		a.resolveExpr(scope, d.Object, false)
		jsast.Pin(scope)
		scope.HasWith = true
		a.resolveStmt(scope, d.Body)

	case *jsast.SFor:
		if initStmt, ok := d.Init.(jsast.Stmt); ok {
			a.resolveStmt(scope, initStmt)
		} else if initExpr, ok := d.Init.(jsast.Expr); ok && initExpr.Data != nil {
			a.resolveExpr(scope, initExpr, false)
		}
		if d.Condition.Data != nil {
			a.resolveExpr(scope, d.Condition, false)
		}
		if d.Update.Data != nil {
			a.resolveExpr(scope, d.Update, false)
		}
		a.resolveStmt(scope, d.Body)

	case *jsast.SForIn:
		a.resolveForHead(scope, d.Left)
		a.resolveExpr(scope, d.Right, false)
		a.resolveStmt(scope, d.Body)
	case *jsast.SForOf:
		a.resolveForHead(scope, d.Left)
		a.resolveExpr(scope, d.Right, false)
		a.resolveStmt(scope, d.Body)

	case *jsast.SSwitch:
		a.resolveExpr(scope, d.Discriminant, false)
		for _, c := range d.Cases {
			if c.Test.Data != nil {
				a.resolveExpr(scope, c.Test, false)
			}
			a.resolveStmtList(scope, c.Body)
		}

	case *jsast.STry:
		a.resolveStmtList(scope, d.Body)
		if d.Catch != nil {
			if d.Catch.Binding != nil {
				a.resolveBindingOccurrence(d.Catch.Scope, d.Catch.Binding)
			}
			a.resolveStmtList(d.Catch.Scope, d.Catch.Body)
		}
		if d.Finally != nil {
			a.resolveStmtList(scope, d.Finally)
		}

	case *jsast.SThrow:
		a.resolveExpr(scope, d.Value, false)
	case *jsast.SReturn:
		if d.Value.Data != nil {
			a.resolveExpr(scope, d.Value, false)
		}
	case *jsast.SBlock:
		a.resolveStmtList(d.Scope, d.Body)
	case *jsast.SSimple:
		a.resolveExpr(scope, d.Value, false)
	}
}

// resolveForHead handles a for-in/for-of left side, which is either a fresh
// declaration (whose names were already declared by declareStmt) or a plain
// assignment target against an existing binding.
func (a *Analyzer) resolveForHead(scope *jsast.Scope, left jsast.Node) {
	switch v := left.(type) {
	case jsast.Stmt:
		if decl, ok := v.Data.(*jsast.SDeclare); ok {
			for i := range decl.Defs {
				a.resolveBindingOccurrence(scope, decl.Defs[i].Binding)
			}
		}
	case jsast.Expr:
		a.resolveAssignTarget(scope, v)
	}
}

// resolveBindingOccurrence marks each bound SymbolDef written (Thedef was
// already set by declareBindingPattern, which stamped the same *ESymbol
// nodes) and resolves any default-value expressions nested in the pattern,
// e.g. `{a = f()}`.
func (a *Analyzer) resolveBindingOccurrence(scope *jsast.Scope, binding jsast.Node) {
	expr, ok := binding.(jsast.Expr)
	if !ok || expr.Data == nil {
		return
	}
	switch d := expr.Data.(type) {
	case *jsast.ESymbol:
		if d.Thedef != nil {
			d.Thedef.Write = true
		}
	case *jsast.EArray:
		for _, item := range d.Items {
			a.resolveBindingOccurrence(scope, item)
		}
	case *jsast.EObject:
		for _, prop := range d.Properties {
			if prop.Kind == jsast.PropertySpread {
				a.resolveBindingOccurrence(scope, prop.Key)
				continue
			}
			a.resolveBindingOccurrence(scope, prop.Value)
		}
	case *jsast.EAssign:
		a.resolveBindingOccurrence(scope, d.Left)
		a.resolveExpr(scope, d.Right, false)
	case *jsast.ESpread:
		a.resolveBindingOccurrence(scope, d.Value)
	}
}

// resolveSymbolUse implements spec.md §4.4 steps 1-3: look up name starting
// at scope, record the reference, and mark the scopes in between as
// enclosing the definition.
func (a *Analyzer) resolveSymbolUse(scope *jsast.Scope, sym *jsast.ESymbol, isWrite bool) {
	def, chain := scope.Lookup(sym.Name)
	if def == nil {
		// Free global identifier: spec.md §8's "Scope totality" invariant
		// says Thedef is nil only for this case.
		return
	}
	jsast.MarkEnclosed(chain, def)
	def.AddReference(sym, isWrite)
}

// resolveExpr dispatches on e's concrete node type, resolving every ESymbol
// it reaches and recursing into any nested function/arrow/class scope unit.
func (a *Analyzer) resolveExpr(scope *jsast.Scope, e jsast.Expr, isWrite bool) {
	if e.Data == nil {
		return
	}
	switch d := e.Data.(type) {
	case *jsast.ESymbol:
		a.resolveSymbolUse(scope, d, isWrite)

	case *jsast.EBinary:
		a.resolveExpr(scope, d.Left, false)
		a.resolveExpr(scope, d.Right, false)

	case *jsast.EAssign:
		a.resolveAssignTarget(scope, d.Left)
		a.resolveExpr(scope, d.Right, false)

	case *jsast.EUnaryPrefix:
		switch d.Op {
		case jsast.UnOpPreInc, jsast.UnOpPreDec:
			a.resolveAssignTarget(scope, d.Operand)
			if sym, ok := d.Operand.Data.(*jsast.ESymbol); ok && sym.Thedef != nil {
				sym.Thedef.Read = true
			}
		default:
			a.resolveExpr(scope, d.Operand, false)
		}
	case *jsast.EUnaryPostfix:
		a.resolveAssignTarget(scope, d.Operand)
		if sym, ok := d.Operand.Data.(*jsast.ESymbol); ok && sym.Thedef != nil {
			sym.Thedef.Read = true
		}

	case *jsast.EConditional:
		a.resolveExpr(scope, d.Test, false)
		a.resolveExpr(scope, d.Consequent, false)
		a.resolveExpr(scope, d.Alternate, false)
	case *jsast.ESequence:
		for _, it := range d.Expressions {
			a.resolveExpr(scope, it, false)
		}
	case *jsast.ECall:
		a.resolveExpr(scope, d.Callee, false)
		if sym, ok := d.Callee.Data.(*jsast.ESymbol); ok && sym.Name == "eval" && sym.Thedef == nil {
			// A direct call to the free identifier `eval` can read or write
			// any binding visible here, per spec.md §4.4's pinning rule.
			jsast.Pin(scope)
			scope.HasDirectEval = true
		}
		for _, arg := range d.Args {
			a.resolveExpr(scope, arg.Value, false)
		}
	case *jsast.ENew:
		a.resolveExpr(scope, d.Callee, false)
		for _, arg := range d.Args {
			a.resolveExpr(scope, arg.Value, false)
		}
	case *jsast.EDot:
		a.resolveExpr(scope, d.Target, false)
	case *jsast.ESub:
		a.resolveExpr(scope, d.Target, false)
		a.resolveExpr(scope, d.Index, false)
	case *jsast.EArray:
		for _, it := range d.Items {
			a.resolveExpr(scope, it, false)
		}
	case *jsast.EObject:
		for _, prop := range d.Properties {
			if prop.Computed || prop.Kind == jsast.PropertySpread {
				a.resolveExpr(scope, prop.Key, false)
			}
			if prop.Value.Data != nil {
				a.resolveExpr(scope, prop.Value, false)
			}
		}
	case *jsast.EArrow:
		a.analyzeArrow(scope, d)
	case *jsast.EFunction:
		a.analyzeFunctionLike(scope, d)
	case *jsast.EClass:
		a.analyzeClass(scope, d)
	case *jsast.ETemplateString:
		for _, part := range d.Parts {
			a.resolveExpr(scope, part.Value, false)
		}
	case *jsast.ETaggedTemplate:
		a.resolveExpr(scope, d.Tag, false)
		for _, part := range d.Parts {
			a.resolveExpr(scope, part.Value, false)
		}
	case *jsast.EAwait:
		a.resolveExpr(scope, d.Value, false)
	case *jsast.EYield:
		if d.Value.Data != nil {
			a.resolveExpr(scope, d.Value, false)
		}
	case *jsast.ESpread:
		a.resolveExpr(scope, d.Value, false)
	case *jsast.EImportExpression:
		a.resolveExpr(scope, d.ModuleName, false)
	}
}

// resolveAssignTarget resolves the left side of an assignment or a binding
// pattern reused as a reassignment target (`[a, b.c] = arr`): a bare
// ESymbol is a write; everything else recurses to find the ESymbol leaves
// and resolves any object/index expressions along the way as reads.
func (a *Analyzer) resolveAssignTarget(scope *jsast.Scope, target jsast.Expr) {
	if target.Data == nil {
		return
	}
	switch d := target.Data.(type) {
	case *jsast.ESymbol:
		a.resolveSymbolUse(scope, d, true)
	case *jsast.EDot:
		a.resolveExpr(scope, d.Target, false)
	case *jsast.ESub:
		a.resolveExpr(scope, d.Target, false)
		a.resolveExpr(scope, d.Index, false)
	case *jsast.EArray:
		for _, it := range d.Items {
			a.resolveAssignTarget(scope, it)
		}
	case *jsast.EObject:
		for _, prop := range d.Properties {
			if prop.Kind == jsast.PropertySpread {
				a.resolveAssignTarget(scope, prop.Key)
				continue
			}
			a.resolveAssignTarget(scope, prop.Value)
		}
	case *jsast.EAssign:
		a.resolveAssignTarget(scope, d.Left)
		a.resolveExpr(scope, d.Right, false)
	case *jsast.ESpread:
		a.resolveAssignTarget(scope, d.Value)
	case *jsast.EHole:
		// elision
	}
}

// analyzeFunctionLike is the scope unit shared by function declarations,
// function expressions, and methods: a fresh ScopeFunction, its own name
// visible inside (named function expression self-reference), parameters
// declared as SymbolFunarg, then the body declared and resolved as its own
// nested statement list.
func (a *Analyzer) analyzeFunctionLike(parent *jsast.Scope, fn *jsast.EFunction) {
	fn.Scope = a.analyzeScopedBody(parent, jsast.ScopeFunction, fn.Name, fn.Params, fn.Body)
}

// analyzeArrow is analyzeFunctionLike's counterpart for arrow functions,
// which differ only in not introducing their own `this`/`arguments` binding
// (a later pass's concern, not the scope analyzer's) and in sometimes
// having a bare-expression body instead of a block.
func (a *Analyzer) analyzeArrow(parent *jsast.Scope, arrow *jsast.EArrow) {
	body := arrow.Body
	if arrow.ExprBody.Data != nil {
		body = []jsast.Stmt{jsast.StmtAt(arrow.ExprBody.Loc, &jsast.SReturn{Value: arrow.ExprBody})}
	}
	arrow.Scope = a.analyzeScopedBody(parent, jsast.ScopeArrow, nil, arrow.Params, body)
}

// analyzeScopedBody is the scope unit shared by functions and arrows: a
// fresh scope, an optional self-reference name,
// parameters declared as SymbolFunarg, then the body declared and resolved
// as its own nested statement list.
func (a *Analyzer) analyzeScopedBody(parent *jsast.Scope, kind jsast.ScopeKind, name *jsast.SymbolDef, params []jsast.Param, body []jsast.Stmt) *jsast.Scope {
	fnScope := jsast.NewScope(kind, parent)
	if name != nil {
		a.declareNamedSymbol(fnScope, jsast.SymbolLambda, name)
	}
	a.declareParams(fnScope, params)
	a.declareStmtList(fnScope, body)
	a.resolveParams(fnScope, params)
	a.resolveStmtList(fnScope, body)
	return fnScope
}

func (a *Analyzer) declareParams(scope *jsast.Scope, params []jsast.Param) {
	for i := range params {
		a.declareBindingPattern(scope, jsast.SymbolFunarg, params[i].Binding)
	}
}

func (a *Analyzer) resolveParams(scope *jsast.Scope, params []jsast.Param) {
	for i := range params {
		if params[i].DefaultValue.Data != nil {
			a.resolveExpr(scope, params[i].DefaultValue, false)
		}
		a.resolveBindingOccurrence(scope, params[i].Binding)
	}
}

// analyzeClass is the scope unit for a class declaration or expression: the
// class's own name (if any) is visible inside the class body (so static
// methods can reference the class by name), extends and computed keys
// evaluate in the enclosing scope, and member bodies get their own function
// scope units via analyzeFunctionLike.
func (a *Analyzer) analyzeClass(parent *jsast.Scope, class *jsast.EClass) {
	if class.Extends.Data != nil {
		a.resolveExpr(parent, class.Extends, false)
	}
	classScope := jsast.NewScope(jsast.ScopeClass, parent)
	class.Scope = classScope
	if class.Name != nil {
		a.declareNamedSymbol(classScope, jsast.SymbolLambda, class.Name)
	}
	for i := range class.Members {
		m := &class.Members[i]
		if m.Computed {
			a.resolveExpr(parent, m.Key, false)
		}
		switch m.Kind {
		case jsast.ClassMethod, jsast.ClassGetter, jsast.ClassSetter:
			if fn, ok := m.Value.Data.(*jsast.EFunction); ok {
				a.analyzeFunctionLike(classScope, fn)
			}
		case jsast.ClassField:
			if m.Value.Data != nil {
				a.resolveExpr(classScope, m.Value, false)
			}
		case jsast.ClassStaticBlock:
			blockScope := jsast.NewScope(jsast.ScopeBlock, classScope)
			a.declareStmtList(blockScope, m.Body)
			a.resolveStmtList(blockScope, m.Body)
		}
	}
}
