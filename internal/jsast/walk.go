package jsast

// Walker and Transformer are the two generic traversal primitives of
// spec.md §4.3. Both dispatch on a node's concrete Data type via a Go type
// switch — the "non-virtual match" the design notes (spec.md §9) call for —
// and enumerate each node's children in a fixed, canonical order.
//
// A Node here is either an Expr, a Stmt, or nil (used for SFor's optional
// clauses and similar absent-child slots).

// ---------------------------------------------------------------------------
// Walker

// VisitFunc is called pre-order for every node. Returning true descends
// into the node's children (the default if no VisitFunc is supplied);
// returning false suppresses descent, mirroring spec.md's
// descend()/stopDescending() pair collapsed into a single return value.
type VisitFunc func(n Node) bool

// Walker performs a read-only pre-order traversal.
type Walker struct {
	Visit VisitFunc
}

func (w *Walker) enter(n Node) bool {
	if w.Visit == nil {
		return true
	}
	return w.Visit(n)
}

// WalkToplevel walks every statement in a parsed file.
func (w *Walker) WalkToplevel(t *Toplevel) {
	for _, s := range t.Body {
		w.WalkStmt(s)
	}
}

// WalkStmtList walks a statement list in order.
func (w *Walker) WalkStmtList(list []Stmt) {
	for _, s := range list {
		w.WalkStmt(s)
	}
}

// WalkStmt dispatches on the statement's concrete variant.
func (w *Walker) WalkStmt(s Stmt) {
	if s.Data == nil || !w.enter(s) {
		return
	}
	switch d := s.Data.(type) {
	case *SIf:
		w.WalkExpr(d.Test)
		w.WalkStmt(d.Consequent)
		if d.Alternate.Data != nil {
			w.WalkStmt(d.Alternate)
		}
	case *SWhile:
		w.WalkExpr(d.Test)
		w.WalkStmt(d.Body)
	case *SDo:
		w.WalkStmt(d.Body)
		w.WalkExpr(d.Test)
	case *SFor:
		w.walkNode(d.Init)
		if d.Condition.Data != nil {
			w.WalkExpr(d.Condition)
		}
		if d.Update.Data != nil {
			w.WalkExpr(d.Update)
		}
		w.WalkStmt(d.Body)
	case *SForIn:
		w.walkNode(d.Left)
		w.WalkExpr(d.Right)
		w.WalkStmt(d.Body)
	case *SForOf:
		w.walkNode(d.Left)
		w.WalkExpr(d.Right)
		w.WalkStmt(d.Body)
	case *SSwitch:
		w.WalkExpr(d.Discriminant)
		for _, c := range d.Cases {
			if c.Test.Data != nil {
				w.WalkExpr(c.Test)
			}
			w.WalkStmtList(c.Body)
		}
	case *STry:
		w.WalkStmtList(d.Body)
		if d.Catch != nil {
			w.walkNode(d.Catch.Binding)
			w.WalkStmtList(d.Catch.Body)
		}
		if d.Finally != nil {
			w.WalkStmtList(d.Finally)
		}
	case *SThrow:
		w.WalkExpr(d.Value)
	case *SReturn:
		if d.Value.Data != nil {
			w.WalkExpr(d.Value)
		}
	case *SLabeled:
		w.WalkStmt(d.Body)
	case *SBlock:
		w.WalkStmtList(d.Body)
	case *SSimple:
		w.WalkExpr(d.Value)
	case *SWith:
		w.WalkExpr(d.Object)
		w.WalkStmt(d.Body)
	case *SDeclare:
		for _, def := range d.Defs {
			w.walkNode(def.Binding)
			if def.Value.Data != nil {
				w.WalkExpr(def.Value)
			}
		}
	case *SFunctionDecl:
		w.walkFunction(d.Fn)
	case *SClassDecl:
		w.walkClass(d.Class)
	case *SImport, *SExport:
		w.walkModuleStmt(d)
	case *SBreak, *SContinue, *SEmpty, *SDebugger:
		// no children
	}
}

func (w *Walker) walkModuleStmt(d StmtData) {
	switch m := d.(type) {
	case *SExport:
		if m.Decl.Data != nil {
			w.WalkStmt(m.Decl)
		}
	}
}

func (w *Walker) walkNode(n Node) {
	switch v := n.(type) {
	case nil:
	case Expr:
		if v.Data != nil {
			w.WalkExpr(v)
		}
	case Stmt:
		if v.Data != nil {
			w.WalkStmt(v)
		}
	}
}

func (w *Walker) walkFunction(fn *EFunction) {
	for _, p := range fn.Params {
		w.walkNode(p.Binding)
		if p.DefaultValue.Data != nil {
			w.WalkExpr(p.DefaultValue)
		}
	}
	w.WalkStmtList(fn.Body)
}

func (w *Walker) walkClass(c *EClass) {
	if c.Extends.Data != nil {
		w.WalkExpr(c.Extends)
	}
	for _, m := range c.Members {
		if m.Computed {
			w.WalkExpr(m.Key)
		}
		if m.Value.Data != nil {
			w.WalkExpr(m.Value)
		}
		if m.Kind == ClassStaticBlock {
			w.WalkStmtList(m.Body)
		}
	}
}

// WalkExpr dispatches on the expression's concrete variant.
func (w *Walker) WalkExpr(e Expr) {
	if e.Data == nil || !w.enter(e) {
		return
	}
	switch d := e.Data.(type) {
	case *EBinary:
		w.WalkExpr(d.Left)
		w.WalkExpr(d.Right)
	case *EAssign:
		w.WalkExpr(d.Left)
		w.WalkExpr(d.Right)
	case *EUnaryPrefix:
		w.WalkExpr(d.Operand)
	case *EUnaryPostfix:
		w.WalkExpr(d.Operand)
	case *EConditional:
		w.WalkExpr(d.Test)
		w.WalkExpr(d.Consequent)
		w.WalkExpr(d.Alternate)
	case *ESequence:
		for _, e2 := range d.Expressions {
			w.WalkExpr(e2)
		}
	case *ECall:
		w.WalkExpr(d.Callee)
		for _, a := range d.Args {
			w.WalkExpr(a.Value)
		}
	case *ENew:
		w.WalkExpr(d.Callee)
		for _, a := range d.Args {
			w.WalkExpr(a.Value)
		}
	case *EDot:
		w.WalkExpr(d.Target)
	case *ESub:
		w.WalkExpr(d.Target)
		w.WalkExpr(d.Index)
	case *EArray:
		for _, item := range d.Items {
			if item.Data != nil {
				w.WalkExpr(item)
			}
		}
	case *EObject:
		for _, p := range d.Properties {
			if p.Computed {
				w.WalkExpr(p.Key)
			}
			if p.Value.Data != nil {
				w.WalkExpr(p.Value)
			}
		}
	case *EArrow:
		for _, p := range d.Params {
			w.walkNode(p.Binding)
			if p.DefaultValue.Data != nil {
				w.WalkExpr(p.DefaultValue)
			}
		}
		if d.ExprBody.Data != nil {
			w.WalkExpr(d.ExprBody)
		} else {
			w.WalkStmtList(d.Body)
		}
	case *EFunction:
		w.walkFunction(d)
	case *EClass:
		w.walkClass(d)
	case *ETemplateString:
		for _, p := range d.Parts {
			w.WalkExpr(p.Value)
		}
	case *ETaggedTemplate:
		w.WalkExpr(d.Tag)
		for _, p := range d.Parts {
			w.WalkExpr(p.Value)
		}
	case *EAwait:
		w.WalkExpr(d.Value)
	case *EYield:
		if d.Value.Data != nil {
			w.WalkExpr(d.Value)
		}
	case *ESpread:
		w.WalkExpr(d.Value)
	case *EImportExpression:
		w.WalkExpr(d.ModuleName)
	case *ESymbol, *EThis, *ESuper, *ENull, *ETrue, *EFalse, *ENaN,
		*EInfinity, *EUndefined, *ENumber, *EString, *ERegExp, *EHole, *ENewTarget:
		// atoms: no children
	}
}

// ---------------------------------------------------------------------------
// Transformer

// TransformAction is the sentinel returned alongside a possibly-nil
// replacement node.
type TransformAction uint8

const (
	// ActionDescend: descend into the node's children and replace them in
	// place (the node itself is unchanged at this stage).
	ActionDescend TransformAction = iota
	// ActionReplace: install the returned node in place of this one,
	// skipping descent into the original node's children.
	ActionReplace
	// ActionRemove: delete this node from its containing list (or unwrap
	// to an empty placeholder if it isn't list-contained).
	ActionRemove
)

// TransformFunc is called once before descent (Before) and once after
// (After). inList reports whether the node sits in a list-valued slot (a
// statement list, an argument list, …), which matters only for whether
// ActionRemove is meaningful.
type TransformFunc func(n Node, inList bool) (Node, TransformAction)

// Transformer performs a pre/post transformation pass with replacement and
// removal, per spec.md §4.3.
type Transformer struct {
	Before TransformFunc
	After  TransformFunc
}

func (tr *Transformer) before(n Node, inList bool) (Node, TransformAction) {
	if tr.Before == nil {
		return nil, ActionDescend
	}
	return tr.Before(n, inList)
}

func (tr *Transformer) after(n Node, inList bool) (Node, TransformAction) {
	if tr.After == nil {
		return n, ActionDescend
	}
	return tr.After(n, inList)
}

// TransformStmtList applies the transformer to every statement in list,
// dropping ActionRemove results. A replacement always stands in for exactly
// one element: a block-typed replacement is kept as a single statement, and
// its body is not spliced into list.
func (tr *Transformer) TransformStmtList(list []Stmt) []Stmt {
	out := make([]Stmt, 0, len(list))
	for _, s := range list {
		if r, ok := tr.TransformStmt(s, true); ok {
			out = append(out, r)
		}
	}
	return out
}

// TransformStmt runs the full before/descend/after cycle for a single
// statement. ok is false when the statement was removed.
func (tr *Transformer) TransformStmt(s Stmt, inList bool) (Stmt, bool) {
	if s.Data == nil {
		return s, true
	}
	if repl, action := tr.before(s, inList); action != ActionDescend {
		if action == ActionRemove {
			return Stmt{}, false
		}
		s = repl.(Stmt)
	} else {
		s = tr.descendStmt(s)
	}
	if repl, action := tr.after(s, inList); action == ActionRemove {
		return Stmt{}, false
	} else if action == ActionReplace {
		return repl.(Stmt), true
	}
	return s, true
}

func (tr *Transformer) descendStmt(s Stmt) Stmt {
	switch d := s.Data.(type) {
	case *SIf:
		d.Test = tr.TransformExpr(d.Test)
		d.Consequent, _ = tr.TransformStmt(d.Consequent, false)
		if d.Alternate.Data != nil {
			if alt, ok := tr.TransformStmt(d.Alternate, false); ok {
				d.Alternate = alt
			} else {
				d.Alternate = Stmt{}
			}
		}
	case *SWhile:
		d.Test = tr.TransformExpr(d.Test)
		d.Body, _ = tr.TransformStmt(d.Body, false)
	case *SDo:
		d.Body, _ = tr.TransformStmt(d.Body, false)
		d.Test = tr.TransformExpr(d.Test)
	case *SFor:
		d.Init = tr.transformNode(d.Init)
		if d.Condition.Data != nil {
			d.Condition = tr.TransformExpr(d.Condition)
		}
		if d.Update.Data != nil {
			d.Update = tr.TransformExpr(d.Update)
		}
		d.Body, _ = tr.TransformStmt(d.Body, false)
	case *SForIn:
		d.Left = tr.transformNode(d.Left)
		d.Right = tr.TransformExpr(d.Right)
		d.Body, _ = tr.TransformStmt(d.Body, false)
	case *SForOf:
		d.Left = tr.transformNode(d.Left)
		d.Right = tr.TransformExpr(d.Right)
		d.Body, _ = tr.TransformStmt(d.Body, false)
	case *SSwitch:
		d.Discriminant = tr.TransformExpr(d.Discriminant)
		for i := range d.Cases {
			if d.Cases[i].Test.Data != nil {
				d.Cases[i].Test = tr.TransformExpr(d.Cases[i].Test)
			}
			d.Cases[i].Body = tr.TransformStmtList(d.Cases[i].Body)
		}
	case *STry:
		d.Body = tr.TransformStmtList(d.Body)
		if d.Catch != nil {
			d.Catch.Binding = tr.transformNode(d.Catch.Binding)
			d.Catch.Body = tr.TransformStmtList(d.Catch.Body)
		}
		if d.Finally != nil {
			d.Finally = tr.TransformStmtList(d.Finally)
		}
	case *SThrow:
		d.Value = tr.TransformExpr(d.Value)
	case *SReturn:
		if d.Value.Data != nil {
			d.Value = tr.TransformExpr(d.Value)
		}
	case *SLabeled:
		d.Body, _ = tr.TransformStmt(d.Body, false)
	case *SBlock:
		d.Body = tr.TransformStmtList(d.Body)
	case *SSimple:
		d.Value = tr.TransformExpr(d.Value)
	case *SWith:
		d.Object = tr.TransformExpr(d.Object)
		d.Body, _ = tr.TransformStmt(d.Body, false)
	case *SDeclare:
		for i := range d.Defs {
			d.Defs[i].Binding = tr.transformNode(d.Defs[i].Binding)
			if d.Defs[i].Value.Data != nil {
				d.Defs[i].Value = tr.TransformExpr(d.Defs[i].Value)
			}
		}
	case *SFunctionDecl:
		tr.descendFunction(d.Fn)
	case *SClassDecl:
		tr.descendClass(d.Class)
	case *SExport:
		if d.Decl.Data != nil {
			d.Decl, _ = tr.TransformStmt(d.Decl, false)
		}
	}
	return s
}

func (tr *Transformer) transformNode(n Node) Node {
	switch v := n.(type) {
	case nil:
		return nil
	case Expr:
		if v.Data == nil {
			return v
		}
		return tr.TransformExpr(v)
	case Stmt:
		if v.Data == nil {
			return v
		}
		r, ok := tr.TransformStmt(v, false)
		if !ok {
			return nil
		}
		return r
	}
	return n
}

func (tr *Transformer) descendFunction(fn *EFunction) {
	for i := range fn.Params {
		fn.Params[i].Binding = tr.TransformExpr(fn.Params[i].Binding)
		if fn.Params[i].DefaultValue.Data != nil {
			fn.Params[i].DefaultValue = tr.TransformExpr(fn.Params[i].DefaultValue)
		}
	}
	fn.Body = tr.TransformStmtList(fn.Body)
}

func (tr *Transformer) descendClass(c *EClass) {
	if c.Extends.Data != nil {
		c.Extends = tr.TransformExpr(c.Extends)
	}
	for i := range c.Members {
		if c.Members[i].Computed {
			c.Members[i].Key = tr.TransformExpr(c.Members[i].Key)
		}
		if c.Members[i].Value.Data != nil {
			c.Members[i].Value = tr.TransformExpr(c.Members[i].Value)
		}
		if c.Members[i].Kind == ClassStaticBlock {
			c.Members[i].Body = tr.TransformStmtList(c.Members[i].Body)
		}
	}
}

// TransformExpr runs the full before/descend/after cycle for a single
// expression.
func (tr *Transformer) TransformExpr(e Expr) Expr {
	if e.Data == nil {
		return e
	}
	if repl, action := tr.before(e, false); action != ActionDescend {
		if action == ActionRemove {
			return Expr{}
		}
		e = repl.(Expr)
	} else {
		e = tr.descendExpr(e)
	}
	if repl, action := tr.after(e, false); action == ActionRemove {
		return Expr{}
	} else if action == ActionReplace {
		return repl.(Expr)
	}
	return e
}

func (tr *Transformer) descendExpr(e Expr) Expr {
	switch d := e.Data.(type) {
	case *EBinary:
		d.Left = tr.TransformExpr(d.Left)
		d.Right = tr.TransformExpr(d.Right)
	case *EAssign:
		d.Left = tr.TransformExpr(d.Left)
		d.Right = tr.TransformExpr(d.Right)
	case *EUnaryPrefix:
		d.Operand = tr.TransformExpr(d.Operand)
	case *EUnaryPostfix:
		d.Operand = tr.TransformExpr(d.Operand)
	case *EConditional:
		d.Test = tr.TransformExpr(d.Test)
		d.Consequent = tr.TransformExpr(d.Consequent)
		d.Alternate = tr.TransformExpr(d.Alternate)
	case *ESequence:
		for i := range d.Expressions {
			d.Expressions[i] = tr.TransformExpr(d.Expressions[i])
		}
	case *ECall:
		d.Callee = tr.TransformExpr(d.Callee)
		for i := range d.Args {
			d.Args[i].Value = tr.TransformExpr(d.Args[i].Value)
		}
	case *ENew:
		d.Callee = tr.TransformExpr(d.Callee)
		for i := range d.Args {
			d.Args[i].Value = tr.TransformExpr(d.Args[i].Value)
		}
	case *EDot:
		d.Target = tr.TransformExpr(d.Target)
	case *ESub:
		d.Target = tr.TransformExpr(d.Target)
		d.Index = tr.TransformExpr(d.Index)
	case *EArray:
		for i := range d.Items {
			if d.Items[i].Data != nil {
				d.Items[i] = tr.TransformExpr(d.Items[i])
			}
		}
	case *EObject:
		for i := range d.Properties {
			if d.Properties[i].Computed {
				d.Properties[i].Key = tr.TransformExpr(d.Properties[i].Key)
			}
			if d.Properties[i].Value.Data != nil {
				d.Properties[i].Value = tr.TransformExpr(d.Properties[i].Value)
			}
		}
	case *EArrow:
		for i := range d.Params {
			d.Params[i].Binding = tr.TransformExpr(d.Params[i].Binding)
			if d.Params[i].DefaultValue.Data != nil {
				d.Params[i].DefaultValue = tr.TransformExpr(d.Params[i].DefaultValue)
			}
		}
		if d.ExprBody.Data != nil {
			d.ExprBody = tr.TransformExpr(d.ExprBody)
		} else {
			d.Body = tr.TransformStmtList(d.Body)
		}
	case *EFunction:
		tr.descendFunction(d)
	case *EClass:
		tr.descendClass(d)
	case *ETemplateString:
		for i := range d.Parts {
			d.Parts[i].Value = tr.TransformExpr(d.Parts[i].Value)
		}
	case *ETaggedTemplate:
		d.Tag = tr.TransformExpr(d.Tag)
		for i := range d.Parts {
			d.Parts[i].Value = tr.TransformExpr(d.Parts[i].Value)
		}
	case *EAwait:
		d.Value = tr.TransformExpr(d.Value)
	case *EYield:
		if d.Value.Data != nil {
			d.Value = tr.TransformExpr(d.Value)
		}
	case *ESpread:
		d.Value = tr.TransformExpr(d.Value)
	case *EImportExpression:
		d.ModuleName = tr.TransformExpr(d.ModuleName)
	}
	return e
}
