package linker

import (
	"github.com/mpokorny/njsast/internal/jsast"
	"github.com/mpokorny/njsast/internal/typeconv"
)

// scanRequires walks sf's top-level body for `var x = require("M")`
// bindings and bare `require("M")` expression statements, and walks the
// whole tree for `import("M")` expressions — the inputs phase 4's rewrite
// rules consume.
func scanRequires(sf *SourceFile) {
	for _, s := range sf.Top.Body {
		switch d := s.Data.(type) {
		case *jsast.SDeclare:
			if d.Kind != jsast.DeclVar {
				continue
			}
			for _, def := range d.Defs {
				name, ok := moduleRequired(def.Value)
				if !ok {
					continue
				}
				sym, ok := def.Binding.(jsast.Expr)
				if !ok {
					continue
				}
				if es, ok := sym.Data.(*jsast.ESymbol); ok {
					sf.requireBindings[es.Name] = name
					sf.Requires = append(sf.Requires, name)
				}
			}
		case *jsast.SSimple:
			if name, ok := moduleRequired(d.Value); ok {
				sf.Requires = append(sf.Requires, name)
			}
		}
	}

	w := &jsast.Walker{}
	w.Visit = func(n jsast.Node) bool {
		e, ok := n.(jsast.Expr)
		if !ok {
			return true
		}
		imp, ok := e.Data.(*jsast.EImportExpression)
		if !ok {
			return true
		}
		if str, ok := imp.ModuleName.Data.(*jsast.EString); ok {
			sf.LazyRequires = append(sf.LazyRequires, typeconv.DecodeUTF16(str.Value))
		}
		return true
	}
	w.WalkStmtList(sf.Top.Body)
}

// moduleRequired reports whether e is `require("M")` and returns M.
func moduleRequired(e jsast.Expr) (string, bool) {
	call, ok := e.Data.(*jsast.ECall)
	if !ok || len(call.Args) != 1 {
		return "", false
	}
	callee, ok := call.Callee.Data.(*jsast.ESymbol)
	if !ok || callee.Name != "require" {
		return "", false
	}
	str, ok := call.Args[0].Value.Data.(*jsast.EString)
	if !ok {
		return "", false
	}
	return typeconv.DecodeUTF16(str.Value), true
}

// scanExports implements the "initial Exports map" half of phase 1:
// top-level `export` statements become entries in sf.Exports (name -> value
// expression) and sf.SelfExports (the declared names, for e.g. a synthesized
// whole-namespace object in phase 3).
func scanExports(sf *SourceFile) {
	for _, s := range sf.Top.Body {
		exp, ok := s.Data.(*jsast.SExport)
		if !ok {
			continue
		}
		if exp.Decl.Data != nil {
			for _, name := range declaredNames(exp.Decl) {
				sym := &jsast.ESymbol{Name: name}
				if def, ok := sf.Top.Scope.Variables[name]; ok {
					def.AddReference(sym, false)
				}
				sf.Exports[name] = jsast.ExprAt(s.Loc, sym)
				sf.SelfExports = append(sf.SelfExports, name)
			}
			continue
		}
		for _, m := range exp.Mappings {
			sym := &jsast.ESymbol{Name: m.Local}
			if def, ok := sf.Top.Scope.Variables[m.Local]; ok {
				def.AddReference(sym, false)
			}
			sf.Exports[m.Foreign] = jsast.ExprAt(s.Loc, sym)
			sf.SelfExports = append(sf.SelfExports, m.Foreign)
		}
	}
}

// declaredNames returns the top-level binding names a declaration statement
// introduces (used only for the `export <decl>` form).
func declaredNames(s jsast.Stmt) []string {
	switch d := s.Data.(type) {
	case *jsast.SDeclare:
		var names []string
		for _, def := range d.Defs {
			if sym, ok := def.Binding.(jsast.Expr); ok {
				if es, ok := sym.Data.(*jsast.ESymbol); ok {
					names = append(names, es.Name)
				}
			}
		}
		return names
	case *jsast.SFunctionDecl:
		if d.Fn.Name != nil {
			return []string{d.Fn.Name.Name}
		}
	case *jsast.SClassDecl:
		if d.Class.Name != nil {
			return []string{d.Class.Name.Name}
		}
	}
	return nil
}
