package linker

import (
	"github.com/mpokorny/njsast/internal/diag"
	"github.com/mpokorny/njsast/internal/jsast"
	"github.com/mpokorny/njsast/internal/typeconv"
)

// rewrite implements spec.md §4.6 phase 4. Files are visited in dependency
// order (a file's requirements before the file itself) so that by the time a
// requirer's own body is rewritten, every module it requires already has a
// final WholeExportName/Exports map and its top-level symbols are already
// installed into the shared rootVariables scope — which is what makes
// collision resolution's "rename the previously-installed symbol" rule
// (rename.go) deterministic: whichever file is visited first keeps its name.
func (b *Bundler) rewrite() {
	visited := map[string]bool{}
	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true
		sf, ok := b.cache.Get(name)
		if !ok {
			return
		}
		for _, req := range sf.Requires {
			if resolved, ok := b.host.ResolveRequire(req, name); ok {
				visit(resolved)
			} else {
				visit(req)
			}
		}
		for _, lazy := range sf.LazyRequires {
			if resolved, ok := b.host.ResolveRequire(lazy, name); ok {
				visit(resolved)
			} else {
				visit(lazy)
			}
		}
		b.installSymbols(sf)
		b.rewriteFile(sf)
	}
	for _, splitName := range b.splitOrder {
		for _, sf := range b.splits[splitName].Files {
			visit(sf.Name)
		}
	}
}

// rewriteFile applies the five rewrite rules to sf's own top-level body:
//  1. var x = require("M"), M needing a whole export -> var x = __export_$_M
//  2. var x = require("M"), M not needing a whole export -> declaration removed
//  3. x.prop, prop in M's Exports -> the exported expression directly
//  4. bare x where M needs a whole export -> subsumed by rule 1: x already
//     equals the namespace object, so plain property access on it already
//     resolves correctly without a separate rewrite of the bare occurrence.
//  5. import("M") -> __import(splitName, propName).then(...) chained over
//     every split that must be pre-loaded first.
func (b *Bundler) rewriteFile(sf *SourceFile) {
	tr := &jsast.Transformer{
		After: func(n jsast.Node, inList bool) (jsast.Node, jsast.TransformAction) {
			switch d := n.(type) {
			case jsast.Stmt:
				if decl, ok := d.Data.(*jsast.SDeclare); ok && decl.Kind == jsast.DeclVar {
					rewritten, keep := b.rewriteDeclare(sf, d, decl)
					if !keep {
						return nil, jsast.ActionRemove
					}
					return rewritten, jsast.ActionDescend
				}
				if simple, ok := d.Data.(*jsast.SSimple); ok {
					if _, isRequire := moduleRequired(simple.Value); isRequire {
						return nil, jsast.ActionRemove
					}
				}
			case jsast.Expr:
				if dot, ok := d.Data.(*jsast.EDot); ok {
					if rewritten, ok := b.rewriteDot(sf, dot); ok {
						return rewritten, jsast.ActionReplace
					}
				}
				if imp, ok := d.Data.(*jsast.EImportExpression); ok {
					return b.rewriteImport(sf, d, imp), jsast.ActionReplace
				}
			}
			return n, jsast.ActionDescend
		},
	}
	sf.Top.Body = tr.TransformStmtList(sf.Top.Body)
	sf.State = StateRewritten
}

// rewriteDeclare applies rules 1/2 to a single var-declaration statement,
// filtering out any VarDef that bound a require() whose target doesn't need
// a whole export, and pointing the rest at the target's namespace object.
func (b *Bundler) rewriteDeclare(sf *SourceFile, s jsast.Stmt, decl *jsast.SDeclare) (jsast.Stmt, bool) {
	kept := make([]jsast.VarDef, 0, len(decl.Defs))
	for _, def := range decl.Defs {
		target, ok := moduleRequired(def.Value)
		if !ok {
			kept = append(kept, def)
			continue
		}
		tsf, ok := b.resolvedFile(target, sf.Name)
		if !ok || tsf.WholeExportName == "" {
			continue // rule 2: drop, nothing downstream references x bare
		}
		def.Value = jsast.ExprAt(def.Value.Loc, &jsast.ESymbol{Name: tsf.WholeExportName})
		kept = append(kept, def) // rule 1
	}
	if len(kept) == 0 {
		return jsast.Stmt{}, false
	}
	decl.Defs = kept
	return s, true
}

// rewriteDot applies rule 3: x.prop where x is a require binding resolves
// directly to the target module's exported expression for prop, when the
// target doesn't need (and so never got) a whole-namespace object.
func (b *Bundler) rewriteDot(sf *SourceFile, dot *jsast.EDot) (jsast.Expr, bool) {
	sym, ok := dot.Target.Data.(*jsast.ESymbol)
	if !ok {
		return jsast.Expr{}, false
	}
	moduleName, isBinding := sf.requireBindings[sym.Name]
	if !isBinding {
		return jsast.Expr{}, false
	}
	tsf, ok := b.resolvedFile(moduleName, sf.Name)
	if !ok || tsf.WholeExportName != "" {
		return jsast.Expr{}, false // rule 1 already aliased x to the namespace object
	}
	value, ok := tsf.Exports[dot.Name]
	if !ok {
		return jsast.ExprAt(dot.Target.Loc, &jsast.EUndefined{}), true
	}
	return value, true
}

// rewriteImport applies rule 5: import("M") becomes a trampoline call
// through every split that must be preloaded before M's own split, each
// wrapped by .then(). When M's target split is already the current split
// (no lazy boundary actually crosses), it's left untouched.
func (b *Bundler) rewriteImport(sf *SourceFile, orig jsast.Expr, imp *jsast.EImportExpression) jsast.Expr {
	str, ok := imp.ModuleName.Data.(*jsast.EString)
	if !ok {
		return orig
	}
	moduleName := decodeEString(str)
	tsf, ok := b.resolvedFile(moduleName, sf.Name)
	if !ok || tsf.Split == nil || sf.Split == nil || tsf.Split.Name == sf.Split.Name {
		return orig
	}

	loc := orig.Loc
	var splitsToLoad []string
	seen := map[string]bool{}
	for _, s := range sf.Split.ExpandedSplitsForcedLazy {
		if !seen[s] {
			seen[s] = true
			splitsToLoad = append(splitsToLoad, s)
		}
	}
	if !seen[tsf.Split.Name] {
		splitsToLoad = append(splitsToLoad, tsf.Split.Name)
	}

	// Every hop but the last is only a dependency preload: the consumer
	// never reads a specific export off it, just needs it loaded before the
	// final __import runs, so it's narrowed by that split's own generic
	// PropName (spec.md §8.6's "propY"). The last hop is the split that
	// actually owns the imported module, narrowed by the specific file's
	// export symbol (spec.md §8.6's "propX").
	hopProp := func(splitName string) string {
		if splitName == tsf.Split.Name {
			return tsf.Split.ExportSymbols[tsf.Name]
		}
		return b.splits[splitName].PropName
	}

	call := importCall(loc, splitsToLoad[0], hopProp(splitsToLoad[0]))
	for _, next := range splitsToLoad[1:] {
		call = thenCall(loc, call, importCall(loc, next, hopProp(next)))
	}
	return call
}

func importCall(loc diag.Position, splitName, propName string) jsast.Expr {
	return jsast.ExprAt(loc, &jsast.ECall{
		Callee: jsast.ExprAt(loc, &jsast.ESymbol{Name: "__import"}),
		Args: []jsast.Arg{
			{Value: jsast.ExprAt(loc, &jsast.EString{Value: stringToUTF16(splitName)})},
			{Value: propArg(loc, propName)},
		},
	})
}

func propArg(loc diag.Position, propName string) jsast.Expr {
	if propName == "" {
		return jsast.ExprAt(loc, &jsast.EUndefined{})
	}
	return jsast.ExprAt(loc, &jsast.EString{Value: stringToUTF16(propName)})
}

func thenCall(loc diag.Position, chain, next jsast.Expr) jsast.Expr {
	return jsast.ExprAt(loc, &jsast.ECall{
		Callee: jsast.ExprAt(loc, &jsast.EDot{Target: chain, Name: "then"}),
		Args: []jsast.Arg{
			{Value: jsast.ExprAt(loc, &jsast.EArrow{
				Params:   nil,
				ExprBody: next,
			})},
		},
	})
}

// resolvedFileName canonicalizes spec against fromFile the same way loadFile
// does, falling back to spec itself when the host can't resolve it (e.g. an
// entry name with no requirer).
func (b *Bundler) resolvedFileName(spec, fromFile string) (string, bool) {
	if resolved, ok := b.host.ResolveRequire(spec, fromFile); ok {
		return resolved, true
	}
	return spec, true
}

func (b *Bundler) resolvedFile(moduleName, fromFile string) (*SourceFile, bool) {
	name, _ := b.resolvedFileName(moduleName, fromFile)
	return b.cache.Get(name)
}

func decodeEString(e *jsast.EString) string {
	return typeconv.DecodeUTF16(e.Value)
}
