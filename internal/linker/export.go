package linker

import (
	"github.com/mpokorny/njsast/internal/diag"
	"github.com/mpokorny/njsast/internal/jsast"
)

// materializeExports implements spec.md §4.6 phase 3: every file that some
// requirer references as a whole namespace (`var x = require("M")` where x
// is later used bare, not just as `x.prop`) gets a synthesized
// `var __export_$_<FileIdent> = { k1: v1, ... }` object literal appended to
// its own top-level body, built from its Exports map.
func (b *Bundler) materializeExports() {
	needsWhole := b.findWholeNamespaceTargets()
	needsWhole = append(needsWhole, b.findLazyImportTargets()...)

	for _, name := range needsWhole {
		sf, ok := b.cache.Get(name)
		if !ok || sf.WholeExportName != "" {
			continue
		}
		synthesizeWholeExport(sf)
	}

	b.computeSplitExportSymbols()
}

// findLazyImportTargets returns the set of resolved module names that are
// ever the target of an import() anywhere in the graph: a dynamic import
// always resolves to that file's whole namespace object (there is no
// `.prop`-only shortcut the way a static require binding has), so every
// such target needs its WholeExportName synthesized regardless of how it's
// used locally.
func (b *Bundler) findLazyImportTargets() []string {
	seen := map[string]bool{}
	var out []string
	for _, key := range b.cache.Keys() {
		sf, ok := b.cache.Peek(key)
		if !ok {
			continue
		}
		for _, lazy := range sf.LazyRequires {
			name, ok := b.resolvedFileName(lazy, sf.Name)
			if !ok || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// computeSplitExportSymbols fills in each split's PropName (its own default
// loader property, used to preload the split as a dependency without
// reading any one file's exports) and ExportSymbols (the resolvedFileName ->
// exportSymbol map spec.md §3 names, used to read a specific lazily-imported
// file's namespace back out of __import's result). Must run after whole
// exports are synthesized, since ExportSymbols reads WholeExportName.
func (b *Bundler) computeSplitExportSymbols() {
	for _, name := range b.splitOrder {
		split := b.splits[name]
		if split.PropName == "" {
			split.PropName = "__split_$_" + fileIdent(split.Name)
		}
		for _, sf := range split.Files {
			if sf.WholeExportName != "" {
				split.ExportSymbols[sf.Name] = sf.WholeExportName
			}
		}
	}
}

// findWholeNamespaceTargets scans every cached file's require bindings for
// a bare (non-`.prop`) use and returns the set of target module names that
// need a whole-namespace object.
func (b *Bundler) findWholeNamespaceTargets() []string {
	seen := map[string]bool{}
	var out []string
	// add resolves spec against fromFile before recording it: requireBindings
	// holds the raw require() specifier, but the cache (and this function's
	// result) is keyed by the host's resolved module name.
	add := func(spec, fromFile string) {
		name, ok := b.resolvedFileName(spec, fromFile)
		if !ok || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}

	for _, key := range b.cache.Keys() {
		sf, ok := b.cache.Peek(key)
		if !ok || len(sf.requireBindings) == 0 {
			continue
		}

		barelyUsed := map[string]bool{}
		w := &jsast.Walker{}
		w.Visit = func(n jsast.Node) bool {
			if s, ok := n.(jsast.Stmt); ok {
				// A declaration's own binding name is not a use of it.
				if decl, ok := s.Data.(*jsast.SDeclare); ok {
					for _, def := range decl.Defs {
						if b, ok := def.Binding.(jsast.Expr); ok {
							if _, plain := b.Data.(*jsast.ESymbol); !plain {
								w.WalkExpr(b)
							}
						}
						if def.Value.Data != nil {
							w.WalkExpr(def.Value)
						}
					}
					return false
				}
				return true
			}
			e, ok := n.(jsast.Expr)
			if !ok {
				return true
			}
			if dot, ok := e.Data.(*jsast.EDot); ok {
				// The symbol directly under a .prop access is handled by
				// the rewrite phase without needing a whole export; only
				// recurse into the target in case it's itself a require
				// binding used some other way, not the immediate dot.
				if sym, ok := dot.Target.Data.(*jsast.ESymbol); ok {
					if _, isBinding := sf.requireBindings[sym.Name]; isBinding {
						return false // already consumed as `.prop`, don't flag bare
					}
				}
				return true
			}
			if sym, ok := e.Data.(*jsast.ESymbol); ok {
				if _, isBinding := sf.requireBindings[sym.Name]; isBinding {
					barelyUsed[sym.Name] = true
				}
			}
			return true
		}
		w.WalkStmtList(sf.Top.Body)

		// A name used both bare and as `.prop` surfaces here because its
		// non-dot occurrence sets barelyUsed; pure `.prop`-only uses never
		// appear in barelyUsed since the EDot branch does not descend into
		// a require binding directly under it, and the declaring
		// `var x = require(...)` binding itself is skipped above.
		for localName, used := range barelyUsed {
			if !used {
				continue
			}
			add(sf.requireBindings[localName], sf.Name)
		}
	}
	return out
}

func synthesizeWholeExport(sf *SourceFile) {
	ident := fileIdent(sf.Name)
	name := "__export_$_" + ident
	sf.WholeExportName = name

	names := make([]string, 0, len(sf.Exports))
	for k := range sf.Exports {
		names = append(names, k)
	}
	names = sortStrings(names)

	var loc diag.Position
	if len(sf.Top.Body) > 0 {
		loc = sf.Top.Body[0].Loc
	}

	decl := jsast.StmtAt(loc, &jsast.SDeclare{
		Kind: jsast.DeclVar,
		Defs: []jsast.VarDef{{
			Binding: jsast.ExprAt(loc, &jsast.ESymbol{Name: name}),
			Value:   buildExportObject(sf, loc, names),
		}},
	})
	sf.Top.Body = append(sf.Top.Body, decl)
	sf.State = StateWholeExportSynthesized
}

func buildExportObject(sf *SourceFile, loc diag.Position, names []string) jsast.Expr {
	props := make([]jsast.Property, 0, len(names))
	for _, k := range names {
		props = append(props, jsast.Property{
			Kind:  jsast.PropertyNormal,
			Key:   jsast.ExprAt(loc, &jsast.EString{Value: stringToUTF16(k)}),
			Value: sf.Exports[k],
		})
	}
	return jsast.ExprAt(loc, &jsast.EObject{Properties: props})
}

func fileIdent(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			out = append(out, c)
		} else {
			out = append(out, '_')
		}
	}
	return string(out)
}

func sortStrings(s []string) []string {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
	return s
}

func stringToUTF16(s string) []uint16 {
	out := make([]uint16, 0, len(s))
	for _, r := range s {
		if r > 0xFFFF {
			r -= 0x10000
			out = append(out, uint16(0xD800+(r>>10)), uint16(0xDC00+(r&0x3FF)))
			continue
		}
		out = append(out, uint16(r))
	}
	return out
}
