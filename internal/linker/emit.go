package linker

import (
	"github.com/mpokorny/njsast/internal/helpers"
	"github.com/mpokorny/njsast/internal/printer"
)

// emit implements spec.md §4.6 phase 5: each split's files are concatenated
// in dependency order (a requirement's top-level code before its requirer's,
// so a top-level evaluation in one file can observe the other's completed
// side effects) behind the host's headers, then written out through
// host.WriteBundle under the host's generated name.
func (b *Bundler) emit() map[string]string {
	out := make(map[string]string)
	for _, name := range b.splitOrder {
		split := b.splits[name]
		ordered := dependencyOrder(b, split)

		var j helpers.Joiner
		// A split needs the __import runtime trampoline both when it preloads
		// other splits itself and when it is only ever reached as someone
		// else's lazy target — the loader protocol is symmetric.
		needsImport := len(split.ExpandedSplitsForcedLazy) > 0 || split.IsLazyLoaded
		j.AddString(b.host.JsHeaders(name, needsImport))
		j.EnsureNewlineAtEnd()

		for _, dep := range split.Files {
			for _, prelude := range b.host.GetPlainJsDependencies(dep.Name) {
				j.AddString(prelude)
				j.EnsureNewlineAtEnd()
			}
		}

		for _, sf := range ordered {
			j.AddString(printer.Print(sf.Top, printer.Options(b.opts.Output)))
			j.EnsureNewlineAtEnd()
			sf.State = StateEmitted
		}

		content := j.Done()
		bundleName := b.host.GenerateBundleName(name)
		b.host.WriteBundle(bundleName, content)
		out[bundleName] = content
	}
	return out
}

// dependencyOrder returns split's own files (excluding anything pulled in
// only lazily from another split) in post-order over the require graph, so
// each file appears after everything it requires.
func dependencyOrder(b *Bundler, split *SplitInfo) []*SourceFile {
	visited := map[string]bool{}
	var order []*SourceFile
	var visit func(sf *SourceFile)
	visit = func(sf *SourceFile) {
		if visited[sf.Name] {
			return
		}
		visited[sf.Name] = true
		for _, req := range sf.Requires {
			target, ok := b.resolvedFile(req, sf.Name)
			if !ok || target.Split != split {
				continue // belongs to another split, already reached via __import
			}
			visit(target)
		}
		order = append(order, sf)
	}
	for _, sf := range split.Files {
		visit(sf)
	}
	return order
}
