package linker

import (
	"github.com/mpokorny/njsast/internal/diag"
	"github.com/mpokorny/njsast/internal/jsast"
	"github.com/mpokorny/njsast/internal/jsparser"
	"github.com/mpokorny/njsast/internal/scope"
)

// discover implements spec.md §4.6 phase 1: starting from every split's
// entry files, parse each reachable file and record its Requires,
// LazyRequires, SelfExports, and initial Exports map.
func (b *Bundler) discover() {
	for _, name := range sortedKeys(b.opts.PartToMainFilesMap) {
		for _, entry := range b.opts.PartToMainFilesMap[name] {
			b.loadFile(entry, "")
		}
	}
}

// loadFile parses name (if not already cached) and recursively loads every
// module it requires, directly or lazily. fromFile is the requirer, used to
// resolve relative specifiers; "" for an entry file.
func (b *Bundler) loadFile(spec, fromFile string) *SourceFile {
	name := spec
	if fromFile != "" {
		resolved, ok := b.host.ResolveRequire(spec, fromFile)
		if !ok {
			b.log.Raise(diag.KindLinker, diag.Range{}, "Cannot find "+spec)
		}
		name = resolved
	}

	if sf, ok := b.cache.Get(name); ok {
		return sf
	}

	text, ok := b.host.ReadContent(name)
	if !ok {
		b.log.Raise(diag.KindLinker, diag.Range{}, "Cannot find "+name)
	}

	res, err := jsparser.Parse(text, b.log, jsparser.Options{})
	if err != nil {
		panic(err)
	}

	sf := &SourceFile{
		Name:            name,
		State:           StateParsed,
		Top:             res.Toplevel,
		Exports:         make(map[string]jsast.Expr),
		requireBindings: make(map[string]string),
	}
	// Cache the file before recursing so a require cycle resolves to the
	// same (still-loading) SourceFile instead of looping forever.
	b.cache.Add(name, sf)

	analyzer := scope.NewAnalyzer(b.log)
	if err := analyzer.AnalyzeToplevel(sf.Top); err != nil {
		panic(err)
	}
	sf.State = StateAnalyzed

	scanRequires(sf)
	scanExports(sf)
	sf.State = StateExportsComputed

	for _, req := range sf.Requires {
		b.loadFile(req, name)
	}
	for _, lazy := range sf.LazyRequires {
		b.loadFile(lazy, name)
	}
	return sf
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Simple insertion sort: these lists are a handful of splits/entries at
	// most, and avoiding an extra import for one tiny slice keeps this
	// bundler self-contained.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}
