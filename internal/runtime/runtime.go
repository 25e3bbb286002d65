// Package runtime holds a small JS prelude for bundles that contain a lazy
// `import()` (§4.6, §6). internal/linker does not call Source; the headers
// it emits come from HostContext.JsHeaders.
// Grounded on the teacher's internal/runtime: a single exported Go-string
// function returning JS source text, injected by the host rather than parsed
// and merged into the module graph the way a regular dependency would be.
package runtime

// Source returns the host-provided JS prelude for a bundle. needsImport is
// true when at least one `import()` call in the bundle was rewritten to a
// `__import(split, prop)` trampoline (§4.6 phase 4) and the host must supply
// that function; a bundle with no lazy imports gets an empty prelude.
//
// __import's shape follows spec.md §6's "host-provided __import(split, prop)
// function returning a promise of an exports namespace": splits are
// identified by the bundler's own split names (HostContext.GenerateBundleName),
// not file paths, so the trampoline has no filesystem or module-resolution
// logic of its own — it only waits for a split to finish loading and reads
// one property off the namespace object that split's code already populated.
func Source(needsImport bool) string {
	if !needsImport {
		return ""
	}
	return `
		var __importedSplits = Object.create(null)
		var __import = function(split, prop) {
			var p = __importedSplits[split]
			if (!p) {
				p = __importedSplits[split] = __loadSplit(split)
			}
			return p.then(function(ns) { return prop ? ns[prop] : ns })
		}
	`
}
