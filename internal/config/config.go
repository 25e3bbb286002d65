// Package config holds the option structs and host-context interfaces that
// spec.md §6 ("External interfaces") defines: the compressor's enabled-pass
// toggles, the printer's output options, and the abstract host the linker
// calls back into for file content, require resolution, and bundle output.
//
// Grounded on the teacher's internal/config/config.go: a flat package of
// plain option structs (JSXOptions, TSOptions, Options) with no behavior of
// their own, consumed by every other package by value or pointer. This
// package keeps that shape — no parsing, no defaults-from-flags logic, since
// a CLI/env driver is explicitly out of scope for this module.
package config

// ICompressOptions enumerates which compressor passes (internal/compressor,
// spec.md §4.5) are enabled for a run, plus the fixed-point driver's pass
// ceiling.
type ICompressOptions struct {
	EnableUnreachableCodeElimination bool
	EnableEmptyStatementElimination  bool
	EnableBlockElimination           bool
	EnableBooleanCompress            bool
	EnableFunctionReturnCompress     bool
	EnableVariableHoisting           bool

	// MaxPasses bounds the fixed-point driver; zero means "run exactly one
	// pass" rather than "unbounded", so a caller must opt into iteration.
	MaxPasses uint32
}

// AllPasses returns an ICompressOptions with every pass enabled, the
// default a caller wanting full compression would reach for.
func AllPasses(maxPasses uint32) ICompressOptions {
	return ICompressOptions{
		EnableUnreachableCodeElimination: true,
		EnableEmptyStatementElimination:  true,
		EnableBlockElimination:           true,
		EnableBooleanCompress:            true,
		EnableFunctionReturnCompress:     true,
		EnableVariableHoisting:           true,
		MaxPasses:                        maxPasses,
	}
}

// OutputOptions controls the printer (internal/printer).
type OutputOptions struct {
	// Beautify requests indented, multi-line output; false produces the
	// minified single-line form the bundler normally emits.
	Beautify bool
}

// HostContext is the set of callbacks the linker (internal/linker) needs
// from its embedder, per spec.md §6's "Host context (consumed by linker)".
// Every method is synchronous: spec.md §5 requires the whole pipeline to be
// single-threaded, so there is nothing here to cancel or await.
type HostContext interface {
	// ReadContent returns the source text for name, and ok=false if name
	// cannot be read (the file is missing, per spec.md's "text?").
	ReadContent(name string) (text string, ok bool)

	// GetPlainJsDependencies returns verbatim prelude files to be emitted as
	// headers ahead of name's own bundle.
	GetPlainJsDependencies(name string) []string

	// ResolveRequire canonicalizes a require/import specifier relative to
	// fromFile: relative paths are joined and normalized, a missing
	// extension defaults to ".js", and an explicit ".json" is preserved.
	ResolveRequire(spec string, fromFile string) (resolved string, ok bool)

	// GenerateBundleName maps a logical split/bundle name to the name the
	// output file should be written under.
	GenerateBundleName(logicalName string) string

	// JsHeaders returns the runtime prelude for splitName, including the
	// internal/runtime __import trampoline when needsImport is true.
	JsHeaders(splitName string, needsImport bool) string

	// WriteBundle is the final sink for phase 5's emitted text.
	WriteBundle(name string, content string)
}

// BundlerOptions is spec.md §6's "Bundler configuration": the linker-wide
// settings that apply across every SourceFile in a run.
type BundlerOptions struct {
	// PartToMainFilesMap maps a split's short name to the entry files that
	// belong to it; the main split conventionally has no entry here and is
	// instead whatever is reachable from every PartToMainFilesMap entry.
	PartToMainFilesMap map[string][]string

	// GlobalDefines substitutes a constant expression for every free
	// reference to name, applied before compression so that folding can see
	// through the substitution.
	GlobalDefines map[string]string

	// Mangle enables the linker's collision-driven renaming for any name,
	// not only names that actually collided (spec.md's MakeUniqueName is
	// always used for collisions regardless of this flag).
	Mangle bool

	Compress *ICompressOptions
	Output   OutputOptions
}
