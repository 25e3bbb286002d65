// Package njsast is the small public facade spec.md's PACKAGE LAYOUT calls
// for: one entry point per pipeline stage (Parse, Analyze, Compress, Link),
// thin wrappers over internal/jsparser, internal/scope, internal/compressor,
// and internal/linker so a caller outside this module never has to reach
// into internal/ directly.
//
// Grounded on the teacher's top-level pkg/api package: a handful of
// functions re-exporting internal types and forwarding straight into the
// internal implementation, with no logic of its own.
package njsast

import (
	"github.com/mpokorny/njsast/internal/compressor"
	"github.com/mpokorny/njsast/internal/config"
	"github.com/mpokorny/njsast/internal/diag"
	"github.com/mpokorny/njsast/internal/jsast"
	"github.com/mpokorny/njsast/internal/jsparser"
	"github.com/mpokorny/njsast/internal/linker"
	"github.com/mpokorny/njsast/internal/printer"
	"github.com/mpokorny/njsast/internal/scope"
)

// Re-exported types callers need to hold onto between stages, so importing
// only this package is ever required for the Parse -> Analyze -> Compress ->
// Print pipeline (spec.md §1-5).
type (
	Toplevel       = jsast.Toplevel
	ParserOptions  = jsparser.Options
	CompressOptions = config.ICompressOptions
	PrintOptions   = printer.Options
	HostContext    = config.HostContext
	BundlerOptions = config.BundlerOptions
	Log            = diag.Log
)

// NewLog constructs a diagnostics sink for a single file or run, per
// spec.md §7.
func NewLog(file string) *Log {
	return diag.NewLog(file)
}

// Parse runs the recursive-descent parser (internal/jsparser, spec.md §4.2)
// over source, returning its unscoped AST.
func Parse(source string, log *Log, opt ParserOptions) (*Toplevel, error) {
	result, err := jsparser.Parse(source, log, opt)
	if err != nil {
		return nil, err
	}
	return result.Toplevel, nil
}

// Analyze runs the scope/symbol analyzer (internal/scope, spec.md §4.4) over
// top, binding every ESymbol to its SymbolDef (or leaving it nil for a free
// global, per the "Scope totality" invariant, spec.md §8).
func Analyze(top *Toplevel, log *Log) error {
	return scope.NewAnalyzer(log).AnalyzeToplevel(top)
}

// Compress runs the fixed-point optimizing compressor (internal/compressor,
// spec.md §4.5) over an already-analyzed top, in place.
func Compress(top *Toplevel, opts CompressOptions, log *Log) error {
	return compressor.Compress(top, opts, log)
}

// Print renders top back to JS source text (internal/printer, spec.md §1's
// Print(ast) interface).
func Print(top *Toplevel, opts PrintOptions) string {
	return printer.Print(top, opts)
}

// NewBundler constructs the bundler linker (internal/linker, spec.md §4.6)
// against a host context and bundler-wide options. cacheSize bounds the
// SourceFile cache; 0 selects a sensible default.
func NewBundler(host HostContext, opts BundlerOptions, log *Log, cacheSize int) *linker.Bundler {
	return linker.NewBundler(host, opts, log, cacheSize)
}

// AllPasses returns a CompressOptions with every compressor pass enabled,
// bounded to maxPasses fixed-point rounds.
func AllPasses(maxPasses uint32) CompressOptions {
	return config.AllPasses(maxPasses)
}
