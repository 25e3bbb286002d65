// Package compressor implements spec.md §4.5's compressor passes:
// unreachable-code elimination, block/empty-statement elimination, boolean
// compression, return compression with variable hoisting, and constant
// folding, driven to a fixed point by Compress.
//
// Grounded on the teacher's internal/js_parser/js_parser_optimize_*.go
// constant-folding and dead-code-removal visitors, but expressed against
// this module's generic jsast.Transformer (internal/jsast/walk.go) rather
// than the teacher's bespoke visitor methods — per spec.md §4.3's Walker/
// Transformer primitives, one traversal shape is shared by every pass here
// instead of each pass hand-rolling its own descent.
package compressor

import (
	"github.com/mpokorny/njsast/internal/config"
	"github.com/mpokorny/njsast/internal/diag"
	"github.com/mpokorny/njsast/internal/jsast"
)

// pass is one compressor transformation. It reports whether it changed
// anything, so the fixed-point driver knows whether another round is worth
// running.
type pass struct {
	name string
	run  func(top *jsast.Toplevel) bool
}

// Compress runs every pass opts enables over top, repeating the whole set
// until a round makes no change or opts.MaxPasses rounds have run,
// whichever comes first. MaxPasses == 0 means "run the enabled passes
// exactly once."
//
// Fatal errors (the not-implemented for-in/for-of/with cases spec.md §4.5
// calls out) are raised via log.Raise and recovered here into err, mirroring
// jsparser.Parse's and scope.Analyzer.AnalyzeToplevel's panic/recover
// pipeline boundary.
func Compress(top *jsast.Toplevel, opts config.ICompressOptions, log *diag.Log) (err error) {
	defer diag.ReportPanic(&err)

	passes := enabledPasses(opts, log)
	limit := opts.MaxPasses
	if limit == 0 {
		limit = 1
	}

	for i := uint32(0); i < limit; i++ {
		changed := false
		for _, p := range passes {
			if p.run(top) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	// true/false -> !0/!1 runs exactly once, after the tree has fully
	// converged: see compressBooleans's comment for why running it inside
	// the round loop above would fight constant folding forever.
	if opts.EnableBooleanCompress {
		finalizeBooleanLiterals(top)
	}
	return nil
}

func enabledPasses(opts config.ICompressOptions, log *diag.Log) []pass {
	var passes []pass
	if opts.EnableUnreachableCodeElimination {
		passes = append(passes, pass{"unreachable", func(top *jsast.Toplevel) bool {
			return eliminateUnreachable(top, log)
		}})
	}
	if opts.EnableFunctionReturnCompress || opts.EnableVariableHoisting {
		passes = append(passes, pass{"return-hoist", func(top *jsast.Toplevel) bool {
			return compressReturnsAndHoist(top, opts.EnableFunctionReturnCompress, opts.EnableVariableHoisting)
		}})
	}
	if opts.EnableBooleanCompress {
		passes = append(passes, pass{"boolean", compressBooleans})
	}
	if opts.EnableEmptyStatementElimination || opts.EnableBlockElimination {
		passes = append(passes, pass{"block-empty", func(top *jsast.Toplevel) bool {
			return eliminateBlocksAndEmpties(top, opts.EnableEmptyStatementElimination, opts.EnableBlockElimination)
		}})
	}
	// Constant folding runs last in each round so the other structural
	// passes see already-folded literals (e.g. unreachable elimination's
	// ToBoolean(Test) benefits from a `1+1` already folded to `2`).
	passes = append(passes, pass{"fold", foldConstants})
	return passes
}
