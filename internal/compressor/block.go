package compressor

import "github.com/mpokorny/njsast/internal/jsast"

// eliminateBlocksAndEmpties implements spec.md §4.5's "block/empty-statement
// elimination" bullet: an SBlock in a list position that holds no statement
// is removed and one that holds a single statement is replaced by it, and an
// SEmpty statement in a list position is dropped outright (an SEmpty as the
// sole body of an if/while/for is left alone — it is meaningful there, not
// redundant). A block of two or more statements is left wrapped, since
// jsast.Transformer replaces one statement with exactly one and cannot
// splice the block's body into the parent list.
//
// A block is safe to unwrap only when it declares nothing lexically scoped
// (let/const/class) that the surrounding list doesn't already expect to
// scope the same way — since this pass runs on bare statement lists, not
// scope-aware ones, it conservatively only flattens blocks with no lexical
// declarations at all.
func eliminateBlocksAndEmpties(top *jsast.Toplevel, dropEmpty, flattenBlocks bool) bool {
	changed := false
	tr := &jsast.Transformer{
		After: func(n jsast.Node, inList bool) (jsast.Node, jsast.TransformAction) {
			s, ok := n.(jsast.Stmt)
			if !ok {
				return n, jsast.ActionDescend
			}
			switch d := s.Data.(type) {
			case *jsast.SEmpty:
				if dropEmpty && inList {
					changed = true
					return nil, jsast.ActionRemove
				}
			case *jsast.SBlock:
				if flattenBlocks && inList && len(d.Body) <= 1 && hasNoLexicalDecls(d.Body) {
					changed = true
					if len(d.Body) == 0 {
						return nil, jsast.ActionRemove
					}
					return blockAsSpliced(d.Body), jsast.ActionReplace
				}
			}
			return n, jsast.ActionDescend
		},
	}
	top.Body = tr.TransformStmtList(top.Body)
	return changed
}

func hasNoLexicalDecls(body []jsast.Stmt) bool {
	for _, s := range body {
		switch d := s.Data.(type) {
		case *jsast.SDeclare:
			if d.Kind != jsast.DeclVar {
				return false
			}
		case *jsast.SClassDecl, *jsast.SFunctionDecl:
			return false
		}
	}
	return true
}

// blockAsSpliced collapses a non-empty block to its single statement.
// jsast.Transformer's ActionReplace slot holds exactly one Stmt, so a block
// of two or more statements has nothing smaller to replace it with and is
// left wrapped.
func blockAsSpliced(body []jsast.Stmt) jsast.Stmt {
	if len(body) == 1 {
		return body[0]
	}
	return jsast.StmtAt(body[0].Loc, &jsast.SBlock{Body: body})
}
