package linker

import (
	"fmt"

	"github.com/mpokorny/njsast/internal/jsast"
)

// MakeUniqueName returns a name derived from oldName that isn't already a
// key of rootVariables, per spec.md §4.6's collision-resolution helper.
// suffix is appended before the disambiguating counter, typically the
// colliding file's identifier, so a renamed symbol's new name still hints
// at where it came from in debug output.
func MakeUniqueName(oldName string, rootVariables map[string]*jsast.SymbolDef, suffix string) string {
	candidate := oldName + suffix
	if _, taken := rootVariables[candidate]; !taken {
		return candidate
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s%s%d", oldName, suffix, n)
		if _, taken := rootVariables[candidate]; !taken {
			return candidate
		}
	}
}

// installSymbols adds every top-level SymbolDef from sf's scope into
// b.rootVariables, renaming whichever definition was already installed
// under a colliding name — never the newly-arrived one, per spec.md §4.6
// "Collision resolution": "the previously-installed symbol is renamed (not
// the newly-arrived one)".
func (b *Bundler) installSymbols(sf *SourceFile) {
	if sf.Top.Scope == nil {
		return
	}
	for name, def := range sf.Top.Scope.Variables {
		existing, taken := b.rootVariables[name]
		if !taken {
			b.rootVariables[name] = def
			b.symbolFile[def] = sf.Name
			continue
		}
		if existing == def {
			continue
		}
		oldFile := b.symbolFile[existing]
		newName := MakeUniqueName(name, b.rootVariables, "_"+fileIdent(oldFile))
		renameSymbol(existing, newName)
		delete(b.rootVariables, name)
		b.rootVariables[newName] = existing
		b.rootVariables[name] = def
		b.symbolFile[def] = sf.Name
	}
}

// renameSymbol changes def's bound name and every ESymbol occurrence that
// refers back to it, keeping Name (what the printer reads) and Thedef.Name
// (what future collision checks read) in sync.
func renameSymbol(def *jsast.SymbolDef, newName string) {
	def.Name = newName
	def.MangledName = newName
	for _, ref := range def.References {
		ref.Name = newName
	}
}
