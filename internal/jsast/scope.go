package jsast

// SymbolKind distinguishes the role a declaration plays, following spec.md
// §3's closed enumeration so later passes can pattern-match on role instead
// of re-deriving it from context (the teacher's SymbolKind serves the same
// purpose, though enumerated differently since esbuild also tracks
// TypeScript/private-field kinds this spec does not need).
type SymbolKind uint8

const (
	SymbolVar SymbolKind = iota
	SymbolLet
	SymbolConst
	SymbolFunarg
	SymbolDefun
	SymbolLambda
	SymbolCatch
	SymbolImport
	SymbolImportForeign
	SymbolExport
	SymbolExportForeign
	SymbolMethod
	SymbolDeclaration
)

// ScopeKind records what kind of syntactic construct introduced a scope,
// used by the analyzer to decide hoisting targets (var hoists to the
// nearest ScopeFunction, ScopeArrow or ScopeToplevel, never to a
// ScopeBlock).
type ScopeKind uint8

const (
	ScopeToplevel ScopeKind = iota
	ScopeFunction
	ScopeArrow
	ScopeBlock
	ScopeClass
	ScopeCatch
)

// StopsVarHoisting reports whether a "var" hoisted from within this scope
// must stop here instead of continuing to an enclosing scope.
func (k ScopeKind) StopsVarHoisting() bool {
	return k == ScopeToplevel || k == ScopeFunction || k == ScopeArrow
}

// SymbolDef is the identity of a declared variable (spec.md §3). It is
// reached from every ESymbol that refers to it via Thedef, and holds the
// back-references needed for mangling, tree-shaking, and collision
// resolution during bundling.
//
// Per the design notes (spec.md §9), this is realized as a plain Go pointer
// rather than an index into a bump-allocated arena: every SymbolDef is
// reachable for the lifetime of its defining Scope (§3 "Lifecycle"), parsing
// one file at a time never needs esbuild's cross-goroutine Ref indirection,
// and a *SymbolDef is already the "integer handle" the design notes call
// for, just sized to a machine word instead of two uint32s.
type SymbolDef struct {
	Name       string
	Kind       SymbolKind
	Scope      *Scope
	Init       Expr // not set by internal/scope; always the zero Expr
	References []*ESymbol

	// Global is not set by internal/scope: a free identifier that resolves
	// to no declaration gets no SymbolDef (its Thedef stays nil).
	Global bool

	// MangledName is filled in by a renaming pass (internal/linker's
	// collision resolution, or a future minifier) and is empty until then.
	MangledName string

	// Read/Write are flipped on as uses are discovered (AddReference).
	// Unreferenced() does not consult them; it counts References.
	Read  bool
	Write bool

	// Pinned symbols must never be considered unreferenced or renamed: a
	// scope containing "eval" or "with" pins every SymbolDef visible to it,
	// since either construct may reference any of them dynamically.
	Pinned bool
}

// Unreferenced reports whether this definition has no recorded uses and its
// scope is not pinned, per spec.md §4.4.
func (d *SymbolDef) Unreferenced() bool {
	return len(d.References) == 0 && !d.Pinned
}

// AddReference records a use of this definition from the given occurrence:
// it appends the back-reference, points sym.Thedef at d, and marks Write
// when isWrite is true or Read otherwise, per spec.md §4.4 step 3 (the
// caller decides isWrite, since it knows whether the occurrence sits on the
// LHS of an assignment or increment).
func (d *SymbolDef) AddReference(sym *ESymbol, isWrite bool) {
	d.References = append(d.References, sym)
	if isWrite {
		d.Write = true
	} else {
		d.Read = true
	}
	sym.Thedef = d
}

// Scope is a lexical scope: a Toplevel, any function/arrow/class body, or a
// block. It owns the SymbolDefs declared directly within it and the set of
// outer SymbolDefs captured by something nested inside it.
type Scope struct {
	Kind   ScopeKind
	Parent *Scope

	// Variables holds every SymbolDef declared directly in this scope,
	// keyed by name.
	Variables map[string]*SymbolDef

	// Functions holds function declarations specifically, kept separate
	// from Variables because "var"/"function" hoisting and redeclaration
	// rules differ (spec.md §3 "Scopes").
	Functions map[string]*SymbolDef

	// Enclosed is the set of SymbolDefs defined in an outer scope but
	// referenced from within this one or a descendant — the "closure" set
	// that drives mangling. Unreferenced does not consult it.
	Enclosed map[*SymbolDef]bool

	// HasDirectEval/HasWith pin every SymbolDef visible from this scope,
	// per SymbolDef.Pinned's doc comment.
	HasDirectEval bool
	HasWith       bool
}

// NewScope allocates an empty scope nested under parent (nil for a
// Toplevel).
func NewScope(kind ScopeKind, parent *Scope) *Scope {
	return &Scope{
		Kind:      kind,
		Parent:    parent,
		Variables: make(map[string]*SymbolDef),
		Functions: make(map[string]*SymbolDef),
		Enclosed:  make(map[*SymbolDef]bool),
	}
}

// Declare records a new SymbolDef in this scope, returning it. Callers
// (internal/scope) are responsible for duplicate-declaration checks before
// calling this, since the legality of a redeclaration depends on the
// SymbolKind of both the existing and new binding.
func (s *Scope) Declare(name string, kind SymbolKind) *SymbolDef {
	def := &SymbolDef{Name: name, Kind: kind, Scope: s}
	if kind == SymbolDefun {
		s.Functions[name] = def
	}
	s.Variables[name] = def
	return def
}

// FunctionHoistTarget walks up from s to the nearest scope that "var" and
// function declarations hoist into.
func (s *Scope) FunctionHoistTarget() *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Kind.StopsVarHoisting() {
			return cur
		}
	}
	return s
}

// Lookup walks the scope chain outward looking for name, returning the
// nearest SymbolDef and the chain of scopes between the use and the
// definition (exclusive of the defining scope), matching spec.md §4.4 step 1-2.
func (s *Scope) Lookup(name string) (def *SymbolDef, between []*Scope) {
	for cur := s; cur != nil; cur = cur.Parent {
		if def, ok := cur.Variables[name]; ok {
			return def, between
		}
		between = append(between, cur)
	}
	return nil, between
}

// MarkEnclosed adds def to every scope in chain's Enclosed set, implementing
// the second half of spec.md §4.4 step 2 ("add Thedef to that scope's
// Enclosed set" for every scope between the use and the definition).
func MarkEnclosed(chain []*Scope, def *SymbolDef) {
	for _, sc := range chain {
		sc.Enclosed[def] = true
	}
}

// Pin marks every SymbolDef visible from s (its own variables plus every
// ancestor's) as Pinned, used when a direct eval() or a with statement is
// found in s.
func Pin(s *Scope) {
	for cur := s; cur != nil; cur = cur.Parent {
		for _, def := range cur.Variables {
			def.Pinned = true
		}
	}
}
