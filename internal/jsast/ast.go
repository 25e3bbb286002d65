// Package jsast defines the typed AST produced by internal/jsparser: a
// closed sum type of expression and statement node variants (spec.md §3),
// plus the scope/symbol model (§3 "Scopes"/"Symbols") and the generic
// Walker/Transformer traversal framework (§4.3).
//
// The sum type follows the teacher's (evanw/esbuild internal/js_ast) technique:
// a thin wrapper struct (Expr, Stmt) carries the source position, and an
// unexported marker interface (ExprData, StmtData) is implemented by each
// concrete node variant. A type switch over Data is the "non-virtual match"
// called for in spec.md §9 — every child is exclusively owned by its parent,
// so no node needs shared ownership or reference counting.
package jsast

import "github.com/mpokorny/njsast/internal/diag"

// ExprData is implemented by every expression node variant.
type ExprData interface{ isExprData() }

// StmtData is implemented by every statement node variant.
type StmtData interface{ isStmtData() }

// Expr pairs a node's source position with its variant payload.
type Expr struct {
	Loc  diag.Position
	Data ExprData
}

// Stmt pairs a node's source position with its variant payload.
type Stmt struct {
	Loc  diag.Position
	Data StmtData
}

func expr(loc diag.Position, data ExprData) Expr { return Expr{Loc: loc, Data: data} }
func stmt(loc diag.Position, data StmtData) Stmt { return Stmt{Loc: loc, Data: data} }

// ExprAt and StmtAt build nodes with an explicit position; used by the
// parser and by compressor passes that synthesize replacement nodes.
func ExprAt(loc diag.Position, data ExprData) Expr { return expr(loc, data) }
func StmtAt(loc diag.Position, data StmtData) Stmt { return stmt(loc, data) }

// ---------------------------------------------------------------------------
// Atoms

type EThis struct{}
type ESuper struct{}
type ENull struct{}
type ETrue struct{}
type EFalse struct{}
type ENaN struct{}
type EInfinity struct{}
type EUndefined struct{}

// ENumber holds both the coerced float64 value and the original source text,
// since constant folding needs the value but the printer (out of scope here,
// specified only by its interface) needs the raw text to avoid reformatting
// literals unnecessarily.
type ENumber struct {
	Value float64
	Raw   string
}

// EString stores UTF-16 code units like the teacher does, since JS string
// semantics (and JSON-compatible escaping) are defined in UTF-16 code units,
// not bytes or runes.
type EString struct {
	Value []uint16
}

type ERegExp struct {
	Pattern string
	Flags   string
}

func (*EThis) isExprData()      {}
func (*ESuper) isExprData()     {}
func (*ENull) isExprData()      {}
func (*ETrue) isExprData()      {}
func (*EFalse) isExprData()     {}
func (*ENaN) isExprData()       {}
func (*EInfinity) isExprData()  {}
func (*EUndefined) isExprData() {}
func (*ENumber) isExprData()    {}
func (*EString) isExprData()    {}
func (*ERegExp) isExprData()    {}

// ---------------------------------------------------------------------------
// Identifiers / Symbols

// ESymbol is an identifier occurrence. Thedef is filled in by the scope
// analyzer (internal/scope); it is nil only for a free global reference,
// per the "Scope totality" invariant in spec.md §8.
type ESymbol struct {
	Name   string
	Thedef *SymbolDef
}

func (*ESymbol) isExprData() {}

// ---------------------------------------------------------------------------
// Operator expressions

type OpCode uint8

const (
	UnOpPos OpCode = iota
	UnOpNeg
	UnOpCpl
	UnOpNot
	UnOpVoid
	UnOpTypeof
	UnOpDelete
	UnOpPreInc
	UnOpPreDec
	UnOpPostInc
	UnOpPostDec

	BinOpAdd
	BinOpSub
	BinOpMul
	BinOpDiv
	BinOpMod
	BinOpPow
	BinOpLt
	BinOpLe
	BinOpGt
	BinOpGe
	BinOpIn
	BinOpInstanceof
	BinOpShl
	BinOpShr
	BinOpUShr
	BinOpLooseEq
	BinOpLooseNe
	BinOpStrictEq
	BinOpStrictNe
	BinOpNullishCoalescing
	BinOpLogicalOr
	BinOpLogicalAnd
	BinOpBitOr
	BinOpBitAnd
	BinOpBitXor
	BinOpComma

	AssignOpNone // plain "="
	AssignOpAdd
	AssignOpSub
	AssignOpMul
	AssignOpDiv
	AssignOpMod
	AssignOpPow
	AssignOpShl
	AssignOpShr
	AssignOpUShr
	AssignOpBitOr
	AssignOpBitAnd
	AssignOpBitXor
	AssignOpNullishCoalescing
	AssignOpLogicalOr
	AssignOpLogicalAnd
)

// IsShortCircuit reports whether the operator may skip evaluating its right
// operand, which the compressor's constant folder must respect.
func (op OpCode) IsShortCircuit() bool {
	switch op {
	case BinOpLogicalOr, BinOpLogicalAnd, BinOpNullishCoalescing,
		AssignOpLogicalOr, AssignOpLogicalAnd, AssignOpNullishCoalescing:
		return true
	}
	return false
}

// EBinary is spec.md's Binary(op, l, r).
type EBinary struct {
	Op    OpCode
	Left  Expr
	Right Expr
}

// EAssign is spec.md's Assign(op, l, r).
type EAssign struct {
	Op    OpCode
	Left  Expr
	Right Expr
}

// EUnaryPrefix is spec.md's UnaryPrefix.
type EUnaryPrefix struct {
	Op      OpCode
	Operand Expr
}

// EUnaryPostfix is spec.md's UnaryPostfix.
type EUnaryPostfix struct {
	Op      OpCode
	Operand Expr
}

func (*EBinary) isExprData()      {}
func (*EAssign) isExprData()      {}
func (*EUnaryPrefix) isExprData() {}
func (*EUnaryPostfix) isExprData() {}

// ---------------------------------------------------------------------------
// Other expressions

type EConditional struct {
	Test       Expr
	Consequent Expr
	Alternate  Expr
}

// ESequence must hold >=2 expressions; a degenerate single element is
// unwrapped by the caller per spec.md §3's Sequence invariant.
type ESequence struct {
	Expressions []Expr
}

type Arg struct {
	Value  Expr
	Spread bool
}

type ECall struct {
	Callee        Expr
	Args          []Arg
	OptionalChain bool // "?.(" — part of the optional-chain supplement
}

type ENew struct {
	Callee Expr
	Args   []Arg
}

type EDot struct {
	Target        Expr
	Name          string
	OptionalChain bool // "?."
}

type ESub struct {
	Target        Expr
	Index         Expr
	OptionalChain bool // "?.["
}

type EArray struct {
	Items []Expr // an item may be *ESpread or *EHole (elision)
}

type EHole struct{}

func (*EHole) isExprData() {}

type PropertyKind uint8

const (
	PropertyNormal PropertyKind = iota
	PropertyGetter
	PropertySetter
	PropertyMethod
	PropertySpread
	PropertyShorthand
)

type Property struct {
	Kind     PropertyKind
	Key      Expr // EString/ENumber literal key, or an arbitrary computed Expr
	Computed bool
	Value    Expr // absent (zero Expr) for PropertySpread (Key holds the spread target)
}

type EObject struct {
	Properties []Property
}

type Param struct {
	Binding      Expr // ESymbol, destructuring EObject/EArray pattern, or EAssign for a default
	DefaultValue Expr // zero Expr if absent
	Rest         bool
}

type EArrow struct {
	Params    []Param
	Body      []Stmt // block body
	ExprBody  Expr   // non-zero when the body is a bare expression, e.g. `x => x+1`
	IsAsync   bool
	Scope     *Scope
}

type EFunction struct {
	Name        *SymbolDef // nil for an anonymous function expression
	Params      []Param
	Body        []Stmt
	IsAsync     bool
	IsGenerator bool
	Scope       *Scope
}

type ClassMemberKind uint8

const (
	ClassMethod ClassMemberKind = iota
	ClassGetter
	ClassSetter
	ClassField
	ClassStaticBlock
)

type ClassMember struct {
	Kind       ClassMemberKind
	Key        Expr
	Computed   bool
	Static     bool
	Value      Expr // EFunction for methods/getters/setters, any Expr (or zero) for fields
	Body       []Stmt // for ClassStaticBlock
}

type EClass struct {
	Name       *SymbolDef // nil for an anonymous class expression
	Extends    Expr       // zero Expr if absent
	Members    []ClassMember
	Scope      *Scope
}

// TemplatePart is one `${expr}` substitution plus the literal text that
// follows it, used by both ETemplateString and ETaggedTemplate.
type TemplatePart struct {
	Value Expr
	Tail  string // cooked text following this substitution
}

type ETemplateString struct {
	Head  string
	Parts []TemplatePart
}

// ETaggedTemplate is the supplemented tagged-template form (`` tag`...` ``):
// TemplateString alone cannot carry the tag callee or give `String.raw`
// access to the uncooked text, so this variant keeps both the cooked and raw
// literal segments alongside the tag expression.
type ETaggedTemplate struct {
	Tag   Expr
	Head  string
	Raw   []string // raw (uncooked) text for head and each part's tail, len == len(Parts)+1
	Parts []TemplatePart
}

type EAwait struct{ Value Expr }
type EYield struct {
	Value    Expr // zero Expr for a bare `yield`
	Delegate bool // `yield*`
}
type ESpread struct{ Value Expr }

// EImportExpression is spec.md's ImportExpression(moduleName) — `import(x)`.
type EImportExpression struct {
	ModuleName Expr
}

// ENewTarget is `new.target`.
type ENewTarget struct{}

func (*EConditional) isExprData()       {}
func (*ESequence) isExprData()          {}
func (*ECall) isExprData()              {}
func (*ENew) isExprData()               {}
func (*EDot) isExprData()               {}
func (*ESub) isExprData()               {}
func (*EArray) isExprData()             {}
func (*EObject) isExprData()            {}
func (*EArrow) isExprData()             {}
func (*EFunction) isExprData()          {}
func (*EClass) isExprData()             {}
func (*ETemplateString) isExprData()    {}
func (*ETaggedTemplate) isExprData()    {}
func (*EAwait) isExprData()             {}
func (*EYield) isExprData()             {}
func (*ESpread) isExprData()            {}
func (*EImportExpression) isExprData()  {}
func (*ENewTarget) isExprData()         {}

// ---------------------------------------------------------------------------
// Statements

type SIf struct {
	Test       Expr
	Consequent Stmt
	Alternate  Stmt // zero Stmt (Data == nil) if absent
}

type SWhile struct {
	Test Expr
	Body Stmt
}

type SDo struct {
	Body Stmt
	Test Expr
}

// SFor's three clauses are independent; any may be absent (zero value) per
// spec.md §3's "For fields are independent" invariant.
type SFor struct {
	Init      Node // nil, a Stmt (SDeclare), or a bare Expr
	Condition Expr
	Update    Expr
	Body      Stmt
}

// Node is either an Expr or a Stmt; used only where the grammar allows
// either shape, such as SFor.Init.
type Node interface{}

type ForBinding uint8

const (
	ForBindingIn ForBinding = iota
	ForBindingOf
)

// SForIn and SForOf's Left must resolve to exactly one declarator without an
// initializer (spec.md §4.2 `for` disambiguation).
type SForIn struct {
	Left  Node // a declaration Stmt with exactly one VarDef, or an assignable Expr
	Right Expr
	Body  Stmt
}

type SForOf struct {
	Left    Node
	Right   Expr
	Body    Stmt
	IsAwait bool // `for await (... of ...)`
}

type SwitchCase struct {
	Test Expr // zero Expr for `default`
	Body []Stmt
}

type SSwitch struct {
	Discriminant Expr
	Cases        []SwitchCase
}

type SCatch struct {
	Binding Node // ESymbol, a destructuring pattern, or nil for a bindingless catch
	Body    []Stmt
	Scope   *Scope
}

type STry struct {
	Body    []Stmt
	Catch   *SCatch
	Finally []Stmt // nil if absent
}

type SThrow struct{ Value Expr }
type SReturn struct{ Value Expr } // zero Expr for a bare `return`

type SBreak struct{ Label string } // "" if unlabeled
type SContinue struct{ Label string }

type SLabeled struct {
	Label  string
	IsLoop bool
	Body   Stmt
}

type SBlock struct {
	Body  []Stmt
	Scope *Scope
}

type SEmpty struct{}

// SSimple is an expression statement, spec.md's SimpleStatement(expr).
type SSimple struct{ Value Expr }

type SWith struct {
	Object Expr
	Body   Stmt
}

type SDebugger struct{}

type DeclKind uint8

const (
	DeclVar DeclKind = iota
	DeclLet
	DeclConst
)

// VarDef is spec.md's VarDef(name, value?); Binding may be a destructuring
// pattern rather than a bare ESymbol.
type VarDef struct {
	Binding Node // ESymbol or destructuring pattern
	Value   Expr // zero Expr if absent
}

// SDeclare is spec.md's Var/Let/Const(defs[]), merged into one node type
// parameterized by DeclKind since the three only differ in scoping rules,
// which the scope analyzer (internal/scope) applies, not the AST shape.
type SDeclare struct {
	Kind DeclKind
	Defs []VarDef
}

func (*SIf) isStmtData()       {}
func (*SWhile) isStmtData()    {}
func (*SDo) isStmtData()       {}
func (*SFor) isStmtData()      {}
func (*SForIn) isStmtData()    {}
func (*SForOf) isStmtData()    {}
func (*SSwitch) isStmtData()   {}
func (*STry) isStmtData()      {}
func (*SThrow) isStmtData()    {}
func (*SReturn) isStmtData()   {}
func (*SBreak) isStmtData()    {}
func (*SContinue) isStmtData() {}
func (*SLabeled) isStmtData()  {}
func (*SBlock) isStmtData()    {}
func (*SEmpty) isStmtData()    {}
func (*SSimple) isStmtData()   {}
func (*SWith) isStmtData()     {}
func (*SDebugger) isStmtData() {}
func (*SDeclare) isStmtData()  {}

// SFunctionDecl and SClassDecl are the statement-position forms; they carry
// the same payload as EFunction/EClass but bind a name into the enclosing
// scope rather than producing a value.
type SFunctionDecl struct{ Fn *EFunction }
type SClassDecl struct{ Class *EClass }

func (*SFunctionDecl) isStmtData() {}
func (*SClassDecl) isStmtData()    {}

// ---------------------------------------------------------------------------
// Module statements

// NameMapping is spec.md's NameMapping(foreign, local).
type NameMapping struct {
	Foreign string
	Local   string
	Symbol  *SymbolDef // filled in by the scope analyzer for local bindings
}

// SImport is spec.md's Import(source, default?, mappings[]).
type SImport struct {
	Source     string
	Default    *SymbolDef // nil if no default import
	WholeAs    *SymbolDef // `import * as ns` binding; nil otherwise
	Mappings   []NameMapping
}

// SExport is spec.md's Export(source?, decl?, mappings[], isDefault).
type SExport struct {
	Source    string // "" if this isn't a re-export
	Decl      Stmt   // zero Stmt if this is a `export { a, b }` list form
	Mappings  []NameMapping
	IsDefault bool
	IsWhole   bool // `export * from "m"`
}

func (*SImport) isStmtData() {}
func (*SExport) isStmtData() {}

// Toplevel is the root of a parsed file: a Scope plus its top-level body.
type Toplevel struct {
	Body  []Stmt
	Scope *Scope
}
