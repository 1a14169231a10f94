// Package scope implements the nested identifier tables of the
// language's symbol resolution: IdentDesc, Scope, and the
// built-in console functions seeded at the global scope. Uses a flat
// (non-overloaded) scope-kind model.
package scope

import "github.com/proskuryakov/rupc/internal/types"

// Kind classifies where an identifier lives.
type Kind int

const (
	GLOBAL Kind = iota
	GLOBAL_LOCAL
	PARAM
	LOCAL
)

func (k Kind) String() string {
	switch k {
	case GLOBAL:
		return "global"
	case GLOBAL_LOCAL:
		return "global.local"
	case PARAM:
		return "param"
	case LOCAL:
		return "local"
	default:
		return "?"
	}
}

// IdentDesc describes a single identifier: a variable, a parameter or
// a function.
type IdentDesc struct {
	Name    string
	Type    *types.TypeDesc
	Kind    Kind
	Index   int
	BuiltIn bool
	Func    any // set to the *ast.FunctionDefinition for function identifiers
	Forward bool // true for an as-yet-unmatched FunctionDeclaration
}

// Scope is a single lexical scope: a name→IdentDesc table, a parent
// link, and the two slot counters.
type Scope struct {
	idents     map[string]*IdentDesc
	parent     *Scope
	Func       *IdentDesc // non-nil marks this scope as a function boundary
	VarIndex   int
	ParamIndex int

	// Locals collects, in slot-index order, every non-param IdentDesc
	// whose index was assigned against this scope (the function
	// boundary, or the global scope for top-level code) regardless of
	// how deeply the declaring block is nested. Backends use this to
	// emit a function's `.locals` / locals-count without having to walk
	// the discarded block-scope tree.
	Locals []*IdentDesc

	// FuncIndex is the global scope's counter for naming non-entry-point
	// functions func_<index> in the backends. The original assigns
	// function identifiers no index at all (its add_ident skips indexing
	// for function types), which collapses every user function to the
	// same generated name; the analyzer assigns from this counter
	// instead so each function gets a distinct slot.
	FuncIndex int
}

// New creates a scope with the given parent (nil for the global scope).
func New(parent *Scope) *Scope {
	return &Scope{idents: make(map[string]*IdentDesc), parent: parent}
}

// IsGlobal reports whether this scope has no parent.
func (s *Scope) IsGlobal() bool { return s.parent == nil }

// Parent returns the enclosing scope, or nil at the global scope.
func (s *Scope) Parent() *Scope { return s.parent }

// CurrGlobal walks parents to the root scope.
func (s *Scope) CurrGlobal() *Scope {
	cur := s
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// CurrFunc walks parents (including s) to the nearest function-boundary
// scope, or returns nil if none encloses s.
func (s *Scope) CurrFunc() *Scope {
	cur := s
	for cur != nil && cur.Func == nil {
		cur = cur.parent
	}
	return cur
}

// DuplicateError reports a redeclaration.
type DuplicateError struct{ Name string }

func (e *DuplicateError) Error() string {
	return "идентификатор " + e.Name + " уже объявлен"
}

// AddIdent attaches desc to the scope, applying the scope-kind rewrite,
// duplicate checks, and slot-index assignment. It
// returns the stored descriptor (desc itself, mutated in place).
func (s *Scope) AddIdent(desc *IdentDesc) (*IdentDesc, error) {
	funcScope := s.CurrFunc()
	globalScope := s.CurrGlobal()

	if desc.Kind != PARAM {
		switch {
		case funcScope != nil:
			desc.Kind = LOCAL
		case s == globalScope:
			desc.Kind = GLOBAL
		default:
			desc.Kind = GLOBAL_LOCAL
		}
	}

	if old := s.GetIdent(desc.Name); old != nil {
		bad := false
		switch desc.Kind {
		case PARAM:
			bad = old.Kind == PARAM
		case LOCAL:
			bad = old.Kind != GLOBAL && old.Kind != GLOBAL_LOCAL
		default:
			bad = true
		}
		if bad {
			return nil, &DuplicateError{Name: desc.Name}
		}
	}

	if !desc.Type.IsFunc() {
		if desc.Kind == PARAM {
			desc.Index = funcScope.ParamIndex
			funcScope.ParamIndex++
		} else {
			target := funcScope
			if target == nil {
				target = globalScope
			}
			desc.Index = target.VarIndex
			target.VarIndex++
			target.Locals = append(target.Locals, desc)
		}
	}

	s.idents[desc.Name] = desc
	return desc, nil
}

// GetIdent walks parents until name is found, returning nil on miss.
func (s *Scope) GetIdent(name string) *IdentDesc {
	for cur := s; cur != nil; cur = cur.parent {
		if d, ok := cur.idents[name]; ok {
			return d
		}
	}
	return nil
}

// Idents returns the identifiers declared directly in this scope (not
// its ancestors). The analyzer uses it on the global scope to find
// forward declarations that were never completed by a definition.
func (s *Scope) Idents() map[string]*IdentDesc {
	return s.idents
}

// Built-in function names.
const (
	BuiltinPrintInt   = "вывод_целый"
	BuiltinPrintFloat = "вывод_вещ"
	BuiltinPrint      = "вывод"
	BuiltinPrintLn    = "вывод_перенос"
)

// NewGlobal creates the program's global scope, seeded with the
// built-in console functions.
func NewGlobal() *Scope {
	g := New(nil)
	builtins := []struct {
		name  string
		param *types.TypeDesc
	}{
		{BuiltinPrintInt, types.Int},
		{BuiltinPrintFloat, types.Float},
		{BuiltinPrint, types.Str},
		{BuiltinPrintLn, types.Str},
	}
	for _, b := range builtins {
		d := &IdentDesc{
			Name:    b.name,
			Type:    types.Func(types.Void, b.param),
			Kind:    GLOBAL,
			BuiltIn: true,
		}
		g.idents[b.name] = d
	}
	return g
}
