// Package types implements the type lattice: base types,
// function type descriptors, the convertibility relation and the
// binary-operator compatibility table.
package types

import "strings"

// BaseType enumerates the simple (non-function) base types.
type BaseType int

const (
	VOID BaseType = iota
	INT
	FLOAT
	BOOL
	STR
)

var baseTypeNames = map[BaseType]string{
	VOID: "пустота", INT: "целый", FLOAT: "вещественный", BOOL: "логический", STR: "строка",
}

func (b BaseType) String() string {
	if name, ok := baseTypeNames[b]; ok {
		return name
	}
	return "?"
}

// FromStr maps a Russian base-type keyword to a TypeDesc. It returns an
// error if the name is not a recognized base type.
func FromStr(name string) (*TypeDesc, error) {
	for bt, n := range baseTypeNames {
		if n == name {
			return Simple(bt), nil
		}
	}
	return nil, &UnknownTypeError{Name: name}
}

// UnknownTypeError reports a base-type keyword the lattice does not know.
type UnknownTypeError struct{ Name string }

func (e *UnknownTypeError) Error() string {
	return "неизвестный тип " + e.Name
}

// TypeDesc is either a simple base type, or a function type
// (ReturnType + Params), distinguished by IsFunc.
type TypeDesc struct {
	Base    BaseType
	Return  *TypeDesc
	Params  []*TypeDesc
	isFunc  bool
}

// Simple constructs a TypeDesc for a base type.
func Simple(b BaseType) *TypeDesc {
	return &TypeDesc{Base: b}
}

// Func constructs a function-type descriptor.
func Func(ret *TypeDesc, params ...*TypeDesc) *TypeDesc {
	return &TypeDesc{Return: ret, Params: params, isFunc: true}
}

// Well-known simple types, analogous to the original's TypeDesc.INT etc.
var (
	Void  = Simple(VOID)
	Int   = Simple(INT)
	Float = Simple(FLOAT)
	Bool  = Simple(BOOL)
	Str   = Simple(STR)
)

// IsFunc reports whether t describes a function rather than a value.
func (t *TypeDesc) IsFunc() bool { return t.isFunc }

// IsSimple reports whether t describes a plain value type.
func (t *TypeDesc) IsSimple() bool { return !t.isFunc }

// Equal reports structural equality.
func (t *TypeDesc) Equal(other *TypeDesc) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.isFunc != other.isFunc {
		return false
	}
	if !t.isFunc {
		return t.Base == other.Base
	}
	if !t.Return.Equal(other.Return) {
		return false
	}
	if len(t.Params) != len(other.Params) {
		return false
	}
	for i := range t.Params {
		if !t.Params[i].Equal(other.Params[i]) {
			return false
		}
	}
	return true
}

func (t *TypeDesc) String() string {
	if t == nil {
		return "<nil>"
	}
	if !t.isFunc {
		return t.Base.String()
	}
	var sb strings.Builder
	sb.WriteString(t.Return.String())
	sb.WriteString(" (")
	for i, p := range t.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// convertibility is the directed relation: INT → {FLOAT,
// BOOL, STR}; FLOAT → {STR}; BOOL → {STR}.
var convertibility = map[BaseType][]BaseType{
	INT:   {FLOAT, BOOL, STR},
	FLOAT: {STR},
	BOOL:  {STR},
}

// ConvertibleTo reports whether a value of base type from can be
// implicitly converted to base type to. The relation is asymmetric.
func ConvertibleTo(from, to BaseType) bool {
	for _, t := range convertibility[from] {
		if t == to {
			return true
		}
	}
	return false
}

// ConversionTargets returns the base types from is convertible to, in
// the fixed order used when widening a binary operand
// ("try to widen the right operand ... then the left").
func ConversionTargets(from BaseType) []BaseType {
	return convertibility[from]
}

// BinOp enumerates the binary operators.
type BinOp int

const (
	ADD BinOp = iota
	SUB
	MUL
	DIV
	MOD
	GT
	GE
	LT
	LE
	EQ
	NEQ
	AND
	OR
	BIT_AND
	BIT_OR
)

var binOpNames = map[BinOp]string{
	ADD: "+", SUB: "-", MUL: "*", DIV: "/", MOD: "%",
	GT: ">", GE: ">=", LT: "<", LE: "<=", EQ: "==", NEQ: "!=",
	AND: "И", OR: "ИЛИ", BIT_AND: "&", BIT_OR: "|",
}

func (op BinOp) String() string {
	if name, ok := binOpNames[op]; ok {
		return name
	}
	return "?"
}

// invertedComparison is the inversion table: > ↔ <=,
// < ↔ >=, == ↔ !=.
var invertedComparison = map[BinOp]BinOp{
	GT: LE, LE: GT,
	LT: GE, GE: LT,
	EQ: NEQ, NEQ: EQ,
}

// InvertComparison returns the inverted comparison operator for op.
// It panics if op is not a comparison operator — a programmer error,
// since only the logical-expression resolver calls this, and only on
// comparison nodes.
func InvertComparison(op BinOp) BinOp {
	inv, ok := invertedComparison[op]
	if !ok {
		panic("types: InvertComparison called on non-comparison operator " + op.String())
	}
	return inv
}

// IsComparison reports whether op is one of GT/GE/LT/LE/EQ/NEQ.
func IsComparison(op BinOp) bool {
	_, ok := invertedComparison[op]
	return ok
}

type opKey struct {
	op    BinOp
	left  BaseType
	right BaseType
}

// compatibility is the partial function (op, left, right) → result of
var compatibility = buildCompatibility()

func buildCompatibility() map[opKey]BaseType {
	m := make(map[opKey]BaseType)
	arith := []BinOp{ADD, SUB, MUL, DIV, MOD}
	for _, op := range arith {
		m[opKey{op, INT, INT}] = INT
		m[opKey{op, FLOAT, FLOAT}] = FLOAT
	}
	m[opKey{ADD, STR, STR}] = STR

	cmp := []BinOp{GT, GE, LT, LE, EQ, NEQ}
	for _, op := range cmp {
		m[opKey{op, INT, INT}] = BOOL
		m[opKey{op, FLOAT, FLOAT}] = BOOL
		m[opKey{op, STR, STR}] = BOOL
	}

	m[opKey{BIT_AND, INT, INT}] = INT
	m[opKey{BIT_OR, INT, INT}] = INT

	m[opKey{AND, BOOL, BOOL}] = BOOL
	m[opKey{OR, BOOL, BOOL}] = BOOL

	return m
}

// BinOpResult looks up the compatibility table, returning the result
// base type and whether the combination is defined.
func BinOpResult(op BinOp, left, right BaseType) (BaseType, bool) {
	r, ok := compatibility[opKey{op, left, right}]
	return r, ok
}
