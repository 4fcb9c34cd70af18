package types

import (
	"fmt"
	"strings"
)

// ErrorCode identifies the kind of type error
type ErrorCode string

const (
	UnboundVariable     ErrorCode = "unbound_variable"
	InfiniteType        ErrorCode = "infinite_type"
	KindMismatch        ErrorCode = "kind_mismatch"
	ConstructorMismatch ErrorCode = "constructor_mismatch"
	ArityMismatch       ErrorCode = "arity_mismatch"
	RowKindMismatch     ErrorCode = "row_kind_mismatch"
	RowMismatch         ErrorCode = "row_mismatch"
)

// RowSide names the row a width mismatch is reported against
type RowSide string

const (
	SideLeft  RowSide = "left"
	SideRight RowSide = "right"
)

// TypeError is the single error kind raised by the core. The populated
// payload fields depend on Code. All type errors are fatal to the current
// inference run; nothing is retried inside the core.
type TypeError struct {
	Code ErrorCode

	Name string // UnboundVariable: the unknown identifier
	Var  string // InfiniteType: the variable that occurs in Type
	Type Type   // InfiniteType: the type the variable would be bound to

	Left  Type // mismatches: the two conflicting types
	Right Type

	Keys []string // RowMismatch: the offending keys
	Side RowSide  // RowMismatch: the row missing them
}

func (e *TypeError) Error() string {
	switch e.Code {
	case UnboundVariable:
		return fmt.Sprintf("unbound variable: %s", e.Name)
	case InfiniteType:
		return fmt.Sprintf("infinite type: %s occurs in %s", e.Var, e.Type)
	case KindMismatch:
		return fmt.Sprintf("kind mismatch: cannot unify %s with %s", e.Left, e.Right)
	case ConstructorMismatch:
		return fmt.Sprintf("constructor mismatch: cannot unify %s with %s", e.Left, e.Right)
	case ArityMismatch:
		return fmt.Sprintf("arity mismatch: cannot unify %s with %s", e.Left, e.Right)
	case RowKindMismatch:
		return fmt.Sprintf("cannot unify record with variant: %s vs %s", e.Left, e.Right)
	case RowMismatch:
		return fmt.Sprintf("row mismatch: %s row is missing {%s} in %s vs %s",
			e.Side, strings.Join(e.Keys, ", "), e.Left, e.Right)
	default:
		return fmt.Sprintf("type error: %s vs %s", e.Left, e.Right)
	}
}

func errUnbound(name string) *TypeError {
	return &TypeError{Code: UnboundVariable, Name: name}
}

func errInfinite(v string, t Type) *TypeError {
	return &TypeError{Code: InfiniteType, Var: v, Type: t}
}

func errKind(t1, t2 Type) *TypeError {
	return &TypeError{Code: KindMismatch, Left: t1, Right: t2}
}

func errConstructor(t1, t2 Type) *TypeError {
	return &TypeError{Code: ConstructorMismatch, Left: t1, Right: t2}
}

func errArity(t1, t2 Type) *TypeError {
	return &TypeError{Code: ArityMismatch, Left: t1, Right: t2}
}

func errRowKind(t1, t2 Type) *TypeError {
	return &TypeError{Code: RowKindMismatch, Left: t1, Right: t2}
}

func errRow(keys []string, side RowSide, t1, t2 Type) *TypeError {
	return &TypeError{Code: RowMismatch, Keys: keys, Side: side, Left: t1, Right: t2}
}
