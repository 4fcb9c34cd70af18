package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface for all types in the system
type Type interface {
	String() string
	typeNode()
}

// TVar represents a type variable
type TVar struct {
	Name string
}

func (t *TVar) String() string { return t.Name }
func (t *TVar) typeNode()      {}

// TCon represents an applied type constructor, e.g. num, str, List⟨t⟩.
// Functions are encoded as the constructor "Func" whose last argument is
// the result type; arity is the length of the argument list minus one.
type TCon struct {
	Name string
	Args []Type
}

func (t *TCon) String() string {
	if t.Name == FuncName && len(t.Args) > 0 {
		params := t.Args[:len(t.Args)-1]
		result := t.Args[len(t.Args)-1]
		if len(params) == 1 {
			p := params[0].String()
			if isFunc(params[0]) {
				p = "(" + p + ")"
			}
			return fmt.Sprintf("%s → %s", p, result)
		}
		parts := make([]string, len(params))
		for i, p := range params {
			parts[i] = p.String()
		}
		return fmt.Sprintf("(%s) → %s", strings.Join(parts, ", "), result)
	}
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s⟨%s⟩", t.Name, strings.Join(parts, ", "))
}
func (t *TCon) typeNode() {}

// TRow represents a row type: a finite map of field/tag names to types
// together with an extension variable. Union=false is a record, Union=true a
// polymorphic variant. Open rows may be extended through Rest; closed rows
// are fixed at exactly Items. Rest is always a variable even when closed, so
// two closed rows of the same shape can still unify through it.
type TRow struct {
	Union bool
	Open  bool
	Items map[string]Type
	Rest  *TVar
}

func (t *TRow) String() string {
	keys := make([]string, 0, len(t.Items))
	for k := range t.Items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if t.Union {
			if isUnit(t.Items[k]) {
				parts = append(parts, k)
			} else {
				parts = append(parts, fmt.Sprintf("%s⟨%s⟩", k, t.Items[k]))
			}
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", k, t.Items[k]))
		}
	}

	body := strings.Join(parts, ", ")
	if t.Open {
		if body == "" {
			body = "| " + t.Rest.Name
		} else {
			body += " | " + t.Rest.Name
		}
	}
	if t.Union {
		return "[" + body + "]"
	}
	return "{" + body + "}"
}
func (t *TRow) typeNode() {}

// Well-known constructor names
const (
	FuncName = "Func"
	ListName = "List"
	TaskName = "Task"
)

// Primitive types
var (
	TNum  = &TCon{Name: "num"}
	TStr  = &TCon{Name: "str"}
	TUnit = &TCon{Name: "Unit"}
)

// NewFunc builds a function type from parameter types and a result type
func NewFunc(params []Type, result Type) *TCon {
	args := make([]Type, 0, len(params)+1)
	args = append(args, params...)
	args = append(args, result)
	return &TCon{Name: FuncName, Args: args}
}

// NewList builds a list type
func NewList(elem Type) *TCon {
	return &TCon{Name: ListName, Args: []Type{elem}}
}

// NewTask builds a task type with a value and an error component
func NewTask(val, err Type) *TCon {
	return &TCon{Name: TaskName, Args: []Type{val, err}}
}

func isFunc(t Type) bool {
	c, ok := t.(*TCon)
	return ok && c.Name == FuncName && len(c.Args) > 0
}

func isUnit(t Type) bool {
	c, ok := t.(*TCon)
	return ok && c.Name == TUnit.Name && len(c.Args) == 0
}

// FreeTypeVars returns the free type variables of t, sorted by name. The
// tail of a closed row is an internal witness, not a free variable; the tail
// of an open row is free.
func FreeTypeVars(t Type) []string {
	set := make(map[string]bool)
	collectFreeVars(t, set)
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func collectFreeVars(t Type, set map[string]bool) {
	switch t := t.(type) {
	case *TVar:
		set[t.Name] = true
	case *TCon:
		for _, a := range t.Args {
			collectFreeVars(a, set)
		}
	case *TRow:
		for _, item := range t.Items {
			collectFreeVars(item, set)
		}
		if t.Open {
			set[t.Rest.Name] = true
		}
	}
}

// Occurs reports whether the variable name appears free in t
func Occurs(name string, t Type) bool {
	set := make(map[string]bool)
	collectFreeVars(t, set)
	return set[name]
}
