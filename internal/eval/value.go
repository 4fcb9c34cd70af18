package eval

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tsuberim/lang/internal/ast"
)

// Value represents a runtime value
type Value interface {
	Kind() string
	String() string
}

// NumValue represents a number
type NumValue struct {
	Value float64
}

func (n *NumValue) Kind() string { return "num" }
func (n *NumValue) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// StrValue represents a string
type StrValue struct {
	Value string
}

func (s *StrValue) Kind() string   { return "str" }
func (s *StrValue) String() string { return s.Value }

// UnitValue is the payload of nullary tags
type UnitValue struct{}

func (u *UnitValue) Kind() string   { return "unit" }
func (u *UnitValue) String() string { return "()" }

// Unit is the canonical unit value
var Unit = &UnitValue{}

// ListValue represents a homogeneous list
type ListValue struct {
	Items []Value
}

func (l *ListValue) Kind() string { return "list" }
func (l *ListValue) String() string {
	parts := make([]string, len(l.Items))
	for i, v := range l.Items {
		parts[i] = show(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// RecordValue represents a record
type RecordValue struct {
	Fields map[string]Value
}

func (r *RecordValue) Kind() string { return "record" }
func (r *RecordValue) String() string {
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, show(r.Fields[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// TaggedValue represents a tag applied to a payload; nullary tags carry Unit
type TaggedValue struct {
	Name    string
	Payload Value
}

func (t *TaggedValue) Kind() string { return "tag" }
func (t *TaggedValue) String() string {
	if _, ok := t.Payload.(*UnitValue); ok {
		return t.Name
	}
	return fmt.Sprintf("%s(%s)", t.Name, show(t.Payload))
}

// ClosureValue represents a lambda closed over its environment
type ClosureValue struct {
	Params []string
	Body   ast.Expr
	Env    *Environment
}

func (c *ClosureValue) Kind() string   { return "function" }
func (c *ClosureValue) String() string { return "<function>" }

// BuiltinValue represents a built-in function
type BuiltinValue struct {
	Name  string
	Arity int
	Fn    func(args []Value) (Value, error)
}

func (b *BuiltinValue) Kind() string   { return "builtin" }
func (b *BuiltinValue) String() string { return fmt.Sprintf("<builtin: %s>", b.Name) }

// TaskValue is a deferred computation; nothing runs until Run is called
type TaskValue struct {
	Run func() (Value, error)
}

func (t *TaskValue) Kind() string   { return "task" }
func (t *TaskValue) String() string { return "<task>" }

// show renders a value as it appears inside a composite literal: strings
// are quoted there, while a bare string prints raw.
func show(v Value) string {
	if s, ok := v.(*StrValue); ok {
		return strconv.Quote(s.Value)
	}
	return v.String()
}

// Equal reports deep structural equality of two values. Functions and
// tasks are never equal.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case *NumValue:
		b, ok := b.(*NumValue)
		return ok && a.Value == b.Value
	case *StrValue:
		b, ok := b.(*StrValue)
		return ok && a.Value == b.Value
	case *UnitValue:
		_, ok := b.(*UnitValue)
		return ok
	case *ListValue:
		b, ok := b.(*ListValue)
		if !ok || len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !Equal(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	case *RecordValue:
		b, ok := b.(*RecordValue)
		if !ok || len(a.Fields) != len(b.Fields) {
			return false
		}
		for k, v := range a.Fields {
			bv, ok := b.Fields[k]
			if !ok || !Equal(v, bv) {
				return false
			}
		}
		return true
	case *TaggedValue:
		b, ok := b.(*TaggedValue)
		return ok && a.Name == b.Name && Equal(a.Payload, b.Payload)
	}
	return false
}
