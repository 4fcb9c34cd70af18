package ast

import (
	"fmt"
	"sort"
	"strings"
)

// Node is the base interface for all AST nodes
type Node interface {
	String() string
	Position() Pos
}

// Pos represents a position in the source code
type Pos struct {
	Line   int
	Column int
	File   string
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// File represents a parsed source file: a sequence of imports and
// declarations, optionally followed by a trailing expression.
type File struct {
	Imports []*Import
	Decls   []*Decl
	Expr    Expr // optional trailing expression
	Path    string
	Pos     Pos
}

func (f *File) String() string {
	parts := []string{}
	for _, imp := range f.Imports {
		parts = append(parts, imp.String())
	}
	for _, d := range f.Decls {
		parts = append(parts, d.String())
	}
	if f.Expr != nil {
		parts = append(parts, f.Expr.String())
	}
	return strings.Join(parts, "\n")
}
func (f *File) Position() Pos { return f.Pos }

// Import brings a sibling module's exports into scope
type Import struct {
	Name string
	Pos  Pos
}

func (i *Import) String() string { return fmt.Sprintf("import %s", i.Name) }
func (i *Import) Position() Pos  { return i.Pos }

// Decl is a top-level binding: name = expr
type Decl struct {
	Name  string
	Value Expr
	Pos   Pos
}

func (d *Decl) String() string { return fmt.Sprintf("%s = %s", d.Name, d.Value) }
func (d *Decl) Position() Pos  { return d.Pos }

// Expr is the interface for expression nodes
type Expr interface {
	Node
	exprNode()
}

// NumLit is a numeric literal
type NumLit struct {
	Value float64
	Pos   Pos
}

func (n *NumLit) String() string { return fmt.Sprintf("%v", n.Value) }
func (n *NumLit) Position() Pos  { return n.Pos }
func (n *NumLit) exprNode()      {}

// StrLit is a string literal
type StrLit struct {
	Value string
	Pos   Pos
}

func (s *StrLit) String() string { return fmt.Sprintf("%q", s.Value) }
func (s *StrLit) Position() Pos  { return s.Pos }
func (s *StrLit) exprNode()      {}

// Id is a variable reference; names start with a lowercase letter or are
// symbolic operators.
type Id struct {
	Name string
	Pos  Pos
}

func (i *Id) String() string { return i.Name }
func (i *Id) Position() Pos  { return i.Pos }
func (i *Id) exprNode()      {}

// Rec is a record construction; keys are unique
type Rec struct {
	Fields map[string]Expr
	Pos    Pos
}

func (r *Rec) String() string {
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, r.Fields[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (r *Rec) Position() Pos { return r.Pos }
func (r *Rec) exprNode()     {}

// List is a homogeneous list literal
type List struct {
	Items []Expr
	Pos   Pos
}

func (l *List) String() string {
	parts := make([]string, len(l.Items))
	for i, e := range l.Items {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (l *List) Position() Pos { return l.Pos }
func (l *List) exprNode()     {}

// Cons constructs a tagged value; Name starts with an uppercase letter,
// Payload is optional.
type Cons struct {
	Name    string
	Payload Expr // nil for nullary tags
	Pos     Pos
}

func (c *Cons) String() string {
	if c.Payload == nil {
		return c.Name
	}
	return fmt.Sprintf("%s(%s)", c.Name, c.Payload)
}
func (c *Cons) Position() Pos { return c.Pos }
func (c *Cons) exprNode()     {}

// Acc projects a field out of a record
type Acc struct {
	Rec  Expr
	Prop string
	Pos  Pos
}

func (a *Acc) String() string { return fmt.Sprintf("%s.%s", a.Rec, a.Prop) }
func (a *Acc) Position() Pos  { return a.Pos }
func (a *Acc) exprNode()      {}

// App is an n-ary application
type App struct {
	Fn   Expr
	Args []Expr
	Pos  Pos
}

func (a *App) String() string {
	parts := make([]string, len(a.Args))
	for i, e := range a.Args {
		parts[i] = e.String()
	}
	return fmt.Sprintf("%s(%s)", a.Fn, strings.Join(parts, ", "))
}
func (a *App) Position() Pos { return a.Pos }
func (a *App) exprNode()     {}

// Lam is an n-ary abstraction
type Lam struct {
	Params []string
	Body   Expr
	Pos    Pos
}

func (l *Lam) String() string {
	if len(l.Params) == 1 {
		return fmt.Sprintf("\\%s -> %s", l.Params[0], l.Body)
	}
	return fmt.Sprintf("\\(%s) -> %s", strings.Join(l.Params, ", "), l.Body)
}
func (l *Lam) Position() Pos { return l.Pos }
func (l *Lam) exprNode()     {}

// MatchCase pairs a constructor pattern with its result expression
type MatchCase struct {
	Pattern *PatCons
	Body    Expr
}

// Match scrutinizes a tagged value; cases are tried in order, Otherwise
// (when present) handles any remaining tags.
type Match struct {
	Scrutinee Expr
	Cases     []MatchCase
	Otherwise Expr // nil when the match must be exhaustive
	Pos       Pos
}

func (m *Match) String() string {
	parts := make([]string, len(m.Cases))
	for i, c := range m.Cases {
		parts[i] = fmt.Sprintf("%s -> %s", c.Pattern, c.Body)
	}
	s := fmt.Sprintf("when %s is %s", m.Scrutinee, strings.Join(parts, "; "))
	if m.Otherwise != nil {
		s += fmt.Sprintf(" else %s", m.Otherwise)
	}
	return s
}
func (m *Match) Position() Pos { return m.Pos }
func (m *Match) exprNode()     {}
