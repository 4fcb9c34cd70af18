package ast

import (
	"fmt"
	"sort"
	"strings"
)

// Pattern is the interface for pattern nodes. Patterns mirror a restricted
// expression subset and can be projected into an expression of identical
// shape for inference purposes.
type Pattern interface {
	Node
	patternNode()
	// ToExpr projects the pattern into the isomorphic expression shape.
	ToExpr() Expr
	// Binders returns the names bound by this pattern.
	Binders() []string
}

// PatLit matches a literal number or string
type PatLit struct {
	Num *float64
	Str *string
	Pos Pos
}

func (p *PatLit) String() string {
	if p.Str != nil {
		return fmt.Sprintf("%q", *p.Str)
	}
	return fmt.Sprintf("%v", *p.Num)
}
func (p *PatLit) Position() Pos { return p.Pos }
func (p *PatLit) patternNode()  {}

func (p *PatLit) ToExpr() Expr {
	if p.Str != nil {
		return &StrLit{Value: *p.Str, Pos: p.Pos}
	}
	return &NumLit{Value: *p.Num, Pos: p.Pos}
}

func (p *PatLit) Binders() []string { return nil }

// PatId matches anything and binds it
type PatId struct {
	Name string
	Pos  Pos
}

func (p *PatId) String() string    { return p.Name }
func (p *PatId) Position() Pos     { return p.Pos }
func (p *PatId) patternNode()      {}
func (p *PatId) ToExpr() Expr      { return &Id{Name: p.Name, Pos: p.Pos} }
func (p *PatId) Binders() []string { return []string{p.Name} }

// PatCons matches a tagged value, optionally destructuring its payload
type PatCons struct {
	Name    string
	Payload Pattern // nil for nullary tags
	Pos     Pos
}

func (p *PatCons) String() string {
	if p.Payload == nil {
		return p.Name
	}
	return fmt.Sprintf("%s(%s)", p.Name, p.Payload)
}
func (p *PatCons) Position() Pos { return p.Pos }
func (p *PatCons) patternNode()  {}

func (p *PatCons) ToExpr() Expr {
	var payload Expr
	if p.Payload != nil {
		payload = p.Payload.ToExpr()
	}
	return &Cons{Name: p.Name, Payload: payload, Pos: p.Pos}
}

func (p *PatCons) Binders() []string {
	if p.Payload == nil {
		return nil
	}
	return p.Payload.Binders()
}

// PatRec destructures a record by field
type PatRec struct {
	Fields map[string]Pattern
	Pos    Pos
}

func (p *PatRec) String() string {
	keys := make([]string, 0, len(p.Fields))
	for k := range p.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, p.Fields[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (p *PatRec) Position() Pos { return p.Pos }
func (p *PatRec) patternNode()  {}

func (p *PatRec) ToExpr() Expr {
	fields := make(map[string]Expr, len(p.Fields))
	for k, sub := range p.Fields {
		fields[k] = sub.ToExpr()
	}
	return &Rec{Fields: fields, Pos: p.Pos}
}

func (p *PatRec) Binders() []string {
	keys := make([]string, 0, len(p.Fields))
	for k := range p.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var names []string
	for _, k := range keys {
		names = append(names, p.Fields[k].Binders()...)
	}
	return names
}

// PatList destructures a list element-wise
type PatList struct {
	Items []Pattern
	Pos   Pos
}

func (p *PatList) String() string {
	parts := make([]string, len(p.Items))
	for i, sub := range p.Items {
		parts[i] = sub.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (p *PatList) Position() Pos { return p.Pos }
func (p *PatList) patternNode()  {}

func (p *PatList) ToExpr() Expr {
	items := make([]Expr, len(p.Items))
	for i, sub := range p.Items {
		items[i] = sub.ToExpr()
	}
	return &List{Items: items, Pos: p.Pos}
}

func (p *PatList) Binders() []string {
	var names []string
	for _, sub := range p.Items {
		names = append(names, sub.Binders()...)
	}
	return names
}
