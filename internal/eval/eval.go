package eval

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/tsuberim/lang/internal/ast"
)

// Evaluator is a tree-walking interpreter. It consumes the same AST as the
// inferencer and a parallel value environment; the two walks share only the
// AST and the name space.
type Evaluator struct {
	out io.Writer
}

// New creates an evaluator writing task output to stdout
func New() *Evaluator {
	return NewWithOutput(os.Stdout)
}

// NewWithOutput creates an evaluator with an explicit output sink
func NewWithOutput(out io.Writer) *Evaluator {
	return &Evaluator{out: out}
}

// SetOutput redirects task output
func (ev *Evaluator) SetOutput(out io.Writer) {
	ev.out = out
}

// Eval evaluates an expression in an environment
func (ev *Evaluator) Eval(expr ast.Expr, env *Environment) (Value, error) {
	switch e := expr.(type) {
	case *ast.NumLit:
		return &NumValue{Value: e.Value}, nil

	case *ast.StrLit:
		return &StrValue{Value: e.Value}, nil

	case *ast.Id:
		v, ok := env.Get(e.Name)
		if !ok {
			return nil, fmt.Errorf("%s: undefined variable %s", e.Pos, e.Name)
		}
		return v, nil

	case *ast.Rec:
		fields := make(map[string]Value, len(e.Fields))
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v, err := ev.Eval(e.Fields[k], env)
			if err != nil {
				return nil, err
			}
			fields[k] = v
		}
		return &RecordValue{Fields: fields}, nil

	case *ast.List:
		items := make([]Value, len(e.Items))
		for i, item := range e.Items {
			v, err := ev.Eval(item, env)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return &ListValue{Items: items}, nil

	case *ast.Cons:
		payload := Value(Unit)
		if e.Payload != nil {
			v, err := ev.Eval(e.Payload, env)
			if err != nil {
				return nil, err
			}
			payload = v
		}
		return &TaggedValue{Name: e.Name, Payload: payload}, nil

	case *ast.Acc:
		rec, err := ev.Eval(e.Rec, env)
		if err != nil {
			return nil, err
		}
		r, ok := rec.(*RecordValue)
		if !ok {
			return nil, fmt.Errorf("%s: cannot access field %s of %s", e.Pos, e.Prop, rec.Kind())
		}
		v, ok := r.Fields[e.Prop]
		if !ok {
			return nil, fmt.Errorf("%s: record has no field %s", e.Pos, e.Prop)
		}
		return v, nil

	case *ast.App:
		fn, err := ev.Eval(e.Fn, env)
		if err != nil {
			return nil, err
		}
		args := make([]Value, len(e.Args))
		for i, arg := range e.Args {
			v, err := ev.Eval(arg, env)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return ev.Call(fn, args)

	case *ast.Lam:
		return &ClosureValue{Params: e.Params, Body: e.Body, Env: env}, nil

	case *ast.Match:
		return ev.evalMatch(e, env)

	default:
		return nil, fmt.Errorf("cannot evaluate %T at %s", expr, expr.Position())
	}
}

// Call applies a function value to arguments
func (ev *Evaluator) Call(fn Value, args []Value) (Value, error) {
	switch fn := fn.(type) {
	case *ClosureValue:
		if len(args) != len(fn.Params) {
			return nil, fmt.Errorf("function expects %d arguments, got %d", len(fn.Params), len(args))
		}
		child := fn.Env.NewChild()
		for i, p := range fn.Params {
			child.Set(p, args[i])
		}
		return ev.Eval(fn.Body, child)

	case *BuiltinValue:
		if len(args) != fn.Arity {
			return nil, fmt.Errorf("%s expects %d arguments, got %d", fn.Name, fn.Arity, len(args))
		}
		return fn.Fn(args)

	default:
		return nil, fmt.Errorf("cannot call %s", fn.Kind())
	}
}

// evalMatch tries cases in order and falls through on mismatch; this
// backtracking exists only in the evaluator, never in the type system.
func (ev *Evaluator) evalMatch(e *ast.Match, env *Environment) (Value, error) {
	scrut, err := ev.Eval(e.Scrutinee, env)
	if err != nil {
		return nil, err
	}
	for _, c := range e.Cases {
		bindings, ok := match(c.Pattern, scrut)
		if !ok {
			continue
		}
		child := env.NewChild()
		for name, v := range bindings {
			child.Set(name, v)
		}
		return ev.Eval(c.Body, child)
	}
	if e.Otherwise != nil {
		return ev.Eval(e.Otherwise, env)
	}
	return nil, fmt.Errorf("%s: no case matched %s", e.Pos, scrut)
}

// match attempts to match a value against a pattern, returning the bound
// names on success
func match(p ast.Pattern, v Value) (map[string]Value, bool) {
	bindings := make(map[string]Value)
	if !matchInto(p, v, bindings) {
		return nil, false
	}
	return bindings, true
}

func matchInto(p ast.Pattern, v Value, bindings map[string]Value) bool {
	switch p := p.(type) {
	case *ast.PatId:
		bindings[p.Name] = v
		return true

	case *ast.PatLit:
		if p.Num != nil {
			n, ok := v.(*NumValue)
			return ok && n.Value == *p.Num
		}
		s, ok := v.(*StrValue)
		return ok && s.Value == *p.Str

	case *ast.PatCons:
		t, ok := v.(*TaggedValue)
		if !ok || t.Name != p.Name {
			return false
		}
		if p.Payload == nil {
			_, isUnit := t.Payload.(*UnitValue)
			return isUnit
		}
		return matchInto(p.Payload, t.Payload, bindings)

	case *ast.PatRec:
		r, ok := v.(*RecordValue)
		if !ok {
			return false
		}
		for k, sub := range p.Fields {
			fv, ok := r.Fields[k]
			if !ok || !matchInto(sub, fv, bindings) {
				return false
			}
		}
		return true

	case *ast.PatList:
		l, ok := v.(*ListValue)
		if !ok || len(l.Items) != len(p.Items) {
			return false
		}
		for i, sub := range p.Items {
			if !matchInto(sub, l.Items[i], bindings) {
				return false
			}
		}
		return true
	}
	return false
}
