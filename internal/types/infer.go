package types

import (
	"fmt"
	"sort"

	"github.com/tsuberim/lang/internal/ast"
)

// Inferencer walks an expression in a typing environment, threading
// substitutions, and produces the expression's most general type. The first
// unification failure aborts the run and propagates to the caller.
type Inferencer struct {
	fresh   *Fresh
	unifier *Unifier
}

// NewInferencer creates an inferencer with its own fresh supply
func NewInferencer() *Inferencer {
	return NewInferencerWith(NewFresh())
}

// NewInferencerWith creates an inferencer drawing on the given supply
func NewInferencerWith(fresh *Fresh) *Inferencer {
	return &Inferencer{fresh: fresh, unifier: NewUnifier(fresh)}
}

// Fresh exposes the inferencer's variable supply
func (inf *Inferencer) Fresh() *Fresh { return inf.fresh }

// Infer returns the substitution accumulated while typing expr together
// with expr's type. The substitution is the change to apply to the
// environment after inferring this sub-expression.
func (inf *Inferencer) Infer(expr ast.Expr, env *TypeEnv) (Subst, Type, error) {
	switch e := expr.(type) {
	case *ast.NumLit:
		return Subst{}, TNum, nil

	case *ast.StrLit:
		return Subst{}, TStr, nil

	case *ast.Id:
		sc, ok := env.Lookup(e.Name)
		if !ok {
			return nil, nil, errUnbound(e.Name)
		}
		return Subst{}, sc.Instantiate(inf.fresh), nil

	case *ast.Rec:
		return inf.inferRec(e, env)

	case *ast.List:
		return inf.inferList(e, env)

	case *ast.Cons:
		return inf.inferCons(e, env)

	case *ast.Acc:
		return inf.inferAcc(e, env)

	case *ast.App:
		return inf.inferApp(e, env)

	case *ast.Lam:
		return inf.inferLam(e, env)

	case *ast.Match:
		return inf.inferMatch(e, env)

	default:
		return nil, nil, fmt.Errorf("cannot infer %T at %s", expr, expr.Position())
	}
}

// inferRec types a record literal as a closed, non-union row
func (inf *Inferencer) inferRec(e *ast.Rec, env *TypeEnv) (Subst, Type, error) {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := Subst{}
	items := make(map[string]Type, len(keys))
	for _, k := range keys {
		sk, tk, err := inf.Infer(e.Fields[k], env.Apply(s))
		if err != nil {
			return nil, nil, err
		}
		s = sk.Compose(s)
		items[k] = tk
	}
	for k := range items {
		items[k] = s.Apply(items[k])
	}
	return s, &TRow{Open: false, Items: items, Rest: inf.fresh.Fresh()}, nil
}

// inferList unifies all element types against one fresh variable
func (inf *Inferencer) inferList(e *ast.List, env *TypeEnv) (Subst, Type, error) {
	elem := inf.fresh.Fresh()
	s := Subst{}
	for _, item := range e.Items {
		si, ti, err := inf.Infer(item, env.Apply(s))
		if err != nil {
			return nil, nil, err
		}
		s = si.Compose(s)
		su, err := inf.unifier.Unify(s.Apply(elem), s.Apply(ti))
		if err != nil {
			return nil, nil, err
		}
		s = su.Compose(s)
	}
	return s, NewList(s.Apply(elem)), nil
}

// inferCons types tag construction as an open union row carrying one tag
func (inf *Inferencer) inferCons(e *ast.Cons, env *TypeEnv) (Subst, Type, error) {
	s := Subst{}
	var payload Type = TUnit
	if e.Payload != nil {
		sp, tp, err := inf.Infer(e.Payload, env)
		if err != nil {
			return nil, nil, err
		}
		s = sp
		payload = tp
	}
	row := &TRow{
		Union: true,
		Open:  true,
		Items: map[string]Type{e.Name: payload},
		Rest:  inf.fresh.Fresh(),
	}
	return s, row, nil
}

// inferAcc types field projection by unifying the record against an open
// row containing just the accessed field
func (inf *Inferencer) inferAcc(e *ast.Acc, env *TypeEnv) (Subst, Type, error) {
	s, tr, err := inf.Infer(e.Rec, env)
	if err != nil {
		return nil, nil, err
	}
	field := inf.fresh.Fresh()
	want := &TRow{
		Open:  true,
		Items: map[string]Type{e.Prop: field},
		Rest:  inf.fresh.Fresh(),
	}
	su, err := inf.unifier.Unify(s.Apply(tr), want)
	if err != nil {
		return nil, nil, err
	}
	s = su.Compose(s)
	return s, s.Apply(field), nil
}

// inferApp types n-ary application against a fresh result variable
func (inf *Inferencer) inferApp(e *ast.App, env *TypeEnv) (Subst, Type, error) {
	s, fn, err := inf.Infer(e.Fn, env)
	if err != nil {
		return nil, nil, err
	}
	args := make([]Type, len(e.Args))
	for i, arg := range e.Args {
		si, ti, err := inf.Infer(arg, env.Apply(s))
		if err != nil {
			return nil, nil, err
		}
		s = si.Compose(s)
		args[i] = ti
	}
	for i := range args {
		args[i] = s.Apply(args[i])
	}
	result := inf.fresh.Fresh()
	su, err := inf.unifier.Unify(s.Apply(fn), NewFunc(args, result))
	if err != nil {
		return nil, nil, err
	}
	s = su.Compose(s)
	return s, s.Apply(result), nil
}

// inferLam binds each parameter to a fresh monomorphic variable and types
// the body
func (inf *Inferencer) inferLam(e *ast.Lam, env *TypeEnv) (Subst, Type, error) {
	params := make([]Type, len(e.Params))
	inner := env
	for i, p := range e.Params {
		v := inf.fresh.Fresh()
		params[i] = v
		inner = inner.Extend(p, MonoScheme(v))
	}
	s, body, err := inf.Infer(e.Body, inner)
	if err != nil {
		return nil, nil, err
	}
	for i := range params {
		params[i] = s.Apply(params[i])
	}
	return s, NewFunc(params, body), nil
}

// inferMatch types a when-expression. The scrutinee is first opened as an
// empty union so each case's pattern accretes its tag; when there is no
// otherwise branch, the scrutinee is finally unified against the closed
// counterpart of the accumulated pattern type, which makes exhaustiveness
// fall out of unification.
func (inf *Inferencer) inferMatch(e *ast.Match, env *TypeEnv) (Subst, Type, error) {
	s, scrut, err := inf.Infer(e.Scrutinee, env)
	if err != nil {
		return nil, nil, err
	}

	su, err := inf.unifier.Unify(s.Apply(scrut), &TRow{
		Union: true,
		Open:  true,
		Items: map[string]Type{},
		Rest:  inf.fresh.Fresh(),
	})
	if err != nil {
		return nil, nil, err
	}
	s = su.Compose(s)

	pat := Type(inf.fresh.Fresh())
	out := Type(inf.fresh.Fresh())

	for _, c := range e.Cases {
		caseEnv := env.Apply(s)
		for _, name := range c.Pattern.Binders() {
			caseEnv = caseEnv.Extend(name, MonoScheme(inf.fresh.Fresh()))
		}

		sp, tp, err := inf.Infer(c.Pattern.ToExpr(), caseEnv)
		if err != nil {
			return nil, nil, err
		}
		s = sp.Compose(s)

		sup, err := inf.unifier.Unify(s.Apply(pat), s.Apply(tp))
		if err != nil {
			return nil, nil, err
		}
		s = sup.Compose(s)

		sb, tb, err := inf.Infer(c.Body, caseEnv.Apply(s))
		if err != nil {
			return nil, nil, err
		}
		s = sb.Compose(s)

		sub, err := inf.unifier.Unify(s.Apply(out), s.Apply(tb))
		if err != nil {
			return nil, nil, err
		}
		s = sub.Compose(s)
	}

	if e.Otherwise == nil {
		want := s.Apply(pat)
		if row, ok := want.(*TRow); ok {
			want = &TRow{Union: row.Union, Open: !row.Open, Items: row.Items, Rest: row.Rest}
		}
		sc, err := inf.unifier.Unify(s.Apply(scrut), want)
		if err != nil {
			return nil, nil, err
		}
		s = sc.Compose(s)
	} else {
		sc, err := inf.unifier.Unify(s.Apply(scrut), s.Apply(pat))
		if err != nil {
			return nil, nil, err
		}
		s = sc.Compose(s)

		so, to, err := inf.Infer(e.Otherwise, env.Apply(s))
		if err != nil {
			return nil, nil, err
		}
		s = so.Compose(s)

		sout, err := inf.unifier.Unify(s.Apply(out), s.Apply(to))
		if err != nil {
			return nil, nil, err
		}
		s = sout.Compose(s)
	}

	return s, s.Apply(out), nil
}
