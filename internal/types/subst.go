package types

import "fmt"

// Subst is a finite map from type-variable names to types, acting as a
// function on types.
type Subst map[string]Type

// Apply applies the substitution to a type. Unknown variables pass through
// unchanged. On a row, items are rewritten pointwise and the tail is
// resolved: a tail that lands on another row of the same kind is merged
// flat into the outer row, so repeated refinements never build up chains of
// nested rows.
func (s Subst) Apply(t Type) Type {
	switch t := t.(type) {
	case *TVar:
		if r, ok := s[t.Name]; ok {
			return r
		}
		return t

	case *TCon:
		if len(t.Args) == 0 {
			return t
		}
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = s.Apply(a)
		}
		return &TCon{Name: t.Name, Args: args}

	case *TRow:
		items := make(map[string]Type, len(t.Items))
		for k, v := range t.Items {
			items[k] = s.Apply(v)
		}
		switch tail := s.Apply(t.Rest).(type) {
		case *TVar:
			return &TRow{Union: t.Union, Open: t.Open, Items: items, Rest: tail}
		case *TRow:
			if tail.Union != t.Union {
				panic(fmt.Sprintf("row tail %s resolved to a row of the wrong kind: %s", t.Rest.Name, tail))
			}
			merged := make(map[string]Type, len(items)+len(tail.Items))
			for k, v := range tail.Items {
				merged[k] = v
			}
			// outer items win on key collision
			for k, v := range items {
				merged[k] = v
			}
			return &TRow{Union: t.Union, Open: t.Open && tail.Open, Items: merged, Rest: tail.Rest}
		default:
			panic(fmt.Sprintf("row tail %s resolved to a non-row type: %s", t.Rest.Name, tail))
		}

	default:
		return t
	}
}

// Compose combines two substitutions such that
// Compose(s1, s2).Apply(t) == s1.Apply(s2.Apply(t)) for all t.
// s1's bindings win on collision.
func (s1 Subst) Compose(s2 Subst) Subst {
	out := make(Subst, len(s1)+len(s2))
	for x, t := range s2 {
		out[x] = s1.Apply(t)
	}
	for x, t := range s1 {
		out[x] = s1.Apply(t)
	}
	return out
}

// ApplyToScheme applies the substitution restricted to the scheme's
// non-quantified variables, so bound names are never captured.
func (s Subst) ApplyToScheme(sc *Scheme) *Scheme {
	if len(sc.TypeVars) == 0 {
		return &Scheme{Type: s.Apply(sc.Type)}
	}
	bound := make(map[string]bool, len(sc.TypeVars))
	for _, v := range sc.TypeVars {
		bound[v] = true
	}
	restricted := make(Subst, len(s))
	for x, t := range s {
		if !bound[x] {
			restricted[x] = t
		}
	}
	return &Scheme{TypeVars: sc.TypeVars, Type: restricted.Apply(sc.Type)}
}
