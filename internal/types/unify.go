package types

import "sort"

// Unifier reconciles two types by computing their most general unifying
// substitution. Row unification allocates fresh tail variables, so the
// unifier carries the run's fresh supply.
type Unifier struct {
	fresh *Fresh
}

// NewUnifier creates a unifier drawing on the given fresh supply
func NewUnifier(fresh *Fresh) *Unifier {
	return &Unifier{fresh: fresh}
}

// Unify returns a substitution s such that s.Apply(t1) equals s.Apply(t2),
// or a *TypeError when no such substitution exists.
func (u *Unifier) Unify(t1, t2 Type) (Subst, error) {
	if v, ok := t1.(*TVar); ok {
		return u.bind(v, t2)
	}
	if v, ok := t2.(*TVar); ok {
		return u.bind(v, t1)
	}

	switch a := t1.(type) {
	case *TCon:
		if b, ok := t2.(*TCon); ok {
			return u.unifyCons(a, b)
		}
	case *TRow:
		if b, ok := t2.(*TRow); ok {
			return u.unifyRows(a, b)
		}
	}

	return nil, errKind(t1, t2)
}

// bind binds a variable to a type, performing the occurs check
func (u *Unifier) bind(v *TVar, t Type) (Subst, error) {
	if tv, ok := t.(*TVar); ok && tv.Name == v.Name {
		return Subst{}, nil
	}
	if Occurs(v.Name, t) {
		return nil, errInfinite(v.Name, t)
	}
	return Subst{v.Name: t}, nil
}

// unifyCons unifies two applied constructors argument-wise, composing the
// running substitution into each subsequent unification.
func (u *Unifier) unifyCons(t1, t2 *TCon) (Subst, error) {
	if t1.Name != t2.Name {
		return nil, errConstructor(t1, t2)
	}
	if len(t1.Args) != len(t2.Args) {
		return nil, errArity(t1, t2)
	}

	s := Subst{}
	for i := range t1.Args {
		si, err := u.Unify(s.Apply(t1.Args[i]), s.Apply(t2.Args[i]))
		if err != nil {
			return nil, err
		}
		s = si.Compose(s)
	}
	return s, nil
}

// unifyRows unifies two rows. Items present on both sides unify pointwise;
// width matching introduces one fresh shared tail and unifies each side's
// rest against the other side's exclusive items, which encodes width
// subtyping as equality.
func (u *Unifier) unifyRows(r1, r2 *TRow) (Subst, error) {
	if r1.Union != r2.Union {
		return nil, errRowKind(r1, r2)
	}

	common := make([]string, 0, len(r1.Items))
	onlyLeft := make(map[string]Type)
	for k, t := range r1.Items {
		if _, ok := r2.Items[k]; ok {
			common = append(common, k)
		} else {
			onlyLeft[k] = t
		}
	}
	sort.Strings(common)

	onlyRight := make(map[string]Type)
	for k, t := range r2.Items {
		if _, ok := r1.Items[k]; !ok {
			onlyRight[k] = t
		}
	}

	s := Subst{}
	for _, k := range common {
		sk, err := u.Unify(s.Apply(r1.Items[k]), s.Apply(r2.Items[k]))
		if err != nil {
			return nil, err
		}
		s = sk.Compose(s)
	}

	open := r1.Open && r2.Open
	canExtendLeft := len(onlyLeft) == 0 || r2.Open
	canExtendRight := len(onlyRight) == 0 || r1.Open
	if !open && !(canExtendLeft && canExtendRight) {
		if !canExtendRight {
			return nil, errRow(sortedKeys(onlyRight), SideLeft, r1, r2)
		}
		return nil, errRow(sortedKeys(onlyLeft), SideRight, r1, r2)
	}

	// A shared tail variable cannot absorb two different extensions; with
	// no exclusive items on either side the rows are already reconciled.
	leftRest := s.Apply(r1.Rest)
	rightRest := s.Apply(r2.Rest)
	if lv, lok := leftRest.(*TVar); lok {
		if rv, rok := rightRest.(*TVar); rok && lv.Name == rv.Name {
			if len(onlyLeft) == 0 && len(onlyRight) == 0 {
				// Close the shared tail over an empty extension so the
				// openness of both sides settles to the conjunction.
				se, err := u.bind(lv, &TRow{
					Union: r1.Union,
					Open:  open,
					Items: map[string]Type{},
					Rest:  u.fresh.Fresh(),
				})
				if err != nil {
					return nil, err
				}
				return se.Compose(s), nil
			}
			if len(onlyRight) > 0 {
				return nil, errRow(sortedKeys(onlyRight), SideLeft, r1, r2)
			}
			return nil, errRow(sortedKeys(onlyLeft), SideRight, r1, r2)
		}
	}

	// One fresh tail shared by both sides connects the rows: each rest
	// absorbs the other side's exclusive items and extends through it.
	rest := u.fresh.Fresh()

	sl, err := u.Unify(s.Apply(r1.Rest), &TRow{
		Union: r1.Union,
		Open:  open,
		Items: applyItems(s, onlyRight),
		Rest:  rest,
	})
	if err != nil {
		return nil, err
	}
	s = sl.Compose(s)

	sr, err := u.Unify(s.Apply(r2.Rest), &TRow{
		Union: r1.Union,
		Open:  open,
		Items: applyItems(s, onlyLeft),
		Rest:  rest,
	})
	if err != nil {
		return nil, err
	}
	s = sr.Compose(s)

	return s, nil
}

func applyItems(s Subst, items map[string]Type) map[string]Type {
	out := make(map[string]Type, len(items))
	for k, t := range items {
		out[k] = s.Apply(t)
	}
	return out
}

func sortedKeys(items map[string]Type) []string {
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
