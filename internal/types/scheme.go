package types

import (
	"fmt"
	"strings"
)

// Scheme is a universally quantified type, the output of generalisation.
// Only top-level bindings carry non-trivial schemes; lambda-bound
// identifiers are lifted into trivial schemes for environment uniformity.
type Scheme struct {
	TypeVars []string
	Type     Type
}

func (s *Scheme) String() string {
	if len(s.TypeVars) == 0 {
		return s.Type.String()
	}
	return fmt.Sprintf("∀%s. %s", strings.Join(s.TypeVars, " "), s.Type)
}

// MonoScheme lifts a monomorphic type into a trivial scheme
func MonoScheme(t Type) *Scheme {
	return &Scheme{Type: t}
}

// Generalize quantifies a type over all of its free variables. At module
// top level, use TypeEnv.Generalize, which excludes variables already bound
// by the environment.
func Generalize(t Type) *Scheme {
	return &Scheme{TypeVars: FreeTypeVars(t), Type: t}
}

// Instantiate substitutes every quantified name with a fresh variable and
// returns the refreshed body.
func (s *Scheme) Instantiate(fresh *Fresh) Type {
	if len(s.TypeVars) == 0 {
		return s.Type
	}
	sub := make(Subst, len(s.TypeVars))
	for _, v := range s.TypeVars {
		sub[v] = fresh.Fresh()
	}
	return sub.Apply(s.Type)
}
