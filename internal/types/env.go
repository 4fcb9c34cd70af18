package types

// TypeEnv is a typing environment mapping identifier names to schemes.
// Extension during inference creates child scopes; Define mutates the
// current scope and is used only between top-level declarations.
type TypeEnv struct {
	bindings map[string]*Scheme
	parent   *TypeEnv
}

// NewTypeEnv creates an empty typing environment
func NewTypeEnv() *TypeEnv {
	return &TypeEnv{bindings: make(map[string]*Scheme)}
}

// Define binds a name in the current scope
func (e *TypeEnv) Define(name string, s *Scheme) {
	e.bindings[name] = s
}

// Child returns an empty child scope; Define on it shadows the parent
func (e *TypeEnv) Child() *TypeEnv {
	return &TypeEnv{bindings: make(map[string]*Scheme), parent: e}
}

// Extend returns a child environment with one extra binding
func (e *TypeEnv) Extend(name string, s *Scheme) *TypeEnv {
	child := &TypeEnv{bindings: map[string]*Scheme{name: s}, parent: e}
	return child
}

// Lookup resolves a name through the scope chain
func (e *TypeEnv) Lookup(name string) (*Scheme, bool) {
	for env := e; env != nil; env = env.parent {
		if s, ok := env.bindings[name]; ok {
			return s, true
		}
	}
	return nil, false
}

// Apply returns a flattened environment with the substitution applied to
// every visible binding, respecting each scheme's quantified names.
func (e *TypeEnv) Apply(s Subst) *TypeEnv {
	out := NewTypeEnv()
	e.each(func(name string, sc *Scheme) {
		out.bindings[name] = s.ApplyToScheme(sc)
	})
	return out
}

// FreeTypeVars returns the set of variables free in some visible binding
func (e *TypeEnv) FreeTypeVars() map[string]bool {
	free := make(map[string]bool)
	e.each(func(_ string, sc *Scheme) {
		bound := make(map[string]bool, len(sc.TypeVars))
		for _, v := range sc.TypeVars {
			bound[v] = true
		}
		for _, v := range FreeTypeVars(sc.Type) {
			if !bound[v] {
				free[v] = true
			}
		}
	})
	return free
}

// Generalize quantifies a type over the variables free in it but not in
// the environment.
func (e *TypeEnv) Generalize(t Type) *Scheme {
	envFree := e.FreeTypeVars()
	vars := []string{}
	for _, v := range FreeTypeVars(t) {
		if !envFree[v] {
			vars = append(vars, v)
		}
	}
	return &Scheme{TypeVars: vars, Type: t}
}

// each visits every visible binding, innermost scope winning on shadowing
func (e *TypeEnv) each(f func(string, *Scheme)) {
	seen := make(map[string]bool)
	for env := e; env != nil; env = env.parent {
		for name, sc := range env.bindings {
			if !seen[name] {
				seen[name] = true
				f(name, sc)
			}
		}
	}
}
