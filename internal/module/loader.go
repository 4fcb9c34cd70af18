package module

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tsuberim/lang/internal/ast"
	"github.com/tsuberim/lang/internal/eval"
	"github.com/tsuberim/lang/internal/lexer"
	"github.com/tsuberim/lang/internal/parser"
	"github.com/tsuberim/lang/internal/types"
)

// Ext is the source file extension
const Ext = ".lang"

// Module is a loaded source file: its exported schemes and values, plus the
// result of its trailing expression when it has one.
type Module struct {
	Path       string
	Names      []string // exported names in declaration order
	Schemes    map[string]*types.Scheme
	Values     map[string]eval.Value
	Result     eval.Value
	ResultType types.Type
}

// Loader drives files through parse → infer → generalize → eval, caching
// modules by absolute path and rejecting import cycles. All loaded modules
// share one fresh-variable supply and one pair of base environments.
type Loader struct {
	inf *types.Inferencer
	ev  *eval.Evaluator

	baseTypes  *types.TypeEnv
	baseValues *eval.Environment

	searchPaths []string
	cache       map[string]*Module
	loading     map[string]bool

	// TypesOnly skips evaluation, for check-style runs
	TypesOnly bool
}

// NewLoader creates a loader around an evaluator and an inferencer. The
// standard environment is installed as the base scope of every module.
func NewLoader(ev *eval.Evaluator, inf *types.Inferencer, searchPaths []string) *Loader {
	values, schemes := ev.Builtins()
	return &Loader{
		inf:         inf,
		ev:          ev,
		baseTypes:   schemes,
		baseValues:  values,
		searchPaths: searchPaths,
		cache:       make(map[string]*Module),
		loading:     make(map[string]bool),
	}
}

// BaseEnvs exposes the standard environments (the REPL builds on them)
func (l *Loader) BaseEnvs() (*types.TypeEnv, *eval.Environment) {
	return l.baseTypes, l.baseValues
}

// Load reads, parses, type-checks and evaluates a source file
func (l *Loader) Load(path string) (*Module, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if mod, ok := l.cache[abs]; ok {
		return mod, nil
	}
	if l.loading[abs] {
		return nil, fmt.Errorf("import cycle through %s", abs)
	}
	l.loading[abs] = true
	defer delete(l.loading, abs)

	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}

	p := parser.New(lexer.NewFromBytes(src, abs))
	file := p.ParseFile()
	if err := p.Err(); err != nil {
		return nil, err
	}

	tenv := l.baseTypes.Child()
	venv := l.baseValues.NewChild()

	for _, imp := range file.Imports {
		dep, err := l.loadImport(imp, filepath.Dir(abs))
		if err != nil {
			return nil, err
		}
		for _, name := range dep.Names {
			tenv.Define(name, dep.Schemes[name])
			if !l.TypesOnly {
				venv.Set(name, dep.Values[name])
			}
		}
	}

	mod := &Module{
		Path:    abs,
		Schemes: make(map[string]*types.Scheme),
		Values:  make(map[string]eval.Value),
	}

	for _, decl := range file.Decls {
		sc, err := l.inferTop(decl.Value, tenv)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", decl.Pos, decl.Name, err)
		}
		tenv.Define(decl.Name, sc)
		mod.Names = append(mod.Names, decl.Name)
		mod.Schemes[decl.Name] = sc
		if !l.TypesOnly {
			v, err := l.ev.Eval(decl.Value, venv)
			if err != nil {
				return nil, err
			}
			venv.Set(decl.Name, v)
			mod.Values[decl.Name] = v
		}
	}

	if file.Expr != nil {
		s, t, err := l.inf.Infer(file.Expr, tenv)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file.Expr.Position(), err)
		}
		mod.ResultType = s.Apply(t)
		if !l.TypesOnly {
			v, err := l.ev.Eval(file.Expr, venv)
			if err != nil {
				return nil, err
			}
			mod.Result = v
		}
	}

	l.cache[abs] = mod
	return mod, nil
}

// inferTop types one top-level binding and generalizes it against the
// current environment; the environment is only ever updated between
// declarations.
func (l *Loader) inferTop(expr ast.Expr, tenv *types.TypeEnv) (*types.Scheme, error) {
	s, t, err := l.inf.Infer(expr, tenv)
	if err != nil {
		return nil, err
	}
	return tenv.Apply(s).Generalize(s.Apply(t)), nil
}

// loadImport resolves an import name against the importing file's
// directory, then the configured search paths.
func (l *Loader) loadImport(imp *ast.Import, fromDir string) (*Module, error) {
	dirs := append([]string{fromDir}, l.searchPaths...)
	tried := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		candidate := filepath.Join(dir, imp.Name+Ext)
		if _, err := os.Stat(candidate); err == nil {
			return l.Load(candidate)
		}
		tried = append(tried, candidate)
	}
	sort.Strings(tried)
	return nil, fmt.Errorf("%s: cannot resolve import %s (tried %v)", imp.Pos, imp.Name, tried)
}
