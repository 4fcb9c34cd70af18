package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/tsuberim/lang/internal/eval"
	"github.com/tsuberim/lang/internal/lexer"
	"github.com/tsuberim/lang/internal/module"
	"github.com/tsuberim/lang/internal/parser"
	"github.com/tsuberim/lang/internal/types"
)

// Color functions for pretty output
var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

const prompt = "λ> "

// REPL is the interactive loop. Declarations and imports accumulate in a
// persistent pair of environments; expressions are inferred, evaluated and
// printed as value : type.
type REPL struct {
	inf    *types.Inferencer
	ev     *eval.Evaluator
	loader *module.Loader

	tenv *types.TypeEnv
	venv *eval.Environment

	defined []string
	version string
}

// New creates a REPL with the standard environment in scope
func New(version string) *REPL {
	inf := types.NewInferencer()
	ev := eval.New()

	manifest, err := module.LoadManifest(".")
	if err != nil {
		manifest = &module.Manifest{}
	}
	loader := module.NewLoader(ev, inf, manifest.SearchPaths)

	baseTypes, baseValues := loader.BaseEnvs()
	return &REPL{
		inf:     inf,
		ev:      ev,
		loader:  loader,
		tenv:    baseTypes.Child(),
		venv:    baseValues.NewChild(),
		version: version,
	}
}

// Start begins the interactive session
func (r *REPL) Start(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyFile := filepath.Join(os.TempDir(), ".lang_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintf(out, "%s %s\n", bold("lang"), r.version)
	fmt.Fprintf(out, "Type %s for help, %s to exit\n", cyan(":help"), cyan(":quit"))

	for {
		input, err := line.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Fprintln(out, "Goodbye!")
				break
			}
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, ":") {
			if !r.command(input, out) {
				break
			}
			continue
		}

		r.Interpret(input, out)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

// command handles a :directive; it returns false when the session ends
func (r *REPL) command(input string, out io.Writer) bool {
	cmd, rest, _ := strings.Cut(input, " ")
	switch cmd {
	case ":quit", ":q":
		fmt.Fprintln(out, "Goodbye!")
		return false

	case ":help", ":h":
		fmt.Fprintln(out, "Commands:")
		fmt.Fprintln(out, "  :help          Show this help")
		fmt.Fprintln(out, "  :type <expr>   Show the type of an expression")
		fmt.Fprintln(out, "  :env           List defined names")
		fmt.Fprintln(out, "  :quit          Exit the session")
		fmt.Fprintln(out, "Anything else is a declaration (name = expr), an import, or an expression.")

	case ":type", ":t":
		p := parser.New(lexer.New(rest, "<repl>"))
		expr := p.ParseExpr()
		if err := p.Err(); err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Parse error"), err)
			return true
		}
		s, t, err := r.inf.Infer(expr, r.tenv)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Type error"), err)
			return true
		}
		fmt.Fprintln(out, cyan(r.tenv.Apply(s).Generalize(s.Apply(t)).String()))

	case ":env":
		if len(r.defined) == 0 {
			fmt.Fprintln(out, dim("(nothing defined)"))
			return true
		}
		for _, name := range r.defined {
			if sc, ok := r.tenv.Lookup(name); ok {
				fmt.Fprintf(out, "%s : %s\n", bold(name), cyan(sc.String()))
			}
		}

	default:
		fmt.Fprintf(out, "%s: unknown command %s\n", red("Error"), cmd)
	}
	return true
}

// Interpret processes one line of program input: imports, declarations,
// then an optional expression, in that order.
func (r *REPL) Interpret(input string, out io.Writer) {
	r.ev.SetOutput(out)
	p := parser.New(lexer.New(input, "<repl>"))
	file := p.ParseFile()
	if err := p.Err(); err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("Parse error"), err)
		return
	}

	for _, imp := range file.Imports {
		mod, err := r.loader.Load(filepath.Join(".", imp.Name+module.Ext))
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			return
		}
		for _, name := range mod.Names {
			r.tenv.Define(name, mod.Schemes[name])
			r.venv.Set(name, mod.Values[name])
			r.defined = append(r.defined, name)
		}
		fmt.Fprintf(out, "%s %s\n", green("Loaded"), imp.Name)
	}

	for _, decl := range file.Decls {
		s, t, err := r.inf.Infer(decl.Value, r.tenv)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Type error"), err)
			return
		}
		sc := r.tenv.Apply(s).Generalize(s.Apply(t))
		v, err := r.ev.Eval(decl.Value, r.venv)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Runtime error"), err)
			return
		}
		r.tenv.Define(decl.Name, sc)
		r.venv.Set(decl.Name, v)
		r.defined = append(r.defined, decl.Name)
		fmt.Fprintf(out, "%s : %s\n", bold(decl.Name), cyan(sc.String()))
	}

	if file.Expr == nil {
		return
	}

	s, t, err := r.inf.Infer(file.Expr, r.tenv)
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("Type error"), err)
		return
	}
	v, err := r.ev.Eval(file.Expr, r.venv)
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("Runtime error"), err)
		return
	}
	if task, ok := v.(*eval.TaskValue); ok {
		v, err = task.Run()
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Runtime error"), err)
			return
		}
	}
	fmt.Fprintf(out, "%s : %s\n", green(v.String()), cyan(s.Apply(t).String()))
}
