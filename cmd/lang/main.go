package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/mattn/go-isatty"
	"github.com/tsuberim/lang/internal/eval"
	"github.com/tsuberim/lang/internal/module"
	"github.com/tsuberim/lang/internal/repl"
	"github.com/tsuberim/lang/internal/types"
)

var (
	// Version info - set by ldflags during build
	Version = "dev"

	// Color output
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "Print version information")
		helpFlag    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}

	if *versionFlag {
		fmt.Printf("lang %s\n", bold(Version))
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	switch command := flag.Arg(0); command {
	case "run":
		runFile(requireFileArg("run"))

	case "check":
		checkFile(requireFileArg("check"))

	case "repl":
		r := repl.New(Version)
		r.Start(os.Stdout)

	case "watch":
		watchFile(requireFileArg("watch"))

	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command '%s'\n", red("Error"), command)
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(bold("lang - a small functional language"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  lang <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run <file.lang>    Run a program and print its result")
	fmt.Println("  check <file.lang>  Type-check a file and print its bindings")
	fmt.Println("  repl               Start an interactive session")
	fmt.Println("  watch <file.lang>  Re-run a file whenever it changes")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -version           Print version information")
	fmt.Println("  -help              Show this help")
}

func requireFileArg(command string) string {
	if flag.NArg() < 2 {
		fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
		fmt.Printf("Usage: lang %s <file.lang>\n", command)
		os.Exit(1)
	}
	return flag.Arg(1)
}

func newLoader(file string, typesOnly bool) *module.Loader {
	manifest, err := module.LoadManifest(filepath.Dir(file))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
	loader := module.NewLoader(eval.New(), types.NewInferencer(), manifest.SearchPaths)
	loader.TypesOnly = typesOnly
	return loader
}

func runFile(file string) {
	if err := runOnce(file); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
}

func runOnce(file string) error {
	mod, err := newLoader(file, false).Load(file)
	if err != nil {
		return err
	}
	if mod.Result == nil {
		fmt.Printf("%s (%d bindings)\n", green("OK"), len(mod.Names))
		return nil
	}
	result := mod.Result
	if task, ok := result.(*eval.TaskValue); ok {
		result, err = task.Run()
		if err != nil {
			return err
		}
	}
	fmt.Printf("%s : %s\n", green(result.String()), cyan(mod.ResultType.String()))
	return nil
}

func checkFile(file string) {
	mod, err := newLoader(file, true).Load(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
	for _, name := range mod.Names {
		fmt.Printf("%s : %s\n", bold(name), cyan(mod.Schemes[name].String()))
	}
	if mod.ResultType != nil {
		fmt.Printf("%s : %s\n", bold("it"), cyan(mod.ResultType.String()))
	}
}

func watchFile(file string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file on save, which
	// drops a watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(file)); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	abs, _ := filepath.Abs(file)
	fmt.Printf("%s %s (Ctrl+C to stop)\n", cyan("Watching"), file)

	rerun := func() {
		if err := runOnce(file); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		}
	}
	rerun()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			target, _ := filepath.Abs(event.Name)
			if target != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				fmt.Printf("%s %s\n", cyan("Changed"), file)
				rerun()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		}
	}
}
