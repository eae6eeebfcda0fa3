package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/sambeau/quant/pkg/quant/errors"
	"github.com/sambeau/quant/pkg/quant/evaluator"
	"github.com/sambeau/quant/pkg/quant/format"
	"github.com/sambeau/quant/pkg/quant/macro"
	"github.com/sambeau/quant/pkg/quant/quant"
	"github.com/sambeau/quant/pkg/quant/repl"
)

// Version is set at compile time via -ldflags
var Version = "0.3.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches a command line and returns the exit code: 0 on success,
// 1 when a conversion or macro fails, 2 for usage errors.
func run(args []string, stdout, stderr io.Writer) int {
	// Check for subcommands first (before flag parsing)
	if len(args) > 0 {
		switch args[0] {
		case "run":
			return runCommand(args[1:], stdout, stderr)
		case "watch":
			return watchCommand(args[1:], stdout, stderr)
		case "units":
			return unitsCommand(args[1:], stdout, stderr)
		}
	}

	fs := flag.NewFlagSet("quant", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printHelp(stderr) }

	helpFlag := fs.Bool("h", false, "Show help message")
	helpLongFlag := fs.Bool("help", false, "Show help message")
	versionFlag := fs.Bool("V", false, "Show version information")
	versionLongFlag := fs.Bool("version", false, "Show version information")
	evalFlag := fs.String("e", "", "Evaluate an \"input > target\" query")
	evalLongFlag := fs.String("eval", "", "Evaluate an \"input > target\" query")
	configPath := configFlags(fs)

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *helpFlag || *helpLongFlag {
		printHelp(stdout)
		return 0
	}

	if *versionFlag || *versionLongFlag {
		fmt.Fprintf(stdout, "quant version %s\n", Version)
		return 0
	}

	query := *evalFlag
	if query == "" {
		query = *evalLongFlag
	}

	if fs.NArg() > 2 || (query != "" && fs.NArg() > 0) {
		fmt.Fprintln(stderr, "Error: too many arguments (quote expressions that contain spaces)")
		return 2
	}

	a, err := newApp(configPath(), stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	// Mode dispatch
	switch {
	case query != "":
		return a.printReport(a.engine.FullQuery(query), stdout, stderr)
	case fs.NArg() == 2:
		return a.printReport(a.engine.FullConversion(fs.Arg(0), fs.Arg(1)), stdout, stderr)
	case fs.NArg() == 1:
		if strings.Contains(fs.Arg(0), evaluator.QuerySeparator) {
			return a.printReport(a.engine.FullQuery(fs.Arg(0)), stdout, stderr)
		}
		return a.printReport(a.engine.FullConversion(fs.Arg(0), ""), stdout, stderr)
	default:
		repl.Start(stdout, a.interpreter(), repl.Options{
			Version:     Version,
			HistoryFile: a.cfg.REPL.History,
		})
		return 0
	}
}

// configFlags registers -c/--config and returns the chosen path
func configFlags(fs *flag.FlagSet) func() string {
	short := fs.String("c", "", "Config file")
	long := fs.String("config", "", "Config file")
	return func() string {
		if *short != "" {
			return *short
		}
		return *long
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, `quant - unit conversion calculator version %s

Usage:
  quant [options] "input" ["target"]
  quant [options] -e "input > target"
  quant run [--html] <script>
  quant watch <script>
  quant units [expression]
  quant                         Start interactive REPL

Commands:
  run                   Run a macro script and print its messages
  watch                 Run a macro script again every time it is saved
  units                 List units with the dimensions of an expression

Options:
  -h, --help            Show this help message
  -V, --version         Show version information
  -c, --config <file>   Config file (default: $QUANT_CONFIG, ./quant.yaml,
                        ~/.config/quant/quant.yaml)
  -e, --eval <query>    Evaluate an "input > target" query

Examples:
  quant "45 kPa" torr           Convert (prints: 337.508 torr)
  quant "3 m * 4 m"             Evaluate in SI units (prints: 12 m^2)
  quant -e "{0°C} > K"          Unit functions use curly braces
  quant "60 mph > km/h"         A single argument may hold a query
  quant run trip.qm             Run a macro
  quant run --html trip.qm      Run a macro, print the transcript as HTML
  quant units "km/h"            List units of speed
`, Version)
}

// runCommand implements 'quant run [--html] <script>'
func runCommand(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	htmlFlag := fs.Bool("html", false, "Print the transcript as HTML")
	configPath := configFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Usage: quant run [--html] <script>")
		return 2
	}
	filename := fs.Arg(0)

	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to read script: %v\n", err)
		return 1
	}

	a, err := newApp(configPath(), stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	if *htmlFlag {
		transcript := quant.NewTranscript()
		last, code := executeScript(a.interpreter(macro.WithLogger(transcript)), string(src))
		page, err := format.HTML(filepath.Base(filename), append(transcript.Entries(), last))
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		io.WriteString(stdout, page)
		return code
	}

	last, code := executeScript(a.interpreter(macro.WithLogger(quant.WriterLogger(stdout))), string(src))
	fmt.Fprintln(stderr, last)
	return code
}

// executeScript runs a macro whose messages stream to the interpreter's
// logger. It returns the closing line (the completion notice or the error)
// and the exit code.
func executeScript(in *macro.Interpreter, src string) (string, int) {
	messages, err := in.Execute(src)
	if err != nil {
		return "Error: " + in.Describe(err), 1
	}
	return messages[len(messages)-1], 0
}

// watchCommand implements 'quant watch <script>'
func watchCommand(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := configFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Usage: quant watch <script>")
		return 2
	}

	a, err := newApp(configPath(), stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	in := a.interpreter(macro.WithLogger(quant.WriterLogger(stdout)))
	rerun := func(path string) {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "Error: failed to read script: %v\n", err)
			return
		}
		last, _ := executeScript(in, string(src))
		fmt.Fprintln(stderr, last)
	}

	w, err := NewScriptWatcher(fs.Arg(0), rerun, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rerun(w.path)
	if err := w.Start(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	<-ctx.Done()
	return 0
}

// unitsCommand implements 'quant units [expression]'
func unitsCommand(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("units", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := configFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(stderr, "Usage: quant units [expression]")
		return 2
	}

	a, err := newApp(configPath(), stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	units, err := a.engine.UnitsLike(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, "Error: "+a.engine.Message(errors.As(err)))
		return 1
	}
	for _, u := range units {
		si := a.cfg.Format.Quantity(u.Scale, u.Dims.String())
		if u.FunctionOnly {
			si = "{" + u.FunctionID() + "}"
		}
		fmt.Fprintf(stdout, "%-6s %-24s %s\n", u.ID, u.Name, si)
	}
	return 0
}
