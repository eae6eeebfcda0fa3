package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/sambeau/quant/pkg/quant/evaluator"
	"github.com/sambeau/quant/pkg/quant/macro"
)

const PROMPT = ">> "
const CONTINUATION_PROMPT = ".. "

const LOGO = `
█▀█ █░█ ▄▀█ █▄░█ ▀█▀
▀▀█ █▄█ █▀█ █░▀█ ░█░ `

// Options configures a REPL session
type Options struct {
	Version     string
	HistoryFile string // empty disables history
}

// session evaluates REPL input against one interpreter
type session struct {
	in  *macro.Interpreter
	out io.Writer
}

// Start starts the REPL with line editing, history, and unit completion.
// Assignments and macro calls go to the interpreter, so variables persist
// between lines; anything else is read as "input > target".
func Start(out io.Writer, in *macro.Interpreter, opts Options) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	words := completionWords(in)
	line.SetCompleter(func(line string) []string {
		return filterCompletions(line, words)
	})

	if opts.HistoryFile != "" {
		if f, err := os.Open(opts.HistoryFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(opts.HistoryFile); err == nil {
				line.WriteHistory(f)
				f.Close()
			}
		}()
	}

	fmt.Fprintf(out, "%s", LOGO)
	fmt.Fprintln(out, "v", opts.Version)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit")
	fmt.Fprintln(out, "Use Tab for unit completion, ↑↓ for history")
	fmt.Fprintln(out, "Type ':help' for REPL commands")
	fmt.Fprintln(out, "")

	s := &session{in: in, out: out}
	var inputBuffer strings.Builder

	for {
		currentPrompt := PROMPT
		if inputBuffer.Len() > 0 {
			currentPrompt = CONTINUATION_PROMPT
		}
		input, err := line.Prompt(currentPrompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				if inputBuffer.Len() > 0 {
					fmt.Fprintln(out, "^C (cleared)")
				} else {
					fmt.Fprintln(out, "^C")
				}
				inputBuffer.Reset()
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		trimmed := strings.TrimSpace(input)
		if inputBuffer.Len() == 0 && (trimmed == "exit" || trimmed == "quit") {
			fmt.Fprintln(out, "Goodbye!")
			return
		}

		if inputBuffer.Len() == 0 && strings.HasPrefix(trimmed, ":") {
			s.command(trimmed)
			continue
		}

		if inputBuffer.Len() == 0 && trimmed == "" {
			continue
		}

		if inputBuffer.Len() > 0 {
			inputBuffer.WriteString("\n")
		}
		inputBuffer.WriteString(input)

		fullInput := inputBuffer.String()
		if needsMoreInput(fullInput) {
			continue
		}

		line.AppendHistory(fullInput)
		s.eval(fullInput)
		inputBuffer.Reset()
	}
}

// eval runs one complete input
func (s *session) eval(input string) {
	if s.in.IsStatement(input) {
		messages, err := s.in.Exec(input)
		for _, msg := range messages {
			fmt.Fprintln(s.out, msg)
		}
		if err != nil {
			fmt.Fprintln(s.out, "Error: "+s.in.Describe(err))
		} else if len(messages) == 0 {
			io.WriteString(s.out, "OK\n")
		}
		return
	}

	rep := s.in.Engine().FullQuery(s.in.Expand(input))
	printReport(s.out, rep, s.in)
}

func printReport(out io.Writer, rep *evaluator.Report, in *macro.Interpreter) {
	if rep.Status == evaluator.StatusError {
		fmt.Fprintln(out, "Error: "+rep.Messages[0])
		return
	}
	for _, msg := range rep.Messages {
		fmt.Fprintln(out, "Warning: "+msg)
	}
	fmt.Fprintln(out, "= "+in.Format().Quantity(rep.Result.Value, rep.Result.Label))
}

// command handles REPL meta-commands that start with ':'
func (s *session) command(cmd string) {
	name, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":help", ":h", ":?":
		fmt.Fprintln(s.out, "REPL Commands:")
		fmt.Fprintln(s.out, "  :help, :h, :?    Show this help")
		fmt.Fprintln(s.out, "  :vars            Show variables")
		fmt.Fprintln(s.out, "  :clear           Clear all variables")
		fmt.Fprintln(s.out, "  :units [expr]    List units with the dimensions of expr")
		fmt.Fprintln(s.out, "  exit, quit       Exit the REPL")
		fmt.Fprintln(s.out, "")
		fmt.Fprintln(s.out, "Input:")
		fmt.Fprintln(s.out, "  45 kPa > torr    Convert to a target unit")
		fmt.Fprintln(s.out, "  3 m * 4 m        Evaluate in SI units")
		fmt.Fprintln(s.out, "  d = 2 km         Assign a variable")
		fmt.Fprintln(s.out, "  convert(d, mi)   Call a macro function")

	case ":vars":
		s.printVars()

	case ":clear":
		s.in.Reset()
		fmt.Fprintln(s.out, "Variables cleared")

	case ":units":
		units, err := s.in.Engine().UnitsLike(s.in.Expand(arg))
		if err != nil {
			fmt.Fprintln(s.out, "Error: "+s.in.Describe(err))
			return
		}
		for _, u := range units {
			fmt.Fprintf(s.out, "  %-6s %s\n", u.ID, u.Name)
		}

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type :help for commands)\n", cmd)
	}
}

// printVars displays all variables in SI units
func (s *session) printVars() {
	names := s.in.Names()
	if len(names) == 0 {
		fmt.Fprintln(s.out, "(no variables)")
		return
	}
	params := s.in.Format()
	for _, name := range names {
		q, _ := s.in.Var(name)
		fmt.Fprintf(s.out, "  %s = %s\n", name, params.Quantity(q.Magnitude, q.Dims.String()))
	}
}

// completionWords are the unit symbols and macro function names
func completionWords(in *macro.Interpreter) []string {
	words := in.Engine().Catalog().Symbols()
	for _, fn := range in.Functions() {
		words = append(words, fn+"(")
	}
	return words
}

// filterCompletions completes the last word of line. A word starts after
// whitespace, an operator or a bracket.
func filterCompletions(line string, words []string) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	cut := strings.LastIndexAny(line, " \t*/^+-(){}>,")
	last := line[cut+1:]
	if last == "" {
		return nil
	}
	head := line[:cut+1]

	var matches []string
	for _, word := range words {
		if strings.HasPrefix(word, last) {
			matches = append(matches, head+word)
		}
	}
	return matches
}

// needsMoreInput checks for an open script block or block comment
func needsMoreInput(input string) bool {
	open := strings.Count(input, "<js>") > strings.Count(input, "</js>")
	comment := strings.LastIndex(input, "/*") > strings.LastIndex(input, "*/")
	return open || comment
}
