// Package macro runs line-oriented conversion scripts.
//
// A macro is a sequence of lines, each one of:
//
//	name = expression               assign a variable
//	write(expression | "text")      emit a value or a string
//	convert(input, target, params)  emit a conversion; target and params optional
//
// Comments use // and /* */. A <js>...</js> block is handed verbatim to the
// interpreter's ScriptRunner, if it has one.
//
// The first error stops the macro and becomes its last message.
package macro

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sambeau/quant/pkg/quant/errors"
	"github.com/sambeau/quant/pkg/quant/evaluator"
	"github.com/sambeau/quant/pkg/quant/format"
	"github.com/sambeau/quant/pkg/quant/quantity"
)

// ScriptRunner executes <js> blocks. It may read and change the variables.
type ScriptRunner interface {
	Run(code string, vars map[string]quantity.Q) error
}

// Interpreter runs macros against an engine. It keeps variables between Exec
// calls and is not safe for concurrent use.
type Interpreter struct {
	engine    *evaluator.Engine
	runner    ScriptRunner
	logger    evaluator.Logger
	params    format.Params
	maxLines  int
	functions map[string]Function

	vars     map[string]quantity.Q
	messages []string
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithScriptRunner enables <js> blocks.
func WithScriptRunner(r ScriptRunner) Option {
	return func(in *Interpreter) { in.runner = r }
}

// WithLogger echoes every message to l as it is produced.
func WithLogger(l evaluator.Logger) Option {
	return func(in *Interpreter) { in.logger = l }
}

// WithFormat sets the default number format of write and convert.
func WithFormat(p format.Params) Option {
	return func(in *Interpreter) { in.params = p }
}

// WithMaxLines limits the number of lines a macro may have. 0 means no limit.
func WithMaxLines(n int) Option {
	return func(in *Interpreter) { in.maxLines = n }
}

// WithFunction registers an extra macro function, replacing any of the
// same name.
func WithFunction(fn Function) Option {
	return func(in *Interpreter) { in.functions[fn.Name] = fn }
}

// New creates an interpreter. A nil engine means evaluator.New(nil).
func New(engine *evaluator.Engine, opts ...Option) *Interpreter {
	if engine == nil {
		engine = evaluator.New(nil)
	}
	in := &Interpreter{
		engine:    engine,
		params:    format.DefaultParams(),
		functions: make(map[string]Function, len(builtins)),
		vars:      make(map[string]quantity.Q),
	}
	for _, fn := range builtins {
		in.functions[fn.Name] = fn
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Run executes a macro with a fresh variable store and returns its messages.
// The last message is either the completion notice or the error that
// stopped the macro.
func (in *Interpreter) Run(script string) []string {
	messages, err := in.Execute(script)
	if err != nil {
		return append(messages, in.Describe(err))
	}
	return messages
}

// Execute is Run with the error returned separately. On success the last
// message is the completion notice.
func (in *Interpreter) Execute(script string) ([]string, error) {
	in.Reset()
	messages, n, err := in.exec(script)
	if err != nil {
		return messages, err
	}
	done := errors.New("INFO-0001", n)
	return append(messages, in.engine.Message(done)), nil
}

// Exec executes a macro, keeping variables from earlier calls. It returns
// the messages produced before any error.
func (in *Interpreter) Exec(script string) ([]string, error) {
	messages, _, err := in.exec(script)
	if err != nil {
		return messages, err
	}
	return messages, nil
}

// Reset clears the variables.
func (in *Interpreter) Reset() {
	in.vars = make(map[string]quantity.Q)
}

// Engine returns the engine the interpreter evaluates with.
func (in *Interpreter) Engine() *evaluator.Engine {
	return in.engine
}

// Format returns the default number format.
func (in *Interpreter) Format() format.Params {
	return in.params
}

// IsStatement reports whether a line is macro syntax (an assignment, a
// registered call or a script block) rather than a bare expression.
func (in *Interpreter) IsStatement(line string) bool {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, scriptOpen) || strings.Contains(line, "=") {
		return true
	}
	if name, _, ok := parseCall(line); ok {
		_, known := in.functions[name]
		return known
	}
	return false
}

// Expand substitutes the current variables into an expression.
func (in *Interpreter) Expand(expr string) string {
	return expand(expr, in.vars)
}

// Var returns a variable's value.
func (in *Interpreter) Var(name string) (quantity.Q, bool) {
	q, ok := in.vars[name]
	return q, ok
}

// Names returns the variable names, sorted.
func (in *Interpreter) Names() []string {
	names := make([]string, 0, len(in.vars))
	for name := range in.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Functions returns the names of the registered macro functions, sorted.
func (in *Interpreter) Functions() []string {
	names := make([]string, 0, len(in.functions))
	for name := range in.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (in *Interpreter) exec(script string) ([]string, int, *errors.QuantError) {
	in.messages = nil
	defer func() { in.messages = nil }()

	if in.maxLines > 0 {
		if lines := strings.Count(script, "\n") + 1; lines > in.maxLines {
			return nil, 0, errors.New("MACRO-0006", lines, in.maxLines)
		}
	}

	n := 0
	for _, st := range splitStatements(script) {
		var err error
		if st.script {
			err = in.runScript(st)
		} else {
			err = in.execLine(st.line, st.text)
		}
		if err != nil {
			return in.messages, n, errors.As(err).WithLine(st.line)
		}
		n++
	}
	return in.messages, n, nil
}

// execLine runs one line: a registered call, else an assignment.
func (in *Interpreter) execLine(line int, text string) error {
	if name, args, ok := parseCall(text); ok {
		if fn, known := in.functions[name]; known {
			if len(args) < fn.MinArgs || len(args) > fn.MaxArgs {
				return errors.New("ARITY-0001", name, line, len(args), fn.MinArgs, fn.MaxArgs)
			}
			return fn.Call(in, line, args)
		}
	}

	switch strings.Count(text, "=") {
	case 0:
		return errors.New("MACRO-0001", line, text)
	case 1:
	default:
		return errors.New("MACRO-0002", line)
	}

	name, expr, _ := strings.Cut(text, "=")
	name = strings.TrimSpace(name)
	if !IsIdentifier(name) {
		return errors.New("MACRO-0003", line, name)
	}

	res, err := in.engine.Convert(expand(expr, in.vars), "")
	if err != nil {
		return err
	}
	in.warn(line, res.Warnings)
	in.vars[name] = res.Input
	return nil
}

func (in *Interpreter) runScript(st statement) error {
	if in.runner == nil {
		return errors.New("MACRO-0004", st.line)
	}
	if err := in.runner.Run(st.text, in.vars); err != nil {
		return errors.New("MACRO-0005", st.line, err.Error())
	}
	return nil
}

// Emit adds a message to the output of the running macro.
func (in *Interpreter) Emit(msg string) {
	in.messages = append(in.messages, msg)
	if in.logger != nil {
		in.logger.LogLine(msg)
	}
}

func (in *Interpreter) warn(line int, warnings []*errors.QuantError) {
	for _, w := range warnings {
		in.Emit(fmt.Sprintf("line %d: %s", line, in.engine.Message(w)))
	}
}

// Describe resolves an error from Exec to display text. Engine errors do
// not mention the line in their text, so it is prefixed.
func (in *Interpreter) Describe(err error) string {
	qe := errors.As(err)
	msg := in.engine.Message(qe)
	if qe.Line > 0 && qe.Class != errors.ClassMacro && qe.Class != errors.ClassArity {
		msg = fmt.Sprintf("line %d: %s", qe.Line, msg)
	}
	return msg
}
