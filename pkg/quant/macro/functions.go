package macro

import (
	"regexp"
	"strings"

	"github.com/sambeau/quant/pkg/quant/errors"
	"github.com/sambeau/quant/pkg/quant/format"
)

// Function is a macro function callable as name(arg, ...).
type Function struct {
	Name    string
	MinArgs int
	MaxArgs int
	Call    func(in *Interpreter, line int, args []string) error
}

var callRE = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*\((.*)\)$`)

// builtins are the functions every interpreter starts with.
var builtins = []Function{
	{Name: "write", MinArgs: 1, MaxArgs: 1, Call: callWrite},
	{Name: "convert", MinArgs: 1, MaxArgs: 3, Call: callConvert},
}

// parseCall matches "name(args)". The argument list is split on top-level
// commas; commas inside quotes or brackets do not split.
func parseCall(text string) (string, []string, bool) {
	m := callRE.FindStringSubmatch(text)
	if m == nil {
		return "", nil, false
	}
	return m[1], splitArgs(m[2]), true
}

func splitArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var (
		args  []string
		depth int
		quote rune
		start int
	)
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(' || r == '{' || r == '[':
			depth++
		case r == ')' || r == '}' || r == ']':
			depth--
		case r == ',' && depth == 0:
			args = append(args, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	return append(args, strings.TrimSpace(s[start:]))
}

// unquote strips matching single or double quotes.
func unquote(s string) (string, bool) {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1], true
	}
	return s, false
}

// callWrite emits a quoted string as is, or the value of an expression.
func callWrite(in *Interpreter, line int, args []string) error {
	if text, quoted := unquote(args[0]); quoted {
		in.Emit(text)
		return nil
	}
	res, err := in.engine.Convert(expand(args[0], in.vars), "")
	if err != nil {
		return err
	}
	in.warn(line, res.Warnings)
	in.Emit(in.params.Quantity(res.Value, res.Label))
	return nil
}

// callConvert emits "input = value target", formatted by the optional JSON
// params.
func callConvert(in *Interpreter, line int, args []string) error {
	input, _ := unquote(args[0])
	var target string
	if len(args) > 1 {
		target, _ = unquote(args[1])
	}

	params := in.params
	if len(args) > 2 {
		raw, _ := unquote(args[2])
		var w *errors.QuantError
		if params, w = format.ParseParams(raw, in.params); w != nil {
			in.warn(line, []*errors.QuantError{w})
		}
	}

	res, err := in.engine.Convert(expand(input, in.vars), expand(target, in.vars))
	if err != nil {
		return err
	}
	in.warn(line, res.Warnings)
	in.Emit(input + " = " + params.Quantity(res.Value, res.Label))
	return nil
}
