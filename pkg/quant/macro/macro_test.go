package macro

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sambeau/quant/pkg/quant/errors"
	"github.com/sambeau/quant/pkg/quant/quantity"
)

func TestRun(t *testing.T) {
	script := `// average speed
d = 2 km
t = 30 min /* half an hour */
convert(d/t, "km/h")
write("done")
write(d/t)
`
	got := New(nil).Run(script)
	assert.Equal(t, []string{
		"d/t = 4 km/h",
		"done",
		"1.11111 m*s^(-1)",
		"macro finished (5 statement(s))",
	}, got)
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"unreadable", "x = 3 m\nfoo bar", "line 2: cannot read 'foo bar'"},
		{"unknown call", "frobnicate(3)", "line 1: cannot read 'frobnicate(3)'"},
		{"two equals", "x == 3", "line 1: only one '=' is allowed per assignment"},
		{"bad name", "2x = 3", "line 1: '2x' is not a valid variable name"},
		{"too few args", "write()", "line 1: write() takes 1 to 1 argument(s), got 0"},
		{"too many args", "\nconvert(1, 2, 3, 4)", "line 2: convert() takes 1 to 3 argument(s), got 4"},
		{"engine error", "x = 7m + 4s", "line 1: cannot add or subtract 'm' and 's'"},
		{"no script runner", "x = 1\n<js>x = 2</js>", "line 2: script blocks are not enabled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(nil).Run(tt.script)
			require.NotEmpty(t, got)
			assert.Equal(t, tt.want, got[len(got)-1])
		})
	}
}

func TestRunStopsAtFirstError(t *testing.T) {
	got := New(nil).Run("write(\"a\")\nwrite(nope)\nwrite(\"b\")")
	assert.Equal(t, []string{"a", "line 2: unknown unit 'nope'"}, got)
}

func TestRunFreshVariables(t *testing.T) {
	in := New(nil)
	in.Run("dist = 5 km")
	got := in.Run("write(dist)")
	assert.Equal(t, "line 1: unknown unit 'dist'", got[len(got)-1])
}

func TestExecKeepsVariables(t *testing.T) {
	in := New(nil)

	_, err := in.Exec("side = 2 m")
	require.NoError(t, err)
	msgs, err := in.Exec("write(side*side)")
	require.NoError(t, err)
	assert.Equal(t, []string{"4 m^2"}, msgs)
	assert.Equal(t, []string{"side"}, in.Names())

	q, ok := in.Var("side")
	require.True(t, ok)
	assert.Equal(t, quantity.New(2, quantity.Base(0)), q)

	_, err = in.Exec("write(nope)")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.UnknownUnit))
	assert.Equal(t, "line 1: unknown unit 'nope'", in.Describe(err))

	in.Reset()
	assert.Empty(t, in.Names())
}

func TestWarningsBecomeMessages(t *testing.T) {
	got := New(nil).Run("flow = mt/ks\nconvert(45 kPa, torr, '{bad}')")
	require.Len(t, got, 4)
	assert.Equal(t, "line 1: prefix 'm' is unusual for unit 't' (increasing prefixes only)", got[0])
	assert.Equal(t, "line 2: format parameters '{bad}' are malformed and were ignored", got[1])
	assert.Equal(t, "45 kPa = 337.508 torr", got[2])
}

func TestConvertFormatParams(t *testing.T) {
	got := New(nil).Run(`convert("45 kPa", "torr", '{"digits": 4}')`)
	assert.Equal(t, "45 kPa = 337.5 torr", got[0])

	got = New(nil).Run(`convert(0.25 mm, m)` + "\n" + `convert(1 min, h, '{"digits": 8}')`)
	assert.Equal(t, "0.25 mm = 0.00025 m", got[0])
	assert.Equal(t, "1 min = 0.016666667 h", got[1])
}

func TestMaxLines(t *testing.T) {
	got := New(nil, WithMaxLines(2)).Run("a = 1\nb = 2\nc = 3")
	assert.Equal(t, []string{"script has 3 lines, the limit is 2"}, got)
}

type fakeRunner struct {
	code string
	err  error
}

func (f *fakeRunner) Run(code string, vars map[string]quantity.Q) error {
	f.code = code
	vars["y"] = quantity.Scalar(42)
	return f.err
}

func TestScriptRunner(t *testing.T) {
	runner := &fakeRunner{}
	in := New(nil, WithScriptRunner(runner))

	got := in.Run("x = 1\n<js>\n// not stripped\nvar a = 1;\n</js>\nwrite(y)")
	assert.Equal(t, "\n// not stripped\nvar a = 1;\n", runner.code)
	assert.Equal(t, []string{"42", "macro finished (3 statement(s))"}, got)

	runner.err = fmt.Errorf("boom")
	got = in.Run("x = 1\n<js>throw 1</js>")
	assert.Equal(t, "line 2: script block failed: boom", got[len(got)-1])
}

type lineLogger struct{ lines []string }

func (l *lineLogger) Log(values ...interface{}) {}
func (l *lineLogger) LogLine(values ...interface{}) {
	l.lines = append(l.lines, fmt.Sprint(values...))
}

func TestLoggerEchoesMessages(t *testing.T) {
	logger := &lineLogger{}
	New(nil, WithLogger(logger)).Run(`write("hello")`)
	assert.Equal(t, []string{"hello"}, logger.lines)
}

func TestCustomFunction(t *testing.T) {
	shout := Function{
		Name: "shout", MinArgs: 1, MaxArgs: 1,
		Call: func(in *Interpreter, line int, args []string) error {
			in.Emit(args[0] + "!")
			return nil
		},
	}
	in := New(nil, WithFunction(shout))
	assert.Equal(t, []string{"convert", "shout", "write"}, in.Functions())
	assert.Equal(t, "hey!", in.Run("shout(hey)")[0])
}

func TestSplitStatements(t *testing.T) {
	src := "a = 1 // one\n/* two\nthree */ b = 2\nwrite(\"// kept\")\n"
	assert.Equal(t, []statement{
		{line: 1, text: "a = 1"},
		{line: 3, text: "b = 2"},
		{line: 4, text: `write("// kept")`},
	}, splitStatements(src))
}

func TestSplitArgs(t *testing.T) {
	assert.Nil(t, splitArgs("  "))
	assert.Equal(t, []string{"45 kPa", "torr"}, splitArgs("45 kPa, torr"))
	assert.Equal(t, []string{"(1, 2)", `'{"a": 1, "b": 2}'`}, splitArgs(`(1, 2), '{"a": 1, "b": 2}'`))
}

func TestExpand(t *testing.T) {
	vars := map[string]quantity.Q{
		"x":  quantity.New(2, quantity.Base(0)),
		"xy": quantity.Scalar(3),
	}
	assert.Equal(t, "(2*m)/(3) + x2", expand("x/xy + x2", vars))
	assert.Equal(t, "km", expand("km", vars))
	assert.Equal(t, "2*(2*m) + 1.5*(3)", expand("2x + 1.5xy", vars))
	assert.Equal(t, "y3*(2*m)", expand("y3*x", vars))

	exp := map[string]quantity.Q{"e": quantity.Scalar(2), "e5": quantity.Scalar(4)}
	assert.Equal(t, "2e3 + 1.5e-4 + 1e5", expand("2e3 + 1.5e-4 + 1e5", exp))
	assert.Equal(t, "3*(2) m", expand("3e m", exp))
}

func TestGluedVariable(t *testing.T) {
	got := New(nil).Run("len = 3 m\nwrite(2len)\nconvert(0.25len, mm)")
	assert.Equal(t, []string{"6 m", "0.25len = 750 mm", "macro finished (3 statement(s))"}, got)
}

func TestIsIdentifier(t *testing.T) {
	for _, ok := range []string{"x", "_tmp", "flow2"} {
		assert.True(t, IsIdentifier(ok), ok)
	}
	for _, bad := range []string{"", "2x", "a b", "x-y", "µ"} {
		assert.False(t, IsIdentifier(bad), bad)
	}
}

func TestIsStatement(t *testing.T) {
	in := New(nil)
	for _, s := range []string{"x = 3 m", "write(x)", " convert(1 km, m)", "<js>x = 1</js>"} {
		assert.True(t, in.IsStatement(s), s)
	}
	for _, s := range []string{"3 m > ft", "sqrt(4)", "(2 m)^2"} {
		assert.False(t, in.IsStatement(s), s)
	}
}

func TestExecute(t *testing.T) {
	in := New(nil)

	msgs, err := in.Execute("x = 1\nwrite(x)")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "macro finished (2 statement(s))"}, msgs)

	msgs, err = in.Execute("write(\"a\")\nx == 1")
	assert.True(t, errors.IsKind(err, errors.MultipleAssignment))
	assert.Equal(t, []string{"a"}, msgs)
}
