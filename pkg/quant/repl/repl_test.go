package repl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sambeau/quant/pkg/quant/macro"
)

func newSession() (*session, *bytes.Buffer) {
	var out bytes.Buffer
	return &session{in: macro.New(nil), out: &out}, &out
}

func TestEval(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"query", "45 kPa > torr", "= 337.508 torr\n"},
		{"si value", "3 m * 4 m", "= 12 m^2\n"},
		{"error", "7m + 4s", "Error: cannot add or subtract 'm' and 's'\n"},
		{"warning", "mt/ks", "Warning: prefix 'm' is unusual for unit 't' (increasing prefixes only)\n= 0.001 kg*s^(-1)\n"},
		{"assignment", "d = 2 km", "OK\n"},
		{"write", `write("hi")`, "hi\n"},
		{"macro error", "write(nope)", "Error: line 1: unknown unit 'nope'\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, out := newSession()
			s.eval(tt.input)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestEvalKeepsVariables(t *testing.T) {
	s, out := newSession()
	s.eval("d = 2 km")
	out.Reset()

	s.eval("d > mi")
	assert.Equal(t, "= 1.24274 mi\n", out.String())

	out.Reset()
	s.eval("convert(d/4, m)")
	assert.Equal(t, "d/4 = 500 m\n", out.String())
}

func TestCommands(t *testing.T) {
	s, out := newSession()

	s.command(":vars")
	assert.Equal(t, "(no variables)\n", out.String())

	s.eval("side = 2 m")
	out.Reset()
	s.command(":vars")
	assert.Equal(t, "  side = 2 m\n", out.String())

	out.Reset()
	s.command(":clear")
	s.command(":vars")
	assert.Equal(t, "Variables cleared\n(no variables)\n", out.String())

	out.Reset()
	s.command(":units km/h")
	assert.Equal(t, "  kn     knot\n  mph    mile per hour\n", out.String())

	out.Reset()
	s.command(":units m*kg")
	assert.Equal(t, "Error: no catalog unit has dimension 'm*kg'\n", out.String())

	out.Reset()
	s.command(":help")
	assert.Contains(t, out.String(), ":units [expr]")

	out.Reset()
	s.command(":bogus")
	assert.Equal(t, "Unknown command: :bogus (type :help for commands)\n", out.String())
}

func TestFilterCompletions(t *testing.T) {
	words := []string{"kg", "km", "m", "write("}

	assert.Equal(t, []string{"3 kg", "3 km"}, filterCompletions("3 k", words))
	assert.Equal(t, []string{"2*m"}, filterCompletions("2*m", words))
	assert.Equal(t, []string{"write("}, filterCompletions("wr", words))
	assert.Nil(t, filterCompletions("3 ", words))
	assert.Nil(t, filterCompletions("", words))
}

func TestCompletionWords(t *testing.T) {
	words := completionWords(macro.New(nil))
	assert.Contains(t, words, "Pa")
	assert.Contains(t, words, "convert(")
}

func TestNeedsMoreInput(t *testing.T) {
	assert.False(t, needsMoreInput("45 kPa > torr"))
	assert.True(t, needsMoreInput("<js>\nvar a = 1;"))
	assert.False(t, needsMoreInput("<js>\nvar a = 1;\n</js>"))
	assert.True(t, needsMoreInput("x = 1 /* note"))
	assert.False(t, needsMoreInput("x = 1 /* note */"))
}
