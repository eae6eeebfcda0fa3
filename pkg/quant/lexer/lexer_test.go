package lexer

import (
	"reflect"
	"testing"

	"github.com/sambeau/quant/pkg/quant/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "1"},
		{"   ", "1"},
		{"45 kPa", "45*kPa"},
		{"1,5 m", "1.5*m"},
		{"2·3", "2*3"},
		{"2 × 3", "2*3"},
		{"3*(4*(5*(2+1)-1)", "3*(4*(5*(2+1)-1))"},
		{"((2", "((2))"},
		{"7m + 4s", "7m+4s"},
		{"2 (3)", "2*(3)"},
		{"( 2 ) ( 3 )", "(2)*(3)"},
		{"(2)m", "(2)*m"},
		{"{ 0 °C }", "{0*°C}"},
		{"{0°C}", "{0°C}"},
		{"(-1)^(.5)", "(-1)^(.5)"},
		{"1e-5 m", "1e-5*m"},
		{"kg  m2   s^(-2)", "kg*m2*s^(-2)"},
	}

	for _, tt := range tests {
		got, err := Normalize(tt.input)
		if err != nil {
			t.Errorf("Normalize(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestNormalizeErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  errors.Kind
		arg   any
	}{
		{"2#3", errors.ReservedCharacter, "#"},
		{"2~3", errors.ReservedCharacter, "~"},
		{"2)", errors.UnbalancedParens, 1},
		{"(2)))", errors.UnbalancedParens, 2},
		{"{2", errors.UnbalancedCurlyBraces, 1},
		{"m^-2", errors.MultipleAdjacentOperators, "^-"},
		{"2 * -3", errors.MultipleAdjacentOperators, "*-"},
		{"2 */+ 3", errors.MultipleAdjacentOperators, "*/+"},
	}

	for _, tt := range tests {
		_, err := Normalize(tt.input)
		if !errors.IsKind(err, tt.kind) {
			t.Errorf("Normalize(%q) error = %v, want kind %s", tt.input, err, tt.kind)
			continue
		}
		if got := errors.As(err).Args[0]; got != tt.arg {
			t.Errorf("Normalize(%q) first arg = %v, want %v", tt.input, got, tt.arg)
		}
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		segment   string
		allowSign bool
		expected  []string
	}{
		{"3*4", true, []string{"3", "*", "4"}},
		{"-3*2", true, []string{"-3", "*", "2"}},
		{"-3*2", false, []string{"-", "3", "*", "2"}},
		{"+.5", true, []string{"+.5"}},
		{"1e-5*m", true, []string{"1e-5", "*", "m"}},
		{"2.5E+3-1", true, []string{"2.5E+3", "-", "1"}},
		{"m2*kg-1e-3", true, []string{"m2", "*", "kg", "-", "1e-3"}},
		{"-1e-3", true, []string{"-1e-3"}},
		{"-m", true, []string{"-", "m"}},
		{"*", false, []string{"*"}},
		{"kPa", true, []string{"kPa"}},
		{"2kPa/s^2", true, []string{"2kPa", "/", "s", "^", "2"}},
		{"", true, nil},
	}

	for _, tt := range tests {
		got := Split(tt.segment, tt.allowSign)
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("Split(%q, %v) = %q, want %q", tt.segment, tt.allowSign, got, tt.expected)
		}
	}
}

func TestNumberPrefix(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"2kPa", 1},
		{"-1.5e3m", 6},
		{".5", 2},
		{"2eV", 1},
		{"m", 0},
		{"-m", 0},
	}

	for _, tt := range tests {
		if got := NumberPrefix(tt.input); got != tt.expected {
			t.Errorf("NumberPrefix(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}
