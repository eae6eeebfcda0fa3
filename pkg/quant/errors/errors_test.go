package errors

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestQuantError_String(t *testing.T) {
	tests := []struct {
		name     string
		err      *QuantError
		expected string
	}{
		{
			name:     "message only",
			err:      &QuantError{Message: "something went wrong"},
			expected: "something went wrong",
		},
		{
			name: "with hints",
			err: &QuantError{
				Message: "unknown unit 'kPAa'",
				Hints:   []string{"Did you mean `kPa`?"},
			},
			expected: "unknown unit 'kPAa'\n  Did you mean `kPa`?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestQuantError_PrettyString(t *testing.T) {
	tests := []struct {
		name     string
		err      *QuantError
		contains []string
	}{
		{
			name:     "parse error",
			err:      New("PARSE-0003"),
			contains: []string{"Parse error", "[PARSE-0003]", "empty brackets"},
		},
		{
			name:     "warning",
			err:      New("WARN-0003", "2"),
			contains: []string{"Warning", "unexpected number '2' in target"},
		},
		{
			name:     "hints",
			err:      New("PARSE-0002", "*-"),
			contains: []string{"Hint:", "s^(-2)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.PrettyString()
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("PrettyString() = %q, should contain %q", got, want)
				}
			}
		})
	}
}

func TestQuantError_ToJSON(t *testing.T) {
	err := New("OP-0003", "m", "s")

	jsonBytes, jsonErr := err.ToJSON()
	if jsonErr != nil {
		t.Fatalf("ToJSON() error = %v", jsonErr)
	}

	var parsed map[string]any
	if err := json.Unmarshal(jsonBytes, &parsed); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if parsed["kind"] != string(DimensionMismatchAddSub) {
		t.Errorf("kind = %v, want %v", parsed["kind"], DimensionMismatchAddSub)
	}
	if parsed["severity"].(float64) != float64(SeverityError) {
		t.Errorf("severity = %v, want %v", parsed["severity"], SeverityError)
	}
	args := parsed["args"].([]any)
	if len(args) != 2 || args[0] != "m" || args[1] != "s" {
		t.Errorf("args = %v, want [m s]", args)
	}
}

func TestNew_WithCatalog(t *testing.T) {
	tests := []struct {
		name         string
		code         string
		args         []any
		wantKind     Kind
		wantSeverity Severity
		wantContains string
	}{
		{
			name:         "unbalanced parens",
			code:         "PARSE-0001",
			args:         []any{2},
			wantKind:     UnbalancedParens,
			wantSeverity: SeverityError,
			wantContains: "2 opening parenthesis(es) missing",
		},
		{
			name:         "arity",
			code:         "ARITY-0001",
			args:         []any{"convert", 3, 4, 1, 3},
			wantKind:     WrongArity,
			wantSeverity: SeverityError,
			wantContains: "line 3: convert() takes 1 to 3 argument(s), got 4",
		},
		{
			name:         "prefix policy",
			code:         "WARN-0001",
			args:         []any{"m", "t", "increasing prefixes only"},
			wantKind:     PrefixPolicyViolation,
			wantSeverity: SeverityWarning,
			wantContains: "prefix 'm' is unusual for unit 't'",
		},
		{
			name:         "missing args render empty",
			code:         "UNDEF-0001",
			wantKind:     UnknownUnit,
			wantSeverity: SeverityError,
			wantContains: "unknown unit ''",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.args...)
			if err.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", err.Kind, tt.wantKind)
			}
			if err.Severity != tt.wantSeverity {
				t.Errorf("Severity = %v, want %v", err.Severity, tt.wantSeverity)
			}
			if !strings.Contains(err.Message, tt.wantContains) {
				t.Errorf("Message = %q, should contain %q", err.Message, tt.wantContains)
			}
		})
	}
}

func TestNew_UnknownCode(t *testing.T) {
	err := New("NOPE-9999", "x")
	if err.Code != "NOPE-9999" || err.Message != "NOPE-9999" {
		t.Errorf("unexpected generic error: %+v", err)
	}
	if err.Severity != SeverityError {
		t.Errorf("Severity = %v, want error", err.Severity)
	}
}

func TestCatalogCoversEveryKindOnce(t *testing.T) {
	seen := map[Kind]string{}
	for code, def := range Catalog {
		if def.Kind == "" {
			t.Errorf("%s has no kind", code)
			continue
		}
		if other, dup := seen[def.Kind]; dup {
			t.Errorf("kind %s registered by both %s and %s", def.Kind, other, code)
		}
		seen[def.Kind] = code
	}
	if CodeFor(IllegalMathResult) != "OP-0004" {
		t.Errorf("CodeFor(IllegalMathResult) = %q", CodeFor(IllegalMathResult))
	}
}

func TestResolve(t *testing.T) {
	err := New("UNDEF-0001", "kPAa")

	if got := err.Resolve(DefaultResolver); got != "unknown unit 'kPAa'" {
		t.Errorf("DefaultResolver = %q", got)
	}

	german := func(code string, args ...any) (string, bool) {
		if code == "UNDEF-0001" {
			return fmt.Sprintf("unbekannte Einheit '%v'", args[0]), true
		}
		return "", false
	}
	if got := err.Resolve(german); got != "unbekannte Einheit 'kPAa'" {
		t.Errorf("custom resolver = %q", got)
	}

	silent := func(string, ...any) (string, bool) { return "", false }
	if got := err.Resolve(silent); got != "UNDEF-0001" {
		t.Errorf("unresolved message = %q, want the code", got)
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New("OP-0004"))
	if !IsKind(err, IllegalMathResult) {
		t.Error("IsKind should see through wrapping")
	}
	if IsKind(err, UnknownUnit) {
		t.Error("IsKind matched the wrong kind")
	}
	if IsKind(fmt.Errorf("plain"), IllegalMathResult) {
		t.Error("IsKind matched a foreign error")
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"kPa", "kPa", 0},
		{"kPAa", "kPa", 1},
		{"°C", "°F", 1},
		{"", "abc", 3},
	}
	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNewUnknownUnit_Suggestions(t *testing.T) {
	err := NewUnknownUnit("kPAa", []string{"kPa", "Pa", "atm", "bar"})
	if err.Kind != UnknownUnit {
		t.Fatalf("Kind = %v", err.Kind)
	}
	if len(err.Hints) != 1 || !strings.Contains(err.Hints[0], "`kPa`") {
		t.Errorf("Hints = %v, want a kPa suggestion", err.Hints)
	}

	err = NewUnknownUnit("zzzzzz", []string{"m", "s"})
	if len(err.Hints) != 0 {
		t.Errorf("Hints = %v, want none", err.Hints)
	}
}
