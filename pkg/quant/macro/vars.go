package macro

import (
	"regexp"
	"strings"

	"github.com/sambeau/quant/pkg/quant/quantity"
)

var (
	identifierRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	wordRE       = regexp.MustCompile(`[\p{L}_][\p{L}\p{N}_]*`)
	exponentRE   = regexp.MustCompile(`^[eE][0-9]*$`)
)

// IsIdentifier reports whether name is a valid variable name.
func IsIdentifier(name string) bool {
	return identifierRE.MatchString(name)
}

// expand replaces every whole-word occurrence of a variable with its value
// as a parenthesized SI expression: with x = 2 km, "x/h" becomes
// "(2000*m)/h" and "3x" becomes "3*(2000*m)". Words start with a letter, so
// "xy" never expands "x" and "x2" is its own word. Substituted text is not
// expanded again.
func expand(expr string, vars map[string]quantity.Q) string {
	if len(vars) == 0 {
		return expr
	}

	var b strings.Builder
	last := 0
	for _, loc := range wordRE.FindAllStringIndex(expr, -1) {
		start, end := loc[0], loc[1]
		word := expr[start:end]
		q, ok := vars[word]
		if !ok || isExponent(expr, start, end) {
			continue
		}
		b.WriteString(expr[last:start])
		if start > 0 && gluesToNumber(expr[start-1]) {
			b.WriteByte('*')
		}
		b.WriteString(q.Expression())
		last = end
	}
	b.WriteString(expr[last:])
	return b.String()
}

func gluesToNumber(c byte) bool {
	return c >= '0' && c <= '9' || c == '.'
}

// isExponent reports whether expr[start:end] is the exponent marker of a
// number such as 2e3 or 1.5e-4.
func isExponent(expr string, start, end int) bool {
	if start == 0 || !gluesToNumber(expr[start-1]) || !exponentRE.MatchString(expr[start:end]) {
		return false
	}
	if end-start > 1 {
		return true
	}
	rest := expr[end:]
	if len(rest) > 0 && (rest[0] == '+' || rest[0] == '-') {
		rest = rest[1:]
	}
	return len(rest) > 0 && rest[0] >= '0' && rest[0] <= '9'
}
