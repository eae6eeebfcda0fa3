// Package lexer turns expression text into flat token strings.
//
// Normalize canonicalizes a whole expression; Split breaks one bracket-free
// segment of it into operands and operators.
package lexer

import (
	"regexp"
	"strings"
)

// Operators are the binary operator characters, highest precedence first.
const Operators = "^*/+-"

// Reserved characters are used internally to shield signs from the splitter
// and may not appear in input.
const Reserved = "#~"

const (
	plusSentinel  = '#'
	minusSentinel = '~'
)

var numberPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// IsOperator reports whether c is one of ^ * / + -.
func IsOperator(c byte) bool {
	return strings.IndexByte(Operators, c) >= 0
}

// NumberPrefix returns the length of the numeric literal at the start of s,
// including exponent notation and a sign, or 0 if s does not start with one.
func NumberPrefix(s string) int {
	loc := numberPrefix.FindStringIndex(s)
	if loc == nil {
		return 0
	}
	return loc[1]
}

// Split breaks a bracket-free segment into operands and single-character
// operators, in order. Signs inside exponent notation ("1e-5") never split.
// With allowLeadingSign, a sign at the very start that begins a number is
// kept with it ("-3" stays one token).
func Split(segment string, allowLeadingSign bool) []string {
	s := shield(segment, allowLeadingSign)

	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if !IsOperator(s[i]) {
			continue
		}
		if i > start {
			parts = append(parts, s[start:i])
		}
		parts = append(parts, s[i:i+1])
		start = i + 1
	}
	if start < len(s) {
		parts = append(parts, s[start:])
	}

	for i, p := range parts {
		parts[i] = unshield(p)
	}
	return parts
}

// shield replaces signs that belong to numbers with sentinels.
func shield(s string, allowLeadingSign bool) string {
	b := []byte(s)
	tokenStart := true
	for i := 0; i < len(b); i++ {
		if tokenStart {
			j := i
			if i == 0 && allowLeadingSign && isSign(b[0]) && len(b) > 1 && startsNumber(b[1]) {
				b[0] = sentinel(b[0])
				j = 1
			}
			if k := exponentSign(b, j); k > 0 {
				b[k] = sentinel(b[k])
			}
		}
		tokenStart = IsOperator(b[i])
	}
	return string(b)
}

// exponentSign returns the index of the sign in a literal like 2.5e-3 that
// starts at j, or -1.
func exponentSign(b []byte, j int) int {
	k, digits := j, 0
	for k < len(b) && isDigit(b[k]) {
		k++
		digits++
	}
	if k < len(b) && b[k] == '.' {
		k++
		for k < len(b) && isDigit(b[k]) {
			k++
			digits++
		}
	}
	if digits == 0 || k+2 >= len(b) {
		return -1
	}
	if (b[k] == 'e' || b[k] == 'E') && isSign(b[k+1]) && isDigit(b[k+2]) {
		return k + 1
	}
	return -1
}

func unshield(s string) string {
	if !strings.ContainsAny(s, Reserved) {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		switch c {
		case plusSentinel:
			b[i] = '+'
		case minusSentinel:
			b[i] = '-'
		}
	}
	return string(b)
}

func sentinel(sign byte) byte {
	if sign == '+' {
		return plusSentinel
	}
	return minusSentinel
}

func isSign(c byte) bool { return c == '+' || c == '-' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func startsNumber(c byte) bool { return isDigit(c) || c == '.' }
