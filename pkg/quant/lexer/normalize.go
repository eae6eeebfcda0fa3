package lexer

import (
	"regexp"
	"strings"

	"github.com/sambeau/quant/pkg/quant/errors"
)

var (
	// Decimal commas and the multiplication signs people paste in.
	symbolReplacer = strings.NewReplacer(
		",", ".",
		"·", "*",
		"⋅", "*",
		"×", "*",
	)

	bracketPadder = strings.NewReplacer(
		"(", " ( ",
		")", " ) ",
		"{", " { ",
		"}", " } ",
	)

	spaceAroundOperator = regexp.MustCompile(`\s*([\^*/+\-])\s*`)
	spaceAfterOpen      = regexp.MustCompile(`([({])\s+`)
	spaceBeforeClose    = regexp.MustCompile(`\s+([)}])`)
	operatorRun         = regexp.MustCompile(`[\^*/+\-]{2,}`)
)

// Normalize rewrites raw expression text into the canonical form the parser
// reads: no whitespace, explicit multiplication, balanced parentheses.
//
// Missing closing parentheses are appended; an excess of closing ones is an
// error. Curly braces must balance exactly.
func Normalize(text string) (string, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return "1", nil
	}
	s = symbolReplacer.Replace(s)

	if i := strings.IndexAny(s, Reserved); i >= 0 {
		return "", errors.New("PARSE-0004", string(s[i]))
	}

	open, close := strings.Count(s, "("), strings.Count(s, ")")
	if close > open {
		return "", errors.New("PARSE-0001", close-open)
	}
	s += strings.Repeat(")", open-close)

	if open, close := strings.Count(s, "{"), strings.Count(s, "}"); open != close {
		return "", errors.New("PARSE-0005", open, close)
	}

	s = bracketPadder.Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	s = spaceAroundOperator.ReplaceAllString(s, "$1")
	s = spaceAfterOpen.ReplaceAllString(s, "$1")
	s = spaceBeforeClose.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, " ", "*")

	if run := operatorRun.FindString(s); run != "" {
		return "", errors.New("PARSE-0002", run)
	}
	return s, nil
}
