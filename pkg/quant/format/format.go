// Package format renders conversion results for people: locale-aware
// numbers, and Markdown/HTML transcripts of macro runs.
package format

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/sambeau/quant/pkg/quant/errors"
)

// Notation selects how numbers are written.
type Notation string

const (
	NotationAuto        Notation = "auto"  // decimal, scientific for very large or small values
	NotationFixed       Notation = "fixed" // Digits decimal places
	NotationScientific  Notation = "sci"
	NotationEngineering Notation = "eng"
)

const maxDigits = 17

// Params are the number formatting options. As JSON:
//
//	{"digits": 4, "locale": "de", "notation": "fixed"}
type Params struct {
	Digits   int      `json:"digits" yaml:"digits"` // significant digits, or decimal places for fixed
	Locale   string   `json:"locale" yaml:"locale"`
	Notation Notation `json:"notation" yaml:"notation"`
}

// DefaultParams returns six significant digits, English, auto notation.
func DefaultParams() Params {
	return Params{Digits: 6, Locale: "en", Notation: NotationAuto}
}

// Validate checks the params, returning the first problem found.
func (p Params) Validate() error {
	if p.Digits < 0 || p.Digits > maxDigits {
		return errors.New("WARN-0006", "digits "+strconv.Itoa(p.Digits))
	}
	switch p.Notation {
	case "", NotationAuto, NotationFixed, NotationScientific, NotationEngineering:
	default:
		return errors.New("WARN-0006", "notation "+string(p.Notation))
	}
	if p.Locale != "" {
		if _, err := language.Parse(p.Locale); err != nil {
			return errors.New("WARN-0006", "locale "+p.Locale)
		}
	}
	return nil
}

// ParseParams reads JSON params over base. An empty string yields base; a
// malformed or invalid one yields base and a MalformedFormatParams warning.
func ParseParams(s string, base Params) (Params, *errors.QuantError) {
	s = strings.TrimSpace(s)
	if s == "" {
		return base, nil
	}
	p := base
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return base, errors.New("WARN-0006", s)
	}
	if err := p.Validate(); err != nil {
		return base, errors.New("WARN-0006", s)
	}
	return p, nil
}

// Number formats v.
func (p Params) Number(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	tag := language.English
	if p.Locale != "" {
		if t, err := language.Parse(p.Locale); err == nil {
			tag = t
		}
	}
	digits := p.Digits
	if digits <= 0 {
		digits = DefaultParams().Digits
	}
	printer := message.NewPrinter(tag)

	switch p.Notation {
	case NotationFixed:
		return printer.Sprintf("%v", number.Decimal(v, number.Scale(digits)))
	case NotationScientific:
		return printer.Sprintf("%v", number.Scientific(v, number.Precision(digits)))
	case NotationEngineering:
		return printer.Sprintf("%v", number.Engineering(v, number.Precision(digits)))
	}

	if abs := math.Abs(v); abs != 0 && (abs >= 1e9 || abs < 1e-4) {
		return printer.Sprintf("%v", number.Scientific(v, number.Precision(digits)))
	}
	return printer.Sprintf("%v", significant(v, digits))
}

// significant rounds v to digits significant digits as a localizable
// decimal. The locale pattern alone keeps at most three fraction digits.
func significant(v float64, digits int) number.Formatter {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', digits, 64), 64)
	if err != nil || r == 0 {
		return number.Decimal(r, number.MaxFractionDigits(0))
	}
	frac := digits - 1 - int(math.Floor(math.Log10(math.Abs(r))))
	if frac < 0 {
		frac = 0
	}
	return number.Decimal(r, number.MinFractionDigits(0), number.MaxFractionDigits(frac))
}

// Quantity formats a value with its unit label, e.g. "337.508 torr".
func (p Params) Quantity(v float64, label string) string {
	s := p.Number(v)
	if label != "" {
		s += " " + label
	}
	return s
}
