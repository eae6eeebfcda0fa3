// Package errors provides structured error and warning types for the quant
// conversion engine.
//
// Every diagnostic carries a stable code, a semantic Kind and the positional
// arguments its message template needs. The engine never builds prose itself:
// messages are produced by a Resolver, which by default renders the English
// templates in Catalog.
package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// ErrorClass categorizes diagnostics for filtering and templating.
type ErrorClass string

const (
	ClassParse     ErrorClass = "parse"     // Malformed expression text
	ClassFormat    ErrorClass = "format"    // Unparseable numbers and powers
	ClassUndefined ErrorClass = "undefined" // Unknown units and unit functions
	ClassOperator  ErrorClass = "operator"  // Illegal operations on quantities
	ClassCurly     ErrorClass = "curly"     // Unit-function ({...}) misuse
	ClassMacro     ErrorClass = "macro"     // Macro script errors
	ClassArity     ErrorClass = "arity"     // Wrong argument count
	ClassWarning   ErrorClass = "warning"   // Non-fatal diagnostics
	ClassInfo      ErrorClass = "info"      // Informational messages
)

// Severity orders diagnostics. It doubles as the status of a conversion:
// 0 ok, 1 warnings were raised, 2 the call failed.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Kind is the semantic identity of a diagnostic, independent of its code.
type Kind string

const (
	UnbalancedParens          Kind = "UnbalancedParens"
	MultipleAdjacentOperators Kind = "MultipleAdjacentOperators"
	EmptyBrackets             Kind = "EmptyBrackets"
	NumberParseError          Kind = "NumberParseError"
	UnitPowerParseError       Kind = "UnitPowerParseError"
	UnknownUnit               Kind = "UnknownUnit"
	MisplacedOperator         Kind = "MisplacedOperator"
	NonDimensionlessExponent  Kind = "NonDimensionlessExponent"
	DimensionMismatchAddSub   Kind = "DimensionMismatchAddSub"
	ReservedCharacter         Kind = "ReservedCharacter"
	UnbalancedCurlyBraces     Kind = "UnbalancedCurlyBraces"
	MismatchedBracketKinds    Kind = "MismatchedBracketKinds"
	IllegalCurlyUsage         Kind = "IllegalCurlyUsage"
	UnknownUnitFunction       Kind = "UnknownUnitFunction"
	CurlyDimensionMismatch    Kind = "CurlyDimensionMismatch"
	IllegalMathResult         Kind = "IllegalMathResult"
	NoMatchingUnits           Kind = "NoMatchingUnits"

	UnreadableLine      Kind = "UnreadableLine"
	MultipleAssignment  Kind = "MultipleAssignment"
	InvalidVariableName Kind = "InvalidVariableName"
	WrongArity          Kind = "WrongArity"
	ScriptUnavailable   Kind = "ScriptUnavailable"
	ScriptFailed        Kind = "ScriptFailed"
	ScriptTooLong       Kind = "ScriptTooLong"

	PrefixPolicyViolation    Kind = "PrefixPolicyViolation"
	TargetDimensionMismatch  Kind = "TargetDimensionMismatch"
	UnexpectedNumberInTarget Kind = "UnexpectedNumberInTarget"
	CurlyPrefixIgnored       Kind = "CurlyPrefixIgnored"
	TooManySeparators        Kind = "TooManySeparators"
	MalformedFormatParams    Kind = "MalformedFormatParams"
	UnitCaseMismatch         Kind = "UnitCaseMismatch"

	MacroCompleted Kind = "MacroCompleted"
)

// QuantError represents any error, warning or informational message raised
// by the engine or the macro interpreter.
type QuantError struct {
	Class    ErrorClass     `json:"class"`
	Code     string         `json:"code"`
	Kind     Kind           `json:"kind"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Hints    []string       `json:"hints,omitempty"`
	Line     int            `json:"line,omitempty"` // 1-based macro line (0 if not from a script)
	Args     []any          `json:"args,omitempty"` // Positional template arguments
	Data     map[string]any `json:"data,omitempty"` // Args keyed by parameter name
}

// Error implements the error interface.
func (e *QuantError) Error() string {
	return e.String()
}

// String returns a formatted string representation of the diagnostic.
func (e *QuantError) String() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}
	return sb.String()
}

// PrettyString returns a multi-line formatted string for display.
func (e *QuantError) PrettyString() string {
	var sb strings.Builder

	switch e.Severity {
	case SeverityError:
		if e.Class == ClassParse {
			sb.WriteString("Parse error")
		} else {
			sb.WriteString("Error")
		}
	case SeverityWarning:
		sb.WriteString("Warning")
	default:
		sb.WriteString("Info")
	}
	if e.Code != "" {
		sb.WriteString(" [" + e.Code + "]")
	}
	sb.WriteString(":\n  ")
	sb.WriteString(e.Message)

	for i, hint := range e.Hints {
		sb.WriteString("\n  ")
		if i == 0 {
			sb.WriteString("Hint: ")
		} else {
			sb.WriteString("  or: ")
		}
		sb.WriteString(hint)
	}

	return sb.String()
}

// ToJSON returns the diagnostic as JSON bytes.
func (e *QuantError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithLine returns a copy of the diagnostic tagged with a macro line number.
func (e *QuantError) WithLine(line int) *QuantError {
	copy := *e
	copy.Line = line
	return &copy
}

// IsWarning reports whether the diagnostic is non-fatal.
func (e *QuantError) IsWarning() bool {
	return e.Severity == SeverityWarning
}

// Resolve renders the message through r. A resolver that has nothing for the
// code yields the bare code.
func (e *QuantError) Resolve(r Resolver) string {
	if r == nil || e.Code == "" {
		return e.Message
	}
	if msg, ok := r(e.Code, e.Args...); ok {
		return msg
	}
	return e.Code
}

// ErrorDef defines a diagnostic in the catalog.
type ErrorDef struct {
	Kind     Kind
	Class    ErrorClass
	Severity Severity
	Params   []string // Names given to positional arguments, in order
	Template string   // Message template with {{.placeholders}}
	Hints    []string // Hint templates (may use {{.placeholders}})
}

// Catalog maps diagnostic codes to their definitions.
var Catalog = map[string]ErrorDef{
	// ========================================
	// Parse errors (PARSE-0xxx)
	// ========================================
	"PARSE-0001": {
		Kind: UnbalancedParens, Class: ClassParse, Severity: SeverityError,
		Params:   []string{"Missing"},
		Template: "unbalanced parentheses: {{.Missing}} opening parenthesis(es) missing",
	},
	"PARSE-0002": {
		Kind: MultipleAdjacentOperators, Class: ClassParse, Severity: SeverityError,
		Params:   []string{"Operators"},
		Template: "multiple adjacent operators '{{.Operators}}'",
		Hints:    []string{"wrap negative values in parentheses, e.g. s^(-2)"},
	},
	"PARSE-0003": {
		Kind: EmptyBrackets, Class: ClassParse, Severity: SeverityError,
		Template: "empty brackets",
	},
	"PARSE-0004": {
		Kind: ReservedCharacter, Class: ClassParse, Severity: SeverityError,
		Params:   []string{"Char"},
		Template: "reserved character '{{.Char}}' is not allowed",
	},
	"PARSE-0005": {
		Kind: UnbalancedCurlyBraces, Class: ClassParse, Severity: SeverityError,
		Params:   []string{"Open", "Close"},
		Template: "unbalanced curly braces: {{.Open}} opening and {{.Close}} closing",
	},
	"PARSE-0006": {
		Kind: MismatchedBracketKinds, Class: ClassParse, Severity: SeverityError,
		Params:   []string{"Open", "Close"},
		Template: "bracket '{{.Open}}' is closed by '{{.Close}}'",
	},

	// ========================================
	// Format errors (FMT-0xxx)
	// ========================================
	"FMT-0001": {
		Kind: NumberParseError, Class: ClassFormat, Severity: SeverityError,
		Params:   []string{"Literal"},
		Template: "cannot parse number '{{.Literal}}'",
	},
	"FMT-0002": {
		Kind: UnitPowerParseError, Class: ClassFormat, Severity: SeverityError,
		Params:   []string{"Power", "Unit"},
		Template: "cannot parse power '{{.Power}}' of unit '{{.Unit}}'",
	},

	// ========================================
	// Undefined errors (UNDEF-0xxx)
	// ========================================
	"UNDEF-0001": {
		Kind: UnknownUnit, Class: ClassUndefined, Severity: SeverityError,
		Params:   []string{"Unit"},
		Template: "unknown unit '{{.Unit}}'",
	},
	"UNDEF-0002": {
		Kind: UnknownUnitFunction, Class: ClassUndefined, Severity: SeverityError,
		Params:   []string{"Unit"},
		Template: "no unit function is registered for '{{.Unit}}'",
	},
	"UNDEF-0003": {
		Kind: NoMatchingUnits, Class: ClassUndefined, Severity: SeverityError,
		Params:   []string{"Dimension"},
		Template: "no catalog unit has dimension '{{.Dimension}}'",
	},

	// ========================================
	// Operator errors (OP-0xxx)
	// ========================================
	"OP-0001": {
		Kind: MisplacedOperator, Class: ClassOperator, Severity: SeverityError,
		Params:   []string{"Token"},
		Template: "misplaced operator or operand '{{.Token}}'",
	},
	"OP-0002": {
		Kind: NonDimensionlessExponent, Class: ClassOperator, Severity: SeverityError,
		Params:   []string{"Dimension"},
		Template: "exponent must be dimensionless, got '{{.Dimension}}'",
	},
	"OP-0003": {
		Kind: DimensionMismatchAddSub, Class: ClassOperator, Severity: SeverityError,
		Params:   []string{"Left", "Right"},
		Template: "cannot add or subtract '{{.Left}}' and '{{.Right}}'",
	},
	"OP-0004": {
		Kind: IllegalMathResult, Class: ClassOperator, Severity: SeverityError,
		Template: "the result is not a finite number",
	},

	// ========================================
	// Curly brace errors (CURLY-0xxx)
	// ========================================
	"CURLY-0001": {
		Kind: IllegalCurlyUsage, Class: ClassCurly, Severity: SeverityError,
		Params:   []string{"Reason"},
		Template: "illegal use of a unit function: {{.Reason}}",
	},
	"CURLY-0002": {
		Kind: CurlyDimensionMismatch, Class: ClassCurly, Severity: SeverityError,
		Params:   []string{"Expected", "Got"},
		Template: "unit function expects dimension '{{.Expected}}', got '{{.Got}}'",
	},

	// ========================================
	// Macro errors (MACRO-0xxx, ARITY-0xxx)
	// ========================================
	"MACRO-0001": {
		Kind: UnreadableLine, Class: ClassMacro, Severity: SeverityError,
		Params:   []string{"Line", "Text"},
		Template: "line {{.Line}}: cannot read '{{.Text}}'",
	},
	"MACRO-0002": {
		Kind: MultipleAssignment, Class: ClassMacro, Severity: SeverityError,
		Params:   []string{"Line"},
		Template: "line {{.Line}}: only one '=' is allowed per assignment",
	},
	"MACRO-0003": {
		Kind: InvalidVariableName, Class: ClassMacro, Severity: SeverityError,
		Params:   []string{"Line", "Name"},
		Template: "line {{.Line}}: '{{.Name}}' is not a valid variable name",
		Hints:    []string{"names start with a letter or '_' and contain only letters, digits and '_'"},
	},
	"MACRO-0004": {
		Kind: ScriptUnavailable, Class: ClassMacro, Severity: SeverityError,
		Params:   []string{"Line"},
		Template: "line {{.Line}}: script blocks are not enabled",
	},
	"MACRO-0005": {
		Kind: ScriptFailed, Class: ClassMacro, Severity: SeverityError,
		Params:   []string{"Line", "Reason"},
		Template: "line {{.Line}}: script block failed: {{.Reason}}",
	},
	"MACRO-0006": {
		Kind: ScriptTooLong, Class: ClassMacro, Severity: SeverityError,
		Params:   []string{"Lines", "Max"},
		Template: "script has {{.Lines}} lines, the limit is {{.Max}}",
	},
	"ARITY-0001": {
		Kind: WrongArity, Class: ClassArity, Severity: SeverityError,
		Params:   []string{"Function", "Line", "Got", "Min", "Max"},
		Template: "line {{.Line}}: {{.Function}}() takes {{.Min}} to {{.Max}} argument(s), got {{.Got}}",
	},

	// ========================================
	// Warnings (WARN-0xxx)
	// ========================================
	"WARN-0001": {
		Kind: PrefixPolicyViolation, Class: ClassWarning, Severity: SeverityWarning,
		Params:   []string{"Prefix", "Unit", "Policy"},
		Template: "prefix '{{.Prefix}}' is unusual for unit '{{.Unit}}' ({{.Policy}})",
	},
	"WARN-0002": {
		Kind: TargetDimensionMismatch, Class: ClassWarning, Severity: SeverityWarning,
		Params:   []string{"Dimensions", "Correction"},
		Template: "target dimension differs from input; corrected {{.Dimensions}} by '{{.Correction}}'",
	},
	"WARN-0003": {
		Kind: UnexpectedNumberInTarget, Class: ClassWarning, Severity: SeverityWarning,
		Params:   []string{"Number"},
		Template: "unexpected number '{{.Number}}' in target",
	},
	"WARN-0004": {
		Kind: CurlyPrefixIgnored, Class: ClassWarning, Severity: SeverityWarning,
		Params:   []string{"Prefix", "Unit"},
		Template: "prefix '{{.Prefix}}' on unit function '{{.Unit}}' is ignored",
	},
	"WARN-0005": {
		Kind: TooManySeparators, Class: ClassWarning, Severity: SeverityWarning,
		Params:   []string{"Count"},
		Template: "{{.Count}} separators found, only the first one is used",
	},
	"WARN-0006": {
		Kind: MalformedFormatParams, Class: ClassWarning, Severity: SeverityWarning,
		Params:   []string{"Params"},
		Template: "format parameters '{{.Params}}' are malformed and were ignored",
	},
	"WARN-0007": {
		Kind: UnitCaseMismatch, Class: ClassWarning, Severity: SeverityWarning,
		Params:   []string{"Given", "Resolved"},
		Template: "'{{.Given}}' was read as '{{.Resolved}}'; check upper and lower case",
	},

	// ========================================
	// Informational (INFO-0xxx)
	// ========================================
	"INFO-0001": {
		Kind: MacroCompleted, Class: ClassInfo, Severity: SeverityInfo,
		Params:   []string{"Statements"},
		Template: "macro finished ({{.Statements}} statement(s))",
	},
}

// Resolver turns a diagnostic code and its positional arguments into a
// human-readable message. It reports false when it has no text for the code.
type Resolver func(code string, args ...any) (string, bool)

// DefaultResolver renders the English templates of Catalog.
func DefaultResolver(code string, args ...any) (string, bool) {
	def, ok := Catalog[code]
	if !ok {
		return "", false
	}
	return renderTemplate(def.Template, bindArgs(def.Params, args)), true
}

// New creates a diagnostic from the catalog with positional arguments.
func New(code string, args ...any) *QuantError {
	def, ok := Catalog[code]
	if !ok {
		// Unknown code - create a generic error
		return &QuantError{
			Class:    ClassOperator,
			Code:     code,
			Severity: SeverityError,
			Message:  code,
			Args:     args,
		}
	}

	data := bindArgs(def.Params, args)
	var hints []string
	for _, hintTmpl := range def.Hints {
		if rendered := renderTemplate(hintTmpl, data); rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &QuantError{
		Class:    def.Class,
		Code:     code,
		Kind:     def.Kind,
		Severity: def.Severity,
		Message:  renderTemplate(def.Template, data),
		Hints:    hints,
		Args:     args,
		Data:     data,
	}
}

// CodeFor returns the catalog code registered for a kind.
func CodeFor(kind Kind) string {
	for code, def := range Catalog {
		if def.Kind == kind {
			return code
		}
	}
	return ""
}

// IsKind reports whether err is a QuantError of the given kind.
func IsKind(err error, kind Kind) bool {
	var qe *QuantError
	if stderrors.As(err, &qe) {
		return qe.Kind == kind
	}
	return false
}

// As extracts a QuantError from err, wrapping foreign errors as a generic one.
func As(err error) *QuantError {
	if err == nil {
		return nil
	}
	var qe *QuantError
	if stderrors.As(err, &qe) {
		return qe
	}
	return &QuantError{Class: ClassOperator, Severity: SeverityError, Message: err.Error()}
}

func bindArgs(params []string, args []any) map[string]any {
	data := make(map[string]any, len(params))
	for i, name := range params {
		if i < len(args) {
			data[name] = args[i]
		} else {
			data[name] = ""
		}
	}
	return data
}

// renderTemplate renders a Go template with the given data.
func renderTemplate(tmplStr string, data map[string]any) string {
	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}

// ============================================================================
// Fuzzy Matching - "Did you mean?" suggestions
// ============================================================================

// levenshteinDistance computes the edit distance between two strings, rune-wise.
func levenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// FuzzyMatch represents a fuzzy match result with its distance.
type FuzzyMatch struct {
	Value    string
	Distance int
}

// threshold scales the accepted edit distance with the input length.
func threshold(input string) int {
	n := len([]rune(input))
	switch {
	case n >= 7:
		return 3
	case n >= 4:
		return 2
	default:
		return 1
	}
}

// FindTopMatches returns up to n candidates closest to input, best first.
// Unit symbols are case-sensitive, so comparison keeps case.
func FindTopMatches(input string, candidates []string, n int) []string {
	if input == "" || len(candidates) == 0 || n <= 0 {
		return nil
	}

	limit := threshold(input)
	var matches []FuzzyMatch
	for _, candidate := range candidates {
		dist := levenshteinDistance(input, candidate)
		if dist > 0 && dist <= limit {
			matches = append(matches, FuzzyMatch{Value: candidate, Distance: dist})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Value < matches[j].Value
	})

	var result []string
	for i := 0; i < len(matches) && i < n; i++ {
		result = append(result, matches[i].Value)
	}
	return result
}

// NewUnknownUnit creates an UnknownUnit error with "Did you mean?" hints.
func NewUnknownUnit(token string, known []string) *QuantError {
	err := New("UNDEF-0001", token)
	if suggestions := FindTopMatches(token, known, 3); len(suggestions) > 0 {
		quoted := make([]string, len(suggestions))
		for i, s := range suggestions {
			quoted[i] = fmt.Sprintf("`%s`", s)
		}
		err.Hints = append(err.Hints, "Did you mean "+strings.Join(quoted, " or ")+"?")
	}
	return err
}
