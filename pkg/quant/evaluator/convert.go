package evaluator

import (
	"math"
	"strings"

	"github.com/sambeau/quant/pkg/quant/ast"
	"github.com/sambeau/quant/pkg/quant/errors"
	"github.com/sambeau/quant/pkg/quant/quantity"
)

// QuerySeparator splits "input > target" queries.
const QuerySeparator = ">"

// Result is a successful conversion.
type Result struct {
	Value    float64
	Label    string     // unit of Value: the target text, or the SI rendering of the input
	Input    quantity.Q // the input in SI
	Warnings []*errors.QuantError
}

// Status summarizes a conversion for callers that only display messages.
type Status int

const (
	StatusOK Status = iota
	StatusWarn
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusWarn:
		return "warn"
	case StatusError:
		return "error"
	default:
		return "ok"
	}
}

// Report is the outcome of FullConversion. Result is nil when Status is
// StatusError, and Messages then holds the error alone.
type Report struct {
	Status   Status
	Messages []string
	Result   *Result
}

// Convert evaluates input and expresses it in units of target. An empty
// target yields the SI value.
//
// If the target's dimensions differ from the input's, the conversion still
// succeeds: the missing base units are appended to the label and a
// TargetDimensionMismatch warning lists them.
func (e *Engine) Convert(input, target string) (*Result, error) {
	ev := e.newEvaluation()

	in, err := ev.evaluate(input)
	if err != nil {
		return nil, err
	}

	target = strings.TrimSpace(target)
	if target == "" {
		if !in.IsFinite() {
			return nil, errors.New("OP-0004")
		}
		return &Result{
			Value:    in.Magnitude,
			Label:    in.Dims.String(),
			Input:    in,
			Warnings: ev.diag.warnings,
		}, nil
	}

	tree, err := ev.parse(target)
	if err != nil {
		return nil, err
	}
	if curly, ok := bareCurly(tree); ok {
		return ev.curlyTarget(in, curly)
	}

	ev.scanTarget(tree)
	out, err := ev.reduceTree(tree)
	if err != nil {
		return nil, err
	}

	ratio := in.Magnitude / out.Magnitude
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return nil, errors.New("OP-0004")
	}

	label := target
	if correction, dims := quantity.CheckDimension(in.Dims, out.Dims); len(dims) > 0 {
		label = target + "*" + correction.String()
		ev.diag.warn(errors.New("WARN-0002", strings.Join(dims, ", "), correction.String()))
	}

	return &Result{Value: ratio, Label: label, Input: in, Warnings: ev.diag.warnings}, nil
}

// curlyTarget inverts a unit function: "273.15 K" to "{°C}" is 0.
func (ev *evaluation) curlyTarget(in quantity.Q, curly *ast.CurlyGroup) (*Result, error) {
	_, fn, err := ev.evalCurly(curly, true)
	if err != nil {
		return nil, err
	}
	if !fn.Dims.Equal(in.Dims) {
		return nil, errors.New("CURLY-0002", fn.Dims.Label(), in.Dims.Label())
	}

	value := fn.Inverse(in.Magnitude)
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, errors.New("OP-0004")
	}
	return &Result{Value: value, Label: fn.ID, Input: in, Warnings: ev.diag.warnings}, nil
}

func bareCurly(tree *ast.Group) (*ast.CurlyGroup, bool) {
	if len(tree.Nodes) != 1 {
		return nil, false
	}
	c, ok := tree.Nodes[0].(*ast.CurlyGroup)
	return c, ok
}

// scanTarget warns about numbers other than 1 at the top level of a target,
// exponents excepted: "1/s" and "m^2" are fine, "2m" probably is not.
func (ev *evaluation) scanTarget(tree *ast.Group) {
	for i, node := range tree.Nodes {
		n, ok := node.(*ast.Number)
		if !ok || n.Value == 1 {
			continue
		}
		if i > 0 && ast.IsOperator(tree.Nodes[i-1], '^') {
			continue
		}
		ev.diag.warn(errors.New("WARN-0003", n.String()))
	}
}

// FullConversion wraps Convert for display. It never fails: errors become
// the single message of a StatusError report.
func (e *Engine) FullConversion(input, target string) *Report {
	res, err := e.Convert(input, target)
	return e.report(res, err, nil)
}

// FullQuery is FullConversion for an "input > target" query.
func (e *Engine) FullQuery(query string) *Report {
	input, target, warning := SplitQuery(query)
	res, err := e.Convert(input, target)
	return e.report(res, err, warning)
}

func (e *Engine) report(res *Result, err error, extra *errors.QuantError) *Report {
	if err != nil {
		return &Report{
			Status:   StatusError,
			Messages: []string{e.Message(errors.As(err))},
		}
	}

	if extra != nil {
		res.Warnings = append([]*errors.QuantError{extra}, res.Warnings...)
	}
	rep := &Report{Status: StatusOK, Result: res}
	for _, w := range res.Warnings {
		rep.Messages = append(rep.Messages, e.Message(w))
		rep.Status = StatusWarn
	}
	return rep
}

// ParseToQuantity evaluates text to its SI quantity, reporting false for
// anything that does not evaluate cleanly to a finite value.
func (e *Engine) ParseToQuantity(text string) (quantity.Q, bool) {
	q, err := e.newEvaluation().evaluate(text)
	if err != nil || !q.IsFinite() {
		return quantity.Q{}, false
	}
	return q, true
}

// SplitQuery splits "45 kPa > torr" into input and target. With more than
// one separator, only the first two parts are used and a TooManySeparators
// warning is returned.
func SplitQuery(query string) (input, target string, warning *errors.QuantError) {
	parts := strings.Split(query, QuerySeparator)
	if len(parts) > 2 {
		warning = errors.New("WARN-0005", len(parts)-1)
	}
	input = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		target = strings.TrimSpace(parts[1])
	}
	return input, target, warning
}
