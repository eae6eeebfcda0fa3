package evaluator

import (
	"github.com/sambeau/quant/pkg/quant/ast"
	"github.com/sambeau/quant/pkg/quant/catalog"
	"github.com/sambeau/quant/pkg/quant/errors"
	"github.com/sambeau/quant/pkg/quant/quantity"
)

// evalCurly applies the unit function of a {...} group to its value, which
// defaults to 0. A target-side group names a function and carries no value.
//
// The body holds exactly one unit reference of power 1, joined by '*' to at
// most one number or one dimensionless parenthesized group.
func (ev *evaluation) evalCurly(c *ast.CurlyGroup, target bool) (quantity.Q, *catalog.Function, error) {
	var (
		ref    *ast.UnitRef
		values int
		x      float64
	)

	for _, node := range c.Nodes {
		switch n := node.(type) {
		case *ast.UnitRef:
			if ref != nil {
				return quantity.Q{}, nil, illegalCurly("only one unit is allowed in braces")
			}
			ref = n
		case *ast.Number:
			values++
			x = n.Value
		case *ast.Group:
			values++
			q, err := ev.reduceTree(n)
			if err != nil {
				return quantity.Q{}, nil, err
			}
			if !q.IsDimensionless() {
				return quantity.Q{}, nil, errors.New("CURLY-0002", quantity.Zero.Label(), q.Dims.Label())
			}
			x = q.Magnitude
		case *ast.CurlyGroup:
			return quantity.Q{}, nil, illegalCurly("braces cannot be nested")
		case *ast.Operator:
			if n.Op != '*' {
				return quantity.Q{}, nil, illegalCurly("operator '" + n.String() + "' is not allowed in braces")
			}
		}
	}

	switch {
	case ref == nil:
		return quantity.Q{}, nil, illegalCurly("braces need a unit")
	case ref.Power != 1:
		return quantity.Q{}, nil, illegalCurly("a unit in braces cannot have a power")
	case values > 1:
		return quantity.Q{}, nil, illegalCurly("braces take at most one value")
	case target && values > 0:
		return quantity.Q{}, nil, illegalCurly("a target in braces cannot have a value")
	}

	fn, ok := ev.engine.cat.Function(ref.Unit.FunctionID())
	if !ok {
		return quantity.Q{}, nil, errors.New("UNDEF-0002", ref.Unit.ID)
	}
	if !ref.Prefix.IsNone() {
		ev.diag.warn(errors.New("WARN-0004", ref.Prefix.ID, ref.Unit.ID))
	}
	return quantity.New(fn.Forward(x), fn.Dims), fn, nil
}

func illegalCurly(reason string) error {
	return errors.New("CURLY-0001", reason)
}
