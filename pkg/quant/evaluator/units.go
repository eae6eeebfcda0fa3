package evaluator

import (
	"github.com/sambeau/quant/pkg/quant/catalog"
	"github.com/sambeau/quant/pkg/quant/errors"
)

// UnitsLike returns the catalog units with the same dimensions as filter,
// in catalog order. An empty filter matches every unit. Units that only
// work inside braces match through their function's dimensions.
func (e *Engine) UnitsLike(filter string) ([]*catalog.Unit, error) {
	units := e.cat.Units()
	if filter == "" {
		return units, nil
	}

	q, err := e.newEvaluation().evaluate(filter)
	if err != nil {
		return nil, err
	}

	var out []*catalog.Unit
	for _, u := range units {
		dims := u.Dims
		if u.FunctionOnly {
			fn, ok := e.cat.Function(u.FunctionID())
			if !ok {
				continue
			}
			dims = fn.Dims
		}
		if dims.Equal(q.Dims) {
			out = append(out, u)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("UNDEF-0003", q.Dims.Label())
	}
	return out, nil
}
