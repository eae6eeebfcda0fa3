package evaluator

import (
	"github.com/sambeau/quant/pkg/quant/errors"
	"github.com/sambeau/quant/pkg/quant/quantity"
)

// Operator precedences; all operators are left-associative.
const (
	_ int = iota
	LOWEST
	SUM     // + -
	PRODUCT // * /
	POWER   // ^
)

var precedences = map[byte]int{
	'+': SUM,
	'-': SUM,
	'*': PRODUCT,
	'/': PRODUCT,
	'^': POWER,
}

// reducer folds one level of a quantity tree by precedence climbing.
type reducer struct {
	terms []term
	pos   int
}

// reduce evaluates a quantity tree to a single Q.
func reduce(terms []term) (quantity.Q, error) {
	r := &reducer{terms: terms}
	q, err := r.expression(LOWEST)
	if err != nil {
		return quantity.Q{}, err
	}
	if r.pos < len(r.terms) {
		return quantity.Q{}, misplaced(r.terms[r.pos])
	}
	return q, nil
}

func (r *reducer) expression(minPrecedence int) (quantity.Q, error) {
	lhs, err := r.operand()
	if err != nil {
		return quantity.Q{}, err
	}

	for r.pos < len(r.terms) {
		t := r.terms[r.pos]
		if t.kind != termOperator {
			return quantity.Q{}, misplaced(t)
		}
		prec := precedences[t.op]
		if prec < minPrecedence {
			break
		}
		r.pos++

		rhs, err := r.expression(prec + 1)
		if err != nil {
			return quantity.Q{}, err
		}
		lhs, err = quantity.Apply(t.op, lhs, rhs)
		if err != nil {
			return quantity.Q{}, err
		}
	}
	return lhs, nil
}

// operand reads the next quantity, reducing a nested group first.
func (r *reducer) operand() (quantity.Q, error) {
	if r.pos >= len(r.terms) {
		// Dangling operator at the end of the level.
		if r.pos > 0 {
			return quantity.Q{}, misplaced(r.terms[r.pos-1])
		}
		return quantity.Q{}, errors.New("OP-0001", "")
	}

	t := r.terms[r.pos]
	r.pos++
	switch t.kind {
	case termQuantity:
		return t.q, nil
	case termGroup:
		return reduce(t.group)
	}
	return quantity.Q{}, misplaced(t)
}

func misplaced(t term) error {
	return errors.New("OP-0001", t.token)
}
