package evaluator

import (
	"github.com/sambeau/quant/pkg/quant/ast"
	"github.com/sambeau/quant/pkg/quant/errors"
	"github.com/sambeau/quant/pkg/quant/quantity"
)

type termKind int

const (
	termQuantity termKind = iota
	termOperator
	termGroup
)

// term is one element of a quantity tree: a Q, an operator, or a nested
// parenthesized group still to be reduced.
type term struct {
	kind  termKind
	q     quantity.Q
	op    byte
	group []term
	token string // source text, for error messages
}

// rationalize replaces numbers and unit references with quantities and
// evaluates curly groups. Parenthesized groups stay nested.
func (ev *evaluation) rationalize(nodes []ast.Node) ([]term, error) {
	terms := make([]term, 0, len(nodes))
	for _, node := range nodes {
		switch n := node.(type) {
		case *ast.CurlyGroup:
			q, _, err := ev.evalCurly(n, false)
			if err != nil {
				return nil, err
			}
			terms = append(terms, term{kind: termQuantity, q: q, token: n.String()})

		case *ast.Group:
			inner, err := ev.rationalize(n.Nodes)
			if err != nil {
				return nil, err
			}
			terms = append(terms, term{kind: termGroup, group: inner, token: n.String()})

		case *ast.Number:
			terms = append(terms, term{kind: termQuantity, q: quantity.Scalar(n.Value), token: n.String()})

		case *ast.UnitRef:
			q, err := unitQuantity(n)
			if err != nil {
				return nil, err
			}
			terms = append(terms, term{kind: termQuantity, q: q, token: n.Token})

		case *ast.Operator:
			terms = append(terms, term{kind: termOperator, op: n.Op, token: n.String()})
		}
	}
	return terms, nil
}

// unitQuantity is (prefix × scale, dims) raised to the reference's power.
func unitQuantity(ref *ast.UnitRef) (quantity.Q, error) {
	if ref.Unit.FunctionOnly {
		return quantity.Q{}, errors.New("CURLY-0001", "'"+ref.Unit.ID+"' can only be used inside braces")
	}
	base := quantity.New(ref.Prefix.Multiplier()*ref.Unit.Scale, ref.Unit.Dims)
	if ref.Power == 1 {
		return base, nil
	}
	return quantity.Power(base, quantity.Scalar(ref.Power))
}
