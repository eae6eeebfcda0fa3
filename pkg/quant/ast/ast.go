// Package ast defines the expression tree produced by the parser.
//
// A tree is a sequence of nodes; each node is a number, an operator, a unit
// reference, or a nested group. Parenthesized and curly-brace groups are
// distinct node types.
package ast

import (
	"strconv"
	"strings"

	"github.com/sambeau/quant/pkg/quant/catalog"
)

// Node represents any node in the expression tree
type Node interface {
	String() string
	node()
}

// Group is a parenthesized subexpression. The parser's root is also a Group.
type Group struct {
	Nodes []Node
}

func (g *Group) node() {}
func (g *Group) String() string {
	return "(" + join(g.Nodes) + ")"
}

// CurlyGroup is a unit-function application written in braces, e.g. {25°C}.
type CurlyGroup struct {
	Nodes []Node
}

func (c *CurlyGroup) node() {}
func (c *CurlyGroup) String() string {
	return "{" + join(c.Nodes) + "}"
}

// Number is a numeric literal
type Number struct {
	Value   float64
	Literal string // text as written, e.g. "1e-5"
}

func (n *Number) node() {}
func (n *Number) String() string {
	if n.Literal != "" {
		return n.Literal
	}
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// UnitRef is a resolved unit occurrence: prefix, catalog unit and power.
type UnitRef struct {
	Prefix catalog.Prefix
	Unit   *catalog.Unit
	Power  float64
	Token  string // text as written, e.g. "km2"
}

func (u *UnitRef) node() {}
func (u *UnitRef) String() string {
	s := u.Prefix.ID + u.Unit.ID
	if u.Power != 1 {
		s += "^" + strconv.FormatFloat(u.Power, 'g', -1, 64)
	}
	return s
}

// Operator is one of ^ * / + -
type Operator struct {
	Op byte
}

func (o *Operator) node() {}
func (o *Operator) String() string {
	return string(o.Op)
}

// IsOperator reports whether n is an operator node for op.
func IsOperator(n Node, op byte) bool {
	o, ok := n.(*Operator)
	return ok && o.Op == op
}

func join(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(n.String())
	}
	return sb.String()
}
