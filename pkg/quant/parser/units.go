package parser

import (
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/sambeau/quant/pkg/quant/ast"
	"github.com/sambeau/quant/pkg/quant/catalog"
	"github.com/sambeau/quant/pkg/quant/errors"
	"github.com/sambeau/quant/pkg/quant/lexer"
)

// classifySegment turns a bracket-free segment into nodes.
func (p *Parser) classifySegment(segment string, allowLeadingSign bool) ([]ast.Node, error) {
	parts := lexer.Split(segment, allowLeadingSign)

	var nodes []ast.Node
	for i, part := range parts {
		if len(part) == 1 && lexer.IsOperator(part[0]) {
			// A bare leading sign before a unit or a group: -m, -(2)
			if i == 0 && allowLeadingSign && (part == "-" || part == "+") {
				sign := 1.0
				if part == "-" {
					sign = -1
				}
				nodes = append(nodes, &ast.Number{Value: sign, Literal: part + "1"}, &ast.Operator{Op: '*'})
				continue
			}
			nodes = append(nodes, &ast.Operator{Op: part[0]})
			continue
		}

		classified, err := p.classify(part)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, classified...)
	}
	return nodes, nil
}

// classify reads one operand: a number, a unit reference, or a number glued
// to a unit reference ("2kPa"), which is an implicit product.
func (p *Parser) classify(token string) ([]ast.Node, error) {
	n := lexer.NumberPrefix(token)
	if n == 0 {
		ref, err := p.resolveRef(token)
		if err != nil {
			return nil, err
		}
		return []ast.Node{ref}, nil
	}

	literal, rest := token[:n], token[n:]
	value, err := strconv.ParseFloat(literal, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return nil, errors.New("FMT-0001", token)
	}
	num := &ast.Number{Value: value, Literal: literal}
	if rest == "" {
		return []ast.Node{num}, nil
	}
	if c := rest[0]; (c >= '0' && c <= '9') || c == '.' {
		return nil, errors.New("FMT-0001", token)
	}

	ref, err := p.resolveRef(rest)
	if err != nil {
		return nil, err
	}
	return []ast.Node{num, &ast.Operator{Op: '*'}, ref}, nil
}

// resolveRef reads a unit token with an optional trailing power ("km2").
func (p *Parser) resolveRef(token string) (*ast.UnitRef, error) {
	name, power := token, 1.0
	if _, exact := p.cat.Unit(token); !exact {
		if i := powerSuffix(token); i > 0 {
			pw, err := strconv.ParseFloat(token[i:], 64)
			if err != nil || math.IsInf(pw, 0) {
				return nil, errors.New("FMT-0002", token[i:], token[:i])
			}
			name, power = token[:i], pw
		}
	}

	prefix, unit, err := p.lookup(name, token)
	if err != nil {
		return nil, err
	}

	if !prefix.IsNone() && !unit.Prefixes.Allows(prefix) {
		p.warn(errors.New("WARN-0001", prefix.ID, unit.ID, unit.Prefixes.String()))
	}
	return &ast.UnitRef{Prefix: prefix, Unit: unit, Power: power, Token: token}, nil
}

// lookup resolves a unit symbol: exactly, then as prefix + unit, then both
// again ignoring case. Case-insensitive matches are reported as warnings.
func (p *Parser) lookup(name, token string) (catalog.Prefix, *catalog.Unit, error) {
	if u, ok := p.cat.Unit(name); ok {
		return catalog.NoPrefix, u, nil
	}
	pre, rest := splitPrefix(name)
	if rest != "" {
		if prefix, ok := p.cat.Prefix(pre); ok {
			if u, ok := p.cat.Unit(rest); ok {
				return prefix, u, nil
			}
		}
	}

	if u, ok := p.cat.UnitFold(name); ok {
		p.warn(errors.New("WARN-0007", name, u.ID))
		return catalog.NoPrefix, u, nil
	}
	if rest != "" {
		if prefix, ok := p.cat.PrefixFold(pre); ok {
			if u, ok := p.cat.UnitFold(rest); ok {
				p.warn(errors.New("WARN-0007", name, prefix.ID+u.ID))
				return prefix, u, nil
			}
		}
	}

	return catalog.NoPrefix, nil, errors.NewUnknownUnit(token, p.cat.Symbols())
}

// splitPrefix splits off the first character as a candidate prefix.
func splitPrefix(name string) (string, string) {
	_, size := utf8.DecodeRuneInString(name)
	return name[:size], name[size:]
}

// powerSuffix returns the index where a trailing run of digits and dots
// starts, or -1 if the token has none or is nothing but.
func powerSuffix(token string) int {
	i := len(token)
	for i > 0 {
		c := token[i-1]
		if (c < '0' || c > '9') && c != '.' {
			break
		}
		i--
	}
	if i == len(token) || i == 0 {
		return -1
	}
	return i
}
