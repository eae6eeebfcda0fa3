// Package parser builds expression trees from normalized text.
package parser

import (
	"github.com/sambeau/quant/pkg/quant/ast"
	"github.com/sambeau/quant/pkg/quant/catalog"
	"github.com/sambeau/quant/pkg/quant/errors"
	"github.com/sambeau/quant/pkg/quant/lexer"
)

// WarnFunc receives non-fatal diagnostics raised while parsing.
type WarnFunc func(*errors.QuantError)

// Parser resolves expressions against a catalog. A Parser holds no state
// between calls apart from its warning sink.
type Parser struct {
	cat  *catalog.Catalog
	warn WarnFunc
}

// New creates a parser. warn may be nil, in which case warnings are dropped.
func New(cat *catalog.Catalog, warn WarnFunc) *Parser {
	if warn == nil {
		warn = func(*errors.QuantError) {}
	}
	return &Parser{cat: cat, warn: warn}
}

// Parse builds the tree for text already passed through lexer.Normalize.
func (p *Parser) Parse(normalized string) (*ast.Group, error) {
	nodes, err := p.parseLevel(normalized)
	if err != nil {
		return nil, err
	}
	return &ast.Group{Nodes: nodes}, nil
}

// ParseString normalizes and parses text.
func (p *Parser) ParseString(text string) (*ast.Group, error) {
	normalized, err := lexer.Normalize(text)
	if err != nil {
		return nil, err
	}
	return p.Parse(normalized)
}

// parseLevel handles one nesting level: text outside the outermost brackets
// is classified here, bracket bodies are parsed recursively.
func (p *Parser) parseLevel(s string) ([]ast.Node, error) {
	var (
		nodes      []ast.Node
		stack      []byte
		start      int
		open       int
		afterClose bool
	)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '(', '{':
			if len(stack) == 0 {
				seg, err := p.classifySegment(s[start:i], !afterClose)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, seg...)
				open = i
			}
			stack = append(stack, c)

		case ')', '}':
			if len(stack) == 0 {
				return nil, errors.New("PARSE-0001", 1)
			}
			top := stack[len(stack)-1]
			if closerFor(top) != c {
				return nil, errors.New("PARSE-0006", string(top), string(c))
			}
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				continue
			}

			body := s[open+1 : i]
			if body == "" {
				return nil, errors.New("PARSE-0003")
			}
			children, err := p.parseLevel(body)
			if err != nil {
				return nil, err
			}
			if top == '{' {
				nodes = append(nodes, &ast.CurlyGroup{Nodes: children})
			} else {
				nodes = append(nodes, &ast.Group{Nodes: children})
			}
			start = i + 1
			afterClose = true
		}
	}

	if len(stack) > 0 {
		return nil, errors.New("PARSE-0006", string(stack[len(stack)-1]), "")
	}

	seg, err := p.classifySegment(s[start:], !afterClose)
	if err != nil {
		return nil, err
	}
	return append(nodes, seg...), nil
}

func closerFor(open byte) byte {
	if open == '{' {
		return '}'
	}
	return ')'
}
