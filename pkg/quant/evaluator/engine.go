// Package evaluator reduces parsed expressions to quantities and converts
// between them.
//
// An Engine holds only read-only state: the catalog, a message resolver and a
// logger. Every call builds its own evaluation with its own warning list, so
// one Engine may serve concurrent callers.
package evaluator

import (
	"fmt"

	"github.com/sambeau/quant/pkg/quant/ast"
	"github.com/sambeau/quant/pkg/quant/catalog"
	"github.com/sambeau/quant/pkg/quant/errors"
	"github.com/sambeau/quant/pkg/quant/lexer"
	"github.com/sambeau/quant/pkg/quant/parser"
	"github.com/sambeau/quant/pkg/quant/quantity"
)

// Logger interface for write() output and pipeline tracing
type Logger interface {
	Log(values ...interface{})
	LogLine(values ...interface{})
}

// defaultStdoutLogger is the default logger that writes to stdout
type defaultStdoutLogger struct{}

func (l *defaultStdoutLogger) Log(values ...interface{}) {
	for i, v := range values {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Print(v)
	}
}

func (l *defaultStdoutLogger) LogLine(values ...interface{}) {
	l.Log(values...)
	fmt.Println()
}

// DefaultLogger is the default stdout logger
var DefaultLogger Logger = &defaultStdoutLogger{}

// Engine converts quantity expressions.
type Engine struct {
	cat      *catalog.Catalog
	resolver errors.Resolver
	logger   Logger
	trace    bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithResolver sets the message resolver used by FullConversion.
func WithResolver(r errors.Resolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// WithLogger sets the logger used for tracing.
func WithLogger(l Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithTrace logs every normalized expression and parse tree.
func WithTrace(on bool) Option {
	return func(e *Engine) { e.trace = on }
}

// New creates an engine over cat. A nil catalog means catalog.Default().
func New(cat *catalog.Catalog, opts ...Option) *Engine {
	if cat == nil {
		cat = catalog.Default()
	}
	e := &Engine{
		cat:      cat,
		resolver: errors.DefaultResolver,
		logger:   DefaultLogger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

// Logger returns the engine's logger.
func (e *Engine) Logger() Logger {
	return e.logger
}

// Message resolves a diagnostic to display text.
func (e *Engine) Message(qe *errors.QuantError) string {
	return qe.Resolve(e.resolver)
}

// diagnostics accumulates the warnings of one call.
type diagnostics struct {
	warnings []*errors.QuantError
}

func (d *diagnostics) warn(w *errors.QuantError) {
	d.warnings = append(d.warnings, w)
}

// evaluation is the state of a single top-level call.
type evaluation struct {
	engine *Engine
	diag   *diagnostics
	parser *parser.Parser
}

func (e *Engine) newEvaluation() *evaluation {
	diag := &diagnostics{}
	return &evaluation{
		engine: e,
		diag:   diag,
		parser: parser.New(e.cat, diag.warn),
	}
}

func (ev *evaluation) parse(text string) (*ast.Group, error) {
	normalized, err := lexer.Normalize(text)
	if err != nil {
		return nil, err
	}
	tree, err := ev.parser.Parse(normalized)
	if err != nil {
		return nil, err
	}
	if ev.engine.trace {
		ev.engine.logger.LogLine(fmt.Sprintf("%q -> %s", text, tree))
	}
	return tree, nil
}

// evaluate runs the whole pipeline on one expression.
func (ev *evaluation) evaluate(text string) (quantity.Q, error) {
	tree, err := ev.parse(text)
	if err != nil {
		return quantity.Q{}, err
	}
	return ev.reduceTree(tree)
}

func (ev *evaluation) reduceTree(tree *ast.Group) (quantity.Q, error) {
	terms, err := ev.rationalize(tree.Nodes)
	if err != nil {
		return quantity.Q{}, err
	}
	return reduce(terms)
}
