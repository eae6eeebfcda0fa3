// Package catalog holds the units, prefixes and unit functions the engine
// resolves expressions against.
//
// A Catalog is filled once (from the built-in tables and optional YAML
// files) and then only read. Lookups go through hash maps built as entries
// are added: one keyed by the exact symbol and one keyed by its case fold.
package catalog

import (
	"fmt"
	"math"
	"sort"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/sambeau/quant/pkg/quant/quantity"
)

// PrefixPolicy says which metric prefixes are customary for a unit.
type PrefixPolicy int

const (
	PrefixAll        PrefixPolicy = iota // any prefix
	PrefixIncreasing                     // only multiplying prefixes (k, M, ...)
	PrefixDecreasing                     // only dividing prefixes (m, µ, ...)
	PrefixNone                           // no prefixes
)

func (p PrefixPolicy) String() string {
	switch p {
	case PrefixIncreasing:
		return "increasing prefixes only"
	case PrefixDecreasing:
		return "decreasing prefixes only"
	case PrefixNone:
		return "no prefixes"
	default:
		return "all prefixes"
	}
}

// ParsePrefixPolicy reads the policy names used in catalog files.
func ParsePrefixPolicy(s string) (PrefixPolicy, error) {
	switch s {
	case "", "all":
		return PrefixAll, nil
	case "increasing":
		return PrefixIncreasing, nil
	case "decreasing":
		return PrefixDecreasing, nil
	case "none":
		return PrefixNone, nil
	}
	return PrefixAll, fmt.Errorf("unknown prefix policy %q (want all, increasing, decreasing or none)", s)
}

// Allows reports whether the prefix is customary under the policy.
func (p PrefixPolicy) Allows(pre Prefix) bool {
	switch p {
	case PrefixIncreasing:
		return pre.Exponent > 0
	case PrefixDecreasing:
		return pre.Exponent < 0
	case PrefixNone:
		return false
	default:
		return true
	}
}

// Prefix is a power-of-ten multiplier written before a unit symbol.
type Prefix struct {
	ID       string
	Aliases  []string
	Name     string
	Exponent int
}

// NoPrefix is the multiplier-one sentinel for unprefixed units.
var NoPrefix = Prefix{}

// IsNone reports whether p is the NoPrefix sentinel.
func (p Prefix) IsNone() bool {
	return p.ID == ""
}

// Multiplier returns 10^Exponent.
func (p Prefix) Multiplier() float64 {
	return math.Pow10(p.Exponent)
}

// Unit is a catalog entry for a (linear) unit.
type Unit struct {
	ID           string
	Aliases      []string
	Name         string
	Scale        float64 // SI magnitude of one unit
	Dims         quantity.Vector
	Basic        bool // SI base or coherent derived unit
	Prefixes     PrefixPolicy
	FunctionOnly bool   // may only appear inside {...}
	Function     string // id of the unit function applied in {...}
}

// Quantity returns the SI quantity of one unit.
func (u *Unit) Quantity() quantity.Q {
	return quantity.New(u.Scale, u.Dims)
}

// FunctionID returns the unit function id, defaulting to the unit id.
func (u *Unit) FunctionID() string {
	if u.Function != "" {
		return u.Function
	}
	return u.ID
}

// Function is a nonlinear forward/inverse pair, applied with curly braces.
type Function struct {
	ID      string
	Name    string
	Dims    quantity.Vector
	Forward func(x float64) float64 // catalog value to SI magnitude
	Inverse func(si float64) float64
}

// Catalog indexes units, prefixes and unit functions.
// It is safe for concurrent reads once populated.
type Catalog struct {
	units     []*Unit
	prefixes  []*Prefix
	functions map[string]*Function

	exact        map[string]*Unit
	folded       map[string]*Unit
	prefixExact  map[string]*Prefix
	prefixFolded map[string]*Prefix
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		functions:    make(map[string]*Function),
		exact:        make(map[string]*Unit),
		folded:       make(map[string]*Unit),
		prefixExact:  make(map[string]*Prefix),
		prefixFolded: make(map[string]*Prefix),
	}
}

// Fold returns the case-folded form used for case-insensitive lookups.
func Fold(s string) string {
	// A Caser is stateful, so each call gets its own.
	return cases.Fold().String(s)
}

// AddUnit registers a unit under its id and aliases.
// Symbols already present are an error; a clash of folded forms is not,
// the first registration keeps the folded key.
func (c *Catalog) AddUnit(u Unit) error {
	if u.ID == "" {
		return fmt.Errorf("unit has no id")
	}
	if u.Scale == 0 || math.IsNaN(u.Scale) || math.IsInf(u.Scale, 0) {
		return fmt.Errorf("unit %q: scale must be a finite non-zero number", u.ID)
	}
	symbols := append([]string{u.ID}, u.Aliases...)
	for _, s := range symbols {
		if _, dup := c.exact[s]; dup {
			return fmt.Errorf("unit %q: symbol %q is already defined", u.ID, s)
		}
	}

	unit := &u
	c.units = append(c.units, unit)
	for _, s := range symbols {
		c.exact[s] = unit
		if key := Fold(s); c.folded[key] == nil {
			c.folded[key] = unit
		}
	}
	return nil
}

// AddPrefix registers a single-character prefix under its id and aliases.
func (c *Catalog) AddPrefix(p Prefix) error {
	symbols := append([]string{p.ID}, p.Aliases...)
	for _, s := range symbols {
		if utf8.RuneCountInString(s) != 1 {
			return fmt.Errorf("prefix %q: symbols must be exactly one character", s)
		}
		if _, dup := c.prefixExact[s]; dup {
			return fmt.Errorf("prefix %q is already defined", s)
		}
	}

	prefix := &p
	c.prefixes = append(c.prefixes, prefix)
	for _, s := range symbols {
		c.prefixExact[s] = prefix
		if key := Fold(s); c.prefixFolded[key] == nil {
			c.prefixFolded[key] = prefix
		}
	}
	return nil
}

// AddFunction registers a unit function.
func (c *Catalog) AddFunction(f Function) error {
	if f.ID == "" || f.Forward == nil || f.Inverse == nil {
		return fmt.Errorf("unit function %q needs an id, a forward and an inverse", f.ID)
	}
	if _, dup := c.functions[f.ID]; dup {
		return fmt.Errorf("unit function %q is already defined", f.ID)
	}
	fn := f
	c.functions[f.ID] = &fn
	return nil
}

// Unit looks a unit up by exact symbol.
func (c *Catalog) Unit(symbol string) (*Unit, bool) {
	u, ok := c.exact[symbol]
	return u, ok
}

// UnitFold looks a unit up ignoring case.
func (c *Catalog) UnitFold(symbol string) (*Unit, bool) {
	u, ok := c.folded[Fold(symbol)]
	return u, ok
}

// Prefix looks a prefix up by exact symbol.
func (c *Catalog) Prefix(symbol string) (Prefix, bool) {
	p, ok := c.prefixExact[symbol]
	if !ok {
		return NoPrefix, false
	}
	return *p, true
}

// PrefixFold looks a prefix up, preferring an exact match over a folded one.
func (c *Catalog) PrefixFold(symbol string) (Prefix, bool) {
	if p, ok := c.Prefix(symbol); ok {
		return p, true
	}
	p, ok := c.prefixFolded[Fold(symbol)]
	if !ok {
		return NoPrefix, false
	}
	return *p, true
}

// Function looks a unit function up by id.
func (c *Catalog) Function(id string) (*Function, bool) {
	f, ok := c.functions[id]
	return f, ok
}

// Units returns the units in registration order.
func (c *Catalog) Units() []*Unit {
	out := make([]*Unit, len(c.units))
	copy(out, c.units)
	return out
}

// Prefixes returns the prefixes in registration order.
func (c *Catalog) Prefixes() []Prefix {
	out := make([]Prefix, len(c.prefixes))
	for i, p := range c.prefixes {
		out[i] = *p
	}
	return out
}

// Functions returns the unit functions sorted by id.
func (c *Catalog) Functions() []*Function {
	out := make([]*Function, 0, len(c.functions))
	for _, f := range c.functions {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Symbols returns every unit id and alias, sorted.
func (c *Catalog) Symbols() []string {
	out := make([]string, 0, len(c.exact))
	for s := range c.exact {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
