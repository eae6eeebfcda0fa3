package catalog

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sambeau/quant/pkg/quant/quantity"
)

// File is the YAML layout of a catalog extension file:
//
//	prefixes:
//	  - {id: "Ki", exponent: 3}     # rejected: prefixes are one character
//	units:
//	  - id: furlong
//	    aliases: [fur]
//	    scale: 201.168
//	    dims: {m: 1}
//	    prefixes: none
//	functions:
//	  - id: °Ré
//	    kind: affine
//	    scale: 1.25
//	    offset: 273.15
//	    dims: {K: 1}
type File struct {
	Prefixes  []PrefixSpec   `yaml:"prefixes"`
	Units     []UnitSpec     `yaml:"units"`
	Functions []FunctionSpec `yaml:"functions"`
}

// PrefixSpec describes a prefix in a catalog file.
type PrefixSpec struct {
	ID       string   `yaml:"id"`
	Aliases  []string `yaml:"aliases"`
	Name     string   `yaml:"name"`
	Exponent int      `yaml:"exponent"`
}

// UnitSpec describes a unit in a catalog file.
type UnitSpec struct {
	ID           string             `yaml:"id"`
	Aliases      []string           `yaml:"aliases"`
	Name         string             `yaml:"name"`
	Scale        float64            `yaml:"scale"`
	Dims         map[string]float64 `yaml:"dims"`
	Basic        bool               `yaml:"basic"`
	Prefixes     string             `yaml:"prefixes"`      // all, increasing, decreasing, none
	FunctionOnly bool               `yaml:"function_only"` // only usable inside {...}
	Function     string             `yaml:"function"`
}

// FunctionSpec describes a unit function in a catalog file.
//
// Kinds:
//
//	affine: si = x*scale + offset
//	log10:  si = scale * 10^(x/factor)
//	ln:     si = scale * e^(x/factor)
//	api:    si = scale * factor/(x + offset)
//
// An api function defaults to scale 999.016 (water at 60 °F), factor 141.5
// and offset 131.5, which is API gravity to density in kg/m³.
type FunctionSpec struct {
	ID     string             `yaml:"id"`
	Name   string             `yaml:"name"`
	Kind   string             `yaml:"kind"`
	Scale  float64            `yaml:"scale"`
	Offset float64            `yaml:"offset"`
	Factor float64            `yaml:"factor"`
	Dims   map[string]float64 `yaml:"dims"`
}

// LoadFile adds the entries of a YAML catalog file to c.
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}
	if err := c.LoadYAML(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LoadYAML adds the entries of a YAML catalog document to c.
// Prefixes are added first, then functions, then units.
func (c *Catalog) LoadYAML(data []byte) error {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse catalog: %w", err)
	}

	for _, p := range f.Prefixes {
		if err := c.AddPrefix(Prefix{ID: p.ID, Aliases: p.Aliases, Name: p.Name, Exponent: p.Exponent}); err != nil {
			return err
		}
	}

	for _, fs := range f.Functions {
		fn, err := fs.build()
		if err != nil {
			return err
		}
		if err := c.AddFunction(fn); err != nil {
			return err
		}
	}

	for _, us := range f.Units {
		u, err := us.build()
		if err != nil {
			return err
		}
		if u.FunctionOnly || u.Function != "" {
			if _, ok := c.Function(u.FunctionID()); !ok {
				return fmt.Errorf("unit %q: unit function %q is not defined", u.ID, u.FunctionID())
			}
		}
		if err := c.AddUnit(u); err != nil {
			return err
		}
	}
	return nil
}

func (us UnitSpec) build() (Unit, error) {
	policy, err := ParsePrefixPolicy(us.Prefixes)
	if err != nil {
		return Unit{}, fmt.Errorf("unit %q: %w", us.ID, err)
	}
	dims, err := parseDims(us.Dims)
	if err != nil {
		return Unit{}, fmt.Errorf("unit %q: %w", us.ID, err)
	}
	scale := us.Scale
	if scale == 0 && us.FunctionOnly {
		scale = 1
	}
	return Unit{
		ID:           us.ID,
		Aliases:      us.Aliases,
		Name:         us.Name,
		Scale:        scale,
		Dims:         dims,
		Basic:        us.Basic,
		Prefixes:     policy,
		FunctionOnly: us.FunctionOnly,
		Function:     us.Function,
	}, nil
}

func (fs FunctionSpec) build() (Function, error) {
	dims, err := parseDims(fs.Dims)
	if err != nil {
		return Function{}, fmt.Errorf("unit function %q: %w", fs.ID, err)
	}
	fn := Function{ID: fs.ID, Name: fs.Name, Dims: dims}

	scale, offset, factor := fs.Scale, fs.Offset, fs.Factor
	if fs.Kind == "api" {
		if scale == 0 {
			scale = WaterDensity60F
		}
		if factor == 0 {
			factor = apiNumerator
		}
		if offset == 0 {
			offset = apiOffset
		}
	}
	if scale == 0 {
		scale = 1
	}
	if factor == 0 {
		factor = 1
	}

	switch fs.Kind {
	case "affine":
		fn.Forward = func(x float64) float64 { return x*scale + offset }
		fn.Inverse = func(si float64) float64 { return (si - offset) / scale }
	case "log10":
		fn.Forward = func(x float64) float64 { return scale * math.Pow(10, x/factor) }
		fn.Inverse = func(si float64) float64 { return factor * math.Log10(si/scale) }
	case "ln":
		fn.Forward = func(x float64) float64 { return scale * math.Exp(x/factor) }
		fn.Inverse = func(si float64) float64 { return factor * math.Log(si/scale) }
	case "api":
		fn.Forward = gravityForward(scale, factor, offset)
		fn.Inverse = gravityInverse(scale, factor, offset)
	default:
		return Function{}, fmt.Errorf("unit function %q: unknown kind %q (want affine, log10, ln or api)", fs.ID, fs.Kind)
	}
	return fn, nil
}

func parseDims(m map[string]float64) (quantity.Vector, error) {
	var v quantity.Vector
	for sym, exp := range m {
		found := false
		for i, base := range quantity.BaseSymbols {
			if base == sym {
				v[i] = exp
				found = true
				break
			}
		}
		if !found {
			return v, fmt.Errorf("unknown base dimension %q", sym)
		}
	}
	return v, nil
}
