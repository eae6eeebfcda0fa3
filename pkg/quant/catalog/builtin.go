package catalog

import (
	"math"
	"sync"

	"github.com/sambeau/quant/pkg/quant/quantity"
)

// dim builds a vector from exponents over m, kg, s, A, K, mol, cd, bit.
func dim(exps ...float64) quantity.Vector {
	var v quantity.Vector
	copy(v[:], exps)
	return v
}

var (
	dimless     = quantity.Zero
	length      = dim(1)
	mass        = dim(0, 1)
	duration    = dim(0, 0, 1)
	current     = dim(0, 0, 0, 1)
	temperature = dim(0, 0, 0, 0, 1)
	amount      = dim(0, 0, 0, 0, 0, 1)
	luminous    = dim(0, 0, 0, 0, 0, 0, 1)
	information = dim(0, 0, 0, 0, 0, 0, 0, 1)

	area         = dim(2)
	volume       = dim(3)
	frequency    = dim(0, 0, -1)
	velocity     = dim(1, 0, -1)
	force        = dim(1, 1, -2)
	pressure     = dim(-1, 1, -2)
	energy       = dim(2, 1, -2)
	power        = dim(2, 1, -3)
	charge       = dim(0, 0, 1, 1)
	voltage      = dim(2, 1, -3, -1)
	density      = dim(-3, 1)
	molarity     = dim(-3, 0, 0, 0, 0, 1)
	viscosity    = dim(-1, 1, -1)
	kinematicVis = dim(2, 0, -1)
)

// Temperature and gravity constants used by the built-in unit functions.
const (
	CelsiusZero    = 273.15
	FahrenheitZero = 459.67
	// WaterDensity60F is the density of water at 60 °F in kg/m³, the
	// reference of the API gravity scale.
	WaterDensity60F = 999.016

	apiNumerator = 141.5
	apiOffset    = 131.5
)

// gravityForward maps a gravity reading x to scale*factor/(x+offset).
func gravityForward(scale, factor, offset float64) func(float64) float64 {
	return func(x float64) float64 { return scale * factor / (x + offset) }
}

func gravityInverse(scale, factor, offset float64) func(float64) float64 {
	return func(si float64) float64 { return factor/(si/scale) - offset }
}

var builtinPrefixes = []Prefix{
	{ID: "Q", Name: "quetta", Exponent: 30},
	{ID: "R", Name: "ronna", Exponent: 27},
	{ID: "Y", Name: "yotta", Exponent: 24},
	{ID: "Z", Name: "zetta", Exponent: 21},
	{ID: "E", Name: "exa", Exponent: 18},
	{ID: "P", Name: "peta", Exponent: 15},
	{ID: "T", Name: "tera", Exponent: 12},
	{ID: "G", Name: "giga", Exponent: 9},
	{ID: "M", Name: "mega", Exponent: 6},
	{ID: "k", Name: "kilo", Exponent: 3},
	{ID: "h", Name: "hecto", Exponent: 2},
	{ID: "d", Name: "deci", Exponent: -1},
	{ID: "c", Name: "centi", Exponent: -2},
	{ID: "m", Name: "milli", Exponent: -3},
	{ID: "µ", Aliases: []string{"μ", "u"}, Name: "micro", Exponent: -6},
	{ID: "n", Name: "nano", Exponent: -9},
	{ID: "p", Name: "pico", Exponent: -12},
	{ID: "f", Name: "femto", Exponent: -15},
	{ID: "a", Name: "atto", Exponent: -18},
	{ID: "z", Name: "zepto", Exponent: -21},
	{ID: "y", Name: "yocto", Exponent: -24},
	{ID: "r", Name: "ronto", Exponent: -27},
	{ID: "q", Name: "quecto", Exponent: -30},
}

// Registration order matters for case-insensitive lookups: when two
// symbols fold alike, the earlier one wins (m before M, s before S).
var builtinUnits = []Unit{
	// SI base units
	{ID: "m", Name: "metre", Scale: 1, Dims: length, Basic: true},
	{ID: "kg", Name: "kilogram", Scale: 1, Dims: mass, Basic: true, Prefixes: PrefixNone},
	{ID: "g", Name: "gram", Scale: 1e-3, Dims: mass},
	{ID: "s", Aliases: []string{"sec"}, Name: "second", Scale: 1, Dims: duration, Basic: true},
	{ID: "A", Name: "ampere", Scale: 1, Dims: current, Basic: true},
	{ID: "K", Name: "kelvin", Scale: 1, Dims: temperature, Basic: true},
	{ID: "mol", Name: "mole", Scale: 1, Dims: amount, Basic: true},
	{ID: "cd", Name: "candela", Scale: 1, Dims: luminous, Basic: true},
	{ID: "bit", Name: "bit", Scale: 1, Dims: information, Basic: true},
	{ID: "B", Name: "byte", Scale: 8, Dims: information},

	// Coherent derived units
	{ID: "Hz", Name: "hertz", Scale: 1, Dims: frequency, Basic: true},
	{ID: "N", Name: "newton", Scale: 1, Dims: force, Basic: true},
	{ID: "Pa", Name: "pascal", Scale: 1, Dims: pressure, Basic: true},
	{ID: "J", Name: "joule", Scale: 1, Dims: energy, Basic: true},
	{ID: "W", Name: "watt", Scale: 1, Dims: power, Basic: true},
	{ID: "C", Name: "coulomb", Scale: 1, Dims: charge, Basic: true},
	{ID: "V", Name: "volt", Scale: 1, Dims: voltage, Basic: true},
	{ID: "F", Name: "farad", Scale: 1, Dims: dim(-2, -1, 4, 2), Basic: true},
	{ID: "Ω", Aliases: []string{"ohm"}, Name: "ohm", Scale: 1, Dims: dim(2, 1, -3, -2), Basic: true},
	{ID: "S", Name: "siemens", Scale: 1, Dims: dim(-2, -1, 3, 2), Basic: true},
	{ID: "Wb", Name: "weber", Scale: 1, Dims: dim(2, 1, -2, -1), Basic: true},
	{ID: "T", Name: "tesla", Scale: 1, Dims: dim(0, 1, -2, -1), Basic: true},
	{ID: "H", Name: "henry", Scale: 1, Dims: dim(2, 1, -2, -2), Basic: true},
	{ID: "lm", Name: "lumen", Scale: 1, Dims: luminous, Basic: true},
	{ID: "lx", Name: "lux", Scale: 1, Dims: dim(-2, 0, 0, 0, 0, 0, 1), Basic: true},
	{ID: "Bq", Name: "becquerel", Scale: 1, Dims: frequency, Basic: true},
	{ID: "Gy", Name: "gray", Scale: 1, Dims: dim(2, 0, -2), Basic: true},
	{ID: "Sv", Name: "sievert", Scale: 1, Dims: dim(2, 0, -2), Basic: true},
	{ID: "kat", Name: "katal", Scale: 1, Dims: dim(0, 0, -1, 0, 0, 1), Basic: true},
	{ID: "rad", Name: "radian", Scale: 1, Dims: dimless, Basic: true, Prefixes: PrefixDecreasing},
	{ID: "sr", Name: "steradian", Scale: 1, Dims: dimless, Basic: true, Prefixes: PrefixNone},

	// Length
	{ID: "in", Name: "inch", Scale: 0.0254, Dims: length, Prefixes: PrefixNone},
	{ID: "ft", Name: "foot", Scale: 0.3048, Dims: length, Prefixes: PrefixNone},
	{ID: "yd", Name: "yard", Scale: 0.9144, Dims: length, Prefixes: PrefixNone},
	{ID: "mi", Name: "mile", Scale: 1609.344, Dims: length, Prefixes: PrefixNone},
	{ID: "nmi", Name: "nautical mile", Scale: 1852, Dims: length, Prefixes: PrefixNone},
	{ID: "Å", Name: "ångström", Scale: 1e-10, Dims: length, Prefixes: PrefixNone},
	{ID: "au", Name: "astronomical unit", Scale: 1.495978707e11, Dims: length, Prefixes: PrefixNone},
	{ID: "ly", Name: "light-year", Scale: 9.4607304725808e15, Dims: length, Prefixes: PrefixIncreasing},
	{ID: "pc", Name: "parsec", Scale: 3.0856775814913673e16, Dims: length, Prefixes: PrefixIncreasing},

	// Area and volume
	{ID: "ha", Name: "hectare", Scale: 1e4, Dims: area, Prefixes: PrefixNone},
	{ID: "acre", Name: "acre", Scale: 4046.8564224, Dims: area, Prefixes: PrefixNone},
	{ID: "L", Aliases: []string{"l"}, Name: "litre", Scale: 1e-3, Dims: volume},
	{ID: "gal", Name: "US gallon", Scale: 3.785411784e-3, Dims: volume, Prefixes: PrefixNone},
	{ID: "bbl", Name: "oil barrel", Scale: 0.158987294928, Dims: volume, Prefixes: PrefixIncreasing},

	// Mass
	{ID: "t", Name: "tonne", Scale: 1000, Dims: mass, Prefixes: PrefixIncreasing},
	{ID: "lb", Aliases: []string{"lbm"}, Name: "pound", Scale: 0.45359237, Dims: mass, Prefixes: PrefixNone},
	{ID: "oz", Name: "ounce", Scale: 0.028349523125, Dims: mass, Prefixes: PrefixNone},
	{ID: "Da", Aliases: []string{"u"}, Name: "dalton", Scale: 1.66053906660e-27, Dims: mass, Prefixes: PrefixIncreasing},

	// Time
	{ID: "min", Name: "minute", Scale: 60, Dims: duration, Prefixes: PrefixNone},
	{ID: "h", Aliases: []string{"hr"}, Name: "hour", Scale: 3600, Dims: duration, Prefixes: PrefixNone},
	{ID: "d", Aliases: []string{"day"}, Name: "day", Scale: 86400, Dims: duration, Prefixes: PrefixNone},
	{ID: "wk", Name: "week", Scale: 604800, Dims: duration, Prefixes: PrefixNone},
	{ID: "yr", Name: "Julian year", Scale: 31557600, Dims: duration, Prefixes: PrefixIncreasing},

	// Velocity and frequency
	{ID: "kn", Name: "knot", Scale: 1852.0 / 3600.0, Dims: velocity, Prefixes: PrefixNone},
	{ID: "mph", Name: "mile per hour", Scale: 0.44704, Dims: velocity, Prefixes: PrefixNone},
	{ID: "rpm", Name: "revolution per minute", Scale: 1.0 / 60.0, Dims: frequency, Prefixes: PrefixNone},

	// Force and pressure
	{ID: "lbf", Name: "pound-force", Scale: 4.4482216152605, Dims: force, Prefixes: PrefixNone},
	{ID: "kgf", Name: "kilogram-force", Scale: 9.80665, Dims: force, Prefixes: PrefixNone},
	{ID: "dyn", Name: "dyne", Scale: 1e-5, Dims: force},
	{ID: "bar", Name: "bar", Scale: 1e5, Dims: pressure},
	{ID: "atm", Name: "standard atmosphere", Scale: 101325, Dims: pressure, Prefixes: PrefixNone},
	{ID: "torr", Aliases: []string{"Torr"}, Name: "torr", Scale: 133.33, Dims: pressure, Prefixes: PrefixDecreasing},
	{ID: "mmHg", Name: "millimetre of mercury", Scale: 133.322387415, Dims: pressure, Prefixes: PrefixNone},
	{ID: "psi", Name: "pound per square inch", Scale: 6894.757293168, Dims: pressure, Prefixes: PrefixIncreasing},

	// Energy and power
	{ID: "cal", Name: "calorie", Scale: 4.184, Dims: energy},
	{ID: "eV", Name: "electronvolt", Scale: 1.602176634e-19, Dims: energy},
	{ID: "Wh", Name: "watt-hour", Scale: 3600, Dims: energy},
	{ID: "BTU", Aliases: []string{"Btu"}, Name: "British thermal unit", Scale: 1055.05585262, Dims: energy, Prefixes: PrefixIncreasing},
	{ID: "hp", Name: "horsepower", Scale: 745.69987158227022, Dims: power, Prefixes: PrefixNone},

	// Chemistry and transport
	{ID: "M", Name: "molar", Scale: 1000, Dims: molarity, Prefixes: PrefixDecreasing},
	{ID: "P", Name: "poise", Scale: 0.1, Dims: viscosity, Prefixes: PrefixDecreasing},
	{ID: "St", Name: "stokes", Scale: 1e-4, Dims: kinematicVis, Prefixes: PrefixDecreasing},
	{ID: "%", Name: "percent", Scale: 1e-2, Dims: dimless, Prefixes: PrefixNone},
	{ID: "ppm", Name: "part per million", Scale: 1e-6, Dims: dimless, Prefixes: PrefixNone},
	{ID: "ppb", Name: "part per billion", Scale: 1e-9, Dims: dimless, Prefixes: PrefixNone},
	{ID: "°", Aliases: []string{"deg"}, Name: "degree", Scale: math.Pi / 180, Dims: dimless, Prefixes: PrefixNone},

	// Units with a unit function. Outside braces °C and °F are temperature
	// differences; the others only make sense through their function.
	{ID: "°C", Aliases: []string{"degC"}, Name: "degree Celsius", Scale: 1, Dims: temperature, Prefixes: PrefixNone, Function: "°C"},
	{ID: "°F", Aliases: []string{"degF"}, Name: "degree Fahrenheit", Scale: 5.0 / 9.0, Dims: temperature, Prefixes: PrefixNone, Function: "°F"},
	{ID: "°API", Name: "API gravity", Scale: 1, Dims: dimless, Prefixes: PrefixNone, FunctionOnly: true, Function: "°API"},
	{ID: "pH", Name: "pH", Scale: 1, Dims: dimless, Prefixes: PrefixNone, FunctionOnly: true, Function: "pH"},
	{ID: "Np", Name: "neper", Scale: 1, Dims: dimless, Prefixes: PrefixDecreasing, FunctionOnly: true, Function: "Np"},
	{ID: "dB", Name: "decibel (power ratio)", Scale: 1, Dims: dimless, Prefixes: PrefixNone, FunctionOnly: true, Function: "dB"},
}

var builtinFunctions = []Function{
	{
		ID: "°C", Name: "Celsius temperature", Dims: temperature,
		Forward: func(x float64) float64 { return x + CelsiusZero },
		Inverse: func(k float64) float64 { return k - CelsiusZero },
	},
	{
		ID: "°F", Name: "Fahrenheit temperature", Dims: temperature,
		Forward: func(x float64) float64 { return (x + FahrenheitZero) * 5 / 9 },
		Inverse: func(k float64) float64 { return k*9/5 - FahrenheitZero },
	},
	{
		ID: "°API", Name: "API gravity to density", Dims: density,
		Forward: gravityForward(WaterDensity60F, apiNumerator, apiOffset),
		Inverse: gravityInverse(WaterDensity60F, apiNumerator, apiOffset),
	},
	{
		ID: "pH", Name: "pH to hydronium concentration", Dims: molarity,
		Forward: func(x float64) float64 { return 1000 * math.Pow(10, -x) },
		Inverse: func(c float64) float64 { return -math.Log10(c / 1000) },
	},
	{
		ID: "Np", Name: "natural logarithmic ratio", Dims: dimless,
		Forward: math.Exp,
		Inverse: math.Log,
	},
	{
		ID: "dB", Name: "decibel power ratio", Dims: dimless,
		Forward: func(x float64) float64 { return math.Pow(10, x/10) },
		Inverse: func(r float64) float64 { return 10 * math.Log10(r) },
	},
}

// Builtin returns a fresh catalog with the built-in tables.
func Builtin() *Catalog {
	c := New()
	for _, p := range builtinPrefixes {
		if err := c.AddPrefix(p); err != nil {
			panic(err)
		}
	}
	for _, u := range builtinUnits {
		if err := c.AddUnit(u); err != nil {
			panic(err)
		}
	}
	for _, f := range builtinFunctions {
		if err := c.AddFunction(f); err != nil {
			panic(err)
		}
	}
	return c
}

var defaultCatalog = sync.OnceValue(Builtin)

// Default returns the shared built-in catalog. Callers must not add to it;
// use Builtin for a catalog that will be extended.
func Default() *Catalog {
	return defaultCatalog()
}
