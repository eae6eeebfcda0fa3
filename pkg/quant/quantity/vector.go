// Package quantity defines the value types the conversion engine computes
// with: an 8-component SI dimension vector and the scalar quantity Q.
package quantity

import (
	"math"
	"strconv"
	"strings"
)

// Dimensions is the number of SI base dimensions tracked by a Vector.
const Dimensions = 8

// Tolerance is the per-component epsilon under which two vectors are equal.
const Tolerance = 1e-3

// BaseSymbols are the SI symbols of the base dimensions, in vector order.
var BaseSymbols = [Dimensions]string{"m", "kg", "s", "A", "K", "mol", "cd", "bit"}

// BaseNames are the human names of the base dimensions, in vector order.
var BaseNames = [Dimensions]string{
	"length",
	"mass",
	"time",
	"electric current",
	"temperature",
	"amount of substance",
	"luminous intensity",
	"information",
}

// Vector holds the exponents of a quantity over the SI base dimensions.
// It is an array, so assignment copies and no vector is ever shared.
type Vector [Dimensions]float64

// Zero is the dimension vector of a pure number.
var Zero Vector

// Base returns the unit vector of the i-th base dimension.
func Base(i int) Vector {
	var v Vector
	v[i] = 1
	return v
}

// Add returns the componentwise sum.
func (v Vector) Add(o Vector) Vector {
	for i := range v {
		v[i] += o[i]
	}
	return v
}

// Sub returns the componentwise difference.
func (v Vector) Sub(o Vector) Vector {
	for i := range v {
		v[i] -= o[i]
	}
	return v
}

// Scale multiplies every component by f.
func (v Vector) Scale(f float64) Vector {
	for i := range v {
		v[i] *= f
	}
	return v
}

// Equal reports whether every component differs by less than Tolerance.
func (v Vector) Equal(o Vector) bool {
	for i := range v {
		if math.Abs(v[i]-o[i]) >= Tolerance {
			return false
		}
	}
	return true
}

// IsZero reports whether v is dimension-equal to the zero vector.
func (v Vector) IsZero() bool {
	return v.Equal(Zero)
}

// String renders v as a product of SI base symbols that the parser reads
// back, e.g. "m^2*kg*s^(-2)". The zero vector renders as "".
func (v Vector) String() string {
	var parts []string
	for i, exp := range v {
		if math.Abs(exp) < Tolerance {
			continue
		}
		parts = append(parts, BaseSymbols[i]+renderExponent(exp))
	}
	return strings.Join(parts, "*")
}

// Label is String with "1" standing in for a dimensionless vector.
func (v Vector) Label() string {
	if s := v.String(); s != "" {
		return s
	}
	return "1"
}

func renderExponent(exp float64) string {
	if r := math.Round(exp); math.Abs(exp-r) < Tolerance {
		exp = r
	}
	if exp == 1 {
		return ""
	}
	s := strconv.FormatFloat(exp, 'g', 6, 64)
	if exp < 0 {
		return "^(" + s + ")"
	}
	return "^" + s
}

// CheckDimension returns the correction that turns b into a, that is a-b,
// and the symbols of every base dimension where the two disagree.
// Swapping the arguments negates the correction and keeps the symbols.
func CheckDimension(a, b Vector) (Vector, []string) {
	correction := a.Sub(b)
	var mismatched []string
	for i, c := range correction {
		if math.Abs(c) >= Tolerance {
			mismatched = append(mismatched, BaseSymbols[i])
		} else {
			correction[i] = 0
		}
	}
	return correction, mismatched
}
