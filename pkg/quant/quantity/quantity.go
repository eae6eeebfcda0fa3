package quantity

import (
	"math"
	"strconv"
)

// Q is a scalar physical quantity: an SI magnitude and its dimensions.
type Q struct {
	Magnitude float64
	Dims      Vector
}

// New returns a quantity with the given magnitude and dimensions.
func New(magnitude float64, dims Vector) Q {
	return Q{Magnitude: magnitude, Dims: dims}
}

// Scalar returns a dimensionless quantity.
func Scalar(magnitude float64) Q {
	return Q{Magnitude: magnitude}
}

// IsDimensionless reports whether q has the zero dimension vector.
func (q Q) IsDimensionless() bool {
	return q.Dims.IsZero()
}

// IsFinite reports whether the magnitude is neither NaN nor infinite.
func (q Q) IsFinite() bool {
	return !math.IsNaN(q.Magnitude) && !math.IsInf(q.Magnitude, 0)
}

// String renders q as "magnitude unit", e.g. "1500 m^2".
func (q Q) String() string {
	s := strconv.FormatFloat(q.Magnitude, 'g', -1, 64)
	if dims := q.Dims.String(); dims != "" {
		return s + " " + dims
	}
	return s
}

// Expression renders q as a parenthesized expression the parser reads back,
// e.g. "(1500*m^2)".
func (q Q) Expression() string {
	s := strconv.FormatFloat(q.Magnitude, 'g', -1, 64)
	if dims := q.Dims.String(); dims != "" {
		return "(" + s + "*" + dims + ")"
	}
	return "(" + s + ")"
}
