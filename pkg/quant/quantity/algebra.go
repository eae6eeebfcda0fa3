package quantity

import (
	"math"

	"github.com/sambeau/quant/pkg/quant/errors"
)

// Power raises q1 to q2. The exponent must be dimensionless.
func Power(q1, q2 Q) (Q, error) {
	if !q2.Dims.IsZero() {
		return Q{}, errors.New("OP-0002", q2.Dims.Label())
	}
	return Q{
		Magnitude: math.Pow(q1.Magnitude, q2.Magnitude),
		Dims:      q1.Dims.Scale(q2.Magnitude),
	}, nil
}

// Multiply multiplies magnitudes and adds dimensions.
func Multiply(q1, q2 Q) Q {
	return Q{
		Magnitude: q1.Magnitude * q2.Magnitude,
		Dims:      q1.Dims.Add(q2.Dims),
	}
}

// Divide is Multiply(q1, q2^-1).
func Divide(q1, q2 Q) (Q, error) {
	inv, err := Power(q2, Scalar(-1))
	if err != nil {
		return Q{}, err
	}
	return Multiply(q1, inv), nil
}

// Add sums two quantities of equal dimension; the result keeps q1's vector.
func Add(q1, q2 Q) (Q, error) {
	if !q1.Dims.Equal(q2.Dims) {
		return Q{}, errors.New("OP-0003", q1.Dims.Label(), q2.Dims.Label())
	}
	return Q{
		Magnitude: q1.Magnitude + q2.Magnitude,
		Dims:      q1.Dims,
	}, nil
}

// Subtract is Add(q1, -q2).
func Subtract(q1, q2 Q) (Q, error) {
	return Add(q1, Multiply(q2, Scalar(-1)))
}

// Apply dispatches a binary operator character.
func Apply(op byte, q1, q2 Q) (Q, error) {
	switch op {
	case '^':
		return Power(q1, q2)
	case '*':
		return Multiply(q1, q2), nil
	case '/':
		return Divide(q1, q2)
	case '+':
		return Add(q1, q2)
	case '-':
		return Subtract(q1, q2)
	}
	return Q{}, errors.New("OP-0001", string(op))
}
