package quantity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sambeau/quant/pkg/quant/errors"
)

var (
	length = Base(0)
	mass   = Base(1)
	time   = Base(2)
)

func TestVectorEqualTolerance(t *testing.T) {
	a := length.Scale(2)
	b := a
	b[0] += 5e-4
	assert.True(t, a.Equal(b), "difference below tolerance")

	b[0] += 1e-3
	assert.False(t, a.Equal(b), "difference above tolerance")
	assert.True(t, Vector{1e-4}.IsZero())
}

func TestVectorIsValueType(t *testing.T) {
	a := length
	b := a.Add(time)
	assert.Equal(t, Base(0), a, "Add must not modify its receiver")
	assert.Equal(t, 1.0, b[2])
}

func TestVectorString(t *testing.T) {
	tests := []struct {
		name string
		v    Vector
		want string
	}{
		{"dimensionless", Zero, ""},
		{"metre", length, "m"},
		{"energy", length.Scale(2).Add(mass).Sub(time.Scale(2)), "m^2*kg*s^(-2)"},
		{"fractional", length.Scale(0.5), "m^0.5"},
		{"rounded", length.Scale(0.1 + 0.2).Scale(10.0 / 3.0), "m"},
		{"information", Base(7).Scale(-1), "bit^(-1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
	assert.Equal(t, "1", Zero.Label())
}

func TestCheckDimensionAntisymmetric(t *testing.T) {
	a := length.Add(mass.Scale(2))
	b := time.Scale(-1).Add(mass)

	ab, dimsAB := CheckDimension(a, b)
	ba, dimsBA := CheckDimension(b, a)

	for i := range ab {
		assert.InDelta(t, -ab[i], ba[i], 1e-12, "component %d", i)
	}
	assert.Equal(t, []string{"m", "kg", "s"}, dimsAB)
	assert.Equal(t, dimsAB, dimsBA)

	corr, dims := CheckDimension(a, a)
	assert.True(t, corr.IsZero())
	assert.Empty(t, dims)
}

func TestPower(t *testing.T) {
	q, err := Power(New(3, length), Scalar(2))
	require.NoError(t, err)
	assert.InDelta(t, 9, q.Magnitude, 1e-12)
	assert.True(t, q.Dims.Equal(length.Scale(2)))

	// A dimensioned exponent is refused even when its magnitude is 1.
	_, err = Power(Scalar(2), New(1, length))
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.NonDimensionlessExponent))
}

func TestMultiplyDivide(t *testing.T) {
	q := Multiply(New(2, length), New(4, time))
	assert.InDelta(t, 8, q.Magnitude, 1e-12)
	assert.True(t, q.Dims.Equal(length.Add(time)))

	q, err := Divide(New(10, length), New(4, time))
	require.NoError(t, err)
	assert.InDelta(t, 2.5, q.Magnitude, 1e-12)
	assert.True(t, q.Dims.Equal(length.Sub(time)))
}

func TestAddSubtract(t *testing.T) {
	q, err := Add(New(7, length), New(4, length))
	require.NoError(t, err)
	assert.InDelta(t, 11, q.Magnitude, 1e-12)

	q, err = Subtract(New(7, length), New(4, length))
	require.NoError(t, err)
	assert.InDelta(t, 3, q.Magnitude, 1e-12)
	assert.True(t, q.Dims.Equal(length))

	_, err = Add(New(7, length), New(4, time))
	assert.True(t, errors.IsKind(err, errors.DimensionMismatchAddSub))

	_, err = Subtract(New(7, length), New(4, time))
	assert.True(t, errors.IsKind(err, errors.DimensionMismatchAddSub))
}

func TestApply(t *testing.T) {
	q, err := Apply('^', Scalar(-1), Scalar(0.5))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(q.Magnitude))
	assert.False(t, q.IsFinite())

	_, err = Apply('%', Scalar(1), Scalar(1))
	assert.True(t, errors.IsKind(err, errors.MisplacedOperator))
}

func TestQuantityExpression(t *testing.T) {
	assert.Equal(t, "(5)", Scalar(5).Expression())
	assert.Equal(t, "(1e-05*m)", New(1e-5, length).Expression())
	assert.Equal(t, "2.5 m^2", New(2.5, length.Scale(2)).String())
}
