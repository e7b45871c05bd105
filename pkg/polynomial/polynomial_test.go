package polynomial_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamirmpc/mpcnode/pkg/field"
	"github.com/shamirmpc/mpcnode/pkg/polynomial"
)

func TestRandomHasDegreePlusOneCoefficients(t *testing.T) {
	poly, err := polynomial.Random(5, rand.Reader)
	require.NoError(t, err)
	assert.Equal(t, 5, poly.Degree())
}

func TestSetConstantOverridesC0(t *testing.T) {
	poly, err := polynomial.Random(3, rand.Reader)
	require.NoError(t, err)

	secret := field.New(99)
	poly.SetConstant(secret)
	assert.True(t, poly.Evaluate(field.Zero()).Equal(secret))
}

func TestEvaluateKnownPolynomial(t *testing.T) {
	// f(x) = 2 + 3x + x^2
	poly := polynomial.New([]field.Element{field.New(2), field.New(3), field.New(1)})
	got := poly.Evaluate(field.New(5))
	assert.True(t, got.Equal(field.New(2+3*5+5*5)))
}
