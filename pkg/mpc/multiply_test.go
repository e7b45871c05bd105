package mpc_test

import (
	"crypto/rand"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamirmpc/mpcnode/internal/memnet"
	"github.com/shamirmpc/mpcnode/pkg/field"
	"github.com/shamirmpc/mpcnode/pkg/mpc"
	"github.com/shamirmpc/mpcnode/pkg/share"
)

// runMultiply shares A and B across n virtual parties at threshold t, then
// drives mpc.Multiply concurrently (one goroutine per virtual party,
// standing in for N separate processes) and returns the reconstructed
// product.
func runMultiply(t *testing.T, a, b uint64, n, threshold int) field.Element {
	t.Helper()

	aShares, err := share.ShareSecret(field.New(a), n, threshold, rand.Reader)
	require.NoError(t, err)
	bShares, err := share.ShareSecret(field.New(b), n, threshold, rand.Reader)
	require.NoError(t, err)

	mesh := memnet.NewMesh(n)
	recombination := mpc.RecombinationVector(n)

	results := make([]share.Share, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = mpc.Multiply(aShares[i], bShares[i], threshold, recombination, rand.Reader, mesh.View(i), zerolog.Nop())
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	return share.Reconstruct(results)
}

func TestMultiplyProtocolCorrectness(t *testing.T) {
	cases := []struct {
		a, b uint64
		n, t int
	}{
		{2, 3, 3, 1},
		{5, 0, 3, 1},
		{1, 7, 5, 2},
		{field.Modulus - 1, 2, 4, 1},
	}

	for _, c := range cases {
		got := runMultiply(t, c.a, c.b, c.n, c.t)
		want := field.New(c.a).Mul(field.New(c.b))
		assert.True(t, got.Equal(want), "a=%d b=%d n=%d t=%d", c.a, c.b, c.n, c.t)
	}
}

func TestMultiplyOutputShareHasThresholdDegree(t *testing.T) {
	n, threshold := 5, 2
	aShares, err := share.ShareSecret(field.New(3), n, threshold, rand.Reader)
	require.NoError(t, err)
	bShares, err := share.ShareSecret(field.New(4), n, threshold, rand.Reader)
	require.NoError(t, err)

	mesh := memnet.NewMesh(n)
	recombination := mpc.RecombinationVector(n)

	results := make([]share.Share, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = mpc.Multiply(aShares[i], bShares[i], threshold, recombination, rand.Reader, mesh.View(i), zerolog.Nop())
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	for _, r := range results {
		assert.Equal(t, threshold, r.Degree)
	}
}

func TestRecombinationVectorLengthMismatchErrors(t *testing.T) {
	n := 3
	mesh := memnet.NewMesh(n)
	badVector := mpc.RecombinationVector(n + 1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := mpc.Multiply(share.New(field.One(), 1), share.New(field.One(), 1), 1, badVector, rand.Reader, mesh.View(0), zerolog.Nop())
		assert.Error(t, err)
	}()
	wg.Wait()
}
