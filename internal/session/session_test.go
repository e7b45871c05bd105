package session_test

import (
	"crypto/rand"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/shamirmpc/mpcnode/internal/memnet"
	"github.com/shamirmpc/mpcnode/internal/session"
	"github.com/shamirmpc/mpcnode/pkg/field"
)

// runAll drives session.Run concurrently for every virtual party over an
// in-memory mesh, one goroutine per party standing in for N processes, and
// returns each party's reconstructed result alongside any error.
func runAll(n, threshold int, inputs []uint64) ([]field.Element, []error) {
	mesh := memnet.NewMesh(n)

	results := make([]field.Element, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			params := session.Params{Threshold: threshold, Input: inputs[i]}
			results[i], errs[i] = session.Run(params, mesh.View(i), rand.Reader, zerolog.Nop())
		}()
	}
	wg.Wait()
	return results, errs
}

var _ = Describe("Session", func() {
	It("computes the product of three inputs with N=3, t=1", func() {
		results, errs := runAll(3, 1, []uint64{2, 3, 4})
		for _, err := range errs {
			Expect(err).NotTo(HaveOccurred())
		}
		for _, r := range results {
			Expect(r.Equal(field.New(24))).To(BeTrue())
		}
	})

	It("computes the product of five inputs with N=5, t=2", func() {
		results, errs := runAll(5, 2, []uint64{1, 1, 1, 1, 7})
		for _, err := range errs {
			Expect(err).NotTo(HaveOccurred())
		}
		for _, r := range results {
			Expect(r.Equal(field.New(7))).To(BeTrue())
		}
	})

	It("produces zero when one input is zero", func() {
		results, errs := runAll(3, 1, []uint64{5, 0, 9})
		for _, err := range errs {
			Expect(err).NotTo(HaveOccurred())
		}
		for _, r := range results {
			Expect(r.IsZero()).To(BeTrue())
		}
	})

	It("wraps around the field modulus correctly", func() {
		results, errs := runAll(4, 1, []uint64{field.Modulus - 1, 2, 1, 1})
		for _, err := range errs {
			Expect(err).NotTo(HaveOccurred())
		}
		for _, r := range results {
			Expect(r.Equal(field.New(field.Modulus - 2))).To(BeTrue())
		}
	})

	It("rejects a threshold that does not satisfy 2t+1 <= n", func() {
		_, errs := runAll(3, 2, []uint64{1, 2, 3})
		for _, err := range errs {
			Expect(err).To(HaveOccurred())
		}
	})
})
