package convergence_test

import (
	"context"
	"math"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/quadlab/internal/convergence"
	"github.com/san-kum/quadlab/internal/quad"
)

var _ = Describe("RunParallel", func() {
	rules := func() []*quad.Rule {
		return []*quad.Rule{quad.Trapezoid(), quad.Simpson(), quad.GaussLegendre3(), quad.Midpoint()}
	}

	It("matches the sequential passes bit for bit", func() {
		q, err := quad.New(1, math.E, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		cfg := convergence.DefaultConfig()

		var rows atomic.Int64
		par, err := convergence.RunParallel(context.Background(), q, quad.LogHalfExactE, cfg, rules(),
			convergence.ObserverFunc(func(string, convergence.Row) { rows.Add(1) }))
		Expect(err).NotTo(HaveOccurred())
		Expect(rows.Load()).To(Equal(int64(24)))

		seq, err := convergence.NewDriver(q.Clone(), quad.LogHalfExactE, cfg).RunRules(context.Background(), rules()...)
		Expect(err).NotTo(HaveOccurred())

		Expect(par).To(HaveLen(len(seq)))
		for i := range seq {
			Expect(par[i].Rule).To(Equal(seq[i].Rule))
			for j := range seq[i].Rows {
				Expect(math.Float64bits(par[i].Rows[j].H2)).To(Equal(math.Float64bits(seq[i].Rows[j].H2)))
			}
		}
	})

	It("leaves the source composite untouched", func() {
		q, err := quad.New(1, math.E, quad.Trapezoid(), nil)
		Expect(err).NotTo(HaveOccurred())
		_, err = convergence.RunParallel(context.Background(), q, quad.LogHalfExactE, convergence.DefaultConfig(), rules())
		Expect(err).NotTo(HaveOccurred())
		Expect(q.Rule().Name()).To(Equal("trapezoid"))
		Expect(q.StepSize()).To(Equal(1.0))
	})

	It("returns the first domain error", func() {
		q, err := quad.New(-1, 1, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		passes, err := convergence.RunParallel(context.Background(), q, 0, convergence.DefaultConfig(), rules())
		Expect(err).To(MatchError(quad.ErrDomain))
		Expect(passes).To(BeNil())
	})

	It("validates the progression before starting", func() {
		q, err := quad.New(1, 2, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		_, err = convergence.RunParallel(context.Background(), q, 0, convergence.Config{Start: 1, Limit: 1}, rules())
		Expect(err).To(MatchError(quad.ErrValidation))
	})
})
