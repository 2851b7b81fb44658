package convergence_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/quadlab/internal/convergence"
	"github.com/san-kum/quadlab/internal/quad"
)

func runPass(rule *quad.Rule) *convergence.Pass {
	q, err := quad.New(1, math.E, rule, quad.LogHalf)
	Expect(err).NotTo(HaveOccurred())
	p, err := convergence.NewDriver(q, quad.LogHalfExactE, convergence.DefaultConfig()).Run(context.Background())
	Expect(err).NotTo(HaveOccurred())
	return p
}

var _ = Describe("Config", func() {
	It("counts 1 through 32 by default", func() {
		Expect(convergence.DefaultConfig().Counts()).To(Equal([]int{1, 2, 4, 8, 16, 32}))
	})

	DescribeTable("rejects bad progressions",
		func(cfg convergence.Config) {
			Expect(cfg.Validate()).To(MatchError(quad.ErrValidation))
		},
		Entry("zero start", convergence.Config{Start: 0, Limit: 64}),
		Entry("negative start", convergence.Config{Start: -2, Limit: 64}),
		Entry("limit below 2*start", convergence.Config{Start: 4, Limit: 7}),
		Entry("start past half of MaxInt", convergence.Config{Start: math.MaxInt/2 + 1, Limit: math.MaxInt}),
	)

	It("stops counting before 2n leaves the int range", func() {
		cfg := convergence.Config{Start: 1 << 61, Limit: math.MaxInt}
		Expect(cfg.Validate()).To(Succeed())
		Expect(cfg.Counts()).To(Equal([]int{1 << 61}))
	})
})

var _ = Describe("Driver", func() {
	Context("with the trapezoid rule", func() {
		var pass *convergence.Pass

		BeforeEach(func() {
			pass = runPass(quad.Trapezoid())
		})

		It("emits one row per coarse count", func() {
			Expect(pass.Rule).To(Equal("trapezoid"))
			Expect(pass.Rows).To(HaveLen(6))
			for i, row := range pass.Rows {
				n := 1 << i
				Expect(row.N).To(Equal(n))
				Expect(row.H).To(Equal(1 / float64(n)))
				Expect(row.Step).To(BeNumerically("~", (math.E-1)/float64(n), 1e-15))
			}
		})

		It("approaches second order", func() {
			for _, row := range pass.Rows[2:] {
				Expect(row.Order).To(BeNumerically("~", 2, 0.05))
				Expect(row.Ratio).To(BeNumerically("~", 4, 0.2))
			}
		})

		It("shrinks the residual below the finer error", func() {
			for _, row := range pass.Rows {
				Expect(math.Abs(row.Residual)).To(BeNumerically("<", math.Abs(row.Diff2)*1e-3))
				Expect(row.Extrapolated).To(BeNumerically("~", quad.LogHalfExactE, math.Abs(row.Diff2)))
			}
		})

		It("keeps every row finite", func() {
			for _, row := range pass.Rows {
				Expect(row.Finite()).To(BeTrue())
			}
		})
	})

	It("approaches fourth order with Simpson", func() {
		pass := runPass(quad.Simpson())
		for _, row := range pass.Rows[3:] {
			Expect(row.Order).To(BeNumerically("~", 4, 0.15))
		}
	})

	It("approaches sixth order with 3-point Gauss-Legendre", func() {
		pass := runPass(quad.GaussLegendre3())
		for _, row := range pass.Rows[2:4] {
			Expect(row.Order).To(BeNumerically("~", 6, 0.3))
		}
	})

	It("beats the trapezoid rule with 3-point Gauss-Legendre at every n", func() {
		trap := runPass(quad.Trapezoid())
		gauss := runPass(quad.GaussLegendre3())
		Expect(gauss.Rows).To(HaveLen(len(trap.Rows)))
		for i := range trap.Rows {
			Expect(math.Abs(gauss.Rows[i].Diff1)).To(BeNumerically("<", math.Abs(trap.Rows[i].Diff1)))
		}
	})

	It("emits non-finite rows instead of halting when the rule is exact", func() {
		q, err := quad.New(0, 1, quad.Midpoint(), quad.Polynomial(1))
		Expect(err).NotTo(HaveOccurred())
		pass, err := convergence.NewDriver(q, 1, convergence.DefaultConfig()).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(pass.Rows).To(HaveLen(6))
		for _, row := range pass.Rows {
			Expect(row.Diff2).To(BeZero())
			Expect(row.Finite()).To(BeFalse())
		}
	})

	It("propagates domain errors unchanged", func() {
		q, err := quad.New(-1, 1, quad.Simpson(), quad.LogHalf)
		Expect(err).NotTo(HaveOccurred())
		pass, err := convergence.NewDriver(q, 0, convergence.DefaultConfig()).Run(context.Background())
		Expect(err).To(MatchError(quad.ErrDomain))
		var derr *quad.DomainError
		Expect(err).To(BeAssignableToTypeOf(derr))
		Expect(pass).To(BeNil())
	})

	It("stops when the context is canceled", func() {
		q, err := quad.New(1, math.E, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = convergence.NewDriver(q, quad.LogHalfExactE, convergence.DefaultConfig()).Run(ctx)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("notifies observers for every row", func() {
		q, err := quad.New(1, math.E, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		d := convergence.NewDriver(q, quad.LogHalfExactE, convergence.DefaultConfig())

		var seen []int
		d.AddObserver(convergence.ObserverFunc(func(rule string, row convergence.Row) {
			Expect(rule).To(Equal("simpson"))
			seen = append(seen, row.N)
		}))
		_, err = d.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(Equal([]int{1, 2, 4, 8, 16, 32}))
	})

	Describe("RunRules", func() {
		It("reuses one composite and swaps rules between passes", func() {
			q, err := quad.New(1, math.E, nil, nil)
			Expect(err).NotTo(HaveOccurred())
			d := convergence.NewDriver(q, quad.LogHalfExactE, convergence.DefaultConfig())

			passes, err := d.RunRules(context.Background(), quad.Simpson(), quad.GaussLegendre3())
			Expect(err).NotTo(HaveOccurred())
			Expect(passes).To(HaveLen(2))
			Expect(passes[0].Rule).To(Equal("simpson"))
			Expect(passes[1].Rule).To(Equal("gauss3"))
			Expect(d.Composite()).To(BeIdenticalTo(q))
			Expect(q.Rule().Name()).To(Equal("gauss3"))
			Expect(q.Interval()).To(Equal(quad.Interval{Left: 1, Right: math.E}))
		})

		It("rejects a nil rule", func() {
			q, err := quad.New(1, math.E, nil, nil)
			Expect(err).NotTo(HaveOccurred())
			_, err = convergence.NewDriver(q, quad.LogHalfExactE, convergence.DefaultConfig()).RunRules(context.Background(), nil)
			Expect(err).To(MatchError(quad.ErrValidation))
		})
	})
})
