package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/san-kum/quadlab/internal/convergence"
)

// WriteTable prints one pass as a fixed-width scientific table.
func WriteTable(w io.Writer, p *convergence.Pass) error {
	if _, err := fmt.Fprintln(w, TitleStyle.Render(p.Rule)); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "n\th\tdiff1\tratio\ttemp\th2+temp\tdiff2-temp\tlog2(K)\t")
	for _, r := range p.Rows {
		fmt.Fprintf(tw, "%d\t%.4e\t%.6e\t%.6e\t%.6e\t%.12e\t%.6e\t%.6f\t\n",
			r.N, r.H, r.Diff1, r.Ratio, r.Correction, r.Extrapolated, r.Residual, r.Order)
	}
	return tw.Flush()
}

// WriteTables prints every pass separated by a blank line.
func WriteTables(w io.Writer, passes []*convergence.Pass) error {
	for i, p := range passes {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := WriteTable(w, p); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary prints the final order estimate and extrapolated value per
// rule.
func WriteSummary(w io.Writer, passes []*convergence.Pass, exact float64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "RULE\tFINAL N\tORDER\tEXTRAPOLATED\tERROR\n")
	for _, p := range passes {
		last, ok := p.Last()
		if !ok {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\n", p.Rule)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.15f\t%.2e\n",
			p.Rule, 2*last.N, last.Order, last.Extrapolated, exact-last.Extrapolated)
	}
	return tw.Flush()
}
