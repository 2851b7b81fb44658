package storage

import (
	"encoding/json"
	"io"
	"math"

	"github.com/san-kum/quadlab/internal/convergence"
)

type ExportData struct {
	Run    RunMetadata  `json:"run"`
	Passes []ExportPass `json:"passes"`
}

type ExportPass struct {
	Rule string      `json:"rule"`
	Rows []ExportRow `json:"rows"`
}

// ExportRow mirrors convergence.Row with non-finite values as null, since
// encoding/json rejects NaN and Inf.
type ExportRow struct {
	N            int      `json:"n"`
	H            float64  `json:"h"`
	Step         float64  `json:"step"`
	H1           float64  `json:"h1"`
	H2           float64  `json:"h2"`
	Diff1        float64  `json:"diff1"`
	Diff2        float64  `json:"diff2"`
	Ratio        *float64 `json:"ratio"`
	K            *float64 `json:"k"`
	Order        *float64 `json:"order"`
	Correction   *float64 `json:"correction"`
	Extrapolated *float64 `json:"extrapolated"`
	Residual     *float64 `json:"residual"`
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func exportRow(r convergence.Row) ExportRow {
	return ExportRow{
		N:            r.N,
		H:            r.H,
		Step:         r.Step,
		H1:           r.H1,
		H2:           r.H2,
		Diff1:        r.Diff1,
		Diff2:        r.Diff2,
		Ratio:        finite(r.Ratio),
		K:            finite(r.K),
		Order:        finite(r.Order),
		Correction:   finite(r.Correction),
		Extrapolated: finite(r.Extrapolated),
		Residual:     finite(r.Residual),
	}
}

func ExportJSON(w io.Writer, meta RunMetadata, passes []*convergence.Pass) error {
	data := ExportData{
		Run:    meta,
		Passes: make([]ExportPass, 0, len(passes)),
	}
	for _, p := range passes {
		ep := ExportPass{Rule: p.Rule, Rows: make([]ExportRow, 0, len(p.Rows))}
		for _, r := range p.Rows {
			ep.Rows = append(ep.Rows, exportRow(r))
		}
		data.Passes = append(data.Passes, ep)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
