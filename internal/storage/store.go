package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/quadlab/internal/convergence"
	"github.com/san-kum/quadlab/internal/quad"
)

const (
	metadataFile = "metadata.json"
	rowsFile     = "rows.csv"
)

var rowsHeader = []string{
	"pass", "rule", "n", "h", "step", "h1", "h2", "diff1", "diff2",
	"ratio", "k", "order", "correction", "extrapolated", "residual",
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RuleMetadata struct {
	Name    string    `json:"name"`
	Nodes   []float64 `json:"nodes"`
	Weights []float64 `json:"weights"`
}

type RunMetadata struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Timestamp time.Time      `json:"timestamp"`
	Left      float64        `json:"left"`
	Right     float64        `json:"right"`
	Exact     float64        `json:"exact"`
	Start     int            `json:"start"`
	Limit     int            `json:"limit"`
	Rules     []RuleMetadata `json:"rules"`
}

// NewMetadata describes a run over iv with the given rules.
func NewMetadata(name string, iv quad.Interval, exact float64, cfg convergence.Config, rules []*quad.Rule) RunMetadata {
	meta := RunMetadata{
		Name:  name,
		Left:  iv.Left,
		Right: iv.Right,
		Exact: exact,
		Start: cfg.Start,
		Limit: cfg.Limit,
		Rules: make([]RuleMetadata, 0, len(rules)),
	}
	for _, r := range rules {
		meta.Rules = append(meta.Rules, RuleMetadata{Name: r.Name(), Nodes: r.Nodes(), Weights: r.Weights()})
	}
	return meta
}

// Save writes metadata.json and rows.csv into a new run directory and
// returns the run id.
func (s *Store) Save(meta RunMetadata, passes []*convergence.Pass) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, rowsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(rowsHeader); err != nil {
		return "", err
	}
	for i, p := range passes {
		for _, row := range p.Rows {
			if err := w.Write(encodeRow(i, p.Rule, row)); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func encodeRow(pass int, rule string, r convergence.Row) []string {
	return []string{
		strconv.Itoa(pass),
		rule,
		strconv.Itoa(r.N),
		formatFloat(r.H),
		formatFloat(r.Step),
		formatFloat(r.H1),
		formatFloat(r.H2),
		formatFloat(r.Diff1),
		formatFloat(r.Diff2),
		formatFloat(r.Ratio),
		formatFloat(r.K),
		formatFloat(r.Order),
		formatFloat(r.Correction),
		formatFloat(r.Extrapolated),
		formatFloat(r.Residual),
	}
}

func decodeRow(record []string) (int, string, convergence.Row, error) {
	if len(record) != len(rowsHeader) {
		return 0, "", convergence.Row{}, fmt.Errorf("storage: expected %d columns, got %d", len(rowsHeader), len(record))
	}
	pass, err := strconv.Atoi(record[0])
	if err != nil || pass < 0 {
		return 0, "", convergence.Row{}, fmt.Errorf("storage: bad pass %q", record[0])
	}
	n, err := strconv.Atoi(record[2])
	if err != nil {
		return 0, "", convergence.Row{}, fmt.Errorf("storage: bad n %q: %w", record[2], err)
	}

	vals := make([]float64, len(record)-3)
	for i, field := range record[3:] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return 0, "", convergence.Row{}, fmt.Errorf("storage: bad %s %q: %w", rowsHeader[i+3], field, err)
		}
		vals[i] = v
	}

	return pass, record[1], convergence.Row{
		N:            n,
		H:            vals[0],
		Step:         vals[1],
		H1:           vals[2],
		H2:           vals[3],
		Diff1:        vals[4],
		Diff2:        vals[5],
		Ratio:        vals[6],
		K:            vals[7],
		Order:        vals[8],
		Correction:   vals[9],
		Extrapolated: vals[10],
		Residual:     vals[11],
	}, nil
}

// List returns the metadata of every run, oldest first. Directories
// without readable metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadPasses reads rows.csv back into passes, grouped by the pass column
// in file order. Passes sharing a rule name stay separate.
func (s *Store) LoadPasses(runID string) ([]*convergence.Pass, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, rowsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []*convergence.Pass{}, nil
	}

	var passes []*convergence.Pass
	byIndex := make(map[int]*convergence.Pass)
	for _, record := range records[1:] {
		idx, rule, row, err := decodeRow(record)
		if err != nil {
			return nil, err
		}
		p, ok := byIndex[idx]
		if !ok {
			p = &convergence.Pass{Rule: rule}
			byIndex[idx] = p
			passes = append(passes, p)
		}
		p.Rows = append(p.Rows, row)
	}
	return passes, nil
}
