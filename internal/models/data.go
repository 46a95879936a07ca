package models

import (
	"encoding/json"
	"math"
	"time"
)

// Provenance identifies which tier of the loading chain produced a dataset.
type Provenance string

const (
	ProvenanceProcessed Provenance = "processed" // cleaned CSV under data/processed
	ProvenanceRaw       Provenance = "raw"       // station export under data/raw
	ProvenanceSynthetic Provenance = "synthetic" // generated sample data
)

// Record is a single measurement row. Values holds only the metrics that
// were actually present in the source row; a missing reading has no map
// entry rather than a zero or NaN.
type Record struct {
	Timestamp time.Time          `json:"timestamp,omitempty"`
	Values    map[string]float64 `json:"values"`
}

// Value returns the named metric and whether the record carries it.
func (r Record) Value(metric string) (float64, bool) {
	v, ok := r.Values[metric]
	return v, ok
}

// Dataset is one named source (e.g. "Benin") after parsing and
// normalization. Columns preserves source order with canonical names
// appended by the normalizer.
type Dataset struct {
	Name       string     `json:"name"`
	Provenance Provenance `json:"provenance"`
	Columns    []string   `json:"columns"`
	Records    []Record   `json:"-"`
}

// TableRow is a record tagged with the dataset it came from.
type TableRow struct {
	Dataset string `json:"dataset"`
	Record
}

// CombinedTable is the concatenation of one or more datasets. Columns is
// the union of the member columns in first-appearance order; Rows keeps
// per-dataset row order with no deduplication.
type CombinedTable struct {
	Columns []string   `json:"columns"`
	Rows    []TableRow `json:"rows"`
}

// Combine builds a table from datasets in the given order.
func Combine(datasets []Dataset) *CombinedTable {
	t := &CombinedTable{}
	seen := make(map[string]bool)
	for _, ds := range datasets {
		for _, col := range ds.Columns {
			if !seen[col] {
				seen[col] = true
				t.Columns = append(t.Columns, col)
			}
		}
		for _, rec := range ds.Records {
			t.Rows = append(t.Rows, TableRow{Dataset: ds.Name, Record: rec})
		}
	}
	return t
}

// DatasetOrder returns the dataset labels in first-appearance order.
func (t *CombinedTable) DatasetOrder() []string {
	var order []string
	seen := make(map[string]bool)
	for _, row := range t.Rows {
		if !seen[row.Dataset] {
			seen[row.Dataset] = true
			order = append(order, row.Dataset)
		}
	}
	return order
}

// FilterDatasets returns a new table containing only rows from the named
// datasets. The receiver is not modified. The column union is kept as-is
// since column origin is not tracked per dataset.
func (t *CombinedTable) FilterDatasets(names []string) *CombinedTable {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	out := &CombinedTable{Columns: append([]string(nil), t.Columns...)}
	for _, row := range t.Rows {
		if want[row.Dataset] {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// MetricValues returns the non-missing values of a metric across all rows,
// in row order.
func (t *CombinedTable) MetricValues(metric string) []float64 {
	var vals []float64
	for _, row := range t.Rows {
		if v, ok := row.Value(metric); ok {
			vals = append(vals, v)
		}
	}
	return vals
}

// MetricStatistics summarizes one metric within one dataset group.
// Std is the sample (n-1) standard deviation and is NaN when fewer than
// two values are present. NaN fields serialize as null.
type MetricStatistics struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// MarshalJSON maps NaN statistics to null since encoding/json rejects NaN.
func (s MetricStatistics) MarshalJSON() ([]byte, error) {
	opt := func(v float64) *float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return &v
	}
	return json.Marshal(struct {
		Mean   *float64 `json:"mean"`
		Median *float64 `json:"median"`
		Std    *float64 `json:"std"`
		Count  int      `json:"count"`
		Min    *float64 `json:"min"`
		Max    *float64 `json:"max"`
	}{opt(s.Mean), opt(s.Median), opt(s.Std), s.Count, opt(s.Min), opt(s.Max)})
}

// OutlierReport holds z-score outlier counts for one column.
type OutlierReport struct {
	Column    string  `json:"column"`
	Count     int     `json:"count"`     // values with |z| above threshold
	Total     int     `json:"total"`     // non-missing values examined
	Threshold float64 `json:"threshold"` // z-score cutoff
}

// MissingReport holds missing-value counts for one column.
type MissingReport struct {
	Column         string  `json:"column"`
	MissingCount   int     `json:"missing_count"`
	MissingPercent float64 `json:"missing_percent"` // of total rows
}

// Insight is the comparative reading of one metric across dataset groups.
// Comparative fields are empty when fewer than two groups are present.
// Display values are rounded to two decimals at construction; callers
// needing full precision use the statistics map directly.
type Insight struct {
	Metric         string             `json:"metric"`
	Best           string             `json:"best,omitempty"`
	BestMean       float64            `json:"best_mean,omitempty"`
	Worst          string             `json:"worst,omitempty"`
	WorstMean      float64            `json:"worst_mean,omitempty"`
	MostConsistent string             `json:"most_consistent,omitempty"`
	MostVariable   string             `json:"most_variable,omitempty"`
	Groups         int                `json:"groups"`
	GroupMeans     map[string]float64 `json:"group_means"`
}

// LoadFailure records one dataset that could not be loaded during a batch.
type LoadFailure struct {
	Dataset string `json:"dataset"`
	Err     error  `json:"-"`
	Message string `json:"error"`
}

// DatasetStatus describes one catalog entry for the dashboard footer.
type DatasetStatus struct {
	Name          string     `json:"name"`
	Provenance    Provenance `json:"provenance,omitempty"`
	ProcessedPath string     `json:"processed_path"`
	RawPath       string     `json:"raw_path"`
	FileFound     bool       `json:"file_found"`
	FileSizeKB    float64    `json:"file_size_kb,omitempty"`
	Rows          int        `json:"rows,omitempty"`
	Cached        bool       `json:"cached"`
}
