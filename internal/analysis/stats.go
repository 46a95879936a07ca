// Package analysis computes per-dataset descriptive statistics,
// rankings, z-score outlier counts and missing-value reports over a
// combined measurement table.
package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/FEBEN-G/solar-challenge-week0/internal/models"
	"github.com/FEBEN-G/solar-challenge-week0/internal/schema"
)

var (
	// ErrInsufficientData signals statistics requested on an empty
	// table. Surfaced to callers as a non-fatal "no data" result.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrMetricNotFound signals that the requested metric column is
	// absent from the table.
	ErrMetricNotFound = errors.New("metric not found")
)

// DefaultOutlierThreshold is the z-score cutoff used when none is given.
const DefaultOutlierThreshold = 3.0

// DefaultOutlierColumns are the measurement columns screened for
// outliers by default. Columns absent from a table are reported as
// skipped rather than failing the screen.
var DefaultOutlierColumns = []string{"GHI", "DNI", "DHI", "ModA", "ModB", "WS", "WSgust"}

// Summarize groups the table by dataset and computes mean, median,
// sample standard deviation, count, min and max of one metric per
// group. The returned slice lists group keys in first-appearance order.
// Missing values are excluded from the statistics; a group with fewer
// than two non-missing values reports Std as NaN, never zero.
func Summarize(table *models.CombinedTable, metric string) (map[string]models.MetricStatistics, []string, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, nil, fmt.Errorf("summarize %s: %w", metric, ErrInsufficientData)
	}
	if !schema.HasMetric(table, metric) {
		return nil, nil, fmt.Errorf("summarize %s: %w", metric, ErrMetricNotFound)
	}

	groups := make(map[string][]float64)
	var order []string
	for _, row := range table.Rows {
		if _, seen := groups[row.Dataset]; !seen {
			order = append(order, row.Dataset)
			groups[row.Dataset] = nil
		}
		if v, ok := row.Value(metric); ok {
			groups[row.Dataset] = append(groups[row.Dataset], v)
		}
	}

	statsMap := make(map[string]models.MetricStatistics, len(order))
	for _, group := range order {
		statsMap[group] = describe(groups[group])
	}
	return statsMap, order, nil
}

// describe computes the summary statistics for one group's values.
func describe(values []float64) models.MetricStatistics {
	s := models.MetricStatistics{
		Count:  len(values),
		Mean:   math.NaN(),
		Median: math.NaN(),
		Std:    math.NaN(),
		Min:    math.NaN(),
		Max:    math.NaN(),
	}
	if len(values) == 0 {
		return s
	}

	if mean, err := stats.Mean(values); err == nil {
		s.Mean = mean
	}
	if median, err := stats.Median(values); err == nil {
		s.Median = median
	}
	if min, err := stats.Min(values); err == nil {
		s.Min = min
	}
	if max, err := stats.Max(values); err == nil {
		s.Max = max
	}
	// Sample (n-1) estimator; undefined below two values
	if len(values) >= 2 {
		if std, err := stats.StandardDeviationSample(values); err == nil {
			s.Std = std
		}
	}
	return s
}

// RankEntry is one group's position in a ranking.
type RankEntry struct {
	Group string  `json:"group"`
	Value float64 `json:"value"`
}

// MarshalJSON maps a NaN value to null since encoding/json rejects NaN.
// A group with no values for the ranked metric still appears in the
// ranking output, just without a number.
func (e RankEntry) MarshalJSON() ([]byte, error) {
	var value *float64
	if !math.IsNaN(e.Value) && !math.IsInf(e.Value, 0) {
		value = &e.Value
	}
	return json.Marshal(struct {
		Group string   `json:"group"`
		Value *float64 `json:"value"`
	}{e.Group, value})
}

// Rank orders groups by one statistic. The sort is stable over the
// given first-appearance order, so ties keep that order and ranking an
// already ranked sequence changes nothing. NaN values sort last in
// either direction.
func Rank(statsMap map[string]models.MetricStatistics, order []string, by string, ascending bool) ([]RankEntry, error) {
	value, err := statField(by)
	if err != nil {
		return nil, err
	}

	entries := make([]RankEntry, 0, len(statsMap))
	for _, group := range order {
		st, ok := statsMap[group]
		if !ok {
			continue
		}
		entries = append(entries, RankEntry{Group: group, Value: value(st)})
	}
	// Groups missing from the order slice still rank, appended in a
	// deterministic (sorted-name) tail.
	if len(entries) < len(statsMap) {
		seen := make(map[string]bool, len(entries))
		for _, e := range entries {
			seen[e.Group] = true
		}
		var rest []string
		for group := range statsMap {
			if !seen[group] {
				rest = append(rest, group)
			}
		}
		sort.Strings(rest)
		for _, group := range rest {
			entries = append(entries, RankEntry{Group: group, Value: value(statsMap[group])})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		vi, vj := entries[i].Value, entries[j].Value
		if math.IsNaN(vi) {
			return false
		}
		if math.IsNaN(vj) {
			return true
		}
		if ascending {
			return vi < vj
		}
		return vi > vj
	})
	return entries, nil
}

func statField(by string) (func(models.MetricStatistics) float64, error) {
	switch by {
	case "", "mean":
		return func(s models.MetricStatistics) float64 { return s.Mean }, nil
	case "median":
		return func(s models.MetricStatistics) float64 { return s.Median }, nil
	case "std":
		return func(s models.MetricStatistics) float64 { return s.Std }, nil
	case "count":
		return func(s models.MetricStatistics) float64 { return float64(s.Count) }, nil
	default:
		return nil, fmt.Errorf("unknown ranking field %q", by)
	}
}

// DetectOutliers counts z-score outliers per column. The z-score uses
// each column's own mean and population standard deviation over its
// non-missing values. A zero-variance column yields zero outliers.
// Columns absent from the table are returned separately so callers can
// report them instead of silently dropping charts.
func DetectOutliers(table *models.CombinedTable, columns []string, threshold float64) ([]models.OutlierReport, []string, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, nil, fmt.Errorf("detect outliers: %w", ErrInsufficientData)
	}
	if threshold <= 0 {
		threshold = DefaultOutlierThreshold
	}

	var reports []models.OutlierReport
	var skipped []string
	for _, column := range columns {
		if !schema.HasMetric(table, column) {
			skipped = append(skipped, column)
			continue
		}
		values := table.MetricValues(column)
		report := models.OutlierReport{Column: column, Total: len(values), Threshold: threshold}
		if len(values) > 0 {
			mean, meanErr := stats.Mean(values)
			std, stdErr := stats.StandardDeviation(values)
			if meanErr == nil && stdErr == nil && std > 0 {
				for _, v := range values {
					if math.Abs((v-mean)/std) > threshold {
						report.Count++
					}
				}
			}
		}
		reports = append(reports, report)
	}
	return reports, skipped, nil
}

// MissingReportFor counts missing values per column against the total
// row count of the table.
func MissingReportFor(table *models.CombinedTable) ([]models.MissingReport, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, fmt.Errorf("missing report: %w", ErrInsufficientData)
	}

	total := len(table.Rows)
	reports := make([]models.MissingReport, 0, len(table.Columns))
	for _, column := range table.Columns {
		present := 0
		for _, row := range table.Rows {
			if _, ok := row.Value(column); ok {
				present++
			}
		}
		missing := total - present
		reports = append(reports, models.MissingReport{
			Column:       column,
			MissingCount: missing,
			// Multiply before dividing so exact ratios stay exact
			MissingPercent: float64(missing) * 100 / float64(total),
		})
	}
	return reports, nil
}
