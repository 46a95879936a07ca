// Package insights derives plain-language findings from per-dataset
// metric statistics: which dataset leads, which trails, and which is
// the most or least consistent.
package insights

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/FEBEN-G/solar-challenge-week0/internal/analysis"
	"github.com/FEBEN-G/solar-challenge-week0/internal/models"
)

// Generate builds an Insight for one metric from grouped statistics.
// Ties on mean or standard deviation go to the group appearing first
// in order. Comparative fields (worst, most consistent, most variable)
// are filled only when at least two groups are present. Displayed
// values are rounded to two decimals here; the underlying statistics
// stay untouched.
func Generate(statsMap map[string]models.MetricStatistics, order []string, metric string) (models.Insight, error) {
	if len(statsMap) == 0 {
		return models.Insight{}, fmt.Errorf("insight for %s: %w", metric, analysis.ErrInsufficientData)
	}

	order = completeOrder(statsMap, order)

	insight := models.Insight{
		Metric:     metric,
		Groups:     len(order),
		GroupMeans: make(map[string]float64, len(order)),
	}
	// NaN means (all values missing) stay out of the map so the
	// insight always encodes as JSON
	for _, group := range order {
		if mean := statsMap[group].Mean; !math.IsNaN(mean) {
			insight.GroupMeans[group] = round2(mean)
		}
	}

	mean := func(s models.MetricStatistics) float64 { return s.Mean }
	std := func(s models.MetricStatistics) float64 { return s.Std }

	if group, value, ok := pick(statsMap, order, mean, func(c, i float64) bool { return c > i }); ok {
		insight.Best = group
		insight.BestMean = round2(value)
	}
	if len(order) < 2 {
		return insight, nil
	}

	if group, value, ok := pick(statsMap, order, mean, func(c, i float64) bool { return c < i }); ok {
		insight.Worst = group
		insight.WorstMean = round2(value)
	}
	if group, _, ok := pick(statsMap, order, std, func(c, i float64) bool { return c < i }); ok {
		insight.MostConsistent = group
	}
	if group, _, ok := pick(statsMap, order, std, func(c, i float64) bool { return c > i }); ok {
		insight.MostVariable = group
	}
	return insight, nil
}

// BuildAll summarizes and generates insights for each metric in turn.
// Metrics absent from the table are collected rather than failing the
// whole run; an empty table fails immediately.
func BuildAll(table *models.CombinedTable, metrics []string) ([]models.Insight, []string, error) {
	var insights []models.Insight
	var skipped []string
	for _, metric := range metrics {
		statsMap, order, err := analysis.Summarize(table, metric)
		if err != nil {
			if errors.Is(err, analysis.ErrMetricNotFound) {
				skipped = append(skipped, metric)
				continue
			}
			return nil, nil, err
		}
		insight, err := Generate(statsMap, order, metric)
		if err != nil {
			return nil, nil, err
		}
		insights = append(insights, insight)
	}
	return insights, skipped, nil
}

// RenderMarkdown formats insights as a markdown section for the
// report summary.
func RenderMarkdown(insights []models.Insight) string {
	if len(insights) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("## Key Findings\n\n")
	for _, in := range insights {
		if in.Best == "" {
			continue
		}
		if in.Groups < 2 {
			b.WriteString(fmt.Sprintf("- **%s**: %s averages %.2f with no other dataset to compare against.\n",
				in.Metric, in.Best, in.BestMean))
			continue
		}
		b.WriteString(fmt.Sprintf("- **%s**: %s leads with a mean of %.2f; %s trails at %.2f.",
			in.Metric, in.Best, in.BestMean, in.Worst, in.WorstMean))
		if in.MostConsistent != "" && in.MostVariable != "" {
			b.WriteString(fmt.Sprintf(" %s shows the steadiest readings while %s swings the most.",
				in.MostConsistent, in.MostVariable))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// completeOrder appends any statsMap groups missing from order so
// every group participates in selection.
func completeOrder(statsMap map[string]models.MetricStatistics, order []string) []string {
	seen := make(map[string]bool, len(order))
	var complete []string
	for _, group := range order {
		if _, ok := statsMap[group]; ok && !seen[group] {
			complete = append(complete, group)
			seen[group] = true
		}
	}
	if len(complete) < len(statsMap) {
		var rest []string
		for group := range statsMap {
			if !seen[group] {
				rest = append(rest, group)
			}
		}
		sort.Strings(rest)
		complete = append(complete, rest...)
	}
	return complete
}

// pick scans groups in order and returns the one whose statistic the
// better func prefers. NaN statistics never win, so the earliest
// non-NaN group takes ties.
func pick(statsMap map[string]models.MetricStatistics, order []string, value func(models.MetricStatistics) float64, better func(candidate, incumbent float64) bool) (string, float64, bool) {
	var (
		bestGroup string
		bestValue float64
		found     bool
	)
	for _, group := range order {
		v := value(statsMap[group])
		if math.IsNaN(v) {
			continue
		}
		if !found || better(v, bestValue) {
			bestGroup, bestValue, found = group, v, true
		}
	}
	return bestGroup, bestValue, found
}

func round2(v float64) float64 {
	rounded, err := stats.Round(v, 2)
	if err != nil {
		return v
	}
	return rounded
}
