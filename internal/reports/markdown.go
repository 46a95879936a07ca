package reports

import (
	"fmt"
	"math"
	"strings"

	"github.com/FEBEN-G/solar-challenge-week0/internal/insights"
	"github.com/FEBEN-G/solar-challenge-week0/internal/models"
)

// BuildMarkdownSummary renders the report's summary.md from one run's
// computed results. The same markdown feeds the HTML report through
// goldmark.
func BuildMarkdownSummary(rd *ReportData) string {
	var b strings.Builder

	b.WriteString("# Solar Irradiance Comparison Report\n\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n\n", rd.GeneratedAt.Format("2006-01-02 15:04:05 UTC")))

	writeDatasetSection(&b, rd)
	writeFailureSection(&b, rd.Failures)

	if md := insights.RenderMarkdown(rd.Insights); md != "" {
		b.WriteString(md)
		b.WriteString("\n")
	}

	writeStatisticsSection(&b, rd)
	writeDataQualitySection(&b, rd)

	if rd.Narrative != "" {
		b.WriteString("## Analyst Commentary\n\n")
		b.WriteString(strings.TrimSpace(rd.Narrative))
		b.WriteString("\n\n")
	}

	return b.String()
}

func writeDatasetSection(b *strings.Builder, rd *ReportData) {
	if len(rd.Statuses) == 0 {
		return
	}

	b.WriteString("## Datasets\n\n")
	b.WriteString("| Dataset | Provenance | Rows | Source |\n")
	b.WriteString("|---------|------------|------|--------|\n")
	for _, status := range rd.Statuses {
		source := status.ProcessedPath
		if status.Provenance == models.ProvenanceRaw {
			source = status.RawPath
		} else if status.Provenance == models.ProvenanceSynthetic {
			source = "generated"
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %d | %s |\n",
			status.Name, ToTitleCase(string(status.Provenance)), status.Rows, source))
	}
	b.WriteString("\n")

	for _, status := range rd.Statuses {
		if status.Provenance == models.ProvenanceSynthetic {
			b.WriteString("> **Note**: one or more datasets are synthetic samples generated because no measurement files were available. Treat their figures as illustrative only.\n\n")
			break
		}
	}
}

func writeFailureSection(b *strings.Builder, failures []models.LoadFailure) {
	if len(failures) == 0 {
		return
	}

	b.WriteString("## Load Failures\n\n")
	for _, failure := range failures {
		b.WriteString(fmt.Sprintf("- **%s**: %s\n", failure.Dataset, failure.Message))
	}
	b.WriteString("\n")
}

func writeStatisticsSection(b *strings.Builder, rd *ReportData) {
	if len(rd.Metrics) == 0 {
		return
	}

	b.WriteString("## Descriptive Statistics\n\n")
	for _, metric := range rd.Metrics {
		groups, ok := rd.Statistics[metric]
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("### %s\n\n", metric))
		b.WriteString("| Dataset | Mean | Median | Std | Count | Min | Max |\n")
		b.WriteString("|---------|------|--------|-----|-------|-----|-----|\n")
		for _, group := range rd.GroupOrder {
			s, ok := groups[group]
			if !ok {
				continue
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %d | %s | %s |\n",
				group, fmtStat(s.Mean), fmtStat(s.Median), fmtStat(s.Std),
				s.Count, fmtStat(s.Min), fmtStat(s.Max)))
		}
		b.WriteString("\n")
	}
}

func writeDataQualitySection(b *strings.Builder, rd *ReportData) {
	if len(rd.Missing) == 0 && len(rd.Outliers) == 0 {
		return
	}

	b.WriteString("## Data Quality\n\n")

	if len(rd.Missing) > 0 {
		b.WriteString("### Missing Values\n\n")
		b.WriteString("| Column | Missing | Percent |\n")
		b.WriteString("|--------|---------|--------|\n")
		for _, report := range rd.Missing {
			b.WriteString(fmt.Sprintf("| %s | %d | %.1f%% |\n",
				report.Column, report.MissingCount, report.MissingPercent))
		}
		b.WriteString("\n")
	}

	if len(rd.Outliers) > 0 {
		b.WriteString(fmt.Sprintf("### Outliers (|z| > %.1f)\n\n", rd.Outliers[0].Threshold))
		b.WriteString("| Column | Outliers | Values Checked |\n")
		b.WriteString("|--------|----------|----------------|\n")
		for _, report := range rd.Outliers {
			b.WriteString(fmt.Sprintf("| %s | %d | %d |\n",
				report.Column, report.Count, report.Total))
		}
		b.WriteString("\n")
	}

	if len(rd.OutliersSkipped) > 0 {
		b.WriteString(fmt.Sprintf("Columns without data, skipped from outlier screening: %s.\n\n",
			strings.Join(rd.OutliersSkipped, ", ")))
	}
}

// fmtStat prints a statistic to two decimals, or n/a when undefined.
func fmtStat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}
