package reports

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/FEBEN-G/solar-challenge-week0/internal/config"
	"github.com/FEBEN-G/solar-challenge-week0/internal/models"
)

//go:embed templates/report.html
var templateFS embed.FS

// HTMLBuilder renders report markdown into the embedded HTML shell with goldmark
type HTMLBuilder struct {
	tmpl     *template.Template
	goldmark goldmark.Markdown
}

// NewHTMLBuilder creates an HTML builder
func NewHTMLBuilder() *HTMLBuilder {
	// Configure goldmark with extensions
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(), // Allow raw HTML in markdown
		),
	)

	return &HTMLBuilder{
		tmpl:     template.Must(template.ParseFS(templateFS, "templates/report.html")),
		goldmark: md,
	}
}

// TemplateData represents the data structure for the HTML template
type TemplateData struct {
	Date            string
	GeneratedAt     string
	Version         string
	Content         template.HTML
	ChartsHTML      template.HTML
	SyntheticNotice bool
}

// ConvertMarkdownToHTML converts markdown to HTML using goldmark
func (h *HTMLBuilder) ConvertMarkdownToHTML(markdownContent string) (string, error) {
	var buf bytes.Buffer
	if err := h.goldmark.Convert([]byte(markdownContent), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// BuildCompleteHTML converts the report markdown and renders the full page,
// including image tags for the stored chart files.
func (h *HTMLBuilder) BuildCompleteHTML(rd *ReportData, chartFiles []string) (string, error) {
	htmlContent, err := h.ConvertMarkdownToHTML(BuildMarkdownSummary(rd))
	if err != nil {
		return "", err
	}

	data := TemplateData{
		Date:            rd.GeneratedAt.Format("2006-01-02"),
		GeneratedAt:     rd.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"),
		Version:         config.GetVersion(),
		Content:         template.HTML(htmlContent),
		ChartsHTML:      buildChartImagesHTML(chartFiles),
		SyntheticNotice: hasSyntheticData(rd.Statuses),
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// buildChartImagesHTML creates image tags for chart PNGs. The report page is
// stored in the same folder as the images, so bare file names resolve through
// the /files/ proxy in both local and GCS modes.
func buildChartImagesHTML(chartFiles []string) template.HTML {
	if len(chartFiles) == 0 {
		return ""
	}

	var b strings.Builder
	for _, chartFile := range chartFiles {
		filename := filepath.Base(chartFile)
		title := TitleFromFile(filename)

		b.WriteString(fmt.Sprintf(`
		<div class="chart-container">
			<h3>%s</h3>
			<img src="%s" alt="%s">
		</div>
		`, title, filename, title))
	}
	return template.HTML(b.String())
}

func hasSyntheticData(statuses []models.DatasetStatus) bool {
	for _, s := range statuses {
		if s.Provenance == models.ProvenanceSynthetic {
			return true
		}
	}
	return false
}
