// Package llm generates optional narrative commentary over computed
// irradiance statistics through the OpenAI chat API.
package llm

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/FEBEN-G/solar-challenge-week0/internal/models"
)

//go:embed system_prompt.txt
var systemPrompt string

// NarrativeInput carries the computed results the commentary prompt
// is built from.
type NarrativeInput struct {
	GeneratedAt time.Time
	Datasets    []models.DatasetStatus
	Insights    []models.Insight
	Statistics  map[string]map[string]models.MetricStatistics
	Outliers    []models.OutlierReport
	Missing     []models.MissingReport
}

// OpenAIClient handles OpenAI API interactions
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// GenerateNarrative produces a markdown commentary for the report.
// The input must already contain the statistics; the model only
// narrates, it never computes.
func (c *OpenAIClient) GenerateNarrative(ctx context.Context, input *NarrativeInput) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("OpenAI client not initialized")
	}
	if input == nil {
		return "", fmt.Errorf("narrative input is required")
	}

	log.Printf("Generating narrative for %s", input.GeneratedAt.Format("2006-01-02"))

	prompt := c.buildPrompt(input)

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   4000,
			Temperature: 0.3,
		},
	)

	if err != nil {
		log.Printf("OpenAI API error: %v", err)
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	narrative := resp.Choices[0].Message.Content
	log.Printf("Generated narrative with %d characters", len(narrative))

	return narrative, nil
}

// BuildPrompt constructs the user prompt - public method
func (c *OpenAIClient) BuildPrompt(input *NarrativeInput) string {
	return c.buildPrompt(input)
}

// GetSystemPrompt returns the system prompt sent with every request
func (c *OpenAIClient) GetSystemPrompt() string {
	return systemPrompt
}

// buildPrompt lays out the computed results as JSON sections the
// model can quote from.
func (c *OpenAIClient) buildPrompt(input *NarrativeInput) string {
	prompt := fmt.Sprintf(`## Solar Irradiance Comparison Data (as of %s)

Please analyze the following computed results and write the narrative commentary. The data includes:
- Dataset inventory with provenance (processed, raw or synthetic)
- Per-metric insights (best, worst, most consistent, most variable)
- Descriptive statistics per metric and dataset
- Z-score outlier counts and missing-value rates

`, input.GeneratedAt.Format("2006-01-02 15:04 UTC"))

	if len(input.Datasets) > 0 {
		prompt += "### Dataset Inventory:\n```json\n"
		if jsonData, err := json.MarshalIndent(input.Datasets, "", "  "); err == nil {
			prompt += string(jsonData)
		} else {
			prompt += "Error marshaling dataset inventory"
		}
		prompt += "\n```\n\n"
	}

	if len(input.Insights) > 0 {
		prompt += "### Insights:\n```json\n"
		if jsonData, err := json.MarshalIndent(input.Insights, "", "  "); err == nil {
			prompt += string(jsonData)
		} else {
			prompt += "Error marshaling insights"
		}
		prompt += "\n```\n\n"
	}

	if len(input.Statistics) > 0 {
		prompt += "### Descriptive Statistics (per metric, per dataset):\n```json\n"
		if jsonData, err := json.MarshalIndent(input.Statistics, "", "  "); err == nil {
			prompt += string(jsonData)
		} else {
			prompt += "Error marshaling statistics"
		}
		prompt += "\n```\n\n"
	}

	if len(input.Outliers) > 0 {
		prompt += "### Outlier Counts:\n```json\n"
		if jsonData, err := json.MarshalIndent(input.Outliers, "", "  "); err == nil {
			prompt += string(jsonData)
		} else {
			prompt += "Error marshaling outlier counts"
		}
		prompt += "\n```\n\n"
	}

	if len(input.Missing) > 0 {
		prompt += "### Missing-Value Rates:\n```json\n"
		if jsonData, err := json.MarshalIndent(input.Missing, "", "  "); err == nil {
			prompt += string(jsonData)
		} else {
			prompt += "Error marshaling missing-value rates"
		}
		prompt += "\n```\n\n"
	}

	prompt += `### Instructions:
Write the commentary described in your system prompt. Quote concrete numbers from the sections above and flag any dataset whose provenance is synthetic so readers do not mistake generated values for measurements.`

	return prompt
}
