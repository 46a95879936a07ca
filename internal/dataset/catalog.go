package dataset

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source describes where one dataset's files live under the data root.
// ProcessedFile is optional; when empty it is derived from the dataset
// name. RawFile has no derivation rule since station exports carry
// site-specific names.
type Source struct {
	Name          string `yaml:"name"`
	ProcessedFile string `yaml:"processed_file,omitempty"`
	RawFile       string `yaml:"raw_file,omitempty"`
}

// Catalog is the ordered set of datasets the dashboard knows about.
type Catalog struct {
	Sources []Source `yaml:"datasets"`
}

// DefaultCatalog returns the built-in three-country catalog with the raw
// station export names fixed by the measurement campaign.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Sources: []Source{
			{Name: "Benin", RawFile: "benin-malanville.csv"},
			{Name: "Sierra Leone", RawFile: "sierraleone-bumbuna.csv"},
			{Name: "Togo", RawFile: "togo-dapaong_qc.csv"},
		},
	}
}

// LoadCatalog reads a YAML catalog override from disk.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset catalog %s: %w", path, err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse dataset catalog %s: %w", path, err)
	}
	if len(c.Sources) == 0 {
		return nil, fmt.Errorf("dataset catalog %s lists no datasets", path)
	}
	return &c, nil
}

// Names returns the dataset names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Sources))
	for i, s := range c.Sources {
		names[i] = s.Name
	}
	return names
}

// Lookup finds a source by dataset name.
func (c *Catalog) Lookup(name string) (Source, bool) {
	for _, s := range c.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return Source{}, false
}

// ProcessedPath returns the processed-file path relative to the data
// root, deriving the conventional {name}_clean.csv filename when the
// source does not pin one.
func (s Source) ProcessedPath() string {
	file := s.ProcessedFile
	if file == "" {
		file = strings.ToLower(strings.ReplaceAll(s.Name, " ", "_")) + "_clean.csv"
	}
	return "processed/" + file
}

// RawPath returns the raw-file path relative to the data root, or empty
// when no raw export is known for the source.
func (s Source) RawPath() string {
	if s.RawFile == "" {
		return ""
	}
	return "raw/" + s.RawFile
}
