package dataset

import (
	"math/rand"
	"time"

	"github.com/FEBEN-G/solar-challenge-week0/internal/models"
)

// SampleConfig controls synthetic sample generation.
type SampleConfig struct {
	Rows  int
	Seed  int64
	Start time.Time
}

// DefaultSampleConfig matches the demonstration data the dashboard falls
// back to: 500 hourly rows per dataset from a fixed seed.
func DefaultSampleConfig(seed int64) SampleConfig {
	return SampleConfig{
		Rows:  500,
		Seed:  seed,
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

var sampleColumns = []string{"GHI", "DNI", "DHI", "Tamb", "WS", "RH"}

// GenerateSample fabricates demonstration datasets when no real file
// loads. Every dataset is tagged ProvenanceSynthetic so the UI can state
// that the numbers are not measurements. Irradiance and temperature means
// get a per-dataset offset so the comparison charts stay interesting;
// generation is deterministic for a given seed.
func GenerateSample(names []string, cfg SampleConfig) []models.Dataset {
	rng := rand.New(rand.NewSource(cfg.Seed))

	datasets := make([]models.Dataset, 0, len(names))
	for _, name := range names {
		ghiMean := 500 + float64(rng.Intn(100)-50)
		dniMean := 600 + float64(rng.Intn(100)-50)
		dhiMean := 300 + float64(rng.Intn(100)-50)
		tambMean := 25 + float64(rng.Intn(10)-5)

		ds := models.Dataset{
			Name:       name,
			Provenance: models.ProvenanceSynthetic,
			Columns:    append([]string(nil), sampleColumns...),
			Records:    make([]models.Record, cfg.Rows),
		}
		for i := 0; i < cfg.Rows; i++ {
			ds.Records[i] = models.Record{
				Timestamp: cfg.Start.Add(time.Duration(i) * time.Hour),
				Values: map[string]float64{
					"GHI":  rng.NormFloat64()*100 + ghiMean,
					"DNI":  rng.NormFloat64()*150 + dniMean,
					"DHI":  rng.NormFloat64()*80 + dhiMean,
					"Tamb": rng.NormFloat64()*5 + tambMean,
					"WS":   rng.NormFloat64()*1 + 3,
					"RH":   rng.NormFloat64()*15 + 60,
				},
			}
		}
		datasets = append(datasets, ds)
	}
	return datasets
}
