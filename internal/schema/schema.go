// Package schema maps heterogeneous station-export column names onto the
// canonical solar metric vocabulary used everywhere else in the service.
package schema

import (
	"github.com/FEBEN-G/solar-challenge-week0/internal/models"
)

// CanonicalMetrics is the metric vocabulary the dashboard and statistics
// layers understand. Source columns outside this list pass through
// normalization untouched.
var CanonicalMetrics = []string{
	"GHI", "DNI", "DHI", "Tamb", "ModA", "ModB",
	"WS", "WSgust", "WD", "RH", "BP",
}

type aliasPair struct {
	Source    string
	Canonical string
}

// aliases is the fixed source-to-canonical mapping, in application order.
// Station exports disagree on module temperature and meteo column names;
// the first alias whose source column is present wins for each canonical.
var aliases = []aliasPair{
	{"TModA", "ModA"},
	{"TModB", "ModB"},
	{"TAmb", "Tamb"},
	{"AmbientTemp", "Tamb"},
	{"WindSpeed", "WS"},
	{"WSGust", "WSgust"},
	{"WindDir", "WD"},
	{"Humidity", "RH"},
	{"RelHumidity", "RH"},
	{"Pressure", "BP"},
}

// IsCanonical reports whether name is part of the canonical vocabulary.
func IsCanonical(name string) bool {
	for _, m := range CanonicalMetrics {
		if m == name {
			return true
		}
	}
	return false
}

// HasMetric reports whether the table exposes the named column. Callers
// check this once per operation instead of probing row maps ad hoc.
func HasMetric(t *models.CombinedTable, metric string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == metric {
			return true
		}
	}
	return false
}

// NormalizeDataset aliases source columns onto canonical names. The value
// is copied, never moved, so the original column survives for
// traceability. A canonical column already present is left alone, which
// makes the operation idempotent. The input dataset is not modified.
func NormalizeDataset(ds models.Dataset) models.Dataset {
	present := make(map[string]bool, len(ds.Columns))
	for _, c := range ds.Columns {
		present[c] = true
	}

	var applied []aliasPair
	for _, p := range aliases {
		if present[p.Source] && !present[p.Canonical] {
			applied = append(applied, p)
			present[p.Canonical] = true
		}
	}
	if len(applied) == 0 {
		return ds
	}

	out := ds
	out.Columns = append([]string(nil), ds.Columns...)
	for _, p := range applied {
		out.Columns = append(out.Columns, p.Canonical)
	}
	out.Records = make([]models.Record, len(ds.Records))
	for i, rec := range ds.Records {
		values := make(map[string]float64, len(rec.Values)+len(applied))
		for k, v := range rec.Values {
			values[k] = v
		}
		for _, p := range applied {
			v, ok := values[p.Source]
			if !ok {
				continue
			}
			if _, exists := values[p.Canonical]; !exists {
				values[p.Canonical] = v
			}
		}
		out.Records[i] = models.Record{Timestamp: rec.Timestamp, Values: values}
	}
	return out
}

// Normalize applies the alias table to a combined table, returning a new
// table. Row order and dataset tags are preserved.
func Normalize(t *models.CombinedTable) *models.CombinedTable {
	if t == nil {
		return nil
	}
	present := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		present[c] = true
	}

	var applied []aliasPair
	for _, p := range aliases {
		if present[p.Source] && !present[p.Canonical] {
			applied = append(applied, p)
			present[p.Canonical] = true
		}
	}
	if len(applied) == 0 {
		return t
	}

	out := &models.CombinedTable{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]models.TableRow, len(t.Rows)),
	}
	for _, p := range applied {
		out.Columns = append(out.Columns, p.Canonical)
	}
	for i, row := range t.Rows {
		values := make(map[string]float64, len(row.Values)+len(applied))
		for k, v := range row.Values {
			values[k] = v
		}
		for _, p := range applied {
			v, ok := values[p.Source]
			if !ok {
				continue
			}
			if _, exists := values[p.Canonical]; !exists {
				values[p.Canonical] = v
			}
		}
		out.Rows[i] = models.TableRow{
			Dataset: row.Dataset,
			Record:  models.Record{Timestamp: row.Timestamp, Values: values},
		}
	}
	return out
}
