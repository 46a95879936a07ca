package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/FEBEN-G/solar-challenge-week0/internal/models"
)

// timestampLayouts are tried in order when parsing the timestamp column.
// Station exports use minute precision; processed files sometimes carry
// seconds or RFC3339.
var timestampLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// parseTable converts delimited text into column names and records.
// Empty cells and non-numeric cells (free-text columns such as Comments)
// become missing values, never zeros. A timestamp column is recognized by
// name and parsed into Record.Timestamp instead of Values.
func parseTable(data []byte) ([]string, []models.Record, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("empty table")
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	tsIndex := -1
	var columns []string
	colIndex := make([]int, 0, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if tsIndex < 0 && isTimestampColumn(name) {
			tsIndex = i
			continue
		}
		columns = append(columns, name)
		colIndex = append(colIndex, i)
	}
	if len(columns) == 0 {
		return nil, nil, fmt.Errorf("no data columns in header")
	}

	var records []models.Record
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row %d: %w", len(records)+2, err)
		}

		rec := models.Record{Values: make(map[string]float64, len(columns))}
		if tsIndex >= 0 && tsIndex < len(row) {
			rec.Timestamp = parseTimestamp(row[tsIndex])
		}
		for j, name := range columns {
			idx := colIndex[j]
			if idx >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[idx])
			if cell == "" || cell == "NA" || cell == "NaN" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				continue // free-text cell, treated as missing
			}
			rec.Values[name] = v
		}
		records = append(records, rec)
	}
	return columns, records, nil
}

func isTimestampColumn(name string) bool {
	switch strings.ToLower(name) {
	case "timestamp", "date_time", "datetime":
		return true
	}
	return false
}

func parseTimestamp(cell string) time.Time {
	cell = strings.TrimSpace(cell)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, cell); err == nil {
			return ts
		}
	}
	return time.Time{}
}
