package profile

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

const timestampHeader = "timestamp"

// ReadCSV parses a consumption table from CSV. The first column must be an
// RFC3339 or "2006-01-02 15:04:05" timestamp; remaining columns are series.
// The step is inferred from the first two rows.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read consumption csv: %w", err)
	}
	if len(records) < 3 {
		return nil, fmt.Errorf("consumption csv needs a header and at least two rows, got %d", len(records))
	}
	header := records[0]
	if len(header) < 2 || header[0] != timestampHeader {
		return nil, fmt.Errorf("consumption csv must start with a %q column", timestampHeader)
	}

	rows := records[1:]
	start, err := parseTimestamp(rows[0][0])
	if err != nil {
		return nil, fmt.Errorf("bad first timestamp: %w", err)
	}
	second, err := parseTimestamp(rows[1][0])
	if err != nil {
		return nil, fmt.Errorf("bad second timestamp: %w", err)
	}
	step := second.Sub(start)
	if step <= 0 {
		return nil, fmt.Errorf("timestamps must be strictly increasing, got step %s", step)
	}

	t := New(start, step, len(rows))
	series := make([][]float64, len(header)-1)
	for i := range series {
		series[i] = make([]float64, len(rows))
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+1, len(row), len(header))
		}
		for j := 1; j < len(row); j++ {
			v, err := strconv.ParseFloat(row[j], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", i+1, header[j], err)
			}
			series[j-1][i] = v
		}
	}
	for j := 1; j < len(header); j++ {
		if err := t.SetColumn(header[j], series[j-1]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// WriteCSV writes the table with a timestamp column followed by every
// series in column order.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := append([]string{timestampHeader}, t.order...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	row := make([]string, len(header))
	for i := 0; i < t.n; i++ {
		row[0] = t.start.Add(time.Duration(i) * t.step).Format(time.RFC3339)
		for j, name := range t.order {
			row[j+1] = strconv.FormatFloat(t.cols[name][i], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
