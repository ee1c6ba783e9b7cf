package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	t "github.com/RamuVenkatesan-infosrc/Report-sub000/internal/types"
)

// LocustDecoder reads a Locust stats CSV, where each row is already an
// aggregate per endpoint. The synthetic "Aggregated" total row is
// skipped.
type LocustDecoder struct{}

func (d *LocustDecoder) Decode(r io.Reader) ([]t.MetricRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("report: read locust header: %w", err)
	}
	idx := indexHeader(header)
	nameCol := idx.col("name")
	avgCol := idx.col("average response time", "time")
	if nameCol < 0 || avgCol < 0 {
		return nil, errMissingColumns
	}
	countCol := idx.col("request count")
	failCol := idx.col("failure count")
	rpsCol := idx.col("requests/s")
	p95Col := idx.col("95%", "95%ile")

	var records []t.MetricRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("report: read locust row: %w", err)
		}
		if nameCol >= len(row) || avgCol >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[nameCol])
		if name == "" || strings.EqualFold(name, "aggregated") {
			continue
		}

		avg := field(row, avgCol)
		count := field(row, countCol)
		failures := field(row, failCol)
		errorRate := 0.0
		if count > 0 {
			errorRate = failures / count * 100
		}
		records = append(records, t.MetricRecord{
			Endpoint:              name,
			AvgResponseTimeMs:     avg,
			ErrorRatePercent:      errorRate,
			ThroughputRPS:         field(row, rpsCol),
			Percentile95LatencyMs: field(row, p95Col),
		})
	}
	return records, nil
}

func field(row []string, col int) float64 {
	if col < 0 || col >= len(row) {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
	if err != nil {
		return 0
	}
	return v
}
