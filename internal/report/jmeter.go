package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	t "github.com/RamuVenkatesan-infosrc/Report-sub000/internal/types"
)

// JMeterDecoder reads a JMeter results CSV (JTL). Each row is one
// sample; rows are aggregated per label into a single metric record.
type JMeterDecoder struct{}

var errMissingColumns = errors.New("report: required columns missing")

type jmeterBucket struct {
	order    int
	elapsed  []float64
	failures int
	firstTS  int64
	lastTS   int64
	hasTS    bool
}

func (d *JMeterDecoder) Decode(r io.Reader) ([]t.MetricRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("report: read jmeter header: %w", err)
	}
	idx := indexHeader(header)
	labelCol := idx.col("label", "name")
	elapsedCol := idx.col("elapsed", "time")
	if labelCol < 0 || elapsedCol < 0 {
		return nil, errMissingColumns
	}
	successCol := idx.col("success")
	tsCol := idx.col("timestamp")

	buckets := map[string]*jmeterBucket{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("report: read jmeter row: %w", err)
		}
		if labelCol >= len(row) || elapsedCol >= len(row) {
			continue
		}
		label := strings.TrimSpace(row[labelCol])
		if label == "" {
			continue
		}
		elapsed, err := strconv.ParseFloat(strings.TrimSpace(row[elapsedCol]), 64)
		if err != nil {
			continue
		}

		b := buckets[label]
		if b == nil {
			b = &jmeterBucket{order: len(buckets)}
			buckets[label] = b
		}
		b.elapsed = append(b.elapsed, elapsed)
		if successCol >= 0 && successCol < len(row) &&
			!strings.EqualFold(strings.TrimSpace(row[successCol]), "true") {
			b.failures++
		}
		if tsCol >= 0 && tsCol < len(row) {
			if ts, err := strconv.ParseInt(strings.TrimSpace(row[tsCol]), 10, 64); err == nil {
				if !b.hasTS || ts < b.firstTS {
					b.firstTS = ts
				}
				if !b.hasTS || ts > b.lastTS {
					b.lastTS = ts
				}
				b.hasTS = true
			}
		}
	}

	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		return buckets[labels[i]].order < buckets[labels[j]].order
	})

	records := make([]t.MetricRecord, 0, len(labels))
	for _, label := range labels {
		b := buckets[label]
		records = append(records, t.MetricRecord{
			Endpoint:              label,
			AvgResponseTimeMs:     mean(b.elapsed),
			ErrorRatePercent:      float64(b.failures) / float64(len(b.elapsed)) * 100,
			ThroughputRPS:         throughput(len(b.elapsed), b),
			Percentile95LatencyMs: p95(b.elapsed),
		})
	}
	return records, nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// throughput derives requests per second from the sample timestamp
// window; without timestamps it cannot be estimated and is reported as
// zero.
func throughput(samples int, b *jmeterBucket) float64 {
	if !b.hasTS || b.lastTS <= b.firstTS {
		return 0
	}
	seconds := float64(b.lastTS-b.firstTS) / 1000
	return float64(samples) / seconds
}
