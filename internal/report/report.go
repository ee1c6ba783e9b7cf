// Package report decodes load-test tool exports into the metric
// records the analyzer consumes.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	t "github.com/RamuVenkatesan-infosrc/Report-sub000/internal/types"
)

// Decoder turns one tool's export into per-endpoint metric records.
type Decoder interface {
	Decode(r io.Reader) ([]t.MetricRecord, error)
}

// ForFormat returns the decoder registered for a format name.
func ForFormat(format string) (Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jmeter", "jtl":
		return &JMeterDecoder{}, nil
	case "locust":
		return &LocustDecoder{}, nil
	default:
		return nil, fmt.Errorf("report: unknown format %q", format)
	}
}

// headerIndex maps lowercased column names to positions, so decoders
// tolerate the capitalization drift between tool versions.
type headerIndex map[string]int

func indexHeader(row []string) headerIndex {
	idx := make(headerIndex, len(row))
	for i, name := range row {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

// col returns the first present column among names, or -1.
func (h headerIndex) col(names ...string) int {
	for _, n := range names {
		if i, ok := h[n]; ok {
			return i
		}
	}
	return -1
}

func p95(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	rank := int(float64(len(sorted))*0.95+0.5) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}
