package classify

import (
	"testing"

	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/types"
)

func TestAnalyzePartitionsByTier(t *testing.T) {
	records := []types.MetricRecord{
		{Endpoint: "/fast", AvgResponseTimeMs: 100, ErrorRatePercent: 0, ThroughputRPS: 500, Percentile95LatencyMs: 200},
		{Endpoint: "/middling", AvgResponseTimeMs: 1200, ErrorRatePercent: 0.5, ThroughputRPS: 200, Percentile95LatencyMs: 1500},
		{Endpoint: "/slow", AvgResponseTimeMs: 2500, ErrorRatePercent: 8, ThroughputRPS: 5, Percentile95LatencyMs: 6000},
	}
	resp, err := Analyze(records, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(resp.BestAPI) != 1 || resp.BestAPI[0].Metric.Endpoint != "/fast" {
		t.Fatalf("best = %+v", resp.BestAPI)
	}
	if len(resp.Details) != 1 || resp.Details[0].Metric.Endpoint != "/middling" {
		t.Fatalf("details = %+v", resp.Details)
	}
	if len(resp.WorstAPI) != 1 || resp.WorstAPI[0].Metric.Endpoint != "/slow" {
		t.Fatalf("worst = %+v", resp.WorstAPI)
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	resp, err := Analyze(nil, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if resp.BestAPI == nil || resp.WorstAPI == nil || resp.Details == nil {
		t.Fatalf("partitions must be non-nil empty slices: %+v", resp)
	}
	if resp.OverallP95 != 0 {
		t.Fatalf("overall p95 = %v, want 0", resp.OverallP95)
	}
}

func TestAnalyzePropagatesValidationError(t *testing.T) {
	records := []types.MetricRecord{{Endpoint: "/bad", AvgResponseTimeMs: -1}}
	if _, err := Analyze(records, nil); err == nil {
		t.Fatalf("want validation error for negative metric")
	}
}

func TestPercentileNearestRank(t *testing.T) {
	values := []float64{100, 200, 300, 400, 500, 600, 700, 800, 900, 1000}
	if got := percentile(values, 95); got != 1000 {
		t.Fatalf("p95 = %v, want 1000", got)
	}
	if got := percentile([]float64{42}, 95); got != 42 {
		t.Fatalf("single-value p95 = %v, want 42", got)
	}
}
