// Package classify buckets endpoint metrics into performance tiers by
// deterministic penalty scoring against configurable dual thresholds.
package classify

import (
	"fmt"

	t "github.com/RamuVenkatesan-infosrc/Report-sub000/internal/types"
)

// ValidationError reports a malformed MetricRecord or ThresholdConfig.
// It is always surfaced to the caller, never silently corrected.
type ValidationError struct {
	Field string
	Value float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("classify: %s must be non-negative, got %v", e.Field, e.Value)
}

// Tier boundaries. Fixed design constants, independent of which
// thresholds were configured.
const (
	bestFloor     = 80
	moderateFloor = 60
)

// Penalties when a configured "good" threshold fails / a "bad"
// threshold is reached, in the fixed metric order: response time,
// error rate, throughput, p95 latency.
var (
	goodPenalties = [4]int{25, 20, 15, 20}
	badPenalties  = [4]int{40, 35, 25, 35}
)

const noIssues = "no issues detected"

// Classify scores one MetricRecord against cfg and returns a fresh
// ClassificationResult. A nil or all-absent cfg triggers the fixed
// default-bounds fallback.
func Classify(metric t.MetricRecord, cfg *t.ThresholdConfig) (t.ClassificationResult, error) {
	if err := validate(metric, cfg); err != nil {
		return t.ClassificationResult{}, err
	}

	score := 100
	var reasons []string
	penalize := func(amount int, reason string) {
		score -= amount
		reasons = append(reasons, reason)
	}

	if cfg.Empty() {
		applyDefaults(metric, penalize)
	} else {
		applyConfigured(metric, cfg, penalize)
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	if len(reasons) == 0 {
		reasons = []string{noIssues}
	}

	return t.ClassificationResult{
		Metric:  metric,
		Score:   score,
		Tier:    tierFor(score),
		Reasons: reasons,
	}, nil
}

// applyConfigured walks the four metrics in fixed order. Penalties for
// the same metric are cumulative: a value that is both "not good" and
// "bad" loses both amounts. Boundary values follow the documented
// comparators exactly.
func applyConfigured(m t.MetricRecord, cfg *t.ThresholdConfig, penalize func(int, string)) {
	// Response time: good = <=, bad = >=.
	if cfg.ResponseTimeGood != nil && m.AvgResponseTimeMs > *cfg.ResponseTimeGood {
		penalize(goodPenalties[0], fmt.Sprintf("response time %.2fms exceeds good threshold %.2fms", m.AvgResponseTimeMs, *cfg.ResponseTimeGood))
	}
	if cfg.ResponseTimeBad != nil && m.AvgResponseTimeMs >= *cfg.ResponseTimeBad {
		penalize(badPenalties[0], fmt.Sprintf("response time %.2fms reaches bad threshold %.2fms", m.AvgResponseTimeMs, *cfg.ResponseTimeBad))
	}
	// Error rate: good = <=, bad = >=.
	if cfg.ErrorRateGood != nil && m.ErrorRatePercent > *cfg.ErrorRateGood {
		penalize(goodPenalties[1], fmt.Sprintf("error rate %.2f%% exceeds good threshold %.2f%%", m.ErrorRatePercent, *cfg.ErrorRateGood))
	}
	if cfg.ErrorRateBad != nil && m.ErrorRatePercent >= *cfg.ErrorRateBad {
		penalize(badPenalties[1], fmt.Sprintf("error rate %.2f%% reaches bad threshold %.2f%%", m.ErrorRatePercent, *cfg.ErrorRateBad))
	}
	// Throughput: good = >=, bad = <=.
	if cfg.ThroughputGood != nil && m.ThroughputRPS < *cfg.ThroughputGood {
		penalize(goodPenalties[2], fmt.Sprintf("throughput %.2f rps below good threshold %.2f rps", m.ThroughputRPS, *cfg.ThroughputGood))
	}
	if cfg.ThroughputBad != nil && m.ThroughputRPS <= *cfg.ThroughputBad {
		penalize(badPenalties[2], fmt.Sprintf("throughput %.2f rps at or below bad threshold %.2f rps", m.ThroughputRPS, *cfg.ThroughputBad))
	}
	// P95 latency: good = <=, bad = >=.
	if cfg.P95LatencyGood != nil && m.Percentile95LatencyMs > *cfg.P95LatencyGood {
		penalize(goodPenalties[3], fmt.Sprintf("p95 latency %.2fms exceeds good threshold %.2fms", m.Percentile95LatencyMs, *cfg.P95LatencyGood))
	}
	if cfg.P95LatencyBad != nil && m.Percentile95LatencyMs >= *cfg.P95LatencyBad {
		penalize(badPenalties[3], fmt.Sprintf("p95 latency %.2fms reaches bad threshold %.2fms", m.Percentile95LatencyMs, *cfg.P95LatencyBad))
	}
}

// applyDefaults is the documented industry-standard fallback when the
// caller supplies no thresholds at all.
func applyDefaults(m t.MetricRecord, penalize func(int, string)) {
	if m.AvgResponseTimeMs > 1000 {
		penalize(30, fmt.Sprintf("response time %.2fms above 1000ms", m.AvgResponseTimeMs))
	}
	if m.AvgResponseTimeMs > 2000 {
		penalize(20, fmt.Sprintf("response time %.2fms above 2000ms", m.AvgResponseTimeMs))
	}
	if m.ErrorRatePercent > 1 {
		penalize(20, fmt.Sprintf("error rate %.2f%% above 1%%", m.ErrorRatePercent))
	}
	if m.ErrorRatePercent > 5 {
		penalize(25, fmt.Sprintf("error rate %.2f%% above 5%%", m.ErrorRatePercent))
	}
	if m.ThroughputRPS < 50 {
		penalize(15, fmt.Sprintf("throughput %.2f rps below 50 rps", m.ThroughputRPS))
	}
	if m.ThroughputRPS < 10 {
		penalize(20, fmt.Sprintf("throughput %.2f rps below 10 rps", m.ThroughputRPS))
	}
	if m.Percentile95LatencyMs > 2000 {
		penalize(20, fmt.Sprintf("p95 latency %.2fms above 2000ms", m.Percentile95LatencyMs))
	}
	if m.Percentile95LatencyMs > 5000 {
		penalize(25, fmt.Sprintf("p95 latency %.2fms above 5000ms", m.Percentile95LatencyMs))
	}
}

func tierFor(score int) t.Tier {
	switch {
	case score >= bestFloor:
		return t.TierBest
	case score >= moderateFloor:
		return t.TierModerate
	default:
		return t.TierWorst
	}
}

func validate(m t.MetricRecord, cfg *t.ThresholdConfig) error {
	checks := []struct {
		field string
		value float64
	}{
		{"avg_response_time_ms", m.AvgResponseTimeMs},
		{"error_rate_percent", m.ErrorRatePercent},
		{"throughput_rps", m.ThroughputRPS},
		{"percentile_95_latency_ms", m.Percentile95LatencyMs},
	}
	for _, c := range checks {
		if c.value < 0 {
			return &ValidationError{Field: c.field, Value: c.value}
		}
	}
	if cfg == nil {
		return nil
	}
	bounds := []struct {
		field string
		value *float64
	}{
		{"response_time_good_threshold", cfg.ResponseTimeGood},
		{"response_time_bad_threshold", cfg.ResponseTimeBad},
		{"error_rate_good_threshold", cfg.ErrorRateGood},
		{"error_rate_bad_threshold", cfg.ErrorRateBad},
		{"throughput_good_threshold", cfg.ThroughputGood},
		{"throughput_bad_threshold", cfg.ThroughputBad},
		{"percentile_95_latency_good_threshold", cfg.P95LatencyGood},
		{"percentile_95_latency_bad_threshold", cfg.P95LatencyBad},
	}
	for _, b := range bounds {
		if b.value != nil && *b.value < 0 {
			return &ValidationError{Field: b.field, Value: *b.value}
		}
	}
	return nil
}
