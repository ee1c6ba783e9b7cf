package classify

import (
	"sort"

	t "github.com/RamuVenkatesan-infosrc/Report-sub000/internal/types"
)

// Analyze classifies every record and partitions the results by tier
// into the response shape served to callers (best_api / worst_api /
// details). Results are recomputed fresh on every call.
func Analyze(records []t.MetricRecord, cfg *t.ThresholdConfig) (t.AnalysisResponse, error) {
	resp := t.AnalysisResponse{
		BestAPI:  []t.ClassificationResult{},
		WorstAPI: []t.ClassificationResult{},
		Details:  []t.ClassificationResult{},
	}
	if len(records) == 0 {
		return resp, nil
	}

	for _, rec := range records {
		res, err := Classify(rec, cfg)
		if err != nil {
			return t.AnalysisResponse{}, err
		}
		switch res.Tier {
		case t.TierBest:
			resp.BestAPI = append(resp.BestAPI, res)
		case t.TierModerate:
			resp.Details = append(resp.Details, res)
		default:
			resp.WorstAPI = append(resp.WorstAPI, res)
		}
	}

	times := make([]float64, 0, len(records))
	for _, rec := range records {
		if rec.AvgResponseTimeMs > 0 {
			times = append(times, rec.AvgResponseTimeMs)
		}
	}
	resp.OverallP95 = percentile(times, 95)
	return resp, nil
}

// percentile returns the nearest-rank p-th percentile of values.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	rank := int(float64(len(sorted))*p/100+0.5) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}
