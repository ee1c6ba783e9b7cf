package types

// Report-side inputs -------------------------------------------------------------

// MetricRecord is one performance-report observation for an endpoint.
// Produced by a report decoder; immutable once built.
type MetricRecord struct {
	Endpoint              string  `json:"endpoint"`
	AvgResponseTimeMs     float64 `json:"avg_response_time_ms"`
	ErrorRatePercent      float64 `json:"error_rate_percent"`
	ThroughputRPS         float64 `json:"throughput_rps"`
	Percentile95LatencyMs float64 `json:"percentile_95_latency_ms"`
}

// ThresholdConfig carries optional dual-sided bounds per metric.
// A nil field means the bound is not configured. When no field at all is
// set, classification falls back to fixed default bounds.
type ThresholdConfig struct {
	ResponseTimeGood *float64 `json:"response_time_good_threshold,omitempty"`
	ResponseTimeBad  *float64 `json:"response_time_bad_threshold,omitempty"`
	ErrorRateGood    *float64 `json:"error_rate_good_threshold,omitempty"`
	ErrorRateBad     *float64 `json:"error_rate_bad_threshold,omitempty"`
	ThroughputGood   *float64 `json:"throughput_good_threshold,omitempty"`
	ThroughputBad    *float64 `json:"throughput_bad_threshold,omitempty"`
	P95LatencyGood   *float64 `json:"percentile_95_latency_good_threshold,omitempty"`
	P95LatencyBad    *float64 `json:"percentile_95_latency_bad_threshold,omitempty"`
}

// Empty reports whether no threshold is configured at all.
func (c *ThresholdConfig) Empty() bool {
	if c == nil {
		return true
	}
	return c.ResponseTimeGood == nil && c.ResponseTimeBad == nil &&
		c.ErrorRateGood == nil && c.ErrorRateBad == nil &&
		c.ThroughputGood == nil && c.ThroughputBad == nil &&
		c.P95LatencyGood == nil && c.P95LatencyBad == nil
}

// Classification -----------------------------------------------------------------

type Tier string

const (
	TierBest     Tier = "best"
	TierModerate Tier = "moderate"
	TierWorst    Tier = "worst"
)

// ClassificationResult is the scored outcome for one MetricRecord.
type ClassificationResult struct {
	Metric  MetricRecord `json:"metric"`
	Score   int          `json:"score"`
	Tier    Tier         `json:"tier"`
	Reasons []string     `json:"reasons"`
}

// Suggestions --------------------------------------------------------------------

// SuggestionRecord is one recovered improvement suggestion from the
// generative collaborator.
type SuggestionRecord struct {
	Title               string `json:"title"`
	Issue               string `json:"issue,omitempty"`
	Description         string `json:"description,omitempty"`
	CurrentCode         string `json:"current_code"`
	ImprovedCode        string `json:"improved_code"`
	Priority            string `json:"priority,omitempty"`
	Category            string `json:"category,omitempty"`
	ExpectedImprovement string `json:"expected_improvement,omitempty"`
}

// Endpoint matching --------------------------------------------------------------

// SourceEndpoint is one endpoint discovered in source code.
type SourceEndpoint struct {
	Endpoint     string `json:"endpoint"`
	FilePath     string `json:"file_path"`
	LineNumber   int    `json:"line_number"`
	FunctionName string `json:"function_name"`
	Framework    string `json:"framework"`
	CodeSnippet  string `json:"code_snippet"`
}

type MatchBasis string

const (
	MatchExact   MatchBasis = "exact"
	MatchPartial MatchBasis = "partial"
	MatchNone    MatchBasis = "none"
)

// MatchRecord pairs one performance endpoint with zero-or-one source
// endpoint. An unmatched endpoint has a nil SourceEndpoint and
// confidence 0.
type MatchRecord struct {
	PerformanceEndpoint string          `json:"performance_endpoint"`
	SourceEndpoint      *SourceEndpoint `json:"source_endpoint"`
	Confidence          float64         `json:"confidence"`
	MatchBasis          MatchBasis      `json:"match_basis"`
}

// Diff ---------------------------------------------------------------------------

type DiffLineType string

const (
	DiffAdded     DiffLineType = "added"
	DiffDeleted   DiffLineType = "deleted"
	DiffModified  DiffLineType = "modified"
	DiffUnchanged DiffLineType = "unchanged"
)

// DiffLine is one row of a rendered code delta. Line numbers are nil on
// the side where the line does not exist.
type DiffLine struct {
	Type       DiffLineType `json:"type"`
	OldLineNum *int         `json:"old_line_num"`
	NewLineNum *int         `json:"new_line_num"`
	OldContent string       `json:"old_content"`
	NewContent string       `json:"new_content"`
}

type DiffStats struct {
	ChangesCount   int `json:"changes_count"`
	AdditionsCount int `json:"additions_count"`
	DeletionsCount int `json:"deletions_count"`
}

// DiffResult holds the three presentation forms of one code delta.
type DiffResult struct {
	Paired       []DiffLine `json:"paired"`
	Unified      string     `json:"unified"`
	LineNumbered []DiffLine `json:"line_numbered"`
	Stats        DiffStats  `json:"stats"`
}

// Composed analysis response -----------------------------------------------------

// EndpointSuggestions carries the recovered suggestions (with rendered
// diffs) for one matched endpoint. DiscardedCount reports suggestions
// the recovery pass could not salvage.
type EndpointSuggestions struct {
	Match          MatchRecord          `json:"match"`
	Suggestions    []SuggestionWithDiff `json:"suggestions"`
	DiscardedCount int                  `json:"discarded_count"`
	Error          string               `json:"error,omitempty"`
}

type SuggestionWithDiff struct {
	SuggestionRecord
	Diff *DiffResult `json:"diff,omitempty"`
}

// AnalysisResponse is the composed result of one analysis call,
// partitioned by tier the way the classification response is served.
type AnalysisResponse struct {
	BestAPI     []ClassificationResult `json:"best_api"`
	WorstAPI    []ClassificationResult `json:"worst_api"`
	Details     []ClassificationResult `json:"details"`
	OverallP95  float64                `json:"overall_percentile_95_latency_ms"`
	Matches     []MatchRecord          `json:"matches,omitempty"`
	Suggestions []EndpointSuggestions  `json:"suggestions,omitempty"`
}
