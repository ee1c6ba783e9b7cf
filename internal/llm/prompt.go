package llm

import (
	"fmt"
	"strings"

	t "github.com/RamuVenkatesan-infosrc/Report-sub000/internal/types"
)

// suggestionPrompt instructs the model to answer with the envelope the
// recovery pass expects.
const suggestionPrompt = `You are a performance engineer reviewing a slow HTTP endpoint.
Given the endpoint's load-test metrics and, when available, the handler source code,
propose concrete code-level optimizations.

Respond with a single JSON object of this exact shape and nothing else:
{
  "suggestions": [
    {
      "title": "short imperative summary",
      "issue": "what is wrong",
      "description": "why it is slow",
      "current_code": "the problematic code",
      "improved_code": "the optimized replacement",
      "priority": "high|medium|low",
      "category": "database|caching|concurrency|algorithm|io|other",
      "expected_improvement": "projected effect on the metrics"
    }
  ]
}

Keep current_code and improved_code as compilable fragments. Do not wrap the JSON in markdown fences.`

// SuggestionInput is the structured payload sent alongside the prompt
// for one endpoint.
type SuggestionInput struct {
	Endpoint   string             `json:"endpoint"`
	Metrics    t.MetricRecord     `json:"metrics"`
	Reasons    []string           `json:"reasons,omitempty"`
	Source     *t.SourceEndpoint  `json:"source,omitempty"`
	Thresholds *t.ThresholdConfig `json:"thresholds,omitempty"`
	Context    map[string]string  `json:"context,omitempty"`
}

// SuggestionPrompt returns the instruction text for a suggestion call.
// A non-empty extra block (user-supplied focus areas) is appended as an
// addendum.
func SuggestionPrompt(extra string) string {
	extra = strings.TrimSpace(extra)
	if extra == "" {
		return suggestionPrompt
	}
	return fmt.Sprintf("%s\n\n[ADDITIONAL FOCUS]\n%s", suggestionPrompt, extra)
}
