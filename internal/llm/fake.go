package llm

import (
	"context"
	"encoding/json"
)

// FakeClient returns a deterministic suggestions payload for offline
// runs and tests.
type FakeClient struct {
	// Response overrides the canned payload when non-empty.
	Response string
	// Err, when set, is returned by every Generate call.
	Err error
}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeModel" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) Generate(ctx context.Context, prompt string, input any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.Err != nil {
		return "", f.Err
	}
	if f.Response != "" {
		return f.Response, nil
	}
	obj := map[string]any{
		"suggestions": []any{
			map[string]any{
				"title":                "Add response caching",
				"issue":                "handler recomputes an identical result on every request",
				"description":          "cache the computed response for a short TTL",
				"current_code":         "data := compute(req)",
				"improved_code":        "data := cache.GetOrCompute(req, compute)",
				"priority":             "high",
				"category":             "caching",
				"expected_improvement": "lower average response time under repeated load",
			},
		},
	}
	b, _ := json.Marshal(obj)
	return string(b), nil
}
