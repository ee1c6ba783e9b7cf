package analyzer

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/llm"
	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/repository/analysis"
	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/types"
)

type staticIndex struct {
	endpoints []types.SourceEndpoint
	err       error
}

func (s *staticIndex) Scan(ctx context.Context) ([]types.SourceEndpoint, error) {
	return s.endpoints, s.err
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func worstRecord(endpoint string) types.MetricRecord {
	return types.MetricRecord{
		Endpoint:              endpoint,
		AvgResponseTimeMs:     2500,
		ErrorRatePercent:      8,
		ThroughputRPS:         5,
		Percentile95LatencyMs: 6000,
	}
}

func bestRecord(endpoint string) types.MetricRecord {
	return types.MetricRecord{
		Endpoint:              endpoint,
		AvgResponseTimeMs:     100,
		ErrorRatePercent:      0,
		ThroughputRPS:         500,
		Percentile95LatencyMs: 200,
	}
}

func TestAnalyzeClassificationOnly(t *testing.T) {
	o := &Orchestrator{Logger: quietLogger()}
	resp, err := o.Analyze(context.Background(), []types.MetricRecord{bestRecord("/fast"), worstRecord("/slow")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.BestAPI) != 1 || len(resp.WorstAPI) != 1 {
		t.Fatalf("partitions = %+v", resp)
	}
	if resp.Suggestions != nil || resp.Matches != nil {
		t.Fatalf("classification-only pass must not match or suggest")
	}
}

func TestAnalyzeWithCodeFullPipeline(t *testing.T) {
	src := types.SourceEndpoint{
		Endpoint:    "/api/slow/:id",
		FilePath:    "app/handlers.go",
		LineNumber:  10,
		CodeSnippet: "data := compute(req)",
	}
	store := analysis.NewMemoryStore()
	o := &Orchestrator{
		Model:   llm.NewFakeClient(),
		Sources: &staticIndex{endpoints: []types.SourceEndpoint{src}},
		Store:   store,
		Logger:  quietLogger(),
	}
	resp, err := o.AnalyzeWithCode(context.Background(), []types.MetricRecord{worstRecord("/api/slow/{id}"), bestRecord("/fast")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Matches) != 1 {
		t.Fatalf("matches = %+v", resp.Matches)
	}
	if resp.Matches[0].MatchBasis != types.MatchExact {
		t.Fatalf("basis = %q", resp.Matches[0].MatchBasis)
	}
	if len(resp.Suggestions) != 1 {
		t.Fatalf("suggestions = %+v", resp.Suggestions)
	}
	unit := resp.Suggestions[0]
	if len(unit.Suggestions) != 1 || unit.Suggestions[0].Title == "" {
		t.Fatalf("unit = %+v", unit)
	}
	if unit.Suggestions[0].Diff == nil || unit.Suggestions[0].Diff.Stats.ChangesCount == 0 {
		t.Fatalf("expected a rendered diff, got %+v", unit.Suggestions[0].Diff)
	}

	stored, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("latest analysis not persisted: %v", err)
	}
	if len(stored.Suggestions) != 1 {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestAnalyzeWithCodeCollaboratorFailureDegrades(t *testing.T) {
	src := types.SourceEndpoint{Endpoint: "/api/slow"}
	o := &Orchestrator{
		Model:   &llm.FakeClient{Err: errors.New("gateway timeout")},
		Sources: &staticIndex{endpoints: []types.SourceEndpoint{src}},
		Logger:  quietLogger(),
	}
	resp, err := o.AnalyzeWithCode(context.Background(), []types.MetricRecord{worstRecord("/api/slow")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Suggestions) != 1 {
		t.Fatalf("suggestions = %+v", resp.Suggestions)
	}
	unit := resp.Suggestions[0]
	if unit.Error == "" || len(unit.Suggestions) != 0 {
		t.Fatalf("unit = %+v, want error recorded and no suggestions", unit)
	}
	if len(resp.WorstAPI) != 1 {
		t.Fatalf("classification must survive collaborator failure")
	}
}

func TestAnalyzeWithCodeRecoveryFailureYieldsPlaceholder(t *testing.T) {
	src := types.SourceEndpoint{Endpoint: "/api/slow"}
	o := &Orchestrator{
		Model:   &llm.FakeClient{Response: "no structured payload here at all"},
		Sources: &staticIndex{endpoints: []types.SourceEndpoint{src}},
		Logger:  quietLogger(),
	}
	resp, err := o.AnalyzeWithCode(context.Background(), []types.MetricRecord{worstRecord("/api/slow")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	unit := resp.Suggestions[0]
	if len(unit.Suggestions) != 1 || !strings.Contains(unit.Suggestions[0].Title, "Manual review") {
		t.Fatalf("unit = %+v, want placeholder suggestion", unit)
	}
	if unit.DiscardedCount != 1 {
		t.Fatalf("discarded = %d, want 1", unit.DiscardedCount)
	}
}

func TestAnalyzeWithCodeSourceScanFailureDegrades(t *testing.T) {
	o := &Orchestrator{
		Model:   llm.NewFakeClient(),
		Sources: &staticIndex{err: errors.New("tree unreadable")},
		Logger:  quietLogger(),
	}
	resp, err := o.AnalyzeWithCode(context.Background(), []types.MetricRecord{worstRecord("/api/slow")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Matches) != 1 || resp.Matches[0].SourceEndpoint != nil {
		t.Fatalf("matches = %+v, want single unmatched record", resp.Matches)
	}
	if len(resp.Suggestions) != 0 {
		t.Fatalf("unmatched endpoints must not produce suggestion units")
	}
}

func TestAnalyzeWithCodeCanceledContext(t *testing.T) {
	o := &Orchestrator{Logger: quietLogger()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := o.AnalyzeWithCode(ctx, []types.MetricRecord{worstRecord("/slow")}, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestLatestWithoutStore(t *testing.T) {
	o := &Orchestrator{Logger: quietLogger()}
	if _, err := o.Latest(context.Background()); !errors.Is(err, analysis.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := o.ClearLatest(context.Background()); err != nil {
		t.Fatal(err)
	}
}
