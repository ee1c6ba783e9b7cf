// Package analyzer composes classification, source discovery, endpoint
// matching, suggestion generation and diff rendering into one analysis
// run.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/classify"
	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/diff"
	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/llm"
	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/match"
	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/recovery"
	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/repository/analysis"
	t "github.com/RamuVenkatesan-infosrc/Report-sub000/internal/types"
)

// CollaboratorError reports a failed call to an external collaborator
// for one endpoint. The endpoint keeps its classification and match;
// only its suggestions are lost.
type CollaboratorError struct {
	Endpoint string
	Err      error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("analyzer: collaborator failed for %s: %v", e.Endpoint, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// SourceIndex yields the endpoints declared in a source tree.
type SourceIndex interface {
	Scan(ctx context.Context) ([]t.SourceEndpoint, error)
}

// Orchestrator runs analysis passes. Model and Sources are optional:
// without them AnalyzeWithCode degrades to classification plus
// whatever stage is wired.
type Orchestrator struct {
	Model   llm.Client
	Sources SourceIndex
	Store   analysis.Store
	Logger  *log.Logger

	// Workers bounds concurrent suggestion units; values below 1 fall
	// back to defaultWorkers.
	Workers int

	// PromptExtra is appended to the suggestion prompt, letting
	// deployments steer the model's focus.
	PromptExtra string

	// Progress, when set, receives pipeline events. Suggestion units
	// report from worker goroutines, so the callback must be safe for
	// concurrent use.
	Progress func(ProgressEvent)
}

// ProgressEvent reports one step of an analysis run.
type ProgressEvent struct {
	Stage    string `json:"stage"`
	Endpoint string `json:"endpoint,omitempty"`
	Message  string `json:"message,omitempty"`
	Done     int    `json:"done,omitempty"`
	Total    int    `json:"total,omitempty"`
}

const defaultWorkers = 4

func (o *Orchestrator) notify(ev ProgressEvent) {
	if o.Progress != nil {
		o.Progress(ev)
	}
}

func (o *Orchestrator) logf(format string, args ...any) {
	if o.Logger != nil {
		o.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// Analyze runs classification only.
func (o *Orchestrator) Analyze(ctx context.Context, records []t.MetricRecord, cfg *t.ThresholdConfig) (*t.AnalysisResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := classify.Analyze(records, cfg)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// AnalyzeWithCode runs the full pipeline: classification, source
// discovery, matching, then one suggestion unit per matched worst-tier
// endpoint under bounded concurrency. Each unit's result is assembled
// atomically; a failed or cancelled unit contributes nothing.
func (o *Orchestrator) AnalyzeWithCode(ctx context.Context, records []t.MetricRecord, cfg *t.ThresholdConfig) (*t.AnalysisResponse, error) {
	resp, err := o.Analyze(ctx, records, cfg)
	if err != nil {
		return nil, err
	}

	o.notify(ProgressEvent{Stage: "classified", Total: len(records)})

	sources := o.discoverSources(ctx)
	o.notify(ProgressEvent{Stage: "sources", Total: len(sources)})

	worst := make([]string, 0, len(resp.WorstAPI))
	worstByEndpoint := make(map[string]t.ClassificationResult, len(resp.WorstAPI))
	for _, res := range resp.WorstAPI {
		worst = append(worst, res.Metric.Endpoint)
		worstByEndpoint[res.Metric.Endpoint] = res
	}

	matches := match.Match(worst, sources)
	resp.Matches = matches
	o.notify(ProgressEvent{Stage: "matched", Total: len(matches)})

	if o.Model == nil {
		o.persist(ctx, resp)
		o.notify(ProgressEvent{Stage: "complete"})
		return resp, nil
	}

	matched := make([]t.MatchRecord, 0, len(matches))
	for _, m := range matches {
		if m.SourceEndpoint != nil {
			matched = append(matched, m)
		}
	}

	results := make([]*t.EndpointSuggestions, len(matched))
	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workerLimit())
	for i, m := range matched {
		g.Go(func() error {
			unit, err := o.suggestEndpoint(gctx, m, worstByEndpoint[m.PerformanceEndpoint])
			if err != nil {
				return err
			}
			results[i] = unit
			o.notify(ProgressEvent{
				Stage:    "suggested",
				Endpoint: m.PerformanceEndpoint,
				Done:     int(done.Add(1)),
				Total:    len(matched),
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, unit := range results {
		if unit != nil {
			resp.Suggestions = append(resp.Suggestions, *unit)
		}
	}

	o.persist(ctx, resp)
	o.notify(ProgressEvent{Stage: "complete"})
	return resp, nil
}

// Latest returns the stored result of the most recent analysis.
func (o *Orchestrator) Latest(ctx context.Context) (*t.AnalysisResponse, error) {
	if o.Store == nil {
		return nil, analysis.ErrNotFound
	}
	return o.Store.Load(ctx)
}

// ClearLatest drops the stored result.
func (o *Orchestrator) ClearLatest(ctx context.Context) error {
	if o.Store == nil {
		return nil
	}
	return o.Store.Clear(ctx)
}

func (o *Orchestrator) workerLimit() int {
	if o.Workers < 1 {
		return defaultWorkers
	}
	return o.Workers
}

func (o *Orchestrator) discoverSources(ctx context.Context) []t.SourceEndpoint {
	if o.Sources == nil {
		return nil
	}
	sources, err := o.Sources.Scan(ctx)
	if err != nil {
		// Degrade to classification-only rather than failing the run.
		o.logf("analyzer: source scan failed: %v", err)
		return nil
	}
	return sources
}

// suggestEndpoint runs one suggestion unit. Only a context error aborts
// the run; collaborator and recovery failures degrade into the unit's
// own payload.
func (o *Orchestrator) suggestEndpoint(ctx context.Context, m t.MatchRecord, cls t.ClassificationResult) (*t.EndpointSuggestions, error) {
	input := llm.SuggestionInput{
		Endpoint: m.PerformanceEndpoint,
		Metrics:  cls.Metric,
		Reasons:  cls.Reasons,
		Source:   m.SourceEndpoint,
	}
	raw, err := o.Model.Generate(ctx, llm.SuggestionPrompt(o.PromptExtra), input)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		cerr := &CollaboratorError{Endpoint: m.PerformanceEndpoint, Err: err}
		o.logf("%v", cerr)
		return &t.EndpointSuggestions{Match: m, Error: cerr.Error()}, nil
	}

	recs, discarded, rerr := recovery.Recover(raw)
	if rerr != nil {
		var recErr *recovery.RecoveryError
		if errors.As(rerr, &recErr) {
			o.logf("analyzer: recovery failed for %s: %v", m.PerformanceEndpoint, rerr)
			return &t.EndpointSuggestions{
				Match:          m,
				Suggestions:    []t.SuggestionWithDiff{placeholderSuggestion(m)},
				DiscardedCount: 1,
			}, nil
		}
		return nil, rerr
	}

	unit := &t.EndpointSuggestions{
		Match:          m,
		Suggestions:    make([]t.SuggestionWithDiff, 0, len(recs)),
		DiscardedCount: discarded,
	}
	for _, rec := range recs {
		swd := t.SuggestionWithDiff{SuggestionRecord: rec}
		if rec.CurrentCode != "" || rec.ImprovedCode != "" {
			swd.Diff = diff.Compare(rec.CurrentCode, rec.ImprovedCode)
		}
		unit.Suggestions = append(unit.Suggestions, swd)
	}
	return unit, nil
}

// placeholderSuggestion stands in when the model's payload could not be
// recovered at all.
func placeholderSuggestion(m t.MatchRecord) t.SuggestionWithDiff {
	rec := t.SuggestionRecord{
		Title:       "Manual review recommended",
		Issue:       "the optimization suggestions for this endpoint could not be recovered",
		Description: fmt.Sprintf("review %s directly; the generative response was unusable", m.PerformanceEndpoint),
		Priority:    "low",
		Category:    "other",
	}
	return t.SuggestionWithDiff{SuggestionRecord: rec}
}

func (o *Orchestrator) persist(ctx context.Context, resp *t.AnalysisResponse) {
	if o.Store == nil {
		return
	}
	if err := o.Store.Save(ctx, resp); err != nil {
		o.logf("analyzer: persist latest analysis: %v", err)
	}
}
