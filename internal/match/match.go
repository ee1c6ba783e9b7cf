// Package match correlates report-side endpoint identifiers with
// source-discovered endpoints under naming and parameter-syntax
// mismatches.
package match

import (
	"sort"
	"strings"

	t "github.com/RamuVenkatesan-infosrc/Report-sub000/internal/types"
)

// minPartialConfidence is the acceptance floor for segment-wise
// matches.
const minPartialConfidence = 0.6

// placeholder is the normalized stand-in for any path-parameter syntax
// variant ({id}, :id, <id>).
const placeholder = "{}"

var httpMethods = map[string]struct{}{
	"get": {}, "post": {}, "put": {}, "delete": {}, "patch": {}, "head": {}, "options": {},
}

// Match correlates performance endpoints with source endpoints. Every
// performance endpoint yields exactly one MatchRecord, unmatched ones
// with a nil source and confidence 0. Each source endpoint is consumed
// by at most one performance endpoint; ties are broken by confidence,
// then performance discovery order, then source discovery order, so the
// operation is deterministic. An empty source list is not an error.
func Match(performance []string, sources []t.SourceEndpoint) []t.MatchRecord {
	perfNorm := make([][]string, len(performance))
	for i, p := range performance {
		perfNorm[i] = normalize(p)
	}
	srcNorm := make([][]string, len(sources))
	for i, s := range sources {
		srcNorm[i] = normalize(s.Endpoint)
	}

	type candidate struct {
		perf, src  int
		confidence float64
		basis      t.MatchBasis
	}
	var candidates []candidate
	for pi := range perfNorm {
		for si := range srcNorm {
			conf, basis := score(perfNorm[pi], srcNorm[si])
			if basis == t.MatchNone {
				continue
			}
			candidates = append(candidates, candidate{perf: pi, src: si, confidence: conf, basis: basis})
		}
	}

	// Greedy assignment: highest confidence first, then discovery
	// order on both sides.
	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].confidence != candidates[b].confidence {
			return candidates[a].confidence > candidates[b].confidence
		}
		if candidates[a].perf != candidates[b].perf {
			return candidates[a].perf < candidates[b].perf
		}
		return candidates[a].src < candidates[b].src
	})

	records := make([]t.MatchRecord, len(performance))
	for i, p := range performance {
		records[i] = t.MatchRecord{PerformanceEndpoint: p, MatchBasis: t.MatchNone}
	}
	perfTaken := make([]bool, len(performance))
	srcTaken := make([]bool, len(sources))
	for _, c := range candidates {
		if perfTaken[c.perf] || srcTaken[c.src] {
			continue
		}
		perfTaken[c.perf] = true
		srcTaken[c.src] = true
		src := sources[c.src]
		records[c.perf] = t.MatchRecord{
			PerformanceEndpoint: performance[c.perf],
			SourceEndpoint:      &src,
			Confidence:          c.confidence,
			MatchBasis:          c.basis,
		}
	}
	return records
}

// score compares two normalized segment lists. Exact equality wins with
// confidence 1.0; otherwise a segment-wise comparison ignoring
// placeholder positions applies, requiring an equal non-placeholder
// segment count and confidence >= 0.6.
func score(perf, src []string) (float64, t.MatchBasis) {
	if len(perf) == 0 || len(src) == 0 {
		return 0, t.MatchNone
	}
	if equal(perf, src) {
		return 1, t.MatchExact
	}
	if len(perf) != len(src) {
		return 0, t.MatchNone
	}
	if countConcrete(perf) != countConcrete(src) {
		return 0, t.MatchNone
	}
	matching := 0
	for i := range perf {
		if perf[i] == placeholder || src[i] == placeholder {
			matching++
			continue
		}
		if perf[i] == src[i] {
			matching++
		}
	}
	conf := float64(matching) / float64(len(perf))
	if conf < minPartialConfidence {
		return 0, t.MatchNone
	}
	return conf, t.MatchPartial
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func countConcrete(segs []string) int {
	n := 0
	for _, s := range segs {
		if s != placeholder {
			n++
		}
	}
	return n
}

// normalize strips an optional leading HTTP-method token, lower-cases
// the path, and collapses every path-parameter syntax variant into a
// single placeholder token, returning the path segments.
func normalize(endpoint string) []string {
	s := strings.TrimSpace(strings.ToLower(endpoint))
	if s == "" {
		return nil
	}
	if fields := strings.Fields(s); len(fields) > 1 {
		if _, ok := httpMethods[fields[0]]; ok {
			s = strings.Join(fields[1:], " ")
		}
	}
	s = strings.Trim(s, "/")
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "/")
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if isParam(p) {
			segs = append(segs, placeholder)
			continue
		}
		segs = append(segs, p)
	}
	return segs
}

// isParam recognizes {id}, :id and <id> style parameter segments.
func isParam(seg string) bool {
	switch {
	case strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}"):
		return true
	case strings.HasPrefix(seg, ":"):
		return true
	case strings.HasPrefix(seg, "<") && strings.HasSuffix(seg, ">"):
		return true
	}
	return false
}
