// Package recovery extracts structured suggestion records from
// unreliable generative-model output. The upstream text frequently
// wraps its JSON payload in prose or code fences, truncates mid-string,
// and leaks raw control characters into string values, so boundary
// detection runs a counted bracket scanner with in-string state instead
// of trusting the text to be well formed.
package recovery

import (
	"encoding/json"
	"fmt"
	"strings"

	t "github.com/RamuVenkatesan-infosrc/Report-sub000/internal/types"
)

// RecoveryError reports that no recoverable balanced span was found.
// Offset and Context locate the first parse failure for diagnostics;
// callers are expected to substitute a placeholder record rather than
// abort the whole analysis.
type RecoveryError struct {
	Offset  int
	Context string
	Err     error
}

func (e *RecoveryError) Error() string {
	return fmt.Sprintf("recovery: no recoverable payload at offset %d (near %q): %v", e.Offset, e.Context, e.Err)
}

func (e *RecoveryError) Unwrap() error { return e.Err }

// envelope is the payload contract with the generative collaborator:
// one top-level object holding a suggestions array.
type envelope struct {
	Suggestions []t.SuggestionRecord `json:"suggestions"`
}

// Recover repairs raw generative text and parses it into suggestion
// records, also reporting how many records were discarded as unusable.
// It fails with *RecoveryError only when no balanced structured span
// can be found at all.
func Recover(raw string) ([]t.SuggestionRecord, int, error) {
	text := stripFences(raw)

	span, start, err := balancedSpan(text)
	if err != nil {
		return nil, 0, recoveryErr(text, 0, err)
	}

	cleaned := sanitizeSpan(span)

	recs, discarded, perr := parseSuggestions(cleaned)
	if perr == nil {
		return recs, discarded, nil
	}

	// Truncated-repair pass: retry against the span cut at the last
	// balanced top-level key before the failure point, yielding a
	// partial but valid record set instead of failing outright.
	if repaired, ok := truncateAtLastKey(cleaned); ok {
		if recs, discarded, err := parseSuggestions(repaired); err == nil {
			return recs, discarded, nil
		}
	}

	return nil, 0, recoveryErr(text, start+offsetOf(perr), perr)
}

func recoveryErr(text string, offset int, err error) *RecoveryError {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	lo := offset - 20
	if lo < 0 {
		lo = 0
	}
	hi := offset + 20
	if hi > len(text) {
		hi = len(text)
	}
	return &RecoveryError{Offset: offset, Context: text[lo:hi], Err: err}
}

func offsetOf(err error) int {
	var syn *json.SyntaxError
	if ok := asSyntaxError(err, &syn); ok {
		return int(syn.Offset)
	}
	return 0
}

func asSyntaxError(err error, target **json.SyntaxError) bool {
	for err != nil {
		if se, ok := err.(*json.SyntaxError); ok {
			*target = se
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// stripFences removes surrounding markdown code-fence markers without
// assuming they exist.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "```") {
		return s
	}
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// parseSuggestions decodes the cleaned span, accepting either the
// {"suggestions": [...]} envelope or a bare single-suggestion object.
// Records without a title are discarded and counted.
func parseSuggestions(span string) ([]t.SuggestionRecord, int, error) {
	var env envelope
	if err := json.Unmarshal([]byte(span), &env); err != nil {
		return nil, 0, err
	}
	recs := env.Suggestions
	if len(recs) == 0 {
		var single t.SuggestionRecord
		if err := json.Unmarshal([]byte(span), &single); err == nil && strings.TrimSpace(single.Title) != "" {
			recs = []t.SuggestionRecord{single}
		}
	}
	discarded := 0
	out := make([]t.SuggestionRecord, 0, len(recs))
	for _, r := range recs {
		if strings.TrimSpace(r.Title) == "" {
			discarded++
			continue
		}
		r.CurrentCode = scrubControl(r.CurrentCode)
		r.ImprovedCode = scrubControl(r.ImprovedCode)
		out = append(out, r)
	}
	return out, discarded, nil
}

// scrubControl drops raw control characters (below 0x20) other than
// newline and tab from decoded code text.
func scrubControl(s string) string {
	if !strings.ContainsFunc(s, isBareControl) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isBareControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isBareControl(r rune) bool {
	return r < 0x20 && r != '\n' && r != '\t'
}
