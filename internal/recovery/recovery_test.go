package recovery

import (
	"errors"
	"strings"
	"testing"
)

func TestRecoverCleanEnvelope(t *testing.T) {
	raw := `{"suggestions":[{"title":"Add index","issue":"slow scan","current_code":"SELECT *","improved_code":"SELECT id"}]}`
	recs, _, err := Recover(raw)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	if recs[0].Title != "Add index" || recs[0].ImprovedCode != "SELECT id" {
		t.Fatalf("record = %+v", recs[0])
	}
}

func TestRecoverStripsFencesAndProse(t *testing.T) {
	raw := "Here is my analysis:\n```json\n{\"suggestions\":[{\"title\":\"Cache results\",\"current_code\":\"a\",\"improved_code\":\"b\"}]}\n```\nLet me know if you need more."
	recs, _, err := Recover(raw)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if len(recs) != 1 || recs[0].Title != "Cache results" {
		t.Fatalf("records = %+v", recs)
	}
}

func TestRecoverTrailingProseWithBraces(t *testing.T) {
	// Prose after the object contains another brace; a rightmost-brace
	// search would swallow it.
	raw := `{"suggestions":[{"title":"x","current_code":"a","improved_code":"b"}]} and note that {this} is commentary`
	recs, _, err := Recover(raw)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if len(recs) != 1 || recs[0].Title != "x" {
		t.Fatalf("records = %+v", recs)
	}
}

func TestRecoverEscapesRawNewlinesInStrings(t *testing.T) {
	raw := "{\"suggestions\":[{\"title\":\"y\",\"current_code\":\"line1\nline2\tend\",\"improved_code\":\"z\"}]}"
	recs, _, err := Recover(raw)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if recs[0].CurrentCode != "line1\nline2\tend" {
		t.Fatalf("current_code = %q", recs[0].CurrentCode)
	}
}

func TestRecoverIgnoresBracesInsideStrings(t *testing.T) {
	raw := `{"suggestions":[{"title":"braces","current_code":"func f() { if x { return } }","improved_code":"ok"}]}`
	recs, _, err := Recover(raw)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if !strings.Contains(recs[0].CurrentCode, "{ if x {") {
		t.Fatalf("current_code = %q", recs[0].CurrentCode)
	}
}

func TestRecoverTruncatedPayloadSalvagesLeadingRecords(t *testing.T) {
	raw := `{"suggestions":[{"title":"first","current_code":"a","improved_code":"b"},{"title":"second","current_`
	recs, _, err := Recover(raw)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("records = %+v, want the first record plus the partial second", recs)
	}
	if recs[0].Title != "first" || recs[0].ImprovedCode != "b" {
		t.Fatalf("first record = %+v", recs[0])
	}
	if recs[1].Title != "second" || recs[1].CurrentCode != "" {
		t.Fatalf("partial record = %+v", recs[1])
	}
}

func TestRecoverBareSingleObject(t *testing.T) {
	raw := `{"title":"lone","current_code":"a","improved_code":"b"}`
	recs, _, err := Recover(raw)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if len(recs) != 1 || recs[0].Title != "lone" {
		t.Fatalf("records = %+v", recs)
	}
}

func TestRecoverDropsTitlelessRecords(t *testing.T) {
	raw := `{"suggestions":[{"title":"  ","current_code":"a","improved_code":"b"},{"title":"kept","current_code":"c","improved_code":"d"}]}`
	recs, discarded, err := Recover(raw)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if len(recs) != 1 || recs[0].Title != "kept" {
		t.Fatalf("records = %+v", recs)
	}
	if discarded != 1 {
		t.Fatalf("discarded = %d, want 1", discarded)
	}
}

func TestRecoverNoObjectAtAll(t *testing.T) {
	_, _, err := Recover("I could not produce any suggestions this time.")
	var rerr *RecoveryError
	if !errors.As(err, &rerr) {
		t.Fatalf("err = %v, want *RecoveryError", err)
	}
}

func TestRecoverErrorCarriesOffsetContext(t *testing.T) {
	raw := `{"suggestions": [{"title": bad}]}`
	_, _, err := Recover(raw)
	var rerr *RecoveryError
	if !errors.As(err, &rerr) {
		t.Fatalf("err = %v, want *RecoveryError", err)
	}
	if rerr.Context == "" {
		t.Fatalf("context window empty: %+v", rerr)
	}
}

func TestBalancedSpanTruncatedTail(t *testing.T) {
	span, start, err := balancedSpan(`prose {"a": [1, 2`)
	if err != nil {
		t.Fatalf("balancedSpan: %v", err)
	}
	if start != 6 || span != `{"a": [1, 2` {
		t.Fatalf("span = %q, start = %d", span, start)
	}
}

func TestTruncateAtLastKeyClosesOpenBrackets(t *testing.T) {
	repaired, ok := truncateAtLastKey(`{"suggestions":[{"title":"a","issue":"b","current_code":"SEL`)
	if !ok {
		t.Fatalf("truncation found no completion point")
	}
	if repaired != `{"suggestions":[{"title":"a","issue":"b"}]}` {
		t.Fatalf("repaired = %q", repaired)
	}
}

func TestTruncateAtLastKeyBalancedInput(t *testing.T) {
	if _, ok := truncateAtLastKey(`{"a": 1}`); ok {
		t.Fatalf("balanced span should not be truncatable")
	}
}
