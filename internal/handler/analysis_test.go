package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/analyzer"
	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/handler"
	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/llm"
	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/repository/analysis"
	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/server"
	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/types"
)

type fixedIndex struct {
	endpoints []types.SourceEndpoint
}

func (f *fixedIndex) Scan(ctx context.Context) ([]types.SourceEndpoint, error) {
	return f.endpoints, nil
}

func newTestMux() http.Handler {
	orch := &analyzer.Orchestrator{
		Model: llm.NewFakeClient(),
		Sources: &fixedIndex{endpoints: []types.SourceEndpoint{
			{Endpoint: "/api/slow", FilePath: "app/handlers.go", LineNumber: 12},
		}},
		Store: analysis.NewMemoryStore(),
	}
	return server.NewMux(handler.NewAnalysisHandler(orch))
}

const analyzeBody = `{
	"records": [
		{"endpoint": "/api/slow", "avg_response_time_ms": 2500, "error_rate_percent": 8, "throughput_rps": 5, "percentile_95_latency_ms": 6000},
		{"endpoint": "/api/fast", "avg_response_time_ms": 100, "error_rate_percent": 0, "throughput_rps": 500, "percentile_95_latency_ms": 200}
	]
}`

func TestHandleAnalyze(t *testing.T) {
	mux := newTestMux()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(analyzeBody))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var resp types.AnalysisResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.BestAPI) != 1 || len(resp.WorstAPI) != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Suggestions != nil {
		t.Fatalf("plain analyze must not generate suggestions")
	}
}

func TestHandleAnalyzeInvalidBody(t *testing.T) {
	mux := newTestMux()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestHandleAnalyzeValidationError(t *testing.T) {
	mux := newTestMux()
	body := `{"records": [{"endpoint": "/x", "avg_response_time_ms": -5}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body = %s", rr.Code, rr.Body.String())
	}
}

func TestHandleAnalyzeCSVReport(t *testing.T) {
	mux := newTestMux()
	csv := "timeStamp,elapsed,label,success\n1700000000000,100,/api/users,true\n1700000001000,200,/api/users,true\n"
	req := httptest.NewRequest(http.MethodPost, "/api/analyze?format=jmeter", strings.NewReader(csv))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var resp types.AnalysisResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Details) != 1 || resp.Details[0].Metric.Endpoint != "/api/users" {
		t.Fatalf("details = %+v", resp.Details)
	}
}

func TestHandleAnalyzeCSVUnknownFormat(t *testing.T) {
	mux := newTestMux()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze?format=gatling", strings.NewReader("a,b\n"))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestHandleLatestLifecycle(t *testing.T) {
	mux := newTestMux()

	req := httptest.NewRequest(http.MethodGet, "/api/analysis/latest", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status before any run = %d, want 404", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/analyze/code", strings.NewReader(analyzeBody))
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("analyze/code status = %d, body = %s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/analysis/latest", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status after run = %d", rr.Code)
	}
	var stored types.AnalysisResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &stored); err != nil {
		t.Fatal(err)
	}
	if len(stored.Suggestions) != 1 {
		t.Fatalf("stored suggestions = %+v", stored.Suggestions)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/analysis/latest", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/analysis/latest", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status after delete = %d, want 404", rr.Code)
	}
}

func TestHandleHealthz(t *testing.T) {
	mux := newTestMux()
	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux := newTestMux()
	req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rr.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	mux := newTestMux()
	req := httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow-origin = %q", got)
	}
	if rr.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rr.Code)
	}
}

func TestHandleWatchStreamsProgress(t *testing.T) {
	srv := httptest.NewServer(newTestMux())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/analyze/watch"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(analyzeBody)); err != nil {
		t.Fatal(err)
	}

	sawProgress := false
	for {
		var frame struct {
			Type    string          `json:"type"`
			Result  json.RawMessage `json:"result"`
			Message string          `json:"message"`
		}
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("read frame: %v (progress seen: %v)", err, sawProgress)
		}
		switch frame.Type {
		case "progress":
			sawProgress = true
		case "result":
			var resp types.AnalysisResponse
			if err := json.Unmarshal(frame.Result, &resp); err != nil {
				t.Fatal(err)
			}
			if len(resp.Suggestions) != 1 {
				t.Fatalf("result suggestions = %+v", resp.Suggestions)
			}
			if !sawProgress {
				t.Fatalf("no progress frames before result")
			}
			return
		case "error":
			t.Fatalf("error frame: %s", frame.Message)
		}
	}
}
