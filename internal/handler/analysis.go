// Package handler exposes the analysis pipeline over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/analyzer"
	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/classify"
	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/report"
	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/repository/analysis"
	t "github.com/RamuVenkatesan-infosrc/Report-sub000/internal/types"
)

type AnalysisHandler struct {
	orch *analyzer.Orchestrator
}

func NewAnalysisHandler(orch *analyzer.Orchestrator) *AnalysisHandler {
	return &AnalysisHandler{orch: orch}
}

type analyzeRequest struct {
	Records    []t.MetricRecord   `json:"records"`
	Thresholds *t.ThresholdConfig `json:"thresholds,omitempty"`
}

// readRequest accepts either a JSON analyzeRequest body or, when the
// format query parameter names a load-test report format, a raw CSV
// report body. Only the JSON form can carry thresholds; CSV uploads
// classify with defaults.
func readRequest(r *http.Request) (*analyzeRequest, error) {
	if format := strings.TrimSpace(r.URL.Query().Get("format")); format != "" {
		dec, err := report.ForFormat(format)
		if err != nil {
			return nil, err
		}
		records, err := dec.Decode(r.Body)
		if err != nil {
			return nil, err
		}
		return &analyzeRequest{Records: records}, nil
	}

	var in analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return nil, errors.New("invalid json body")
	}
	return &in, nil
}

func (h *AnalysisHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	in, err := readRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	resp, err := h.orch.Analyze(r.Context(), in.Records, in.Thresholds)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AnalysisHandler) HandleAnalyzeWithCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	in, err := readRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	resp, err := h.orch.AnalyzeWithCode(r.Context(), in.Records, in.Thresholds)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleLatest serves GET and DELETE for the stored latest analysis.
func (h *AnalysisHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		resp, err := h.orch.Latest(r.Context())
		if err != nil {
			if errors.Is(err, analysis.ErrNotFound) {
				http.Error(w, "no analysis stored", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	case http.MethodDelete:
		if err := h.orch.ClearLatest(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *AnalysisHandler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func writeAnalysisError(w http.ResponseWriter, err error) {
	var verr *classify.ValidationError
	if errors.As(err, &verr) {
		http.Error(w, verr.Error(), http.StatusUnprocessableEntity)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
