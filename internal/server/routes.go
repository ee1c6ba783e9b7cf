package server

import (
	"net/http"

	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/handler"
	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/middleware"
)

func NewMux(analysisHandler *handler.AnalysisHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/analyze", analysisHandler.HandleAnalyze)
	mux.HandleFunc("/api/analyze/code", analysisHandler.HandleAnalyzeWithCode)
	mux.HandleFunc("/api/analyze/watch", analysisHandler.HandleWatch)
	mux.HandleFunc("/api/analysis/latest", analysisHandler.HandleLatest)
	mux.HandleFunc("/api/healthz", analysisHandler.HandleHealthz)

	return middleware.CORS(mux)
}
