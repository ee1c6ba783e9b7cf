package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/analyzer"
)

const (
	watchWSWriteWait = 10 * time.Second
	watchWSReadWait  = 60 * time.Second
)

var watchWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type watchOutbound struct {
	Type    string                  `json:"type"`
	Event   *analyzer.ProgressEvent `json:"event,omitempty"`
	Result  any                     `json:"result,omitempty"`
	Message string                  `json:"message,omitempty"`
}

// HandleWatch runs a full analysis over a websocket, streaming progress
// events as the pipeline advances. The client sends one analyzeRequest
// frame; the server answers with progress frames and a terminal result
// or error frame, then closes.
func (h *AnalysisHandler) HandleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := watchWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(watchWSReadWait)); err != nil {
		log.Printf("watch ws set read deadline failed: %v", err)
		return
	}

	var in analyzeRequest
	if err := conn.ReadJSON(&in); err != nil {
		writeWatchFrame(conn, watchOutbound{Type: "error", Message: "invalid request frame"})
		return
	}

	events := make(chan analyzer.ProgressEvent, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for ev := range events {
			writeWatchFrame(conn, watchOutbound{Type: "progress", Event: &ev})
		}
	}()

	// Progress is scoped to this connection's run. Orchestrator state is
	// otherwise shared, so run against a shallow copy.
	run := *h.orch
	run.Progress = func(ev analyzer.ProgressEvent) {
		select {
		case events <- ev:
		default:
			// Drop rather than stall a worker on a slow client.
		}
	}

	resp, err := run.AnalyzeWithCode(r.Context(), in.Records, in.Thresholds)
	close(events)
	<-writerDone

	if err != nil {
		writeWatchFrame(conn, watchOutbound{Type: "error", Message: err.Error()})
		return
	}
	writeWatchFrame(conn, watchOutbound{Type: "result", Result: resp})
}

func writeWatchFrame(conn *websocket.Conn, out watchOutbound) {
	if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
		return
	}
	if err := conn.WriteJSON(out); err != nil {
		log.Printf("watch ws write failed: %v", err)
	}
}
