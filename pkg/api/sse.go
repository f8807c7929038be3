package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Events handles GET /api/games/{id}/events: a Server-Sent Events stream
// of state snapshots. The current state is sent immediately, then every
// successful mutation pushes a fresh one. The stream ends with a "done"
// event when the game is over or the game is deleted.
func (h *Handlers) Events(w http.ResponseWriter, r *http.Request) {
	g, ok := h.game(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal", "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	updates, cancel := g.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case state, open := <-updates:
			if !open {
				// Game deleted under the stream.
				writeSSEEvent(w, "done", nil)
				flusher.Flush()
				return
			}
			writeSSEEvent(w, "state", state)
			flusher.Flush()
			if state.GameOver {
				writeSSEEvent(w, "done", nil)
				flusher.Flush()
				return
			}
		}
	}
}

// writeSSEEvent writes a Server-Sent Event to the response.
func writeSSEEvent(w http.ResponseWriter, event string, data any) {
	fmt.Fprintf(w, "event: %s\n", event)
	if data != nil {
		jsonData, _ := json.Marshal(data)
		fmt.Fprintf(w, "data: %s\n", jsonData)
	}
	fmt.Fprintf(w, "\n")
}
