package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/skyfolio/ambience/internal/broker"
)

// handleStream serves the session's frames as server-sent events. The latest
// frame is replayed on connect, then one event arrives per recompute. The
// stream ends when the client disconnects, the session closes, or the service
// shuts down.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	frames, err := s.scenes.Subscribe(id)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	// Pass our own channel back so this teardown cannot kill a stream that
	// reconnected and replaced us.
	defer s.scenes.Unsubscribe(id, frames)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	s.logger.Debug("scene stream opened", "session", id)
	defer s.logger.Debug("scene stream closed", "session", id)

	for {
		select {
		case <-r.Context().Done():
			return
		case frame, open := <-frames:
			if !open {
				return
			}
			if err := writeEvent(w, frame); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w io.Writer, frame broker.Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: scene\ndata: %s\n\n", frame.At.UnixMilli(), data)
	return err
}
