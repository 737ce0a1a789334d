package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// handleEvents is the persistent command stream. Each connected client
// gets one subscription; commands are pushed as server-sent events as
// the registry emits them. The first event is a full state snapshot so
// a client that connects mid-session starts from the authoritative
// state instead of replaying history.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errorBody{
			Code:    "INTERNAL_ERROR",
			Message: "streaming unsupported by this connection",
		}})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	sub := s.broadcaster.Subscribe()
	defer sub.Close()

	s.logger.Info("canvas client connected", "remote", r.RemoteAddr, "subscribers", s.broadcaster.SubscriberCount())
	defer s.logger.Info("canvas client disconnected", "remote", r.RemoteAddr)

	if err := writeEvent(w, "state", s.registry.GetState()); err != nil {
		return
	}
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.C:
			if !ok {
				// The broadcaster pruned this subscription for falling
				// behind. End the stream so the client reconnects and
				// resnapshots from the state event.
				return
			}
			if err := writeEvent(w, "command", msg); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
