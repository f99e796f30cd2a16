package sse

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// heartbeatInterval keeps idle connections alive through proxies that
// close silent streams.
const heartbeatInterval = 30 * time.Second

// Handler serves the live-update push endpoint. On connect the client
// may supply a ?shipmentId= filter; without one it receives every
// notification. The connection stays open until the client disconnects.
type Handler struct {
	broker *Broker
}

// NewHandler creates an SSE handler over the given broker.
func NewHandler(broker *Broker) *Handler {
	return &Handler{broker: broker}
}

// ServeHTTP streams notifications as SSE frames ("data: <shipmentId>").
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	shipmentID := r.URL.Query().Get("shipmentId")
	if shipmentID == "" {
		shipmentID = Wildcard
	}

	id, events := h.broker.Subscribe(shipmentID)
	defer h.broker.Unsubscribe(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	log.Info().
		Uint64("session", id).
		Str("shipmentId", shipmentID).
		Msg("Live-update connection opened")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Info().Uint64("session", id).Msg("Live-update connection closed")
			return
		case <-heartbeat.C:
			// SSE comment frame; ignored by EventSource clients.
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case msg := <-events:
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
