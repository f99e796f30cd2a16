// Package sse delivers completion events to connected clients over
// Server-Sent Events.
//
// Delivery model: targeted. Sessions register with the shipment ID they
// are waiting on (or the wildcard to receive everything) and only
// matching sessions get a push. Events are live-only: a client that
// connects after its event was relayed will not receive it and must use
// the normal retrieval path.
package sse

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tinyg210/shipment-list-demo/internal/metrics"
)

// Wildcard subscribes a session to every shipment's notifications.
const Wildcard = "*"

// sessionBuffer is the per-session channel capacity. A full buffer means
// the client is not reading; sends then block up to the broker timeout.
const sessionBuffer = 8

// DeliveryError reports that a notification could not be handed to any
// live session. The caller leaves the queue message unacknowledged so
// redelivery can retry.
type DeliveryError struct {
	ShipmentID string
	Reason     string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver notification for shipment %s: %s", e.ShipmentID, e.Reason)
}

// session is one open client connection.
type session struct {
	shipmentID string
	ch         chan string
}

// Broker is the live-session registry. It is safe for concurrent use by
// the relay (deliveries) and the connection handlers (register/remove).
type Broker struct {
	mu          sync.RWMutex
	sessions    map[uint64]*session
	nextID      uint64
	sendTimeout time.Duration
}

// NewBroker creates a Broker. sendTimeout bounds a single push to one
// session so a stalled client cannot hold up the relay.
func NewBroker(sendTimeout time.Duration) *Broker {
	return &Broker{
		sessions:    make(map[uint64]*session),
		sendTimeout: sendTimeout,
	}
}

// Subscribe registers a session for the given shipment ID (or Wildcard)
// and returns its ID plus the channel events arrive on. The caller must
// Unsubscribe when the connection closes.
func (b *Broker) Subscribe(shipmentID string) (uint64, <-chan string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	s := &session{
		shipmentID: shipmentID,
		ch:         make(chan string, sessionBuffer),
	}
	b.sessions[id] = s
	metrics.LiveSessionsActive.Inc()

	log.Debug().
		Uint64("session", id).
		Str("shipmentId", shipmentID).
		Msg("Live session registered")
	return id, s.ch
}

// Unsubscribe removes a session. Safe to call more than once.
func (b *Broker) Unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.sessions[id]; !ok {
		return
	}
	delete(b.sessions, id)
	metrics.LiveSessionsActive.Dec()
	log.Debug().Uint64("session", id).Msg("Live session removed")
}

// SessionCount returns the number of open sessions.
func (b *Broker) SessionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.sessions)
}

// Notify pushes a shipment ID to every matching session. It returns a
// *DeliveryError when no session matched or every matched session timed
// out; delivery to at least one session counts as success.
func (b *Broker) Notify(ctx context.Context, shipmentID string) error {
	b.mu.RLock()
	matched := make([]*session, 0, len(b.sessions))
	for _, s := range b.sessions {
		if s.shipmentID == Wildcard || s.shipmentID == shipmentID {
			matched = append(matched, s)
		}
	}
	b.mu.RUnlock()

	if len(matched) == 0 {
		return &DeliveryError{ShipmentID: shipmentID, Reason: "no connected recipient"}
	}

	delivered := 0
	for _, s := range matched {
		timer := time.NewTimer(b.sendTimeout)
		select {
		case s.ch <- shipmentID:
			delivered++
			metrics.LivePushesSent.Inc()
		case <-timer.C:
			log.Warn().Str("shipmentId", shipmentID).Msg("Live session send timed out")
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
		timer.Stop()
	}

	if delivered == 0 {
		return &DeliveryError{ShipmentID: shipmentID, Reason: "all matched sessions timed out"}
	}
	return nil
}
