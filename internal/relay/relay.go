// Package relay moves completion notifications from the durable queue to
// the live-update broker.
//
// The polling loop is explicit and cancellation-driven so tests can run
// a bounded number of iterations deterministically. A message is deleted
// from the queue only after the hand-off to the notifier succeeded;
// failed hand-offs leave the message for the queue's redelivery policy.
package relay

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tinyg210/shipment-list-demo/internal/metrics"
)

// receiveBackoff is the pause after a failed queue poll before retrying.
const receiveBackoff = 2 * time.Second

// maxMessagesPerPoll is the batch size requested per queue poll.
const maxMessagesPerPoll = 10

// Message is one queue message with the handle needed to delete it.
type Message struct {
	Body          string
	ReceiptHandle string
}

// Queue is the durable queue the relay drains.
type Queue interface {
	// Receive long-polls for up to maxMessages, waiting at most wait for
	// the first one. An empty slice with a nil error is a normal empty
	// poll.
	Receive(ctx context.Context, maxMessages int32, wait time.Duration) ([]Message, error)

	// Delete acknowledges a message so it is not redelivered.
	Delete(ctx context.Context, receiptHandle string) error
}

// Notifier receives the shipment identifier extracted from a message.
type Notifier interface {
	Notify(ctx context.Context, shipmentID string) error
}

// Relay continuously drains the queue and hands shipment identifiers to
// the notifier.
type Relay struct {
	queue    Queue
	notifier Notifier
	wait     time.Duration
	pollers  int
}

// New creates a Relay. wait is the long-poll duration per receive call;
// pollers is the number of concurrent polling goroutines (minimum 1).
func New(queue Queue, notifier Notifier, wait time.Duration, pollers int) *Relay {
	if pollers < 1 {
		pollers = 1
	}
	return &Relay{
		queue:    queue,
		notifier: notifier,
		wait:     wait,
		pollers:  pollers,
	}
}

// Run polls the queue until ctx is cancelled, then waits for all pollers
// to finish their in-flight batch. Messages fetched but not yet
// acknowledged at shutdown stay in the queue for redelivery.
func (r *Relay) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < r.pollers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			r.pollLoop(ctx, id)
		}(i)
	}
	wg.Wait()
	log.Info().Msg("Notification relay stopped")
}

func (r *Relay) pollLoop(ctx context.Context, id int) {
	logger := log.With().Int("poller", id).Logger()
	logger.Info().Msg("Notification relay poller started")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msgs, err := r.queue.Receive(ctx, maxMessagesPerPoll, r.wait)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			logger.Error().Err(err).Msg("Queue receive failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(receiveBackoff):
			}
			continue
		}

		for _, msg := range msgs {
			r.handle(ctx, logger, msg)
		}
	}
}

// handle processes a single queue message: parse, hand off, then delete.
func (r *Relay) handle(ctx context.Context, logger zerolog.Logger, msg Message) {
	metrics.RelayMessagesReceived.Inc()

	shipmentID, err := ParseNotification(msg.Body)
	if err != nil {
		// A malformed message can never succeed; deleting it keeps the
		// queue from redelivering poison forever.
		metrics.RelayParseFailures.Inc()
		logger.Error().Err(err).Msg("Dropping malformed notification message")
		if delErr := r.queue.Delete(ctx, msg.ReceiptHandle); delErr != nil {
			logger.Error().Err(delErr).Msg("Failed to delete malformed message")
		}
		return
	}

	if err := r.notifier.Notify(ctx, shipmentID); err != nil {
		// No delete: the message stays in the queue and the redelivery
		// policy retries it (dead-letter after repeated failures).
		metrics.RelayDeliveryFailures.Inc()
		logger.Warn().
			Err(err).
			Str("shipmentId", shipmentID).
			Msg("Live-update hand-off failed, message left for redelivery")
		return
	}

	if err := r.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
		// The notification was delivered but the ack failed; the queue
		// will redeliver and the client may see a duplicate push, which
		// at-least-once delivery permits.
		logger.Error().
			Err(err).
			Str("shipmentId", shipmentID).
			Msg("Failed to delete delivered message")
		return
	}

	metrics.RelayMessagesDelivered.Inc()
	logger.Debug().Str("shipmentId", shipmentID).Msg("Notification relayed")
}
