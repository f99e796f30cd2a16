package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tinyg210/shipment-list-demo/internal/watermark"
)

// ObjectStore is the narrow view of the picture bucket the handler needs.
type ObjectStore interface {
	// Metadata returns the user metadata of an object without reading
	// its payload.
	Metadata(ctx context.Context, bucket, key string) (map[string]string, error)

	// Get reads the full object payload and its content type.
	Get(ctx context.Context, bucket, key string) (data []byte, contentType string, err error)

	// Put writes an object with its metadata attached in the same call.
	Put(ctx context.Context, bucket, key string, data []byte, contentType string, metadata map[string]string) error
}

// TopicPublisher publishes a completion notification to the fan-out topic.
type TopicPublisher interface {
	Publish(ctx context.Context, message string) error
}

// Result describes the outcome of one handled object event.
type Result struct {
	// Skipped is true when the guard short-circuited: the object already
	// carried the processed marker. This is the designed steady state
	// after the handler's own re-upload re-triggers the event.
	Skipped bool

	// ShipmentID is the identifier derived from the object key. Empty
	// when Skipped.
	ShipmentID string

	// Published is true when the completion notification reached the
	// topic. A successful re-upload with a failed publish still returns
	// a nil error; the watermark outcome is intact either way.
	Published bool
}

// Handler orchestrates one object-created event: guard check, watermark,
// marked re-upload, and notification publish.
//
// Handlers are safe for concurrent use; each invocation is independent
// and duplicate delivery of the same event is resolved by the guard.
type Handler struct {
	store ObjectStore
	topic TopicPublisher

	// process is the pure image processor; swapped in tests.
	process func([]byte) ([]byte, error)
}

// NewHandler creates a Handler over the given store and topic.
func NewHandler(store ObjectStore, topic TopicPublisher) *Handler {
	return &Handler{
		store:   store,
		topic:   topic,
		process: watermark.Apply,
	}
}

// Handle runs the processing state machine for a single object event.
//
// Failures before the re-upload leave no side effects, so the store's
// at-least-once redelivery can safely re-drive the event. A publish
// failure after a successful re-upload is logged and reflected in the
// Result but does not fail the invocation.
func (h *Handler) Handle(ctx context.Context, ev ObjectEvent) (Result, error) {
	start := time.Now()
	logger := log.With().
		Str("bucket", ev.Bucket).
		Str("key", ev.Key).
		Logger()

	// GUARD_CHECK: metadata only, no payload read.
	metadata, err := h.store.Metadata(ctx, ev.Bucket, ev.Key)
	if err != nil {
		return Result{}, &MetadataFetchError{Bucket: ev.Bucket, Key: ev.Key, Err: err}
	}
	if AlreadyProcessed(metadata) {
		logger.Debug().Msg("Object already watermarked, skipping")
		return Result{Skipped: true}, nil
	}

	// FETCH.
	data, contentType, err := h.store.Get(ctx, ev.Bucket, ev.Key)
	if err != nil {
		return Result{}, &FetchError{Bucket: ev.Bucket, Key: ev.Key, Err: err}
	}
	logger.Debug().Int("size", len(data)).Str("contentType", contentType).Msg("Object fetched")

	// PROCESS: pure function, no store access.
	stamped, err := h.process(data)
	if err != nil {
		// DecodeError/ProcessingError are permanent for this object:
		// no re-upload, no publish.
		return Result{}, err
	}

	// REUPLOAD: marker attached in the same write call so no concurrent
	// reader ever observes watermarked bytes without the marker. This
	// write re-triggers the pipeline, which then skips at GUARD_CHECK.
	if err := h.store.Put(ctx, ev.Bucket, ev.Key, stamped, "image/jpeg", MarkProcessed(metadata)); err != nil {
		return Result{}, &ReuploadError{Bucket: ev.Bucket, Key: ev.Key, Err: err}
	}

	shipmentID := ShipmentIDFromKey(ev.Key)
	result := Result{ShipmentID: shipmentID}

	// PUBLISH: failure here does not roll back the re-upload. The client
	// can still observe the watermarked object through the normal
	// retrieval path.
	if err := h.topic.Publish(ctx, shipmentID); err != nil {
		pubErr := &PublishError{ShipmentID: shipmentID, Err: err}
		logger.Error().Err(pubErr).Msg("Notification publish failed after successful re-upload")
		return result, nil
	}
	result.Published = true

	logger.Info().
		Str("shipmentId", shipmentID).
		Int("outputSize", len(stamped)).
		Dur("duration", time.Since(start)).
		Msg("Picture watermarked and notification published")

	return result, nil
}
