// Package pipeline implements the event-driven watermark processing flow:
// S3 object-created event in, guarded watermark pass, marked re-upload,
// and a completion notification published to the fan-out topic.
package pipeline

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// ObjectEvent is one validated object-created record from the store.
type ObjectEvent struct {
	Bucket    string
	Key       string
	EventType string
}

// ParseError reports a malformed store event. The event is not retried by
// this component; the store's own at-least-once redelivery is the retry
// mechanism.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse store event: %s", e.Reason)
}

// ParseEvent validates an incoming S3 event and returns one ObjectEvent
// per record. Keys arrive URL-encoded in S3 notifications and are decoded
// here. A record missing its bucket or key makes the whole event invalid.
func ParseEvent(ev events.S3Event) ([]ObjectEvent, error) {
	if len(ev.Records) == 0 {
		return nil, &ParseError{Reason: "no records"}
	}

	out := make([]ObjectEvent, 0, len(ev.Records))
	for i, rec := range ev.Records {
		bucket := rec.S3.Bucket.Name
		rawKey := rec.S3.Object.Key
		if bucket == "" {
			return nil, &ParseError{Reason: fmt.Sprintf("record %d: missing bucket name", i)}
		}
		if rawKey == "" {
			return nil, &ParseError{Reason: fmt.Sprintf("record %d: missing object key", i)}
		}

		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("record %d: undecodable key %q", i, rawKey)}
		}

		out = append(out, ObjectEvent{
			Bucket:    bucket,
			Key:       key,
			EventType: rec.EventName,
		})
	}
	return out, nil
}

// ShipmentIDFromKey derives the shipment identifier from an object key.
// Picture keys have the form "<prefix>/<shipmentId>.<ext>"; the identifier
// is the final path segment with its extension stripped.
func ShipmentIDFromKey(key string) string {
	base := path.Base(key)
	return strings.TrimSuffix(base, path.Ext(base))
}
