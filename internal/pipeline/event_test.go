package pipeline

import (
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
)

func s3Event(bucket, key string) events.S3Event {
	return events.S3Event{
		Records: []events.S3EventRecord{{
			EventName: "ObjectCreated:Put",
			S3: events.S3Entity{
				Bucket: events.S3Bucket{Name: bucket},
				Object: events.S3Object{Key: key},
			},
		}},
	}
}

func TestParseEvent(t *testing.T) {
	objects, err := ParseEvent(s3Event("pictures", "shipments/42.jpg"))
	if err != nil {
		t.Fatalf("ParseEvent() error: %v", err)
	}
	if len(objects) != 1 {
		t.Fatalf("got %d objects, want 1", len(objects))
	}
	if objects[0].Bucket != "pictures" || objects[0].Key != "shipments/42.jpg" {
		t.Errorf("parsed object = %+v", objects[0])
	}
	if objects[0].EventType != "ObjectCreated:Put" {
		t.Errorf("EventType = %q", objects[0].EventType)
	}
}

func TestParseEventDecodesKey(t *testing.T) {
	// S3 notifications URL-encode keys: spaces arrive as '+'.
	objects, err := ParseEvent(s3Event("pictures", "shipments/order+42.jpg"))
	if err != nil {
		t.Fatalf("ParseEvent() error: %v", err)
	}
	if objects[0].Key != "shipments/order 42.jpg" {
		t.Errorf("Key = %q, want decoded key", objects[0].Key)
	}
}

func TestParseEventMalformed(t *testing.T) {
	tests := []struct {
		name  string
		event events.S3Event
	}{
		{"no records", events.S3Event{}},
		{"missing bucket", s3Event("", "shipments/42.jpg")},
		{"missing key", s3Event("pictures", "")},
		{"undecodable key", s3Event("pictures", "bad%zz")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEvent(tt.event)
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("expected *ParseError, got %T: %v", err, err)
			}
		})
	}
}

func TestShipmentIDFromKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"orders/42.jpg", "42"},
		{"shipments/abc-123.png", "abc-123"},
		{"deep/nested/path/7.jpeg", "7"},
		{"noprefix.jpg", "noprefix"},
		{"noextension", "noextension"},
	}

	for _, tt := range tests {
		if got := ShipmentIDFromKey(tt.key); got != tt.want {
			t.Errorf("ShipmentIDFromKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
