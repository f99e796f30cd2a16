// Package shipment holds the shipment record store and the thin HTTP
// wrappers around upload, download, and CRUD. The processing pipeline
// never depends on this package; uploads feed it only through the
// object store's own event stream.
package shipment

import "context"

// Party is a sender or recipient on a shipment record.
type Party struct {
	Name    string `json:"name" dynamodbav:"name"`
	Address string `json:"address" dynamodbav:"address"`
}

// Shipment is one shipment record.
type Shipment struct {
	ID        string  `json:"shipmentId" dynamodbav:"shipmentId"`
	Sender    Party   `json:"sender" dynamodbav:"sender"`
	Recipient Party   `json:"recipient" dynamodbav:"recipient"`
	Weight    float64 `json:"weight" dynamodbav:"weight"`

	// ImageKey is the object key of the shipment picture, set on upload.
	ImageKey string `json:"imageKey,omitempty" dynamodbav:"imageKey,omitempty"`
}

// Store persists shipment records.
type Store interface {
	// List returns all shipment records.
	List(ctx context.Context) ([]Shipment, error)

	// Get returns the record with the given ID, or nil when absent.
	Get(ctx context.Context, id string) (*Shipment, error)

	// Save creates or overwrites a record.
	Save(ctx context.Context, s *Shipment) error

	// Delete removes a record. Deleting an absent record is not an error.
	Delete(ctx context.Context, id string) error
}
