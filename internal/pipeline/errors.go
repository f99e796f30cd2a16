package pipeline

import "fmt"

// MetadataFetchError reports a failed metadata lookup during the guard
// check. Transient: the event is safe to re-drive, and the handler exits
// without side effects. It must never be treated as "not yet processed".
type MetadataFetchError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *MetadataFetchError) Error() string {
	return fmt.Sprintf("fetch metadata for %s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e *MetadataFetchError) Unwrap() error { return e.Err }

// FetchError reports a failed payload read after the guard allowed
// processing. Transient and safe to re-drive.
type FetchError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch object %s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ReuploadError reports a failed write of the watermarked output. The
// processed bytes are lost for this attempt; the whole event is safe to
// retry since the guard will still see the object as unprocessed.
type ReuploadError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *ReuploadError) Error() string {
	return fmt.Sprintf("re-upload %s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e *ReuploadError) Unwrap() error { return e.Err }

// PublishError reports a failed notification publish after a successful
// re-upload. Non-fatal to the user-visible outcome: the object is already
// watermarked and marked; only the live notification is lost.
type PublishError struct {
	ShipmentID string
	Err        error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish notification for shipment %s: %v", e.ShipmentID, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
