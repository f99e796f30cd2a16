package watermark

import "fmt"

// DecodeError reports input bytes that are not a valid or supported image.
// This is a permanent failure for the object: retrying the same bytes
// cannot succeed.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ProcessingError reports an internal rendering or encoding failure.
type ProcessingError struct {
	Reason string
	Err    error
}

func (e *ProcessingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("process image: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("process image: %s", e.Reason)
}

func (e *ProcessingError) Unwrap() error { return e.Err }
