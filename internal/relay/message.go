package relay

import (
	"encoding/json"
	"fmt"
	"strings"
)

// snsEnvelope is the JSON wrapper SNS puts around messages delivered to a
// subscribed SQS queue. Only the fields the relay reads are declared.
type snsEnvelope struct {
	Type      string `json:"Type"`
	MessageID string `json:"MessageId"`
	Message   string `json:"Message"`
}

// ParseError reports a queue message whose body could not be reduced to a
// shipment identifier.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse notification message: %s", e.Reason)
}

// ParseNotification extracts the shipment identifier from a queue message
// body. Bodies arrive either as an SNS notification envelope (default
// SNS→SQS subscription) or as the bare identifier (raw message delivery).
func ParseNotification(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", &ParseError{Reason: "empty body"}
	}

	if strings.HasPrefix(body, "{") {
		var env snsEnvelope
		if err := json.Unmarshal([]byte(body), &env); err != nil {
			return "", &ParseError{Reason: fmt.Sprintf("invalid JSON envelope: %v", err)}
		}
		if env.Type != "Notification" {
			return "", &ParseError{Reason: fmt.Sprintf("unexpected envelope type %q", env.Type)}
		}
		id := strings.TrimSpace(env.Message)
		if id == "" {
			return "", &ParseError{Reason: "envelope has empty Message field"}
		}
		return id, nil
	}

	return body, nil
}
