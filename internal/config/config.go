// Package config builds the process-wide configuration once at startup.
//
// Every component receives the parts of Config it needs by reference;
// there is no ambient global lookup of endpoints or resource names
// after init.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Default values applied when the corresponding environment variable is unset.
const (
	DefaultHTTPPort        = 8080
	DefaultPollWaitSeconds = 10
	DefaultPollerCount     = 1
	DefaultSendTimeout     = 500 * time.Millisecond
)

// Config holds every external resource name and tuning knob the pipeline
// uses. It is constructed once at process start via FromEnv.
type Config struct {
	// Region is the AWS region for all clients.
	Region string

	// EndpointURL overrides the AWS endpoint for all services when set
	// (LocalStack). S3 switches to path-style addressing in that case.
	EndpointURL string

	// BucketName is the shipment picture bucket.
	BucketName string

	// TopicARN is the SNS topic the watermark Lambda publishes to.
	TopicARN string

	// QueueURL is the SQS queue subscribed to TopicARN, polled by the
	// notification relay.
	QueueURL string

	// TableName is the DynamoDB shipment table.
	TableName string

	// HTTPPort is the shipment server listen port.
	HTTPPort int

	// PollWaitSeconds is the SQS long-poll wait per ReceiveMessage call.
	PollWaitSeconds int

	// PollerCount is the number of concurrent relay pollers.
	PollerCount int

	// SendTimeout bounds a single push to a live session so one slow
	// client cannot stall the relay.
	SendTimeout time.Duration
}

// FromEnv reads the configuration from environment variables.
// Resource names (bucket, topic, queue, table) are required; tuning
// knobs fall back to defaults.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Region:      os.Getenv("AWS_REGION"),
		EndpointURL: os.Getenv("AWS_ENDPOINT_URL"),
		BucketName:  os.Getenv("BUCKET_NAME"),
		TopicARN:    os.Getenv("SNS_TOPIC_ARN"),
		QueueURL:    os.Getenv("SQS_QUEUE_URL"),
		TableName:   os.Getenv("DYNAMO_TABLE_NAME"),
	}

	if cfg.BucketName == "" {
		return nil, fmt.Errorf("BUCKET_NAME environment variable is required")
	}
	if cfg.TopicARN == "" {
		return nil, fmt.Errorf("SNS_TOPIC_ARN environment variable is required")
	}
	if cfg.QueueURL == "" {
		return nil, fmt.Errorf("SQS_QUEUE_URL environment variable is required")
	}
	if cfg.TableName == "" {
		return nil, fmt.Errorf("DYNAMO_TABLE_NAME environment variable is required")
	}

	var err error
	if cfg.HTTPPort, err = intEnv("HTTP_PORT", DefaultHTTPPort); err != nil {
		return nil, err
	}
	if cfg.PollWaitSeconds, err = intEnv("SQS_POLL_WAIT_SECONDS", DefaultPollWaitSeconds); err != nil {
		return nil, err
	}
	if cfg.PollerCount, err = intEnv("RELAY_POLLER_COUNT", DefaultPollerCount); err != nil {
		return nil, err
	}
	ms, err := intEnv("SSE_SEND_TIMEOUT_MS", int(DefaultSendTimeout/time.Millisecond))
	if err != nil {
		return nil, err
	}
	cfg.SendTimeout = time.Duration(ms) * time.Millisecond

	return cfg, nil
}

// intEnv parses an integer environment variable, returning def when unset.
func intEnv(name string, def int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, v)
	}
	return n, nil
}
