package awsclient

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/tinyg210/shipment-list-demo/internal/relay"
)

// SQSQueue implements the relay's queue over SQS.
type SQSQueue struct {
	client   *sqs.Client
	queueURL string
}

// NewSQSClient creates an SQS client with an optional endpoint override.
func NewSQSClient(cfg aws.Config, endpointURL string) *sqs.Client {
	return sqs.NewFromConfig(cfg, func(o *sqs.Options) {
		if endpointURL != "" {
			o.BaseEndpoint = aws.String(endpointURL)
		}
	})
}

// NewSQSQueue wraps an SQS client and queue URL as a relay queue.
func NewSQSQueue(client *sqs.Client, queueURL string) *SQSQueue {
	return &SQSQueue{client: client, queueURL: queueURL}
}

// Receive long-polls the queue. Messages missing a body or receipt
// handle are skipped; they cannot be processed or acknowledged.
func (q *SQSQueue) Receive(ctx context.Context, maxMessages int32, wait time.Duration) ([]relay.Message, error) {
	result, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            &q.queueURL,
		MaxNumberOfMessages: maxMessages,
		WaitTimeSeconds:     int32(wait / time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("SQS ReceiveMessage: %w", err)
	}

	msgs := make([]relay.Message, 0, len(result.Messages))
	for _, m := range result.Messages {
		if m.Body == nil || m.ReceiptHandle == nil {
			continue
		}
		msgs = append(msgs, relay.Message{
			Body:          *m.Body,
			ReceiptHandle: *m.ReceiptHandle,
		})
	}
	return msgs, nil
}

// Delete acknowledges a message by receipt handle.
func (q *SQSQueue) Delete(ctx context.Context, receiptHandle string) error {
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      &q.queueURL,
		ReceiptHandle: &receiptHandle,
	})
	if err != nil {
		return fmt.Errorf("SQS DeleteMessage: %w", err)
	}
	return nil
}
