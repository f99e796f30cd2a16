package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSTopic implements the pipeline's topic publisher over SNS.
type SNSTopic struct {
	client   *sns.Client
	topicARN string
}

// NewSNSClient creates an SNS client with an optional endpoint override.
func NewSNSClient(cfg aws.Config, endpointURL string) *sns.Client {
	return sns.NewFromConfig(cfg, func(o *sns.Options) {
		if endpointURL != "" {
			o.BaseEndpoint = aws.String(endpointURL)
		}
	})
}

// NewSNSTopic wraps an SNS client and topic ARN as a topic publisher.
func NewSNSTopic(client *sns.Client, topicARN string) *SNSTopic {
	return &SNSTopic{client: client, topicARN: topicARN}
}

// Publish sends a message to the topic. Every subscribed queue receives
// a copy.
func (t *SNSTopic) Publish(ctx context.Context, message string) error {
	_, err := t.client.Publish(ctx, &sns.PublishInput{
		TopicArn: &t.topicARN,
		Message:  &message,
	})
	if err != nil {
		return fmt.Errorf("SNS Publish to %s: %w", t.topicARN, err)
	}
	return nil
}
