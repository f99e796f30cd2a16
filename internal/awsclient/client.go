// Package awsclient wires the AWS SDK clients behind the pipeline's
// narrow interfaces: the S3 object store, the SNS fan-out topic, and the
// SQS notification queue.
//
// All clients honor an endpoint override (LocalStack) passed in through
// the configuration struct; S3 additionally switches to path-style
// addressing since LocalStack does not resolve virtual-host buckets.
package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// Load resolves the default AWS configuration, applying the region when
// one is set.
func Load(ctx context.Context, region string) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load AWS config: %w", err)
	}
	return cfg, nil
}
