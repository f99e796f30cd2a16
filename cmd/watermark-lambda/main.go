// Package main provides the Lambda entry point for shipment picture
// watermarking.
//
// The Lambda is invoked by S3 ObjectCreated events on the shipment
// picture bucket. Each invocation runs the processing pipeline: check
// the idempotency marker, watermark the picture, write it back with the
// marker attached, and publish a completion notification to SNS. The
// write-back itself re-triggers this Lambda, which then exits at the
// marker check. That skip is the steady state, not an error.
//
// Memory: 256 MB
// Timeout: 1 minute
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/tinyg210/shipment-list-demo/internal/awsclient"
	"github.com/tinyg210/shipment-list-demo/internal/logging"
	"github.com/tinyg210/shipment-list-demo/internal/metrics"
	"github.com/tinyg210/shipment-list-demo/internal/pipeline"
	"github.com/tinyg210/shipment-list-demo/internal/watermark"
)

// Clients initialized at cold start.
var (
	handler  *pipeline.Handler
	topicARN string
)

var coldStart = true

func init() {
	initStart := time.Now()
	logging.Init()

	cfg, err := awsclient.Load(context.Background(), os.Getenv("AWS_REGION"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}

	topicARN = os.Getenv("SNS_TOPIC_ARN")
	if topicARN == "" {
		log.Fatal().Msg("SNS_TOPIC_ARN environment variable is required")
	}

	endpointURL := os.Getenv("AWS_ENDPOINT_URL")
	store := awsclient.NewS3ObjectStore(awsclient.NewS3Client(cfg, endpointURL))
	topic := awsclient.NewSNSTopic(awsclient.NewSNSClient(cfg, endpointURL), topicARN)
	handler = pipeline.NewHandler(store, topic)

	logging.NewStartupLogger("watermark-lambda").
		InitDuration(time.Since(initStart)).
		SNSTopic("notifications", topicARN).
		Config("endpointOverride", endpointURL).
		Log()
}

// handle processes one S3 event. Transient store failures return an
// error so the event is re-driven; permanent per-object failures (bad
// image data) are logged and swallowed so a poison object cannot spin
// the pipeline forever.
func handle(ctx context.Context, event events.S3Event) error {
	if coldStart {
		coldStart = false
		log.Info().Str("function", "watermark-lambda").Msg("Cold start, first invocation")
	}

	objects, err := pipeline.ParseEvent(event)
	if err != nil {
		// Malformed events cannot succeed on redelivery either.
		log.Error().Err(err).Msg("Discarding malformed store event")
		emitResult("ParseFailed", time.Duration(0))
		return nil
	}

	for _, obj := range objects {
		start := time.Now()
		result, err := handler.Handle(ctx, obj)
		switch {
		case err == nil && result.Skipped:
			emitResult("Skipped", time.Since(start))
		case err == nil:
			emitResult("Processed", time.Since(start))
		default:
			if permanent(err) {
				log.Error().
					Err(err).
					Str("bucket", obj.Bucket).
					Str("key", obj.Key).
					Msg("Picture cannot be processed, not retrying")
				emitResult("Failed", time.Since(start))
				continue
			}
			emitResult("Retryable", time.Since(start))
			return err
		}
	}
	return nil
}

// permanent reports whether the error can never succeed on retry.
func permanent(err error) bool {
	var decodeErr *watermark.DecodeError
	var processErr *watermark.ProcessingError
	return errors.As(err, &decodeErr) || errors.As(err, &processErr)
}

// emitResult writes one EMF metric line for the invocation outcome.
func emitResult(outcome string, d time.Duration) {
	rec := metrics.NewRecorder().
		Dimension("Outcome", outcome).
		Count("Invocations")
	if d > 0 {
		rec = rec.Duration("HandlerDuration", d)
	}
	rec.Flush()
}

func main() {
	lambda.Start(handle)
}
