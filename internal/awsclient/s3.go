package awsclient

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// S3ObjectStore implements the pipeline's object store over S3.
type S3ObjectStore struct {
	client *s3.Client
}

// NewS3Client creates an S3 client with an optional endpoint override.
func NewS3Client(cfg aws.Config, endpointURL string) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpointURL != "" {
			o.BaseEndpoint = aws.String(endpointURL)
			o.UsePathStyle = true
		}
	})
}

// NewS3ObjectStore wraps an S3 client as an object store.
func NewS3ObjectStore(client *s3.Client) *S3ObjectStore {
	return &S3ObjectStore{client: client}
}

// Metadata returns the user metadata for an object via HeadObject,
// without reading the payload.
func (s *S3ObjectStore) Metadata(ctx context.Context, bucket, key string) (map[string]string, error) {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("S3 HeadObject: %w", err)
	}
	return head.Metadata, nil
}

// Get reads the full object payload and its content type.
func (s *S3ObjectStore) Get(ctx context.Context, bucket, key string) ([]byte, string, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, "", fmt.Errorf("S3 GetObject: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read object body: %w", err)
	}

	contentType := ""
	if result.ContentType != nil {
		contentType = *result.ContentType
	}
	return data, contentType, nil
}

// Put writes an object with its user metadata attached in the same call.
// S3 metadata is immutable after the write, which is exactly what the
// idempotency marker requires.
func (s *S3ObjectStore) Put(ctx context.Context, bucket, key string, data []byte, contentType string, metadata map[string]string) error {
	log.Debug().
		Str("bucket", bucket).
		Str("key", key).
		Int("size", len(data)).
		Msg("Uploading object to S3")

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
		Metadata:    metadata,
	})
	if err != nil {
		return fmt.Errorf("S3 PutObject: %w", err)
	}
	return nil
}
