package shipment

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ImageKeyPrefix is the bucket prefix for shipment pictures. Keys have
// the form "<prefix>/<shipmentId>.<ext>" so the pipeline can derive the
// shipment ID from the key alone.
const ImageKeyPrefix = "shipments"

// ImageStore is the slice of the object store the service needs for
// picture upload and download.
type ImageStore interface {
	Get(ctx context.Context, bucket, key string) (data []byte, contentType string, err error)
	Put(ctx context.Context, bucket, key string, data []byte, contentType string, metadata map[string]string) error
}

// contentTypeByExt maps accepted picture extensions to content types.
var contentTypeByExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// Service ties the record store and the picture bucket together for the
// HTTP layer.
type Service struct {
	store  Store
	images ImageStore
	bucket string
}

// NewService creates a Service.
func NewService(store Store, images ImageStore, bucket string) *Service {
	return &Service{store: store, images: images, bucket: bucket}
}

// List returns all shipment records.
func (s *Service) List(ctx context.Context) ([]Shipment, error) {
	return s.store.List(ctx)
}

// Save stores a shipment record, assigning an ID when none is given.
func (s *Service) Save(ctx context.Context, sh *Shipment) error {
	if sh.ID == "" {
		sh.ID = uuid.NewString()
	}
	return s.store.Save(ctx, sh)
}

// Delete removes a shipment record.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// UploadImage writes a shipment picture to the bucket. The write carries
// no processing marker, so the store event it emits drives the watermark
// pipeline. The record's ImageKey is updated on success.
func (s *Service) UploadImage(ctx context.Context, shipmentID, filename string, data []byte) (string, error) {
	sh, err := s.store.Get(ctx, shipmentID)
	if err != nil {
		return "", err
	}
	if sh == nil {
		return "", fmt.Errorf("shipment %s not found", shipmentID)
	}

	ext := strings.ToLower(path.Ext(filename))
	contentType, ok := contentTypeByExt[ext]
	if !ok {
		return "", fmt.Errorf("unsupported picture type %q", ext)
	}

	key := fmt.Sprintf("%s/%s%s", ImageKeyPrefix, shipmentID, ext)
	if err := s.images.Put(ctx, s.bucket, key, data, contentType, nil); err != nil {
		return "", fmt.Errorf("upload picture: %w", err)
	}

	sh.ImageKey = key
	if err := s.store.Save(ctx, sh); err != nil {
		return "", fmt.Errorf("update record after upload: %w", err)
	}

	log.Info().
		Str("shipmentId", shipmentID).
		Str("key", key).
		Int("size", len(data)).
		Msg("Shipment picture uploaded")
	return key, nil
}

// DownloadImage reads the current shipment picture. After the pipeline
// finishes this is the watermarked version.
func (s *Service) DownloadImage(ctx context.Context, shipmentID string) ([]byte, string, error) {
	sh, err := s.store.Get(ctx, shipmentID)
	if err != nil {
		return nil, "", err
	}
	if sh == nil || sh.ImageKey == "" {
		return nil, "", fmt.Errorf("shipment %s has no picture", shipmentID)
	}
	return s.images.Get(ctx, s.bucket, sh.ImageKey)
}
