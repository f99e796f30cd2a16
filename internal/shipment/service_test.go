package shipment

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
)

// fakeImageStore records puts and serves gets from memory.
type fakeImageStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (f *fakeImageStore) Get(_ context.Context, bucket, key string) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, "", fmt.Errorf("no such object %s/%s", bucket, key)
	}
	return data, f.types[bucket+"/"+key], nil
}

func (f *fakeImageStore) Put(_ context.Context, bucket, key string, data []byte, contentType string, metadata map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	if len(metadata) != 0 {
		return fmt.Errorf("upload carried metadata %v; uploads must be unmarked", metadata)
	}
	f.objects[bucket+"/"+key] = data
	f.types[bucket+"/"+key] = contentType
	return nil
}

func newTestService() (*Service, *MemoryStore, *fakeImageStore) {
	records := NewMemoryStore()
	images := newFakeImageStore()
	return NewService(records, images, "pictures"), records, images
}

func TestSaveAssignsID(t *testing.T) {
	svc, _, _ := newTestService()

	sh := &Shipment{Sender: Party{Name: "Ana"}, Weight: 2.5}
	if err := svc.Save(context.Background(), sh); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if sh.ID == "" {
		t.Error("Save() did not assign an ID")
	}

	got, err := svc.store.Get(context.Background(), sh.ID)
	if err != nil || got == nil {
		t.Fatalf("saved record not found: %v", err)
	}
	if got.Sender.Name != "Ana" {
		t.Errorf("Sender.Name = %q", got.Sender.Name)
	}
}

func TestSaveKeepsExistingID(t *testing.T) {
	svc, _, _ := newTestService()

	sh := &Shipment{ID: "fixed-id"}
	if err := svc.Save(context.Background(), sh); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if sh.ID != "fixed-id" {
		t.Errorf("ID = %q, want fixed-id", sh.ID)
	}
}

func TestUploadImageKeyShape(t *testing.T) {
	svc, records, images := newTestService()
	records.Save(context.Background(), &Shipment{ID: "42"})

	key, err := svc.UploadImage(context.Background(), "42", "parcel.PNG", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("UploadImage() error: %v", err)
	}
	// The key must end in the shipment ID so the pipeline can derive it.
	if key != "shipments/42.png" {
		t.Errorf("key = %q, want shipments/42.png", key)
	}
	if _, ok := images.objects["pictures/"+key]; !ok {
		t.Error("picture not written to the bucket")
	}

	got, _ := records.Get(context.Background(), "42")
	if got.ImageKey != key {
		t.Errorf("record ImageKey = %q, want %q", got.ImageKey, key)
	}
}

func TestUploadImageUnknownShipment(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.UploadImage(context.Background(), "missing", "a.jpg", []byte("x")); err == nil {
		t.Error("UploadImage() succeeded for unknown shipment")
	}
}

func TestUploadImageRejectsUnsupportedType(t *testing.T) {
	svc, records, _ := newTestService()
	records.Save(context.Background(), &Shipment{ID: "42"})

	if _, err := svc.UploadImage(context.Background(), "42", "notes.txt", []byte("hello")); err == nil {
		t.Error("UploadImage() accepted a non-picture file")
	}
}

func TestDownloadImage(t *testing.T) {
	svc, records, images := newTestService()
	records.Save(context.Background(), &Shipment{ID: "42", ImageKey: "shipments/42.jpg"})
	images.objects["pictures/shipments/42.jpg"] = []byte("stamped")
	images.types["pictures/shipments/42.jpg"] = "image/jpeg"

	data, contentType, err := svc.DownloadImage(context.Background(), "42")
	if err != nil {
		t.Fatalf("DownloadImage() error: %v", err)
	}
	if !bytes.Equal(data, []byte("stamped")) {
		t.Errorf("data = %q", data)
	}
	if contentType != "image/jpeg" {
		t.Errorf("contentType = %q", contentType)
	}
}

func TestDownloadImageNoPicture(t *testing.T) {
	svc, records, _ := newTestService()
	records.Save(context.Background(), &Shipment{ID: "42"})

	if _, _, err := svc.DownloadImage(context.Background(), "42"); err == nil {
		t.Error("DownloadImage() succeeded for shipment without picture")
	}
}
