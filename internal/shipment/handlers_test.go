package shipment

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) (*httptest.Server, *MemoryStore, *fakeImageStore) {
	t.Helper()
	records := NewMemoryStore()
	images := newFakeImageStore()
	mux := http.NewServeMux()
	NewHandler(NewService(records, images, "pictures")).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, records, images
}

func TestHandlerSaveAndList(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body := `{"sender":{"name":"Ana","address":"1 Dock Rd, Lisbon"},"recipient":{"name":"Bo"},"weight":3.2}`
	resp, err := http.Post(srv.URL+"/api/shipment", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST status = %d", resp.StatusCode)
	}

	var saved Shipment
	if err := json.NewDecoder(resp.Body).Decode(&saved); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if saved.ID == "" {
		t.Error("saved shipment has no ID")
	}

	listResp, err := http.Get(srv.URL + "/api/shipment")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer listResp.Body.Close()

	var all []Shipment
	if err := json.NewDecoder(listResp.Body).Decode(&all); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(all) != 1 || all[0].Sender.Name != "Ana" {
		t.Errorf("list = %+v", all)
	}
}

func TestHandlerSaveRejectsBadPayload(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/shipment", "application/json", strings.NewReader("{broken"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestHandlerDelete(t *testing.T) {
	srv, records, _ := newTestServer(t)
	records.Save(context.Background(), &Shipment{ID: "42"})

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/shipment/42", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	if got, _ := records.Get(context.Background(), "42"); got != nil {
		t.Error("record still present after delete")
	}
}

func TestHandlerUploadAndDownload(t *testing.T) {
	srv, records, images := newTestServer(t)
	records.Save(context.Background(), &Shipment{ID: "42"})

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, _ := form.CreateFormFile("file", "parcel.jpg")
	part.Write([]byte("jpeg-bytes"))
	form.Close()

	resp, err := http.Post(srv.URL+"/api/shipment/42/image/upload", form.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("upload status = %d: %s", resp.StatusCode, body)
	}

	var uploaded map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if uploaded["key"] != "shipments/42.jpg" {
		t.Errorf("key = %q, want shipments/42.jpg", uploaded["key"])
	}

	// The service wrote to the bucket; watermark happens out of band, so
	// download returns whatever is at the key.
	images.objects["pictures/shipments/42.jpg"] = []byte("stamped")
	images.types["pictures/shipments/42.jpg"] = "image/jpeg"

	dlResp, err := http.Get(srv.URL + "/api/shipment/42/image/download")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer dlResp.Body.Close()
	if dlResp.StatusCode != http.StatusOK {
		t.Fatalf("download status = %d", dlResp.StatusCode)
	}
	data, _ := io.ReadAll(dlResp.Body)
	if !bytes.Equal(data, []byte("stamped")) {
		t.Errorf("downloaded %q", data)
	}
	if ct := dlResp.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestHandlerDownloadWithoutPicture(t *testing.T) {
	srv, records, _ := newTestServer(t)
	records.Save(context.Background(), &Shipment{ID: "42"})

	resp, err := http.Get(srv.URL + "/api/shipment/42/image/download")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestHandlerUnknownRoute(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/shipment/42/image/resize")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}
