package usecases

import (
	"bytes"
	"context"
	"image/color"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"convert-mastery/internal/infrastructure/storage"

	"github.com/disintegration/imaging"
)

func fileHeader(t *testing.T, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = req.MultipartForm.RemoveAll() })
	return req.MultipartForm.File[field][0]
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := imaging.New(64, 32, color.White)
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func newUploadStore(t *testing.T) *storage.UploadStore {
	t.Helper()
	return storage.NewUploadStore(filepath.Join(t.TempDir(), "uploads"))
}

type fakeEngine struct {
	text  string
	err   error
	calls []string
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Recognize(_ context.Context, imagePath, lang string) (string, error) {
	f.calls = append(f.calls, imagePath+"|"+lang)
	if _, err := os.Stat(imagePath); err != nil {
		return "", err
	}
	return f.text, f.err
}

type publishCall struct {
	topic   string
	percent int
}

type fakePublisher struct {
	mu     sync.Mutex
	calls  []publishCall
	closed []string
}

func (f *fakePublisher) Publish(topic string, percent int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, publishCall{topic, percent})
	return 1
}

func (f *fakePublisher) CloseTopic(topic string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, topic)
}
