package routers

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"convert-mastery/internal/delivery/http/handlers"
	"convert-mastery/internal/domain/dto"
	"convert-mastery/internal/infrastructure/progress"
	"convert-mastery/internal/pkg/config"

	"go.uber.org/zap"
)

type stubOCR struct{}

func (stubOCR) ExtractText(context.Context, *multipart.FileHeader) (*dto.OCRResponse, error) {
	return &dto.OCRResponse{Text: "ok"}, nil
}

type stubVideo struct{}

func (stubVideo) Convert(*multipart.FileHeader, dto.ConvertVideoRequestDTO) (*dto.ConvertVideoResponse, error) {
	return &dto.ConvertVideoResponse{URL: "u"}, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.Server.CORSOrigin = "https://convertmastery.com"
	cfg.Upload.MaxFileSize = 1024
	cfg.Upload.UploadsDir = filepath.Join(dir, "uploads")
	cfg.Upload.ConvertedDir = filepath.Join(dir, "converted")
	if err := cfg.EnsureDirs(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestRouter(t *testing.T) {
	cfg := testConfig(t)
	log := zap.NewNop()
	app := NewApp(cfg, log)
	SetupConversionRoutes(app,
		handlers.NewOCRHandler(stubOCR{}, log),
		handlers.NewVideoHandler(stubVideo{}, log),
		handlers.NewProgressHandler(progress.NewHub(1), log),
	)

	if err := os.WriteFile(filepath.Join(cfg.Upload.ConvertedDir, "1700000000000.mp4"), []byte("video-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("health", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		var body dto.HealthResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Status != "ok" {
			t.Fatalf("unexpected health response %+v err=%v", body, err)
		}
	})

	t.Run("static artifact", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/uploads/converted/1700000000000.mp4", nil), -1)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		raw, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK || string(raw) != "video-bytes" {
			t.Fatalf("unexpected static response %d %q", resp.StatusCode, raw)
		}
	})

	t.Run("missing artifact", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/uploads/converted/nope.mp4", nil), -1)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", resp.StatusCode)
		}
		var body dto.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
			t.Fatalf("expected json error body, got %+v err=%v", body, err)
		}
	})

	t.Run("missing upload", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/convert-image", nil), -1)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("cors", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://convertmastery.com")
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://convertmastery.com" {
			t.Fatalf("unexpected allow origin %q", got)
		}
		if got := resp.Header.Get("Access-Control-Allow-Credentials"); got != "true" {
			t.Fatalf("expected credentials to be allowed, got %q", got)
		}
	})

	t.Run("request id", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.Header.Get("X-Request-ID") == "" {
			t.Fatal("expected a request id header")
		}
	})
}
