package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")
	t.Setenv("APP_LOCALE", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("UPLOAD_DIR", "")
	t.Setenv("CONVERTED_DIR", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Server.Port != "5000" {
		t.Fatalf("expected default port 5000, got %q", cfg.Server.Port)
	}
	if cfg.Server.CORSOrigin != "https://convertmastery.com" {
		t.Fatalf("unexpected CORS origin %q", cfg.Server.CORSOrigin)
	}
	if cfg.OCR.Language != "eng" {
		t.Fatalf("expected eng OCR language, got %q", cfg.OCR.Language)
	}
	if cfg.App.Locale != "en" {
		t.Fatalf("expected en locale, got %q", cfg.App.Locale)
	}
	if cfg.Cleanup.ArtifactRetention != 24*time.Hour {
		t.Fatalf("unexpected artifact retention %v", cfg.Cleanup.ArtifactRetention)
	}

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range []string{cfg.Upload.UploadsDir, cfg.Upload.ConvertedDir} {
		if !filepath.IsAbs(d) {
			t.Fatalf("expected absolute dir, got %q", d)
		}
		info, err := os.Stat(d)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected %q to be created, err=%v", d, err)
		}
		got, _ := filepath.EvalSymlinks(filepath.Dir(d))
		if got != resolved {
			t.Fatalf("expected %q under %q", d, resolved)
		}
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "8081")
	t.Setenv("APP_LOCALE", "tr")
	t.Setenv("OCR_TIMEOUT", "30s")
	t.Setenv("ARTIFACT_RETENTION", "0")
	t.Setenv("UPLOAD_MAX_FILE_SIZE", "1048576")
	t.Setenv("UPLOAD_DIR", "in")
	t.Setenv("CONVERTED_DIR", "out")
	t.Setenv("STORAGE_DRIVER", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Server.Port != "8081" {
		t.Fatalf("expected port override, got %q", cfg.Server.Port)
	}
	if cfg.App.Locale != "tr" {
		t.Fatalf("expected locale override, got %q", cfg.App.Locale)
	}
	if cfg.OCR.Timeout != 30*time.Second {
		t.Fatalf("expected 30s OCR timeout, got %v", cfg.OCR.Timeout)
	}
	if cfg.Cleanup.ArtifactRetention != 0 {
		t.Fatalf("expected retention disabled, got %v", cfg.Cleanup.ArtifactRetention)
	}
	if cfg.Upload.MaxFileSize != 1048576 {
		t.Fatalf("unexpected max file size %d", cfg.Upload.MaxFileSize)
	}
	if filepath.Base(cfg.Upload.UploadsDir) != "in" || filepath.Base(cfg.Upload.ConvertedDir) != "out" {
		t.Fatalf("unexpected dirs %q %q", cfg.Upload.UploadsDir, cfg.Upload.ConvertedDir)
	}
}

func TestLoadConfig_YAMLFileThenEnv(t *testing.T) {
	dir := chdirTemp(t)
	file := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: "7000"
  public_base_url: https://api.example.com
ocr:
  engine: gosseract
  timeout: 45s
cleanup:
  upload_retention: 10m
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", file)
	t.Setenv("PORT", "")
	t.Setenv("PUBLIC_BASE_URL", "https://override.example.com")
	t.Setenv("OCR_ENGINE", "")
	t.Setenv("OCR_TIMEOUT", "")
	t.Setenv("UPLOAD_RETENTION", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("UPLOAD_DIR", "")
	t.Setenv("CONVERTED_DIR", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Server.Port != "7000" {
		t.Fatalf("expected port from file, got %q", cfg.Server.Port)
	}
	if cfg.Server.PublicBaseURL != "https://override.example.com" {
		t.Fatalf("expected env to win over file, got %q", cfg.Server.PublicBaseURL)
	}
	if cfg.OCR.Engine != "gosseract" || cfg.OCR.Timeout != 45*time.Second {
		t.Fatalf("unexpected OCR config %+v", cfg.OCR)
	}
	if cfg.Cleanup.UploadRetention != 10*time.Minute {
		t.Fatalf("unexpected upload retention %v", cfg.Cleanup.UploadRetention)
	}
	if cfg.OCR.Language != "eng" {
		t.Fatalf("defaults not in the file must survive, got %q", cfg.OCR.Language)
	}
}

func TestLoadConfig_S3RequiresBucket(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("S3_BUCKET", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when S3 bucket is missing")
	}
}

func TestLoadConfig_UnknownStorageDriver(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STORAGE_DRIVER", "ftp")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unknown storage driver")
	}
}
