package ocr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"convert-mastery/internal/pkg/config"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake requires a unix shell")
	}
	bin := filepath.Join(t.TempDir(), "tesseract")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return bin
}

func TestCLIEngine_ReturnsStdoutText(t *testing.T) {
	// echoes the arguments so the invocation can be checked
	bin := writeScript(t, "printf 'Hello World\\nargs: %s\\n\\f' \"$*\"\n")

	text, err := NewCLIEngine(bin, time.Second, nil).Recognize(context.Background(), "/tmp/scan.png", "eng")
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if !strings.HasPrefix(text, "Hello World") {
		t.Fatalf("unexpected text %q", text)
	}
	if !strings.HasSuffix(text, "args: /tmp/scan.png stdout -l eng") {
		t.Fatalf("unexpected invocation %q", text)
	}
}

func TestCLIEngine_FailureIncludesStderr(t *testing.T) {
	bin := writeScript(t, "echo 'Error in pixReadStream' >&2\nexit 1\n")

	_, err := NewCLIEngine(bin, time.Second, nil).Recognize(context.Background(), "/tmp/scan.png", "eng")
	if err == nil || !strings.Contains(err.Error(), "pixReadStream") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}

func TestCLIEngine_Timeout(t *testing.T) {
	bin := writeScript(t, "exec sleep 5\n")

	_, err := NewCLIEngine(bin, 100*time.Millisecond, nil).Recognize(context.Background(), "/tmp/scan.png", "eng")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestCLIEngine_RequiresPath(t *testing.T) {
	if _, err := NewCLIEngine("tesseract", 0, nil).Recognize(context.Background(), "", "eng"); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestNewEngine(t *testing.T) {
	e, err := NewEngine(config.OCRConfig{Engine: "cli", TesseractPath: "tesseract"}, nil)
	if err != nil {
		t.Fatalf("NewEngine(cli): %v", err)
	}
	if e.Name() != EngineCLI {
		t.Fatalf("unexpected engine %q", e.Name())
	}

	if _, err := NewEngine(config.OCRConfig{Engine: "paddle"}, nil); err == nil {
		t.Fatal("expected error for unknown engine")
	}
}

func TestEnsureBinary_Missing(t *testing.T) {
	if err := EnsureBinary(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing binary")
	}
}
