package usecases

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func touch(t *testing.T, path string, age time.Duration) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	mod := time.Now().Add(-age)
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
}

func TestCleanupOldFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "old.mp4"), 48*time.Hour)
	touch(t, filepath.Join(dir, "fresh.mp4"), time.Minute)
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}

	svc := NewCleanupService(RetentionPolicy{}, zap.NewNop())
	n, err := svc.CleanupOldFiles(dir, 24*time.Hour)
	if err != nil {
		t.Fatalf("CleanupOldFiles: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 removal, got %d", n)
	}
	left := dirEntries(t, dir)
	if len(left) != 2 {
		t.Fatalf("expected fresh file and nested dir to remain, got %v", left)
	}
}

func TestCleanupOldFiles_DisabledRetention(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "old.mp4"), 48*time.Hour)

	n, err := NewCleanupService(RetentionPolicy{}, zap.NewNop()).CleanupOldFiles(dir, 0)
	if err != nil || n != 0 {
		t.Fatalf("expected no-op, got n=%d err=%v", n, err)
	}
}

func TestCleanupOldFiles_MissingDir(t *testing.T) {
	svc := NewCleanupService(RetentionPolicy{}, zap.NewNop())
	if _, err := svc.CleanupOldFiles(filepath.Join(t.TempDir(), "nope"), time.Hour); err == nil {
		t.Fatal("expected error for missing dir")
	}
}

func TestSweep_AppliesBothPolicies(t *testing.T) {
	uploads, converted := t.TempDir(), t.TempDir()
	touch(t, filepath.Join(uploads, "orphan.mp4"), 2*time.Hour)
	touch(t, filepath.Join(converted, "1.mp4"), 2*time.Hour)
	touch(t, filepath.Join(converted, "2.mp4"), 48*time.Hour)

	NewCleanupService(RetentionPolicy{
		UploadDir:         uploads,
		UploadRetention:   time.Hour,
		ConvertedDir:      converted,
		ArtifactRetention: 24 * time.Hour,
	}, zap.NewNop()).Sweep()

	if left := dirEntries(t, uploads); len(left) != 0 {
		t.Fatalf("expected orphaned upload to be removed, got %v", left)
	}
	if left := dirEntries(t, converted); len(left) != 1 || left[0] != "1.mp4" {
		t.Fatalf("expected only the recent artifact to remain, got %v", left)
	}
}

func TestNewRetentionScheduler(t *testing.T) {
	svc := NewCleanupService(RetentionPolicy{}, zap.NewNop())

	c, err := NewRetentionScheduler("0 */5 * * * *", svc, zap.NewNop())
	if err != nil {
		t.Fatalf("NewRetentionScheduler: %v", err)
	}
	if len(c.Entries()) != 1 {
		t.Fatalf("expected one entry, got %d", len(c.Entries()))
	}

	if _, err := NewRetentionScheduler("every tuesday", svc, zap.NewNop()); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}
