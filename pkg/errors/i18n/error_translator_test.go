package i18n

import "testing"

func TestLoad_SwitchesCatalog(t *testing.T) {
	t.Cleanup(func() {
		if err := Load(DefaultLocale); err != nil {
			t.Fatal(err)
		}
	})

	if got := T("processing_error"); got != "Failed to process image" {
		t.Fatalf("unexpected default message %q", got)
	}
	if err := Load("tr"); err != nil {
		t.Fatalf("Load(tr): %v", err)
	}
	if got := T("processing_error"); got != "Resim işlenemedi" {
		t.Fatalf("unexpected tr message %q", got)
	}
}

func TestLoad_UnknownLocaleKeepsCatalog(t *testing.T) {
	if err := Load("xx"); err == nil {
		t.Fatal("expected error for unknown locale")
	}
	if got := T("conversion_error"); got != "Video conversion failed" {
		t.Fatalf("catalog changed after failed load: %q", got)
	}
	if got := T("no_such_code"); got != "no_such_code" {
		t.Fatalf("expected code fallback, got %q", got)
	}
}
