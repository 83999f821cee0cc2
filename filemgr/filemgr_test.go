package filemgr

import (
	"strings"
	"testing"
)

func TestWebPath(t *testing.T) {
	got := WebPath(EntityCollection, "quality-1-wheat.jpg")
	want := "/static/uploads/collection/quality-1-wheat.jpg"
	if got != want {
		t.Errorf("WebPath = %q, want %q", got, want)
	}
}

func TestResolvePath(t *testing.T) {
	if got := ResolvePath(EntityCrop); !strings.HasSuffix(got, "crop") {
		t.Errorf("ResolvePath = %q", got)
	}
}

func TestProcessedFilename(t *testing.T) {
	name := processedFilename("My Wheat Photo!.PNG")
	if !strings.HasPrefix(name, "quality-") || !strings.HasSuffix(name, ".jpg") {
		t.Errorf("unexpected filename %q", name)
	}
	if strings.ContainsAny(name, " !") {
		t.Errorf("unsafe characters survived in %q", name)
	}
}

func TestProcessedFilenameFallsBackToUUID(t *testing.T) {
	name := processedFilename("../../.png")
	if !strings.HasPrefix(name, "quality-") || !strings.HasSuffix(name, ".jpg") {
		t.Errorf("unexpected filename %q", name)
	}
	// Sanitizing stripped everything, so a generated id must fill in.
	parts := strings.SplitN(strings.TrimSuffix(name, ".jpg"), "-", 3)
	if len(parts) != 3 || parts[2] == "" {
		t.Errorf("expected generated base in %q", name)
	}
}
