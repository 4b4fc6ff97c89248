package probe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/draftcut/draftcut-agent/internal/draft"
)

func writeAsset(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("not really video"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	asset := writeAsset(t, dir, "a.mp4")

	if err := CheckFile(asset); err != nil {
		t.Fatalf("CheckFile(%q) error = %v", asset, err)
	}

	if err := CheckFile(filepath.Join(dir, "missing.mp4")); !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("missing file error = %v, want ErrAssetNotFound", err)
	}

	if err := CheckFile(dir); !errors.Is(err, ErrAssetNotAFile) {
		t.Fatalf("directory error = %v, want ErrAssetNotAFile", err)
	}
}

func TestStubProber(t *testing.T) {
	dir := t.TempDir()
	known := writeAsset(t, dir, "known.mp4")
	unknown := writeAsset(t, dir, "unknown.mp4")

	p := &StubProber{Durations: map[string]draft.Microseconds{
		known: 3 * draft.Second,
	}}

	d, err := p.Duration(context.Background(), known)
	if err != nil {
		t.Fatalf("Duration() error = %v", err)
	}
	if d != 3*draft.Second {
		t.Fatalf("duration = %d, want %d", d, 3*draft.Second)
	}

	if _, err := p.Duration(context.Background(), unknown); !errors.Is(err, ErrAssetUnreadable) {
		t.Fatalf("unknown asset error = %v, want ErrAssetUnreadable", err)
	}

	if _, err := p.Duration(context.Background(), filepath.Join(dir, "nope.mp4")); !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("missing asset error = %v, want ErrAssetNotFound", err)
	}
}
