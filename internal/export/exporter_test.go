package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidateFrameRate(t *testing.T) {
	for _, fps := range []int{24, 25, 30, 50, 60} {
		if err := ValidateFrameRate(fps); err != nil {
			t.Errorf("ValidateFrameRate(%d) = %v, want nil", fps, err)
		}
	}
	for _, fps := range []int{0, 23, 29, 48, 120, -30} {
		if err := ValidateFrameRate(fps); !errors.Is(err, ErrUnsupportedFrameRate) {
			t.Errorf("ValidateFrameRate(%d) = %v, want ErrUnsupportedFrameRate", fps, err)
		}
	}
}

func TestPrepareOutputPath(t *testing.T) {
	t.Run("rejects non-mp4", func(t *testing.T) {
		for _, path := range []string{"out.mov", "out.mp4.tmp", "out", "out.avi"} {
			if err := PrepareOutputPath(filepath.Join(t.TempDir(), path)); !errors.Is(err, ErrInvalidOutputPath) {
				t.Errorf("PrepareOutputPath(%q) = %v, want ErrInvalidOutputPath", path, err)
			}
		}
	})

	t.Run("extension case insensitive", func(t *testing.T) {
		if err := PrepareOutputPath(filepath.Join(t.TempDir(), "out.MP4")); err != nil {
			t.Fatalf("PrepareOutputPath() = %v", err)
		}
	})

	t.Run("creates parent dirs", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a", "b", "out.mp4")
		if err := PrepareOutputPath(path); err != nil {
			t.Fatalf("PrepareOutputPath() = %v", err)
		}
		if _, err := os.Stat(filepath.Dir(path)); err != nil {
			t.Fatalf("parent dir not created: %v", err)
		}
	})

	t.Run("removes stale output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.mp4")
		if err := os.WriteFile(path, []byte("old render"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := PrepareOutputPath(path); err != nil {
			t.Fatalf("PrepareOutputPath() = %v", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatal("stale output file still present")
		}
	})
}

func TestStubExporterRecordsCalls(t *testing.T) {
	stub := NewStubExporter(nil)

	if err := stub.Export(context.Background(), "demo", "/tmp/out.mp4", 30); err != nil {
		t.Fatalf("Export() = %v", err)
	}
	if len(stub.Calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(stub.Calls))
	}
	call := stub.Calls[0]
	if call.DraftName != "demo" || call.OutputPath != "/tmp/out.mp4" || call.FPS != 30 {
		t.Fatalf("call = %+v", call)
	}
}

func TestStubExporterRejectsBadFrameRate(t *testing.T) {
	stub := NewStubExporter(nil)

	err := stub.Export(context.Background(), "demo", "/tmp/out.mp4", 23)
	if !errors.Is(err, ErrUnsupportedFrameRate) {
		t.Fatalf("Export() = %v, want ErrUnsupportedFrameRate", err)
	}
	if len(stub.Calls) != 0 {
		t.Fatal("rejected export was recorded")
	}
}
