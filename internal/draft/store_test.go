package draft

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveLoad_Roundtrip(t *testing.T) {
	root := t.TempDir()
	f, err := NewFolder(root)
	if err != nil {
		t.Fatal(err)
	}

	d, err := f.Create("job-1", 1080, 1920, 25, false)
	if err != nil {
		t.Fatal(err)
	}
	track := d.AddTrack(TrackVideo, "video_main")
	m := d.AddVideoMaterial("/media/a.mp4", 7*Second)
	track.AppendSegment(m, Timerange{Duration: 7 * Second})
	d.RecalcDuration()

	if err := d.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(filepath.Join(root, "job-1", ContentFilename))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Name != "job-1" || loaded.FPS != 25 {
		t.Fatalf("loaded draft = %q fps=%d", loaded.Name, loaded.FPS)
	}
	if loaded.Canvas.Width != 1080 || loaded.Canvas.Height != 1920 {
		t.Fatalf("loaded canvas = %dx%d", loaded.Canvas.Width, loaded.Canvas.Height)
	}
	if loaded.Duration != 7*Second {
		t.Fatalf("loaded duration = %d", loaded.Duration)
	}
	tr, ok := loaded.TrackByName("video_main")
	if !ok || len(tr.Segments) != 1 {
		t.Fatal("video_main track not restored")
	}
	if tr.Segments[0].MaterialID != m.ID {
		t.Fatal("segment material reference lost")
	}

	// Load binds the draft to its directory so Save writes back in place.
	if loaded.Dir() != filepath.Join(root, "job-1") {
		t.Fatalf("loaded dir = %q", loaded.Dir())
	}
}

func TestSave_Unbound(t *testing.T) {
	d, _ := New("job-1", 1920, 1080, 30)
	if err := d.Save(); err == nil {
		t.Fatal("expected error saving a draft with no directory")
	}
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	root := t.TempDir()
	f, _ := NewFolder(root)
	d, err := f.Create("job-1", 1920, 1080, 30, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Save(); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(filepath.Join(root, "job-1"))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}
