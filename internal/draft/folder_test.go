package draft

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestFolder(t *testing.T) *Folder {
	t.Helper()
	f, err := NewFolder(t.TempDir())
	if err != nil {
		t.Fatalf("NewFolder() error = %v", err)
	}
	return f
}

// writeTemplate lays down a minimal template draft directory and returns
// the path of its description file.
func writeTemplate(t *testing.T, root, name string) string {
	t.Helper()
	d, err := New(name, 1080, 1920, 30)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	track := d.AddTrack(TrackVideo, "video_main")
	m := d.AddVideoMaterial("/media/template.mp4", 8*Second)
	track.AppendSegment(m, Timerange{Duration: 4 * Second})
	track.AppendSegment(m, Timerange{Start: 4 * Second, Duration: 4 * Second})
	d.RecalcDuration()

	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	d.dir = dir
	if err := d.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	return filepath.Join(dir, ContentFilename)
}

func TestNewFolder_RejectsMissingRoot(t *testing.T) {
	if _, err := NewFolder(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing drafts root")
	}
}

func TestCreate_FreshDraft(t *testing.T) {
	f := newTestFolder(t)

	d, err := f.Create("job-1", 1920, 1080, 30, false)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !f.Exists("job-1") {
		t.Fatal("draft directory not created")
	}
	if d.Dir() != filepath.Join(f.Root(), "job-1") {
		t.Fatalf("draft dir = %q", d.Dir())
	}
}

func TestCreate_ExistingDraft(t *testing.T) {
	f := newTestFolder(t)
	if _, err := f.Create("job-1", 1920, 1080, 30, false); err != nil {
		t.Fatal(err)
	}

	if _, err := f.Create("job-1", 1920, 1080, 30, false); !errors.Is(err, ErrDraftExists) {
		t.Fatalf("Create() error = %v, want ErrDraftExists", err)
	}

	// allowReplace recreates the directory instead of failing.
	marker := filepath.Join(f.Root(), "job-1", "stale.bin")
	if err := os.WriteFile(marker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Create("job-1", 1920, 1080, 30, true); err != nil {
		t.Fatalf("Create(allowReplace) error = %v", err)
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Fatal("stale file survived allowReplace")
	}
}

func TestDuplicateTemplate(t *testing.T) {
	f := newTestFolder(t)
	writeTemplate(t, f.Root(), "tmpl")

	d, err := f.DuplicateTemplate("tmpl", "job-1")
	if err != nil {
		t.Fatalf("DuplicateTemplate() error = %v", err)
	}
	if d.Name != "job-1" {
		t.Fatalf("duplicated draft name = %q, want job-1", d.Name)
	}
	if len(d.VideoTracks()) != 1 || len(d.VideoTracks()[0].Segments) != 2 {
		t.Fatal("template content not carried into the copy")
	}

	// The template itself is untouched.
	original, err := Load(filepath.Join(f.Root(), "tmpl", ContentFilename))
	if err != nil {
		t.Fatalf("template load error = %v", err)
	}
	if original.Name != "tmpl" {
		t.Fatalf("template was renamed to %q", original.Name)
	}
}

func TestDuplicateTemplate_NotFound(t *testing.T) {
	f := newTestFolder(t)
	if _, err := f.DuplicateTemplate("missing", "job-1"); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("error = %v, want ErrTemplateNotFound", err)
	}
}

func TestDuplicateTemplate_TargetExists(t *testing.T) {
	f := newTestFolder(t)
	writeTemplate(t, f.Root(), "tmpl")
	if _, err := f.Create("job-1", 1920, 1080, 30, false); err != nil {
		t.Fatal(err)
	}

	existing := filepath.Join(f.Root(), "job-1", ContentFilename)
	before, err := os.ReadFile(existing)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.DuplicateTemplate("tmpl", "job-1"); !errors.Is(err, ErrDraftExists) {
		t.Fatalf("error = %v, want ErrDraftExists", err)
	}

	// The conflict must be detected before any copying touches the target.
	after, err := os.ReadFile(existing)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Fatal("existing draft was modified by failed duplication")
	}
}

func TestMaterializeTemplate(t *testing.T) {
	f := newTestFolder(t)
	templatesDir := t.TempDir()
	contentPath := writeTemplate(t, templatesDir, "source")

	d, err := f.MaterializeTemplate(contentPath, "job-1")
	if err != nil {
		t.Fatalf("MaterializeTemplate() error = %v", err)
	}
	if d.Name != "job-1" {
		t.Fatalf("materialized name = %q", d.Name)
	}
	if !f.Exists("job-1") {
		t.Fatal("materialized directory missing under root")
	}
}

func TestMaterializeTemplate_Corrupt(t *testing.T) {
	f := newTestFolder(t)
	dir := filepath.Join(t.TempDir(), "broken")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	// The description file has the wrong name, so the copy has no
	// draft_content.json.
	stray := filepath.Join(dir, "template.json")
	if err := os.WriteFile(stray, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := f.MaterializeTemplate(stray, "job-1"); !errors.Is(err, ErrTemplateCorrupt) {
		t.Fatalf("error = %v, want ErrTemplateCorrupt", err)
	}
}
