package timeline

import (
	"os"
	"testing"

	"github.com/draftcut/draftcut-agent/internal/draft"
)

func TestCollect_PrunesMissingFiles(t *testing.T) {
	prober := newStubProber()
	dir := t.TempDir()
	live := asset(t, prober, dir, "live.mp4", 3*draft.Second)
	gone := asset(t, prober, dir, "gone.mp4", 2*draft.Second)

	d, track := newDraftWithTrack(t, "video_main")
	mLive := d.AddVideoMaterial(live, 3*draft.Second)
	mGone := d.AddVideoMaterial(gone, 2*draft.Second)
	track.AppendSegment(mLive, draft.Timerange{Duration: 3 * draft.Second})
	track.AppendSegment(mGone, draft.Timerange{Duration: 2 * draft.Second})
	track.AppendSegment(mLive, draft.Timerange{Duration: 3 * draft.Second})
	d.RecalcDuration()

	if err := os.Remove(gone); err != nil {
		t.Fatal(err)
	}

	Collect(d, testLogger())

	if len(d.Materials.Videos) != 1 {
		t.Fatalf("materials = %d, want 1", len(d.Materials.Videos))
	}
	if d.Materials.Videos[0].ID != mLive.ID {
		t.Fatal("surviving material is not the live one")
	}
	if len(track.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(track.Segments))
	}
	for i, seg := range track.Segments {
		if seg.MaterialID != mLive.ID {
			t.Fatalf("segment %d references pruned material", i)
		}
	}
	if d.Duration != 8*draft.Second {
		t.Fatalf("duration = %d, want %d", d.Duration, 8*draft.Second)
	}
}

func TestCollect_AllFilesPresent(t *testing.T) {
	prober := newStubProber()
	dir := t.TempDir()
	live := asset(t, prober, dir, "live.mp4", 3*draft.Second)

	d, track := newDraftWithTrack(t, "video_main")
	m := d.AddVideoMaterial(live, 3*draft.Second)
	track.AppendSegment(m, draft.Timerange{Duration: 3 * draft.Second})
	d.RecalcDuration()

	Collect(d, testLogger())

	if len(d.Materials.Videos) != 1 || len(track.Segments) != 1 {
		t.Fatal("draft with intact files was modified")
	}
}
