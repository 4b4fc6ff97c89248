package timeline

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/draftcut/draftcut-agent/internal/draft"
	"github.com/draftcut/draftcut-agent/internal/probe"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// asset creates a placeholder media file and registers its duration with
// the stub prober.
func asset(t *testing.T, p *probe.StubProber, dir, name string, duration draft.Microseconds) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("media"), 0o644); err != nil {
		t.Fatal(err)
	}
	p.Durations[path] = duration
	return path
}

func newStubProber() *probe.StubProber {
	return &probe.StubProber{Durations: map[string]draft.Microseconds{}}
}

func newDraftWithTrack(t *testing.T, trackName string) (*draft.Draft, *draft.Track) {
	t.Helper()
	d, err := draft.New("job", 1920, 1080, 30)
	if err != nil {
		t.Fatal(err)
	}
	return d, d.AddTrack(draft.TrackVideo, trackName)
}
