package timeline

import (
	"log/slog"
	"os"

	"github.com/draftcut/draftcut-agent/internal/draft"
)

// Collect prunes materials whose backing file no longer exists, along with
// every video or audio segment referencing them. A stat failure counts as
// missing. Runs after every mutating flow, before persistence, so a saved
// draft never hands the exporter a dangling reference. Missing files are
// pruned silently rather than failing the job; a degraded draft beats an
// aborted one when the cause is stale template references.
func Collect(d *draft.Draft, logger *slog.Logger) {
	removed := make(map[string]bool)

	d.Materials.Videos = pruneMaterials(d.Materials.Videos, removed, logger)
	d.Materials.Audios = pruneMaterials(d.Materials.Audios, removed, logger)

	if len(removed) == 0 {
		return
	}

	for _, track := range d.Tracks {
		if track.Type != draft.TrackVideo && track.Type != draft.TrackAudio {
			continue
		}
		kept := track.Segments[:0]
		for _, seg := range track.Segments {
			if !removed[seg.MaterialID] {
				kept = append(kept, seg)
			}
		}
		track.Segments = kept
	}

	d.RecalcDuration()
}

func pruneMaterials(materials []*draft.Material, removed map[string]bool, logger *slog.Logger) []*draft.Material {
	kept := materials[:0]
	for _, m := range materials {
		if _, err := os.Stat(m.Path); err != nil {
			removed[m.ID] = true
			if logger != nil {
				logger.Info("pruned material with missing file", "path", m.Path, "material_id", m.ID)
			}
			continue
		}
		kept = append(kept, m)
	}
	return kept
}
