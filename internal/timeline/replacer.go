package timeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/draftcut/draftcut-agent/internal/draft"
	"github.com/draftcut/draftcut-agent/internal/probe"
)

var (
	// ErrSegmentDurationMissing is returned when a targeted segment index
	// has no recorded original duration.
	ErrSegmentDurationMissing = errors.New("segment duration missing")

	// ErrTrackIndexOutOfRange is returned when the requested video track
	// index exceeds the template's video track count.
	ErrTrackIndexOutOfRange = errors.New("video track index out of range")
)

// Replacement targets one segment index with a replacement asset.
type Replacement struct {
	SegmentIndex int
	AssetPath    string
}

// OriginalDurations reads per-segment target durations from a template's
// project description, read-only, for the video track at the given index.
// The map is keyed by segment index within that track.
func OriginalDurations(contentPath string, trackIndex int) (map[int]draft.Microseconds, error) {
	template, err := draft.Load(contentPath)
	if err != nil {
		return nil, err
	}

	videoTracks := template.VideoTracks()
	if trackIndex < 0 || trackIndex >= len(videoTracks) {
		return nil, fmt.Errorf("%w: index %d, template has %d video tracks",
			ErrTrackIndexOutOfRange, trackIndex, len(videoTracks))
	}

	durations := make(map[int]draft.Microseconds, len(videoTracks[trackIndex].Segments))
	for i, seg := range videoTracks[trackIndex].Segments {
		durations[i] = seg.Target.Duration
	}
	return durations, nil
}

// Replacer substitutes the material under targeted segments of a
// materialized template track.
type Replacer struct {
	prober probe.Prober
	logger *slog.Logger
}

func NewReplacer(prober probe.Prober, logger *slog.Logger) *Replacer {
	return &Replacer{prober: prober, logger: logger}
}

// assetState tracks sequential consumption of one replacement asset across
// every segment index it is assigned to.
type assetState struct {
	material *draft.Material
	offset   draft.Microseconds
}

// Replace applies the replacements to the track. Processing happens in
// ascending segment-index order regardless of input order, so reusing one
// asset across several segments consumes its footage deterministically.
// When an asset runs short the segment is truncated from the tail; when it
// is fully exhausted the segment is removed. Removals happen last, in
// descending index order, so earlier deletions cannot shift the indexes of
// later ones.
func (r *Replacer) Replace(ctx context.Context, d *draft.Draft, track *draft.Track, originalDurations map[int]draft.Microseconds, replacements []Replacement) error {
	ordered := make([]Replacement, len(replacements))
	copy(ordered, replacements)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].SegmentIndex < ordered[j].SegmentIndex
	})

	states := make(map[string]*assetState)
	var toRemove []int

	for _, rep := range ordered {
		target, ok := originalDurations[rep.SegmentIndex]
		if !ok {
			return fmt.Errorf("%w: segment %d", ErrSegmentDurationMissing, rep.SegmentIndex)
		}
		if rep.SegmentIndex >= len(track.Segments) {
			return fmt.Errorf("%w: segment %d not on track", ErrSegmentDurationMissing, rep.SegmentIndex)
		}

		state, ok := states[rep.AssetPath]
		if !ok {
			duration, err := r.prober.Duration(ctx, rep.AssetPath)
			if err != nil {
				return err
			}
			state = &assetState{material: d.AddVideoMaterial(rep.AssetPath, duration)}
			states[rep.AssetPath] = state
		}

		remaining := state.material.Duration - state.offset
		if remaining <= 0 {
			toRemove = append(toRemove, rep.SegmentIndex)
			if r.logger != nil {
				r.logger.Warn("replacement asset exhausted, segment removed",
					"path", rep.AssetPath, "segment", rep.SegmentIndex)
			}
			continue
		}

		use := target
		if use > remaining {
			use = remaining
		}

		seg := track.Segments[rep.SegmentIndex]
		seg.MaterialID = state.material.ID
		seg.Source = draft.Timerange{Start: state.offset, Duration: use}
		// Shrink policy: a short asset truncates the segment tail rather
		// than stretching footage or failing the whole job.
		seg.Target.Duration = use
		state.offset += use
	}

	sort.Sort(sort.Reverse(sort.IntSlice(toRemove)))
	for _, index := range toRemove {
		track.RemoveSegment(index)
	}

	d.RecalcDuration()
	return nil
}
