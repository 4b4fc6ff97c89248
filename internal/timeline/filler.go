package timeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/draftcut/draftcut-agent/internal/draft"
)

// FillStrategy controls how a fill handles an asset list shorter than the
// template's original segment count.
type FillStrategy string

const (
	// StrategyError places each asset exactly once; a short list simply
	// yields fewer segments than the template had.
	StrategyError FillStrategy = "error"

	// StrategyCycle repeats the asset list until as many segments are
	// placed as the template originally held.
	StrategyCycle FillStrategy = "cycle"
)

// ParseFillStrategy validates the request-level strategy string. Empty
// means StrategyError.
func ParseFillStrategy(s string) (FillStrategy, error) {
	switch FillStrategy(s) {
	case "", StrategyError:
		return StrategyError, nil
	case StrategyCycle:
		return StrategyCycle, nil
	default:
		return "", fmt.Errorf("unknown fill strategy %q", s)
	}
}

// Filler clears a template's video tracks and repopulates them
// concatenation-style.
type Filler struct {
	builder *Builder
	logger  *slog.Logger
}

func NewFiller(builder *Builder, logger *slog.Logger) *Filler {
	return &Filler{builder: builder, logger: logger}
}

// FillTrackName is the video track a fill creates after clearing the
// template's own tracks. Collisions with surviving track names are resolved
// by the draft's numeric suffixing.
const FillTrackName = "video_fill"

// Fill removes every segment from every video track in the draft, then
// appends the assets sequentially onto one fresh video track. slotCount is
// the template's original video-segment count and only matters to
// StrategyCycle, which keeps cycling the asset list until that many
// segments are placed.
func (f *Filler) Fill(ctx context.Context, d *draft.Draft, assets []string, strategy FillStrategy, slotCount int) error {
	for _, track := range d.VideoTracks() {
		track.ClearSegments()
	}

	track := d.AddTrack(draft.TrackVideo, FillTrackName)

	switch strategy {
	case StrategyCycle:
		return f.fillCycling(ctx, d, track, assets, slotCount)
	default:
		_, err := f.builder.Concat(ctx, d, track.Name, assets, 0)
		return err
	}
}

func (f *Filler) fillCycling(ctx context.Context, d *draft.Draft, track *draft.Track, assets []string, slotCount int) error {
	if slotCount < len(assets) {
		slotCount = len(assets)
	}

	for len(track.Segments) < slotCount {
		before := len(track.Segments)
		for _, asset := range assets {
			if len(track.Segments) >= slotCount {
				break
			}
			if _, err := f.builder.appendAsset(ctx, d, track, asset, 0); err != nil {
				return err
			}
		}
		// A cycle that placed nothing would loop forever; every asset in
		// the list has zero usable duration.
		if len(track.Segments) == before {
			break
		}
	}

	if len(track.Segments) == 0 {
		return ErrEmptyTimeline
	}
	d.RecalcDuration()
	return nil
}
