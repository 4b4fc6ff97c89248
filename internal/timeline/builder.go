// Package timeline implements the draft mutation engine: flat
// concatenation of assets onto a track, index-targeted segment replacement
// inside a materialized template, sequential refill of template tracks, and
// garbage collection of materials whose backing files are gone.
package timeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/draftcut/draftcut-agent/internal/draft"
	"github.com/draftcut/draftcut-agent/internal/probe"
)

// ErrEmptyTimeline is returned when a build pass adds no segment at all.
// Persisting a zero-segment draft would hand the exporter an unplayable
// project, so the build fails instead.
var ErrEmptyTimeline = errors.New("no usable video segment")

// Builder appends assets back-to-back onto a draft track.
type Builder struct {
	prober probe.Prober
	logger *slog.Logger
}

func NewBuilder(prober probe.Prober, logger *slog.Logger) *Builder {
	return &Builder{prober: prober, logger: logger}
}

// Concat resolves each asset in order and appends it to the named track at
// the current cursor. capMicro, when positive, clips each asset's usable
// duration. Assets whose usable duration is zero are skipped with a
// warning; if nothing ends up on the track the build fails with
// ErrEmptyTimeline. Returns the total duration added.
func (b *Builder) Concat(ctx context.Context, d *draft.Draft, trackName string, assets []string, capMicro draft.Microseconds) (draft.Microseconds, error) {
	track, ok := d.TrackByName(trackName)
	if !ok {
		return 0, fmt.Errorf("track %q not in draft %q", trackName, d.Name)
	}

	var total draft.Microseconds
	for _, asset := range assets {
		added, err := b.appendAsset(ctx, d, track, asset, capMicro)
		if err != nil {
			return 0, err
		}
		total += added
	}

	if total == 0 {
		return 0, ErrEmptyTimeline
	}
	d.RecalcDuration()
	return total, nil
}

// appendAsset places one asset at the track cursor and returns the duration
// added, zero when the asset was skipped.
func (b *Builder) appendAsset(ctx context.Context, d *draft.Draft, track *draft.Track, asset string, capMicro draft.Microseconds) (draft.Microseconds, error) {
	duration, err := b.prober.Duration(ctx, asset)
	if err != nil {
		return 0, err
	}

	usable := duration
	if capMicro > 0 && usable > capMicro {
		usable = capMicro
	}
	if usable <= 0 {
		if b.logger != nil {
			b.logger.Warn("asset has no usable duration, skipped", "path", asset)
		}
		return 0, nil
	}

	material := d.AddVideoMaterial(asset, duration)
	track.AppendSegment(material, draft.Timerange{Start: 0, Duration: usable})
	return usable, nil
}
