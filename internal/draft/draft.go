// Package draft models the editable subset of a non-linear-editing project:
// a named draft with canvas settings, typed tracks of placed segments, and a
// material inventory addressing physical media files. Only the documented
// fields of the project description are modeled; everything else in a
// template's description is treated as opaque and preserved on disk by the
// directory copy, never rewritten.
package draft

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Track types understood by the mutation engine. Templates may contain
// other types; those tracks are carried through untouched.
const (
	TrackVideo = "video"
	TrackAudio = "audio"
	TrackText  = "text"
)

// invalidNameChars are rejected in draft names because the name doubles as
// the draft's directory name on Windows hosts.
const invalidNameChars = `<>:"/\|?*`

// Draft is a named, persistent timeline project.
type Draft struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Canvas    Canvas       `json:"canvas_config"`
	FPS       int          `json:"fps"`
	Duration  Microseconds `json:"duration"`
	Tracks    []*Track     `json:"tracks"`
	Materials Materials    `json:"materials"`

	dir string
}

// Canvas is the project canvas size in pixels.
type Canvas struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Track holds an ordered sequence of segments of one type.
type Track struct {
	ID       string     `json:"id"`
	Type     string     `json:"type"`
	Name     string     `json:"name"`
	Segments []*Segment `json:"segments"`
}

// Segment places one material on a track: the source range selects footage
// inside the material, the target range positions it on the timeline.
type Segment struct {
	ID         string    `json:"id"`
	MaterialID string    `json:"material_id"`
	Source     Timerange `json:"source_timerange"`
	Target     Timerange `json:"target_timerange"`
}

// Material is one inventory entry backing a physical media file.
type Material struct {
	ID       string       `json:"id"`
	Path     string       `json:"path"`
	Duration Microseconds `json:"duration"`
}

// Materials is the draft's material inventory, split by kind the way the
// project description lays it out.
type Materials struct {
	Videos []*Material `json:"videos"`
	Audios []*Material `json:"audios"`
}

// ValidateName rejects names that cannot serve as a draft directory name.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if strings.ContainsAny(trimmed, invalidNameChars) {
		return fmt.Errorf("%w: %q contains a reserved character", ErrInvalidName, name)
	}
	return nil
}

// New builds an empty draft with a validated name and canvas.
func New(name string, width, height, fps int) (*Draft, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas must be positive, got %dx%d", width, height)
	}
	if fps <= 0 {
		return nil, fmt.Errorf("fps must be positive, got %d", fps)
	}
	return &Draft{
		ID:     uuid.NewString(),
		Name:   strings.TrimSpace(name),
		Canvas: Canvas{Width: width, Height: height},
		FPS:    fps,
	}, nil
}

// Dir returns the draft's directory on disk. Empty for drafts that have not
// been bound to a drafts root yet.
func (d *Draft) Dir() string {
	return d.dir
}

// AddTrack appends a new empty track. A name collision is resolved by
// appending a numeric suffix until the name is unique within the draft.
func (d *Draft) AddTrack(trackType, name string) *Track {
	unique := name
	for n := 2; d.trackNameTaken(unique); n++ {
		unique = fmt.Sprintf("%s_%d", name, n)
	}
	track := &Track{
		ID:   uuid.NewString(),
		Type: trackType,
		Name: unique,
	}
	d.Tracks = append(d.Tracks, track)
	return track
}

func (d *Draft) trackNameTaken(name string) bool {
	for _, t := range d.Tracks {
		if t.Name == name {
			return true
		}
	}
	return false
}

// TrackByName returns the named track, reporting absence explicitly.
func (d *Draft) TrackByName(name string) (*Track, bool) {
	for _, t := range d.Tracks {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// VideoTracks returns the draft's video tracks in timeline order.
func (d *Draft) VideoTracks() []*Track {
	var tracks []*Track
	for _, t := range d.Tracks {
		if t.Type == TrackVideo {
			tracks = append(tracks, t)
		}
	}
	return tracks
}

// AddVideoMaterial registers a media file in the inventory and returns the
// entry. A file already present is returned instead of duplicated, so every
// segment cut from the same asset shares one material.
func (d *Draft) AddVideoMaterial(path string, duration Microseconds) *Material {
	if m, ok := d.VideoMaterialByPath(path); ok {
		return m
	}
	m := &Material{ID: uuid.NewString(), Path: path, Duration: duration}
	d.Materials.Videos = append(d.Materials.Videos, m)
	return m
}

// MaterialByID looks an entry up across the whole inventory.
func (d *Draft) MaterialByID(id string) (*Material, bool) {
	for _, m := range d.Materials.Videos {
		if m.ID == id {
			return m, true
		}
	}
	for _, m := range d.Materials.Audios {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// VideoMaterialByPath finds a video inventory entry by backing file.
func (d *Draft) VideoMaterialByPath(path string) (*Material, bool) {
	for _, m := range d.Materials.Videos {
		if m.Path == path {
			return m, true
		}
	}
	return nil, false
}

// RecalcDuration sets the draft duration to the furthest segment end across
// all tracks. Call after any mutation that moves or removes segments.
func (d *Draft) RecalcDuration() {
	var max Microseconds
	for _, t := range d.Tracks {
		if end := t.End(); end > max {
			max = end
		}
	}
	d.Duration = max
}

// End returns the exclusive end of the last segment on the track, which is
// the append cursor for contiguous concatenation.
func (t *Track) End() Microseconds {
	var max Microseconds
	for _, s := range t.Segments {
		if end := s.Target.End(); end > max {
			max = end
		}
	}
	return max
}

// AppendSegment places material footage at the end of the track and returns
// the new timeline cursor.
func (t *Track) AppendSegment(m *Material, source Timerange) Microseconds {
	cursor := t.End()
	t.Segments = append(t.Segments, &Segment{
		ID:         uuid.NewString(),
		MaterialID: m.ID,
		Source:     source,
		Target:     Timerange{Start: cursor, Duration: source.Duration},
	})
	return cursor + source.Duration
}

// RemoveSegment deletes the segment at index. Out-of-range indexes are
// ignored; callers delete in descending order so earlier removals cannot
// shift later targets.
func (t *Track) RemoveSegment(index int) {
	if index < 0 || index >= len(t.Segments) {
		return
	}
	t.Segments = append(t.Segments[:index], t.Segments[index+1:]...)
}

// ClearSegments drops every segment from the track.
func (t *Track) ClearSegments() {
	t.Segments = nil
}
