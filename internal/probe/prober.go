// Package probe resolves the usable duration of a media asset by reading
// its container metadata with ffprobe. Assets are opaque to the agent; no
// frame content is ever decoded.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/draftcut/draftcut-agent/internal/draft"
)

var (
	// ErrAssetNotFound is returned when an asset path does not exist.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrAssetNotAFile is returned when an asset path is a directory.
	ErrAssetNotAFile = errors.New("asset is not a file")

	// ErrAssetUnreadable is returned when the container metadata cannot be
	// parsed.
	ErrAssetUnreadable = errors.New("asset unreadable")
)

// Prober resolves an asset's duration in the draft time base.
type Prober interface {
	Duration(ctx context.Context, path string) (draft.Microseconds, error)
}

// CheckFile validates that a path points at an existing regular file. Flows
// run this over every asset up front so a bad path fails the request before
// any draft directory is touched.
func CheckFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrAssetNotFound, path)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrAssetNotAFile, path)
	}
	return nil
}

// FFprobe shells out to the ffprobe binary for container duration.
type FFprobe struct {
	binary string
	logger *slog.Logger
}

// NewFFprobe builds a prober around the given ffprobe binary ("ffprobe"
// resolves via PATH).
func NewFFprobe(binary string, logger *slog.Logger) *FFprobe {
	if binary == "" {
		binary = "ffprobe"
	}
	return &FFprobe{binary: binary, logger: logger}
}

func (p *FFprobe) Duration(ctx context.Context, path string) (draft.Microseconds, error) {
	if err := CheckFile(path); err != nil {
		return 0, err
	}

	cmd := exec.CommandContext(ctx, p.binary,
		"-v", "quiet",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("%w: %s: ffprobe: %v", ErrAssetUnreadable, path, err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: bad ffprobe output %q", ErrAssetUnreadable, path, strings.TrimSpace(string(out)))
	}
	if seconds < 0 {
		return 0, fmt.Errorf("%w: %s: negative duration", ErrAssetUnreadable, path)
	}

	micro := draft.SecondsToMicro(seconds)
	if p.logger != nil {
		p.logger.Debug("probed asset", "path", path, "duration_us", micro)
	}
	return micro, nil
}

// StubProber serves fixed durations from a map, for tests and for running
// the agent without ffmpeg installed. Paths absent from the map still go
// through the regular file checks and then report as unreadable.
type StubProber struct {
	Durations map[string]draft.Microseconds
}

func (p *StubProber) Duration(ctx context.Context, path string) (draft.Microseconds, error) {
	if err := CheckFile(path); err != nil {
		return 0, err
	}
	d, ok := p.Durations[path]
	if !ok {
		return 0, fmt.Errorf("%w: %s: no stub duration", ErrAssetUnreadable, path)
	}
	return d, nil
}
