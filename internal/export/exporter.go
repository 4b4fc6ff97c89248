// Package export is the narrow boundary to the external editor's
// GUI-driven export. The agent validates everything it can up front (frame
// rate, output path) so an export never fails mid-render on bad input, then
// hands the persisted draft name to the automation collaborator.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrUnsupportedFrameRate is returned for frame rates the editor's
	// export dialog does not offer.
	ErrUnsupportedFrameRate = errors.New("unsupported frame rate")

	// ErrInvalidOutputPath is returned when the output path does not name
	// an mp4 file.
	ErrInvalidOutputPath = errors.New("invalid output path")
)

// Resolution1080p is the fixed export resolution, matching the editor's
// 1080p preset.
const Resolution1080p = "1080p"

// supportedFrameRates mirrors the editor's export dialog options.
var supportedFrameRates = map[int]bool{
	24: true,
	25: true,
	30: true,
	50: true,
	60: true,
}

// ValidateFrameRate fails fast on rates the export dialog cannot select.
func ValidateFrameRate(fps int) error {
	if !supportedFrameRates[fps] {
		return fmt.Errorf("%w: %dfps (supported: 24, 25, 30, 50, 60)", ErrUnsupportedFrameRate, fps)
	}
	return nil
}

// PrepareOutputPath enforces the output contract: an .mp4 extension, an
// existing parent directory, and no stale file at the target so overwrite
// semantics are deterministic.
func PrepareOutputPath(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".mp4") {
		return fmt.Errorf("%w: %s must end in .mp4", ErrInvalidOutputPath, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale output: %w", err)
	}
	return nil
}

// Exporter renders a persisted draft to a video file. Implementations own
// the editor automation; the agent only invokes them after the draft is
// durably saved, at most once per successful mutation.
type Exporter interface {
	Export(ctx context.Context, draftName, outputPath string, fps int) error
}

// CommandExporter drives an external automation command, passing the draft
// name, output path, frame rate and resolution as flags.
type CommandExporter struct {
	command string
	logger  *slog.Logger
}

func NewCommandExporter(command string, logger *slog.Logger) *CommandExporter {
	return &CommandExporter{command: command, logger: logger}
}

func (e *CommandExporter) Export(ctx context.Context, draftName, outputPath string, fps int) error {
	if err := ValidateFrameRate(fps); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, e.command,
		"--draft", draftName,
		"--output", outputPath,
		"--fps", strconv.Itoa(fps),
		"--resolution", Resolution1080p,
	)
	if e.logger != nil {
		e.logger.Info("starting export", "draft", draftName, "output", outputPath, "fps", fps)
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("export command failed: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// StubExporter logs instead of exporting, for tests and for running the
// agent on machines without the editor installed.
type StubExporter struct {
	logger *slog.Logger

	// Calls records export invocations for assertions.
	Calls []StubExportCall
}

type StubExportCall struct {
	DraftName  string
	OutputPath string
	FPS        int
}

func NewStubExporter(logger *slog.Logger) *StubExporter {
	return &StubExporter{logger: logger}
}

func (e *StubExporter) Export(ctx context.Context, draftName, outputPath string, fps int) error {
	if err := ValidateFrameRate(fps); err != nil {
		return err
	}
	e.Calls = append(e.Calls, StubExportCall{DraftName: draftName, OutputPath: outputPath, FPS: fps})
	if e.logger != nil {
		e.logger.Info("export stub: export requested", "draft", draftName, "output", outputPath, "fps", fps)
	}
	return nil
}
