package service

import (
	"errors"
	"fmt"

	"github.com/draftcut/draftcut-agent/internal/draft"
	"github.com/draftcut/draftcut-agent/internal/export"
	"github.com/draftcut/draftcut-agent/internal/probe"
	"github.com/draftcut/draftcut-agent/internal/timeline"
)

// Failure codes carried by JobError. The API layer maps these to HTTP
// statuses; anything that is not a JobError is an internal fault and must
// not leak detail to the caller.
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeAssetNotFound    = "ASSET_NOT_FOUND"
	CodeAssetUnreadable  = "ASSET_UNREADABLE"
	CodeEmptyTimeline    = "EMPTY_TIMELINE"
	CodeTemplateNotFound = "TEMPLATE_NOT_FOUND"
	CodeDraftExists      = "DRAFT_EXISTS"
	CodeTemplateCorrupt  = "TEMPLATE_CORRUPT"
	CodeDurationLookup   = "DURATION_LOOKUP_UNAVAILABLE"
	CodeTrackIndex       = "TRACK_INDEX_OUT_OF_RANGE"
	CodeUnsupportedFPS   = "UNSUPPORTED_FRAME_RATE"
	CodeExportFailed     = "EXPORT_FAILED"
)

// ErrDurationLookupUnavailable is returned for replace requests that carry
// only a template name: the original per-segment durations can only be read
// from an explicit template description path.
var ErrDurationLookupUnavailable = errors.New("template_path required to read original segment durations")

// JobError is the single domain-level failure signal every flow raises. It
// wraps the ground cause and carries a stable machine code.
type JobError struct {
	Code string
	Err  error
}

func (e *JobError) Error() string {
	return e.Err.Error()
}

func (e *JobError) Unwrap() error {
	return e.Err
}

func fail(code string, err error) *JobError {
	return &JobError{Code: code, Err: err}
}

func failf(code, format string, args ...any) *JobError {
	return &JobError{Code: code, Err: fmt.Errorf(format, args...)}
}

// classify wraps a core error in a JobError by matching the sentinel it
// descends from. Errors with no matching sentinel pass through unchanged and
// surface as internal faults at the boundary.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var je *JobError
	if errors.As(err, &je) {
		return err
	}

	switch {
	case errors.Is(err, probe.ErrAssetNotFound):
		return fail(CodeAssetNotFound, err)
	case errors.Is(err, probe.ErrAssetNotAFile):
		return fail(CodeBadRequest, err)
	case errors.Is(err, probe.ErrAssetUnreadable):
		return fail(CodeAssetUnreadable, err)
	case errors.Is(err, timeline.ErrEmptyTimeline):
		return fail(CodeEmptyTimeline, err)
	case errors.Is(err, timeline.ErrSegmentDurationMissing):
		return fail(CodeBadRequest, err)
	case errors.Is(err, timeline.ErrTrackIndexOutOfRange):
		return fail(CodeTrackIndex, err)
	case errors.Is(err, draft.ErrInvalidName):
		return fail(CodeBadRequest, err)
	case errors.Is(err, draft.ErrDraftExists):
		return fail(CodeDraftExists, err)
	case errors.Is(err, draft.ErrTemplateNotFound):
		return fail(CodeTemplateNotFound, err)
	case errors.Is(err, draft.ErrTemplateCorrupt):
		return fail(CodeTemplateCorrupt, err)
	case errors.Is(err, export.ErrUnsupportedFrameRate):
		return fail(CodeUnsupportedFPS, err)
	case errors.Is(err, export.ErrInvalidOutputPath):
		return fail(CodeBadRequest, err)
	case errors.Is(err, ErrDurationLookupUnavailable):
		return fail(CodeDurationLookup, err)
	default:
		return err
	}
}
