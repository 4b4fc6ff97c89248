// Package service orchestrates the three mutation flows: concat builds a
// fresh draft from scratch, template replace and template fill materialize
// a template copy and rework its video tracks. Every flow validates its
// input, mutates an in-memory draft, garbage-collects materials, persists,
// and only then triggers the external export. A failure before persistence
// discards the in-memory draft; export runs at most once, after a
// successful save.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/draftcut/draftcut-agent/internal/draft"
	"github.com/draftcut/draftcut-agent/internal/export"
	"github.com/draftcut/draftcut-agent/internal/jobs"
	"github.com/draftcut/draftcut-agent/internal/logging"
	"github.com/draftcut/draftcut-agent/internal/probe"
	"github.com/draftcut/draftcut-agent/internal/timeline"
)

// ConcatTrackName is the single video track a concat flow creates.
const ConcatTrackName = "video_main"

// Canvas is the draft canvas size in pixels.
type Canvas struct {
	Width  int
	Height int
}

// ConcatRequest builds a new draft by concatenating videos back to back.
type ConcatRequest struct {
	JobID      string
	DraftsRoot string
	OutputPath string
	Canvas     Canvas
	FPS        int
	Videos     []string
	// MaxEachVideoSeconds caps each asset's usable duration. Zero means no
	// cap.
	MaxEachVideoSeconds float64
}

// TemplateRequest carries the fields shared by the template flows.
type TemplateRequest struct {
	JobID           string
	DraftsRoot      string
	TemplateName    string
	TemplatePath    string
	OutputPath      string
	FPS             int
	VideoTrackIndex int
}

// ReplaceRequest substitutes assets under selected template segments.
type ReplaceRequest struct {
	TemplateRequest
	Replacements []timeline.Replacement
}

// FillRequest refills a template's video tracks sequentially.
type FillRequest struct {
	TemplateRequest
	Assets       []string
	FillStrategy string
}

// Result reports a completed flow.
type Result struct {
	JobID      string
	DraftName  string
	OutputPath string
}

// Service wires the mutation engine to its collaborators.
type Service struct {
	prober   probe.Prober
	exporter export.Exporter
	repo     jobs.Repository
	logger   *slog.Logger

	builder  *timeline.Builder
	replacer *timeline.Replacer
	filler   *timeline.Filler
}

func New(prober probe.Prober, exporter export.Exporter, repo jobs.Repository, logger *slog.Logger) *Service {
	builder := timeline.NewBuilder(prober, logger)
	return &Service{
		prober:   prober,
		exporter: exporter,
		repo:     repo,
		logger:   logger,
		builder:  builder,
		replacer: timeline.NewReplacer(prober, logger),
		filler:   timeline.NewFiller(builder, logger),
	}
}

// Concat runs the concatenation flow.
func (s *Service) Concat(ctx context.Context, req ConcatRequest) (*Result, error) {
	log := logging.WithJob(s.logger, req.JobID, jobs.FlowConcat)

	if err := s.validateCommon(req.JobID, req.DraftsRoot, req.OutputPath, req.FPS); err != nil {
		return nil, err
	}
	if len(req.Videos) == 0 {
		return nil, failf(CodeBadRequest, "videos must not be empty")
	}
	if err := checkAssets(req.Videos); err != nil {
		return nil, err
	}

	folder, err := draft.NewFolder(req.DraftsRoot)
	if err != nil {
		return nil, fail(CodeBadRequest, err)
	}

	job := s.beginJob(ctx, jobs.FlowConcat, req.JobID, req.OutputPath)
	result, err := s.runConcat(ctx, folder, req, log)
	s.finishJob(ctx, job, err)
	return result, err
}

func (s *Service) runConcat(ctx context.Context, folder *draft.Folder, req ConcatRequest, log *slog.Logger) (*Result, error) {
	// Re-running a job id replaces its own earlier draft.
	d, err := folder.Create(req.JobID, req.Canvas.Width, req.Canvas.Height, req.FPS, true)
	if err != nil {
		return nil, classify(err)
	}
	track := d.AddTrack(draft.TrackVideo, ConcatTrackName)

	var capMicro draft.Microseconds
	if req.MaxEachVideoSeconds > 0 {
		capMicro = draft.SecondsToMicro(req.MaxEachVideoSeconds)
	}

	total, err := s.builder.Concat(ctx, d, track.Name, req.Videos, capMicro)
	if err != nil {
		return nil, classify(err)
	}
	log.Info("timeline built", "segments", len(track.Segments), "total_us", total)

	return s.persistAndExport(ctx, d, req.OutputPath, req.FPS, log)
}

// TemplateReplace runs the segment replacement flow against a materialized
// template copy.
func (s *Service) TemplateReplace(ctx context.Context, req ReplaceRequest) (*Result, error) {
	log := logging.WithJob(s.logger, req.JobID, jobs.FlowTemplateReplace)

	if err := s.validateCommon(req.JobID, req.DraftsRoot, req.OutputPath, req.FPS); err != nil {
		return nil, err
	}
	if len(req.Replacements) == 0 {
		return nil, failf(CodeBadRequest, "replacements must not be empty")
	}
	for _, rep := range req.Replacements {
		if rep.SegmentIndex < 0 {
			return nil, failf(CodeBadRequest, "segment_index must not be negative")
		}
		if err := probe.CheckFile(rep.AssetPath); err != nil {
			return nil, classify(err)
		}
	}
	if req.TemplatePath == "" {
		// Duplicating by name never exposes the template description, so
		// the original durations cannot be read.
		return nil, fail(CodeDurationLookup, ErrDurationLookupUnavailable)
	}
	if _, err := os.Stat(req.TemplatePath); err != nil {
		return nil, failf(CodeTemplateNotFound, "template description %s: %v", req.TemplatePath, err)
	}

	originalDurations, err := timeline.OriginalDurations(req.TemplatePath, req.VideoTrackIndex)
	if err != nil {
		return nil, classify(err)
	}

	folder, err := draft.NewFolder(req.DraftsRoot)
	if err != nil {
		return nil, fail(CodeBadRequest, err)
	}

	job := s.beginJob(ctx, jobs.FlowTemplateReplace, req.JobID, req.OutputPath)
	result, err := s.runReplace(ctx, folder, req, originalDurations, log)
	s.finishJob(ctx, job, err)
	return result, err
}

func (s *Service) runReplace(ctx context.Context, folder *draft.Folder, req ReplaceRequest, originalDurations map[int]draft.Microseconds, log *slog.Logger) (*Result, error) {
	d, err := folder.MaterializeTemplate(req.TemplatePath, req.JobID)
	if err != nil {
		return nil, classify(err)
	}

	videoTracks := d.VideoTracks()
	if req.VideoTrackIndex >= len(videoTracks) {
		return nil, failf(CodeTrackIndex, "%v: index %d, draft has %d video tracks",
			timeline.ErrTrackIndexOutOfRange, req.VideoTrackIndex, len(videoTracks))
	}
	track := videoTracks[req.VideoTrackIndex]

	if err := s.replacer.Replace(ctx, d, track, originalDurations, req.Replacements); err != nil {
		return nil, classify(err)
	}
	log.Info("segments replaced", "replacements", len(req.Replacements), "remaining_segments", len(track.Segments))

	return s.persistAndExport(ctx, d, req.OutputPath, req.FPS, log)
}

// TemplateFill runs the sequential refill flow against a materialized
// template copy.
func (s *Service) TemplateFill(ctx context.Context, req FillRequest) (*Result, error) {
	log := logging.WithJob(s.logger, req.JobID, jobs.FlowTemplateFill)

	if err := s.validateCommon(req.JobID, req.DraftsRoot, req.OutputPath, req.FPS); err != nil {
		return nil, err
	}
	if len(req.Assets) == 0 {
		return nil, failf(CodeBadRequest, "assets must not be empty")
	}
	if err := checkAssets(req.Assets); err != nil {
		return nil, err
	}
	strategy, err := timeline.ParseFillStrategy(req.FillStrategy)
	if err != nil {
		return nil, fail(CodeBadRequest, err)
	}
	if req.TemplateName == "" && req.TemplatePath == "" {
		return nil, failf(CodeBadRequest, "template_name or template_path is required")
	}

	folder, err := draft.NewFolder(req.DraftsRoot)
	if err != nil {
		return nil, fail(CodeBadRequest, err)
	}

	job := s.beginJob(ctx, jobs.FlowTemplateFill, req.JobID, req.OutputPath)
	result, err := s.runFill(ctx, folder, req, strategy, log)
	s.finishJob(ctx, job, err)
	return result, err
}

func (s *Service) runFill(ctx context.Context, folder *draft.Folder, req FillRequest, strategy timeline.FillStrategy, log *slog.Logger) (*Result, error) {
	var d *draft.Draft
	var err error
	if req.TemplatePath != "" {
		d, err = folder.MaterializeTemplate(req.TemplatePath, req.JobID)
	} else {
		d, err = folder.DuplicateTemplate(req.TemplateName, req.JobID)
	}
	if err != nil {
		return nil, classify(err)
	}

	slotCount := 0
	for _, t := range d.VideoTracks() {
		slotCount += len(t.Segments)
	}

	if err := s.filler.Fill(ctx, d, req.Assets, strategy, slotCount); err != nil {
		return nil, classify(err)
	}
	log.Info("template refilled", "strategy", string(strategy), "slots", slotCount)

	return s.persistAndExport(ctx, d, req.OutputPath, req.FPS, log)
}

// persistAndExport is the shared tail of every flow: prune dangling
// materials, save, export.
func (s *Service) persistAndExport(ctx context.Context, d *draft.Draft, outputPath string, fps int, log *slog.Logger) (*Result, error) {
	timeline.Collect(d, log)

	if err := d.Save(); err != nil {
		return nil, fmt.Errorf("persist draft %s: %w", d.Name, err)
	}
	log.Info("draft persisted", "draft", d.Name, "duration_us", d.Duration)

	if err := s.exporter.Export(ctx, d.Name, outputPath, fps); err != nil {
		return nil, fail(CodeExportFailed, fmt.Errorf("export draft %s: %w", d.Name, err))
	}

	return &Result{JobID: d.Name, DraftName: d.Name, OutputPath: outputPath}, nil
}

func (s *Service) validateCommon(jobID, draftsRoot, outputPath string, fps int) error {
	if err := draft.ValidateName(jobID); err != nil {
		return fail(CodeBadRequest, err)
	}
	info, err := os.Stat(draftsRoot)
	if err != nil || !info.IsDir() {
		return failf(CodeBadRequest, "drafts root is not a directory: %s", draftsRoot)
	}
	if err := export.ValidateFrameRate(fps); err != nil {
		return classify(err)
	}
	if err := export.PrepareOutputPath(outputPath); err != nil {
		return classify(err)
	}
	return nil
}

func checkAssets(paths []string) error {
	for _, p := range paths {
		if err := probe.CheckFile(p); err != nil {
			return classify(err)
		}
	}
	return nil
}

// beginJob records a running ledger row. Ledger failures are logged, never
// surfaced: bookkeeping must not fail a render.
func (s *Service) beginJob(ctx context.Context, flow, draftName, outputPath string) *jobs.Job {
	if s.repo == nil {
		return nil
	}
	now := time.Now()
	job := &jobs.Job{
		ID:         jobs.NewRecordID(),
		Flow:       flow,
		Status:     jobs.StatusRunning,
		DraftName:  draftName,
		OutputPath: outputPath,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		s.logger.Warn("failed to record job", "error", err, "draft", draftName)
		return nil
	}
	return job
}

func (s *Service) finishJob(ctx context.Context, job *jobs.Job, flowErr error) {
	if s.repo == nil || job == nil {
		return
	}
	status, msg := jobs.StatusCompleted, ""
	if flowErr != nil {
		status, msg = jobs.StatusFailed, flowErr.Error()
	}
	if err := s.repo.UpdateJobStatus(ctx, job.ID, status, msg); err != nil {
		s.logger.Warn("failed to finalize job", "error", err, "job_id", job.ID)
	}
}
