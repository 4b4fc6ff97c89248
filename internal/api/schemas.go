package api

import (
	"time"

	"github.com/draftcut/draftcut-agent/internal/jobs"
	"github.com/draftcut/draftcut-agent/internal/service"
	"github.com/draftcut/draftcut-agent/internal/timeline"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type CanvasConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type ConcatOptions struct {
	MaxEachVideoSeconds float64 `json:"max_each_video_seconds,omitempty"`
}

type ConcatRequest struct {
	JobID      string         `json:"job_id"`
	DraftsRoot string         `json:"drafts_root"`
	OutputPath string         `json:"output_path"`
	Canvas     CanvasConfig   `json:"canvas"`
	FPS        int            `json:"fps"`
	Videos     []string       `json:"videos"`
	Options    *ConcatOptions `json:"options,omitempty"`
}

type TemplateReplacement struct {
	SegmentIndex int    `json:"segment_index"`
	Path         string `json:"path"`
}

type TemplateReplaceRequest struct {
	JobID           string                `json:"job_id"`
	DraftsRoot      string                `json:"drafts_root"`
	TemplateName    string                `json:"template_name"`
	TemplatePath    string                `json:"template_path,omitempty"`
	OutputPath      string                `json:"output_path"`
	FPS             int                   `json:"fps"`
	VideoTrackIndex int                   `json:"video_track_index"`
	Replacements    []TemplateReplacement `json:"replacements"`
}

type TemplateFillRequest struct {
	JobID           string   `json:"job_id"`
	DraftsRoot      string   `json:"drafts_root"`
	TemplateName    string   `json:"template_name"`
	TemplatePath    string   `json:"template_path,omitempty"`
	OutputPath      string   `json:"output_path"`
	FPS             int      `json:"fps"`
	VideoTrackIndex int      `json:"video_track_index"`
	Assets          []string `json:"assets"`
	FillStrategy    string   `json:"fill_strategy,omitempty"`
}

type FlowResponse struct {
	OK         bool   `json:"ok"`
	JobID      string `json:"job_id"`
	DraftName  string `json:"draft_name"`
	OutputPath string `json:"output_path"`
}

type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type JobResponse struct {
	ID         string `json:"id"`
	Flow       string `json:"flow"`
	Status     string `json:"status"`
	DraftName  string `json:"draft_name"`
	OutputPath string `json:"output_path"`
	Error      string `json:"error,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type JobsResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

func (r ConcatRequest) toService() service.ConcatRequest {
	req := service.ConcatRequest{
		JobID:      r.JobID,
		DraftsRoot: r.DraftsRoot,
		OutputPath: r.OutputPath,
		Canvas:     service.Canvas{Width: r.Canvas.Width, Height: r.Canvas.Height},
		FPS:        r.FPS,
		Videos:     r.Videos,
	}
	if r.Options != nil {
		req.MaxEachVideoSeconds = r.Options.MaxEachVideoSeconds
	}
	return req
}

func (r TemplateReplaceRequest) toService() service.ReplaceRequest {
	replacements := make([]timeline.Replacement, len(r.Replacements))
	for i, rep := range r.Replacements {
		replacements[i] = timeline.Replacement{SegmentIndex: rep.SegmentIndex, AssetPath: rep.Path}
	}
	return service.ReplaceRequest{
		TemplateRequest: service.TemplateRequest{
			JobID:           r.JobID,
			DraftsRoot:      r.DraftsRoot,
			TemplateName:    r.TemplateName,
			TemplatePath:    r.TemplatePath,
			OutputPath:      r.OutputPath,
			FPS:             r.FPS,
			VideoTrackIndex: r.VideoTrackIndex,
		},
		Replacements: replacements,
	}
}

func (r TemplateFillRequest) toService() service.FillRequest {
	return service.FillRequest{
		TemplateRequest: service.TemplateRequest{
			JobID:           r.JobID,
			DraftsRoot:      r.DraftsRoot,
			TemplateName:    r.TemplateName,
			TemplatePath:    r.TemplatePath,
			OutputPath:      r.OutputPath,
			FPS:             r.FPS,
			VideoTrackIndex: r.VideoTrackIndex,
		},
		Assets:       r.Assets,
		FillStrategy: r.FillStrategy,
	}
}

func JobToResponse(j *jobs.Job) JobResponse {
	return JobResponse{
		ID:         j.ID,
		Flow:       j.Flow,
		Status:     j.Status,
		DraftName:  j.DraftName,
		OutputPath: j.OutputPath,
		Error:      j.Error,
		CreatedAt:  j.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  j.UpdatedAt.Format(time.RFC3339),
	}
}
