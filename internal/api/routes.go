package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/draftcut/draftcut-agent/internal/config"
	"github.com/draftcut/draftcut-agent/internal/service"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Repository, cfg.Logger))

		r.Post("/concat", concatHandler(cfg))
		r.Post("/template/replace", templateReplaceHandler(cfg))
		r.Post("/template/fill", templateFillHandler(cfg))
		r.Get("/jobs", listJobsHandler(cfg))
		r.Get("/jobs/{id}", getJobHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: config.Version,
			UptimeS: int64(time.Since(cfg.StartTime).Seconds()),
		})
	}
}

func concatHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ConcatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.JobID == "" || req.DraftsRoot == "" || req.OutputPath == "" {
			WriteError(w, http.StatusBadRequest, "job_id, drafts_root and output_path are required", "BAD_REQUEST")
			return
		}

		result, err := cfg.Service.Concat(r.Context(), req.toService())
		if err != nil {
			writeFlowError(w, cfg, err)
			return
		}
		writeFlowResult(w, result)
	}
}

func templateReplaceHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TemplateReplaceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.JobID == "" || req.DraftsRoot == "" || req.OutputPath == "" {
			WriteError(w, http.StatusBadRequest, "job_id, drafts_root and output_path are required", "BAD_REQUEST")
			return
		}

		result, err := cfg.Service.TemplateReplace(r.Context(), req.toService())
		if err != nil {
			writeFlowError(w, cfg, err)
			return
		}
		writeFlowResult(w, result)
	}
}

func templateFillHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TemplateFillRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.JobID == "" || req.DraftsRoot == "" || req.OutputPath == "" {
			WriteError(w, http.StatusBadRequest, "job_id, drafts_root and output_path are required", "BAD_REQUEST")
			return
		}

		result, err := cfg.Service.TemplateFill(r.Context(), req.toService())
		if err != nil {
			writeFlowError(w, cfg, err)
			return
		}
		writeFlowResult(w, result)
	}
}

func listJobsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := cfg.Repository.ListJobs(r.Context(), 50)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list jobs", "INTERNAL_ERROR")
			return
		}

		resp := JobsResponse{Jobs: make([]JobResponse, len(list))}
		for i, j := range list {
			resp.Jobs[i] = JobToResponse(j)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func getJobHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			WriteError(w, http.StatusBadRequest, "job id required", "BAD_REQUEST")
			return
		}

		job, err := cfg.Repository.GetJob(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to get job", "INTERNAL_ERROR")
			return
		}
		if job == nil {
			WriteError(w, http.StatusNotFound, "job not found", "NOT_FOUND")
			return
		}

		WriteJSON(w, http.StatusOK, JobToResponse(job))
	}
}

func writeFlowResult(w http.ResponseWriter, result *service.Result) {
	WriteJSON(w, http.StatusOK, FlowResponse{
		OK:         true,
		JobID:      result.JobID,
		DraftName:  result.DraftName,
		OutputPath: result.OutputPath,
	})
}

// writeFlowError translates domain failures to HTTP. Anything that is not a
// JobError is an internal fault and is reported without detail.
func writeFlowError(w http.ResponseWriter, cfg ServerConfig, err error) {
	var je *service.JobError
	if !errors.As(err, &je) {
		cfg.Logger.Error("internal error in flow", "error", err)
		WriteError(w, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
		return
	}
	WriteError(w, statusForCode(je.Code), je.Error(), je.Code)
}

func statusForCode(code string) int {
	switch code {
	case service.CodeAssetNotFound, service.CodeTemplateNotFound:
		return http.StatusNotFound
	case service.CodeDraftExists:
		return http.StatusConflict
	case service.CodeTemplateCorrupt, service.CodeEmptyTimeline, service.CodeAssetUnreadable:
		return http.StatusUnprocessableEntity
	case service.CodeExportFailed:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}
