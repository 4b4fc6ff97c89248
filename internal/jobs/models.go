// Package jobs keeps a ledger of render jobs: one row per mutation flow,
// recording which draft was produced and where the export landed. The
// ledger is bookkeeping for operators; flow outcomes never depend on it.
package jobs

import (
	"time"

	"github.com/google/uuid"
)

const (
	FlowConcat          = "concat"
	FlowTemplateReplace = "template_replace"
	FlowTemplateFill    = "template_fill"

	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Job is one render request from acceptance through export.
type Job struct {
	ID         string    `json:"id"`
	Flow       string    `json:"flow"`
	Status     string    `json:"status"`
	DraftName  string    `json:"draft_name"`
	OutputPath string    `json:"output_path"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewRecordID returns a fresh ledger row id. Draft names come from the
// caller's job id and are not related to this.
func NewRecordID() string {
	return uuid.NewString()
}
