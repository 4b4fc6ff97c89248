package draft

import "errors"

var (
	// ErrInvalidName is returned for draft names that are empty or contain
	// characters the host filesystem rejects.
	ErrInvalidName = errors.New("invalid draft name")

	// ErrDraftExists is returned when creating or materializing a draft
	// under a name that is already taken in the drafts root.
	ErrDraftExists = errors.New("draft already exists")

	// ErrTemplateNotFound is returned when a named template is absent from
	// the drafts root.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrTemplateCorrupt is returned when a materialized template is
	// missing its project description file after the copy.
	ErrTemplateCorrupt = errors.New("template corrupt")
)
