package draft

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ContentFilename is the project description file inside a draft directory.
const ContentFilename = "draft_content.json"

// Load reads a project description file into an editable draft. The draft
// is bound to the directory containing the file, so Save writes back in
// place.
func Load(contentPath string) (*Draft, error) {
	data, err := os.ReadFile(contentPath)
	if err != nil {
		return nil, fmt.Errorf("read draft content: %w", err)
	}

	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse draft content: %w", err)
	}

	d.dir = filepath.Dir(contentPath)
	return &d, nil
}

// Save persists the draft to its directory. The write is atomic (temp file
// plus rename) so a crash mid-write never leaves a truncated description.
func (d *Draft) Save() error {
	if d.dir == "" {
		return fmt.Errorf("draft %q is not bound to a directory", d.Name)
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode draft content: %w", err)
	}

	tmp, err := os.CreateTemp(d.dir, ContentFilename+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp draft content: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write draft content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close draft content: %w", err)
	}

	final := filepath.Join(d.dir, ContentFilename)
	if err := os.Rename(tmpPath, final); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace draft content: %w", err)
	}
	return nil
}
