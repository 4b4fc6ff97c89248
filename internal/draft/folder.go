package draft

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Folder is a drafts root directory: the place the external editor scans
// for projects. All draft creation and template materialization happens
// under one Folder; templates themselves are never written to.
type Folder struct {
	root string
}

// NewFolder binds to an existing drafts root.
func NewFolder(root string) (*Folder, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("drafts root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("drafts root %s is not a directory", root)
	}
	return &Folder{root: root}, nil
}

// Root returns the drafts root path.
func (f *Folder) Root() string {
	return f.root
}

// Exists reports whether a draft directory with the given name is present.
func (f *Folder) Exists(name string) bool {
	info, err := os.Stat(filepath.Join(f.root, name))
	return err == nil && info.IsDir()
}

// Create makes a fresh empty draft directory under the root. With
// allowReplace set, an existing draft of the same name is removed first, so
// re-running a job id overwrites its own earlier draft instead of failing.
func (f *Folder) Create(name string, width, height, fps int, allowReplace bool) (*Draft, error) {
	d, err := New(name, width, height, fps)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(f.root, d.Name)
	if f.Exists(d.Name) {
		if !allowReplace {
			return nil, fmt.Errorf("%w: %s", ErrDraftExists, d.Name)
		}
		if err := os.RemoveAll(dir); err != nil {
			return nil, fmt.Errorf("replace draft %s: %w", d.Name, err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create draft dir: %w", err)
	}

	d.dir = dir
	return d, nil
}

// DuplicateTemplate copies the named template draft under the root to a new
// name and loads the copy for editing. The template is never mutated.
func (f *Folder) DuplicateTemplate(templateName, newName string) (*Draft, error) {
	if err := ValidateName(newName); err != nil {
		return nil, err
	}

	src := filepath.Join(f.root, templateName)
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateName)
	}

	return f.materialize(src, newName)
}

// MaterializeTemplate copies the entire directory containing an explicit
// project description file to a new draft under the root and loads it. Used
// when the caller holds a path to the template description rather than a
// name inside the drafts root.
func (f *Folder) MaterializeTemplate(contentPath, newName string) (*Draft, error) {
	if err := ValidateName(newName); err != nil {
		return nil, err
	}

	if _, err := os.Stat(contentPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, contentPath)
	}

	return f.materialize(filepath.Dir(contentPath), newName)
}

// materialize copies srcDir to root/newName and loads the resulting draft.
// The existence check happens before any copying so a name conflict never
// partially overwrites an existing draft.
func (f *Folder) materialize(srcDir, newName string) (*Draft, error) {
	dst := filepath.Join(f.root, newName)
	if f.Exists(newName) {
		return nil, fmt.Errorf("%w: %s", ErrDraftExists, newName)
	}

	if err := copyDir(srcDir, dst); err != nil {
		return nil, fmt.Errorf("copy template: %w", err)
	}

	contentPath := filepath.Join(dst, ContentFilename)
	if _, err := os.Stat(contentPath); err != nil {
		return nil, fmt.Errorf("%w: missing %s after copy", ErrTemplateCorrupt, ContentFilename)
	}

	d, err := Load(contentPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateCorrupt, err)
	}
	d.Name = newName
	return d, nil
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if entry.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
