// Package templatesync keeps a project's .claude tree in step with the
// template: Diff classifies every template file against the project and the
// manifest, Reconcile applies the result and records new hashes.
package templatesync

// Status is the per-file classification produced by Diff.
type Status string

const (
	// StatusNew: the file is absent from the project.
	StatusNew Status = "new"
	// StatusModified: the project copy differs from the recorded hash, or no
	// hash was ever recorded.
	StatusModified Status = "modified"
	// StatusUnchanged: the project copy matches the recorded hash.
	StatusUnchanged Status = "unchanged"
)

// FileChange describes one template file.
type FileChange struct {
	// File is the manifest key: slash separated, NFC, relative to .claude.
	File string `json:"file"`
	// Rel is the on-disk relative path when it differs from File.
	Rel          string `json:"-"`
	Status       Status `json:"status"`
	CurrentHash  string `json:"current_hash,omitempty"`
	TemplateHash string `json:"template_hash"`
}

// Stale reports an untouched project file whose template has moved on.
func (c FileChange) Stale() bool {
	return c.Status == StatusUnchanged && c.CurrentHash != c.TemplateHash
}

// UpToDate reports a project file already identical to the template.
func (c FileChange) UpToDate() bool {
	return c.Status != StatusNew && c.CurrentHash == c.TemplateHash
}

func (c FileChange) rel() string {
	if c.Rel != "" {
		return c.Rel
	}
	return c.File
}

// Pending filters changes down to the ones Reconcile would act on.
func Pending(changes []FileChange) []FileChange {
	var out []FileChange
	for _, c := range changes {
		if !c.UpToDate() {
			out = append(out, c)
		}
	}
	return out
}
