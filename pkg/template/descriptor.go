package template

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/fulmenhq/gamekit/internal/schema"
	"github.com/fulmenhq/gamekit/pkg/apperr"
	"github.com/fulmenhq/gamekit/pkg/versioning"
)

// DescriptorFile is the optional metadata file at a template's root.
const DescriptorFile = "gamekit-template.yaml"

// Descriptor carries template metadata.
type Descriptor struct {
	Name          string   `yaml:"name,omitempty"`
	MinCLIVersion string   `yaml:"min_cli_version,omitempty"`
	Exclude       []string `yaml:"exclude,omitempty"`
}

// DefaultDescriptor is used when a template ships no descriptor.
func DefaultDescriptor() *Descriptor {
	return &Descriptor{}
}

// LoadDescriptor reads templateDir/gamekit-template.yaml, falling back to
// DefaultDescriptor when the file is absent.
func LoadDescriptor(templateDir string) (*Descriptor, error) {
	p := filepath.Join(templateDir, DescriptorFile)
	raw, err := os.ReadFile(p) // #nosec G304 -- fixed name under a located template
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultDescriptor(), nil
		}
		return nil, apperr.New(apperr.IO, "read descriptor", p, err)
	}

	res, err := schema.ValidateYAML(raw, "template-descriptor-v1")
	if err != nil {
		return nil, apperr.New(apperr.InvalidInput, "read descriptor", p, err)
	}
	if !res.Valid {
		return nil, apperr.New(apperr.InvalidInput, "read descriptor", p, errors.New(res.Summary()))
	}

	var d Descriptor
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, apperr.New(apperr.InvalidInput, "read descriptor", p, err)
	}
	for _, pattern := range d.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, apperr.New(apperr.InvalidInput, "read descriptor", p, fmt.Errorf("invalid exclude pattern %q", pattern))
		}
	}
	return &d, nil
}

// Excluded reports whether a slash path relative to .claude matches an exclude glob.
func (d *Descriptor) Excluded(rel string) bool {
	for _, pattern := range d.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// RequiresNewerCLI reports whether the template declares a minimum CLI version
// above current. Development builds never trip it.
func (d *Descriptor) RequiresNewerCLI(current string) bool {
	if d.MinCLIVersion == "" || current == "" || current == "dev" {
		return false
	}
	return versioning.Newer(d.MinCLIVersion, current)
}
