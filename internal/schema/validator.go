// Package schema validates decoded documents against gamekit's embedded schemas.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/fulmenhq/gamekit/internal/assets"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ValidationError represents a single validation error.
type ValidationError struct {
	Path    string `json:"path,omitempty"` // e.g. "hashes.commands/build.md"
	Message string `json:"message"`
}

// Result holds the validation result.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Summary joins the errors into one line.
func (r *Result) Summary() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Path, e.Message))
	}
	return strings.Join(parts, "; ")
}

var (
	compileOnce sync.Once
	registry    map[string]*gojsonschema.Schema
	compileErr  error
)

// compile builds the registry from assets.Known. Embedded schemas are part of
// the binary, so a failure here is a build defect and is reported on every call.
func compile() {
	registry = make(map[string]*gojsonschema.Schema, len(assets.Known))
	for name, path := range assets.Known {
		schemaBytes, ok := assets.GetSchema(path)
		if !ok {
			compileErr = fmt.Errorf("embedded schema %s missing", name)
			return
		}
		// Convert YAML to JSON for gojsonschema
		var schemaData interface{}
		if err := yaml.Unmarshal(schemaBytes, &schemaData); err != nil {
			compileErr = fmt.Errorf("embedded schema %s: %w", name, err)
			return
		}
		jsonBytes, err := json.Marshal(schemaData)
		if err != nil {
			compileErr = fmt.Errorf("embedded schema %s: %w", name, err)
			return
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(jsonBytes))
		if err != nil {
			compileErr = fmt.Errorf("embedded schema %s: %w", name, err)
			return
		}
		registry[name] = schema
	}
}

// Validate validates data (interface{}) against the named schema.
func Validate(data interface{}, schemaName string) (*Result, error) {
	compileOnce.Do(compile)
	if compileErr != nil {
		return nil, compileErr
	}
	schema, ok := registry[schemaName]
	if !ok {
		return nil, fmt.Errorf("schema %s not found in registry", schemaName)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	res := &Result{Valid: result.Valid()}
	if !result.Valid() {
		for _, verr := range result.Errors() {
			field := verr.Field()
			if field == "" {
				field = "root"
			}
			res.Errors = append(res.Errors, ValidationError{
				Path:    field,
				Message: verr.Description(),
			})
		}
	}
	return res, nil
}

// ValidateJSON decodes raw JSON and validates it.
func ValidateJSON(raw []byte, schemaName string) (*Result, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return Validate(doc, schemaName)
}

// ValidateYAML decodes raw YAML and validates it.
func ValidateYAML(raw []byte, schemaName string) (*Result, error) {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	return Validate(doc, schemaName)
}
