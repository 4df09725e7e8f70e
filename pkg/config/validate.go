package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/fulmenhq/gamekit/internal/schema"
)

// ValidateFile checks a gamekit YAML config file against the embedded schema.
func ValidateFile(path string) error {
	raw, err := os.ReadFile(path) // #nosec G304 -- user-selected config file
	if err != nil {
		return err
	}
	res, err := schema.ValidateYAML(raw, "config-v1")
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if !res.Valid {
		return fmt.Errorf("%s: %w", path, errors.New(res.Summary()))
	}
	return nil
}
