package tagging

import (
	"fmt"
	"strings"

	"github.com/oukeidos/aitag/internal/replicate"
)

// Config holds the settings a front end needs to assemble a Pipeline.
type Config struct {
	// WorkspacePath is the SQLite workspace file.
	WorkspacePath string
	// Attribute names the tag attribute to fill.
	Attribute string

	// API Configuration
	Token        string
	ModelVersion string
}

// Normalize fills defaults and returns notes describing each change.
func (c Config) Normalize() (Config, []string) {
	var notes []string
	if trimmed := strings.TrimSpace(c.Attribute); trimmed != c.Attribute {
		notes = append(notes, fmt.Sprintf("attribute name trimmed to %q", trimmed))
		c.Attribute = trimmed
	}
	if c.Attribute == "" {
		c.Attribute = DefaultAttribute
	}
	if c.ModelVersion == "" {
		c.ModelVersion = replicate.DefaultVersion
	}
	return c, notes
}

// Validate checks if the configuration is usable.
func (c Config) Validate() error {
	if c.WorkspacePath == "" {
		return fmt.Errorf("workspace path is required")
	}
	if c.Attribute == "" {
		return fmt.Errorf("attribute name is required")
	}
	if c.Token == "" {
		return fmt.Errorf("API token is required")
	}
	return nil
}
