// Package target loads the per-target manifest: the configuration that
// tells a run which target identifier it drives, where its specification
// documents live, and where run history goes.
package target

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Manifest configures one conformance run.
type Manifest struct {
	// Target is the identifier filter tag-lists are matched against,
	// e.g. "go". Features filtered out for this target are skipped.
	Target string `json:"target"`

	// Documents are glob patterns (** supported) locating specification
	// documents.
	Documents []string `json:"documents"`

	// History is an optional SQLite database path for recording run
	// results. Empty disables history.
	History string `json:"history,omitempty"`
}

// DefaultManifest is used when no manifest file is given.
func DefaultManifest() *Manifest {
	return &Manifest{
		Target:    "go",
		Documents: []string{"specs/**/*.yaml"},
	}
}

// LoadManifest reads and decodes a CUE manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	ctx := cuecontext.New()
	val := ctx.CompileBytes(data, cue.Filename(path))
	if err := val.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile manifest: %w", err)
	}

	var m Manifest
	if err := val.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if m.Target == "" {
		return fmt.Errorf("target is required")
	}
	if len(m.Documents) == 0 {
		return fmt.Errorf("documents list is required and must be non-empty")
	}
	return nil
}
