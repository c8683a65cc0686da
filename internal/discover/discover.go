// Package discover locates specification documents on disk and prepares
// them for the engine. It contains the run's only file I/O: the core
// receives already-read document text.
package discover

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/crosscheck-dev/crosscheck/internal/spec"
)

// Source is one candidate document: its path and raw text.
type Source struct {
	Path string
	Text string
}

// Documents expands glob patterns (** supported) to YAML document files
// and reads them. Results are de-duplicated and sorted by path so runs
// are deterministic regardless of filesystem order.
func Documents(patterns []string) ([]Source, error) {
	seen := make(map[string]bool)
	var paths []string

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid document pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	sort.Strings(paths)

	sources := make([]Source, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read document %s: %w", path, err)
		}
		sources = append(sources, Source{Path: path, Text: string(data)})
	}
	return sources, nil
}

// Load parses sources into specifications for the given target and
// merges documents naming the same package. Sources that are not
// specifications - no valid PACKAGE header for this target - are
// excluded silently, as non-matching files rather than errors.
func Load(sources []Source, targetID string, log *slog.Logger) []*spec.Specification {
	var specs []*spec.Specification
	for _, src := range sources {
		s, err := spec.ParseDocument(src.Text, targetID)
		if err != nil {
			if errors.Is(err, spec.ErrNotASpecification) {
				log.Debug("document excluded", "path", src.Path, "reason", err)
				continue
			}
			log.Warn("document excluded", "path", src.Path, "err", err)
			continue
		}
		specs = append(specs, s)
	}
	return spec.Merge(specs)
}
