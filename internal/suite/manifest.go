package suite

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest lists the comparisons of a suite.
type Manifest struct {
	// Cases run in the order given.
	Cases []Case `yaml:"cases"`
}

// Case is one output/gold database pair.
type Case struct {
	// Name identifies the case in results. Names must be unique.
	Name string `yaml:"name"`

	OutputDB string `yaml:"output_db"`
	GoldDB   string `yaml:"gold_db"`

	// OutputDir receives the dumps and diffs. Empty means transient.
	OutputDir string `yaml:"output_dir,omitempty"`

	// GoldDump and GoldBlackboardDump are optional existing gold dumps.
	GoldDump           string `yaml:"gold_dump,omitempty"`
	GoldBlackboardDump string `yaml:"gold_bb_dump,omitempty"`
}

// LoadManifest reads and validates a suite manifest, resolving relative
// paths against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	// Strict decoding catches misspelled keys like "gold_bb_dumps".
	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	for i := range m.Cases {
		c := &m.Cases[i]
		for _, p := range []*string{&c.OutputDB, &c.GoldDB, &c.OutputDir, &c.GoldDump, &c.GoldBlackboardDump} {
			*p = resolve(base, *p)
		}
	}

	if err := validateManifest(&m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	return &m, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// validateManifest checks that required fields are present. Database files
// are not checked here; a missing one fails only its own case.
func validateManifest(m *Manifest) error {
	if len(m.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(m.Cases))
	for i, c := range m.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate name %q", i, c.Name)
		}
		seen[c.Name] = true

		if c.OutputDB == "" {
			return fmt.Errorf("cases[%d]: output_db is required", i)
		}
		if c.GoldDB == "" {
			return fmt.Errorf("cases[%d]: gold_db is required", i)
		}
	}

	return nil
}
