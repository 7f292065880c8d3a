package isa

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mewais/archtools.io/pkg/utils"
)

var ErrBadOverrides = errors.New("cannot load overrides")

// Override is one manual fix for a record, identified by its encoding.
// Overrides outrank anything a heuristic conversion produced. An optional
// Match substring restricts the fix to records still carrying the text it
// was written to replace, so re-running a fix file stays safe after the
// database content moved on.
type Override struct {
	Encoding    string   `yaml:"encoding"`
	Match       string   `yaml:"match,omitempty"`
	Pseudocode  string   `yaml:"pseudocode,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Operands    []string `yaml:"operands,omitempty"`
}

// LoadOverrides reads a YAML list of manual fixes.
func LoadOverrides(path string) ([]Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, utils.MakeError(ErrBadOverrides, "%v", err)
	}

	var overrides []Override
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, utils.MakeError(ErrBadOverrides, "parsing %s: %v", path, err)
	}

	for i, override := range overrides {
		if override.Encoding == "" {
			return nil, utils.MakeError(ErrBadOverrides, "entry %d has no encoding key", i)
		}
		if override.Pseudocode == "" && override.Description == "" && len(override.Operands) == 0 {
			return nil, utils.MakeError(ErrBadOverrides, "entry %d for %s replaces nothing", i, override.Encoding)
		}
	}

	return overrides, nil
}

// ApplyOverrides applies manual fixes to the matching records. Returns
// how many records changed and the encodings that matched no record,
// which flags stale fix files.
func (db *Database) ApplyOverrides(overrides []Override) (applied int, unmatched []string) {
	for _, override := range overrides {
		found := false
		for i := range db.Instructions {
			ins := &db.Instructions[i]
			if ins.Encoding != override.Encoding {
				continue
			}
			found = true

			if override.Match != "" && !strings.Contains(ins.Pseudocode, override.Match) {
				slog.Debug("override guard did not match", "mnemonic", ins.Mnemonic, "encoding", override.Encoding)
				continue
			}

			if override.Pseudocode != "" {
				ins.Pseudocode = override.Pseudocode
			}
			if override.Description != "" {
				ins.Description = override.Description
			}
			if len(override.Operands) > 0 {
				ins.Operands = override.Operands
			}
			applied++
		}

		if !found {
			unmatched = append(unmatched, override.Encoding)
		}
	}

	return applied, unmatched
}
