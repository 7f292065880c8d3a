package isa

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mewais/archtools.io/pkg/utils"
)

var (
	ErrLoadDatabase = errors.New("cannot load instruction database")
	ErrSaveDatabase = errors.New("cannot save instruction database")
)

// Database is an instruction database file, a JSON array of records. The
// bytes as loaded from disk are kept around so a backup taken before a
// save preserves the pre-modification content.
type Database struct {
	Path         string
	Instructions []Instruction

	original []byte
}

// Load reads an instruction database file.
func Load(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, utils.MakeError(ErrLoadDatabase, "%v", err)
	}

	var instructions []Instruction
	if err := json.Unmarshal(data, &instructions); err != nil {
		return nil, utils.MakeError(ErrLoadDatabase, "parsing %s: %v", path, err)
	}

	return &Database{Path: path, Instructions: instructions, original: data}, nil
}

// Backup writes the database content as it was loaded from disk to a
// timestamped sibling file and returns its path.
func (db *Database) Backup() (string, error) {
	if db.original == nil {
		return "", utils.MakeError(ErrSaveDatabase, "no loaded content to back up")
	}

	path := fmt.Sprintf("%s.backup.%s", db.Path, time.Now().Format("20060102_150405"))
	if err := os.WriteFile(path, db.original, 0644); err != nil {
		return "", utils.MakeError(ErrSaveDatabase, "writing backup: %v", err)
	}

	return path, nil
}

// Save writes the records back to the database file, two space indented
// like the rest of the project tooling expects.
func (db *Database) Save() error {
	data, err := json.MarshalIndent(db.Instructions, "", "  ")
	if err != nil {
		return utils.MakeError(ErrSaveDatabase, "%v", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(db.Path, data, 0644); err != nil {
		return utils.MakeError(ErrSaveDatabase, "%v", err)
	}

	return nil
}

// Filter returns pointers to the records matching any of the given
// extension names. No names selects every record.
func (db *Database) Filter(extensions ...string) []*Instruction {
	var matched []*Instruction
	for i := range db.Instructions {
		ins := &db.Instructions[i]
		if matchesAny(ins, extensions) {
			matched = append(matched, ins)
		}
	}
	return matched
}

func matchesAny(ins *Instruction, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	for _, ext := range extensions {
		if ins.MatchesExtension(ext) {
			return true
		}
	}
	return false
}

// FindMnemonic returns the records named by a mnemonic, compared case
// insensitively. Several records can share a mnemonic across extensions.
func (db *Database) FindMnemonic(name string) []*Instruction {
	var matched []*Instruction
	for i := range db.Instructions {
		if strings.EqualFold(db.Instructions[i].Mnemonic, name) {
			matched = append(matched, &db.Instructions[i])
		}
	}
	return matched
}

// CoverageStats summarizes pseudocode coverage for one extension.
type CoverageStats struct {
	Extension      string
	Total          int
	WithPseudocode int
}

// Missing returns how many records of the extension have no pseudocode.
func (stats CoverageStats) Missing() int {
	return stats.Total - stats.WithPseudocode
}

// Percent returns the pseudocode coverage as a percentage.
func (stats CoverageStats) Percent() float64 {
	if stats.Total == 0 {
		return 0
	}
	return float64(stats.WithPseudocode) * 100 / float64(stats.Total)
}

// Coverage groups the matching records by extension and counts how many
// carry pseudocode, sorted by extension name.
func (db *Database) Coverage(extensions ...string) []CoverageStats {
	perExtension := make(map[string]*CoverageStats)
	for _, ins := range db.Filter(extensions...) {
		stats := perExtension[ins.Extension]
		if stats == nil {
			stats = &CoverageStats{Extension: ins.Extension}
			perExtension[ins.Extension] = stats
		}
		stats.Total++
		if ins.HasPseudocode() {
			stats.WithPseudocode++
		}
	}

	coverage := make([]CoverageStats, 0, len(perExtension))
	for _, extension := range utils.SortedKeys(perExtension) {
		coverage = append(coverage, *perExtension[extension])
	}
	return coverage
}
