package isa

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDatabase = `[
  {
    "mnemonic": "ANDN",
    "category": "Logical",
    "format": "R-Type",
    "encoding": "0100000xxxxxxxxxx111xxxxx0110011",
    "description": "AND with inverted operand",
    "operands": ["rd", "rs1", "rs2"],
    "operandTypes": ["register", "register", "register"],
    "extension": "RV32B",
    "pseudocode": "x[rd] = x[rs1] & ~x[rs2];"
  },
  {
    "mnemonic": "ADD.UW",
    "category": "Arithmetic",
    "format": "R-Type",
    "encoding": "0000100xxxxxxxxxx000xxxxx0111011",
    "description": "Add unsigned word",
    "operands": ["rd", "rs1", "rs2"],
    "operandTypes": ["register", "register", "register"],
    "extension": "RV64B",
    "pseudocode": ""
  },
  {
    "mnemonic": "ADDI",
    "category": "Arithmetic",
    "format": "I-Type",
    "encoding": "xxxxxxxxxxxxxxxxx000xxxxx0010011",
    "description": "Add immediate",
    "operands": ["rd", "rs1", "imm"],
    "operandTypes": ["register", "register", "immediate"],
    "extension": "RV32I",
    "pseudocode": "x[rd] = x[rs1] + sext(imm);"
  }
]
`

func writeDatabase(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "instructions.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	db, err := Load(writeDatabase(t, sampleDatabase))
	require.NoError(t, err)
	require.Len(t, db.Instructions, 3)
	assert.Equal(t, "ANDN", db.Instructions[0].Mnemonic)
	assert.Equal(t, "RV64B", db.Instructions[1].Extension)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrLoadDatabase)

	_, err = Load(writeDatabase(t, "{not json"))
	assert.ErrorIs(t, err, ErrLoadDatabase)
}

func TestDatabase_SaveRoundTrip(t *testing.T) {
	db, err := Load(writeDatabase(t, sampleDatabase))
	require.NoError(t, err)
	require.NoError(t, db.Save())

	first, err := os.ReadFile(db.Path)
	require.NoError(t, err)

	// A second load and save settles to the same bytes.
	db, err = Load(db.Path)
	require.NoError(t, err)
	require.NoError(t, db.Save())

	second, err := os.ReadFile(db.Path)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestDatabase_Backup(t *testing.T) {
	db, err := Load(writeDatabase(t, sampleDatabase))
	require.NoError(t, err)

	// The backup keeps the content as loaded, not the mutated state.
	db.Instructions[1].Pseudocode = "x[rd] = 1;"
	backupPath, err := db.Backup()
	require.NoError(t, err)

	content, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	assert.Equal(t, sampleDatabase, string(content))
	assert.Contains(t, backupPath, "instructions.json.backup.")
}

func TestDatabase_Filter(t *testing.T) {
	db, err := Load(writeDatabase(t, sampleDatabase))
	require.NoError(t, err)

	tests := []struct {
		name       string
		extensions []string
		want       []string
	}{
		{
			name:       "no filter selects everything",
			extensions: nil,
			want:       []string{"ANDN", "ADD.UW", "ADDI"},
		},
		{
			name:       "single extension",
			extensions: []string{"RV32B"},
			want:       []string{"ANDN"},
		},
		{
			name:       "several extensions",
			extensions: []string{"RV32B", "RV64B"},
			want:       []string{"ANDN", "ADD.UW"},
		},
		{
			name:       "family letter",
			extensions: []string{"B"},
			want:       []string{"ANDN", "ADD.UW"},
		},
		{
			name:       "no match",
			extensions: []string{"RV128B"},
			want:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mnemonics []string
			for _, ins := range db.Filter(tt.extensions...) {
				mnemonics = append(mnemonics, ins.Mnemonic)
			}
			assert.Equal(t, tt.want, mnemonics)
		})
	}
}

func TestDatabase_FindMnemonic(t *testing.T) {
	db, err := Load(writeDatabase(t, sampleDatabase))
	require.NoError(t, err)

	found := db.FindMnemonic("add.uw")
	require.Len(t, found, 1)
	assert.Equal(t, "ADD.UW", found[0].Mnemonic)

	assert.Empty(t, db.FindMnemonic("NOPE"))
}

func TestDatabase_Coverage(t *testing.T) {
	db, err := Load(writeDatabase(t, sampleDatabase))
	require.NoError(t, err)

	coverage := db.Coverage()
	require.Len(t, coverage, 3)

	// Sorted by extension name.
	assert.Equal(t, "RV32B", coverage[0].Extension)
	assert.Equal(t, 1, coverage[0].Total)
	assert.Equal(t, 1, coverage[0].WithPseudocode)
	assert.Equal(t, 0, coverage[0].Missing())
	assert.InDelta(t, 100.0, coverage[0].Percent(), 0.01)

	assert.Equal(t, "RV32I", coverage[1].Extension)
	assert.Equal(t, "RV64B", coverage[2].Extension)
	assert.Equal(t, 0, coverage[2].WithPseudocode)
	assert.Equal(t, 1, coverage[2].Missing())
	assert.InDelta(t, 0.0, coverage[2].Percent(), 0.01)

	filtered := db.Coverage("B")
	require.Len(t, filtered, 2)
	assert.Equal(t, "RV32B", filtered[0].Extension)
}

func TestCoverageStats_PercentEmpty(t *testing.T) {
	assert.Equal(t, 0.0, CoverageStats{}.Percent())
}
