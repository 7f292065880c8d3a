package isa

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOverrides(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadOverrides(t *testing.T) {
	path := writeOverrides(t, `
- encoding: "0100000xxxxxxxxxx111xxxxx0110011"
  match: "result = result"
  pseudocode: |-
    x[rd] = x[rs1] & ~x[rs2];
- encoding: "0000100xxxxxxxxxx000xxxxx0111011"
  description: Add unsigned word
  operands: [rd, rs1, rs2]
`)

	overrides, err := LoadOverrides(path)
	require.NoError(t, err)
	require.Len(t, overrides, 2)

	assert.Equal(t, "0100000xxxxxxxxxx111xxxxx0110011", overrides[0].Encoding)
	assert.Equal(t, "result = result", overrides[0].Match)
	assert.Equal(t, "x[rd] = x[rs1] & ~x[rs2];", overrides[0].Pseudocode)

	assert.Equal(t, "Add unsigned word", overrides[1].Description)
	assert.Equal(t, []string{"rd", "rs1", "rs2"}, overrides[1].Operands)
}

func TestLoadOverrides_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "not yaml",
			content: "{{{",
		},
		{
			name: "missing encoding",
			content: `
- pseudocode: "x[rd] = 0;"
`,
		},
		{
			name: "replaces nothing",
			content: `
- encoding: "0100000xxxxxxxxxx111xxxxx0110011"
  match: "foo"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadOverrides(writeOverrides(t, tt.content))
			assert.ErrorIs(t, err, ErrBadOverrides)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadOverrides(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, ErrBadOverrides)
	})
}

func TestDatabase_ApplyOverrides(t *testing.T) {
	db, err := Load(writeDatabase(t, sampleDatabase))
	require.NoError(t, err)

	overrides := []Override{
		{
			Encoding:   "0100000xxxxxxxxxx111xxxxx0110011",
			Pseudocode: "x[rd] = x[rs1] & ~(x[rs2]);",
			Operands:   []string{"rd", "rs1", "rs2"},
		},
		{
			Encoding:    "0000100xxxxxxxxxx000xxxxx0111011",
			Description: "Add unsigned word (reviewed)",
		},
		{
			Encoding:   "11111111111111111111111111111111",
			Pseudocode: "unreachable",
		},
	}

	applied, unmatched := db.ApplyOverrides(overrides)

	assert.Equal(t, 2, applied)
	assert.Equal(t, []string{"11111111111111111111111111111111"}, unmatched)

	assert.Equal(t, "x[rd] = x[rs1] & ~(x[rs2]);", db.Instructions[0].Pseudocode)
	assert.Equal(t, "Add unsigned word (reviewed)", db.Instructions[1].Description)
	// Fields an override does not name keep their values.
	assert.Equal(t, "", db.Instructions[1].Pseudocode)
	assert.Equal(t, "AND with inverted operand", db.Instructions[0].Description)
}

func TestDatabase_ApplyOverrides_MatchGuard(t *testing.T) {
	db, err := Load(writeDatabase(t, sampleDatabase))
	require.NoError(t, err)

	overrides := []Override{
		{
			Encoding:   "0100000xxxxxxxxxx111xxxxx0110011",
			Match:      "text that is not there",
			Pseudocode: "guarded",
		},
	}

	applied, unmatched := db.ApplyOverrides(overrides)

	// The record exists, so it is not reported as unmatched, but the
	// guard kept the fix from firing.
	assert.Equal(t, 0, applied)
	assert.Empty(t, unmatched)
	assert.Equal(t, "x[rd] = x[rs1] & ~x[rs2];", db.Instructions[0].Pseudocode)
}
