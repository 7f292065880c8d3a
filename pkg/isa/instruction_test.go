package isa

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstruction_JSONRoundTrip(t *testing.T) {
	input := `{
		"mnemonic": "ADD.UW",
		"category": "Arithmetic",
		"format": "R-Type",
		"encoding": "0000100xxxxxxxxxx000xxxxx0111011",
		"description": "Add unsigned word",
		"operands": ["rd", "rs1", "rs2"],
		"operandTypes": ["register", "register", "register"],
		"extension": "RV64B",
		"pseudocode": "",
		"wavedrom": {"reg": [1, 2]},
		"aliases": ["zext.add"]
	}`

	var ins Instruction
	require.NoError(t, json.Unmarshal([]byte(input), &ins))

	assert.Equal(t, "ADD.UW", ins.Mnemonic)
	assert.Equal(t, "R-Type", ins.Format)
	assert.Equal(t, []string{"rd", "rs1", "rs2"}, ins.Operands)
	assert.Equal(t, "RV64B", ins.Extension)

	out, err := json.Marshal(ins)
	require.NoError(t, err)

	// Unknown keys survive the round trip, content unchanged.
	assert.JSONEq(t, input, string(out))

	// And the output is stable across marshals.
	again, err := json.Marshal(ins)
	require.NoError(t, err)
	assert.Equal(t, string(out), string(again))
}

func TestInstruction_MarshalEmptyOperands(t *testing.T) {
	out, err := json.Marshal(Instruction{Mnemonic: "CLZ"})
	require.NoError(t, err)

	// The database schema always carries the operand arrays, even empty.
	assert.Contains(t, string(out), `"operands":[]`)
	assert.Contains(t, string(out), `"operandTypes":[]`)
	assert.NotContains(t, string(out), `"encodingFields"`)
}

func TestInstruction_HasPseudocode(t *testing.T) {
	tests := []struct {
		name       string
		pseudocode string
		want       bool
	}{
		{
			name:       "empty",
			pseudocode: "",
			want:       false,
		},
		{
			name:       "whitespace only",
			pseudocode: "  \n\t",
			want:       false,
		},
		{
			name:       "real text",
			pseudocode: "x[rd] = x[rs1] & ~x[rs2];",
			want:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins := Instruction{Pseudocode: tt.pseudocode}
			assert.Equal(t, tt.want, ins.HasPseudocode())
		})
	}
}

func TestInstruction_MatchesExtension(t *testing.T) {
	tests := []struct {
		name      string
		extension string
		query     string
		want      bool
	}{
		{
			name:      "exact",
			extension: "RV32B",
			query:     "RV32B",
			want:      true,
		},
		{
			name:      "family letter",
			extension: "RV64B",
			query:     "B",
			want:      true,
		},
		{
			name:      "different width",
			extension: "RV32B",
			query:     "RV64B",
			want:      false,
		},
		{
			name:      "empty query matches everything",
			extension: "RV32I",
			query:     "",
			want:      true,
		},
		{
			name:      "case sensitive",
			extension: "RV32B",
			query:     "rv32b",
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins := Instruction{Extension: tt.extension}
			assert.Equal(t, tt.want, ins.MatchesExtension(tt.query))
		})
	}
}
