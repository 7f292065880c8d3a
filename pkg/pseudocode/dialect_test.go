package pseudocode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected Dialect
	}{
		{"empty", "", DialectUnknown},
		{"whitespace only", "  \n\t ", DialectUnknown},
		{"let binding with type", "let result : xlenbits = 0", DialectSail},
		{"foreach loop", "foreach (i from 0 to 31) { }", DialectSail},
		{"function definition", "function clz x = { 0 }", DialectSail},
		{"val declaration", "val count : nat", DialectSail},
		{"register read call", "let rs1_val = X(rs1);", DialectSail},
		{"if then else", "result = if x == 0 then a else b", DialectSail},
		{"c assignment", "x[rd] = x[rs1] + x[rs2];", DialectC},
		{"c multi statement", "t = pc + 4; pc = (x[rs1] + sext(offset)) & ~1; x[rd] = t", DialectC},
		{"expansion arrow", "C.ADDI4SPN → addi rd', x2, nzuimm", DialectExpansion},
		{"expansion phrase", "Expands to: addi x0, x0, 0", DialectExpansion},
		{"compressed mnemonic without arrow", "C.LW rd', offset(rs1')", DialectC},
		{"sail markers win over expansion", "C.MUL → computed via function mulw", DialectSail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Detect(tt.code))
		})
	}
}

func TestDialect_String(t *testing.T) {
	assert.Equal(t, "sail", DialectSail.String())
	assert.Equal(t, "c", DialectC.String())
	assert.Equal(t, "expansion", DialectExpansion.String())
	assert.Equal(t, "unknown", DialectUnknown.String())
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Dialect
		wantErr  bool
	}{
		{"sail", "sail", DialectSail, false},
		{"c", "c", DialectC, false},
		{"c-like alias", "C-Like", DialectC, false},
		{"expansion", "expansion", DialectExpansion, false},
		{"empty means auto detect", "", DialectUnknown, false},
		{"unsupported name", "fortran", DialectUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dialect, err := ParseDialect(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, dialect)
		})
	}
}

func TestFormat_Dispatch(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{
			"sail input uses the sail formatter",
			"foreach (i from 0 to 31) {\nx = i;\n}",
			"foreach (i from 0 to 31) {\n  x = i;\n}",
		},
		{
			"c input uses the c formatter",
			"x[rd]=x[rs1]&x[rs2]",
			"x[rd] = x[rs1] & x[rs2]",
		},
		{
			"expansion passes through",
			"C.NOP → addi x0, x0, 0",
			"C.NOP → addi x0, x0, 0",
		},
		{
			"blank passes through",
			"   ",
			"   ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.code))
		})
	}
}
