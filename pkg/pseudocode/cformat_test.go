package pseudocode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatC_StatementSplitting(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{
			"semicolon separated statements",
			"t =pc+4; pc=(x[rs1]+sext(offset))&~1; x[rd]=t",
			"t =pc + 4;\npc = (x[rs1] + sext(offset)) & ~1;\nx[rd] = t",
		},
		{
			"semicolons inside braces stay put",
			"if (cond) { x = 1; y = 2; }",
			"if (cond) { x = 1; y = 2; }",
		},
		{
			"nested index brackets stay whole",
			"M[x[rs1]][7:0]=x[rs2][7:0]; x[rd]=0",
			"M[x[rs1]][7:0] = x[rs2][7:0];\nx[rd] = 0",
		},
		{
			"braced block joined to one line",
			"if (a) {\nb=1;\n}",
			"if (a) { b = 1; }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatC(tt.code))
		})
	}
}

func TestFormatC_OperatorSpacing(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{"assignment", "x[rd]=t", "x[rd] = t"},
		{"comparison", "if(x==0){y=1;}", "if(x == 0){y = 1;}"},
		{"bitwise and", "x[rd]=x[rs1]&x[rs2]", "x[rd] = x[rs1] & x[rs2]"},
		{"xor", "a=b^c", "a = b ^ c"},
		{"logical or", "a=b|c", "a = b | c"},
		{"minus", "n=xlen-1", "n = xlen - 1"},
		{"negative literal", "x=-1", "x = -1"},
		{"bit slice untouched", "x[rd]=result[31:0]", "x[rd] = result[31:0]"},
		{"space runs collapsed", "a   =    b", "a = b"},
		{"blank input returned as is", "   ", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatC(tt.code))
		})
	}
}

func TestIndentControlFlow(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected string
	}{
		{
			"if block",
			[]string{"if (sel) {", "x = 1;", "}", "y = 2;"},
			"if (sel) {\n  x = 1;\n}\ny = 2;",
		},
		{
			"for block",
			[]string{"for (i = 0; i < 4; i++) {", "sum = sum + i;", "}"},
			"for (i = 0; i < 4; i++) {\n  sum = sum + i;\n}",
		},
		{
			"headers stay at column zero",
			[]string{"if (a) {", "if (b) {", "x = 1;", "}", "}"},
			"if (a) {\nif (b) {\n    x = 1;\n  }\n}",
		},
		{
			"stray closer clamps at zero",
			[]string{"}", "x = 1;"},
			"}\nx = 1;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, indentControlFlow(tt.lines))
		})
	}
}
