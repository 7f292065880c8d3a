package pseudocode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasColonBlocks(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected bool
	}{
		{"if header", "if (vl > 0):\n    x = 1", true},
		{"for header", "for (i = 0; i < vl; i++):\n    x[i] = 0", true},
		{"bare else", "else:", true},
		{"textual or", "x = a or b", true},
		{"textual and", "if (a and b):", true},
		{"plain c", "x[rd] = x[rs1] + 1;", false},
		{"or inside identifier", "priority = 1;", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasColonBlocks(tt.code))
		})
	}
}

func TestConvertColonBlocks(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{
			"nested loop and condition",
			"for (i = 0; i < vl; i++):\n    if (mask[i] == 1):\n        result[i] = a[i] + b[i]",
			"for (i = 0; i < vl; i++) {\n    if (mask[i] == 1) {\n        result[i] = a[i] + b[i];\n    }\n}",
		},
		{
			"else branch",
			"if (a and b):\n    x = 1\nelse:\n    y = 2 or z",
			"if (a && b) {\n    x = 1;\n} else {\n    y = 2 || z;\n}",
		},
		{
			"else without open block",
			"else:\n    x = 1",
			"else {\n    x = 1;\n}",
		},
		{
			"while header",
			"while (x != 0):\n    x = x - 1",
			"while (x != 0) {\n    x = x - 1;\n}",
		},
		{
			"dedent below header closes block",
			"if (outer):\n        if (inner):\n            x = 1\n    done = 1",
			"if (outer) {\n        if (inner) {\n            x = 1;\n        }\n    done = 1;\n}",
		},
		{
			"statement keeps existing semicolon",
			"x = 1;",
			"x = 1;",
		},
		{
			"line without assignment untouched",
			"break",
			"break",
		},
		{
			"comment line untouched",
			"# update flags",
			"# update flags",
		},
		{
			"blank lines preserved",
			"x = 1\n\ny = 2",
			"x = 1;\n\ny = 2;",
		},
		{
			"or inside identifier untouched",
			"priority = flag",
			"priority = flag;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ConvertColonBlocks(tt.code))
		})
	}
}
