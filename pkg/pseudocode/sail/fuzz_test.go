package sail

import (
	"strings"
	"testing"
)

// go test -fuzz FuzzConvert -fuzztime 30s
func FuzzConvert(f *testing.F) {
	seeds := []string{
		"",
		"   \n\t",
		"X(rd) = X(rs1) & ~X(rs2);",
		"let rs = X(rs);\nX[rd] = (xlen - 1) - HighestSetBit(rs);",
		"foreach (i from (xlen - 1) to 0 by 1 in dec)",
		"foreach (i from 0 to (xlen - 1) in dec)",
		"if [x[i]] == 0b1 then return(i) else ();",
		"let shamt = if xlen == 32\nthen X(rs2)[4..0]\nelse X(rs2)[5..0];",
		"val HighestSetBit : forall ('N : Int), 'N >= 0. bits('N) -> int\nfunction HighestSetBit x = {\nforeach (i from (xlen - 1) to 0 by 1 in dec)\nif [x[i]] == 0b1 then return(i) else ();\nreturn -1;\n}\nlet rs = X(rs);\nX[rd] = (xlen - 1) - HighestSetBit(rs);",
		"function f x = {\nreturn x + 1;\n}\nlet a = f(p) + f(q);",
		"x[rd] = x[rs1] + x[rs2];",
		"function f = {",
		"foreach (i from (a) to (b) in dec) {",
		"if x then y",
		"let = 5;",
		"return",
		"}{;;",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		out := Convert(input)

		if Convert(input) != out {
			t.Errorf("conversion not deterministic for %q", input)
		}
		if strings.TrimSpace(input) == "" && out != input {
			t.Errorf("blank input %q changed to %q", input, out)
		}
		if out != input && strings.Contains(out, "\n\n") {
			t.Errorf("output contains blank lines for %q: %q", input, out)
		}
	})
}
