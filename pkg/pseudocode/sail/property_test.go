package sail

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genOperandName produces identifiers that can never collide with a
// dialect keyword.
func genOperandName() gopter.Gen {
	return gen.Identifier().Map(func(s string) string {
		return "q" + s
	})
}

// TestProperty_Deterministic checks that conversion depends on nothing but
// its input: separate translator instances produce identical output, even
// for input that is not pseudocode at all.
func TestProperty_Deterministic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("identical output across instances", prop.ForAll(
		func(input string) bool {
			return New().Convert(input) == New().Convert(input)
		},
		gen.AnyString(),
	))

	properties.Property("identical output across repeated calls", prop.ForAll(
		func(input string) bool {
			tr := New()
			return tr.Convert(input) == tr.Convert(input)
		},
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// TestProperty_ConvertedOutputStable checks that converted output is a
// fixed point: feeding it back through the converter changes nothing.
func TestProperty_ConvertedOutputStable(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	genStatement := gen.OneGenOf(
		genOperandName().Map(func(name string) string {
			return fmt.Sprintf("let %s = X(rs1);", name)
		}),
		gen.IntRange(0, 255).Map(func(n int) string {
			return fmt.Sprintf("X[rd] = %d;", n)
		}),
		gen.IntRange(0, 63).Map(func(n int) string {
			return fmt.Sprintf("foreach (i from %d to (xlen - 1) in inc)", n)
		}),
		genOperandName().Map(func(name string) string {
			return fmt.Sprintf("result = if %s == 0 then a else b;", name)
		}),
		genOperandName().Map(func(name string) string {
			return fmt.Sprintf("if %s == 0b1 then count = count + 1 else ();", name)
		}),
	)

	properties.Property("second conversion is the identity", prop.ForAll(
		func(statements []string) bool {
			once := Convert(strings.Join(statements, "\n"))
			return Convert(once) == once
		},
		gen.SliceOfN(4, genStatement),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// TestProperty_RegisterNormalization checks register access rewriting for
// arbitrary operand names.
func TestProperty_RegisterNormalization(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("call style operands", prop.ForAll(
		func(rd, rs string) bool {
			got := Convert(fmt.Sprintf("X(%s) = X(%s);", rd, rs))
			return got == fmt.Sprintf("x[%s] = x[%s];", rd, rs)
		},
		gen.Identifier(),
		gen.Identifier(),
	))

	properties.Property("index style operands", prop.ForAll(
		func(rd, rs string) bool {
			got := Convert(fmt.Sprintf("X[%s] = X[%s];", rd, rs))
			return got == fmt.Sprintf("x[%s] = x[%s];", rd, rs)
		},
		gen.Identifier(),
		gen.Identifier(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// TestProperty_LoopDirection checks that lowered loop headers preserve the
// iteration range for any literal bound and step.
func TestProperty_LoopDirection(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("descending loops count down to the low bound", prop.ForAll(
		func(low int) bool {
			got := Convert(fmt.Sprintf("foreach (i from %d to (xlen - 1) in dec)", low))
			return got == fmt.Sprintf("for (i = xlen - 1; i >= %d; i--)", low)
		},
		gen.IntRange(0, 999),
	))

	properties.Property("ascending loops count up from the low bound", prop.ForAll(
		func(low int) bool {
			got := Convert(fmt.Sprintf("foreach (i from %d to (xlen - 1) in inc)", low))
			return got == fmt.Sprintf("for (i = %d; i <= xlen - 1; i++)", low)
		},
		gen.IntRange(0, 999),
	))

	properties.Property("steps wider than one use compound updates", prop.ForAll(
		func(low, step int) bool {
			got := Convert(fmt.Sprintf("foreach (i from %d to (xlen - 1) by %d in inc)", low, step))
			return got == fmt.Sprintf("for (i = %d; i <= xlen - 1; i += %d)", low, step)
		},
		gen.IntRange(0, 999),
		gen.IntRange(2, 16),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// TestProperty_RegistryIsolation checks that function definitions from one
// conversion are invisible to the next.
func TestProperty_RegistryIsolation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("later calls see no earlier definitions", prop.ForAll(
		func(suffix string) bool {
			name := "fn" + suffix
			tr := New()

			first := tr.Convert(fmt.Sprintf("function %s x = {\nreturn 0;\n}\nlet a = %s(b);", name, name))
			if !strings.Contains(first, "_result = 0;") {
				return false
			}

			second := tr.Convert(fmt.Sprintf("let a = %s(b);", name))
			return second == fmt.Sprintf("a = %s(b);", name)
		},
		gen.Identifier(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// TestProperty_BlankInputVerbatim checks that input without any content is
// returned exactly as given, whitespace included.
func TestProperty_BlankInputVerbatim(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("whitespace only input is untouched", prop.ForAll(
		func(runs []int) bool {
			var b strings.Builder
			pieces := []string{" ", "\t", "\n"}
			for i, n := range runs {
				b.WriteString(strings.Repeat(pieces[i%len(pieces)], n))
			}
			input := b.String()
			return Convert(input) == input
		},
		gen.SliceOfN(6, gen.IntRange(0, 5)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
