// Package pseudocode classifies and formats the pseudocode dialects found
// in the instruction database. Records imported from different sources mix
// a Sail-like dialect, the C-like house dialect, and plain expansion
// macros for compressed instructions. Everything here is heuristic and
// non-destructive.
package pseudocode

import (
	"fmt"
	"regexp"
	"strings"
)

// Dialect identifies the flavor a pseudocode blob is written in.
type Dialect int

const (
	DialectUnknown Dialect = iota
	DialectSail
	DialectC
	DialectExpansion
)

func (d Dialect) String() string {
	switch d {
	case DialectSail:
		return "sail"
	case DialectC:
		return "c"
	case DialectExpansion:
		return "expansion"
	default:
		return "unknown"
	}
}

// ParseDialect resolves a dialect name given on the command line.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sail":
		return DialectSail, nil
	case "c", "c-like":
		return DialectC, nil
	case "expansion":
		return DialectExpansion, nil
	case "", "unknown":
		return DialectUnknown, nil
	default:
		return DialectUnknown, fmt.Errorf("unknown pseudocode dialect %q", name)
	}
}

// Constructs that only show up in the Sail dialect.
var sailMarkers = []*regexp.Regexp{
	regexp.MustCompile(`\blet\s+\w+\s*:\s*\w+`),
	regexp.MustCompile(`\bforeach\s*\(`),
	regexp.MustCompile(`\bfunction\s+\w+`),
	regexp.MustCompile(`\bval\s+\w+\s*:`),
	regexp.MustCompile(`X\(`),
	regexp.MustCompile(`\bthen\b`),
}

// Detect classifies a pseudocode blob. Sail markers win over everything
// else; expansion macros are the `C.xxx → base instruction` descriptions
// carried by compressed instructions; any other non-empty text counts as
// the C-like house dialect.
func Detect(code string) Dialect {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return DialectUnknown
	}

	for _, marker := range sailMarkers {
		if marker.MatchString(code) {
			return DialectSail
		}
	}

	if (strings.HasPrefix(trimmed, "C.") && strings.Contains(code, "→")) ||
		strings.Contains(strings.ToLower(code), "expands to") {
		return DialectExpansion
	}

	return DialectC
}

// Format detects the dialect of a blob and pretty-prints it with the
// matching formatter. Expansion macros and unclassifiable text pass
// through untouched.
func Format(code string) string {
	return FormatDialect(code, Detect(code))
}

// FormatDialect pretty-prints a blob as a specific dialect, skipping
// detection.
func FormatDialect(code string, dialect Dialect) string {
	switch dialect {
	case DialectSail:
		return FormatSail(code)
	case DialectC:
		return FormatC(code)
	default:
		return code
	}
}

// Dumps a description of the known dialects as one multiline string
func DialectsDocString() string {
	var builder strings.Builder

	for _, dialect := range []Dialect{DialectSail, DialectC, DialectExpansion} {
		builder.WriteString(fmt.Sprintf("%v:\n", dialect))
		switch dialect {
		case DialectSail:
			builder.WriteString("  Sail-like dialect imported from formal ISA models.\n")
			builder.WriteString("  Markers: let bindings, foreach loops, X(n) register access, if/then/else.\n")
			builder.WriteString("  Example: X(rd) = X(rs1) & ~X(rs2);\n")
		case DialectC:
			builder.WriteString("  C-like house dialect used by instruction reference material.\n")
			builder.WriteString("  Markers: x[n] register access, for loops, ternaries.\n")
			builder.WriteString("  Example: x[rd] = x[rs1] & ~x[rs2];\n")
		case DialectExpansion:
			builder.WriteString("  Expansion macros carried by compressed instructions.\n")
			builder.WriteString("  Markers: C.xxx arrow descriptions or an 'expands to' phrase.\n")
			builder.WriteString("  Example: C.ADD expands to add rd, rd, rs2.\n")
		}
		builder.WriteString("\n")
	}

	return builder.String()
}
