package pseudocode

import (
	"regexp"
	"strings"
)

var (
	assignGapRe  = regexp.MustCompile(`([^\s<>=!])=([^\s=])`)
	compareGapRe = regexp.MustCompile(`([^\s<>])([<>]=?|[!=]=)([^\s])`)
	plusGapRe    = regexp.MustCompile(`([^\s\[:])(\+)([^\s])`)
	minusGapRe   = regexp.MustCompile(`([^\s])(-)([^\s])`)
	logicGapRe   = regexp.MustCompile(`([^\s])(&{1,2}|(\|{1,2})|(\^))([^\s])`)
	spaceRunRe   = regexp.MustCompile(`\s+`)
)

// FormatC reformats a C-dialect blob: one statement per line and single
// spaces around binary operators. Bit slices like result[31:0] keep their
// spelling.
func FormatC(code string) string {
	if strings.TrimSpace(code) == "" {
		return code
	}

	var lines []string
	for _, stmt := range splitStatements(code) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		lines = append(lines, spaceOperators(stmt))
	}

	return indentControlFlow(lines)
}

// splitStatements cuts at top level semicolons only. Brackets, parens and
// braces all suppress the split, so M[x[rs1]][7:0] and single-line braced
// blocks stay whole.
func splitStatements(code string) []string {
	var stmts []string
	var current strings.Builder

	depth := 0
	for _, ch := range code {
		switch {
		case ch == '[' || ch == '(' || ch == '{':
			depth++
		case ch == ']' || ch == ')' || ch == '}':
			depth--
		case ch == ';' && depth == 0:
			current.WriteRune(ch)
			stmts = append(stmts, strings.TrimSpace(current.String()))
			current.Reset()
			continue
		}
		current.WriteRune(ch)
	}

	if rest := strings.TrimSpace(current.String()); rest != "" {
		stmts = append(stmts, rest)
	}

	return stmts
}

func spaceOperators(line string) string {
	line = assignGapRe.ReplaceAllString(line, "$1 = $2")
	line = compareGapRe.ReplaceAllString(line, "$1 $2 $3")
	line = plusGapRe.ReplaceAllString(line, "$1 $2 $3")
	line = minusGapRe.ReplaceAllString(line, "$1 $2 $3")
	line = logicGapRe.ReplaceAllString(line, "$1 $2 $5")
	return spaceRunRe.ReplaceAllString(line, " ")
}

// Control flow headers stay at column zero; their bodies and stray
// closing braces indent by brace depth.
func indentControlFlow(lines []string) string {
	var out []string
	indent := 0

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "if"), strings.HasPrefix(line, "for"):
			out = append(out, line)
			if strings.HasSuffix(line, "{") {
				indent++
			}
		case line == "}":
			if indent > 0 {
				indent--
			}
			out = append(out, strings.Repeat("  ", indent)+line)
		default:
			out = append(out, strings.Repeat("  ", indent)+line)
		}
	}

	return strings.Join(out, "\n")
}
