package pseudocode

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	colonHeaderRe = regexp.MustCompile(`(for|if|while)\s*\([^)]*\)\s*:\s*$`)
	colonElseRe   = regexp.MustCompile(`^\s*else\s*:\s*$`)
	colonStyleRe  = regexp.MustCompile(`(?m)(for|if|while|else)\s*(\([^)]*\))?\s*:\s*$`)
	trailColonRe  = regexp.MustCompile(`:\s*$`)
	wordOrRe      = regexp.MustCompile(`\bor\b`)
	wordAndRe     = regexp.MustCompile(`\band\b`)
)

// HasColonBlocks reports whether a blob looks like Python-style
// pseudocode: colon-terminated control headers or textual boolean
// operators.
func HasColonBlocks(code string) bool {
	return colonStyleRe.MatchString(code) ||
		strings.Contains(code, " or ") ||
		strings.Contains(code, " and ")
}

// ConvertColonBlocks rewrites Python-style colon blocks into the braced C
// dialect: colon headers open braces, dedenting below a header or hitting
// the end of input closes them, and textual or/and become ||/&&. Review
// diffs occasionally carry pseudocode in this style.
func ConvertColonBlocks(code string) string {
	var out []string
	var open []int // indent of each header whose brace is still open

	for _, line := range strings.Split(code, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			out = append(out, line)
			continue
		}

		indent := len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))

		for len(open) > 0 && indent < open[len(open)-1] {
			out = append(out, strings.Repeat(" ", open[len(open)-1])+"}")
			open = open[:len(open)-1]
		}

		switch {
		case colonHeaderRe.MatchString(line):
			converted := trailColonRe.ReplaceAllString(replaceBoolWords(line), " {")
			open = append(open, indent)
			out = append(out, converted)

		case colonElseRe.MatchString(line):
			converted := strings.Repeat(" ", indent) + "else {"
			if len(open) > 0 {
				open = open[:len(open)-1]
				converted = strings.Repeat(" ", indent) + "} else {"
			}
			open = append(open, indent)
			out = append(out, converted)

		default:
			converted := replaceBoolWords(line)
			if needsStatementTerminator(stripped) {
				trimmed := strings.TrimRightFunc(converted, unicode.IsSpace)
				if !strings.HasSuffix(trimmed, ";") {
					converted = trimmed + ";"
				}
			}
			out = append(out, converted)
		}
	}

	for len(open) > 0 {
		out = append(out, strings.Repeat(" ", open[len(open)-1])+"}")
		open = open[:len(open)-1]
	}

	return strings.Join(out, "\n")
}

func replaceBoolWords(line string) string {
	line = wordOrRe.ReplaceAllString(line, "||")
	return wordAndRe.ReplaceAllString(line, "&&")
}

// Assignments get a terminator; block openers, closers and comment lines
// do not.
func needsStatementTerminator(stripped string) bool {
	if strings.HasSuffix(stripped, "{") || strings.HasSuffix(stripped, "}") || strings.HasSuffix(stripped, "#") {
		return false
	}
	if strings.HasPrefix(stripped, "#") {
		return false
	}
	return strings.Contains(stripped, "=")
}
