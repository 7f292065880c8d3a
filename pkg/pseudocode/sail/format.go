package sail

import (
	"regexp"
	"strings"
)

var (
	orphanResultRe = regexp.MustCompile(`^[a-z_]+_result$`)
	dupSemisRe     = regexp.MustCompile(`;;+`)
)

// formatOutput reindents the lowered code by brace depth and applies the
// target dialect's statement terminator policy.
func formatOutput(code string) string {
	var out []string
	depth := 0
	for _, line := range strings.Split(code, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if orphanResultRe.MatchString(line) {
			continue
		}
		if strings.HasPrefix(line, "}") && depth > 0 {
			depth--
		}
		formatted := strings.Repeat("    ", depth) + line
		if needsTerminator(line) {
			formatted += ";"
		}
		out = append(out, formatted)
		if strings.HasSuffix(line, "{") {
			depth++
		}
	}
	return dupSemisRe.ReplaceAllString(strings.Join(out, "\n"), ";")
}

// needsTerminator reports whether a semicolon must be appended: block
// openers, headers and already-terminated lines keep their ending, and
// bare expressions other than break/continue stay untouched.
func needsTerminator(line string) bool {
	switch {
	case strings.HasSuffix(line, ";"), strings.HasSuffix(line, "{"), strings.HasSuffix(line, "}"):
		return false
	case strings.HasPrefix(line, "for "), strings.HasPrefix(line, "if "),
		strings.HasPrefix(line, "else"), strings.HasPrefix(line, "while "):
		return false
	}
	return strings.Contains(line, "=") || line == "break" || line == "continue"
}
