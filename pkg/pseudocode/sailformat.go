package pseudocode

import "strings"

// FormatSail pretty-prints a Sail-dialect blob without translating it.
// Indentation follows braces plus the multi-line then/else layout of Sail
// if expressions.
func FormatSail(code string) string {
	if strings.TrimSpace(code) == "" {
		return code
	}

	var out []string
	indent := 0

	for _, raw := range strings.Split(code, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "}") && indent > 0 {
			indent--
		}

		out = append(out, strings.Repeat("  ", indent)+line)

		if strings.HasSuffix(line, "{") {
			indent++
		}

		// A then clause without an else or terminator on the same line
		// continues below; the continuation sits one level deeper.
		if strings.Contains(line, "then") && !strings.Contains(line, "else") && !strings.Contains(line, ";") {
			indent++
		}

		if strings.HasPrefix(line, "else") && !strings.HasSuffix(line, "{") && indent > 0 {
			indent--
		}
	}

	return strings.Join(out, "\n")
}
