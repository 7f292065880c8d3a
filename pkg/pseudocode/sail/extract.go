package sail

import (
	"log/slog"
	"regexp"
	"strings"
)

// A function definition is an optional `val NAME : ...` declaration line
// followed by `function NAME PARAM = { BODY }`, where BODY may nest one
// brace level. Unbalanced or unfamiliar shapes simply do not match.
var functionDefRe = regexp.MustCompile(`(?s)(?:val\s+(\w+)\s*:.*?\n)?function\s+(\w+)\s+(\w+)\s*=\s*\{([^}]*(?:\{[^}]*\}[^}]*)*)\}`)

// functionDef is one extracted function, recorded for inlining. The declared
// val name wins over the function-line name when both are present.
type functionDef struct {
	name  string
	param string
	body  string
}

// registry holds the function definitions of a single conversion call.
// Definition order is preserved so repeated conversions of the same input
// inline in the same order.
type registry struct {
	defs []functionDef
}

func (r *registry) add(def functionDef) {
	for i := range r.defs {
		if r.defs[i].name == def.name {
			r.defs[i] = def
			return
		}
	}
	r.defs = append(r.defs, def)
}

// extractFunctions records every function definition in reg and returns the
// input with the matched spans removed. Definitions never appear in the
// output.
func extractFunctions(code string, reg *registry, logger *slog.Logger) string {
	residual := functionDefRe.ReplaceAllStringFunc(code, func(match string) string {
		m := functionDefRe.FindStringSubmatch(match)
		name := m[1]
		if name == "" {
			name = m[2]
		}
		reg.add(functionDef{name: name, param: m[3], body: strings.TrimSpace(m[4])})
		logger.Debug("extracted function definition", "name", name, "param", m[3])
		return ""
	})
	return strings.TrimSpace(residual)
}
