package sail

import (
	"regexp"
	"strings"
)

var bareReturnRe = regexp.MustCompile(`.*return\s+(.+?);?$`)

// inlineCalls replaces every call of a registered function with a statement
// block computing the same value into `<name>_result`, emitted immediately
// before the calling line. The call expression itself becomes the result
// variable.
func inlineCalls(code string, reg *registry) string {
	for _, def := range reg.defs {
		code = inlineFunction(code, def)
	}
	return code
}

func inlineFunction(code string, def functionDef) string {
	callRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(def.name) + `\s*\(([^)]+)\)`)
	var out []string
	for _, line := range strings.Split(code, "\n") {
		m := callRe.FindStringSubmatch(line)
		if m == nil {
			out = append(out, line)
			continue
		}
		body := def.body
		if def.param != "" {
			paramRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(def.param) + `\b`)
			body = paramRe.ReplaceAllLiteralString(body, strings.TrimSpace(m[1]))
		}
		result := strings.ToLower(def.name) + "_result"
		out = append(out, expandBody(body, result)...)
		out = append(out, callRe.ReplaceAllLiteralString(line, result))
	}
	return strings.Join(out, "\n")
}

// expandBody renders a substituted function body as a statement sequence
// assigning its return value to result. Two body shapes are recognized: a
// bounded loop with a conditional early return, and a plain unconditional
// return. Anything else contributes only the default initialization, which
// keeps unrecognized bodies from breaking the surrounding code.
func expandBody(body, result string) []string {
	defaultValue := "-1"
	var blocks []string
	var loop []string
	inLoop := false

	for _, stmt := range parseLines(body) {
		switch s := stmt.(type) {
		case *LoopStmt:
			header := strings.TrimSpace(strings.TrimSuffix(s.Src, "{"))
			if lowered, ok := s.Clause.lower(); ok {
				header = lowered
			}
			inLoop = true
			loop = []string{header + " {"}
		case *RawStmt:
			if strings.HasPrefix(s.Text, "for (") || hasKeywordPrefix(s.Text, "foreach") {
				inLoop = true
				loop = []string{strings.TrimSpace(strings.TrimSuffix(s.Text, "{")) + " {"}
			}
		case *CondStmt:
			value, ok := conditionalReturn(s)
			if !ok {
				if v, found := trailingReturn(s.Src); found {
					defaultValue = v
				}
				continue
			}
			cond := replaceBits(collapseBrackets(s.Cond))
			guarded := []string{"if (" + cond + ") {", result + " = " + value + ";"}
			if inLoop {
				loop = append(loop, guarded...)
				loop = append(loop, "break;", "}")
			} else {
				blocks = append(blocks, guarded...)
				blocks = append(blocks, "}")
			}
		case *ReturnStmt:
			defaultValue = strings.TrimSpace(strings.TrimSuffix(s.Value, ";"))
		}
	}

	lines := []string{result + " = " + defaultValue + ";"}
	lines = append(lines, blocks...)
	if inLoop {
		lines = append(lines, loop...)
		lines = append(lines, "}")
	}
	return lines
}

// conditionalReturn extracts VAL from a `then return(VAL)` branch.
func conditionalReturn(s *CondStmt) (string, bool) {
	then := strings.TrimSpace(s.Then)
	if !hasKeywordPrefix(then, "return") {
		return "", false
	}
	rest := strings.TrimSpace(then[len("return"):])
	if !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
		return "", false
	}
	value := strings.TrimSpace(rest[1 : len(rest)-1])
	if value == "" || strings.ContainsAny(value, "()") {
		return "", false
	}
	return value, true
}

// trailingReturn mirrors the fallback for conditional lines that mention a
// return the branch recognizer cannot place: the text after the last return
// keyword becomes the default value.
func trailingReturn(line string) (string, bool) {
	m := bareReturnRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(strings.TrimSuffix(m[1], ";")), true
}
