package sail

import (
	"regexp"
	"strings"
)

// The ordered context-free substitutions of the target dialect. Later rules
// assume earlier ones already ran, so normalizeLine applies them in exactly
// this sequence.
var (
	letTypedRe   = regexp.MustCompile(`\blet\s+(\w+)\s*:\s*\w+\s*=`)
	letBareRe    = regexp.MustCompile(`\blet\s+`)
	regCallRe    = regexp.MustCompile(`\bX\((\w+)\)`)
	regIndexRe   = regexp.MustCompile(`\bX\[(\w+)\]`)
	doubleIdxRe  = regexp.MustCompile(`\[(\w+\[\w+\])\]`)
	bitOneRe     = regexp.MustCompile(`0b1\b`)
	bitZeroRe    = regexp.MustCompile(`0b0\b`)
	bitSliceRe   = regexp.MustCompile(`(\w+)\[(\d+)\.\.(\d+)\]`)
	elseUnitRe   = regexp.MustCompile(`else\s*\(\s*\)`)
	colonUnitRe  = regexp.MustCompile(`:\s*\(\s*\)`)
	valInlineRe  = regexp.MustCompile(`val\s+\w+\s*:.*`)
	ifKeywordRe  = regexp.MustCompile(`\bif\s`)
)

// normalizeLine applies the dialect substitutions to one rendered line:
// strip leftover let bindings, convert register access to array indexing,
// collapse redundant index brackets, replace boolean bit literals, turn bit
// slices into annotation comments and drop no-op else fragments and type
// annotations.
func normalizeLine(line string) string {
	line = letTypedRe.ReplaceAllString(line, "$1 =")
	line = letBareRe.ReplaceAllString(line, "")
	line = regCallRe.ReplaceAllString(line, "x[$1]")
	line = regIndexRe.ReplaceAllString(line, "x[$1]")
	line = doubleIdxRe.ReplaceAllString(line, "$1")
	line = bitOneRe.ReplaceAllString(line, "1")
	line = bitZeroRe.ReplaceAllString(line, "0")
	line = bitSliceRe.ReplaceAllString(line, "$1 /* bits $2..$3 */")
	line = elseUnitRe.ReplaceAllString(line, "")
	line = colonUnitRe.ReplaceAllString(line, "")
	line = valInlineRe.ReplaceAllString(line, "")
	return line
}

// collapseBrackets and replaceBits are the condition cleanup used when a
// conditional return is folded into a loop body.
func collapseBrackets(s string) string {
	return doubleIdxRe.ReplaceAllString(s, "$1")
}

func replaceBits(s string) string {
	s = bitOneRe.ReplaceAllString(s, "1")
	return bitZeroRe.ReplaceAllString(s, "0")
}

// rewriteConditionals collapses if/then/else expressions embedded in a line.
// A unit else branch turns the expression into a guarded block, anything
// else becomes a ternary. Text without a then keyword, C-style ifs included,
// is returned unchanged.
func rewriteConditionals(line string) string {
	var out strings.Builder
	rest := line
	for {
		loc := ifKeywordRe.FindStringIndex(rest)
		if loc == nil {
			break
		}
		thenIdx := indexKeyword(rest, "then", loc[1])
		if thenIdx < 0 {
			break
		}
		elseIdx := indexKeyword(rest, "else", thenIdx+len("then"))
		if elseIdx < 0 {
			break
		}
		cond := strings.TrimSpace(rest[loc[0]+len("if") : thenIdx])
		thenPart := strings.TrimSpace(rest[thenIdx+len("then") : elseIdx])

		elseEnd := len(rest)
		if stop := strings.IndexByte(rest[elseIdx:], ';'); stop >= 0 {
			elseEnd = elseIdx + stop
		}
		elsePart := strings.TrimSpace(rest[elseIdx+len("else") : elseEnd])
		if elsePart == "" {
			out.WriteString(rest[:elseIdx+len("else")])
			rest = rest[elseIdx+len("else"):]
			continue
		}

		out.WriteString(rest[:loc[0]])
		if unitBranchRe.MatchString(elsePart) {
			out.WriteString("if (" + cond + ") { " + thenPart + "; }")
			// the unit form swallows its terminator
			if elseEnd < len(rest) && rest[elseEnd] == ';' {
				elseEnd++
			}
		} else {
			out.WriteString("(" + cond + ") ? " + thenPart + " : " + elsePart)
		}
		rest = rest[elseEnd:]
	}
	out.WriteString(rest)
	return out.String()
}
