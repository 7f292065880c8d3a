package sail

import (
	"regexp"
	"strings"
)

var (
	foreachClauseRe = regexp.MustCompile(`^foreach\s*\(\s*(\w+)\s+from\s+(?:\(([^)]+)\)|(\d+))\s+to\s+(?:\(([^)]+)\)|(\d+))(?:\s+by\s+(\d+))?(?:\s+in\s+(inc|dec))?\s*\)`)
	valDeclLineRe   = regexp.MustCompile(`^val\s+\w+\s*:`)
	returnLineRe    = regexp.MustCompile(`^return\s+(.+?);?$`)
	letTypedLineRe  = regexp.MustCompile(`^let\s+(\w+)\s*:\s*\w+\s*=\s*(.*)$`)
	letPlainLineRe  = regexp.MustCompile(`^let\s+(\w+)\s*=\s*(.*)$`)
	ifWordRe        = regexp.MustCompile(`\bif\b`)
	thenWordRe      = regexp.MustCompile(`\bthen\b`)
	unitBranchRe    = regexp.MustCompile(`^\(\s*\)$`)
)

// parseLines splits a blob into logical statements. Multi-line if/then/else
// expressions are joined first so a statement always occupies one line.
func parseLines(code string) []Stmt {
	lines := joinContinuations(strings.Split(code, "\n"))
	stmts := make([]Stmt, 0, len(lines))
	for _, line := range lines {
		stmts = append(stmts, parseStmt(line))
	}
	return stmts
}

// joinContinuations merges `then`/`else` continuation lines into the
// statement they belong to. A then-line continues a pending if, an else-line
// continues a pending then. Anything else stays its own line, so C-style
// `else` blocks are never touched.
func joinContinuations(lines []string) []string {
	var out []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if len(out) > 0 && isContinuation(trimmed, out[len(out)-1]) {
			out[len(out)-1] += " " + trimmed
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func isContinuation(line, prev string) bool {
	switch {
	case hasKeywordPrefix(line, "then"):
		return ifWordRe.MatchString(prev) && !thenWordRe.MatchString(prev)
	case hasKeywordPrefix(line, "else"):
		return thenWordRe.MatchString(prev)
	}
	return false
}

func hasKeywordPrefix(s, keyword string) bool {
	if !strings.HasPrefix(s, keyword) {
		return false
	}
	return len(s) == len(keyword) || !isWordByte(s[len(keyword)])
}

func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func parseStmt(line string) Stmt {
	switch {
	case line == "":
		return &RawStmt{}
	case hasKeywordPrefix(line, "foreach"):
		if clause, ok := parseForeach(line); ok {
			return &LoopStmt{Src: line, Clause: clause, OpenBrace: strings.HasSuffix(line, "{")}
		}
	case hasKeywordPrefix(line, "val"):
		if valDeclLineRe.MatchString(line) {
			return &ValDeclStmt{Src: line}
		}
	case hasKeywordPrefix(line, "let"):
		if stmt := parseLet(line); stmt != nil {
			return stmt
		}
	case hasKeywordPrefix(line, "return"):
		if m := returnLineRe.FindStringSubmatch(line); m != nil {
			return &ReturnStmt{Src: line, Value: strings.TrimSpace(m[1])}
		}
	case hasKeywordPrefix(line, "if"):
		if stmt := parseCond(line); stmt != nil {
			return stmt
		}
	default:
		if stmt := parseAssign(line); stmt != nil {
			return stmt
		}
	}
	return &RawStmt{Text: line}
}

func parseForeach(line string) (LoopClause, bool) {
	m := foreachClauseRe.FindStringSubmatch(line)
	if m == nil {
		return LoopClause{}, false
	}
	clause := LoopClause{
		Var:  m[1],
		From: parseBound(m[2], m[3]),
		To:   parseBound(m[4], m[5]),
		Step: m[6],
	}
	if clause.Step == "" {
		clause.Step = "1"
	}
	switch m[7] {
	case "inc":
		clause.Dir = DirInc
	case "dec":
		clause.Dir = DirDec
	}
	return clause, true
}

func parseBound(paren, literal string) Bound {
	if paren != "" {
		return Bound{Text: strings.TrimSpace(paren), Paren: true}
	}
	return Bound{Text: literal}
}

// parseLet strips the binding keyword. Single-word type annotations are
// dropped with it; anything fancier keeps its annotation text and the line
// is reparsed without the keyword.
func parseLet(line string) Stmt {
	rest := line
	for hasKeywordPrefix(rest, "let") {
		if m := letTypedLineRe.FindStringSubmatch(rest); m != nil {
			expr, terminated := splitTerminator(m[2])
			return &AssignStmt{Src: line, Target: m[1], Expr: expr, Terminated: terminated}
		}
		if m := letPlainLineRe.FindStringSubmatch(rest); m != nil {
			expr, terminated := splitTerminator(m[2])
			return &AssignStmt{Src: line, Target: m[1], Expr: expr, Terminated: terminated}
		}
		rest = strings.TrimSpace(strings.TrimPrefix(rest, "let"))
	}
	if rest == "" {
		return nil
	}
	stmt := parseStmt(rest)
	if raw, ok := stmt.(*RawStmt); ok {
		raw.Text = rest
	}
	return stmt
}

// parseCond splits `if COND then THEN [else ELSE]` at the keywords. Lines
// without a top-level `then` (C-style ifs included) are left to the caller.
func parseCond(line string) Stmt {
	thenIdx := indexKeyword(line, "then", len("if"))
	if thenIdx < 0 {
		return nil
	}
	cond := strings.TrimSpace(line[len("if"):thenIdx])
	rest := line[thenIdx+len("then"):]
	stmt := &CondStmt{Src: line, Cond: cond, Terminated: strings.HasSuffix(line, ";")}

	elseIdx := indexKeyword(rest, "else", 0)
	if elseIdx < 0 {
		thenPart, _ := splitTerminator(strings.TrimSpace(rest))
		stmt.Then = thenPart
		return stmt
	}
	thenPart, _ := splitTerminator(strings.TrimSpace(rest[:elseIdx]))
	elsePart, _ := splitTerminator(strings.TrimSpace(rest[elseIdx+len("else"):]))
	if elsePart == "" {
		stmt.Then = thenPart
		return stmt
	}
	stmt.Then = thenPart
	stmt.Else = elsePart
	stmt.HasElse = true
	stmt.ElseUnit = unitBranchRe.MatchString(elsePart)
	return stmt
}

// indexKeyword finds keyword as a standalone word at or after start,
// returning the byte offset of its first character.
func indexKeyword(s, keyword string, start int) int {
	for i := start; i+len(keyword) <= len(s); i++ {
		if s[i:i+len(keyword)] != keyword {
			continue
		}
		if i > 0 && isWordByte(s[i-1]) {
			continue
		}
		if i+len(keyword) < len(s) && isWordByte(s[i+len(keyword)]) {
			continue
		}
		return i
	}
	return -1
}

// parseAssign splits at the first top-level assignment operator. Control
// flow headers never count as assignments even when their text contains one.
func parseAssign(line string) Stmt {
	for _, prefix := range []string{"for", "if", "else", "while", "foreach"} {
		if hasKeywordPrefix(line, prefix) {
			return nil
		}
	}
	idx := indexAssignOp(line)
	if idx <= 0 {
		return nil
	}
	target := strings.TrimSpace(line[:idx])
	expr, terminated := splitTerminator(strings.TrimSpace(line[idx+1:]))
	if target == "" {
		return nil
	}
	return &AssignStmt{Src: line, Target: target, Expr: expr, Terminated: terminated}
}

// indexAssignOp returns the position of the first `=` that is not part of a
// comparison or compound operator, or -1.
func indexAssignOp(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != '=' {
			continue
		}
		if i+1 < len(s) && s[i+1] == '=' {
			i++
			continue
		}
		if i > 0 && strings.IndexByte("=!<>+-*/%&|^~", s[i-1]) >= 0 {
			continue
		}
		return i
	}
	return -1
}

func splitTerminator(s string) (string, bool) {
	if strings.HasSuffix(s, ";") {
		return strings.TrimSpace(strings.TrimSuffix(s, ";")), true
	}
	return s, false
}
