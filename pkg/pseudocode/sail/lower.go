package sail

import (
	"fmt"
	"strings"
)

// lowerStatements parses the residual code into statements and renders each
// one in the target dialect.
func lowerStatements(code string) string {
	l := &lowerer{}
	for _, stmt := range parseLines(code) {
		l.visit(stmt)
	}
	return strings.Join(l.lines, "\n")
}

// lowerer renders statements as target-dialect lines. Every emitted line
// passes through normalizeLine so the expression-level substitutions apply
// uniformly, whichever variant produced the line.
type lowerer struct {
	lines []string
}

func (l *lowerer) emit(line string) {
	l.lines = append(l.lines, normalizeLine(line))
}

func (l *lowerer) visit(stmt Stmt) {
	switch s := stmt.(type) {
	case *LoopStmt:
		l.visitLoop(s)
	case *CondStmt:
		l.visitCond(s)
	case *AssignStmt:
		l.visitAssign(s)
	case *ValDeclStmt:
		// type annotations have no target-dialect counterpart
	case *ReturnStmt:
		l.emit(s.Src)
	case *RawStmt:
		if s.Text != "" {
			l.emit(rewriteConditionals(s.Text))
		}
	}
}

func (l *lowerer) visitLoop(s *LoopStmt) {
	header, ok := s.Clause.lower()
	if !ok {
		l.emit(s.Src)
		return
	}
	if s.OpenBrace {
		header += " {"
	}
	l.emit(header)
}

func (l *lowerer) visitCond(s *CondStmt) {
	switch {
	case !s.HasElse:
		l.emit(rewriteConditionals(s.Src))
	case s.ElseUnit:
		l.emit("if (" + s.Cond + ") { " + s.Then + "; }")
	default:
		line := "(" + s.Cond + ") ? " + s.Then + " : " + s.Else
		if s.Terminated {
			line += ";"
		}
		l.emit(line)
	}
}

func (l *lowerer) visitAssign(s *AssignStmt) {
	line := s.Target + " = " + rewriteConditionals(s.Expr)
	if s.Terminated {
		line += ";"
	}
	l.emit(line)
}

// lower renders the clause as a C for header. The five recognized
// bound/direction combinations come straight from the instruction corpus;
// ok is false for anything else, in which case the clause passes through
// untranslated.
func (c LoopClause) lower() (string, bool) {
	switch {
	case c.Dir == DirDec && c.From.Paren && !c.To.Paren:
		return forHeader(c.Var, c.From.Text, ">=", c.To.Text, decrement(c.Step)), true
	case c.Dir == DirDec && !c.From.Paren && c.To.Paren:
		// `from LOW to (HIGH) in dec` iterates from HIGH down to LOW: the
		// textual bounds name the range, not the initial value
		return forHeader(c.Var, c.To.Text, ">=", c.From.Text, decrement(c.Step)), true
	case c.Dir == DirInc && !c.From.Paren && c.To.Paren:
		return forHeader(c.Var, c.From.Text, "<=", c.To.Text, increment(c.Step)), true
	case c.Dir == DirNone && !c.From.Paren && c.To.Paren:
		return forHeader(c.Var, c.From.Text, "<=", c.To.Text, increment(c.Step)), true
	case c.Dir == DirDec && !c.From.Paren && !c.To.Paren:
		return forHeader(c.Var, c.From.Text, ">=", c.To.Text, decrement(c.Step)), true
	}
	return "", false
}

func forHeader(loopVar, init, cmp, bound, step string) string {
	return fmt.Sprintf("for (%s = %s; %s %s %s; %s%s)", loopVar, init, loopVar, cmp, bound, loopVar, step)
}

func decrement(step string) string {
	if step == "1" {
		return "--"
	}
	return " -= " + step
}

func increment(step string) string {
	if step == "1" {
		return "++"
	}
	return " += " + step
}
