package sail

// Stmt is a single parsed statement of the source dialect. The grammar is
// deliberately small: only the shapes observed in the instruction corpus get
// their own variant, everything else is kept as a RawStmt and passes through
// the pipeline untouched.
type Stmt interface {
	// Source returns the original statement text, used whenever a construct
	// cannot be lowered and has to survive as-is.
	Source() string
	stmtNode()
}

// RawStmt is an unrecognized line, preserved verbatim modulo expression
// normalization.
type RawStmt struct {
	Text string
}

// AssignStmt is `TARGET = EXPR`, covering plain assignments and `let`
// bindings with the binding keyword and single-word type annotation already
// stripped by the parser.
type AssignStmt struct {
	Src        string
	Target     string
	Expr       string
	Terminated bool
}

// LoopStmt is a bounded `foreach` iteration header.
type LoopStmt struct {
	Src       string
	Clause    LoopClause
	OpenBrace bool
}

// CondStmt is `if COND then THEN [else ELSE]`. ElseUnit marks the no-op
// `else ()` branch.
type CondStmt struct {
	Src        string
	Cond       string
	Then       string
	Else       string
	HasElse    bool
	ElseUnit   bool
	Terminated bool
}

// ReturnStmt is `return EXPR`. Only meaningful inside extracted function
// bodies; in residual code it passes through unchanged.
type ReturnStmt struct {
	Src   string
	Value string
}

// ValDeclStmt is a `val NAME : ...` type annotation line. It produces no
// output.
type ValDeclStmt struct {
	Src string
}

func (s *RawStmt) Source() string     { return s.Text }
func (s *AssignStmt) Source() string  { return s.Src }
func (s *LoopStmt) Source() string    { return s.Src }
func (s *CondStmt) Source() string    { return s.Src }
func (s *ReturnStmt) Source() string  { return s.Src }
func (s *ValDeclStmt) Source() string { return s.Src }

func (*RawStmt) stmtNode()     {}
func (*AssignStmt) stmtNode()  {}
func (*LoopStmt) stmtNode()    {}
func (*CondStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode()  {}
func (*ValDeclStmt) stmtNode() {}

// Direction is the iteration direction marker of a foreach clause.
type Direction int

const (
	DirNone Direction = iota
	DirInc
	DirDec
)

// Bound is one textual loop bound. Parenthesized bounds carry arbitrary
// expressions, bare bounds are integer literals.
type Bound struct {
	Text  string
	Paren bool
}

// LoopClause is the header of a bounded foreach iteration:
// `VAR from FROM to TO [by STEP] [in inc|dec]`.
type LoopClause struct {
	Var  string
	From Bound
	To   Bound
	Step string
	Dir  Direction
}
