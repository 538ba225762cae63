package compiler

// ExecutionsVar is the Ref index of the shared "executions" scratch variable.
const ExecutionsVar = -1

// ExecutionsIdent names the scratch variable in every target.
const ExecutionsIdent = "executions"

// Unit is a target-agnostic imperative program equivalent to a rule table.
type Unit struct {
	// Vars holds one variable per symbol, in symbol id order.
	Vars []Var

	// Branches in firing priority order. Branch i has Index i.
	Branches []Branch
}

// Var is a program variable backing one symbol.
type Var struct {
	Symbol string
	Ident  string
	Init   int
}

// Branch is one guarded rule body. It is taken when every Cond variable is
// greater than zero, and ends by returning Index.
type Branch struct {
	Index int
	Rule  int
	Cond  []int
	Body  []Stmt
}

// Expr is an integer expression.
type Expr interface {
	isExpr()
}

// Ref reads a variable (or ExecutionsVar).
type Ref struct {
	Var int
}

// Lit is an integer literal.
type Lit struct {
	Value int
}

// Min is the smaller of X and Y.
type Min struct {
	X, Y Expr
}

// Mul is X times Y, clamped at the largest count.
type Mul struct {
	X, Y Expr
}

func (Ref) isExpr() {}
func (Lit) isExpr() {}
func (Min) isExpr() {}
func (Mul) isExpr() {}

// Stmt is a statement inside a branch body.
type Stmt interface {
	isStmt()
}

// AssignOp selects =, += or -=. Targets render OpAdd as a saturating add.
type AssignOp int

const (
	OpSet AssignOp = iota
	OpAdd
	OpSub
)

// String returns the operator token shared by C and Go.
func (op AssignOp) String() string {
	switch op {
	case OpAdd:
		return "+="
	case OpSub:
		return "-="
	default:
		return "="
	}
}

// Assign updates variable Var (or ExecutionsVar).
type Assign struct {
	Var   int
	Op    AssignOp
	Value Expr
}

// Return leaves the step function with a branch index.
type Return struct {
	Value int
}

func (Assign) isStmt() {}
func (Return) isStmt() {}

// ident returns the identifier of Ref index v.
func (u *Unit) ident(v int) string {
	if v == ExecutionsVar {
		return ExecutionsIdent
	}
	return u.Vars[v].Ident
}
