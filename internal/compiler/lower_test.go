package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vera/internal/engine"
	"github.com/roach88/vera/internal/ir"
	"github.com/roach88/vera/internal/testutil"
)

// seed returns the populated accumulator counts of p.
func seed(p *ir.Program) []int {
	in := engine.New(p)
	in.PopulateFacts()
	return in.Accumulator().Counts()
}

func TestLowerExample1(t *testing.T) {
	p := testutil.MustParse(t, "|| x:5\n|| y:4\n|x, y| z:3")

	u, err := Lower(p, seed(p))
	require.NoError(t, err)

	assert.Equal(t, []Var{
		{Symbol: "x", Ident: "x", Init: 5},
		{Symbol: "y", Ident: "y", Init: 4},
		{Symbol: "z", Ident: "z", Init: 0},
	}, u.Vars)

	require.Len(t, u.Branches, 1)
	br := u.Branches[0]
	assert.Equal(t, 0, br.Index)
	assert.Equal(t, 2, br.Rule)
	assert.Equal(t, []int{0, 1}, br.Cond)
	assert.Equal(t, []Stmt{
		Assign{Var: ExecutionsVar, Op: OpSet, Value: Min{X: Ref{Var: 0}, Y: Ref{Var: 1}}},
		Assign{Var: 0, Op: OpSub, Value: Ref{Var: ExecutionsVar}},
		Assign{Var: 1, Op: OpSub, Value: Ref{Var: ExecutionsVar}},
		Assign{Var: 2, Op: OpAdd, Value: Mul{X: Ref{Var: ExecutionsVar}, Y: Lit{Value: 3}}},
		Return{Value: 0},
	}, br.Body)
}

func TestLowerRenumbersBranches(t *testing.T) {
	p := testutil.MustParse(t, "|a| b\n|| a\n|b| c\n|| c:2\n|c|")

	u, err := Lower(p, seed(p))
	require.NoError(t, err)

	require.Len(t, u.Branches, 3)
	for i, br := range u.Branches {
		assert.Equal(t, i, br.Index)
	}
	assert.Equal(t, []int{0, 2, 4}, []int{u.Branches[0].Rule, u.Branches[1].Rule, u.Branches[2].Rule})
}

func TestLowerNestedMin(t *testing.T) {
	p := testutil.MustParse(t, "|a, b, c| d")

	u, err := Lower(p, nil)
	require.NoError(t, err)

	want := Min{X: Min{X: Ref{Var: 0}, Y: Ref{Var: 1}}, Y: Ref{Var: 2}}
	assert.Equal(t, Assign{Var: ExecutionsVar, Op: OpSet, Value: want}, u.Branches[0].Body[0])
	assert.Equal(t, "MIN(MIN(a, b), c)", formatExpr(u, want, cArith))
}

func TestAssignmentSaturates(t *testing.T) {
	p := testutil.MustParse(t, "|a| b:3, c")

	u, err := Lower(p, nil)
	require.NoError(t, err)

	body := u.Branches[0].Body
	require.Len(t, body, 5)
	assert.Equal(t, "executions = a", assignment(u, body[0].(Assign), cArith))
	assert.Equal(t, "a -= executions", assignment(u, body[1].(Assign), cArith))
	assert.Equal(t, "b = vera_add(b, vera_mul(executions, 3))", assignment(u, body[2].(Assign), cArith))
	assert.Equal(t, "c = vera_add(c, executions)", assignment(u, body[3].(Assign), cArith))
	assert.Equal(t, "b = veraAdd(b, veraMul(executions, 3))", assignment(u, body[2].(Assign), goArith))
}

func TestLowerCollision(t *testing.T) {
	p := testutil.MustParse(t, "|| a b, a_b")

	_, err := Lower(p, seed(p))
	require.Error(t, err)
	assert.True(t, IsCollision(err))

	var ce *CollisionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, &CollisionError{Ident: "a_b", First: "a b", Second: "a_b"}, ce)
	assert.Contains(t, err.Error(), `"a_b"`)
}

func TestLowerRejectsExtraInitialValues(t *testing.T) {
	p := testutil.MustParse(t, "|| a")

	_, err := Lower(p, []int{1, 2})
	assert.Error(t, err)
}
