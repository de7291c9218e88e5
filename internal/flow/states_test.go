package flow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gotp/gotp/internal/config"
	"github.com/gotp/gotp/internal/testutil"
	"github.com/gotp/gotp/tp"
)

func TestStates(t *testing.T) {
	ls := testutil.Program("A_1PA005",
		"! prologue",
		"LBL[33]",
		"JMP LBL[10]",
		"LBL[25:check mold]",
		"IF DI[1]=OFF,JMP LBL[500]",
		"CALL KER1_384",
		"LBL[10]",
		"WAIT DI[5]=ON",
		"JMP LBL[25]",
		"LBL[500]",
		"ABORT",
	)
	_, g := extract(t, ls)
	names := config.Default().StateNames

	var got []tp.State
	var trans [][]tp.Transition
	for st, tr := range States(g, names) {
		got = append(got, st)
		trans = append(trans, tr)
	}

	require.Len(t, got, 4)
	require.Equal(t, []string{"IDLE / WAIT_MOLD_CLOSED", "check mold", "LBL[33]", "LBL[500]"},
		[]string{got[0].Name, got[1].Name, got[2].Name, got[3].Name})
	require.Equal(t, []int{10, 25, 33, 500},
		[]int{got[0].Label, got[1].Label, got[2].Label, got[3].Label})

	require.Equal(t, tp.LabelCycle, got[0].Class)
	require.Equal(t, []string{"WAIT DI[5]=ON", "JMP LBL[25]"}, got[0].Actions)
	require.Equal(t, ls.Line(7), got[0].FirstLine)
	require.Equal(t, ls.Line(9), got[0].LastLine)
	require.Equal(t, []tp.Transition{{Kind: tp.EdgeJump, Target: 25, Line: ls.Line(9)}}, trans[0])

	require.Equal(t, []tp.Transition{
		{Kind: tp.EdgeConditionalJump, Target: 500, Condition: "DI[1]=OFF", Line: ls.Line(5)},
		{Kind: tp.EdgeCallReturn, Target: 10, Callee: "KER1_384", Line: ls.Line(6)},
		{Kind: tp.EdgeFallthrough, Target: 10},
	}, trans[1])

	require.Equal(t, tp.LabelError, got[3].Class)
	require.Empty(t, trans[3])
}

func TestStatesRestartable(t *testing.T) {
	_, g := extract(t, testutil.Program("KER1_384", "LBL[10]", "LBL[20]", "LBL[30]"))
	seq := States(g, nil)

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	require.Equal(t, 3, count())
	require.Equal(t, 3, count())

	var first []int
	for st := range seq {
		first = append(first, st.Label)
		if len(first) == 2 {
			break
		}
	}
	require.Equal(t, []int{10, 20}, first)
}

func TestStatesActionsAreCopies(t *testing.T) {
	_, g := extract(t, testutil.Program("KER1_384", "LBL[10]", "R[1]=1"))
	for st := range States(g, nil) {
		st.Actions[0] = strings.ToLower(st.Actions[0])
	}
	require.Equal(t, "R[1]=1", g.Nodes[0].Actions[0])
}
