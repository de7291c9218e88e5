package flow

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zboralski/lattice"

	"github.com/gotp/gotp/internal/testutil"
)

func TestCFG(t *testing.T) {
	ls := testutil.Program("A_1PA005",
		"LBL[10]",
		"CALL KER1_384",
		"IF DI[1]=ON,JMP LBL[500]",
		"LBL[20]",
		"END",
		"LBL[500]",
		"CALL TEKST(500)",
	)
	_, g := extract(t, ls)
	cfg := CFG(g)

	require.Len(t, cfg.Funcs, 1)
	fn := cfg.Funcs[0]
	require.Equal(t, "A_1PA005", fn.Name)
	require.Len(t, fn.Blocks, 3)

	b := fn.Blocks[0]
	require.Equal(t, 0, b.ID)
	require.Equal(t, []lattice.CallSite{{Offset: ls.Line(2), Callee: "KER1_384"}}, b.Calls)
	require.Equal(t, []lattice.Successor{{BlockID: 2, Cond: "DI[1]=ON"}, {BlockID: 1}}, b.Succs)

	require.True(t, fn.Blocks[1].Term)
	require.Empty(t, fn.Blocks[1].Succs, "fallthrough after END is dropped")
	require.Equal(t, "TEKST", fn.Blocks[2].Calls[0].Callee)
}

func TestDOT(t *testing.T) {
	_, g := extract(t, testutil.Program("KER1_384", "LBL[10]", "CALL TEKST", "LBL[20]"))
	if out := DOT(g); out == "" {
		t.Error("expected non-empty DOT output")
	}
}
