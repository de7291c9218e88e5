package symbols

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/gotp/gotp/internal/program"
	"github.com/gotp/gotp/internal/testutil"
	"github.com/gotp/gotp/tp"
)

func assemble(t *testing.T, name string, lines ...string) *tp.Program {
	t.Helper()
	p, err := program.Assemble(name+".LS", testutil.Program(name, lines...).Bytes(), nil, nil)
	require.NoError(t, err)
	return p
}

func TestAggregateSharedRegister(t *testing.T) {
	a := assemble(t, "A_1PA005", "R[90:Program gestart]=1")
	b := assemble(t, "A_1PA384", "R[90:Program gestart]=1")

	tables := Aggregate([]*tp.Program{b, a})
	s, ok := tables.Register(90)
	require.True(t, ok)
	require.Equal(t, 2, s.Usage)
	require.Equal(t, []string{"A_1PA005", "A_1PA384"}, s.Programs)
	require.Equal(t, []string{"Program gestart"}, s.Names)
	require.False(t, s.HasVariants())
	require.Equal(t, "A_1PA005", s.FirstProgram)
	require.Empty(t, tables.Variants())
}

func TestAggregateKinds(t *testing.T) {
	p := assemble(t, "KER1_384",
		"IF DI[4:part present]=ON,JMP LBL[20]",
		"DO[101:Open hand]=ON",
		"DO[101:open gripper]=OFF",
		"PR[5,3:z offset]=100",
		"L PR[5] 100mm/sec FINE",
		"R[1]=R[2]+R[2]",
		"! R[77] in a comment",
	)
	tables := Aggregate([]*tp.Program{p})

	di, ok := tables.Signal(tp.SignalDI, 4)
	require.True(t, ok)
	require.Equal(t, 0, di.Usage)
	require.Equal(t, 1, di.References)
	require.Equal(t, "part present", di.Name())

	do, ok := tables.Signal(tp.SignalDO, 101)
	require.True(t, ok)
	require.Equal(t, 2, do.Usage)
	require.Equal(t, []string{"Open hand", "open gripper"}, do.Names)

	pr, ok := tables.PositionRegister(5)
	require.True(t, ok)
	require.Equal(t, 1, pr.Usage)
	require.Equal(t, 2, pr.References)

	r2, ok := tables.Register(2)
	require.True(t, ok)
	require.Equal(t, 0, r2.Usage)
	require.Equal(t, 2, r2.References)

	_, ok = tables.Register(77)
	require.False(t, ok, "comments carry no references")

	variants := tables.Variants()
	require.Len(t, variants, 1)
	require.Equal(t, "DO[101]", variants[0].Key.String())
}

func TestAggregateOrderIndependent(t *testing.T) {
	progs := []*tp.Program{
		assemble(t, "A_1PA005", "R[1:count]=R[1]+1", "DO[3]=ON", "WAIT DI[2:ready]=ON"),
		assemble(t, "KER1_005", "R[1:teller]=0", "DO[3:lamp]=OFF"),
		assemble(t, "TEKST", "R[5]=R[1]", "GO[1:code]=R[5]"),
		assemble(t, "BUF_005", "DI[2]=ON", "R[1]=2"),
	}
	want := Aggregate(progs)

	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 20; i++ {
		shuffled := append([]*tp.Program(nil), progs...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got := Aggregate(shuffled)
		if diff := cmp.Diff(want.Registers.Symbols(), got.Registers.Symbols()); diff != "" {
			t.Fatalf("registers differ after shuffle (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(want.Signals.Symbols(), got.Signals.Symbols()); diff != "" {
			t.Fatalf("signals differ after shuffle (-want +got):\n%s", diff)
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	tables := Aggregate(nil)
	require.Equal(t, 0, tables.Registers.Len())
	require.Empty(t, tables.Variants())
}
