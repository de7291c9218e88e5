package integration

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gotp/gotp/internal/flow"
	"github.com/gotp/gotp/tp"
)

func TestFlowMainProgram(t *testing.T) {
	a := loadCorpus(t)
	g := a.Flow("A_1PA005")
	require.NotNil(t, g)

	var labels []int
	classes := make(map[int]tp.LabelClass)
	for _, n := range g.Nodes {
		labels = append(labels, n.Label)
		classes[n.Label] = n.Class
	}
	require.Equal(t, []int{0, 10, 20, 30, 500, 510, 1000, 1010}, labels)
	require.Equal(t, map[int]tp.LabelClass{
		0:    tp.LabelEntry,
		10:   tp.LabelCycle,
		20:   tp.LabelCycle,
		30:   tp.LabelCycle,
		500:  tp.LabelError,
		510:  tp.LabelError,
		1000: tp.LabelHoming,
		1010: tp.LabelHoming,
	}, classes)

	var unreachable [][2]int
	for _, e := range g.Edges {
		if e.Unreachable {
			unreachable = append(unreachable, [2]int{e.From, e.To})
		}
	}
	require.Equal(t, [][2]int{{30, 500}, {500, 510}, {510, 1000}, {1000, 1010}}, unreachable)

	var timeout *tp.FlowEdge
	for _, e := range g.Out(10) {
		if e.Condition == "TIMEOUT" {
			timeout = &e
		}
	}
	require.NotNil(t, timeout)
	require.Equal(t, 510, timeout.To)

	// Entry fallthrough, return from CALL HOMING, the cycle loop, error
	// recovery and the homing return.
	require.Len(t, g.In(10), 5)
}

func TestFlowStates(t *testing.T) {
	a := loadCorpus(t)
	g := a.Flow("A_1PA005")

	names := make(map[int]string)
	for st := range flow.States(g, map[int]string{10: "IDLE", 20: "CYCLE_START", 30: "TAKE_PRODUCT"}) {
		names[st.Label] = st.Name
	}
	require.Equal(t, map[int]string{
		10:   "IDLE",
		20:   "CYCLE_START",
		30:   "TAKE_PRODUCT",
		500:  "grijper fout",
		510:  "matrijs timeout",
		1000: "homing",
		1010: "LBL[1010]",
	}, names)
}

func TestFlowErrorHandlers(t *testing.T) {
	a := loadCorpus(t)
	hs := a.ErrorHandlers("A_1PA005")
	require.Len(t, hs, 2)

	var kinds []tp.ActionKind
	for _, act := range hs[0].Actions {
		kinds = append(kinds, act.Kind)
	}
	require.Equal(t, []tp.ActionKind{
		tp.ActionOpenGripper,
		tp.ActionMessage,
		tp.ActionSafePosition,
		tp.ActionOperatorWait,
	}, kinds)

	require.Equal(t, 510, hs[1].Label)
	require.True(t, hs[1].Has(tp.ActionMessage))
	require.True(t, hs[1].Has(tp.ActionAbort))
}

func TestFlowHoming(t *testing.T) {
	a := loadCorpus(t)

	h, ok := a.Homing("A_1PA005")
	require.True(t, ok)
	require.Equal(t, []int{1000, 1010}, h.Labels)
	require.Equal(t, []string{"IF R[200:zone]=1,JMP LBL[1010] ! robot in vorm"}, h.Checks)
	require.Equal(t, []string{"vorm"}, h.Zones)

	h, ok = a.Homing("HOMING")
	require.True(t, ok)
	require.Equal(t, []int{1000, 1010, 1020, 1030}, h.Labels)
	require.Len(t, h.Checks, 2)
	require.Equal(t, []string{"vorm", "keerunit"}, h.Zones)

	_, ok = a.Homing("KER1_005")
	require.False(t, ok)
}

func TestFlowDOT(t *testing.T) {
	a := loadCorpus(t)
	for _, name := range a.FlowNames() {
		if out := flow.DOT(a.Flow(name)); out == "" {
			t.Errorf("DOT(%s) is empty", name)
		}
	}
}
