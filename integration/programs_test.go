package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gotp/gotp/tp"
)

func TestProgramClassification(t *testing.T) {
	a := loadCorpus(t)

	tests := []struct {
		name    string
		typ     tp.ProgramType
		role    string
		product string
	}{
		{"A_1PA005", tp.ProgramMain, "main", ""},
		{"AFLG_005", tp.ProgramSubprogram, "placement", "005"},
		{"ERR_RESET", tp.ProgramSystem, "error", ""},
		{"ERR_RETRY", tp.ProgramSystem, "error", ""},
		{"HOMING", tp.ProgramUtility, "homing", ""},
		{"KER1_005", tp.ProgramSubprogram, "turning-unit", "005"},
		{"PRINTEN_005", tp.ProgramSubprogram, "printing", "005"},
		{"RUST", tp.ProgramUtility, "rest", ""},
		{"TEKST", tp.ProgramUtility, "message", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := getProgram(t, a, tt.name)
			require.Equal(t, tt.typ, p.Type())
			require.Equal(t, tt.role, p.Role())
			require.Equal(t, tt.product, p.ProductCode())
			require.False(t, p.IML())
		})
	}

	require.Len(t, a.ProgramsOfType(tp.ProgramSubprogram), 3)
}

func TestProgramAttributes(t *testing.T) {
	a := loadCorpus(t)
	p := getProgram(t, a, "A_1PA005")

	require.Equal(t, "Hoofdprogramma 005", p.Comment())
	require.Equal(t, "MNEDITOR", p.Owner())
	require.Equal(t, 1024, p.Size())
	require.Equal(t, 31, p.LineCount())
	require.Equal(t, 31, p.InstructionCount())
	require.Equal(t, time.Date(2021, 3, 4, 8, 15, 0, 0, time.UTC), p.Created())
	require.Equal(t, time.Date(2022, 11, 30, 16, 5, 59, 0, time.UTC), p.Modified())

	st := p.Stats()
	require.Equal(t, 7, st.Labels)
	require.Equal(t, 7, st.Calls)
	require.Equal(t, 2, st.ErrorLabels)
	require.Equal(t, 2, st.Positions)
}

func TestProgramPositions(t *testing.T) {
	a := loadCorpus(t)
	p := getProgram(t, a, "A_1PA005")

	pos, ok := p.Position(2)
	require.True(t, ok)
	require.Equal(t, "boven vorm", pos.Comment)
	require.Equal(t, tp.RepresentationCartesian, pos.Representation())
	y, ok := pos.Field("Y")
	require.True(t, ok)
	require.InDelta(t, -150.5, y.Value, 1e-9)
	require.Equal(t, "mm", y.Unit)
	require.Len(t, pos.Values(), 6)
	require.False(t, pos.Malformed())

	require.Equal(t, 1, pos.Groups[0].UserFrame)
	require.Equal(t, 2, pos.Groups[0].ToolFrame)
}

func TestProgramInstructions(t *testing.T) {
	a := loadCorpus(t)
	p := getProgram(t, a, "HOMING")

	ins, ok := p.Instruction(1)
	require.True(t, ok)
	require.Equal(t, tp.KindJump, ins.Kind())
	j := ins.Payload.(*tp.Jump)
	require.Equal(t, 1010, j.Label)
	require.Equal(t, "R[200:zone]=1", j.Condition)
	require.Equal(t, "IF R[200:zone]=1,JMP LBL[1010] ! in de vorm", ins.Raw)

	kinds := make(map[tp.Kind]int)
	for _, in := range p.All() {
		kinds[in.Kind()]++
	}
	require.Equal(t, 4, kinds[tp.KindLabelDef])
	require.Equal(t, 4, kinds[tp.KindJump])
	require.Equal(t, 2, kinds[tp.KindMotion])
	require.Equal(t, 1, kinds[tp.KindCall])
}
