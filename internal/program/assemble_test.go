package program

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gotp/gotp/internal/config"
	"github.com/gotp/gotp/internal/section"
	"github.com/gotp/gotp/internal/testutil"
	"github.com/gotp/gotp/internal/types"
	"github.com/gotp/gotp/tp"
)

func codes(p *tp.Program) []string {
	var out []string
	for _, d := range p.Diagnostics() {
		out = append(out, d.Code)
	}
	return out
}

func TestAssembleMainProgram(t *testing.T) {
	ls := testutil.Program("A_1PA005",
		"LBL[10:wait mold]",
		"CALL KER1_384",
		"LBL[500:grip error]",
		"CALL TEKST(500)",
		"LBL[1000:homing]",
	).Pos(1, "home", 100, 200, 300)
	ls.Comment = "five cavity"

	p, err := Assemble("A_1PA005.LS", ls.Bytes(), config.Default(), nil)
	require.NoError(t, err)

	require.Equal(t, "A_1PA005", p.Name())
	require.Equal(t, "A_1PA005.LS", p.File())
	require.Equal(t, tp.ProgramMain, p.Type())
	require.Equal(t, "main", p.Role())
	require.Equal(t, "", p.ProductCode())
	require.False(t, p.IML())
	require.Equal(t, "five cavity", p.Comment())
	require.Equal(t, "MNEDITOR", p.Owner())
	require.Equal(t, 5, p.LineCount())
	require.Equal(t, time.Date(2021, 3, 4, 8, 15, 0, 0, time.UTC), p.Created())

	require.Equal(t, 5, p.InstructionCount())
	require.Equal(t, []int{10, 500, 1000}, p.Labels())
	idx, ok := p.Label(500)
	require.True(t, ok)
	require.Equal(t, 2, idx)
	require.Equal(t, "grip error", p.LabelName(500))

	ins, _ := p.Instruction(1)
	require.Equal(t, ls.Line(2), ins.Line)
	require.Equal(t, tp.KindCall, ins.Kind())

	pos, ok := p.Position(1)
	require.True(t, ok)
	require.Equal(t, "home", pos.Comment)

	st := p.Stats()
	require.Equal(t, 3, st.Labels)
	require.Equal(t, 2, st.Calls)
	require.Equal(t, 1, st.ErrorLabels)
	require.Equal(t, 1, st.Positions)

	require.Empty(t, p.Diagnostics())
}

func TestAssembleClassification(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		typ     tp.ProgramType
		product string
		iml     bool
	}{
		{"KER1_384", nil, tp.ProgramSubprogram, "384", false},
		{"AFLG_1536CC", nil, tp.ProgramSubprogram, "1536CC", false},
		{"A_1PA017", []string{"CALL FOLIE"}, tp.ProgramMain, "", true},
		{"A_1PA017", []string{"! IML cell", "CALL TEKST"}, tp.ProgramMain, "", false},
		{"A_1PA140_IML", nil, tp.ProgramMain, "", true},
		{"TEKST", []string{"CALL FOLIE"}, tp.ProgramUtility, "", false},
		{"MYSTERY", nil, tp.ProgramUnknown, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Assemble(tt.name+".LS", testutil.Program(tt.name, tt.lines...).Bytes(), nil, nil)
			require.NoError(t, err)
			require.Equal(t, tt.typ, p.Type())
			require.Equal(t, tt.product, p.ProductCode())
			require.Equal(t, tt.iml, p.IML())
		})
	}
}

func TestAssembleMissingTerminator(t *testing.T) {
	ls := testutil.Program("KER2_096", "LBL[10]", "END")
	ls.NoEnd = true

	p, err := Assemble("KER2_096.LS", ls.Bytes(), nil, nil)
	require.NoError(t, err)
	require.Equal(t, 2, p.InstructionCount())
	require.True(t, p.HasErrors())

	diags := p.Diagnostics()
	require.Len(t, diags, 1)
	require.Equal(t, types.DiagMalformedProgram, diags[0].Code)
	require.Equal(t, tp.SeverityError, diags[0].Severity)
	require.Contains(t, diags[0].Message, "/END")
	require.Equal(t, "KER2_096", diags[0].Program)
}

func TestAssembleStructureProblems(t *testing.T) {
	text := "garbage\n" +
		"/PROG\n" +
		"/MN\n" +
		"   1:  LBL[10] ;\n" +
		"   2:  LBL[10] ;\n" +
		"/MN\n" +
		"   1:  END ;\n" +
		"/POS\n" +
		"/END\n" +
		"leftover\n"

	p, err := Assemble("dir/broken.ls", []byte(text), nil, nil)
	require.NoError(t, err)
	require.Equal(t, "BROKEN", p.Name())
	require.Equal(t, 2, p.InstructionCount(), "first /MN wins")

	require.ElementsMatch(t, []string{
		types.DiagMissingProgramName,
		types.DiagMalformedProgram, // preamble
		types.DiagMalformedProgram, // missing /ATTR
		types.DiagMalformedProgram, // repeated /MN
		types.DiagMalformedProgram, // trailing
		types.DiagDuplicateLabel,
	}, codes(p))

	for _, d := range p.Diagnostics() {
		if d.Code == types.DiagDuplicateLabel {
			require.Equal(t, 5, d.Line)
		}
	}
	idx, _ := p.Label(10)
	require.Equal(t, 0, idx)
}

func TestAssembleEmptyFile(t *testing.T) {
	for _, text := range []string{"", " \n\t\n"} {
		_, err := Assemble("EMPTY.LS", []byte(text), nil, nil)
		require.Error(t, err)
		require.True(t, errors.Is(err, section.ErrEmptyFile), "text %q", text)
	}

	p, err := Assemble("NOTES.LS", []byte("just notes\n"), nil, nil)
	require.NoError(t, err)
	require.True(t, p.HasErrors())
}

func TestAssembleLineCountMismatch(t *testing.T) {
	ls := testutil.Program("RUST", "END")
	ls.Attrs = []string{"LINE_COUNT = 4;"}
	p, err := Assemble("RUST.LS", ls.Bytes(), nil, nil)
	require.NoError(t, err)
	require.Equal(t, []string{types.DiagLineCountMismatch}, codes(p))
	require.Equal(t, 3, p.Diagnostics()[0].Line)
	require.False(t, p.HasErrors())
}

func TestAssembleParserDiagnosticsAttached(t *testing.T) {
	ls := testutil.Program("BUF_005", "END").WithPositions(
		"P[1]{",
		"   GP1:",
		"\tX = ******** mm",
		"};",
	)
	ls.Attrs = []string{"PROG_SIZE = big;"}
	p, err := Assemble("BUF_005.LS", ls.Bytes(), nil, nil)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{types.DiagUnparsedAttribute, types.DiagUnparsedPosition}, codes(p))
	for _, d := range p.Diagnostics() {
		require.Equal(t, "BUF_005", d.Program)
		require.Equal(t, "BUF_005.LS", d.File)
	}
}

func TestStem(t *testing.T) {
	tests := map[string]string{
		"A_1PA005.LS":      "A_1PA005",
		"/cell/2/tekst.ls": "TEKST",
		"noext":            "NOEXT",
	}
	for in, want := range tests {
		if got := Stem(in); got != want {
			t.Errorf("Stem(%q) = %q, want %q", in, got, want)
		}
	}
}
