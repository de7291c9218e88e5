package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gotp/gotp/internal/types"
	"github.com/gotp/gotp/tp"
)

const posSegment = `P[1:"home"]{
   GP1:
	UF : 0, UT : 1,		CONFIG : 'N U T, 0, 0, 0',
	X =   100.000  mm,	Y =  -200.500  mm,	Z =   300.000  mm,
	W =  -180.000 deg,	P =     0.000 deg,	R =    90.000 deg
};
P[2]{
   GP1:
	UF : 0, UT : 1,
	J1=    10.000 deg,	J2=   -20.000 deg,	J3=    30.000 deg,
	J4=     0.000 deg,	J5=   -90.000 deg,	J6=   ******** deg
};
`

func TestParsePositions(t *testing.T) {
	pos, diags := ParsePositions(posSegment, 100)
	if len(pos) != 2 {
		t.Fatalf("got %d positions, want 2", len(pos))
	}

	home := pos[1]
	if home.Comment != "home" || home.Line != 100 {
		t.Errorf("P[1] comment/line = %q/%d", home.Comment, home.Line)
	}
	if home.Representation() != tp.RepresentationCartesian {
		t.Errorf("P[1] representation = %v", home.Representation())
	}
	if diff := cmp.Diff([]float64{100, -200.5, 300, -180, 0, 90}, home.Values()); diff != "" {
		t.Errorf("P[1] values (-want +got):\n%s", diff)
	}
	g := home.Groups[0]
	if g.Group != 1 || g.UserFrame != 0 || g.ToolFrame != 1 || g.Config != "N U T, 0, 0, 0" {
		t.Errorf("P[1] group = %+v", g)
	}
	if x, _ := home.Field("X"); x.Unit != "mm" || x.Raw != "100.000" {
		t.Errorf("X = %+v, want raw 100.000 in mm", x)
	}

	joint := pos[2]
	if joint.Representation() != tp.RepresentationJoint {
		t.Errorf("P[2] representation = %v", joint.Representation())
	}
	if !joint.Malformed() {
		t.Error("P[2] should be malformed")
	}
	j6, ok := joint.Field("J6")
	if !ok || j6.Valid || j6.Raw != "********" || j6.Unit != "deg" {
		t.Errorf("J6 = %+v", j6)
	}
	if len(joint.Values()) != 5 {
		t.Errorf("P[2] values = %v, want 5 valid", joint.Values())
	}

	if len(diags) != 1 || diags[0].Code != types.DiagUnparsedPosition || diags[0].Line != 110 {
		t.Errorf("diagnostics = %+v, want one unparsed-position at line 110", diags)
	}
}

func TestParsePositionsDuplicate(t *testing.T) {
	seg := "P[1]{\n   GP1:\n\tX = 1.000 mm\n};\nP[1]{\n   GP1:\n\tX = 2.000 mm\n};\n"
	pos, diags := ParsePositions(seg, 1)
	if v := pos[1].Values(); len(v) != 1 || v[0] != 1 {
		t.Errorf("duplicate should keep the first definition, got %v", v)
	}
	if len(diags) != 1 || diags[0].Code != types.DiagDuplicatePosition || diags[0].Line != 5 {
		t.Errorf("diagnostics = %+v", diags)
	}
}

func TestParsePositionsOutsideBlock(t *testing.T) {
	_, diags := ParsePositions("X = 1.000 mm,\n", 7)
	if len(diags) != 1 || diags[0].Line != 7 {
		t.Errorf("diagnostics = %+v", diags)
	}
}

func TestParsePositionsImplicitGroup(t *testing.T) {
	pos, diags := ParsePositions("P[3:\"drop\"]{\n\tX = 5.000 mm, Y = 6.000 mm\n};\n", 1)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics %+v", diags)
	}
	p := pos[3]
	if len(p.Groups) != 1 || p.Groups[0].Group != 1 || p.Groups[0].UserFrame != -1 {
		t.Errorf("groups = %+v", p.Groups)
	}
}

func TestParsePositionsEmpty(t *testing.T) {
	pos, diags := ParsePositions("", 1)
	if len(pos) != 0 || len(diags) != 0 {
		t.Errorf("empty segment gave %v / %v", pos, diags)
	}
}
