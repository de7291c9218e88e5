package parser

import (
	"testing"
	"time"

	"github.com/gotp/gotp/internal/types"
)

const attrSegment = `OWNER		= MNEDITOR;
COMMENT		= "IML 5 cavity";
PROG_SIZE	= 4128;
CREATE		= DATE 19-03-12  TIME 10:22:04;
MODIFIED	= DATE 21-11-30  TIME 16:05:59;
FILE_NAME	= ;
VERSION		= 0;
LINE_COUNT	= 87;
MEMORY_SIZE	= 4680;
PROTECT		= READ_WRITE;
TCD:  STACK_SIZE	= 0,
      TASK_PRIORITY	= 50,
      TIME_SLICE	= 0,
      BUSY_LAMP_OFF	= 0,
      ABORT_REQUEST	= 0,
      PAUSE_REQUEST	= 0;
DEFAULT_GROUP	= 1,*,*,*,*;
CONTROL_CODE	= 00000000 00000000;
`

func TestParseAttributes(t *testing.T) {
	a, diags := ParseAttributes(attrSegment, 2)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}

	if a.Owner != "MNEDITOR" {
		t.Errorf("Owner = %q", a.Owner)
	}
	if a.Comment != "IML 5 cavity" {
		t.Errorf("Comment = %q", a.Comment)
	}
	if a.Size != 4128 || a.LineCount != 87 || a.MemorySize != 4680 {
		t.Errorf("Size/LineCount/MemorySize = %d/%d/%d", a.Size, a.LineCount, a.MemorySize)
	}
	if a.Protect != "READ_WRITE" {
		t.Errorf("Protect = %q", a.Protect)
	}

	wantCreated := time.Date(2019, 3, 12, 10, 22, 4, 0, time.UTC)
	if !a.Created.Equal(wantCreated) {
		t.Errorf("Created = %v, want %v", a.Created, wantCreated)
	}
	wantModified := time.Date(2021, 11, 30, 16, 5, 59, 0, time.UTC)
	if !a.Modified.Equal(wantModified) {
		t.Errorf("Modified = %v, want %v", a.Modified, wantModified)
	}

	if v, ok := a.Get("TASK_PRIORITY"); !ok || v != "50" {
		t.Errorf("TASK_PRIORITY = %q, %v", v, ok)
	}
	if v, ok := a.Get("DEFAULT_GROUP"); !ok || v != "1,*,*,*,*" {
		t.Errorf("DEFAULT_GROUP = %q, %v", v, ok)
	}
	if v, ok := a.Get("FILE_NAME"); !ok || v != "" {
		t.Errorf("FILE_NAME = %q, %v", v, ok)
	}
	if a.Fields[0].Line != 2 {
		t.Errorf("first field line = %d, want 2", a.Fields[0].Line)
	}
}

func TestParseAttributesMalformed(t *testing.T) {
	seg := "PROG_SIZE = lots;\nCREATE = yesterday;\nnonsense\n"
	a, diags := ParseAttributes(seg, 10)
	if a.Size != 0 || !a.Created.IsZero() {
		t.Errorf("bad values should leave zero fields: %+v", a)
	}
	if v, _ := a.Get("PROG_SIZE"); v != "lots" {
		t.Errorf("raw PROG_SIZE = %q, want lots", v)
	}
	if len(diags) != 3 {
		t.Fatalf("got %d diagnostics, want 3: %+v", len(diags), diags)
	}
	for i, d := range diags {
		if d.Code != types.DiagUnparsedAttribute || d.Line != 10+i {
			t.Errorf("diag %d = %+v", i, d)
		}
	}
}
