// Package testutil builds .LS program text for tests.
package testutil

import (
	"fmt"
	"strings"
)

// LS describes a program file. Zero fields get controller-like defaults.
type LS struct {
	Name      string
	Comment   string
	Attrs     []string // raw /ATTR lines, replacing the defaults when set
	Lines     []string // statement bodies without step numbers or ';'
	Positions []string // raw /POS body lines
	NoEnd     bool     // omit the /END terminator
}

// Program returns an LS with the given name and statements.
func Program(name string, lines ...string) *LS {
	return &LS{Name: name, Lines: lines}
}

// WithPositions appends raw /POS body lines.
func (l *LS) WithPositions(lines ...string) *LS {
	l.Positions = append(l.Positions, lines...)
	return l
}

// Pos appends a cartesian position P[id] with the given comment.
func (l *LS) Pos(id int, comment string, x, y, z float64) *LS {
	header := fmt.Sprintf("P[%d]{", id)
	if comment != "" {
		header = fmt.Sprintf("P[%d:%q]{", id, comment)
	}
	return l.WithPositions(
		header,
		"   GP1:",
		"\tUF : 0, UT : 1,\t\tCONFIG : 'N U T, 0, 0, 0',",
		fmt.Sprintf("\tX = %10.3f  mm,\tY = %10.3f  mm,\tZ = %10.3f  mm,", x, y, z),
		"\tW =   -180.000 deg,\tP =      0.000 deg,\tR =      0.000 deg",
		"};",
	)
}

func (l *LS) attrs() []string {
	if l.Attrs != nil {
		return l.Attrs
	}
	return []string{
		"OWNER\t\t= MNEDITOR;",
		fmt.Sprintf("COMMENT\t\t= %q;", l.Comment),
		"PROG_SIZE\t= 1024;",
		"CREATE\t\t= DATE 21-03-04  TIME 08:15:00;",
		"MODIFIED\t= DATE 22-11-30  TIME 16:05:59;",
		"FILE_NAME\t= ;",
		"VERSION\t\t= 0;",
		fmt.Sprintf("LINE_COUNT\t= %d;", len(l.Lines)),
		"MEMORY_SIZE\t= 1400;",
		"PROTECT\t\t= READ_WRITE;",
		"TCD:  STACK_SIZE\t= 0,",
		"      TASK_PRIORITY\t= 50,",
		"      TIME_SLICE\t= 0,",
		"      BUSY_LAMP_OFF\t= 0,",
		"      ABORT_REQUEST\t= 0,",
		"      PAUSE_REQUEST\t= 0;",
		"DEFAULT_GROUP\t= 1,*,*,*,*;",
		"CONTROL_CODE\t= 00000000 00000000;",
	}
}

// FirstLine returns the file line of the first statement.
func (l *LS) FirstLine() int {
	return 4 + len(l.attrs())
}

// Line returns the file line of the n-th statement, counting from 1.
// Statements must be single-line.
func (l *LS) Line(n int) int {
	return l.FirstLine() + n - 1
}

// String renders the program file.
func (l *LS) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "/PROG  %s\n", l.Name)
	b.WriteString("/ATTR\n")
	for _, a := range l.attrs() {
		b.WriteString(a)
		b.WriteByte('\n')
	}
	b.WriteString("/MN\n")
	for i, s := range l.Lines {
		fmt.Fprintf(&b, "%4d:  %s ;\n", i+1, s)
	}
	b.WriteString("/POS\n")
	for _, p := range l.Positions {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	if !l.NoEnd {
		b.WriteString("/END\n")
	}
	return b.String()
}

// Bytes renders the program file.
func (l *LS) Bytes() []byte {
	return []byte(l.String())
}
