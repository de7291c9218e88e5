// Package section splits the text of an .LS program file into its
// marker-delimited segments.
package section

import (
	"bytes"
	"errors"
	"strings"
)

// ErrEmptyFile is returned for zero-length input. The program assembler
// also reports it for files holding only whitespace.
var ErrEmptyFile = errors.New("empty program file")

// Marker identifies a segment kind.
type Marker string

const (
	MarkerProg Marker = "/PROG"
	MarkerAttr Marker = "/ATTR"
	MarkerAppl Marker = "/APPL"
	MarkerMN   Marker = "/MN"
	MarkerPos  Marker = "/POS"
	MarkerEnd  Marker = "/END"
)

// Required lists the markers every well-formed program carries, in order.
var Required = []Marker{MarkerProg, MarkerAttr, MarkerMN, MarkerPos, MarkerEnd}

var markers = []Marker{MarkerProg, MarkerAttr, MarkerAppl, MarkerMN, MarkerPos, MarkerEnd}

// Segment is the raw text of one marker-delimited block.
type Segment struct {
	Marker Marker
	Line   int    // 1-based line of the marker
	Text   string // marker line through the line before the next marker
}

// Header returns the marker line without its line terminator.
func (s Segment) Header() string {
	h, _, _ := strings.Cut(s.Text, "\n")
	return strings.TrimRight(h, "\r")
}

// Body returns the text after the marker line.
func (s Segment) Body() string {
	_, body, _ := strings.Cut(s.Text, "\n")
	return body
}

// BodyLine returns the 1-based file line of the first body line.
func (s Segment) BodyLine() int {
	return s.Line + 1
}

// File is a split program file.
type File struct {
	Preamble string    // text before the first marker
	Segments []Segment // in file order
	Trailing string    // text after the /END segment's marker line
}

// Split cuts text at marker lines. Joining the result reproduces text
// byte-for-byte. Only zero-length input fails; text without any marker,
// whitespace included, comes back as all preamble.
func Split(text []byte) (*File, error) {
	if len(text) == 0 {
		return nil, ErrEmptyFile
	}

	src := string(text)
	f := &File{}
	segStart := -1 // offset of the current segment's marker line
	line := 0

	for off := 0; off < len(src); {
		line++
		next := len(src)
		if i := strings.IndexByte(src[off:], '\n'); i >= 0 {
			next = off + i + 1
		}

		if m, ok := markerOf(src[off:next]); ok {
			if segStart < 0 {
				f.Preamble = src[:off]
			} else {
				f.Segments[len(f.Segments)-1].Text = src[segStart:off]
			}
			f.Segments = append(f.Segments, Segment{Marker: m, Line: line})
			segStart = off
			if m == MarkerEnd {
				f.Segments[len(f.Segments)-1].Text = src[off:next]
				f.Trailing = src[next:]
				return f, nil
			}
		}
		off = next
	}

	if segStart < 0 {
		f.Preamble = src
	} else {
		f.Segments[len(f.Segments)-1].Text = src[segStart:]
	}
	return f, nil
}

func markerOf(line string) (Marker, bool) {
	t := strings.TrimLeft(line, " \t")
	for _, m := range markers {
		if !strings.HasPrefix(t, string(m)) {
			continue
		}
		rest := t[len(m):]
		if rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\r' || rest[0] == '\n' {
			return m, true
		}
	}
	return "", false
}

// Join reassembles the original text.
func (f *File) Join() []byte {
	var b bytes.Buffer
	b.WriteString(f.Preamble)
	for _, seg := range f.Segments {
		b.WriteString(seg.Text)
	}
	b.WriteString(f.Trailing)
	return b.Bytes()
}

// Segment returns the first segment with marker m.
func (f *File) Segment(m Marker) (Segment, bool) {
	for _, seg := range f.Segments {
		if seg.Marker == m {
			return seg, true
		}
	}
	return Segment{}, false
}

// Missing returns the required markers that do not occur.
func (f *File) Missing() []Marker {
	var out []Marker
	for _, m := range Required {
		if _, ok := f.Segment(m); !ok {
			out = append(out, m)
		}
	}
	return out
}

// Duplicates returns markers that occur more than once, with the line
// of each repeat.
func (f *File) Duplicates() []Segment {
	seen := make(map[Marker]bool)
	var out []Segment
	for _, seg := range f.Segments {
		if seen[seg.Marker] {
			out = append(out, seg)
		}
		seen[seg.Marker] = true
	}
	return out
}

// Name returns the program name from the /PROG line, or "".
func (f *File) Name() string {
	seg, ok := f.Segment(MarkerProg)
	if !ok {
		return ""
	}
	fields := strings.Fields(strings.TrimSpace(seg.Header())[len(MarkerProg):])
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Subtype returns the words following the name on the /PROG line,
// such as "Macro".
func (f *File) Subtype() string {
	seg, ok := f.Segment(MarkerProg)
	if !ok {
		return ""
	}
	fields := strings.Fields(strings.TrimSpace(seg.Header())[len(MarkerProg):])
	if len(fields) < 2 {
		return ""
	}
	return strings.Join(fields[1:], " ")
}
