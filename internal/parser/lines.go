package parser

import (
	"strconv"
	"strings"
)

// Statement is one logical statement of an instruction block, possibly
// joined from several physical lines.
type Statement struct {
	Line int    // file line of the first physical line
	Step int    // "NN:" prefix value, 0 if absent
	Text string // joined text, prefix and ';' terminator removed
}

// Statements groups the physical lines of seg into logical statements.
// A statement ends at a line whose text ends in ';'. Lines starting with
// ':' continue the pending statement, as does any line following one that
// ends in a continuation token such as ',' or AND. Every other line starts
// a new statement, so a block without ';' terminators yields one statement
// per line. Blank lines are not statements.
func Statements(seg string, firstLine int) []Statement {
	var out []Statement
	var cur *Statement
	var parts []string

	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = strings.Join(parts, " ")
		out = append(out, *cur)
		cur = nil
		parts = parts[:0]
	}

	for i, raw := range strings.Split(seg, "\n") {
		line := strings.TrimSpace(strings.TrimRight(raw, "\r"))
		if line == "" {
			continue
		}

		step, rest, stepped := cutStep(line)
		switch {
		case stepped:
			flush()
			cur = &Statement{Line: firstLine + i, Step: step}
			line = rest
		case strings.HasPrefix(line, ":"):
			line = strings.TrimSpace(line[1:])
			if cur == nil {
				cur = &Statement{Line: firstLine + i}
			}
		case cur != nil && (len(parts) == 0 || continues(parts[len(parts)-1])):
		default:
			flush()
			cur = &Statement{Line: firstLine + i}
		}

		done := false
		if t, ok := strings.CutSuffix(line, ";"); ok {
			line = strings.TrimSpace(t)
			done = true
		}
		if line != "" {
			parts = append(parts, line)
		}
		if done {
			flush()
		}
	}
	flush()
	return out
}

// continues reports whether text leaves its statement open for the next
// physical line.
func continues(text string) bool {
	if strings.HasSuffix(text, ",") || strings.HasSuffix(text, "(") || strings.HasSuffix(text, "=") {
		return true
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(fields[len(fields)-1]) {
	case "AND", "OR":
		return true
	}
	return false
}

// cutStep strips a leading "NN:" statement number.
func cutStep(line string) (int, string, bool) {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, line, false
	}
	j := i
	for j < len(line) && (line[j] == ' ' || line[j] == '\t') {
		j++
	}
	if j >= len(line) || line[j] != ':' {
		return 0, line, false
	}
	n, err := strconv.Atoi(line[:i])
	if err != nil {
		return 0, line, false
	}
	return n, strings.TrimSpace(line[j+1:]), true
}
