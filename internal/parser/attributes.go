package parser

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gotp/gotp/internal/types"
	"github.com/gotp/gotp/tp"
)

// timestampLayout is the Go layout of "DATE 19-03-12  TIME 10:22:04"
// after the keywords are removed.
const timestampLayout = "06-01-02 15:04:05"

var timestampPattern = regexp.MustCompile(`^DATE\s+(\d{2}-\d{2}-\d{2})\s+TIME\s+(\d{2}:\d{2}:\d{2})$`)

// Attributes parses an /ATTR segment body. Lines have the form
// "KEY = VALUE;" or, inside the TCD sub-block, "KEY = VALUE,".
func (p *Parser) Attributes(seg string, firstLine int) tp.Attributes {
	var a tp.Attributes
	for i, raw := range strings.Split(seg, "\n") {
		lineNo := firstLine + i
		line := strings.TrimSpace(strings.TrimRight(raw, "\r"))
		if line == "" {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "TCD:"))
		if line == "" {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			p.emit(types.DiagUnparsedAttribute, tp.SeverityMinor, lineNo,
				"attribute line without '=': %q", line)
			continue
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if v, ok := strings.CutSuffix(value, ";"); ok {
			value = strings.TrimSpace(v)
		} else if v, ok := strings.CutSuffix(value, ","); ok {
			value = strings.TrimSpace(v)
		}

		a.Fields = append(a.Fields, tp.AttributeField{Key: key, Value: value, Line: lineNo})
		p.setAttribute(&a, key, value, lineNo)
	}

	if p.Enabled(slog.LevelDebug) {
		p.Log(slog.LevelDebug, "parsed attributes",
			slog.Int("fields", len(a.Fields)),
			slog.String("owner", a.Owner))
	}
	return a
}

func (p *Parser) setAttribute(a *tp.Attributes, key, value string, line int) {
	switch key {
	case "OWNER":
		a.Owner = value
	case "COMMENT":
		a.Comment = unquote(value)
	case "PROTECT":
		a.Protect = value
	case "PROG_SIZE":
		a.Size = p.intAttribute(key, value, line)
	case "LINE_COUNT":
		a.LineCount = p.intAttribute(key, value, line)
	case "MEMORY_SIZE":
		a.MemorySize = p.intAttribute(key, value, line)
	case "CREATE":
		a.Created = p.timeAttribute(key, value, line)
	case "MODIFIED":
		a.Modified = p.timeAttribute(key, value, line)
	}
}

func (p *Parser) intAttribute(key, value string, line int) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		p.emit(types.DiagUnparsedAttribute, tp.SeverityMinor, line,
			"%s value %q is not an integer", key, value)
		return 0
	}
	return n
}

func (p *Parser) timeAttribute(key, value string, line int) time.Time {
	m := timestampPattern.FindStringSubmatch(value)
	if m == nil {
		p.emit(types.DiagUnparsedAttribute, tp.SeverityMinor, line,
			"%s value %q is not a DATE/TIME stamp", key, value)
		return time.Time{}
	}
	t, err := time.Parse(timestampLayout, m[1]+" "+m[2])
	if err != nil {
		p.emit(types.DiagUnparsedAttribute, tp.SeverityMinor, line,
			"%s value %q: %v", key, value, err)
		return time.Time{}
	}
	return t
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
