package parser

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/gotp/gotp/internal/types"
	"github.com/gotp/gotp/tp"
)

// positionLexer tokenizes position value lines such as
//
//	UF : 0, UT : 1,		CONFIG : 'N U T, 0, 0, 0',
//	X =   100.000  mm,	Y =  -200.000  mm,
//
// Rule order is priority. Garbage catches non-numeric values like
// "********" so the field can keep its raw text.
var positionLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Config", Pattern: `'[^']*'`},
	{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[:=,;{}]`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Garbage", Pattern: `[^\s:=,;{}]+`},
})

var (
	tokConfig     = positionLexer.Symbols()["Config"]
	tokNumber     = positionLexer.Symbols()["Number"]
	tokIdent      = positionLexer.Symbols()["Ident"]
	tokPunct      = positionLexer.Symbols()["Punct"]
	tokWhitespace = positionLexer.Symbols()["Whitespace"]
)

var (
	positionHeader = regexp.MustCompile(`^P\[\s*(\d+)\s*(?::\s*"?([^"\]]*)"?\s*)?\]\s*\{?\s*$`)
	groupHeader    = regexp.MustCompile(`^GP(\d+)\s*:\s*(.*)$`)
)

// Positions parses a /POS segment body into positions keyed by id.
// Duplicate ids keep the first definition.
func (p *Parser) Positions(seg string, firstLine int) map[int]*tp.Position {
	out := make(map[int]*tp.Position)
	var cur *tp.Position
	var group *tp.PositionGroup
	skipping := false

	closePosition := func() {
		cur = nil
		group = nil
		skipping = false
	}

	for i, raw := range strings.Split(seg, "\n") {
		lineNo := firstLine + i
		line := strings.TrimSpace(strings.TrimRight(raw, "\r"))
		if line == "" {
			continue
		}

		if m := positionHeader.FindStringSubmatch(line); m != nil {
			closePosition()
			id, _ := strconv.Atoi(m[1])
			pos := &tp.Position{ID: id, Comment: strings.TrimSpace(m[2]), Line: lineNo}
			if prev, dup := out[id]; dup {
				p.emit(types.DiagDuplicatePosition, tp.SeverityError, lineNo,
					"position P[%d] redefined (first defined at line %d)", id, prev.Line)
				skipping = true
			} else {
				out[id] = pos
			}
			cur = pos
			continue
		}

		if line == "};" || line == "}" {
			closePosition()
			continue
		}

		if cur == nil {
			p.emit(types.DiagUnparsedPosition, tp.SeverityMinor, lineNo,
				"position data outside any P[n] block: %q", line)
			continue
		}
		if skipping {
			continue
		}

		if m := groupHeader.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[1])
			cur.Groups = append(cur.Groups, tp.PositionGroup{Group: n, UserFrame: -1, ToolFrame: -1})
			group = &cur.Groups[len(cur.Groups)-1]
			line = strings.TrimSpace(m[2])
			if line == "" {
				continue
			}
		}
		if group == nil {
			cur.Groups = append(cur.Groups, tp.PositionGroup{Group: 1, UserFrame: -1, ToolFrame: -1})
			group = &cur.Groups[len(cur.Groups)-1]
		}

		p.parseValueLine(cur, group, line, lineNo)
	}

	p.Log(slog.LevelDebug, "parsed positions", slog.Int("count", len(out)))
	return out
}

// parseValueLine reads "NAME sep VALUE [unit]" fields separated by commas.
func (p *Parser) parseValueLine(pos *tp.Position, g *tp.PositionGroup, line string, lineNo int) {
	lex, err := positionLexer.LexString("", line)
	if err != nil {
		p.emit(types.DiagUnparsedPosition, tp.SeverityMinor, lineNo,
			"P[%d]: cannot tokenize %q", pos.ID, line)
		return
	}
	all, err := lexer.ConsumeAll(lex)
	if err != nil {
		p.emit(types.DiagUnparsedPosition, tp.SeverityMinor, lineNo,
			"P[%d]: cannot tokenize %q: %v", pos.ID, line, err)
		return
	}

	var toks []lexer.Token
	for _, t := range all {
		if t.EOF() || t.Type == tokWhitespace {
			continue
		}
		toks = append(toks, t)
	}

	for len(toks) > 0 {
		// Skip stray separators.
		if toks[0].Type == tokPunct {
			toks = toks[1:]
			continue
		}

		name := toks[0]
		if name.Type != tokIdent || len(toks) < 2 || toks[1].Type != tokPunct ||
			(toks[1].Value != "=" && toks[1].Value != ":") {
			p.emit(types.DiagUnparsedPosition, tp.SeverityMinor, lineNo,
				"P[%d]: unexpected %q in %q", pos.ID, name.Value, line)
			return
		}
		toks = toks[2:]

		end := 0
		for end < len(toks) && !(toks[end].Type == tokPunct && toks[end].Value == ",") {
			end++
		}
		value := toks[:end]
		if end < len(toks) {
			toks = toks[end+1:]
		} else {
			toks = nil
		}

		p.assignField(pos, g, name.Value, value, lineNo)
	}
}

func (p *Parser) assignField(pos *tp.Position, g *tp.PositionGroup, name string, value []lexer.Token, lineNo int) {
	raw := joinTokens(value)
	switch strings.ToUpper(name) {
	case "UF", "UT":
		n, err := strconv.Atoi(raw)
		if err != nil {
			p.emit(types.DiagUnparsedPosition, tp.SeverityMinor, lineNo,
				"P[%d]: %s frame %q is not a number", pos.ID, name, raw)
			return
		}
		if strings.EqualFold(name, "UF") {
			g.UserFrame = n
		} else {
			g.ToolFrame = n
		}
		return
	case "CONFIG":
		if len(value) == 1 && value[0].Type == tokConfig {
			g.Config = strings.Trim(value[0].Value, "'")
		} else {
			g.Config = raw
		}
		return
	}

	// A trailing identifier is the unit, whether or not the value parses.
	f := tp.PositionField{Name: name}
	if n := len(value); n >= 2 && value[n-1].Type == tokIdent {
		f.Unit = value[n-1].Value
		value = value[:n-1]
	}
	f.Raw = joinTokens(value)
	if len(value) == 1 && value[0].Type == tokNumber {
		if v, err := strconv.ParseFloat(value[0].Value, 64); err == nil {
			f.Value = v
			f.Valid = true
		}
	}
	if !f.Valid {
		p.emit(types.DiagUnparsedPosition, tp.SeverityMinor, lineNo,
			"P[%d]: %s value %q is not numeric", pos.ID, name, f.Raw)
	}
	g.Fields = append(g.Fields, f)
}

func joinTokens(toks []lexer.Token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.Value
	}
	return strings.Join(parts, " ")
}
