package parser

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/gotp/gotp/tp"
)

// matcher recognizes one instruction shape. Matchers are tried in order
// and the first match wins.
type matcher struct {
	name  string
	match func(text string) (tp.Payload, bool)
}

var matchers = []matcher{
	{"comment", matchComment},
	{"label", matchLabel},
	{"jump", matchJump},
	{"call", matchCall},
	{"register", matchRegister},
	{"io", matchIO},
	{"wait", matchWait},
	{"motion", matchMotion},
	{"end", matchEnd},
}

// Instructions parses an /MN segment body. The result has exactly one
// instruction per logical statement.
func (p *Parser) Instructions(seg string, firstLine int) []tp.Instruction {
	stmts := Statements(seg, firstLine)
	out := make([]tp.Instruction, 0, len(stmts))
	other := 0
	for _, st := range stmts {
		ins := parseStatement(st)
		if ins.Kind() == tp.KindOther {
			other++
		}
		if p.TraceEnabled() {
			p.Trace("statement",
				slog.Int("line", st.Line),
				slog.String("kind", ins.Kind().String()),
				slog.String("text", st.Text))
		}
		out = append(out, ins)
	}
	p.Log(slog.LevelDebug, "parsed instructions",
		slog.Int("count", len(out)),
		slog.Int("unrecognized", other))
	return out
}

func parseStatement(st Statement) tp.Instruction {
	ins := tp.Instruction{Line: st.Line, Step: st.Step, Raw: st.Text}
	code := stripInlineComment(st.Text)
	for _, m := range matchers {
		if pl, ok := m.match(code); ok {
			ins.Payload = pl
			break
		}
	}
	if ins.Payload == nil {
		ins.Payload = &tp.Other{}
	}
	if ins.Kind() != tp.KindComment {
		ins.Refs = scanRefs(code)
	}
	return ins
}

// stripInlineComment removes a trailing "! comment" from a statement. A
// '!' inside brackets, parentheses or quotes is kept, and a statement that
// starts with '!' is a comment in its own right.
func stripInlineComment(text string) string {
	depth := 0
	quoted := false
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c == '\'' || c == '"':
			quoted = !quoted
		case quoted:
		case c == '[' || c == '(':
			depth++
		case c == ']' || c == ')':
			depth--
		case c == '!' && depth == 0 && i > 0:
			return strings.TrimSpace(text[:i])
		}
	}
	return text
}

var (
	labelPattern    = regexp.MustCompile(`^LBL\[\s*(\d+)\s*(?::([^\]]*))?\]$`)
	jumpPattern     = regexp.MustCompile(`^(?:(.*?)\s*,\s*)?JMP\s+LBL\[(.+)\]$`)
	callPattern     = regexp.MustCompile(`^(?:(.*?)\s*,\s*)?(CALL|RUN)\s+([A-Za-z0-9_]+)\s*(?:\((.*)\))?$`)
	registerPattern = regexp.MustCompile(`^R\[\s*(\d+)\s*(?::([^\]]*))?\]\s*=\s*(.+)$`)
	posRegPattern   = regexp.MustCompile(`^PR\[\s*(\d+)\s*(?:,\s*(\d+)\s*)?(?::([^\]]*))?\]\s*=\s*(.+)$`)
	ioPattern       = regexp.MustCompile(`^(DO|RO|GO|AO|UO|SO|DI|RI|GI|AI|UI|SI|F)\[\s*(\d+)\s*(?::([^\]]*))?\]\s*=\s*(.+)$`)
	waitPattern     = regexp.MustCompile(`^WAIT\s+(.+?)(?:\s+TIMEOUT\s*,\s*LBL\[\s*(\d+)[^\]]*\])?$`)
	durationPattern = regexp.MustCompile(`^(?:\d+(?:\.\d*)?|\.\d+)\s*\(sec\)$`)
	motionPattern   = regexp.MustCompile(`^([JLCA])\s+(P|PR)\[\s*(\d+)\s*(?::([^\]]*))?\]\s*(.*)$`)
	viaPattern      = regexp.MustCompile(`^(P|PR)\[\s*(\d+)\s*(?::([^\]]*))?\]\s*(.*)$`)
	speedPattern    = regexp.MustCompile(`^(\d+(?:\.\d*)?|R\[[^\]]*\])\s*(%|mm/sec|cm/min|inch/min|deg/sec|sec|msec)\s*(.*)$`)
	termPattern     = regexp.MustCompile(`^(FINE|CNT\s*\d+|CNT\s*R\[[^\]]*\]|CD\s*\d+)\s*(.*)$`)
	numericLabel    = regexp.MustCompile(`^\s*(\d+)\s*(?::.*)?$`)
)

func matchComment(text string) (tp.Payload, bool) {
	if rest, ok := strings.CutPrefix(text, "!"); ok {
		return &tp.Comment{Text: strings.TrimSpace(rest)}, true
	}
	if rest, ok := strings.CutPrefix(text, "//"); ok {
		return &tp.Comment{Text: strings.TrimSpace(rest), Disabled: true}, true
	}
	return nil, false
}

func matchLabel(text string) (tp.Payload, bool) {
	m := labelPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, false
	}
	return &tp.LabelDef{Number: n, Name: strings.TrimSpace(m[2])}, true
}

func matchJump(text string) (tp.Payload, bool) {
	m := jumpPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	j := &tp.Jump{}
	if m[1] != "" {
		j.Conditional = true
		j.Condition = conditionText(m[1])
	}
	if n := numericLabel.FindStringSubmatch(m[2]); n != nil {
		j.Label, _ = strconv.Atoi(n[1])
	} else {
		j.Indirect = strings.TrimSpace(m[2])
	}
	return j, true
}

func matchCall(text string) (tp.Payload, bool) {
	m := callPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	c := &tp.Call{
		Target: m[3],
		Args:   strings.TrimSpace(m[4]),
		Run:    m[2] == "RUN",
	}
	if m[1] != "" {
		c.Condition = conditionText(m[1])
	}
	return c, true
}

// conditionText strips the IF or SELECT keyword from a guard prefix.
func conditionText(prefix string) string {
	s := strings.TrimSpace(prefix)
	for _, kw := range []string{"IF", "SELECT"} {
		if rest, ok := strings.CutPrefix(s, kw); ok && (rest == "" || rest[0] == ' ' || rest[0] == '(') {
			return strings.TrimSpace(rest)
		}
	}
	return s
}

func matchRegister(text string) (tp.Payload, bool) {
	if m := registerPattern.FindStringSubmatch(text); m != nil {
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, false
		}
		return &tp.RegisterAssign{
			Register: tp.SymbolRegister,
			Index:    idx,
			Name:     strings.TrimSpace(m[2]),
			Expr:     strings.TrimSpace(m[3]),
		}, true
	}
	if m := posRegPattern.FindStringSubmatch(text); m != nil {
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, false
		}
		elem := 0
		if m[2] != "" {
			elem, _ = strconv.Atoi(m[2])
		}
		return &tp.RegisterAssign{
			Register: tp.SymbolPositionRegister,
			Index:    idx,
			Element:  elem,
			Name:     strings.TrimSpace(m[3]),
			Expr:     strings.TrimSpace(m[4]),
		}, true
	}
	return nil, false
}

func matchIO(text string) (tp.Payload, bool) {
	m := ioPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	idx, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, false
	}
	return &tp.IOAssign{
		Signal: tp.SignalType(m[1]),
		Index:  idx,
		Name:   strings.TrimSpace(m[3]),
		Value:  strings.TrimSpace(m[4]),
	}, true
}

func matchWait(text string) (tp.Payload, bool) {
	m := waitPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	w := &tp.WaitCondition{}
	body := strings.TrimSpace(m[1])
	if durationPattern.MatchString(body) {
		w.Duration = body
	} else {
		w.Condition = body
	}
	if m[2] != "" {
		w.TimeoutLabel, _ = strconv.Atoi(m[2])
	}
	return w, true
}

func matchMotion(text string) (tp.Payload, bool) {
	m := motionPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	idx, err := strconv.Atoi(m[3])
	if err != nil {
		return nil, false
	}
	mo := &tp.Motion{
		Type:   tp.MotionType(m[1][0]),
		Target: tp.PositionRef{Register: m[2] == "PR", Index: idx, Name: strings.TrimSpace(m[4])},
	}
	rest := strings.TrimSpace(m[5])

	if mo.Type == tp.MotionCircular {
		if v := viaPattern.FindStringSubmatch(rest); v != nil {
			vi, _ := strconv.Atoi(v[2])
			mo.Via = &tp.PositionRef{Register: v[1] == "PR", Index: vi, Name: strings.TrimSpace(v[3])}
			rest = strings.TrimSpace(v[4])
		}
	}

	if s := speedPattern.FindStringSubmatch(rest); s != nil {
		mo.SpeedRaw = s[1]
		mo.SpeedUnit = s[2]
		if v, err := strconv.ParseFloat(s[1], 64); err == nil {
			mo.Speed = v
		}
		rest = strings.TrimSpace(s[3])
	}
	if t := termPattern.FindStringSubmatch(rest); t != nil {
		mo.Termination = strings.ReplaceAll(t[1], " ", "")
		rest = strings.TrimSpace(t[2])
	}
	mo.Options = rest
	return mo, true
}

func matchEnd(text string) (tp.Payload, bool) {
	switch text {
	case "END", "ABORT", "PAUSE":
		return &tp.End{Keyword: text}, true
	}
	return nil, false
}
