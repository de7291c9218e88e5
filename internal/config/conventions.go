// Package config holds the installation conventions that give meaning to
// program names and label numbers: label range classes, program naming
// patterns, product codes, state names and error handler markers.
//
// The defaults describe the injection-molding cells the analyzer was first
// written for. A different installation substitutes its own table through
// LoadFile.
package config

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/gotp/gotp/tp"
)

// LabelRange assigns a class to label numbers in [Low, High).
type LabelRange struct {
	Class string `json:"class" yaml:"class"`
	Low   int    `json:"low" yaml:"low"`
	High  int    `json:"high" yaml:"high"`
}

// Contains reports whether n lies inside the range.
func (r LabelRange) Contains(n int) bool {
	return n >= r.Low && n < r.High
}

// ProgramPattern classifies program names matching Pattern.
type ProgramPattern struct {
	Type    string `json:"type" yaml:"type"`
	Role    string `json:"role,omitempty" yaml:"role"`
	Pattern string `json:"pattern" yaml:"pattern"`
}

// ActionMarker recognizes one recovery action inside an error handler.
// A statement matches when it calls one of Calls, or when it contains
// every string in Contains.
type ActionMarker struct {
	Action   string   `json:"action" yaml:"action"`
	Calls    []string `json:"calls,omitempty" yaml:"calls"`
	Contains []string `json:"contains,omitempty" yaml:"contains"`
}

// Conventions is the complete convention table of one installation.
// Call Compile before use; Default and LoadFile return compiled values.
// A compiled table is safe for concurrent reads. Editing the exported
// fields afterwards requires another Compile.
type Conventions struct {
	LabelRanges        []LabelRange     `json:"label_ranges,omitempty" yaml:"label_ranges"`
	HomingNameMarkers  []string         `json:"homing_name_markers,omitempty" yaml:"homing_name_markers"`
	Programs           []ProgramPattern `json:"programs,omitempty" yaml:"programs"`
	ProductCodePattern string           `json:"product_code_pattern,omitempty" yaml:"product_code_pattern"`
	IMLNameMarkers     []string         `json:"iml_name_markers,omitempty" yaml:"iml_name_markers"`
	IMLContentMarkers  []string         `json:"iml_content_markers,omitempty" yaml:"iml_content_markers"`
	StateNames         map[int]string   `json:"state_names,omitempty" yaml:"state_names"`
	StateActions       int              `json:"state_actions" yaml:"state_actions"`
	ActionMarkers      []ActionMarker   `json:"action_markers,omitempty" yaml:"action_markers"`
	HomingZones        []string         `json:"homing_zones,omitempty" yaml:"homing_zones"`
	HomingChecks       []int            `json:"homing_check_registers,omitempty" yaml:"homing_check_registers"`

	programRules []programRule
	productRe    *regexp.Regexp
	zoneRe       *regexp.Regexp
	compiled     bool
}

// programRule is a compiled ProgramPattern.
type programRule struct {
	re   *regexp.Regexp
	typ  tp.ProgramType
	role string
}

// Default returns the built-in conventions.
func Default() *Conventions {
	c := &Conventions{
		LabelRanges: []LabelRange{
			{Class: "cycle", Low: 1, High: 500},
			{Class: "error", Low: 500, High: 800},
			{Class: "homing", Low: 1000, High: 1100},
		},
		HomingNameMarkers: []string{"HOME"},
		Programs: []ProgramPattern{
			{Type: "main", Role: "main", Pattern: `^A_1PA\d{3}`},
			{Type: "subprogram", Role: "turning-unit", Pattern: `KER[12]_`},
			{Type: "subprogram", Role: "placement", Pattern: `AFLG_`},
			{Type: "subprogram", Role: "printing", Pattern: `PRINTEN`},
			{Type: "subprogram", Role: "buffer", Pattern: `BUF_`},
			{Type: "utility", Role: "homing", Pattern: `^(HOMING|HOMEN1?)$`},
			{Type: "utility", Role: "message", Pattern: `^TEKST$`},
			{Type: "utility", Role: "film-handling", Pattern: `^FOLIE$`},
			{Type: "utility", Role: "reject", Pattern: `^DUMPEN$`},
			{Type: "utility", Role: "rest", Pattern: `^RUST$`},
			{Type: "system", Role: "error", Pattern: `^ERR`},
			{Type: "system", Role: "interface", Pattern: `^PMC`},
			{Type: "system", Role: "logging", Pattern: `^LOGBOOK`},
		},
		ProductCodePattern: `_(384|096|1536CC|005|017|140|180)`,
		IMLNameMarkers:     []string{"IML"},
		IMLContentMarkers:  []string{"IML", "FOLIE"},
		StateNames: map[int]string{
			10:  "IDLE / WAIT_MOLD_CLOSED",
			20:  "CYCLE_START",
			30:  "TAKE_PRODUCT",
			35:  "CHECK_PRODUCT",
			40:  "CHECK_GRIP",
			130: "TURN_1",
			140: "TURN_2",
			150: "PRINT",
			160: "PLACE",
			170: "GET_FILM",
			200: "RETURN",
		},
		StateActions: 3,
		ActionMarkers: []ActionMarker{
			{Action: string(tp.ActionMessage), Calls: []string{"TEKST"}},
			{Action: string(tp.ActionOpenGripper), Contains: []string{"Open hand"}},
			{Action: string(tp.ActionSafePosition), Contains: []string{"P[1:rust positie]"}},
			{Action: string(tp.ActionOperatorWait), Contains: []string{"WAIT", "USER"}},
		},
		HomingZones:  []string{"vorm", "keerunit", "printer", "buffer", "tafel"},
		HomingChecks: []int{198, 199, 200},
	}
	if err := c.Compile(); err != nil {
		panic(fmt.Sprintf("config: default conventions: %v", err))
	}
	return c
}

// Compile checks the table and prepares its patterns.
func (c *Conventions) Compile() error {
	for _, r := range c.LabelRanges {
		if _, ok := tp.ParseLabelClass(r.Class); !ok || r.Class == tp.LabelEntry.String() {
			return fmt.Errorf("label range %d-%d: unknown class %q", r.Low, r.High, r.Class)
		}
		if r.High <= r.Low {
			return fmt.Errorf("label range %s: high %d not above low %d", r.Class, r.High, r.Low)
		}
	}

	rules := make([]programRule, len(c.Programs))
	for i, p := range c.Programs {
		typ, ok := tp.ParseProgramType(p.Type)
		if !ok {
			return fmt.Errorf("program pattern %q: unknown type %q", p.Pattern, p.Type)
		}
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return fmt.Errorf("program pattern %q: %w", p.Pattern, err)
		}
		rules[i] = programRule{re: re, typ: typ, role: p.Role}
	}

	var productRe *regexp.Regexp
	if c.ProductCodePattern != "" {
		re, err := regexp.Compile(c.ProductCodePattern)
		if err != nil {
			return fmt.Errorf("product code pattern: %w", err)
		}
		if re.NumSubexp() < 1 {
			return fmt.Errorf("product code pattern %q needs a capture group", c.ProductCodePattern)
		}
		productRe = re
	}

	var zoneRe *regexp.Regexp
	if len(c.HomingZones) > 0 {
		quoted := make([]string, len(c.HomingZones))
		for i, z := range c.HomingZones {
			quoted[i] = regexp.QuoteMeta(z)
		}
		zoneRe = regexp.MustCompile(`(?i)!.*?(` + strings.Join(quoted, "|") + `)`)
	}

	for _, m := range c.ActionMarkers {
		if len(m.Calls) == 0 && len(m.Contains) == 0 {
			return fmt.Errorf("action marker %q matches nothing", m.Action)
		}
	}
	if c.StateActions < 0 {
		return fmt.Errorf("state_actions %d is negative", c.StateActions)
	}
	c.programRules = rules
	c.productRe = productRe
	c.zoneRe = zoneRe
	c.compiled = true
	return nil
}

// Clone returns an uncompiled deep copy of the exported tables.
func (c *Conventions) Clone() *Conventions {
	out := &Conventions{
		LabelRanges:        slices.Clone(c.LabelRanges),
		HomingNameMarkers:  slices.Clone(c.HomingNameMarkers),
		Programs:           slices.Clone(c.Programs),
		ProductCodePattern: c.ProductCodePattern,
		IMLNameMarkers:     slices.Clone(c.IMLNameMarkers),
		IMLContentMarkers:  slices.Clone(c.IMLContentMarkers),
		StateNames:         maps.Clone(c.StateNames),
		StateActions:       c.StateActions,
		ActionMarkers:      make([]ActionMarker, len(c.ActionMarkers)),
		HomingZones:        slices.Clone(c.HomingZones),
		HomingChecks:       slices.Clone(c.HomingChecks),
	}
	for i, m := range c.ActionMarkers {
		out.ActionMarkers[i] = ActionMarker{
			Action:   m.Action,
			Calls:    slices.Clone(m.Calls),
			Contains: slices.Clone(m.Contains),
		}
	}
	return out
}

func (c *Conventions) mustCompiled() {
	if !c.compiled {
		if err := c.Compile(); err != nil {
			panic(fmt.Sprintf("config: conventions used before Compile: %v", err))
		}
	}
}

// ClassifyProgram returns the type and role of the first pattern matching
// name, or ProgramUnknown with an empty role.
func (c *Conventions) ClassifyProgram(name string) (tp.ProgramType, string) {
	c.mustCompiled()
	for _, r := range c.programRules {
		if r.re.MatchString(name) {
			return r.typ, r.role
		}
	}
	return tp.ProgramUnknown, ""
}

// ProductCode extracts the product code embedded in name.
func (c *Conventions) ProductCode(name string) string {
	c.mustCompiled()
	if c.productRe == nil {
		return ""
	}
	m := c.productRe.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return m[1]
}

// Zone returns the homing zone keyword mentioned in a statement's
// comment text, matched case-insensitively.
func (c *Conventions) Zone(raw string) (string, bool) {
	c.mustCompiled()
	if c.zoneRe == nil {
		return "", false
	}
	m := c.zoneRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	for _, z := range c.HomingZones {
		if strings.EqualFold(z, m[1]) {
			return z, true
		}
	}
	return m[1], true
}

// HomingCheck reports whether register R[index] holds a robot zone flag
// that homing code tests.
func (c *Conventions) HomingCheck(index int) bool {
	return slices.Contains(c.HomingChecks, index)
}

// IMLName reports whether name carries an IML marker.
func (c *Conventions) IMLName(name string) bool {
	return containsAny(strings.ToUpper(name), c.IMLNameMarkers, true)
}

// IMLContent reports whether a code line mentions an IML marker.
func (c *Conventions) IMLContent(line string) bool {
	return containsAny(line, c.IMLContentMarkers, false)
}

// ClassifyLabel classifies a label number and name.
func (c *Conventions) ClassifyLabel(n int, name string) tp.LabelClass {
	return c.Labels().Classify(n, name)
}

// Labels returns the label part of the conventions used by flow extraction.
func (c *Conventions) Labels() LabelConventions {
	return LabelConventions{
		Ranges:       c.LabelRanges,
		HomingNames:  c.HomingNameMarkers,
		StateActions: c.StateActions,
	}
}

// LabelConventions classifies labels into cycle, error and homing regions.
type LabelConventions struct {
	Ranges       []LabelRange
	HomingNames  []string
	StateActions int
}

// Classify returns the class of the first range containing n. A label
// outside every range is homing when its name carries a homing marker,
// otherwise unclassified.
func (l LabelConventions) Classify(n int, name string) tp.LabelClass {
	for _, r := range l.Ranges {
		if r.Contains(n) {
			if c, ok := tp.ParseLabelClass(r.Class); ok {
				return c
			}
		}
	}
	if name != "" && containsAny(strings.ToUpper(name), l.HomingNames, true) {
		return tp.LabelHoming
	}
	return tp.LabelUnclassified
}

// MatchAction returns the action a statement performs according to the
// markers. callee is the statement's call target, if any.
func (c *Conventions) MatchAction(raw, callee string) (tp.ActionKind, bool) {
	for _, m := range c.ActionMarkers {
		if callee != "" {
			for _, name := range m.Calls {
				if strings.EqualFold(name, callee) {
					return tp.ActionKind(m.Action), true
				}
			}
		}
		if len(m.Contains) == 0 {
			continue
		}
		all := true
		for _, s := range m.Contains {
			if !strings.Contains(raw, s) {
				all = false
				break
			}
		}
		if all {
			return tp.ActionKind(m.Action), true
		}
	}
	return "", false
}

func containsAny(s string, markers []string, upper bool) bool {
	for _, m := range markers {
		if upper {
			m = strings.ToUpper(m)
		}
		if m != "" && strings.Contains(s, m) {
			return true
		}
	}
	return false
}
