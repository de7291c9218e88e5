package tp

import (
	"fmt"
	"strings"
)

// Diagnostic represents an issue found while parsing or analyzing programs.
type Diagnostic struct {
	Severity Severity
	Code     string // e.g., "dangling-call", "unparsed-position"
	Message  string
	Program  string // owning program name, "" for corpus-level issues
	File     string
	Line     int // 1-based line in File, 0 if not applicable
}

// String returns a human-readable representation of the diagnostic.
// Format: "[severity] program:line: message" with location parts omitted when zero.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(d.Severity.String())
	b.WriteByte(']')
	b.WriteByte(' ')
	loc := d.Program
	if loc == "" {
		loc = d.File
	}
	if loc != "" {
		b.WriteString(loc)
		if d.Line > 0 {
			fmt.Fprintf(&b, ":%d", d.Line)
		}
		b.WriteString(": ")
	}
	b.WriteString(d.Message)
	return b.String()
}

// DiagnosticConfig controls strictness and diagnostic filtering.
type DiagnosticConfig struct {
	// Level sets the base strictness level.
	// Diagnostics with severity > Level are suppressed.
	Level StrictnessLevel

	// FailAt sets the severity threshold for failure.
	// If any reported diagnostic has severity <= FailAt, ShouldFail is true.
	FailAt Severity

	// Overrides change severity for specific diagnostic codes.
	Overrides map[string]Severity

	// Ignore lists diagnostic codes to suppress entirely.
	// Supports glob patterns (e.g., "unparsed-*").
	Ignore []string
}

// DefaultConfig returns the default diagnostic configuration (Normal strictness).
func DefaultConfig() DiagnosticConfig {
	return DiagnosticConfig{
		Level:  StrictnessNormal,
		FailAt: SeveritySevere,
	}
}

// StrictConfig reports everything and fails on any error.
func StrictConfig() DiagnosticConfig {
	return DiagnosticConfig{
		Level:  StrictnessStrict,
		FailAt: SeverityError,
	}
}

// PermissiveConfig returns a permissive configuration for hand-edited
// corpora exported from several controllers.
//
// Ignored codes:
//   - unparsed-attribute
//   - line-count-mismatch
func PermissiveConfig() DiagnosticConfig {
	return DiagnosticConfig{
		Level:  StrictnessPermissive,
		FailAt: SeverityFatal,
		Ignore: []string{
			"unparsed-attribute",
			"line-count-mismatch",
		},
	}
}

// Effective returns the severity of code after overrides.
func (c DiagnosticConfig) Effective(code string, sev Severity) Severity {
	if override, ok := c.Overrides[code]; ok {
		return override
	}
	return sev
}

// ShouldReport returns true if a diagnostic with the given code and severity
// should be reported under this configuration.
//
// The Level controls reporting threshold:
//   - Level 0 (Strict): Report all diagnostics (Info and above)
//   - Level 3 (Normal): Report Minor and above (0-3)
//   - Level 5 (Permissive): Report Warning and above (0-5)
//   - Level 6 (Silent): Report nothing
//
// Lower severity numbers are more severe (Fatal=0, Info=6).
func (c DiagnosticConfig) ShouldReport(code string, sev Severity) bool {
	for _, pattern := range c.Ignore {
		if MatchGlob(pattern, code) {
			return false
		}
	}

	sev = c.Effective(code, sev)

	if c.Level >= StrictnessSilent {
		return false
	}
	if c.Level == StrictnessStrict {
		return true
	}
	return int(sev) <= int(c.Level)
}

// ShouldFail returns true if a diagnostic with the given severity should
// fail a lint run.
func (c DiagnosticConfig) ShouldFail(sev Severity) bool {
	return sev <= c.FailAt
}

// Filter returns the diagnostics this configuration reports, with
// overridden severities applied.
func (c DiagnosticConfig) Filter(diags []Diagnostic) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if !c.ShouldReport(d.Code, d.Severity) {
			continue
		}
		d.Severity = c.Effective(d.Code, d.Severity)
		out = append(out, d)
	}
	return out
}

// MatchGlob performs simple glob matching with a leading or trailing * wildcard.
func MatchGlob(pattern, s string) bool {
	if pattern == "*" {
		return true
	}

	if len(pattern) > 0 && pattern[len(pattern)-1] == '*' {
		return strings.HasPrefix(s, pattern[:len(pattern)-1])
	}

	if len(pattern) > 0 && pattern[0] == '*' {
		return strings.HasSuffix(s, pattern[1:])
	}

	return pattern == s
}
