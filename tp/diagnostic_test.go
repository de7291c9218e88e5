package tp

import "testing"

func TestDiagnosticConfigShouldReport(t *testing.T) {
	tests := []struct {
		name   string
		config DiagnosticConfig
		code   string
		sev    Severity
		want   bool
	}{
		// Strict mode reports everything
		{"strict/fatal", StrictConfig(), "test", SeverityFatal, true},
		{"strict/info", StrictConfig(), "test", SeverityInfo, true},

		// Normal mode (level 3): report sev 0-3
		{"normal/fatal", DefaultConfig(), "test", SeverityFatal, true},
		{"normal/minor", DefaultConfig(), "test", SeverityMinor, true},
		{"normal/warning", DefaultConfig(), "test", SeverityWarning, false},
		{"normal/info", DefaultConfig(), "test", SeverityInfo, false},

		// Permissive mode (level 5): report sev 0-5
		{"permissive/warning", PermissiveConfig(), "test", SeverityWarning, true},
		{"permissive/info", PermissiveConfig(), "test", SeverityInfo, false},
		{"permissive/ignored", PermissiveConfig(), "unparsed-attribute", SeverityFatal, false},

		// Silent mode suppresses everything
		{"silent/fatal", DiagnosticConfig{Level: StrictnessSilent}, "test", SeverityFatal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.config.ShouldReport(tt.code, tt.sev)
			if got != tt.want {
				t.Errorf("ShouldReport(%q, %v) = %v, want %v", tt.code, tt.sev, got, tt.want)
			}
		})
	}
}

func TestDiagnosticConfigOverrides(t *testing.T) {
	cfg := DiagnosticConfig{
		Level:     StrictnessNormal,
		Overrides: map[string]Severity{"dangling-call": SeverityError},
	}

	if !cfg.ShouldReport("dangling-call", SeverityWarning) {
		t.Error("upgraded code should be reported")
	}
	if cfg.ShouldReport("recursive-call", SeverityInfo) {
		t.Error("info should stay suppressed at normal level")
	}

	got := cfg.Filter([]Diagnostic{
		{Severity: SeverityWarning, Code: "dangling-call"},
		{Severity: SeverityInfo, Code: "recursive-call"},
	})
	if len(got) != 1 {
		t.Fatalf("Filter kept %d diagnostics, want 1", len(got))
	}
	if got[0].Severity != SeverityError {
		t.Errorf("filtered severity = %v, want %v", got[0].Severity, SeverityError)
	}
}

func TestDiagnosticConfigShouldFail(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.ShouldFail(SeverityFatal) {
		t.Error("fatal should fail under default config")
	}
	if cfg.ShouldFail(SeverityError) {
		t.Error("error should not fail under default config")
	}
	if !StrictConfig().ShouldFail(SeverityError) {
		t.Error("error should fail under strict config")
	}
}

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern string
		s       string
		want    bool
	}{
		{"*", "anything", true},
		{"*", "", true},
		{"unparsed-*", "unparsed-position", true},
		{"unparsed-*", "unparsed-", true},
		{"unparsed-*", "dangling-call", false},
		{"*-call", "dangling-call", true},
		{"*-call", "recursive-calls", false},
		{"exact", "exact", true},
		{"exact", "other", false},
		{"", "", true},
		{"", "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.s, func(t *testing.T) {
			got := MatchGlob(tt.pattern, tt.s)
			if got != tt.want {
				t.Errorf("MatchGlob(%q, %q) = %v, want %v", tt.pattern, tt.s, got, tt.want)
			}
		})
	}
}

func TestDiagnosticString(t *testing.T) {
	tests := []struct {
		d    Diagnostic
		want string
	}{
		{Diagnostic{Severity: SeverityError, Program: "A_1PA005", Line: 12, Message: "boom"}, "[error] A_1PA005:12: boom"},
		{Diagnostic{Severity: SeverityFatal, File: "x.LS", Message: "empty"}, "[fatal] x.LS: empty"},
		{Diagnostic{Severity: SeverityInfo, Message: "bare"}, "[info] bare"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
