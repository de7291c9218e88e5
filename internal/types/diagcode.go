package types

// Diagnostic codes emitted by the parser, assembler, and analyzer phases.
// Centralizing these prevents silent breakage from typos in string literals.

// Parser diagnostic codes.
const (
	DiagUnparsedAttribute = "unparsed-attribute"
	DiagUnparsedPosition  = "unparsed-position"
	DiagDuplicatePosition = "duplicate-position"
)

// Assembler diagnostic codes.
const (
	DiagEmptyFile          = "empty-file"
	DiagMalformedProgram   = "malformed-program"
	DiagMissingProgramName = "missing-program-name"
	DiagDuplicateLabel     = "duplicate-label"
	DiagLineCountMismatch  = "line-count-mismatch"
)

// Analyzer diagnostic codes.
const (
	DiagDuplicateProgram = "duplicate-program"
	DiagDanglingCall     = "dangling-call"
	DiagRecursiveCall    = "recursive-call"
	DiagUndefinedLabel   = "undefined-label"
	DiagNameVariant      = "name-variant"
)

// AllDiagnosticCodes returns all known diagnostic codes grouped by phase.
func AllDiagnosticCodes() []DiagCodeInfo {
	return []DiagCodeInfo{
		// Parser
		{Code: DiagUnparsedAttribute, Phase: "parser"},
		{Code: DiagUnparsedPosition, Phase: "parser"},
		{Code: DiagDuplicatePosition, Phase: "parser"},
		// Assembler
		{Code: DiagEmptyFile, Phase: "assembler"},
		{Code: DiagMalformedProgram, Phase: "assembler"},
		{Code: DiagMissingProgramName, Phase: "assembler"},
		{Code: DiagDuplicateLabel, Phase: "assembler"},
		{Code: DiagLineCountMismatch, Phase: "assembler"},
		// Analyzer
		{Code: DiagDuplicateProgram, Phase: "analyzer"},
		{Code: DiagDanglingCall, Phase: "analyzer"},
		{Code: DiagRecursiveCall, Phase: "analyzer"},
		{Code: DiagUndefinedLabel, Phase: "analyzer"},
		{Code: DiagNameVariant, Phase: "analyzer"},
	}
}

// DiagCodeInfo describes a diagnostic code and the phase that emits it.
type DiagCodeInfo struct {
	Code  string
	Phase string
}
