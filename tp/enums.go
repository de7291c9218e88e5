package tp

import "fmt"

// Severity levels for diagnostics.
type Severity int

const (
	SeverityFatal   Severity = 0 // Program could not be analyzed at all
	SeveritySevere  Severity = 1 // Structure changed to continue, must correct
	SeverityError   Severity = 2 // Able to continue, should correct
	SeverityMinor   Severity = 3 // Minor issue, raw text retained
	SeverityStyle   Severity = 4 // Style recommendation
	SeverityWarning Severity = 5 // Might be correct under some circumstances
	SeverityInfo    Severity = 6 // Informational notice
)

func (s Severity) String() string {
	switch s {
	case SeverityFatal:
		return "fatal"
	case SeveritySevere:
		return "severe"
	case SeverityError:
		return "error"
	case SeverityMinor:
		return "minor"
	case SeverityStyle:
		return "style"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return fmt.Sprintf("Severity(%d)", s)
	}
}

// ParseSeverity maps a severity name back to its value.
func ParseSeverity(s string) (Severity, bool) {
	for sev := SeverityFatal; sev <= SeverityInfo; sev++ {
		if sev.String() == s {
			return sev, true
		}
	}
	return 0, false
}

// StrictnessLevel defines preset strictness configurations.
type StrictnessLevel int

const (
	StrictnessStrict     StrictnessLevel = 0 // Report everything
	StrictnessNormal     StrictnessLevel = 3 // Default, report minor and above
	StrictnessPermissive StrictnessLevel = 5 // Report warnings and above
	StrictnessSilent     StrictnessLevel = 6 // Report nothing
)

func (l StrictnessLevel) String() string {
	switch l {
	case StrictnessStrict:
		return "strict"
	case StrictnessNormal:
		return "normal"
	case StrictnessPermissive:
		return "permissive"
	case StrictnessSilent:
		return "silent"
	default:
		return fmt.Sprintf("StrictnessLevel(%d)", l)
	}
}

// ProgramType is the coarse classification of a program by its name.
type ProgramType int

const (
	ProgramUnknown ProgramType = iota
	ProgramMain
	ProgramSubprogram
	ProgramUtility
	ProgramSystem
)

var programTypeNames = [...]string{
	ProgramUnknown:    "unknown",
	ProgramMain:       "main",
	ProgramSubprogram: "subprogram",
	ProgramUtility:    "utility",
	ProgramSystem:     "system",
}

func (t ProgramType) String() string {
	if t >= 0 && int(t) < len(programTypeNames) {
		return programTypeNames[t]
	}
	return fmt.Sprintf("ProgramType(%d)", t)
}

// ParseProgramType maps a type name back to its value.
func ParseProgramType(s string) (ProgramType, bool) {
	for i, name := range programTypeNames {
		if name == s {
			return ProgramType(i), true
		}
	}
	return ProgramUnknown, false
}

// Kind identifies the variant of an Instruction.
type Kind int

const (
	KindOther Kind = iota
	KindComment
	KindLabelDef
	KindJump
	KindCall
	KindRegisterAssign
	KindIOAssign
	KindWaitCondition
	KindMotion
	KindEnd
)

var kindNames = [...]string{
	KindOther:          "other",
	KindComment:        "comment",
	KindLabelDef:       "label",
	KindJump:           "jump",
	KindCall:           "call",
	KindRegisterAssign: "register",
	KindIOAssign:       "io",
	KindWaitCondition:  "wait",
	KindMotion:         "motion",
	KindEnd:            "end",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// LabelClass is the role of a label derived from its number.
type LabelClass int

const (
	LabelUnclassified LabelClass = iota
	LabelCycle
	LabelError
	LabelHoming
	LabelEntry
)

var labelClassNames = [...]string{
	LabelUnclassified: "unclassified",
	LabelCycle:        "cycle",
	LabelError:        "error",
	LabelHoming:       "homing",
	LabelEntry:        "entry",
}

func (c LabelClass) String() string {
	if c >= 0 && int(c) < len(labelClassNames) {
		return labelClassNames[c]
	}
	return fmt.Sprintf("LabelClass(%d)", c)
}

// ParseLabelClass maps a class name back to its value.
func ParseLabelClass(s string) (LabelClass, bool) {
	for i, name := range labelClassNames {
		if name == s {
			return LabelClass(i), true
		}
	}
	return LabelUnclassified, false
}

// EdgeKind identifies how control moves between two flow nodes.
type EdgeKind int

const (
	EdgeFallthrough EdgeKind = iota
	EdgeJump
	EdgeConditionalJump
	EdgeCallReturn
)

var edgeKindNames = [...]string{
	EdgeFallthrough:     "fallthrough",
	EdgeJump:            "jump",
	EdgeConditionalJump: "conditional-jump",
	EdgeCallReturn:      "call-return",
}

func (k EdgeKind) String() string {
	if k >= 0 && int(k) < len(edgeKindNames) {
		return edgeKindNames[k]
	}
	return fmt.Sprintf("EdgeKind(%d)", k)
}

// SymbolKind distinguishes the symbol tables.
type SymbolKind int

const (
	SymbolRegister SymbolKind = iota
	SymbolPositionRegister
	SymbolSignal
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolRegister:
		return "R"
	case SymbolPositionRegister:
		return "PR"
	case SymbolSignal:
		return "IO"
	default:
		return fmt.Sprintf("SymbolKind(%d)", k)
	}
}

// SignalType is the I/O signal family of a SymbolSignal.
type SignalType string

const (
	SignalNone SignalType = ""
	SignalDI   SignalType = "DI"
	SignalDO   SignalType = "DO"
	SignalRI   SignalType = "RI"
	SignalRO   SignalType = "RO"
	SignalGI   SignalType = "GI"
	SignalGO   SignalType = "GO"
	SignalAI   SignalType = "AI"
	SignalAO   SignalType = "AO"
	SignalUI   SignalType = "UI"
	SignalUO   SignalType = "UO"
	SignalSI   SignalType = "SI"
	SignalSO   SignalType = "SO"
	SignalFlag SignalType = "F"
)

// SignalTypes lists every known signal family in display order.
func SignalTypes() []SignalType {
	return []SignalType{
		SignalDI, SignalDO, SignalRI, SignalRO, SignalGI, SignalGO,
		SignalAI, SignalAO, SignalUI, SignalUO, SignalSI, SignalSO, SignalFlag,
	}
}

// IsInput reports whether the signal is read by the program.
func (s SignalType) IsInput() bool {
	switch s {
	case SignalDI, SignalRI, SignalGI, SignalAI, SignalUI, SignalSI:
		return true
	}
	return false
}

// MotionType is the interpolation of a motion instruction.
type MotionType byte

const (
	MotionJoint    MotionType = 'J'
	MotionLinear   MotionType = 'L'
	MotionCircular MotionType = 'C'
	MotionArc      MotionType = 'A'
)

func (m MotionType) String() string {
	switch m {
	case MotionJoint:
		return "joint"
	case MotionLinear:
		return "linear"
	case MotionCircular:
		return "circular"
	case MotionArc:
		return "arc"
	default:
		return fmt.Sprintf("MotionType(%q)", byte(m))
	}
}

// Representation is the coordinate form of a stored position.
type Representation int

const (
	RepresentationUnknown Representation = iota
	RepresentationCartesian
	RepresentationJoint
)

func (r Representation) String() string {
	switch r {
	case RepresentationCartesian:
		return "cartesian"
	case RepresentationJoint:
		return "joint"
	default:
		return "unknown"
	}
}

// ActionKind is a recovery action observed inside an error handler.
type ActionKind string

const (
	ActionMessage      ActionKind = "message"
	ActionOpenGripper  ActionKind = "open-gripper"
	ActionSafePosition ActionKind = "safe-position"
	ActionOperatorWait ActionKind = "operator-wait"
	ActionAbort        ActionKind = "abort"
	ActionOutputChange ActionKind = "output-change"
	ActionCall         ActionKind = "call"
)
