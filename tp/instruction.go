package tp

import "slices"

// Instruction is one logical statement of a program's instruction block.
//
// The Payload is a closed set of variants; switch on its concrete type or
// on Kind():
//
//	switch p := ins.Payload.(type) {
//	case *tp.Jump:
//	    fmt.Println(p.Label)
//	case *tp.Call:
//	    fmt.Println(p.Target)
//	}
type Instruction struct {
	Line    int    // 1-based line in the source file
	Step    int    // controller statement number, 0 if absent
	Raw     string // statement text without step prefix and terminator
	Refs    []Ref  // every register and signal reference in the statement
	Payload Payload
}

// Kind returns the variant of the instruction.
func (i Instruction) Kind() Kind {
	if i.Payload == nil {
		return KindOther
	}
	return i.Payload.Kind()
}

// IsComment reports whether the instruction carries no behavior.
func (i Instruction) IsComment() bool {
	return i.Kind() == KindComment
}

// Clone returns a deep copy of i, so the copy's Refs and Payload can be
// changed without touching the program that owns i.
func (i Instruction) Clone() Instruction {
	i.Refs = slices.Clone(i.Refs)
	if i.Payload != nil {
		i.Payload = i.Payload.clone()
	}
	return i
}

// Payload is the kind-specific content of an Instruction.
type Payload interface {
	Kind() Kind
	clone() Payload
}

// Ref is a single register or signal occurrence within a statement.
type Ref struct {
	Kind   SymbolKind
	Signal SignalType // set for SymbolSignal
	Index  int
	Name   string // inline comment, "" if absent
}

// Key returns the symbol identity the reference points at.
func (r Ref) Key() SymbolKey {
	return SymbolKey{Kind: r.Kind, Signal: r.Signal, Index: r.Index}
}

// LabelDef defines a jump target: LBL[n:name].
type LabelDef struct {
	Number int
	Name   string
}

// Jump transfers control to a label: JMP LBL[n], IF cond,JMP LBL[n].
type Jump struct {
	Label       int    // target label, 0 when Indirect is set
	Indirect    string // register expression for JMP LBL[R[i]]
	Condition   string // condition text, "" for unconditional jumps
	Conditional bool
}

// Call invokes another program: CALL NAME(args), RUN NAME.
type Call struct {
	Target    string
	Args      string
	Condition string
	Run       bool // RUN starts a concurrent task
}

// RegisterAssign stores into a numeric or position register.
type RegisterAssign struct {
	Register SymbolKind // SymbolRegister or SymbolPositionRegister
	Index    int
	Element  int // PR[i,j] component, 0 when whole register
	Name     string
	Expr     string
}

// IOAssign drives a signal: DO[i:name]=ON.
type IOAssign struct {
	Signal SignalType
	Index  int
	Name   string
	Value  string
}

// WaitCondition blocks until a condition or for a fixed time.
type WaitCondition struct {
	Condition    string // "" for timed waits
	Duration     string // e.g. "0.50(sec)", "" for conditional waits
	TimeoutLabel int    // label jumped to on TIMEOUT, 0 if none
}

// PositionRef names a motion target.
type PositionRef struct {
	Register bool // PR[i] instead of P[i]
	Index    int
	Name     string
}

// Motion moves the robot: L P[3:name] 500mm/sec CNT50 ACC80.
type Motion struct {
	Type        MotionType
	Target      PositionRef
	Via         *PositionRef // second point of a circular move
	Speed       float64
	SpeedRaw    string
	SpeedUnit   string
	Termination string // FINE, CNT50, ...
	Options     string
}

// Comment is a remark line or a disabled statement.
type Comment struct {
	Text     string
	Disabled bool // "//" prefix
}

// End stops the program: END, ABORT or PAUSE.
type End struct {
	Keyword string
}

// Other is an instruction no matcher recognized. The text is Instruction.Raw.
type Other struct{}

func (*LabelDef) Kind() Kind       { return KindLabelDef }
func (*Jump) Kind() Kind           { return KindJump }
func (*Call) Kind() Kind           { return KindCall }
func (*RegisterAssign) Kind() Kind { return KindRegisterAssign }
func (*IOAssign) Kind() Kind       { return KindIOAssign }
func (*WaitCondition) Kind() Kind  { return KindWaitCondition }
func (*Motion) Kind() Kind         { return KindMotion }
func (*Comment) Kind() Kind        { return KindComment }
func (*End) Kind() Kind            { return KindEnd }
func (*Other) Kind() Kind          { return KindOther }

func (p *LabelDef) clone() Payload       { c := *p; return &c }
func (p *Jump) clone() Payload           { c := *p; return &c }
func (p *Call) clone() Payload           { c := *p; return &c }
func (p *RegisterAssign) clone() Payload { c := *p; return &c }
func (p *IOAssign) clone() Payload       { c := *p; return &c }
func (p *WaitCondition) clone() Payload  { c := *p; return &c }
func (p *Comment) clone() Payload        { c := *p; return &c }
func (p *End) clone() Payload            { c := *p; return &c }
func (p *Other) clone() Payload          { return &Other{} }

func (p *Motion) clone() Payload {
	c := *p
	if p.Via != nil {
		via := *p.Via
		c.Via = &via
	}
	return &c
}

// Terminates reports whether control never continues past this instruction.
func (i Instruction) Terminates() bool {
	switch p := i.Payload.(type) {
	case *End:
		return p.Keyword == "END" || p.Keyword == "ABORT"
	case *Jump:
		return !p.Conditional
	}
	return false
}
