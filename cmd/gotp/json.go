package main

// DumpOutput is the top-level output of the dump command.
type DumpOutput struct {
	Programs    []ProgramJSON    `json:"programs,omitempty" yaml:"programs,omitempty"`
	Registers   []SymbolJSON     `json:"registers,omitempty" yaml:"registers,omitempty"`
	PosRegs     []SymbolJSON     `json:"positionRegisters,omitempty" yaml:"positionRegisters,omitempty"`
	Signals     []SymbolJSON     `json:"signals,omitempty" yaml:"signals,omitempty"`
	Calls       *CallGraphJSON   `json:"calls,omitempty" yaml:"calls,omitempty"`
	Failures    []FailureJSON    `json:"failures,omitempty" yaml:"failures,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// ProgramJSON holds the serializable form of an assembled program.
type ProgramJSON struct {
	Name         string            `json:"name" yaml:"name"`
	File         string            `json:"file" yaml:"file"`
	Type         string            `json:"type" yaml:"type"`
	Role         string            `json:"role,omitempty" yaml:"role,omitempty"`
	ProductCode  string            `json:"productCode,omitempty" yaml:"productCode,omitempty"`
	IML          bool              `json:"iml,omitempty" yaml:"iml,omitempty"`
	Comment      string            `json:"comment,omitempty" yaml:"comment,omitempty"`
	Size         int               `json:"size" yaml:"size"`
	LineCount    int               `json:"lineCount" yaml:"lineCount"`
	Created      string            `json:"created,omitempty" yaml:"created,omitempty"`
	Modified     string            `json:"modified,omitempty" yaml:"modified,omitempty"`
	Labels       []LabelJSON       `json:"labels,omitempty" yaml:"labels,omitempty"`
	Positions    []PositionJSON    `json:"positions,omitempty" yaml:"positions,omitempty"`
	Instructions []InstructionJSON `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	Flow         *FlowJSON         `json:"flow,omitempty" yaml:"flow,omitempty"`
}

// LabelJSON holds a label definition and its class.
type LabelJSON struct {
	Number int    `json:"number" yaml:"number"`
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Class  string `json:"class" yaml:"class"`
}

// PositionJSON holds a stored position of the first motion group.
type PositionJSON struct {
	ID      int       `json:"id" yaml:"id"`
	Comment string    `json:"comment,omitempty" yaml:"comment,omitempty"`
	Form    string    `json:"form" yaml:"form"`
	Values  []float64 `json:"values,omitempty" yaml:"values,omitempty"`
}

// InstructionJSON holds one statement.
type InstructionJSON struct {
	Line int    `json:"line" yaml:"line"`
	Kind string `json:"kind" yaml:"kind"`
	Raw  string `json:"raw" yaml:"raw"`
}

// FlowJSON holds a program's flow graph summary.
type FlowJSON struct {
	Edges    []EdgeJSON    `json:"edges,omitempty" yaml:"edges,omitempty"`
	Handlers []HandlerJSON `json:"errorHandlers,omitempty" yaml:"errorHandlers,omitempty"`
	Homing   *HomingJSON   `json:"homing,omitempty" yaml:"homing,omitempty"`
}

// EdgeJSON holds a control transfer between labels. Label 0 is the entry.
type EdgeJSON struct {
	From        int    `json:"from" yaml:"from"`
	To          int    `json:"to" yaml:"to"`
	Kind        string `json:"kind" yaml:"kind"`
	Condition   string `json:"condition,omitempty" yaml:"condition,omitempty"`
	Callee      string `json:"callee,omitempty" yaml:"callee,omitempty"`
	Unreachable bool   `json:"unreachable,omitempty" yaml:"unreachable,omitempty"`
}

// HandlerJSON holds the recovery actions of an error label.
type HandlerJSON struct {
	Label   int      `json:"label" yaml:"label"`
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Actions []string `json:"actions" yaml:"actions"`
}

// HomingJSON holds a homing summary.
type HomingJSON struct {
	Labels []int    `json:"labels" yaml:"labels"`
	Checks []string `json:"checks,omitempty" yaml:"checks,omitempty"`
	Zones  []string `json:"zones,omitempty" yaml:"zones,omitempty"`
}

// SymbolJSON holds the corpus-wide usage of a register or signal.
type SymbolJSON struct {
	Key        string   `json:"key" yaml:"key"`
	Names      []string `json:"names,omitempty" yaml:"names,omitempty"`
	Usage      int      `json:"usage" yaml:"usage"`
	References int      `json:"references" yaml:"references"`
	Programs   []string `json:"programs" yaml:"programs"`
}

// CallGraphJSON holds the call graph.
type CallGraphJSON struct {
	Edges    []CallEdgeJSON `json:"edges,omitempty" yaml:"edges,omitempty"`
	External []string       `json:"external,omitempty" yaml:"external,omitempty"`
	Cycles   [][]string     `json:"cycles,omitempty" yaml:"cycles,omitempty"`
	Order    []string       `json:"order,omitempty" yaml:"order,omitempty"`
}

// CallEdgeJSON holds one call site.
type CallEdgeJSON struct {
	Caller string `json:"caller" yaml:"caller"`
	Callee string `json:"callee" yaml:"callee"`
	Line   int    `json:"line" yaml:"line"`
	Args   string `json:"args,omitempty" yaml:"args,omitempty"`
}

// FailureJSON holds a file that produced no program.
type FailureJSON struct {
	File  string `json:"file" yaml:"file"`
	Error string `json:"error" yaml:"error"`
}

// DiagnosticJSON holds a reported diagnostic.
type DiagnosticJSON struct {
	Severity string `json:"severity" yaml:"severity"`
	Code     string `json:"code" yaml:"code"`
	Message  string `json:"message" yaml:"message"`
	Program  string `json:"program,omitempty" yaml:"program,omitempty"`
	Line     int    `json:"line,omitempty" yaml:"line,omitempty"`
}
