package tp

import (
	"cmp"
	"fmt"
	"slices"
)

// SymbolKey identifies a register or signal across the corpus.
type SymbolKey struct {
	Kind   SymbolKind
	Signal SignalType
	Index  int
}

func (k SymbolKey) String() string {
	switch k.Kind {
	case SymbolSignal:
		return fmt.Sprintf("%s[%d]", k.Signal, k.Index)
	default:
		return fmt.Sprintf("%s[%d]", k.Kind, k.Index)
	}
}

// Compare orders keys by kind, signal family, then index.
func (k SymbolKey) Compare(o SymbolKey) int {
	if c := cmp.Compare(k.Kind, o.Kind); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Signal, o.Signal); c != 0 {
		return c
	}
	return cmp.Compare(k.Index, o.Index)
}

// Symbol is the corpus-wide usage record of one register or signal.
type Symbol struct {
	Key          SymbolKey
	Names        []string // distinct inline names, sorted
	Usage        int      // assignments
	References   int      // every occurrence
	Programs     []string // referencing programs, sorted
	FirstProgram string   // first referencing program by name
}

// HasVariants reports whether the symbol is named inconsistently.
func (s *Symbol) HasVariants() bool {
	return len(s.Names) > 1
}

// Name returns the first name variant, or "".
func (s *Symbol) Name() string {
	if len(s.Names) == 0 {
		return ""
	}
	return s.Names[0]
}

// SymbolTable is a sorted, indexed set of symbols of one kind.
type SymbolTable struct {
	symbols []*Symbol
	byKey   map[SymbolKey]*Symbol
}

// NewSymbolTable sorts and indexes the given symbols.
func NewSymbolTable(symbols []*Symbol) *SymbolTable {
	t := &SymbolTable{
		symbols: slices.Clone(symbols),
		byKey:   make(map[SymbolKey]*Symbol, len(symbols)),
	}
	slices.SortFunc(t.symbols, func(a, b *Symbol) int { return a.Key.Compare(b.Key) })
	for _, s := range t.symbols {
		t.byKey[s.Key] = s
	}
	return t
}

// Symbols returns all symbols ordered by key.
func (t *SymbolTable) Symbols() []*Symbol {
	if t == nil {
		return nil
	}
	return slices.Clone(t.symbols)
}

// Len returns the number of symbols.
func (t *SymbolTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.symbols)
}

// Lookup returns the symbol with the given key.
func (t *SymbolTable) Lookup(key SymbolKey) (*Symbol, bool) {
	if t == nil {
		return nil, false
	}
	s, ok := t.byKey[key]
	return s, ok
}

// Variants returns the symbols that carry more than one name.
func (t *SymbolTable) Variants() []*Symbol {
	if t == nil {
		return nil
	}
	var out []*Symbol
	for _, s := range t.symbols {
		if s.HasVariants() {
			out = append(out, s)
		}
	}
	return out
}

// Signal returns the symbols of one signal family.
func (t *SymbolTable) Signal(sig SignalType) []*Symbol {
	if t == nil {
		return nil
	}
	var out []*Symbol
	for _, s := range t.symbols {
		if s.Key.Signal == sig {
			out = append(out, s)
		}
	}
	return out
}

// SymbolTables groups the corpus symbol tables.
type SymbolTables struct {
	Registers         *SymbolTable
	PositionRegisters *SymbolTable
	Signals           *SymbolTable
}

// Register looks up R[index].
func (t *SymbolTables) Register(index int) (*Symbol, bool) {
	return t.Registers.Lookup(SymbolKey{Kind: SymbolRegister, Index: index})
}

// PositionRegister looks up PR[index].
func (t *SymbolTables) PositionRegister(index int) (*Symbol, bool) {
	return t.PositionRegisters.Lookup(SymbolKey{Kind: SymbolPositionRegister, Index: index})
}

// Signal looks up a signal such as DO[5].
func (t *SymbolTables) Signal(sig SignalType, index int) (*Symbol, bool) {
	return t.Signals.Lookup(SymbolKey{Kind: SymbolSignal, Signal: sig, Index: index})
}

// Variants returns every symbol named inconsistently across the corpus.
func (t *SymbolTables) Variants() []*Symbol {
	var out []*Symbol
	out = append(out, t.Registers.Variants()...)
	out = append(out, t.PositionRegisters.Variants()...)
	out = append(out, t.Signals.Variants()...)
	return out
}
