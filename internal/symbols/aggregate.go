// Package symbols folds the register, position register, and I/O signal
// usage of every program into corpus-wide symbol tables.
package symbols

import (
	"slices"
	"strings"

	"github.com/gotp/gotp/tp"
)

type entry struct {
	sym      *tp.Symbol
	names    map[string]bool
	programs map[string]bool
}

type aggregator struct {
	entries map[tp.SymbolKey]*entry
}

func (a *aggregator) get(key tp.SymbolKey, program string) *entry {
	e, ok := a.entries[key]
	if !ok {
		e = &entry{
			sym:      &tp.Symbol{Key: key, FirstProgram: program},
			names:    make(map[string]bool),
			programs: make(map[string]bool),
		}
		a.entries[key] = e
	}
	e.programs[program] = true
	return e
}

func (e *entry) addName(name string) {
	name = strings.TrimSpace(name)
	if name != "" {
		e.names[name] = true
	}
}

// Aggregate builds the symbol tables for progs. The result does not depend
// on the order of progs: programs are folded in name order so that
// FirstProgram is stable.
func Aggregate(progs []*tp.Program) *tp.SymbolTables {
	sorted := slices.Clone(progs)
	slices.SortStableFunc(sorted, func(a, b *tp.Program) int {
		return strings.Compare(a.Name(), b.Name())
	})

	a := &aggregator{entries: make(map[tp.SymbolKey]*entry)}
	for _, p := range sorted {
		for _, ins := range p.All() {
			a.fold(p.Name(), ins)
		}
	}
	return a.tables()
}

func (a *aggregator) fold(program string, ins tp.Instruction) {
	for _, r := range ins.Refs {
		e := a.get(r.Key(), program)
		e.sym.References++
		e.addName(r.Name)
	}

	switch pl := ins.Payload.(type) {
	case *tp.RegisterAssign:
		key := tp.SymbolKey{Kind: pl.Register, Index: pl.Index}
		e := a.get(key, program)
		e.sym.Usage++
		e.addName(pl.Name)
	case *tp.IOAssign:
		key := tp.SymbolKey{Kind: tp.SymbolSignal, Signal: pl.Signal, Index: pl.Index}
		e := a.get(key, program)
		e.sym.Usage++
		e.addName(pl.Name)
	}
}

func (a *aggregator) tables() *tp.SymbolTables {
	var regs, pregs, sigs []*tp.Symbol
	for _, e := range a.entries {
		s := e.sym
		s.Names = sortedKeys(e.names)
		s.Programs = sortedKeys(e.programs)
		switch s.Key.Kind {
		case tp.SymbolRegister:
			regs = append(regs, s)
		case tp.SymbolPositionRegister:
			pregs = append(pregs, s)
		default:
			sigs = append(sigs, s)
		}
	}
	return &tp.SymbolTables{
		Registers:         tp.NewSymbolTable(regs),
		PositionRegisters: tp.NewSymbolTable(pregs),
		Signals:           tp.NewSymbolTable(sigs),
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
