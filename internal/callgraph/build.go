// Package callgraph resolves CALL and RUN targets across the corpus and
// builds the program call graph and per-main-program call trees.
package callgraph

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/gotp/gotp/internal/graph"
	"github.com/gotp/gotp/internal/types"
	"github.com/gotp/gotp/tp"
)

// Build resolves every call site of progs. Targets missing from progs
// become external nodes with a dangling-call diagnostic; call cycles are
// reported as recursive-call notices. Program names are matched
// case-insensitively. If logger is nil, logging is disabled.
func Build(progs []*tp.Program, logger *slog.Logger) *tp.CallGraph {
	log := types.Logger{L: logger}

	sorted := slices.Clone(progs)
	slices.SortStableFunc(sorted, func(a, b *tp.Program) int {
		return strings.Compare(a.Name(), b.Name())
	})

	known := make(map[string]string, len(sorted))
	for _, p := range sorted {
		key := strings.ToUpper(p.Name())
		if _, dup := known[key]; !dup {
			known[key] = p.Name()
		}
	}

	cg := &tp.CallGraph{}
	g := graph.New()
	external := make(map[string]bool)

	for _, p := range sorted {
		g.AddNode(p.Name())
		for _, ins := range p.All() {
			call, ok := ins.Payload.(*tp.Call)
			if !ok {
				continue
			}
			callee, resolved := known[strings.ToUpper(call.Target)]
			if !resolved {
				callee = call.Target
				external[callee] = true
				cg.Diagnostics = append(cg.Diagnostics, tp.Diagnostic{
					Severity: tp.SeverityWarning,
					Code:     types.DiagDanglingCall,
					Message:  fmt.Sprintf("call target %s is not in the corpus", callee),
					Program:  p.Name(),
					File:     p.File(),
					Line:     ins.Line,
				})
			}
			cg.Edges = append(cg.Edges, tp.CallEdge{
				Caller:   p.Name(),
				Callee:   callee,
				Line:     ins.Line,
				Args:     call.Args,
				Resolved: resolved,
			})
			g.AddEdge(p.Name(), callee)

			if log.TraceEnabled() {
				log.Trace("call site",
					slog.String("caller", p.Name()),
					slog.String("callee", callee),
					slog.Int("line", ins.Line),
					slog.Bool("resolved", resolved))
			}
		}
	}

	cg.Nodes = g.Nodes()
	for name := range external {
		cg.External = append(cg.External, name)
	}
	slices.Sort(cg.External)

	cg.Cycles = g.FindCycles()
	for _, cycle := range cg.Cycles {
		owner := cycle[0]
		d := tp.Diagnostic{
			Severity: tp.SeverityInfo,
			Code:     types.DiagRecursiveCall,
			Message:  "recursive call chain: " + strings.Join(append(slices.Clone(cycle), cycle[0]), " -> "),
			Program:  owner,
		}
		for _, p := range sorted {
			if p.Name() == owner {
				d.File = p.File()
				break
			}
		}
		cg.Diagnostics = append(cg.Diagnostics, d)
	}
	cg.Order = g.CallOrder()
	cg.Index()

	for _, p := range sorted {
		if p.Type() == tp.ProgramMain {
			cg.Trees = append(cg.Trees, Tree(cg, p.Name()))
		}
	}

	log.Log(slog.LevelDebug, "call graph built",
		slog.Int("nodes", len(cg.Nodes)),
		slog.Int("edges", len(cg.Edges)),
		slog.Int("external", len(cg.External)),
		slog.Int("cycles", len(cg.Cycles)),
		slog.Int("trees", len(cg.Trees)))
	return cg
}

// Tree expands the calls reachable from root. Children are the sorted
// distinct callees. A callee already on the path from root is a BackEdge
// leaf and a callee outside the corpus is an External leaf, so the walk
// terminates on recursive programs. The expansion uses an explicit stack.
func Tree(cg *tp.CallGraph, root string) *tp.CallTree {
	type frame struct {
		node *tp.CallTree
		exit bool
	}

	top := &tp.CallTree{Name: root, External: cg.IsExternal(root)}
	if top.External {
		return top
	}

	onPath := make(map[string]bool)
	stack := []frame{{node: top}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.exit {
			delete(onPath, f.node.Name)
			continue
		}

		onPath[f.node.Name] = true
		stack = append(stack, frame{node: f.node, exit: true})

		var expand []*tp.CallTree
		for _, name := range cg.Callees(f.node.Name) {
			child := &tp.CallTree{Name: name}
			switch {
			case cg.IsExternal(name):
				child.External = true
			case onPath[name]:
				child.BackEdge = true
			default:
				expand = append(expand, child)
			}
			f.node.Children = append(f.node.Children, child)
		}
		for i := len(expand) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: expand[i]})
		}
	}
	return top
}
