package tp

import "slices"

// CallEdge is one call site.
type CallEdge struct {
	Caller   string
	Callee   string
	Line     int
	Args     string
	Resolved bool // false when the callee is not in the corpus
}

// CallTree is a node of a call tree rooted at a program.
type CallTree struct {
	Name     string
	External bool // callee not in the corpus
	BackEdge bool // callee already on the current path
	Children []*CallTree
}

// Walk visits the tree depth-first, passing each node's depth.
// Returning false from fn skips the node's children.
func (t *CallTree) Walk(fn func(n *CallTree, depth int) bool) {
	type item struct {
		n     *CallTree
		depth int
	}
	stack := []item{{t, 0}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(it.n, it.depth) {
			continue
		}
		for i := len(it.n.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{it.n.Children[i], it.depth + 1})
		}
	}
}

// CallGraph is the corpus-wide program call graph.
type CallGraph struct {
	Nodes    []string   // programs and external targets, sorted
	Edges    []CallEdge // every call site, caller order then line
	External []string   // targets not in the corpus, sorted
	Cycles   [][]string // strongly connected call cycles
	Order    []string   // callers before callees, cyclic members last
	Trees    []*CallTree

	Diagnostics []Diagnostic

	callees map[string][]string
	callers map[string][]string
	ext     map[string]bool
}

// Index builds the adjacency lookups from Edges and External.
// Builders call it once after populating the exported fields.
func (g *CallGraph) Index() {
	g.callees = make(map[string][]string)
	g.callers = make(map[string][]string)
	g.ext = make(map[string]bool, len(g.External))
	for _, e := range g.Edges {
		if !slices.Contains(g.callees[e.Caller], e.Callee) {
			g.callees[e.Caller] = append(g.callees[e.Caller], e.Callee)
		}
		if !slices.Contains(g.callers[e.Callee], e.Caller) {
			g.callers[e.Callee] = append(g.callers[e.Callee], e.Caller)
		}
	}
	for _, s := range g.callees {
		slices.Sort(s)
	}
	for _, s := range g.callers {
		slices.Sort(s)
	}
	for _, name := range g.External {
		g.ext[name] = true
	}
}

// Callees returns the distinct programs called by name, sorted.
func (g *CallGraph) Callees(name string) []string {
	return slices.Clone(g.callees[name])
}

// Callers returns the distinct programs that call name, sorted.
func (g *CallGraph) Callers(name string) []string {
	return slices.Clone(g.callers[name])
}

// IsExternal reports whether name is a call target missing from the corpus.
func (g *CallGraph) IsExternal(name string) bool {
	return g.ext[name]
}

// Roots returns the corpus programs nothing calls.
func (g *CallGraph) Roots() []string {
	var out []string
	for _, n := range g.Nodes {
		if !g.ext[n] && len(g.callers[n]) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// EdgesFrom returns the call sites of one caller.
func (g *CallGraph) EdgesFrom(caller string) []CallEdge {
	var out []CallEdge
	for _, e := range g.Edges {
		if e.Caller == caller {
			out = append(out, e)
		}
	}
	return out
}

// Tree returns the precomputed tree rooted at name.
func (g *CallGraph) Tree(name string) (*CallTree, bool) {
	for _, t := range g.Trees {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}
