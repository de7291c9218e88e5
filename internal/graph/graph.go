// Package graph provides the directed program graph used for call analysis:
// adjacency, cycle detection, and caller-first ordering.
package graph

import (
	"slices"
)

// Graph is a directed graph of program names with forward edges.
type Graph struct {
	nodes map[string]struct{}
	edges map[string][]string
}

// New returns a graph with no nodes or edges.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]struct{}),
		edges: make(map[string][]string),
	}
}

// AddNode registers a node. Duplicate calls are no-ops.
func (g *Graph) AddNode(name string) {
	g.nodes[name] = struct{}{}
}

// AddEdge records that "from" calls "to". Missing nodes are created
// implicitly. Duplicate edges are ignored.
func (g *Graph) AddEdge(from, to string) {
	g.nodes[from] = struct{}{}
	g.nodes[to] = struct{}{}

	if slices.Contains(g.edges[from], to) {
		return
	}
	g.edges[from] = append(g.edges[from], to)
}

// Successors returns the distinct targets of name, sorted.
func (g *Graph) Successors(name string) []string {
	out := slices.Clone(g.edges[name])
	slices.Sort(out)
	return out
}

// HasNode reports whether the node exists in the graph.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// HasEdge reports whether from has an edge to to.
func (g *Graph) HasEdge(from, to string) bool {
	return slices.Contains(g.edges[from], to)
}

// Nodes returns every node, sorted.
func (g *Graph) Nodes() []string {
	out := make([]string, 0, len(g.nodes))
	for n := range g.nodes {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}
