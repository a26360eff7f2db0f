package csg

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dfs"
)

// ErrFillCycle is returned when a universe or lattice fills itself,
// directly or through other fills.
var ErrFillCycle = errors.New("universe fill cycle")

// node is a universe or a lattice in the fill graph.
type node struct {
	u *Universe
	l *RectLattice
}

func (n node) key() any {
	if n.l != nil {
		return n.l
	}
	return n.u
}

func (n node) String() string {
	if n.l != nil {
		return "lattice " + n.l.Name
	}
	return "universe " + n.u.Name
}

func (n node) children() []node {
	var out []node
	if n.l != nil {
		for _, u := range n.l.distinctUniverses() {
			if u != nil {
				out = append(out, node{u: u})
			}
		}
		return out
	}
	for _, c := range n.u.Cells {
		switch {
		case c.kind == FillUniverse && c.universe != nil:
			out = append(out, node{u: c.universe})
		case c.kind == FillLattice && c.lattice != nil:
			out = append(out, node{l: c.lattice})
		}
	}
	return out
}

// fillGraph is the directed graph of fills reachable from the root. An edge
// runs from a universe to every universe or lattice one of its cells fills,
// and from a lattice to every universe it places.
type fillGraph struct {
	graph *core.Graph
	// nodes are in discovery order; vertex ids index into it.
	nodes []node
	index map[any]string
}

func vertexID(i int) string { return fmt.Sprintf("%06d", i) }

func newFillGraph(root *Universe) (*fillGraph, error) {
	fg := &fillGraph{
		graph: core.NewGraph(core.WithDirected(true), core.WithLoops()),
		index: make(map[any]string),
	}
	if root == nil {
		return fg, nil
	}
	visit := func(n node) (string, error) {
		if id, ok := fg.index[n.key()]; ok {
			return id, nil
		}
		id := vertexID(len(fg.nodes))
		if err := fg.graph.AddVertex(id); err != nil {
			return "", fmt.Errorf("%s: %w", n, err)
		}
		fg.index[n.key()] = id
		fg.nodes = append(fg.nodes, n)
		return id, nil
	}

	if _, err := visit(node{u: root}); err != nil {
		return nil, err
	}
	// nodes grows while it is walked.
	for i := 0; i < len(fg.nodes); i++ {
		from := vertexID(i)
		for _, c := range fg.nodes[i].children() {
			to, err := visit(c)
			if err != nil {
				return nil, err
			}
			if fg.graph.HasEdge(from, to) {
				continue
			}
			if _, err := fg.graph.AddEdge(from, to, 0); err != nil {
				return nil, fmt.Errorf("%s fills %s: %w", fg.nodes[i], c, err)
			}
		}
	}
	return fg, nil
}

// sorted orders the nodes so that each precedes the nodes it fills.
func (fg *fillGraph) sorted() ([]node, error) {
	ids, err := dfs.TopologicalSort(fg.graph)
	if errors.Is(err, dfs.ErrCycleDetected) {
		return nil, fmt.Errorf("%w: %s", ErrFillCycle, fg.cycleHint())
	}
	if err != nil {
		return nil, err
	}
	out := make([]node, len(ids))
	for i, id := range ids {
		n, err := fg.node(id)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// cycleHint names the nodes along one fill cycle.
func (fg *fillGraph) cycleHint() string {
	found, cycles, err := dfs.DetectCycles(fg.graph)
	if err != nil || !found || len(cycles) == 0 {
		return "a universe fills one of its ancestors"
	}
	names := make([]string, 0, len(cycles[0]))
	for _, id := range cycles[0] {
		n, err := fg.node(id)
		if err != nil {
			return id
		}
		names = append(names, n.String())
	}
	return strings.Join(names, " -> ")
}

func (fg *fillGraph) node(id string) (node, error) {
	k, err := strconv.Atoi(id)
	if err != nil || k < 0 || k >= len(fg.nodes) {
		return node{}, fmt.Errorf("fill graph vertex %q out of range", id)
	}
	return fg.nodes[k], nil
}

// fillOrder returns the reachable universes and lattices with every node
// before the nodes it fills.
func (g *Geometry) fillOrder() ([]node, error) {
	fg, err := newFillGraph(g.Root)
	if err != nil {
		return nil, err
	}
	return fg.sorted()
}

// reachable lists every reachable node. It is the fill order when the graph
// is acyclic and the discovery order otherwise.
func (g *Geometry) reachable() []node {
	fg, err := newFillGraph(g.Root)
	if err != nil {
		return nil
	}
	if order, err := fg.sorted(); err == nil {
		return order
	}
	return fg.nodes
}
