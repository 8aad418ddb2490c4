package encoding

import (
	"fmt"

	"go.interactor.dev/blastradius"
	graphenc "gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/multi"
)

// MarshalDOT returns the graph represented in Graphviz DOT format, with nodes
// styled by kind so the rendered image matches the interactive page legend.
func MarshalDOT(g *blastradius.Graph) ([]byte, error) {
	dg := &dotGraph{DirectedGraph: multi.NewDirectedGraph()}

	byID := make(map[string]dotNode, g.NodeCount())
	for i, node := range g.Nodes() {
		n := dotNode{id: int64(i), node: node}
		byID[node.ID] = n
		dg.AddNode(n)
	}

	for _, edge := range g.Edges() {
		line := dg.NewLine(byID[edge.From], byID[edge.To])
		dg.SetLine(line)
	}

	bytes, err := dot.MarshalMulti(dg, "blastradius", "", "")
	if err != nil {
		return nil, fmt.Errorf("marshaling multigraph: %w", err)
	}

	return bytes, nil
}

type dotGraph struct {
	*multi.DirectedGraph
}

// DOTAttributers implements dot.Attributers to set graph-level layout
// attributes.
func (dotGraph) DOTAttributers() (graph, node, edge graphenc.Attributer) {
	return attributes{
		{Key: "rankdir", Value: "TB"},
		{Key: "comment", Value: "Terraform Dependency Graph"},
	}, attributes(nil), attributes(nil)
}

type attributes []graphenc.Attribute

// Attributes implements encoding.Attributer.
func (a attributes) Attributes() []graphenc.Attribute {
	return a
}

type dotNode struct {
	id   int64
	node *blastradius.Node
}

// ID implements graph.Node.
func (n dotNode) ID() int64 {
	return n.id
}

// DOTID implements dot.Node.
func (n dotNode) DOTID() string {
	return n.node.ID
}

// Attributes implements encoding.Attributer.
func (n dotNode) Attributes() []graphenc.Attribute {
	kind := n.node.Kind.String()
	return []graphenc.Attribute{
		{Key: "label", Value: n.node.Label},
		{Key: "style", Value: "filled"},
		{Key: "color", Value: nodeColor(kind)},
		{Key: "shape", Value: nodeShape(kind)},
	}
}
