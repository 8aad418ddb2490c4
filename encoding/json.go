package encoding

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.interactor.dev/blastradius"
)

// Graph is the d3-oriented JSON document describing a dependency graph.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Node is one graph node in the JSON document.
type Node struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	ResourceType string `json:"resource_type"`
	File         string `json:"file"`
	Group        int    `json:"group"`
}

// Link is one dependency edge in the JSON document.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Value  int    `json:"value"`
}

// FromGraph converts a dependency graph into its JSON document form.
func FromGraph(g *blastradius.Graph) Graph {
	out := Graph{
		Nodes: make([]Node, 0, g.NodeCount()),
		Links: make([]Link, 0, g.EdgeCount()),
	}

	for _, node := range g.Nodes() {
		out.Nodes = append(out.Nodes, Node{
			ID:           node.ID,
			Name:         node.Label,
			Type:         node.Kind.String(),
			ResourceType: node.Type,
			File:         node.File,
			Group:        nodeGroup(node.Kind.String()),
		})
	}

	for _, edge := range g.Edges() {
		out.Links = append(out.Links, Link{Source: edge.From, Target: edge.To, Value: 1})
	}

	return out
}

// WriteJSON writes the JSON document for g to path, creating parent
// directories as needed.
func WriteJSON(g *blastradius.Graph, path string) error {
	doc := FromGraph(g)

	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling graph document: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// nodeGroup maps a node kind to the d3 color group. Unrecognized kinds fall
// into group 0.
func nodeGroup(kind string) int {
	switch kind {
	case "resource":
		return 1
	case "data":
		return 2
	case "module":
		return 3
	default:
		return 0
	}
}

// nodeColor maps a node kind to its fill color.
func nodeColor(kind string) string {
	switch kind {
	case "resource":
		return "#4CAF50"
	case "data":
		return "#2196F3"
	case "module":
		return "#FF9800"
	default:
		return "#9E9E9E"
	}
}

// nodeShape maps a node kind to its Graphviz shape.
func nodeShape(kind string) string {
	switch kind {
	case "resource":
		return "box"
	case "data":
		return "ellipse"
	case "module":
		return "diamond"
	default:
		return "box"
	}
}
