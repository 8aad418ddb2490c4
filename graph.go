package blastradius

// Node is one declared record in the dependency graph.
type Node struct {
	ID string
	// Label is the instance name shown to the user.
	Label string
	Kind  Kind
	// Type is the declared resource or data source type, empty for modules.
	Type string
	File string
}

// Edge points from a dependency to the record depending on it.
type Edge struct {
	From string
	To   string
}

// Graph is a directed dependency graph over the scanned records. It is
// immutable after [BuildGraph] and safe for concurrent readers.
type Graph struct {
	nodes []*Node
	byID  map[string]*Node
	edges []Edge
}

// BuildGraph assembles the dependency graph from a scanned configuration.
// Nodes appear in declaration order (resources, then data sources, then
// modules). An edge is added only when both endpoints exist as nodes, so
// dangling references disappear here.
func BuildGraph(cfg *Config) *Graph {
	g := &Graph{byID: map[string]*Node{}}

	for _, rec := range cfg.Resources {
		g.addNode(rec)
	}
	for _, rec := range cfg.DataSources {
		g.addNode(rec)
	}
	for _, rec := range cfg.Modules {
		g.addNode(rec)
	}

	edgeSeen := map[Edge]struct{}{}
	addEdges := func(records []*Record) {
		for _, rec := range records {
			for _, dep := range rec.Dependencies {
				if _, ok := g.byID[dep]; !ok {
					continue
				}
				edge := Edge{From: dep, To: rec.Name}
				if _, ok := edgeSeen[edge]; ok {
					continue
				}
				edgeSeen[edge] = struct{}{}
				g.edges = append(g.edges, edge)
			}
		}
	}
	addEdges(cfg.Resources)
	addEdges(cfg.DataSources)
	addEdges(cfg.Modules)

	return g
}

func (g *Graph) addNode(rec *Record) {
	node := &Node{
		ID:    rec.Name,
		Label: rec.Label,
		Kind:  rec.Kind,
		Type:  rec.Type,
		File:  rec.File,
	}
	g.nodes = append(g.nodes, node)
	g.byID[rec.Name] = node
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// Node returns the node with the given qualified name.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}
