package encoding

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.interactor.dev/blastradius"
)

func testGraph(t *testing.T) *blastradius.Graph {
	t.Helper()

	cfg := &blastradius.Config{
		Resources: []*blastradius.Record{
			{Name: "aws_instance.web", Kind: blastradius.KindResource, Type: "aws_instance", Label: "web", File: "main.tf",
				Dependencies: []string{"data.aws_ami.ubuntu", "module.vpc"}},
		},
		DataSources: []*blastradius.Record{
			{Name: "data.aws_ami.ubuntu", Kind: blastradius.KindData, Type: "aws_ami", Label: "ubuntu", File: "main.tf"},
		},
		Modules: []*blastradius.Record{
			{Name: "module.vpc", Kind: blastradius.KindModule, Label: "vpc", File: "modules.tf"},
		},
	}
	return blastradius.BuildGraph(cfg)
}

func TestFromGraph(t *testing.T) {
	g := testGraph(t)
	doc := FromGraph(g)

	require.Len(t, doc.Nodes, g.NodeCount())
	require.Len(t, doc.Links, g.EdgeCount())

	web := doc.Nodes[0]
	assert.Equal(t, "aws_instance.web", web.ID)
	assert.Equal(t, "web", web.Name)
	assert.Equal(t, "resource", web.Type)
	assert.Equal(t, "aws_instance", web.ResourceType)
	assert.Equal(t, "main.tf", web.File)
	assert.Equal(t, 1, web.Group)

	assert.Equal(t, 2, doc.Nodes[1].Group)
	assert.Equal(t, 3, doc.Nodes[2].Group)
	assert.Empty(t, doc.Nodes[2].ResourceType)

	for _, link := range doc.Links {
		assert.Equal(t, 1, link.Value)
	}
	assert.Equal(t, "data.aws_ami.ubuntu", doc.Links[0].Source)
	assert.Equal(t, "aws_instance.web", doc.Links[0].Target)
}

func TestWriteJSONRoundTrip(t *testing.T) {
	g := testGraph(t)
	path := filepath.Join(t.TempDir(), "out", "graph.json")

	require.NoError(t, WriteJSON(g, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc Graph
	require.NoError(t, json.Unmarshal(raw, &doc))

	require.Len(t, doc.Nodes, g.NodeCount())
	require.Len(t, doc.Links, g.EdgeCount())

	want := FromGraph(g)
	for i, node := range doc.Nodes {
		assert.Equal(t, want.Nodes[i].ID, node.ID)
		assert.Equal(t, want.Nodes[i].Type, node.Type)
		assert.Equal(t, want.Nodes[i].Group, node.Group)
	}
}

func TestNodeStyleTotality(t *testing.T) {
	tests := []struct {
		kind  string
		color string
		shape string
		group int
	}{
		{kind: "resource", color: "#4CAF50", shape: "box", group: 1},
		{kind: "data", color: "#2196F3", shape: "ellipse", group: 2},
		{kind: "module", color: "#FF9800", shape: "diamond", group: 3},
		{kind: "unknown", color: "#9E9E9E", shape: "box", group: 0},
		{kind: "", color: "#9E9E9E", shape: "box", group: 0},
		{kind: "anything-else", color: "#9E9E9E", shape: "box", group: 0},
	}

	for _, tt := range tests {
		t.Run("kind "+tt.kind, func(t *testing.T) {
			assert.Equal(t, tt.color, nodeColor(tt.kind))
			assert.Equal(t, tt.shape, nodeShape(tt.kind))
			assert.Equal(t, tt.group, nodeGroup(tt.kind))
		})
	}
}
