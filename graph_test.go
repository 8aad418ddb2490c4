package blastradius

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGraphNodesAndEdges(t *testing.T) {
	cfg := &Config{
		Resources: []*Record{
			{Name: "aws_instance.web", Kind: KindResource, Type: "aws_instance", Label: "web", File: "main.tf",
				Dependencies: []string{"data.aws_ami.ubuntu", "module.vpc"}},
		},
		DataSources: []*Record{
			{Name: "data.aws_ami.ubuntu", Kind: KindData, Type: "aws_ami", Label: "ubuntu", File: "main.tf"},
		},
		Modules: []*Record{
			{Name: "module.vpc", Kind: KindModule, Label: "vpc", File: "main.tf",
				Dependencies: []string{"./modules/vpc"}},
		},
	}

	g := BuildGraph(cfg)

	require.Equal(t, 3, g.NodeCount())
	assert.Equal(t, "aws_instance.web", g.Nodes()[0].ID)
	assert.Equal(t, "data.aws_ami.ubuntu", g.Nodes()[1].ID)
	assert.Equal(t, "module.vpc", g.Nodes()[2].ID)

	// edges point from the dependency to the dependent; the module source
	// string has no matching node and is dropped
	require.Equal(t, 2, g.EdgeCount())
	assert.Equal(t, Edge{From: "data.aws_ami.ubuntu", To: "aws_instance.web"}, g.Edges()[0])
	assert.Equal(t, Edge{From: "module.vpc", To: "aws_instance.web"}, g.Edges()[1])

	node, ok := g.Node("data.aws_ami.ubuntu")
	require.True(t, ok)
	assert.Equal(t, KindData, node.Kind)
	assert.Equal(t, "aws_ami", node.Type)

	_, ok = g.Node("nope")
	assert.False(t, ok)
}

func TestBuildGraphDanglingReferencesDropped(t *testing.T) {
	cfg := &Config{
		Resources: []*Record{
			{Name: "aws_instance.web", Kind: KindResource, Type: "aws_instance", Label: "web",
				Dependencies: []string{"data.aws_ami.missing", "module.gone"}},
		},
	}

	g := BuildGraph(cfg)
	assert.Equal(t, 1, g.NodeCount())
	assert.Zero(t, g.EdgeCount())
}

func TestBuildGraphDuplicateEdgesCollapse(t *testing.T) {
	cfg := &Config{
		Resources: []*Record{
			{Name: "aws_instance.web", Kind: KindResource, Type: "aws_instance", Label: "web",
				Dependencies: []string{"module.vpc", "module.vpc"}},
		},
		Modules: []*Record{
			{Name: "module.vpc", Kind: KindModule, Label: "vpc"},
		},
	}

	g := BuildGraph(cfg)
	assert.Equal(t, 1, g.EdgeCount())
}

func TestBuildGraphDeterministic(t *testing.T) {
	cfg := &Config{
		Resources: []*Record{
			{Name: "aws_vpc.main", Kind: KindResource, Type: "aws_vpc", Label: "main"},
			{Name: "aws_subnet.a", Kind: KindResource, Type: "aws_subnet", Label: "a",
				Dependencies: []string{"data.aws_ami.x", "module.m"}},
		},
		DataSources: []*Record{
			{Name: "data.aws_ami.x", Kind: KindData, Type: "aws_ami", Label: "x"},
		},
		Modules: []*Record{
			{Name: "module.m", Kind: KindModule, Label: "m"},
		},
	}

	first := BuildGraph(cfg)
	second := BuildGraph(cfg)
	assert.Equal(t, first.Nodes(), second.Nodes())
	assert.Equal(t, first.Edges(), second.Edges())
}

// End-to-end check of the documented extraction gap: a same-type resource
// attribute reference (no data./module. prefix) does not produce an edge even
// though the referenced resource exists.
func TestScanAndBuildGraphKnownResourceReferenceGap(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.tf", `
resource "aws_vpc" "main" {
  cidr_block = "10.0.0.0/16"
}

resource "aws_subnet" "main" {
  vpc_id     = aws_vpc.main.id
  cidr_block = "10.0.1.0/24"
}
`)

	s := NewScanner(testLogger(), nil)
	cfg, err := s.Scan(dir)
	require.NoError(t, err)

	subnet := cfg.Resources[1]
	require.Equal(t, "aws_subnet.main", subnet.Name)
	assert.Empty(t, subnet.Dependencies)

	g := BuildGraph(cfg)
	assert.Equal(t, 2, g.NodeCount())
	assert.Zero(t, g.EdgeCount())
}

// Legacy quoted references, "${...}" around a sole interpolation, must be
// captured by the strip rule. A quoted reference carrying an attribute path
// is still recorded but matches no node and produces no edge.
func TestScanAndBuildGraphQuotedInterpolationEdge(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.tf", `
data "aws_ami" "ubuntu" {
  most_recent = true
}

resource "aws_instance" "web" {
  ami = "${data.aws_ami.ubuntu}"
}

resource "aws_instance" "api" {
  ami = "${data.aws_ami.ubuntu.id}"
}
`)

	s := NewScanner(testLogger(), nil)
	cfg, err := s.Scan(dir)
	require.NoError(t, err)

	web := cfg.Resources[0]
	require.Equal(t, "aws_instance.web", web.Name)
	assert.Equal(t, []string{"data.aws_ami.ubuntu"}, web.Dependencies)

	api := cfg.Resources[1]
	require.Equal(t, "aws_instance.api", api.Name)
	assert.Equal(t, []string{"data.aws_ami.ubuntu.id"}, api.Dependencies)

	g := BuildGraph(cfg)
	require.Equal(t, 3, g.NodeCount())
	require.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, Edge{From: "data.aws_ami.ubuntu", To: "aws_instance.web"}, g.Edges()[0])
}

func TestScanAndBuildGraphDataReferenceEdge(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.tf", `
data "aws_ami" "ubuntu" {
  most_recent = true
}

resource "aws_instance" "web" {
  ami = data.aws_ami.ubuntu
}
`)

	s := NewScanner(testLogger(), nil)
	cfg, err := s.Scan(dir)
	require.NoError(t, err)

	g := BuildGraph(cfg)
	require.Equal(t, 2, g.NodeCount())
	require.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, Edge{From: "data.aws_ami.ubuntu", To: "aws_instance.web"}, g.Edges()[0])
}
