package encoding

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.interactor.dev/blastradius"
)

func TestMarshalDOT(t *testing.T) {
	g := testGraph(t)

	encoded, err := MarshalDOT(g)
	require.NoError(t, err)
	out := string(encoded)

	assert.True(t, strings.HasPrefix(out, "digraph blastradius {"))
	assert.Contains(t, out, `rankdir=TB`)

	assert.Contains(t, out, `"aws_instance.web"`)
	assert.Contains(t, out, `"data.aws_ami.ubuntu"`)
	assert.Contains(t, out, `"module.vpc"`)

	assert.Contains(t, out, `"data.aws_ami.ubuntu" -> "aws_instance.web"`)
	assert.Contains(t, out, `"module.vpc" -> "aws_instance.web"`)

	// per-kind styling
	assert.Contains(t, out, `color="#4CAF50"`)
	assert.Contains(t, out, `color="#2196F3"`)
	assert.Contains(t, out, `color="#FF9800"`)
	assert.Contains(t, out, `shape=diamond`)
	assert.Contains(t, out, `style=filled`)
}

func TestMarshalDOTIsolatedNodesKept(t *testing.T) {
	cfg := &blastradius.Config{
		Resources: []*blastradius.Record{
			{Name: "aws_vpc.main", Kind: blastradius.KindResource, Type: "aws_vpc", Label: "main"},
		},
	}

	encoded, err := MarshalDOT(blastradius.BuildGraph(cfg))
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"aws_vpc.main"`)
}
