package encoding

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.interactor.dev/blastradius"
)

// dotBinary is the Graphviz layout engine invoked for image rendering.
const dotBinary = "dot"

// RenderImage lays out the graph with Graphviz and writes the result to path.
// Format must be "svg" or "png". The dot binary must be on PATH; a missing
// binary or a failed invocation is returned as an error, there are no
// retries.
func RenderImage(ctx context.Context, g *blastradius.Graph, format, path string) error {
	switch format {
	case "svg", "png":
	default:
		return fmt.Errorf("unsupported image format: %q", format)
	}

	encoded, err := MarshalDOT(g)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, dotBinary, "-T"+format, "-o", path)
	cmd.Stdin = bytes.NewReader(encoded)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s -T%s: %w: %s", dotBinary, format, err, stderr.String())
	}

	return nil
}
