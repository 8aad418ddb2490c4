package encoding

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/template"

	"go.interactor.dev/blastradius"
)

//go:embed assets
var assets embed.FS

var pageTemplate = template.Must(template.ParseFS(assets, "assets/page.html.tmpl"))

// StaticFS returns the bundled viewer assets, rooted at the assets directory,
// for serving under /static.
func StaticFS() fs.FS {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(fmt.Errorf("bundled assets missing: %w", err))
	}
	return sub
}

// RenderPage renders the self-contained interactive page with the graph
// document embedded. The page needs no server; all data and styling is
// inlined, only the d3 library is fetched from its CDN.
func RenderPage(g *blastradius.Graph) ([]byte, error) {
	doc := FromGraph(g)
	graphJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling graph document: %w", err)
	}

	styles, err := assets.ReadFile("assets/style.css")
	if err != nil {
		return nil, fmt.Errorf("reading bundled stylesheet: %w", err)
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, struct {
		Styles    string
		GraphJSON string
	}{
		Styles:    string(styles),
		GraphJSON: string(graphJSON),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering page template: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteHTML writes the interactive page for g to path, creating parent
// directories as needed.
func WriteHTML(g *blastradius.Graph, path string) error {
	page, err := RenderPage(g)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := os.WriteFile(path, page, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
