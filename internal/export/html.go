package export

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/matsen/costar/internal/graph"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate = template.Must(template.New("tree").Parse(htmlTemplate))

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Layout string // "tree", "force", or "circle"
	Title  string
}

// ValidLayouts lists the supported layout names.
var ValidLayouts = []string{"tree", "force", "circle"}

type templateData struct {
	Title     string
	Root      string
	GraphJSON template.JS
	Layout    string
}

// WriteHTML writes a self-contained page that draws t with Cytoscape.js.
func WriteHTML(w io.Writer, t *graph.Tree, opts HTMLOptions) error {
	layout, err := layoutToCytoscape(opts.Layout)
	if err != nil {
		return err
	}

	elements, err := Cytoscape(t)
	if err != nil {
		return err
	}
	graphJSON, err := json.Marshal(elements)
	if err != nil {
		return fmt.Errorf("marshaling Cytoscape elements to JSON: %w", err)
	}

	title := opts.Title
	if title == "" {
		title = "Shortest paths to " + t.Root()
	}

	data := templateData{
		Title:     title,
		Root:      t.Root(),
		GraphJSON: template.JS(graphJSON),
		Layout:    layout,
	}
	if err := compiledTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("rendering HTML: %w", err)
	}
	return nil
}

// layoutToCytoscape converts layout names to Cytoscape.js layout algorithm names.
func layoutToCytoscape(layout string) (string, error) {
	switch layout {
	case "", "tree":
		return "breadthfirst", nil
	case "force":
		return "cose", nil
	case "circle":
		return "concentric", nil
	default:
		return "", fmt.Errorf("invalid layout %q: must be tree, force, or circle", layout)
	}
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <script src="https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"></script>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
    }
    #cy {
      width: 100vw;
      height: 100vh;
    }
    #info {
      position: absolute;
      top: 10px;
      left: 10px;
      background: rgba(255, 255, 255, 0.9);
      padding: 8px 12px;
      border-radius: 4px;
      font-size: 13px;
    }
  </style>
</head>
<body>
  <div id="cy"></div>
  <div id="info">{{.Title}}</div>
  <script>
    (function() {
      const graphData = {{.GraphJSON}};
      const layout = {{.Layout}};
      const root = {{.Root}};

      const cy = cytoscape({
        container: document.getElementById('cy'),
        elements: graphData,
        style: [
          {
            selector: 'node',
            style: {
              'background-color': '#4A90D9',
              'label': 'data(label)',
              'font-size': '10px',
              'text-valign': 'bottom',
              'text-margin-y': '5px',
              'width': 'mapData(children, 0, 20, 20, 50)',
              'height': 'mapData(children, 0, 20, 20, 50)'
            }
          },
          {
            selector: 'node[?center]',
            style: {
              'background-color': '#E8923A',
              'shape': 'star',
              'width': '50px',
              'height': '50px'
            }
          },
          {
            selector: 'edge',
            style: {
              'width': 1.5,
              'line-color': '#bbb',
              'target-arrow-color': '#bbb',
              'target-arrow-shape': 'triangle',
              'curve-style': 'bezier'
            }
          }
        ],
        layout: layout === 'breadthfirst'
          ? { name: layout, directed: true, roots: [root] }
          : layout === 'concentric'
            ? { name: layout, concentric: n => -n.data('separation'), levelWidth: () => 1 }
            : { name: layout }
      });

      const info = document.getElementById('info');
      cy.on('mouseover', 'node', e => {
        const d = e.target.data();
        info.textContent = d.label + ' (separation ' + d.separation + ')';
      });
      cy.on('mouseover', 'edge', e => {
        const d = e.target.data();
        info.textContent = d.source + ' appeared in [' + d.label + '] with ' + d.target;
      });
    })();
  </script>
</body>
</html>
`
