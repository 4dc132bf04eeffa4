// Package export renders shortest-path trees for external tools.
package export

import (
	"fmt"
	"io"
	"strings"

	dgraph "github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/matsen/costar/internal/graph"
)

// WriteDOT writes t to w in Graphviz DOT format. Every edge points from an
// actor toward the center and is labeled with the movies they share.
func WriteDOT(w io.Writer, t *graph.Tree) error {
	d := dgraph.New(dgraph.StringHash, dgraph.Directed())

	for _, v := range t.Order() {
		id := dotEscape(v)
		if err := d.AddVertex(id, dgraph.VertexAttribute("label", id)); err != nil {
			return fmt.Errorf("adding vertex %q: %w", v, err)
		}
	}

	for _, v := range t.Order() {
		parent, ok := t.Parent(v)
		if !ok {
			continue
		}
		label, err := t.Label(v, parent)
		if err != nil {
			return fmt.Errorf("edge %q -> %q: %w", v, parent, err)
		}
		movies := dotEscape(strings.Join(graph.SortedLabel(label), ", "))
		if err := d.AddEdge(dotEscape(v), dotEscape(parent), dgraph.EdgeAttribute("label", movies)); err != nil {
			return fmt.Errorf("adding edge %q -> %q: %w", v, parent, err)
		}
	}

	if err := draw.DOT(d, w); err != nil {
		return fmt.Errorf("rendering DOT: %w", err)
	}
	return nil
}

// dotEscape escapes s for use inside a quoted DOT ID. Backslashes go first so
// the ones added for quotes are not doubled.
func dotEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
