package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/matsen/costar/internal/graph"
	"github.com/matsen/costar/internal/separation"
)

// CytoscapeElements represents the Cytoscape.js data format.
type CytoscapeElements struct {
	Nodes []CytoscapeNode `json:"nodes"`
	Edges []CytoscapeEdge `json:"edges"`
}

// CytoscapeNode represents an actor in Cytoscape.js format.
type CytoscapeNode struct {
	Data NodeData `json:"data"`
}

// NodeData describes one actor of the tree.
type NodeData struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Separation int    `json:"separation"`
	Center     bool   `json:"center"`
	Children   int    `json:"children"` // actors whose shortest path passes directly through this one
}

// CytoscapeEdge represents a tree edge in Cytoscape.js format.
type CytoscapeEdge struct {
	Data EdgeData `json:"data"`
}

// EdgeData describes one tree edge, pointing from an actor toward the center.
type EdgeData struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Label  string   `json:"label"`
	Movies []string `json:"movies"`
}

// Cytoscape converts t into Cytoscape.js elements. Nodes appear in
// breadth-first order from the root.
func Cytoscape(t *graph.Tree) (*CytoscapeElements, error) {
	seps := separation.Separations(t)
	order := t.Order()

	elements := &CytoscapeElements{
		Nodes: make([]CytoscapeNode, 0, len(order)),
		Edges: make([]CytoscapeEdge, 0, len(order)),
	}

	for _, v := range order {
		elements.Nodes = append(elements.Nodes, CytoscapeNode{Data: NodeData{
			ID:         v,
			Label:      v,
			Separation: seps[v],
			Center:     v == t.Root(),
			Children:   len(t.InNeighbors(v)),
		}})

		parent, ok := t.Parent(v)
		if !ok {
			continue
		}
		label, err := t.Label(v, parent)
		if err != nil {
			return nil, fmt.Errorf("edge %q -> %q: %w", v, parent, err)
		}
		movies := graph.SortedLabel(label)
		elements.Edges = append(elements.Edges, CytoscapeEdge{Data: EdgeData{
			ID:     edgeID(v, parent, len(elements.Edges)),
			Source: v,
			Target: parent,
			Label:  strings.Join(movies, ", "),
			Movies: movies,
		}})
	}

	return elements, nil
}

// WriteCytoscapeJSON writes t to w as Cytoscape.js JSON.
func WriteCytoscapeJSON(w io.Writer, t *graph.Tree) error {
	elements, err := Cytoscape(t)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(w).Encode(elements); err != nil {
		return fmt.Errorf("encoding Cytoscape elements: %w", err)
	}
	return nil
}

// edgeID generates an edge ID unique within one export.
func edgeID(source, target string, index int) string {
	return fmt.Sprintf("%s->%s#%d", source, target, index)
}
