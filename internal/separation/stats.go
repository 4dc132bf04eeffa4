package separation

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/matsen/costar/internal/graph"
)

// Path returns the vertices from v up to the root of t, both inclusive.
// It returns an empty slice when v is not in the tree.
//
// A walk that revisits a vertex means the tree is corrupt; Path panics
// rather than loop forever.
func Path(t *graph.Tree, v string) []string {
	path := []string{}
	if !t.HasVertex(v) {
		return path
	}

	seen := make(map[string]struct{}, 8)
	for {
		if _, dup := seen[v]; dup {
			panic(fmt.Sprintf("separation: cycle at %q while walking shortest-path tree", v))
		}
		seen[v] = struct{}{}
		path = append(path, v)

		parent, ok := t.Parent(v)
		if !ok {
			return path
		}
		v = parent
	}
}

// Distance returns the number of edges between v and the root of t.
func Distance(t *graph.Tree, v string) (int, bool) {
	p := Path(t, v)
	if len(p) == 0 {
		return 0, false
	}
	return len(p) - 1, true
}

// MissingVertices returns the vertices of g that are absent from sub. For a
// shortest-path tree this is the set of vertices unreachable from its root.
func MissingVertices(g, sub graph.Traversable) mapset.Set[string] {
	return g.Vertices().Difference(sub.Vertices())
}

// TotalSeparation sums the distance from root of every vertex below it,
// walking incoming tree edges one level at a time.
func TotalSeparation(t *graph.Tree, root string) int {
	if !t.HasVertex(root) {
		return 0
	}

	total := 0
	level := t.InNeighbors(root)
	for depth := 1; len(level) > 0; depth++ {
		var next []string
		for _, v := range level {
			total += depth
			next = append(next, t.InNeighbors(v)...)
		}
		level = next
	}
	return total
}

// AverageSeparation returns the mean distance to root over all other vertices
// of t. A tree with at most one vertex has an average of 0.
func AverageSeparation(t *graph.Tree, root string) float64 {
	others := t.NumVertices() - 1
	if others <= 0 || !t.HasVertex(root) {
		return 0
	}
	return float64(TotalSeparation(t, root)) / float64(others)
}

// Separations maps every vertex of t to its distance from the root.
func Separations(t *graph.Tree) map[string]int {
	out := make(map[string]int, t.NumVertices())
	if t.NumVertices() == 0 {
		return out
	}

	root := t.Root()
	out[root] = 0
	level := t.InNeighbors(root)
	for depth := 1; len(level) > 0; depth++ {
		var next []string
		for _, v := range level {
			out[v] = depth
			next = append(next, t.InNeighbors(v)...)
		}
		level = next
	}
	return out
}
