package separation

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	dgraph "github.com/dominikbraun/graph"

	"github.com/matsen/costar/internal/graph"
)

// castOf builds a context -> participants mapping from literal entries.
func castOf(entries map[string][]string) map[string]mapset.Set[string] {
	out := make(map[string]mapset.Set[string], len(entries))
	for movie, actors := range entries {
		out[movie] = mapset.NewSet[string](actors...)
	}
	return out
}

// pathGraph returns the graph A-B-C-D with one movie per edge.
func pathGraph() *graph.Undirected {
	return graph.Build(castOf(map[string][]string{
		"AB": {"A", "B"},
		"BC": {"B", "C"},
		"CD": {"C", "D"},
	}))
}

// randomGraph builds a reproducible graph of small random movies.
func randomGraph(seed int64, actors, movies, maxCast int) *graph.Undirected {
	rng := rand.New(rand.NewSource(seed))
	entries := make(map[string][]string, movies)
	for m := 0; m < movies; m++ {
		size := 1 + rng.Intn(maxCast)
		cast := make([]string, size)
		for i := range cast {
			cast[i] = fmt.Sprintf("actor-%02d", rng.Intn(actors))
		}
		entries[fmt.Sprintf("movie-%02d", m)] = cast
	}
	return graph.Build(castOf(entries))
}

// oracle copies g into a unit-weighted dominikbraun graph.
func oracle(t *testing.T, g *graph.Undirected) dgraph.Graph[string, string] {
	t.Helper()
	o := dgraph.New(dgraph.StringHash, dgraph.Weighted())
	for _, v := range g.Vertices().ToSlice() {
		if err := o.AddVertex(v); err != nil {
			t.Fatalf("oracle AddVertex(%q): %v", v, err)
		}
	}
	for _, v := range g.Vertices().ToSlice() {
		for _, n := range g.OutNeighbors(v) {
			if v > n {
				continue
			}
			if err := o.AddEdge(v, n, dgraph.EdgeWeight(1)); err != nil {
				t.Fatalf("oracle AddEdge(%q,%q): %v", v, n, err)
			}
		}
	}
	return o
}

func TestShortestPathTree_AbsentRoot(t *testing.T) {
	tree := ShortestPathTree(pathGraph(), "Z")
	if tree.NumVertices() != 0 {
		t.Errorf("NumVertices() = %d, want 0", tree.NumVertices())
	}
}

func TestShortestPathTree_TreeInvariants(t *testing.T) {
	g := randomGraph(7, 30, 25, 4)

	for _, root := range g.Vertices().ToSlice() {
		tree := ShortestPathTree(g, root)

		if tree.Root() != root {
			t.Fatalf("Root() = %q, want %q", tree.Root(), root)
		}
		if tree.OutDegree(root) != 0 {
			t.Errorf("root %q has out-degree %d", root, tree.OutDegree(root))
		}
		for _, v := range tree.Order() {
			if v == root {
				continue
			}
			if tree.OutDegree(v) != 1 {
				t.Errorf("vertex %q has out-degree %d, want 1", v, tree.OutDegree(v))
			}
			parent, _ := tree.Parent(v)
			treeLabel, err := tree.Label(v, parent)
			if err != nil {
				t.Fatalf("tree.Label(%q,%q): %v", v, parent, err)
			}
			graphLabel, err := g.Label(parent, v)
			if err != nil {
				t.Fatalf("tree edge %q->%q is not a graph edge", v, parent)
			}
			if !treeLabel.Equal(graphLabel) {
				t.Errorf("tree label %v != graph label %v", graph.SortedLabel(treeLabel), graph.SortedLabel(graphLabel))
			}
		}
	}
}

func TestShortestPathTree_DistancesMatchOracle(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			g := randomGraph(seed, 25, 20, 4)
			o := oracle(t, g)
			vertices := g.Vertices().ToSlice()
			sort.Strings(vertices)
			root := vertices[0]

			tree := ShortestPathTree(g, root)
			for _, v := range vertices {
				want, err := dgraph.ShortestPath(o, root, v)
				if err != nil {
					if tree.HasVertex(v) {
						t.Errorf("%q is in the tree but oracle says unreachable: %v", v, err)
					}
					continue
				}
				got, ok := Distance(tree, v)
				if !ok {
					t.Errorf("%q is reachable but missing from tree", v)
					continue
				}
				if got != len(want)-1 {
					t.Errorf("Distance(%q) = %d, want %d (oracle path %v)", v, got, len(want)-1, want)
				}
			}
		})
	}
}

func TestShortestPathTree_ScenarioThreeActors(t *testing.T) {
	g := graph.Build(castOf(map[string][]string{
		"M1": {"A", "B", "C"},
		"M2": {"A", "B"},
	}))

	tree := ShortestPathTree(g, "A")
	if tree.Root() != "A" {
		t.Fatalf("Root() = %q, want A", tree.Root())
	}
	for _, v := range []string{"B", "C"} {
		if d, ok := Distance(tree, v); !ok || d != 1 {
			t.Errorf("Distance(%q) = %d,%v, want 1,true", v, d, ok)
		}
	}
	label, err := tree.Label("B", "A")
	if err != nil {
		t.Fatalf("tree.Label(B,A): %v", err)
	}
	if got := graph.SortedLabel(label); len(got) != 2 || got[0] != "M1" || got[1] != "M2" {
		t.Errorf("tree label B->A = %v, want [M1 M2]", got)
	}
	if got := AverageSeparation(tree, "A"); got != 1.0 {
		t.Errorf("AverageSeparation = %v, want 1.0", got)
	}
}
