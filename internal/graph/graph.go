// Package graph defines the collaboration graph and the shortest-path tree types.
package graph

import (
	"errors"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// Label is the set of shared contexts (movies) carried by an edge.
type Label = mapset.Set[string]

// NewLabel returns an empty label containing the given contexts.
func NewLabel(contexts ...string) Label {
	return mapset.NewThreadUnsafeSet[string](contexts...)
}

// SortedLabel returns the contexts of a label in ascending order.
func SortedLabel(l Label) []string {
	if l == nil {
		return nil
	}
	out := l.ToSlice()
	sort.Strings(out)
	return out
}

// Graph errors.
var (
	ErrEdgeNotFound   = errors.New("edge not found")
	ErrVertexNotFound = errors.New("vertex not found")
	ErrSelfLoop       = errors.New("edge endpoints cannot be the same")
	ErrParentExists   = errors.New("tree vertex already has a parent")
)

// Traversable is the read-only capability shared by the undirected graph and
// the shortest-path tree.
type Traversable interface {
	HasVertex(v string) bool
	HasEdge(from, to string) bool
	Vertices() mapset.Set[string]
	NumVertices() int
	OutNeighbors(v string) []string
	InNeighbors(v string) []string
	OutDegree(v string) int
	Label(from, to string) (Label, error)
}

// pair is the canonical key of an undirected edge: lo < hi.
type pair struct {
	lo, hi string
}

func pairOf(a, b string) pair {
	if a < b {
		return pair{lo: a, hi: b}
	}
	return pair{lo: b, hi: a}
}

// Undirected is a simple undirected graph whose edges carry a Label.
//
// Each edge's label lives once in an edge-indexed store, so both traversal
// directions observe the same set. The graph is not safe for concurrent
// mutation; once built it may be shared by any number of readers.
type Undirected struct {
	adj    map[string]map[string]struct{}
	labels map[pair]Label
}

// NewUndirected returns an empty undirected graph.
func NewUndirected() *Undirected {
	return &Undirected{
		adj:    make(map[string]map[string]struct{}),
		labels: make(map[pair]Label),
	}
}

// InsertVertex adds v if it is absent.
func (g *Undirected) InsertVertex(v string) {
	if _, ok := g.adj[v]; ok {
		return
	}
	g.adj[v] = make(map[string]struct{})
}

// HasVertex reports whether v is in the graph.
func (g *Undirected) HasVertex(v string) bool {
	_, ok := g.adj[v]
	return ok
}

// HasEdge reports whether a and b are adjacent.
func (g *Undirected) HasEdge(a, b string) bool {
	_, ok := g.labels[pairOf(a, b)]
	return ok && a != b
}

// InsertUndirected connects a and b with label, inserting missing endpoints.
// An existing edge is left untouched, including its label; callers that need
// to accumulate contexts fetch the label with Label and add to it.
func (g *Undirected) InsertUndirected(a, b string, label Label) error {
	if a == b {
		return ErrSelfLoop
	}
	if g.HasEdge(a, b) {
		return nil
	}
	if label == nil {
		label = NewLabel()
	}
	g.InsertVertex(a)
	g.InsertVertex(b)
	g.adj[a][b] = struct{}{}
	g.adj[b][a] = struct{}{}
	g.labels[pairOf(a, b)] = label
	return nil
}

// Label returns the label shared by the edge between a and b.
func (g *Undirected) Label(a, b string) (Label, error) {
	if a == b {
		return nil, ErrEdgeNotFound
	}
	l, ok := g.labels[pairOf(a, b)]
	if !ok {
		return nil, ErrEdgeNotFound
	}
	return l, nil
}

// OutNeighbors returns the vertices adjacent to v, in no particular order.
func (g *Undirected) OutNeighbors(v string) []string {
	nbrs := g.adj[v]
	out := make([]string, 0, len(nbrs))
	for n := range nbrs {
		out = append(out, n)
	}
	return out
}

// InNeighbors is identical to OutNeighbors for an undirected graph.
func (g *Undirected) InNeighbors(v string) []string {
	return g.OutNeighbors(v)
}

// OutDegree returns the number of neighbors of v (0 if absent).
func (g *Undirected) OutDegree(v string) int {
	return len(g.adj[v])
}

// Vertices returns a new set holding every vertex.
func (g *Undirected) Vertices() mapset.Set[string] {
	s := mapset.NewThreadUnsafeSet[string]()
	for v := range g.adj {
		s.Add(v)
	}
	return s
}

// NumVertices returns the number of vertices.
func (g *Undirected) NumVertices() int {
	return len(g.adj)
}

// NumEdges returns the number of undirected edges.
func (g *Undirected) NumEdges() int {
	return len(g.labels)
}
