package graph

import mapset "github.com/deckarep/golang-set/v2"

// Tree is a directed graph in which every vertex but the root points at its
// parent. It is produced by a breadth-first search and discarded after use.
type Tree struct {
	root     string
	order    []string
	parent   map[string]string
	labels   map[string]Label // label of the edge v -> parent[v]
	children map[string][]string
}

// NewTree returns an empty tree. The first vertex inserted becomes the root.
func NewTree() *Tree {
	return &Tree{
		parent:   make(map[string]string),
		labels:   make(map[string]Label),
		children: make(map[string][]string),
	}
}

// Root returns the root vertex, or "" for an empty tree.
func (t *Tree) Root() string {
	return t.root
}

// InsertVertex adds v if it is absent.
func (t *Tree) InsertVertex(v string) {
	if t.HasVertex(v) {
		return
	}
	if len(t.order) == 0 {
		t.root = v
	}
	t.order = append(t.order, v)
	t.children[v] = nil
}

// InsertDirected adds the edge from -> to. Both endpoints must already be in
// the tree and from may have at most one outgoing edge.
func (t *Tree) InsertDirected(from, to string, label Label) error {
	if from == to {
		return ErrSelfLoop
	}
	if !t.HasVertex(from) || !t.HasVertex(to) {
		return ErrVertexNotFound
	}
	if p, ok := t.parent[from]; ok {
		if p == to {
			return nil
		}
		return ErrParentExists
	}
	t.parent[from] = to
	t.labels[from] = label
	t.children[to] = append(t.children[to], from)
	return nil
}

// Parent returns the vertex v points at. The root and absent vertices have none.
func (t *Tree) Parent(v string) (string, bool) {
	p, ok := t.parent[v]
	return p, ok
}

// HasVertex reports whether v is in the tree.
func (t *Tree) HasVertex(v string) bool {
	_, ok := t.children[v]
	return ok
}

// HasEdge reports whether the directed edge from -> to exists.
func (t *Tree) HasEdge(from, to string) bool {
	p, ok := t.parent[from]
	return ok && p == to
}

// Label returns the label of the directed edge from -> to.
func (t *Tree) Label(from, to string) (Label, error) {
	if !t.HasEdge(from, to) {
		return nil, ErrEdgeNotFound
	}
	return t.labels[from], nil
}

// OutNeighbors returns the parent of v as a zero- or one-element slice.
func (t *Tree) OutNeighbors(v string) []string {
	if p, ok := t.parent[v]; ok {
		return []string{p}
	}
	return nil
}

// InNeighbors returns the children of v in discovery order.
func (t *Tree) InNeighbors(v string) []string {
	kids := t.children[v]
	out := make([]string, len(kids))
	copy(out, kids)
	return out
}

// OutDegree is 1 for every vertex except the root and absent vertices.
func (t *Tree) OutDegree(v string) int {
	if _, ok := t.parent[v]; ok {
		return 1
	}
	return 0
}

// Vertices returns a new set holding every vertex in the tree.
func (t *Tree) Vertices() mapset.Set[string] {
	return mapset.NewThreadUnsafeSet[string](t.order...)
}

// Order returns the vertices in insertion (discovery) order.
func (t *Tree) Order() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// NumVertices returns the number of vertices in the tree.
func (t *Tree) NumVertices() int {
	return len(t.order)
}
