package graph

import (
	"errors"
	"sort"
	"testing"
)

func sorted(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestUndirected_InsertVertexIdempotent(t *testing.T) {
	g := NewUndirected()
	g.InsertVertex("A")
	g.InsertVertex("A")

	if g.NumVertices() != 1 {
		t.Errorf("NumVertices() = %d, want 1", g.NumVertices())
	}
	if !g.HasVertex("A") {
		t.Error("HasVertex(A) = false, want true")
	}
	if g.HasVertex("B") {
		t.Error("HasVertex(B) = true, want false")
	}
}

func TestUndirected_InsertUndirected(t *testing.T) {
	g := NewUndirected()
	label := NewLabel("M1")
	if err := g.InsertUndirected("A", "B", label); err != nil {
		t.Fatalf("InsertUndirected failed: %v", err)
	}

	if !g.HasEdge("A", "B") || !g.HasEdge("B", "A") {
		t.Fatal("edge should be visible from both endpoints")
	}
	if g.NumEdges() != 1 {
		t.Errorf("NumEdges() = %d, want 1", g.NumEdges())
	}
	if g.NumVertices() != 2 {
		t.Errorf("NumVertices() = %d, want 2", g.NumVertices())
	}

	ab, err := g.Label("A", "B")
	if err != nil {
		t.Fatalf("Label(A,B) failed: %v", err)
	}
	ba, err := g.Label("B", "A")
	if err != nil {
		t.Fatalf("Label(B,A) failed: %v", err)
	}

	// Mutating one direction must be visible from the other.
	ab.Add("M2")
	if !ba.Contains("M2") {
		t.Error("label is not shared between directions")
	}
}

func TestUndirected_InsertUndirectedExistingEdgeKeepsLabel(t *testing.T) {
	g := NewUndirected()
	_ = g.InsertUndirected("A", "B", NewLabel("M1", "M2"))

	if err := g.InsertUndirected("B", "A", NewLabel("M3")); err != nil {
		t.Fatalf("second InsertUndirected failed: %v", err)
	}

	label, _ := g.Label("A", "B")
	got := SortedLabel(label)
	if !equalStrings(got, []string{"M1", "M2"}) {
		t.Errorf("label = %v, want [M1 M2]", got)
	}
	if g.NumEdges() != 1 {
		t.Errorf("NumEdges() = %d, want 1", g.NumEdges())
	}
}

func TestUndirected_SelfLoop(t *testing.T) {
	g := NewUndirected()
	err := g.InsertUndirected("A", "A", NewLabel("M1"))
	if !errors.Is(err, ErrSelfLoop) {
		t.Errorf("InsertUndirected(A,A) error = %v, want ErrSelfLoop", err)
	}
	if g.HasEdge("A", "A") {
		t.Error("self-loop should not exist")
	}
	if g.NumVertices() != 0 {
		t.Errorf("NumVertices() = %d, want 0", g.NumVertices())
	}
}

func TestUndirected_LabelNotFound(t *testing.T) {
	g := NewUndirected()
	g.InsertVertex("A")
	g.InsertVertex("B")

	tests := []struct {
		name string
		a, b string
	}{
		{name: "both present, no edge", a: "A", b: "B"},
		{name: "absent vertex", a: "A", b: "Z"},
		{name: "same vertex", a: "A", b: "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := g.Label(tt.a, tt.b); !errors.Is(err, ErrEdgeNotFound) {
				t.Errorf("Label(%q,%q) error = %v, want ErrEdgeNotFound", tt.a, tt.b, err)
			}
		})
	}
}

func TestUndirected_Neighbors(t *testing.T) {
	g := NewUndirected()
	_ = g.InsertUndirected("A", "B", nil)
	_ = g.InsertUndirected("A", "C", nil)
	g.InsertVertex("D")

	tests := []struct {
		vertex string
		want   []string
	}{
		{vertex: "A", want: []string{"B", "C"}},
		{vertex: "B", want: []string{"A"}},
		{vertex: "D", want: []string{}},
		{vertex: "missing", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.vertex, func(t *testing.T) {
			out := sorted(g.OutNeighbors(tt.vertex))
			in := sorted(g.InNeighbors(tt.vertex))
			if !equalStrings(out, tt.want) {
				t.Errorf("OutNeighbors(%q) = %v, want %v", tt.vertex, out, tt.want)
			}
			if !equalStrings(in, tt.want) {
				t.Errorf("InNeighbors(%q) = %v, want %v", tt.vertex, in, tt.want)
			}
			if g.OutDegree(tt.vertex) != len(tt.want) {
				t.Errorf("OutDegree(%q) = %d, want %d", tt.vertex, g.OutDegree(tt.vertex), len(tt.want))
			}
		})
	}
}

func TestUndirected_Vertices(t *testing.T) {
	g := NewUndirected()
	for _, v := range []string{"C", "A", "B"} {
		g.InsertVertex(v)
	}

	vs := g.Vertices()
	got := sorted(vs.ToSlice())
	if !equalStrings(got, []string{"A", "B", "C"}) {
		t.Errorf("Vertices() = %v, want [A B C]", got)
	}

	// The returned set is a copy.
	vs.Add("Z")
	if g.HasVertex("Z") {
		t.Error("mutating Vertices() result changed the graph")
	}
}

func TestSortedLabel(t *testing.T) {
	if got := SortedLabel(nil); got != nil {
		t.Errorf("SortedLabel(nil) = %v, want nil", got)
	}
	got := SortedLabel(NewLabel("b", "c", "a"))
	if !equalStrings(got, []string{"a", "b", "c"}) {
		t.Errorf("SortedLabel = %v, want [a b c]", got)
	}
}
