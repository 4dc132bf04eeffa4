package separation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/matsen/costar/internal/graph"
)

// starGraph: Hub shares one movie with each of Spoke1..Spoke4; Spoke1 and
// Spoke2 also share a movie.
func starGraph() *graph.Undirected {
	return graph.Build(castOf(map[string][]string{
		"S1": {"Hub", "Spoke1"},
		"S2": {"Hub", "Spoke2"},
		"S3": {"Hub", "Spoke3"},
		"S4": {"Hub", "Spoke4"},
		"X":  {"Spoke1", "Spoke2"},
	}))
}

func names(scores []Score) []string {
	out := make([]string, len(scores))
	for i, s := range scores {
		out[i] = s.Name
	}
	return out
}

func TestDegreeRange(t *testing.T) {
	g := starGraph()

	tests := []struct {
		name      string
		low, high int
		want      []string
	}{
		{name: "all", low: 0, high: 10, want: []string{"Hub", "Spoke1", "Spoke2", "Spoke3", "Spoke4"}},
		{name: "exclusive bounds", low: 1, high: 4, want: []string{"Spoke1", "Spoke2"}},
		{name: "nothing", low: 4, high: 4, want: []string{}},
		{name: "hub only", low: 2, high: 5, want: []string{"Hub"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DegreeRange(g, tt.low, tt.high)
			if err != nil {
				t.Fatalf("DegreeRange failed: %v", err)
			}
			if fmt.Sprint(names(got)) != fmt.Sprint(tt.want) {
				t.Errorf("DegreeRange(%d,%d) = %v, want %v", tt.low, tt.high, names(got), tt.want)
			}
		})
	}
}

func TestDegreeRange_InvalidRange(t *testing.T) {
	_, err := DegreeRange(starGraph(), 5, 1)
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("error = %v, want ErrInvalidRange", err)
	}
}

func TestSeparationRange(t *testing.T) {
	tree := ShortestPathTree(pathGraph(), "A")

	tests := []struct {
		name      string
		low, high int
		want      []string
	}{
		{name: "excludes root", low: -1, high: 10, want: []string{"B", "C", "D"}},
		{name: "exclusive", low: 1, high: 3, want: []string{"C"}},
		{name: "empty", low: 3, high: 3, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SeparationRange(tree, "A", tt.low, tt.high)
			if err != nil {
				t.Fatalf("SeparationRange failed: %v", err)
			}
			if fmt.Sprint(names(got)) != fmt.Sprint(tt.want) {
				t.Errorf("SeparationRange(%d,%d) = %v, want %v", tt.low, tt.high, names(got), tt.want)
			}
		})
	}

	if _, err := SeparationRange(tree, "A", 2, 1); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("error = %v, want ErrInvalidRange", err)
	}
}

func TestRankCenters(t *testing.T) {
	g := pathGraph()

	for _, workers := range []int{0, 1, 3} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			scores, err := RankCenters(context.Background(), g, workers)
			if err != nil {
				t.Fatalf("RankCenters failed: %v", err)
			}
			// B and C: (1+1+2)/3; A and D: (1+2+3)/3.
			want := []Score{
				{Name: "B", Value: 4.0 / 3.0},
				{Name: "C", Value: 4.0 / 3.0},
				{Name: "A", Value: 2.0},
				{Name: "D", Value: 2.0},
			}
			if fmt.Sprint(scores) != fmt.Sprint(want) {
				t.Errorf("RankCenters = %v, want %v", scores, want)
			}
		})
	}
}

func TestRankCenters_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RankCenters(ctx, starGraph(), 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestBestWorst(t *testing.T) {
	scores := []Score{{"a", 1}, {"b", 2}, {"c", 3}}

	tests := []struct {
		name string
		fn   func([]Score, int) []Score
		n    int
		want []string
	}{
		{name: "best two", fn: Best, n: 2, want: []string{"a", "b"}},
		{name: "worst two", fn: Worst, n: 2, want: []string{"c", "b"}},
		{name: "best clamps", fn: Best, n: 10, want: []string{"a", "b", "c"}},
		{name: "worst clamps", fn: Worst, n: 10, want: []string{"c", "b", "a"}},
		{name: "zero", fn: Best, n: 0, want: []string{}},
		{name: "negative", fn: Worst, n: -3, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(tt.fn(scores, tt.n))
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
