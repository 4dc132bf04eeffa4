package separation

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/matsen/costar/internal/graph"
)

// ErrInvalidRange is returned when a lower bound exceeds its upper bound.
var ErrInvalidRange = errors.New("lower bound cannot be above upper bound")

// Score pairs an actor with a numeric statistic (degree, distance, or
// average separation).
type Score struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// DegreeRange returns the vertices whose degree lies strictly between low and
// high, highest degree first.
func DegreeRange(g graph.Traversable, low, high int) ([]Score, error) {
	if low > high {
		return nil, fmt.Errorf("degree range %d..%d: %w", low, high, ErrInvalidRange)
	}

	var out []Score
	g.Vertices().Each(func(v string) bool {
		d := g.OutDegree(v)
		if d > low && d < high {
			out = append(out, Score{Name: v, Value: float64(d)})
		}
		return false
	})

	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// SeparationRange returns the vertices of t other than root whose distance
// from root lies strictly between low and high, closest first.
func SeparationRange(t *graph.Tree, root string, low, high int) ([]Score, error) {
	if low > high {
		return nil, fmt.Errorf("separation range %d..%d: %w", low, high, ErrInvalidRange)
	}

	var out []Score
	for v, d := range Separations(t) {
		if v == root {
			continue
		}
		if d > low && d < high {
			out = append(out, Score{Name: v, Value: float64(d)})
		}
	}

	sortAscending(out)
	return out, nil
}

// RankCenters computes the average separation of every vertex when it is used
// as the center, ordered from best (smallest) to worst.
//
// Each vertex gets its own breadth-first search; up to workers searches run at
// once against the shared, read-only graph.
func RankCenters(ctx context.Context, g graph.Traversable, workers int) ([]Score, error) {
	if workers < 1 {
		workers = 1
	}

	vertices := g.Vertices().ToSlice()
	out := make([]Score, len(vertices))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, v := range vertices {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tree := ShortestPathTree(g, v)
			out[i] = Score{Name: v, Value: AverageSeparation(tree, v)}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("ranking centers: %w", err)
	}

	sortAscending(out)
	return out, nil
}

// Best returns the first n scores of an ascending ranking.
func Best(scores []Score, n int) []Score {
	n = clamp(n, len(scores))
	out := make([]Score, n)
	copy(out, scores[:n])
	return out
}

// Worst returns the last n scores of an ascending ranking, worst first.
func Worst(scores []Score, n int) []Score {
	n = clamp(n, len(scores))
	out := make([]Score, 0, n)
	for i := len(scores) - 1; i >= len(scores)-n; i-- {
		out = append(out, scores[i])
	}
	return out
}

func clamp(n, max int) int {
	if n < 0 {
		return 0
	}
	if n > max {
		return max
	}
	return n
}

func sortAscending(s []Score) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Value != s[j].Value {
			return s[i].Value < s[j].Value
		}
		return s[i].Name < s[j].Name
	})
}
