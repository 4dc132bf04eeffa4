package graph

import mapset "github.com/deckarep/golang-set/v2"

// Build creates the collaboration graph from a mapping of context (movie) to
// the participants (actors) that appear in it.
//
// Every participant becomes a vertex. Every unordered pair of participants
// sharing a context gets one edge whose label accumulates all of the contexts
// they share. A context with fewer than two participants adds no edges.
// The pair enumeration is quadratic in the size of each context.
func Build(contexts map[string]mapset.Set[string]) *Undirected {
	g := NewUndirected()

	for _, participants := range contexts {
		participants.Each(func(p string) bool {
			g.InsertVertex(p)
			return false
		})
	}

	for ctx, participants := range contexts {
		members := participants.ToSlice()
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				a, b := members[i], members[j]
				if a == b {
					continue
				}
				if !g.HasEdge(a, b) {
					_ = g.InsertUndirected(a, b, NewLabel())
				}
				// The label is updated even when the edge already existed.
				label, _ := g.Label(a, b)
				label.Add(ctx)
			}
		}
	}

	return g
}
