// Package separation computes shortest-path trees and degrees of separation
// over a collaboration graph.
package separation

import (
	"fmt"

	"github.com/matsen/costar/internal/graph"
)

// ShortestPathTree runs a breadth-first search from root and returns the tree
// in which every reachable vertex points at the neighbor that discovered it.
//
// A root that is not in g yields an empty tree. When several parents are at
// the same distance, the one recorded depends on neighbor enumeration order.
func ShortestPathTree(g graph.Traversable, root string) *graph.Tree {
	tree := graph.NewTree()
	if !g.HasVertex(root) {
		return tree
	}

	tree.InsertVertex(root)
	queue := []string{root}

	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]

		for _, n := range g.OutNeighbors(v) {
			if tree.HasVertex(n) {
				continue
			}
			label, err := g.Label(v, n)
			if err != nil {
				panic(fmt.Sprintf("separation: neighbor %q of %q has no edge label: %v", n, v, err))
			}
			tree.InsertVertex(n)
			if err := tree.InsertDirected(n, v, label); err != nil {
				panic(fmt.Sprintf("separation: inserting tree edge %q -> %q: %v", n, v, err))
			}
			queue = append(queue, n)
		}
	}

	return tree
}
