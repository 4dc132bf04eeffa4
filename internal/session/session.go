// Package session holds the current "center of the universe" and answers
// queries relative to it.
package session

import (
	"errors"
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matsen/costar/internal/graph"
	"github.com/matsen/costar/internal/metrics"
	"github.com/matsen/costar/internal/separation"
)

var (
	// ErrUnknownActor is returned when a name is not a vertex of the graph.
	ErrUnknownActor = errors.New("actor not found")

	// ErrUnreachable is returned when an actor shares no chain of movies with
	// the center.
	ErrUnreachable = errors.New("actor is not connected to the center")
)

// Summary describes the center's connected component.
type Summary struct {
	Center            string  `json:"center"`
	Connected         int     `json:"connected"`
	Total             int     `json:"total"`
	AverageSeparation float64 `json:"average_separation"`
}

// Hop is one step of a path toward the center.
type Hop struct {
	From   string   `json:"from"`
	To     string   `json:"to"`
	Movies []string `json:"movies"`
}

// PathResult is the chain of shared movies from an actor to the center.
type PathResult struct {
	Actor  string `json:"actor"`
	Center string `json:"center"`
	Number int    `json:"number"`
	Hops   []Hop  `json:"hops"`
}

// Session answers queries about a fixed graph relative to a mutable center.
// It is not safe for concurrent use.
type Session struct {
	g      *graph.Undirected
	center string
}

// New returns a Session centered on center.
func New(g *graph.Undirected, center string) (*Session, error) {
	if !g.HasVertex(center) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownActor, center)
	}
	return &Session{g: g, center: center}, nil
}

// Graph returns the graph the session queries.
func (s *Session) Graph() *graph.Undirected {
	return s.g
}

// Center returns the current center.
func (s *Session) Center() string {
	return s.center
}

// SetCenter changes the center and returns the new center's summary. An
// unknown name leaves the current center in place.
func (s *Session) SetCenter(name string) (Summary, error) {
	if !s.g.HasVertex(name) {
		return Summary{}, fmt.Errorf("%w: %q", ErrUnknownActor, name)
	}
	s.center = name
	return s.Summary(), nil
}

// Summary describes how well connected the current center is.
func (s *Session) Summary() Summary {
	tree := s.tree()
	connected := tree.NumVertices() - 1
	if connected < 0 {
		connected = 0
	}
	return Summary{
		Center:            s.center,
		Connected:         connected,
		Total:             s.g.NumVertices(),
		AverageSeparation: separation.AverageSeparation(tree, s.center),
	}
}

// PathTo returns the shortest chain of movies linking name to the center.
func (s *Session) PathTo(name string) (PathResult, error) {
	if !s.g.HasVertex(name) {
		return PathResult{}, fmt.Errorf("%w: %q", ErrUnknownActor, name)
	}
	tree := s.tree()
	if !tree.HasVertex(name) {
		return PathResult{}, fmt.Errorf("%w: %q", ErrUnreachable, name)
	}

	path := separation.Path(tree, name)
	hops := make([]Hop, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		label, err := tree.Label(path[i], path[i+1])
		if err != nil {
			return PathResult{}, fmt.Errorf("path edge %q -> %q: %w", path[i], path[i+1], err)
		}
		hops = append(hops, Hop{From: path[i], To: path[i+1], Movies: graph.SortedLabel(label)})
	}

	return PathResult{
		Actor:  name,
		Center: s.center,
		Number: len(hops),
		Hops:   hops,
	}, nil
}

// Unreachable returns the actors with no path to the center, sorted.
func (s *Session) Unreachable() []string {
	missing := separation.MissingVertices(s.g, s.tree()).ToSlice()
	sort.Strings(missing)
	return missing
}

// SeparationRange returns the actors whose separation from the center lies
// strictly between low and high.
func (s *Session) SeparationRange(low, high int) ([]separation.Score, error) {
	return separation.SeparationRange(s.tree(), s.center, low, high)
}

func (s *Session) tree() *graph.Tree {
	timer := prometheus.NewTimer(metrics.SearchDuration)
	defer timer.ObserveDuration()
	return separation.ShortestPathTree(s.g, s.center)
}
