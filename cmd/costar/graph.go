package main

import (
	"errors"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/matsen/costar/internal/actor"
	"github.com/matsen/costar/internal/config"
	"github.com/matsen/costar/internal/graph"
	"github.com/matsen/costar/internal/loader"
	"github.com/matsen/costar/internal/metrics"
	"github.com/matsen/costar/internal/session"
	"github.com/matsen/costar/internal/storage"
)

// maxSuggestions caps "did you mean" hints in error messages.
const maxSuggestions = 5

// loadCast returns the movie casts, from the SQLite cache when it is fresh
// and from the relation files otherwise.
func loadCast(a *app) loader.Cast {
	paths := a.cfg.InputPaths(a.root)

	if !noCache {
		if cast, ok := loadCachedCast(a, paths); ok {
			return cast
		}
	}

	return loader.New(a.log).Load(paths)
}

func loadCachedCast(a *app, paths loader.Paths) (loader.Cast, bool) {
	dbPath := config.DBPath(a.root)
	if _, err := os.Stat(dbPath); err != nil {
		a.log.Debug("no relation cache, reading files (run 'costar index' to build one)")
		return nil, false
	}

	fingerprint, err := storage.FingerprintFiles(paths.Actors, paths.Movies, paths.MovieActors)
	if err != nil {
		a.log.WithError(err).Warn("cannot fingerprint relation files, reading them directly")
		return nil, false
	}

	db, err := storage.OpenDB(dbPath)
	if err != nil {
		a.log.WithError(err).Warn("cannot open relation cache, reading files")
		return nil, false
	}
	defer db.Close()

	stale, err := db.IsStale(fingerprint)
	if err != nil {
		a.log.WithError(err).Warn("cannot check relation cache, reading files")
		return nil, false
	}
	if stale {
		a.log.Info("relation cache is stale, reading files (run 'costar index' to refresh it)")
		return nil, false
	}

	cast, err := db.LoadCast()
	if err != nil {
		a.log.WithError(err).Warn("cannot read relation cache, reading files")
		return nil, false
	}
	a.log.WithField("movies", len(cast)).Debug("loaded relations from cache")
	return cast, true
}

// mustLoadGraph builds the collaboration graph. It exits with a data error
// when the graph has no actors.
func mustLoadGraph(a *app) *graph.Undirected {
	cast := loadCast(a)

	timer := prometheus.NewTimer(metrics.BuildDuration)
	g := graph.Build(cast)
	timer.ObserveDuration()

	metrics.GraphVertices.Set(float64(g.NumVertices()))
	metrics.GraphEdges.Set(float64(g.NumEdges()))
	a.log.WithFields(logrus.Fields{
		"actors": g.NumVertices(),
		"edges":  g.NumEdges(),
	}).Debug("graph built")

	if g.NumVertices() == 0 {
		exitWithError(ExitDataError, "no actors loaded; check the actors, movies, and movie_actors paths in %s", config.ConfigPath(a.root))
	}
	return g
}

// mustSession opens a session on center, or on the configured center when
// center is empty.
func mustSession(a *app, g *graph.Undirected, center string) *session.Session {
	if center == "" {
		center = a.cfg.Center
	}
	sess, err := session.New(g, center)
	if err != nil {
		exitUnknownActor(g, center, err)
	}
	return sess
}

// exitUnknownActor reports err with name suggestions and exits with a data
// error.
func exitUnknownActor(g *graph.Undirected, name string, err error) {
	if errors.Is(err, session.ErrUnknownActor) {
		hints := actor.Suggest(g.Vertices().ToSlice(), name, maxSuggestions)
		if len(hints) > 0 {
			exitWithError(ExitDataError, "%v (did you mean: %v?)", err, hints)
		}
	}
	exitWithError(ExitDataError, "%v", err)
}
