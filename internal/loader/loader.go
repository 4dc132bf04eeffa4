// Package loader reads the pipe-delimited relation files that describe actors,
// movies, and the credits joining them.
package loader

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"
)

// MaxLineCapacity is the maximum buffer size for a single line (1MB).
const MaxLineCapacity = 1024 * 1024

// Cast maps a movie name to the names of the actors that appear in it.
type Cast map[string]mapset.Set[string]

// Credit is one row of the movie-actor join file.
type Credit struct {
	MovieID string `json:"movie_id"`
	ActorID string `json:"actor_id"`
}

// Tables holds the parsed contents of the three relation files.
type Tables struct {
	Actors  map[string]string // actor ID -> name
	Movies  map[string]string // movie ID -> name
	Credits []Credit
}

// Paths names the three relation files.
type Paths struct {
	Actors      string
	Movies      string
	MovieActors string
}

// ParseStats counts the lines a reader had to skip.
type ParseStats struct {
	Lines     int
	Malformed int
}

// ReadTable reads an "id|name" file. Only the first "|" separates the fields,
// so names may themselves contain "|". Blank lines are ignored; lines without
// a separator or with an empty name are counted as malformed.
func ReadTable(path string) (map[string]string, ParseStats, error) {
	table := make(map[string]string)
	var stats ParseStats

	err := scanPairs(path, &stats, func(id, name string) {
		if strings.TrimSpace(name) == "" {
			stats.Malformed++
			return
		}
		table[id] = name
	})
	if err != nil {
		return table, stats, err
	}
	return table, stats, nil
}

// ReadCredits reads a "movieID|actorID" join file.
func ReadCredits(path string) ([]Credit, ParseStats, error) {
	var credits []Credit
	var stats ParseStats

	err := scanPairs(path, &stats, func(movieID, actorID string) {
		credits = append(credits, Credit{MovieID: movieID, ActorID: actorID})
	})
	if err != nil {
		return credits, stats, err
	}
	return credits, stats, nil
}

// scanPairs calls fn with the two fields of every well-formed line of path.
func scanPairs(path string, stats *ParseStats, fn func(a, b string)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, MaxLineCapacity)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		stats.Lines++

		a, b, ok := strings.Cut(line, "|")
		if !ok {
			stats.Malformed++
			continue
		}
		fn(a, b)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// Cast resolves the credits against the lookup tables. Credits naming an
// unknown movie or actor are skipped; the number skipped is returned.
func (t *Tables) Cast() (Cast, int) {
	cast := make(Cast)
	skipped := 0

	for _, c := range t.Credits {
		movie, ok := t.Movies[c.MovieID]
		if !ok {
			skipped++
			continue
		}
		actor, ok := t.Actors[c.ActorID]
		if !ok {
			skipped++
			continue
		}
		if cast[movie] == nil {
			cast[movie] = mapset.NewThreadUnsafeSet[string]()
		}
		cast[movie].Add(actor)
	}

	return cast, skipped
}

// Loader reads relation files, degrading unreadable files to empty tables
// and reporting problems through its logger.
type Loader struct {
	log *logrus.Logger
}

// New returns a Loader that reports diagnostics to log.
func New(log *logrus.Logger) *Loader {
	return &Loader{log: log}
}

// LoadTables reads all three files. A file that cannot be read contributes
// whatever was parsed before the failure (possibly nothing).
func (l *Loader) LoadTables(p Paths) *Tables {
	actors, stats, err := ReadTable(p.Actors)
	l.report(p.Actors, stats, err)

	movies, stats, err := ReadTable(p.Movies)
	l.report(p.Movies, stats, err)

	credits, stats, err := ReadCredits(p.MovieActors)
	l.report(p.MovieActors, stats, err)

	return &Tables{Actors: actors, Movies: movies, Credits: credits}
}

// Load reads the three files and resolves them into a Cast.
func (l *Loader) Load(p Paths) Cast {
	tables := l.LoadTables(p)
	cast, skipped := tables.Cast()
	if skipped > 0 {
		l.log.WithFields(logrus.Fields{
			"file":    p.MovieActors,
			"skipped": skipped,
		}).Warn("credits reference unknown movie or actor IDs")
	}
	l.log.WithFields(logrus.Fields{
		"actors":  len(tables.Actors),
		"movies":  len(cast),
		"credits": len(tables.Credits),
	}).Debug("relations loaded")
	return cast
}

func (l *Loader) report(path string, stats ParseStats, err error) {
	if err != nil {
		l.log.WithError(err).WithField("file", path).Warn("cannot read relation file, using what was parsed")
	}
	if stats.Malformed > 0 {
		l.log.WithFields(logrus.Fields{
			"file":      path,
			"malformed": stats.Malformed,
			"lines":     stats.Lines,
		}).Warn("skipped malformed lines")
	}
}
