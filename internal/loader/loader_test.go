package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testLogger(buf *bytes.Buffer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(buf)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})
	return l
}

func TestReadTable(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "actors.txt", "1|Kevin Bacon\n2|Tom Hanks\r\n\n3|Name|With|Pipes\nbroken line\n")

	table, stats, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}

	want := map[string]string{
		"1": "Kevin Bacon",
		"2": "Tom Hanks",
		"3": "Name|With|Pipes",
	}
	if len(table) != len(want) {
		t.Errorf("got %d entries, want %d: %v", len(table), len(want), table)
	}
	for id, name := range want {
		if table[id] != name {
			t.Errorf("table[%q] = %q, want %q", id, table[id], name)
		}
	}
	if stats.Lines != 4 {
		t.Errorf("stats.Lines = %d, want 4", stats.Lines)
	}
	if stats.Malformed != 1 {
		t.Errorf("stats.Malformed = %d, want 1", stats.Malformed)
	}
}

func TestReadTable_MissingFile(t *testing.T) {
	table, _, err := ReadTable(filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
	if table == nil || len(table) != 0 {
		t.Errorf("table = %v, want empty non-nil map", table)
	}
}

func TestReadCredits(t *testing.T) {
	path := writeFile(t, t.TempDir(), "movie-actors.txt", "10|1\n10|2\n11|1\n")

	credits, _, err := ReadCredits(path)
	if err != nil {
		t.Fatalf("ReadCredits failed: %v", err)
	}
	want := []Credit{{"10", "1"}, {"10", "2"}, {"11", "1"}}
	if len(credits) != len(want) {
		t.Fatalf("got %d credits, want %d", len(credits), len(want))
	}
	for i := range want {
		if credits[i] != want[i] {
			t.Errorf("credits[%d] = %+v, want %+v", i, credits[i], want[i])
		}
	}
}

func TestTables_Cast(t *testing.T) {
	tables := &Tables{
		Actors: map[string]string{"1": "A", "2": "B", "3": "C"},
		Movies: map[string]string{"10": "M1", "11": "M2"},
		Credits: []Credit{
			{"10", "1"}, {"10", "2"}, {"10", "3"},
			{"11", "1"}, {"11", "2"},
			{"11", "1"},  // duplicate credit
			{"99", "1"},  // unknown movie
			{"10", "42"}, // unknown actor
		},
	}

	cast, skipped := tables.Cast()
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
	if len(cast) != 2 {
		t.Fatalf("got %d movies, want 2", len(cast))
	}

	m1 := cast["M1"].ToSlice()
	sort.Strings(m1)
	if strings.Join(m1, ",") != "A,B,C" {
		t.Errorf("M1 cast = %v, want [A B C]", m1)
	}
	if cast["M2"].Cardinality() != 2 {
		t.Errorf("M2 cast size = %d, want 2", cast["M2"].Cardinality())
	}
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{
		Actors:      writeFile(t, dir, "actors.txt", "1|A\n2|B\n"),
		Movies:      writeFile(t, dir, "movies.txt", "10|M1\n"),
		MovieActors: writeFile(t, dir, "movie-actors.txt", "10|1\n10|2\n10|7\n"),
	}

	var buf bytes.Buffer
	cast := New(testLogger(&buf)).Load(paths)

	if cast["M1"] == nil || cast["M1"].Cardinality() != 2 {
		t.Errorf("M1 cast = %v, want 2 actors", cast["M1"])
	}
	if !strings.Contains(buf.String(), "unknown movie or actor") {
		t.Errorf("expected warning about unknown IDs, log was:\n%s", buf.String())
	}
}

func TestLoader_LoadMissingFilesDegrades(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{
		Actors:      filepath.Join(dir, "missing-actors.txt"),
		Movies:      writeFile(t, dir, "movies.txt", "10|M1\n"),
		MovieActors: filepath.Join(dir, "missing-credits.txt"),
	}

	var buf bytes.Buffer
	tables := New(testLogger(&buf)).LoadTables(paths)

	if len(tables.Actors) != 0 {
		t.Errorf("Actors = %v, want empty", tables.Actors)
	}
	if len(tables.Movies) != 1 {
		t.Errorf("Movies = %v, want one entry", tables.Movies)
	}
	if len(tables.Credits) != 0 {
		t.Errorf("Credits = %v, want empty", tables.Credits)
	}
	if got := strings.Count(buf.String(), "cannot read relation file"); got != 2 {
		t.Errorf("got %d read warnings, want 2; log:\n%s", got, buf.String())
	}
}

func TestReadTable_EmptyNames(t *testing.T) {
	path := writeFile(t, t.TempDir(), "actors.txt", "1|Kevin Bacon\n7|\n8|   \n")

	table, stats, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if len(table) != 1 || table["1"] != "Kevin Bacon" {
		t.Errorf("table = %v, want only Kevin Bacon", table)
	}
	if _, ok := table["7"]; ok {
		t.Error("empty name was kept")
	}
	if stats.Malformed != 2 {
		t.Errorf("stats.Malformed = %d, want 2", stats.Malformed)
	}
}
