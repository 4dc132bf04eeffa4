package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteTextfile(t *testing.T) {
	GraphVertices.Set(3)
	QueriesTotal.WithLabelValues("path").Inc()

	path := filepath.Join(t.TempDir(), "costar.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{
		"costar_graph_vertices 3",
		`costar_queries_total{kind="path"}`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q", want)
		}
	}
}

func TestWriteTextfile_BadPath(t *testing.T) {
	if err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom")); err == nil {
		t.Error("expected error for unwritable path")
	}
}
