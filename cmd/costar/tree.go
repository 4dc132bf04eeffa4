package main

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/costar/internal/export"
	"github.com/matsen/costar/internal/graph"
	"github.com/matsen/costar/internal/separation"
)

var (
	treeCenter string
	treeOutput string
	treeFormat string
	treeLayout string
)

func init() {
	treeCmd.Flags().StringVar(&treeCenter, "center", "", "Root of the tree (default: configured center)")
	treeCmd.Flags().StringVarP(&treeOutput, "output", "o", "", "Write to this file instead of stdout")
	treeCmd.Flags().StringVar(&treeFormat, "format", "dot", "Output format: dot, html, or json (Cytoscape.js elements)")
	treeCmd.Flags().StringVar(&treeLayout, "layout", "tree", "HTML layout: "+strings.Join(export.ValidLayouts, ", "))
	rootCmd.AddCommand(treeCmd)
}

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Export the center's shortest-path tree",
	Long: `Write the shortest-path tree rooted at the center.
Each edge points from an actor toward the center and is labeled with the
movies they share.

Formats:
  dot   Graphviz DOT. Render with: dot -Tsvg tree.dot > tree.svg
  html  Standalone page drawing the tree with Cytoscape.js
  json  Cytoscape.js elements (nodes and edges)`,
	Args: cobra.NoArgs,
	RunE: runTree,
}

// TreeResult is the response when the tree is written to a file.
type TreeResult struct {
	Center   string `json:"center"`
	Vertices int    `json:"vertices"`
	Format   string `json:"format"`
	Path     string `json:"path"`
}

func runTree(cmd *cobra.Command, args []string) error {
	write, ok := treeWriters[treeFormat]
	if !ok {
		exitWithError(ExitError, "invalid format %q: must be dot, html, or json", treeFormat)
	}

	a := mustSetup()
	g := mustLoadGraph(a)
	sess := mustSession(a, g, treeCenter)
	tree := separation.ShortestPathTree(g, sess.Center())

	var w io.Writer = os.Stdout
	if treeOutput != "" {
		f, err := os.Create(treeOutput)
		if err != nil {
			exitWithError(ExitError, "creating %s: %v", treeOutput, err)
		}
		defer f.Close()
		w = f
	}

	if err := write(w, tree); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if treeOutput == "" {
		return nil
	}
	if humanOutput {
		outputHuman("Wrote %d-actor tree rooted at %s to %s\n", tree.NumVertices(), sess.Center(), treeOutput)
		return nil
	}
	return outputJSON(TreeResult{
		Center:   sess.Center(),
		Vertices: tree.NumVertices(),
		Format:   treeFormat,
		Path:     treeOutput,
	})
}

var treeWriters = map[string]func(io.Writer, *graph.Tree) error{
	"dot":  export.WriteDOT,
	"json": export.WriteCytoscapeJSON,
	"html": func(w io.Writer, t *graph.Tree) error {
		return export.WriteHTML(w, t, export.HTMLOptions{Layout: treeLayout})
	},
}
