package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/costar/internal/config"
	"github.com/matsen/costar/internal/storage"
)

var infoCheck bool

func init() {
	infoCmd.Flags().BoolVar(&infoCheck, "check", false, "Exit with code 6 if the relation cache is missing or stale")
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show graph size and relation cache status",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

// InfoResult is the response for the info command.
type InfoResult struct {
	Root    string          `json:"root"`
	Actors  int             `json:"actors"`
	Edges   int             `json:"edges"`
	Center  string          `json:"center"`
	Cache   string          `json:"cache"` // "fresh", "stale", or "missing"
	CacheDB string          `json:"cache_db"`
	Cached  *storage.Counts `json:"cached,omitempty"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	a := mustSetup()
	result := InfoResult{
		Root:    a.root,
		Center:  a.cfg.Center,
		Cache:   "missing",
		CacheDB: config.DBPath(a.root),
	}

	if _, err := os.Stat(result.CacheDB); err == nil {
		result.Cache, result.Cached = cacheStatus(a, result.CacheDB)
	}

	g := mustLoadGraph(a)
	result.Actors = g.NumVertices()
	result.Edges = g.NumEdges()

	if humanOutput {
		outputHuman("Project:  %s\n", result.Root)
		outputHuman("Actors:   %d\n", result.Actors)
		outputHuman("Edges:    %d\n", result.Edges)
		outputHuman("Center:   %s\n", result.Center)
		outputHuman("Cache:    %s (%s)\n", result.Cache, result.CacheDB)
	} else if err := outputJSON(result); err != nil {
		return err
	}

	if infoCheck && result.Cache != "fresh" {
		writeMetricsFile()
		os.Exit(ExitCacheStale)
	}
	return nil
}

func cacheStatus(a *app, dbPath string) (string, *storage.Counts) {
	paths := a.cfg.InputPaths(a.root)
	fingerprint, err := storage.FingerprintFiles(paths.Actors, paths.Movies, paths.MovieActors)
	if err != nil {
		return "stale", nil
	}

	db, err := storage.OpenDB(dbPath)
	if err != nil {
		return "stale", nil
	}
	defer db.Close()

	counts, err := db.Counts()
	if err != nil {
		return "stale", nil
	}
	stale, err := db.IsStale(fingerprint)
	if err != nil || stale {
		return "stale", &counts
	}
	return "fresh", &counts
}
