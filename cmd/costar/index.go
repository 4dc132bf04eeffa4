package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/costar/internal/config"
	"github.com/matsen/costar/internal/loader"
	"github.com/matsen/costar/internal/storage"
)

func init() {
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the SQLite relation cache from the input files",
	Long: `Read the actors, movies, and movie-actor files and store them in
.costar/cache/relations.db. Later commands use the cache while the input
files are unchanged.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

// IndexResult is the response for the index command.
type IndexResult struct {
	Status      string `json:"status"`
	Path        string `json:"path"`
	Actors      int    `json:"actors"`
	Movies      int    `json:"movies"`
	Credits     int    `json:"credits"`
	Fingerprint string `json:"fingerprint"`
}

func runIndex(cmd *cobra.Command, args []string) error {
	a := mustSetup()
	paths := a.cfg.InputPaths(a.root)

	fingerprint, err := storage.FingerprintFiles(paths.Actors, paths.Movies, paths.MovieActors)
	if err != nil {
		exitWithError(ExitDataError, "fingerprinting relation files: %v", err)
	}

	tables := loader.New(a.log).LoadTables(paths)
	if len(tables.Actors) == 0 {
		exitWithError(ExitDataError, "no actors read from %s", paths.Actors)
	}

	if err := os.MkdirAll(config.CachePath(a.root), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}

	dbPath := config.DBPath(a.root)
	db, err := storage.OpenDB(dbPath)
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	defer db.Close()

	counts, err := db.RebuildFromTables(tables, fingerprint)
	if err != nil {
		exitWithError(ExitDataError, "rebuilding relation cache: %v", err)
	}

	result := IndexResult{
		Status:      "rebuilt",
		Path:        dbPath,
		Actors:      counts.Actors,
		Movies:      counts.Movies,
		Credits:     counts.Credits,
		Fingerprint: fingerprint,
	}

	if humanOutput {
		outputHuman("Indexed %d actors, %d movies, %d credits into %s\n",
			counts.Actors, counts.Movies, counts.Credits, dbPath)
		return nil
	}
	return outputJSON(result)
}
