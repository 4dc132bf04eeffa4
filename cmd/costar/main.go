// Package main provides the costar CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/matsen/costar/internal/config"
	"github.com/matsen/costar/internal/logging"
	"github.com/matsen/costar/internal/metrics"
)

// Version is set at build time via ldflags
var Version = "dev"

// Persistent flags.
var (
	humanOutput bool
	configPath  string
	logLevel    string
	noCache     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors is set, so cobra errors (like bad flags) are printed here
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "costar",
	Short: "Six degrees of Kevin Bacon over an actor collaboration graph",
	Long: `costar builds a graph of actors who appeared in the same movies and
answers separation queries against it: shortest co-star paths, unreachable
actors, degree and separation ranges, and the best centers of the universe.

Relations are read from pipe-delimited files (id|name, movieID|actorID) and
cached in SQLite by 'costar index'. All commands output JSON by default.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		writeMetricsFile()
	},
}

func init() {
	// Load .env file if present (for COSTAR_* overrides)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: .costar/config.yml in the project)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Read relation files directly, ignoring the SQLite cache")
	rootCmd.Version = Version
}

// app is the resolved environment shared by every command.
type app struct {
	root string
	cfg  *config.Config
	log  *logrus.Logger
}

var current *app

// mustSetup finds the project, loads and validates configuration, and builds
// the logger. It exits on error.
func mustSetup() *app {
	if current != nil {
		return current
	}

	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	root := cwd
	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
		root = projectRootFor(configPath)
	} else {
		if found, findErr := config.FindProject(cwd); findErr == nil {
			root = found
		} else if !errors.Is(findErr, config.ErrNotProject) {
			exitWithError(ExitConfigError, "finding project: %v", findErr)
		}
		cfg, err = config.Load(root)
	}
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		exitWithError(ExitConfigError, "configuring logging: %v", err)
	}

	current = &app{root: root, cfg: cfg, log: log}
	return current
}

// projectRootFor returns the directory relative paths in the config file at
// path resolve against: the parent of .costar, or the file's own directory.
func projectRootFor(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	dir := filepath.Dir(abs)
	if filepath.Base(dir) == config.CostarDir {
		return filepath.Dir(dir)
	}
	return dir
}

func writeMetricsFile() {
	if current == nil || current.cfg.MetricsFile == "" {
		return
	}
	path := config.Resolve(current.root, current.cfg.MetricsFile)
	if err := metrics.WriteTextfile(path); err != nil {
		current.log.WithError(err).Warn("could not write metrics file")
	}
}
