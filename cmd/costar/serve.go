package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/matsen/costar/internal/api"
)

var serveListen string

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Address to listen on (default: configured listen)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve separation queries over HTTP",
	Long: `Load the graph once and answer read-only queries over HTTP.

Routes:
  GET /health
  GET /metrics
  GET /api/stats
  GET /api/centers/:name
  GET /api/path/:name?center=
  GET /api/unreachable?center=
  GET /api/separation?center=&low=&high=
  GET /api/degrees?low=&high=
  GET /api/rankings?n=`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a := mustSetup()
	g := mustLoadGraph(a)
	mustSession(a, g, "") // the default center must exist

	addr := a.cfg.Listen
	if serveListen != "" {
		addr = serveListen
	}

	if a.cfg.LogLevel != "debug" && a.cfg.LogLevel != "trace" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.NewRouter(api.RouterDeps{
		Log:       a.log,
		Graph:     g,
		Center:    a.cfg.Center,
		Workers:   a.cfg.Workers,
		RateLimit: a.cfg.RateLimit,
		RateBurst: a.cfg.RateBurst,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := api.Serve(ctx, addr, router, a.log); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return nil
}
