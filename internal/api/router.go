// Package api serves read-only separation queries over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/matsen/costar/internal/graph"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// server is asked to stop.
const shutdownTimeout = 10 * time.Second

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log       *logrus.Logger
	Graph     *graph.Undirected
	Center    string  // default center when a request names none
	Workers   int     // concurrency for center ranking
	RateLimit float64 // requests per second, shared by all clients
	RateBurst int
}

// NewRouter builds the gin engine with middleware and routes installed.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.

	r.Use(requestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(rateLimit(rate.NewLimiter(rate.Limit(deps.RateLimit), deps.RateBurst)))
	r.Use(prometheusMiddleware())

	h := NewHandler(deps.Graph, deps.Center, deps.Workers, deps.Log)

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/stats", h.Stats)
	api.GET("/centers/:name", h.Center)
	api.GET("/path/:name", h.Path)
	api.GET("/unreachable", h.Unreachable)
	api.GET("/separation", h.Separation)
	api.GET("/degrees", h.Degrees)
	api.GET("/rankings", h.Rankings)

	return r
}

// Serve runs handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, log *logrus.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", addr, err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
