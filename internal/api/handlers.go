package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/matsen/costar/internal/actor"
	"github.com/matsen/costar/internal/graph"
	"github.com/matsen/costar/internal/metrics"
	"github.com/matsen/costar/internal/separation"
	"github.com/matsen/costar/internal/session"
)

// maxSuggestions caps the "did you mean" list in not-found responses.
const maxSuggestions = 5

// Handler serves queries against one immutable graph. Each request gets its
// own session, so concurrent requests never share center state.
type Handler struct {
	g       *graph.Undirected
	center  string
	workers int
	log     *logrus.Logger

	namesOnce sync.Once
	names     []string

	rankOnce sync.Once
	ranking  []separation.Score
	rankErr  error
}

// NewHandler creates a Handler answering relative to center by default.
func NewHandler(g *graph.Undirected, center string, workers int, log *logrus.Logger) *Handler {
	return &Handler{g: g, center: center, workers: workers, log: log}
}

type statsResponse struct {
	Vertices int    `json:"vertices"`
	Edges    int    `json:"edges"`
	Center   string `json:"center"`
}

type actorsResponse struct {
	Center string   `json:"center"`
	Count  int      `json:"count"`
	Actors []string `json:"actors"`
}

type scoresResponse struct {
	Center string             `json:"center,omitempty"`
	Low    int                `json:"low"`
	High   int                `json:"high"`
	Actors []separation.Score `json:"actors"`
}

type rankingsResponse struct {
	N       int                `json:"n"`
	Centers []separation.Score `json:"centers"`
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "vertices": h.g.NumVertices()})
}

// Stats reports the size of the graph.
func (h *Handler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, statsResponse{
		Vertices: h.g.NumVertices(),
		Edges:    h.g.NumEdges(),
		Center:   h.center,
	})
}

// Center summarizes how well connected :name would be as the center.
func (h *Handler) Center(c *gin.Context) {
	sess, ok := h.session(c, c.Param("name"))
	if !ok {
		return
	}
	metrics.QueriesTotal.WithLabelValues("center").Inc()
	c.JSON(http.StatusOK, sess.Summary())
}

// Path returns the chain of movies linking :name to the center.
func (h *Handler) Path(c *gin.Context) {
	sess, ok := h.session(c, c.Query("center"))
	if !ok {
		return
	}

	metrics.QueriesTotal.WithLabelValues("path").Inc()
	name := c.Param("name")
	result, err := sess.PathTo(name)
	if err != nil {
		h.respondSessionError(c, name, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Unreachable lists actors with no path to the center.
func (h *Handler) Unreachable(c *gin.Context) {
	sess, ok := h.session(c, c.Query("center"))
	if !ok {
		return
	}

	metrics.QueriesTotal.WithLabelValues("unreachable").Inc()
	missing := sess.Unreachable()
	c.JSON(http.StatusOK, actorsResponse{Center: sess.Center(), Count: len(missing), Actors: missing})
}

// Separation lists actors whose distance from the center lies strictly
// between low and high.
func (h *Handler) Separation(c *gin.Context) {
	low, high, ok := parseBounds(c)
	if !ok {
		return
	}
	sess, ok := h.session(c, c.Query("center"))
	if !ok {
		return
	}

	metrics.QueriesTotal.WithLabelValues("separation").Inc()
	scores, err := sess.SeparationRange(low, high)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, scoresResponse{Center: sess.Center(), Low: low, High: high, Actors: nonNil(scores)})
}

// Degrees lists actors whose co-star count lies strictly between low and
// high.
func (h *Handler) Degrees(c *gin.Context) {
	low, high, ok := parseBounds(c)
	if !ok {
		return
	}

	metrics.QueriesTotal.WithLabelValues("degrees").Inc()
	scores, err := separation.DegreeRange(h.g, low, high)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, scoresResponse{Low: low, High: high, Actors: nonNil(scores)})
}

// Rankings returns the n best centers, or the |n| worst when n is negative.
func (h *Handler) Rankings(c *gin.Context) {
	n, err := strconv.Atoi(c.Query("n"))
	if err != nil || n == 0 {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "n must be a non-zero integer")
		return
	}

	metrics.QueriesTotal.WithLabelValues("rankings").Inc()
	h.rankOnce.Do(func() {
		h.log.WithField("workers", h.workers).Info("ranking every actor as a center")
		// Not tied to the request: the result is shared by every later caller.
		h.ranking, h.rankErr = separation.RankCenters(context.Background(), h.g, h.workers)
	})
	if h.rankErr != nil {
		h.log.WithError(h.rankErr).Error("ranking centers failed")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "ranking centers failed")
		return
	}

	var centers []separation.Score
	if n > 0 {
		centers = separation.Best(h.ranking, n)
	} else {
		centers = separation.Worst(h.ranking, -n)
	}
	c.JSON(http.StatusOK, rankingsResponse{N: n, Centers: centers})
}

// session opens a session centered on name, or on the default center when
// name is empty. It writes the error response itself and reports false on
// failure.
func (h *Handler) session(c *gin.Context, name string) (*session.Session, bool) {
	if name == "" {
		name = h.center
	}
	sess, err := session.New(h.g, name)
	if err != nil {
		h.respondSessionError(c, name, err)
		return nil, false
	}
	return sess, true
}

func (h *Handler) respondSessionError(c *gin.Context, name string, err error) {
	switch {
	case errors.Is(err, session.ErrUnknownActor):
		respondError(c, http.StatusNotFound, ErrCodeNotFound,
			fmt.Sprintf("actor %q not found", name),
			gin.H{"suggestions": actor.Suggest(h.actorNames(), name, maxSuggestions)})
	case errors.Is(err, session.ErrUnreachable):
		respondError(c, http.StatusNotFound, ErrCodeUnreachable, err.Error())
	default:
		h.log.WithError(err).Error("query failed")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "query failed")
	}
}

func (h *Handler) actorNames() []string {
	h.namesOnce.Do(func() {
		h.names = h.g.Vertices().ToSlice()
	})
	return h.names
}

// parseBounds reads the required low and high query parameters.
func parseBounds(c *gin.Context) (int, int, bool) {
	low, errLow := strconv.Atoi(c.Query("low"))
	high, errHigh := strconv.Atoi(c.Query("high"))
	if errLow != nil || errHigh != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "low and high must be integers")
		return 0, 0, false
	}
	return low, high, true
}

func nonNil(s []separation.Score) []separation.Score {
	if s == nil {
		return []separation.Score{}
	}
	return s
}
