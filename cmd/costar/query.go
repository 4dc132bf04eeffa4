package main

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/costar/internal/metrics"
	"github.com/matsen/costar/internal/separation"
	"github.com/matsen/costar/internal/session"
)

// Flags shared by the query commands.
var (
	queryCenter string
	queryLow    int
	queryHigh   int
)

func init() {
	for _, cmd := range []*cobra.Command{pathCmd, unreachableCmd, separationCmd} {
		cmd.Flags().StringVar(&queryCenter, "center", "", "Center of the universe (default: configured center)")
	}
	for _, cmd := range []*cobra.Command{separationCmd, degreesCmd} {
		cmd.Flags().IntVar(&queryLow, "low", 0, "Exclusive lower bound")
		cmd.Flags().IntVar(&queryHigh, "high", 0, "Exclusive upper bound")
		cmd.MarkFlagRequired("low")
		cmd.MarkFlagRequired("high")
	}

	rootCmd.AddCommand(pathCmd, centerCmd, unreachableCmd, separationCmd, degreesCmd, rankCmd)
}

var pathCmd = &cobra.Command{
	Use:   "path <actor>",
	Short: "Show the shortest chain of movies from an actor to the center",
	Args:  cobra.ExactArgs(1),
	RunE:  runPath,
}

func runPath(cmd *cobra.Command, args []string) error {
	a := mustSetup()
	g := mustLoadGraph(a)
	sess := mustSession(a, g, queryCenter)

	metrics.QueriesTotal.WithLabelValues("path").Inc()
	result, err := sess.PathTo(args[0])
	if err != nil {
		if errors.Is(err, session.ErrUnknownActor) {
			exitUnknownActor(g, args[0], err)
		}
		exitWithError(ExitDataError, "%v", err)
	}

	if humanOutput {
		outputHuman("%s's number is %d\n", result.Actor, result.Number)
		for _, hop := range result.Hops {
			outputHuman("%s appeared in [%s] with %s\n", hop.From, strings.Join(hop.Movies, ", "), hop.To)
		}
		return nil
	}
	return outputJSON(result)
}

var centerCmd = &cobra.Command{
	Use:   "center <actor>",
	Short: "Summarize how well connected an actor is as the center of the universe",
	Args:  cobra.ExactArgs(1),
	RunE:  runCenter,
}

func runCenter(cmd *cobra.Command, args []string) error {
	a := mustSetup()
	g := mustLoadGraph(a)
	sess := mustSession(a, g, args[0])

	metrics.QueriesTotal.WithLabelValues("center").Inc()
	sum := sess.Summary()
	if humanOutput {
		outputHuman("%s is the center of the universe, connected to %d/%d actors with average separation %v\n",
			sum.Center, sum.Connected, sum.Total, sum.AverageSeparation)
		return nil
	}
	return outputJSON(sum)
}

var unreachableCmd = &cobra.Command{
	Use:   "unreachable",
	Short: "List actors with no path to the center",
	Args:  cobra.NoArgs,
	RunE:  runUnreachable,
}

// UnreachableResult is the response for the unreachable command.
type UnreachableResult struct {
	Center string   `json:"center"`
	Count  int      `json:"count"`
	Actors []string `json:"actors"`
}

func runUnreachable(cmd *cobra.Command, args []string) error {
	a := mustSetup()
	g := mustLoadGraph(a)
	sess := mustSession(a, g, queryCenter)

	metrics.QueriesTotal.WithLabelValues("unreachable").Inc()
	missing := sess.Unreachable()
	if humanOutput {
		outputHuman("These %d actors are unreachable by %s: [%s]\n",
			len(missing), sess.Center(), strings.Join(missing, ", "))
		return nil
	}
	return outputJSON(UnreachableResult{Center: sess.Center(), Count: len(missing), Actors: missing})
}

var separationCmd = &cobra.Command{
	Use:   "separation",
	Short: "List actors whose separation from the center lies strictly between --low and --high",
	Args:  cobra.NoArgs,
	RunE:  runSeparation,
}

// RangeResult is the response for the separation and degrees commands.
type RangeResult struct {
	Center string             `json:"center,omitempty"`
	Low    int                `json:"low"`
	High   int                `json:"high"`
	Actors []separation.Score `json:"actors"`
}

func runSeparation(cmd *cobra.Command, args []string) error {
	a := mustSetup()
	g := mustLoadGraph(a)
	sess := mustSession(a, g, queryCenter)

	metrics.QueriesTotal.WithLabelValues("separation").Inc()
	scores, err := sess.SeparationRange(queryLow, queryHigh)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		outputHuman("The actors with separation from %s between %d and %d sorted from low to high are:\n",
			sess.Center(), queryLow, queryHigh)
		printScores(scores)
		return nil
	}
	return outputJSON(RangeResult{Center: sess.Center(), Low: queryLow, High: queryHigh, Actors: nonNilScores(scores)})
}

var degreesCmd = &cobra.Command{
	Use:   "degrees",
	Short: "List actors whose co-star count lies strictly between --low and --high",
	Args:  cobra.NoArgs,
	RunE:  runDegrees,
}

func runDegrees(cmd *cobra.Command, args []string) error {
	a := mustSetup()
	g := mustLoadGraph(a)

	metrics.QueriesTotal.WithLabelValues("degrees").Inc()
	scores, err := separation.DegreeRange(g, queryLow, queryHigh)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		outputHuman("The actors with degrees between %d and %d sorted from high to low are:\n", queryLow, queryHigh)
		printScores(scores)
		return nil
	}
	return outputJSON(RangeResult{Low: queryLow, High: queryHigh, Actors: nonNilScores(scores)})
}

var rankCmd = &cobra.Command{
	Use:   "rank <n>",
	Short: "List the n best centers of the universe, or the |n| worst when n is negative",
	Long: `Rank every actor by average separation when used as the center.

Positive n lists the n best (smallest average) centers; negative n lists the
|n| worst. Every actor gets its own breadth-first search, spread over the
configured number of workers.`,
	Args: cobra.ExactArgs(1),
	RunE: runRank,
}

// RankResult is the response for the rank command.
type RankResult struct {
	N       int                `json:"n"`
	Centers []separation.Score `json:"centers"`
}

func runRank(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil || n == 0 {
		exitWithError(ExitError, "n must be a non-zero integer, got %q", args[0])
	}

	a := mustSetup()
	g := mustLoadGraph(a)

	metrics.QueriesTotal.WithLabelValues("rankings").Inc()
	ranking, err := separation.RankCenters(context.Background(), g, a.cfg.Workers)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	var centers []separation.Score
	if n > 0 {
		centers = separation.Best(ranking, n)
	} else {
		centers = separation.Worst(ranking, -n)
	}

	if humanOutput {
		which := "best"
		if n < 0 {
			which, n = "worst", -n
		}
		outputHuman("The %s %d centers of the universe based on average separation are:\n", which, n)
		printScores(centers)
		return nil
	}
	return outputJSON(RankResult{N: n, Centers: centers})
}

func nonNilScores(s []separation.Score) []separation.Score {
	if s == nil {
		return []separation.Score{}
	}
	return s
}
