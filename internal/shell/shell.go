// Package shell runs the interactive Kevin Bacon game over a line-oriented
// reader and writer.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/matsen/costar/internal/actor"
	"github.com/matsen/costar/internal/metrics"
	"github.com/matsen/costar/internal/separation"
	"github.com/matsen/costar/internal/session"
)

// maxSuggestions caps "did you mean" hints after an unknown name.
const maxSuggestions = 5

var errEndOfInput = errors.New("end of input")

const help = `Commands:
	c: enter a number to list top or bottom number centers of universe by average separation
	d: enter a number followed by second number to list actors sorted by degree between those numbers
	i: list actors with infinite separation from the current center
	p: enter name to find path from that actor to the current center of the universe
	s: enter a number followed by second number to list actors sorted by separation from the current center, with separation between those numbers
	u: enter a name to make that actor the new center of the universe
	h: show this list of commands
	q: quit game
`

// Shell reads commands and answers them against a session.
type Shell struct {
	sess    *session.Session
	in      InputReader
	out     io.Writer
	log     *logrus.Logger
	workers int

	ranking []separation.Score // computed on first use; the graph never changes
	names   []string
}

// New returns a Shell reading from in and writing to out. workers bounds the
// concurrency of center ranking.
func New(sess *session.Session, in InputReader, out io.Writer, log *logrus.Logger, workers int) *Shell {
	return &Shell{
		sess:    sess,
		in:      in,
		out:     out,
		log:     log,
		workers: workers,
	}
}

// Run prints the command list and processes commands until "q" or the end of
// input.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprint(s.out, help)

	for {
		cmd, err := s.readLine()
		if errors.Is(err, errEndOfInput) {
			break
		}
		if err != nil {
			return err
		}
		if cmd == "q" {
			break
		}

		err = s.dispatch(ctx, cmd)
		if errors.Is(err, errEndOfInput) {
			break
		}
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(s.out, "Game has ended")
	return nil
}

func (s *Shell) dispatch(ctx context.Context, cmd string) error {
	switch cmd {
	case "c":
		return s.centers(ctx)
	case "d":
		return s.degrees()
	case "i":
		s.unreachable()
		return nil
	case "p":
		return s.path()
	case "s":
		return s.separationRange()
	case "u":
		return s.newCenter()
	case "h":
		fmt.Fprint(s.out, help)
		return nil
	default:
		fmt.Fprintln(s.out, "Invalid command, try again")
		return nil
	}
}

func (s *Shell) centers(ctx context.Context) error {
	n, err := s.readInt("Enter number (+ or -) to get top number best centers of the universe or bottom number worst centers of the universe")
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(s.out, "Invalid number!")
		return nil
	}

	metrics.QueriesTotal.WithLabelValues("centers").Inc()
	if s.ranking == nil {
		s.log.WithField("workers", s.workers).Info("ranking every actor as a center, this may take a while")
		ranking, err := separation.RankCenters(ctx, s.sess.Graph(), s.workers)
		if err != nil {
			return err
		}
		s.ranking = ranking
	}

	if n > 0 {
		fmt.Fprintf(s.out, "The best %d centers of the universe based on average separation are: \n", n)
		printScores(s.out, separation.Best(s.ranking, n))
		return nil
	}
	fmt.Fprintf(s.out, "The worst %d centers of the universe based on average separation are: \n", -n)
	printScores(s.out, separation.Worst(s.ranking, -n))
	return nil
}

func (s *Shell) degrees() error {
	low, high, err := s.readRange("degree")
	if err != nil {
		return err
	}

	metrics.QueriesTotal.WithLabelValues("degrees").Inc()
	scores, err := separation.DegreeRange(s.sess.Graph(), low, high)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "The actors with degrees between %d and %d sorted from high to low are:\n", low, high)
	printScores(s.out, scores)
	return nil
}

func (s *Shell) unreachable() {
	metrics.QueriesTotal.WithLabelValues("unreachable").Inc()
	missing := s.sess.Unreachable()
	fmt.Fprintf(s.out, "These %d actors are unreachable by %s: [%s]\n",
		len(missing), s.sess.Center(), strings.Join(missing, ", "))
}

func (s *Shell) path() error {
	fmt.Fprintf(s.out, "Enter name to find path from actor to %s\n", s.sess.Center())

	for {
		name, err := s.readLine()
		if err != nil {
			return err
		}

		metrics.QueriesTotal.WithLabelValues("path").Inc()
		result, err := s.sess.PathTo(name)
		switch {
		case errors.Is(err, session.ErrUnknownActor):
			fmt.Fprintf(s.out, "Can't find actor %s. Please try again\n", name)
			s.suggest(name)
			continue
		case errors.Is(err, session.ErrUnreachable):
			fmt.Fprintf(s.out, "%s is unreachable. Please try again.\n", name)
			continue
		case err != nil:
			return err
		}

		fmt.Fprintf(s.out, "%s's number is %d\n", result.Actor, result.Number)
		for _, hop := range result.Hops {
			fmt.Fprintf(s.out, "%s appeared in [%s] with %s\n", hop.From, strings.Join(hop.Movies, ", "), hop.To)
		}
		return nil
	}
}

func (s *Shell) separationRange() error {
	low, high, err := s.readRange("separation")
	if err != nil {
		return err
	}

	metrics.QueriesTotal.WithLabelValues("separation").Inc()
	scores, err := s.sess.SeparationRange(low, high)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "The actors with separation from %s between %d and %d sorted from low to high are:\n",
		s.sess.Center(), low, high)
	printScores(s.out, scores)
	return nil
}

func (s *Shell) newCenter() error {
	fmt.Fprintln(s.out, "Enter name for new center of universe.")

	for {
		name, err := s.readLine()
		if err != nil {
			return err
		}

		metrics.QueriesTotal.WithLabelValues("center").Inc()
		sum, err := s.sess.SetCenter(name)
		if errors.Is(err, session.ErrUnknownActor) {
			fmt.Fprintf(s.out, "Can't find actor %s. Please try again\n", name)
			s.suggest(name)
			continue
		}
		if err != nil {
			return err
		}

		s.log.WithFields(logrus.Fields{
			"center":    sum.Center,
			"connected": sum.Connected,
		}).Debug("center changed")
		fmt.Fprintf(s.out, "%s is the new center of the universe, connected to %d/%d actors with average separation %v\n",
			sum.Center, sum.Connected, sum.Total, sum.AverageSeparation)
		return nil
	}
}

func (s *Shell) suggest(name string) {
	if s.names == nil {
		s.names = s.sess.Graph().Vertices().ToSlice()
	}
	if hints := actor.Suggest(s.names, name, maxSuggestions); len(hints) > 0 {
		fmt.Fprintf(s.out, "Did you mean: %s?\n", strings.Join(hints, ", "))
	}
}

// readRange prompts for a lower and upper bound until low <= high.
func (s *Shell) readRange(what string) (int, int, error) {
	for {
		low, err := s.readInt(fmt.Sprintf("Enter lower bound for %s", what))
		if err != nil {
			return 0, 0, err
		}
		high, err := s.readInt(fmt.Sprintf("Enter upper bound for %s", what))
		if err != nil {
			return 0, 0, err
		}
		if low <= high {
			return low, high, nil
		}
		fmt.Fprintln(s.out, "Lower bound cannot be above upper bound, try again")
	}
}

// readInt prints prompt and reads lines until one parses as an integer.
func (s *Shell) readInt(prompt string) (int, error) {
	fmt.Fprintln(s.out, prompt)
	for {
		line, err := s.readLine()
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil {
			return n, nil
		}
		fmt.Fprintf(s.out, "%q is not a whole number, try again\n", line)
	}
}

func (s *Shell) readLine() (string, error) {
	line, err := s.in.ReadLine()
	if errors.Is(err, io.EOF) {
		return "", errEndOfInput
	}
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return line, nil
}

func printScores(w io.Writer, scores []separation.Score) {
	for _, sc := range scores {
		fmt.Fprintf(w, "%s=%v\n", sc.Name, sc.Value)
	}
}
