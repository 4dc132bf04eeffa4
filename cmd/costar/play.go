package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/costar/internal/shell"
)

func init() {
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the Kevin Bacon game interactively",
	Long: `Start an interactive session centered on the configured actor.

Commands are single letters read one per line: c, d, i, p, s, u, h, and q.
Type h for the list.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	a := mustSetup()
	g := mustLoadGraph(a)
	sess := mustSession(a, g, "")

	sum := sess.Summary()
	outputHuman("%s is the center of the universe, connected to %d/%d actors with average separation %v\n",
		sum.Center, sum.Connected, sum.Total, sum.AverageSeparation)

	return shell.New(sess, shell.NewInputReader(os.Stdin, os.Stdout, shell.DefaultHistory), os.Stdout, a.log, a.cfg.Workers).Run(cmd.Context())
}
