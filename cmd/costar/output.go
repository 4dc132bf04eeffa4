package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matsen/costar/internal/separation"
)

// ErrorResponse is the JSON body printed for failed commands.
type ErrorResponse struct {
	Error string `json:"error"`
}

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	writeMetricsFile()
	os.Exit(code)
}

// printScores prints one "name=value" line per score.
func printScores(scores []separation.Score) {
	for _, s := range scores {
		outputHuman("%s=%v\n", s.Name, s.Value)
	}
}
