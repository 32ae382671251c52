package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dice-sim/dice-sim/sim"
)

// sanitizeCmd filters raw input down to valid dice notation
var sanitizeCmd = &cobra.Command{
	Use:   "sanitize [text...]",
	Short: "Filter text to the accepted prefix of dice notation",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintln(os.Stdout, sim.Sanitize(strings.Join(args, "")))
	},
}

// describeCmd parses notation and prints its canonical form
var describeCmd = &cobra.Command{
	Use:   "describe [text...]",
	Short: "Parse dice notation and print its canonical form",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		describe(os.Stdout, strings.Join(args, " "))
	},
}

func describe(w io.Writer, text string) {
	set := sim.ParseDiceSet(text)
	_, _ = fmt.Fprintf(w, "%s (dice=%d, offset=%d, max=%d)\n", sim.Describe(set), set.Len(), set.Offset(), set.Max())
}

func init() {
	rootCmd.AddCommand(sanitizeCmd)
	rootCmd.AddCommand(describeCmd)
}
