package cmd

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dice-sim/dice-sim/sim"
	"github.com/dice-sim/dice-sim/sim/trace"
)

var rollTimes int // Number of traced rolls

// rollCmd rolls an expression a few times, printing every intermediate node
var rollCmd = &cobra.Command{
	Use:   "roll",
	Short: "Roll a dice expression verbosely",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging(logLevel)

		sc, err := buildScenario(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		expr, err := sc.Expression()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(sc.Seed)).ForSubsystem(sim.SubsystemRoll)
		rollVerbose(os.Stdout, expr, rollTimes, rng)
	},
}

// rollVerbose rolls expr n times, writing each roll's node records and a
// closing summary. Records also go to logrus at debug level.
func rollVerbose(w io.Writer, expr sim.Rollable, n int, rng *rand.Rand) *trace.TraceSummary {
	rt := trace.NewRollTrace(trace.TraceLevelRolls)
	rec := sim.TeeRecorder(rt.Recorder(), sim.NewLogRecorder(logrus.StandardLogger()))

	_, _ = fmt.Fprintf(w, "=== %s ===\n", sim.Describe(expr))
	for i := 0; i < n; i++ {
		start := len(rt.Records)
		total := expr.Roll(rng, rec)
		_, _ = fmt.Fprintf(w, "roll %d: %d\n", i+1, total)
		for _, r := range rt.Records[start:] {
			writeRecord(w, r)
		}
	}

	summary := trace.Summarize(rt)
	writeTraceSummary(w, summary)
	return summary
}

func writeRecord(w io.Writer, r trace.RollRecord) {
	switch r.Kind {
	case trace.KindDie:
		_, _ = fmt.Fprintf(w, "    %-6s -> %d\n", r.Expression, r.Value)
	case trace.KindDecision:
		verdict := "miss"
		if r.Triggered {
			verdict = "hit"
		}
		_, _ = fmt.Fprintf(w, "  %s: trigger %d (%s) -> %d\n", r.Expression, r.Trigger, verdict, r.Value)
	default:
		_, _ = fmt.Fprintf(w, "  %s -> %d\n", r.Expression, r.Value)
	}
}

func writeTraceSummary(w io.Writer, s *trace.TraceSummary) {
	_, _ = fmt.Fprintf(w, "--- %d dice rolled", s.DiceRolled)
	if s.Decisions > 0 {
		_, _ = fmt.Fprintf(w, ", %d/%d decisions triggered (%.0f%%)", s.TriggeredCount, s.Decisions, s.TriggerRate*100)
	}
	_, _ = fmt.Fprintln(w)

	sides := make([]int, 0, len(s.FaceCounts))
	for k := range s.FaceCounts {
		sides = append(sides, k)
	}
	sort.Ints(sides)
	for _, k := range sides {
		_, _ = fmt.Fprintf(w, "    d%d x%d\n", k, s.FaceCounts[k])
	}
}

func init() {
	addExpressionFlags(rollCmd)
	rollCmd.Flags().IntVar(&rollTimes, "times", 1, "Number of rolls to trace")

	rootCmd.AddCommand(rollCmd)
}
